package dte

import "bytes"

// BlockIter is a cursor into a block list, addressed as (block, offset)
// with 0 <= offset <= block.size(). All motion goes through the methods
// below; callers never walk block.data by hand.
type BlockIter struct {
	list   *blockList
	block  *Block
	offset int
}

func newBlockIter(list *blockList, block *Block, offset int) BlockIter {
	return BlockIter{list: list, block: block, offset: offset}
}

// Normalize brings the iterator into normalized form: if offset == size
// and a next block exists, advance to (next, 0).
func (it *BlockIter) Normalize() {
	for it.offset == it.block.size() && it.block.next != &it.list.head {
		it.block = it.block.next
		it.offset = 0
	}
}

// AtEOF reports whether the iterator is positioned at the very end of the
// buffer (no bytes remain in this or any following block).
func (it *BlockIter) AtEOF() bool {
	b, off := it.block, it.offset
	for {
		if off < b.size() {
			return false
		}
		if b.next == &it.list.head {
			return true
		}
		b = b.next
		off = 0
	}
}

// AtBOF reports whether the iterator is positioned at the very start of
// the buffer.
func (it *BlockIter) AtBOF() bool {
	return it.offset == 0 && it.block.prev == &it.list.head
}

// NextByte returns the byte immediately after the iterator, and whether
// one exists.
func (it *BlockIter) NextByte() (byte, bool) {
	b, off := it.block, it.offset
	for off >= b.size() {
		if b.next == &it.list.head {
			return 0, false
		}
		b = b.next
		off = 0
	}
	return b.data[off], true
}

// PrevByte returns the byte immediately before the iterator, and whether
// one exists.
func (it *BlockIter) PrevByte() (byte, bool) {
	b, off := it.block, it.offset
	for off == 0 {
		if b.prev == &it.list.head {
			return 0, false
		}
		b = b.prev
		off = b.size()
	}
	return b.data[off-1], true
}

// NextChar advances the iterator by one codepoint, returning the decoded
// codepoint and the number of bytes moved. Saturates at EOF (returns a
// zero Codepoint and 0 moved).
func (it *BlockIter) NextChar() (Codepoint, int) {
	var scratch [4]byte
	n := it.peekBytes(scratch[:])
	if n == 0 {
		return Codepoint{}, 0
	}
	cp, size := DecodeRune(scratch[:n])
	if size == 0 {
		return Codepoint{}, 0
	}
	it.advanceBytes(size)
	return cp, size
}

// PrevChar retreats the iterator by one codepoint. Because UTF-8 continuation
// bytes (0x80-0xBF) are unambiguous, walking backward one byte at a time
// until a non-continuation byte (or a hard stop) is found recovers the
// lead byte, then NextChar-style decoding confirms the width.
func (it *BlockIter) PrevChar() (Codepoint, int) {
	start := *it
	n := 0
	for n < 4 {
		b, ok := it.PrevByte()
		if !ok {
			break
		}
		it.retreatBytes(1)
		n++
		if b&0xC0 != 0x80 { // not a continuation byte: found the lead
			break
		}
	}
	if n == 0 {
		return Codepoint{}, 0
	}
	var scratch [4]byte
	m := it.peekBytes(scratch[:n])
	cp, size := DecodeRune(scratch[:m])
	if size != n {
		// Malformed sequence: treat only the single byte just before the
		// iterator as consumed.
		*it = start
		it.retreatBytes(1)
		b, _ := it.NextByte()
		return Codepoint{Rune: rune(b), Width: 4}, 1
	}
	return cp, n
}

// peekBytes copies up to len(dst) bytes starting at the iterator into dst
// without moving it, returning the number copied.
func (it *BlockIter) peekBytes(dst []byte) int {
	b, off := it.block, it.offset
	n := 0
	for n < len(dst) {
		if off >= b.size() {
			if b.next == &it.list.head {
				break
			}
			b = b.next
			off = 0
			continue
		}
		dst[n] = b.data[off]
		n++
		off++
	}
	return n
}

func (it *BlockIter) advanceBytes(n int) {
	for n > 0 {
		remain := it.block.size() - it.offset
		if remain == 0 {
			if it.block.next == &it.list.head {
				return
			}
			it.block = it.block.next
			it.offset = 0
			continue
		}
		step := remain
		if step > n {
			step = n
		}
		it.offset += step
		n -= step
	}
}

func (it *BlockIter) retreatBytes(n int) {
	for n > 0 {
		if it.offset == 0 {
			if it.block.prev == &it.list.head {
				return
			}
			it.block = it.block.prev
			it.offset = it.block.size()
			continue
		}
		step := it.offset
		if step > n {
			step = n
		}
		it.offset -= step
		n -= step
	}
}

// NextLine advances to just past the next '\n' (or to EOF if none remains).
// Returns the number of bytes traversed.
func (it *BlockIter) NextLine() int {
	moved := 0
	for {
		b, ok := it.NextByte()
		if !ok {
			return moved
		}
		it.advanceBytes(1)
		moved++
		if b == '\n' {
			return moved
		}
	}
}

// BOL retreats to the start of the current line.
func (it *BlockIter) BOL() int {
	moved := 0
	for {
		b, ok := it.PrevByte()
		if !ok || b == '\n' {
			return moved
		}
		it.retreatBytes(1)
		moved++
	}
}

// PrevLine retreats to the start of the previous line (beyond the current
// one). Returns bytes traversed.
func (it *BlockIter) PrevLine() int {
	moved := it.BOL()
	if b, ok := it.PrevByte(); ok && b == '\n' {
		it.retreatBytes(1)
		moved++
		moved += it.BOL()
	}
	return moved
}

// ToOffset converts the iterator to an absolute byte offset by summing
// block sizes from the head.
func (it *BlockIter) ToOffset() int64 {
	var off int64
	for b := it.list.first(); b != it.block; b = b.next {
		off += int64(b.size())
	}
	return off + int64(it.offset)
}

// FromOffset walks the block list from the head to build an iterator at
// absolute byte offset off.
func FromOffset(list *blockList, off int64) BlockIter {
	b := list.first()
	for !list.isSentinel(b) && off > int64(b.size()) {
		off -= int64(b.size())
		b = b.next
	}
	if list.isSentinel(b) {
		b = list.head.prev
		off = int64(b.size())
	}
	it := newBlockIter(list, b, int(off))
	it.Normalize()
	return it
}

// bytesAhead returns up to n bytes starting at the iterator, crossing
// block boundaries as needed, without moving it.
func (it *BlockIter) bytesAhead(n int) []byte {
	out := make([]byte, 0, n)
	b, off := it.block, it.offset
	for len(out) < n {
		if off >= b.size() {
			if b.next == &it.list.head {
				break
			}
			b = b.next
			off = 0
			continue
		}
		end := b.size()
		if end-off > n-len(out) {
			end = off + (n - len(out))
		}
		out = append(out, b.data[off:end]...)
		off = end
	}
	return out
}

// lineBytes returns the bytes of the current line (from BOL through and
// including the trailing '\n', or to EOF), without moving it.
func (it *BlockIter) lineBytes() []byte {
	bol := *it
	bol.BOL()
	eol := bol
	eol.NextLine()
	n := int(eol.ToOffset() - bol.ToOffset())
	if n == 0 {
		return nil
	}
	return bol.bytesAhead(n)
}

// containsNewlineAhead reports whether any '\n' occurs within the next n
// bytes from it.
func (it *BlockIter) containsNewlineAhead(n int) bool {
	return bytes.IndexByte(it.bytesAhead(n), '\n') >= 0
}
