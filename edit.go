package dte

import "bytes"

// doInsert is the do_insert primitive: insert bytes at view's
// (normalized) cursor, splitting the target block if it would grow past
// maxBlockSize, and keeping nl/dirty-range/highlighter state in sync.
// Returns the number of newlines inserted.
func doInsert(buf *TextBuffer, v *View, data []byte) int {
	if len(data) == 0 {
		return 0
	}
	v.cursor.Normalize()
	b := v.cursor.block
	off := v.cursor.offset

	nlInserted := bytes.Count(data, []byte{'\n'})

	if b.size()+len(data) <= maxBlockSize || cap(b.data) >= b.size()+len(data) {
		insertInPlace(b, off, data)
		// In-place path: advance the cursor manually.
		v.cursor.offset = off + len(data)
		v.cursor.Normalize()
	} else {
		// splitAndInsert unlinks b, leaving the cursor's block pointer stale;
		// take the absolute offset first and recompute the cursor from it.
		absOff := v.cursor.ToOffset()
		splitAndInsert(buf.blocks, b, off, data)
		v.cursor = FromOffset(buf.blocks, absOff+int64(len(data)))
	}

	buf.nl += nlInserted
	cy := v.cy
	if nlInserted > 0 {
		buf.markLinesChanged(cy, buf.LineCount()-1)
	} else {
		buf.markLinesChanged(cy, cy)
	}
	buf.hlInsert(cy, nlInserted)
	v.recomputeColumns()
	return nlInserted
}

// insertInPlace splices data into b.data at off, growing capacity as
// needed, and keeps b.nl in sync.
func insertInPlace(b *Block, off int, data []byte) {
	b.grow(b.size() + len(data))
	b.data = b.data[:b.size()+len(data)]
	copy(b.data[off+len(data):], b.data[off:len(b.data)-len(data)])
	copy(b.data[off:], data)
	b.nl += bytes.Count(data, []byte{'\n'})
}

// splitAndInsert inserts data at off inside b, then splits the combined
// result into whole-line sub-blocks of size <= maxBlockSize, except that a
// single over-long line is allowed to occupy one over-sized block.
func splitAndInsert(list *blockList, b *Block, off int, data []byte) {
	combined := make([]byte, 0, b.size()+len(data))
	combined = append(combined, b.data[:off]...)
	combined = append(combined, data...)
	combined = append(combined, b.data[off:]...)

	chunks := splitIntoLineChunks(combined, maxBlockSize)

	// Replace b in the list with the resulting chunks.
	prev := b.prev
	list.remove(b)
	at := prev
	for _, chunk := range chunks {
		nb := newBlock(len(chunk))
		nb.data = append(nb.data[:0], chunk...)
		nb.recountNewlines()
		list.insertAfter(at, nb)
		at = nb
	}
}

// splitIntoLineChunks partitions data into chunks of at most maxSize bytes,
// each chunk boundary falling on a newline, except a single line longer
// than maxSize gets its own oversized chunk.
func splitIntoLineChunks(data []byte, maxSize int) [][]byte {
	if len(data) == 0 {
		return [][]byte{data}
	}
	var chunks [][]byte
	start := 0
	chunkStart := 0
	for start < len(data) {
		nl := bytes.IndexByte(data[start:], '\n')
		var lineEnd int
		if nl < 0 {
			lineEnd = len(data)
		} else {
			lineEnd = start + nl + 1
		}
		if lineEnd-chunkStart > maxSize && lineEnd > start {
			// This single line alone exceeds maxSize relative to the
			// pending chunk: flush what's pending (if any) first.
			if chunkStart < start {
				chunks = append(chunks, data[chunkStart:start])
				chunkStart = start
			}
		}
		start = lineEnd
		if lineEnd-chunkStart >= maxSize {
			chunks = append(chunks, data[chunkStart:lineEnd])
			chunkStart = lineEnd
		}
	}
	if chunkStart < len(data) {
		chunks = append(chunks, data[chunkStart:])
	}
	if len(chunks) == 0 {
		chunks = append(chunks, data)
	}
	return chunks
}

// doDelete is the do_delete primitive: remove n bytes starting at
// view's (normalized) cursor, returning a freshly allocated copy of the
// deleted bytes. Blocks that become empty are freed (except the buffer's
// singleton empty block); a block left without a trailing newline is
// coalesced with its successor.
func doDelete(buf *TextBuffer, v *View, n int, sanityCheckNewlines bool) []byte {
	if n <= 0 {
		return nil
	}
	v.cursor.Normalize()
	cy := v.cy
	deleted := make([]byte, 0, n)

	b := v.cursor.block
	off := v.cursor.offset
	remaining := n
	for remaining > 0 {
		avail := b.size() - off
		take := avail
		if take > remaining {
			take = remaining
		}
		deleted = append(deleted, b.data[off:off+take]...)
		b.nl -= bytes.Count(b.data[off:off+take], []byte{'\n'})
		copy(b.data[off:], b.data[off+take:])
		b.data = b.data[:b.size()-take]
		remaining -= take

		if remaining == 0 {
			break
		}
		// Exhausted this block; move to the next and free this one unless
		// it's the buffer's singleton empty block.
		next := b.next
		if b.size() == 0 && !(buf.blocks.isSentinel(next) && buf.blocks.isSentinel(b.prev)) {
			buf.blocks.remove(b)
		}
		if buf.blocks.isSentinel(next) {
			break
		}
		b = next
		off = 0
	}

	// Coalesce: if the current block no longer ends in '\n' but a next
	// block exists, merge them.
	if b.size() > 0 && b.data[b.size()-1] != '\n' && !buf.blocks.isSentinel(b.next) {
		nxt := b.next
		b.grow(b.size() + nxt.size())
		b.data = append(b.data, nxt.data...)
		b.nl += nxt.nl
		buf.blocks.remove(nxt)
	} else if b.size() == 0 && buf.blocks.isSentinel(b.next) && buf.blocks.isSentinel(b.prev) {
		// singleton empty buffer: nothing to coalesce
	}

	v.cursor = newBlockIter(buf.blocks, b, off)
	if off > b.size() {
		v.cursor.offset = b.size()
	}
	v.cursor.Normalize()

	delNl := bytes.Count(deleted, []byte{'\n'})
	buf.nl -= delNl
	if delNl > 0 {
		buf.markLinesChanged(cy, buf.LineCount()-1)
	} else {
		buf.markLinesChanged(cy, cy)
	}
	buf.hlDelete(cy, delNl)
	v.recomputeColumns()
	_ = sanityCheckNewlines
	return deleted
}

// doReplace is the do_replace primitive. It stays in place whenever the
// result still fits the block's size threshold, or, as an escape valve,
// whenever the block already holds at most one line and the replacement
// introduces no newline of its own (an over-long single-line block has
// nowhere to split to anyway); otherwise it degrades to delete-then-insert
// (and must not sanity-check the trailing-newline invariant on the
// intermediate delete, since the following insert restores it).
func doReplace(buf *TextBuffer, v *View, delCount int, data []byte) ([]byte, int) {
	v.cursor.Normalize()
	cy := v.cy
	b := v.cursor.block
	off := v.cursor.offset

	sizeOK := b.size()-delCount+len(data) <= maxBlockSize
	fitsInPlace := off+delCount <= b.size() &&
		(sizeOK || (b.nl <= 1 && bytes.Count(data, []byte{'\n'}) == 0))

	if fitsInPlace {
		deleted := append([]byte{}, b.data[off:off+delCount]...)
		delNl := bytes.Count(deleted, []byte{'\n'})
		insNl := bytes.Count(data, []byte{'\n'})

		tail := append([]byte{}, b.data[off+delCount:]...)
		b.data = b.data[:off]
		b.data = append(b.data, data...)
		b.data = append(b.data, tail...)
		b.nl += insNl - delNl

		v.cursor.offset = off + len(data)
		v.cursor.Normalize()

		buf.nl += insNl - delNl
		if delNl == insNl {
			buf.markLinesChanged(cy, cy+delNl)
		} else {
			buf.markLinesChanged(cy, buf.LineCount()-1)
		}
		switch {
		case insNl > delNl:
			buf.hlInsert(cy, insNl-delNl)
		case delNl > insNl:
			buf.hlDelete(cy, delNl-insNl)
		default:
			buf.hlDelete(cy, 0)
		}
		v.recomputeColumns()
		return deleted, insNl
	}

	deleted := doDelete(buf, v, delCount, false)
	doInsert(buf, v, data)
	return deleted, bytes.Count(data, []byte{'\n'})
}

// rawDelete/rawInsert are do_delete/do_insert called directly, without
// recording a new Change or fixing up sibling cursors — used by
// TextBuffer.reverseChange (change.go), which already owns both concerns for
// the change being reversed.
func rawDelete(buf *TextBuffer, v *View, n int) []byte {
	return doDelete(buf, v, n, false)
}

func rawInsert(buf *TextBuffer, v *View, data []byte) {
	doInsert(buf, v, data)
}

// InsertBytes is the buffer_insert_bytes wrapper: if data doesn't
// end in '\n' and the cursor is at EOF, a synthetic '\n' is appended first
// to preserve the "whole lines per block" invariant, and the recorded
// insert length grows by one.
func (buf *TextBuffer) InsertBytes(v *View, data []byte) {
	if len(data) == 0 {
		return
	}
	atEOF := v.cursor.AtEOF()
	if data[len(data)-1] != '\n' && atEOF {
		data = append(append([]byte{}, data...), '\n')
	}
	offset := v.Offset()
	doInsert(buf, v, data)
	buf.recordInsert(offset, len(data))
	buf.fixupSiblingCursors(v, offset, 0, len(data))
}

// deleteSpan is the shared helper behind DeleteBytes/EraseBytes: it trims
// one byte from the deletion when the span would consume every newline
// through EOF and the byte immediately preceding the cursor is not '\n',
// to preserve the buffer's final trailing newline.
func (buf *TextBuffer) deleteSpan(v *View, n int) int {
	if n <= 0 {
		return 0
	}
	it := v.cursor
	it.Normalize()
	if it.containsNewlineAhead(n) {
		end := it
		end.advanceBytes(n)
		if end.AtEOF() {
			if prevByte, ok := it.PrevByte(); !ok || prevByte != '\n' {
				n--
			}
		}
	}
	return n
}

// DeleteBytes is the buffer_delete_bytes entry point (forward delete: the
// cursor does not move after undo).
func (buf *TextBuffer) DeleteBytes(v *View, n int) {
	n = buf.deleteSpan(v, n)
	if n <= 0 {
		return
	}
	offset := v.Offset()
	deleted := doDelete(buf, v, n, true)
	buf.recordDelete(offset, deleted)
	buf.fixupSiblingCursors(v, offset, len(deleted), 0)
}

// EraseBytes is the buffer_erase_bytes entry point (backspace: undoing the
// erase places the cursor after the re-inserted text, MoveAfter == true).
// n bytes are deleted ending at the cursor (i.e. the cursor moves back by
// n first).
func (buf *TextBuffer) EraseBytes(v *View, n int) {
	back := v.cursor
	back.retreatBytes(n)
	actualN := int(v.Offset() - back.ToOffset())
	if actualN <= 0 {
		return
	}
	v.cursor = back
	actualN = buf.deleteSpanForward(v, actualN)
	if actualN <= 0 {
		return
	}
	offset := v.Offset()
	deleted := doDelete(buf, v, actualN, true)
	buf.recordErase(offset, deleted)
	buf.fixupSiblingCursors(v, offset, len(deleted), 0)
}

// deleteSpanForward mirrors deleteSpan but the cursor has already been
// placed at the start of the span (erase's case, where the trim must be
// applied to the *end* byte rather than re-walking backward).
func (buf *TextBuffer) deleteSpanForward(v *View, n int) int {
	return buf.deleteSpan(v, n)
}

// ReplaceBytes is the buffer_replace_bytes entry point: short-circuits to
// insert-only or delete-only when either count is zero, and applies the
// same trailing-newline preservation rule as delete. The rule triggers
// only when the deletion would consume every newline through EOF *and*
// the replacement does not end in '\n'.
func (buf *TextBuffer) ReplaceBytes(v *View, delCount int, data []byte) {
	if delCount == 0 {
		buf.InsertBytes(v, data)
		return
	}
	if len(data) == 0 {
		buf.DeleteBytes(v, delCount)
		return
	}
	trimmedDel := delCount
	if len(data) == 0 || data[len(data)-1] != '\n' {
		trimmedDel = buf.deleteSpan(v, delCount)
	}
	offset := v.Offset()
	deleted, _ := doReplace(buf, v, trimmedDel, data)
	buf.recordReplace(offset, deleted, len(data))
	buf.fixupSiblingCursors(v, offset, len(deleted), len(data))
}
