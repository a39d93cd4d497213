package dte

// ChangeMerge classifies which kind of character-level edit produced a
// Change, for the consecutive-edit merging rule in. Only edits of the
// same, non-None kind merge into the graph tip.
type ChangeMerge uint8

const (
	MergeNone ChangeMerge = iota
	MergeInsert
	MergeDelete // forward delete (Delete key)
	MergeErase  // backspace
)

// Change records one elementary edit in the undo/redo DAG. A chain
// barrier is a Change with InsCount == DelCount == 0.
type Change struct {
	Offset   int64
	InsCount int
	DelCount int
	Buf      []byte // deleted bytes, len == DelCount, present iff DelCount > 0
	MoveAfter bool

	next *Change   // parent, toward change_head
	prev []*Change // children, toward redo
}

// IsBarrier reports whether c is a chain barrier node.
func (c *Change) IsBarrier() bool { return c.InsCount == 0 && c.DelCount == 0 }

// newChange appends a fresh node as a child of the buffer's current
// position and advances cur_change to it. Chain-merge decisions are made
// by the callers in edit.go, which is the only place that knows the
// concrete byte payload being recorded.
func (b *TextBuffer) newChange(offset int64, insCount, delCount int, delBuf []byte, moveAfter bool) *Change {
	c := &Change{
		Offset:    offset,
		InsCount:  insCount,
		DelCount:  delCount,
		MoveAfter: moveAfter,
	}
	if delCount > 0 {
		c.Buf = delBuf
	}
	b.attachPendingBarrier()
	c.next = b.curChange
	b.curChange.prev = append(b.curChange.prev, c)
	b.curChange = c
	return c
}

// attachPendingBarrier inserts a chain-start barrier immediately before the
// first real change recorded inside a chain, per: "The first
// real change created within the chain attaches the barrier to the graph
// immediately before itself."
func (b *TextBuffer) attachPendingBarrier() {
	if b.pendingBarrier == nil {
		return
	}
	bar := b.pendingBarrier
	b.pendingBarrier = nil
	bar.next = b.curChange
	b.curChange.prev = append(b.curChange.prev, bar)
	b.curChange = bar
}

// BeginChangeChain starts an atomic group of changes, generalizing a
// generation-counter double-buffer pattern (an atomic current/dirty pair)
// from "which screen half is live" to "which undo barrier brackets this
// group".
func (b *TextBuffer) BeginChangeChain() {
	b.chainDepth++
	if b.chainDepth == 1 {
		b.pendingBarrier = &Change{} // unattached until first real change
	}
}

// EndChangeChain closes the atomic group. If no changes were recorded
// inside it, the pending barrier is simply discarded; otherwise a trailing
// barrier is attached so undo/redo can find the far edge of the group.
func (b *TextBuffer) EndChangeChain() {
	if b.chainDepth == 0 {
		return
	}
	b.chainDepth--
	if b.chainDepth > 0 {
		return
	}
	if b.pendingBarrier != nil {
		// Nothing was recorded: discard silently.
		b.pendingBarrier = nil
		b.changeMerge = MergeNone
		return
	}
	trailing := &Change{next: b.curChange}
	b.curChange.prev = append(b.curChange.prev, trailing)
	b.curChange = trailing
	b.changeMerge = MergeNone
}

// endChangeBreak records that the current merge run has ended (a chain
// boundary or a non-character command), matching's end_change
// bookkeeping of prev_change_merge.
func (b *TextBuffer) endChangeBreak() {
	b.prevChangeMerge = b.changeMerge
	b.changeMerge = MergeNone
}

// recordInsert records (or merges into the tip) a pure insertion at
// offset..offset+insCount.
func (b *TextBuffer) recordInsert(offset int64, insCount int) {
	if b.canMergeInto(MergeInsert) {
		tip := b.curChange
		if tip.Offset+int64(tip.InsCount) == offset {
			tip.InsCount += insCount
			b.changeMerge = MergeInsert
			return
		}
	}
	b.newChange(offset, insCount, 0, nil, false)
	b.changeMerge = MergeInsert
}

// recordDelete records (or merges into the tip) a forward deletion,
// appending newly deleted bytes to the tip's buffer on merge.
func (b *TextBuffer) recordDelete(offset int64, delBuf []byte) {
	if b.canMergeInto(MergeDelete) {
		tip := b.curChange
		if tip.Offset == offset {
			tip.Buf = append(tip.Buf, delBuf...)
			tip.DelCount += len(delBuf)
			b.changeMerge = MergeDelete
			return
		}
	}
	b.newChange(offset, 0, len(delBuf), delBuf, false)
	b.changeMerge = MergeDelete
}

// recordErase records (or merges into the tip) a backspace deletion,
// prepending newly deleted bytes and moving the tip's offset back.
func (b *TextBuffer) recordErase(offset int64, delBuf []byte) {
	if b.canMergeInto(MergeErase) {
		tip := b.curChange
		if tip.Offset == offset+int64(len(delBuf)) {
			tip.Buf = append(append([]byte{}, delBuf...), tip.Buf...)
			tip.DelCount += len(delBuf)
			tip.Offset = offset
			b.changeMerge = MergeErase
			return
		}
	}
	b.newChange(offset, 0, len(delBuf), delBuf, true)
	b.changeMerge = MergeErase
}

// recordReplace records a combined insert+delete as a single change node;
// replace edits never merge with neighbors (only Insert/Delete/Erase are
// mergeable kinds).
func (b *TextBuffer) recordReplace(offset int64, delBuf []byte, insCount int) {
	b.newChange(offset, insCount, len(delBuf), delBuf, false)
	b.changeMerge = MergeNone
}

// canMergeInto reports whether the pending edit of kind can merge into the
// current tip: the previous and current merge kinds must be equal, and
// equal to kind, and the tip must not itself be a barrier.
func (b *TextBuffer) canMergeInto(kind ChangeMerge) bool {
	if b.pendingBarrier != nil {
		// A chain just opened; nothing to merge into yet.
		return false
	}
	if b.curChange.IsBarrier() {
		return false
	}
	return b.changeMerge == kind && b.prevChangeMerge == kind
}

// Undo reverses the change at cur_change and moves cur_change to its
// parent. If cur_change is itself sitting on a chain barrier, every change
// back to the next barrier is reversed atomically in this one call instead.
// Returns the number of elementary changes undone. Undoing at the graph
// root is a silent no-op.
func (b *TextBuffer) Undo(v *View) int {
	if b.curChange == &b.changeHead {
		return 0
	}
	change := b.curChange
	n := 0
	if change.IsBarrier() {
		for {
			change = change.next
			if change.IsBarrier() {
				break
			}
			b.reverseChange(v, change)
			n++
		}
	} else {
		b.reverseChange(v, change)
		n = 1
	}
	b.curChange = change.next
	b.changeMerge, b.prevChangeMerge = MergeNone, MergeNone
	return n
}

// Redo re-applies the n-th child (1-based, default newest) of cur_change,
// or the whole chain it opens. An out-of-range n is a user-visible error;
// n == 0 with no children is a silent no-op.
func (b *TextBuffer) Redo(v *View, n int) (int, error) {
	if len(b.curChange.prev) == 0 {
		return 0, nil
	}
	idx := len(b.curChange.prev) - 1 // default: newest
	if n > 0 {
		if n > len(b.curChange.prev) {
			return 0, &RedoRangeError{Requested: n, Available: len(b.curChange.prev)}
		}
		idx = n - 1
	}
	change := b.curChange.prev[idx]
	count := 0
	if change.IsBarrier() {
		for {
			change = change.prev[len(change.prev)-1]
			if change.IsBarrier() {
				break
			}
			b.reverseChange(v, change) // reverse-of-reverse re-applies the original edit
			count++
		}
	} else {
		b.reverseChange(v, change) // reverse-of-reverse re-applies the original edit
		count = 1
	}
	b.curChange = change
	b.changeMerge, b.prevChangeMerge = MergeNone, MergeNone
	return count, nil
}

// reverseChange applies the inverse of c in place, per:
// position at c.Offset, swap insert<->delete (or redo a replace in the
// opposite direction), and fix up sibling cursors.
func (b *TextBuffer) reverseChange(v *View, c *Change) {
	v.SetOffset(c.Offset)
	switch {
	case c.DelCount == 0: // pure insertion -> becomes a deletion
		deleted := rawDelete(b, v, c.InsCount)
		c.Buf = deleted
		c.DelCount, c.InsCount = c.InsCount, 0
		b.fixupSiblingCursors(v, c.Offset, c.DelCount, 0)
	case c.InsCount == 0: // pure deletion -> becomes an insertion
		rawInsert(b, v, c.Buf)
		if c.MoveAfter {
			v.SetOffset(c.Offset + int64(len(c.Buf)))
		}
		c.InsCount, c.DelCount = len(c.Buf), 0
		c.Buf = nil
		b.fixupSiblingCursors(v, c.Offset, 0, c.InsCount)
	default: // replace -> reverse replace
		captured := rawDelete(b, v, c.InsCount)
		oldBuf := c.Buf
		rawInsert(b, v, oldBuf)
		c.Buf = captured
		c.InsCount = len(oldBuf)
		c.DelCount = len(captured)
		b.fixupSiblingCursors(v, c.Offset, c.DelCount, c.InsCount)
	}
}
