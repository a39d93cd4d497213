package dte

// TextBuffer owns the block list, the views onto it, the change graph, the
// highlighter's line-start cache, and per-buffer options.
type TextBuffer struct {
	blocks *blockList
	views  []*View

	changeHead  Change // sentinel root, embedded per
	curChange   *Change
	savedChange *Change

	// Global mutable state in the source (change_merge, prev_change_merge,
	// change_barrier) is re-expressed as buffer-local fields, per the
	// "EditSession" design note.
	changeMerge     ChangeMerge
	prevChangeMerge ChangeMerge
	pendingBarrier  *Change // unattached chain-start barrier, if any
	chainDepth      int

	nl int // total newline count, == blocks.totalNewlines()

	Options Options

	Syn *Syntax // non-owning reference to a registered Syntax, or nil

	lineStartStates []State            // line_start_states[row], cache sized to nl+1
	hlSide          map[int]*ScanState // heredoc/subsyntax context for rows that need more than a bare *State

	changedLineMin, changedLineMax int // dirty range, -1 when clean

	id           int
	AbsPath      string
	DisplayName  string
}

var nextBufferID int

// NewTextBuffer creates a buffer with one empty block and default options.
func NewTextBuffer() *TextBuffer {
	nextBufferID++
	b := &TextBuffer{
		blocks:         newBlockList(),
		Options:        DefaultOptions(),
		id:             nextBufferID,
		changedLineMin: -1,
		changedLineMax: -1,
	}
	b.changeHead = Change{} // next == nil, prev == nil children
	b.curChange = &b.changeHead
	b.savedChange = &b.changeHead
	b.lineStartStates = []State{startStateSentinel}
	return b
}

// ID returns the buffer's unique id.
func (b *TextBuffer) ID() int { return b.id }

// NewLineCount returns the buffer's cached newline count.
func (b *TextBuffer) NewLineCount() int { return b.nl }

// LineCount returns the number of lines in the buffer (nl+1, since the
// last line may lack a trailing newline only transiently during an edit).
func (b *TextBuffer) LineCount() int { return b.nl + 1 }

// Modified reports whether the buffer differs from the last saved change.
func (b *TextBuffer) Modified() bool { return b.curChange != b.savedChange }

// MarkSaved records the current change node as matching on-disk contents.
func (b *TextBuffer) MarkSaved() { b.savedChange = b.curChange }

// Views returns the buffer's views.
func (b *TextBuffer) Views() []*View { return b.views }

// SetSyntax attaches (or detaches, with nil) a syntax definition and
// schedules a full rehighlight. Callers that got a non-nil error from
// Syntax.Compile should call SetSyntax(nil) instead of attaching the
// broken definition.
func (b *TextBuffer) SetSyntax(syn *Syntax) {
	b.Syn = syn
	b.hlSide = nil
	b.markAllLinesChangedForSyntax()
	if syn != nil {
		b.rescanAllFrom(0)
	}
}

// markLinesChanged extends the dirty range to include [lo, hi].
func (b *TextBuffer) markLinesChanged(lo, hi int) {
	if lo < 0 {
		lo = 0
	}
	if b.changedLineMin < 0 || lo < b.changedLineMin {
		b.changedLineMin = lo
	}
	if hi > b.changedLineMax {
		b.changedLineMax = hi
	}
}

// markAllLinesChanged marks the whole buffer dirty (used by a full
// rehighlight, or by callers that can't compute a tight range).
func (b *TextBuffer) markAllLinesChanged() {
	b.markLinesChanged(0, b.LineCount()-1)
}

// TakeDirtyRange returns and clears the current dirty range.
func (b *TextBuffer) TakeDirtyRange() (lo, hi int, dirty bool) {
	if b.changedLineMin < 0 {
		return 0, 0, false
	}
	lo, hi = b.changedLineMin, b.changedLineMax
	b.changedLineMin, b.changedLineMax = -1, -1
	return lo, hi, true
}

// Text returns the full buffer contents as a byte slice (for tests and the
// demo driver; production code should prefer streaming via iterators).
func (b *TextBuffer) Text() []byte {
	var out []byte
	for blk := b.blocks.first(); !b.blocks.isSentinel(blk); blk = blk.next {
		out = append(out, blk.data...)
	}
	return out
}

// fixupSiblingCursors applies the sibling-view fix-up rule to every view
// other than `exclude` after an edit spanning byte offsets [o, o+del) that
// inserted ins bytes.
func (b *TextBuffer) fixupSiblingCursors(exclude *View, o int64, del, ins int) {
	delta := int64(ins - del)
	for _, v := range b.views {
		if v == exclude {
			continue
		}
		cur := v.Offset()
		switch {
		case cur <= o:
			// unchanged
		case cur >= o+int64(del):
			v.SetOffset(cur + delta)
		default:
			v.SetOffset(o)
		}
	}
}
