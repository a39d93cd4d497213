package dte

// SelectionMode identifies how a View's selection anchor should be
// interpreted relative to the cursor.
type SelectionMode uint8

const (
	SelectionNone SelectionMode = iota
	SelectionChars
	SelectionLines
)

// View is one window's cursor and scroll state onto a shared TextBuffer.
// Multiple views may point at the same buffer; edits through one view fix
// up the cursors of every other.
//
// View holds a non-owning back-reference to its buffer, keeping "where
// the logical cursor is" (here) separate from "how it is drawn"
// (Cursor in screen.go).
type View struct {
	buf *TextBuffer

	cursor BlockIter

	cxChar    int // character column
	cxDisplay int // display column (tabs expanded)
	cy        int // line row

	preferredX int // target column for vertical motion; reset by char edits

	vx, vy int // top-left scroll offset

	selMode   SelectionMode
	selAnchor int64 // absolute byte offset of the selection anchor

	tabTitleWidth int
}

// NewView creates a view positioned at the start of buf, registering it so
// future edits through any sibling view fix this view's cursor up too.
func NewView(buf *TextBuffer) *View {
	v := &View{buf: buf, cursor: newBlockIter(buf.blocks, buf.blocks.first(), 0)}
	buf.views = append(buf.views, v)
	return v
}

// Buffer returns the view's parent buffer.
func (v *View) Buffer() *TextBuffer { return v.buf }

// Offset returns the view's cursor as an absolute byte offset.
func (v *View) Offset() int64 { return v.cursor.ToOffset() }

// SetOffset repositions the cursor at an absolute byte offset and
// recomputes cx/cy.
func (v *View) SetOffset(off int64) {
	v.cursor = FromOffset(v.buf.blocks, off)
	v.recomputeColumns()
}

// recomputeColumns walks back to BOL and forward to the cursor to derive
// cxChar/cxDisplay/cy from scratch. Called after any edit or jump that
// doesn't incrementally track columns.
func (v *View) recomputeColumns() {
	// Row: count newlines from the start of the buffer to the cursor.
	bol := v.cursor
	bol.BOL()
	v.cy = lineIndexAt(v.buf, bol.ToOffset())

	cxChar, cxDisplay := 0, 0
	cur := bol
	target := v.cursor.ToOffset()
	for cur.ToOffset() < target {
		cp, n := cur.NextChar()
		if n == 0 {
			break
		}
		cxChar++
		if cp.Rune == '\t' {
			cxDisplay = NextTabStop(cxDisplay, v.buf.Options.TabWidth)
		} else {
			cxDisplay += cp.Width
		}
	}
	v.cxChar = cxChar
	v.cxDisplay = cxDisplay
}

// lineIndexAt returns the 0-based row containing absolute offset off, by
// counting newlines strictly before it.
func lineIndexAt(buf *TextBuffer, off int64) int {
	var total int64
	row := 0
	for b := buf.blocks.first(); !buf.blocks.isSentinel(b); b = b.next {
		if total+int64(b.size()) >= off {
			// count newlines within this block up to off-total
			rel := int(off - total)
			for i := 0; i < rel && i < len(b.data); i++ {
				if b.data[i] == '\n' {
					row++
				}
			}
			return row
		}
		row += b.nl
		total += int64(b.size())
	}
	return row
}

// MoveRight advances the cursor by one character, updating preferredX.
func (v *View) MoveRight() {
	cp, n := v.cursor.NextChar()
	if n == 0 {
		return
	}
	v.cxChar++
	if cp.Rune == '\n' {
		v.cy++
		v.cxChar, v.cxDisplay = 0, 0
	} else if cp.Rune == '\t' {
		v.cxDisplay = NextTabStop(v.cxDisplay, v.buf.Options.TabWidth)
	} else {
		v.cxDisplay += cp.Width
	}
	v.preferredX = v.cxDisplay
}

// MoveLeft retreats the cursor by one character, updating preferredX.
func (v *View) MoveLeft() {
	start := v.cursor
	cp, n := v.cursor.PrevChar()
	if n == 0 {
		return
	}
	if cp.Rune == '\n' {
		v.cy--
		v.recomputeColumns()
	} else {
		_ = start
		v.cxChar--
		v.recomputeColumns()
	}
	v.preferredX = v.cxDisplay
}

// SelectionRange returns the normalized [start, end) byte offsets of the
// current selection, or (0, 0, false) if there is none.
func (v *View) SelectionRange() (start, end int64, ok bool) {
	if v.selMode == SelectionNone {
		return 0, 0, false
	}
	a, b := v.selAnchor, v.cursor.ToOffset()
	if a > b {
		a, b = b, a
	}
	if v.selMode == SelectionChars {
		// Inclusive of the cursor codepoint: extend end by one char width.
		it := FromOffset(v.buf.blocks, b)
		_, n := it.NextChar()
		b += int64(n)
	} else { // SelectionLines
		startIt := FromOffset(v.buf.blocks, a)
		startIt.BOL()
		a = startIt.ToOffset()
		endIt := FromOffset(v.buf.blocks, b)
		endIt.NextLine()
		b = endIt.ToOffset()
	}
	return a, b, true
}

// StartSelection begins a selection of the given mode anchored at the
// current cursor.
func (v *View) StartSelection(mode SelectionMode) {
	v.selMode = mode
	v.selAnchor = v.cursor.ToOffset()
}

// ClearSelection cancels any active selection.
func (v *View) ClearSelection() { v.selMode = SelectionNone }
