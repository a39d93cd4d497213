package dte

import "testing"

func newViewBuffer(t *testing.T, text string) (*TextBuffer, *View) {
	t.Helper()
	buf := NewTextBuffer()
	v := NewView(buf)
	buf.InsertBytes(v, []byte(text))
	v.SetOffset(0)
	return buf, v
}

func TestNewViewStartsAtBOF(t *testing.T) {
	_, v := newViewBuffer(t, "abc\n")
	if v.Offset() != 0 {
		t.Errorf("expected a fresh view at offset 0, got %d", v.Offset())
	}
}

func TestSetOffsetRecomputesColumns(t *testing.T) {
	_, v := newViewBuffer(t, "ab\tcd\n")
	v.SetOffset(3) // just past the tab
	if v.cxChar != 3 {
		t.Errorf("expected cxChar 3, got %d", v.cxChar)
	}
	if v.cxDisplay != 8 {
		t.Errorf("expected cxDisplay at the next tab stop (8), got %d", v.cxDisplay)
	}
}

func TestMoveRightAdvancesColumnsAndRow(t *testing.T) {
	_, v := newViewBuffer(t, "ab\ncd\n")
	v.MoveRight()
	v.MoveRight()
	if v.cxChar != 2 || v.cy != 0 {
		t.Fatalf("expected cxChar=2 cy=0 after two moves, got cxChar=%d cy=%d", v.cxChar, v.cy)
	}
	v.MoveRight() // steps over the newline
	if v.cy != 1 || v.cxChar != 0 {
		t.Errorf("expected to land on row 1 col 0 after crossing a newline, got row=%d col=%d", v.cy, v.cxChar)
	}
}

func TestMoveLeftRetreatsColumnsAndRow(t *testing.T) {
	_, v := newViewBuffer(t, "ab\ncd\n")
	v.SetOffset(3) // 'c' on the second line
	v.MoveLeft()
	if v.cy != 0 {
		t.Errorf("expected MoveLeft across a newline to land on row 0, got %d", v.cy)
	}
}

func TestMoveRightAtEOFIsNoOp(t *testing.T) {
	buf, v := newViewBuffer(t, "a\n")
	v.SetOffset(int64(len("a\n")))
	before := v.Offset()
	v.MoveRight()
	if v.Offset() != before {
		t.Errorf("expected MoveRight at EOF to be a no-op, got offset %d", v.Offset())
	}
	_ = buf
}

func TestSiblingViewsFixUpOnEdit(t *testing.T) {
	buf, v1 := newViewBuffer(t, "abcdef\n")
	v2 := NewView(buf)
	v2.SetOffset(5) // sits after the insertion point below

	v1.SetOffset(2)
	buf.InsertBytes(v1, []byte("XY"))

	if v2.Offset() != 7 {
		t.Errorf("expected sibling view to shift by the inserted length, got %d", v2.Offset())
	}
}

func TestSiblingViewInsideEditedRangeClampsToEditStart(t *testing.T) {
	buf, v1 := newViewBuffer(t, "abcdef\n")
	v2 := NewView(buf)
	v2.SetOffset(3) // inside the range that v1 is about to delete

	v1.SetOffset(1)
	buf.DeleteBytes(v1, 4) // deletes offsets [1,5)

	if v2.Offset() != 1 {
		t.Errorf("expected sibling view inside the deleted range to clamp to the edit start, got %d", v2.Offset())
	}
}

func TestSelectionRangeCharsIsInclusiveOfCursorCodepoint(t *testing.T) {
	_, v := newViewBuffer(t, "abcdef\n")
	v.SetOffset(1)
	v.StartSelection(SelectionChars)
	v.SetOffset(3)
	start, end, ok := v.SelectionRange()
	if !ok {
		t.Fatal("expected an active selection")
	}
	if start != 1 || end != 4 {
		t.Errorf("expected [1,4) inclusive of the cursor codepoint, got [%d,%d)", start, end)
	}
}

func TestSelectionRangeLinesSnapsToLineBoundaries(t *testing.T) {
	_, v := newViewBuffer(t, "one\ntwo\nthree\n")
	v.SetOffset(1) // inside "one"
	v.StartSelection(SelectionLines)
	v.SetOffset(5) // inside "two"
	start, end, ok := v.SelectionRange()
	if !ok {
		t.Fatal("expected an active selection")
	}
	if start != 0 || end != int64(len("one\ntwo\n")) {
		t.Errorf("expected the selection snapped to whole lines [0,%d), got [%d,%d)", len("one\ntwo\n"), start, end)
	}
}

func TestSelectionRangeReversedAnchorNormalizes(t *testing.T) {
	_, v := newViewBuffer(t, "abcdef\n")
	v.SetOffset(4)
	v.StartSelection(SelectionChars)
	v.SetOffset(1) // cursor moved before the anchor
	start, end, ok := v.SelectionRange()
	if !ok {
		t.Fatal("expected an active selection")
	}
	if start != 1 || end != 5 {
		t.Errorf("expected the range normalized regardless of anchor/cursor order, got [%d,%d)", start, end)
	}
}

func TestClearSelectionDropsRange(t *testing.T) {
	_, v := newViewBuffer(t, "abc\n")
	v.StartSelection(SelectionChars)
	v.ClearSelection()
	if _, _, ok := v.SelectionRange(); ok {
		t.Error("expected no active selection after ClearSelection")
	}
}
