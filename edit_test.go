package dte

import (
	"strings"
	"testing"
)

func newEditBuffer(t *testing.T) (*TextBuffer, *View) {
	t.Helper()
	buf := NewTextBuffer()
	v := NewView(buf)
	return buf, v
}

func TestInsertBytesAppendsTrailingNewlineAtEOF(t *testing.T) {
	buf, v := newEditBuffer(t)
	buf.InsertBytes(v, []byte("no newline"))
	if got := string(buf.Text()); got != "no newline\n" {
		t.Errorf("expected a synthetic trailing newline, got %q", got)
	}
}

func TestInsertBytesNoExtraNewlineWhenAlreadyPresent(t *testing.T) {
	buf, v := newEditBuffer(t)
	buf.InsertBytes(v, []byte("line\n"))
	if got := string(buf.Text()); got != "line\n" {
		t.Errorf("expected no extra newline, got %q", got)
	}
}

func TestInsertBytesMidBufferNoSyntheticNewline(t *testing.T) {
	buf, v := newEditBuffer(t)
	buf.InsertBytes(v, []byte("ac\n"))
	v.SetOffset(1)
	buf.InsertBytes(v, []byte("b"))
	if got := string(buf.Text()); got != "abc\n" {
		t.Errorf("expected %q, got %q", "abc\n", got)
	}
}

func TestDeleteBytesPreservesFinalTrailingNewline(t *testing.T) {
	buf, v := newEditBuffer(t)
	buf.InsertBytes(v, []byte("abc\n"))
	v.SetOffset(0)
	buf.DeleteBytes(v, 4) // would consume the only newline
	if got := string(buf.Text()); got != "\n" {
		t.Errorf("expected trailing newline preserved, got %q", got)
	}
}

func TestDeleteBytesMidLine(t *testing.T) {
	buf, v := newEditBuffer(t)
	buf.InsertBytes(v, []byte("abc\n"))
	v.SetOffset(0)
	buf.DeleteBytes(v, 1)
	if got := string(buf.Text()); got != "bc\n" {
		t.Errorf("expected %q, got %q", "bc\n", got)
	}
}

func TestEraseBytesBackspace(t *testing.T) {
	buf, v := newEditBuffer(t)
	buf.InsertBytes(v, []byte("abc\n"))
	v.SetOffset(3)
	buf.EraseBytes(v, 1)
	if got := string(buf.Text()); got != "ab\n" {
		t.Errorf("expected %q, got %q", "ab\n", got)
	}
	if v.Offset() != 2 {
		t.Errorf("expected cursor to retreat to 2, got %d", v.Offset())
	}
}

func TestReplaceBytes(t *testing.T) {
	buf, v := newEditBuffer(t)
	buf.InsertBytes(v, []byte("hello\n"))
	v.SetOffset(0)
	buf.ReplaceBytes(v, 5, []byte("bye"))
	if got := string(buf.Text()); got != "bye\n" {
		t.Errorf("expected %q, got %q", "bye\n", got)
	}
}

func TestReplaceBytesZeroDeleteActsAsInsert(t *testing.T) {
	buf, v := newEditBuffer(t)
	buf.InsertBytes(v, []byte("bc\n"))
	v.SetOffset(0)
	buf.ReplaceBytes(v, 0, []byte("a"))
	if got := string(buf.Text()); got != "abc\n" {
		t.Errorf("expected %q, got %q", "abc\n", got)
	}
}

func TestReplaceBytesEmptyDataActsAsDelete(t *testing.T) {
	buf, v := newEditBuffer(t)
	buf.InsertBytes(v, []byte("abc\n"))
	v.SetOffset(0)
	buf.ReplaceBytes(v, 1, nil)
	if got := string(buf.Text()); got != "bc\n" {
		t.Errorf("expected %q, got %q", "bc\n", got)
	}
}

func TestReplaceBytesStaysInPlaceOnOverlongSingleLineBlock(t *testing.T) {
	// A line longer than maxBlockSize with nowhere to split to occupies one
	// over-sized block (buf.nl <= 1). Replacing inside it with more
	// no-newline data must still go through the in-place path rather than
	// falling back to delete-then-insert, matching do_replace's OR'd
	// escape valve (size OK, or a single over-long line with no inserted
	// newlines).
	buf, v := newEditBuffer(t)
	long := strings.Repeat("x", maxBlockSize*2) + "\n"
	buf.InsertBytes(v, []byte(long))
	firstBlock := buf.blocks.head.next
	if firstBlock.nl > 1 {
		t.Fatalf("test setup invalid: expected a single over-long line, got nl=%d", firstBlock.nl)
	}

	v.SetOffset(10)
	replacement := strings.Repeat("y", maxBlockSize)
	buf.ReplaceBytes(v, 5, []byte(replacement))

	want := long[:10] + replacement + long[15:]
	if got := string(buf.Text()); got != want {
		t.Errorf("replacement text mismatch: got len %d, want len %d", len(got), len(want))
	}
	if err := buf.blocks.checkInvariants(); err != nil {
		t.Errorf("block list invariants violated: %v", err)
	}
}

func TestInsertBytesSplitsAcrossManyLines(t *testing.T) {
	buf, v := newEditBuffer(t)
	var data []byte
	for i := 0; i < 200; i++ {
		data = append(data, []byte("x\n")...)
	}
	buf.InsertBytes(v, data)
	if buf.LineCount() != 201 {
		t.Errorf("expected 201 lines, got %d", buf.LineCount())
	}
	if err := buf.blocks.checkInvariants(); err != nil {
		t.Errorf("block list invariants violated after large insert: %v", err)
	}
}
