package dte

import (
	"bytes"
	"strings"
	"testing"
)

func newTestScreen(w, h int) (*Screen, *bytes.Buffer) {
	var out bytes.Buffer
	s := &Screen{
		width:  w,
		height: h,
		back:   NewCanvas(w, h),
		front:  NewCanvas(w, h),
		writer: &out,
	}
	return s, &out
}

func TestFlush(t *testing.T) {
	t.Run("only writes dirty rows", func(t *testing.T) {
		s, out := newTestScreen(10, 3)
		s.back.ClearDirtyFlags()
		s.back.Set(2, 1, Cell{Rune: 'X', Width: 1, Style: DefaultStyle()})

		s.Flush()
		s.FlushBuffer()

		if !strings.Contains(out.String(), "X") {
			t.Errorf("expected flush output to contain the changed cell, got %q", out.String())
		}
	})

	t.Run("does not repeat identical cells", func(t *testing.T) {
		s, _ := newTestScreen(10, 3)
		s.back.Set(0, 0, Cell{Rune: 'A', Width: 1, Style: DefaultStyle()})
		s.Flush()
		s.FlushBuffer()

		out2 := &bytes.Buffer{}
		s.writer = out2
		s.back.ClearDirtyFlags()
		s.Flush()
		s.FlushBuffer()

		if out2.Len() != 0 {
			t.Errorf("expected no output for an unchanged frame, got %q", out2.String())
		}
	})

	t.Run("skips placeholder cells from double-width runes", func(t *testing.T) {
		s, out := newTestScreen(10, 1)
		s.back.WriteString(0, 0, "世", DefaultStyle())
		s.Flush()
		s.FlushBuffer()

		if !strings.Contains(out.String(), "世") {
			t.Errorf("expected the wide rune itself to be flushed, got %q", out.String())
		}
	})
}

func TestFlushFull(t *testing.T) {
	s, out := newTestScreen(5, 2)
	s.back.WriteString(0, 0, "ab", DefaultStyle())
	s.FlushFull()

	output := out.String()
	if !strings.Contains(output, "\x1b[2J\x1b[H") {
		t.Error("expected a full clear-and-home sequence")
	}
	if !strings.Contains(output, "ab") {
		t.Error("expected buffer content in the full redraw")
	}
}

func TestWriteStyle(t *testing.T) {
	s, _ := newTestScreen(5, 1)
	var buf bytes.Buffer
	s.writeStyle(&buf, DefaultStyle().Bold().Foreground(Red))

	out := buf.String()
	if !strings.Contains(out, ";1") {
		t.Error("expected bold SGR code")
	}
	if !strings.Contains(out, ";31") {
		t.Error("expected basic red foreground SGR code")
	}
}

func TestWriteColorKeepFallsBackToDefault(t *testing.T) {
	s, _ := newTestScreen(5, 1)
	var buf bytes.Buffer
	s.writeColor(&buf, KeepColor(), true)

	if buf.String() != ";39" {
		t.Errorf("expected ColorKeep to render as the default fg code, got %q", buf.String())
	}
}

func TestBufferCursor(t *testing.T) {
	s, out := newTestScreen(10, 10)
	s.BufferCursor(3, 4, true, CursorBar)
	s.FlushBuffer()

	output := out.String()
	if !strings.Contains(output, "\x1b[6 q") {
		t.Error("expected DECSCUSR steady-bar shape sequence")
	}
	if !strings.Contains(output, "\x1b[5;4H") {
		t.Error("expected 1-indexed cursor position sequence")
	}
	if !strings.Contains(output, "\x1b[?25h") {
		t.Error("expected cursor-visible sequence")
	}
}
