package dte

import "testing"

func TestAppendHexEscape(t *testing.T) {
	got := string(AppendHexEscape(nil, 0x1b))
	if got != "<1B>" {
		t.Errorf("expected <1B>, got %q", got)
	}
}

func TestIsControlByte(t *testing.T) {
	cases := []struct {
		b    byte
		want bool
	}{
		{0x00, true}, {0x1f, true}, {0x7f, true},
		{0x20, false}, {'a', false}, {0xff, false},
	}
	for _, c := range cases {
		if got := IsControlByte(c.b); got != c.want {
			t.Errorf("IsControlByte(%#x) = %v, want %v", c.b, got, c.want)
		}
	}
}

func TestCaretNotation(t *testing.T) {
	if got := CaretNotation(0x01); got != [2]byte{'^', 'A'} {
		t.Errorf("expected ^A, got %q", got)
	}
	if got := CaretNotation(0x7f); got != [2]byte{'^', '?'} {
		t.Errorf("expected ^?, got %q", got)
	}
}

func TestDecodeRuneASCII(t *testing.T) {
	cp, n := DecodeRune([]byte("a"))
	if n != 1 || cp.Rune != 'a' || cp.Width != 1 {
		t.Errorf("expected 'a' width 1 n 1, got rune=%q width=%d n=%d", cp.Rune, cp.Width, n)
	}
}

func TestDecodeRuneControlByteGetsHexEscapeWidth(t *testing.T) {
	cp, n := DecodeRune([]byte{0x01})
	if n != 1 || cp.Width != 4 {
		t.Errorf("expected width 4 n 1 for a control byte, got width=%d n=%d", cp.Width, n)
	}
}

func TestDecodeRuneMultibyte(t *testing.T) {
	cp, n := DecodeRune([]byte("é"))
	if n != 2 || cp.Rune != 'é' {
		t.Errorf("expected 2-byte rune, got rune=%q n=%d", cp.Rune, n)
	}
}

func TestDecodeRuneInvalidLeadByteIsOneByteHexEscape(t *testing.T) {
	cp, n := DecodeRune([]byte{0xff})
	if n != 1 || cp.Width != 4 {
		t.Errorf("expected an invalid lead byte treated as one byte width 4, got width=%d n=%d", cp.Width, n)
	}
}

func TestDecodeRuneEmptyInput(t *testing.T) {
	_, n := DecodeRune(nil)
	if n != 0 {
		t.Errorf("expected 0 bytes consumed for empty input, got %d", n)
	}
}

func TestCodepointWidthTabReportsZero(t *testing.T) {
	if w := CodepointWidth('\t'); w != 0 {
		t.Errorf("expected tab width 0 (expanded separately), got %d", w)
	}
}

func TestCodepointWidthControlIsFour(t *testing.T) {
	if w := CodepointWidth(0x01); w != 4 {
		t.Errorf("expected control codepoint width 4, got %d", w)
	}
}

func TestCodepointWidthOrdinaryIsOne(t *testing.T) {
	if w := CodepointWidth('a'); w != 1 {
		t.Errorf("expected ordinary codepoint width 1, got %d", w)
	}
}

func TestStringWidthSumsCodepoints(t *testing.T) {
	if w := StringWidth("abc"); w != 3 {
		t.Errorf("expected width 3, got %d", w)
	}
}

func TestNextTabStopFromZero(t *testing.T) {
	if got := NextTabStop(0, 8); got != 8 {
		t.Errorf("expected 8, got %d", got)
	}
}

func TestNextTabStopMidStop(t *testing.T) {
	if got := NextTabStop(3, 8); got != 8 {
		t.Errorf("expected 8, got %d", got)
	}
}

func TestNextTabStopAtBoundaryAdvancesAFullStop(t *testing.T) {
	if got := NextTabStop(8, 8); got != 16 {
		t.Errorf("expected the next full stop (16), got %d", got)
	}
}

func TestNextTabStopZeroWidthDefaultsToEight(t *testing.T) {
	if got := NextTabStop(0, 0); got != 8 {
		t.Errorf("expected a non-positive tabWidth to default to 8, got %d", got)
	}
}
