package dte

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Codepoint is an unsigned scalar value together with the display width it
// occupies on a terminal grid. Width is one of {0, 1, 2, 4}; 4 marks the
// "<xx>" hex-escape form used for an unprintable byte.
type Codepoint struct {
	Rune  rune
	Width int
}

// hexDigits is used to render the "<xx>" escape for unprintable bytes.
const hexDigits = "0123456789ABCDEF"

// AppendHexEscape appends the "<xx>" form of b to dst and returns the result.
func AppendHexEscape(dst []byte, b byte) []byte {
	dst = append(dst, '<', hexDigits[b>>4], hexDigits[b&0xf], '>')
	return dst
}

// IsControlByte reports whether b is an ASCII control character (C0 or DEL).
func IsControlByte(b byte) bool {
	return b < 0x20 || b == 0x7f
}

// IsUnprintableByte reports whether b cannot be displayed directly and must
// be rendered through a caret/hex escape.
func IsUnprintableByte(b byte) bool {
	return IsControlByte(b)
}

// CaretNotation returns the two-character caret form of a C0 control byte
// ('^@' .. '^_') or the DEL caret ('^?'). The byte must satisfy
// IsControlByte.
func CaretNotation(b byte) [2]byte {
	if b == 0x7f {
		return [2]byte{'^', '?'}
	}
	return [2]byte{'^', b ^ 0x40}
}

// DecodeRune decodes the codepoint starting at s[0], returning the
// classified Codepoint and the number of bytes consumed. Invalid UTF-8 is
// never an error here: an invalid lead byte is treated as a one-byte
// codepoint of width 4, matching the buffer's "no invalid UTF-8 is an
// error" rule.
func DecodeRune(s []byte) (Codepoint, int) {
	if len(s) == 0 {
		return Codepoint{}, 0
	}
	b := s[0]
	if b < utf8.RuneSelf {
		if IsUnprintableByte(b) {
			return Codepoint{Rune: rune(b), Width: 4}, 1
		}
		return Codepoint{Rune: rune(b), Width: 1}, 1
	}
	r, size := utf8.DecodeRune(s)
	if r == utf8.RuneError && size <= 1 {
		// Invalid lead byte: one byte, hex-escape width.
		return Codepoint{Rune: rune(b), Width: 4}, 1
	}
	return Codepoint{Rune: r, Width: CodepointWidth(r)}, size
}

// CodepointWidth returns the display width of r: 0 for a tab and for
// combining marks and format characters, 4 (the "<xx>" escape width) for
// other C0 controls and DEL, 1 for ordinary text, 2 for East Asian
// wide/fullwidth characters. Delegates to go-runewidth's East Asian width
// tables for cell-width accounting.
func CodepointWidth(r rune) int {
	if r == '\t' {
		// Tabs are expanded by the caller; report 0 so generic width sums
		// don't double count before expansion.
		return 0
	}
	if r < 0x20 || r == 0x7f {
		return 4
	}
	return runewidth.RuneWidth(r)
}

// StringWidth returns the sum of CodepointWidth over s. Tabs count as 0;
// callers that need tab expansion use NextTabStop.
func StringWidth(s string) int {
	w := 0
	for _, r := range s {
		w += CodepointWidth(r)
	}
	return w
}

// NextTabStop returns the display column tabs advance to from cur, given
// tabWidth: next = (cur + tabWidth) / tabWidth * tabWidth.
func NextTabStop(cur, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 8
	}
	return (cur+tabWidth)/tabWidth*tabWidth
}
