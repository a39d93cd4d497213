package dte

import (
	"bytes"
	"time"
	"unicode/utf8"
)

// KeyCode identifies a decoded key independent of its modifiers.
type KeyCode uint16

const (
	KeyNone KeyCode = iota
	KeyRune         // an ordinary codepoint, carried in Key.Rune
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyTab
	KeyEnter
	KeyBackspace
	KeyEscape
)

// Mod is a bitmask of modifier keys, OR-ed into a decoded Key.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModMeta
	ModCtrl
)

// Key is one decoded keypress.
type Key struct {
	Code KeyCode
	Rune rune // valid when Code == KeyRune
	Mods Mod
}

// EventKind distinguishes the two kinds of input events the decoder emits.
type EventKind uint8

const (
	EventKey EventKind = iota
	EventPaste
)

// Event is one decoded input event: a key or a bracketed/burst paste.
type Event struct {
	Kind  EventKind
	Key   Key
	Paste []byte
}

// escStatus is the outcome of trying to match an escape sequence against
// the bytes available so far.
type escStatus int

const (
	escMatched escStatus = iota
	escTruncated          // valid prefix of some sequence; need more bytes
	escNoMatch
)

// DefaultEscTimeout is how long the decoder waits after a lone ESC byte
// before giving up on a longer escape sequence and delivering it as the
// Escape key.
const DefaultEscTimeout = 50 * time.Millisecond

// Decoder turns a byte stream from a terminal in raw mode into Events,
// implementing the read-cycle algorithm: burst-paste detection, then
// CSI/SS3 escape parsing, then single-codepoint/control decoding.
type Decoder struct {
	buf        []byte
	inPaste    bool
	pasteBuf   []byte
	EscTimeout time.Duration
}

// NewDecoder returns a ready-to-use Decoder.
func NewDecoder() *Decoder {
	return &Decoder{EscTimeout: DefaultEscTimeout}
}

// Pending reports whether the decoder is holding an undecided partial
// sequence (e.g. a lone ESC, or an unterminated bracketed paste), for a
// caller deciding whether to arm the ESC disambiguation timer.
func (d *Decoder) Pending() bool {
	return len(d.buf) > 0 || d.inPaste
}

// Feed appends newly read bytes and decodes as many events as the buffered
// bytes allow, leaving any undecided partial sequence buffered for the next
// call (or for FlushTimeout).
func (d *Decoder) Feed(data []byte) []Event {
	d.buf = append(d.buf, data...)
	var events []Event

	for {
		if d.inPaste {
			const end = "\x1b[201~"
			if idx := bytes.Index(d.buf, []byte(end)); idx >= 0 {
				d.pasteBuf = append(d.pasteBuf, d.buf[:idx]...)
				d.buf = d.buf[idx+len(end):]
				events = append(events, Event{Kind: EventPaste, Paste: d.pasteBuf})
				d.pasteBuf = nil
				d.inPaste = false
				continue
			}
			d.pasteBuf = append(d.pasteBuf, d.buf...)
			d.buf = nil
			return events
		}

		if len(d.buf) == 0 {
			return events
		}

		if d.buf[0] != 0x1b && len(d.buf) > 4 && allPasteBytes(d.buf) {
			events = append(events, Event{Kind: EventPaste, Paste: append([]byte(nil), d.buf...)})
			d.buf = nil
			return events
		}

		if d.buf[0] == 0x1b {
			const begin = "\x1b[200~"
			if bytes.HasPrefix(d.buf, []byte(begin)) {
				d.inPaste = true
				d.buf = d.buf[len(begin):]
				continue
			}

			key, consumed, status := tryEscape(d.buf)
			switch status {
			case escMatched:
				events = append(events, Event{Kind: EventKey, Key: key})
				d.buf = d.buf[consumed:]
				continue
			case escTruncated:
				return events
			case escNoMatch:
				if consumed > 0 {
					// A complete CSI sequence with no key mapping: discard it.
					d.buf = d.buf[consumed:]
					continue
				}
				if len(d.buf) == 1 {
					return events // wait for FlushTimeout or more bytes
				}
				if len(d.buf) == 2 {
					// Exactly one follow-up byte: deliver it with Meta.
					k := translateControl(rune(d.buf[1]))
					k.Mods |= ModMeta
					events = append(events, Event{Kind: EventKey, Key: k})
					d.buf = d.buf[2:]
					continue
				}
				// More bytes follow but nothing matched: the ESC stands alone.
				events = append(events, Event{Kind: EventKey, Key: Key{Code: KeyEscape}})
				d.buf = d.buf[1:]
				continue
			}
		}

		r, size := utf8.DecodeRune(d.buf)
		if r == utf8.RuneError && size <= 1 {
			d.buf = d.buf[1:]
			continue
		}
		events = append(events, Event{Kind: EventKey, Key: translateControl(r)})
		d.buf = d.buf[size:]
	}
}

// FlushTimeout is called when the ESC disambiguation timer fires with no
// further bytes having arrived; it resolves a lone buffered ESC to the
// Escape key. Returns nil if there is nothing to resolve.
func (d *Decoder) FlushTimeout() *Event {
	if len(d.buf) == 1 && d.buf[0] == 0x1b {
		d.buf = nil
		return &Event{Kind: EventKey, Key: Key{Code: KeyEscape}}
	}
	return nil
}

// allPasteBytes reports whether every byte in b is printable ASCII, a tab,
// newline, carriage return, or part of non-ASCII UTF-8 text — the burst
// heuristic used to recognize an unbracketed multi-byte paste.
func allPasteBytes(b []byte) bool {
	for _, c := range b {
		switch {
		case c == '\t' || c == '\n' || c == '\r':
		case c >= 0x20 && c < 0x7f:
		case c >= 0x80:
		default:
			return false
		}
	}
	return true
}

// translateControl maps a decoded codepoint to a Key, recognizing the
// well-known C0 control bytes by name and folding the rest into
// Ctrl+letter.
func translateControl(r rune) Key {
	switch r {
	case '\t':
		return Key{Code: KeyTab}
	case '\r', '\n':
		return Key{Code: KeyEnter}
	case 0x7f:
		return Key{Code: KeyBackspace}
	}
	if r < 0x20 {
		base := r | 0x40
		if base >= 'A' && base <= 'Z' {
			base += 'a' - 'A'
		}
		return Key{Code: KeyRune, Rune: base, Mods: ModCtrl}
	}
	return Key{Code: KeyRune, Rune: r}
}

// tryEscape dispatches an ESC-prefixed buffer to the CSI or SS3 parser.
func tryEscape(buf []byte) (Key, int, escStatus) {
	if len(buf) < 2 {
		return Key{}, 0, escTruncated
	}
	switch buf[1] {
	case '[':
		return parseCSI(buf)
	case 'O':
		return parseSS3(buf)
	default:
		return Key{}, 0, escNoMatch
	}
}

// parseSS3 matches `ESC O` + final byte, the SS3-encoded F1-F4 keys.
func parseSS3(buf []byte) (Key, int, escStatus) {
	if len(buf) < 3 {
		return Key{}, 0, escTruncated
	}
	var code KeyCode
	switch buf[2] {
	case 'P':
		code = KeyF1
	case 'Q':
		code = KeyF2
	case 'R':
		code = KeyF3
	case 'S':
		code = KeyF4
	default:
		return Key{}, 0, escNoMatch
	}
	return Key{Code: code}, 3, escMatched
}

// parseCSI matches `ESC [` + up to three `;`-separated numeric parameters +
// a final byte in A-Z or `~`, per the key decoding table in.
func parseCSI(buf []byte) (Key, int, escStatus) {
	i := 2
	var params []int
	cur := -1
	for i < len(buf) {
		c := buf[i]
		switch {
		case c >= '0' && c <= '9':
			if cur < 0 {
				cur = 0
			}
			cur = cur*10 + int(c-'0')
			i++
		case c == ';':
			if len(params) >= 2 {
				return Key{}, 0, escNoMatch
			}
			params = append(params, max(cur, 0))
			cur = -1
			i++
		case (c >= 'A' && c <= 'Z') || c == '~':
			if cur >= 0 || len(params) == 0 {
				params = append(params, max(cur, 0))
			}
			return mapCSI(params, c, i+1)
		default:
			return Key{}, 0, escNoMatch
		}
	}
	return Key{}, 0, escTruncated
}

// mapCSI turns a parsed (params, final) pair into a Key. A sequence with no
// key mapping still reports its length, so the caller can discard it.
func mapCSI(params []int, final byte, consumed int) (Key, int, escStatus) {
	var mods Mod
	var code KeyCode

	switch final {
	case 'A':
		code = KeyUp
	case 'B':
		code = KeyDown
	case 'C':
		code = KeyRight
	case 'D':
		code = KeyLeft
	case 'F':
		code = KeyEnd
	case 'H':
		code = KeyHome
	case 'Z':
		return Key{Code: KeyTab, Mods: ModShift}, consumed, escMatched
	case '~':
		if len(params) == 0 {
			return Key{}, consumed, escNoMatch
		}
		switch params[0] {
		case 2:
			code = KeyInsert
		case 3:
			code = KeyDelete
		case 5:
			code = KeyPageUp
		case 6:
			code = KeyPageDown
		case 11:
			code = KeyF1
		case 12:
			code = KeyF2
		case 13:
			code = KeyF3
		case 14:
			code = KeyF4
		case 15:
			code = KeyF5
		case 17:
			code = KeyF6
		case 18:
			code = KeyF7
		case 19:
			code = KeyF8
		case 20:
			code = KeyF9
		case 21:
			code = KeyF10
		case 23:
			code = KeyF11
		case 24:
			code = KeyF12
		default:
			return Key{}, consumed, escNoMatch
		}
		if len(params) >= 2 {
			mods = modMaskFromParam(params[1])
		}
		return Key{Code: code, Mods: mods}, consumed, escMatched
	default:
		return Key{}, consumed, escNoMatch
	}

	// ESC [ 1 ; m <letter> form: modifier mask follows a literal leading 1.
	if len(params) >= 2 && params[0] == 1 {
		mods = modMaskFromParam(params[1])
	}
	return Key{Code: code, Mods: mods}, consumed, escMatched
}

// modMaskFromParam converts the xterm modifier parameter (1-based, bit0
// Shift/bit1 Meta/bit2 Ctrl after subtracting 1) to a Mod bitmask.
func modMaskFromParam(m int) Mod {
	n := m - 1
	var mods Mod
	if n&1 != 0 {
		mods |= ModShift
	}
	if n&2 != 0 {
		mods |= ModMeta
	}
	if n&4 != 0 {
		mods |= ModCtrl
	}
	return mods
}
