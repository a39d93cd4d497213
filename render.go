package dte

import (
	"time"
)

// Tab describes one entry in a window's tab bar: a 1-based tab number and
// the buffer's display title.
type Tab struct {
	Number int
	Title  string
}

// tabTitleWidth computes a tab's display width: 3 fixed cells (the gap and
// decoration around the number) plus the number's digit count plus the
// title's display width, capped at 20 cells.
func tabTitleWidth(number int, title string) int {
	w := 3 + digitCount(number) + StringWidth(title)
	if w > 20 {
		w = 20
	}
	return w
}

func digitCount(n int) int {
	if n < 10 {
		return 1
	}
	d := 0
	for n > 0 {
		d++
		n /= 10
	}
	return d
}

// distributeTabWidths computes each tab's display width and, if their sum
// exceeds the available space, shrinks them down to fit: proportionally by
// default, then trimming the widest by one cell at a time while the total
// still exceeds available. No tab is shrunk below 3 cells, so the total can
// stay above available when there are too many tabs.
// Generalizes a flex-layout's surplus-space distribution (space divided
// by each item's flexGrow share) to the inverse case: a deficit.
func distributeTabWidths(tabs []Tab, available int) []int {
	if len(tabs) == 0 {
		return nil
	}
	widths := make([]int, len(tabs))
	total := 0
	for i, t := range tabs {
		widths[i] = tabTitleWidth(t.Number, t.Title)
		total += widths[i]
	}
	if len(widths) == 0 || total <= available {
		return widths
	}

	scaled := make([]int, len(widths))
	sum := 0
	for i, w := range widths {
		s := w * available / total
		if s < 3 {
			s = 3
		}
		scaled[i] = s
		sum += s
	}
	for sum > available {
		maxIdx := 0
		for i, s := range scaled {
			if s > scaled[maxIdx] {
				maxIdx = i
			}
		}
		if scaled[maxIdx] <= 3 {
			break
		}
		scaled[maxIdx]--
		sum--
	}
	return scaled
}

// Window binds a View to a rectangular region of the screen, optionally
// showing a tab bar above the content area.
type Window struct {
	View       *View
	Tabs       []Tab // all open tabs, for tab-bar rendering; nil hides the bar
	ActiveTab  int   // index into Tabs
	X, Y       int
	Width      int
	Height     int // total height, including the tab bar row if shown
}

// contentHeight returns the number of rows available for buffer text, after
// reserving the tab-bar row if one is shown.
func (w *Window) contentHeight() int {
	if len(w.Tabs) > 0 {
		return w.Height - 1
	}
	return w.Height
}

// clampScroll applies step 3: keep the cursor within
// [v+margin, v+extent-margin) by adjusting v, never scrolling below 0. The
// far edge of the buffer is not clamped.
func clampScroll(v, cursor, extent, margin int) int {
	if margin*2 >= extent {
		margin = (extent - 1) / 2
	}
	if margin < 0 {
		margin = 0
	}
	lo := v + margin
	hi := v + extent - margin
	switch {
	case cursor < lo:
		v = cursor - margin
	case cursor >= hi:
		v = cursor - extent + margin + 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// UpdateScroll clamps the window's view scroll offsets around the cursor
// using the buffer's configured scroll margins.
func (w *Window) UpdateScroll() {
	v := w.View
	opts := v.buf.Options
	v.vy = clampScroll(v.vy, v.cy, w.contentHeight(), opts.ScrollMarginV)
	v.vx = clampScroll(v.vx, v.cxDisplay, w.Width, opts.ScrollMarginH)
}

// StatusLine formats the single-row status summary: display name and
// modified marker. The cursor position is not included.
func StatusLine(v *View) string {
	name := v.buf.DisplayName
	if name == "" {
		name = "[No Name]"
	}
	mod := ""
	if v.buf.Modified() {
		mod = " [+]"
	}
	return name + mod
}

// RenderWindow repaints w's tab bar (if any) and the buffer rows within its
// dirty range, writing into canvas. The status line is drawn by
// EventLoop.RenderFrame, not here. It does not flush the canvas to the
// terminal; call Screen.Flush for that.
func RenderWindow(canvas *Canvas, w *Window, theme *Theme) {
	w.UpdateScroll()

	contentTop := w.Y
	if len(w.Tabs) > 0 {
		renderTabBar(canvas, w, theme)
		contentTop++
	}

	buf := w.View.buf
	lo, hi, dirty := buf.TakeDirtyRange()
	if !dirty {
		return
	}
	if lo < w.View.vy {
		lo = w.View.vy
	}
	maxRow := w.View.vy + w.contentHeight() - 1
	if hi > maxRow {
		hi = maxRow
	}

	base := theme.Style("text")
	for row := lo; row <= hi; row++ {
		y := contentTop + (row - w.View.vy)
		if y < contentTop || y >= w.Y+w.Height {
			continue
		}
		renderLine(canvas, w, row, y, base)
	}
}

// renderLine paints one buffer row at screen row y, cleared to the end of
// the window's width. Highlighter spans are computed when the buffer has an
// attached syntax, but every span is drawn in the base style.
func renderLine(canvas *Canvas, w *Window, row, y int, base Style) {
	canvas.ClearLineWithStyle(y, base)
	buf := w.View.buf
	src := buf.LineBytes(row)
	if src == nil {
		return
	}
	spans := buf.HighlightLine(row)
	if w.View.vx > 0 {
		src, spans = clipLineLeft(src, spans, w.View.vx)
	}
	canvas.WriteSpans(w.X, y, src, spans, base, w.Width)
}

// clipLineLeft skips the first skip display columns of src, adjusting span
// boundaries to stay relative to the (now-shorter) slice, for horizontal
// scrolling.
func clipLineLeft(src []byte, spans []Span, skip int) ([]byte, []Span) {
	col, i := 0, 0
	for i < len(src) && col < skip {
		cp, n := DecodeRune(src[i:])
		if n == 0 {
			break
		}
		col += cp.Width
		i += n
	}
	out := make([]Span, 0, len(spans))
	for _, sp := range spans {
		start, end := sp.Start-i, sp.End-i
		if end <= 0 {
			continue
		}
		if start < 0 {
			start = 0
		}
		out = append(out, Span{Start: start, End: end, Emit: sp.Emit})
	}
	return src[i:], out
}

// renderTabBar paints the tab bar row above the content area.
func renderTabBar(canvas *Canvas, w *Window, theme *Theme) {
	y := w.Y
	active := theme.Style("tabbar-active")
	inactive := theme.Style("tabbar")
	canvas.ClearLineWithStyle(y, inactive)

	widths := distributeTabWidths(w.Tabs, w.Width)
	x := w.X
	for i, t := range w.Tabs {
		style := inactive
		if i == w.ActiveTab {
			style = active
		}
		title := formatTabTitle(t, widths[i])
		canvas.WriteStringPadded(x, y, title, style, widths[i])
		x += widths[i]
		if x >= w.X+w.Width {
			break
		}
	}
}

// formatTabTitle renders "N title", truncating the title with an ellipsis
// if it doesn't fit within width.
func formatTabTitle(t Tab, width int) string {
	prefix := itoa(t.Number) + " "
	avail := width - StringWidth(prefix)
	if avail <= 0 {
		return prefix
	}
	title := t.Title
	if StringWidth(title) > avail {
		title = truncateToWidth(title, avail-1) + "…"
	}
	return prefix + title
}

// truncateToWidth returns the longest prefix of s whose display width does
// not exceed width.
func truncateToWidth(s string, width int) string {
	w, i := 0, 0
	for _, r := range s {
		cw := CodepointWidth(r)
		if w+cw > width {
			break
		}
		w += cw
		i += len(string(r))
	}
	return s[:i]
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// EventLoop drives the single-threaded, cooperative read/decode/render
// cycle: it owns the Screen and input Decoder, and reacts to resize
// notifications and decoded key/paste events. Generalizes a screen's
// resize-channel plumbing to also carry decoded input.
type EventLoop struct {
	Screen    *Screen
	Decoder   *Decoder
	Theme     *Theme
	Windows   []*Window
	Active    int
	EscTimer  *time.Timer
	OnKey     func(Key)
	OnPaste   func([]byte)
	OnResize  func(Size)
	quit      bool
}

// NewEventLoop wires a screen, decoder, and theme into a ready loop.
func NewEventLoop(screen *Screen, theme *Theme) *EventLoop {
	return &EventLoop{Screen: screen, Decoder: NewDecoder(), Theme: theme}
}

// Quit requests the loop stop after the current cycle.
func (el *EventLoop) Quit() { el.quit = true }

// QuitRequested reports whether Quit has been called, for a driver's main
// read/decode/render loop to check between cycles.
func (el *EventLoop) QuitRequested() bool { return el.quit }

// HandleResize reacts to a terminal size change: resizes every window's
// rect to the new screen geometry (a simple full-bleed single window for
// now; a future window tree would recompute splits here instead) and
// forces a full repaint.
func (el *EventLoop) HandleResize(size Size) {
	for _, w := range el.Windows {
		w.Width = size.Width
		w.Height = size.Height - 1 // reserve the bottom status line
		w.View.buf.markAllLinesChanged()
	}
	if el.OnResize != nil {
		el.OnResize(size)
	}
}

// Feed decodes newly read input bytes and dispatches the resulting events
// to OnKey/OnPaste, per the single-threaded, no-suspension scheduling
// model: each event runs to completion before the next is considered.
func (el *EventLoop) Feed(data []byte) {
	for _, ev := range el.Decoder.Feed(data) {
		el.dispatch(ev)
	}
}

// Tick resolves the ESC disambiguation timeout if one is pending; the
// caller is responsible for arming a timer of Decoder.EscTimeout and
// calling Tick when it fires.
func (el *EventLoop) Tick() {
	if ev := el.Decoder.FlushTimeout(); ev != nil {
		el.dispatch(*ev)
	}
}

func (el *EventLoop) dispatch(ev Event) {
	switch ev.Kind {
	case EventKey:
		if el.OnKey != nil {
			el.OnKey(ev.Key)
		}
	case EventPaste:
		if el.OnPaste != nil {
			el.OnPaste(ev.Paste)
		}
	}
}

// RenderFrame repaints every window's dirty range and the status line, then
// flushes the screen to the terminal in one write.
func (el *EventLoop) RenderFrame() {
	canvas := el.Screen.Buffer()
	for i, w := range el.Windows {
		RenderWindow(canvas, w, el.Theme)
		if i == el.Active {
			canvas.WriteStringPadded(w.X, w.Y+w.Height, StatusLine(w.View), el.Theme.Style("status"), w.Width)
		}
	}
	el.Screen.Flush()
	el.Screen.FlushBuffer()
}
