package dte

import "testing"

func TestTabTitleWidth(t *testing.T) {
	cases := []struct {
		number int
		title  string
		want   int
	}{
		{1, "main.go", 3 + 1 + 7},
		{12, "x", 3 + 2 + 1},
		{1, "a-very-long-filename-indeed.go", 20},
	}
	for _, c := range cases {
		if got := tabTitleWidth(c.number, c.title); got != c.want {
			t.Errorf("tabTitleWidth(%d, %q) = %d, want %d", c.number, c.title, got, c.want)
		}
	}
}

func TestDistributeTabWidthsFitsWithoutShrinking(t *testing.T) {
	tabs := []Tab{{1, "a.go"}, {2, "b.go"}}
	widths := distributeTabWidths(tabs, 100)
	for i, w := range widths {
		want := tabTitleWidth(tabs[i].Number, tabs[i].Title)
		if w != want {
			t.Errorf("width[%d] = %d, want %d (no shrink expected)", i, w, want)
		}
	}
}

func TestDistributeTabWidthsShrinksToFit(t *testing.T) {
	tabs := []Tab{
		{1, "alpha-long-name.go"},
		{2, "beta-long-name.go"},
		{3, "gamma-long-name.go"},
	}
	available := 30
	widths := distributeTabWidths(tabs, available)
	sum := 0
	for _, w := range widths {
		if w < 3 {
			t.Errorf("width %d below floor of 3", w)
		}
		sum += w
	}
	if sum > available {
		t.Errorf("sum of widths %d exceeds available %d", sum, available)
	}
}

func TestDistributeTabWidthsEmpty(t *testing.T) {
	if widths := distributeTabWidths(nil, 80); widths != nil {
		t.Errorf("expected nil widths for no tabs, got %v", widths)
	}
}

func TestClampScrollKeepsCursorInMargin(t *testing.T) {
	// cursor above the margin: scroll up to meet it.
	if v := clampScroll(10, 5, 20, 3); v != 2 {
		t.Errorf("expected v=2, got %d", v)
	}
	// cursor below the margin: scroll down to meet it.
	if v := clampScroll(0, 25, 20, 3); v != 9 {
		t.Errorf("expected v=9, got %d", v)
	}
	// cursor already within bounds: no change.
	if v := clampScroll(5, 10, 20, 3); v != 5 {
		t.Errorf("expected v=5 (unchanged), got %d", v)
	}
}

func TestClampScrollNeverNegative(t *testing.T) {
	if v := clampScroll(0, 0, 20, 3); v != 0 {
		t.Errorf("expected v=0, got %d", v)
	}
}

func TestClampScrollMarginLargerThanExtent(t *testing.T) {
	// A margin that would swallow the whole viewport must not panic or
	// produce a negative offset.
	v := clampScroll(0, 2, 4, 10)
	if v < 0 {
		t.Errorf("expected non-negative v, got %d", v)
	}
}

func newTestWindow(t *testing.T, text string, width, height int) *Window {
	t.Helper()
	buf := NewTextBuffer()
	view := NewView(buf)
	buf.InsertBytes(view, []byte(text))
	view.SetOffset(0)
	return &Window{View: view, X: 0, Y: 0, Width: width, Height: height}
}

func TestRenderWindowPaintsDirtyLines(t *testing.T) {
	w := newTestWindow(t, "hello\nworld\n", 20, 5)
	canvas := GetCanvas(20, 5)
	RenderWindow(canvas, w, ThemeDark)

	cell := canvas.Get(0, 0)
	if cell.Rune != 'h' {
		t.Errorf("expected 'h' at (0,0), got %q", cell.Rune)
	}
	cell = canvas.Get(0, 1)
	if cell.Rune != 'w' {
		t.Errorf("expected 'w' at (0,1), got %q", cell.Rune)
	}
}

func TestRenderWindowWithTabBar(t *testing.T) {
	w := newTestWindow(t, "line one\n", 20, 5)
	w.Tabs = []Tab{{1, "a.go"}, {2, "b.go"}}
	w.ActiveTab = 0
	canvas := GetCanvas(20, 5)
	RenderWindow(canvas, w, ThemeDark)

	// Content should start one row down, leaving row 0 for the tab bar.
	cell := canvas.Get(0, 1)
	if cell.Rune != 'l' {
		t.Errorf("expected 'l' at (0,1) below tab bar, got %q", cell.Rune)
	}
}

func TestFormatTabTitleTruncates(t *testing.T) {
	title := formatTabTitle(Tab{1, "a-rather-long-filename.go"}, 10)
	if StringWidth(title) > 10 {
		t.Errorf("formatted title %q exceeds width 10", title)
	}
}

func TestFormatTabTitleFitsWithoutTruncation(t *testing.T) {
	title := formatTabTitle(Tab{1, "a.go"}, 20)
	if title != "1 a.go" {
		t.Errorf("expected %q, got %q", "1 a.go", title)
	}
}

func TestStatusLineShowsModifiedMarker(t *testing.T) {
	buf := NewTextBuffer()
	buf.DisplayName = "scratch.txt"
	v := NewView(buf)
	if got := StatusLine(v); got != "scratch.txt" {
		t.Errorf("expected unmodified status %q, got %q", "scratch.txt", got)
	}
	buf.InsertBytes(v, []byte("y"))
	if got := StatusLine(v); got != "scratch.txt [+]" {
		t.Errorf("expected modified status %q, got %q", "scratch.txt [+]", got)
	}
}

func TestStatusLineDefaultName(t *testing.T) {
	buf := NewTextBuffer()
	v := NewView(buf)
	if got := StatusLine(v); got != "[No Name]" {
		t.Errorf("expected %q, got %q", "[No Name]", got)
	}
}

func TestEventLoopDispatchesKeysAndPastes(t *testing.T) {
	el := NewEventLoop(nil, ThemeDark)
	var gotKey Key
	var gotPaste []byte
	el.OnKey = func(k Key) { gotKey = k }
	el.OnPaste = func(p []byte) { gotPaste = p }

	el.Feed([]byte("\x1b[A"))
	if gotKey.Code != KeyUp {
		t.Errorf("expected KeyUp dispatched, got %+v", gotKey)
	}

	el.Feed([]byte("\x1b[200~hi\x1b[201~"))
	if string(gotPaste) != "hi" {
		t.Errorf("expected paste %q dispatched, got %q", "hi", gotPaste)
	}
}

func TestEventLoopTickResolvesLoneEsc(t *testing.T) {
	el := NewEventLoop(nil, ThemeDark)
	var gotKey Key
	el.OnKey = func(k Key) { gotKey = k }

	el.Feed([]byte("\x1b"))
	if gotKey.Code != KeyNone {
		t.Fatalf("expected no dispatch yet, got %+v", gotKey)
	}
	el.Tick()
	if gotKey.Code != KeyEscape {
		t.Errorf("expected Escape dispatched after Tick, got %+v", gotKey)
	}
}

func TestEventLoopHandleResizeUpdatesWindows(t *testing.T) {
	w := newTestWindow(t, "x\n", 10, 10)
	el := &EventLoop{Windows: []*Window{w}}
	el.HandleResize(Size{Width: 40, Height: 24})
	if w.Width != 40 || w.Height != 23 {
		t.Errorf("expected window resized to 40x23, got %dx%d", w.Width, w.Height)
	}
}
