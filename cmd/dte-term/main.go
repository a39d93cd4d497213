// Command dte-term is a minimal interactive terminal front-end over the
// editing core: it opens a file, wires a Screen/Decoder/EventLoop
// together, and runs until Escape or Ctrl-Q is pressed.
package main

import (
	"log"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/dte-go/dte"
)

func main() {
	var path string
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfgPath := os.Getenv("DTE_TERM_CONFIG")
	opts, err := loadOptions(cfgPath)
	if err != nil {
		log.Fatalf("loading config %s: %v", cfgPath, err)
	}

	buf := dte.NewTextBuffer()
	buf.Options = opts
	view := dte.NewView(buf)

	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			buf.InsertBytes(view, data)
			view.SetOffset(0)
			buf.MarkSaved()
		}
	}

	screen, err := dte.NewScreen(os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.EnterRawMode(); err != nil {
		log.Fatal(err)
	}
	defer screen.ExitRawMode()

	loop := dte.NewEventLoop(screen, dte.ThemeDark)
	title := filepath.Base(path)
	if title == "" || title == "." {
		title = "[No Name]"
	}
	win := &dte.Window{
		View:      view,
		Tabs:      []dte.Tab{{Number: 1, Title: title}},
		ActiveTab: 0,
		X:         0,
		Y:         0,
		Width:     screen.Width(),
		Height:    screen.Height(),
	}
	loop.Windows = []*dte.Window{win}

	loop.OnKey = func(k dte.Key) {
		switch {
		case k.Code == dte.KeyEscape, k.Mods&dte.ModCtrl != 0 && k.Code == dte.KeyRune && k.Rune == 'q':
			loop.Quit()
		case k.Code == dte.KeyRune:
			buf.InsertBytes(view, []byte(string(k.Rune)))
		case k.Code == dte.KeyEnter:
			buf.InsertBytes(view, []byte("\n"))
		case k.Code == dte.KeyBackspace:
			buf.EraseBytes(view, 1)
		case k.Code == dte.KeyDelete:
			buf.DeleteBytes(view, 1)
		case k.Code == dte.KeyRight:
			view.MoveRight()
		case k.Code == dte.KeyLeft:
			view.MoveLeft()
		}
		win.UpdateScroll()
	}
	loop.OnPaste = func(data []byte) {
		buf.InsertBytes(view, data)
		win.UpdateScroll()
	}
	loop.OnResize = func(size dte.Size) {
		win.Width = size.Width
		win.Height = size.Height - 1
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		log.Fatal("dte-term requires an interactive terminal")
	}

	runLoop(loop, screen)
}

// runLoop is the cooperative read/decode/render cycle: block on stdin,
// feed whatever arrives to the decoder, render, repeat. Resize
// notifications arrive asynchronously on Screen.ResizeChan and are drained
// opportunistically between reads rather than on a second goroutine, to
// keep buffer mutation single-threaded.
func runLoop(loop *dte.EventLoop, screen *dte.Screen) {
	buf := make([]byte, 4096)
	loop.RenderFrame()
	for {
		select {
		case size := <-screen.ResizeChan():
			loop.HandleResize(size)
		default:
		}

		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		loop.Feed(buf[:n])
		if loop.QuitRequested() {
			return
		}
		loop.RenderFrame()
	}
}
