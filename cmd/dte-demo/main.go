// Command dte-demo runs a headless, line-oriented edit script against the
// editing core and prints the resulting buffer. It exists to exercise
// InsertBytes/DeleteBytes/Undo/Redo end to end without a terminal, for
// smoke-testing the core outside of dte-term.
//
// Script lines (read from stdin, or a file given as the first argument):
//
//	i TEXT     insert TEXT at the cursor (cursor starts at offset 0)
//	d N        delete N bytes forward from the cursor
//	e N        erase (backspace) N bytes before the cursor
//	g N        move the cursor to absolute offset N
//	u          undo
//	r          redo (most recent branch)
//	p          print the buffer's current text
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dte-go/dte"
)

func main() {
	var in io.Reader = os.Stdin
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in = f
	}

	buf := dte.NewTextBuffer()
	view := dte.NewView(buf)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		runCommand(buf, view, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
}

func runCommand(buf *dte.TextBuffer, view *dte.View, line string) {
	cmd, rest, _ := strings.Cut(line, " ")
	switch cmd {
	case "i":
		buf.InsertBytes(view, []byte(rest))
	case "d":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return
		}
		buf.DeleteBytes(view, n)
	case "e":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return
		}
		buf.EraseBytes(view, n)
	case "g":
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return
		}
		view.SetOffset(n)
	case "u":
		buf.Undo(view)
	case "r":
		buf.Redo(view, 0)
	case "p":
		fmt.Print(string(buf.Text()))
	}
}
