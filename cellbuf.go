package dte

// Canvas is a 2D grid of styled cells representing one renderable surface:
// the whole screen, or a window's content area. Uses the same per-cell
// diffing approach as a row-dirty terminal buffer — row-dirty tracking and
// bulk-copy fast paths — retargeted at Cell/Style/Span as defined for this
// editor (style.go, highlight.go).
type Canvas struct {
	cells     []Cell
	width     int
	height    int
	dirtyMaxY int

	dirtyRows []bool
	allDirty  bool
}

var emptyCanvasCache []Cell

// NewCanvas creates a canvas with the given dimensions, pre-filled with
// empty cells.
func NewCanvas(width, height int) *Canvas {
	cells := make([]Cell, width*height)
	empty := EmptyCell()
	for i := range cells {
		cells[i] = empty
	}
	return &Canvas{
		cells:     cells,
		width:     width,
		height:    height,
		dirtyRows: make([]bool, height),
		allDirty:  true,
	}
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

func (c *Canvas) Size() (width, height int) { return c.width, c.height }

func (c *Canvas) InBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

func (c *Canvas) index(x, y int) int { return y*c.width + x }

// Get returns the cell at (x, y), or an empty cell if out of bounds.
func (c *Canvas) Get(x, y int) Cell {
	if !c.InBounds(x, y) {
		return EmptyCell()
	}
	return c.cells[c.index(x, y)]
}

// Set writes a cell at (x, y), marking its row dirty. Does nothing if out
// of bounds.
func (c *Canvas) Set(x, y int, cell Cell) {
	if !c.InBounds(x, y) {
		return
	}
	idx := c.index(x, y)
	c.cells[idx] = cell
	if y > c.dirtyMaxY {
		c.dirtyMaxY = y
	}
	c.dirtyRows[y] = true
}

// SetRune replaces just the rune at (x, y), preserving its style.
func (c *Canvas) SetRune(x, y int, r rune) {
	if !c.InBounds(x, y) {
		return
	}
	c.cells[c.index(x, y)].Rune = r
}

// SetStyle replaces just the style at (x, y), preserving its rune.
func (c *Canvas) SetStyle(x, y int, s Style) {
	if !c.InBounds(x, y) {
		return
	}
	c.cells[c.index(x, y)].Style = s
}

// Fill overwrites every cell with c.
func (c *Canvas) Fill(cell Cell) {
	for i := range c.cells {
		c.cells[i] = cell
	}
}

// Clear resets the canvas to empty cells, via a cached-buffer bulk copy
// (memmove) rather than a per-cell loop.
func (c *Canvas) Clear() {
	size := len(c.cells)
	if len(emptyCanvasCache) < size {
		emptyCanvasCache = make([]Cell, size)
		empty := EmptyCell()
		for i := range emptyCanvasCache {
			emptyCanvasCache[i] = empty
		}
	}
	copy(c.cells, emptyCanvasCache[:size])
	c.dirtyMaxY = 0
	c.allDirty = true
	for i := range c.dirtyRows {
		c.dirtyRows[i] = false
	}
}

// ClearLine blanks a single row.
func (c *Canvas) ClearLine(y int) {
	if y < 0 || y >= c.height {
		return
	}
	base := y * c.width
	empty := EmptyCell()
	for x := 0; x < c.width; x++ {
		c.cells[base+x] = empty
	}
	c.dirtyRows[y] = true
}

// ClearLineWithStyle blanks a row with a styled space, for e.g. a status
// line's background color.
func (c *Canvas) ClearLineWithStyle(y int, style Style) {
	if y < 0 || y >= c.height {
		return
	}
	base := y * c.width
	cell := Cell{Rune: ' ', Width: 1, Style: style}
	for x := 0; x < c.width; x++ {
		c.cells[base+x] = cell
	}
	c.dirtyRows[y] = true
}

// FillRect fills a rectangular region with cell.
func (c *Canvas) FillRect(x, y, width, height int, cell Cell) {
	for dy := 0; dy < height; dy++ {
		row := y + dy
		if row < 0 || row >= c.height {
			continue
		}
		if row > c.dirtyMaxY {
			c.dirtyMaxY = row
		}
		c.dirtyRows[row] = true
		base := row * c.width
		for dx := 0; dx < width; dx++ {
			col := x + dx
			if col >= 0 && col < c.width {
				c.cells[base+col] = cell
			}
		}
	}
}

// RowDirty reports whether row y changed since the last ClearDirtyFlags.
func (c *Canvas) RowDirty(y int) bool {
	if c.allDirty {
		return true
	}
	if y < 0 || y >= len(c.dirtyRows) {
		return false
	}
	return c.dirtyRows[y]
}

// ClearDirtyFlags resets dirty tracking after a flush.
func (c *Canvas) ClearDirtyFlags() {
	c.allDirty = false
	for i := range c.dirtyRows {
		c.dirtyRows[i] = false
	}
}

// MarkAllDirty forces every row to be considered dirty on the next flush.
func (c *Canvas) MarkAllDirty() { c.allDirty = true }

// WriteString writes s at (x, y) in style, respecting display width (wide
// runes occupy two cells, the second holding a placeholder Rune 0, per
//'s tab/wide-character handling). Returns the number of columns
// written.
func (c *Canvas) WriteString(x, y int, s string, style Style) int {
	return c.WriteStringClipped(x, y, s, style, c.width)
}

// WriteStringClipped writes s at (x, y), stopping once maxWidth display
// columns have been consumed or the canvas edge is reached.
func (c *Canvas) WriteStringClipped(x, y int, s string, style Style, maxWidth int) int {
	if y < 0 || y >= c.height {
		return 0
	}
	written := 0
	for _, r := range s {
		rw := CodepointWidth(r)
		if rw <= 0 {
			rw = 1
		}
		if written+rw > maxWidth || x+rw > c.width {
			break
		}
		if x >= 0 {
			c.Set(x, y, Cell{Rune: r, Width: rw, Style: style})
			if rw == 2 && x+1 < c.width {
				c.Set(x+1, y, Cell{Rune: 0, Width: 0, Style: style})
			}
		}
		x += rw
		written += rw
	}
	return written
}

// WriteStringPadded writes s and pads the remainder of width with styled
// spaces, letting callers skip an explicit ClearLine when the surrounding
// layout is stable.
func (c *Canvas) WriteStringPadded(x, y int, s string, style Style, width int) {
	written := c.WriteStringClipped(x, y, s, style, width)
	space := Cell{Rune: ' ', Width: 1, Style: style}
	for written < width && c.InBounds(x+written, y) {
		c.Set(x+written, y, space)
		written++
	}
}

// WriteSpans writes src, the raw line bytes the highlighter spans index
// into, walking the spans in order (/ handoff from highlighter to
// renderer). Span carries only an emit name, so every run, inside a span or
// not, is written in the base style.
func (c *Canvas) WriteSpans(x, y int, src []byte, spans []Span, base Style, maxWidth int) int {
	if y < 0 || y >= c.height {
		return 0
	}
	written := 0
	pos := 0
	emit := func(b []byte, style Style) {
		for _, r := range string(b) {
			rw := CodepointWidth(r)
			if rw <= 0 {
				rw = 1
			}
			if written+rw > maxWidth || x+rw > c.width {
				return
			}
			if x >= 0 {
				c.Set(x, y, Cell{Rune: r, Width: rw, Style: style})
				if rw == 2 && x+1 < c.width {
					c.Set(x+1, y, Cell{Rune: 0, Width: 0, Style: style})
				}
			}
			x += rw
			written += rw
		}
	}
	for _, sp := range spans {
		if sp.Start > pos {
			emit(src[pos:sp.Start], base)
		}
		emit(src[sp.Start:sp.End], base)
		pos = sp.End
	}
	if pos < len(src) {
		emit(src[pos:], base)
	}
	return written
}

// String renders the canvas as plain text, one line per row.
func (c *Canvas) String() string {
	var result []byte
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			cell := c.Get(x, y)
			if cell.Rune == 0 {
				result = append(result, ' ')
			} else {
				result = append(result, string(cell.Rune)...)
			}
		}
		if y < c.height-1 {
			result = append(result, '\n')
		}
	}
	return string(result)
}

// Blit copies a clipped rectangular region from src into c, used to scroll
// or compose sub-views without a full repaint.
func (c *Canvas) Blit(src *Canvas, srcX, srcY, dstX, dstY, width, height int) {
	if srcX < 0 {
		width += srcX
		dstX -= srcX
		srcX = 0
	}
	if srcY < 0 {
		height += srcY
		dstY -= srcY
		srcY = 0
	}
	if srcX+width > src.width {
		width = src.width - srcX
	}
	if srcY+height > src.height {
		height = src.height - srcY
	}
	if dstX < 0 {
		width += dstX
		srcX -= dstX
		dstX = 0
	}
	if dstY < 0 {
		height += dstY
		srcY -= dstY
		dstY = 0
	}
	if dstX+width > c.width {
		width = c.width - dstX
	}
	if dstY+height > c.height {
		height = c.height - dstY
	}
	if width <= 0 || height <= 0 {
		return
	}
	for y := 0; y < height; y++ {
		srcStart := (srcY+y)*src.width + srcX
		dstStart := (dstY+y)*c.width + dstX
		copy(c.cells[dstStart:dstStart+width], src.cells[srcStart:srcStart+width])
		c.dirtyRows[dstY+y] = true
	}
	if dstY+height-1 > c.dirtyMaxY {
		c.dirtyMaxY = dstY + height - 1
	}
}

// CopyFrom bulk-copies src into c; both must share dimensions.
func (c *Canvas) CopyFrom(src *Canvas) {
	if c.width == src.width && c.height == src.height {
		copy(c.cells, src.cells)
		c.dirtyMaxY = src.dirtyMaxY
		c.allDirty = true
	}
}

// Resize grows or shrinks the canvas, preserving the overlapping region.
func (c *Canvas) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	newCells := make([]Cell, width*height)
	empty := EmptyCell()
	for i := range newCells {
		newCells[i] = empty
	}
	minWidth, minHeight := width, height
	if c.width < minWidth {
		minWidth = c.width
	}
	if c.height < minHeight {
		minHeight = c.height
	}
	for y := 0; y < minHeight; y++ {
		for x := 0; x < minWidth; x++ {
			newCells[y*width+x] = c.cells[y*c.width+x]
		}
	}
	c.cells = newCells
	c.width = width
	c.height = height
	c.dirtyRows = make([]bool, height)
	c.allDirty = true
}
