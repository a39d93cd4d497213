package dte

import "sync"

// canvasPool recycles Canvas values across resizes and frame allocations,
// avoiding a fresh cells slice on every SIGWINCH.
var canvasPool = sync.Pool{
	New: func() any { return &Canvas{} },
}

// GetCanvas takes a canvas from the pool sized to width x height, clearing it
// before returning.
func GetCanvas(width, height int) *Canvas {
	c := canvasPool.Get().(*Canvas)
	needed := width * height
	if cap(c.cells) < needed {
		c.cells = make([]Cell, needed)
	} else {
		c.cells = c.cells[:needed]
	}
	c.width = width
	c.height = height
	if cap(c.dirtyRows) < height {
		c.dirtyRows = make([]bool, height)
	} else {
		c.dirtyRows = c.dirtyRows[:height]
	}
	c.Clear()
	return c
}

// PutCanvas returns a canvas to the pool for reuse.
func PutCanvas(c *Canvas) {
	if c == nil {
		return
	}
	canvasPool.Put(c)
}
