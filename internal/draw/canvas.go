// Package draw renders the hunting field and UI panels to an ANSI terminal.
package draw

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Canvas is a grid of character cells, one per field unit. Render only
// emits the cells that changed since the previous frame.
type Canvas struct {
	width  int
	height int
	cells  []rune // Current frame: [y * width + x]
	prev   []rune // Last rendered frame

	// Offset for centering the field inside a larger terminal (0-based).
	offsetCol int
	offsetRow int

	forceRedraw bool
	renderBuf   strings.Builder
	numBuf      [20]byte
}

// NewCanvas creates a blank canvas of width x height cells.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize reallocates the grid if the size changed and forces a full redraw.
func (c *Canvas) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	if width == c.width && height == c.height && c.cells != nil {
		return
	}
	c.width = width
	c.height = height
	c.cells = make([]rune, width*height)
	c.prev = make([]rune, width*height)
	c.Clear()
	c.forceRedraw = true
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.forceRedraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// Width returns the canvas width in cells.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in cells.
func (c *Canvas) Height() int { return c.height }

// ForceRedraw makes the next Render emit every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.forceRedraw = true
}

// Clear blanks the current frame.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = ' '
	}
}

// Set puts r at cell (x, y). Out-of-range cells are ignored.
func (c *Canvas) Set(x, y int, r rune) {
	if x >= 0 && x < c.width && y >= 0 && y < c.height {
		c.cells[y*c.width+x] = r
	}
}

// SetFloat puts r at the cell containing field position (x, y). Positions on
// the far edge land in the last cell.
func (c *Canvas) SetFloat(x, y float64, r rune) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	col := int(math.Floor(x))
	row := int(math.Floor(y))
	if col == c.width {
		col--
	}
	if row == c.height {
		row--
	}
	c.Set(col, row, r)
}

// Text writes s starting at cell (x, y), clipped to the canvas.
func (c *Canvas) Text(x, y int, s string) {
	for _, r := range s {
		c.Set(x, y, r)
		x++
	}
}

// Cell returns the rune at (x, y), or 0 when out of range.
func (c *Canvas) Cell(x, y int) rune {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return 0
	}
	return c.cells[y*c.width+x]
}

// Render writes the changed cells to w. Runs of adjacent changed cells are
// written after a single cursor move.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()

	for row := 0; row < c.height; row++ {
		rowStart := row * c.width
		inRun := false
		for col := 0; col < c.width; col++ {
			i := rowStart + col
			if !c.forceRedraw && c.cells[i] == c.prev[i] {
				inRun = false
				continue
			}
			if !inRun {
				c.moveCursor(col+1, row+1)
				inRun = true
			}
			c.renderBuf.WriteRune(c.cells[i])
			c.prev[i] = c.cells[i]
		}
	}
	c.forceRedraw = false

	return writeChunked(w, c.renderBuf.String())
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row+c.offsetRow), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col+c.offsetCol), 10))
	c.renderBuf.WriteByte('H')
}

// RenderBorder draws a box around the field when the offset leaves room for it.
func (c *Canvas) RenderBorder(w io.Writer) error {
	if c.offsetCol < 1 || c.offsetRow < 1 {
		return nil
	}
	left := c.offsetCol
	right := c.offsetCol + c.width + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.height + 1
	line := strings.Repeat("─", c.width)

	var buf strings.Builder
	buf.WriteString(cursorTo(left, top) + "┌" + line + "┐")
	buf.WriteString(cursorTo(left, bottom) + "└" + line + "┘")
	for row := top + 1; row < bottom; row++ {
		buf.WriteString(cursorTo(left, row) + "│" + cursorTo(right, row) + "│")
	}
	return writeChunked(w, buf.String())
}

// TerminalPos converts a canvas cell to a 1-based terminal position.
func (c *Canvas) TerminalPos(x, y int) (col, row int) {
	return x + 1 + c.offsetCol, y + 1 + c.offsetRow
}

func cursorTo(col, row int) string {
	return "\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}
