package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase overlap queries on a bounded field.
// Items are inserted by position and index; a query visits the 3x3 neighbourhood
// of cells around a point, row by row and in insertion order within a cell, so
// the visiting order is deterministic for a fixed insertion order.
//
// Cell size must be >= the largest interaction radius so that every candidate
// lies in the neighbourhood. Moving queries use QuerySegment.
type SpatialGrid struct {
	invCellSize float64
	cols        int
	rows        int
	cells       [][]int
}

// NewSpatialGrid creates a grid covering a w x h field.
func NewSpatialGrid(w, h, cellSize float64) *SpatialGrid {
	cols := int(math.Ceil(w / cellSize))
	rows := int(math.Ceil(h / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &SpatialGrid{
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([][]int, cols*rows),
	}
}

// Clear empties every cell while keeping the backing arrays.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert records index at position p.
func (g *SpatialGrid) Insert(p Vec2, index int) {
	col, row := g.cellOf(p)
	i := row*g.cols + col
	g.cells[i] = append(g.cells[i], index)
}

// QueryAround calls fn for each index in the 3x3 neighbourhood around p.
// Iteration stops as soon as fn returns true.
func (g *SpatialGrid) QueryAround(p Vec2, fn func(index int) bool) {
	col, row := g.cellOf(p)
	for r := row - 1; r <= row+1; r++ {
		if r < 0 || r >= g.rows {
			continue
		}
		for c := col - 1; c <= col+1; c++ {
			if c < 0 || c >= g.cols {
				continue
			}
			for _, idx := range g.cells[r*g.cols+c] {
				if fn(idx) {
					return
				}
			}
		}
	}
}

// QuerySegment calls fn for each index in the cells covering the bounding box
// of a→b, grown by one cell on every side. Cells are visited row by row.
// Iteration stops as soon as fn returns true.
func (g *SpatialGrid) QuerySegment(a, b Vec2, fn func(index int) bool) {
	c0, r0 := g.cellOf(a)
	c1, r1 := g.cellOf(b)
	if c0 > c1 {
		c0, c1 = c1, c0
	}
	if r0 > r1 {
		r0, r1 = r1, r0
	}
	c0, r0 = max(0, c0-1), max(0, r0-1)
	c1, r1 = min(g.cols-1, c1+1), min(g.rows-1, r1+1)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			for _, idx := range g.cells[r*g.cols+c] {
				if fn(idx) {
					return
				}
			}
		}
	}
}

// cellOf clamps positions outside the field onto the border cells.
func (g *SpatialGrid) cellOf(p Vec2) (col, row int) {
	col = int(p.X * g.invCellSize)
	row = int(p.Y * g.invCellSize)
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}
