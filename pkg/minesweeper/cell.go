// Package minesweeper provides grid abstractions for the inference engine.
// This file defines Cell, the value type identifying one board position,
// and Grid, the fixed board geometry every other type is indexed against.
package minesweeper

import (
	"fmt"
)

// MaxNeighbors is the size of a full 8-neighbourhood.
const MaxNeighbors = 8

// Cell identifies one grid position. Cells are comparable values and may be
// used directly as map keys.
type Cell struct {
	Row int
	Col int
}

// String returns the cell as "(row,col)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Grid describes the fixed dimensions of a board. Grids are never resized;
// every CellSet and Constraint is interpreted relative to one Grid.
type Grid struct {
	Height int
	Width  int
}

// NewGrid returns a grid with the given dimensions.
// Both dimensions must be positive.
func NewGrid(height, width int) (Grid, error) {
	if height <= 0 || width <= 0 {
		return Grid{}, fmt.Errorf("Grid: dimensions must be positive, got %dx%d", height, width)
	}
	return Grid{Height: height, Width: width}, nil
}

// Size returns the number of cells on the grid.
func (g Grid) Size() int {
	return g.Height * g.Width
}

// Contains reports whether c lies within the grid bounds.
func (g Grid) Contains(c Cell) bool {
	return c.Row >= 0 && c.Row < g.Height && c.Col >= 0 && c.Col < g.Width
}

// Neighbors returns the in-bounds 8-neighbourhood of c, excluding c itself.
// Cells outside the grid have an empty neighbourhood.
func (g Grid) Neighbors(c Cell) CellSet {
	set := g.EmptySet()
	if !g.Contains(c) {
		return set
	}
	for r := c.Row - 1; r <= c.Row+1; r++ {
		for col := c.Col - 1; col <= c.Col+1; col++ {
			n := Cell{Row: r, Col: col}
			if n == c || !g.Contains(n) {
				continue
			}
			set.put(g.index(n))
		}
	}
	return set
}

// Cells returns every cell of the grid in row-major order.
func (g Grid) Cells() []Cell {
	out := make([]Cell, 0, g.Size())
	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			out = append(out, Cell{Row: r, Col: c})
		}
	}
	return out
}

// String returns the grid as "HxW".
func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.Height, g.Width)
}

// index maps an in-bounds cell to its row-major position.
func (g Grid) index(c Cell) int {
	return c.Row*g.Width + c.Col
}

// cell is the inverse of index.
func (g Grid) cell(i int) Cell {
	return Cell{Row: i / g.Width, Col: i % g.Width}
}
