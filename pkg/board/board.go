// Package board provides the ground truth a Minesweeper game is played
// against: a fixed mine layout that answers "is this cell a mine?" and "how
// many mines surround this cell?".
//
// A Board is an oracle for the game loop only. The inference engine in
// package minesweeper never sees it; it learns exclusively from the counts
// the game loop reports.
//
// Mines are supplied explicitly, either as cells or as text rows:
//
//	b, err := board.Parse([]string{
//	    "X..",
//	    "...",
//	    "..X",
//	})
package board

import (
	"fmt"
	"strings"

	"github.com/gitrdm/gokansweeper/pkg/minesweeper"
)

// Layout characters accepted by Parse.
const (
	MineChar  = 'X'
	AltMine   = '*'
	EmptyChar = '.'
)

// Board is an immutable mine layout.
type Board struct {
	grid  minesweeper.Grid
	mines minesweeper.CellSet
}

// New creates a board on grid with mines at the given cells.
// Every mine must lie on the grid; duplicates are collapsed.
func New(grid minesweeper.Grid, mines []minesweeper.Cell) (*Board, error) {
	if grid.Height <= 0 || grid.Width <= 0 {
		return nil, fmt.Errorf("Board: grid must be non-empty, got %s", grid)
	}
	for _, m := range mines {
		if !grid.Contains(m) {
			return nil, fmt.Errorf("Board: mine %s outside %s grid", m, grid)
		}
	}
	return &Board{grid: grid, mines: grid.Set(mines...)}, nil
}

// Parse builds a board from text rows, one string per row. 'X' or '*' marks
// a mine and '.' an empty cell; rows must all have the same length.
func Parse(rows []string) (*Board, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("Board: layout has no rows")
	}
	width := len(rows[0])
	var mines []minesweeper.Cell
	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("Board: row %d has width %d, want %d", r, len(row), width)
		}
		for c, ch := range row {
			switch ch {
			case MineChar, AltMine:
				mines = append(mines, minesweeper.Cell{Row: r, Col: c})
			case EmptyChar:
			default:
				return nil, fmt.Errorf("Board: row %d col %d: unexpected %q", r, c, ch)
			}
		}
	}

	grid, err := minesweeper.NewGrid(len(rows), width)
	if err != nil {
		return nil, fmt.Errorf("Board: %w", err)
	}
	return New(grid, mines)
}

// Grid returns the board geometry.
func (b *Board) Grid() minesweeper.Grid { return b.grid }

// Mines returns the true mine layout.
func (b *Board) Mines() minesweeper.CellSet { return b.mines }

// MineCount returns the number of mines.
func (b *Board) MineCount() int { return b.mines.Len() }

// SafeCount returns the number of cells without a mine.
func (b *Board) SafeCount() int { return b.grid.Size() - b.mines.Len() }

// IsMine reports whether cell holds a mine. Cells off the board never do.
func (b *Board) IsMine(cell minesweeper.Cell) bool {
	return b.mines.Has(cell)
}

// NearbyMines returns the number of mines among cell's in-bounds
// neighbours, not counting cell itself.
func (b *Board) NearbyMines(cell minesweeper.Cell) int {
	return b.grid.Neighbors(cell).Intersect(b.mines).Len()
}

// Won reports whether flagged is exactly the set of mines.
func (b *Board) Won(flagged minesweeper.CellSet) bool {
	return flagged.Equal(b.mines)
}

// String renders the layout in the form Parse accepts.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.grid.Height; r++ {
		for c := 0; c < b.grid.Width; c++ {
			if b.mines.Has(minesweeper.Cell{Row: r, Col: c}) {
				sb.WriteByte(MineChar)
			} else {
				sb.WriteByte(EmptyChar)
			}
		}
		if r < b.grid.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
