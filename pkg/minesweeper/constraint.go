// Package minesweeper provides the Constraint type: the logical statement
// "exactly Count of these cells are mines".
//
// A Constraint is created from an observation or derived from two existing
// constraints, and shrinks as its cells become individually classified:
//
//	{(0,0), (0,1), (0,2)} = 1
//	RemoveAsSafe((0,0))  → {(0,1), (0,2)} = 1
//	RemoveAsMine((0,1))  → {(0,2)} = 0      (now KnownSafes = {(0,2)})
//
// An empty constraint is inert. Constraints are plain values; equality is
// structural (same cells, same count), never identity.
package minesweeper

import (
	"fmt"
)

// Constraint states that exactly count of cells are mines.
type Constraint struct {
	cells CellSet
	count int
}

// NewConstraint constructs a constraint over cells with the given mine count.
//
// Contract:
//   - count >= 0 (checked)
//   - count <= cells.Len() (precondition, not checked; a larger count is a
//     logic error that the knowledge base reports as a contradiction)
func NewConstraint(cells CellSet, count int) (Constraint, error) {
	if count < 0 {
		return Constraint{}, fmt.Errorf("Constraint: count cannot be negative, got %d", count)
	}
	return Constraint{cells: cells, count: count}, nil
}

// Cells returns the constraint's cell set.
func (c Constraint) Cells() CellSet { return c.cells }

// Count returns the number of mines among Cells.
func (c Constraint) Count() int { return c.count }

// Len returns the number of cells in the constraint.
func (c Constraint) Len() int { return c.cells.Len() }

// IsEmpty reports whether the constraint has no cells left.
func (c Constraint) IsEmpty() bool { return c.cells.IsEmpty() }

// Consistent reports whether 0 <= count <= Len.
func (c Constraint) Consistent() bool {
	return c.count >= 0 && c.count <= c.Len()
}

// KnownMines returns every cell when the count equals the number of cells
// (and is positive), and an empty set otherwise.
func (c Constraint) KnownMines() CellSet {
	if c.count > 0 && c.count == c.Len() {
		return c.cells
	}
	return c.cells.grid.EmptySet()
}

// KnownSafes returns every cell when the count is zero, and an empty set
// otherwise.
func (c Constraint) KnownSafes() CellSet {
	if c.count == 0 {
		return c.cells
	}
	return c.cells.grid.EmptySet()
}

// RemoveAsMine removes cell, which is known to be a mine, and decrements
// the count. It is a no-op when cell is not in the constraint.
// The constraint may become resolvable; callers re-check KnownMines and
// KnownSafes.
func (c *Constraint) RemoveAsMine(cell Cell) {
	if !c.cells.Has(cell) {
		return
	}
	c.cells = c.cells.Without(cell)
	c.count--
}

// RemoveAsSafe removes cell, which is known to be safe. The count is
// unchanged. It is a no-op when cell is not in the constraint.
func (c *Constraint) RemoveAsSafe(cell Cell) {
	if !c.cells.Has(cell) {
		return
	}
	c.cells = c.cells.Without(cell)
}

// Equal reports whether both constraints have the same cells and count.
func (c Constraint) Equal(other Constraint) bool {
	return c.count == other.count && c.cells.Equal(other.cells)
}

// String returns the constraint as "{(0,0), (0,1)} = 1".
func (c Constraint) String() string {
	return fmt.Sprintf("%s = %d", c.cells, c.count)
}

type constraintKey struct {
	cells string
	count int
}

func (c Constraint) key() constraintKey {
	return constraintKey{cells: c.cells.key(), count: c.count}
}
