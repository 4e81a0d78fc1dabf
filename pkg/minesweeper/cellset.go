// Package minesweeper provides set abstractions for the inference engine.
// This file defines CellSet, a compact bitset over a grid's row-major cell
// indices. Constraint cell sets and the knowledge base's global safe, mine
// and move sets are all CellSets.
package minesweeper

import (
	"encoding/binary"
	"math/bits"
	"strings"
)

// CellSet is an immutable set of cells on one Grid. Each cell is
// represented by a single bit at its row-major index, giving O(1)
// membership tests and O(words) set algebra.
//
// All exported operations return new sets rather than modifying the
// receiver, so CellSets may be shared freely. The zero value is an empty
// set on an empty grid.
//
// Sets built on different grids are treated as disjoint: Intersect returns
// an empty set, Union and Difference return a copy of the receiver, Equal is
// false and SubsetOf holds only for an empty receiver.
type CellSet struct {
	grid  Grid
	words []uint64 // bit i represents the cell at row-major index i
}

// EmptySet returns an empty set over g.
func (g Grid) EmptySet() CellSet {
	return CellSet{grid: g, words: make([]uint64, (g.Size()+63)/64)}
}

// Set returns a set over g containing the given cells.
// Cells outside the grid are ignored.
func (g Grid) Set(cells ...Cell) CellSet {
	s := g.EmptySet()
	for _, c := range cells {
		if g.Contains(c) {
			s.put(g.index(c))
		}
	}
	return s
}

// Grid returns the grid the set is defined over.
func (s CellSet) Grid() Grid {
	return s.grid
}

// Len returns the number of cells in the set.
// Uses hardware popcount (O(number of words)).
func (s CellSet) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// IsEmpty reports whether the set has no cells.
func (s CellSet) IsEmpty() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Has reports whether c is in the set. O(1).
func (s CellSet) Has(c Cell) bool {
	if !s.grid.Contains(c) {
		return false
	}
	return s.has(s.grid.index(c))
}

// With returns a new set that also contains c.
// Cells outside the grid are ignored.
func (s CellSet) With(c Cell) CellSet {
	out := s.clone()
	if s.grid.Contains(c) {
		out.put(s.grid.index(c))
	}
	return out
}

// Without returns a new set that does not contain c.
func (s CellSet) Without(c Cell) CellSet {
	out := s.clone()
	if s.grid.Contains(c) {
		out.drop(s.grid.index(c))
	}
	return out
}

// Union returns a new set containing cells from both sets.
func (s CellSet) Union(other CellSet) CellSet {
	out := s.clone()
	if !s.sameGrid(other) {
		return out
	}
	for i := range out.words {
		out.words[i] |= other.words[i]
	}
	return out
}

// Intersect returns a new set containing cells present in both sets.
func (s CellSet) Intersect(other CellSet) CellSet {
	if !s.sameGrid(other) {
		return s.grid.EmptySet()
	}
	out := s.clone()
	for i := range out.words {
		out.words[i] &= other.words[i]
	}
	return out
}

// Difference returns a new set containing the cells of s not in other.
func (s CellSet) Difference(other CellSet) CellSet {
	out := s.clone()
	if !s.sameGrid(other) {
		return out
	}
	for i := range out.words {
		out.words[i] &^= other.words[i]
	}
	return out
}

// SubsetOf reports whether every cell of s is also in other.
func (s CellSet) SubsetOf(other CellSet) bool {
	if !s.sameGrid(other) {
		return s.IsEmpty()
	}
	for i, w := range s.words {
		if w&^other.words[i] != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether both sets contain exactly the same cells on the
// same grid.
func (s CellSet) Equal(other CellSet) bool {
	if !s.sameGrid(other) {
		return false
	}
	for i := range s.words {
		if s.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// Each calls f for every cell in row-major order.
func (s CellSet) Each(f func(c Cell)) {
	for wi, w := range s.words {
		for w != 0 {
			f(s.grid.cell(wi*64 + bits.TrailingZeros64(w)))
			w &= w - 1
		}
	}
}

// Cells returns the members of the set in row-major order.
func (s CellSet) Cells() []Cell {
	out := make([]Cell, 0, s.Len())
	s.Each(func(c Cell) {
		out = append(out, c)
	})
	return out
}

// String returns the set as "{(0,0), (0,1)}".
func (s CellSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	s.Each(func(c Cell) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(c.String())
	})
	b.WriteByte('}')
	return b.String()
}

// key encodes the set's bits for use in map keys.
func (s CellSet) key() string {
	buf := make([]byte, 8*len(s.words))
	for i, w := range s.words {
		binary.LittleEndian.PutUint64(buf[8*i:], w)
	}
	return string(buf)
}

func (s CellSet) sameGrid(other CellSet) bool {
	return s.grid == other.grid && len(s.words) == len(other.words)
}

func (s CellSet) clone() CellSet {
	words := make([]uint64, len(s.words))
	copy(words, s.words)
	return CellSet{grid: s.grid, words: words}
}

func (s CellSet) has(i int) bool {
	return (s.words[i/64]>>uint(i%64))&1 == 1
}

// put and drop mutate in place. They are only used on sets the caller
// exclusively owns (freshly built sets and the knowledge base's own sets).
func (s CellSet) put(i int) {
	s.words[i/64] |= 1 << uint(i%64)
}

func (s CellSet) drop(i int) {
	s.words[i/64] &^= 1 << uint(i%64)
}
