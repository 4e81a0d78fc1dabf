package minesweeper

import (
	"math/rand/v2"
	"testing"
)

// checkInvariants fails the test if the knowledge base is not fully
// simplified: disjoint fact sets, no classified cells in constraints, no
// duplicates and nothing left to drain.
func checkInvariants(t *testing.T, kb *KnowledgeBase) {
	t.Helper()

	if !kb.safe.Intersect(kb.mines).IsEmpty() {
		t.Fatalf("safe and mines overlap: %s", kb.safe.Intersect(kb.mines))
	}
	if len(kb.index) != len(kb.constraints) {
		t.Fatalf("index has %d keys for %d constraints", len(kb.index), len(kb.constraints))
	}
	for i, c := range kb.constraints {
		if c.IsEmpty() {
			t.Fatalf("constraint %d is empty", i)
		}
		if !c.Consistent() {
			t.Fatalf("constraint %d inconsistent: %s", i, c)
		}
		if !c.cells.Intersect(kb.safe).IsEmpty() || !c.cells.Intersect(kb.mines).IsEmpty() {
			t.Fatalf("constraint %d mentions a classified cell: %s", i, c)
		}
		if c.count == 0 || c.count == c.Len() {
			t.Fatalf("constraint %d left resolvable: %s", i, c)
		}
		for j := i + 1; j < len(kb.constraints); j++ {
			if c.Equal(kb.constraints[j]) {
				t.Fatalf("constraints %d and %d are equal: %s", i, j, c)
			}
		}
	}
}

// checkSound fails the test if the knowledge base contradicts the truth.
func checkSound(t *testing.T, kb *KnowledgeBase, truth CellSet) {
	t.Helper()
	if !kb.mines.SubsetOf(truth) {
		t.Fatalf("false mines: %s", kb.mines.Difference(truth))
	}
	if bad := kb.safe.Intersect(truth); !bad.IsEmpty() {
		t.Fatalf("mines marked safe: %s", bad)
	}
}

// trueCount is the board oracle: mines around cell in truth.
func trueCount(truth CellSet, cell Cell) int {
	return truth.grid.Neighbors(cell).Intersect(truth).Len()
}

// randomMines places n mines on grid deterministically from seed.
func randomMines(grid Grid, n int, seed uint64) CellSet {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	set := grid.EmptySet()
	for _, i := range rng.Perm(grid.Size())[:n] {
		set.put(i)
	}
	return set
}

// stubRand always picks the same candidate and remembers the n it saw.
type stubRand struct {
	pick int
	seen []int
}

func (r *stubRand) IntN(n int) int {
	r.seen = append(r.seen, n)
	return r.pick % n
}

// playTruthfully runs the game loop against truth until a mine is hit or no
// move is left, calling after once per recorded observation.
func playTruthfully(t *testing.T, kb *KnowledgeBase, truth CellSet, rng RandomSource, after func()) {
	t.Helper()
	for {
		cell, ok := kb.SafeMove()
		if !ok {
			cell, ok = kb.UnconstrainedMove(rng)
		}
		if !ok || truth.Has(cell) {
			return
		}
		if err := kb.RecordObservation(cell, trueCount(truth, cell)); err != nil {
			t.Fatalf("RecordObservation(%s) error = %v", cell, err)
		}
		after()
	}
}
