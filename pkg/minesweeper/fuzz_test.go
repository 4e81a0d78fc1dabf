package minesweeper

import (
	"math/rand/v2"
	"testing"
)

// FuzzRecordObservation reveals cells chosen by the input against a fixed
// layout, reporting true counts. Inference must never contradict itself or
// the layout, and must always leave the knowledge base fully simplified.
func FuzzRecordObservation(f *testing.F) {
	f.Add([]byte{0})
	f.Add([]byte{7, 14, 21, 28, 35})
	f.Add([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})
	f.Add([]byte{35, 34, 33, 32, 31, 30, 29, 28, 27, 26})

	grid := Grid{Height: 6, Width: 6}
	truth := grid.Set(Cell{0, 0}, Cell{2, 3}, Cell{3, 0}, Cell{4, 4}, Cell{5, 1})

	f.Fuzz(func(t *testing.T, data []byte) {
		kb, err := NewKnowledgeBase(grid.Height, grid.Width)
		if err != nil {
			t.Fatal(err)
		}
		for _, b := range data {
			cell := grid.cell(int(b) % grid.Size())
			if truth.Has(cell) {
				continue
			}
			if err := kb.RecordObservation(cell, trueCount(truth, cell)); err != nil {
				t.Fatalf("RecordObservation(%s) error = %v", cell, err)
			}
			checkInvariants(t, kb)
			checkSound(t, kb, truth)
		}
	})
}

func BenchmarkPlayGame(b *testing.B) {
	grid := Grid{Height: 16, Width: 16}
	truth := randomMines(grid, 40, 42)

	b.ReportAllocs()
	for b.Loop() {
		kb, err := NewKnowledgeBase(grid.Height, grid.Width)
		if err != nil {
			b.Fatal(err)
		}
		rng := rand.New(rand.NewPCG(1, 2))
		for {
			cell, ok := kb.SafeMove()
			if !ok {
				cell, ok = kb.UnconstrainedMove(rng)
			}
			if !ok || truth.Has(cell) {
				break
			}
			if err := kb.RecordObservation(cell, trueCount(truth, cell)); err != nil {
				b.Fatal(err)
			}
		}
	}
}
