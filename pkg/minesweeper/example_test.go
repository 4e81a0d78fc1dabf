package minesweeper_test

import (
	"errors"
	"fmt"

	"github.com/gitrdm/gokansweeper/pkg/minesweeper"
)

func ExampleKnowledgeBase_RecordObservation() {
	kb, _ := minesweeper.NewKnowledgeBase(3, 3)

	// No mines around the centre: every neighbour is safe.
	_ = kb.RecordObservation(minesweeper.Cell{Row: 1, Col: 1}, 0)

	fmt.Println(kb.Safes().Len())
	fmt.Println(kb.SafeMove())
	// Output:
	// 9
	// (0,0) true
}

func ExampleKnowledgeBase_subsetSubtraction() {
	// X . .
	// . . .
	kb, _ := minesweeper.NewKnowledgeBase(2, 3)

	_ = kb.RecordObservation(minesweeper.Cell{Row: 1, Col: 0}, 1)
	fmt.Println(kb.Constraints())

	_ = kb.RecordObservation(minesweeper.Cell{Row: 1, Col: 1}, 1)
	fmt.Println(kb.Constraints())
	fmt.Println("safe:", kb.Safes())
	// Output:
	// [{(0,0), (0,1), (1,1)} = 1]
	// [{(0,0), (0,1)} = 1]
	// safe: {(0,2), (1,0), (1,1), (1,2)}
}

func ExampleContradictionError() {
	kb, _ := minesweeper.NewKnowledgeBase(3, 3)
	_ = kb.RecordObservation(minesweeper.Cell{Row: 0, Col: 0}, 0)

	err := kb.RecordObservation(minesweeper.Cell{Row: 0, Col: 1}, 3)
	fmt.Println(errors.Is(err, minesweeper.ErrContradiction))
	fmt.Println(kb.Err() == err)
	// Output:
	// true
	// true
}
