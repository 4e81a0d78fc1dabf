package minesweeper

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidObservation is returned by RecordObservation for a cell
	// outside the grid or a count the cell's neighbourhood cannot hold.
	// The knowledge base is left unchanged; retrying with the same
	// arguments fails the same way.
	ErrInvalidObservation = errors.New("invalid observation")

	// ErrContradiction reports that the knowledge base would have to treat
	// a cell as both safe and a mine. Once raised by inference it is
	// latched: the knowledge base can no longer be trusted and refuses
	// further updates.
	ErrContradiction = errors.New("contradiction detected")

	// ErrOutOfBounds is returned when a cell outside the grid is marked.
	ErrOutOfBounds = errors.New("cell out of bounds")
)

// ObservationError describes a rejected observation.
type ObservationError struct {
	Cell   Cell
	Count  int
	Reason string
}

func (e *ObservationError) Error() string {
	return fmt.Sprintf("%v: cell %s count %d: %s", ErrInvalidObservation, e.Cell, e.Count, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidObservation.
func (e *ObservationError) Unwrap() error {
	return ErrInvalidObservation
}

// ContradictionError describes the fact or constraint that contradicted
// the knowledge base. Constraint is a copy, or nil when the contradiction
// came from a direct mark.
type ContradictionError struct {
	Cell       Cell
	Constraint *Constraint
	Reason     string
}

func (e *ContradictionError) Error() string {
	if e.Constraint != nil {
		return fmt.Sprintf("%v: %s: %s", ErrContradiction, e.Constraint, e.Reason)
	}
	return fmt.Sprintf("%v: cell %s: %s", ErrContradiction, e.Cell, e.Reason)
}

// Unwrap lets errors.Is match ErrContradiction.
func (e *ContradictionError) Unwrap() error {
	return ErrContradiction
}
