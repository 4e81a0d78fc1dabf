// Package minesweeper provides a knowledge-based inference engine for
// Minesweeper. This file defines the KnowledgeBase: the authoritative,
// deduplicated collection of constraints together with the global sets of
// cells known to be safe or mines.
//
// # How Knowledge Flows
//
// The game loop reveals a cell and reports how many of its neighbours are
// mines. The knowledge base turns that report into a Constraint over the
// neighbours it does not yet know about, then runs inference to a fixpoint:
//
//	RecordObservation((1,1), 1)
//	  mark (1,1) safe
//	  add {unknown neighbours of (1,1)} = 1 - known mines among them
//	  repeat
//	    drain:  count 0 ⇒ all safe; count == len ⇒ all mines
//	    derive: A ⊆ B ⇒ B−A = count(B) − count(A)
//	  until a pass neither marks a cell nor derives a constraint
//
// Marking a cell removes it from every live constraint, so once inference
// returns no constraint mentions a classified cell and none is left
// resolvable.
//
// Thread safety: a KnowledgeBase is NOT safe for concurrent use. Every
// session owns its own knowledge base; nothing is shared between them.
package minesweeper

import (
	"fmt"

	"go.uber.org/zap"
)

// RandomSource supplies the randomness for UnconstrainedMove.
// *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	// IntN returns a value in [0, n). n is always positive.
	IntN(n int) int
}

// KnowledgeBase holds everything proven about one game.
//
// It owns its constraints exclusively: they are stored as values, mutated
// only through the knowledge base's own methods and handed out as copies.
type KnowledgeBase struct {
	// grid is the fixed board geometry
	grid Grid

	// moves holds the cells the game loop has revealed
	moves CellSet

	// safe and mines hold proven facts; a cell never leaves either set
	safe  CellSet
	mines CellSet

	// safeOrder lists safe cells in the order they were proven
	safeOrder []Cell

	// constraints holds the live, non-empty, pairwise distinct constraints
	constraints []Constraint

	// index mirrors constraints for duplicate detection; rebuilt by compact
	index map[constraintKey]struct{}

	// dirty is set when marks may have emptied or merged constraints
	dirty bool

	// err latches the first contradiction found by inference
	err error

	logger  *zap.Logger
	monitor *InferenceMonitor
	metrics *Metrics
}

// NewKnowledgeBase creates an empty knowledge base for a height×width board.
func NewKnowledgeBase(height, width int, opts ...Option) (*KnowledgeBase, error) {
	grid, err := NewGrid(height, width)
	if err != nil {
		return nil, fmt.Errorf("KnowledgeBase: %w", err)
	}

	kb := &KnowledgeBase{
		grid:    grid,
		moves:   grid.EmptySet(),
		safe:    grid.EmptySet(),
		mines:   grid.EmptySet(),
		index:   make(map[constraintKey]struct{}),
		logger:  zap.NewNop(),
		monitor: NewInferenceMonitor(),
	}
	for _, opt := range opts {
		opt(kb)
	}
	return kb, nil
}

// RecordObservation records that cell was revealed and has count mines among
// its neighbours, then runs inference to a fixpoint.
//
// The observation is rejected with an *ObservationError (matching
// ErrInvalidObservation) when cell is outside the grid, count is outside
// [0, 8], or count exceeds the number of neighbours on the board; the
// knowledge base is unchanged in that case.
//
// An observation that conflicts with what is already proven (the cell is a
// known mine, or the count cannot be reconciled with known neighbours)
// returns a *ContradictionError and latches it.
func (kb *KnowledgeBase) RecordObservation(cell Cell, count int) error {
	if kb.err != nil {
		return kb.err
	}
	if err := kb.validateObservation(cell, count); err != nil {
		kb.monitor.RecordObservation(false)
		if kb.metrics != nil {
			kb.metrics.observe("invalid")
		}
		kb.logger.Debug("observation rejected", zap.Error(err))
		return err
	}

	neighbors := kb.grid.Neighbors(cell)
	knownMines := neighbors.Intersect(kb.mines).Len()
	unknown := neighbors.Difference(kb.mines).Difference(kb.safe)
	remaining := count - knownMines

	if kb.mines.Has(cell) {
		return kb.contradicted(&ContradictionError{Cell: cell, Reason: "revealed cell is a known mine"})
	}
	if remaining < 0 || remaining > unknown.Len() {
		return kb.contradicted(&ContradictionError{
			Cell:   cell,
			Reason: fmt.Sprintf("count %d cannot hold with %d known mines and %d unknown neighbours", count, knownMines, unknown.Len()),
		})
	}

	kb.moves.put(kb.grid.index(cell))
	if _, err := kb.markSafe(cell); err != nil {
		return kb.contradicted(err)
	}

	kb.addConstraint(Constraint{cells: unknown, count: remaining}, false)

	passes, err := kb.infer()
	if err != nil {
		return kb.contradicted(err)
	}

	kb.monitor.RecordObservation(true)
	if kb.metrics != nil {
		kb.metrics.observe("accepted")
		kb.metrics.passes.Observe(float64(passes))
		kb.metrics.constraints.Set(float64(len(kb.constraints)))
	}
	kb.logger.Debug("observation recorded",
		zap.Stringer("cell", cell),
		zap.Int("count", count),
		zap.Int("passes", passes),
		zap.Int("constraints", len(kb.constraints)),
		zap.Int("safes", kb.safe.Len()),
		zap.Int("mines", kb.mines.Len()))
	return nil
}

// MarkSafe records that cell is safe and removes it from every constraint.
// It is idempotent and does not run inference: constraints it makes
// resolvable are drained by the next Infer or RecordObservation.
func (kb *KnowledgeBase) MarkSafe(cell Cell) error {
	if err := kb.checkMark(cell); err != nil {
		return err
	}
	if kb.mines.Has(cell) {
		return &ContradictionError{Cell: cell, Reason: "cell is already a known mine"}
	}
	if _, err := kb.markSafe(cell); err != nil {
		return kb.fail(err)
	}
	kb.compact()
	return nil
}

// MarkMine records that cell is a mine and removes it from every constraint,
// decrementing their counts. Like MarkSafe it is idempotent and does not run
// inference.
func (kb *KnowledgeBase) MarkMine(cell Cell) error {
	if err := kb.checkMark(cell); err != nil {
		return err
	}
	if kb.safe.Has(cell) {
		return &ContradictionError{Cell: cell, Reason: "cell is already known safe"}
	}
	if _, err := kb.markMine(cell); err != nil {
		return kb.fail(err)
	}
	kb.compact()
	return nil
}

// Infer runs inference to a fixpoint. RecordObservation does this itself;
// Infer is only needed after direct MarkSafe or MarkMine calls.
func (kb *KnowledgeBase) Infer() error {
	if kb.err != nil {
		return kb.err
	}
	if _, err := kb.infer(); err != nil {
		return kb.fail(err)
	}
	return nil
}

// SafeMove returns a cell proven safe that has not been revealed yet.
// Cells are offered in the order they were proven safe. It returns false
// when no such cell exists. SafeMove does not modify the knowledge base.
func (kb *KnowledgeBase) SafeMove() (Cell, bool) {
	for _, c := range kb.safeOrder {
		if !kb.moves.Has(c) && !kb.mines.Has(c) {
			return c, true
		}
	}
	return Cell{}, false
}

// UnconstrainedMove returns a uniformly random cell that has not been
// revealed and is not a known mine, or false if none is left.
// The choice is rng.IntN over the candidates in row-major order, so a
// deterministic source gives a deterministic move.
func (kb *KnowledgeBase) UnconstrainedMove(rng RandomSource) (Cell, bool) {
	excluded := kb.moves.Union(kb.mines)
	candidates := make([]Cell, 0, kb.grid.Size()-excluded.Len())
	for _, c := range kb.grid.Cells() {
		if !excluded.Has(c) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return Cell{}, false
	}
	return candidates[rng.IntN(len(candidates))], true
}

// Grid returns the board geometry.
func (kb *KnowledgeBase) Grid() Grid { return kb.grid }

// Moves returns the revealed cells.
func (kb *KnowledgeBase) Moves() CellSet { return kb.moves.clone() }

// Safes returns the cells proven safe.
func (kb *KnowledgeBase) Safes() CellSet { return kb.safe.clone() }

// Mines returns the cells proven to be mines.
func (kb *KnowledgeBase) Mines() CellSet { return kb.mines.clone() }

// Constraints returns a copy of the live constraints in insertion order.
func (kb *KnowledgeBase) Constraints() []Constraint {
	out := make([]Constraint, len(kb.constraints))
	copy(out, kb.constraints)
	return out
}

// Stats returns the knowledge base's inference statistics. When a shared
// monitor was supplied the figures cover every knowledge base using it.
func (kb *KnowledgeBase) Stats() InferenceStats {
	return kb.monitor.GetStats()
}

// Err returns the latched contradiction, or nil.
func (kb *KnowledgeBase) Err() error { return kb.err }

func (kb *KnowledgeBase) validateObservation(cell Cell, count int) error {
	if !kb.grid.Contains(cell) {
		return &ObservationError{Cell: cell, Count: count, Reason: fmt.Sprintf("outside %s grid", kb.grid)}
	}
	if count < 0 || count > MaxNeighbors {
		return &ObservationError{Cell: cell, Count: count, Reason: fmt.Sprintf("count must be in [0, %d]", MaxNeighbors)}
	}
	if n := kb.grid.Neighbors(cell).Len(); count > n {
		return &ObservationError{Cell: cell, Count: count, Reason: fmt.Sprintf("cell has only %d neighbours", n)}
	}
	return nil
}

func (kb *KnowledgeBase) checkMark(cell Cell) error {
	if kb.err != nil {
		return kb.err
	}
	if !kb.grid.Contains(cell) {
		return fmt.Errorf("%w: %s on %s grid", ErrOutOfBounds, cell, kb.grid)
	}
	return nil
}

// contradicted latches an observation's contradiction.
func (kb *KnowledgeBase) contradicted(err error) error {
	kb.monitor.RecordObservation(false)
	if kb.metrics != nil {
		kb.metrics.observe("contradiction")
	}
	return kb.fail(err)
}

// fail latches err and returns it.
func (kb *KnowledgeBase) fail(err error) error {
	kb.err = err
	kb.logger.Warn("knowledge base contradicted", zap.Error(err))
	return err
}
