package minesweeper

// inference.go: marking primitives and the fixpoint inference pass.
//
// The pass is two phases inside one outer loop, each driven by an explicit
// changed flag so that termination is easy to see: the known-fact sets only
// grow, derived constraints only ever shrink cell sets, and duplicates are
// never added, so over a finite grid the loop must stop.

import (
	"fmt"

	"go.uber.org/zap"
)

// markSafe adds cell to the safe set and removes it from every constraint.
// It reports whether the cell was newly marked.
func (kb *KnowledgeBase) markSafe(cell Cell) (bool, error) {
	if kb.mines.Has(cell) {
		return false, &ContradictionError{Cell: cell, Reason: "proven safe but known to be a mine"}
	}
	if kb.safe.Has(cell) {
		return false, nil
	}

	kb.safe.put(kb.grid.index(cell))
	kb.safeOrder = append(kb.safeOrder, cell)
	for i := range kb.constraints {
		c := &kb.constraints[i]
		if !c.cells.Has(cell) {
			continue
		}
		c.RemoveAsSafe(cell)
		kb.dirty = true
		if !c.Consistent() {
			bad := *c
			return true, &ContradictionError{Cell: cell, Constraint: &bad, Reason: "too few cells left for its mines"}
		}
	}

	kb.monitor.RecordMark(false)
	if kb.metrics != nil {
		kb.metrics.mark(false)
	}
	kb.logger.Debug("cell marked safe", zap.Stringer("cell", cell))
	return true, nil
}

// markMine adds cell to the mine set and removes it from every constraint,
// decrementing their counts. It reports whether the cell was newly marked.
func (kb *KnowledgeBase) markMine(cell Cell) (bool, error) {
	if kb.safe.Has(cell) {
		return false, &ContradictionError{Cell: cell, Reason: "proven a mine but known to be safe"}
	}
	if kb.mines.Has(cell) {
		return false, nil
	}

	kb.mines.put(kb.grid.index(cell))
	for i := range kb.constraints {
		c := &kb.constraints[i]
		if !c.cells.Has(cell) {
			continue
		}
		c.RemoveAsMine(cell)
		kb.dirty = true
		if !c.Consistent() {
			bad := *c
			return true, &ContradictionError{Cell: cell, Constraint: &bad, Reason: "more mines than its count allows"}
		}
	}

	kb.monitor.RecordMark(true)
	if kb.metrics != nil {
		kb.metrics.mark(true)
	}
	kb.logger.Debug("cell marked mine", zap.Stringer("cell", cell))
	return true, nil
}

// addConstraint appends c unless it is empty or already known.
// It reports whether c was appended.
func (kb *KnowledgeBase) addConstraint(c Constraint, derived bool) bool {
	if c.IsEmpty() {
		return false
	}
	if kb.dirty {
		kb.compact()
	}
	key := c.key()
	if _, ok := kb.index[key]; ok {
		return false
	}

	kb.index[key] = struct{}{}
	kb.constraints = append(kb.constraints, c)
	kb.monitor.RecordConstraint(derived)
	kb.monitor.RecordConstraintCount(len(kb.constraints))
	if derived {
		if kb.metrics != nil {
			kb.metrics.derived.Inc()
		}
		kb.logger.Debug("constraint derived", zap.Stringer("constraint", c))
	}
	return true
}

// compact drops empty and duplicate constraints, keeping the first
// occurrence, and rebuilds the index.
func (kb *KnowledgeBase) compact() {
	index := make(map[constraintKey]struct{}, len(kb.constraints))
	live := kb.constraints[:0]
	for _, c := range kb.constraints {
		if c.IsEmpty() {
			continue
		}
		key := c.key()
		if _, dup := index[key]; dup {
			continue
		}
		index[key] = struct{}{}
		live = append(live, c)
	}

	if pruned := len(kb.constraints) - len(live); pruned > 0 {
		kb.monitor.RecordPruned(pruned)
	}
	// Clear the tail so dropped constraints can be collected.
	for i := len(live); i < len(kb.constraints); i++ {
		kb.constraints[i] = Constraint{}
	}
	kb.constraints = live
	kb.index = index
	kb.dirty = false
}

// infer runs drain and derive until a full pass changes nothing.
// It returns the number of passes made.
func (kb *KnowledgeBase) infer() (int, error) {
	kb.monitor.StartInference()
	defer kb.monitor.EndInference()

	passes := 0
	for {
		passes++
		kb.monitor.RecordPass()

		marked, err := kb.drain()
		if err != nil {
			return passes, err
		}
		derived, err := kb.derive()
		if err != nil {
			return passes, err
		}
		if !marked && !derived {
			return passes, nil
		}
	}
}

// drain marks the cells of every resolvable constraint until no constraint
// is resolvable. Known mines and known safes are checked independently for
// each constraint. It reports whether any cell was newly marked.
func (kb *KnowledgeBase) drain() (bool, error) {
	marked := false
	for {
		kb.monitor.RecordDrainRound()
		changed := false

		for i := 0; i < len(kb.constraints); i++ {
			c := kb.constraints[i]
			mines := c.KnownMines()
			safes := c.KnownSafes()

			for _, cell := range mines.Cells() {
				ok, err := kb.markMine(cell)
				if err != nil {
					return marked, err
				}
				changed = changed || ok
			}
			for _, cell := range safes.Cells() {
				ok, err := kb.markSafe(cell)
				if err != nil {
					return marked, err
				}
				changed = changed || ok
			}
		}

		if !changed {
			break
		}
		marked = true
	}
	kb.compact()
	return marked, nil
}

// derive applies subset subtraction to every ordered pair of distinct
// constraints: when A ⊆ B, the cells of B not in A hold exactly
// count(B) − count(A) mines. Constraints derived here are considered in the
// next pass. It reports whether any constraint was added.
func (kb *KnowledgeBase) derive() (bool, error) {
	n := len(kb.constraints)
	derived := false
	pairs := 0
	defer func() { kb.monitor.RecordPairs(pairs) }()

	for i := 0; i < n; i++ {
		a := kb.constraints[i]
		if a.IsEmpty() {
			continue
		}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			b := kb.constraints[j]
			if b.IsEmpty() {
				continue
			}
			pairs++
			if !a.cells.SubsetOf(b.cells) {
				continue
			}

			d := Constraint{cells: b.cells.Difference(a.cells), count: b.count - a.count}
			if d.IsEmpty() {
				// Same cells; compaction already removed the equal-count case.
				if d.count != 0 {
					return derived, &ContradictionError{
						Constraint: &b,
						Reason:     fmt.Sprintf("same cells as %s with a different count", a),
					}
				}
				continue
			}
			if !d.Consistent() {
				return derived, &ContradictionError{
					Constraint: &d,
					Reason:     fmt.Sprintf("derived from %s and %s", a, b),
				}
			}
			if kb.addConstraint(d, true) {
				derived = true
			}
		}
	}
	return derived, nil
}
