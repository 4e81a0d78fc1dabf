package minesweeper

// monitor.go: statistics for the inference pass

import (
	"sync"
	"time"
)

// InferenceStats holds statistics about the knowledge base's inference work
type InferenceStats struct {
	// Input statistics
	Observations         int // Observations accepted
	RejectedObservations int // Observations rejected as invalid

	// Fixpoint statistics
	Passes         int           // Outer fixpoint passes (drain + derive)
	DrainRounds    int           // Drain rounds across all passes
	PairsEvaluated int           // Ordered constraint pairs examined for subsets
	InferenceTime  time.Duration // Time spent inside the fixpoint pass

	// Knowledge statistics
	ConstraintsAdded   int // Constraints built from observations
	ConstraintsDerived int // Constraints derived by subset subtraction
	ConstraintsPruned  int // Empty or duplicate constraints removed
	SafesMarked        int // Cells newly marked safe
	MinesMarked        int // Cells newly marked as mines
	PeakConstraints    int // Largest number of live constraints seen
}

// InferenceMonitor collects InferenceStats. It is safe for concurrent use,
// so one monitor may be shared by several knowledge bases.
type InferenceMonitor struct {
	mu        sync.Mutex
	stats     InferenceStats
	passStart time.Time
}

// NewInferenceMonitor creates a new inference monitor
func NewInferenceMonitor() *InferenceMonitor {
	return &InferenceMonitor{}
}

// GetStats returns a copy of the current statistics
func (m *InferenceMonitor) GetStats() InferenceStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// StartInference marks the beginning of a fixpoint pass
func (m *InferenceMonitor) StartInference() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passStart = time.Now()
}

// EndInference marks the end of a fixpoint pass
func (m *InferenceMonitor) EndInference() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.passStart.IsZero() {
		m.stats.InferenceTime += time.Since(m.passStart)
		m.passStart = time.Time{}
	}
}

// RecordObservation records an accepted or rejected observation
func (m *InferenceMonitor) RecordObservation(accepted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if accepted {
		m.stats.Observations++
	} else {
		m.stats.RejectedObservations++
	}
}

// RecordPass records one outer fixpoint pass
func (m *InferenceMonitor) RecordPass() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Passes++
}

// RecordDrainRound records one drain round
func (m *InferenceMonitor) RecordDrainRound() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.DrainRounds++
}

// RecordPairs records n constraint pairs examined
func (m *InferenceMonitor) RecordPairs(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.PairsEvaluated += n
}

// RecordConstraint records a new constraint, derived or observed
func (m *InferenceMonitor) RecordConstraint(derived bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if derived {
		m.stats.ConstraintsDerived++
	} else {
		m.stats.ConstraintsAdded++
	}
}

// RecordPruned records n constraints removed during compaction
func (m *InferenceMonitor) RecordPruned(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.ConstraintsPruned += n
}

// RecordMark records a newly classified cell
func (m *InferenceMonitor) RecordMark(mine bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mine {
		m.stats.MinesMarked++
	} else {
		m.stats.SafesMarked++
	}
}

// RecordConstraintCount records the current number of live constraints
func (m *InferenceMonitor) RecordConstraintCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > m.stats.PeakConstraints {
		m.stats.PeakConstraints = n
	}
}
