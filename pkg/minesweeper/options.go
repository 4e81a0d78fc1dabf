package minesweeper

import (
	"go.uber.org/zap"
)

// Option configures a KnowledgeBase.
type Option func(*KnowledgeBase)

// WithLogger sets the logger used for inference tracing. Nil is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(kb *KnowledgeBase) {
		if logger != nil {
			kb.logger = logger
		}
	}
}

// WithMonitor replaces the knowledge base's private monitor, letting several
// knowledge bases aggregate into one. Nil is ignored.
func WithMonitor(monitor *InferenceMonitor) Option {
	return func(kb *KnowledgeBase) {
		if monitor != nil {
			kb.monitor = monitor
		}
	}
}

// WithMetrics reports inference activity to Prometheus collectors.
func WithMetrics(metrics *Metrics) Option {
	return func(kb *KnowledgeBase) {
		kb.metrics = metrics
	}
}
