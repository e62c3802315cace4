package metrics

import (
	"time"
)

// Collector defines the interface for collecting pipeline metrics.
// Implementations can export metrics to various backends.
type Collector interface {
	// RecordDocument is called once per processed document with its final
	// status (ok, failed, timeout) and wall time.
	RecordDocument(status string, duration time.Duration)

	// RecordTransactions counts rows recovered from a document of bank.
	RecordTransactions(bank string, n int)

	// RecordWarning counts one warning by code.
	RecordWarning(code string)
}

// NoOpCollector is a no-op implementation of Collector.
// It's used as the default collector when metrics are not needed.
type NoOpCollector struct{}

// RecordDocument does nothing.
func (NoOpCollector) RecordDocument(status string, duration time.Duration) {}

// RecordTransactions does nothing.
func (NoOpCollector) RecordTransactions(bank string, n int) {}

// RecordWarning does nothing.
func (NoOpCollector) RecordWarning(code string) {}
