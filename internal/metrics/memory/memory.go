package memory

import (
	"sync"
	"time"
)

// MemoryCollector implements metrics.Collector in memory for tests.
type MemoryCollector struct {
	mu sync.RWMutex

	documents    map[string]int
	transactions map[string]int
	warnings     map[string]int
	durations    []time.Duration
}

// NewMemoryCollector creates a new in-memory metrics collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{
		documents:    make(map[string]int),
		transactions: make(map[string]int),
		warnings:     make(map[string]int),
	}
}

// RecordDocument records a processed document.
func (m *MemoryCollector) RecordDocument(status string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[status]++
	m.durations = append(m.durations, duration)
}

// RecordTransactions records recovered rows.
func (m *MemoryCollector) RecordTransactions(bank string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[bank] += n
}

// RecordWarning records one warning.
func (m *MemoryCollector) RecordWarning(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings[code]++
}

// Documents returns the document count for status.
func (m *MemoryCollector) Documents(status string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[status]
}

// Transactions returns the row count for bank.
func (m *MemoryCollector) Transactions(bank string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transactions[bank]
}

// Warnings returns the warning count for code.
func (m *MemoryCollector) Warnings(code string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.warnings[code]
}

// DurationCount returns how many durations were observed.
func (m *MemoryCollector) DurationCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.durations)
}
