package prometheus

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements metrics.Collector for Prometheus.
type PrometheusCollector struct {
	namespace string
	registry  *prometheus.Registry

	documents    *prometheus.CounterVec
	transactions *prometheus.CounterVec
	warnings     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// NewPrometheusCollector creates a collector whose metrics are registered
// on a fresh registry of its own.
func NewPrometheusCollector(namespace string) (*PrometheusCollector, error) {
	pc := &PrometheusCollector{
		namespace: namespace,
		registry:  prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_processed_total",
				Help:      "Total number of statement documents processed per status",
			},
			[]string{"status"},
		),
		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_parsed_total",
				Help:      "Total number of transactions recovered per bank",
			},
			[]string{"bank"},
		),
		warnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "warnings_total",
				Help:      "Total number of processing warnings per code",
			},
			[]string{"code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "document_duration_seconds",
				Help:      "Time spent processing one document",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
			},
			[]string{"status"},
		),
	}

	if err := pc.Register(pc.registry); err != nil {
		return nil, err
	}
	return pc, nil
}

// Register registers all metrics with the given Prometheus registry.
func (pc *PrometheusCollector) Register(registry *prometheus.Registry) error {
	collectors := []prometheus.Collector{
		pc.documents,
		pc.transactions,
		pc.warnings,
		pc.duration,
	}

	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return fmt.Errorf("registering metric: %w", err)
		}
	}
	return nil
}

// Registry returns the collector's own registry.
func (pc *PrometheusCollector) Registry() *prometheus.Registry {
	return pc.registry
}

// WriteTextfile writes the current metrics in the text exposition format,
// suitable for the node exporter textfile collector.
func (pc *PrometheusCollector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, pc.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

// RecordDocument records a processed document.
func (pc *PrometheusCollector) RecordDocument(status string, duration time.Duration) {
	pc.documents.WithLabelValues(status).Inc()
	pc.duration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordTransactions records recovered rows.
func (pc *PrometheusCollector) RecordTransactions(bank string, n int) {
	pc.transactions.WithLabelValues(bank).Add(float64(n))
}

// RecordWarning records one warning.
func (pc *PrometheusCollector) RecordWarning(code string) {
	pc.warnings.WithLabelValues(code).Inc()
}
