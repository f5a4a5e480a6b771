// Package metrics instruments a types.Store with Prometheus counters and
// latency histograms.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Operation and result label values.
const (
	OpRead   = "read"
	OpWrite  = "write"
	OpRemove = "remove"

	ResultOK     = "ok"
	ResultAbsent = "absent"
	ResultError  = "error"
)

// Metrics holds the store metrics.
type Metrics struct {
	StoreOps     *prometheus.CounterVec
	StoreLatency *prometheus.HistogramVec
	StoreBytes   *prometheus.CounterVec
}

// NewMetrics registers the store metrics with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		StoreOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_store_operations_total",
				Help: "Total number of store operations",
			},
			[]string{"op", "result"},
		),
		StoreLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "board_store_operation_duration_seconds",
				Help:    "Store operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		StoreBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_store_bytes_total",
				Help: "Total bytes read from or written to the store",
			},
			[]string{"op"},
		),
	}
}

// NewRegistry creates a registry with the store metrics registered.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	return reg, NewMetrics(reg)
}

// WriteTextfile writes every metric gathered from g to path in the
// Prometheus text format, suitable for the node_exporter textfile
// collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}

// Store decorates a types.Store with metrics.
type Store struct {
	next types.Store
	m    *Metrics
}

// Instrument wraps next so that every call is counted and timed.
func Instrument(next types.Store, m *Metrics) *Store {
	return &Store{next: next, m: m}
}

func (s *Store) observe(op string, start time.Time, err error) {
	result := ResultOK
	switch {
	case errors.Is(err, types.ErrAbsent):
		result = ResultAbsent
	case err != nil:
		result = ResultError
	}
	s.m.StoreOps.WithLabelValues(op, result).Inc()
	s.m.StoreLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Read reads key from the wrapped store.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	data, err := s.next.Read(ctx, key)
	s.observe(OpRead, start, err)
	if err == nil {
		s.m.StoreBytes.WithLabelValues(OpRead).Add(float64(len(data)))
	}
	return data, err
}

// Write writes value under key in the wrapped store.
func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Write(ctx, key, value)
	s.observe(OpWrite, start, err)
	if err == nil {
		s.m.StoreBytes.WithLabelValues(OpWrite).Add(float64(len(value)))
	}
	return err
}

// Remove removes key from the wrapped store.
func (s *Store) Remove(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Remove(ctx, key)
	s.observe(OpRemove, start, err)
	return err
}
