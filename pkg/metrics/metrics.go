// Package metrics provides metrics implementations for chunkhound
package metrics

import (
	"sync"

	"github.com/aischolar/chunkhound/pkg/interfaces"
)

// NoOpMetrics is a no-operation metrics implementation
type NoOpMetrics struct{}

// Counter increments a counter metric
func (m *NoOpMetrics) Counter(name string, value float64, labels map[string]string) {}

// Gauge sets a gauge metric
func (m *NoOpMetrics) Gauge(name string, value float64, labels map[string]string) {}

// Histogram records a histogram metric
func (m *NoOpMetrics) Histogram(name string, value float64, labels map[string]string) {}

// Timer records timing metrics
func (m *NoOpMetrics) Timer(name string, duration float64, labels map[string]string) {}

// MemoryMetrics records metric calls in memory so tests can assert on them
type MemoryMetrics struct {
	mu sync.Mutex

	Counters   map[string]float64
	Gauges     map[string]float64
	Histograms map[string][]float64
	Timers     map[string][]float64
}

// NewMemoryMetrics creates an in-memory metrics recorder
func NewMemoryMetrics() *MemoryMetrics {
	return &MemoryMetrics{
		Counters:   make(map[string]float64),
		Gauges:     make(map[string]float64),
		Histograms: make(map[string][]float64),
		Timers:     make(map[string][]float64),
	}
}

// Counter increments a counter metric
func (m *MemoryMetrics) Counter(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counters[name] += value
}

// Gauge sets a gauge metric
func (m *MemoryMetrics) Gauge(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gauges[name] = value
}

// Histogram records a histogram metric
func (m *MemoryMetrics) Histogram(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Histograms[name] = append(m.Histograms[name], value)
}

// Timer records timing metrics
func (m *MemoryMetrics) Timer(name string, duration float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Timers[name] = append(m.Timers[name], duration)
}

// CounterValue returns the accumulated value for a counter
func (m *MemoryMetrics) CounterValue(name string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Counters[name]
}

// TimerCount returns how many timings were recorded under a name
func (m *MemoryMetrics) TimerCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Timers[name])
}

var _ interfaces.Metrics = (*NoOpMetrics)(nil)
var _ interfaces.Metrics = (*MemoryMetrics)(nil)

// NewNoOpMetrics creates a new no-op metrics implementation
func NewNoOpMetrics() interfaces.Metrics {
	return &NoOpMetrics{}
}

// NewTestMetrics creates a metrics implementation for testing
func NewTestMetrics() *MemoryMetrics {
	return NewMemoryMetrics()
}
