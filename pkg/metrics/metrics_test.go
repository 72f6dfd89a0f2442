package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryMetricsRecords(t *testing.T) {
	m := NewMemoryMetrics()
	labels := map[string]string{"strategy": "hierarchical"}

	m.Counter("documents_total", 1, labels)
	m.Counter("documents_total", 1, labels)
	m.Gauge("chunk_count", 12, labels)
	m.Gauge("chunk_count", 7, labels)
	m.Histogram("chunk_size", 512, labels)
	m.Timer("chunk_duration_ms", 3.5, labels)
	m.Timer("chunk_duration_ms", 4.5, labels)

	assert.Equal(t, 2.0, m.CounterValue("documents_total"))
	assert.Equal(t, 7.0, m.Gauges["chunk_count"], "gauges keep the last value")
	assert.Len(t, m.Histograms["chunk_size"], 1)
	assert.Equal(t, 2, m.TimerCount("chunk_duration_ms"))
}

func TestMemoryMetricsZeroValues(t *testing.T) {
	m := NewTestMetrics()

	assert.Equal(t, 0.0, m.CounterValue("never_touched"))
	assert.Equal(t, 0, m.TimerCount("never_touched"))
}

func TestMemoryMetricsConcurrent(t *testing.T) {
	m := NewMemoryMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Counter("ops", 1, nil)
				m.Timer("latency", 1, nil)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000.0, m.CounterValue("ops"))
	assert.Equal(t, 1000, m.TimerCount("latency"))
}

func TestNoOpMetrics(t *testing.T) {
	m := NewNoOpMetrics()

	// Must accept calls without side effects or panics.
	m.Counter("x", 1, nil)
	m.Gauge("x", 1, nil)
	m.Histogram("x", 1, nil)
	m.Timer("x", 1, nil)
}
