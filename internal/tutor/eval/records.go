package eval

import (
	"sync"
	"time"
)

// MetricRecord is one observation of a named quality metric, tied back to the
// interaction that produced it.
type MetricRecord struct {
	Name      string    `json:"name"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	RefId     string    `json:"refId"`
}

// MetricLog is an append-only, time-ordered record of quality metrics.
type MetricLog struct {
	mu      sync.Mutex
	records []MetricRecord
}

func NewMetricLog() *MetricLog {
	return &MetricLog{}
}

func (m *MetricLog) Log(name string, value float64, refId string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, MetricRecord{
		Name:      name,
		Value:     value,
		Timestamp: time.Now(),
		RefId:     refId,
	})
}

// Records returns a snapshot in append order.
func (m *MetricLog) Records() []MetricRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MetricRecord, len(m.records))
	copy(out, m.records)
	return out
}

// MovingAverage averages the most recent window observations of one metric.
// Fewer observations than the window just averages what exists.
func (m *MetricLog) MovingAverage(name string, window int) float64 {
	if window <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sum := 0.0
	count := 0
	for i := len(m.records) - 1; i >= 0 && count < window; i-- {
		if m.records[i].Name != name {
			continue
		}
		sum += m.records[i].Value
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
