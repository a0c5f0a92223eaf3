// pkg/ops/metrics.go
package ops

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Metrics tracks counters for a pipeline run. Counters are safe for
// concurrent use; the same instance can be shared between the graph and
// individual operators.
type Metrics struct {
	rowsProcessed   int64
	chunksProcessed int64
	unknownTotal    int64

	mu            sync.Mutex
	unknownByCol  map[string]int64
	startTime     time.Time
	logger        *zap.Logger
}

// NewMetrics creates a metrics tracker. logger may be nil.
func NewMetrics(logger *zap.Logger) *Metrics {
	return &Metrics{
		unknownByCol: make(map[string]int64),
		startTime:    time.Now(),
		logger:       logger,
	}
}

// AddChunk records one processed chunk and its row count.
func (m *Metrics) AddChunk(rows int) {
	atomic.AddInt64(&m.chunksProcessed, 1)
	atomic.AddInt64(&m.rowsProcessed, int64(rows))
}

// AddUnknownCategories records categorical values that were absent from the
// fitted dictionary and mapped to the reserved unknown code. This is an
// observability event, not an error.
func (m *Metrics) AddUnknownCategories(column string, count int64) {
	if count == 0 {
		return
	}
	atomic.AddInt64(&m.unknownTotal, count)
	m.mu.Lock()
	m.unknownByCol[column] += count
	m.mu.Unlock()
}

// RowsProcessed returns the total number of rows seen so far.
func (m *Metrics) RowsProcessed() int64 {
	return atomic.LoadInt64(&m.rowsProcessed)
}

// ChunksProcessed returns the total number of chunks seen so far.
func (m *Metrics) ChunksProcessed() int64 {
	return atomic.LoadInt64(&m.chunksProcessed)
}

// UnknownCategories returns the total unknown-category event count.
func (m *Metrics) UnknownCategories() int64 {
	return atomic.LoadInt64(&m.unknownTotal)
}

// UnknownCategoriesByColumn returns a copy of the per-column unknown counts.
func (m *Metrics) UnknownCategoriesByColumn() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.unknownByCol))
	for col, count := range m.unknownByCol {
		out[col] = count
	}
	return out
}

// LogSummary emits a summary of the run via the configured logger.
func (m *Metrics) LogSummary() {
	if m.logger == nil {
		return
	}
	fields := []zap.Field{
		zap.Int64("rowsProcessed", m.RowsProcessed()),
		zap.Int64("chunksProcessed", m.ChunksProcessed()),
		zap.Duration("elapsed", time.Since(m.startTime)),
	}
	if unknown := m.UnknownCategories(); unknown > 0 {
		fields = append(fields, zap.Int64("unknownCategories", unknown))
		for col, count := range m.UnknownCategoriesByColumn() {
			m.logger.Debug("Unknown categories mapped to reserved code",
				zap.String("column", col),
				zap.Int64("count", count))
		}
	}
	m.logger.Info("Pipeline metrics", fields...)
}
