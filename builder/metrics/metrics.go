// Package metrics provides build performance tracking.
package metrics

import (
	"fmt"
	"time"
)

// BuildMetrics tracks counters and timing for one build.
type BuildMetrics struct {
	StartTime time.Time
	EndTime   time.Time
	DrainTime time.Duration
	ParseTime time.Duration

	PagesProcessed   int
	FormulasSeen     int
	FormulasRendered int
	TasksFailed      int
	CacheHits        int
	CacheMisses      int
	FilesWritten     int
}

func NewBuildMetrics() *BuildMetrics {
	return &BuildMetrics{
		StartTime: time.Now(),
	}
}

// RecordEnd marks the end of the build.
func (m *BuildMetrics) RecordEnd() {
	m.EndTime = time.Now()
}

// TotalDuration returns the total build duration.
func (m *BuildMetrics) TotalDuration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// CacheHitRate returns the artifact cache hit percentage.
func (m *BuildMetrics) CacheHitRate() float64 {
	total := m.CacheHits + m.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(m.CacheHits) / float64(total) * 100
}

// String returns a single-line summary.
func (m *BuildMetrics) String() string {
	s := fmt.Sprintf("📊 Built %d pages, %d formulas (%d rendered, cache: %d/%d hits, %.0f%%) in %v",
		m.PagesProcessed,
		m.FormulasSeen,
		m.FormulasRendered,
		m.CacheHits,
		m.CacheHits+m.CacheMisses,
		m.CacheHitRate(),
		m.TotalDuration().Round(time.Millisecond),
	)
	if m.TasksFailed > 0 {
		s += fmt.Sprintf(", %d failed", m.TasksFailed)
	}
	return s
}

// Print outputs the metrics to stdout.
func (m *BuildMetrics) Print() {
	fmt.Println(m.String())
}
