package metrics

import (
	"strings"
	"testing"
	"time"
)

func TestNewBuildMetrics(t *testing.T) {
	m := NewBuildMetrics()

	if m.StartTime.IsZero() {
		t.Error("StartTime should be set")
	}
	if !m.EndTime.IsZero() {
		t.Error("EndTime should be zero initially")
	}
	if m.PagesProcessed != 0 || m.FormulasSeen != 0 {
		t.Error("counters should start at zero")
	}
}

func TestTotalDuration(t *testing.T) {
	m := NewBuildMetrics()
	m.StartTime = time.Now().Add(-time.Second)
	if d := m.TotalDuration(); d < time.Second {
		t.Errorf("running duration = %v, want >= 1s", d)
	}

	m.EndTime = m.StartTime.Add(250 * time.Millisecond)
	if d := m.TotalDuration(); d != 250*time.Millisecond {
		t.Errorf("finished duration = %v, want 250ms", d)
	}
}

func TestCacheHitRate(t *testing.T) {
	tests := []struct {
		name     string
		hits     int
		misses   int
		expected float64
	}{
		{"no lookups", 0, 0, 0},
		{"all hits", 4, 0, 100},
		{"half", 3, 3, 50},
		{"all misses", 0, 7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &BuildMetrics{CacheHits: tt.hits, CacheMisses: tt.misses}
			if got := m.CacheHitRate(); got != tt.expected {
				t.Errorf("CacheHitRate() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestString(t *testing.T) {
	m := &BuildMetrics{
		StartTime:        time.Now(),
		PagesProcessed:   3,
		FormulasSeen:     12,
		FormulasRendered: 5,
		CacheHits:        2,
		CacheMisses:      3,
	}
	m.EndTime = m.StartTime.Add(time.Second)

	s := m.String()
	for _, want := range []string{"3 pages", "12 formulas", "5 rendered", "2/5 hits", "40%"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
	if strings.Contains(s, "failed") {
		t.Error("no failures should be reported")
	}

	m.TasksFailed = 2
	if !strings.Contains(m.String(), "2 failed") {
		t.Errorf("String() = %q, want failure count", m.String())
	}
}
