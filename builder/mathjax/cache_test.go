package mathjax

import (
	"sync"
	"testing"
)

func TestRenderCache_MarkAndCheck(t *testing.T) {
	c := NewRenderCache()

	if c.IsCached("abc") {
		t.Error("new cache should be empty")
	}

	c.MarkCached("abc")
	if !c.IsCached("abc") {
		t.Error("IsCached should be true after MarkCached")
	}

	c.MarkCached("abc")
	if c.Count() != 1 {
		t.Errorf("Count() = %d, want 1 after marking the same fingerprint twice", c.Count())
	}
}

func TestRenderCache_TryMark(t *testing.T) {
	c := NewRenderCache()

	if !c.TryMark("fp") {
		t.Error("first TryMark should win")
	}
	if c.TryMark("fp") {
		t.Error("second TryMark should lose")
	}
	if !c.TryMark("other") {
		t.Error("TryMark on a new fingerprint should win")
	}
	if c.Count() != 2 {
		t.Errorf("Count() = %d, want 2", c.Count())
	}
}

func TestRenderCache_ConcurrentTryMark(t *testing.T) {
	c := NewRenderCache()
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.TryMark("same") {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
}
