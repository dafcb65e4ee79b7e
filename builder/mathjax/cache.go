package mathjax

import "sync"

// RenderCache records which fingerprints have had their render+write
// scheduled during one build. It starts empty, only grows, and is dropped
// with the build.
type RenderCache struct {
	mu       sync.Mutex
	entries  map[string]bool
	rendered int
}

func NewRenderCache() *RenderCache {
	return &RenderCache{entries: make(map[string]bool)}
}

func (c *RenderCache) IsCached(fingerprint string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[fingerprint]
}

// MarkCached is a no-op for fingerprints that are already marked.
func (c *RenderCache) MarkCached(fingerprint string) {
	c.TryMark(fingerprint)
}

// TryMark marks the fingerprint and reports whether this call was the first.
// Check and mark happen under one lock, so concurrent tasks for the same
// formula cannot both win.
func (c *RenderCache) TryMark(fingerprint string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[fingerprint] {
		return false
	}
	c.entries[fingerprint] = true
	c.rendered++
	return true
}

// Count returns how many distinct formulas were scheduled. Diagnostic only.
func (c *RenderCache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rendered
}
