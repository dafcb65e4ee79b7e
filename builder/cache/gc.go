package cache

import (
	"fmt"
	"time"
)

// GCResult contains statistics from a Prune run
type GCResult struct {
	DeletedBlobs   int
	DeletedRecords int
	ScannedBlobs   int
	LiveBlobs      int
	Duration       time.Duration
}

// Prune deletes blobs no artifact references and artifacts whose blob is
// missing.
func (m *Manager) Prune() (*GCResult, error) {
	start := time.Now()
	result := &GCResult{}
	store := m.artifacts()

	live := make(map[string]bool)
	var dangling []string
	err := store.ForEach(BucketSVG, func(key []byte, art *SVGArtifact) error {
		if m.store.Exists(CategorySVG, art.OutputHash) {
			live[art.OutputHash] = true
		} else {
			dangling = append(dangling, string(key))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan artifacts: %w", err)
	}

	for _, key := range dangling {
		if err := store.Delete(BucketSVG, []byte(key)); err != nil {
			return nil, fmt.Errorf("delete artifact %s: %w", key, err)
		}
		result.DeletedRecords++
	}

	hashes, err := m.store.ListHashes(CategorySVG)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}
	result.ScannedBlobs = len(hashes)
	for _, h := range hashes {
		if live[h] {
			result.LiveBlobs++
			continue
		}
		_ = m.store.Delete(CategorySVG, h)
		result.DeletedBlobs++
	}

	result.Duration = time.Since(start)
	return result, nil
}
