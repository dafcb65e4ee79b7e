package cache

import (
	"fmt"
	"time"
)

func (m *Manager) artifacts() TypedStore[SVGArtifact] {
	return NewTypedStore[SVGArtifact](m.db)
}

// GetSVG returns the stored SVG for key. A missing record, or a record whose
// blob has gone, is a miss rather than an error.
func (m *Manager) GetSVG(key string) ([]byte, bool, error) {
	art, err := m.artifacts().Get(BucketSVG, []byte(key))
	if err != nil {
		return nil, false, fmt.Errorf("read artifact %s: %w", key, err)
	}
	if art == nil || !m.store.Exists(CategorySVG, art.OutputHash) {
		m.misses.Add(1)
		return nil, false, nil
	}

	data, err := m.store.Get(CategorySVG, art.OutputHash, art.Compressed)
	if err != nil {
		m.misses.Add(1)
		return nil, false, fmt.Errorf("read blob %s: %w", art.OutputHash, err)
	}
	m.hits.Add(1)
	return data, true, nil
}

// PutSVG stores a rendered SVG under key.
func (m *Manager) PutSVG(key, fingerprint string, inline bool, svg []byte) error {
	hash, ct, err := m.store.Put(CategorySVG, svg)
	if err != nil {
		return fmt.Errorf("store blob: %w", err)
	}

	art := &SVGArtifact{
		Key:         key,
		Fingerprint: fingerprint,
		Inline:      inline,
		OutputHash:  hash,
		Size:        int64(len(svg)),
		CreatedAt:   time.Now().Unix(),
		Compressed:  ct != CompressionNone,
	}
	if err := m.artifacts().Put(BucketSVG, []byte(key), art); err != nil {
		return fmt.Errorf("write artifact %s: %w", key, err)
	}
	return nil
}

// GetArtifact returns the index record for key, or nil.
func (m *Manager) GetArtifact(key string) (*SVGArtifact, error) {
	return m.artifacts().Get(BucketSVG, []byte(key))
}
