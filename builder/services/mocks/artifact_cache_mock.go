package mocks

import "sync"

// MockArtifactCache is a mock implementation of services.ArtifactCache
type MockArtifactCache struct {
	mu        sync.Mutex
	SVGs      map[string][]byte
	GetErr    error
	PutErr    error
	CallCount map[string]int
}

func NewMockArtifactCache() *MockArtifactCache {
	return &MockArtifactCache{
		SVGs:      make(map[string][]byte),
		CallCount: make(map[string]int),
	}
}

func (m *MockArtifactCache) recordCall(method string) {
	if m.CallCount == nil {
		m.CallCount = make(map[string]int)
	}
	m.CallCount[method]++
}

func (m *MockArtifactCache) GetSVG(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("GetSVG")
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	data, ok := m.SVGs[key]
	return data, ok, nil
}

func (m *MockArtifactCache) PutSVG(key, fingerprint string, inline bool, svg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("PutSVG")
	if m.PutErr != nil {
		return m.PutErr
	}
	m.SVGs[key] = svg
	return nil
}
