// Package mocks provides mock implementations for testing
package mocks

import (
	"context"
	"sync"
)

// MockEngine is a mock implementation of services.Engine. It returns
// "<svg>" + tex + "</svg>" unless Errs has an entry for tex.
type MockEngine struct {
	mu    sync.Mutex
	Errs  map[string]error
	Calls []string
}

func NewMockEngine() *MockEngine {
	return &MockEngine{Errs: make(map[string]error)}
}

func (m *MockEngine) Render(ctx context.Context, tex string, inline bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, tex)
	if err := m.Errs[tex]; err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "<svg>" + tex + "</svg>", nil
}

// CallCount returns how many times Render was called.
func (m *MockEngine) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
