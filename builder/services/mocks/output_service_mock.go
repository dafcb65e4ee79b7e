package mocks

import (
	"sync"

	"github.com/Kush-Singh-26/texsvg/builder/models"
)

// MockOutputService is a mock implementation of services.OutputService
type MockOutputService struct {
	mu              sync.Mutex
	Pages           map[string]models.PageData
	JSONPages       map[string]models.JSONPage
	Files           map[string][]byte
	RegisteredFiles map[string]bool
	WriteErr        error
}

func NewMockOutputService() *MockOutputService {
	return &MockOutputService{
		Pages:           make(map[string]models.PageData),
		JSONPages:       make(map[string]models.JSONPage),
		Files:           make(map[string][]byte),
		RegisteredFiles: make(map[string]bool),
	}
}

func (m *MockOutputService) RenderPage(name string, data models.PageData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Pages[name] = data
	m.RegisteredFiles[name] = true
	return nil
}

func (m *MockOutputService) RenderJSON(name string, page models.JSONPage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.JSONPages[name] = page
	m.RegisteredFiles[name] = true
	return nil
}

func (m *MockOutputService) WriteFile(name string, data []byte) error {
	return m.WriteRaw(name, data)
}

func (m *MockOutputService) WriteRaw(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Files[name] = append([]byte(nil), data...)
	m.RegisteredFiles[name] = true
	return nil
}

func (m *MockOutputService) RegisterFile(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegisteredFiles[path] = true
}

func (m *MockOutputService) GetRenderedFiles() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]bool, len(m.RegisteredFiles))
	for k, v := range m.RegisteredFiles {
		out[k] = v
	}
	return out
}

func (m *MockOutputService) ClearRenderedFiles() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegisteredFiles = make(map[string]bool)
}
