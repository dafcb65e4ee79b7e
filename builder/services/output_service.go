package services

import (
	"log/slog"

	"github.com/Kush-Singh-26/texsvg/builder/models"
	"github.com/Kush-Singh-26/texsvg/builder/renderer"
)

type outputServiceImpl struct {
	rnd    *renderer.Renderer
	logger *slog.Logger
}

func NewOutputService(rnd *renderer.Renderer, logger *slog.Logger) OutputService {
	return &outputServiceImpl{
		rnd:    rnd,
		logger: logger,
	}
}

func (s *outputServiceImpl) RenderPage(name string, data models.PageData) error {
	return s.rnd.RenderPage(name, data)
}

func (s *outputServiceImpl) RenderJSON(name string, page models.JSONPage) error {
	return s.rnd.RenderJSON(name, page)
}

func (s *outputServiceImpl) WriteFile(name string, data []byte) error {
	return s.rnd.WriteFile(name, data)
}

func (s *outputServiceImpl) WriteRaw(name string, data []byte) error {
	return s.rnd.WriteRaw(name, data)
}

func (s *outputServiceImpl) RegisterFile(path string) {
	s.rnd.RegisterFile(path)
}

func (s *outputServiceImpl) GetRenderedFiles() map[string]bool {
	return s.rnd.GetRenderedFiles()
}

func (s *outputServiceImpl) ClearRenderedFiles() {
	s.rnd.ClearRenderedFiles()
}
