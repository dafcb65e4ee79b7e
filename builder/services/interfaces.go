package services

import (
	"context"

	"github.com/Kush-Singh-26/texsvg/builder/models"
)

// Engine renders tex to SVG markup. *native.Renderer implements it.
type Engine interface {
	Render(ctx context.Context, tex string, inline bool) (string, error)
}

// ArtifactCache persists rendered SVGs across builds. *cache.Manager
// implements it.
type ArtifactCache interface {
	GetSVG(key string) ([]byte, bool, error)
	PutSVG(key, fingerprint string, inline bool, svg []byte) error
}

// MathRenderService renders formulas for the block processor, consulting the
// artifact cache before the engine.
type MathRenderService interface {
	Render(ctx context.Context, tex string, inline bool) (string, error)
	// Stats returns artifact cache hits and misses for this service.
	Stats() (hits, misses int)
}

// OutputService writes build output below the output root.
type OutputService interface {
	RenderPage(name string, data models.PageData) error
	RenderJSON(name string, page models.JSONPage) error
	WriteFile(name string, data []byte) error
	WriteRaw(name string, data []byte) error
	RegisterFile(path string)
	GetRenderedFiles() map[string]bool
	ClearRenderedFiles()
}
