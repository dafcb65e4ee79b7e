// Package renderer writes build output: pages through the layout template,
// JSON pages, and raw files such as rendered formulas.
package renderer

import (
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

//go:embed templates/layout.html
var layoutHTML string

type Renderer struct {
	DestFs    afero.Fs
	OutputDir string
	// Compress minifies HTML pages; MinifySVG minifies rendered formulas.
	Compress  bool
	MinifySVG bool

	Layout *template.Template

	mu          sync.Mutex
	RenderedSet map[string]bool
	logger      *slog.Logger
}

func New(destFs afero.Fs, outputDir string, compress, minifySVG bool, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	funcMap := template.FuncMap{
		"lower": strings.ToLower,
	}
	return &Renderer{
		DestFs:      destFs,
		OutputDir:   outputDir,
		Compress:    compress,
		MinifySVG:   minifySVG,
		Layout:      template.Must(template.New("layout.html").Funcs(funcMap).Parse(layoutHTML)),
		RenderedSet: make(map[string]bool),
		logger:      logger,
	}
}

// RegisterFile records a path written during this build.
func (r *Renderer) RegisterFile(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.RenderedSet == nil {
		r.RenderedSet = make(map[string]bool)
	}
	r.RenderedSet[filepath.ToSlash(path)] = true
}

// GetRenderedFiles returns a copy of the paths written so far.
func (r *Renderer) GetRenderedFiles() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool, len(r.RenderedSet))
	for k, v := range r.RenderedSet {
		out[k] = v
	}
	return out
}

func (r *Renderer) ClearRenderedFiles() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RenderedSet = make(map[string]bool)
}

// OutputPath joins name onto the output root, refusing names that escape it.
func (r *Renderer) OutputPath(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(name, "/")))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("output path %q escapes %s", name, r.OutputDir)
	}
	return filepath.Join(r.OutputDir, clean), nil
}
