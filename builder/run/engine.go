package run

import (
	"context"
	"log/slog"
	"sync"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/texsvg/builder/renderer/native"
)

// lazyEngine reads the engine script on the first render, so script-mode
// builds never need one.
type lazyEngine struct {
	fs      afero.Fs
	path    string
	workers int
	logger  *slog.Logger

	once sync.Once
	r    *native.Renderer
	err  error
}

func newLazyEngine(fs afero.Fs, path string, workers int, logger *slog.Logger) *lazyEngine {
	return &lazyEngine{fs: fs, path: path, workers: workers, logger: logger}
}

func (e *lazyEngine) Render(ctx context.Context, tex string, inline bool) (string, error) {
	e.once.Do(func() {
		e.r, e.err = native.NewFromFile(e.fs, e.path, e.workers, e.logger)
	})
	if e.err != nil {
		return "", e.err
	}
	return e.r.Render(ctx, tex, inline)
}
