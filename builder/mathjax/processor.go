// Package mathjax turns math spans into output markup and schedules the
// render+write work for image output.
package mathjax

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kush-Singh-26/texsvg/builder/utils"
)

// TargetMode selects how math reaches the reader.
type TargetMode int

const (
	// ModeImage pre-renders formulas to SVG files referenced by <img> tags.
	ModeImage TargetMode = iota
	// ModeScript emits raw tex in script tags for client-side typesetting.
	ModeScript
)

func (m TargetMode) String() string {
	switch m {
	case ModeScript:
		return "script"
	default:
		return "image"
	}
}

// TargetFor maps an output target name onto its math strategy. Browser
// targets can typeset on the client; everything else gets images.
func TargetFor(output string) TargetMode {
	switch output {
	case "website", "json":
		return ModeScript
	default:
		return ModeImage
	}
}

const displayWrapperOpen = `<div style="text-align:center;margin: 1em 0em;width: 100%;">`

// Block is one math span as extracted from a page, delimiters removed.
type Block struct {
	Body string
}

// PendingTask is the deferred render+write for one image-mode block.
type PendingTask struct {
	Fingerprint string
	Formula     string
	Inline      bool
	Filename    string
}

// ProcessedBlock is the markup that replaces a span, plus the work it left
// behind. Task is nil in script mode.
type ProcessedBlock struct {
	Body string
	Task *PendingTask
}

// Renderer converts normalized tex into SVG markup.
type Renderer interface {
	Render(ctx context.Context, tex string, inline bool) (string, error)
}

// Writer persists a rendered file relative to the output root.
type Writer interface {
	WriteFile(name string, data []byte) error
}

// Options configures a Processor.
type Options struct {
	Target   TargetMode
	ForceSVG bool
	Workers  int
}

// Processor handles every math block of a build. Blocks get their markup
// synchronously; image renders run later in Drain.
type Processor struct {
	opts     Options
	cache    *RenderCache
	renderer Renderer
	writer   Writer
	logger   *slog.Logger
}

func NewProcessor(opts Options, cache *RenderCache, renderer Renderer, writer Writer, logger *slog.Logger) *Processor {
	if cache == nil {
		cache = NewRenderCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		opts:     opts,
		cache:    cache,
		renderer: renderer,
		writer:   writer,
		logger:   logger,
	}
}

// Cache returns the render cache shared by this processor's tasks.
func (p *Processor) Cache() *RenderCache {
	return p.cache
}

// Mode is the strategy actually applied, after the ForceSVG override.
func (p *Processor) Mode() TargetMode {
	if p.opts.Target == ModeScript && !p.opts.ForceSVG {
		return ModeScript
	}
	return ModeImage
}

// Process returns the replacement markup for a block. Identical formulas
// produce identical markup; deduplication happens when tasks execute.
func (p *Processor) Process(blk Block, inline bool) ProcessedBlock {
	if p.Mode() == ModeScript {
		return ProcessedBlock{Body: scriptTag(DecodeEntities(blk.Body), inline)}
	}

	tex := NormalizeTeX(blk.Body)
	fp := Fingerprint(tex)
	filename := ImageFilename(fp)

	img := `<img src="/` + filename + `" />`
	if !inline {
		img = displayWrapperOpen + img + `</div>`
	}

	return ProcessedBlock{
		Body: img,
		Task: &PendingTask{
			Fingerprint: fp,
			Formula:     tex,
			Inline:      inline,
			Filename:    filename,
		},
	}
}

func scriptTag(tex string, inline bool) string {
	mode := "mode=display"
	if inline {
		mode = ""
	}
	return `<script type="math/tex; ` + mode + `">` + tex + `</script>`
}

// Execute runs one pending task. Only the first task for a fingerprint
// renders and writes; later ones return nil without doing anything.
func (p *Processor) Execute(ctx context.Context, task PendingTask) error {
	if !p.cache.TryMark(task.Fingerprint) {
		return nil
	}

	svg, err := p.renderer.Render(ctx, task.Formula, task.Inline)
	if err != nil {
		return fmt.Errorf("render %s: %w", task.Filename, err)
	}

	if err := p.writer.WriteFile(task.Filename, []byte(svg)); err != nil {
		return &WriteError{Filename: task.Filename, Err: err}
	}

	p.logger.Debug("Rendered formula", "file", task.Filename, "inline", task.Inline)
	return nil
}

// Drain executes tasks on a bounded worker pool and returns every failure
// joined together. Completion order is unspecified.
func (p *Processor) Drain(ctx context.Context, tasks []PendingTask) error {
	if len(tasks) == 0 {
		return nil
	}

	pool := utils.NewWorkerPool(ctx, p.opts.Workers, p.Execute)
	pool.Start()
	for _, task := range tasks {
		pool.Submit(task)
	}
	return pool.Stop()
}
