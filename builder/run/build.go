package run

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/texsvg/builder/mathjax"
	"github.com/Kush-Singh-26/texsvg/builder/metrics"
	"github.com/Kush-Singh-26/texsvg/builder/models"
	"github.com/Kush-Singh-26/texsvg/builder/parser"
	"github.com/Kush-Singh-26/texsvg/builder/utils"
)

// Build runs one complete build. Every build starts with an empty render
// cache, so each distinct formula is rendered and written at most once per
// build. Render failures are joined into the returned error unless
// ContinueOnError is set; metrics are returned either way.
func (b *Builder) Build(ctx context.Context) (*metrics.BuildMetrics, error) {
	m := metrics.NewBuildMetrics()

	if b.lock {
		if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
			return m, fmt.Errorf("failed to create output directory: %w", err)
		}
		lock, err := utils.AcquireBuildLock(b.cfg.OutputDir)
		if err != nil {
			return m, err
		}
		defer func() { _ = lock.Release() }()
	}

	b.output.ClearRenderedFiles()
	hitsBefore, missesBefore := b.mathSvc.Stats()

	opts := mathjax.Options{
		Target:   mathjax.TargetFor(b.cfg.Output),
		ForceSVG: b.cfg.MathJax.ForceSVG,
		Workers:  b.cfg.Build.RenderWorkers,
	}
	proc := mathjax.NewProcessor(opts, mathjax.NewRenderCache(), b.mathSvc, b.output, b.logger)
	conv := parser.NewConverter(proc, b.cfg.BaseURL, b.cfg.PageExt())

	b.logger.Info("Build started", "output", b.cfg.Output, "mode", proc.Mode().String(), "content", b.cfg.ContentDir)

	pages, err := b.discoverPages()
	if err != nil {
		return m, err
	}

	var scripts []string
	if proc.Mode() == mathjax.ModeScript {
		scripts = mathjax.WebsiteAssets(b.cfg.MathJax.Version)
	}

	var tasks []mathjax.PendingTask
	parseStart := time.Now()
	for _, rel := range pages {
		if err := ctx.Err(); err != nil {
			return m, err
		}

		source, err := afero.ReadFile(b.SourceFs, filepath.Join(b.cfg.ContentDir, filepath.FromSlash(rel)))
		if err != nil {
			return m, fmt.Errorf("failed to read %s: %w", rel, err)
		}

		doc, err := conv.Convert(rel, source)
		if err != nil {
			return m, err
		}
		if err := b.writePage(rel, doc, scripts); err != nil {
			return m, err
		}

		tasks = append(tasks, doc.Tasks...)
		m.PagesProcessed++
		m.FormulasSeen += doc.Formulas
	}
	m.ParseTime = time.Since(parseStart)

	if proc.Mode() == mathjax.ModeScript {
		if err := b.output.WriteRaw(mathjax.PluginAsset, mathjax.PluginJS); err != nil {
			return m, fmt.Errorf("failed to write %s: %w", mathjax.PluginAsset, err)
		}
	}

	drainErr := b.drain(ctx, proc, tasks, m)

	hits, misses := b.mathSvc.Stats()
	m.CacheHits = hits - hitsBefore
	m.CacheMisses = misses - missesBefore
	m.FormulasRendered = proc.Cache().Count()
	m.FilesWritten = len(b.output.GetRenderedFiles())

	if b.artifacts != nil {
		if err := b.artifacts.IncrementBuildCount(); err != nil {
			b.logger.Warn("Failed to update build count", "error", err)
		}
	}

	m.RecordEnd()

	if drainErr != nil && !b.cfg.ContinueOnError {
		return m, drainErr
	}
	return m, nil
}

// drain executes the deferred renders, bounded by RenderTimeout when set.
func (b *Builder) drain(ctx context.Context, proc *mathjax.Processor, tasks []mathjax.PendingTask, m *metrics.BuildMetrics) error {
	if len(tasks) == 0 {
		return nil
	}

	if timeout := b.cfg.Build.RenderTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	err := proc.Drain(ctx, tasks)
	m.DrainTime = time.Since(start)
	if err == nil {
		return nil
	}

	failures := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		failures = joined.Unwrap()
	}
	m.TasksFailed = len(failures)
	for _, f := range failures {
		b.logger.Error("Formula failed", "error", f)
	}
	return fmt.Errorf("%d formula(s) failed: %w", len(failures), err)
}

// discoverPages lists source pages below ContentDir in lexical order,
// slash-separated and relative to ContentDir.
func (b *Builder) discoverPages() ([]string, error) {
	var pages []string
	err := afero.Walk(b.SourceFs, b.cfg.ContentDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != b.cfg.ContentDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !parser.IsSourcePage(path) {
			return nil
		}
		rel, err := utils.SafeRel(b.cfg.ContentDir, path)
		if err != nil {
			return err
		}
		pages = append(pages, rel)
		return nil
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("content directory %s does not exist", b.cfg.ContentDir)
		}
		return nil, fmt.Errorf("failed to scan %s: %w", b.cfg.ContentDir, err)
	}
	return pages, nil
}

// writePage emits one converted document. AsciiDoc keeps its source form
// for the downstream AsciiDoc toolchain.
func (b *Builder) writePage(rel string, doc *parser.Document, scripts []string) error {
	if doc.AsciiDoc {
		return b.output.WriteRaw(rel, doc.Body)
	}

	name := parser.RewritePageLink(rel, b.cfg.PageExt())
	if b.cfg.Output == "json" {
		return b.output.RenderJSON(name, models.JSONPage{
			Title:   doc.Title,
			Path:    name,
			Body:    string(doc.Body),
			Meta:    doc.Meta,
			Scripts: scripts,
		})
	}

	return b.output.RenderPage(name, models.PageData{
		Title:     doc.Title,
		SiteTitle: b.cfg.Title,
		BaseURL:   b.cfg.BaseURL,
		Permalink: b.cfg.BaseURL + "/" + name,
		Content:   template.HTML(doc.Body),
		Meta:      doc.Meta,
		Scripts:   scripts,
	})
}
