// Package run drives a whole build: it discovers pages, converts them with
// math processing, writes the output and drains the deferred renders.
package run

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/texsvg/builder/cache"
	"github.com/Kush-Singh-26/texsvg/builder/config"
	"github.com/Kush-Singh-26/texsvg/builder/renderer"
	"github.com/Kush-Singh-26/texsvg/builder/services"
	"github.com/Kush-Singh-26/texsvg/builder/utils"
)

// Builder maintains the state shared by consecutive builds of one project.
type Builder struct {
	cfg    *config.Config
	logger *slog.Logger

	SourceFs afero.Fs
	DestFs   afero.Fs

	rnd       *renderer.Renderer
	output    services.OutputService
	artifacts *cache.Manager
	mathSvc   services.MathRenderService

	// lock guards OutputDir against a concurrent build from another process.
	// Only meaningful on the OS filesystem.
	lock bool
}

// NewBuilder sets up a builder on the OS filesystem. The artifact cache is
// opened unless it is disabled by config or -force.
func NewBuilder(cfg *config.Config, logger *slog.Logger) (*Builder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Build == nil {
		cfg.Build = config.DefaultBuildConfig()
	}

	sourceFs := afero.NewOsFs()

	var artifacts *cache.Manager
	if cfg.CacheDir != "" && !cfg.ForceRebuild {
		m, err := openArtifacts(cfg, sourceFs, logger)
		if err != nil {
			return nil, err
		}
		artifacts = m
	}

	engine := newLazyEngine(sourceFs, cfg.MathJax.Engine, cfg.Build.VMPoolSize, logger)
	b := newBuilder(cfg, logger, sourceFs, afero.NewOsFs(), engine, artifacts)
	b.lock = true
	return b, nil
}

// newBuilder wires a builder from explicit collaborators.
func newBuilder(cfg *config.Config, logger *slog.Logger, sourceFs, destFs afero.Fs, engine services.Engine, artifacts *cache.Manager) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Build == nil {
		cfg.Build = config.DefaultBuildConfig()
	}

	rnd := renderer.New(destFs, cfg.OutputDir, cfg.MinifyHTML, cfg.MinifySVG, logger)

	// A nil *cache.Manager must not become a non-nil interface value.
	var ac services.ArtifactCache
	if artifacts != nil {
		ac = artifacts
	}

	return &Builder{
		cfg:       cfg,
		logger:    logger,
		SourceFs:  sourceFs,
		DestFs:    destFs,
		rnd:       rnd,
		output:    services.NewOutputService(rnd, logger),
		artifacts: artifacts,
		mathSvc:   services.NewMathRenderService(engine, ac, logger),
	}
}

// openArtifacts opens the artifact cache and drops its contents when the
// engine script changed since the cache was filled.
func openArtifacts(cfg *config.Config, fs afero.Fs, logger *slog.Logger) (*cache.Manager, error) {
	m, err := cache.Open(cfg.CacheDir, cfg.Build.CacheDBTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact cache: %w", err)
	}

	id := engineCacheID(fs, cfg.MathJax.Engine)
	stale, err := m.VerifyCacheID(id)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	if stale {
		logger.Info("Engine changed, clearing artifact cache", "cacheID", id)
		if err := m.Clear(); err != nil {
			_ = m.Close()
			return nil, err
		}
		if err := m.SetCacheID(id); err != nil {
			_ = m.Close()
			return nil, err
		}
	}
	return m, nil
}

// engineCacheID identifies the engine script the cached SVGs came from.
func engineCacheID(fs afero.Fs, path string) string {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "none"
	}
	return utils.HashBytes(data)
}

// Config returns the builder's configuration
func (b *Builder) Config() *config.Config {
	return b.cfg
}

// Artifacts returns the artifact cache, or nil when it is disabled.
func (b *Builder) Artifacts() *cache.Manager {
	return b.artifacts
}

// Close releases the artifact cache.
func (b *Builder) Close() error {
	if b.artifacts == nil {
		return nil
	}
	err := b.artifacts.Close()
	b.artifacts = nil
	return err
}
