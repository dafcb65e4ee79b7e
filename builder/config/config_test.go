package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kush-Singh-26/texsvg/builder/utils"
)

// changeToTempDir changes to a temp directory and returns a cleanup function
func changeToTempDir(t *testing.T) func() {
	t.Helper()
	tmpDir := t.TempDir()
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	return func() {
		if err := os.Chdir(originalDir); err != nil {
			t.Errorf("Failed to restore original directory: %v", err)
		}
	}
}

func mustLoad(t *testing.T, args ...string) *Config {
	t.Helper()
	cfg, err := Load(args)
	if err != nil {
		t.Fatalf("Load(%v) failed: %v", args, err)
	}
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	cfg := mustLoad(t)

	if cfg.Output != "website" {
		t.Errorf("Output = %q, want website", cfg.Output)
	}
	if cfg.MathJax.Version != "latest" {
		t.Errorf("MathJax.Version = %q, want latest", cfg.MathJax.Version)
	}
	if cfg.MathJax.ForceSVG {
		t.Error("ForceSVG should default to false")
	}
	if filepath.Base(cfg.ContentDir) != "content" || filepath.Base(cfg.OutputDir) != "public" {
		t.Errorf("dirs = %q, %q", cfg.ContentDir, cfg.OutputDir)
	}
	if cfg.CacheDir == "" {
		t.Error("CacheDir should default to a directory")
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want empty with no file", cfg.ConfigFile)
	}
	if cfg.Build == nil {
		t.Fatal("Build config should be loaded")
	}
}

func TestLoad_FromYAML(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	yamlContent := `
title: "Calculus Notes"
baseURL: "https://notes.example.com/"
output: pdf
contentDir: src
mathjax:
  forceSVG: true
  version: "2.7.9"
  engine: engines/mj.js
minifySVG: true
continueOnError: true
`
	if err := os.WriteFile("texsvg.yaml", []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to create test texsvg.yaml: %v", err)
	}

	cfg := mustLoad(t)

	if cfg.Title != "Calculus Notes" {
		t.Errorf("Title = %q", cfg.Title)
	}
	if cfg.BaseURL != "https://notes.example.com" {
		t.Errorf("BaseURL = %q, trailing slash should be trimmed", cfg.BaseURL)
	}
	if cfg.Output != "pdf" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if !cfg.MathJax.ForceSVG || cfg.MathJax.Version != "2.7.9" {
		t.Errorf("MathJax = %+v", cfg.MathJax)
	}
	if filepath.Base(cfg.MathJax.Engine) != "mj.js" || !filepath.IsAbs(cfg.MathJax.Engine) {
		t.Errorf("Engine = %q", cfg.MathJax.Engine)
	}
	if filepath.Base(cfg.ContentDir) != "src" {
		t.Errorf("ContentDir = %q", cfg.ContentDir)
	}
	if !cfg.MinifySVG || !cfg.ContinueOnError {
		t.Error("minifySVG and continueOnError should be set")
	}
	if cfg.ConfigFile != "texsvg.yaml" {
		t.Errorf("ConfigFile = %q", cfg.ConfigFile)
	}
}

func TestLoad_FallbackConfigYaml(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	if err := os.WriteFile("config.yaml", []byte(`title: "Fallback"`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := mustLoad(t)
	if cfg.Title != "Fallback" {
		t.Errorf("Title = %q, want Fallback", cfg.Title)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	if err := os.WriteFile("texsvg.yaml", []byte("invalid: yaml: content: ["), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := mustLoad(t)
	if cfg.Title != "texsvg" {
		t.Errorf("Title = %q, want default", cfg.Title)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	if err := os.WriteFile("texsvg.yaml", []byte("output: website\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := mustLoad(t, "-output", "ebook", "-force-svg", "-out", "dist", "-force", "-minify", "-baseurl", "https://x.test/")

	if cfg.Output != "ebook" {
		t.Errorf("Output = %q, want ebook", cfg.Output)
	}
	if !cfg.MathJax.ForceSVG || !cfg.ForceRebuild || !cfg.MinifySVG {
		t.Errorf("boolean overrides not applied: %+v", cfg)
	}
	if filepath.Base(cfg.OutputDir) != "dist" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.BaseURL != "https://x.test" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
}

func TestLoad_InvalidOutput(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	_, err := Load([]string{"-output", "docx"})
	if !errors.Is(err, ErrInvalidOutput) {
		t.Errorf("err = %v, want ErrInvalidOutput", err)
	}
}

func TestLoad_UnknownFlag(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	if _, err := Load([]string{"-nope"}); err == nil {
		t.Error("unknown flag should fail")
	}
}

func TestLoad_EmptyCacheDirDisables(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	if err := os.WriteFile("texsvg.yaml", []byte(`cacheDir: ""`), 0644); err != nil {
		t.Fatal(err)
	}
	if cfg := mustLoad(t); cfg.CacheDir != "" {
		t.Errorf("CacheDir = %q, want empty", cfg.CacheDir)
	}
}

func TestPageExt(t *testing.T) {
	tests := map[string]string{
		"website": ".html",
		"json":    ".json",
		"ebook":   ".html",
		"pdf":     ".html",
	}
	for output, want := range tests {
		c := &Config{Output: output}
		if got := c.PageExt(); got != want {
			t.Errorf("PageExt(%s) = %q, want %q", output, got, want)
		}
	}
}

func TestLoadBuildConfig_Validation(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		check    func(*BuildConfig) bool
		describe string
	}{
		{"workers clamped low", "renderWorkers: 0", func(c *BuildConfig) bool { return c.RenderWorkers == 1 }, "RenderWorkers == 1"},
		{"workers clamped high", "renderWorkers: 500", func(c *BuildConfig) bool { return c.RenderWorkers == utils.MaxWorkers }, "RenderWorkers == MaxWorkers"},
		{"vm pool clamped", "vmPoolSize: 1000", func(c *BuildConfig) bool { return c.VMPoolSize == 64 }, "VMPoolSize == 64"},
		{"db timeout minimum", "cacheDBTimeout: 1ms", func(c *BuildConfig) bool { return c.CacheDBTimeout == time.Second }, "CacheDBTimeout == 1s"},
		{"debounce maximum", "debounceDuration: 1m", func(c *BuildConfig) bool { return c.DebounceDuration == 5*time.Second }, "DebounceDuration == 5s"},
		{"valid values kept", "renderWorkers: 3\nvmPoolSize: 2", func(c *BuildConfig) bool { return c.RenderWorkers == 3 && c.VMPoolSize == 2 }, "3 workers, 2 VMs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := changeToTempDir(t)
			defer cleanup()

			if err := os.WriteFile(BuildConfigFile, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			cfg := LoadBuildConfig()
			if !tt.check(cfg) {
				t.Errorf("want %s, got %+v", tt.describe, cfg)
			}
		})
	}
}

func TestLoadBuildConfig_Defaults(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	cfg := LoadBuildConfig()
	want := DefaultBuildConfig()
	if fmt.Sprint(*cfg) != fmt.Sprint(*want) {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}
