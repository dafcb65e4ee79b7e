// Package config loads texsvg.yaml and command-line overrides.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidOutput is returned for an output target texsvg cannot produce.
var ErrInvalidOutput = errors.New("invalid output target")

// Outputs lists the accepted output targets.
var Outputs = []string{"website", "json", "ebook", "pdf", "epub", "mobi"}

type MathJaxConfig struct {
	ForceSVG bool   `yaml:"forceSVG"`
	Version  string `yaml:"version"`
	// Engine is the path of the engine script that exposes typeset().
	Engine string `yaml:"engine"`
}

type Config struct {
	Title           string        `yaml:"title"`
	BaseURL         string        `yaml:"baseURL"`
	ContentDir      string        `yaml:"contentDir"`
	OutputDir       string        `yaml:"outputDir"`
	CacheDir        string        `yaml:"cacheDir"` // empty disables the artifact cache
	Output          string        `yaml:"output"`
	MathJax         MathJaxConfig `yaml:"mathjax"`
	MinifySVG       bool          `yaml:"minifySVG"`
	MinifyHTML      bool          `yaml:"minifyHTML"`
	ContinueOnError bool          `yaml:"continueOnError"`

	ForceRebuild bool         `yaml:"-"`
	ConfigFile   string       `yaml:"-"`
	Build        *BuildConfig `yaml:"-"`
}

// Default returns the configuration used when no file sets a field.
func Default() *Config {
	return &Config{
		Title:      "texsvg",
		ContentDir: "content",
		OutputDir:  "public",
		CacheDir:   ".texsvg-cache",
		Output:     "website",
		MathJax: MathJaxConfig{
			Version: "latest",
			Engine:  "mathjax-engine.js",
		},
	}
}

// Load reads texsvg.yaml (or config.yaml) from the working directory and
// applies flags from args on top. A file that fails to parse is reported and
// ignored.
func Load(args []string) (*Config, error) {
	cfg := Default()

	for _, name := range []string{"texsvg.yaml", "config.yaml"} {
		data, err := os.ReadFile(name)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Failed to parse %s, using defaults: %v\n", name, err)
			cfg = Default()
		} else {
			cfg.ConfigFile = name
		}
		break
	}

	if err := cfg.applyFlags(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.MathJax.Version == "" {
		cfg.MathJax.Version = "latest"
	}
	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}

	cfg.Build = LoadBuildConfig()
	return cfg, nil
}

func (c *Config) applyFlags(args []string) error {
	fs := flag.NewFlagSet("texsvg", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	output := fs.String("output", c.Output, "Output target: "+strings.Join(Outputs, ", "))
	forceSVG := fs.Bool("force-svg", c.MathJax.ForceSVG, "Render SVG images even for website output")
	content := fs.String("content", c.ContentDir, "Content directory")
	out := fs.String("out", c.OutputDir, "Output directory")
	engine := fs.String("engine", c.MathJax.Engine, "Engine script path")
	baseURL := fs.String("baseurl", c.BaseURL, "Base URL")
	force := fs.Bool("force", false, "Ignore the artifact cache")
	minify := fs.Bool("minify", c.MinifySVG, "Minify rendered SVGs")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	c.Output = *output
	c.MathJax.ForceSVG = *forceSVG
	c.ContentDir = *content
	c.OutputDir = *out
	c.MathJax.Engine = *engine
	c.BaseURL = *baseURL
	c.ForceRebuild = *force
	c.MinifySVG = *minify
	return nil
}

// Validate checks fields that have no sensible fallback.
func (c *Config) Validate() error {
	for _, o := range Outputs {
		if c.Output == o {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidOutput, c.Output, strings.Join(Outputs, ", "))
}

func (c *Config) resolvePaths() error {
	for _, p := range []*string{&c.ContentDir, &c.OutputDir, &c.CacheDir, &c.MathJax.Engine} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", *p, err)
		}
		*p = abs
	}
	return nil
}

// PageExt is the extension of generated pages for the output target.
func (c *Config) PageExt() string {
	if c.Output == "json" {
		return ".json"
	}
	return ".html"
}
