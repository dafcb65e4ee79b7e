// Package testutil provides testing utilities and fixtures
package testutil

import (
	"html/template"
	"path/filepath"

	"github.com/Kush-Singh-26/texsvg/builder/config"
	"github.com/Kush-Singh-26/texsvg/builder/models"
)

// TestEngineScript is a minimal engine bundle. It echoes the formula inside
// an <svg> element and rejects anything containing \bad.
const TestEngineScript = `
function typeset(o) {
  if (o.math.indexOf("\\bad") >= 0) {
    return {errors: ["Undefined control sequence \\bad"]};
  }
  return {svg: '<svg xmlns="http://www.w3.org/2000/svg" data-format="' + o.format + '"><title>' + o.math + '</title></svg>'};
}
`

// CreateSampleConfig returns a config rooted at root with the given output
// target. The artifact cache is disabled.
func CreateSampleConfig(root, output string) *config.Config {
	cfg := config.Default()
	cfg.Title = "Test Book"
	cfg.BaseURL = "https://example.com"
	cfg.Output = output
	cfg.ContentDir = filepath.Join(root, "content")
	cfg.OutputDir = filepath.Join(root, "public")
	cfg.CacheDir = ""
	cfg.MathJax.Engine = filepath.Join(root, "mathjax-engine.js")
	cfg.Build = config.DefaultBuildConfig()
	cfg.Build.RenderWorkers = 2
	cfg.Build.VMPoolSize = 1
	return cfg
}

// CreateSamplePageData creates valid PageData for testing
func CreateSamplePageData() models.PageData {
	return models.PageData{
		Title:     "Test Page",
		SiteTitle: "Test Book",
		Content:   template.HTML("<p>Test content</p>"),
		Meta: map[string]interface{}{
			"title": "Test Page",
		},
	}
}

// CreateTestMarkdown returns a page with inline and display math, one
// formula repeated.
func CreateTestMarkdown() string {
	return `---
title: "Energy"
---

# Energy

Mass-energy equivalence is $E=mc^2$ and again $E=mc^2$.

$$
\int_0^1 x\,dx
$$

See [the next chapter](chapter2.md#intro).
`
}

// CreateTestAsciiDoc returns an AsciiDoc page with one inline formula.
func CreateTestAsciiDoc() string {
	return `= Vectors

The norm is $\|v\|$.
`
}
