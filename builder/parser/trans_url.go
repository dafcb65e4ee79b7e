package parser

import (
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// URLTransformer rewrites links between source pages to their output names
// (e.g. intro.md -> intro.html) and prefixes root-relative URLs with BaseURL.
type URLTransformer struct {
	BaseURL string
	// PageExt is the extension of generated pages, ".html" when empty.
	PageExt string
}

func (t *URLTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch target := n.(type) {
		case *ast.Link:
			target.Destination = []byte(t.rewrite(target, string(target.Destination)))
		case *ast.Image:
			target.Destination = []byte(t.rewrite(target, string(target.Destination)))
			target.SetAttribute([]byte("loading"), []byte("lazy"))
		}
		return ast.WalkContinue, nil
	})
}

func (t *URLTransformer) rewrite(n ast.Node, href string) string {
	if isExternal(href) {
		if _, isLink := n.(*ast.Link); isLink {
			n.SetAttribute([]byte("target"), []byte("_blank"))
			n.SetAttribute([]byte("rel"), []byte("noopener noreferrer"))
		}
		return href
	}

	href = RewritePageLink(href, t.PageExt)
	href = strings.TrimPrefix(href, "./")

	if strings.HasPrefix(href, "/") && t.BaseURL != "" {
		href = strings.TrimSuffix(t.BaseURL, "/") + href
	}
	return href
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") ||
		strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "mailto:")
}

// IsSourcePage reports whether path names a page the builder converts.
func IsSourcePage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".adoc", ".asciidoc":
		return true
	}
	return false
}

// RewritePageLink swaps a source page extension for ext, keeping any
// fragment or query. Other links are returned unchanged.
func RewritePageLink(href, ext string) string {
	if ext == "" {
		ext = ".html"
	}

	path, suffix := href, ""
	if i := strings.IndexAny(href, "#?"); i >= 0 {
		path, suffix = href[:i], href[i:]
	}
	if !IsSourcePage(path) {
		return href
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext + suffix
}
