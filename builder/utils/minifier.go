package utils

import (
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/svg"
)

const (
	MediaHTML = "text/html"
	MediaSVG  = "image/svg+xml"
)

var (
	minifier     *minify.M
	minifierOnce sync.Once
)

// Minifier returns the shared minifier for pages and rendered formulas.
func Minifier() *minify.M {
	minifierOnce.Do(func() {
		minifier = minify.New()
		minifier.AddFunc(MediaHTML, html.Minify)
		minifier.AddFunc(MediaSVG, svg.Minify)
	})
	return minifier
}
