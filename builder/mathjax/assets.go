package mathjax

import (
	_ "embed"
	"fmt"
)

// PluginJS configures the client-side typesetter and re-runs it whenever the
// page dispatches a "texsvg:page-change" event.
//
//go:embed plugin.js
var PluginJS []byte

// DefaultVersion is the CDN release used when none is configured.
const DefaultVersion = "latest"

// PluginAsset is where PluginJS is written below the output root.
const PluginAsset = "assets/mathjax/plugin.js"

// WebsiteAssets lists the scripts a script-mode page must load, in order.
func WebsiteAssets(version string) []string {
	if version == "" {
		version = DefaultVersion
	}
	return []string{
		fmt.Sprintf("https://cdn.mathjax.org/mathjax/%s/MathJax.js?config=TeX-AMS-MML_HTMLorMML", version),
		"/" + PluginAsset,
	}
}
