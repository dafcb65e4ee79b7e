package mathjax

import (
	"regexp"
	"strings"
)

var (
	// A backslash before anything other than an alphanumeric, space,
	// backslash or percent sign is an extraction artifact.
	spuriousEscapeRegex = regexp.MustCompile(`\\([^a-zA-Z0-9 \\%])`)

	// Four backslashes are an over-escaped \\ line break.
	quadBackslashRegex = regexp.MustCompile(`\\{4}`)

	entityReplacer = strings.NewReplacer("&gt;", ">", "&lt;", "<")
)

// DecodeEntities turns &gt; and &lt; back into > and <.
func DecodeEntities(tex string) string {
	return entityReplacer.Replace(tex)
}

// NormalizeTeX prepares raw formula text for the engine and for fingerprinting.
// It never fails; malformed input just yields odd-looking output.
func NormalizeTeX(tex string) string {
	tex = spuriousEscapeRegex.ReplaceAllString(tex, "$1")
	tex = DecodeEntities(tex)
	return quadBackslashRegex.ReplaceAllString(tex, `\\`)
}
