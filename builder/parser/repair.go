package parser

import "regexp"

// RepairPasses is how many times RepairPage applies its rewrites. The count
// is fixed: there is no convergence check and no early exit.
const RepairPasses = 10

var (
	// \{ inside a dollar span becomes \lbrace (and the span single-dollar).
	escapedOpenBraceRegex = regexp.MustCompile(`\${1,2}([^$]*)\\\{([^$]*)\${1,2}`)

	// \} inside a dollar span becomes \rbrace.
	escapedCloseBraceRegex = regexp.MustCompile(`\${1,2}([^$]*)\\\}([^$]*)\${1,2}`)

	// A lone \\ inside an inline span is doubled so it survives markdown
	// unescaping as a line break.
	lineBreakRegex = regexp.MustCompile(`([^$])\$([^$]*)([^\\])\\{2}([^\\])([^$]*)\$([^$])`)
)

// RepairPage rewrites mangled math delimiters and escapes in a page before
// math spans are extracted. Pages without math come back unchanged.
func RepairPage(content string) string {
	return RepairPageN(content, RepairPasses)
}

// RepairPageN applies the rewrite pass exactly n times.
func RepairPageN(content string, n int) string {
	for i := 0; i < n; i++ {
		content = repairOnce(content)
	}
	return content
}

func repairOnce(s string) string {
	s = escapedOpenBraceRegex.ReplaceAllString(s, `$$${1}\lbrace ${2}$$`)
	s = escapedCloseBraceRegex.ReplaceAllString(s, `$$${1}\rbrace ${2}$$`)
	return lineBreakRegex.ReplaceAllString(s, `${1}$$${2}${3}\\\\ ${4}${5}$$${6}`)
}
