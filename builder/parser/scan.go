package parser

import (
	"regexp"

	"github.com/Kush-Singh-26/texsvg/builder/mathjax"
)

// Display spans first so "$$x$$" is never read as two empty inline spans.
var mathSpanRegex = regexp.MustCompile(`(?s)\$\$(.+?)\$\$|\$((?:\\.|[^$\n])+?)\$`)

// ScanMath calls fn for every dollar span in content, in document order, and
// substitutes its return value for the span including delimiters.
func ScanMath(content string, fn func(body string, inline bool) string) string {
	return mathSpanRegex.ReplaceAllStringFunc(content, func(match string) string {
		sub := mathSpanRegex.FindStringSubmatch(match)
		if sub[1] != "" {
			return fn(sub[1], false)
		}
		return fn(sub[2], true)
	})
}

// ProcessAsciiDoc replaces the math spans of an AsciiDoc page with processed
// markup, wrapped in inline passthroughs so AsciiDoc emits it verbatim.
func ProcessAsciiDoc(proc *mathjax.Processor, content string) (string, []mathjax.PendingTask, int) {
	var tasks []mathjax.PendingTask
	count := 0
	out := ScanMath(content, func(body string, inline bool) string {
		count++
		res := proc.Process(mathjax.Block{Body: body}, inline)
		if res.Task != nil {
			tasks = append(tasks, *res.Task)
		}
		return "+++" + res.Body + "+++"
	})
	return out, tasks, count
}
