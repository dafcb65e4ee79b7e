package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Kush-Singh-26/texsvg/builder/mathjax"
)

// Document is one converted page.
type Document struct {
	Title string
	Meta  map[string]interface{}
	// Body is HTML for markdown pages and processed source for AsciiDoc.
	Body     []byte
	AsciiDoc bool
	Tasks    []mathjax.PendingTask
	Formulas int
}

// Converter runs the per-page pipeline: repair, math extraction, host
// conversion.
type Converter struct {
	md   goldmark.Markdown
	proc *mathjax.Processor
}

func NewConverter(proc *mathjax.Processor, baseURL, pageExt string) *Converter {
	return &Converter{
		md:   New(proc, baseURL, pageExt),
		proc: proc,
	}
}

// Convert processes one page. name is the page path relative to the content
// root and picks the host format.
func (c *Converter) Convert(name string, source []byte) (*Document, error) {
	content := RepairPage(string(source))

	if isAsciiDoc(name) {
		body, tasks, count := ProcessAsciiDoc(c.proc, content)
		return &Document{
			Title:    asciiDocTitle(body, name),
			Body:     []byte(body),
			AsciiDoc: true,
			Tasks:    tasks,
			Formulas: count,
		}, nil
	}

	var buf bytes.Buffer
	pc := parser.NewContext()
	if err := c.md.Convert([]byte(content), &buf, parser.WithContext(pc)); err != nil {
		return nil, fmt.Errorf("convert %s: %w", name, err)
	}

	metaData := meta.Get(pc)
	title, _ := metaData["title"].(string)
	if title == "" {
		title = TitleFromFilename(name)
	}

	return &Document{
		Title:    title,
		Meta:     metaData,
		Body:     buf.Bytes(),
		Tasks:    GetPendingTasks(pc),
		Formulas: GetFormulaCount(pc),
	}, nil
}

func isAsciiDoc(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".adoc", ".asciidoc":
		return true
	}
	return false
}

// asciiDocTitle returns the document header ("= Title") if the page has one.
func asciiDocTitle(content, name string) string {
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, ":") {
			continue
		}
		if strings.HasPrefix(line, "= ") {
			return strings.TrimSpace(line[2:])
		}
		break
	}
	return TitleFromFilename(name)
}

// TitleFromFilename turns "content/limits-and-series.md" into
// "Limits And Series".
func TitleFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return cases.Title(language.English).String(base)
}
