package parser

import (
	"bytes"
	"strings"

	"github.com/gohugoio/hugo-goldmark-extensions/passthrough"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/Kush-Singh-26/texsvg/builder/mathjax"
)

var (
	mathTasksKey    = parser.NewContextKey()
	mathFormulasKey = parser.NewContextKey()
)

// GetPendingTasks returns the render tasks left behind by the math blocks of
// the document parsed with pc, in document order.
func GetPendingTasks(pc parser.Context) []mathjax.PendingTask {
	if v := pc.Get(mathTasksKey); v != nil {
		return v.([]mathjax.PendingTask)
	}
	return nil
}

// GetFormulaCount returns how many math blocks the document contained.
func GetFormulaCount(pc parser.Context) int {
	if v := pc.Get(mathFormulasKey); v != nil {
		return v.(int)
	}
	return 0
}

var KindMath = ast.NewNodeKind("Math")

// MathNode holds the final markup for one math span. It replaces the
// passthrough node the span was parsed into.
type MathNode struct {
	ast.BaseInline
	Markup  string
	Display bool
}

func (n *MathNode) Kind() ast.NodeKind { return KindMath }

func (n *MathNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Markup": n.Markup,
	}, nil)
}

var KindMathBlock = ast.NewNodeKind("MathBlock")

// MathBlockNode is the block-level counterpart of MathNode.
type MathBlockNode struct {
	ast.BaseBlock
	Markup string
}

func (n *MathBlockNode) Kind() ast.NodeKind { return KindMathBlock }

func (n *MathBlockNode) IsRaw() bool { return true }

func (n *MathBlockNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Markup": n.Markup,
	}, nil)
}

// mathTransformer swaps passthrough nodes for processed math nodes and
// records the pending tasks in the parser context.
type mathTransformer struct {
	Processor *mathjax.Processor
}

func (t *mathTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var spans []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *passthrough.PassthroughInline, *passthrough.PassthroughBlock:
			spans = append(spans, n)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if len(spans) == 0 {
		return
	}

	tasks := GetPendingTasks(pc)
	for _, n := range spans {
		var raw string
		blockLevel := false
		switch node := n.(type) {
		case *passthrough.PassthroughInline:
			raw = string(node.Segment.Value(source))
		case *passthrough.PassthroughBlock:
			raw = string(linesValue(node.Lines(), source))
			blockLevel = true
		}

		body, display := stripDelimiters(raw)
		if blockLevel {
			display = true
		}

		out := t.Processor.Process(mathjax.Block{Body: body}, !display)
		if out.Task != nil {
			tasks = append(tasks, *out.Task)
		}

		var replacement ast.Node
		if blockLevel {
			replacement = &MathBlockNode{Markup: out.Body}
		} else {
			replacement = &MathNode{Markup: out.Body, Display: display}
		}
		if parent := n.Parent(); parent != nil {
			parent.ReplaceChild(parent, n, replacement)
		}
	}

	pc.Set(mathTasksKey, tasks)
	pc.Set(mathFormulasKey, GetFormulaCount(pc)+len(spans))
}

func linesValue(lines *text.Segments, source []byte) []byte {
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.Bytes()
}

// stripDelimiters removes the dollar delimiters from a raw span and reports
// whether it was a display span.
func stripDelimiters(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if len(s) >= 4 && strings.HasPrefix(s, "$$") && strings.HasSuffix(s, "$$") {
		return strings.TrimSpace(s[2 : len(s)-2]), true
	}
	if len(s) >= 2 && strings.HasPrefix(s, "$") && strings.HasSuffix(s, "$") {
		return s[1 : len(s)-1], false
	}
	return s, false
}

type mathRenderer struct{}

func (r *mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMath, r.renderMath)
	reg.Register(KindMathBlock, r.renderMathBlock)
}

func (r *mathRenderer) renderMath(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(n.(*MathNode).Markup)
	}
	return ast.WalkSkipChildren, nil
}

func (r *mathRenderer) renderMathBlock(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(n.(*MathBlockNode).Markup)
		_ = w.WriteByte('\n')
	}
	return ast.WalkSkipChildren, nil
}

// mathExtension plugs the math transformer and renderer into goldmark. It
// must be installed together with the passthrough extension.
type mathExtension struct {
	processor *mathjax.Processor
}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&mathTransformer{Processor: e.processor}, 500),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&mathRenderer{}, 100),
	))
}
