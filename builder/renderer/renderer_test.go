package renderer

import (
	"encoding/json"
	"html/template"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/texsvg/builder/models"
)

func newTestRenderer(compress, minifySVG bool) (*Renderer, afero.Fs) {
	fs := afero.NewMemMapFs()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(fs, "/public", compress, minifySVG, logger), fs
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("ReadFile(%s) failed: %v", path, err)
	}
	return string(data)
}

func TestRenderPage(t *testing.T) {
	r, fs := newTestRenderer(false, false)

	data := models.PageData{
		Title:     "Limits",
		SiteTitle: "Notes",
		Content:   template.HTML(`<p>See <img src="/_mathjax_abc.svg" /></p>`),
		Scripts:   []string{"https://cdn.example/MathJax.js", "/assets/mathjax/plugin.js"},
	}
	if err := r.RenderPage("calc/limits.html", data); err != nil {
		t.Fatalf("RenderPage() failed: %v", err)
	}

	out := readFile(t, fs, filepath.Join("/public", "calc", "limits.html"))
	for _, want := range []string{
		"<title>Limits | Notes</title>",
		`<img src="/_mathjax_abc.svg" />`,
		`<script src="https://cdn.example/MathJax.js"></script>`,
		`<script src="/assets/mathjax/plugin.js"></script>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q:\n%s", want, out)
		}
	}
	if !r.GetRenderedFiles()["calc/limits.html"] {
		t.Error("page should be registered")
	}
}

func TestRenderPage_Compress(t *testing.T) {
	r, fs := newTestRenderer(true, false)

	if err := r.RenderPage("index.html", models.PageData{Title: "Home", Content: "<p>  hi  </p>"}); err != nil {
		t.Fatalf("RenderPage() failed: %v", err)
	}
	out := readFile(t, fs, "/public/index.html")
	if strings.Contains(out, "\n<main") {
		t.Errorf("expected minified output, got:\n%s", out)
	}
	if !strings.Contains(out, "hi") {
		t.Errorf("content lost in minification: %s", out)
	}
}

func TestRenderJSON(t *testing.T) {
	r, fs := newTestRenderer(false, false)

	page := models.JSONPage{Title: "T", Path: "a.html", Body: `<script type="math/tex; ">x</script>`}
	if err := r.RenderJSON("a.json", page); err != nil {
		t.Fatalf("RenderJSON() failed: %v", err)
	}

	var got models.JSONPage
	if err := json.Unmarshal([]byte(readFile(t, fs, "/public/a.json")), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Body != page.Body || got.Title != "T" {
		t.Errorf("got %+v", got)
	}
}

func TestWriteFile_SVG(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg">   <g>   <path d="M 0 0 L 10 10"/>   </g>   </svg>`

	t.Run("as is", func(t *testing.T) {
		r, fs := newTestRenderer(false, false)
		if err := r.WriteFile("_mathjax_x.svg", []byte(svg)); err != nil {
			t.Fatal(err)
		}
		if got := readFile(t, fs, "/public/_mathjax_x.svg"); got != svg {
			t.Errorf("got %q, want unchanged", got)
		}
	})

	t.Run("minified", func(t *testing.T) {
		r, fs := newTestRenderer(false, true)
		if err := r.WriteFile("_mathjax_x.svg", []byte(svg)); err != nil {
			t.Fatal(err)
		}
		got := readFile(t, fs, "/public/_mathjax_x.svg")
		if len(got) >= len(svg) {
			t.Errorf("expected smaller output, got %q", got)
		}
	})
}

func TestOutputPath(t *testing.T) {
	r, _ := newTestRenderer(false, false)

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"_mathjax_a.svg", filepath.Join("/public", "_mathjax_a.svg"), false},
		{"/assets/mathjax/plugin.js", filepath.Join("/public", "assets", "mathjax", "plugin.js"), false},
		{"../escape.html", "", true},
	}
	for _, tt := range tests {
		got, err := r.OutputPath(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("OutputPath(%q) error = %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRenderedFiles_Concurrent(t *testing.T) {
	r, _ := newTestRenderer(false, false)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.WriteRaw(filepath.Join("f", string(rune('a'+i%26))+".txt"), []byte("x"))
		}(i)
	}
	wg.Wait()

	if n := len(r.GetRenderedFiles()); n != 26 {
		t.Errorf("registered %d files, want 26", n)
	}

	r.ClearRenderedFiles()
	if len(r.GetRenderedFiles()) != 0 {
		t.Error("ClearRenderedFiles should empty the set")
	}
}
