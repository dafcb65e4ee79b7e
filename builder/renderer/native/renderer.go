// Package native runs a TeX-to-SVG engine script inside pooled goja runtimes.
//
// The engine script is an external asset. It must define a global
// typeset(options) that returns {svg: string} on success or
// {errors: [...]} when the formula is rejected, and may define config(obj)
// and start() which are called once per runtime before first use.
package native

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"github.com/spf13/afero"
)

// engineConfig is handed to the script's config() hook.
var engineConfig = map[string]interface{}{
	"MathJax": map[string]interface{}{
		"SVG": map[string]interface{}{
			"font": "TeX",
		},
	},
}

// instance is a single isolated engine runtime
type instance struct {
	vm      *goja.Runtime
	typeset goja.Callable
}

// Renderer owns the engine session: a pool of runtimes sharing one compiled
// program, started lazily by Configure.
type Renderer struct {
	pool       chan *instance
	numWorkers int
	scriptName string
	script     string
	logger     *slog.Logger

	initOnce sync.Once
	initErr  error
	prog     *goja.Program
}

// New creates a Renderer for the given engine script. Nothing is compiled
// until the first Configure or Render call.
func New(scriptName, script string, workers int, logger *slog.Logger) *Renderer {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		pool:       make(chan *instance, workers),
		numWorkers: workers,
		scriptName: scriptName,
		script:     script,
		logger:     logger,
	}
}

// NewFromFile reads the engine script from fs.
func NewFromFile(fs afero.Fs, path string, workers int, logger *slog.Logger) (*Renderer, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: read engine script: %v", ErrEngineUnavailable, err)
	}
	return New(path, string(data), workers, logger), nil
}

// Configure compiles the engine script and starts the runtime pool. Only the
// first call does any work; later calls return the same result.
func (r *Renderer) Configure() error {
	r.initOnce.Do(func() {
		r.logger.Info("Starting TeX engine", "script", r.scriptName, "workers", r.numWorkers)

		prog, err := goja.Compile(r.scriptName, r.script, true)
		if err != nil {
			r.initErr = fmt.Errorf("%w: compile %s: %v", ErrEngineUnavailable, r.scriptName, err)
			return
		}
		r.prog = prog

		// The first runtime is built inline so a broken script fails here
		// instead of leaving callers blocked on an empty pool.
		first, err := newInstance(prog)
		if err != nil {
			r.initErr = err
			return
		}
		r.pool <- first

		for i := 1; i < r.numWorkers; i++ {
			go func(id int) {
				inst, err := newInstance(r.prog)
				if err != nil {
					r.logger.Warn("Failed to start engine worker", "worker", id, "error", err)
					return
				}
				r.pool <- inst
			}(i)
		}
	})
	return r.initErr
}

func newInstance(prog *goja.Program) (*instance, error) {
	vm := goja.New()

	// Engines log freely; keep that off the build output.
	console := vm.NewObject()
	noop := func(goja.FunctionCall) goja.Value { return goja.Undefined() }
	_ = console.Set("log", noop)
	_ = console.Set("warn", noop)
	_ = console.Set("error", noop)
	_ = vm.Set("console", console)

	if _, err := vm.RunProgram(prog); err != nil {
		return nil, fmt.Errorf("%w: load engine: %v", ErrEngineUnavailable, err)
	}

	typeset, ok := goja.AssertFunction(vm.Get("typeset"))
	if !ok {
		return nil, fmt.Errorf("%w: typeset is not a function", ErrEngineUnavailable)
	}

	if configure, ok := goja.AssertFunction(vm.Get("config")); ok {
		if _, err := configure(goja.Undefined(), vm.ToValue(engineConfig)); err != nil {
			return nil, fmt.Errorf("%w: config: %v", ErrEngineUnavailable, err)
		}
	}
	if start, ok := goja.AssertFunction(vm.Get("start")); ok {
		if _, err := start(goja.Undefined()); err != nil {
			return nil, fmt.Errorf("%w: start: %v", ErrEngineUnavailable, err)
		}
	}

	return &instance{vm: vm, typeset: typeset}, nil
}

// Render typesets one formula to SVG. It blocks until a runtime is free.
// Cancelling ctx interrupts a running typeset; a context without a deadline
// waits as long as the engine takes.
func (r *Renderer) Render(ctx context.Context, tex string, inline bool) (string, error) {
	if err := r.Configure(); err != nil {
		return "", err
	}

	var inst *instance
	select {
	case inst = <-r.pool:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { r.pool <- inst }()

	release := interruptOnDone(ctx, inst.vm)
	res, err := inst.typeset(goja.Undefined(), inst.newOptions(tex, inline))
	release()

	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) && ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("typeset: %w", err)
	}

	return inst.decode(tex, res)
}

func (i *instance) newOptions(tex string, inline bool) *goja.Object {
	format := "TeX"
	if inline {
		format = "inline-TeX"
	}

	opts := i.vm.NewObject()
	_ = opts.Set("math", tex)
	_ = opts.Set("format", format)
	_ = opts.Set("svg", true)
	_ = opts.Set("speakText", true)
	_ = opts.Set("speakRuleset", "mathspeak")
	_ = opts.Set("speakStyle", "default")
	_ = opts.Set("ex", 6)
	_ = opts.Set("width", 100)
	_ = opts.Set("linebreaks", true)
	return opts
}

func (i *instance) decode(tex string, res goja.Value) (string, error) {
	if res == nil || goja.IsUndefined(res) || goja.IsNull(res) {
		return "", fmt.Errorf("%w: typeset returned nothing", ErrEngineUnavailable)
	}
	obj := res.ToObject(i.vm)

	if diags := diagnostics(obj.Get("errors")); len(diags) > 0 {
		return "", &RenderError{Formula: tex, Diagnostics: diags}
	}

	svg := obj.Get("svg")
	if svg == nil || goja.IsUndefined(svg) || goja.IsNull(svg) {
		return "", fmt.Errorf("%w: typeset returned no svg", ErrEngineUnavailable)
	}
	return svg.String(), nil
}

func diagnostics(v goja.Value) []string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	switch e := v.Export().(type) {
	case []interface{}:
		out := make([]string, 0, len(e))
		for _, item := range e {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		if strings.TrimSpace(e) == "" {
			return nil
		}
		return []string{e}
	case bool:
		if !e {
			return nil
		}
		return []string{"engine reported an error"}
	default:
		return []string{v.String()}
	}
}

// interruptOnDone stops the runtime when ctx ends. The returned func must be
// called once the call into the runtime has returned.
func interruptOnDone(ctx context.Context, vm *goja.Runtime) func() {
	if ctx.Done() == nil {
		return func() {}
	}
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()
	return func() {
		close(done)
		<-exited
		vm.ClearInterrupt()
	}
}
