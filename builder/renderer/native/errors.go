package native

import (
	"errors"
	"strings"
)

// ErrEngineUnavailable means the engine script could not be loaded or does
// not expose typeset.
var ErrEngineUnavailable = errors.New("tex engine unavailable")

// RenderError is a formula-level rejection from the engine, such as
// malformed LaTeX. It is never retried.
type RenderError struct {
	Formula     string
	Diagnostics []string
}

func (e *RenderError) Error() string {
	return "tex engine rejected formula: " + strings.Join(e.Diagnostics, "; ")
}
