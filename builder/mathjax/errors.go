package mathjax

import "fmt"

// WriteError reports a failed hand-off of rendered SVG to the output writer.
// The fingerprint stays marked in the RenderCache, so it is not retried.
type WriteError struct {
	Filename string
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Filename, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
