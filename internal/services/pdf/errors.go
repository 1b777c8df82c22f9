package pdf

import "fmt"

// RenderError is returned when a report could not be turned into a valid document
type RenderError struct {
	Filename string
	Op       string // "layout", "output", "validate" or "panic"
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render %s (%s): %v", e.Filename, e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
