package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrParams         = errors.New("parameter structure mismatch")
	ErrUnknownLayer   = errors.New("unknown layer")
	ErrLayerSpec      = errors.New("invalid layer spec")
	ErrDuplicateLayer = errors.New("layer already registered")
)

// CompositionError reports which layer of a Serial failed.
//
// Err is the underlying cause, usually a *tensor.ShapeError; errors.Is and
// errors.As see through the wrapper.
type CompositionError struct {
	Index int    // Position of the failing layer, -1 for whole-model checks
	Layer string // Name of the failing layer
	Op    string // "init", "apply" or "apply_stochastic"
	Err   error
}

// Error implements the error interface.
func (e *CompositionError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("serial.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("serial.%s: layer %d (%s): %v", e.Op, e.Index, e.Layer, e.Err)
}

// Unwrap returns the underlying error.
func (e *CompositionError) Unwrap() error {
	return e.Err
}
