package tensor

import (
	"errors"
	"fmt"
)

// ErrShape is matched by every shape inconsistency reported by this module.
var ErrShape = errors.New("shape mismatch")

// ShapeError provides detailed information about a shape inconsistency.
//
// Use errors.Is(err, ErrShape) to test for it through any wrapping.
type ShapeError struct {
	Op     string // Operation that rejected the shape (e.g., "dense.init")
	Want   Shape  // Expected shape, if one applies
	Got    Shape  // Offending shape
	Detail string // Additional details
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	switch {
	case e.Want != nil && e.Got != nil:
		return fmt.Sprintf("%s: %s: want %v, got %v", e.Op, ErrShape, e.Want, e.Got)
	case e.Detail != "" && e.Got != nil:
		return fmt.Sprintf("%s: %s: %s (shape %v)", e.Op, ErrShape, e.Detail, e.Got)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, ErrShape, e.Detail)
	default:
		return fmt.Sprintf("%s: %s", e.Op, ErrShape)
	}
}

// Is reports whether target is ErrShape.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}
