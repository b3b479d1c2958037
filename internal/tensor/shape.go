package tensor

import (
	"fmt"
	"strconv"
	"strings"
)

// Batch is the wildcard dimension marker.
//
// It stands for "unknown batch size" and is only legal in the leading
// position of a Shape: Shape{Batch, 41} describes any number of 41-feature
// samples.
const Batch = -1

// Shape represents the dimensions of a tensor.
//
// Every entry is a non-negative extent, except that the leading entry may be
// the Batch wildcard.
type Shape []int

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// NumElements returns the total number of elements in the tensor.
//
// Returns -1 if the shape contains the Batch wildcard.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		if dim == Batch {
			return -1
		}
		n *= dim
	}
	return n
}

// Validate checks that every dimension is non-negative, allowing the Batch
// wildcard only at index 0.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim == Batch && i == 0 {
			continue
		}
		if dim < 0 {
			return &ShapeError{
				Op:     "shape",
				Got:    s,
				Detail: fmt.Sprintf("invalid dimension at index %d: %d", i, dim),
			}
		}
	}
	return nil
}

// IsConcrete reports whether the shape carries no wildcard.
func (s Shape) IsConcrete() bool {
	for _, dim := range s {
		if dim == Batch {
			return false
		}
	}
	return true
}

// Last returns the trailing dimension.
//
// Returns Batch for a rank-0 shape, which no layer accepts as a contraction
// width.
func (s Shape) Last() int {
	if len(s) == 0 {
		return Batch
	}
	return s[len(s)-1]
}

// WithLast returns a copy of s with the trailing dimension replaced by dim.
func (s Shape) WithLast(dim int) Shape {
	out := s.Clone()
	if len(out) == 0 {
		return Shape{dim}
	}
	out[len(out)-1] = dim
	return out
}

// Leading returns the product of all but the trailing dimension, i.e. the
// number of rows the shape collapses to when viewed as a matrix.
func (s Shape) Leading() int {
	n := 1
	for i := 0; i < len(s)-1; i++ {
		n *= s[i]
	}
	return n
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Matches reports whether a concrete shape c is an instance of s, where a
// Batch entry in s matches any extent.
func (s Shape) Matches(c Shape) bool {
	if len(s) != len(c) {
		return false
	}
	for i := range s {
		if s[i] != Batch && s[i] != c[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// String renders the shape as "(-1, 41)".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = strconv.Itoa(dim)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
