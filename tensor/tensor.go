// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/stax/internal/tensor"
)

// Batch is the wildcard dimension, legal only in the leading position.
const Batch = tensor.Batch

// Shape represents the dimensions of an array.
type Shape = tensor.Shape

// Array is a dense, row-major float64 array with a concrete shape.
type Array = tensor.Array

// ShapeError reports an incompatible shape.
type ShapeError = tensor.ShapeError

// ErrShape is matched by every ShapeError.
var ErrShape = tensor.ErrShape

// New creates an Array from a shape and a flat row-major slice.
//
// Example:
//
//	x, err := tensor.New(tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})
func New(shape Shape, data []float64) (*Array, error) {
	return tensor.New(shape, data)
}

// Zeros creates an Array filled with zeros. Panics if shape is not concrete.
func Zeros(shape Shape) *Array {
	return tensor.Zeros(shape)
}

// Full creates an Array filled with value. Panics if shape is not concrete.
func Full(shape Shape, value float64) *Array {
	return tensor.Full(shape, value)
}

// FromRows creates a 2-D Array from a rectangular table.
//
// Example:
//
//	x, err := tensor.FromRows([][]float64{{1, 2}, {3, 4}})
func FromRows(rows [][]float64) (*Array, error) {
	return tensor.FromRows(rows)
}

// FromMatrix copies a gonum matrix into a 2-D Array.
func FromMatrix(m mat.Matrix) *Array {
	return tensor.FromMatrix(m)
}
