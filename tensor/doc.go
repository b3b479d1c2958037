// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides shapes and dense float64 arrays for stax models.
//
// # Overview
//
// This package provides:
//   - Shape, with the Batch wildcard for the leading (sample) axis
//   - Array, a row-major float64 N-d array with a concrete shape
//   - ShapeError and the ErrShape sentinel
//
// # Shapes
//
// Shapes describe the per-example layout seen by a model. The leading entry
// may be the Batch wildcard, meaning "any number of samples":
//
//	in := tensor.Shape{tensor.Batch, 41}   // (-1, 41)
//	in.Validate()                          // nil
//	tensor.Shape{41, tensor.Batch}.Validate() // *ShapeError
//
// # Arrays
//
// Arrays always have concrete shapes:
//
//	x, err := tensor.FromRows([][]float64{{1, 2}, {3, 4}})
//	x.Shape()          // (2, 2)
//	x.Matrix()         // gonum *mat.Dense view over the same storage
//
// Operations never modify their receivers.
//
// # Errors
//
// Every shape incompatibility is reported as a *ShapeError, which matches
// ErrShape under errors.Is:
//
//	if errors.Is(err, tensor.ErrShape) {
//	    // wrong input width, wildcard in a trailing position, ...
//	}
package tensor
