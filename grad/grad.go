// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package grad computes numerical gradients of scalar objectives over
// parameter blobs.
//
// Gradients come back with the same structure as the parameters, so they can
// be handed straight to an optimizer:
//
//	objective := func(p nn.Params) (float64, error) {
//	    y, err := model.Apply(p, x)
//	    if err != nil {
//	        return 0, err
//	    }
//	    return nn.MSE(y, targets)
//	}
//	loss, grads, err := grad.Value(objective, params, grad.Settings{})
package grad

import (
	"github.com/born-ml/stax/internal/grad"
	"github.com/born-ml/stax/internal/nn"
)

// Objective maps a parameter blob to a scalar.
type Objective = grad.Objective

// Settings controls the finite-difference approximation.
type Settings = grad.Settings

// ErrNonFinite is returned when the objective produces NaN or ±Inf.
var ErrNonFinite = grad.ErrNonFinite

// Numerical returns the gradient of f at params.
func Numerical(f Objective, params nn.Params, settings Settings) (nn.Params, error) {
	return grad.Numerical(f, params, settings)
}

// Value returns f(params) together with its gradient.
func Value(f Objective, params nn.Params, settings Settings) (float64, nn.Params, error) {
	return grad.Value(f, params, settings)
}
