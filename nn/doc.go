// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides composable layers with shape inference.
//
// # Overview
//
// Every layer is a pair of pure operations:
//   - Init(key, inputShape) returns the output shape and a parameter blob
//   - Apply(params, inputs) runs the forward pass with those parameters
//
// This package contains:
//   - Layers: Dense
//   - Activations: Tanh, Elu, Logistic, Relu, Softplus
//   - Composition: Serial, itself a Layer
//   - Initialization: GlorotNormal, GlorotUniform, Normal, Zeros
//   - Losses: MSE, BinaryCrossEntropy
//   - Registry: Register, Build, BuildSerial
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/stax/nn"
//	    "github.com/born-ml/stax/tensor"
//	)
//
//	func main() {
//	    model := nn.NewSerial(
//	        nn.NewDense(20),
//	        nn.Tanh(),
//	        nn.NewDense(1),
//	        nn.Logistic(),
//	    )
//
//	    // Shapes are inferred once, with a wildcard batch axis.
//	    outShape, params, err := model.Init(nn.NewKey(0), tensor.Shape{tensor.Batch, 41})
//	    // outShape == (-1, 1)
//
//	    // Apply is called repeatedly with the same (or updated) params.
//	    y, err := model.Apply(params, x)
//	}
//
// # Parameters
//
// Parameter blobs are a closed union: DenseParams, EmptyParams and
// SerialParams (one blob per constituent layer). Apply never modifies a blob.
// Ravel and Unravel convert blobs to and from flat vectors for optimizers.
//
// # Randomness
//
// Init draws all randomness from its Key. Serial splits its key once per
// layer, so the same seed always yields the same parameters:
//
//	_, p1, _ := model.Init(nn.NewKey(7), in)
//	_, p2, _ := model.Init(nn.NewKey(7), in)
//	// p1 and p2 are identical
//
// # Errors
//
// Shape problems surface as *tensor.ShapeError. Inside a Serial they are
// wrapped in a *CompositionError naming the failing layer; errors.Is still
// matches tensor.ErrShape through the wrapper.
package nn
