// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for stax parameter blobs.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/stax/grad"
//	    "github.com/born-ml/stax/nn"
//	    "github.com/born-ml/stax/optim"
//	)
//
//	func main() {
//	    _, params, _ := model.Init(nn.NewKey(0), inShape)
//	    optimizer := optim.NewSGD(optim.SGDConfig{LR: 0.1})
//
//	    for step := 0; step < 100; step++ {
//	        loss, grads, err := grad.Value(objective, params, grad.Settings{})
//	        params, err = optimizer.Step(params, grads)
//	    }
//	}
//
// # Functional Updates
//
// Step never modifies the blob it is given; it returns a new blob with the
// same structure. Optimizer state (momentum, moments) lives inside the
// optimizer, laid out in nn.Ravel order.
package optim
