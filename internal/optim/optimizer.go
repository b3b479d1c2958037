// Package optim implements optimization algorithms for training networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers never modify the blobs they are given. Step returns a new
// parameter blob with the same structure, which the caller passes to the
// next Apply.
//
// Example usage:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{LR: 0.1})
//
//	for step := range steps {
//	    loss, grads, err := grad.Value(objective, params, grad.Settings{})
//	    params, err = optimizer.Step(params, grads)
//	}
package optim

import (
	"fmt"

	"github.com/born-ml/stax/internal/nn"
)

// Optimizer is the base interface for all optimization algorithms.
//
// Optimizers may keep per-parameter state (velocities, moments) between
// steps, laid out like nn.Ravel. They are not safe for concurrent use.
type Optimizer interface {
	// Step returns params updated with grads.
	//
	// grads must have exactly the structure of params.
	Step(params, grads nn.Params) (nn.Params, error)

	// LR returns the current learning rate.
	LR() float64

	// SetLR updates the learning rate, e.g. for scheduling.
	SetLR(lr float64)
}

// flatten ravels params and grads and checks that their structures agree.
func flatten(params, grads nn.Params) (p, g []float64, err error) {
	ps, gs := nn.Shapes(params), nn.Shapes(grads)
	if len(ps) != len(gs) {
		return nil, nil, fmt.Errorf("optim: %w: %d parameter arrays, %d gradient arrays", nn.ErrParams, len(ps), len(gs))
	}
	for i := range ps {
		if !ps[i].Equal(gs[i]) {
			return nil, nil, fmt.Errorf("optim: %w: array %d has shape %v, gradient %v", nn.ErrParams, i, ps[i], gs[i])
		}
	}
	return nn.Ravel(params), nn.Ravel(grads), nil
}

// ensureState sizes an optimizer buffer for n parameters.
func ensureState(buf []float64, n int) []float64 {
	if len(buf) != n {
		return make([]float64, n)
	}
	return buf
}
