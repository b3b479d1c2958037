// Package grad is the gradient source used for training.
//
// Gradients are computed numerically with gonum's finite-difference package
// over the raveled parameter vector, then unraveled so the result has exactly
// the structure of the parameters it was taken against.
package grad

import (
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/stax/internal/nn"
	"gonum.org/v1/gonum/diff/fd"
)

// ErrNonFinite is returned when the objective produces NaN or ±Inf.
var ErrNonFinite = errors.New("objective is not finite")

// Objective maps a parameter blob to a scalar.
type Objective func(params nn.Params) (float64, error)

// Settings controls the finite-difference approximation.
type Settings struct {
	Step       float64 // Step size; 0 selects the formula's default
	Forward    bool    // Use the forward formula instead of central differences
	Concurrent bool    // Evaluate the objective from several goroutines
}

// Numerical returns the gradient of f at params.
//
// The returned blob has the same variants and shapes as params. The first
// error returned by f aborts the computation.
func Numerical(f Objective, params nn.Params, settings Settings) (nn.Params, error) {
	x := nn.Ravel(params)
	if len(x) == 0 {
		return nn.Unravel(params, nil)
	}

	// fd.Gradient takes a plain func; errors are smuggled out through err.
	var firstErr error
	errOnce := make(chan struct{}, 1)
	objective := func(v []float64) float64 {
		p, err := nn.Unravel(params, v)
		if err == nil {
			var loss float64
			loss, err = f(p)
			if err == nil {
				return loss
			}
		}
		select {
		case errOnce <- struct{}{}:
			firstErr = err
		default:
		}
		return math.NaN()
	}

	fs := &fd.Settings{
		Formula:    fd.Central,
		Step:       settings.Step,
		Concurrent: settings.Concurrent,
	}
	if settings.Forward {
		fs.Formula = fd.Forward
	}

	g := fd.Gradient(nil, objective, x, fs)
	if firstErr != nil {
		return nil, fmt.Errorf("grad: %w", firstErr)
	}
	for i, v := range g {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("grad: component %d: %w", i, ErrNonFinite)
		}
	}
	return nn.Unravel(params, g)
}

// Value returns f(params) together with its gradient.
func Value(f Objective, params nn.Params, settings Settings) (float64, nn.Params, error) {
	loss, err := f(params)
	if err != nil {
		return 0, nil, err
	}
	if math.IsNaN(loss) || math.IsInf(loss, 0) {
		return 0, nil, fmt.Errorf("grad: loss %v: %w", loss, ErrNonFinite)
	}
	g, err := Numerical(f, params, settings)
	if err != nil {
		return 0, nil, err
	}
	return loss, g, nil
}
