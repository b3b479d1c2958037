package optim

import (
	"github.com/born-ml/stax/internal/nn"
	"gonum.org/v1/gonum/floats"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
//	params, err = optimizer.Step(params, grads)
type SGD struct {
	lr       float64
	momentum float64
	velocity []float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		lr:       config.LR,
		momentum: config.Momentum,
	}
}

// Step performs a single optimization step.
func (s *SGD) Step(params, grads nn.Params) (nn.Params, error) {
	p, g, err := flatten(params, grads)
	if err != nil {
		return nil, err
	}

	if s.momentum == 0 {
		// param -= lr * grad
		floats.AddScaled(p, -s.lr, g)
		return nn.Unravel(params, p)
	}

	// velocity = momentum * velocity + grad; param -= lr * velocity
	s.velocity = ensureState(s.velocity, len(p))
	floats.Scale(s.momentum, s.velocity)
	floats.Add(s.velocity, g)
	floats.AddScaled(p, -s.lr, s.velocity)
	return nn.Unravel(params, p)
}

// LR returns the current learning rate.
func (s *SGD) LR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// Reset clears the momentum buffer.
func (s *SGD) Reset() {
	s.velocity = nil
}
