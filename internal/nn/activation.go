package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/stax/internal/parallel"
	"github.com/born-ml/stax/internal/random"
	"github.com/born-ml/stax/internal/tensor"
)

// Elementwise is a stateless layer applying a scalar function to every element.
//
// Init leaves the shape unchanged and returns EmptyParams; Apply never
// changes the shape.
//
// Example:
//
//	softsign := nn.NewElementwise("softsign", func(x float64) float64 {
//	    return x / (1 + math.Abs(x))
//	})
type Elementwise struct {
	name string
	fn   func(float64) float64
}

// NewElementwise creates an activation layer from a scalar function.
func NewElementwise(name string, fn func(float64) float64) *Elementwise {
	return &Elementwise{name: name, fn: fn}
}

// Tanh applies the hyperbolic tangent. Output range is (-1, 1).
func Tanh() *Elementwise {
	return NewElementwise("tanh", math.Tanh)
}

// Elu applies the exponential linear unit with alpha = 1:
// f(x) = x for x > 0, exp(x) - 1 otherwise.
func Elu() *Elementwise {
	return NewElementwise("elu", func(x float64) float64 {
		if x > 0 {
			return x
		}
		return math.Expm1(x)
	})
}

// Logistic applies the sigmoid σ(x) = 1 / (1 + exp(-x)). Output range is (0, 1).
func Logistic() *Elementwise {
	return NewElementwise("logistic", sigmoid)
}

// Relu applies f(x) = max(0, x).
func Relu() *Elementwise {
	return NewElementwise("relu", func(x float64) float64 {
		return math.Max(0, x)
	})
}

// Softplus applies f(x) = log(1 + exp(x)).
func Softplus() *Elementwise {
	return NewElementwise("softplus", func(x float64) float64 {
		return math.Log1p(math.Exp(-math.Abs(x))) + math.Max(x, 0)
	})
}

// String implements fmt.Stringer.
func (e *Elementwise) String() string {
	return e.name
}

// Init returns inputShape unchanged and EmptyParams.
func (e *Elementwise) Init(_ random.Key, inputShape tensor.Shape) (tensor.Shape, Params, error) {
	if err := inputShape.Validate(); err != nil {
		return nil, nil, err
	}
	return inputShape.Clone(), EmptyParams{}, nil
}

// Apply maps the scalar function over inputs.
func (e *Elementwise) Apply(params Params, inputs *tensor.Array) (*tensor.Array, error) {
	if _, ok := params.(EmptyParams); !ok {
		return nil, fmt.Errorf("%s.apply: %w: want EmptyParams, got %T", e.name, ErrParams, params)
	}
	src := inputs.Data()
	dst := make([]float64, len(src))
	parallel.Map(dst, src, e.fn, parallel.DefaultConfig())
	return tensor.New(inputs.Shape(), dst)
}

// sigmoid avoids overflow of exp for large negative x.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	z := math.Exp(x)
	return z / (1 + z)
}
