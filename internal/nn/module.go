// Package nn implements composable neural network layers.
//
// This package provides building blocks for constructing feed-forward networks:
//   - Layer interface: a pair of pure functions, Init and Apply
//   - Params: the per-layer parameter blobs (DenseParams, EmptyParams, SerialParams)
//   - Dense: fully connected layer
//   - Activations: Tanh, Elu, Logistic, Relu, Softplus
//   - Serial: combinator that chains layers while inferring shapes
//   - Losses: MSE, BinaryCrossEntropy
//   - Registry: building layers from textual specs such as "dense:20"
//
// Layers hold no trainable state. Parameters are created by Init, owned by
// the caller, and passed back to Apply on every call.
package nn

import (
	"fmt"

	"github.com/born-ml/stax/internal/random"
	"github.com/born-ml/stax/internal/tensor"
)

// Layer is the base interface for all network components.
//
// Layers can be composed to build deeper networks:
//
//	model := nn.NewSerial(
//	    nn.NewDense(20),
//	    nn.Tanh(),
//	    nn.NewDense(1),
//	    nn.Logistic(),
//	)
//
//	outShape, params, err := model.Init(random.NewKey(0), tensor.Shape{tensor.Batch, 41})
//	preds, err := model.Apply(params, x)
type Layer interface {
	// Init computes the output shape for inputShape and allocates freshly
	// initialized parameters of the matching shapes.
	//
	// All randomness is drawn from key. Returns an error matching
	// tensor.ErrShape if inputShape is incompatible with the layer.
	Init(key random.Key, inputShape tensor.Shape) (tensor.Shape, Params, error)

	// Apply computes the forward output for a batch of inputs.
	//
	// Apply is deterministic and never modifies params or inputs. Returns an
	// error matching tensor.ErrShape if the parameter dimensions disagree with
	// the inputs, or ErrParams if params is not the variant this layer owns.
	Apply(params Params, inputs *tensor.Array) (*tensor.Array, error)
}

// StochasticLayer is implemented by layers whose forward pass can consume
// randomness.
type StochasticLayer interface {
	Layer

	// ApplyStochastic is Apply with an explicit key for any randomness the
	// forward pass needs.
	ApplyStochastic(params Params, inputs *tensor.Array, key random.Key) (*tensor.Array, error)
}

// ApplyStochastic runs layer with key if it implements StochasticLayer, and
// falls back to its deterministic Apply otherwise.
func ApplyStochastic(layer Layer, params Params, inputs *tensor.Array, key random.Key) (*tensor.Array, error) {
	if s, ok := layer.(StochasticLayer); ok {
		return s.ApplyStochastic(params, inputs, key)
	}
	return layer.Apply(params, inputs)
}

// Name returns a short description of layer, e.g. "dense(20)".
func Name(layer Layer) string {
	if n, ok := layer.(fmt.Stringer); ok {
		return n.String()
	}
	return fmt.Sprintf("%T", layer)
}
