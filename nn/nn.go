// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/stax/internal/nn"
	"github.com/born-ml/stax/internal/random"
	"github.com/born-ml/stax/internal/tensor"
)

// Layer is the (Init, Apply) pair every model component implements.
type Layer = nn.Layer

// StochasticLayer is a Layer whose forward pass can consume randomness.
type StochasticLayer = nn.StochasticLayer

// Key is a splittable random key. All randomness in Init flows from it.
type Key = random.Key

// NewKey creates a root key from a seed.
//
// Example:
//
//	outShape, params, err := model.Init(nn.NewKey(0), tensor.Shape{tensor.Batch, 41})
func NewKey(seed uint64) Key {
	return random.NewKey(seed)
}

// Parameters

// Params is a parameter blob: DenseParams, EmptyParams or SerialParams.
type Params = nn.Params

// DenseParams holds the weights W:[in,out] and bias B:[out] of a Dense layer.
type DenseParams = nn.DenseParams

// EmptyParams is the blob of a stateless layer.
type EmptyParams = nn.EmptyParams

// SerialParams holds one blob per layer of a Serial, in layer order.
type SerialParams = nn.SerialParams

// NumParams returns the number of scalars in a blob.
func NumParams(p Params) int {
	return nn.NumParams(p)
}

// Ravel flattens a blob into a vector in depth-first order, W before B.
func Ravel(p Params) []float64 {
	return nn.Ravel(p)
}

// Unravel rebuilds a blob shaped like template from a flat vector.
func Unravel(template Params, vec []float64) (Params, error) {
	return nn.Unravel(template, vec)
}

// Layers

// Dense is a fully connected layer over the trailing axis.
type Dense = nn.Dense

// DenseOption configures a Dense layer.
type DenseOption = nn.DenseOption

// NewDense creates a Dense layer producing outDim features.
//
// Example:
//
//	layer := nn.NewDense(20, nn.WithBiasInit(nn.Zeros()))
func NewDense(outDim int, opts ...DenseOption) *Dense {
	return nn.NewDense(outDim, opts...)
}

// WithWeightInit overrides the weight initializer (default: GlorotNormal).
func WithWeightInit(init Initializer) DenseOption {
	return nn.WithWeightInit(init)
}

// WithBiasInit overrides the bias initializer (default: Normal(1e-2)).
func WithBiasInit(init Initializer) DenseOption {
	return nn.WithBiasInit(init)
}

// Activations

// Elementwise is a stateless layer applying a scalar function to every element.
type Elementwise = nn.Elementwise

// NewElementwise creates a custom elementwise layer.
func NewElementwise(name string, fn func(float64) float64) *Elementwise {
	return nn.NewElementwise(name, fn)
}

// Tanh creates a hyperbolic tangent activation.
func Tanh() *Elementwise { return nn.Tanh() }

// Elu creates an exponential linear unit activation (alpha = 1).
func Elu() *Elementwise { return nn.Elu() }

// Logistic creates a sigmoid activation.
func Logistic() *Elementwise { return nn.Logistic() }

// Relu creates a rectified linear unit activation.
func Relu() *Elementwise { return nn.Relu() }

// Softplus creates a softplus activation.
func Softplus() *Elementwise { return nn.Softplus() }

// Composition

// Serial composes layers into a single layer.
type Serial = nn.Serial

// NewSerial creates a Serial from layers, applied in order.
//
// Example:
//
//	model := nn.NewSerial(
//	    nn.NewDense(20),
//	    nn.Tanh(),
//	    nn.NewDense(1),
//	    nn.Logistic(),
//	)
func NewSerial(layers ...Layer) *Serial {
	return nn.NewSerial(layers...)
}

// ApplyStochastic runs layer with a key when it consumes randomness, and
// falls back to Apply otherwise.
func ApplyStochastic(layer Layer, params Params, inputs *tensor.Array, key Key) (*tensor.Array, error) {
	return nn.ApplyStochastic(layer, params, inputs, key)
}

// Initialization

// Initializer draws a parameter array of the given shape from a key.
type Initializer = nn.Initializer

// GlorotNormal returns the Glorot (Xavier) normal initializer.
func GlorotNormal() Initializer { return nn.GlorotNormal() }

// GlorotUniform returns the Glorot (Xavier) uniform initializer.
func GlorotUniform() Initializer { return nn.GlorotUniform() }

// Normal returns an initializer drawing from N(0, stddev²).
func Normal(stddev float64) Initializer { return nn.Normal(stddev) }

// Zeros returns an initializer producing zeros.
func Zeros() Initializer { return nn.Zeros() }

// Registry

// Factory builds a layer from the arguments of a layer spec.
type Factory = nn.Factory

// Register adds a layer factory under name.
func Register(name string, factory Factory) error {
	return nn.Register(name, factory)
}

// Build creates a layer from a spec such as "dense:20" or "tanh".
func Build(spec string) (Layer, error) {
	return nn.Build(spec)
}

// BuildSerial builds a Serial from a list of layer specs.
func BuildSerial(specs []string) (*Serial, error) {
	return nn.BuildSerial(specs)
}

// Losses

// Loss reduces predictions and targets of the same shape to a scalar.
type Loss = nn.Loss

// MSE computes the mean squared error.
func MSE(predictions, targets *tensor.Array) (float64, error) {
	return nn.MSE(predictions, targets)
}

// BinaryCrossEntropy computes the mean binary cross-entropy of probabilities.
func BinaryCrossEntropy(predictions, targets *tensor.Array) (float64, error) {
	return nn.BinaryCrossEntropy(predictions, targets)
}

// Errors

// CompositionError identifies the constituent layer that failed inside a Serial.
type CompositionError = nn.CompositionError

// Common errors.
var (
	ErrParams         = nn.ErrParams
	ErrUnknownLayer   = nn.ErrUnknownLayer
	ErrLayerSpec      = nn.ErrLayerSpec
	ErrDuplicateLayer = nn.ErrDuplicateLayer
)
