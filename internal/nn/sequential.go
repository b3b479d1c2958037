package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/stax/internal/random"
	"github.com/born-ml/stax/internal/tensor"
)

// Serial is a combinator that chains layers together.
//
// Init threads each layer's output shape into the next layer's input shape
// and gives every layer its own child key. Apply threads data through the
// layers in the same order. Serial is itself a Layer, so serials nest.
//
// Example:
//
//	model := nn.NewSerial(
//	    nn.NewDense(20),
//	    nn.Tanh(),
//	    nn.NewDense(1),
//	    nn.Logistic(),
//	)
//
//	outShape, params, err := model.Init(key, tensor.Shape{tensor.Batch, 41})
//	// outShape: (-1, 1)
//	// params: SerialParams{DenseParams, EmptyParams, DenseParams, EmptyParams}
//
// A Serial without layers is the identity: Init returns the input shape and
// no parameters, Apply returns its inputs.
type Serial struct {
	layers []Layer
}

// NewSerial creates a new Serial combinator.
//
// The layer list is copied; the model is immutable after construction.
func NewSerial(layers ...Layer) *Serial {
	return &Serial{layers: append([]Layer(nil), layers...)}
}

// Len returns the number of layers.
func (s *Serial) Len() int {
	return len(s.layers)
}

// Layer returns the layer at the given index.
//
// Panics if index is out of bounds.
func (s *Serial) Layer(index int) Layer {
	if index < 0 || index >= len(s.layers) {
		panic("Serial.Layer: index out of bounds")
	}
	return s.layers[index]
}

// String implements fmt.Stringer.
func (s *Serial) String() string {
	names := make([]string, len(s.layers))
	for i, l := range s.layers {
		names[i] = Name(l)
	}
	return "serial[" + strings.Join(names, ", ") + "]"
}

// initState is the accumulator threaded through Init.
type initState struct {
	key    random.Key
	shape  tensor.Shape
	params SerialParams
}

// next initializes layer with a fresh child key and carries the continuation
// key, the new shape and the extended parameter list forward.
func (st initState) next(layer Layer) (initState, error) {
	child, cont := st.key.Split()
	shape, params, err := layer.Init(child, st.shape)
	if err != nil {
		return st, err
	}
	return initState{
		key:    cont,
		shape:  shape,
		params: append(st.params, params),
	}, nil
}

// Init initializes every layer in declared order.
//
// The returned SerialParams is index-aligned with the layers.
func (s *Serial) Init(key random.Key, inputShape tensor.Shape) (tensor.Shape, Params, error) {
	if err := inputShape.Validate(); err != nil {
		return nil, nil, err
	}

	st := initState{
		key:    key,
		shape:  inputShape.Clone(),
		params: make(SerialParams, 0, len(s.layers)),
	}
	for i, layer := range s.layers {
		var err error
		st, err = st.next(layer)
		if err != nil {
			return nil, nil, &CompositionError{Index: i, Layer: Name(layer), Op: "init", Err: err}
		}
	}
	return st.shape, st.params, nil
}

// Apply runs inputs through every layer in declared order.
//
// params must be the SerialParams returned by Init, or any externally built
// SerialParams with one compatible blob per layer.
func (s *Serial) Apply(params Params, inputs *tensor.Array) (*tensor.Array, error) {
	blobs, err := s.blobs(params, "apply")
	if err != nil {
		return nil, err
	}

	x := inputs
	for i, layer := range s.layers {
		x, err = layer.Apply(blobs[i], x)
		if err != nil {
			return nil, &CompositionError{Index: i, Layer: Name(layer), Op: "apply", Err: err}
		}
	}
	return x, nil
}

// ApplyStochastic is Apply with a key split once per layer.
//
// Layers that do not implement StochasticLayer ignore their key.
func (s *Serial) ApplyStochastic(params Params, inputs *tensor.Array, key random.Key) (*tensor.Array, error) {
	blobs, err := s.blobs(params, "apply_stochastic")
	if err != nil {
		return nil, err
	}

	x := inputs
	for i, layer := range s.layers {
		var child random.Key
		child, key = key.Split()
		x, err = ApplyStochastic(layer, blobs[i], x, child)
		if err != nil {
			return nil, &CompositionError{Index: i, Layer: Name(layer), Op: "apply_stochastic", Err: err}
		}
	}
	return x, nil
}

func (s *Serial) blobs(params Params, op string) (SerialParams, error) {
	blobs, ok := params.(SerialParams)
	if !ok {
		return nil, &CompositionError{
			Index: -1,
			Op:    op,
			Err:   fmt.Errorf("%w: want SerialParams, got %T", ErrParams, params),
		}
	}
	if len(blobs) != len(s.layers) {
		return nil, &CompositionError{
			Index: -1,
			Op:    op,
			Err:   fmt.Errorf("%w: %d parameter blobs for %d layers", ErrParams, len(blobs), len(s.layers)),
		}
	}
	return blobs, nil
}
