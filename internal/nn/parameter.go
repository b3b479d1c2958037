package nn

import (
	"fmt"

	"github.com/born-ml/stax/internal/tensor"
)

// Params is the parameter blob owned by one layer.
//
// It is a closed union: DenseParams, EmptyParams or SerialParams. Blobs are
// values; Apply reads them and optimizers produce new ones.
type Params interface {
	isParams()
}

// DenseParams holds the weights of a Dense layer.
type DenseParams struct {
	W *tensor.Array // [in, out]
	B *tensor.Array // [out]
}

// EmptyParams is the blob of a layer without trainable state.
type EmptyParams struct{}

// SerialParams holds one blob per layer of a Serial, in declared order.
type SerialParams []Params

func (DenseParams) isParams()  {}
func (EmptyParams) isParams()  {}
func (SerialParams) isParams() {}

// NumParams returns the number of scalar parameters in p.
func NumParams(p Params) int {
	n := 0
	walk(p, func(a *tensor.Array) { n += a.Len() })
	return n
}

// Shapes lists the shapes of every array in p, depth first.
func Shapes(p Params) []tensor.Shape {
	var shapes []tensor.Shape
	walk(p, func(a *tensor.Array) { shapes = append(shapes, a.Shape()) })
	return shapes
}

// Ravel flattens p into a single vector, depth first, W before B.
//
// Gradients and optimizer state use this layout; Unravel reverses it.
func Ravel(p Params) []float64 {
	vec := make([]float64, 0, NumParams(p))
	walk(p, func(a *tensor.Array) { vec = append(vec, a.Data()...) })
	return vec
}

// Unravel rebuilds a blob shaped like template from a flat vector.
func Unravel(template Params, vec []float64) (Params, error) {
	if want := NumParams(template); want != len(vec) {
		return nil, fmt.Errorf("unravel: %w: vector has %d values, structure needs %d", ErrParams, len(vec), want)
	}
	p, _, err := unravel(template, vec)
	return p, err
}

func unravel(template Params, vec []float64) (Params, []float64, error) {
	switch t := template.(type) {
	case DenseParams:
		w, rest, err := take(t.W, vec)
		if err != nil {
			return nil, nil, err
		}
		b, rest, err := take(t.B, rest)
		if err != nil {
			return nil, nil, err
		}
		return DenseParams{W: w, B: b}, rest, nil
	case EmptyParams:
		return EmptyParams{}, vec, nil
	case SerialParams:
		out := make(SerialParams, len(t))
		rest := vec
		for i, child := range t {
			var err error
			out[i], rest, err = unravel(child, rest)
			if err != nil {
				return nil, nil, err
			}
		}
		return out, rest, nil
	default:
		return nil, nil, fmt.Errorf("unravel: %w: unsupported blob %T", ErrParams, template)
	}
}

func take(like *tensor.Array, vec []float64) (*tensor.Array, []float64, error) {
	n := like.Len()
	a, err := tensor.New(like.Shape(), vec[:n])
	if err != nil {
		return nil, nil, err
	}
	return a, vec[n:], nil
}

func walk(p Params, visit func(*tensor.Array)) {
	switch t := p.(type) {
	case DenseParams:
		visit(t.W)
		visit(t.B)
	case SerialParams:
		for _, child := range t {
			walk(child, visit)
		}
	}
}
