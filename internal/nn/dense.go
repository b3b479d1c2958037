package nn

import (
	"fmt"

	"github.com/born-ml/stax/internal/random"
	"github.com/born-ml/stax/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// Dense implements a fully connected layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x has shape [..., in]; every leading axis is an independent batch axis
//   - W is the weight matrix with shape [in, out]
//   - b is the bias vector with shape [out]
//   - y has shape [..., out]
//
// Weights default to Glorot normal initialization and biases to N(0, 1e-4).
//
// Example:
//
//	layer := nn.NewDense(128)
//	outShape, params, err := layer.Init(key, tensor.Shape{tensor.Batch, 784})
//	// outShape: (-1, 128)
//	// params.(nn.DenseParams).W: (784, 128)
type Dense struct {
	outDim int
	wInit  Initializer
	bInit  Initializer
}

// DenseOption configures a Dense layer.
type DenseOption func(*Dense)

// WithWeightInit overrides the weight initializer.
func WithWeightInit(init Initializer) DenseOption {
	return func(d *Dense) { d.wInit = init }
}

// WithBiasInit overrides the bias initializer.
func WithBiasInit(init Initializer) DenseOption {
	return func(d *Dense) { d.bInit = init }
}

// NewDense creates a Dense layer with outDim output features.
//
// Panics if outDim is negative.
func NewDense(outDim int, opts ...DenseOption) *Dense {
	if outDim < 0 {
		panic(fmt.Sprintf("NewDense: negative output width %d", outDim))
	}
	d := &Dense{
		outDim: outDim,
		wInit:  GlorotNormal(),
		bInit:  Normal(1e-2),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OutDim returns the number of output features.
func (d *Dense) OutDim() int {
	return d.outDim
}

// String implements fmt.Stringer.
func (d *Dense) String() string {
	return fmt.Sprintf("dense(%d)", d.outDim)
}

// Init draws W and b from two children of key.
//
// The trailing dimension of inputShape is the contraction width and must be
// concrete.
func (d *Dense) Init(key random.Key, inputShape tensor.Shape) (tensor.Shape, Params, error) {
	if err := inputShape.Validate(); err != nil {
		return nil, nil, err
	}
	if len(inputShape) == 0 {
		return nil, nil, &tensor.ShapeError{
			Op:     "dense.init",
			Got:    inputShape,
			Detail: "input must have at least one dimension",
		}
	}
	inDim := inputShape.Last()
	if inDim == tensor.Batch {
		return nil, nil, &tensor.ShapeError{
			Op:     "dense.init",
			Got:    inputShape,
			Detail: "trailing dimension must be concrete",
		}
	}

	wKey, bKey := key.Split()
	params := DenseParams{
		W: d.wInit(wKey, tensor.Shape{inDim, d.outDim}),
		B: d.bInit(bKey, tensor.Shape{d.outDim}),
	}
	return inputShape.WithLast(d.outDim), params, nil
}

// Apply computes inputs @ W + b over the trailing axis.
//
// The output width is taken from params, so externally supplied weights of
// any consistent shape are accepted.
func (d *Dense) Apply(params Params, inputs *tensor.Array) (*tensor.Array, error) {
	p, ok := params.(DenseParams)
	if !ok {
		return nil, fmt.Errorf("dense.apply: %w: want DenseParams, got %T", ErrParams, params)
	}
	if p.W == nil || p.B == nil {
		return nil, fmt.Errorf("dense.apply: %w: missing weight or bias", ErrParams)
	}

	wShape, bShape := p.W.Shape(), p.B.Shape()
	if len(wShape) != 2 || len(bShape) != 1 || bShape[0] != wShape[1] {
		return nil, &tensor.ShapeError{
			Op:     "dense.apply",
			Got:    wShape,
			Detail: fmt.Sprintf("weight %v and bias %v are inconsistent", wShape, bShape),
		}
	}
	inDim, outDim := wShape[0], wShape[1]

	xShape := inputs.Shape()
	if len(xShape) == 0 || xShape.Last() != inDim {
		return nil, &tensor.ShapeError{
			Op:   "dense.apply",
			Want: xShape.WithLast(inDim),
			Got:  xShape,
		}
	}

	out := tensor.Zeros(xShape.WithLast(outDim))
	rows := inputs.Rows()
	if rows == 0 || outDim == 0 {
		return out, nil
	}

	y := out.Matrix()
	if inDim > 0 {
		// [rows, in] @ [in, out] = [rows, out]
		y.Mul(inputs.Matrix(), p.W.Matrix())
	}
	bias := p.B.Data()
	for i := 0; i < rows; i++ {
		floats.Add(y.RawRowView(i), bias)
	}
	return out, nil
}
