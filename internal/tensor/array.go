package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Array is a dense, row-major float64 tensor with a concrete shape.
//
// The leading axes of an Array are sample axes; the trailing axis holds
// features. Arrays are treated as values: operations return new Arrays and
// never modify their receivers.
//
// Example:
//
//	x, err := tensor.FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
//	x.Shape() // (2, 3)
type Array struct {
	shape Shape
	data  []float64
}

// New creates an Array from a shape and a flat row-major slice.
// The slice is copied into the array's memory.
func New(shape Shape, data []float64) (*Array, error) {
	if err := checkConcrete("tensor.new", shape); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, &ShapeError{
			Op:     "tensor.new",
			Got:    shape,
			Detail: fmt.Sprintf("shape requires %d elements, but got %d", shape.NumElements(), len(data)),
		}
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return &Array{shape: shape.Clone(), data: buf}, nil
}

// Zeros creates an Array filled with zeros.
//
// Panics if shape is not concrete; callers validate shapes first.
func Zeros(shape Shape) *Array {
	if err := checkConcrete("tensor.zeros", shape); err != nil {
		panic(err)
	}
	return &Array{shape: shape.Clone(), data: make([]float64, shape.NumElements())}
}

// Full creates an Array filled with value.
func Full(shape Shape, value float64) *Array {
	a := Zeros(shape)
	for i := range a.data {
		a.data[i] = value
	}
	return a
}

// FromRows creates a 2-D Array from a rectangular table.
func FromRows(rows [][]float64) (*Array, error) {
	if len(rows) == 0 {
		return &Array{shape: Shape{0, 0}}, nil
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, &ShapeError{
				Op:     "tensor.rows",
				Detail: fmt.Sprintf("row %d has %d columns, want %d", i, len(row), cols),
			}
		}
		data = append(data, row...)
	}
	return &Array{shape: Shape{len(rows), cols}, data: data}, nil
}

// FromMatrix copies a gonum matrix into a 2-D Array.
func FromMatrix(m mat.Matrix) *Array {
	r, c := m.Dims()
	return &Array{shape: Shape{r, c}, data: mat.DenseCopyOf(m).RawMatrix().Data}
}

// Shape returns a copy of the array's shape.
func (a *Array) Shape() Shape {
	return a.shape.Clone()
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.data)
}

// Data returns the backing row-major slice.
//
// The slice aliases the array; callers must not modify it.
func (a *Array) Data() []float64 {
	return a.data
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	buf := make([]float64, len(a.data))
	copy(buf, a.data)
	return &Array{shape: a.shape.Clone(), data: buf}
}

// At returns the element at the given multi-index.
func (a *Array) At(idx ...int) float64 {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("Array.At: got %d indices for rank %d", len(idx), len(a.shape)))
	}
	strides := a.shape.ComputeStrides()
	off := 0
	for i, v := range idx {
		if v < 0 || v >= a.shape[i] {
			panic(fmt.Sprintf("Array.At: index %d out of range for axis %d of size %d", v, i, a.shape[i]))
		}
		off += v * strides[i]
	}
	return a.data[off]
}

// Reshape returns a copy with a new shape holding the same elements.
func (a *Array) Reshape(shape Shape) (*Array, error) {
	if err := checkConcrete("tensor.reshape", shape); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(a.data) {
		return nil, &ShapeError{Op: "tensor.reshape", Want: a.shape, Got: shape}
	}
	out := a.Clone()
	out.shape = shape.Clone()
	return out, nil
}

// Map applies fn to every element and returns the result.
func (a *Array) Map(fn func(float64) float64) *Array {
	out := make([]float64, len(a.data))
	for i, v := range a.data {
		out[i] = fn(v)
	}
	return &Array{shape: a.shape.Clone(), data: out}
}

// Slice returns a copy of rows [start, end) along the leading axis.
func (a *Array) Slice(start, end int) (*Array, error) {
	if len(a.shape) == 0 || start < 0 || end < start || end > a.shape[0] {
		return nil, &ShapeError{
			Op:     "tensor.slice",
			Got:    a.shape,
			Detail: fmt.Sprintf("rows [%d, %d) out of range", start, end),
		}
	}
	shape := a.shape.Clone()
	shape[0] = end - start
	stride := 1
	for _, dim := range a.shape[1:] {
		stride *= dim
	}
	return New(shape, a.data[start*stride:end*stride])
}

// Rows returns the number of rows the array collapses to when all leading
// axes are flattened into one.
func (a *Array) Rows() int {
	return a.shape.Leading()
}

// Matrix returns a rows x trailing-dim gonum view of the array.
//
// The view shares storage with the array. Returns nil when either dimension
// is zero, since gonum has no empty matrices.
func (a *Array) Matrix() *mat.Dense {
	r, c := a.Rows(), a.shape.Last()
	if len(a.shape) == 0 {
		r, c = 1, 1
	}
	if r == 0 || c == 0 {
		return nil
	}
	return mat.NewDense(r, c, a.data)
}

// AllClose reports whether both arrays have the same shape and all elements
// agree within tol.
func (a *Array) AllClose(b *Array, tol float64) bool {
	if !a.shape.Equal(b.shape) {
		return false
	}
	return floats.EqualApprox(a.data, b.data, tol)
}

// String implements fmt.Stringer.
func (a *Array) String() string {
	return fmt.Sprintf("Array%v", a.shape)
}

func checkConcrete(op string, shape Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	if !shape.IsConcrete() {
		return &ShapeError{Op: op, Got: shape, Detail: "shape contains the batch wildcard"}
	}
	return nil
}
