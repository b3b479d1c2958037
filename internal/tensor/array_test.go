package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNew(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	a, err := New(Shape{2, 3}, data)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3}, a.Shape())
	assert.Equal(t, 6, a.Len())

	data[0] = 100
	assert.Equal(t, 1.0, a.At(0, 0), "New must copy its input")
	assert.Equal(t, 6.0, a.At(1, 2))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Shape{2, 3}, make([]float64, 5))
	assert.ErrorIs(t, err, ErrShape)

	_, err = New(Shape{Batch, 3}, make([]float64, 3))
	assert.ErrorIs(t, err, ErrShape)

	assert.Panics(t, func() { Zeros(Shape{Batch, 2}) })
}

func TestFromRows(t *testing.T) {
	a, err := FromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, a.Shape())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, a.Data())

	_, err = FromRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrShape)

	empty, err := FromRows(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestArray_Matrix(t *testing.T) {
	a, err := New(Shape{2, 2, 3}, []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
		10, 11, 12,
	})
	require.NoError(t, err)

	m := a.Matrix()
	r, c := m.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 8.0, m.At(2, 1))

	assert.Nil(t, Zeros(Shape{0, 3}).Matrix())
}

func TestFromMatrix(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	a := FromMatrix(m.T())
	assert.Equal(t, Shape{2, 2}, a.Shape())
	assert.Equal(t, []float64{1, 3, 2, 4}, a.Data())
}

func TestArray_Reshape(t *testing.T) {
	a := Full(Shape{2, 3}, 1.5)
	b, err := a.Reshape(Shape{3, 2})
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, b.Shape())
	assert.Equal(t, a.Data(), b.Data())

	_, err = a.Reshape(Shape{4, 2})
	assert.ErrorIs(t, err, ErrShape)
}

func TestArray_MapAndClone(t *testing.T) {
	a, err := New(Shape{3}, []float64{1, -2, 3})
	require.NoError(t, err)

	b := a.Map(func(v float64) float64 { return v * 2 })
	assert.Equal(t, []float64{2, -4, 6}, b.Data())
	assert.Equal(t, []float64{1, -2, 3}, a.Data())

	c := a.Clone()
	c.Data()[0] = 9
	assert.Equal(t, 1.0, a.Data()[0])
}

func TestArray_AllClose(t *testing.T) {
	a := Full(Shape{2}, 1)
	b := Full(Shape{2}, 1+1e-10)
	assert.True(t, a.AllClose(b, 1e-8))
	assert.False(t, a.AllClose(Full(Shape{2}, 2), 1e-8))
	assert.False(t, a.AllClose(Full(Shape{1, 2}, 1), 1e-8))
}

func TestArray_AtPanics(t *testing.T) {
	a := Zeros(Shape{2, 2})
	assert.Panics(t, func() { a.At(0) })
	assert.Panics(t, func() { a.At(2, 0) })
}
