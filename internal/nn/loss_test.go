package nn

import (
	"math"
	"testing"

	"github.com/born-ml/stax/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMSE(t *testing.T) {
	p := mustArray(t, tensor.Shape{2, 2}, []float64{1, 2, 3, 4})
	y := mustArray(t, tensor.Shape{2, 2}, []float64{1, 0, 3, 8})

	loss, err := MSE(p, y)
	require.NoError(t, err)
	assert.InDelta(t, (4.0+16.0)/4, loss, 1e-12)
}

func TestBinaryCrossEntropy(t *testing.T) {
	p := mustArray(t, tensor.Shape{2, 1}, []float64{0.9, 0.2})
	y := mustArray(t, tensor.Shape{2, 1}, []float64{1, 0})

	loss, err := BinaryCrossEntropy(p, y)
	require.NoError(t, err)
	want := -(math.Log(0.9) + math.Log(0.8)) / 2
	assert.InDelta(t, want, loss, 1e-12)
}

func TestBinaryCrossEntropy_Saturated(t *testing.T) {
	p := mustArray(t, tensor.Shape{2}, []float64{0, 1})
	y := mustArray(t, tensor.Shape{2}, []float64{1, 0})

	loss, err := BinaryCrossEntropy(p, y)
	require.NoError(t, err)
	assert.False(t, math.IsInf(loss, 0))
	assert.Greater(t, loss, 10.0)
}

func TestLoss_ShapeErrors(t *testing.T) {
	a := tensor.Zeros(tensor.Shape{2, 1})
	b := tensor.Zeros(tensor.Shape{1, 2})

	_, err := MSE(a, b)
	assert.ErrorIs(t, err, tensor.ErrShape)

	empty := tensor.Zeros(tensor.Shape{0, 1})
	_, err = BinaryCrossEntropy(empty, empty)
	assert.ErrorIs(t, err, tensor.ErrShape)
}

func TestLossByName(t *testing.T) {
	for _, name := range []string{"mse", "MSE", "bce", "binary_cross_entropy"} {
		loss, err := LossByName(name)
		require.NoError(t, err, name)
		assert.NotNil(t, loss)
	}
	_, err := LossByName("hinge")
	assert.Error(t, err)
}
