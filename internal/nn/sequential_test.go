package nn

import (
	"errors"
	"testing"

	"github.com/born-ml/stax/internal/random"
	"github.com/born-ml/stax/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyRecorder is an identity layer that remembers the keys it receives.
type keyRecorder struct {
	initKeys  *[]random.Key
	applyKeys *[]random.Key
}

func newKeyRecorder(initKeys, applyKeys *[]random.Key) *keyRecorder {
	return &keyRecorder{initKeys: initKeys, applyKeys: applyKeys}
}

func (r *keyRecorder) Init(key random.Key, s tensor.Shape) (tensor.Shape, Params, error) {
	*r.initKeys = append(*r.initKeys, key)
	return s, EmptyParams{}, nil
}

func (r *keyRecorder) Apply(_ Params, x *tensor.Array) (*tensor.Array, error) {
	return x, nil
}

func (r *keyRecorder) ApplyStochastic(_ Params, x *tensor.Array, key random.Key) (*tensor.Array, error) {
	*r.applyKeys = append(*r.applyKeys, key)
	return x, nil
}

func mlp() *Serial {
	return NewSerial(NewDense(20), Tanh(), NewDense(1), Logistic())
}

func TestSerial_ShapePropagation(t *testing.T) {
	model := NewSerial(NewDense(20), Elu(), NewDense(1), Elu())

	out, params, err := model.Init(random.NewKey(0), tensor.Shape{tensor.Batch, 41})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{tensor.Batch, 1}, out)

	blobs, ok := params.(SerialParams)
	require.True(t, ok)
	require.Len(t, blobs, 4)

	w1 := blobs[0].(DenseParams)
	w2 := blobs[2].(DenseParams)
	assert.Equal(t, tensor.Shape{41, 20}, w1.W.Shape())
	assert.Equal(t, tensor.Shape{20}, w1.B.Shape())
	assert.Equal(t, tensor.Shape{20, 1}, w2.W.Shape())
	assert.Equal(t, tensor.Shape{1}, w2.B.Shape())
	assert.Equal(t, EmptyParams{}, blobs[1])
	assert.Equal(t, EmptyParams{}, blobs[3])

	assert.Equal(t, []tensor.Shape{{41, 20}, {20}, {20, 1}, {1}}, Shapes(params))
	assert.Equal(t, 41*20+20+20+1, NumParams(params))
}

func TestSerial_InitDeterministic(t *testing.T) {
	model := mlp()
	key := random.NewKey(17)

	out1, p1, err := model.Init(key, tensor.Shape{tensor.Batch, 41})
	require.NoError(t, err)
	out2, p2, err := model.Init(key, tensor.Shape{tensor.Batch, 41})
	require.NoError(t, err)

	assert.Equal(t, out1, out2)
	assert.Equal(t, Ravel(p1), Ravel(p2))
}

func TestSerial_ParamsAlignWithLayers(t *testing.T) {
	model := mlp()
	key := random.NewKey(1)
	_, params, err := model.Init(key, tensor.Shape{tensor.Batch, 6})
	require.NoError(t, err)

	blobs := params.(SerialParams)
	require.Len(t, blobs, model.Len())

	// Each blob drives its own layer in isolation.
	x := randomArray(t, random.NewKey(2), tensor.Shape{5, 6})
	for i := 0; i < model.Len(); i++ {
		y, err := model.Layer(i).Apply(blobs[i], x)
		require.NoError(t, err, "layer %d", i)
		x = y
	}

	composed, err := model.Apply(params, randomArray(t, random.NewKey(2), tensor.Shape{5, 6}))
	require.NoError(t, err)
	assert.Equal(t, x.Data(), composed.Data())
}

func TestSerial_LayersReceiveDistinctKeys(t *testing.T) {
	var initKeys, applyKeys []random.Key
	model := NewSerial(
		newKeyRecorder(&initKeys, &applyKeys),
		newKeyRecorder(&initKeys, &applyKeys),
		newKeyRecorder(&initKeys, &applyKeys),
		newKeyRecorder(&initKeys, &applyKeys),
	)

	root := random.NewKey(99)
	_, params, err := model.Init(root, tensor.Shape{2})
	require.NoError(t, err)
	require.Len(t, initKeys, 4)

	seen := map[random.Key]bool{root: true}
	for _, k := range initKeys {
		assert.False(t, seen[k], "key %v reused", k)
		seen[k] = true
	}

	// The first layer gets the first child of the root key.
	child, _ := root.Split()
	assert.Equal(t, child, initKeys[0])

	x := tensor.Zeros(tensor.Shape{1, 2})
	_, err = model.ApplyStochastic(params, x, root)
	require.NoError(t, err)
	assert.Equal(t, initKeys, applyKeys)
}

func TestSerial_ApplyDeterministicIgnoresKeys(t *testing.T) {
	var initKeys, applyKeys []random.Key
	model := NewSerial(NewDense(2), newKeyRecorder(&initKeys, &applyKeys))

	_, params, err := model.Init(random.NewKey(0), tensor.Shape{tensor.Batch, 3})
	require.NoError(t, err)

	_, err = model.Apply(params, tensor.Zeros(tensor.Shape{1, 3}))
	require.NoError(t, err)
	assert.Empty(t, applyKeys)
}

func TestApplyStochastic_FallsBackToApply(t *testing.T) {
	x := mustArray(t, tensor.Shape{2}, []float64{-1, 1})

	want, err := Relu().Apply(EmptyParams{}, x)
	require.NoError(t, err)
	got, err := ApplyStochastic(Relu(), EmptyParams{}, x, random.NewKey(0))
	require.NoError(t, err)
	assert.Equal(t, want.Data(), got.Data())
}

// TestSerial_EndToEnd runs the 1000 x 41 logistic model.
func TestSerial_EndToEnd(t *testing.T) {
	key := random.NewKey(0)
	initKey, dataKey := key.Split()

	model := mlp()
	out, params, err := model.Init(initKey, tensor.Shape{-1, 41})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{-1, 1}, out)

	x := randomArray(t, dataKey, tensor.Shape{1000, 41})
	y, err := model.Apply(params, x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1000, 1}, y.Shape())
	assert.True(t, out.Matches(y.Shape()))

	for i, v := range y.Data() {
		require.Greater(t, v, 0.0, "row %d", i)
		require.Less(t, v, 1.0, "row %d", i)
	}
}

func TestSerial_InitWildcardTrailing(t *testing.T) {
	_, _, err := mlp().Init(random.NewKey(0), tensor.Shape{tensor.Batch})
	require.Error(t, err)
	assert.ErrorIs(t, err, tensor.ErrShape)

	var ce *CompositionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 0, ce.Index)
	assert.Equal(t, "dense(20)", ce.Layer)
	assert.Equal(t, "init", ce.Op)
}

func TestSerial_ApplyShapeMismatch(t *testing.T) {
	model := mlp()
	_, params, err := model.Init(random.NewKey(0), tensor.Shape{tensor.Batch, 41})
	require.NoError(t, err)

	_, err = model.Apply(params, tensor.Zeros(tensor.Shape{3, 40}))
	require.Error(t, err)

	var ce *CompositionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 0, ce.Index)
	assert.Equal(t, "apply", ce.Op)

	var se *tensor.ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, tensor.Shape{3, 40}, se.Got)
	assert.Equal(t, tensor.Shape{3, 41}, se.Want)
}

func TestSerial_MisorderedParams(t *testing.T) {
	model := mlp()
	_, params, err := model.Init(random.NewKey(0), tensor.Shape{tensor.Batch, 41})
	require.NoError(t, err)
	blobs := params.(SerialParams)

	swapped := SerialParams{blobs[2], blobs[1], blobs[0], blobs[3]}
	_, err = model.Apply(swapped, tensor.Zeros(tensor.Shape{2, 41}))
	assert.ErrorIs(t, err, tensor.ErrShape)

	var ce *CompositionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 0, ce.Index)
}

func TestSerial_ParamCountMismatch(t *testing.T) {
	model := mlp()
	_, params, err := model.Init(random.NewKey(0), tensor.Shape{tensor.Batch, 4})
	require.NoError(t, err)
	blobs := params.(SerialParams)

	_, err = model.Apply(blobs[:3], tensor.Zeros(tensor.Shape{1, 4}))
	assert.ErrorIs(t, err, ErrParams)

	_, err = model.Apply(EmptyParams{}, tensor.Zeros(tensor.Shape{1, 4}))
	assert.ErrorIs(t, err, ErrParams)

	var ce *CompositionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, -1, ce.Index)
}

func TestSerial_Empty(t *testing.T) {
	model := NewSerial()

	out, params, err := model.Init(random.NewKey(0), tensor.Shape{tensor.Batch, 41})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{tensor.Batch, 41}, out)
	assert.Equal(t, SerialParams{}, params)
	assert.Zero(t, NumParams(params))

	x := randomArray(t, random.NewKey(1), tensor.Shape{3, 41})
	y, err := model.Apply(params, x)
	require.NoError(t, err)
	assert.Equal(t, x.Data(), y.Data())

	_, _, err = model.Init(random.NewKey(0), tensor.Shape{2, -5})
	assert.ErrorIs(t, err, tensor.ErrShape)
}

// TestSerial_ExternalParams applies a model without calling Init.
func TestSerial_ExternalParams(t *testing.T) {
	model := NewSerial(NewDense(1), Relu())
	params := SerialParams{
		DenseParams{
			W: mustArray(t, tensor.Shape{2, 1}, []float64{1, -1}),
			B: mustArray(t, tensor.Shape{1}, []float64{0}),
		},
		EmptyParams{},
	}

	x := mustArray(t, tensor.Shape{3, 2}, []float64{
		3, 1,
		1, 3,
		0, 0,
	})
	y, err := model.Apply(params, x)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0, 0}, y.Data())
}

func TestSerial_Nested(t *testing.T) {
	inner := NewSerial(NewDense(8), Tanh())
	model := NewSerial(inner, NewDense(2), inner)

	out, params, err := model.Init(random.NewKey(3), tensor.Shape{tensor.Batch, 5})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{tensor.Batch, 8}, out)
	assert.Equal(t, []tensor.Shape{{5, 8}, {8}, {8, 2}, {2}, {2, 8}, {8}}, Shapes(params))

	y, err := model.Apply(params, tensor.Zeros(tensor.Shape{4, 5}))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{4, 8}, y.Shape())

	// Errors inside the inner serial are reported at both levels.
	_, err = model.Apply(params, tensor.Zeros(tensor.Shape{4, 6}))
	var ce *CompositionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 0, ce.Index)
	var inner2 *CompositionError
	require.ErrorAs(t, ce.Err, &inner2)
	assert.Equal(t, "dense(8)", inner2.Layer)
	assert.True(t, errors.Is(err, tensor.ErrShape))
}

func TestSerial_ImmutableLayerList(t *testing.T) {
	layers := []Layer{NewDense(3), Tanh()}
	model := NewSerial(layers...)
	layers[1] = Relu()

	assert.Equal(t, "tanh", Name(model.Layer(1)))
	assert.Equal(t, "serial[dense(3), tanh]", model.String())
	assert.Panics(t, func() { model.Layer(2) })
}
