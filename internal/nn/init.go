package nn

import (
	"math"

	"github.com/born-ml/stax/internal/random"
	"github.com/born-ml/stax/internal/tensor"
	"gonum.org/v1/gonum/stat/distuv"
)

// Initializer draws a freshly initialized array of the given concrete shape.
//
// Initializers are pure: the same key and shape always produce the same array.
type Initializer func(key random.Key, shape tensor.Shape) *tensor.Array

// GlorotNormal (Xavier) initialization for weights.
//
// Draws from N(0, 2/(fan_in + fan_out)), where fan_in is the leading and
// fan_out the trailing dimension of shape.
func GlorotNormal() Initializer {
	return func(key random.Key, shape tensor.Shape) *tensor.Array {
		fanIn, fanOut := fans(shape)
		if fanIn+fanOut == 0 {
			return tensor.Zeros(shape)
		}
		return sample(shape, distuv.Normal{
			Mu:    0,
			Sigma: math.Sqrt(2.0 / float64(fanIn+fanOut)),
			Src:   key.Source(),
		})
	}
}

// GlorotUniform (Xavier) initialization for weights.
//
// Draws from U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))).
func GlorotUniform() Initializer {
	return func(key random.Key, shape tensor.Shape) *tensor.Array {
		fanIn, fanOut := fans(shape)
		if fanIn+fanOut == 0 {
			return tensor.Zeros(shape)
		}
		bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
		return sample(shape, distuv.Uniform{Min: -bound, Max: bound, Src: key.Source()})
	}
}

// Normal draws from N(0, stddev²).
//
// The default Dense bias initializer is Normal(1e-2).
func Normal(stddev float64) Initializer {
	return func(key random.Key, shape tensor.Shape) *tensor.Array {
		if stddev == 0 {
			return tensor.Zeros(shape)
		}
		return sample(shape, distuv.Normal{Mu: 0, Sigma: stddev, Src: key.Source()})
	}
}

// Zeros ignores the key and returns an all-zero array.
func Zeros() Initializer {
	return func(_ random.Key, shape tensor.Shape) *tensor.Array {
		return tensor.Zeros(shape)
	}
}

type sampler interface {
	Rand() float64
}

func sample(shape tensor.Shape, dist sampler) *tensor.Array {
	data := make([]float64, shape.NumElements())
	for i := range data {
		data[i] = dist.Rand()
	}
	a, err := tensor.New(shape, data)
	if err != nil {
		panic(err)
	}
	return a
}

func fans(shape tensor.Shape) (fanIn, fanOut int) {
	switch len(shape) {
	case 0:
		return 1, 1
	case 1:
		return shape[0], shape[0]
	default:
		return shape.Leading(), shape.Last()
	}
}
