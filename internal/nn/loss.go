package nn

import (
	"fmt"
	"math"
	"strings"

	"github.com/born-ml/stax/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// bceEpsilon keeps log() away from 0 and 1.
const bceEpsilon = 1e-7

// Loss reduces predictions and targets of the same shape to a scalar.
type Loss func(predictions, targets *tensor.Array) (float64, error)

// MSE computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
func MSE(predictions, targets *tensor.Array) (float64, error) {
	if err := checkLossShapes("mse", predictions, targets); err != nil {
		return 0, err
	}
	diff := make([]float64, predictions.Len())
	floats.SubTo(diff, predictions.Data(), targets.Data())
	return floats.Dot(diff, diff) / float64(len(diff)), nil
}

// BinaryCrossEntropy computes the mean binary cross-entropy of probabilities.
//
// Loss = -mean(t·log(p) + (1-t)·log(1-p))
//
// Predictions are clipped to [ε, 1-ε], so saturated outputs give a large but
// finite loss.
func BinaryCrossEntropy(predictions, targets *tensor.Array) (float64, error) {
	if err := checkLossShapes("bce", predictions, targets); err != nil {
		return 0, err
	}
	p, t := predictions.Data(), targets.Data()
	terms := make([]float64, len(p))
	for i := range p {
		q := math.Min(math.Max(p[i], bceEpsilon), 1-bceEpsilon)
		terms[i] = t[i]*math.Log(q) + (1-t[i])*math.Log1p(-q)
	}
	return -floats.Sum(terms) / float64(len(terms)), nil
}

// LossByName returns the loss registered under name ("mse" or "bce").
func LossByName(name string) (Loss, error) {
	switch strings.ToLower(name) {
	case "mse":
		return MSE, nil
	case "bce", "binary_cross_entropy":
		return BinaryCrossEntropy, nil
	default:
		return nil, fmt.Errorf("unknown loss %q", name)
	}
}

func checkLossShapes(op string, predictions, targets *tensor.Array) error {
	if !predictions.Shape().Equal(targets.Shape()) {
		return &tensor.ShapeError{Op: op, Want: predictions.Shape(), Got: targets.Shape()}
	}
	if predictions.Len() == 0 {
		return &tensor.ShapeError{Op: op, Got: predictions.Shape(), Detail: "empty batch"}
	}
	return nil
}
