// Package train fits the parameters of a layer against a table.
package train

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/born-ml/stax/internal/dataset"
	"github.com/born-ml/stax/internal/grad"
	"github.com/born-ml/stax/internal/nn"
	"github.com/born-ml/stax/internal/optim"
	"github.com/born-ml/stax/internal/random"
	"github.com/born-ml/stax/internal/tensor"
)

// Config captures the knobs required by the training loop.
type Config struct {
	Model     nn.Layer
	Params    nn.Params // Initial parameters, usually from Model.Init
	X         *tensor.Array
	Y         *tensor.Array
	Loss      nn.Loss
	Optimizer optim.Optimizer
	Steps     int
	BatchSize int // 0 = full batch
	LogEvery  int // 0 = 50
	Grad      grad.Settings
	Key       random.Key  // Folded with the step number for stochastic layers
	Logger    *log.Logger // nil = log.Default()
}

// Result holds the trained parameters and the per-step training loss.
type Result struct {
	Params nn.Params
	Losses []float64
}

// FinalLoss returns the loss of the last completed step, or NaN if none ran.
func (r *Result) FinalLoss() float64 {
	if len(r.Losses) == 0 {
		return nan
	}
	return r.Losses[len(r.Losses)-1]
}

// Run executes Steps optimization steps, cycling over the batches of X and Y.
//
// If ctx is cancelled, Run returns the parameters reached so far together
// with ctx.Err().
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 50
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	batches, err := dataset.Batches(cfg.X, cfg.Y, cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	res := &Result{Params: cfg.Params, Losses: make([]float64, 0, cfg.Steps)}
	var window Window

	for step := 1; step <= cfg.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		batch := batches[(step-1)%len(batches)]
		stepKey := cfg.Key.FoldIn(uint64(step))
		objective := func(p nn.Params) (float64, error) {
			preds, err := nn.ApplyStochastic(cfg.Model, p, batch.X, stepKey)
			if err != nil {
				return 0, err
			}
			return cfg.Loss(preds, batch.Y)
		}

		start := time.Now()
		loss, grads, err := grad.Value(objective, res.Params, cfg.Grad)
		if err != nil {
			return res, fmt.Errorf("train: step %d: %w", step, err)
		}
		next, err := cfg.Optimizer.Step(res.Params, grads)
		if err != nil {
			return res, fmt.Errorf("train: step %d: %w", step, err)
		}
		res.Params = next
		res.Losses = append(res.Losses, loss)

		window.Record(batch.X.Rows(), time.Since(start), loss)
		if step%cfg.LogEvery == 0 || step == cfg.Steps {
			snap := window.Snapshot()
			logger.Printf("step=%d loss=%.6f avg_loss=%.6f samples_per_sec=%.1f step_ms=%.2f",
				step,
				snap.LastLoss,
				snap.AvgLoss,
				snap.SamplesPerSec,
				snap.AvgStepMS,
			)
		}
	}

	return res, nil
}

// Evaluate applies model deterministically to x and returns the loss
// against y together with the predictions.
func Evaluate(model nn.Layer, params nn.Params, x, y *tensor.Array, loss nn.Loss) (float64, *tensor.Array, error) {
	preds, err := model.Apply(params, x)
	if err != nil {
		return 0, nil, err
	}
	l, err := loss(preds, y)
	if err != nil {
		return 0, nil, err
	}
	return l, preds, nil
}

// Accuracy returns the fraction of predictions that land on the same side of
// threshold as their targets. Targets are treated as 0/1 labels.
func Accuracy(preds, targets *tensor.Array, threshold float64) (float64, error) {
	if !preds.Shape().Equal(targets.Shape()) {
		return 0, &tensor.ShapeError{Op: "train.accuracy", Want: targets.Shape(), Got: preds.Shape()}
	}
	if preds.Len() == 0 {
		return 0, &tensor.ShapeError{Op: "train.accuracy", Got: preds.Shape(), Detail: "empty batch"}
	}

	p, t := preds.Data(), targets.Data()
	correct := 0
	for i := range p {
		if (p[i] >= threshold) == (t[i] >= 0.5) {
			correct++
		}
	}
	return float64(correct) / float64(len(p)), nil
}

func (c *Config) validate() error {
	switch {
	case c.Model == nil:
		return errors.New("train: model is nil")
	case c.Params == nil:
		return errors.New("train: params are nil")
	case c.X == nil || c.Y == nil:
		return errors.New("train: data is nil")
	case c.Loss == nil:
		return errors.New("train: loss is nil")
	case c.Optimizer == nil:
		return errors.New("train: optimizer is nil")
	case c.Steps <= 0:
		return fmt.Errorf("train: steps must be > 0 (got %d)", c.Steps)
	case c.BatchSize < 0:
		return fmt.Errorf("train: batch size must be >= 0 (got %d)", c.BatchSize)
	}
	return nil
}
