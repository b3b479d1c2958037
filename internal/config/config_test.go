package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/born-ml/stax/internal/nn"
	"github.com/born-ml/stax/internal/optim"
	"github.com/born-ml/stax/internal/random"
	"github.com/born-ml/stax/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runFile = `
seed: 7
input_dim: 3
layers: ["dense:4", "relu", "dense:1", "sigmoid"]
data:
  path: train.csv
  target: y
  header: true
train:
  steps: 25
  learning_rate: 0.5
  momentum: 0.9
  loss: bce
  batch_size: 16
  log_every: 5
`

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(runFile))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 3, cfg.InputDim)
	assert.Equal(t, []string{"dense:4", "relu", "dense:1", "sigmoid"}, cfg.Layers)
	assert.Equal(t, Data{Path: "train.csv", Target: "y", Header: true}, cfg.Data)
	assert.Equal(t, 25, cfg.Train.Steps)
	assert.InDelta(t, 0.9, cfg.Train.Momentum, 1e-12)
	assert.Equal(t, 16, cfg.Train.BatchSize)
	assert.Equal(t, "sgd", cfg.Train.Optimizer, "unset keys keep defaults")
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse(strings.NewReader("input_dims: 3\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(runFile), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.InputDim)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layers: [\"conv:3\"]\n"), 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, nn.ErrUnknownLayer)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"input dim", func(c *Config) { c.InputDim = 0 }, "input_dim"},
		{"bad layer", func(c *Config) { c.Layers = []string{"dense:x"} }, "layers"},
		{"steps", func(c *Config) { c.Train.Steps = 0 }, "train.steps"},
		{"learning rate", func(c *Config) { c.Train.LearningRate = -1 }, "train.learning_rate"},
		{"momentum", func(c *Config) { c.Train.Momentum = 1 }, "train.momentum"},
		{"batch size", func(c *Config) { c.Train.BatchSize = -2 }, "train.batch_size"},
		{"loss", func(c *Config) { c.Train.Loss = "hinge" }, "train.loss"},
		{"optimizer", func(c *Config) { c.Train.Optimizer = "lbfgs" }, "train.optimizer"},
		{"max rows", func(c *Config) { c.Data.MaxRows = -1 }, "data.max_rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestValidate_DefaultsLogEvery(t *testing.T) {
	cfg := Default()
	cfg.Train.LogEvery = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Train.LogEvery)
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	cfg.ApplyOverrides(Overrides{Steps: 3, Seed: 9, DataPath: "other.csv"})

	assert.Equal(t, 3, cfg.Train.Steps)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.Equal(t, "other.csv", cfg.Data.Path)
	assert.InDelta(t, 0.1, cfg.Train.LearningRate, 1e-12, "zero override leaves value")

	cfg.ApplyOverrides(Overrides{LearningRate: 0.02, LogEvery: 1})
	assert.InDelta(t, 0.02, cfg.Train.LearningRate, 1e-12)
	assert.Equal(t, 1, cfg.Train.LogEvery)
}

func TestModel(t *testing.T) {
	cfg := Default()
	model, err := cfg.Model()
	require.NoError(t, err)
	assert.Equal(t, 4, model.Len())

	outShape, _, err := model.Init(random.NewKey(cfg.Seed), cfg.InputShape())
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{tensor.Batch, 1}, outShape)
}

func TestOptimizer(t *testing.T) {
	cfg := Default()
	opt, err := cfg.Optimizer()
	require.NoError(t, err)
	assert.IsType(t, &optim.SGD{}, opt)
	assert.InDelta(t, 0.1, opt.LR(), 1e-12)

	cfg.Train.Optimizer = "Adam"
	opt, err = cfg.Optimizer()
	require.NoError(t, err)
	assert.IsType(t, &optim.Adam{}, opt)
}

func TestLoss(t *testing.T) {
	cfg := Default()
	loss, err := cfg.Loss()
	require.NoError(t, err)

	p, err := tensor.New(tensor.Shape{1, 1}, []float64{0.5})
	require.NoError(t, err)
	got, err := loss(p, p)
	require.NoError(t, err)
	assert.Greater(t, got, 0.0)
}
