// Package config loads run files for the stax command.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/stax/internal/nn"
	"github.com/born-ml/stax/internal/optim"
	"github.com/born-ml/stax/internal/tensor"
)

// Config captures a model declaration and the knobs for a training run.
type Config struct {
	Seed     uint64   `yaml:"seed"`
	InputDim int      `yaml:"input_dim"`
	Layers   []string `yaml:"layers"`
	Data     Data     `yaml:"data"`
	Train    Train    `yaml:"train"`
}

// Data describes where the training table lives.
type Data struct {
	Path    string `yaml:"path"`
	Target  string `yaml:"target"`
	Header  bool   `yaml:"header"`
	MaxRows int    `yaml:"max_rows"`
}

// Train holds optimization settings.
type Train struct {
	Steps        int     `yaml:"steps"`
	LearningRate float64 `yaml:"learning_rate"`
	Momentum     float64 `yaml:"momentum"`
	Optimizer    string  `yaml:"optimizer"`
	Loss         string  `yaml:"loss"`
	BatchSize    int     `yaml:"batch_size"`
	LogEvery     int     `yaml:"log_every"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	Steps        int
	LearningRate float64
	Seed         uint64
	DataPath     string
	LogEvery     int
}

// Default returns the logistic regression head used by the demo: a 41-feature
// table feeding Dense(20) -> Tanh -> Dense(1) -> Logistic.
func Default() *Config {
	return &Config{
		InputDim: 41,
		Layers:   []string{"dense:20", "tanh", "dense:1", "logistic"},
		Data: Data{
			Target: "label",
			Header: true,
		},
		Train: Train{
			Steps:        100,
			LearningRate: 0.1,
			Optimizer:    "sgd",
			Loss:         "bce",
			LogEvery:     10,
		},
	}
}

// Load reads and validates a Config from YAML.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes YAML on top of Default. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Steps > 0 {
		c.Train.Steps = o.Steps
	}
	if o.LearningRate > 0 {
		c.Train.LearningRate = o.LearningRate
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.DataPath != "" {
		c.Data.Path = o.DataPath
	}
	if o.LogEvery > 0 {
		c.Train.LogEvery = o.LogEvery
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.InputDim <= 0 {
		return fmt.Errorf("input_dim must be > 0 (got %d)", c.InputDim)
	}
	if _, err := nn.BuildSerial(c.Layers); err != nil {
		return fmt.Errorf("layers: %w", err)
	}
	if c.Train.Steps <= 0 {
		return fmt.Errorf("train.steps must be > 0 (got %d)", c.Train.Steps)
	}
	if c.Train.LearningRate <= 0 {
		return fmt.Errorf("train.learning_rate must be > 0 (got %g)", c.Train.LearningRate)
	}
	if c.Train.Momentum < 0 || c.Train.Momentum >= 1 {
		return fmt.Errorf("train.momentum must be in [0, 1) (got %g)", c.Train.Momentum)
	}
	if c.Train.BatchSize < 0 {
		return fmt.Errorf("train.batch_size must be >= 0 (got %d)", c.Train.BatchSize)
	}
	if _, err := nn.LossByName(c.Train.Loss); err != nil {
		return fmt.Errorf("train.loss: %w", err)
	}
	if _, err := c.Optimizer(); err != nil {
		return err
	}
	if c.Data.MaxRows < 0 {
		return fmt.Errorf("data.max_rows must be >= 0 (got %d)", c.Data.MaxRows)
	}
	if c.Train.LogEvery <= 0 {
		c.Train.LogEvery = 10
	}
	return nil
}

// InputShape is the model input shape: a wildcard batch axis followed by
// input_dim features.
func (c *Config) InputShape() tensor.Shape {
	return tensor.Shape{tensor.Batch, c.InputDim}
}

// Model builds the declared layer stack.
func (c *Config) Model() (*nn.Serial, error) {
	return nn.BuildSerial(c.Layers)
}

// Loss resolves the configured loss function.
func (c *Config) Loss() (nn.Loss, error) {
	return nn.LossByName(c.Train.Loss)
}

// Optimizer constructs a fresh optimizer from the train section.
func (c *Config) Optimizer() (optim.Optimizer, error) {
	switch strings.ToLower(c.Train.Optimizer) {
	case "", "sgd":
		return optim.NewSGD(optim.SGDConfig{LR: c.Train.LearningRate, Momentum: c.Train.Momentum}), nil
	case "adam":
		return optim.NewAdam(optim.AdamConfig{LR: c.Train.LearningRate}), nil
	default:
		return nil, fmt.Errorf("train.optimizer: unknown optimizer %q", c.Train.Optimizer)
	}
}
