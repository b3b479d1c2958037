// Package main provides the stax CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/born-ml/stax/internal/config"
	"github.com/born-ml/stax/internal/dataset"
	"github.com/born-ml/stax/internal/nn"
	"github.com/born-ml/stax/internal/random"
	"github.com/born-ml/stax/internal/tensor"
	"github.com/born-ml/stax/internal/train"
)

const version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("stax: %v", err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(out, "stax %s\n", version)
		return nil
	case "shapes":
		return shapesCmd(args[1:], out)
	case "train":
		return trainCmd(ctx, args[1:], out)
	case "help", "-h", "--help":
		usage(out)
		return nil
	default:
		usage(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "stax - composable layers with shape inference")
	fmt.Fprintf(out, "Version: %s\n\n", version)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  version    Show version")
	fmt.Fprintln(out, "  shapes     Initialize a model and print per-layer shapes")
	fmt.Fprintln(out, "  train      Fit a model to a CSV table")
}

func shapesCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("shapes", flag.ContinueOnError)
	fs.SetOutput(out)
	cfgPath := fs.String("config", "configs/demo.yaml", "Path to YAML config")
	seed := fs.Uint64("seed", 0, "Override the PRNG seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath, config.Overrides{Seed: *seed})
	if err != nil {
		return err
	}
	model, err := cfg.Model()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tlayer\toutput\tparams")
	fmt.Fprintf(tw, "-\tinput\t%v\t\n", cfg.InputShape())

	// Same fold as Serial.Init, so the printed params are the model's.
	key, shape, total := random.NewKey(cfg.Seed), cfg.InputShape(), 0
	for i := 0; i < model.Len(); i++ {
		layer := model.Layer(i)
		var child random.Key
		child, key = key.Split()

		var params nn.Params
		shape, params, err = layer.Init(child, shape)
		if err != nil {
			return &nn.CompositionError{Index: i, Layer: nn.Name(layer), Op: "init", Err: err}
		}
		total += nn.NumParams(params)
		fmt.Fprintf(tw, "%d\t%s\t%v\t%v\n", i, nn.Name(layer), shape, nn.Shapes(params))
	}
	fmt.Fprintf(tw, "\ttotal\t\t%d\n", total)
	return tw.Flush()
}

func trainCmd(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(out)
	cfgPath := fs.String("config", "configs/demo.yaml", "Path to YAML config")
	steps := fs.Int("steps", 0, "Number of training steps")
	lr := fs.Float64("lr", 0, "Learning rate")
	seed := fs.Uint64("seed", 0, "PRNG seed")
	dataPath := fs.String("data", "", "Override the CSV path")
	logEvery := fs.Int("log-every", 0, "Log every N steps")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath, config.Overrides{
		Steps:        *steps,
		LearningRate: *lr,
		Seed:         *seed,
		DataPath:     *dataPath,
		LogEvery:     *logEvery,
	})
	if err != nil {
		return err
	}
	if cfg.Data.Path == "" {
		return errors.New("no data path: set data.path or pass -data")
	}

	table, err := dataset.LoadCSV(cfg.Data.Path, dataset.Options{Header: cfg.Data.Header, MaxRows: cfg.Data.MaxRows})
	if err != nil {
		return err
	}
	x, y, err := table.Split(cfg.Data.Target)
	if err != nil {
		return err
	}
	log.Printf("data=%s rows=%d features=%d", cfg.Data.Path, table.NumRows(), x.Shape().Last())

	model, err := cfg.Model()
	if err != nil {
		return err
	}
	initKey, trainKey := random.NewKey(cfg.Seed).Split()
	outShape, params, err := model.Init(initKey, cfg.InputShape())
	if err != nil {
		return err
	}
	if !outShape.Matches(y.Shape()) {
		return &tensor.ShapeError{Op: "train", Want: outShape, Got: y.Shape(), Detail: "model output does not match targets"}
	}
	log.Printf("model=%s params=%d", model, nn.NumParams(params))

	loss, err := cfg.Loss()
	if err != nil {
		return err
	}
	opt, err := cfg.Optimizer()
	if err != nil {
		return err
	}

	res, err := train.Run(ctx, train.Config{
		Model:     model,
		Params:    params,
		X:         x,
		Y:         y,
		Loss:      loss,
		Optimizer: opt,
		Steps:     cfg.Train.Steps,
		BatchSize: cfg.Train.BatchSize,
		LogEvery:  cfg.Train.LogEvery,
		Key:       trainKey,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("training failed: %w", err)
	}
	if res == nil {
		return err
	}

	finalLoss, preds, evalErr := train.Evaluate(model, res.Params, x, y, loss)
	if evalErr != nil {
		return evalErr
	}
	fmt.Fprintf(out, "steps=%d loss=%.6f\n", len(res.Losses), finalLoss)
	if acc, accErr := train.Accuracy(preds, y, 0.5); accErr == nil {
		fmt.Fprintf(out, "accuracy=%.4f\n", acc)
	}
	return err
}

func loadConfig(path string, o config.Overrides) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyOverrides(o)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
