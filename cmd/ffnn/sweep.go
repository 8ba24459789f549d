package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/born-ml/ffnn/internal/config"
	"github.com/born-ml/ffnn/internal/nn"
	"github.com/born-ml/ffnn/internal/sweep"
	"github.com/pkg/errors"
)

func runSweep(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML experiment file")
	lrs := fs.String("lrs", "0.001,0.01,0.05,0.1", "Comma-separated learning rates")
	regs := fs.String("regs", "0,0.0001,0.001,0.01", "Comma-separated L2 penalties")
	workers := fs.Int("workers", 0, "Concurrent trainings (0 = one per CPU)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	exp := config.Default()
	if *configPath != "" {
		var err error
		if exp, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	lrValues, err := parseFloats(*lrs)
	if err != nil {
		return err
	}
	regValues, err := parseFloats(*regs)
	if err != nil {
		return err
	}

	ds, err := exp.Dataset.Build(exp.Rand())
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "🔍 ffnn - Hyperparameter Sweep")
	fmt.Fprintln(stdout, strings.Repeat("=", 60))
	fmt.Fprintf(stdout, "Network %v, %d epochs, batch %d, %d cells\n\n",
		exp.Widths, exp.Epochs, exp.BatchSize, len(lrValues)*len(regValues))

	results, err := sweep.Run(ds, sweep.Grid{LearningRates: lrValues, RegParams: regValues}, sweep.Config{
		Network: exp.NetworkConfig(),
		Train:   exp.TrainConfig(),
		Seed:    exp.Seed,
		Workers: *workers,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%10s %10s %12s %12s %8s\n", "lr", "reg", "train_mse", "test_mse", "r2")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stdout, "%10g %10g  error: %v\n", r.LearningRate, r.RegParam, r.Err)
			continue
		}
		fmt.Fprintf(stdout, "%10g %10g %12.6f %12.6f %8s\n", r.LearningRate, r.RegParam, r.TrainMSE, r.TestMSE, formatR2(r.R2))
	}

	best, ok := sweep.Best(results)
	if !ok {
		return errors.New("sweep: no cell produced a finite test MSE")
	}
	fmt.Fprintf(stdout, "\n🎯 Best: lr=%g, reg=%g, test MSE=%.6f\n", best.LearningRate, best.RegParam, best.TestMSE)
	return nil
}

func formatR2(r2 float64) string {
	if math.IsNaN(r2) {
		return "n/a"
	}
	return strconv.FormatFloat(r2, 'f', 4, 64)
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(nn.ErrConfig, "%q: %v", s, err)
		}
		values = append(values, v)
	}
	return values, nil
}
