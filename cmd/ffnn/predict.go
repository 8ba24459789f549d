package main

import (
	"flag"
	"io"
	"os"

	"github.com/born-ml/ffnn/internal/data"
	"github.com/born-ml/ffnn/internal/nn"
	"github.com/pkg/errors"
)

func runPredict(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	fs.SetOutput(stderr)
	modelPath := fs.String("model", "", "Saved .ffnn model")
	inputPath := fs.String("input", "", "CSV of inputs, one row per sample (default: stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *modelPath == "" {
		return errors.New("predict: -model is required")
	}

	net, _, err := nn.Load(*modelPath)
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if *inputPath != "" {
		//nolint:gosec // G304: input path comes from the command line
		f, err := os.Open(*inputPath)
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer f.Close()
		in = f
	}
	x, err := data.LoadFeaturesCSV(in)
	if err != nil {
		return err
	}

	pred, err := net.Predict(x)
	if err != nil {
		return err
	}
	return data.WritePredictionsCSV(stdout, pred)
}
