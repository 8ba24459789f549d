package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/ffnn/internal/config"
	"github.com/born-ml/ffnn/internal/data"
	"github.com/born-ml/ffnn/internal/nn"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

func runTrain(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML experiment file (flags below override it)")
	widths := fs.String("widths", "", "Comma-separated layer widths, e.g. 2,32,16,1")
	reg := fs.Float64("reg", 0, "L2 penalty coefficient")
	lr := fs.Float64("lr", 0, "Learning rate")
	epochs := fs.Int("epochs", 0, "Number of training epochs")
	batch := fs.Int("batch", 0, "Mini-batch size")
	seed := fs.Uint64("seed", 0, "Random seed")
	activation := fs.String("activation", "", "Hidden activation: "+strings.Join(nn.ActivationNames(), ", "))
	initName := fs.String("init", "", "Hidden weight init: "+strings.Join(nn.InitializerNames(), ", "))
	freeze := fs.Bool("freeze-output", false, "Keep the output layer at its initial weights")
	dataset := fs.String("dataset", "", "Dataset: franke, xor or a CSV path (last column is the target)")
	samples := fs.Int("samples", 0, "Franke samples")
	noise := fs.Float64("noise", 0, "Franke noise standard deviation")
	testSize := fs.Float64("test-size", 0, "Fraction of samples held out for testing")
	out := fs.String("out", "", "Write the trained model to this .ffnn file")
	historyPath := fs.String("history", "", "Write per-epoch MSE to this CSV file")
	verbose := fs.Bool("v", false, "Log every epoch")
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

	// Only flags given on the command line override the experiment.
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "widths":
			exp.Widths, flagErr = parseWidths(*widths)
		case "reg":
			exp.RegParam = *reg
		case "lr":
			exp.LearningRate = *lr
		case "epochs":
			exp.Epochs = *epochs
		case "batch":
			exp.BatchSize = *batch
		case "seed":
			exp.Seed = *seed
		case "activation":
			exp.HiddenActivation = *activation
		case "init":
			exp.HiddenInit = *initName
		case "freeze-output":
			exp.FreezeOutput = *freeze
		case "dataset":
			switch *dataset {
			case config.DatasetFranke, config.DatasetXOR:
				exp.Dataset.Kind = *dataset
			default:
				exp.Dataset.Kind = config.DatasetCSV
				exp.Dataset.Path = *dataset
			}
		case "samples":
			exp.Dataset.Samples = *samples
		case "noise":
			exp.Dataset.Noise = *noise
		case "test-size":
			exp.Dataset.TestSize = *testSize
		}
	})
	if flagErr != nil {
		return flagErr
	}
	if err := exp.Validate(); err != nil {
		return err
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(stderr, "ffnn: ", log.LstdFlags)
		if raw, err := exp.Marshal(); err == nil {
			logger.Printf("experiment:\n%s", raw)
		}
	}

	fmt.Fprintln(stdout, "🚀 ffnn - Feed-Forward Network Training")
	fmt.Fprintln(stdout, strings.Repeat("=", 60))

	rng := exp.Rand()
	net, err := nn.New(exp.NetworkConfig(), rng)
	if err != nil {
		return err
	}
	ds, err := exp.Dataset.Build(rng)
	if err != nil {
		return err
	}

	trainMean, trainStd := stat.MeanStdDev(ds.YTrain.RawVector().Data, nil)
	fmt.Fprintf(stdout, "\n📊 Dataset: %s\n", exp.Dataset.Kind)
	fmt.Fprintf(stdout, "   Train: %d samples, Test: %d samples\n", ds.YTrain.Len(), ds.YTest.Len())
	fmt.Fprintf(stdout, "   Train target: mean=%.4f, std=%.4f\n", trainMean, trainStd)

	fmt.Fprintf(stdout, "\n🧠 Network %v (%d parameters)\n", net.Widths(), net.NumParameters())
	for i, l := range net.Layers() {
		nIn, nOut := l.Shape()
		fmt.Fprintf(stdout, "   %d: %-6s %d->%d  %s/%s\n", i, l.Kind(), nIn, nOut, l.ActivationName(), l.InitializerName())
	}

	fmt.Fprintf(stdout, "\n⚙️  Training Configuration:\n")
	fmt.Fprintf(stdout, "   SGD: lr=%g, reg=%g, freeze_output=%t\n", exp.LearningRate, exp.RegParam, exp.FreezeOutput)
	fmt.Fprintf(stdout, "   Batch Size: %d\n", exp.BatchSize)
	fmt.Fprintf(stdout, "   Epochs: %d\n", exp.Epochs)

	fmt.Fprintln(stdout, "\n🎓 Starting training...")
	every := max(1, exp.Epochs/10)
	cfg := exp.TrainConfig()
	cfg.OnEpoch = func(epoch int, trainMSE, testMSE float64) {
		logger.Printf("epoch %d: train_mse=%g test_mse=%g", epoch, trainMSE, testMSE)
		if epoch%every == 0 || epoch == exp.Epochs {
			fmt.Fprintf(stdout, "Epoch %4d/%d: Train MSE=%.6f, Test MSE=%.6f\n", epoch, exp.Epochs, trainMSE, testMSE)
		}
	}
	hist, err := net.Train(ds, cfg, rng)
	if err != nil {
		return err
	}

	pred, err := net.Predict(ds.XTest)
	if err != nil {
		return err
	}
	testMSE, _ := hist.Last(nn.TestMSE)
	r2, err := nn.R2(pred, ds.YTest)
	switch {
	case errors.Is(err, nn.ErrConstantTarget):
		r2 = math.NaN()
	case err != nil:
		return err
	}
	fmt.Fprintln(stdout, "✅ Training complete!")
	fmt.Fprintf(stdout, "\n🎯 Test MSE: %.6f, R2: %s\n", testMSE, formatR2(r2))

	if *historyPath != "" {
		if err := writeHistory(*historyPath, hist); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "   History written to %s\n", *historyPath)
	}
	if *out != "" {
		meta := map[string]string{
			"dataset":    exp.Dataset.Kind,
			"seed":       strconv.FormatUint(exp.Seed, 10),
			"batch_size": strconv.Itoa(exp.BatchSize),
		}
		if exp.Dataset.Path != "" {
			meta["dataset_path"] = exp.Dataset.Path
		}
		if err := net.SaveWithMetadata(*out, hist, meta); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "💾 Model saved to %s\n", *out)
	}
	return nil
}

func parseWidths(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	widths := make([]int, 0, len(parts))
	for _, p := range parts {
		w, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrapf(nn.ErrConfig, "widths %q: %v", s, err)
		}
		widths = append(widths, w)
	}
	return widths, nil
}

func writeHistory(path string, hist nn.History) error {
	//nolint:gosec // G304: output path comes from the command line
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create history file")
	}
	if err := data.WriteHistoryCSV(f, hist); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close history file")
}
