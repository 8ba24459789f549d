// Package config loads training experiments from YAML.
//
// An experiment names the network shape, the optimizer hyperparameters, the
// training schedule and the dataset to fit. Fields left out of the file keep
// the values from Default.
//
// Example file:
//
//	widths: [2, 32, 16, 1]
//	reg_param: 0.0001
//	learning_rate: 0.05
//	epochs: 200
//	batch_size: 32
//	seed: 2021
//	dataset:
//	  kind: franke
//	  samples: 1000
//	  noise: 0.1
//	  test_size: 0.2
package config

import (
	"bytes"
	"io"
	"math/rand/v2"
	"os"
	"slices"

	"github.com/born-ml/ffnn/internal/data"
	"github.com/born-ml/ffnn/internal/nn"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Dataset kinds.
const (
	DatasetFranke = "franke"
	DatasetXOR    = "xor"
	DatasetCSV    = "csv"
)

// Experiment is one training run.
type Experiment struct {
	Widths       []int   `yaml:"widths"`
	RegParam     float64 `yaml:"reg_param"`
	LearningRate float64 `yaml:"learning_rate"`
	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batch_size"`
	Seed         uint64  `yaml:"seed"`
	FreezeOutput bool    `yaml:"freeze_output"`

	HiddenActivation string `yaml:"hidden_activation,omitempty"`
	HiddenInit       string `yaml:"hidden_init,omitempty"`

	Dataset Dataset `yaml:"dataset"`
}

// Dataset selects the data an experiment trains on.
type Dataset struct {
	Kind     string  `yaml:"kind"`           // franke, xor or csv
	Path     string  `yaml:"path,omitempty"` // csv only; last column is the target
	Samples  int     `yaml:"samples"`        // franke only
	Noise    float64 `yaml:"noise"`          // franke only
	TestSize float64 `yaml:"test_size"`      // franke and csv
}

// Default returns the Franke regression experiment.
func Default() Experiment {
	return Experiment{
		Widths:       []int{2, 32, 16, 1},
		RegParam:     1e-4,
		LearningRate: 0.05,
		Epochs:       200,
		BatchSize:    32,
		Seed:         2021,
		Dataset: Dataset{
			Kind:     DatasetFranke,
			Samples:  1000,
			Noise:    0.1,
			TestSize: 0.2,
		},
	}
}

// Load reads an experiment from a YAML file on top of Default.
//
// Unknown keys are rejected. The result is validated.
func Load(path string) (Experiment, error) {
	//nolint:gosec // G304: experiment path comes from the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, errors.Wrap(err, "read experiment")
	}
	exp, err := Parse(raw)
	if err != nil {
		return Experiment{}, errors.Wrapf(err, "experiment %s", path)
	}
	return exp, nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(raw []byte) (Experiment, error) {
	exp := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&exp); err != nil && !errors.Is(err, io.EOF) {
		return Experiment{}, errors.Wrap(nn.ErrConfig, err.Error())
	}
	if err := exp.Validate(); err != nil {
		return Experiment{}, err
	}
	return exp, nil
}

// Marshal encodes the experiment as YAML.
func (e Experiment) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(e)
	return out, errors.Wrap(err, "marshal experiment")
}

// Validate checks everything that can be checked before data is loaded.
// The batch size against the training set size is checked by Network.Train.
//
// Returns an error matching nn.ErrConfig.
func (e Experiment) Validate() error {
	if err := e.NetworkConfig().Validate(); err != nil {
		return err
	}
	if e.Epochs <= 0 {
		return errors.Wrapf(nn.ErrConfig, "epochs must be positive, got %d", e.Epochs)
	}
	if e.BatchSize <= 0 {
		return errors.Wrapf(nn.ErrBatchSize, "batch size must be positive, got %d", e.BatchSize)
	}
	return e.Dataset.Validate()
}

// Validate checks the dataset fields relevant to its kind.
func (d Dataset) Validate() error {
	switch d.Kind {
	case DatasetXOR:
		return nil
	case DatasetFranke:
		if d.Samples <= 0 {
			return errors.Wrapf(nn.ErrConfig, "dataset: samples must be positive, got %d", d.Samples)
		}
		if !(d.Noise >= 0) {
			return errors.Wrapf(nn.ErrConfig, "dataset: noise must be non-negative, got %v", d.Noise)
		}
	case DatasetCSV:
		if d.Path == "" {
			return errors.Wrap(nn.ErrConfig, "dataset: csv needs a path")
		}
	default:
		return errors.Wrapf(nn.ErrConfig, "dataset: unknown kind %q", d.Kind)
	}
	if !(d.TestSize > 0 && d.TestSize < 1) {
		return errors.Wrapf(nn.ErrConfig, "dataset: test size must be in (0, 1), got %v", d.TestSize)
	}
	return nil
}

// Build produces the train/test split. The XOR set is used whole for both.
func (d Dataset) Build(rng *rand.Rand) (nn.Dataset, error) {
	switch d.Kind {
	case DatasetXOR:
		return data.XORDataset(), nil
	case DatasetFranke:
		x, y, err := data.SampleFranke(d.Samples, d.Noise, rng)
		if err != nil {
			return nn.Dataset{}, err
		}
		return data.Split(x, y, d.TestSize, rng)
	case DatasetCSV:
		//nolint:gosec // G304: dataset path comes from the experiment
		f, err := os.Open(d.Path)
		if err != nil {
			return nn.Dataset{}, errors.Wrap(err, "open dataset")
		}
		defer f.Close()
		x, y, err := data.LoadCSV(f)
		if err != nil {
			return nn.Dataset{}, errors.Wrapf(err, "dataset %s", d.Path)
		}
		return data.Split(x, y, d.TestSize, rng)
	default:
		return nn.Dataset{}, errors.Wrapf(nn.ErrConfig, "dataset: unknown kind %q", d.Kind)
	}
}

// NetworkConfig returns the nn.Config of the experiment.
func (e Experiment) NetworkConfig() nn.Config {
	return nn.Config{
		Widths:           slices.Clone(e.Widths),
		RegParam:         e.RegParam,
		LearningRate:     e.LearningRate,
		FreezeOutput:     e.FreezeOutput,
		HiddenActivation: e.HiddenActivation,
		HiddenInit:       e.HiddenInit,
	}
}

// TrainConfig returns the nn.TrainConfig of the experiment.
func (e Experiment) TrainConfig() nn.TrainConfig {
	return nn.TrainConfig{Epochs: e.Epochs, BatchSize: e.BatchSize}
}

// Rand returns the generator every random draw of the run comes from.
func (e Experiment) Rand() *rand.Rand {
	return rand.New(rand.NewPCG(e.Seed, 0))
}
