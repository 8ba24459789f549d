// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/ffnn/internal/nn"
	"github.com/born-ml/ffnn/internal/serialization"
	"gonum.org/v1/gonum/mat"
)

// Errors

var (
	// ErrConfig is matched by every configuration error.
	ErrConfig = nn.ErrConfig

	// ErrShape is matched by every shape-mismatch error.
	ErrShape = nn.ErrShape

	// ErrState is returned when layer methods are called out of order.
	ErrState = nn.ErrState

	// ErrUnsupportedActivation is returned for unknown activation names.
	ErrUnsupportedActivation = nn.ErrUnsupportedActivation

	// ErrUnsupportedInit is returned for unknown initializer names.
	ErrUnsupportedInit = nn.ErrUnsupportedInit

	// ErrWidths is returned for an invalid width sequence.
	ErrWidths = nn.ErrWidths

	// ErrBatchSize is returned when the batch size does not fit the training set.
	ErrBatchSize = nn.ErrBatchSize

	// ErrConstantTarget is returned by R2 when every target is equal.
	ErrConstantTarget = nn.ErrConstantTarget
)

// Network

// Network is a feed-forward regression network.
type Network = nn.Network

// Config holds configuration for a Network.
type Config = nn.Config

// NewNetwork creates a Network with relu/xavier Hidden layers and an
// identity/xavier Output layer.
//
// Example:
//
//	rng := rand.New(rand.NewPCG(2021, 0))
//	net, err := nn.NewNetwork([]int{2, 16, 1}, 1e-4, 0.05, rng)
func NewNetwork(widths []int, regParam, learningRate float64, rng *rand.Rand) (*Network, error) {
	return nn.NewNetwork(widths, regParam, learningRate, rng)
}

// New creates a Network from a Config.
//
// Example:
//
//	net, err := nn.New(nn.Config{
//	    Widths:           []int{2, 16, 1},
//	    LearningRate:     0.05,
//	    HiddenActivation: nn.Sigmoid,
//	}, rng)
func New(cfg Config, rng *rand.Rand) (*Network, error) {
	return nn.New(cfg, rng)
}

// Header describes a saved model: architecture, hyperparameters and the
// training summary.
type Header = serialization.Header

// Load reads a Network written by Network.Save.
func Load(path string) (*Network, *Header, error) {
	return nn.Load(path)
}

// Training

// Dataset is the train/test split a Network is trained on.
type Dataset = nn.Dataset

// TrainConfig holds configuration for Network.Train.
type TrainConfig = nn.TrainConfig

// History maps a metric name to its per-epoch values.
type History = nn.History

// Metric names recorded in a History.
const (
	TrainMSE = nn.TrainMSE
	TestMSE  = nn.TestMSE
)

// MSE computes the mean squared error between predictions and targets.
func MSE(pred, y mat.Vector) (float64, error) {
	return nn.MSE(pred, y)
}

// R2 computes the coefficient of determination.
func R2(pred, y mat.Vector) (float64, error) {
	return nn.R2(pred, y)
}

// Layers

// Layer is the behavior shared by Hidden and Output layers.
type Layer = nn.Layer

// Kind tells Hidden and Output layers apart.
type Kind = nn.Kind

// Layer kinds.
const (
	KindHidden = nn.KindHidden
	KindOutput = nn.KindOutput
)

// Hidden is a fully connected layer feeding another layer.
type Hidden = nn.Hidden

// Output is the final single-unit layer.
type Output = nn.Output

// NewHidden creates a Hidden layer.
//
// Example:
//
//	h, err := nn.NewHidden(2, 16, nn.ReLU, nn.KaimingInit, rng)
func NewHidden(nIn, nOut int, activation, initName string, rng *rand.Rand) (*Hidden, error) {
	return nn.NewHidden(nIn, nOut, activation, initName, rng)
}

// NewOutput creates an Output layer. nOut must be 1.
func NewOutput(nIn, nOut int, activation, initName string, rng *rand.Rand) (*Output, error) {
	return nn.NewOutput(nIn, nOut, activation, initName, rng)
}

// Activations

// Activation is a named elementwise function with its derivative.
type Activation = nn.Activation

// Activation names.
const (
	Identity  = nn.Identity
	Sigmoid   = nn.Sigmoid
	ReLU      = nn.ReLU
	LeakyReLU = nn.LeakyReLU
)

// LookupActivation resolves an activation by name.
func LookupActivation(name string) (Activation, error) {
	return nn.LookupActivation(name)
}

// ActivationNames returns the registered activation names, sorted.
func ActivationNames() []string {
	return nn.ActivationNames()
}

// Initialization

// Initializer draws the weights and biases of a layer.
type Initializer = nn.Initializer

// Initializer names.
const (
	XavierInit  = nn.XavierInit
	KaimingInit = nn.KaimingInit
)

// LookupInitializer resolves an initializer by name.
func LookupInitializer(name string) (Initializer, error) {
	return nn.LookupInitializer(name)
}

// InitializerNames returns the registered initializer names, sorted.
func InitializerNames() []string {
	return nn.InitializerNames()
}
