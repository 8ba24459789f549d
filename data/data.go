// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data provides datasets and CSV helpers for training networks.
//
// # Datasets
//
//	x, y, err := data.SampleFranke(1000, 0.1, rng) // Franke's function + noise
//	ds, err := data.Split(x, y, 0.2, rng)          // 80/20 train/test split
//
//	ds := data.XORDataset()                        // XOR, train == test
//
// # CSV
//
//	x, y, err := data.LoadCSV(f)          // last column is the target
//	err = data.WriteHistoryCSV(w, hist)   // epoch, Train MSE, Test MSE
package data

import (
	"io"
	"math/rand/v2"

	"github.com/born-ml/ffnn/internal/data"
	"github.com/born-ml/ffnn/internal/nn"
	"gonum.org/v1/gonum/mat"
)

// Franke evaluates Franke's bivariate test function.
func Franke(x, y float64) float64 {
	return data.Franke(x, y)
}

// SampleFranke draws n uniform points from the unit square and evaluates
// Franke's function on them with additive Gaussian noise.
func SampleFranke(n int, noise float64, rng *rand.Rand) (*mat.Dense, *mat.VecDense, error) {
	return data.SampleFranke(n, noise, rng)
}

// XOR returns the four-point exclusive-or set.
func XOR() (*mat.Dense, *mat.VecDense) {
	return data.XOR()
}

// XORDataset returns the XOR set as both the training and the test split.
func XORDataset() nn.Dataset {
	return data.XORDataset()
}

// Split shuffles x and y and holds out ceil(testSize * n) samples for testing.
func Split(x *mat.Dense, y *mat.VecDense, testSize float64, rng *rand.Rand) (nn.Dataset, error) {
	return data.Split(x, y, testSize, rng)
}

// LoadCSV reads a numeric table whose last column is the target.
func LoadCSV(r io.Reader) (*mat.Dense, *mat.VecDense, error) {
	return data.LoadCSV(r)
}

// LoadFeaturesCSV reads a numeric table of inputs only.
func LoadFeaturesCSV(r io.Reader) (*mat.Dense, error) {
	return data.LoadFeaturesCSV(r)
}

// WriteHistoryCSV writes one row of metrics per epoch.
func WriteHistoryCSV(w io.Writer, hist nn.History) error {
	return data.WriteHistoryCSV(w, hist)
}

// WritePredictionsCSV writes a single "prediction" column.
func WritePredictionsCSV(w io.Writer, pred mat.Vector) error {
	return data.WritePredictionsCSV(w, pred)
}
