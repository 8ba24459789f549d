// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides a feed-forward regression network trained with
// mini-batch gradient descent.
//
// # Overview
//
// This package contains:
//   - Network: a stack of Hidden layers topped by a single-unit Output layer
//   - Layers: Hidden and Output, sharing the Layer interface
//   - Activations: identity, sigmoid, relu, leaky_relu
//   - Initializers: xavier, kaiming
//   - Metrics: MSE, R2
//   - Persistence: Save, SaveWithMetadata, Load (.ffnn files)
//
// # Basic Usage
//
//	import (
//	    "math/rand/v2"
//
//	    "github.com/born-ml/ffnn/data"
//	    "github.com/born-ml/ffnn/nn"
//	)
//
//	func main() {
//	    rng := rand.New(rand.NewPCG(2021, 0))
//
//	    // Franke's function with noise, 80/20 split
//	    x, y, _ := data.SampleFranke(1000, 0.1, rng)
//	    ds, _ := data.Split(x, y, 0.2, rng)
//
//	    // Two hidden layers, L2 penalty 1e-4, learning rate 0.05
//	    net, _ := nn.NewNetwork([]int{2, 32, 16, 1}, 1e-4, 0.05, rng)
//
//	    hist, _ := net.Train(ds, nn.TrainConfig{Epochs: 200, BatchSize: 32}, rng)
//	    mse, _ := hist.Last(nn.TestMSE)
//	}
//
// # Training
//
// Each epoch shuffles the training rows, runs one backprop step per full
// mini-batch (leftover rows sit the epoch out) and records train and test
// MSE in the History under "Train MSE" and "Test MSE".
//
// Backprop computes the Output gradient first, updates the Output layer
// (unless Config.FreezeOutput is set), then walks the Hidden layers from
// last to first, updating each right after its backward pass.
//
// # Errors
//
// Invalid construction or training arguments return errors matching
// ErrConfig; mismatched array shapes return errors matching ErrShape. Use
// errors.Is to test for them. Numeric divergence is not detected: a too
// large learning rate shows up as NaN or Inf in the History.
package nn
