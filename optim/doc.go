// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the parameter update rule used by network layers.
//
// # Overview
//
// This package contains:
//   - SGD: gradient descent with an L2 penalty on weights
//   - Param: a flat view over one trainable buffer and its gradient
//
// Layers call SGD themselves from Layer.Update, once per Backward, and drop
// the staged gradient afterwards. Network.Backprop does both, so most code
// never touches this package. It is exported for inspecting and testing
// update steps on plain buffers.
//
// # Basic Usage
//
//	sgd := optim.NewSGD(optim.SGDConfig{LR: 0.05, RegParam: 1e-4})
//	w := []float64{0.5, -1}
//	dw := []float64{0.1, 0.2}
//	if err := sgd.Step(optim.Param{Name: "w", Value: w, Grad: dw, Decay: true}); err != nil {
//	    return err
//	}
//
// Step returns ErrGradient, and changes nothing, if any parameter has no
// gradient or one of the wrong length.
//
// # Update Rule
//
// For every parameter with Decay set (weights):
//
//	grad  = grad + 2 * reg * param
//
// then for every parameter:
//
//	param = param - lr * grad
package optim
