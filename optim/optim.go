// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/ffnn/internal/optim"
)

// ErrGradient is returned by SGD.Step for a missing or mismatched gradient.
var ErrGradient = optim.ErrGradient

// Param is a trainable buffer paired with its gradient.
type Param = optim.Param

// SGD (Stochastic Gradient Descent)

// SGD represents gradient descent with an L2 penalty.
type SGD = optim.SGD

// SGDConfig contains configuration for the SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    RegParam: 1e-4,
//	})
func NewSGD(config SGDConfig) *SGD {
	return optim.NewSGD(config)
}
