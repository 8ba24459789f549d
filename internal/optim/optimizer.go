// Package optim implements the parameter update rule used by ffnn layers.
//
// This package provides:
//   - Param: a flat view over one trainable buffer and its gradient
//   - SGD: plain gradient descent with an L2 (ridge) penalty
//
// Layers own their parameter storage and call SGD from their Update method;
// an optimizer only mutates the slices it is handed. Example:
//
//	sgd := optim.NewSGD(optim.SGDConfig{LR: 0.1, RegParam: 1e-3})
//	err := sgd.Step(optim.Param{Name: "w", Value: w, Grad: dw, Decay: true})
package optim

import (
	"github.com/pkg/errors"
)

// ErrGradient is returned by Step when a parameter's gradient is missing or
// does not match its value buffer.
var ErrGradient = errors.New("optim: gradient does not match parameter")

// Param is a trainable buffer paired with its gradient.
//
// Value and Grad must have the same length. Decay marks parameters that
// receive the L2 penalty (weights do, biases don't).
type Param struct {
	Name  string
	Value []float64
	Grad  []float64
	Decay bool
}
