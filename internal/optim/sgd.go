package optim

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// SGD implements gradient descent with an L2 penalty on decayed parameters.
//
// Update rule:
//
//	grad  = grad + 2 * reg * param   (Decay parameters only)
//	param = param - lr * grad
//
// The penalty is folded into the staged gradient in place, so after Step the
// gradient buffers hold the regularized gradient.
//
// Example:
//
//	sgd := optim.NewSGD(optim.SGDConfig{LR: 0.01, RegParam: 1e-4})
//	err := sgd.Step(params...)
type SGD struct {
	lr       float64
	regParam float64
}

// SGDConfig holds configuration for SGD.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	RegParam float64 // L2 penalty coefficient (default: 0)
}

// NewSGD creates a new SGD optimizer.
//
// A zero LR is replaced by the default of 0.01.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		lr:       config.LR,
		regParam: config.RegParam,
	}
}

// Step performs one descent step on every parameter.
//
// Every parameter is checked before any is touched: a nil gradient or one
// whose length differs from Value yields ErrGradient and no update.
func (s *SGD) Step(params ...Param) error {
	for _, p := range params {
		if p.Grad == nil || len(p.Value) != len(p.Grad) {
			return errors.Wrapf(ErrGradient, "parameter %q has %d values but %d gradients",
				p.Name, len(p.Value), len(p.Grad))
		}
	}
	for _, p := range params {
		if p.Decay && s.regParam != 0 {
			floats.AddScaled(p.Grad, 2*s.regParam, p.Value)
		}
		floats.AddScaled(p.Value, -s.lr, p.Grad)
	}
	return nil
}
