package nn

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Activation names understood by LookupActivation.
const (
	Identity  = "identity"
	Sigmoid   = "sigmoid"
	ReLU      = "relu"
	LeakyReLU = "leaky_relu"
)

// LeakySlope is the slope of LeakyReLU for negative inputs.
const LeakySlope = 0.01

// Activation is a stateless element-wise function paired with its derivative.
//
// Both Value and Derivative take the pre-activation z:
//
//	identity:    a = z                        a' = 1
//	sigmoid:     a = 1 / (1 + exp(-z))        a' = a(1 - a)
//	relu:        a = max(0, z)                a' = 1[z > 0]
//	leaky_relu:  a = z if z > 0 else 0.01z    a' = 1 if z > 0 else 0.01
//
// Example:
//
//	act, err := nn.LookupActivation("relu")
//	if err != nil {
//	    return err
//	}
//	a := act.Apply(z) // new matrix, z untouched
type Activation struct {
	name       string
	value      func(z float64) float64
	derivative func(z float64) float64
}

var activations = map[string]Activation{
	Identity: {
		name:       Identity,
		value:      func(z float64) float64 { return z },
		derivative: func(float64) float64 { return 1 },
	},
	Sigmoid: {
		name:  Sigmoid,
		value: sigmoid,
		derivative: func(z float64) float64 {
			a := sigmoid(z)
			return a * (1 - a)
		},
	},
	ReLU: {
		name:  ReLU,
		value: func(z float64) float64 { return math.Max(0, z) },
		derivative: func(z float64) float64 {
			if z > 0 {
				return 1
			}
			return 0
		},
	},
	LeakyReLU: {
		name: LeakyReLU,
		value: func(z float64) float64 {
			if z > 0 {
				return z
			}
			return LeakySlope * z
		},
		derivative: func(z float64) float64 {
			if z > 0 {
				return 1
			}
			return LeakySlope
		},
	},
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// LookupActivation resolves an activation by name.
//
// Returns an error matching ErrUnsupportedActivation (and ErrConfig) for
// unknown names.
func LookupActivation(name string) (Activation, error) {
	act, ok := activations[name]
	if !ok {
		return Activation{}, errors.Wrapf(ErrUnsupportedActivation, "%q", name)
	}
	return act, nil
}

// ActivationNames returns the registered activation names in sorted order.
func ActivationNames() []string {
	names := make([]string, 0, len(activations))
	for name := range activations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Name returns the registry name of the activation.
func (a Activation) Name() string {
	return a.name
}

// Value evaluates the activation at z.
func (a Activation) Value(z float64) float64 {
	return a.value(z)
}

// Derivative evaluates the derivative of the activation at z.
func (a Activation) Derivative(z float64) float64 {
	return a.derivative(z)
}

// Apply returns a new matrix holding the activation of every element of z.
func (a Activation) Apply(z mat.Matrix) *mat.Dense {
	r, c := z.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, _ int, v float64) float64 { return a.value(v) }, z)
	return out
}

// Prime returns a new matrix holding the derivative at every element of z.
func (a Activation) Prime(z mat.Matrix) *mat.Dense {
	r, c := z.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, _ int, v float64) float64 { return a.derivative(v) }, z)
	return out
}
