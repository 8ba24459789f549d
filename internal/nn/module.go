// Package nn implements the feed-forward regression network of ffnn.
//
// This package provides:
//   - Activation and Initializer registries keyed by name
//   - Layer: the shared contract of the Hidden and Output variants
//   - Network: layer composition, backpropagation and the mini-batch loop
//   - MSE/R2 metrics and the per-epoch History
//   - Save/Load of trained networks
//
// Everything runs on float64 gonum matrices, single-threaded. A Network
// and its layers keep transient state from the last forward pass, so one
// instance must never be driven by two goroutines at once.
package nn

import (
	"fmt"

	"github.com/born-ml/ffnn/internal/optim"
	"gonum.org/v1/gonum/mat"
)

// Kind tags the layer variant.
type Kind int

// Layer variants.
const (
	KindHidden Kind = iota
	KindOutput
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindHidden:
		return "hidden"
	case KindOutput:
		return "output"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Layer is the contract shared by Hidden and Output.
//
// Forward and Backward are variant-specific (Hidden works on matrices all the
// way through, Output produces and consumes vectors) and live on the concrete
// types. Network dispatches on Kind.
type Layer interface {
	// Kind reports the layer variant.
	Kind() Kind

	// Shape returns the declared (n_input, n_output) of the layer.
	Shape() (nIn, nOut int)

	// ActivationName returns the registry name of the activation.
	ActivationName() string

	// InitializerName returns the registry name of the weight initializer.
	InitializerName() string

	// Parameters returns flat views of weights and bias with their staged
	// gradients. Grad is nil until Backward has run.
	Parameters() []optim.Param

	// Update applies the L2 penalty and one gradient descent step using the
	// gradients staged by the last Backward. It must be called exactly once
	// per Backward.
	Update(regParam, learningRate float64) error
}

// dense carries what both variants share: declared shape, activation,
// initializer and the input cached by Forward.
type dense struct {
	nIn      int
	nOut     int
	act      Activation
	initName string

	input *mat.Dense // last forward batch, [batch, nIn]
}

func newDense(nIn, nOut int, activation, initName string) (dense, Initializer, error) {
	if nIn <= 0 || nOut <= 0 {
		return dense{}, nil, configErrorf("layer widths must be positive, got (%d, %d)", nIn, nOut)
	}
	act, err := LookupActivation(activation)
	if err != nil {
		return dense{}, nil, err
	}
	fn, err := LookupInitializer(initName)
	if err != nil {
		return dense{}, nil, err
	}
	return dense{nIn: nIn, nOut: nOut, act: act, initName: initName}, fn, nil
}

// Shape returns the declared (n_input, n_output) of the layer.
func (d *dense) Shape() (nIn, nOut int) {
	return d.nIn, d.nOut
}

// ActivationName returns the registry name of the activation.
func (d *dense) ActivationName() string {
	return d.act.Name()
}

// InitializerName returns the registry name of the weight initializer.
func (d *dense) InitializerName() string {
	return d.initName
}

func (d *dense) checkInput(input *mat.Dense) (batch int, err error) {
	if input == nil {
		return 0, shapeErrorf("nil input")
	}
	r, c := input.Dims()
	if c != d.nIn {
		return 0, shapeErrorf("expected input with %d features, got %d", d.nIn, c)
	}
	return r, nil
}
