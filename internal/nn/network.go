package nn

import (
	"math/rand/v2"
	"slices"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Default layer choices of a Network.
const (
	DefaultHiddenActivation = ReLU
	DefaultOutputActivation = Identity
	DefaultInit             = XavierInit
)

// Config holds configuration for a Network.
//
// Widths lists the layer widths from input features to the single output,
// e.g. [2, 4, 1] builds one Hidden layer (2→4) and the Output layer (4→1).
// Empty activation and initializer names fall back to the defaults above.
type Config struct {
	Widths       []int   // Layer widths, length ≥ 2, last must be 1
	RegParam     float64 // L2 penalty coefficient, ≥ 0
	LearningRate float64 // Gradient descent step size, > 0

	// FreezeOutput keeps the Output layer at its initial parameters; only
	// Hidden layers are updated during backprop.
	FreezeOutput bool

	HiddenActivation string // default: relu
	HiddenInit       string // default: xavier
	OutputActivation string // default: identity
	OutputInit       string // default: xavier
}

func (c *Config) setDefaults() {
	if c.HiddenActivation == "" {
		c.HiddenActivation = DefaultHiddenActivation
	}
	if c.HiddenInit == "" {
		c.HiddenInit = DefaultInit
	}
	if c.OutputActivation == "" {
		c.OutputActivation = DefaultOutputActivation
	}
	if c.OutputInit == "" {
		c.OutputInit = DefaultInit
	}
}

// Validate checks the width sequence and hyperparameters.
//
// Returns an error matching ErrConfig.
func (c Config) Validate() error {
	if len(c.Widths) < 2 {
		return errors.Wrapf(ErrWidths, "need at least 2 widths, got %v", c.Widths)
	}
	for i, w := range c.Widths {
		if w <= 0 {
			return errors.Wrapf(ErrWidths, "width %d is %d, must be positive", i, w)
		}
	}
	if last := c.Widths[len(c.Widths)-1]; last != 1 {
		return errors.Wrapf(ErrWidths, "output width must be 1, got %d", last)
	}
	return checkHyper(c.RegParam, c.LearningRate)
}

// Network is an ordered stack of Hidden layers topped by one Output layer.
//
// Layers are built once in New and live as long as the Network; their
// parameters are updated in place on every mini-batch.
//
// Example:
//
//	rng := rand.New(rand.NewPCG(2021, 0))
//	net, err := nn.NewNetwork([]int{2, 16, 1}, 1e-4, 0.05, rng)
//	if err != nil {
//	    return err
//	}
//	hist, err := net.Train(data, nn.TrainConfig{Epochs: 100, BatchSize: 16}, rng)
//	pred, err := net.Predict(xNew)
type Network struct {
	widths       []int
	regParam     float64
	learningRate float64
	freezeOutput bool

	hidden []*Hidden
	output *Output
}

// NewNetwork creates a Network with relu/xavier Hidden layers and an
// identity/xavier Output layer.
//
// Parameters:
//   - widths: layer widths, length ≥ 2, last must be 1
//   - regParam: L2 penalty coefficient, ≥ 0
//   - learningRate: gradient descent step size, > 0
//   - rng: source for weight initialization
//
// Returns an error matching ErrConfig for invalid arguments.
func NewNetwork(widths []int, regParam, learningRate float64, rng *rand.Rand) (*Network, error) {
	return New(Config{Widths: widths, RegParam: regParam, LearningRate: learningRate}, rng)
}

// New creates a Network from a Config.
func New(cfg Config, rng *rand.Rand) (*Network, error) {
	if rng == nil {
		return nil, configErrorf("nil random source")
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := cfg.Widths
	n := &Network{
		widths:       slices.Clone(p),
		regParam:     cfg.RegParam,
		learningRate: cfg.LearningRate,
		freezeOutput: cfg.FreezeOutput,
		hidden:       make([]*Hidden, 0, len(p)-2),
	}
	for i := 0; i < len(p)-2; i++ {
		h, err := NewHidden(p[i], p[i+1], cfg.HiddenActivation, cfg.HiddenInit, rng)
		if err != nil {
			return nil, errors.Wrapf(err, "hidden layer %d", i)
		}
		n.hidden = append(n.hidden, h)
	}
	out, err := NewOutput(p[len(p)-2], p[len(p)-1], cfg.OutputActivation, cfg.OutputInit, rng)
	if err != nil {
		return nil, errors.Wrap(err, "output layer")
	}
	n.output = out
	return n, nil
}

// Predict runs the forward pass through every layer.
//
// Input shape: [batch_size, widths[0]]
// Output shape: [batch_size]
//
// Layer caches are overwritten; a Backprop relying on this pass must follow
// before the next Predict.
func (n *Network) Predict(x *mat.Dense) (*mat.VecDense, error) {
	a := x
	for i, h := range n.hidden {
		next, err := h.Forward(a)
		if err != nil {
			return nil, errors.Wrapf(err, "hidden layer %d", i)
		}
		a = next
	}
	y, err := n.output.Forward(a)
	if err != nil {
		return nil, errors.Wrap(err, "output layer")
	}
	return y, nil
}

// Backprop performs one gradient step on a mini-batch.
//
// The forward pass is followed by Output.Backward on the squared error, an
// Output update (unless FreezeOutput is set), then the Hidden layers from
// last to first, each updating its parameters right after its own Backward.
func (n *Network) Backprop(x *mat.Dense, y *mat.VecDense) error {
	pred, err := n.Predict(x)
	if err != nil {
		return err
	}

	grad, err := n.output.Backward(pred, y)
	if err != nil {
		return errors.Wrap(err, "output layer")
	}
	if !n.freezeOutput {
		if err := n.output.Update(n.regParam, n.learningRate); err != nil {
			return errors.Wrap(err, "output layer")
		}
	}

	for i := len(n.hidden) - 1; i >= 0; i-- {
		h := n.hidden[i]
		if grad, err = h.Backward(grad); err != nil {
			return errors.Wrapf(err, "hidden layer %d", i)
		}
		if err := h.Update(n.regParam, n.learningRate); err != nil {
			return errors.Wrapf(err, "hidden layer %d", i)
		}
	}
	return nil
}

// Score returns the mean squared error of the predictions on x against y.
func (n *Network) Score(x *mat.Dense, y *mat.VecDense) (float64, error) {
	pred, err := n.Predict(x)
	if err != nil {
		return 0, err
	}
	return MSE(pred, y)
}

// Widths returns a copy of the width sequence.
func (n *Network) Widths() []int {
	return slices.Clone(n.widths)
}

// RegParam returns the L2 penalty coefficient.
func (n *Network) RegParam() float64 {
	return n.regParam
}

// LearningRate returns the gradient descent step size.
func (n *Network) LearningRate() float64 {
	return n.learningRate
}

// FreezeOutput reports whether the Output layer is excluded from updates.
func (n *Network) FreezeOutput() bool {
	return n.freezeOutput
}

// Layers returns all layers in construction order, Output last.
func (n *Network) Layers() []Layer {
	layers := make([]Layer, 0, len(n.hidden)+1)
	for _, h := range n.hidden {
		layers = append(layers, h)
	}
	return append(layers, n.output)
}

// HiddenLayers returns the Hidden layers in construction order.
func (n *Network) HiddenLayers() []*Hidden {
	return slices.Clone(n.hidden)
}

// OutputLayer returns the Output layer.
func (n *Network) OutputLayer() *Output {
	return n.output
}

// NumParameters returns the number of trainable scalars.
func (n *Network) NumParameters() int {
	total := 0
	for _, l := range n.Layers() {
		for _, p := range l.Parameters() {
			total += len(p.Value)
		}
	}
	return total
}
