package nn

import (
	"math/rand/v2"

	"github.com/born-ml/ffnn/internal/optim"
	"gonum.org/v1/gonum/mat"
)

// Hidden is a fully connected layer whose output feeds another layer.
//
// Performs the transformation: a = act(x @ W + b)
// where:
//   - x is the input batch with shape [batch_size, n_input]
//   - W is the weight matrix with shape [n_input, n_output]
//   - b is the bias vector with shape [n_output], broadcast over the batch
//
// Example:
//
//	rng := rand.New(rand.NewPCG(1, 2))
//	layer, err := nn.NewHidden(2, 4, nn.ReLU, nn.XavierInit, rng)
//	a, err := layer.Forward(x)        // [batch, 4]
//	down, err := layer.Backward(up)   // [batch, 2]
//	err = layer.Update(0.0, 0.1)
type Hidden struct {
	dense

	weights *mat.Dense    // [nIn, nOut]
	bias    *mat.VecDense // [nOut]

	z  *mat.Dense // pre-activation of the last forward, [batch, nOut]
	dW *mat.Dense
	db *mat.VecDense
}

// NewHidden creates a hidden layer, resolving the activation and initializer
// by name. Unknown names yield an error matching ErrConfig.
func NewHidden(nIn, nOut int, activation, initName string, rng *rand.Rand) (*Hidden, error) {
	d, fn, err := newDense(nIn, nOut, activation, initName)
	if err != nil {
		return nil, err
	}
	w, b := fn(nIn, nOut, rng)
	return &Hidden{dense: d, weights: w, bias: b}, nil
}

// Kind reports KindHidden.
func (h *Hidden) Kind() Kind {
	return KindHidden
}

// Forward computes act(input @ W + b).
//
// The input and the pre-activation are cached for Backward, and any
// gradients staged by a previous Backward are dropped.
//
// Input shape: [batch_size, n_input]
// Output shape: [batch_size, n_output]
func (h *Hidden) Forward(input *mat.Dense) (*mat.Dense, error) {
	batch, err := h.checkInput(input)
	if err != nil {
		return nil, err
	}

	z := mat.NewDense(batch, h.nOut, nil)
	z.Mul(input, h.weights)
	z.Apply(func(_, j int, v float64) float64 { return v + h.bias.AtVec(j) }, z)

	h.input = mat.DenseCopyOf(input)
	h.z = z
	h.dW, h.db = nil, nil

	return h.act.Apply(z), nil
}

// Backward propagates the error signal from the next layer.
//
// Computes:
//
//	delta = upstream ⊙ act'(z)
//	dW    = mean over batch of outer(input_i, delta_i)   [n_input, n_output]
//	db    = mean over batch of delta_i                   [n_output]
//
// and returns delta @ W.T for the preceding layer. Weights are not touched;
// the gradients stay staged until Update.
//
// Parameters:
//   - upstream: delta from the next layer, shape [batch_size, n_output]
//
// Returns the downstream delta with shape [batch_size, n_input].
func (h *Hidden) Backward(upstream *mat.Dense) (*mat.Dense, error) {
	if h.z == nil {
		return nil, stateErrorf("hidden layer: backward called before forward")
	}
	if upstream == nil {
		return nil, shapeErrorf("hidden layer: nil upstream delta")
	}
	batch, _ := h.z.Dims()
	if r, c := upstream.Dims(); r != batch || c != h.nOut {
		return nil, shapeErrorf("hidden layer: upstream delta is %dx%d, want %dx%d", r, c, batch, h.nOut)
	}

	delta := mat.NewDense(batch, h.nOut, nil)
	delta.MulElem(upstream, h.act.Prime(h.z))

	scale := 1 / float64(batch)

	dW := mat.NewDense(h.nIn, h.nOut, nil)
	dW.Mul(h.input.T(), delta)
	dW.Scale(scale, dW)

	db := mat.NewVecDense(h.nOut, nil)
	for j := range h.nOut {
		db.SetVec(j, mat.Sum(delta.ColView(j))*scale)
	}

	down := mat.NewDense(batch, h.nIn, nil)
	down.Mul(delta, h.weights.T())

	h.dW, h.db = dW, db
	return down, nil
}

// Parameters returns [weight, bias] views with their staged gradients.
func (h *Hidden) Parameters() []optim.Param {
	params := []optim.Param{
		{Name: "weight", Value: h.weights.RawMatrix().Data, Decay: true},
		{Name: "bias", Value: h.bias.RawVector().Data},
	}
	if h.dW != nil {
		params[0].Grad = h.dW.RawMatrix().Data
		params[1].Grad = h.db.RawVector().Data
	}
	return params
}

// Update adds 2·regParam·W to dW and steps W and b against their gradients.
func (h *Hidden) Update(regParam, learningRate float64) error {
	if h.dW == nil {
		return stateErrorf("hidden layer: update called without a staged gradient")
	}
	if err := step(h.Parameters(), regParam, learningRate); err != nil {
		return err
	}
	h.dW, h.db = nil, nil
	return nil
}

// Weights returns a copy of the weight matrix, shape [n_input, n_output].
func (h *Hidden) Weights() *mat.Dense {
	return mat.DenseCopyOf(h.weights)
}

// Bias returns a copy of the bias vector.
func (h *Hidden) Bias() *mat.VecDense {
	return mat.VecDenseCopyOf(h.bias)
}

// Grads returns copies of the staged gradients, or nils if none are staged.
func (h *Hidden) Grads() (dW *mat.Dense, db *mat.VecDense) {
	if h.dW == nil {
		return nil, nil
	}
	return mat.DenseCopyOf(h.dW), mat.VecDenseCopyOf(h.db)
}

func step(params []optim.Param, regParam, learningRate float64) error {
	if err := checkHyper(regParam, learningRate); err != nil {
		return err
	}
	return optim.NewSGD(optim.SGDConfig{LR: learningRate, RegParam: regParam}).Step(params...)
}

func checkHyper(regParam, learningRate float64) error {
	if !(regParam >= 0) {
		return configErrorf("reg_param must be non-negative, got %v", regParam)
	}
	if !(learningRate > 0) {
		return configErrorf("learning_rate must be positive, got %v", learningRate)
	}
	return nil
}
