package nn

import (
	"math/rand/v2"

	"github.com/born-ml/ffnn/internal/optim"
	"gonum.org/v1/gonum/mat"
)

// Output is the single-unit regression head of a Network.
//
// The initializer produces a [n_input, 1] weight matrix which is stored
// squeezed to a vector of length n_input, so the forward pass is a
// matrix-vector product and predictions are plain vectors:
//
//	y = act(x @ w + b)   x: [batch_size, n_input], w: [n_input], y: [batch_size]
//
// Only n_output = 1 is supported.
type Output struct {
	dense

	weights *mat.VecDense // [nIn], squeezed from [nIn, 1]
	bias    *mat.VecDense // [1]

	z  *mat.VecDense // pre-activation of the last forward, [batch]
	dW *mat.VecDense
	db *mat.VecDense
}

// NewOutput creates the output layer. nOut must be 1.
func NewOutput(nIn, nOut int, activation, initName string, rng *rand.Rand) (*Output, error) {
	if nOut != 1 {
		return nil, configErrorf("output layer supports a single unit, got %d", nOut)
	}
	d, fn, err := newDense(nIn, nOut, activation, initName)
	if err != nil {
		return nil, err
	}
	w, b := fn(nIn, nOut, rng)
	return &Output{
		dense:   d,
		weights: mat.NewVecDense(nIn, w.RawMatrix().Data),
		bias:    b,
	}, nil
}

// Kind reports KindOutput.
func (o *Output) Kind() Kind {
	return KindOutput
}

// Forward computes act(input @ w + b) for every row of input.
//
// Input shape: [batch_size, n_input]
// Output shape: [batch_size]
func (o *Output) Forward(input *mat.Dense) (*mat.VecDense, error) {
	batch, err := o.checkInput(input)
	if err != nil {
		return nil, err
	}

	b := o.bias.AtVec(0)
	z := mat.NewVecDense(batch, nil)
	z.MulVec(input, o.weights)
	a := mat.NewVecDense(batch, nil)
	for i := range batch {
		zi := z.AtVec(i) + b
		z.SetVec(i, zi)
		a.SetVec(i, o.act.Value(zi))
	}

	o.input = mat.DenseCopyOf(input)
	o.z = z
	o.dW, o.db = nil, nil

	return a, nil
}

// Backward starts the backward sweep from the squared-error loss.
//
// Computes:
//
//	e     = 2 (yPred - yTrue) ⊙ act'(z)       [batch]   (act' = 1 for identity)
//	delta = outer(e, w)                       [batch, n_input]
//	dW    = mean over batch of e_i * input_i  [n_input]
//	db    = mean over batch of e_i            [1]
//
// The returned delta is built from the weights as they were before any
// Update, and is what the last Hidden layer consumes.
func (o *Output) Backward(yPred, yTrue *mat.VecDense) (*mat.Dense, error) {
	if o.z == nil {
		return nil, stateErrorf("output layer: backward called before forward")
	}
	if yPred == nil || yTrue == nil {
		return nil, shapeErrorf("output layer: nil prediction or target")
	}
	batch := o.z.Len()
	if yPred.Len() != batch || yTrue.Len() != batch {
		return nil, shapeErrorf("output layer: got %d predictions and %d targets for a batch of %d",
			yPred.Len(), yTrue.Len(), batch)
	}

	e := mat.NewVecDense(batch, nil)
	for i := range batch {
		e.SetVec(i, 2*(yPred.AtVec(i)-yTrue.AtVec(i))*o.act.Derivative(o.z.AtVec(i)))
	}

	delta := mat.NewDense(batch, o.nIn, nil)
	delta.Outer(1, e, o.weights)

	scale := 1 / float64(batch)

	dW := mat.NewVecDense(o.nIn, nil)
	dW.MulVec(o.input.T(), e)
	dW.ScaleVec(scale, dW)

	db := mat.NewVecDense(1, []float64{mat.Sum(e) * scale})

	o.dW, o.db = dW, db
	return delta, nil
}

// Parameters returns [weight, bias] views with their staged gradients.
func (o *Output) Parameters() []optim.Param {
	params := []optim.Param{
		{Name: "weight", Value: o.weights.RawVector().Data, Decay: true},
		{Name: "bias", Value: o.bias.RawVector().Data},
	}
	if o.dW != nil {
		params[0].Grad = o.dW.RawVector().Data
		params[1].Grad = o.db.RawVector().Data
	}
	return params
}

// Update adds 2·regParam·w to dW and steps w and b against their gradients.
func (o *Output) Update(regParam, learningRate float64) error {
	if o.dW == nil {
		return stateErrorf("output layer: update called without a staged gradient")
	}
	if err := step(o.Parameters(), regParam, learningRate); err != nil {
		return err
	}
	o.dW, o.db = nil, nil
	return nil
}

// Weights returns a copy of the squeezed weight vector, length n_input.
func (o *Output) Weights() *mat.VecDense {
	return mat.VecDenseCopyOf(o.weights)
}

// Bias returns a copy of the bias, length 1.
func (o *Output) Bias() *mat.VecDense {
	return mat.VecDenseCopyOf(o.bias)
}

// Grads returns copies of the staged gradients, or nils if none are staged.
func (o *Output) Grads() (dW, db *mat.VecDense) {
	if o.dW == nil {
		return nil, nil
	}
	return mat.VecDenseCopyOf(o.dW), mat.VecDenseCopyOf(o.db)
}
