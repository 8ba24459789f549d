package nn

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func randomDense(rng *rand.Rand, r, c int) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.Float64()*2 - 1
	}
	return mat.NewDense(r, c, data)
}

func randomVec(rng *rand.Rand, n int) *mat.VecDense {
	data := make([]float64, n)
	for i := range data {
		data[i] = rng.Float64()*2 - 1
	}
	return mat.NewVecDense(n, data)
}

// relErr is |a-b| / max(|a|+|b|, 1e-3); near zero it degrades to an
// absolute tolerance so finite-difference noise on vanishing gradients passes.
func relErr(a, b float64) float64 {
	return math.Abs(a-b) / math.Max(math.Abs(a)+math.Abs(b), 1e-3)
}

func TestHidden_ForwardShapes(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	h, err := NewHidden(3, 5, ReLU, XavierInit, rng)
	require.NoError(t, err)

	nIn, nOut := h.Shape()
	assert.Equal(t, 3, nIn)
	assert.Equal(t, 5, nOut)
	assert.Equal(t, KindHidden, h.Kind())

	for _, batch := range []int{1, 4, 17} {
		a, err := h.Forward(randomDense(rng, batch, 3))
		require.NoError(t, err)
		r, c := a.Dims()
		assert.Equal(t, batch, r)
		assert.Equal(t, 5, c)
	}
}

func TestHidden_ForwardComputesAffineThenActivation(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	h, err := NewHidden(2, 2, ReLU, XavierInit, rng)
	require.NoError(t, err)
	h.weights = mat.NewDense(2, 2, []float64{1, -1, 2, 0.5})
	h.bias = mat.NewVecDense(2, []float64{0.5, -3})

	a, err := h.Forward(mat.NewDense(1, 2, []float64{1, 2}))
	require.NoError(t, err)
	// z = [1*1 + 2*2 + 0.5, 1*-1 + 2*0.5 - 3] = [5.5, -3]
	assert.Equal(t, []float64{5.5, 0}, a.RawMatrix().Data)
	assert.Equal(t, []float64{5.5, -3}, h.z.RawMatrix().Data)
}

func TestLayer_ShapeErrors(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	h, err := NewHidden(3, 2, ReLU, XavierInit, rng)
	require.NoError(t, err)
	o, err := NewOutput(2, 1, Identity, XavierInit, rng)
	require.NoError(t, err)

	_, err = h.Forward(randomDense(rng, 4, 2))
	assert.True(t, errors.Is(err, ErrShape), "got %v", err)
	_, err = h.Forward(nil)
	assert.True(t, errors.Is(err, ErrShape), "got %v", err)
	_, err = o.Forward(randomDense(rng, 4, 3))
	assert.True(t, errors.Is(err, ErrShape), "got %v", err)

	_, err = h.Forward(randomDense(rng, 4, 3))
	require.NoError(t, err)
	_, err = h.Backward(randomDense(rng, 3, 2))
	assert.True(t, errors.Is(err, ErrShape), "got %v", err)

	_, err = o.Forward(randomDense(rng, 4, 2))
	require.NoError(t, err)
	_, err = o.Backward(randomVec(rng, 4), randomVec(rng, 5))
	assert.True(t, errors.Is(err, ErrShape), "got %v", err)
}

func TestLayer_CallOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	h, err := NewHidden(2, 2, ReLU, XavierInit, rng)
	require.NoError(t, err)
	o, err := NewOutput(2, 1, Identity, XavierInit, rng)
	require.NoError(t, err)

	_, err = h.Backward(randomDense(rng, 1, 2))
	assert.True(t, errors.Is(err, ErrState), "got %v", err)
	_, err = o.Backward(randomVec(rng, 1), randomVec(rng, 1))
	assert.True(t, errors.Is(err, ErrState), "got %v", err)
	assert.True(t, errors.Is(h.Update(0, 0.1), ErrState))
	assert.True(t, errors.Is(o.Update(0, 0.1), ErrState))

	// Update consumes the staged gradient exactly once.
	x := randomDense(rng, 3, 2)
	_, err = h.Forward(x)
	require.NoError(t, err)
	_, err = h.Backward(randomDense(rng, 3, 2))
	require.NoError(t, err)
	require.NoError(t, h.Update(0, 0.1))
	assert.True(t, errors.Is(h.Update(0, 0.1), ErrState))
}

func TestLayer_UpdateRejectsBadHyperparameters(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	h, err := NewHidden(2, 2, ReLU, XavierInit, rng)
	require.NoError(t, err)
	_, err = h.Forward(randomDense(rng, 3, 2))
	require.NoError(t, err)
	_, err = h.Backward(randomDense(rng, 3, 2))
	require.NoError(t, err)

	assert.True(t, errors.Is(h.Update(-1, 0.1), ErrConfig))
	assert.True(t, errors.Is(h.Update(0, 0), ErrConfig))
	assert.True(t, errors.Is(h.Update(0, math.NaN()), ErrConfig))
}

func TestNewLayer_ConfigErrors(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))

	_, err := NewHidden(2, 3, "swish", XavierInit, rng)
	assert.True(t, errors.Is(err, ErrUnsupportedActivation))
	_, err = NewHidden(2, 3, ReLU, "he_uniform", rng)
	assert.True(t, errors.Is(err, ErrUnsupportedInit))
	_, err = NewHidden(0, 3, ReLU, XavierInit, rng)
	assert.True(t, errors.Is(err, ErrConfig))
	_, err = NewOutput(3, 2, Identity, XavierInit, rng)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestOutput_WeightsAreSqueezed(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	o, err := NewOutput(4, 1, Identity, XavierInit, rng)
	require.NoError(t, err)
	assert.Equal(t, 4, o.Weights().Len())
	assert.Equal(t, 1, o.Bias().Len())

	y, err := o.Forward(randomDense(rng, 6, 4))
	require.NoError(t, err)
	assert.Equal(t, 6, y.Len())
}

func TestOutput_Backward(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	o, err := NewOutput(2, 1, Identity, XavierInit, rng)
	require.NoError(t, err)
	o.weights = mat.NewVecDense(2, []float64{0.5, -1})
	o.bias = mat.NewVecDense(1, []float64{0})

	x := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	pred, err := o.Forward(x)
	require.NoError(t, err)
	// pred = [0.5 - 2, 1.5 - 4] = [-1.5, -2.5]
	assert.Equal(t, []float64{-1.5, -2.5}, pred.RawVector().Data)

	y := mat.NewVecDense(2, []float64{0.5, -2.5})
	delta, err := o.Backward(pred, y)
	require.NoError(t, err)
	// e = 2 (pred - y) = [-4, 0]
	assert.Equal(t, []float64{-2, 4, 0, 0}, delta.RawMatrix().Data)

	dW, db := o.Grads()
	// dW = mean(e_i * x_i) = [(-4*1 + 0*3)/2, (-4*2 + 0*4)/2]
	assert.Equal(t, []float64{-2, -4}, dW.RawVector().Data)
	assert.Equal(t, []float64{-2}, db.RawVector().Data)
}

func TestUpdate_AppliesL2Step(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	o, err := NewOutput(2, 1, Identity, XavierInit, rng)
	require.NoError(t, err)
	o.weights = mat.NewVecDense(2, []float64{1, -2})
	o.bias = mat.NewVecDense(1, []float64{0.5})

	_, err = o.Forward(mat.NewDense(1, 2, []float64{0, 0}))
	require.NoError(t, err)
	o.dW = mat.NewVecDense(2, []float64{0.1, 0.2})
	o.db = mat.NewVecDense(1, []float64{1})

	require.NoError(t, o.Update(0.5, 0.1))
	// dW += 2*0.5*w -> [1.1, -1.8]; w -= 0.1*dW -> [0.89, -1.82]
	assert.InDeltaSlice(t, []float64{0.89, -1.82}, o.weights.RawVector().Data, 1e-12)
	// Bias gets no penalty: 0.5 - 0.1*1
	assert.InDelta(t, 0.4, o.bias.AtVec(0), 1e-12)
}

// TestGradientCheck compares the analytic gradients of a [3, 4, 1] network
// against central finite differences of the L2-regularized MSE.
func TestGradientCheck(t *testing.T) {
	const regParam = 0.05

	for _, act := range []string{ReLU, Sigmoid, LeakyReLU} {
		t.Run(act, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(2021, 4155))
			net, err := New(Config{
				Widths:           []int{3, 4, 1},
				RegParam:         regParam,
				LearningRate:     0.1,
				HiddenActivation: act,
			}, rng)
			require.NoError(t, err)

			x := randomDense(rng, 6, 3)
			y := randomVec(rng, 6)
			hidden, out := net.hidden[0], net.output

			pred, err := net.Predict(x)
			require.NoError(t, err)
			grad, err := out.Backward(pred, y)
			require.NoError(t, err)
			_, err = hidden.Backward(grad)
			require.NoError(t, err)

			hiddenW := hidden.weights.RawMatrix().Data
			outW := out.weights.RawVector().Data
			hdW, hdb := hidden.Grads()
			odW, odb := out.Grads()

			check := func(name string, params []float64, analytic []float64, penalized bool) {
				orig := append([]float64(nil), params...)
				loss := func(p []float64) float64 {
					copy(params, p)
					pr, err := net.Predict(x)
					require.NoError(t, err)
					l, err := MSE(pr, y)
					require.NoError(t, err)
					if penalized {
						l += regParam * floats.Dot(p, p)
					}
					return l
				}
				numeric := fd.Gradient(nil, loss, orig, &fd.Settings{Formula: fd.Central, Step: 1e-6})
				copy(params, orig)

				want := append([]float64(nil), analytic...)
				if penalized {
					floats.AddScaled(want, 2*regParam, orig)
				}
				for i := range want {
					assert.Less(t, relErr(want[i], numeric[i]), 1e-4,
						"%s[%d]: analytic %g numeric %g", name, i, want[i], numeric[i])
				}
			}

			check("hidden.weight", hiddenW, hdW.RawMatrix().Data, true)
			check("hidden.bias", hidden.bias.RawVector().Data, hdb.RawVector().Data, false)
			check("output.weight", outW, odW.RawVector().Data, true)
			check("output.bias", out.bias.RawVector().Data, odb.RawVector().Data, false)
		})
	}
}
