// Package data provides the datasets the trainer is exercised on and the
// plumbing around them: Franke's function sampler, the XOR set, a seeded
// train/test split and CSV import/export.
package data

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/ffnn/internal/nn"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Franke evaluates Franke's bivariate test function at (x, y).
//
// The function is a sum of four Gaussian bumps on the unit square, with a
// maximum of about 1.22 near (0.2, 0.2).
func Franke(x, y float64) float64 {
	t1 := 0.75 * math.Exp(-sq(9*x-2)/4-sq(9*y-2)/4)
	t2 := 0.75 * math.Exp(-sq(9*x+1)/49-(9*y+1)/10)
	t3 := 0.5 * math.Exp(-sq(9*x-7)/4-sq(9*y-3)/4)
	t4 := -0.2 * math.Exp(-sq(9*x-4)-sq(9*y-7))
	return t1 + t2 + t3 + t4
}

func sq(v float64) float64 { return v * v }

// SampleFranke draws n points uniformly from [0, 1)² and evaluates Franke's
// function on them, adding N(0, noise²) to every target.
//
// Parameters:
//   - n: number of samples, > 0
//   - noise: standard deviation of the additive Gaussian noise, ≥ 0
//   - rng: random source for inputs and noise
//
// Returns the inputs [n, 2] and the targets [n].
func SampleFranke(n int, noise float64, rng *rand.Rand) (*mat.Dense, *mat.VecDense, error) {
	if n <= 0 {
		return nil, nil, errors.Wrapf(nn.ErrConfig, "sample count must be positive, got %d", n)
	}
	if !(noise >= 0) {
		return nil, nil, errors.Wrapf(nn.ErrConfig, "noise must be non-negative, got %v", noise)
	}
	if rng == nil {
		return nil, nil, errors.Wrap(nn.ErrConfig, "nil random source")
	}

	x := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := range n {
		a, b := rng.Float64(), rng.Float64()
		x.Set(i, 0, a)
		x.Set(i, 1, b)
		y.SetVec(i, Franke(a, b)+noise*rng.NormFloat64())
	}
	return x, y, nil
}

// XOR returns the four-point exclusive-or set.
func XOR() (*mat.Dense, *mat.VecDense) {
	x := mat.NewDense(4, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
	})
	y := mat.NewVecDense(4, []float64{0, 1, 1, 0})
	return x, y
}

// XORDataset returns the XOR set as both the training and the test split.
func XORDataset() nn.Dataset {
	x, y := XOR()
	return nn.Dataset{XTrain: x, XTest: x, YTrain: y, YTest: y}
}
