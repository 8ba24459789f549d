package data

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/ffnn/internal/nn"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Split shuffles the rows of x and y with rng and cuts them into a test part
// holding ceil(testSize * n) samples and a training part holding the rest.
//
// testSize must lie in (0, 1) and both parts must end up non-empty.
func Split(x *mat.Dense, y *mat.VecDense, testSize float64, rng *rand.Rand) (nn.Dataset, error) {
	if x == nil || y == nil {
		return nn.Dataset{}, errors.Wrap(nn.ErrConfig, "split: nil inputs or targets")
	}
	if rng == nil {
		return nn.Dataset{}, errors.Wrap(nn.ErrConfig, "split: nil random source")
	}
	n, cols := x.Dims()
	if n != y.Len() {
		return nn.Dataset{}, errors.Wrapf(nn.ErrShape, "split: %d rows but %d targets", n, y.Len())
	}
	if !(testSize > 0 && testSize < 1) {
		return nn.Dataset{}, errors.Wrapf(nn.ErrConfig, "split: test size must be in (0, 1), got %v", testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTrain < 1 || nTest < 1 {
		return nn.Dataset{}, errors.Wrapf(nn.ErrConfig, "split: %d samples at test size %v leave an empty part", n, testSize)
	}

	perm := rng.Perm(n)
	pick := func(rows []int) (*mat.Dense, *mat.VecDense) {
		xs := mat.NewDense(len(rows), cols, nil)
		ys := mat.NewVecDense(len(rows), nil)
		for k, r := range rows {
			xs.SetRow(k, x.RawRowView(r))
			ys.SetVec(k, y.AtVec(r))
		}
		return xs, ys
	}
	xTest, yTest := pick(perm[:nTest])
	xTrain, yTrain := pick(perm[nTest:])
	return nn.Dataset{XTrain: xTrain, XTest: xTest, YTrain: yTrain, YTest: yTest}, nil
}
