package nn

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MSE computes the mean squared error between predictions and targets.
//
// Loss = mean((pred - y)²)
//
// Returns an error matching ErrShape if the lengths differ or are zero.
func MSE(pred, y mat.Vector) (float64, error) {
	p, t, err := residualInputs(pred, y)
	if err != nil {
		return 0, err
	}
	diff := make([]float64, len(p))
	floats.SubTo(diff, p, t)
	return floats.Dot(diff, diff) / float64(len(diff)), nil
}

// R2 computes the coefficient of determination 1 - SS_res / SS_tot.
//
// Returns an error matching ErrShape if the lengths differ or are zero, and
// ErrConstantTarget if SS_tot is zero.
func R2(pred, y mat.Vector) (float64, error) {
	p, t, err := residualInputs(pred, y)
	if err != nil {
		return 0, err
	}
	mean := stat.Mean(t, nil)
	var ssRes, ssTot float64
	for i := range t {
		r := t[i] - p[i]
		ssRes += r * r
		d := t[i] - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return 0, errors.Wrapf(ErrConstantTarget, "all %d targets equal %v", len(t), t[0])
	}
	return 1 - ssRes/ssTot, nil
}

func residualInputs(pred, y mat.Vector) ([]float64, []float64, error) {
	if pred == nil || y == nil {
		return nil, nil, shapeErrorf("nil prediction or target")
	}
	if pred.Len() != y.Len() {
		return nil, nil, shapeErrorf("%d predictions for %d targets", pred.Len(), y.Len())
	}
	if pred.Len() == 0 {
		return nil, nil, shapeErrorf("empty prediction")
	}
	return vecData(pred), vecData(y), nil
}

func vecData(v mat.Vector) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
