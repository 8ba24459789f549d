package nn

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Initializer names understood by LookupInitializer.
const (
	XavierInit  = "xavier"
	KaimingInit = "kaiming"
)

// Initializer produces the initial parameters of a layer.
//
// It returns a weight matrix of shape [nIn, nOut] and a bias vector of
// length nOut. Randomness comes only from rng so that runs are reproducible.
type Initializer func(nIn, nOut int, rng *rand.Rand) (*mat.Dense, *mat.VecDense)

var initializers = map[string]Initializer{
	XavierInit:  Xavier,
	KaimingInit: Kaiming,
}

// LookupInitializer resolves a weight initializer by name.
//
// Returns an error matching ErrUnsupportedInit (and ErrConfig) for unknown
// names.
func LookupInitializer(name string) (Initializer, error) {
	fn, ok := initializers[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedInit, "%q", name)
	}
	return fn, nil
}

// InitializerNames returns the registered initializer names in sorted order.
func InitializerNames() []string {
	names := make([]string, 0, len(initializers))
	for name := range initializers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Xavier draws weights from N(0, 1/nIn). Biases start at zero.
func Xavier(nIn, nOut int, rng *rand.Rand) (*mat.Dense, *mat.VecDense) {
	return scaledNormal(nIn, nOut, math.Sqrt(1/float64(nIn)), rng)
}

// Kaiming draws weights from N(0, 2/nIn), the He scaling for relu layers.
// Biases start at zero.
func Kaiming(nIn, nOut int, rng *rand.Rand) (*mat.Dense, *mat.VecDense) {
	return scaledNormal(nIn, nOut, math.Sqrt(2/float64(nIn)), rng)
}

func scaledNormal(nIn, nOut int, std float64, rng *rand.Rand) (*mat.Dense, *mat.VecDense) {
	data := make([]float64, nIn*nOut)
	for i := range data {
		data[i] = rng.NormFloat64() * std
	}
	return mat.NewDense(nIn, nOut, data), mat.NewVecDense(nOut, nil)
}
