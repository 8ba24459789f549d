// Package sweep trains one network per (learning rate, L2 penalty) pair and
// reports the resulting test error of each.
//
// Every cell builds its own Network and random source, so cells share no
// mutable state and run on separate goroutines. The dataset is shared and
// only read.
package sweep

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/born-ml/ffnn/internal/nn"
	"github.com/born-ml/ffnn/internal/parallel"
	"github.com/pkg/errors"
)

// Grid lists the hyperparameter values to cross.
type Grid struct {
	LearningRates []float64
	RegParams     []float64
}

// Config holds everything but the swept hyperparameters.
type Config struct {
	Network nn.Config // LearningRate and RegParam are overwritten per cell
	Train   nn.TrainConfig
	Seed    uint64

	// Workers bounds concurrent trainings; ≤ 0 means one per CPU.
	Workers int
}

// Result is the outcome of one cell.
type Result struct {
	LearningRate float64
	RegParam     float64
	TrainMSE     float64
	TestMSE      float64
	R2           float64 // NaN when the test targets are constant
	Err          error
}

// Run trains every cell of the grid on ds.
//
// Results come back in row-major order: learning rates outer, penalties
// inner. A failing cell records its error in Result.Err and does not stop
// the others. Cell (i, j) seeds its generator with (Seed, i*len(RegParams)+j),
// so results do not depend on scheduling.
func Run(ds nn.Dataset, grid Grid, cfg Config) ([]Result, error) {
	if len(grid.LearningRates) == 0 || len(grid.RegParams) == 0 {
		return nil, errors.Wrap(nn.ErrConfig, "sweep: empty grid")
	}
	if err := ds.Validate(0); err != nil {
		return nil, err
	}
	// Per-cell OnEpoch calls would interleave.
	cfg.Train.OnEpoch = nil

	cols := len(grid.RegParams)
	results := make([]Result, len(grid.LearningRates)*cols)
	pool := parallel.Config{Enabled: true, NumWorkers: cfg.Workers}
	parallel.ForGrid(len(grid.LearningRates), cols, func(r, c int) {
		cell := r*cols + c
		results[cell] = runCell(ds, grid.LearningRates[r], grid.RegParams[c], cfg, uint64(cell))
	}, pool)
	return results, nil
}

func runCell(ds nn.Dataset, lr, reg float64, cfg Config, stream uint64) Result {
	res := Result{LearningRate: lr, RegParam: reg}

	netCfg := cfg.Network
	netCfg.Widths = slices.Clone(netCfg.Widths)
	netCfg.LearningRate = lr
	netCfg.RegParam = reg

	rng := rand.New(rand.NewPCG(cfg.Seed, stream))
	net, err := nn.New(netCfg, rng)
	if err != nil {
		res.Err = err
		return res
	}
	hist, err := net.Train(ds, cfg.Train, rng)
	if err != nil {
		res.Err = err
		return res
	}
	res.TrainMSE, _ = hist.Last(nn.TrainMSE)
	res.TestMSE, _ = hist.Last(nn.TestMSE)

	pred, err := net.Predict(ds.XTest)
	if err != nil {
		res.Err = err
		return res
	}
	res.R2, err = nn.R2(pred, ds.YTest)
	switch {
	case errors.Is(err, nn.ErrConstantTarget):
		res.R2 = math.NaN()
	case err != nil:
		res.Err = err
	}
	return res
}

// Best returns the successful result with the lowest finite test MSE.
func Best(results []Result) (Result, bool) {
	var best Result
	found := false
	for _, r := range results {
		if r.Err != nil || math.IsNaN(r.TestMSE) || math.IsInf(r.TestMSE, 0) {
			continue
		}
		if !found || r.TestMSE < best.TestMSE {
			best, found = r, true
		}
	}
	return best, found
}
