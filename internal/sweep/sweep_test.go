package sweep_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/ffnn/internal/data"
	"github.com/born-ml/ffnn/internal/nn"
	"github.com/born-ml/ffnn/internal/sweep"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func frankeSplit(t *testing.T) nn.Dataset {
	t.Helper()
	rng := rand.New(rand.NewPCG(11, 12))
	x, y, err := data.SampleFranke(120, 0.05, rng)
	require.NoError(t, err)
	ds, err := data.Split(x, y, 0.25, rng)
	require.NoError(t, err)
	return ds
}

func TestRun_Grid(t *testing.T) {
	ds := frankeSplit(t)
	grid := sweep.Grid{
		LearningRates: []float64{0.01, 0.05},
		RegParams:     []float64{0, 1e-3, 1e-1},
	}
	cfg := sweep.Config{
		Network: nn.Config{Widths: []int{2, 8, 1}},
		Train:   nn.TrainConfig{Epochs: 10, BatchSize: 10},
		Seed:    3,
		Workers: 4,
	}

	results, err := sweep.Run(ds, grid, cfg)
	require.NoError(t, err)
	require.Len(t, results, 6)
	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, grid.LearningRates[i/3], r.LearningRate)
		assert.Equal(t, grid.RegParams[i%3], r.RegParam)
		assert.False(t, math.IsNaN(r.TestMSE))
	}

	// Scheduling does not change the outcome.
	cfg.Workers = 1
	again, err := sweep.Run(ds, grid, cfg)
	require.NoError(t, err)
	assert.Equal(t, results, again)

	best, ok := sweep.Best(results)
	require.True(t, ok)
	for _, r := range results {
		assert.LessOrEqual(t, best.TestMSE, r.TestMSE)
	}
}

func TestRun_MatchesSingleTraining(t *testing.T) {
	ds := frankeSplit(t)
	cfg := sweep.Config{
		Network: nn.Config{Widths: []int{2, 4, 1}},
		Train:   nn.TrainConfig{Epochs: 5, BatchSize: 15},
		Seed:    9,
	}
	results, err := sweep.Run(ds, sweep.Grid{LearningRates: []float64{0.05}, RegParams: []float64{1e-3}}, cfg)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(9, 0))
	net, err := nn.NewNetwork([]int{2, 4, 1}, 1e-3, 0.05, rng)
	require.NoError(t, err)
	hist, err := net.Train(ds, cfg.Train, rng)
	require.NoError(t, err)
	want, _ := hist.Last(nn.TestMSE)
	assert.Equal(t, want, results[0].TestMSE)
}

func TestRun_CellErrors(t *testing.T) {
	ds := frankeSplit(t)
	results, err := sweep.Run(ds, sweep.Grid{
		LearningRates: []float64{0.05, -1},
		RegParams:     []float64{0},
	}, sweep.Config{
		Network: nn.Config{Widths: []int{2, 4, 1}},
		Train:   nn.TrainConfig{Epochs: 2, BatchSize: 10},
	})
	require.NoError(t, err)
	assert.NoError(t, results[0].Err)
	assert.True(t, errors.Is(results[1].Err, nn.ErrConfig))

	best, ok := sweep.Best(results)
	require.True(t, ok)
	assert.Equal(t, 0.05, best.LearningRate)
}

func TestRun_Errors(t *testing.T) {
	ds := frankeSplit(t)
	_, err := sweep.Run(ds, sweep.Grid{LearningRates: []float64{0.1}}, sweep.Config{})
	assert.True(t, errors.Is(err, nn.ErrConfig))
	_, err = sweep.Run(nn.Dataset{}, sweep.Grid{LearningRates: []float64{0.1}, RegParams: []float64{0}}, sweep.Config{})
	assert.True(t, errors.Is(err, nn.ErrConfig))

	_, ok := sweep.Best(nil)
	assert.False(t, ok)
}

func TestRun_ConstantTestTarget(t *testing.T) {
	ds := frankeSplit(t)
	n := ds.YTest.Len()
	ds.YTest = mat.NewVecDense(n, nil)

	results, err := sweep.Run(ds, sweep.Grid{LearningRates: []float64{0.05}, RegParams: []float64{0}}, sweep.Config{
		Network: nn.Config{Widths: []int{2, 4, 1}},
		Train:   nn.TrainConfig{Epochs: 2, BatchSize: 10},
		Seed:    1,
		Workers: 1,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.True(t, math.IsNaN(results[0].R2))

	best, ok := sweep.Best(results)
	require.True(t, ok)
	assert.Equal(t, 0.05, best.LearningRate)
}
