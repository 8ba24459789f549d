package nn

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Dataset is the train/test split handed over by a data source.
type Dataset struct {
	XTrain *mat.Dense    // [n_train, n_features]
	XTest  *mat.Dense    // [n_test, n_features]
	YTrain *mat.VecDense // [n_train]
	YTest  *mat.VecDense // [n_test]
}

// Validate checks that every part is present and that rows, targets and
// feature counts agree. nFeatures ≤ 0 skips the feature check.
func (d Dataset) Validate(nFeatures int) error {
	if d.XTrain == nil || d.XTest == nil || d.YTrain == nil || d.YTest == nil {
		return configErrorf("dataset: train and test inputs and targets are all required")
	}
	trainRows, trainCols := d.XTrain.Dims()
	testRows, testCols := d.XTest.Dims()
	if trainRows != d.YTrain.Len() {
		return shapeErrorf("dataset: %d training rows but %d training targets", trainRows, d.YTrain.Len())
	}
	if testRows != d.YTest.Len() {
		return shapeErrorf("dataset: %d test rows but %d test targets", testRows, d.YTest.Len())
	}
	if trainCols != testCols {
		return shapeErrorf("dataset: %d training features but %d test features", trainCols, testCols)
	}
	if nFeatures > 0 && trainCols != nFeatures {
		return shapeErrorf("dataset: network expects %d features, data has %d", nFeatures, trainCols)
	}
	return nil
}

// TrainConfig holds configuration for Network.Train.
type TrainConfig struct {
	Epochs    int // Number of passes over the training set, > 0
	BatchSize int // Samples per mini-batch, 0 < BatchSize ≤ n_train

	// OnEpoch, if set, is called after every epoch with the 1-based epoch
	// number and the metrics just recorded.
	OnEpoch func(epoch int, trainMSE, testMSE float64)
}

// Train runs the mini-batch gradient descent loop.
//
// Each epoch shuffles the training indices with rng, cuts them into
// floor(n_train / BatchSize) consecutive batches (leftover samples sit the
// epoch out), runs Backprop on each, then records train and test MSE.
//
// Parameters:
//   - data: train/test split with widths[0] features
//   - cfg: epochs and batch size
//   - rng: source for the per-epoch shuffle
//
// Returns the History, one entry per completed epoch. On error the History
// holds the epochs completed so far.
func (n *Network) Train(data Dataset, cfg TrainConfig, rng *rand.Rand) (History, error) {
	if rng == nil {
		return nil, configErrorf("nil random source")
	}
	if cfg.Epochs <= 0 {
		return nil, configErrorf("epochs must be positive, got %d", cfg.Epochs)
	}
	if err := data.Validate(n.widths[0]); err != nil {
		return nil, err
	}
	nTrain, nIn := data.XTrain.Dims()
	if cfg.BatchSize <= 0 || cfg.BatchSize > nTrain {
		return nil, errors.Wrapf(ErrBatchSize, "batch size %d with %d training samples", cfg.BatchSize, nTrain)
	}

	nBatches := nTrain / cfg.BatchSize
	idx := make([]int, nTrain)
	for i := range idx {
		idx[i] = i
	}
	xb := mat.NewDense(cfg.BatchSize, nIn, nil)
	yb := mat.NewVecDense(cfg.BatchSize, nil)

	hist := newHistory(cfg.Epochs)
	for epoch := range cfg.Epochs {
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		for b := range nBatches {
			for k, row := range idx[b*cfg.BatchSize : (b+1)*cfg.BatchSize] {
				xb.SetRow(k, data.XTrain.RawRowView(row))
				yb.SetVec(k, data.YTrain.AtVec(row))
			}
			if err := n.Backprop(xb, yb); err != nil {
				return hist, errors.Wrapf(err, "epoch %d, batch %d", epoch+1, b)
			}
		}

		trainMSE, err := n.Score(data.XTrain, data.YTrain)
		if err != nil {
			return hist, errors.Wrapf(err, "epoch %d: train score", epoch+1)
		}
		testMSE, err := n.Score(data.XTest, data.YTest)
		if err != nil {
			return hist, errors.Wrapf(err, "epoch %d: test score", epoch+1)
		}
		hist.record(trainMSE, testMSE)
		if cfg.OnEpoch != nil {
			cfg.OnEpoch(epoch+1, trainMSE, testMSE)
		}
	}
	return hist, nil
}
