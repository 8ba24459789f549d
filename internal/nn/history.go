package nn

// Metric names recorded in a History.
const (
	TrainMSE = "Train MSE"
	TestMSE  = "Test MSE"
)

// History maps a metric name to its per-epoch values, in epoch order.
//
// It is created when training starts, gets one value per metric per epoch,
// and is never pruned.
type History map[string][]float64

func newHistory(epochs int) History {
	return History{
		TrainMSE: make([]float64, 0, epochs),
		TestMSE:  make([]float64, 0, epochs),
	}
}

func (h History) record(trainMSE, testMSE float64) {
	h[TrainMSE] = append(h[TrainMSE], trainMSE)
	h[TestMSE] = append(h[TestMSE], testMSE)
}

// Epochs returns the number of recorded epochs.
func (h History) Epochs() int {
	return len(h[TrainMSE])
}

// Last returns the most recent value of a metric.
func (h History) Last(metric string) (float64, bool) {
	v := h[metric]
	if len(v) == 0 {
		return 0, false
	}
	return v[len(v)-1], true
}
