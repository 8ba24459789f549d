package nn

import (
	"fmt"
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/born-ml/ffnn/internal/serialization"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ModelType is the model_type recorded in saved files.
const ModelType = "FeedForward"

// StateDict returns every parameter as a named tensor, in layer order.
//
// Names are "hidden.<i>.weight", "hidden.<i>.bias", "output.weight" and
// "output.bias". The Output weight is stored in its squeezed shape [n_input].
func (n *Network) StateDict() []serialization.Tensor {
	tensors := make([]serialization.Tensor, 0, 2*(len(n.hidden)+1))
	for i, h := range n.hidden {
		tensors = append(tensors,
			serialization.Tensor{
				Name:  fmt.Sprintf("hidden.%d.weight", i),
				Shape: []int{h.nIn, h.nOut},
				Data:  append([]float64(nil), h.weights.RawMatrix().Data...),
			},
			serialization.Tensor{
				Name:  fmt.Sprintf("hidden.%d.bias", i),
				Shape: []int{h.nOut},
				Data:  append([]float64(nil), h.bias.RawVector().Data...),
			},
		)
	}
	return append(tensors,
		serialization.Tensor{
			Name:  "output.weight",
			Shape: []int{n.output.nIn},
			Data:  append([]float64(nil), n.output.weights.RawVector().Data...),
		},
		serialization.Tensor{
			Name:  "output.bias",
			Shape: []int{1},
			Data:  []float64{n.output.bias.AtVec(0)},
		},
	)
}

// LoadStateDict copies parameters from named tensors into the network.
//
// Every parameter must be present with the exact shape the network declares.
func (n *Network) LoadStateDict(tensors map[string]serialization.Tensor) error {
	for i, h := range n.hidden {
		if err := loadInto(tensors, fmt.Sprintf("hidden.%d.weight", i), []int{h.nIn, h.nOut}, h.weights.RawMatrix().Data); err != nil {
			return err
		}
		if err := loadInto(tensors, fmt.Sprintf("hidden.%d.bias", i), []int{h.nOut}, h.bias.RawVector().Data); err != nil {
			return err
		}
	}
	if err := loadInto(tensors, "output.weight", []int{n.output.nIn}, n.output.weights.RawVector().Data); err != nil {
		return err
	}
	return loadInto(tensors, "output.bias", []int{1}, n.output.bias.RawVector().Data)
}

func loadInto(tensors map[string]serialization.Tensor, name string, shape []int, dst []float64) error {
	t, ok := tensors[name]
	if !ok {
		return errors.Errorf("missing %s in state dict", name)
	}
	if !slices.Equal(t.Shape, shape) || len(t.Data) != len(dst) {
		return shapeErrorf("%s: expected shape %v, got %v", name, shape, t.Shape)
	}
	copy(dst, t.Data)
	return nil
}

// Save writes the network to a .ffnn file.
//
// If hist is non-nil, the epoch count and last recorded metrics are stored
// alongside the weights. A diverged run (NaN or Inf metrics) is saved without
// the training summary.
func (n *Network) Save(path string, hist History) error {
	return n.SaveWithMetadata(path, hist, nil)
}

// SaveWithMetadata is Save with free-form string metadata (dataset, seed,
// ...) recorded in the header. Load returns it in Header.Metadata.
func (n *Network) SaveWithMetadata(path string, hist History, metadata map[string]string) error {
	header := serialization.Header{
		ModelID:   uuid.NewString(),
		ModelType: ModelType,
		CreatedAt: time.Now().UTC(),
		Metadata:  maps.Clone(metadata),
		Network: serialization.NetworkMeta{
			Widths:       n.Widths(),
			RegParam:     n.regParam,
			LearningRate: n.learningRate,
			FreezeOutput: n.freezeOutput,
		},
	}
	for _, l := range n.Layers() {
		header.Network.Activations = append(header.Network.Activations, l.ActivationName())
		header.Network.Initializers = append(header.Network.Initializers, l.InitializerName())
	}
	trainMSE, _ := hist.Last(TrainMSE)
	testMSE, _ := hist.Last(TestMSE)
	if hist.Epochs() > 0 && finite(trainMSE) && finite(testMSE) {
		header.Training = &serialization.TrainingMeta{
			Epochs:   hist.Epochs(),
			TrainMSE: trainMSE,
			TestMSE:  testMSE,
		}
	}

	if err := serialization.WriteFile(path, header, n.StateDict()); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Load reads a network written by Save.
//
// The architecture and hyperparameters come from the file header; the
// returned header also carries the training summary, if any.
func Load(path string) (*Network, *serialization.Header, error) {
	header, tensors, err := serialization.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "load %s", path)
	}
	if header.ModelType != ModelType {
		return nil, nil, configErrorf("load %s: model type %q, want %q", path, header.ModelType, ModelType)
	}

	meta := header.Network
	cfg := Config{
		Widths:       meta.Widths,
		RegParam:     meta.RegParam,
		LearningRate: meta.LearningRate,
		FreezeOutput: meta.FreezeOutput,
	}
	if k := len(meta.Activations); k > 0 {
		cfg.OutputActivation = meta.Activations[k-1]
		if k > 1 {
			cfg.HiddenActivation = meta.Activations[0]
		}
	}
	if k := len(meta.Initializers); k > 0 {
		cfg.OutputInit = meta.Initializers[k-1]
		if k > 1 {
			cfg.HiddenInit = meta.Initializers[0]
		}
	}

	// Parameters are overwritten below; the seed only fills the buffers.
	n, err := New(cfg, rand.New(rand.NewPCG(0, 0)))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "load %s", path)
	}
	if err := n.LoadStateDict(tensors); err != nil {
		return nil, nil, errors.Wrapf(err, "load %s", path)
	}
	return n, header, nil
}
