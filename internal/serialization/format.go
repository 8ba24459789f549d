package serialization

import (
	"time"
)

// Format constants.
const (
	MagicBytes      = "FFNN"
	FormatVersion   = 1  // v1: fixed header with SHA-256 checksum
	HeaderAlignment = 64 // Tensor data starts on a 64-byte boundary
	FixedHeaderSize = 64 // Fixed header size (0x40 bytes)
	ChecksumSize    = 32 // SHA-256 checksum size
	ChecksumOffset  = 0x20
	DTypeFloat64    = "float64"
	float64Size     = 8
)

// Flags for the .ffnn format.
const (
	FlagHasTraining uint32 = 1 << 0 // bit 0: training metadata included
	FlagHasMetadata uint32 = 1 << 1 // bit 1: custom metadata included
)

// Header represents the JSON header in a .ffnn file.
type Header struct {
	FormatVersion int               `json:"format_version"`     // Version of the .ffnn format
	ModelID       string            `json:"model_id"`           // Unique id stamped at save time
	ModelType     string            `json:"model_type"`         // Type of model (e.g., "FeedForward")
	CreatedAt     time.Time         `json:"created_at"`         // When the file was created
	Network       NetworkMeta       `json:"network"`            // Architecture and hyperparameters
	Tensors       []TensorMeta      `json:"tensors"`            // Tensor metadata
	Metadata      map[string]string `json:"metadata,omitempty"` // Custom metadata
	Training      *TrainingMeta     `json:"training,omitempty"` // Training summary (optional)
}

// NetworkMeta describes the architecture a set of tensors belongs to.
type NetworkMeta struct {
	Widths       []int    `json:"widths"`
	RegParam     float64  `json:"reg_param"`
	LearningRate float64  `json:"learning_rate"`
	FreezeOutput bool     `json:"freeze_output"`
	Activations  []string `json:"activations"`  // One per layer, Output last
	Initializers []string `json:"initializers"` // One per layer, Output last
}

// TrainingMeta summarizes the run that produced the weights.
type TrainingMeta struct {
	Epochs   int     `json:"epochs"`
	TrainMSE float64 `json:"train_mse"`
	TestMSE  float64 `json:"test_mse"`
}

// TensorMeta describes a tensor in the .ffnn file.
type TensorMeta struct {
	Name   string `json:"name"`   // Tensor name (e.g., "hidden.0.weight")
	DType  string `json:"dtype"`  // Always "float64"
	Shape  []int  `json:"shape"`  // Tensor shape
	Offset int64  `json:"offset"` // Bytes from the start of the data section
	Size   int64  `json:"size"`   // Size in bytes
}

// Tensor is a named float64 array in row-major order.
type Tensor struct {
	Name  string
	Shape []int
	Data  []float64
}

// NumElements returns the product of the shape.
func (t Tensor) NumElements() int {
	return numElements(t.Shape)
}

func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
