package serialization

import (
	"errors"
	"testing"
)

// TestValidateTensorOffsets checks overlap and bounds detection.
func TestValidateTensorOffsets(t *testing.T) {
	tests := []struct {
		name     string
		tensors  []TensorMeta
		dataSize int64
		wantErr  error
	}{
		{
			name: "contiguous",
			tensors: []TensorMeta{
				{Name: "a", Offset: 0, Size: 100},
				{Name: "b", Offset: 100, Size: 200},
			},
			dataSize: 300,
		},
		{
			name: "overlap by one byte",
			tensors: []TensorMeta{
				{Name: "a", Offset: 0, Size: 100},
				{Name: "b", Offset: 99, Size: 100},
			},
			dataSize: 300,
			wantErr:  ErrOffsetOverlap,
		},
		{
			name:     "past the end",
			tensors:  []TensorMeta{{Name: "a", Offset: 0, Size: 101}},
			dataSize: 100,
			wantErr:  ErrOutOfBounds,
		},
		{
			name:     "negative offset",
			tensors:  []TensorMeta{{Name: "a", Offset: -8, Size: 8}},
			dataSize: 100,
			wantErr:  ErrNegativeOffset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTensorOffsets(tt.tensors, tt.dataSize)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("expected *ValidationError, got %T", err)
			}
		})
	}
}

// TestValidateTensorName rejects path-like and empty names.
func TestValidateTensorName(t *testing.T) {
	valid := []string{"hidden.0.weight", "output.bias"}
	for _, name := range valid {
		if err := ValidateTensorName(name); err != nil {
			t.Errorf("ValidateTensorName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "../etc/passwd", "a/b", "a\\b", "a\x00b"}
	for _, name := range invalid {
		if err := ValidateTensorName(name); !errors.Is(err, ErrInvalidTensorName) {
			t.Errorf("ValidateTensorName(%q) = %v, want ErrInvalidTensorName", name, err)
		}
	}
}

// TestValidateHeader_ShapeSize rejects shapes that disagree with sizes.
func TestValidateHeader_ShapeSize(t *testing.T) {
	h := &Header{Tensors: []TensorMeta{
		{Name: "w", DType: DTypeFloat64, Shape: []int{2, 3}, Offset: 0, Size: 40},
	}}
	if err := ValidateHeader(h, 48, ValidationStrict); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("got %v, want ErrShapeMismatch", err)
	}

	h.Tensors[0].Size = 48
	if err := ValidateHeader(h, 48, ValidationStrict); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	h.Tensors = append(h.Tensors, h.Tensors[0])
	if err := ValidateHeader(h, 96, ValidationNormal); !errors.Is(err, ErrInvalidTensorName) {
		t.Errorf("duplicate names: got %v, want ErrInvalidTensorName", err)
	}
	if err := ValidateHeader(h, 0, ValidationNone); err != nil {
		t.Errorf("ValidationNone should skip checks, got %v", err)
	}
}
