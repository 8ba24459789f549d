package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// Write encodes header and tensors in .ffnn format.
//
// Tensor metadata, the format version and flags are filled in from the
// tensors; the rest of the header is written as given. Tensors are stored
// in the order passed.
//
// Parameters:
//   - w: destination
//   - header: model description (Tensors is overwritten)
//   - tensors: named float64 tensors; len(Data) must equal the shape product
//
// Returns an error if a tensor is malformed or writing fails.
func Write(w io.Writer, header Header, tensors []Tensor) error {
	header.FormatVersion = FormatVersion
	header.Tensors = make([]TensorMeta, 0, len(tensors))

	var data bytes.Buffer
	var offset int64
	for _, t := range tensors {
		if err := ValidateTensorName(t.Name); err != nil {
			return err
		}
		if t.NumElements() != len(t.Data) {
			return &ValidationError{
				Type:    "shape_mismatch",
				Tensor:  t.Name,
				Details: fmt.Sprintf("shape %v holds %d values, got %d", t.Shape, t.NumElements(), len(t.Data)),
			}
		}
		size := int64(len(t.Data)) * float64Size
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   t.Name,
			DType:  DTypeFloat64,
			Shape:  append([]int(nil), t.Shape...),
			Offset: offset,
			Size:   size,
		})
		buf := make([]byte, float64Size)
		for _, v := range t.Data {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			data.Write(buf)
		}
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to marshal header")
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	// Everything after the fixed header is covered by the checksum.
	var body bytes.Buffer
	body.Write(headerJSON)
	pos := int64(FixedHeaderSize + len(headerJSON))
	if padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment; padding > 0 {
		body.Write(make([]byte, padding))
	}
	body.Write(data.Bytes())

	flags := uint32(0)
	if header.Training != nil {
		flags |= FlagHasTraining
	}
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	checksum := ComputeChecksum(body.Bytes())
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := w.Write(fixed); err != nil {
		return errors.Wrap(err, "failed to write fixed header")
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return errors.Wrap(err, "failed to write body")
	}
	return nil
}

// WriteFile writes a .ffnn file at path, replacing any existing file.
func WriteFile(path string, header Header, tensors []Tensor) error {
	var buf bytes.Buffer
	if err := Write(&buf, header, tensors); err != nil {
		return err
	}
	//nolint:gosec // G306: model files are not secrets
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "failed to write file")
	}
	return nil
}
