package serialization

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// ReaderOptions configures Read.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// Read decodes a .ffnn stream with strict validation.
//
// Returns the header and the tensors keyed by name.
func Read(r io.Reader) (*Header, map[string]Tensor, error) {
	return ReadWithOptions(r, ReaderOptions{ValidationLevel: ValidationStrict})
}

// ReadWithOptions decodes a .ffnn stream with custom options.
func ReadWithOptions(r io.Reader, opts ReaderOptions) (*Header, map[string]Tensor, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read")
	}
	if len(raw) < FixedHeaderSize {
		return nil, nil, errors.Wrapf(ErrTruncated, "%d bytes, fixed header needs %d", len(raw), FixedHeaderSize)
	}

	fixed, body := raw[:FixedHeaderSize], raw[FixedHeaderSize:]
	if string(fixed[0:4]) != MagicBytes {
		return nil, nil, ErrInvalidMagic
	}
	if v := binary.LittleEndian.Uint32(fixed[4:8]); v != FormatVersion {
		return nil, nil, errors.Wrapf(ErrUnsupportedVersion, "got %d, expected %d", v, FormatVersion)
	}

	if !opts.SkipChecksumValidation {
		var stored [ChecksumSize]byte
		copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])
		if err := ValidateChecksum(ComputeChecksum(body), stored); err != nil {
			return nil, nil, err
		}
	}

	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	if headerSize > MaxHeaderSize {
		return nil, nil, ErrHeaderTooLarge
	}
	if headerSize > uint64(len(body)) {
		return nil, nil, errors.Wrapf(ErrTruncated, "header of %d bytes, %d available", headerSize, len(body))
	}

	var header Header
	if err := json.Unmarshal(body[:headerSize], &header); err != nil {
		return nil, nil, errors.Wrap(err, "failed to parse header")
	}

	dataStart := int64(FixedHeaderSize) + int64(headerSize)
	dataStart += (HeaderAlignment - dataStart%HeaderAlignment) % HeaderAlignment
	if dataStart > int64(len(raw)) {
		return nil, nil, errors.Wrap(ErrTruncated, "missing data section")
	}
	data := raw[dataStart:]

	if err := ValidateHeader(&header, int64(len(data)), opts.ValidationLevel); err != nil {
		return nil, nil, errors.Wrap(err, "validation failed")
	}

	dataSize := int64(len(data))
	tensors := make(map[string]Tensor, len(header.Tensors))
	for _, meta := range header.Tensors {
		// Offset and Size come from the file; compare without adding them.
		if meta.Offset < 0 || meta.Size < 0 || meta.Offset > dataSize || meta.Size > dataSize-meta.Offset {
			return nil, nil, errors.Wrapf(ErrOutOfBounds, "tensor %q", meta.Name)
		}
		if meta.Size%float64Size != 0 {
			return nil, nil, errors.Wrapf(ErrShapeMismatch, "tensor %q: %d bytes is not a whole number of float64", meta.Name, meta.Size)
		}
		chunk := data[meta.Offset : meta.Offset+meta.Size]
		values := make([]float64, len(chunk)/float64Size)
		for i := range values {
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(chunk[i*float64Size:]))
		}
		tensors[meta.Name] = Tensor{
			Name:  meta.Name,
			Shape: append([]int(nil), meta.Shape...),
			Data:  values,
		}
	}
	return &header, tensors, nil
}

// ReadFile reads a .ffnn file with strict validation.
func ReadFile(path string) (*Header, map[string]Tensor, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open file")
	}
	defer f.Close()
	return Read(f)
}
