package nn

import (
	"github.com/pkg/errors"
)

// Error categories. Every error returned by this package matches one of
// these through errors.Is.
var (
	// ErrConfig reports an invalid construction or training parameter.
	ErrConfig = errors.New("configuration error")

	// ErrShape reports an input whose dimensions do not match a layer.
	ErrShape = errors.New("shape mismatch")

	// ErrState reports a call made out of order (e.g. Backward before Forward).
	ErrState = errors.New("invalid layer state")
)

// Specific configuration errors.
var (
	ErrUnsupportedActivation = errors.Wrap(ErrConfig, "unsupported activation")
	ErrUnsupportedInit       = errors.Wrap(ErrConfig, "unsupported weight initialization")
	ErrWidths                = errors.Wrap(ErrConfig, "invalid width sequence")
	ErrBatchSize             = errors.Wrap(ErrConfig, "invalid batch size")
)

// ErrConstantTarget is returned by R2 when every target is equal and the
// score is undefined.
var ErrConstantTarget = errors.Wrap(ErrShape, "constant target")

func configErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrConfig, format, args...)
}

func shapeErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrShape, format, args...)
}

func stateErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrState, format, args...)
}
