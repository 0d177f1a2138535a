package core

import "errors"

var (
	// ErrInvalidParameter is wrapped by every effect, filter and quantizer
	// constructor when a parameter is out of range or not finite.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrSilentSignal marks an all-zero buffer whose normalization was skipped.
	// It is informational and never aborts processing.
	ErrSilentSignal = errors.New("silent signal")
)
