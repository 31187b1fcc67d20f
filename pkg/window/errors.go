package window

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientSeriesLength is returned when the series is too short
	// for the maximum lag and the number of steps
	ErrInsufficientSeriesLength = errors.New("insufficient series length")

	// ErrInvalidSteps is returned when steps is below 1
	ErrInvalidSteps = errors.New("steps must be a positive integer")

	// ErrInvalidLags is returned for an empty lag list, non-positive lags, or
	// lags beyond the maximum lag
	ErrInvalidLags = errors.New("invalid lags")
)

// InsufficientLengthError reports the maximum lag together with the bound it
// has to stay below
type InsufficientLengthError struct {
	MaxLag int
	Bound  int // len(series) - (steps - 1)
}

func (e *InsufficientLengthError) Error() string {
	return fmt.Sprintf(
		"The maximum lag (%d) must be less than the length of the series minus the number of steps (%d).",
		e.MaxLag, e.Bound,
	)
}

// Unwrap lets errors.Is match ErrInsufficientSeriesLength
func (e *InsufficientLengthError) Unwrap() error {
	return ErrInsufficientSeriesLength
}
