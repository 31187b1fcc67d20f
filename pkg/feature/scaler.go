package feature

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmptySeries is returned when fitting on no data
	ErrEmptySeries = errors.New("cannot fit scaler on an empty series")

	// ErrNotFitted is returned when transforming before Fit
	ErrNotFitted = errors.New("scaler is not fitted")
)

// Scaler learns a per-series transformation and applies it
type Scaler interface {
	Fit(values []float64) error
	Transform(values []float64) ([]float64, error)
	InverseTransform(values []float64) ([]float64, error)
}

// Factory creates a fresh Scaler, one per series
type Factory func() Scaler

// MinMaxScaler maps the fitted range onto [0, 1]
type MinMaxScaler struct {
	min    float64
	scale  float64
	fitted bool
}

// NewMinMaxScaler creates an unfitted min-max scaler
func NewMinMaxScaler() Scaler {
	return &MinMaxScaler{}
}

// Fit records the minimum and range of values
func (s *MinMaxScaler) Fit(values []float64) error {
	if len(values) == 0 {
		return ErrEmptySeries
	}

	s.min = floats.Min(values)
	s.scale = floats.Max(values) - s.min
	if s.scale == 0 {
		s.scale = 1 // constant series maps to 0
	}
	s.fitted = true
	return nil
}

// Transform scales values into the fitted range
func (s *MinMaxScaler) Transform(values []float64) ([]float64, error) {
	if !s.fitted {
		return nil, ErrNotFitted
	}

	result := make([]float64, len(values))
	for i, v := range values {
		result[i] = (v - s.min) / s.scale
	}
	return result, nil
}

// InverseTransform maps scaled values back to the original units
func (s *MinMaxScaler) InverseTransform(values []float64) ([]float64, error) {
	if !s.fitted {
		return nil, ErrNotFitted
	}

	result := make([]float64, len(values))
	for i, v := range values {
		result[i] = v*s.scale + s.min
	}
	return result, nil
}

// StandardScaler removes the mean and divides by the population standard deviation
type StandardScaler struct {
	mean   float64
	std    float64
	fitted bool
}

// NewStandardScaler creates an unfitted standard scaler
func NewStandardScaler() Scaler {
	return &StandardScaler{}
}

// Fit records mean and standard deviation of values
func (s *StandardScaler) Fit(values []float64) error {
	if len(values) == 0 {
		return ErrEmptySeries
	}

	s.mean, s.std = meanStd(values)
	if s.std == 0 {
		s.std = 1
	}
	s.fitted = true
	return nil
}

// Transform z-scores values with the fitted statistics
func (s *StandardScaler) Transform(values []float64) ([]float64, error) {
	if !s.fitted {
		return nil, ErrNotFitted
	}

	result := make([]float64, len(values))
	for i, v := range values {
		result[i] = (v - s.mean) / s.std
	}
	return result, nil
}

// InverseTransform maps z-scores back to the original units
func (s *StandardScaler) InverseTransform(values []float64) ([]float64, error) {
	if !s.fitted {
		return nil, ErrNotFitted
	}

	result := make([]float64, len(values))
	for i, v := range values {
		result[i] = v*s.std + s.mean
	}
	return result, nil
}

// meanStd calculates mean and population standard deviation
func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	return mean, math.Sqrt(variance)
}
