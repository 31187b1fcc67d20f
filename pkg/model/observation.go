package model

import "time"

// Observation is a single value of a named series at a point in time
type Observation struct {
	Level     string    `json:"level"`
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Values extracts the values of observations in order
func Values(obs []Observation) []float64 {
	values := make([]float64, len(obs))
	for i, o := range obs {
		values[i] = o.Value
	}
	return values
}

// Timestamps extracts the timestamps of observations in order
func Timestamps(obs []Observation) []time.Time {
	ts := make([]time.Time, len(obs))
	for i, o := range obs {
		ts[i] = o.Timestamp
	}
	return ts
}
