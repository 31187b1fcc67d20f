package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sample is one row of a supervised dataset: the lagged inputs read at a
// time origin and the values of the following steps
type Sample struct {
	SampleID  string    `json:"sample_id"`
	Level     string    `json:"level"`
	Origin    int       `json:"origin"`   // index of the most recent lagged observation
	TOrigin   time.Time `json:"t_origin"` // timestamp at Origin, zero when unknown
	Lags      []int     `json:"lags"`
	Inputs    []float64 `json:"inputs"`  // Inputs[j] = series[Origin-Lags[j]+1]
	Targets   []float64 `json:"targets"` // Targets[h] = series[Origin+h+1]
	CreatedAt time.Time `json:"created_at"`
}

// GenerateSampleID creates a deterministic sample ID
// Format: hash(level|origin|lags|steps)
func GenerateSampleID(level string, origin int, lags []int, steps int) string {
	parts := make([]string, len(lags))
	for i, l := range lags {
		parts[i] = strconv.Itoa(l)
	}
	data := fmt.Sprintf("%s|%d|%s|%d", level, origin, strings.Join(parts, ","), steps)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16])
}

// NewSample creates a Sample with a generated ID
func NewSample(level string, origin int, tOrigin time.Time, lags []int, inputs, targets []float64) *Sample {
	return &Sample{
		SampleID:  GenerateSampleID(level, origin, lags, len(targets)),
		Level:     level,
		Origin:    origin,
		TOrigin:   tOrigin,
		Lags:      lags,
		Inputs:    inputs,
		Targets:   targets,
		CreatedAt: time.Now(),
	}
}

// Steps returns the forecast horizon covered by the sample
func (s *Sample) Steps() int {
	return len(s.Targets)
}

// MaxLag returns the largest lag offset of the sample
func (s *Sample) MaxLag() int {
	max := 0
	for _, l := range s.Lags {
		if l > max {
			max = l
		}
	}
	return max
}

// IsComplete returns true when every lag and every step has a value
func (s *Sample) IsComplete() bool {
	return len(s.Lags) > 0 && len(s.Inputs) == len(s.Lags) && len(s.Targets) > 0
}
