package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGenerateSampleID(t *testing.T) {
	id := GenerateSampleID("l1", 5, []int{1, 2, 3}, 2)
	assert.Len(t, id, 32)
	assert.Equal(t, id, GenerateSampleID("l1", 5, []int{1, 2, 3}, 2))

	assert.NotEqual(t, id, GenerateSampleID("l2", 5, []int{1, 2, 3}, 2))
	assert.NotEqual(t, id, GenerateSampleID("l1", 6, []int{1, 2, 3}, 2))
	assert.NotEqual(t, id, GenerateSampleID("l1", 5, []int{1, 5}, 2))
	assert.NotEqual(t, id, GenerateSampleID("l1", 5, []int{1, 2, 3}, 3))
}

func TestSample(t *testing.T) {
	s := NewSample("l1", 4, time.Time{}, []int{1, 5}, []float64{4, 0}, []float64{5, 6})

	assert.Equal(t, 2, s.Steps())
	assert.Equal(t, 5, s.MaxLag())
	assert.True(t, s.IsComplete())

	s.Inputs = s.Inputs[:1]
	assert.False(t, s.IsComplete())
}

func TestDatasetSamples(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := make([]time.Time, 10)
	for i := range ts {
		ts[i] = base.AddDate(0, 0, i)
	}

	d := &Dataset{
		Level:  "l1",
		Lags:   []int{1, 5},
		MaxLag: 5,
		Steps:  1,
		X:      mat.NewDense(2, 2, []float64{4, 0, 5, 1}),
		Y:      mat.NewDense(2, 1, []float64{5, 6}),
	}

	samples := d.Samples(ts)
	require.Len(t, samples, 2)

	assert.Equal(t, 4, samples[0].Origin)
	assert.Equal(t, ts[4], samples[0].TOrigin)
	assert.Equal(t, []float64{4, 0}, samples[0].Inputs)
	assert.Equal(t, []float64{5}, samples[0].Targets)

	assert.Equal(t, 5, samples[1].Origin)
	assert.Equal(t, []float64{6}, samples[1].Targets)

	// without timestamps the origin time stays zero
	assert.True(t, d.Samples(nil)[0].TOrigin.IsZero())
}

func TestValuesAndTimestamps(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := []Observation{
		{Level: "a", Timestamp: base, Value: 1},
		{Level: "a", Timestamp: base.Add(time.Hour), Value: 2},
	}

	assert.Equal(t, []float64{1, 2}, Values(obs))
	assert.Equal(t, []time.Time{base, base.Add(time.Hour)}, Timestamps(obs))
}
