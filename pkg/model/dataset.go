package model

import (
	"time"

	"gonum.org/v1/gonum/mat"
)

// Dataset holds the lag matrix and target matrix built from one series
type Dataset struct {
	Level  string
	Lags   []int
	MaxLag int
	Steps  int
	X      *mat.Dense // rows x len(Lags)
	Y      *mat.Dense // rows x Steps
}

// Rows returns the number of time origins in the dataset
func (d *Dataset) Rows() int {
	if d.X == nil {
		return 0
	}
	r, _ := d.X.Dims()
	return r
}

// Origin returns the series index of the most recent lag in row i
func (d *Dataset) Origin(i int) int {
	return d.MaxLag + i - 1
}

// Samples flattens the dataset into one Sample per row. timestamps may be
// nil, otherwise it must be aligned with the series the dataset came from.
func (d *Dataset) Samples(timestamps []time.Time) []*Sample {
	rows := d.Rows()
	samples := make([]*Sample, 0, rows)

	for i := 0; i < rows; i++ {
		origin := d.Origin(i)

		var tOrigin time.Time
		if origin < len(timestamps) {
			tOrigin = timestamps[origin]
		}

		lags := make([]int, len(d.Lags))
		copy(lags, d.Lags)

		samples = append(samples, NewSample(
			d.Level,
			origin,
			tOrigin,
			lags,
			mat.Row(nil, i, d.X),
			mat.Row(nil, i, d.Y),
		))
	}

	return samples
}
