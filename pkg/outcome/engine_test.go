package outcome

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/tunogya/lagcast/pkg/model"
)

type fakeSource struct {
	samples map[string]*model.Sample
	err     error
}

func (f *fakeSource) GetByIDs(ctx context.Context, ids []string) ([]*model.Sample, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Sample
	for _, id := range ids {
		if s, ok := f.samples[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func TestSummarize(t *testing.T) {
	y := mat.NewDense(5, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
		5, 50,
	})

	stats := Summarize(y)
	require.Len(t, stats, 2)

	assert.Equal(t, 1, stats[0].Horizon)
	assert.Equal(t, 5, stats[0].Count)
	assert.InDelta(t, 3.0, stats[0].Mean, 1e-12)
	assert.InDelta(t, 1.4, stats[0].P10, 1e-12)
	assert.InDelta(t, 3.0, stats[0].P50, 1e-12)
	assert.InDelta(t, 4.6, stats[0].P90, 1e-12)

	assert.Equal(t, 2, stats[1].Horizon)
	assert.InDelta(t, 30.0, stats[1].Mean, 1e-12)

	assert.Nil(t, Summarize(nil))
}

func TestFromSamples(t *testing.T) {
	samples := []*model.Sample{
		{Targets: []float64{1, 2}},
		{Targets: []float64{3}},
	}

	stats := FromSamples(samples)
	require.Len(t, stats, 2)
	assert.Equal(t, 2, stats[0].Count)
	assert.InDelta(t, 2.0, stats[0].Mean, 1e-12)
	assert.Equal(t, 1, stats[1].Count)
	assert.InDelta(t, 2.0, stats[1].P50, 1e-12)

	assert.Empty(t, FromSamples(nil))
}

func TestPercentile(t *testing.T) {
	assert.Equal(t, 0.0, percentile(nil, 50))
	assert.Equal(t, 7.0, percentile([]float64{7}, 90))
	assert.Equal(t, 4.0, percentile([]float64{1, 2, 3, 4}, 100))
	assert.InDelta(t, 2.5, percentile([]float64{1, 2, 3, 4}, 50), 1e-12)
	assert.InDelta(t, 1.3, percentile([]float64{1, 2, 3, 4}, 10), 1e-12)
	assert.InDelta(t, 3.7, percentile([]float64{1, 2, 3, 4}, 90), 1e-12)

	// differs from the empirical CDF quantile
	assert.Equal(t, 2.0, stat.Quantile(0.5, stat.Empirical, []float64{1, 2, 3, 4}, nil))
}

func TestCalculateForSampleIDs(t *testing.T) {
	src := &fakeSource{samples: map[string]*model.Sample{
		"a": {SampleID: "a", Targets: []float64{2}},
		"b": {SampleID: "b", Targets: []float64{4}},
	}}

	stats, err := NewEngine(src).CalculateForSampleIDs(context.Background(), []string{"a", "b", "missing"})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats[0].Count)
	assert.InDelta(t, 3.0, stats[0].Mean, 1e-12)

	src.err = errors.New("boom")
	_, err = NewEngine(src).CalculateForSampleIDs(context.Background(), []string{"a"})
	assert.ErrorContains(t, err, "boom")
}

func TestAggregate(t *testing.T) {
	a := []HorizonStats{{Horizon: 1, Count: 1, Mean: 1, P10: 1, P50: 1, P90: 1}}
	b := []HorizonStats{
		{Horizon: 1, Count: 3, Mean: 5, P10: 5, P50: 5, P90: 5},
		{Horizon: 2, Count: 2, Mean: 7},
		{Horizon: 3},
	}

	agg := Aggregate([][]HorizonStats{a, b})
	require.Len(t, agg, 2)
	assert.Equal(t, 4, agg[0].Count)
	assert.InDelta(t, 4.0, agg[0].Mean, 1e-12)
	assert.Equal(t, 2, agg[1].Horizon)
	assert.InDelta(t, 7.0, agg[1].Mean, 1e-12)

	assert.Contains(t, agg[0].String(), "Horizon: 1")
}
