package outcome

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/tunogya/lagcast/pkg/model"
)

// SampleSource loads stored samples by ID
type SampleSource interface {
	GetByIDs(ctx context.Context, ids []string) ([]*model.Sample, error)
}

// Engine computes target statistics for samples found by similarity search
type Engine struct {
	source SampleSource
}

// NewEngine creates a new outcome engine
func NewEngine(source SampleSource) *Engine {
	return &Engine{source: source}
}

// HorizonStats holds the distribution of targets at one step ahead
type HorizonStats struct {
	Horizon int // 1-based step
	Count   int
	Mean    float64
	P10     float64
	P50     float64
	P90     float64
}

// String returns a formatted string representation
func (h HorizonStats) String() string {
	return fmt.Sprintf(
		"Horizon: %d | Samples: %d | Mean: %.4f | P10: %.4f | P50: %.4f | P90: %.4f",
		h.Horizon, h.Count, h.Mean, h.P10, h.P50, h.P90,
	)
}

// CalculateForSampleIDs loads the samples and summarizes their targets
func (e *Engine) CalculateForSampleIDs(ctx context.Context, ids []string) ([]HorizonStats, error) {
	samples, err := e.source.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load samples: %w", err)
	}
	return FromSamples(samples), nil
}

// Summarize computes per-step statistics over the columns of a target matrix
func Summarize(y *mat.Dense) []HorizonStats {
	if y == nil {
		return nil
	}

	_, steps := y.Dims()
	results := make([]HorizonStats, steps)
	for h := 0; h < steps; h++ {
		results[h] = calculateStats(h+1, mat.Col(nil, h, y))
	}
	return results
}

// FromSamples computes per-step statistics over the targets of samples.
// Samples with fewer steps only contribute to the horizons they cover.
func FromSamples(samples []*model.Sample) []HorizonStats {
	byHorizon := make(map[int][]float64)
	maxSteps := 0
	for _, s := range samples {
		for h, v := range s.Targets {
			byHorizon[h+1] = append(byHorizon[h+1], v)
		}
		if len(s.Targets) > maxSteps {
			maxSteps = len(s.Targets)
		}
	}

	results := make([]HorizonStats, 0, maxSteps)
	for h := 1; h <= maxSteps; h++ {
		results = append(results, calculateStats(h, byHorizon[h]))
	}
	return results
}

// calculateStats computes statistics for the targets of one horizon
func calculateStats(horizon int, values []float64) HorizonStats {
	if len(values) == 0 {
		return HorizonStats{Horizon: horizon}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return HorizonStats{
		Horizon: horizon,
		Count:   len(values),
		Mean:    stat.Mean(values, nil),
		P10:     percentile(sorted, 10),
		P50:     percentile(sorted, 50),
		P90:     percentile(sorted, 90),
	}
}

// percentile calculates the p-th percentile (p in 0-100) of sorted values
// by linear interpolation between closest ranks, the numpy default. The
// stat.Quantile CDF definitions (Empirical, LinInterp) give different
// values on small samples, e.g. 2 instead of 2.5 for the median of 1..4.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := (p / 100) * float64(len(sorted)-1)
	lower := int(rank)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}

	fraction := rank - float64(lower)
	return sorted[lower] + fraction*(sorted[lower+1]-sorted[lower])
}

// Aggregate merges statistics from several groups of samples, weighting each
// group's mean and percentiles by its sample count
func Aggregate(groups [][]HorizonStats) []HorizonStats {
	type acc struct {
		count               int
		mean, p10, p50, p90 float64
	}

	byHorizon := make(map[int]*acc)
	for _, group := range groups {
		for _, h := range group {
			if h.Count == 0 {
				continue
			}
			a, ok := byHorizon[h.Horizon]
			if !ok {
				a = &acc{}
				byHorizon[h.Horizon] = a
			}
			w := float64(h.Count)
			a.count += h.Count
			a.mean += w * h.Mean
			a.p10 += w * h.P10
			a.p50 += w * h.P50
			a.p90 += w * h.P90
		}
	}

	horizons := make([]int, 0, len(byHorizon))
	for h := range byHorizon {
		horizons = append(horizons, h)
	}
	sort.Ints(horizons)

	results := make([]HorizonStats, len(horizons))
	for i, h := range horizons {
		a := byHorizon[h]
		n := float64(a.count)
		results[i] = HorizonStats{
			Horizon: h,
			Count:   a.count,
			Mean:    a.mean / n,
			P10:     a.p10 / n,
			P50:     a.p50 / n,
			P90:     a.p90 / n,
		}
	}
	return results
}
