package rerank

import (
	"math"
	"sort"
	"time"

	"github.com/tunogya/lagcast/pkg/store/milvus"
)

// TimeDecayConfig holds configuration for time decay reranking
type TimeDecayConfig struct {
	Lambda float64 // Exponential decay rate per day (higher = faster decay)

	// Segment weights, used instead of Lambda when UseSegments is set
	UseSegments  bool
	RecentDays   float64
	MediumDays   float64
	RecentWeight float64 // age <= RecentDays
	MediumWeight float64 // RecentDays < age <= MediumDays
	OldWeight    float64 // age > MediumDays
}

// DefaultTimeDecayConfig returns a default configuration
func DefaultTimeDecayConfig() TimeDecayConfig {
	return TimeDecayConfig{
		Lambda:       0.1,
		RecentDays:   3,
		MediumDays:   30,
		RecentWeight: 1.0,
		MediumWeight: 0.7,
		OldWeight:    0.4,
	}
}

// SegmentConfig returns a configuration using segment-based weights
func SegmentConfig() TimeDecayConfig {
	cfg := DefaultTimeDecayConfig()
	cfg.UseSegments = true
	return cfg
}

// RankedResult extends SearchResult with reranked score
type RankedResult struct {
	milvus.SearchResult
	Similarity float64 // 1 / (1 + distance)
	TimeWeight float64
	FinalScore float64
}

// Reranker performs time-based reranking of search results
type Reranker struct {
	config TimeDecayConfig
}

// NewReranker creates a new reranker with the given configuration
func NewReranker(config TimeDecayConfig) *Reranker {
	return &Reranker{config: config}
}

// Rerank orders hits by similarity weighted by the age of their time origin.
// Hits without a time origin keep full weight.
func (r *Reranker) Rerank(results []milvus.SearchResult, now time.Time) []RankedResult {
	ranked := make([]RankedResult, len(results))

	for i, result := range results {
		weight := 1.0
		if !result.TOrigin.IsZero() {
			ageDays := math.Max(0, now.Sub(result.TOrigin).Hours()/24)
			if r.config.UseSegments {
				weight = r.segmentWeight(ageDays)
			} else {
				weight = math.Exp(-r.config.Lambda * ageDays)
			}
		}

		similarity := 1 / (1 + math.Max(0, float64(result.Score)))
		ranked[i] = RankedResult{
			SearchResult: result,
			Similarity:   similarity,
			TimeWeight:   weight,
			FinalScore:   similarity * weight,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})

	return ranked
}

// segmentWeight returns weight based on time segments
func (r *Reranker) segmentWeight(ageDays float64) float64 {
	switch {
	case ageDays <= r.config.RecentDays:
		return r.config.RecentWeight
	case ageDays <= r.config.MediumDays:
		return r.config.MediumWeight
	default:
		return r.config.OldWeight
	}
}

// TopN returns the top N results after reranking
func (r *Reranker) TopN(results []milvus.SearchResult, now time.Time, n int) []RankedResult {
	ranked := r.Rerank(results, now)
	if len(ranked) <= n {
		return ranked
	}
	return ranked[:n]
}

// SampleIDs returns the sample IDs of ranked results in order
func SampleIDs(results []RankedResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.SampleID
	}
	return ids
}

// FilterByMinScore filters results by minimum final score
func FilterByMinScore(results []RankedResult, minScore float64) []RankedResult {
	var filtered []RankedResult
	for _, r := range results {
		if r.FinalScore >= minScore {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
