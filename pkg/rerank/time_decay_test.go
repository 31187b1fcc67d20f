package rerank

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunogya/lagcast/pkg/store/milvus"
)

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestRerankExponential(t *testing.T) {
	results := []milvus.SearchResult{
		{SampleID: "old-close", Score: 0, TOrigin: now.AddDate(0, 0, -30)},
		{SampleID: "new-far", Score: 1, TOrigin: now.AddDate(0, 0, -1)},
		{SampleID: "no-time", Score: 3},
	}

	ranked := NewReranker(DefaultTimeDecayConfig()).Rerank(results, now)
	require.Len(t, ranked, 3)

	assert.Equal(t, []string{"new-far", "no-time", "old-close"}, SampleIDs(ranked))
	assert.InDelta(t, 0.5*math.Exp(-0.1), ranked[0].FinalScore, 1e-9)
	assert.InDelta(t, 0.25, ranked[1].FinalScore, 1e-9)
	assert.InDelta(t, math.Exp(-3), ranked[2].FinalScore, 1e-9)
}

func TestRerankSegments(t *testing.T) {
	r := NewReranker(SegmentConfig())
	results := []milvus.SearchResult{
		{SampleID: "old", TOrigin: now.AddDate(0, 0, -90)},
		{SampleID: "medium", TOrigin: now.AddDate(0, 0, -10)},
		{SampleID: "recent", TOrigin: now.AddDate(0, 0, -1)},
	}

	ranked := r.Rerank(results, now)
	assert.Equal(t, []string{"recent", "medium", "old"}, SampleIDs(ranked))
	assert.Equal(t, 0.7, ranked[1].TimeWeight)
	assert.Equal(t, 0.4, ranked[2].TimeWeight)

	top := r.TopN(results, now, 2)
	assert.Len(t, top, 2)
	assert.Len(t, r.TopN(results, now, 10), 3)

	assert.Equal(t, []string{"recent", "medium"}, SampleIDs(FilterByMinScore(ranked, 0.5)))
}
