package data

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunogya/lagcast/pkg/model"
)

const sampleCSV = `timestamp,level,value
2024-01-01,a,1
2024-01-02,a,2
2024-01-01,b,10
2024-01-03,a,3
2024-01-04,a,oops
2024-01-02,b,20
`

func TestReadCSV(t *testing.T) {
	obs, skipped, err := ReadCSV(strings.NewReader(sampleCSV), DefaultLevel)
	require.NoError(t, err)
	require.Len(t, obs, 5)

	require.Len(t, skipped, 1)
	assert.Equal(t, 4, skipped[0].Row)
	assert.Equal(t, "a", skipped[0].Level)
	assert.Error(t, skipped[0].Err)

	assert.Equal(t, "a", obs[0].Level)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), obs[0].Timestamp)
	assert.Equal(t, 1.0, obs[0].Value)
}

func TestReadCSVWithoutLevelOrTimestamp(t *testing.T) {
	obs, skipped, err := ReadCSV(strings.NewReader("value\n5\n6\n7\n"), "sales")
	require.NoError(t, err)
	require.Len(t, obs, 3)
	assert.Empty(t, skipped)

	assert.Equal(t, "sales", obs[2].Level)
	assert.Equal(t, []float64{5, 6, 7}, model.Values(obs))
	assert.True(t, obs[0].Timestamp.Before(obs[1].Timestamp))
}

func TestReadCSVUnixMillis(t *testing.T) {
	obs, _, err := ReadCSV(strings.NewReader("timestamp,value\n1700000000000,1.5\n"), DefaultLevel)
	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), obs[0].Timestamp)
}

func TestReadCSVRequiresValue(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("timestamp,level\n2024-01-01,a\n"), DefaultLevel)
	assert.Error(t, err)
}

func TestReadCSVReportsBadTimestamp(t *testing.T) {
	obs, skipped, err := ReadCSV(strings.NewReader("timestamp,value\n2024-01-01,1\nyesterday,2\n2024-01-03,3\n"), "y")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, model.Values(obs))

	require.Len(t, skipped, 1)
	assert.Equal(t, 1, skipped[0].Row)
	assert.Equal(t, "y", skipped[0].Level)
}

func TestCSVProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	ctx := context.Background()
	p := NewCSVProvider(path)

	levels, err := p.Levels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, levels)

	skipped, err := p.Skipped(ctx)
	require.NoError(t, err)
	assert.Len(t, skipped, 1)

	a, err := p.FetchSeries(ctx, "a", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, model.Values(a))

	latest, err := p.FetchLatest(ctx, "a", 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, model.Values(latest))

	ranged, err := p.FetchSeries(ctx, "a",
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, model.Values(ranged))

	_, err = NewCSVProvider(filepath.Join(t.TempDir(), "missing.csv")).Levels(ctx)
	assert.Error(t, err)
}

func TestMemoryProviderOrdersByTime(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewMemoryProvider([]model.Observation{
		{Level: "a", Timestamp: base.Add(2 * time.Hour), Value: 3},
		{Level: "a", Timestamp: base, Value: 1},
	})
	p.Add([]model.Observation{{Level: "a", Timestamp: base.Add(time.Hour), Value: 2}})

	obs, err := p.FetchLatest(context.Background(), "a", 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, model.Values(obs))
}
