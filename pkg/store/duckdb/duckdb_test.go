package duckdb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunogya/lagcast/pkg/model"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient("")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, InitializeSchema(context.Background(), client))
	return client
}

func testObservations(level string, n int) []model.Observation {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]model.Observation, n)
	for i := range obs {
		obs[i] = model.Observation{
			Level:     level,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Value:     float64(i),
		}
	}
	return obs
}

func TestObservationRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewObservationRepo(newTestClient(t))

	require.NoError(t, repo.InsertBatch(ctx, testObservations("a", 10)))
	require.NoError(t, repo.InsertBatch(ctx, testObservations("b", 3)))

	series, err := repo.GetSeries(ctx, "a")
	require.NoError(t, err)
	require.Len(t, series, 10)
	assert.Equal(t, 9.0, series[9].Value)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), series[9].Timestamp)

	latest, err := repo.GetLatest(ctx, "a", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 8, 9}, model.Values(latest))

	// upsert overwrites the value at an existing timestamp
	o := testObservations("a", 1)[0]
	o.Value = 42
	require.NoError(t, repo.Insert(ctx, &o))

	count, err := repo.Count(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(10), count)

	series, err = repo.GetSeries(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 42.0, series[0].Value)

	levels, err := repo.Levels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, levels)
}

func TestSampleRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewSampleRepo(newTestClient(t))

	tOrigin := time.Date(2024, 1, 1, 4, 0, 0, 0, time.UTC)
	s1 := model.NewSample("a", 4, tOrigin, []int{1, 5}, []float64{4, 0}, []float64{5})
	s2 := model.NewSample("a", 5, time.Time{}, []int{1, 5}, []float64{5, 1}, []float64{6})

	require.NoError(t, repo.InsertBatch(ctx, []*model.Sample{s1, s2}))
	// inserting again is a no-op
	require.NoError(t, repo.Insert(ctx, s1))

	count, err := repo.Count(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, err := repo.GetByID(ctx, s1.SampleID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Level)
	assert.Equal(t, 4, got.Origin)
	assert.Equal(t, tOrigin, got.TOrigin)
	assert.Equal(t, []int{1, 5}, got.Lags)
	assert.Equal(t, []float64{4, 0}, got.Inputs)
	assert.Equal(t, []float64{5}, got.Targets)

	both, err := repo.GetByIDs(ctx, []string{s2.SampleID, s1.SampleID, "missing"})
	require.NoError(t, err)
	require.Len(t, both, 2)
	assert.Equal(t, 4, both[0].Origin)
	assert.True(t, both[1].TOrigin.IsZero())

	exists, err := repo.Exists(ctx, s2.SampleID)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	none, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDropAllTables(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	require.NoError(t, DropAllTables(ctx, client))
	_, err := NewObservationRepo(client).Count(ctx, "a")
	assert.Error(t, err)
}
