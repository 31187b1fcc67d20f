package data

import (
	"context"
	"time"

	"github.com/tunogya/lagcast/pkg/model"
)

// SeriesProvider defines the interface for fetching historical observations
type SeriesProvider interface {
	// FetchSeries retrieves observations of a level within [start, end]
	// Returns observations ordered by time (oldest first)
	FetchSeries(ctx context.Context, level string, start, end time.Time) ([]model.Observation, error)

	// FetchLatest retrieves the most recent N observations of a level
	FetchLatest(ctx context.Context, level string, limit int) ([]model.Observation, error)

	// Levels lists the available series names in sorted order
	Levels(ctx context.Context) ([]string, error)
}
