package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tunogya/lagcast/pkg/model"
)

const upsertObservation = `
	INSERT INTO observations (level, ts, value)
	VALUES (?, ?, ?)
	ON CONFLICT (level, ts) DO UPDATE SET value = EXCLUDED.value
`

// ObservationRepo handles observation persistence
type ObservationRepo struct {
	client *Client
}

// NewObservationRepo creates a new observation repository
func NewObservationRepo(client *Client) *ObservationRepo {
	return &ObservationRepo{client: client}
}

// Insert upserts a single observation
func (r *ObservationRepo) Insert(ctx context.Context, o *model.Observation) error {
	return r.client.Exec(ctx, upsertObservation, o.Level, o.Timestamp, o.Value)
}

// InsertBatch upserts multiple observations in a transaction
func (r *ObservationRepo) InsertBatch(ctx context.Context, obs []model.Observation) error {
	tx, err := r.client.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertObservation)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, o := range obs {
		if _, err := stmt.ExecContext(ctx, o.Level, o.Timestamp, o.Value); err != nil {
			return fmt.Errorf("failed to insert observation: %w", err)
		}
	}

	return tx.Commit()
}

// GetSeries retrieves all observations of a level in chronological order
func (r *ObservationRepo) GetSeries(ctx context.Context, level string) ([]model.Observation, error) {
	rows, err := r.client.Query(ctx, `
		SELECT level, ts, value
		FROM observations
		WHERE level = ?
		ORDER BY ts ASC
	`, level)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// GetLatest retrieves the most recent N observations of a level, oldest first
func (r *ObservationRepo) GetLatest(ctx context.Context, level string, limit int) ([]model.Observation, error) {
	rows, err := r.client.Query(ctx, `
		SELECT level, ts, value
		FROM observations
		WHERE level = ?
		ORDER BY ts DESC
		LIMIT ?
	`, level, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	obs, err := scanObservations(rows)
	if err != nil {
		return nil, err
	}

	// Reverse to get chronological order
	for i, j := 0, len(obs)-1; i < j; i, j = i+1, j-1 {
		obs[i], obs[j] = obs[j], obs[i]
	}

	return obs, nil
}

// Levels lists the stored series names
func (r *ObservationRepo) Levels(ctx context.Context) ([]string, error) {
	rows, err := r.client.Query(ctx, "SELECT DISTINCT level FROM observations ORDER BY level")
	if err != nil {
		return nil, fmt.Errorf("failed to query levels: %w", err)
	}
	defer rows.Close()

	var levels []string
	for rows.Next() {
		var level string
		if err := rows.Scan(&level); err != nil {
			return nil, fmt.Errorf("failed to scan level: %w", err)
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}

// Count returns the number of observations for a level
func (r *ObservationRepo) Count(ctx context.Context, level string) (int64, error) {
	var count int64
	row := r.client.QueryRow(ctx, "SELECT COUNT(*) FROM observations WHERE level = ?", level)
	err := row.Scan(&count)
	return count, err
}

func scanObservations(rows *sql.Rows) ([]model.Observation, error) {
	var obs []model.Observation
	for rows.Next() {
		var o model.Observation
		var value sql.NullFloat64
		if err := rows.Scan(&o.Level, &o.Timestamp, &value); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		o.Value = value.Float64
		o.Timestamp = o.Timestamp.UTC()
		obs = append(obs, o)
	}
	return obs, rows.Err()
}
