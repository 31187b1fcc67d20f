package duckdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tunogya/lagcast/pkg/model"
)

const insertSample = `
	INSERT INTO samples (sample_id, level, origin, t_origin, max_lag, steps, lags, inputs, targets, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (sample_id) DO NOTHING
`

const selectSample = `
	SELECT sample_id, level, origin, t_origin, lags, inputs, targets, created_at
	FROM samples
`

// SampleRepo handles sample persistence
type SampleRepo struct {
	client *Client
}

// NewSampleRepo creates a new sample repository
func NewSampleRepo(client *Client) *SampleRepo {
	return &SampleRepo{client: client}
}

// Insert inserts a single sample; an existing ID is left untouched
func (r *SampleRepo) Insert(ctx context.Context, s *model.Sample) error {
	args, err := sampleArgs(s)
	if err != nil {
		return err
	}
	return r.client.Exec(ctx, insertSample, args...)
}

// InsertBatch inserts multiple samples in a transaction
func (r *SampleRepo) InsertBatch(ctx context.Context, samples []*model.Sample) error {
	tx, err := r.client.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSample)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		args, err := sampleArgs(s)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	return tx.Commit()
}

// GetByID retrieves a sample by ID
func (r *SampleRepo) GetByID(ctx context.Context, sampleID string) (*model.Sample, error) {
	row := r.client.QueryRow(ctx, selectSample+" WHERE sample_id = ?", sampleID)
	return scanSample(row)
}

// GetByIDs retrieves the samples with the given IDs; unknown IDs are skipped
func (r *SampleRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.Sample, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.client.Query(ctx, selectSample+" WHERE sample_id IN ("+placeholders+") ORDER BY level, origin", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []*model.Sample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// Exists checks if a sample exists by ID
func (r *SampleRepo) Exists(ctx context.Context, sampleID string) (bool, error) {
	var count int
	row := r.client.QueryRow(ctx, "SELECT COUNT(*) FROM samples WHERE sample_id = ?", sampleID)
	err := row.Scan(&count)
	return count > 0, err
}

// Count returns the number of samples for a level
func (r *SampleRepo) Count(ctx context.Context, level string) (int64, error) {
	var count int64
	row := r.client.QueryRow(ctx, "SELECT COUNT(*) FROM samples WHERE level = ?", level)
	err := row.Scan(&count)
	return count, err
}

func sampleArgs(s *model.Sample) ([]any, error) {
	lags, err := json.Marshal(s.Lags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode lags: %w", err)
	}
	inputs, err := json.Marshal(s.Inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode inputs: %w", err)
	}
	targets, err := json.Marshal(s.Targets)
	if err != nil {
		return nil, fmt.Errorf("failed to encode targets: %w", err)
	}

	var tOrigin any
	if !s.TOrigin.IsZero() {
		tOrigin = s.TOrigin
	}

	return []any{
		s.SampleID, s.Level, s.Origin, tOrigin, s.MaxLag(), s.Steps(),
		string(lags), string(inputs), string(targets), s.CreatedAt,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (*model.Sample, error) {
	var s model.Sample
	var tOrigin sql.NullTime
	var lags, inputs, targets string

	err := row.Scan(&s.SampleID, &s.Level, &s.Origin, &tOrigin, &lags, &inputs, &targets, &s.CreatedAt)
	if err != nil {
		return nil, err
	}

	if tOrigin.Valid {
		s.TOrigin = tOrigin.Time.UTC()
	}
	if err := json.Unmarshal([]byte(lags), &s.Lags); err != nil {
		return nil, fmt.Errorf("failed to decode lags: %w", err)
	}
	if err := json.Unmarshal([]byte(inputs), &s.Inputs); err != nil {
		return nil, fmt.Errorf("failed to decode inputs: %w", err)
	}
	if err := json.Unmarshal([]byte(targets), &s.Targets); err != nil {
		return nil, fmt.Errorf("failed to decode targets: %w", err)
	}

	return &s, nil
}
