package duckdb

import (
	"context"
	"fmt"
)

// CreateObservationsTable creates the observations fact table
const CreateObservationsTable = `
CREATE TABLE IF NOT EXISTS observations (
    level VARCHAR NOT NULL,
    ts TIMESTAMP NOT NULL,
    value DOUBLE,
    PRIMARY KEY (level, ts)
);
`

// CreateSamplesTable creates the samples table; lags, inputs and targets
// are JSON arrays
const CreateSamplesTable = `
CREATE TABLE IF NOT EXISTS samples (
    sample_id VARCHAR PRIMARY KEY,
    level VARCHAR NOT NULL,
    origin INTEGER NOT NULL,
    t_origin TIMESTAMP,
    max_lag INTEGER NOT NULL,
    steps INTEGER NOT NULL,
    lags VARCHAR NOT NULL,
    inputs VARCHAR NOT NULL,
    targets VARCHAR NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_samples_level ON samples(level);
`

// InitializeSchema creates all required tables
func InitializeSchema(ctx context.Context, c *Client) error {
	schemas := []string{
		CreateObservationsTable,
		CreateSamplesTable,
	}

	for _, schema := range schemas {
		if err := c.Exec(ctx, schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// DropAllTables drops all tables (use with caution)
func DropAllTables(ctx context.Context, c *Client) error {
	tables := []string{"samples", "observations"}
	for _, table := range tables {
		if err := c.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
