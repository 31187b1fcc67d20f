package data

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tunogya/lagcast/pkg/model"
)

// DefaultLevel names the series of a CSV without a level column
const DefaultLevel = "y"

// CSVProvider implements SeriesProvider for CSV files with a header of
// timestamp, level and value columns
type CSVProvider struct {
	filePath     string
	defaultLevel string
	memory       *MemoryProvider
	skipped      []SkippedRow
}

// SkippedRow is a CSV data row that could not be parsed. Row counts data
// rows from zero, excluding the header.
type SkippedRow struct {
	Row   int
	Level string
	Err   error
}

// NewCSVProvider creates a new CSV-based series provider
func NewCSVProvider(filePath string) *CSVProvider {
	return &CSVProvider{
		filePath:     filePath,
		defaultLevel: DefaultLevel,
	}
}

// WithDefaultLevel sets the level used when the file has no level column
func (p *CSVProvider) WithDefaultLevel(level string) *CSVProvider {
	p.defaultLevel = level
	return p
}

// loadIfNeeded loads the CSV file if not already loaded
func (p *CSVProvider) loadIfNeeded() error {
	if p.memory != nil {
		return nil
	}

	file, err := os.Open(p.filePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	obs, skipped, err := ReadCSV(file, p.defaultLevel)
	if err != nil {
		return err
	}

	p.memory = NewMemoryProvider(obs)
	p.skipped = skipped
	return nil
}

// ReadCSV parses observations from r. Rows with an unparsable value or
// timestamp are left out of the observations and reported as skipped, since
// a missing row shifts every lag that spans it.
func ReadCSV(r io.Reader, defaultLevel string) ([]model.Observation, []SkippedRow, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := colMap["value"]; !ok {
		return nil, nil, errors.New("CSV header has no value column")
	}

	var (
		obs     []model.Observation
		skipped []SkippedRow
	)
	for row := 0; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		o, err := parseRecord(record, colMap, defaultLevel, row)
		if err != nil {
			skipped = append(skipped, SkippedRow{Row: row, Level: o.Level, Err: err})
			continue
		}
		obs = append(obs, o)
	}

	return obs, skipped, nil
}

// parseRecord parses a CSV record into an Observation. Without a timestamp
// column the row number is used as a unix-second timestamp. The level is set
// even when parsing fails.
func parseRecord(record []string, colMap map[string]int, defaultLevel string, row int) (model.Observation, error) {
	getValue := func(name string) string {
		if idx, ok := colMap[name]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	level := getValue("level")
	if level == "" {
		level = defaultLevel
	}

	value, err := strconv.ParseFloat(getValue("value"), 64)
	if err != nil {
		return model.Observation{Level: level}, fmt.Errorf("invalid value: %w", err)
	}

	ts := time.Unix(int64(row), 0).UTC()
	if raw := getValue("timestamp"); raw != "" {
		ts, err = parseTimestamp(raw)
		if err != nil {
			return model.Observation{Level: level}, err
		}
	}

	return model.Observation{
		Level:     level,
		Timestamp: ts,
		Value:     value,
	}, nil
}

// parseTimestamp accepts unix milliseconds, RFC3339 or a plain date
func parseTimestamp(raw string) (time.Time, error) {
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

// Skipped returns the rows dropped while loading the file
func (p *CSVProvider) Skipped(ctx context.Context) ([]SkippedRow, error) {
	if err := p.loadIfNeeded(); err != nil {
		return nil, err
	}
	return p.skipped, nil
}

// FetchSeries retrieves observations within the specified time range
func (p *CSVProvider) FetchSeries(ctx context.Context, level string, start, end time.Time) ([]model.Observation, error) {
	if err := p.loadIfNeeded(); err != nil {
		return nil, err
	}
	return p.memory.FetchSeries(ctx, level, start, end)
}

// FetchLatest retrieves the most recent N observations
func (p *CSVProvider) FetchLatest(ctx context.Context, level string, limit int) ([]model.Observation, error) {
	if err := p.loadIfNeeded(); err != nil {
		return nil, err
	}
	return p.memory.FetchLatest(ctx, level, limit)
}

// Levels lists the series found in the file
func (p *CSVProvider) Levels(ctx context.Context) ([]string, error) {
	if err := p.loadIfNeeded(); err != nil {
		return nil, err
	}
	return p.memory.Levels(ctx)
}

// MemoryProvider implements SeriesProvider with in-memory storage
type MemoryProvider struct {
	obs []model.Observation
}

// NewMemoryProvider creates a new in-memory series provider
func NewMemoryProvider(obs []model.Observation) *MemoryProvider {
	p := &MemoryProvider{}
	p.Add(obs)
	return p
}

// Add appends observations, keeping them ordered by time
func (p *MemoryProvider) Add(obs []model.Observation) {
	p.obs = append(p.obs, obs...)
	sort.SliceStable(p.obs, func(i, j int) bool {
		return p.obs[i].Timestamp.Before(p.obs[j].Timestamp)
	})
}

// FetchSeries retrieves observations within the specified time range.
// A zero end means no upper bound.
func (p *MemoryProvider) FetchSeries(ctx context.Context, level string, start, end time.Time) ([]model.Observation, error) {
	var result []model.Observation
	for _, o := range p.obs {
		if o.Level != level || o.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && o.Timestamp.After(end) {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

// FetchLatest retrieves the most recent N observations
func (p *MemoryProvider) FetchLatest(ctx context.Context, level string, limit int) ([]model.Observation, error) {
	filtered, _ := p.FetchSeries(ctx, level, time.Time{}, time.Time{})
	if len(filtered) <= limit {
		return filtered, nil
	}
	return filtered[len(filtered)-limit:], nil
}

// Levels lists the stored series names
func (p *MemoryProvider) Levels(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var levels []string
	for _, o := range p.obs {
		if _, ok := seen[o.Level]; ok {
			continue
		}
		seen[o.Level] = struct{}{}
		levels = append(levels, o.Level)
	}
	sort.Strings(levels)
	return levels, nil
}
