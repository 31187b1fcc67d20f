package milvus

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// DefaultCollectionName is the default collection name for lag windows
	DefaultCollectionName = "lag_windows"

	// EmbeddingField holds the embedded lag row
	EmbeddingField = "embedding"
)

// CollectionConfig holds configuration for creating a collection
type CollectionConfig struct {
	Name      string
	Dimension int // number of lags
	Shards    int
}

// DefaultCollectionConfig returns default collection configuration
func DefaultCollectionConfig(dimension int) CollectionConfig {
	return CollectionConfig{
		Name:      DefaultCollectionName,
		Dimension: dimension,
		Shards:    2,
	}
}

// Schema describes the lag window collection
func Schema(cfg CollectionConfig) *entity.Schema {
	return &entity.Schema{
		CollectionName: cfg.Name,
		Description:    "Embedded lag windows for similarity search",
		Fields: []*entity.Field{
			{
				Name:       "sample_id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     EmbeddingField,
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": strconv.Itoa(cfg.Dimension),
				},
			},
			{
				Name:     "level",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "128",
				},
			},
			{
				Name:     "t_origin",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "steps",
				DataType: entity.FieldTypeInt32,
			},
		},
	}
}

// CreateCollection creates the lag window collection unless it exists
func (c *Client) CreateCollection(ctx context.Context, cfg CollectionConfig) error {
	exists, err := c.HasCollection(ctx, cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	if err := c.conn.CreateCollection(ctx, Schema(cfg), int32(cfg.Shards)); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// WindowData holds one embedded lag window
type WindowData struct {
	SampleID  string
	Embedding []float32
	Level     string
	TOrigin   time.Time
	Steps     int32
}

// Columns converts window data into insertable columns
func Columns(dataList []*WindowData) []entity.Column {
	sampleIDs := make([]string, len(dataList))
	embeddings := make([][]float32, len(dataList))
	levels := make([]string, len(dataList))
	tOrigins := make([]int64, len(dataList))
	steps := make([]int32, len(dataList))

	for i, d := range dataList {
		sampleIDs[i] = d.SampleID
		embeddings[i] = d.Embedding
		levels[i] = d.Level
		tOrigins[i] = d.TOrigin.Unix()
		steps[i] = d.Steps
	}

	dim := 0
	if len(embeddings) > 0 {
		dim = len(embeddings[0])
	}

	return []entity.Column{
		entity.NewColumnVarChar("sample_id", sampleIDs),
		entity.NewColumnFloatVector(EmbeddingField, dim, embeddings),
		entity.NewColumnVarChar("level", levels),
		entity.NewColumnInt64("t_origin", tOrigins),
		entity.NewColumnInt32("steps", steps),
	}
}

// Insert inserts a single lag window
func (c *Client) Insert(ctx context.Context, collectionName string, data *WindowData) error {
	return c.InsertBatch(ctx, collectionName, []*WindowData{data})
}

// InsertBatch inserts multiple lag windows
func (c *Client) InsertBatch(ctx context.Context, collectionName string, dataList []*WindowData) error {
	if len(dataList) == 0 {
		return nil
	}

	if _, err := c.conn.Insert(ctx, collectionName, "", Columns(dataList)...); err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}

	return nil
}

// SearchResult represents a single search hit
type SearchResult struct {
	SampleID string
	Score    float32 // L2 distance, lower is closer
	Level    string
	TOrigin  time.Time
	Steps    int32
}

// LevelFilter builds a boolean expression restricting hits to a level
func LevelFilter(level string) string {
	return fmt.Sprintf("level == %q", level)
}

// Search performs a TopK similarity search
func (c *Client) Search(ctx context.Context, collectionName string, embedding []float32, filter string, topK int) ([]SearchResult, error) {
	vectors := []entity.Vector{entity.FloatVector(embedding)}

	sp, err := entity.NewIndexIvfFlatSearchParam(16) // nprobe
	if err != nil {
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	outputFields := []string{"sample_id", "level", "t_origin", "steps"}

	results, err := c.conn.Search(
		ctx,
		collectionName,
		nil,
		filter,
		outputFields,
		vectors,
		EmbeddingField,
		entity.L2,
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	searchResults := make([]SearchResult, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		result := SearchResult{Score: results[0].Scores[i]}

		for _, field := range results[0].Fields {
			switch col := field.(type) {
			case *entity.ColumnVarChar:
				val, _ := col.ValueByIdx(i)
				switch col.Name() {
				case "sample_id":
					result.SampleID = val
				case "level":
					result.Level = val
				}
			case *entity.ColumnInt64:
				if col.Name() == "t_origin" {
					val, _ := col.ValueByIdx(i)
					result.TOrigin = time.Unix(val, 0).UTC()
				}
			case *entity.ColumnInt32:
				if col.Name() == "steps" {
					result.Steps, _ = col.ValueByIdx(i)
				}
			}
		}

		searchResults = append(searchResults, result)
	}

	return searchResults, nil
}

// Flush flushes the collection to ensure data persistence
func (c *Client) Flush(ctx context.Context, collectionName string) error {
	return c.conn.Flush(ctx, collectionName, false)
}
