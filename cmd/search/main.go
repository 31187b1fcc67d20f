package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tunogya/lagcast/pkg/feature"
	"github.com/tunogya/lagcast/pkg/lags"
	"github.com/tunogya/lagcast/pkg/logging"
	"github.com/tunogya/lagcast/pkg/model"
	"github.com/tunogya/lagcast/pkg/outcome"
	"github.com/tunogya/lagcast/pkg/rerank"
	"github.com/tunogya/lagcast/pkg/store/duckdb"
	"github.com/tunogya/lagcast/pkg/store/milvus"
	"github.com/tunogya/lagcast/pkg/window"
)

// Config holds search configuration
type Config struct {
	Level string
	Lags  string

	DuckDBPath string
	MilvusAddr string
	TopK       int
	TopN       int
	Segments   bool

	LogLevel string
}

// Query is the lag row of the latest time origin of a level
type Query struct {
	Level   string
	TOrigin time.Time
	Inputs  []float64
}

// BuildQuery reads the lag row ending at the last stored observation
func BuildQuery(ctx context.Context, repo *duckdb.ObservationRepo, level string, spec lags.Spec) (*Query, error) {
	obs, err := repo.GetLatest(ctx, level, spec.Max())
	if err != nil {
		return nil, err
	}

	inputs, err := window.LatestInputs(model.Values(obs), spec.Values())
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", level, err)
	}

	return &Query{
		Level:   level,
		TOrigin: obs[len(obs)-1].Timestamp,
		Inputs:  inputs,
	}, nil
}

func main() {
	cfg := parseFlags()

	logger := logging.Must(cfg.LogLevel, true)
	defer logger.Sync()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Sugar().Fatalw("Search failed", "error", err)
	}
}

func run(ctx context.Context, cfg Config, logger *zap.Logger) error {
	log := logger.Sugar()

	spec, err := lags.Parse(cfg.Lags)
	if err != nil {
		return err
	}

	duckClient, err := duckdb.NewClient(cfg.DuckDBPath)
	if err != nil {
		return err
	}
	defer duckClient.Close()

	query, err := BuildQuery(ctx, duckdb.NewObservationRepo(duckClient), cfg.Level, spec)
	if err != nil {
		return err
	}
	log.Infow("Query window", "level", query.Level, "t_origin", query.TOrigin.Format(time.RFC3339), "inputs", query.Inputs)

	milvusClient, err := milvus.NewClient(ctx, milvus.Config{Address: cfg.MilvusAddr})
	if err != nil {
		return err
	}
	defer milvusClient.Close()

	if err := milvusClient.LoadCollection(ctx, milvus.DefaultCollectionName); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	embedding := feature.NewEmbedder().Embed(query.Inputs)
	results, err := milvusClient.Search(ctx, milvus.DefaultCollectionName, embedding, milvus.LevelFilter(cfg.Level), cfg.TopK)
	if err != nil {
		return err
	}
	log.Infow("Found similar windows", "count", len(results))

	decay := rerank.DefaultTimeDecayConfig()
	if cfg.Segments {
		decay = rerank.SegmentConfig()
	}
	ranked := rerank.NewReranker(decay).TopN(results, query.TOrigin, cfg.TopN)

	for i, r := range ranked {
		log.Infow("Match",
			"rank", i+1,
			"sample_id", r.SampleID,
			"distance", r.Score,
			"time_weight", r.TimeWeight,
			"final", r.FinalScore,
			"t_origin", r.TOrigin.Format("2006-01-02 15:04"),
		)
	}

	engine := outcome.NewEngine(duckdb.NewSampleRepo(duckClient))
	stats, err := engine.CalculateForSampleIDs(ctx, rerank.SampleIDs(ranked))
	if err != nil {
		return err
	}
	for _, h := range stats {
		log.Info(h.String())
	}

	return nil
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.Level, "level", "", "Level to search")
	flag.StringVar(&cfg.Lags, "lags", "6", "Lags the collection was built with")
	flag.StringVar(&cfg.DuckDBPath, "duckdb", "lagcast.duckdb", "DuckDB file path")
	flag.StringVar(&cfg.MilvusAddr, "milvus", "localhost:19530", "Milvus server address")
	flag.IntVar(&cfg.TopK, "topk", 50, "Candidates fetched from Milvus")
	flag.IntVar(&cfg.TopN, "topn", 10, "Matches kept after reranking")
	flag.BoolVar(&cfg.Segments, "segments", false, "Use segment weights instead of exponential decay")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")

	flag.Parse()

	if cfg.Level == "" {
		fmt.Println("Usage: search -level <name> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	return cfg
}
