package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tunogya/lagcast/pkg/data"
	"github.com/tunogya/lagcast/pkg/feature"
	"github.com/tunogya/lagcast/pkg/forecaster"
	"github.com/tunogya/lagcast/pkg/lags"
	"github.com/tunogya/lagcast/pkg/logging"
	"github.com/tunogya/lagcast/pkg/model"
	"github.com/tunogya/lagcast/pkg/outcome"
	"github.com/tunogya/lagcast/pkg/queue/nats"
	"github.com/tunogya/lagcast/pkg/store/duckdb"
	"github.com/tunogya/lagcast/pkg/store/milvus"
	"github.com/tunogya/lagcast/pkg/window"
)

// Config holds backfill configuration
type Config struct {
	// Data source
	CSVPath string
	Level   string // only this level when set

	// Dataset
	Lags   string
	Steps  int
	Stride int

	// Storage
	DuckDBPath string
	MilvusAddr string // vectors are skipped when empty
	NATSUrl    string // samples are published instead of written when set

	// Processing
	BatchSize int
	LogLevel  string
}

func main() {
	cfg := parseFlags()

	logger := logging.Must(cfg.LogLevel, true)
	defer logger.Sync()
	log := logger.Sugar()

	if err := run(context.Background(), cfg, logger); err != nil {
		log.Fatalw("Backfill failed", "error", err)
	}
}

func run(ctx context.Context, cfg Config, logger *zap.Logger) error {
	log := logger.Sugar()

	spec, err := lags.Parse(cfg.Lags)
	if err != nil {
		return err
	}
	log.Infow("Starting backfill", "csv", cfg.CSVPath, "lags", spec.String(), "steps", cfg.Steps, "stride", cfg.Stride)

	// Load data
	provider := data.NewCSVProvider(cfg.CSVPath)
	levels, err := provider.Levels(ctx)
	if err != nil {
		return fmt.Errorf("failed to read levels: %w", err)
	}
	if cfg.Level != "" {
		levels = []string{cfg.Level}
	}

	skipped, err := provider.Skipped(ctx)
	if err != nil {
		return fmt.Errorf("failed to read CSV: %w", err)
	}
	for level, rows := range skippedByLevel(skipped) {
		log.Warnw("Dropped unparsable CSV rows, lags spanning them are shifted",
			"level", level, "rows", rows, "first_error", firstError(skipped, level))
	}

	series := make(map[string][]model.Observation, len(levels))
	for _, level := range levels {
		obs, err := provider.FetchSeries(ctx, level, time.Time{}, time.Time{})
		if err != nil {
			return fmt.Errorf("failed to load level %q: %w", level, err)
		}
		series[level] = obs
		log.Infow("Loaded series", "level", level, "observations", len(obs))
	}

	// Initialize DuckDB
	duckClient, err := duckdb.NewClient(cfg.DuckDBPath)
	if err != nil {
		return err
	}
	defer duckClient.Close()

	if err := duckdb.InitializeSchema(ctx, duckClient); err != nil {
		return err
	}
	observationRepo := duckdb.NewObservationRepo(duckClient)
	sampleRepo := duckdb.NewSampleRepo(duckClient)

	var natsClient *nats.Client
	if cfg.NATSUrl != "" {
		natsCfg := nats.DefaultConfig()
		natsCfg.URL = cfg.NATSUrl
		natsClient, err = nats.NewClient(natsCfg, logger)
		if err != nil {
			return err
		}
		defer natsClient.Close()

		if err := natsClient.CreateStream(ctx, nats.Subjects); err != nil {
			return err
		}
	}

	f, err := forecaster.New(
		forecaster.StaticModel{Lags: spec.Len(), Series: len(levels), Steps: cfg.Steps, Levels: len(levels)},
		levels,
		forecaster.WithLags(spec),
		forecaster.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	// Report the scaled training set the model would see
	values := make(map[string][]float64, len(levels))
	for level, obs := range series {
		values[level] = model.Values(obs)
	}
	if ts, err := f.CreateTrainXY(values); err != nil {
		log.Warnw("Series cannot form a common training set", "error", err)
	} else {
		log.Infow("Training set ready", "rows", ts.Rows(), "series", len(ts.Series))
	}

	var vectors []*milvus.WindowData
	embedder := feature.NewEmbedder()
	total := 0

	for _, level := range levels {
		obs := series[level]

		samples, err := buildSamples(f, cfg, level, obs)
		if err != nil {
			log.Warnw("Skipping level", "level", level, "error", err)
			continue
		}

		for _, h := range outcome.FromSamples(samples) {
			log.Debugw("Targets", "level", level, "stats", h.String())
		}

		if natsClient != nil {
			if err := natsClient.PublishJSON(ctx, nats.SubjectObservationWrite, nats.ObservationBatchMsg{Observations: obs}); err != nil {
				return err
			}
			for _, batch := range batches(samples, cfg.BatchSize) {
				msg := nats.SampleBatchMsg{Level: level, Lags: spec.Values(), Steps: cfg.Steps, Samples: batch}
				if err := natsClient.PublishJSON(ctx, nats.SubjectSampleWrite, msg); err != nil {
					return err
				}
			}
		} else {
			if err := observationRepo.InsertBatch(ctx, obs); err != nil {
				return err
			}
			if err := sampleRepo.InsertBatch(ctx, samples); err != nil {
				return err
			}
		}

		for _, s := range samples {
			vectors = append(vectors, &milvus.WindowData{
				SampleID:  s.SampleID,
				Embedding: embedder.Embed(s.Inputs),
				Level:     s.Level,
				TOrigin:   s.TOrigin,
				Steps:     int32(s.Steps()),
			})
		}

		total += len(samples)
		log.Infow("Built samples", "level", level, "samples", len(samples))
	}

	if cfg.MilvusAddr != "" && len(vectors) > 0 {
		if err := storeVectors(ctx, cfg, spec.Len(), vectors, log); err != nil {
			return err
		}
	}

	log.Infow("Backfill completed", "levels", len(levels), "samples", total, "vectors", len(vectors))
	return nil
}

// buildSamples uses the batch builder for stride 1 and the streaming builder otherwise
func buildSamples(f *forecaster.Forecaster, cfg Config, level string, obs []model.Observation) ([]*model.Sample, error) {
	if cfg.Stride <= 1 {
		return f.Samples(level, model.Values(obs), model.Timestamps(obs))
	}

	b, err := window.NewBuilder(window.Config{Level: level, Lags: f.Lags, Steps: f.Steps, Stride: cfg.Stride})
	if err != nil {
		return nil, err
	}
	return b.ProcessObservations(obs), nil
}

func storeVectors(ctx context.Context, cfg Config, dim int, vectors []*milvus.WindowData, log *zap.SugaredLogger) error {
	milvusClient, err := milvus.NewClient(ctx, milvus.Config{Address: cfg.MilvusAddr})
	if err != nil {
		return err
	}
	defer milvusClient.Close()

	collectionCfg := milvus.DefaultCollectionConfig(dim)
	if err := milvusClient.CreateCollection(ctx, collectionCfg); err != nil {
		return err
	}

	for _, batch := range batches(vectors, cfg.BatchSize) {
		if err := milvusClient.InsertBatch(ctx, collectionCfg.Name, batch); err != nil {
			return err
		}
	}

	if err := milvusClient.Flush(ctx, collectionCfg.Name); err != nil {
		log.Warnw("Failed to flush Milvus", "error", err)
	}
	if err := milvusClient.Prepare(ctx, collectionCfg); err != nil {
		log.Warnw("Failed to prepare Milvus collection", "error", err)
	}
	return nil
}

// skippedByLevel returns the CSV data row numbers dropped per level
func skippedByLevel(rows []data.SkippedRow) map[string][]int {
	out := make(map[string][]int)
	for _, r := range rows {
		out[r.Level] = append(out[r.Level], r.Row)
	}
	return out
}

func firstError(rows []data.SkippedRow, level string) error {
	for _, r := range rows {
		if r.Level == level {
			return r.Err
		}
	}
	return nil
}

func batches[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var out [][]T
	for i := 0; i < len(items); i += size {
		out = append(out, items[i:min(i+size, len(items))])
	}
	return out
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.CSVPath, "csv", "", "Path to CSV file with timestamp,level,value columns")
	flag.StringVar(&cfg.Level, "level", "", "Only backfill this level")
	flag.StringVar(&cfg.Lags, "lags", "6", "Lag count (\"6\") or offsets (\"1,2,24\")")
	flag.IntVar(&cfg.Steps, "steps", 3, "Forecast horizon")
	flag.IntVar(&cfg.Stride, "stride", 1, "Origins between samples")
	flag.StringVar(&cfg.DuckDBPath, "duckdb", "lagcast.duckdb", "DuckDB file path")
	flag.StringVar(&cfg.MilvusAddr, "milvus", "", "Milvus server address, empty to skip vectors")
	flag.StringVar(&cfg.NATSUrl, "nats", "", "Publish batches to this NATS server instead of writing DuckDB")
	flag.IntVar(&cfg.BatchSize, "batch", 1000, "Batch size for inserts")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")

	flag.Parse()

	if cfg.CSVPath == "" {
		fmt.Println("Usage: backfill -csv <path> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	return cfg
}
