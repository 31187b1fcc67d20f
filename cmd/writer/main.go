package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/tunogya/lagcast/pkg/logging"
	"github.com/tunogya/lagcast/pkg/queue/nats"
	"github.com/tunogya/lagcast/pkg/store/duckdb"
)

// Config holds writer worker configuration
type Config struct {
	NATSUrl    string
	StreamName string
	DuckDBPath string
	LogLevel   string
}

// Writer persists queued batches into DuckDB
type Writer struct {
	observations *duckdb.ObservationRepo
	samples      *duckdb.SampleRepo
	log          *zap.SugaredLogger
}

// HandleObservations stores one observation batch
func (w *Writer) HandleObservations(ctx context.Context, data []byte) error {
	batch, err := nats.DecodeObservationBatch(data)
	if err != nil {
		return fmt.Errorf("failed to decode observation batch: %w", err)
	}
	if len(batch.Observations) == 0 {
		return nil
	}

	if err := w.observations.InsertBatch(ctx, batch.Observations); err != nil {
		return err
	}
	w.log.Infow("Inserted observations", "count", len(batch.Observations))
	return nil
}

// HandleSamples stores one sample batch
func (w *Writer) HandleSamples(ctx context.Context, data []byte) error {
	batch, err := nats.DecodeSampleBatch(data)
	if err != nil {
		return fmt.Errorf("failed to decode sample batch: %w", err)
	}
	if len(batch.Samples) == 0 {
		return nil
	}

	if err := w.samples.InsertBatch(ctx, batch.Samples); err != nil {
		return err
	}
	w.log.Infow("Inserted samples", "level", batch.Level, "count", len(batch.Samples))
	return nil
}

func main() {
	cfg := parseFlags()

	logger := logging.Must(cfg.LogLevel, false)
	defer logger.Sync()
	log := logger.Sugar()

	log.Infow("Starting writer", "nats", cfg.NATSUrl, "duckdb", cfg.DuckDBPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	duckClient, err := duckdb.NewClient(cfg.DuckDBPath)
	if err != nil {
		log.Fatalw("Failed to connect to DuckDB", "error", err)
	}
	defer duckClient.Close()

	if err := duckdb.InitializeSchema(ctx, duckClient); err != nil {
		log.Fatalw("Failed to initialize schema", "error", err)
	}

	w := &Writer{
		observations: duckdb.NewObservationRepo(duckClient),
		samples:      duckdb.NewSampleRepo(duckClient),
		log:          log,
	}

	natsCfg := nats.DefaultConfig()
	natsCfg.URL = cfg.NATSUrl
	natsCfg.StreamName = cfg.StreamName
	natsClient, err := nats.NewClient(natsCfg, logger)
	if err != nil {
		log.Fatalw("Failed to connect to NATS", "error", err)
	}
	defer natsClient.Close()

	if err := natsClient.CreateStream(ctx, nats.Subjects); err != nil {
		log.Fatalw("Failed to create stream", "error", err)
	}

	observationConsumer, err := natsClient.Subscribe(ctx, nats.SubjectObservationWrite, "observation-writer", func(msg jetstream.Msg) error {
		return w.HandleObservations(ctx, msg.Data())
	})
	if err != nil {
		log.Fatalw("Failed to subscribe to observation writes", "error", err)
	}
	defer observationConsumer.Stop()

	sampleConsumer, err := natsClient.Subscribe(ctx, nats.SubjectSampleWrite, "sample-writer", func(msg jetstream.Msg) error {
		return w.HandleSamples(ctx, msg.Data())
	})
	if err != nil {
		log.Fatalw("Failed to subscribe to sample writes", "error", err)
	}
	defer sampleConsumer.Stop()

	log.Info("Writer started, waiting for messages")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down writer")
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.NATSUrl, "nats", "nats://localhost:4222", "NATS server URL")
	flag.StringVar(&cfg.StreamName, "stream", "lagcast", "JetStream stream name")
	flag.StringVar(&cfg.DuckDBPath, "duckdb", "lagcast.duckdb", "DuckDB file path")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")

	flag.Parse()

	if cfg.DuckDBPath == "" {
		fmt.Println("Usage: writer [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	return cfg
}
