// Package main generates the leaderboard report files from stored scores.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"tipscore/internal/config"
	"tipscore/internal/fixtures"
	"tipscore/internal/orchestrator"
	"tipscore/internal/reporting"
	"tipscore/internal/scoring"
	"tipscore/internal/storage"
	"tipscore/internal/storage/memory"
	"tipscore/internal/storage/migrations"
	pgstore "tipscore/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	outputDir := flag.String("output-dir", "", "Output directory (default: config output_dir)")
	limit := flag.Int("limit", 0, "Leaderboard length; 0 means unbounded")
	fixedClock := flag.String("fixed-clock", "", "RFC3339 timestamp for reproducible output")
	useFixtures := flag.Bool("use-fixtures", false, "Score in-memory demo data instead of reading databases")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if *outputDir == "" {
		*outputDir = cfg.OutputDir
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	creatorStore, scoreStore, cleanup, err := createStores(ctx, cfg, *useFixtures, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("create stores")
	}
	defer cleanup()

	generator := reporting.NewGenerator(creatorStore, scoreStore)
	if *fixedClock != "" {
		fixed, err := time.Parse(time.RFC3339, *fixedClock)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid --fixed-clock, want RFC3339")
		}
		generator = generator.WithClock(func() time.Time { return fixed })
	}

	report, err := generator.Generate(ctx, *limit)
	if err != nil {
		logger.Fatal().Err(err).Msg("generate report")
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Fatal().Err(err).Msg("create output directory")
	}

	mdPath := filepath.Join(*outputDir, "LEADERBOARD.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		logger.Fatal().Err(err).Msg("write markdown")
	}

	csvPath := filepath.Join(*outputDir, "leaderboard.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Leaderboard)), 0o644); err != nil {
		logger.Fatal().Err(err).Msg("write csv")
	}

	fmt.Printf("Report generated (%d creators):\n", report.CreatorCount)
	fmt.Printf("  - %s\n", mdPath)
	fmt.Printf("  - %s\n", csvPath)
}

// createStores returns the stores the report reads from. Fixture mode seeds
// in-memory stores and runs a scoring pass so there is something to rank.
func createStores(ctx context.Context, cfg *config.Config, useFixtures bool, logger zerolog.Logger) (storage.CreatorStore, storage.ScoreStore, func(), error) {
	if !useFixtures {
		if cfg.PostgresDSN == "" {
			return nil, nil, nil, fmt.Errorf("postgres_dsn is required (or use --use-fixtures)")
		}
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
		return pgstore.NewCreatorStore(pool), pgstore.NewScoreStore(pool), pool.Close, nil
	}

	creatorStore := memory.NewCreatorStore()
	tipStore := memory.NewTipStore()
	scoreStore := memory.NewScoreStore()
	snapshotStore := memory.NewSnapshotStore()

	if err := fixtures.LoadFixtures(ctx, creatorStore, tipStore); err != nil {
		return nil, nil, nil, fmt.Errorf("load fixtures: %w", err)
	}

	engine, err := scoring.NewEngine(cfg.Scoring)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build engine: %w", err)
	}

	orch := orchestrator.New(orchestrator.Options{
		CreatorStore:  creatorStore,
		TipStore:      tipStore,
		ScoreStore:    scoreStore,
		SnapshotStore: snapshotStore,
		Engine:        engine,
		Workers:       cfg.Workers,
		Logger:        logger,
	})
	result, err := orch.Run(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("score fixtures: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, nil, nil, fmt.Errorf("score fixtures: %d errors, first: %s", len(result.Errors), result.Errors[0])
	}

	return creatorStore, scoreStore, func() {}, nil
}
