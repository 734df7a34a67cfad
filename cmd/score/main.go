// Package main provides a one-shot scoring run: score every creator (or a
// named subset) and persist current scores plus daily history snapshots.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"tipscore/internal/config"
	"tipscore/internal/fixtures"
	"tipscore/internal/orchestrator"
	"tipscore/internal/scoring"
	"tipscore/internal/storage"
	chstore "tipscore/internal/storage/clickhouse"
	"tipscore/internal/storage/memory"
	"tipscore/internal/storage/migrations"
	pgstore "tipscore/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	creator := flag.String("creator", "", "Comma-separated creator IDs to score (default: all)")
	useFixtures := flag.Bool("use-fixtures", false, "Run against in-memory demo data instead of databases")
	verbose := flag.Bool("verbose", false, "Debug-level logging")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *verbose {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("cancelling run")
		cancel()
	}()

	stores, cleanup, err := createStores(ctx, cfg, *useFixtures)
	if err != nil {
		logger.Fatal().Err(err).Msg("create stores")
	}
	defer cleanup()

	if *useFixtures {
		if err := fixtures.LoadFixtures(ctx, stores.creatorStore, stores.tipStore); err != nil {
			logger.Fatal().Err(err).Msg("load fixtures")
		}
		logger.Info().Msg("loaded fixture data")
	}

	engine, err := scoring.NewEngine(cfg.Scoring)
	if err != nil {
		logger.Fatal().Err(err).Msg("build engine")
	}

	var creatorIDs []string
	if *creator != "" {
		for _, id := range strings.Split(*creator, ",") {
			if id = strings.TrimSpace(id); id != "" {
				creatorIDs = append(creatorIDs, id)
			}
		}
	}

	orch := orchestrator.New(orchestrator.Options{
		CreatorStore:  stores.creatorStore,
		TipStore:      stores.tipStore,
		ScoreStore:    stores.scoreStore,
		SnapshotStore: stores.snapshotStore,
		Engine:        engine,
		Workers:       cfg.Workers,
		Logger:        logger,
		CreatorIDs:    creatorIDs,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("scoring run failed")
	}

	fmt.Printf("Scoring run completed:\n")
	fmt.Printf("  Creators:  %d\n", result.CreatorsProcessed)
	fmt.Printf("  Scores:    %d\n", result.ScoresWritten)
	fmt.Printf("  Snapshots: %d written, %d skipped (same day)\n",
		result.SnapshotsWritten, result.SnapshotsSkipped)
	if len(result.Errors) > 0 {
		fmt.Printf("  Errors:    %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %s\n", e)
		}
		os.Exit(1)
	}
}

// allStores holds the storage implementations a scoring run needs.
type allStores struct {
	creatorStore  storage.CreatorStore
	tipStore      storage.TipStore
	scoreStore    storage.ScoreStore
	snapshotStore storage.ScoreSnapshotStore
}

// createStores connects to PostgreSQL and ClickHouse, applying migrations,
// or builds in-memory stores for fixture runs.
func createStores(ctx context.Context, cfg *config.Config, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		return &allStores{
			creatorStore:  memory.NewCreatorStore(),
			tipStore:      memory.NewTipStore(),
			scoreStore:    memory.NewScoreStore(),
			snapshotStore: memory.NewSnapshotStore(),
		}, func() {}, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &allStores{
		creatorStore:  pgstore.NewCreatorStore(pool),
		tipStore:      pgstore.NewTipStore(pool),
		scoreStore:    pgstore.NewScoreStore(pool),
		snapshotStore: chstore.NewSnapshotStore(chConn),
	}
	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}
