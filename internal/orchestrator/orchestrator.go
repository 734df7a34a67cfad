// Package orchestrator coordinates a full scoring run:
// load creators → fetch resolved tips → score → persist current + history.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tipscore/internal/domain"
	"tipscore/internal/idhash"
	"tipscore/internal/observability"
	"tipscore/internal/scoring"
	"tipscore/internal/storage"
)

// Orchestrator runs the scoring pipeline over every registered creator.
// Creators are scored independently; a failure on one never blocks the rest.
type Orchestrator struct {
	creatorStore  storage.CreatorStore
	tipStore      storage.TipStore
	scoreStore    storage.ScoreStore
	snapshotStore storage.ScoreSnapshotStore

	engine     *scoring.Engine
	workers    int
	logger     zerolog.Logger
	creatorIDs []string
	now        func() time.Time
}

// Options for creating Orchestrator.
type Options struct {
	CreatorStore  storage.CreatorStore
	TipStore      storage.TipStore
	ScoreStore    storage.ScoreStore
	SnapshotStore storage.ScoreSnapshotStore

	Engine *scoring.Engine

	// Workers bounds creator-level concurrency. Defaults to 1.
	Workers int

	Logger zerolog.Logger

	// CreatorIDs restricts the run to the named creators. Empty means all.
	CreatorIDs []string

	// Now overrides the run clock, used by tests and replay tooling.
	Now func() time.Time
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		creatorStore:  opts.CreatorStore,
		tipStore:      opts.TipStore,
		scoreStore:    opts.ScoreStore,
		snapshotStore: opts.SnapshotStore,
		engine:        opts.Engine,
		workers:       workers,
		logger:        opts.Logger,
		creatorIDs:    opts.CreatorIDs,
		now:           now,
	}
}

// RunResult contains results from one scoring run.
type RunResult struct {
	CreatorsProcessed int
	ScoresWritten     int
	SnapshotsWritten  int
	SnapshotsSkipped  int // same-day reruns, deliberately not appended twice
	Errors            []string
}

// Run scores every creator and persists the results. The clock is captured
// once at the start so all creators in the run decay against the same
// instant. Per-creator failures are collected into RunResult.Errors; Run
// itself fails only when the creator list cannot be loaded.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	started := time.Now()
	now := o.now()

	creators, err := o.loadCreators(ctx)
	if err != nil {
		observability.RecordRun("failed", time.Since(started).Seconds())
		return nil, fmt.Errorf("load creators: %w", err)
	}

	o.logger.Info().
		Int("creators", len(creators)).
		Int("workers", o.workers).
		Time("now", now).
		Msg("scoring run started")

	result := &RunResult{CreatorsProcessed: len(creators)}
	if len(creators) == 0 {
		observability.RecordRun("ok", time.Since(started).Seconds())
		return result, nil
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		jobs = make(chan *domain.Creator)
	)

	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for creator := range jobs {
				written, skipped, err := o.scoreCreator(ctx, creator, now)
				mu.Lock()
				if err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("creator %s: %v", creator.CreatorID, err))
				} else {
					result.ScoresWritten++
					result.SnapshotsWritten += written
					result.SnapshotsSkipped += skipped
				}
				mu.Unlock()
			}
		}()
	}

	for _, creator := range creators {
		jobs <- creator
	}
	close(jobs)
	wg.Wait()

	// Deterministic error order regardless of worker interleaving.
	sort.Strings(result.Errors)

	status := "ok"
	if len(result.Errors) > 0 {
		status = "partial"
	} else {
		observability.DefaultMetrics.LastSuccessfulRun.Set(float64(now.Unix()))
	}
	observability.RecordRun(status, time.Since(started).Seconds())
	observability.DefaultMetrics.LeaderboardSize.Set(float64(result.ScoresWritten))

	o.logger.Info().
		Int("scores_written", result.ScoresWritten).
		Int("snapshots_written", result.SnapshotsWritten).
		Int("snapshots_skipped", result.SnapshotsSkipped).
		Int("errors", len(result.Errors)).
		Dur("elapsed", time.Since(started)).
		Msg("scoring run finished")

	return result, nil
}

// loadCreators returns the run's creator set, honoring the optional filter.
func (o *Orchestrator) loadCreators(ctx context.Context) ([]*domain.Creator, error) {
	if len(o.creatorIDs) == 0 {
		return o.creatorStore.GetAll(ctx)
	}
	creators := make([]*domain.Creator, 0, len(o.creatorIDs))
	for _, id := range o.creatorIDs {
		creator, err := o.creatorStore.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("creator %s: %w", id, err)
		}
		creators = append(creators, creator)
	}
	return creators, nil
}

// scoreCreator computes and persists one creator's score. Returns how many
// snapshots were written and how many were skipped as same-day duplicates.
func (o *Orchestrator) scoreCreator(ctx context.Context, creator *domain.Creator, now time.Time) (written, skipped int, err error) {
	creatorStarted := time.Now()

	tips, err := o.tipStore.GetTerminalByCreator(ctx, creator.CreatorID)
	if err != nil {
		observability.RecordDBError("postgres", "get_terminal_tips")
		observability.RecordScoringError("fetch_tips")
		return 0, 0, fmt.Errorf("fetch tips: %w", err)
	}

	score, err := o.engine.Score(tips, now)
	if err != nil {
		observability.RecordScoringError("score")
		return 0, 0, fmt.Errorf("score: %w", err)
	}
	// A creator with no resolved tips still gets a (zero, UNRATED) row.
	score.CreatorID = creator.CreatorID

	if err := o.scoreStore.Upsert(ctx, score); err != nil {
		observability.RecordDBError("postgres", "upsert_score")
		observability.RecordScoringError("upsert_score")
		return 0, 0, fmt.Errorf("upsert score: %w", err)
	}
	observability.DefaultMetrics.ScoresUpserted.Inc()

	snap := snapshotFrom(score, now)
	switch err := o.snapshotStore.Insert(ctx, snap); {
	case err == nil:
		written = 1
		observability.DefaultMetrics.SnapshotsWritten.Inc()
	case errors.Is(err, storage.ErrDuplicateKey):
		// Rerun on the same UTC day: current score was refreshed above,
		// history keeps the first snapshot of the day.
		skipped = 1
		observability.DefaultMetrics.SnapshotsSkipped.Inc()
		o.logger.Debug().
			Str("creator_id", creator.CreatorID).
			Str("snapshot_date", snap.SnapshotDate).
			Msg("snapshot already recorded for today")
	default:
		observability.RecordDBError("clickhouse", "insert_snapshot")
		observability.RecordScoringError("insert_snapshot")
		return 0, 0, fmt.Errorf("insert snapshot: %w", err)
	}

	observability.RecordCreatorScored(time.Since(creatorStarted).Seconds())
	return written, skipped, nil
}

// snapshotFrom flattens a score into its daily history row.
func snapshotFrom(score *domain.ScoreResult, now time.Time) *domain.ScoreSnapshot {
	date := now.UTC().Format("2006-01-02")
	return &domain.ScoreSnapshot{
		SnapshotID:   idhash.ComputeSnapshotID(score.CreatorID, date),
		CreatorID:    score.CreatorID,
		SnapshotDate: date,

		RMTScore:           score.RMTScore,
		AccuracyScore:      score.AccuracyScore,
		RiskAdjustedScore:  score.RiskAdjustedScore,
		ConsistencyScore:   score.ConsistencyScore,
		VolumeFactorScore:  score.VolumeFactorScore,
		ConfidenceInterval: score.ConfidenceInterval,
		Tier:               score.Tier,
		AccuracyRate:       score.AccuracyRate,
		TotalScoredTips:    score.TotalScoredTips,
		ComputedAt:         score.ComputedAt,
	}
}
