// Package main provides the long-running scoring service:
// - Rescoring (scheduled): score every creator, persist scores + snapshots
// - Reporting (after each run): leaderboard Markdown + CSV
// - HTTP API: health, leaderboard, per-creator score and history, metrics
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"tipscore/internal/config"
	"tipscore/internal/domain"
	"tipscore/internal/observability"
	"tipscore/internal/orchestrator"
	"tipscore/internal/reporting"
	"tipscore/internal/scoring"
	"tipscore/internal/storage"
	chstore "tipscore/internal/storage/clickhouse"
	"tipscore/internal/storage/migrations"
	pgstore "tipscore/internal/storage/postgres"
)

// Server holds all components of the scoring service.
type Server struct {
	cfg    *config.Config
	logger zerolog.Logger

	creatorStore  storage.CreatorStore
	tipStore      storage.TipStore
	scoreStore    storage.ScoreStore
	snapshotStore storage.ScoreSnapshotStore

	orch      *orchestrator.Orchestrator
	generator *reporting.Generator

	// State
	mu         sync.Mutex
	running    bool
	started    time.Time
	lastRun    time.Time
	lastErrors []string
	runsTotal  int
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
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
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to postgres")
	}
	defer pool.Close()
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("postgres migrations")
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("clickhouse migrations")
	}
	defer chConn.Close()

	engine, err := scoring.NewEngine(cfg.Scoring)
	if err != nil {
		logger.Fatal().Err(err).Msg("build engine")
	}

	server := &Server{
		cfg:           cfg,
		logger:        logger,
		creatorStore:  pgstore.NewCreatorStore(pool),
		tipStore:      pgstore.NewTipStore(pool),
		scoreStore:    pgstore.NewScoreStore(pool),
		snapshotStore: chstore.NewSnapshotStore(chConn),
		started:       time.Now(),
	}
	server.orch = orchestrator.New(orchestrator.Options{
		CreatorStore:  server.creatorStore,
		TipStore:      server.tipStore,
		ScoreStore:    server.scoreStore,
		SnapshotStore: server.snapshotStore,
		Engine:        engine,
		Workers:       cfg.Workers,
		Logger:        logger,
	})
	server.generator = reporting.NewGenerator(server.creatorStore, server.scoreStore)

	// Scheduled rescoring, plus one run at startup so a fresh deployment
	// serves scores immediately.
	scheduler := cron.New(cron.WithSeconds())
	if _, err := scheduler.AddFunc(cfg.RescoreSpec, func() { server.rescore(ctx) }); err != nil {
		logger.Fatal().Err(err).Str("spec", cfg.RescoreSpec).Msg("invalid rescore schedule")
	}
	scheduler.Start()
	go server.rescore(ctx)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.routes(),
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	cancel()
	<-scheduler.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}

	logger.Info().Msg("shutdown complete")
}

// rescore runs one scoring pass and refreshes the report files. Overlapping
// triggers are dropped rather than queued.
func (s *Server) rescore(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Info().Msg("scoring run already in progress, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.lastRun = time.Now()
		s.runsTotal++
		s.mu.Unlock()
	}()

	result, err := s.orch.Run(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("scoring run failed")
		s.mu.Lock()
		s.lastErrors = []string{err.Error()}
		s.mu.Unlock()
		return
	}
	s.mu.Lock()
	s.lastErrors = result.Errors
	s.mu.Unlock()

	if err := s.writeReports(ctx); err != nil {
		s.logger.Error().Err(err).Msg("report generation failed")
	}
}

// writeReports renders the leaderboard files into the output directory.
func (s *Server) writeReports(ctx context.Context) error {
	report, err := s.generator.Generate(ctx, 0)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	mdPath := filepath.Join(s.cfg.OutputDir, "LEADERBOARD.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", mdPath, err)
	}

	csvPath := filepath.Join(s.cfg.OutputDir, "leaderboard.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Leaderboard)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", csvPath, err)
	}

	s.logger.Info().Str("dir", s.cfg.OutputDir).Msg("reports written")
	return nil
}

// routes builds the HTTP API.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/creators/{id}/score", s.handleCreatorScore)
	mux.HandleFunc("GET /api/creators/{id}/history", s.handleCreatorHistory)

	return mux
}

// StatusResponse is the JSON response for the /status endpoint.
type StatusResponse struct {
	Status     string    `json:"status"`
	Uptime     string    `json:"uptime"`
	LastRun    time.Time `json:"last_run,omitempty"`
	RunsTotal  int       `json:"runs_total"`
	Running    bool      `json:"running"`
	LastErrors []string  `json:"last_errors,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		Status:     "running",
		Uptime:     time.Since(s.started).String(),
		LastRun:    s.lastRun,
		RunsTotal:  s.runsTotal,
		Running:    s.running,
		LastErrors: s.lastErrors,
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			httpError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	scores, err := s.scoreStore.GetLeaderboard(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("leaderboard query failed")
		httpError(w, http.StatusInternalServerError, "internal error")
		return
	}

	rows := make([]ScoreResponse, 0, len(scores))
	for _, score := range scores {
		rows = append(rows, scoreResponse(score))
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCreatorScore(w http.ResponseWriter, r *http.Request) {
	creatorID := r.PathValue("id")

	score, err := s.scoreStore.GetByCreator(r.Context(), creatorID)
	if errors.Is(err, storage.ErrNotFound) {
		httpError(w, http.StatusNotFound, "creator has no score")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("creator_id", creatorID).Msg("score query failed")
		httpError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, scoreResponse(score))
}

func (s *Server) handleCreatorHistory(w http.ResponseWriter, r *http.Request) {
	creatorID := r.PathValue("id")

	// Default window: trailing 90 days.
	end := time.Now().UTC().Format("2006-01-02")
	start := time.Now().UTC().AddDate(0, 0, -90).Format("2006-01-02")
	if v := r.URL.Query().Get("start"); v != "" {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			httpError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
			return
		}
		start = v
	}
	if v := r.URL.Query().Get("end"); v != "" {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			httpError(w, http.StatusBadRequest, "end must be YYYY-MM-DD")
			return
		}
		end = v
	}

	snaps, err := s.snapshotStore.GetByCreator(r.Context(), creatorID, start, end)
	if err != nil {
		s.logger.Error().Err(err).Str("creator_id", creatorID).Msg("history query failed")
		httpError(w, http.StatusInternalServerError, "internal error")
		return
	}

	rows := make([]SnapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		rows = append(rows, SnapshotResponse{
			SnapshotDate:       snap.SnapshotDate,
			RMTScore:           snap.RMTScore,
			AccuracyScore:      snap.AccuracyScore,
			RiskAdjustedScore:  snap.RiskAdjustedScore,
			ConsistencyScore:   snap.ConsistencyScore,
			VolumeFactorScore:  snap.VolumeFactorScore,
			ConfidenceInterval: snap.ConfidenceInterval,
			Tier:               string(snap.Tier),
			AccuracyRate:       snap.AccuracyRate,
			TotalScoredTips:    snap.TotalScoredTips,
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

// ScoreResponse is the JSON shape of one creator score.
type ScoreResponse struct {
	CreatorID            string             `json:"creator_id"`
	RMTScore             float64            `json:"rmt_score"`
	AccuracyScore        float64            `json:"accuracy_score"`
	RiskAdjustedScore    float64            `json:"risk_adjusted_score"`
	ConsistencyScore     float64            `json:"consistency_score"`
	VolumeFactorScore    float64            `json:"volume_factor_score"`
	ConfidenceInterval   float64            `json:"confidence_interval"`
	Tier                 string             `json:"tier"`
	AccuracyRate         float64            `json:"accuracy_rate"`
	WeightedAccuracyRate float64            `json:"weighted_accuracy_rate"`
	AvgReturnPct         float64            `json:"avg_return_pct"`
	AvgRiskRewardRatio   float64            `json:"avg_risk_reward_ratio"`
	BestTipReturnPct     *float64           `json:"best_tip_return_pct,omitempty"`
	WorstTipReturnPct    *float64           `json:"worst_tip_return_pct,omitempty"`
	WinStreak            int                `json:"win_streak"`
	LossStreak           int                `json:"loss_streak"`
	TimeframeAccuracy    map[string]float64 `json:"timeframe_accuracy"`
	MonthlyBreakdown     []MonthlyResponse  `json:"monthly_breakdown,omitempty"`
	TotalScoredTips      int                `json:"total_scored_tips"`
	ComputedAt           int64              `json:"computed_at"`
}

// MonthlyResponse is one month of the consistency breakdown.
type MonthlyResponse struct {
	Month        string  `json:"month"`
	AccuracyRate float64 `json:"accuracy_rate"`
	TipCount     int     `json:"tip_count"`
}

// SnapshotResponse is one day of a creator's score history.
type SnapshotResponse struct {
	SnapshotDate       string  `json:"snapshot_date"`
	RMTScore           float64 `json:"rmt_score"`
	AccuracyScore      float64 `json:"accuracy_score"`
	RiskAdjustedScore  float64 `json:"risk_adjusted_score"`
	ConsistencyScore   float64 `json:"consistency_score"`
	VolumeFactorScore  float64 `json:"volume_factor_score"`
	ConfidenceInterval float64 `json:"confidence_interval"`
	Tier               string  `json:"tier"`
	AccuracyRate       float64 `json:"accuracy_rate"`
	TotalScoredTips    int     `json:"total_scored_tips"`
}

func scoreResponse(score *domain.ScoreResult) ScoreResponse {
	tf := make(map[string]float64)
	for _, timeframe := range domain.Timeframes {
		if rate := score.TimeframeAccuracy.Get(timeframe); rate != nil {
			tf[string(timeframe)] = *rate
		}
	}

	monthly := make([]MonthlyResponse, 0, len(score.MonthlyBreakdown))
	for _, m := range score.MonthlyBreakdown {
		monthly = append(monthly, MonthlyResponse{
			Month:        m.Month,
			AccuracyRate: m.AccuracyRate,
			TipCount:     m.TipCount,
		})
	}

	return ScoreResponse{
		CreatorID:            score.CreatorID,
		RMTScore:             score.RMTScore,
		AccuracyScore:        score.AccuracyScore,
		RiskAdjustedScore:    score.RiskAdjustedScore,
		ConsistencyScore:     score.ConsistencyScore,
		VolumeFactorScore:    score.VolumeFactorScore,
		ConfidenceInterval:   score.ConfidenceInterval,
		Tier:                 string(score.Tier),
		AccuracyRate:         score.AccuracyRate,
		WeightedAccuracyRate: score.WeightedAccuracyRate,
		AvgReturnPct:         score.AvgReturnPct,
		AvgRiskRewardRatio:   score.AvgRiskRewardRatio,
		BestTipReturnPct:     score.BestTipReturnPct,
		WorstTipReturnPct:    score.WorstTipReturnPct,
		WinStreak:            score.WinStreak,
		LossStreak:           score.LossStreak,
		TimeframeAccuracy:    tf,
		MonthlyBreakdown:     monthly,
		TotalScoredTips:      score.TotalScoredTips,
		ComputedAt:           score.ComputedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
