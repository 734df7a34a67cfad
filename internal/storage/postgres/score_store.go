package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tipscore/internal/domain"
	"tipscore/internal/storage"
)

// ScoreStore implements storage.ScoreStore using PostgreSQL. One row per
// creator, replaced on every scoring run.
type ScoreStore struct {
	pool *Pool
}

// NewScoreStore creates a new ScoreStore.
func NewScoreStore(pool *Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScoreStore = (*ScoreStore)(nil)

const scoreColumns = `
	creator_id,
	accuracy_score, risk_adjusted_score, consistency_score, volume_factor_score,
	rmt_score, confidence_interval, tier,
	accuracy_rate, weighted_accuracy_rate, avg_return_pct, avg_risk_reward_ratio,
	best_tip_return_pct, worst_tip_return_pct,
	win_streak, loss_streak,
	tf_intraday_accuracy, tf_swing_accuracy, tf_positional_accuracy, tf_long_term_accuracy,
	monthly_breakdown,
	total_scored_tips, score_period_start, score_period_end, computed_at
`

// Upsert stores the creator's current score, replacing any previous one.
func (s *ScoreStore) Upsert(ctx context.Context, r *domain.ScoreResult) error {
	monthly, err := json.Marshal(r.MonthlyBreakdown)
	if err != nil {
		return fmt.Errorf("marshal monthly breakdown: %w", err)
	}

	query := `
		INSERT INTO creator_scores (` + scoreColumns + `) VALUES (
			$1,
			$2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11, $12,
			$13, $14,
			$15, $16,
			$17, $18, $19, $20,
			$21,
			$22, $23, $24, $25
		)
		ON CONFLICT (creator_id) DO UPDATE SET
			accuracy_score = EXCLUDED.accuracy_score,
			risk_adjusted_score = EXCLUDED.risk_adjusted_score,
			consistency_score = EXCLUDED.consistency_score,
			volume_factor_score = EXCLUDED.volume_factor_score,
			rmt_score = EXCLUDED.rmt_score,
			confidence_interval = EXCLUDED.confidence_interval,
			tier = EXCLUDED.tier,
			accuracy_rate = EXCLUDED.accuracy_rate,
			weighted_accuracy_rate = EXCLUDED.weighted_accuracy_rate,
			avg_return_pct = EXCLUDED.avg_return_pct,
			avg_risk_reward_ratio = EXCLUDED.avg_risk_reward_ratio,
			best_tip_return_pct = EXCLUDED.best_tip_return_pct,
			worst_tip_return_pct = EXCLUDED.worst_tip_return_pct,
			win_streak = EXCLUDED.win_streak,
			loss_streak = EXCLUDED.loss_streak,
			tf_intraday_accuracy = EXCLUDED.tf_intraday_accuracy,
			tf_swing_accuracy = EXCLUDED.tf_swing_accuracy,
			tf_positional_accuracy = EXCLUDED.tf_positional_accuracy,
			tf_long_term_accuracy = EXCLUDED.tf_long_term_accuracy,
			monthly_breakdown = EXCLUDED.monthly_breakdown,
			total_scored_tips = EXCLUDED.total_scored_tips,
			score_period_start = EXCLUDED.score_period_start,
			score_period_end = EXCLUDED.score_period_end,
			computed_at = EXCLUDED.computed_at
	`

	_, err = s.pool.Exec(ctx, query,
		r.CreatorID,
		r.AccuracyScore, r.RiskAdjustedScore, r.ConsistencyScore, r.VolumeFactorScore,
		r.RMTScore, r.ConfidenceInterval, string(r.Tier),
		r.AccuracyRate, r.WeightedAccuracyRate, r.AvgReturnPct, r.AvgRiskRewardRatio,
		r.BestTipReturnPct, r.WorstTipReturnPct,
		r.WinStreak, r.LossStreak,
		r.TimeframeAccuracy.Intraday, r.TimeframeAccuracy.Swing,
		r.TimeframeAccuracy.Positional, r.TimeframeAccuracy.LongTerm,
		monthly,
		r.TotalScoredTips, r.ScorePeriodStart, r.ScorePeriodEnd, r.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert creator score: %w", err)
	}
	return nil
}

// GetByCreator retrieves the current score. Returns ErrNotFound if the creator
// has never been scored.
func (s *ScoreStore) GetByCreator(ctx context.Context, creatorID string) (*domain.ScoreResult, error) {
	query := `SELECT ` + scoreColumns + ` FROM creator_scores WHERE creator_id = $1`

	row := s.pool.QueryRow(ctx, query, creatorID)
	r, err := scanScore(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get score by creator: %w", err)
	}
	return r, nil
}

// GetLeaderboard retrieves current scores ordered by composite score DESC,
// creator_id ASC. limit <= 0 returns all.
func (s *ScoreStore) GetLeaderboard(ctx context.Context, limit int) ([]*domain.ScoreResult, error) {
	query := `
		SELECT ` + scoreColumns + `
		FROM creator_scores
		ORDER BY rmt_score DESC, creator_id ASC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	defer rows.Close()

	var results []*domain.ScoreResult
	for rows.Next() {
		r, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard rows: %w", err)
	}

	return results, nil
}

// scanScore scans a single row into a ScoreResult.
func scanScore(row pgx.Row) (*domain.ScoreResult, error) {
	var (
		r       domain.ScoreResult
		monthly []byte
	)

	err := row.Scan(
		&r.CreatorID,
		&r.AccuracyScore, &r.RiskAdjustedScore, &r.ConsistencyScore, &r.VolumeFactorScore,
		&r.RMTScore, &r.ConfidenceInterval, &r.Tier,
		&r.AccuracyRate, &r.WeightedAccuracyRate, &r.AvgReturnPct, &r.AvgRiskRewardRatio,
		&r.BestTipReturnPct, &r.WorstTipReturnPct,
		&r.WinStreak, &r.LossStreak,
		&r.TimeframeAccuracy.Intraday, &r.TimeframeAccuracy.Swing,
		&r.TimeframeAccuracy.Positional, &r.TimeframeAccuracy.LongTerm,
		&monthly,
		&r.TotalScoredTips, &r.ScorePeriodStart, &r.ScorePeriodEnd, &r.ComputedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(monthly) > 0 {
		if err := json.Unmarshal(monthly, &r.MonthlyBreakdown); err != nil {
			return nil, fmt.Errorf("unmarshal monthly breakdown: %w", err)
		}
	}

	return &r, nil
}
