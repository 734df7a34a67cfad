package scoring

import (
	"fmt"
	"math"
	"time"

	"tipscore/internal/domain"
)

// confidenceZ is the z value of a two-sided 95% interval.
const confidenceZ = 1.96

// Engine computes composite creator scores. It is stateless apart from its
// immutable configuration: every invocation takes all inputs, including the
// clock, as explicit parameters, so scoring N creators in parallel needs no
// locking and re-running an invocation reproduces its output byte for byte.
type Engine struct {
	cfg domain.ScoringConfig
}

// NewEngine validates the configuration (the weight-sum contract above all)
// and returns an engine bound to it.
func NewEngine(cfg domain.ScoringConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's scoring constants.
func (e *Engine) Config() domain.ScoringConfig {
	return e.cfg
}

// Score computes a creator's composite score from their resolved tip history.
//
// The input slice is never mutated. now is the single reference instant for
// recency decay; callers capture it once per invocation. Empty input is valid
// and produces an all-zero UNRATED score. The only error condition is a
// malformed or non-terminal tip, which indicates a caller bug: callers must
// filter to terminal tips before invoking the engine.
func (e *Engine) Score(tips []*domain.CompletedTip, now time.Time) (*domain.ScoreResult, error) {
	creatorID := ""
	for _, t := range tips {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("unscoreable tip: %w", err)
		}
		if creatorID == "" {
			creatorID = t.CreatorID
		} else if t.CreatorID != creatorID {
			return nil, fmt.Errorf("tip %s belongs to creator %s, expected %s", t.TipID, t.CreatorID, creatorID)
		}
	}

	total := len(tips)

	// No resolved history means no reliability to report: every component is
	// zero, including consistency. The neutral <3-months policy applies only
	// to creators that have data.
	if total == 0 {
		return &domain.ScoreResult{
			Tier:       e.cfg.TierFor(0),
			ComputedAt: now.UnixMilli(),
		}, nil
	}

	// The four component calculators are independent of one another and could
	// run concurrently; at this input size sequential is just as fast.
	accuracy := computeAccuracy(tips, now, e.cfg.HalfLifeDays)
	riskAdjusted := computeRiskAdjusted(tips, e.cfg.ExpectedReturnPct, e.cfg.TargetRiskRewardRatio)
	consistency := computeConsistency(tips)
	volumeScore := computeVolumeFactor(total, e.cfg.MaxExpectedTips)

	winStreak, lossStreak := computeStreaks(tips)

	result := &domain.ScoreResult{
		CreatorID: creatorID,

		AccuracyScore:     accuracy.Score,
		RiskAdjustedScore: riskAdjusted.Score,
		ConsistencyScore:  consistency.Score,
		VolumeFactorScore: volumeScore,

		ConfidenceInterval: confidenceInterval(accuracy.WeightedAccuracyRate, total),
		Tier:               e.cfg.TierFor(total),

		AccuracyRate:         accuracy.AccuracyRate,
		WeightedAccuracyRate: accuracy.WeightedAccuracyRate,
		AvgReturnPct:         riskAdjusted.AvgReturnPct,
		AvgRiskRewardRatio:   riskAdjusted.AvgRiskRewardRatio,
		BestTipReturnPct:     riskAdjusted.BestReturnPct,
		WorstTipReturnPct:    riskAdjusted.WorstReturnPct,

		WinStreak:  winStreak,
		LossStreak: lossStreak,

		TimeframeAccuracy: computeTimeframeAccuracy(tips),
		MonthlyBreakdown:  consistency.Monthly,

		TotalScoredTips: total,
		ComputedAt:      now.UnixMilli(),
	}

	result.RMTScore = clampScore(e.cfg.AccuracyWeight*result.AccuracyScore +
		e.cfg.RiskAdjustedWeight*result.RiskAdjustedScore +
		e.cfg.ConsistencyWeight*result.ConsistencyScore +
		e.cfg.VolumeFactorWeight*result.VolumeFactorScore)

	result.ScorePeriodStart, result.ScorePeriodEnd = scorePeriod(tips)

	return result, nil
}

// confidenceInterval treats the weighted accuracy rate p over n tips as a
// binomial proportion and returns the 95% margin in score points:
// 1.96 * sqrt(p*(1-p)/n) * 100. Zero sample or zero proportion has no spread
// to report. Larger n at equal p strictly narrows the interval.
func confidenceInterval(p float64, n int) float64 {
	if n == 0 || p == 0 {
		return 0
	}
	se := math.Sqrt(p * (1 - p) / float64(n))
	return confidenceZ * se * 100
}

// scorePeriod returns the earliest tip instant and latest resolution instant.
func scorePeriod(tips []*domain.CompletedTip) (start, end int64) {
	for _, t := range tips {
		if start == 0 || t.TipTimestamp < start {
			start = t.TipTimestamp
		}
		if t.ClosedAt > end {
			end = t.ClosedAt
		}
	}
	return start, end
}

// clampScore bounds a score to [0,100].
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// clampUnit bounds a normalized metric to [0,1].
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
