// Package scoring implements the creator scoring engine: a pure, deterministic
// pipeline that turns a creator's resolved tip history into a composite 0-100
// reliability score with sub-metrics, a confidence interval and a tier.
package scoring

import (
	"math"
	"time"

	"tipscore/internal/domain"
)

const msPerDay = 24 * 60 * 60 * 1000

// AccuracyResult holds the raw and recency-weighted hit rates.
type AccuracyResult struct {
	AccuracyRate         float64 // unweighted hits / total
	WeightedAccuracyRate float64 // half-life decayed
	Score                float64 // WeightedAccuracyRate * 100, clamped to [0,100]
}

// computeAccuracy calculates hit rates over the tip set. Each tip's weight is
// 2^(-ageDays/halfLifeDays) where age is measured from ClosedAt to now, so a
// tip resolved today weighs ~1 and older tips decay toward 0.
// Empty input yields all zeros.
func computeAccuracy(tips []*domain.CompletedTip, now time.Time, halfLifeDays float64) AccuracyResult {
	if len(tips) == 0 {
		return AccuracyResult{}
	}

	nowMs := now.UnixMilli()
	hits := 0
	weightSum := 0.0
	weightedHits := 0.0

	for _, t := range tips {
		hit := t.Status.IsHit()
		if hit {
			hits++
		}

		ageDays := float64(nowMs-t.ClosedAt) / msPerDay
		if ageDays < 0 {
			// Clock skew between resolver and scorer; never weight above 1.
			ageDays = 0
		}
		weight := math.Exp2(-ageDays / halfLifeDays)

		weightSum += weight
		if hit {
			weightedHits += weight
		}
	}

	result := AccuracyResult{
		AccuracyRate: float64(hits) / float64(len(tips)),
	}
	if weightSum > 0 {
		result.WeightedAccuracyRate = weightedHits / weightSum
	}
	result.Score = clampScore(result.WeightedAccuracyRate * 100)
	return result
}
