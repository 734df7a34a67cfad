package domain

// Tier is the coarse reliability/volume bucket derived from total scored tips.
type Tier string

// Tier constants, ordered by required tip volume.
const (
	TierUnrated  Tier = "UNRATED"
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
	TierDiamond  Tier = "DIAMOND"
)

// MonthlyAccuracy is one calendar-month bucket of the consistency breakdown.
type MonthlyAccuracy struct {
	Month        string // "YYYY-MM", UTC
	AccuracyRate float64
	TipCount     int
}

// TimeframeAccuracy holds per-horizon accuracy rates. A nil entry means the
// creator has no resolved tips in that horizon, which is distinct from 0%.
type TimeframeAccuracy struct {
	Intraday   *float64
	Swing      *float64
	Positional *float64
	LongTerm   *float64
}

// Get returns the accuracy rate for a timeframe, or nil when unrated.
func (a TimeframeAccuracy) Get(tf Timeframe) *float64 {
	switch tf {
	case TimeframeIntraday:
		return a.Intraday
	case TimeframeSwing:
		return a.Swing
	case TimeframePositional:
		return a.Positional
	case TimeframeLongTerm:
		return a.LongTerm
	default:
		return nil
	}
}

// ScoreResult is the point-in-time output of one scoring invocation.
// Created fresh on every call; callers persist it as an immutable snapshot.
type ScoreResult struct {
	CreatorID string

	// Component scores, each in [0,100]
	AccuracyScore     float64
	RiskAdjustedScore float64
	ConsistencyScore  float64
	VolumeFactorScore float64

	// RMTScore is the weighted composite, in [0,100].
	RMTScore float64

	// ConfidenceInterval is the binomial 95% margin in score points.
	// Narrows as the sample grows.
	ConfidenceInterval float64

	Tier Tier

	// Raw metrics
	AccuracyRate         float64 // unweighted hits / total
	WeightedAccuracyRate float64 // recency-weighted
	AvgReturnPct         float64
	AvgRiskRewardRatio   float64
	BestTipReturnPct     *float64 // nil when no tip carries a realized return
	WorstTipReturnPct    *float64

	// Streaks from the most recent tip backward; at most one is nonzero.
	WinStreak  int
	LossStreak int

	TimeframeAccuracy TimeframeAccuracy
	MonthlyBreakdown  []MonthlyAccuracy // sorted ascending by month key

	TotalScoredTips  int
	ScorePeriodStart int64 // earliest tip_timestamp (unix ms), 0 when no tips
	ScorePeriodEnd   int64 // latest closed_at (unix ms), 0 when no tips
	ComputedAt       int64 // the "now" the invocation was pinned to (unix ms)
}
