package domain

import "fmt"

// ScoringConfig holds the versioned constants of the scoring formula.
// It is fixed per engine instance, never mutated at runtime.
type ScoringConfig struct {
	// Composite weights. Must sum to exactly 1.0.
	AccuracyWeight     float64 `yaml:"accuracy_weight"`
	RiskAdjustedWeight float64 `yaml:"risk_adjusted_weight"`
	ConsistencyWeight  float64 `yaml:"consistency_weight"`
	VolumeFactorWeight float64 `yaml:"volume_factor_weight"`

	// HalfLifeDays controls the recency decay of the accuracy component.
	HalfLifeDays float64 `yaml:"half_life_days"`

	// MaxExpectedTips is the volume ceiling beyond which more tips add no credit.
	MaxExpectedTips int `yaml:"max_expected_tips"`

	// Normalization ceilings for the risk-adjusted component.
	ExpectedReturnPct     float64 `yaml:"expected_return_pct"`
	TargetRiskRewardRatio float64 `yaml:"target_risk_reward_ratio"`

	// Tier thresholds: minimum total scored tips per tier.
	BronzeMinTips   int `yaml:"bronze_min_tips"`
	SilverMinTips   int `yaml:"silver_min_tips"`
	GoldMinTips     int `yaml:"gold_min_tips"`
	PlatinumMinTips int `yaml:"platinum_min_tips"`
	DiamondMinTips  int `yaml:"diamond_min_tips"`
}

// DefaultScoringConfig returns the published v1 scoring constants.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		AccuracyWeight:     0.40,
		RiskAdjustedWeight: 0.30,
		ConsistencyWeight:  0.20,
		VolumeFactorWeight: 0.10,

		HalfLifeDays:    90,
		MaxExpectedTips: 500,

		ExpectedReturnPct:     10.0,
		TargetRiskRewardRatio: 2.0,

		BronzeMinTips:   20,
		SilverMinTips:   50,
		GoldMinTips:     200,
		PlatinumMinTips: 500,
		DiamondMinTips:  1000,
	}
}

// WeightSum returns the sum of the four composite weights. The pairs are
// added first so the published constants (0.40+0.10 and 0.30+0.20, each
// exactly 0.5 in float64) sum to exactly 1.0 rather than accumulating a
// rounding residue left to right.
func (c ScoringConfig) WeightSum() float64 {
	return (c.AccuracyWeight + c.VolumeFactorWeight) + (c.RiskAdjustedWeight + c.ConsistencyWeight)
}

// Validate checks the configuration contract. The weight sum must be exact:
// the composite must be reconstructable from the components.
func (c ScoringConfig) Validate() error {
	if sum := c.WeightSum(); sum != 1.0 {
		return fmt.Errorf("composite weights must sum to exactly 1.0, got %v", sum)
	}
	if c.AccuracyWeight < 0 || c.RiskAdjustedWeight < 0 || c.ConsistencyWeight < 0 || c.VolumeFactorWeight < 0 {
		return fmt.Errorf("composite weights must be non-negative")
	}
	if c.HalfLifeDays <= 0 {
		return fmt.Errorf("half_life_days must be positive, got %v", c.HalfLifeDays)
	}
	if c.MaxExpectedTips <= 0 {
		return fmt.Errorf("max_expected_tips must be positive, got %d", c.MaxExpectedTips)
	}
	if c.ExpectedReturnPct <= 0 {
		return fmt.Errorf("expected_return_pct must be positive, got %v", c.ExpectedReturnPct)
	}
	if c.TargetRiskRewardRatio <= 0 {
		return fmt.Errorf("target_risk_reward_ratio must be positive, got %v", c.TargetRiskRewardRatio)
	}
	thresholds := []int{c.BronzeMinTips, c.SilverMinTips, c.GoldMinTips, c.PlatinumMinTips, c.DiamondMinTips}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] <= thresholds[i-1] {
			return fmt.Errorf("tier thresholds must be strictly ascending, got %v", thresholds)
		}
	}
	if c.BronzeMinTips <= 0 {
		return fmt.Errorf("bronze_min_tips must be positive, got %d", c.BronzeMinTips)
	}
	return nil
}

// TierFor classifies a tip count into a tier. Boundaries are inclusive on
// the lower tier: exactly BronzeMinTips tips is already BRONZE.
func (c ScoringConfig) TierFor(totalScoredTips int) Tier {
	switch {
	case totalScoredTips >= c.DiamondMinTips:
		return TierDiamond
	case totalScoredTips >= c.PlatinumMinTips:
		return TierPlatinum
	case totalScoredTips >= c.GoldMinTips:
		return TierGold
	case totalScoredTips >= c.SilverMinTips:
		return TierSilver
	case totalScoredTips >= c.BronzeMinTips:
		return TierBronze
	default:
		return TierUnrated
	}
}
