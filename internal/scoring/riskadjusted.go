package scoring

import "tipscore/internal/domain"

// RiskAdjustedResult holds return- and risk-discipline metrics.
type RiskAdjustedResult struct {
	AvgReturnPct       float64
	AvgRiskRewardRatio float64
	BestReturnPct      *float64 // nil when no tip carries a realized return
	WorstReturnPct     *float64
	Score              float64
}

// computeRiskAdjusted averages realized returns and risk/reward ratios and
// normalizes both against configured ceilings.
//
// Tips with a nil ReturnPct (some expiries never resolve a price) are excluded
// from the return mean rather than counted as zero; the same policy applies to
// RiskRewardRatio. With every value nil the averages are 0.
func computeRiskAdjusted(tips []*domain.CompletedTip, expectedReturnPct, targetRiskRewardRatio float64) RiskAdjustedResult {
	var result RiskAdjustedResult
	if len(tips) == 0 {
		return result
	}

	returnSum := 0.0
	returnCount := 0
	ratioSum := 0.0
	ratioCount := 0

	for _, t := range tips {
		if t.ReturnPct != nil {
			r := *t.ReturnPct
			returnSum += r
			returnCount++

			if result.BestReturnPct == nil || r > *result.BestReturnPct {
				v := r
				result.BestReturnPct = &v
			}
			if result.WorstReturnPct == nil || r < *result.WorstReturnPct {
				v := r
				result.WorstReturnPct = &v
			}
		}
		if t.RiskRewardRatio != nil {
			ratioSum += *t.RiskRewardRatio
			ratioCount++
		}
	}

	if returnCount > 0 {
		result.AvgReturnPct = returnSum / float64(returnCount)
	}
	if ratioCount > 0 {
		result.AvgRiskRewardRatio = ratioSum / float64(ratioCount)
	}

	// Each raw metric maps monotonically onto [0,1] against its ceiling, then
	// the two halves are averaged. Negative averages floor at 0.
	returnScore := clampUnit(result.AvgReturnPct / expectedReturnPct)
	ratioScore := clampUnit(result.AvgRiskRewardRatio / targetRiskRewardRatio)
	result.Score = clampScore((returnScore + ratioScore) / 2 * 100)

	return result
}
