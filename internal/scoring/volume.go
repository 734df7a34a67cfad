package scoring

// computeVolumeFactor maps sample size onto [0,100] with a saturating ramp:
// min(1, total/maxExpected) * 100. Volume dampens or boosts the composite but
// never gates it; beyond the ceiling more tips add no further credit.
func computeVolumeFactor(totalScoredTips, maxExpectedTips int) float64 {
	if totalScoredTips <= 0 || maxExpectedTips <= 0 {
		return 0
	}
	factor := float64(totalScoredTips) / float64(maxExpectedTips)
	if factor > 1 {
		factor = 1
	}
	return factor * 100
}
