package scoring

import (
	"math"
	"sort"
	"time"

	"tipscore/internal/domain"
)

// neutralConsistencyScore is returned when fewer than minConsistencyMonths
// distinct months carry data: too little history to judge stability either way.
const neutralConsistencyScore = 50.0

// minConsistencyMonths is the number of distinct months required before
// month-over-month variance is considered meaningful.
const minConsistencyMonths = 3

// ConsistencyResult holds the stability score and its monthly breakdown.
type ConsistencyResult struct {
	Score   float64
	Monthly []domain.MonthlyAccuracy // sorted ascending by month key
}

// computeConsistency measures how stable a creator's monthly accuracy is.
//
// Tips are bucketed by the UTC calendar month of ClosedAt ("YYYY-MM"). The
// score is derived from the coefficient of variation of the monthly accuracy
// rates, using population standard deviation:
//
//   - fewer than 3 distinct months       -> 50 (neutral, by policy)
//   - mean accuracy of 0 across months   -> 0  (wrong every month is not neutral)
//   - CV >= 1                            -> 0  (variation as large as the mean)
//   - otherwise                          -> (1 - CV) * 100
//
// Identical accuracy every month gives exactly 100. The score is independent
// of the accuracy level itself: steady-but-moderate beats high-but-erratic.
func computeConsistency(tips []*domain.CompletedTip) ConsistencyResult {
	monthly := bucketByMonth(tips)

	result := ConsistencyResult{Monthly: monthly}

	if len(monthly) < minConsistencyMonths {
		result.Score = neutralConsistencyScore
		return result
	}

	rates := make([]float64, len(monthly))
	for i, m := range monthly {
		rates[i] = m.AccuracyRate
	}

	mean := meanOf(rates)
	if mean == 0 {
		result.Score = 0
		return result
	}

	cv := populationStddev(rates, mean) / mean
	if cv >= 1 {
		result.Score = 0
		return result
	}

	result.Score = clampScore((1 - cv) * 100)
	return result
}

// bucketByMonth groups tips by the UTC month of their resolution instant and
// computes each bucket's accuracy rate. Buckets come back sorted ascending by
// month key, so output order never depends on map iteration.
func bucketByMonth(tips []*domain.CompletedTip) []domain.MonthlyAccuracy {
	type bucket struct {
		hits  int
		total int
	}

	buckets := make(map[string]*bucket)
	for _, t := range tips {
		key := monthKey(t.ClosedAt)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.total++
		if t.Status.IsHit() {
			b.hits++
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	monthly := make([]domain.MonthlyAccuracy, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		monthly = append(monthly, domain.MonthlyAccuracy{
			Month:        k,
			AccuracyRate: float64(b.hits) / float64(b.total),
			TipCount:     b.total,
		})
	}
	return monthly
}

// monthKey renders a unix-ms instant as its UTC "YYYY-MM" bucket key.
// UTC keeps tips near month boundaries in the same bucket on every host.
func monthKey(unixMs int64) string {
	return time.UnixMilli(unixMs).UTC().Format("2006-01")
}

// meanOf calculates the arithmetic mean.
func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStddev calculates population standard deviation (n denominator).
// The monthly rates are the full population of observed months, not a sample.
func populationStddev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
