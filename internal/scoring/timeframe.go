package scoring

import "tipscore/internal/domain"

// computeTimeframeAccuracy partitions tips by trade horizon and computes each
// partition's accuracy rate. A horizon with zero tips stays nil: a creator who
// has never posted an intraday call is unrated for intraday, not 0% accurate.
func computeTimeframeAccuracy(tips []*domain.CompletedTip) domain.TimeframeAccuracy {
	type bucket struct {
		hits  int
		total int
	}

	buckets := make(map[domain.Timeframe]*bucket, len(domain.Timeframes))
	for _, t := range tips {
		b, ok := buckets[t.Timeframe]
		if !ok {
			b = &bucket{}
			buckets[t.Timeframe] = b
		}
		b.total++
		if t.Status.IsHit() {
			b.hits++
		}
	}

	rate := func(tf domain.Timeframe) *float64 {
		b, ok := buckets[tf]
		if !ok || b.total == 0 {
			return nil
		}
		r := float64(b.hits) / float64(b.total)
		return &r
	}

	return domain.TimeframeAccuracy{
		Intraday:   rate(domain.TimeframeIntraday),
		Swing:      rate(domain.TimeframeSwing),
		Positional: rate(domain.TimeframePositional),
		LongTerm:   rate(domain.TimeframeLongTerm),
	}
}
