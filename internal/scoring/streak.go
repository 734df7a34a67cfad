package scoring

import (
	"sort"

	"tipscore/internal/domain"
)

// computeStreaks counts the run of consecutive hits or misses ending at the
// most recent tip. Exactly one of the returned values is nonzero for a
// non-empty history; a single tip yields a streak of 1 in its direction.
func computeStreaks(tips []*domain.CompletedTip) (winStreak, lossStreak int) {
	if len(tips) == 0 {
		return 0, 0
	}

	// Most recent first, TipID as tiebreak for determinism.
	ordered := make([]*domain.CompletedTip, len(tips))
	copy(ordered, tips)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].ClosedAt != ordered[j].ClosedAt {
			return ordered[i].ClosedAt > ordered[j].ClosedAt
		}
		return ordered[i].TipID > ordered[j].TipID
	})

	leading := ordered[0].Status.IsHit()
	streak := 0
	for _, t := range ordered {
		if t.Status.IsHit() != leading {
			break
		}
		streak++
	}

	if leading {
		return streak, 0
	}
	return 0, streak
}
