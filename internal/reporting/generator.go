package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tipscore/internal/domain"
	"tipscore/internal/storage"
)

// Generator produces leaderboard reports from stored scores.
type Generator struct {
	creatorStore storage.CreatorStore
	scoreStore   storage.ScoreStore
	now          func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(creatorStore storage.CreatorStore, scoreStore storage.ScoreStore) *Generator {
	return &Generator{
		creatorStore: creatorStore,
		scoreStore:   scoreStore,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete leaderboard report. limit bounds the
// leaderboard length; 0 means no bound.
func (g *Generator) Generate(ctx context.Context, limit int) (*Report, error) {
	scores, err := g.scoreStore.GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	report := &Report{
		GeneratedAt:  g.now(),
		CreatorCount: len(scores),
	}

	tierCounts := make(map[domain.Tier]int)
	for rank, score := range scores {
		tierCounts[score.Tier]++

		handle, err := g.handleFor(ctx, score.CreatorID)
		if err != nil {
			return nil, err
		}

		report.Leaderboard = append(report.Leaderboard, LeaderboardRow{
			Rank:               rank + 1,
			CreatorID:          score.CreatorID,
			Handle:             handle,
			Tier:               string(score.Tier),
			RMTScore:           score.RMTScore,
			ConfidenceInterval: score.ConfidenceInterval,
			AccuracyRate:       score.AccuracyRate,
			AvgReturnPct:       score.AvgReturnPct,
			TotalScoredTips:    score.TotalScoredTips,
			WinStreak:          score.WinStreak,
			LossStreak:         score.LossStreak,
		})

		if len(score.MonthlyBreakdown) > 0 {
			section := MonthlySection{CreatorID: score.CreatorID, Handle: handle}
			for _, m := range score.MonthlyBreakdown {
				section.Months = append(section.Months, MonthlyRow{
					Month:        m.Month,
					AccuracyRate: m.AccuracyRate,
					TipCount:     m.TipCount,
				})
			}
			report.MonthlyAppendix = append(report.MonthlyAppendix, section)
		}
	}

	for _, tier := range []domain.Tier{
		domain.TierUnrated, domain.TierBronze, domain.TierSilver,
		domain.TierGold, domain.TierPlatinum, domain.TierDiamond,
	} {
		report.TierDistribution = append(report.TierDistribution, TierCountRow{
			Tier:  string(tier),
			Count: tierCounts[tier],
		})
	}

	return report, nil
}

// handleFor resolves a creator's display handle; a score row without a
// creator row falls back to the raw ID rather than failing the report.
func (g *Generator) handleFor(ctx context.Context, creatorID string) (string, error) {
	creator, err := g.creatorStore.GetByID(ctx, creatorID)
	if errors.Is(err, storage.ErrNotFound) {
		return creatorID, nil
	}
	if err != nil {
		return "", fmt.Errorf("load creator %s: %w", creatorID, err)
	}
	return creator.Handle, nil
}
