// Package fixtures populates stores with demo data for local runs.
package fixtures

import (
	"context"
	"fmt"
	"time"

	"tipscore/internal/domain"
	"tipscore/internal/idhash"
	"tipscore/internal/storage"
)

// anchor keeps the generated history fixed so demo runs are reproducible.
var anchor = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

// LoadFixtures populates stores with a small roster of creators whose tip
// histories exercise every tier boundary below GOLD.
func LoadFixtures(ctx context.Context, creatorStore storage.CreatorStore, tipStore storage.TipStore) error {
	if err := loadCreators(ctx, creatorStore); err != nil {
		return err
	}
	return loadTips(ctx, tipStore)
}

func loadCreators(ctx context.Context, store storage.CreatorStore) error {
	creators := []*domain.Creator{
		{
			CreatorID:    "creator_sharp",
			Handle:       "@sharpcalls",
			Platform:     "telegram",
			RegisteredAt: anchor.AddDate(-1, 0, 0).UnixMilli(),
		},
		{
			CreatorID:    "creator_coinflip",
			Handle:       "@coinflip",
			Platform:     "discord",
			RegisteredAt: anchor.AddDate(0, -8, 0).UnixMilli(),
		},
		{
			CreatorID:    "creator_rookie",
			Handle:       "@rookie",
			Platform:     "telegram",
			RegisteredAt: anchor.AddDate(0, -1, 0).UnixMilli(),
		},
	}

	for _, c := range creators {
		if err := store.Insert(ctx, c); err != nil {
			return fmt.Errorf("insert creator %s: %w", c.CreatorID, err)
		}
	}
	return nil
}

func loadTips(ctx context.Context, store storage.TipStore) error {
	var tips []*domain.CompletedTip

	// Sharp creator: 60 tips over 6 months, ~75% hit rate, SILVER volume.
	tips = append(tips, history("creator_sharp", 60, 4)...)

	// Coin flipper: 30 tips, every other one a stoploss, BRONZE volume.
	tips = append(tips, history("creator_coinflip", 30, 2)...)

	// Rookie: 8 tips, too few for a tier.
	tips = append(tips, history("creator_rookie", 8, 3)...)

	return store.InsertBulk(ctx, tips)
}

// history generates count tips spaced 3 days apart walking back from the
// anchor; every hitEvery-th tip is a stoploss.
func history(creatorID string, count, hitEvery int) []*domain.CompletedTip {
	timeframes := domain.Timeframes

	tips := make([]*domain.CompletedTip, 0, count)
	for i := 0; i < count; i++ {
		opened := anchor.AddDate(0, 0, -3*(i+1))
		closed := opened.Add(36 * time.Hour)

		status := domain.StatusTarget1Hit
		returnPct := 8.0
		if i%hitEvery == hitEvery-1 {
			status = domain.StatusStoplossHit
			returnPct = -5.0
		}

		entry := 100.0 + float64(i)
		tf := timeframes[i%len(timeframes)]
		tips = append(tips, &domain.CompletedTip{
			TipID:           idhash.ComputeTipID(creatorID, string(tf), opened.UnixMilli(), entry),
			CreatorID:       creatorID,
			Direction:       domain.DirectionBuy,
			EntryPrice:      entry,
			Target1:         entry * 1.08,
			StopLoss:        entry * 0.95,
			Timeframe:       tf,
			Status:          status,
			TipTimestamp:    opened.UnixMilli(),
			ClosedAt:        closed.UnixMilli(),
			ReturnPct:       &returnPct,
			RiskRewardRatio: ptr(1.6),
		})
	}
	return tips
}

func ptr[T any](v T) *T {
	return &v
}
