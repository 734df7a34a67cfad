package memory

import (
	"context"
	"sort"
	"sync"

	"tipscore/internal/domain"
	"tipscore/internal/storage"
)

// ScoreStore is an in-memory implementation of storage.ScoreStore.
type ScoreStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ScoreResult // keyed by creator_id
}

// NewScoreStore creates a new in-memory current-score store.
func NewScoreStore() *ScoreStore {
	return &ScoreStore{
		data: make(map[string]*domain.ScoreResult),
	}
}

// Upsert stores the creator's current score, replacing any previous one.
func (s *ScoreStore) Upsert(_ context.Context, r *domain.ScoreResult) error {
	if r == nil || r.CreatorID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[r.CreatorID] = copyScoreResult(r)
	return nil
}

// GetByCreator retrieves the current score. Returns ErrNotFound if the creator
// has never been scored.
func (s *ScoreStore) GetByCreator(_ context.Context, creatorID string) (*domain.ScoreResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[creatorID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copyScoreResult(r), nil
}

// GetLeaderboard retrieves current scores ordered by composite score DESC,
// creator_id ASC. limit <= 0 returns all.
func (s *ScoreStore) GetLeaderboard(_ context.Context, limit int) ([]*domain.ScoreResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ScoreResult, 0, len(s.data))
	for _, r := range s.data {
		result = append(result, copyScoreResult(r))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].RMTScore != result[j].RMTScore {
			return result[i].RMTScore > result[j].RMTScore
		}
		return result[i].CreatorID < result[j].CreatorID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// copyScoreResult deep-copies a score result, including its nullable pointers
// and monthly breakdown, so callers can never alias stored state.
func copyScoreResult(r *domain.ScoreResult) *domain.ScoreResult {
	resultCopy := *r

	resultCopy.BestTipReturnPct = copyFloatPtr(r.BestTipReturnPct)
	resultCopy.WorstTipReturnPct = copyFloatPtr(r.WorstTipReturnPct)

	resultCopy.TimeframeAccuracy = domain.TimeframeAccuracy{
		Intraday:   copyFloatPtr(r.TimeframeAccuracy.Intraday),
		Swing:      copyFloatPtr(r.TimeframeAccuracy.Swing),
		Positional: copyFloatPtr(r.TimeframeAccuracy.Positional),
		LongTerm:   copyFloatPtr(r.TimeframeAccuracy.LongTerm),
	}

	if r.MonthlyBreakdown != nil {
		resultCopy.MonthlyBreakdown = make([]domain.MonthlyAccuracy, len(r.MonthlyBreakdown))
		copy(resultCopy.MonthlyBreakdown, r.MonthlyBreakdown)
	}

	return &resultCopy
}

func copyFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

var _ storage.ScoreStore = (*ScoreStore)(nil)
