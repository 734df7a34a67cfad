package memory

import (
	"context"
	"sort"
	"sync"

	"tipscore/internal/domain"
	"tipscore/internal/storage"
)

// TipStore is an in-memory implementation of storage.TipStore.
type TipStore struct {
	mu   sync.RWMutex
	data map[string]*domain.CompletedTip // keyed by tip_id
}

// NewTipStore creates a new in-memory tip store.
func NewTipStore() *TipStore {
	return &TipStore{
		data: make(map[string]*domain.CompletedTip),
	}
}

// Insert adds a new tip. Returns ErrDuplicateKey if tip_id exists.
func (s *TipStore) Insert(_ context.Context, t *domain.CompletedTip) error {
	if t == nil || t.TipID == "" || t.CreatorID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TipID]; exists {
		return storage.ErrDuplicateKey
	}

	tipCopy := *t
	s.data[t.TipID] = &tipCopy
	return nil
}

// InsertBulk adds multiple tips atomically. Fails entire batch on any duplicate.
func (s *TipStore) InsertBulk(_ context.Context, tips []*domain.CompletedTip) error {
	if len(tips) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: detect existing and intra-batch duplicates.
	batchKeys := make(map[string]struct{}, len(tips))
	for _, t := range tips {
		if t == nil || t.TipID == "" || t.CreatorID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[t.TipID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[t.TipID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[t.TipID] = struct{}{}
	}

	// Second pass: insert all.
	for _, t := range tips {
		tipCopy := *t
		s.data[t.TipID] = &tipCopy
	}

	return nil
}

// GetByID retrieves a tip by its ID. Returns ErrNotFound if not exists.
func (s *TipStore) GetByID(_ context.Context, tipID string) (*domain.CompletedTip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[tipID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	tipCopy := *t
	return &tipCopy, nil
}

// GetTerminalByCreator retrieves the creator's resolved tips, ordered by
// closed_at ASC, tip_id ASC.
func (s *TipStore) GetTerminalByCreator(_ context.Context, creatorID string) ([]*domain.CompletedTip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.CompletedTip
	for _, t := range s.data {
		if t.CreatorID == creatorID && t.Status.IsTerminal() {
			tipCopy := *t
			result = append(result, &tipCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ClosedAt != result[j].ClosedAt {
			return result[i].ClosedAt < result[j].ClosedAt
		}
		return result[i].TipID < result[j].TipID
	})

	return result, nil
}

var _ storage.TipStore = (*TipStore)(nil)
