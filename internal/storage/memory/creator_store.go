// Package memory provides in-memory store implementations used by tests,
// fixtures and the --use-fixtures mode of the binaries.
package memory

import (
	"context"
	"sort"
	"sync"

	"tipscore/internal/domain"
	"tipscore/internal/storage"
)

// CreatorStore is an in-memory implementation of storage.CreatorStore.
type CreatorStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Creator // keyed by creator_id
}

// NewCreatorStore creates a new in-memory creator store.
func NewCreatorStore() *CreatorStore {
	return &CreatorStore{
		data: make(map[string]*domain.Creator),
	}
}

// Insert adds a new creator. Returns ErrDuplicateKey if creator_id exists.
func (s *CreatorStore) Insert(_ context.Context, c *domain.Creator) error {
	if c == nil || c.CreatorID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.CreatorID]; exists {
		return storage.ErrDuplicateKey
	}

	creatorCopy := *c
	s.data[c.CreatorID] = &creatorCopy
	return nil
}

// GetByID retrieves a creator by its ID. Returns ErrNotFound if not exists.
func (s *CreatorStore) GetByID(_ context.Context, creatorID string) (*domain.Creator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[creatorID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	creatorCopy := *c
	return &creatorCopy, nil
}

// GetAll retrieves all creators, ordered by creator_id ASC.
func (s *CreatorStore) GetAll(_ context.Context) ([]*domain.Creator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Creator, 0, len(s.data))
	for _, c := range s.data {
		creatorCopy := *c
		result = append(result, &creatorCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatorID < result[j].CreatorID
	})

	return result, nil
}

var _ storage.CreatorStore = (*CreatorStore)(nil)
