package memory

import (
	"context"
	"sort"
	"sync"

	"tipscore/internal/domain"
	"tipscore/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.ScoreSnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ScoreSnapshot // keyed by snapshot_id
}

// NewSnapshotStore creates a new in-memory score snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		data: make(map[string]*domain.ScoreSnapshot),
	}
}

// Insert appends a snapshot. Returns ErrDuplicateKey if snapshot_id exists.
func (s *SnapshotStore) Insert(_ context.Context, snap *domain.ScoreSnapshot) error {
	if snap == nil || snap.SnapshotID == "" || snap.CreatorID == "" || snap.SnapshotDate == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[snap.SnapshotID]; exists {
		return storage.ErrDuplicateKey
	}

	snapCopy := *snap
	s.data[snap.SnapshotID] = &snapCopy
	return nil
}

// InsertBulk appends multiple snapshots. Fails entire batch on any duplicate.
func (s *SnapshotStore) InsertBulk(_ context.Context, snapshots []*domain.ScoreSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(snapshots))
	for _, snap := range snapshots {
		if snap == nil || snap.SnapshotID == "" || snap.CreatorID == "" || snap.SnapshotDate == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[snap.SnapshotID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[snap.SnapshotID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[snap.SnapshotID] = struct{}{}
	}

	for _, snap := range snapshots {
		snapCopy := *snap
		s.data[snap.SnapshotID] = &snapCopy
	}

	return nil
}

// GetByCreator retrieves a creator's snapshots within [start, end] inclusive,
// ordered by snapshot_date ASC. Date keys compare lexically ("YYYY-MM-DD").
func (s *SnapshotStore) GetByCreator(_ context.Context, creatorID, start, end string) ([]*domain.ScoreSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ScoreSnapshot
	for _, snap := range s.data {
		if snap.CreatorID != creatorID {
			continue
		}
		if snap.SnapshotDate < start || snap.SnapshotDate > end {
			continue
		}
		snapCopy := *snap
		result = append(result, &snapCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SnapshotDate < result[j].SnapshotDate
	})

	return result, nil
}

var _ storage.ScoreSnapshotStore = (*SnapshotStore)(nil)
