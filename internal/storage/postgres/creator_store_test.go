package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipscore/internal/domain"
	"tipscore/internal/storage"
)

func TestCreatorStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewCreatorStore(pool)
	ctx := context.Background()

	creator := &domain.Creator{
		CreatorID:    "creator-1",
		Handle:       "@alphacalls",
		Platform:     "telegram",
		RegisteredAt: 1700000000000,
	}
	require.NoError(t, store.Insert(ctx, creator))

	retrieved, err := store.GetByID(ctx, "creator-1")
	require.NoError(t, err)
	assert.Equal(t, creator, retrieved)
}

func TestCreatorStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewCreatorStore(pool)
	ctx := context.Background()

	creator := &domain.Creator{
		CreatorID:    "creator-1",
		Handle:       "@alphacalls",
		Platform:     "telegram",
		RegisteredAt: 1700000000000,
	}
	require.NoError(t, store.Insert(ctx, creator))
	assert.ErrorIs(t, store.Insert(ctx, creator), storage.ErrDuplicateKey)
}

func TestCreatorStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewCreatorStore(pool)
	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCreatorStore_GetAllOrdering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewCreatorStore(pool)
	ctx := context.Background()

	for _, id := range []string{"creator-c", "creator-a", "creator-b"} {
		require.NoError(t, store.Insert(ctx, &domain.Creator{
			CreatorID:    id,
			Handle:       "@" + id,
			Platform:     "discord",
			RegisteredAt: 1700000000000,
		}))
	}

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "creator-a", all[0].CreatorID)
	assert.Equal(t, "creator-b", all[1].CreatorID)
	assert.Equal(t, "creator-c", all[2].CreatorID)
}
