package memory

import (
	"context"
	"errors"
	"testing"

	"tipscore/internal/domain"
	"tipscore/internal/storage"
)

func TestCreatorStore_InsertAndGet(t *testing.T) {
	store := NewCreatorStore()
	ctx := context.Background()

	creator := &domain.Creator{
		CreatorID:    "creator1",
		Handle:       "@alpha_calls",
		Platform:     "telegram",
		RegisteredAt: 1700000000000,
	}

	if err := store.Insert(ctx, creator); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "creator1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Handle != "@alpha_calls" {
		t.Errorf("Handle mismatch: got %s", got.Handle)
	}
}

func TestCreatorStore_DuplicateKey(t *testing.T) {
	store := NewCreatorStore()
	ctx := context.Background()

	creator := &domain.Creator{CreatorID: "creator1", Handle: "@a"}
	if err := store.Insert(ctx, creator); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	if err := store.Insert(ctx, creator); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestCreatorStore_GetAllSorted(t *testing.T) {
	store := NewCreatorStore()
	ctx := context.Background()

	for _, id := range []string{"creator-c", "creator-a", "creator-b"} {
		if err := store.Insert(ctx, &domain.Creator{CreatorID: id}); err != nil {
			t.Fatalf("Insert %s failed: %v", id, err)
		}
	}

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}

	wantOrder := []string{"creator-a", "creator-b", "creator-c"}
	for i, id := range wantOrder {
		if got[i].CreatorID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].CreatorID)
		}
	}
}

func TestCreatorStore_NotFound(t *testing.T) {
	store := NewCreatorStore()
	ctx := context.Background()

	if _, err := store.GetByID(ctx, "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
