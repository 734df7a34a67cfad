package memory

import (
	"context"
	"errors"
	"testing"

	"tipscore/internal/domain"
	"tipscore/internal/storage"
)

func makeTip(tipID, creatorID string, status domain.TipStatus, closedAt int64) *domain.CompletedTip {
	return &domain.CompletedTip{
		TipID:        tipID,
		CreatorID:    creatorID,
		Direction:    domain.DirectionBuy,
		EntryPrice:   100,
		Target1:      110,
		StopLoss:     95,
		Timeframe:    domain.TimeframeSwing,
		Status:       status,
		TipTimestamp: closedAt - 1000,
		ClosedAt:     closedAt,
	}
}

func TestTipStore_InsertAndGet(t *testing.T) {
	store := NewTipStore()
	ctx := context.Background()

	tip := makeTip("tip1", "creator1", domain.StatusTarget1Hit, 5000)
	ret := 12.5
	tip.ReturnPct = &ret

	if err := store.Insert(ctx, tip); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "tip1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.CreatorID != "creator1" {
		t.Errorf("CreatorID mismatch: got %s", got.CreatorID)
	}
	if got.ReturnPct == nil || *got.ReturnPct != 12.5 {
		t.Errorf("ReturnPct mismatch: got %v", got.ReturnPct)
	}
}

func TestTipStore_DuplicateKey(t *testing.T) {
	store := NewTipStore()
	ctx := context.Background()

	tip := makeTip("tip1", "creator1", domain.StatusTarget1Hit, 5000)

	if err := store.Insert(ctx, tip); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, tip)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTipStore_NotFound(t *testing.T) {
	store := NewTipStore()
	ctx := context.Background()

	_, err := store.GetByID(ctx, "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTipStore_InsertBulkAtomicOnDuplicate(t *testing.T) {
	store := NewTipStore()
	ctx := context.Background()

	if err := store.Insert(ctx, makeTip("tip1", "creator1", domain.StatusTarget1Hit, 1000)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	batch := []*domain.CompletedTip{
		makeTip("tip2", "creator1", domain.StatusStoplossHit, 2000),
		makeTip("tip1", "creator1", domain.StatusTarget1Hit, 1000), // duplicate
	}

	err := store.InsertBulk(ctx, batch)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	// Nothing from the failed batch may be visible.
	if _, err := store.GetByID(ctx, "tip2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected tip2 absent after failed batch, got %v", err)
	}
}

func TestTipStore_GetTerminalByCreatorOrderedAndFiltered(t *testing.T) {
	store := NewTipStore()
	ctx := context.Background()

	tips := []*domain.CompletedTip{
		makeTip("tip-b", "creator1", domain.StatusStoplossHit, 3000),
		makeTip("tip-a", "creator1", domain.StatusTarget1Hit, 3000), // same instant, id breaks tie
		makeTip("tip-c", "creator1", domain.StatusExpired, 1000),
		makeTip("tip-d", "creator2", domain.StatusTarget1Hit, 2000), // other creator
	}
	pending := makeTip("tip-e", "creator1", domain.StatusTarget1Hit, 4000)
	pending.Status = "ACTIVE"
	tips = append(tips, pending)

	if err := store.InsertBulk(ctx, tips); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetTerminalByCreator(ctx, "creator1")
	if err != nil {
		t.Fatalf("GetTerminalByCreator failed: %v", err)
	}

	wantOrder := []string{"tip-c", "tip-a", "tip-b"}
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d tips, got %d", len(wantOrder), len(got))
	}
	for i, id := range wantOrder {
		if got[i].TipID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].TipID)
		}
	}
}

func TestTipStore_ReturnedTipsAreCopies(t *testing.T) {
	store := NewTipStore()
	ctx := context.Background()

	if err := store.Insert(ctx, makeTip("tip1", "creator1", domain.StatusTarget1Hit, 1000)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "tip1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	got.CreatorID = "mutated"

	again, err := store.GetByID(ctx, "tip1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if again.CreatorID != "creator1" {
		t.Error("store state leaked through returned pointer")
	}
}

func TestTipStore_InvalidInput(t *testing.T) {
	store := NewTipStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil tip, got %v", err)
	}
	if err := store.Insert(ctx, &domain.CompletedTip{TipID: "x"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for missing creator, got %v", err)
	}
}
