package storage

import (
	"context"

	"tipscore/internal/domain"
)

// CreatorStore provides access to creators storage.
type CreatorStore interface {
	// Insert adds a new creator. Returns ErrDuplicateKey if creator_id exists.
	Insert(ctx context.Context, c *domain.Creator) error

	// GetByID retrieves a creator by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, creatorID string) (*domain.Creator, error)

	// GetAll retrieves all creators, ordered by creator_id ASC.
	GetAll(ctx context.Context) ([]*domain.Creator, error)
}

// TipStore provides access to completed_tips storage.
type TipStore interface {
	// Insert adds a new tip. Returns ErrDuplicateKey if tip_id exists.
	Insert(ctx context.Context, t *domain.CompletedTip) error

	// InsertBulk adds multiple tips atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, tips []*domain.CompletedTip) error

	// GetByID retrieves a tip by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tipID string) (*domain.CompletedTip, error)

	// GetTerminalByCreator retrieves the creator's resolved tips, ordered by
	// closed_at ASC, tip_id ASC. This is the scoring engine's input query.
	GetTerminalByCreator(ctx context.Context, creatorID string) ([]*domain.CompletedTip, error)
}

// ScoreStore holds each creator's current score. Unlike the tip history this
// is overwritten in place on every scoring run.
type ScoreStore interface {
	// Upsert stores the creator's current score, replacing any previous one.
	Upsert(ctx context.Context, r *domain.ScoreResult) error

	// GetByCreator retrieves the current score. Returns ErrNotFound if the
	// creator has never been scored.
	GetByCreator(ctx context.Context, creatorID string) (*domain.ScoreResult, error)

	// GetLeaderboard retrieves current scores ordered by composite score DESC,
	// creator_id ASC. Unrated creators are included; ranking display is the
	// caller's concern.
	GetLeaderboard(ctx context.Context, limit int) ([]*domain.ScoreResult, error)
}

// ScoreSnapshotStore is the append-only daily score history used for charts
// and score audits.
type ScoreSnapshotStore interface {
	// Insert appends a snapshot. Returns ErrDuplicateKey if snapshot_id exists.
	Insert(ctx context.Context, s *domain.ScoreSnapshot) error

	// InsertBulk appends multiple snapshots. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, snapshots []*domain.ScoreSnapshot) error

	// GetByCreator retrieves a creator's snapshots within [start, end] days
	// (inclusive, "YYYY-MM-DD" UTC), ordered by snapshot_date ASC.
	GetByCreator(ctx context.Context, creatorID, start, end string) ([]*domain.ScoreSnapshot, error)
}
