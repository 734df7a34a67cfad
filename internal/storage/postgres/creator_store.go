package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tipscore/internal/domain"
	"tipscore/internal/storage"
)

// CreatorStore implements storage.CreatorStore using PostgreSQL.
type CreatorStore struct {
	pool *Pool
}

// NewCreatorStore creates a new CreatorStore.
func NewCreatorStore(pool *Pool) *CreatorStore {
	return &CreatorStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CreatorStore = (*CreatorStore)(nil)

// Insert adds a new creator. Returns ErrDuplicateKey if creator_id exists.
func (s *CreatorStore) Insert(ctx context.Context, c *domain.Creator) error {
	query := `
		INSERT INTO creators (creator_id, handle, platform, registered_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, c.CreatorID, c.Handle, c.Platform, c.RegisteredAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert creator: %w", err)
	}
	return nil
}

// GetByID retrieves a creator by its ID. Returns ErrNotFound if not exists.
func (s *CreatorStore) GetByID(ctx context.Context, creatorID string) (*domain.Creator, error) {
	query := `
		SELECT creator_id, handle, platform, registered_at
		FROM creators
		WHERE creator_id = $1
	`

	row := s.pool.QueryRow(ctx, query, creatorID)
	c, err := scanCreator(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get creator by id: %w", err)
	}
	return c, nil
}

// GetAll retrieves all creators, ordered by creator_id ASC.
func (s *CreatorStore) GetAll(ctx context.Context) ([]*domain.Creator, error) {
	query := `
		SELECT creator_id, handle, platform, registered_at
		FROM creators
		ORDER BY creator_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all creators: %w", err)
	}
	defer rows.Close()

	var creators []*domain.Creator
	for rows.Next() {
		var c domain.Creator
		if err := rows.Scan(&c.CreatorID, &c.Handle, &c.Platform, &c.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan creator row: %w", err)
		}
		creators = append(creators, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate creator rows: %w", err)
	}

	return creators, nil
}

// scanCreator scans a single row into a Creator.
func scanCreator(row pgx.Row) (*domain.Creator, error) {
	var c domain.Creator
	if err := row.Scan(&c.CreatorID, &c.Handle, &c.Platform, &c.RegisteredAt); err != nil {
		return nil, err
	}
	return &c, nil
}
