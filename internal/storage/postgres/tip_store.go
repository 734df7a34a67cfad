package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tipscore/internal/domain"
	"tipscore/internal/storage"
)

// TipStore implements storage.TipStore using PostgreSQL.
type TipStore struct {
	pool *Pool
}

// NewTipStore creates a new TipStore.
func NewTipStore(pool *Pool) *TipStore {
	return &TipStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TipStore = (*TipStore)(nil)

const tipColumns = `
	tip_id, creator_id, direction,
	entry_price, target_1, target_2, target_3, stop_loss,
	timeframe, status, tip_timestamp, closed_at, closed_price,
	return_pct, risk_reward_ratio
`

const insertTipQuery = `
	INSERT INTO completed_tips (
		tip_id, creator_id, direction,
		entry_price, target_1, target_2, target_3, stop_loss,
		timeframe, status, tip_timestamp, closed_at, closed_price,
		return_pct, risk_reward_ratio
	) VALUES (
		$1, $2, $3,
		$4, $5, $6, $7, $8,
		$9, $10, $11, $12, $13,
		$14, $15
	)
`

// Insert adds a new tip. Returns ErrDuplicateKey if tip_id exists.
func (s *TipStore) Insert(ctx context.Context, t *domain.CompletedTip) error {
	_, err := s.pool.Exec(ctx, insertTipQuery, tipArgs(t)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert tip: %w", err)
	}
	return nil
}

// InsertBulk adds multiple tips atomically. Fails entire batch on any duplicate.
func (s *TipStore) InsertBulk(ctx context.Context, tips []*domain.CompletedTip) error {
	if len(tips) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range tips {
		if _, err := tx.Exec(ctx, insertTipQuery, tipArgs(t)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert tip in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves a tip by its ID. Returns ErrNotFound if not exists.
func (s *TipStore) GetByID(ctx context.Context, tipID string) (*domain.CompletedTip, error) {
	query := `SELECT ` + tipColumns + ` FROM completed_tips WHERE tip_id = $1`

	row := s.pool.QueryRow(ctx, query, tipID)
	t, err := scanTip(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get tip by id: %w", err)
	}
	return t, nil
}

// GetTerminalByCreator retrieves the creator's resolved tips, ordered by
// closed_at ASC, tip_id ASC. Terminal filtering happens in SQL so the scoring
// job never sees an open tip even if one slips into the table.
func (s *TipStore) GetTerminalByCreator(ctx context.Context, creatorID string) ([]*domain.CompletedTip, error) {
	query := `
		SELECT ` + tipColumns + `
		FROM completed_tips
		WHERE creator_id = $1
		  AND status IN ('TARGET_1_HIT', 'TARGET_2_HIT', 'TARGET_3_HIT', 'ALL_TARGETS_HIT', 'STOPLOSS_HIT', 'EXPIRED')
		ORDER BY closed_at ASC, tip_id ASC
	`

	rows, err := s.pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("get terminal tips by creator: %w", err)
	}
	defer rows.Close()

	return scanTips(rows)
}

// tipArgs flattens a tip into insert arguments in tipColumns order.
func tipArgs(t *domain.CompletedTip) []any {
	return []any{
		t.TipID, t.CreatorID, string(t.Direction),
		t.EntryPrice, t.Target1, t.Target2, t.Target3, t.StopLoss,
		string(t.Timeframe), string(t.Status), t.TipTimestamp, t.ClosedAt, t.ClosedPrice,
		t.ReturnPct, t.RiskRewardRatio,
	}
}

// scanTip scans a single row into a CompletedTip.
func scanTip(row pgx.Row) (*domain.CompletedTip, error) {
	var t domain.CompletedTip
	err := row.Scan(
		&t.TipID, &t.CreatorID, &t.Direction,
		&t.EntryPrice, &t.Target1, &t.Target2, &t.Target3, &t.StopLoss,
		&t.Timeframe, &t.Status, &t.TipTimestamp, &t.ClosedAt, &t.ClosedPrice,
		&t.ReturnPct, &t.RiskRewardRatio,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// scanTips scans multiple rows into a slice of CompletedTip.
func scanTips(rows pgx.Rows) ([]*domain.CompletedTip, error) {
	var tips []*domain.CompletedTip

	for rows.Next() {
		var t domain.CompletedTip
		err := rows.Scan(
			&t.TipID, &t.CreatorID, &t.Direction,
			&t.EntryPrice, &t.Target1, &t.Target2, &t.Target3, &t.StopLoss,
			&t.Timeframe, &t.Status, &t.TipTimestamp, &t.ClosedAt, &t.ClosedPrice,
			&t.ReturnPct, &t.RiskRewardRatio,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tip row: %w", err)
		}
		tips = append(tips, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tip rows: %w", err)
	}

	return tips, nil
}
