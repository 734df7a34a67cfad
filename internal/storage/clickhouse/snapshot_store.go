package clickhouse

import (
	"context"
	"fmt"

	"tipscore/internal/domain"
	"tipscore/internal/storage"
)

// SnapshotStore implements storage.ScoreSnapshotStore using ClickHouse.
// The history is append-only; one row per creator per UTC day.
type SnapshotStore struct {
	conn *Conn
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(conn *Conn) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ScoreSnapshotStore = (*SnapshotStore)(nil)

const snapshotColumns = `
	snapshot_id, creator_id, snapshot_date,
	rmt_score, accuracy_score, risk_adjusted_score, consistency_score, volume_factor_score,
	confidence_interval, tier, accuracy_rate, total_scored_tips, computed_at
`

// Insert appends a snapshot. Returns ErrDuplicateKey if snapshot_id exists.
func (s *SnapshotStore) Insert(ctx context.Context, snap *domain.ScoreSnapshot) error {
	// MergeTree does not enforce uniqueness, so the append-only contract is
	// checked explicitly before writing.
	exists, err := s.exists(ctx, snap.SnapshotID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	query := `
		INSERT INTO score_snapshots (` + snapshotColumns + `) VALUES (
			?, ?, ?,
			?, ?, ?, ?, ?,
			?, ?, ?, ?, ?
		)
	`

	err = s.conn.Exec(ctx, query,
		snap.SnapshotID, snap.CreatorID, snap.SnapshotDate,
		snap.RMTScore, snap.AccuracyScore, snap.RiskAdjustedScore, snap.ConsistencyScore, snap.VolumeFactorScore,
		snap.ConfidenceInterval, string(snap.Tier), snap.AccuracyRate, uint32(snap.TotalScoredTips), snap.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// InsertBulk appends multiple snapshots. Fails entire batch on any duplicate.
func (s *SnapshotStore) InsertBulk(ctx context.Context, snapshots []*domain.ScoreSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(snapshots))
	for _, snap := range snapshots {
		if _, dup := seen[snap.SnapshotID]; dup {
			return storage.ErrDuplicateKey
		}
		seen[snap.SnapshotID] = struct{}{}
	}

	for _, snap := range snapshots {
		exists, err := s.exists(ctx, snap.SnapshotID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO score_snapshots (`+snapshotColumns+`)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range snapshots {
		err = batch.Append(
			snap.SnapshotID, snap.CreatorID, snap.SnapshotDate,
			snap.RMTScore, snap.AccuracyScore, snap.RiskAdjustedScore, snap.ConsistencyScore, snap.VolumeFactorScore,
			snap.ConfidenceInterval, string(snap.Tier), snap.AccuracyRate, uint32(snap.TotalScoredTips), snap.ComputedAt,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByCreator retrieves a creator's snapshots within [start, end] inclusive,
// ordered by snapshot_date ASC.
func (s *SnapshotStore) GetByCreator(ctx context.Context, creatorID, start, end string) ([]*domain.ScoreSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM score_snapshots
		WHERE creator_id = ? AND snapshot_date >= ? AND snapshot_date <= ?
		ORDER BY snapshot_date ASC
	`

	rows, err := s.conn.Query(ctx, query, creatorID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query snapshots by creator: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.ScoreSnapshot
	for rows.Next() {
		var (
			snap  domain.ScoreSnapshot
			tier  string
			total uint32
		)
		err := rows.Scan(
			&snap.SnapshotID, &snap.CreatorID, &snap.SnapshotDate,
			&snap.RMTScore, &snap.AccuracyScore, &snap.RiskAdjustedScore, &snap.ConsistencyScore, &snap.VolumeFactorScore,
			&snap.ConfidenceInterval, &tier, &snap.AccuracyRate, &total, &snap.ComputedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snap.Tier = domain.Tier(tier)
		snap.TotalScoredTips = int(total)
		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return snapshots, nil
}

func (s *SnapshotStore) exists(ctx context.Context, snapshotID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx,
		`SELECT count(*) FROM score_snapshots WHERE snapshot_id = ?`, snapshotID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
