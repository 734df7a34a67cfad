package domain

// ScoreSnapshot is one append-only row of the daily score history. It is a
// flattened excerpt of a ScoreResult, keyed by (creator, UTC day) so a rerun
// on the same day collides instead of duplicating history.
type ScoreSnapshot struct {
	SnapshotID   string // deterministic hash of (creator_id, snapshot_date)
	CreatorID    string
	SnapshotDate string // "YYYY-MM-DD", UTC day of the scoring run

	RMTScore           float64
	AccuracyScore      float64
	RiskAdjustedScore  float64
	ConsistencyScore   float64
	VolumeFactorScore  float64
	ConfidenceInterval float64
	Tier               Tier
	AccuracyRate       float64
	TotalScoredTips    int
	ComputedAt         int64 // unix ms
}
