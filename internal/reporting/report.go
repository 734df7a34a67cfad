package reporting

import "time"

// Report is the leaderboard report structure.
type Report struct {
	// Metadata
	GeneratedAt  time.Time
	CreatorCount int

	// Tier distribution (sorted by required volume, UNRATED first)
	TierDistribution []TierCountRow

	// Leaderboard (sorted by rmt_score DESC, creator_id ASC)
	Leaderboard []LeaderboardRow

	// Monthly accuracy appendix, one section per creator with history
	// (same order as the leaderboard)
	MonthlyAppendix []MonthlySection
}

// TierCountRow is one row of the tier distribution table.
type TierCountRow struct {
	Tier  string
	Count int
}

// LeaderboardRow is one ranked creator.
type LeaderboardRow struct {
	Rank               int
	CreatorID          string
	Handle             string
	Tier               string
	RMTScore           float64
	ConfidenceInterval float64
	AccuracyRate       float64
	AvgReturnPct       float64
	TotalScoredTips    int
	WinStreak          int
	LossStreak         int
}

// MonthlySection is one creator's month-by-month accuracy history.
type MonthlySection struct {
	CreatorID string
	Handle    string
	Months    []MonthlyRow
}

// MonthlyRow is one calendar month of a creator's history.
type MonthlyRow struct {
	Month        string // "YYYY-MM"
	AccuracyRate float64
	TipCount     int
}
