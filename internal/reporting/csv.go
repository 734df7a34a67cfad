package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders leaderboard rows as CSV string.
func RenderCSV(rows []LeaderboardRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("rank,creator_id,handle,tier,rmt_score,confidence_interval,")
	sb.WriteString("accuracy_rate,avg_return_pct,total_scored_tips,win_streak,loss_streak\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%s,%.6f,%.6f,%.6f,%.6f,%d,%d,%d\n",
			r.Rank,
			r.CreatorID,
			r.Handle,
			r.Tier,
			r.RMTScore,
			r.ConfidenceInterval,
			r.AccuracyRate,
			r.AvgReturnPct,
			r.TotalScoredTips,
			r.WinStreak,
			r.LossStreak,
		))
	}

	return sb.String()
}
