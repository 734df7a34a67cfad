package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Creator Leaderboard\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Creators ranked: %d\n\n", r.CreatorCount))

	// Tier distribution
	sb.WriteString("## Tier Distribution\n\n")
	sb.WriteString("| Tier | Creators |\n")
	sb.WriteString("|------|----------|\n")
	for _, row := range r.TierDistribution {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", row.Tier, row.Count))
	}
	sb.WriteString("\n")

	// Leaderboard
	sb.WriteString("## Leaderboard\n\n")
	if len(r.Leaderboard) > 0 {
		sb.WriteString("| Rank | Creator | Tier | Score | ±CI | Accuracy | AvgReturn% | Tips | WinStreak | LossStreak |\n")
		sb.WriteString("|------|---------|------|-------|-----|----------|------------|------|-----------|------------|\n")
		for _, row := range r.Leaderboard {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %.2f | %.2f | %.4f | %.2f | %d | %d | %d |\n",
				row.Rank, row.Handle, row.Tier,
				row.RMTScore, row.ConfidenceInterval, row.AccuracyRate, row.AvgReturnPct,
				row.TotalScoredTips, row.WinStreak, row.LossStreak))
		}
	} else {
		sb.WriteString("No scored creators available.\n")
	}
	sb.WriteString("\n")

	// Monthly appendix
	sb.WriteString("## Monthly Accuracy\n\n")
	if len(r.MonthlyAppendix) > 0 {
		for _, section := range r.MonthlyAppendix {
			sb.WriteString(fmt.Sprintf("### %s\n\n", section.Handle))
			sb.WriteString("| Month | Accuracy | Tips |\n")
			sb.WriteString("|-------|----------|------|\n")
			for _, m := range section.Months {
				sb.WriteString(fmt.Sprintf("| %s | %.4f | %d |\n", m.Month, m.AccuracyRate, m.TipCount))
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No monthly history available.\n\n")
	}

	return sb.String()
}
