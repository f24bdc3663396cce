package activity

import (
	"fmt"
	"time"
)

// FormatTimeAgo renders a coarse human-readable delta for an activity
// timestamp: whole days when at least one has passed, else whole hours, else
// whole minutes. No seconds-level granularity.
func FormatTimeAgo(timestamp time.Time) string {
	return formatTimeAgoAt(timestamp, time.Now())
}

func formatTimeAgoAt(timestamp, now time.Time) string {
	diff := now.Sub(timestamp)

	hours := int(diff.Hours())
	days := hours / 24

	if days > 0 {
		return fmt.Sprintf("%d days ago", days)
	}
	if hours > 0 {
		return fmt.Sprintf("%d hours ago", hours)
	}
	return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
}
