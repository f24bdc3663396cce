package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		elapsed  time.Duration
		expected string
	}{
		{"seconds round down to zero minutes", 30 * time.Second, "0 minutes ago"},
		{"minutes", 5 * time.Minute, "5 minutes ago"},
		{"one hour stays plural", 90 * time.Minute, "1 hours ago"},
		{"hours", 5 * time.Hour, "5 hours ago"},
		{"one day stays plural", 25 * time.Hour, "1 days ago"},
		{"days", 72 * time.Hour, "3 days ago"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, formatTimeAgoAt(now.Add(-tc.elapsed), now))
		})
	}
}
