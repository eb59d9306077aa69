package domain

import (
	"fmt"
	"time"
)

// FormatTimeUntil renders the distance to an appointment.
func FormatTimeUntil(until time.Duration) string {
	switch {
	case until < 0:
		return "overdue"
	case until < time.Hour:
		return "less than 1 hour"
	case until < 24*time.Hour:
		hours := ceilHours(until)
		if hours == 1 {
			return "in 1 hour"
		}
		return fmt.Sprintf("in %d hours", hours)
	}
	days := ceilHours(until) / 24
	if days == 1 {
		return "tomorrow"
	}
	return fmt.Sprintf("in %d days", days)
}

func ceilHours(d time.Duration) int64 {
	hours := int64(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}
	return hours
}
