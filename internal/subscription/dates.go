package subscription

import (
	"math"
	"time"
)

// Today truncates now to local midnight. All subscription date math
// works on calendar days, never wall-clock instants.
func Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// daysBetween counts calendar days from one midnight to another.
// Rounding absorbs the 23h and 25h days a DST transition produces.
func daysBetween(from, to time.Time) int {
	diff := Today(to).Sub(Today(from))
	return int(math.Round(diff.Hours() / 24))
}

// DaysRemaining counts whole days from now until the end date,
// floored at zero.
func DaysRemaining(end, now time.Time) int {
	days := daysBetween(now, end)
	if days < 0 {
		return 0
	}
	return days
}

// DaysExpired counts whole days the end date lies in the past,
// floored at zero.
func DaysExpired(end, now time.Time) int {
	days := daysBetween(end, now)
	if days < 0 {
		return 0
	}
	return days
}

// IsExpired reports whether the inclusive end date has passed. A
// subscription ending today is still good today.
func IsExpired(end, now time.Time) bool {
	return Today(end).Before(Today(now))
}
