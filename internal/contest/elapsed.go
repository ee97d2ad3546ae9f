package contest

import (
	"math"
	"time"
)

// ElapsedSeconds returns the seconds between start and now. A missing start
// counts as now, so the result is 0; a start in the future also yields 0.
func ElapsedSeconds(start *time.Time, now time.Time) float64 {
	if start == nil || start.IsZero() {
		return 0
	}
	return nonNegative(now.Sub(*start).Seconds())
}

// RemainderSeconds is the part of total not already accounted for by spent.
func RemainderSeconds(total, spent float64) float64 {
	return nonNegative(total - spent)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
