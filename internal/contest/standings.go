package contest

import (
	"cmp"
	"slices"
)

type SortOrder string

const (
	// SortByScore ranks by total score, highest first, breaking ties on the
	// least total time.
	SortByScore SortOrder = "score"
	// SortByTime ranks by least total time, breaking ties on the higher score.
	SortByTime SortOrder = "time"
)

// Rank orders sessions in place for the admin dashboard. Unknown orders fall
// back to SortByScore. The ID is the final tie-breaker so the order is stable
// between polls.
func Rank(sessions []Session, order SortOrder) {
	slices.SortStableFunc(sessions, func(a, b Session) int {
		byScore := cmp.Compare(b.Scores.Total, a.Scores.Total)
		byTime := cmp.Compare(a.Timings.Total(), b.Timings.Total())
		first, second := byScore, byTime
		if order == SortByTime {
			first, second = byTime, byScore
		}
		if first != 0 {
			return first
		}
		if second != 0 {
			return second
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
