package contest

import (
	"fmt"
	"time"
)

// The round methods report whether the session changed. A false result with a
// nil error is a no-op on already-transitioned state, which is how duplicate
// client calls (retries, a finish click racing the timer) are absorbed.

// StartRound1 stamps the start time and moves to game1 the first time it is
// called. Later calls leave the session untouched.
func (s *Session) StartRound1(now time.Time) (bool, error) {
	if s.Status != StatusActive {
		return false, fmt.Errorf("%w: cannot start round 1 while %s", ErrIneligible, s.Status)
	}
	if s.Timings.StartTime != nil {
		return false, nil
	}
	s.Timings.StartTime = timePtr(now)
	s.CurrentRound = RoundGame1
	return true, nil
}

// FinishRound1 fixes the phase 1 duration and moves to game2.
func (s *Session) FinishRound1(now time.Time) (bool, error) {
	if s.Status == StatusDisqualified {
		return false, fmt.Errorf("%w: session is disqualified", ErrIneligible)
	}
	if s.Status == StatusCompleted || s.CurrentRound == RoundGame2 {
		return false, nil
	}
	if s.CurrentRound != RoundGame1 {
		return false, fmt.Errorf("%w: round 1 has not started", ErrIneligible)
	}
	s.Timings.Phase1Duration = ElapsedSeconds(s.Timings.StartTime, now)
	s.CurrentRound = RoundGame2
	return true, nil
}

// FinishRound2 completes the session from any round. It is also the
// auto-submit path when a client countdown expires, so it never fails; a
// disqualified or already completed session is returned unchanged.
func (s *Session) FinishRound2(now time.Time) (bool, error) {
	if s.Status.Terminal() {
		return false, nil
	}
	s.Status = StatusCompleted
	s.Timings.EndTime = timePtr(now)
	total := ElapsedSeconds(s.Timings.StartTime, now)
	s.Timings.Phase2Duration = RemainderSeconds(total, s.Timings.Phase1Duration)
	return true, nil
}

// Disqualify ends the session permanently.
func (s *Session) Disqualify() bool {
	if s.Status == StatusDisqualified {
		return false
	}
	s.Status = StatusDisqualified
	return true
}
