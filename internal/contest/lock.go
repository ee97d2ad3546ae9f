package contest

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// ReportViolation locks an active session. Any other status is left alone so
// repeated focus-loss events do not inflate the lock count.
func (s *Session) ReportViolation(now time.Time) bool {
	if s.Status != StatusActive {
		return false
	}
	s.Status = StatusLocked
	s.Violations.LockCount++
	s.Violations.LastViolationAt = timePtr(now)
	return true
}

// AdminUnlock reactivates the session on an administrator's word. It is safe
// to call on a session that is not locked. Disqualification is permanent and a
// completed session stays completed.
func (s *Session) AdminUnlock() (bool, error) {
	switch s.Status {
	case StatusDisqualified:
		return false, fmt.Errorf("%w: session is disqualified", ErrIneligible)
	case StatusCompleted:
		return false, nil
	}
	s.Status = StatusActive
	s.Violations.UnlockCount++
	return true, nil
}

// CodeUnlock reactivates a locked session after its unlock code has been
// redeemed. The caller is responsible for consuming the code.
func (s *Session) CodeUnlock() error {
	if s.Status != StatusLocked {
		return ErrNotLocked
	}
	s.Status = StatusActive
	s.Violations.UnlockCount++
	return nil
}

const (
	CodeDigits = 6
	CodeTTL    = 5 * time.Minute
)

// UnlockCode is a single-use token that lets a locked participant resume
// without an administrator at the desk.
type UnlockCode struct {
	Code      string    `json:"code"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsUsed    bool      `json:"isUsed"`
}

// NewUnlockCode draws a fresh six-digit code for sessionID.
func NewUnlockCode(sessionID string, now time.Time, ttl time.Duration) (UnlockCode, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return UnlockCode{}, fmt.Errorf("drawing unlock code: %w", err)
	}
	return UnlockCode{
		Code:      fmt.Sprintf("%06d", n.Int64()+100000),
		SessionID: sessionID,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Redeemable reports whether code can still unlock sessionID at now.
func (c UnlockCode) Redeemable(sessionID, code string, now time.Time) bool {
	return !c.IsUsed &&
		c.SessionID == sessionID &&
		c.Code == code &&
		now.Before(c.ExpiresAt)
}
