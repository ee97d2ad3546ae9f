package contest

import (
	"errors"
	"testing"
	"time"
)

func TestReportViolationIdempotent(t *testing.T) {
	s := newTestSession()
	s.StartRound1(t0)

	if !s.ReportViolation(t0.Add(time.Second)) {
		t.Fatal("first violation should lock")
	}
	if s.ReportViolation(t0.Add(2 * time.Second)) {
		t.Error("second violation should be a no-op")
	}
	if s.Status != StatusLocked {
		t.Errorf("status = %s, want locked", s.Status)
	}
	if s.Violations.LockCount != 1 {
		t.Errorf("lockCount = %d, want 1", s.Violations.LockCount)
	}
	if !s.Violations.LastViolationAt.Equal(t0.Add(time.Second)) {
		t.Errorf("lastViolationAt = %v", s.Violations.LastViolationAt)
	}
}

func TestReportViolationTerminal(t *testing.T) {
	s := newTestSession()
	s.FinishRound2(t0)

	if s.ReportViolation(t0) {
		t.Error("completed session must not lock")
	}
	if s.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", s.Status)
	}

	s = newTestSession()
	s.Disqualify()
	s.ReportViolation(t0)
	if s.Status != StatusDisqualified || s.Violations.LockCount != 0 {
		t.Errorf("disqualified session changed: %s lockCount=%d", s.Status, s.Violations.LockCount)
	}
}

func TestAdminUnlock(t *testing.T) {
	tests := []struct {
		name        string
		status      Status
		wantStatus  Status
		wantUnlocks int
		wantErr     bool
	}{
		{name: "locked", status: StatusLocked, wantStatus: StatusActive, wantUnlocks: 1},
		{name: "already active", status: StatusActive, wantStatus: StatusActive, wantUnlocks: 1},
		{name: "completed", status: StatusCompleted, wantStatus: StatusCompleted, wantUnlocks: 0},
		{name: "disqualified", status: StatusDisqualified, wantStatus: StatusDisqualified, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession()
			s.Status = tt.status

			_, err := s.AdminUnlock()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if s.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", s.Status, tt.wantStatus)
			}
			if s.Violations.UnlockCount != tt.wantUnlocks {
				t.Errorf("unlockCount = %d, want %d", s.Violations.UnlockCount, tt.wantUnlocks)
			}
		})
	}
}

func TestCodeUnlock(t *testing.T) {
	s := newTestSession()
	if err := s.CodeUnlock(); !errors.Is(err, ErrNotLocked) {
		t.Fatalf("err = %v, want ErrNotLocked", err)
	}

	s.ReportViolation(t0)
	if err := s.CodeUnlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if s.Status != StatusActive || s.Violations.UnlockCount != 1 {
		t.Errorf("state = %s unlockCount=%d", s.Status, s.Violations.UnlockCount)
	}
}

func TestUnlockCode(t *testing.T) {
	c, err := NewUnlockCode("TZ-100", t0, CodeTTL)
	if err != nil {
		t.Fatalf("new code: %v", err)
	}
	if len(c.Code) != CodeDigits {
		t.Fatalf("code %q has %d digits, want %d", c.Code, len(c.Code), CodeDigits)
	}
	for _, r := range c.Code {
		if r < '0' || r > '9' {
			t.Fatalf("code %q is not numeric", c.Code)
		}
	}

	tests := []struct {
		name      string
		used      bool
		sessionID string
		code      string
		at        time.Time
		want      bool
	}{
		{name: "fresh", sessionID: "TZ-100", code: c.Code, at: t0.Add(time.Minute), want: true},
		{name: "expired", sessionID: "TZ-100", code: c.Code, at: t0.Add(6 * time.Minute), want: false},
		{name: "at expiry", sessionID: "TZ-100", code: c.Code, at: t0.Add(CodeTTL), want: false},
		{name: "other session", sessionID: "TZ-200", code: c.Code, at: t0, want: false},
		{name: "wrong code", sessionID: "TZ-100", code: "000000", at: t0, want: false},
		{name: "used", used: true, sessionID: "TZ-100", code: c.Code, at: t0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := c
			cc.IsUsed = tt.used
			if got := cc.Redeemable(tt.sessionID, tt.code, tt.at); got != tt.want {
				t.Errorf("Redeemable = %v, want %v", got, tt.want)
			}
		})
	}
}
