package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/teckzite/round2/internal/auth"
	"github.com/teckzite/round2/internal/contest"
)

func issueCode(t *testing.T, e *testEnv, admin, id string) UnlockCodeResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/admin/sessions/"+id+"/unlock-code", admin, nil)
	expectStatus(t, rec, http.StatusOK)
	return decode[UnlockCodeResponse](t, rec)
}

func TestRedeemCode(t *testing.T) {
	e := newTestEnv(t)
	admin := e.adminToken(t)
	token := e.participant(t, admin, "TZ-200", "1")

	expectStatus(t, e.do(t, http.MethodPost, "/api/game/lock", token, nil), http.StatusOK)

	code := issueCode(t, e, admin, "TZ-200")
	if len(code.Code) != contest.CodeDigits {
		t.Fatalf("code = %q, want %d digits", code.Code, contest.CodeDigits)
	}
	if want := testStart.Add(contest.CodeTTL); !code.ExpiresAt.Equal(want) {
		t.Errorf("expiresAt = %v, want %v", code.ExpiresAt, want)
	}

	rec := e.do(t, http.MethodPost, "/api/game/unlock", token, UnlockRequest{Code: code.Code})
	expectStatus(t, rec, http.StatusOK)
	resp := decode[UnlockResponse](t, rec)
	if resp.Session.Status != contest.StatusActive || resp.Session.Violations.UnlockCount != 1 {
		t.Errorf("session = %s/%d, want active/1", resp.Session.Status, resp.Session.Violations.UnlockCount)
	}

	// Lock again: the used code cannot be replayed.
	expectStatus(t, e.do(t, http.MethodPost, "/api/game/lock", token, nil), http.StatusOK)
	rec = e.do(t, http.MethodPost, "/api/game/unlock", token, UnlockRequest{Code: code.Code})
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestRedeemExpiredCode(t *testing.T) {
	e := newTestEnv(t)
	admin := e.adminToken(t)
	token := e.participant(t, admin, "TZ-201", "1")

	e.do(t, http.MethodPost, "/api/game/lock", token, nil)
	code := issueCode(t, e, admin, "TZ-201")

	e.clock.Advance(6 * time.Minute)
	rec := e.do(t, http.MethodPost, "/api/game/unlock", token, UnlockRequest{Code: code.Code})
	expectStatus(t, rec, http.StatusBadRequest)

	v := decode[ParticipantView](t, e.do(t, http.MethodGet, "/api/game/status", token, nil))
	if v.Status != contest.StatusLocked {
		t.Errorf("status = %s, want locked", v.Status)
	}
}

func TestRedeemCodeGuards(t *testing.T) {
	e := newTestEnv(t)
	admin := e.adminToken(t)
	token := e.participant(t, admin, "TZ-202", "1")
	other := e.participant(t, admin, "TZ-203", "2")

	// Not locked yet.
	code := issueCode(t, e, admin, "TZ-202")
	rec := e.do(t, http.MethodPost, "/api/game/unlock", token, UnlockRequest{Code: code.Code})
	expectStatus(t, rec, http.StatusConflict)

	e.do(t, http.MethodPost, "/api/game/lock", token, nil)
	e.do(t, http.MethodPost, "/api/game/lock", other, nil)

	// Another session's code does not work.
	rec = e.do(t, http.MethodPost, "/api/game/unlock", other, UnlockRequest{Code: code.Code})
	expectStatus(t, rec, http.StatusBadRequest)

	// A newer code replaces the old one.
	fresh := issueCode(t, e, admin, "TZ-202")
	if fresh.Code != code.Code {
		rec = e.do(t, http.MethodPost, "/api/game/unlock", token, UnlockRequest{Code: code.Code})
		expectStatus(t, rec, http.StatusBadRequest)
	}
	rec = e.do(t, http.MethodPost, "/api/game/unlock", token, UnlockRequest{Code: fresh.Code})
	expectStatus(t, rec, http.StatusOK)

	rec = e.do(t, http.MethodPost, "/api/game/unlock", token, UnlockRequest{Code: "12"})
	expectStatus(t, rec, http.StatusBadRequest)
}

// interleavedCodes runs between a successful redemption and the session
// update, standing in for an admin acting at that moment.
type interleavedCodes struct {
	CodeStore
	between func()
}

func (c interleavedCodes) Redeem(ctx context.Context, sessionID, code string, now time.Time) error {
	if err := c.CodeStore.Redeem(ctx, sessionID, code, now); err != nil {
		return err
	}
	c.between()
	return nil
}

func TestRedeemCodeAfterAdminActs(t *testing.T) {
	tests := []struct {
		name       string
		admin      func(*contest.Session) (bool, error)
		wantStatus int
		want       contest.Status
	}{
		{name: "admin unlocked first", admin: adminUnlock, wantStatus: http.StatusOK, want: contest.StatusActive},
		{name: "admin disqualified first", admin: disqualify, wantStatus: http.StatusConflict, want: contest.StatusDisqualified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			admin := e.adminToken(t)
			token := e.participant(t, admin, "TZ-250", "1")
			expectStatus(t, e.do(t, http.MethodPost, "/api/game/lock", token, nil), http.StatusOK)
			code := issueCode(t, e, admin, "TZ-250")

			e.handler = NewHandler(discardLogger(), Deps{
				Sessions: e.sessions,
				Codes: interleavedCodes{CodeStore: e.codes, between: func() {
					_, err := e.sessions.Update(context.Background(), "TZ-250", func(s *contest.Session) error {
						_, err := tt.admin(s)
						return err
					})
					if err != nil {
						t.Errorf("admin action: %v", err)
					}
				}},
				Admins: e.admins,
				Issuer: auth.NewIssuer(testSecret, 2*time.Hour, 4*time.Hour, e.clock),
				Broker: e.broker,
				Clock:  e.clock,
			}, nil)

			rec := e.do(t, http.MethodPost, "/api/game/unlock", token, UnlockRequest{Code: code.Code})
			expectStatus(t, rec, tt.wantStatus)

			sess, err := e.sessions.Get(context.Background(), "TZ-250")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if sess.Status != tt.want {
				t.Errorf("status = %s, want %s", sess.Status, tt.want)
			}
			// Only the admin's unlock is counted.
			if tt.want == contest.StatusActive && sess.Violations.UnlockCount != 1 {
				t.Errorf("unlockCount = %d, want 1", sess.Violations.UnlockCount)
			}
		})
	}
}
