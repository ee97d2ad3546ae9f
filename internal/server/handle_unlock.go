package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/teckzite/round2/internal/contest"
)

type UnlockRequest struct {
	Code string `json:"code"`
}

type UnlockResponse struct {
	Success bool            `json:"success"`
	Session ParticipantView `json:"session"`
}

// handleRedeemCode lets a locked participant resume with a code read out by
// a proctor. The code is consumed before the session is touched; a failed
// redemption leaves the session locked. If an admin unlocked the session
// after the code was checked, the code is spent and the session is returned
// as it stands.
func handleRedeemCode(logger *slog.Logger, sessions SessionStore, codes CodeStore, broker *Broker, clock clockwork.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UnlockRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Code = strings.TrimSpace(req.Code)
		if len(req.Code) != contest.CodeDigits {
			writeStoreError(w, logger, contest.ErrInvalidCode)
			return
		}

		cred := credentialFrom(r)
		sess, err := sessions.Get(r.Context(), cred.Subject)
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}
		if sess.Status != contest.StatusLocked {
			writeStoreError(w, logger, contest.ErrNotLocked)
			return
		}

		if err := codes.Redeem(r.Context(), sess.ID, req.Code, clock.Now()); err != nil {
			logger.Info("unlock code rejected", "session_id", sess.ID)
			writeStoreError(w, logger, err)
			return
		}

		alreadyActive := false
		sess, err = sessions.Update(r.Context(), sess.ID, func(s *contest.Session) error {
			if s.Status == contest.StatusActive {
				alreadyActive = true
				return nil
			}
			return s.CodeUnlock()
		})
		if err != nil {
			logger.Warn("unlock code spent on a session that left the locked state",
				"session_id", cred.Subject, "error", err)
			writeStoreError(w, logger, err)
			return
		}

		if alreadyActive {
			logger.Info("unlock code spent after session was already unlocked", "session_id", sess.ID)
		} else {
			logger.Info("session unlocked by code", "session_id", sess.ID, "unlock_count", sess.Violations.UnlockCount)
			broker.Publish("unlocked", sess)
		}
		writeJSON(w, http.StatusOK, UnlockResponse{Success: true, Session: participantView(sess)})
	}
}
