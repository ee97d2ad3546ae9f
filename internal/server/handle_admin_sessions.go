package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"

	"github.com/teckzite/round2/internal/contest"
	"github.com/teckzite/round2/internal/roster"
)

// CreateSessionRequest is the body for POST /api/admin/sessions.
type CreateSessionRequest struct {
	ID    string `json:"id"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

type UnlockCodeResponse struct {
	Code      string    `json:"code"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ResetRequest optionally carries a roster to load after the wipe.
type ResetRequest struct {
	Participants []roster.Entry `json:"participants"`
}

type ResetResponse struct {
	Deleted int `json:"deleted"`
	Created int `json:"created"`
}

func handleAdminListSessions(logger *slog.Logger, sessions SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order := contest.SortOrder(r.URL.Query().Get("sort"))
		switch order {
		case "", contest.SortByScore, contest.SortByTime:
		default:
			writeError(w, http.StatusBadRequest, "sort must be score or time")
			return
		}

		list, err := sessions.List(r.Context())
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}
		contest.Rank(list, order)
		writeJSON(w, http.StatusOK, list)
	}
}

func handleAdminCreateSession(logger *slog.Logger, sessions SessionStore, broker *Broker, clock clockwork.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Phone) == "" {
			writeError(w, http.StatusBadRequest, "id and phone are required")
			return
		}

		sess := contest.NewSession(req.ID, req.Phone, req.Name, clock.Now().UTC())
		if err := sessions.Create(r.Context(), sess); err != nil {
			writeStoreError(w, logger, err)
			return
		}

		logger.Info("session created", "session_id", sess.ID)
		broker.Publish("created", sess)
		writeJSON(w, http.StatusCreated, sess)
	}
}

func handleAdminGetSession(logger *slog.Logger, sessions SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessions.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func handleAdminUnlockCode(logger *slog.Logger, sessions SessionStore, codes CodeStore, clock clockwork.Clock, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessions.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}

		now := clock.Now().UTC()
		code, err := contest.NewUnlockCode(sess.ID, now, ttl)
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}
		if err := codes.Issue(r.Context(), code, now); err != nil {
			writeStoreError(w, logger, err)
			return
		}

		logger.Info("unlock code issued", "session_id", sess.ID, "expires_at", code.ExpiresAt)
		writeJSON(w, http.StatusOK, UnlockCodeResponse{
			Code:      code.Code,
			SessionID: code.SessionID,
			ExpiresAt: code.ExpiresAt,
		})
	}
}

// handleAdminCommand applies an administrative transition to the session
// named in the URL.
func handleAdminCommand(logger *slog.Logger, sessions SessionStore, broker *Broker, event string, apply func(*contest.Session) (bool, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var changed bool
		sess, err := sessions.Update(r.Context(), chi.URLParam(r, "id"), func(s *contest.Session) error {
			var err error
			changed, err = apply(s)
			return err
		})
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}

		if changed {
			logger.Info("session "+event, "session_id", sess.ID, "status", sess.Status)
			broker.Publish(event, sess)
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func adminUnlock(s *contest.Session) (bool, error) { return s.AdminUnlock() }
func disqualify(s *contest.Session) (bool, error)  { return s.Disqualify(), nil }

func handleAdminReset(logger *slog.Logger, sessions SessionStore, codes CodeStore, clock clockwork.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetRequest
		if r.ContentLength != 0 {
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		for _, e := range req.Participants {
			if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.Phone) == "" {
				writeError(w, http.StatusBadRequest, "every participant needs an id and phone")
				return
			}
		}

		// Stale codes must never reach the new roster, so they go first.
		if err := codes.DeleteAll(r.Context()); err != nil {
			writeStoreError(w, logger, err)
			return
		}

		now := clock.Now().UTC()
		fresh := make([]*contest.Session, 0, len(req.Participants))
		for _, e := range req.Participants {
			fresh = append(fresh, contest.NewSession(e.ID, e.Phone, e.Name, now))
		}
		deleted, created, err := sessions.Replace(r.Context(), fresh)
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}

		logger.Warn("contest reset", "deleted", deleted, "created", created)
		writeJSON(w, http.StatusOK, ResetResponse{Deleted: deleted, Created: created})
	}
}
