package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/teckzite/round2/internal/auth"
	"github.com/teckzite/round2/internal/contest"
)

// LoginRequest is the request body for POST /api/auth/login.
type LoginRequest struct {
	ID    string `json:"id"`
	Phone string `json:"phone"`
}

type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Session   ParticipantView `json:"session"`
}

func handleLogin(logger *slog.Logger, sessions SessionStore, issuer *auth.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Phone) == "" {
			writeError(w, http.StatusBadRequest, "id and phone are required")
			return
		}

		sess, err := sessions.Get(r.Context(), req.ID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}
		if !sess.MatchSecret(req.Phone) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		switch sess.Status {
		case contest.StatusDisqualified:
			writeError(w, http.StatusForbidden, "you have been disqualified")
			return
		case contest.StatusCompleted:
			writeError(w, http.StatusForbidden, "you have already completed the round")
			return
		}

		token, exp, err := issuer.Issue(contest.RoleParticipant, sess.ID)
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: exp, Session: participantView(sess)})
	}
}

func handleMe(logger *slog.Logger, sessions SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessions.Get(r.Context(), credentialFrom(r).Subject)
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, participantView(sess))
	}
}
