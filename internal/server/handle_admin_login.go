package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/teckzite/round2/internal/auth"
	"github.com/teckzite/round2/internal/contest"
)

// AdminLoginRequest is the request body for POST /api/auth/admin/login.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminLoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Role      contest.Role `json:"role"`
	Username  string       `json:"username"`
}

func handleAdminLogin(admins AdminStore, issuer *auth.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminLoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username and password are required")
			return
		}

		admin, err := admins.AdminByUsername(r.Context(), req.Username)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := auth.CheckPassword(admin.PasswordHash, req.Password); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, exp, err := issuer.Issue(contest.RoleAdmin, admin.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, AdminLoginResponse{
			Token:     token,
			ExpiresAt: exp,
			Role:      contest.RoleAdmin,
			Username:  admin.Username,
		})
	}
}
