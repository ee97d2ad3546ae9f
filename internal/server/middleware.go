package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/teckzite/round2/internal/auth"
	"github.com/teckzite/round2/internal/contest"
)

type ctxKey int

const ctxKeyCredential ctxKey = iota

var errNoCredential = errors.New("missing bearer token")

// bearerToken reads the Authorization header, falling back to the token
// query parameter for transports that cannot set headers (SSE, WebSocket).
func bearerToken(r *http.Request) (string, error) {
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found && token != "" {
		return token, nil
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", errNoCredential
}

// requireRole rejects requests without a valid credential (401) or with a
// credential of the wrong role (403).
func requireRole(issuer *auth.Issuer, role contest.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			cred, err := issuer.Parse(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			if cred.Role != role {
				writeError(w, http.StatusForbidden, "not authorized")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyCredential, cred)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func credentialFrom(r *http.Request) auth.Credential {
	return r.Context().Value(ctxKeyCredential).(auth.Credential)
}
