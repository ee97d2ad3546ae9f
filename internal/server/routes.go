package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/teckzite/round2/internal/auth"
	"github.com/teckzite/round2/internal/contest"
	"github.com/teckzite/round2/internal/handler/livefeed"
)

func addRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Round 2 API", "/openapi.json", "/docs"))

	r.Post("/api/auth/login", handleLogin(logger, d.Sessions, d.Issuer))
	r.Post("/api/auth/admin/login", handleAdminLogin(d.Admins, d.Issuer))
	r.With(requireRole(d.Issuer, contest.RoleParticipant)).Get("/api/auth/me", handleMe(logger, d.Sessions))

	// Participant routes.
	r.Route("/api/game", func(r chi.Router) {
		r.Use(requireRole(d.Issuer, contest.RoleParticipant))
		r.Get("/status", handleMe(logger, d.Sessions))
		r.Post("/start", handleTransition(logger, d.Sessions, d.Broker, d.Clock, "started", startRound1))
		r.Post("/submit/html", handleSubmitHTML(logger, d.Sessions, d.Broker))
		r.Post("/finish/game1", handleTransition(logger, d.Sessions, d.Broker, d.Clock, "advanced", finishRound1))
		r.Post("/submit/flexbox", handleSubmitFlexbox(logger, d.Sessions, d.Broker))
		r.Post("/finish", handleTransition(logger, d.Sessions, d.Broker, d.Clock, "completed", finishRound2))
		r.Post("/lock", handleTransition(logger, d.Sessions, d.Broker, d.Clock, "locked", reportViolation))
		r.Post("/unlock", handleRedeemCode(logger, d.Sessions, d.Codes, d.Broker, d.Clock))
		r.Get("/events", handleEvents(logger, d.Sessions, d.Broker))
	})

	r.Route("/api/admin", func(r chi.Router) {
		// The live feed authenticates from the query string before upgrading.
		r.Mount("/live", livefeed.NewHandler(logger, d.Broker, AdminTopic, adminTokenAuthorizer(d.Issuer)).Routes())

		r.Group(func(r chi.Router) {
			r.Use(requireRole(d.Issuer, contest.RoleAdmin))
			r.Get("/sessions", handleAdminListSessions(logger, d.Sessions))
			r.Post("/sessions", handleAdminCreateSession(logger, d.Sessions, d.Broker, d.Clock))
			r.Get("/sessions/{id}", handleAdminGetSession(logger, d.Sessions))
			r.Post("/sessions/{id}/unlock-code", handleAdminUnlockCode(logger, d.Sessions, d.Codes, d.Clock, d.CodeTTL))
			r.Post("/sessions/{id}/unlock", handleAdminCommand(logger, d.Sessions, d.Broker, "unlocked", adminUnlock))
			r.Post("/sessions/{id}/disqualify", handleAdminCommand(logger, d.Sessions, d.Broker, "disqualified", disqualify))
			r.Post("/reset", handleAdminReset(logger, d.Sessions, d.Codes, d.Clock))
		})
	})

	if d.SPADir != "" {
		if info, err := os.Stat(d.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", d.SPADir)
			r.NotFound(handleSPA(d.SPADir))
		}
	}
}

func adminTokenAuthorizer(issuer *auth.Issuer) livefeed.Authorizer {
	return func(token string) error {
		cred, err := issuer.Parse(token)
		if err != nil {
			return err
		}
		if cred.Role != contest.RoleAdmin {
			return auth.ErrInvalidToken
		}
		return nil
	}
}
