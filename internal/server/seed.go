package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/teckzite/round2/internal/auth"
	"github.com/teckzite/round2/internal/contest"
	"github.com/teckzite/round2/internal/roster"
)

// SeedRoster creates a session for every entry that does not exist yet and
// returns how many were created.
func SeedRoster(ctx context.Context, sessions SessionStore, entries []roster.Entry, now time.Time) (int, error) {
	created := 0
	for _, e := range entries {
		err := sessions.Create(ctx, contest.NewSession(e.ID, e.Phone, e.Name, now))
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seeding %s: %w", e.ID, err)
		}
		created++
	}
	return created, nil
}

// SeedAdmin creates the configured administrator when no admin exists.
// Idempotent: does nothing once any admin is present.
func SeedAdmin(ctx context.Context, logger *slog.Logger, admins AdminStore, username, password string) error {
	n, err := admins.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if password == "" {
		logger.Warn("no admin account exists and ADMIN_PASSWORD is empty; admin login is disabled")
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	if _, err := admins.CreateAdmin(ctx, username, hash); err != nil {
		return err
	}
	logger.Info("admin account created", "username", username)
	return nil
}

// SeedFromFile loads a roster into an empty session store.
func SeedFromFile(ctx context.Context, logger *slog.Logger, sessions SessionStore, path string, now time.Time) error {
	n, err := sessions.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	entries, err := roster.Load(path)
	if err != nil {
		return err
	}
	created, err := SeedRoster(ctx, sessions, entries, now)
	if err != nil {
		return err
	}
	logger.Info("roster seeded", "path", path, "created", created)
	return nil
}
