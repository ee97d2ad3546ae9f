package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type AdminDocStore struct {
	db *sql.DB
}

func NewAdminDocStore(db *sql.DB) *AdminDocStore {
	return &AdminDocStore{db: db}
}

func (s *AdminDocStore) AdminByUsername(ctx context.Context, username string) (Admin, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM admins WHERE username = ?`, normalizeUsername(username),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Admin{}, ErrNotFound
	}
	if err != nil {
		return Admin{}, err
	}
	var a Admin
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return Admin{}, err
	}
	return a, nil
}

func (s *AdminDocStore) CreateAdmin(ctx context.Context, username, passwordHash string) (Admin, error) {
	a := Admin{
		ID:           uuid.NewString(),
		Username:     normalizeUsername(username),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(a)
	if err != nil {
		return Admin{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admins (id, username, data) VALUES (?, ?, jsonb(?))`,
		a.ID, a.Username, string(data),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return Admin{}, fmt.Errorf("admin %s: %w", a.Username, ErrConflict)
	}
	if err != nil {
		return Admin{}, err
	}
	return a, nil
}

func (s *AdminDocStore) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n)
	return n, err
}

func normalizeUsername(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}
