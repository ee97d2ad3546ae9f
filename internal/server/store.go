package server

import (
	"context"
	"errors"
	"time"

	"github.com/teckzite/round2/internal/contest"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// SessionStore persists participant sessions. Update runs fn against the
// current record inside a single transaction and writes the result back only
// when fn returns nil. Replace swaps the whole roster in one transaction.
type SessionStore interface {
	Create(ctx context.Context, s *contest.Session) error
	Get(ctx context.Context, id string) (*contest.Session, error)
	Update(ctx context.Context, id string, fn func(*contest.Session) error) (*contest.Session, error)
	List(ctx context.Context) ([]contest.Session, error)
	Count(ctx context.Context) (int, error)
	Replace(ctx context.Context, sessions []*contest.Session) (deleted, created int, err error)
}

// CodeStore holds unlock codes. Issue replaces any unused code for the same
// session. Redeem consumes a matching live code or returns
// contest.ErrInvalidCode.
type CodeStore interface {
	Issue(ctx context.Context, code contest.UnlockCode, now time.Time) error
	Redeem(ctx context.Context, sessionID, code string, now time.Time) error
	DeleteAll(ctx context.Context) error
}

type Admin struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	CreatedAt    string `json:"createdAt"`
}

type AdminStore interface {
	AdminByUsername(ctx context.Context, username string) (Admin, error)
	CreateAdmin(ctx context.Context, username, passwordHash string) (Admin, error)
	CountAdmins(ctx context.Context) (int, error)
}
