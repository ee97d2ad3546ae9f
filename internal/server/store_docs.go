package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/teckzite/round2/internal/contest"
	"github.com/teckzite/round2/internal/database"
)

// DocStore implements SessionStore on the sessions table. The session body
// lives in a JSONB data column; id, lookup_key, status and secret are
// promoted to real columns for lookups and filtering.
type DocStore struct {
	db    *sql.DB
	clock clockwork.Clock
}

func NewDocStore(db *sql.DB, clock clockwork.Clock) *DocStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &DocStore{db: db, clock: clock}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanSession(row *sql.Row) (*contest.Session, error) {
	var secret, data string
	err := row.Scan(&secret, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var s contest.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	s.Secret = secret
	return &s, nil
}

func getSession(ctx context.Context, q queryer, id string) (*contest.Session, error) {
	return scanSession(q.QueryRowContext(ctx,
		`SELECT secret, json(data) FROM sessions WHERE lookup_key = ?`, contest.LookupKey(id),
	))
}

func (s *DocStore) Create(ctx context.Context, sess *contest.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, lookup_key, status, secret, data) VALUES (?, ?, ?, ?, jsonb(?))`,
		sess.ID, contest.LookupKey(sess.ID), string(sess.Status), sess.Secret, string(data),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("session %s: %w", sess.ID, ErrConflict)
	}
	return err
}

func (s *DocStore) Get(ctx context.Context, id string) (*contest.Session, error) {
	return getSession(ctx, s.db, id)
}

func (s *DocStore) Update(ctx context.Context, id string, fn func(*contest.Session) error) (*contest.Session, error) {
	var out *contest.Session
	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		sess, err := getSession(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(sess); err != nil {
			return err
		}
		sess.UpdatedAt = s.clock.Now().UTC()

		data, err := json.Marshal(sess)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE sessions SET status = ?, data = jsonb(?) WHERE id = ?`,
			string(sess.Status), string(data), sess.ID,
		); err != nil {
			return err
		}
		out = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DocStore) List(ctx context.Context) ([]contest.Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT secret, json(data) FROM sessions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []contest.Session{}
	for rows.Next() {
		var secret, data string
		if err := rows.Scan(&secret, &data); err != nil {
			return nil, err
		}
		var sess contest.Session
		if err := json.Unmarshal([]byte(data), &sess); err != nil {
			return nil, fmt.Errorf("decoding session: %w", err)
		}
		sess.Secret = secret
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *DocStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n)
	return n, err
}

// Replace deletes every session and inserts sessions in their place. A
// session whose ID matches an earlier one in the list is skipped. Nothing
// changes if any insert fails.
func (s *DocStore) Replace(ctx context.Context, sessions []*contest.Session) (deleted, created int, err error) {
	err = database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM sessions`)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		deleted, created = int(n), 0

		for _, sess := range sessions {
			data, err := json.Marshal(sess)
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx,
				`INSERT INTO sessions (id, lookup_key, status, secret, data) VALUES (?, ?, ?, ?, jsonb(?))
				 ON CONFLICT DO NOTHING`,
				sess.ID, contest.LookupKey(sess.ID), string(sess.Status), sess.Secret, string(data),
			)
			if err != nil {
				return fmt.Errorf("inserting session %s: %w", sess.ID, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return deleted, created, nil
}
