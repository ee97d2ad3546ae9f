package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/teckzite/round2/internal/contest"
	"github.com/teckzite/round2/internal/database"
)

// SQLiteCodeStore keeps unlock codes in the unlock_codes table. Used codes
// are kept for the audit trail until the next bulk reset.
type SQLiteCodeStore struct {
	db *sql.DB
}

func NewSQLiteCodeStore(db *sql.DB) *SQLiteCodeStore {
	return &SQLiteCodeStore{db: db}
}

func (s *SQLiteCodeStore) Issue(ctx context.Context, code contest.UnlockCode, now time.Time) error {
	return database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE unlock_codes SET is_used = 1 WHERE session_id = ? AND is_used = 0`,
			code.SessionID,
		); err != nil {
			return fmt.Errorf("invalidating previous codes: %w", err)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO unlock_codes (code, session_id, expires_at, is_used, created_at) VALUES (?, ?, ?, 0, ?)`,
			code.Code, code.SessionID, code.ExpiresAt.UnixMilli(), now.UnixMilli(),
		)
		return err
	})
}

// Redeem marks the code used in a single conditional UPDATE so two
// concurrent redemptions cannot both succeed.
func (s *SQLiteCodeStore) Redeem(ctx context.Context, sessionID, code string, now time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE unlock_codes SET is_used = 1
		 WHERE session_id = ? AND code = ? AND is_used = 0 AND expires_at > ?`,
		sessionID, code, now.UnixMilli(),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return contest.ErrInvalidCode
	}
	return nil
}

func (s *SQLiteCodeStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM unlock_codes`)
	return err
}
