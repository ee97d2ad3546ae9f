package migrations_test

import (
	"context"
	"strings"
	"testing"

	"github.com/teckzite/round2/internal/database"
	"github.com/teckzite/round2/internal/migrations"
)

func TestMigrations(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	want := []string{"sessions", "unlock_codes", "admins"}

	for _, table := range want {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(db); err != nil {
		t.Fatalf("second run (should be no-op): %v", err)
	}
}

func TestSessionLookupKeyUnique(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()
	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	insert := `INSERT INTO sessions (id, lookup_key, status, secret, data) VALUES (?, ?, 'active', '1', jsonb('{}'))`
	if _, err := db.Exec(insert, "TZ-100", "tz-100"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err = db.Exec(insert, "tz-100", "tz-100")
	if err == nil || !strings.Contains(err.Error(), "UNIQUE constraint failed") {
		t.Fatalf("duplicate lookup_key err = %v, want UNIQUE violation", err)
	}
}

func TestUnlockCodesSchema(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()
	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	rows, err := db.Query(`SELECT name, type, "notnull" FROM pragma_table_info('unlock_codes')`)
	if err != nil {
		t.Fatalf("table info: %v", err)
	}
	defer rows.Close()

	got := map[string]string{}
	for rows.Next() {
		var name, typ string
		var notNull int
		if err := rows.Scan(&name, &typ, &notNull); err != nil {
			t.Fatalf("scan: %v", err)
		}
		if notNull != 1 {
			t.Errorf("column %s is nullable", name)
		}
		got[name] = typ
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}

	want := map[string]string{
		"code":       "TEXT",
		"session_id": "TEXT",
		"expires_at": "INTEGER",
		"is_used":    "INTEGER",
		"created_at": "INTEGER",
	}
	for name, typ := range want {
		if got[name] != typ {
			t.Errorf("column %s type = %q, want %q", name, got[name], typ)
		}
	}

	var isUsed int
	if _, err := db.Exec(`INSERT INTO unlock_codes (code, session_id, expires_at, created_at) VALUES ('123456', 'TZ-1', 1, 0)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.QueryRow(`SELECT is_used FROM unlock_codes`).Scan(&isUsed); err != nil || isUsed != 0 {
		t.Errorf("is_used default = %d, %v; want 0", isUsed, err)
	}
}
