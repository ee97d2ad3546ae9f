package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/teckzite/round2/internal/auth"
	"github.com/teckzite/round2/internal/database"
	"github.com/teckzite/round2/internal/migrations"
)

const (
	testSecret    = "test-secret-0123456789"
	testAdminUser = "admin"
	testAdminPass = "hunter22"
)

var testStart = time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	db       *sql.DB
	handler  http.Handler
	sessions *DocStore
	codes    *SQLiteCodeStore
	admins   *AdminDocStore
	broker   *Broker
	clock    *clockwork.FakeClock
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrations: %v", err)
	}

	clock := clockwork.NewFakeClockAt(testStart)
	env := &testEnv{
		db:       db,
		sessions: NewDocStore(db, clock),
		codes:    NewSQLiteCodeStore(db),
		admins:   NewAdminDocStore(db),
		broker:   NewBroker(),
		clock:    clock,
	}
	if err := SeedAdmin(ctx, discardLogger(), env.admins, testAdminUser, testAdminPass); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	env.handler = NewHandler(discardLogger(), Deps{
		Sessions: env.sessions,
		Codes:    env.codes,
		Admins:   env.admins,
		Issuer:   auth.NewIssuer(testSecret, 2*time.Hour, 4*time.Hour, clock),
		Broker:   env.broker,
		Clock:    clock,
	}, nil)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d: %s", rec.Code, want, rec.Body.String())
	}
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/admin/login", "", AdminLoginRequest{
		Username: testAdminUser,
		Password: testAdminPass,
	})
	expectStatus(t, rec, http.StatusOK)
	return decode[AdminLoginResponse](t, rec).Token
}

// participant creates a session through the admin API and logs it in.
func (e *testEnv) participant(t *testing.T, admin, id, phone string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/admin/sessions", admin, CreateSessionRequest{ID: id, Phone: phone, Name: "Test"})
	expectStatus(t, rec, http.StatusCreated)

	rec = e.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{ID: id, Phone: phone})
	expectStatus(t, rec, http.StatusOK)
	return decode[LoginResponse](t, rec).Token
}
