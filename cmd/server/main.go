package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/teckzite/round2/internal/auth"
	"github.com/teckzite/round2/internal/config"
	"github.com/teckzite/round2/internal/database"
	"github.com/teckzite/round2/internal/handler/health"
	"github.com/teckzite/round2/internal/migrations"
	"github.com/teckzite/round2/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
	}
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.RunContext(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	clock := clockwork.NewRealClock()
	sessions := server.NewDocStore(db, clock)
	admins := server.NewAdminDocStore(db)
	checks := map[string]health.Checker{"sqlite": health.SQL(db)}

	// --- Unlock codes: Redis when configured, SQLite otherwise ---
	var codes server.CodeStore = server.NewSQLiteCodeStore(db)
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		codes = server.NewRedisCodeStore(rdb)
		checks["redis"] = health.Redis(rdb)
		logger.Info("connected to redis", "purpose", "unlock codes")
	}

	// --- Seeding ---
	if err := server.SeedAdmin(ctx, logger, admins, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	if cfg.SeedFile != "" {
		if err := server.SeedFromFile(ctx, logger, sessions, cfg.SeedFile, clock.Now().UTC()); err != nil {
			return fmt.Errorf("seeding roster: %w", err)
		}
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Sessions:    sessions,
		Codes:       codes,
		Admins:      admins,
		Issuer:      auth.NewIssuer(cfg.JWTSecret, cfg.ParticipantTokenTTL, cfg.AdminTokenTTL, clock),
		Broker:      server.NewBroker(),
		Clock:       clock,
		CodeTTL:     cfg.UnlockCodeTTL,
		CORSOrigins: cfg.CORSOrigins,
		SPADir:      cfg.SPADir,
	}, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, checks).Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
