package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr    string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath      string     `env:"DB_PATH" envDefault:"data/contest.db"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir      string     `env:"SPA_DIR" envDefault:"../client/dist"`
	CORSOrigins []string   `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	JWTSecret           string        `env:"JWT_SECRET,required"`
	ParticipantTokenTTL time.Duration `env:"PARTICIPANT_TOKEN_TTL" envDefault:"2h"`
	AdminTokenTTL       time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"4h"`
	UnlockCodeTTL       time.Duration `env:"UNLOCK_CODE_TTL" envDefault:"5m"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// RedisURL switches unlock codes to Redis when set.
	RedisURL string `env:"REDIS_URL"`
	SeedFile string `env:"SEED_FILE"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if len(cfg.JWTSecret) < 16 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	return &cfg, nil
}
