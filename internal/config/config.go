package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/bank.db"`
	CacheDir string     `env:"CACHE_DIR" envDefault:"data/media"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// TickInterval is the cadence of the session clock driver.
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"100ms"`

	StartupDuration  time.Duration `env:"STARTUP_DURATION" envDefault:"30s"`
	VoteDuration     time.Duration `env:"VOTE_DURATION" envDefault:"15s"`
	WagerDuration    time.Duration `env:"WAGER_DURATION" envDefault:"90s"`
	QuestionDuration time.Duration `env:"QUESTION_DURATION" envDefault:"90s"`
	CooldownDuration time.Duration `env:"COOLDOWN_DURATION" envDefault:"5s"`
	MaxVoteOptions   int           `env:"MAX_VOTE_OPTIONS" envDefault:"6"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
