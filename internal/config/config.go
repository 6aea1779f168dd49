package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	APIPort  int    `env:"VW_PORT" envDefault:"8080"`
	LogLevel string `env:"VW_LOG_LEVEL" envDefault:"info"`

	DatabasePath string `env:"VW_DATABASE_PATH" envDefault:"velowise.db"`

	CacheTTLSeconds int `env:"VW_CACHE_TTL_SEC" envDefault:"300"`
	DefaultLimit    int `env:"VW_DEFAULT_LIMIT" envDefault:"10"`
	MaxLimit        int `env:"VW_MAX_LIMIT" envDefault:"50"`

	PeerCap         int `env:"VW_PEER_CAP" envDefault:"5"`
	TrendWindowDays int `env:"VW_TREND_WINDOW_DAYS" envDefault:"7"`

	ScoutFeedURL   string `env:"VW_SCOUT_FEED_URL"`
	ScoutBatchSize int    `env:"VW_SCOUT_BATCH_SIZE" envDefault:"0"`
}

func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("VW_PORT must be between 1 and 65535")
	}

	if c.DatabasePath == "" {
		return fmt.Errorf("VW_DATABASE_PATH cannot be empty")
	}

	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("VW_CACHE_TTL_SEC cannot be negative")
	}

	if c.DefaultLimit < 1 {
		return fmt.Errorf("VW_DEFAULT_LIMIT must be at least 1")
	}

	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("VW_MAX_LIMIT cannot be below VW_DEFAULT_LIMIT")
	}

	if c.PeerCap < 1 {
		return fmt.Errorf("VW_PEER_CAP must be at least 1")
	}

	if c.TrendWindowDays < 1 {
		return fmt.Errorf("VW_TREND_WINDOW_DAYS must be at least 1")
	}

	if c.ScoutBatchSize < 0 {
		return fmt.Errorf("VW_SCOUT_BATCH_SIZE cannot be negative")
	}

	return nil
}

var (
	cfg  *Config
	once sync.Once
)

func GetConfig() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		cfg = &Config{}
		if err := env.Parse(cfg); err != nil {
			log.Fatalf("failed to parse config: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			log.Fatalf("config validation failed: %v", err)
		}
	})
	return cfg
}
