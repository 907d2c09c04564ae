package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"metropolis/internal/city"
)

const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
)

type Config struct {
	Game        city.Config
	Store       string
	DataDir     string
	DatabaseURL string
	DBMaxConns  int32
	LogLevel    slog.Level
	SkipIntro   bool
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Game: city.Config{
			GridSize:       envIntDefault("METRO_GRID_SIZE", city.DefaultGridSize),
			Days:           envIntDefault("METRO_DAYS", city.DefaultDays),
			MaxZonesPerDay: envIntDefault("METRO_MAX_ZONES_PER_DAY", city.DefaultMaxZonesPerDay),
			MonetaryGoal:   envFloatDefault("METRO_MONEY_GOAL", city.DefaultMonetaryGoal),
			Seed:           envInt64Default("METRO_SEED", 0),
		},
		Store:       strings.ToLower(envDefault("METRO_STORE", StoreFile)),
		DataDir:     strings.TrimSpace(os.Getenv("METRO_DATA_DIR")),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:  int32(envIntDefault("METRO_DB_MAX_CONNS", 4)),
		LogLevel:    envLevelDefault("METRO_LOG_LEVEL", slog.LevelWarn),
		SkipIntro:   envBoolDefault("METRO_SKIP_INTRO", false),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store %q (want memory, file or postgres)", c.Store)
	}
	if c.Game.GridSize <= 0 {
		return fmt.Errorf("grid size must be > 0, got %d", c.Game.GridSize)
	}
	if c.Game.Days <= 0 {
		return fmt.Errorf("days must be > 0, got %d", c.Game.Days)
	}
	if c.Game.MonetaryGoal <= 0 {
		return fmt.Errorf("monetary goal must be > 0")
	}
	return nil
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envIntDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envFloatDefault(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBoolDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envLevelDefault(key string, fallback slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return fallback
	}
	return lvl
}
