package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"go.temporal.io/sdk/client"

	"github.com/novamind-digital/immo/internal/platform/debounce"
	platformsqlite "github.com/novamind-digital/immo/internal/platform/sqlite"
)

// LocalCache selects the backend for step snapshots and dismissed reminders.
type LocalCache string

const (
	CacheSQLite   LocalCache = "sqlite"
	CacheRedis    LocalCache = "redis"
	CachePostgres LocalCache = "postgres"
	CacheMemory   LocalCache = "memory"
)

const (
	defaultReminderPoll      = time.Minute
	defaultReminderTimezone  = "Europe/Berlin"
	defaultSnapshotRetention = 30 * 24 * time.Hour
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	LocalCache        LocalCache
	SQLitePath        string
	RedisURL          string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	SnapshotDebounce  time.Duration
	SnapshotRetention time.Duration
	ReminderPoll      time.Duration
	ReminderLocation  *time.Location
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		LocalCache:        LocalCache(strings.ToLower(envDefault("LOCAL_CACHE", string(CacheSQLite)))),
		SQLitePath:        envDefault("SQLITE_PATH", platformsqlite.DefaultPath),
		RedisURL:          strings.TrimSpace(os.Getenv("REDIS_URL")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		SnapshotDebounce:  debounce.DefaultDelay,
		SnapshotRetention: defaultSnapshotRetention,
		ReminderPoll:      defaultReminderPoll,
	}
	switch cfg.LocalCache {
	case CacheSQLite, CacheRedis, CachePostgres, CacheMemory:
	default:
		return Config{}, fmt.Errorf("LOCAL_CACHE must be one of sqlite, redis, postgres, memory")
	}
	if cfg.LocalCache == CacheRedis && cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL is required when LOCAL_CACHE=redis")
	}
	if cfg.LocalCache == CachePostgres && cfg.PostgresDSN == "" {
		return Config{}, fmt.Errorf("POSTGRES_DSN is required when LOCAL_CACHE=postgres")
	}
	var err error
	if cfg.SnapshotDebounce, err = positiveDuration("SNAPSHOT_DEBOUNCE_MS", time.Millisecond, cfg.SnapshotDebounce); err != nil {
		return Config{}, err
	}
	if cfg.SnapshotRetention, err = positiveDuration("SNAPSHOT_RETENTION_HOURS", time.Hour, cfg.SnapshotRetention); err != nil {
		return Config{}, err
	}
	if cfg.ReminderPoll, err = positiveDuration("REMINDER_POLL_SECONDS", time.Second, cfg.ReminderPoll); err != nil {
		return Config{}, err
	}
	loc, err := time.LoadLocation(envDefault("REMINDER_TIMEZONE", defaultReminderTimezone))
	if err != nil {
		return Config{}, fmt.Errorf("REMINDER_TIMEZONE: %w", err)
	}
	cfg.ReminderLocation = loc
	return cfg, nil
}

func positiveDuration(key string, unit, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return time.Duration(n) * unit, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
