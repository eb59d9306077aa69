package api

import (
	"context"
	"database/sql"
	"log/slog"

	"go.temporal.io/sdk/client"
	"gorm.io/gorm"

	handovercacheredis "github.com/novamind-digital/immo/internal/domains/handover/adapters/cache/redis"
	handovercachesqlite "github.com/novamind-digital/immo/internal/domains/handover/adapters/cache/sqlite"
	handovermemory "github.com/novamind-digital/immo/internal/domains/handover/adapters/memory"
	handoverpostgres "github.com/novamind-digital/immo/internal/domains/handover/adapters/persistence/postgres"
	handoverworkflows "github.com/novamind-digital/immo/internal/domains/handover/adapters/workflows"
	handoverports "github.com/novamind-digital/immo/internal/domains/handover/ports"
	remindersmemory "github.com/novamind-digital/immo/internal/domains/reminders/adapters/memory"
	reminderspostgres "github.com/novamind-digital/immo/internal/domains/reminders/adapters/postgres"
	remindersredis "github.com/novamind-digital/immo/internal/domains/reminders/adapters/redis"
	reminderssqlite "github.com/novamind-digital/immo/internal/domains/reminders/adapters/sqlite"
	remindersports "github.com/novamind-digital/immo/internal/domains/reminders/ports"
	"github.com/novamind-digital/immo/internal/platform/migrations"
	platformpostgres "github.com/novamind-digital/immo/internal/platform/postgres"
	platformredis "github.com/novamind-digital/immo/internal/platform/redis"
	platformsqlite "github.com/novamind-digital/immo/internal/platform/sqlite"
)

// backends holds the connections opened for the process and closes them together.
type backends struct {
	db       *gorm.DB
	local    *sql.DB
	redis    *platformredis.Client
	temporal client.Client
	closers  []func()
}

func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// connectPostgres opens the shared database. A missing or unreachable DSN
// leaves db nil so callers fall back to memory.
func (b *backends) connectPostgres(ctx context.Context, cfg Config, logger *slog.Logger) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory handover repository")
		return
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to memory", slog.String("error", err.Error()))
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return
	}
	b.db = db
	b.closers = append(b.closers, func() { _ = sqlDB.Close() })
	logger.Info("handover repository configured with postgres")
}

func (b *backends) repository(cfg Config, logger *slog.Logger) handoverports.Repository {
	if b.db == nil {
		return handovermemory.NewRepository()
	}
	repo := handoverpostgres.NewRepository(b.db)
	if cfg.TemporalDisabled {
		return repo
	}
	temporalClient, err := connectTemporalClient(cfg, logger)
	if err != nil {
		logger.Warn("Temporal workflows unavailable, persisting inline", slog.String("error", err.Error()))
		return repo
	}
	b.temporal = temporalClient
	b.closers = append(b.closers, temporalClient.Close)
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return handoverworkflows.NewTemporalRepository(temporalClient, repo)
}

// localStores builds the snapshot cache and dismissed set for cfg.LocalCache.
// Each failure degrades to the in-memory adapters.
func (b *backends) localStores(ctx context.Context, cfg Config, logger *slog.Logger) (handoverports.SnapshotCache, remindersports.DismissedSet) {
	switch cfg.LocalCache {
	case CacheSQLite:
		db, err := platformsqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Warn("failed to open sqlite cache, falling back to memory", slog.String("path", cfg.SQLitePath), slog.String("error", err.Error()))
			break
		}
		b.local = db
		b.closers = append(b.closers, func() { _ = db.Close() })
		cache, err := handovercachesqlite.NewSnapshotCache(ctx, db)
		if err != nil {
			logger.Warn("failed to prepare sqlite snapshot cache", slog.String("error", err.Error()))
			break
		}
		dismissed, err := reminderssqlite.NewDismissedSet(ctx, db)
		if err != nil {
			logger.Warn("failed to prepare sqlite dismissed set", slog.String("error", err.Error()))
			break
		}
		logger.Info("local cache configured with sqlite", slog.String("path", cfg.SQLitePath))
		return cache, dismissed
	case CacheRedis:
		rdb, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("failed to connect to redis, falling back to memory", slog.String("error", err.Error()))
			break
		}
		if rdb == nil {
			break
		}
		b.redis = rdb
		b.closers = append(b.closers, func() { _ = rdb.Close() })
		logger.Info("local cache configured with redis")
		return handovercacheredis.NewSnapshotCache(rdb.Client, handovercacheredis.WithTTL(cfg.SnapshotRetention)),
			remindersredis.NewDismissedSet(rdb.Client)
	case CachePostgres:
		if b.db == nil {
			logger.Warn("postgres unavailable for local cache, falling back to memory")
			break
		}
		logger.Info("local cache configured with postgres")
		return handoverpostgres.NewSnapshotCache(b.db), reminderspostgres.NewDismissedSet(b.db)
	}
	return handovermemory.NewSnapshotCache(), remindersmemory.NewDismissedSet()
}

// health pings every opened backend.
func (b *backends) health(ctx context.Context) map[string]string {
	status := map[string]string{}
	check := func(name string, err error) {
		if err != nil {
			status[name] = err.Error()
			return
		}
		status[name] = "ok"
	}
	if b.db != nil {
		if sqlDB, err := b.db.DB(); err != nil {
			check("postgres", err)
		} else {
			check("postgres", sqlDB.PingContext(ctx))
		}
	}
	if b.local != nil {
		check("sqlite", b.local.PingContext(ctx))
	}
	if b.redis != nil {
		check("redis", b.redis.Health(ctx))
	}
	if b.temporal != nil {
		_, err := b.temporal.CheckHealth(ctx, &client.CheckHealthRequest{})
		check("temporal", err)
	}
	return status
}
