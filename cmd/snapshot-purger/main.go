package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/novamind-digital/immo/internal/app/api"
	handovercachesqlite "github.com/novamind-digital/immo/internal/domains/handover/adapters/cache/sqlite"
	handoverpostgres "github.com/novamind-digital/immo/internal/domains/handover/adapters/persistence/postgres"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
	"github.com/novamind-digital/immo/internal/platform/migrations"
	platformpostgres "github.com/novamind-digital/immo/internal/platform/postgres"
	platformsqlite "github.com/novamind-digital/immo/internal/platform/sqlite"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	purger, cleanup := buildPurger(ctx, cfg, logger)
	defer cleanup()
	if purger == nil {
		log.Fatalf("LOCAL_CACHE=%s keeps no purgeable snapshots", cfg.LocalCache)
	}

	cutoff := time.Now().Add(-cfg.SnapshotRetention)
	purged, err := purger.PurgeBefore(ctx, cutoff)
	if err != nil {
		log.Fatalf("failed to purge snapshots: %v", err)
	}
	logger.Info("snapshot purge completed", slog.Int64("scopes", purged), slog.Time("cutoff", cutoff))
}

func buildPurger(ctx context.Context, cfg api.Config, logger *slog.Logger) (ports.SnapshotPurger, func()) {
	switch cfg.LocalCache {
	case api.CacheSQLite:
		db, err := platformsqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			log.Fatalf("failed to open sqlite cache: %v", err)
		}
		cache, err := handovercachesqlite.NewSnapshotCache(ctx, db)
		if err != nil {
			_ = db.Close()
			log.Fatalf("failed to prepare sqlite cache: %v", err)
		}
		return cache, func() { _ = db.Close() }
	case api.CachePostgres:
		db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
		if db == nil {
			log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge snapshots")
		}
		if err := migrations.Run(db); err != nil {
			cleanup()
			log.Fatalf("failed to migrate postgres: %v", err)
		}
		return handoverpostgres.NewSnapshotCache(db), cleanup
	default:
		return nil, func() {}
	}
}
