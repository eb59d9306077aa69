//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
	"github.com/novamind-digital/immo/internal/platform/migrations"
)

func setupHandoverPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("immo_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		_ = pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func TestRepository_VersionedLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupHandoverPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	draft := domain.NewHandover(time.Now(), "owner-1")
	draft.Keys = domain.Keys{{ID: 1, Type: "haustuerschluessel", Quantity: "2"}}

	created, err := repo.Create(ctx, draft)
	require.NoError(t, err)
	require.NotEmpty(t, created.Meta.ID)
	assert.Equal(t, int64(1), created.Meta.Version)

	created.General.RentalType = domain.RentalEnd
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Meta.Version)

	_, err = repo.Update(ctx, created)
	require.ErrorIs(t, err, ports.ErrVersionConflict)

	fetched, err := repo.Get(ctx, created.Meta.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalEnd, fetched.General.RentalType)
	assert.Equal(t, "2", fetched.Keys[0].Quantity)

	completed, err := repo.SetStatus(ctx, created.Meta.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(3), completed.Meta.Version)

	_, err = repo.Update(ctx, completed)
	require.ErrorIs(t, err, domain.ErrNotDraft)

	drafts, err := repo.List(ctx, ports.ListFilter{OwnerID: "owner-1", Statuses: []domain.Status{domain.StatusDraft}})
	require.NoError(t, err)
	assert.Empty(t, drafts)

	older := domain.NewHandover(time.Now(), "owner-1")
	older.Property.SelectedAddress = "Ringweg 7"
	older, err = repo.Create(ctx, older)
	require.NoError(t, err)
	newer := domain.NewHandover(time.Now(), "owner-1")
	newer.Property.SelectedAddress = "Ringweg 7"
	newer, err = repo.Create(ctx, newer)
	require.NoError(t, err)
	older.General.RentalType = domain.RentalStart
	_, err = repo.Update(ctx, older)
	require.NoError(t, err)

	byAddress, err := repo.List(ctx, ports.ListFilter{SelectedAddress: "Ringweg 7"})
	require.NoError(t, err)
	require.Len(t, byAddress, 2)
	assert.Equal(t, newer.Meta.ID, byAddress[0].Meta.ID)
	assert.Equal(t, older.Meta.ID, byAddress[1].Meta.ID)

	recent, err := repo.List(ctx, ports.ListFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, newer.Meta.ID, recent[0].Meta.ID)

	require.NoError(t, repo.Delete(ctx, created.Meta.ID))
	_, err = repo.Get(ctx, created.Meta.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSnapshotCache_PurgeBefore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupHandoverPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	cache := NewSnapshotCache(db)
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.WithClock(func() time.Time { return old })
	stale := ports.SnapshotKey{Scope: "owner-1/draft", Step: domain.StepKeys}
	require.NoError(t, cache.WriteSnapshot(ctx, stale, []byte(`[]`)))

	cache.WithClock(func() time.Time { return old.Add(48 * time.Hour) })
	fresh := ports.SnapshotKey{Scope: "owner-2/draft", Step: domain.StepGeneral}
	require.NoError(t, cache.WriteSnapshot(ctx, fresh, []byte(`{}`)))

	purged, err := cache.PurgeBefore(ctx, old.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, ok, err := cache.ReadSnapshot(ctx, stale)
	require.NoError(t, err)
	assert.False(t, ok)
	raw, ok, err := cache.ReadSnapshot(ctx, fresh)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{}`, string(raw))
}
