//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	addr, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(addr)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestSnapshotCacheIntegration(t *testing.T) {
	ctx := context.Background()
	client := setupRedis(t)
	cache := NewSnapshotCache(client, WithTTL(time.Hour))
	key := ports.SnapshotKey{Scope: "owner-1/draft", Step: domain.StepGeneral}

	_, ok, err := cache.ReadSnapshot(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.WriteSnapshot(ctx, key, []byte(`{"rentalType":"end"}`)))
	raw, ok, err := cache.ReadSnapshot(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"rentalType":"end"}`, string(raw))

	_, ok, err = cache.LastSaved(ctx, key.Scope)
	require.NoError(t, err)
	require.True(t, ok)
	ttl, err := client.TTL(ctx, scopeKey(key.Scope)).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))

	require.NoError(t, cache.ClearSnapshots(ctx, key.Scope))
	_, ok, err = cache.ReadSnapshot(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = cache.LastSaved(ctx, key.Scope)
	require.NoError(t, err)
	require.False(t, ok)
}
