package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/novamind-digital/immo/internal/domains/handover/ports"
)

const (
	snapshotKeyPrefix = "immo:snapshots:"
	markerSuffix      = ":saved"
	// DefaultTTL bounds how long an abandoned draft scope is kept.
	DefaultTTL = 30 * 24 * time.Hour
)

var _ ports.SnapshotCache = (*SnapshotCache)(nil)

// SnapshotCache keeps one hash per scope (field = step) plus a marker key with
// the last write time. Both keys expire together, so no purge job is needed.
type SnapshotCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a SnapshotCache instance.
type Option func(*SnapshotCache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *SnapshotCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewSnapshotCache wires a Redis-backed snapshot cache. Client lifecycle is managed externally.
func NewSnapshotCache(client redis.UniversalClient, opts ...Option) *SnapshotCache {
	c := &SnapshotCache{client: client, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func scopeKey(scope string) string  { return snapshotKeyPrefix + scope }
func markerKey(scope string) string { return snapshotKeyPrefix + scope + markerSuffix }

func (c *SnapshotCache) ReadSnapshot(ctx context.Context, key ports.SnapshotKey) ([]byte, bool, error) {
	raw, err := c.client.HGet(ctx, scopeKey(key.Scope), string(key.Step)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

// WriteSnapshot stores the step and refreshes marker and expiry in one MULTI.
func (c *SnapshotCache) WriteSnapshot(ctx context.Context, key ports.SnapshotKey, value []byte) error {
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, scopeKey(key.Scope), string(key.Step), value)
	pipe.Expire(ctx, scopeKey(key.Scope), c.ttl)
	pipe.Set(ctx, markerKey(key.Scope), c.now().UnixMilli(), c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *SnapshotCache) ClearSnapshots(ctx context.Context, scope string) error {
	return c.client.Del(ctx, scopeKey(scope), markerKey(scope)).Err()
}

func (c *SnapshotCache) LastSaved(ctx context.Context, scope string) (time.Time, bool, error) {
	raw, err := c.client.Get(ctx, markerKey(scope)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, err
	}
	return time.UnixMilli(ms), true, nil
}
