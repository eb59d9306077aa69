package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/novamind-digital/immo/internal/domains/handover/ports"
	platformsqlite "github.com/novamind-digital/immo/internal/platform/sqlite"
)

var (
	_ ports.SnapshotCache  = (*SnapshotCache)(nil)
	_ ports.SnapshotPurger = (*SnapshotCache)(nil)
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS step_snapshots (
		scope TEXT NOT NULL,
		step TEXT NOT NULL,
		payload BLOB NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (scope, step)
	)`,
	`CREATE TABLE IF NOT EXISTS snapshot_scopes (
		scope TEXT PRIMARY KEY,
		last_saved INTEGER NOT NULL
	)`,
}

// SnapshotCache stores step snapshots in a local SQLite file. Snapshot and
// last-saved marker are written in one transaction.
type SnapshotCache struct {
	db  *sql.DB
	now func() time.Time
}

// NewSnapshotCache prepares the schema on db. Caller owns DB lifecycle.
func NewSnapshotCache(ctx context.Context, db *sql.DB) (*SnapshotCache, error) {
	if db == nil {
		return nil, errors.New("sqlite snapshot cache not configured")
	}
	if err := platformsqlite.Migrate(ctx, db, schema...); err != nil {
		return nil, err
	}
	return &SnapshotCache{db: db, now: time.Now}, nil
}

// WithClock overrides the time source for deterministic testing.
func (c *SnapshotCache) WithClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

func (c *SnapshotCache) ReadSnapshot(ctx context.Context, key ports.SnapshotKey) ([]byte, bool, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM step_snapshots WHERE scope = ? AND step = ?`,
		key.Scope, string(key.Step)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot %s: %w", key, err)
	}
	return payload, true, nil
}

func (c *SnapshotCache) WriteSnapshot(ctx context.Context, key ports.SnapshotKey, value []byte) (retErr error) {
	now := c.now().UnixMilli()
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO step_snapshots(scope, step, payload, updated_at) VALUES(?,?,?,?)
		 ON CONFLICT(scope, step) DO UPDATE SET payload=excluded.payload, updated_at=excluded.updated_at`,
		key.Scope, string(key.Step), value, now); err != nil {
		return fmt.Errorf("write snapshot %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_scopes(scope, last_saved) VALUES(?,?)
		 ON CONFLICT(scope) DO UPDATE SET last_saved=excluded.last_saved`,
		key.Scope, now); err != nil {
		return fmt.Errorf("write marker %s: %w", key.Scope, err)
	}
	return tx.Commit()
}

func (c *SnapshotCache) ClearSnapshots(ctx context.Context, scope string) (retErr error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM step_snapshots WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("clear snapshots %s: %w", scope, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_scopes WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("clear marker %s: %w", scope, err)
	}
	return tx.Commit()
}

func (c *SnapshotCache) LastSaved(ctx context.Context, scope string) (time.Time, bool, error) {
	var ms int64
	err := c.db.QueryRowContext(ctx, `SELECT last_saved FROM snapshot_scopes WHERE scope = ?`, scope).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read marker %s: %w", scope, err)
	}
	return time.UnixMilli(ms), true, nil
}

// PurgeBefore drops every scope whose last write is older than cutoff.
func (c *SnapshotCache) PurgeBefore(ctx context.Context, cutoff time.Time) (purged int64, retErr error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	limit := cutoff.UnixMilli()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM step_snapshots WHERE scope IN (SELECT scope FROM snapshot_scopes WHERE last_saved < ?)`, limit); err != nil {
		return 0, fmt.Errorf("purge snapshots: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM snapshot_scopes WHERE last_saved < ?`, limit)
	if err != nil {
		return 0, fmt.Errorf("purge markers: %w", err)
	}
	purged, err = res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return purged, tx.Commit()
}
