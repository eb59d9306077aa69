package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/novamind-digital/immo/internal/domains/handover/ports"
)

var (
	_ ports.SnapshotCache  = (*SnapshotCache)(nil)
	_ ports.SnapshotPurger = (*SnapshotCache)(nil)
)

// SnapshotCache keeps step snapshots in PostgreSQL for deployments where the
// API has no durable local disk.
type SnapshotCache struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSnapshotCache(db *gorm.DB) *SnapshotCache {
	cache := &SnapshotCache{db: db, now: time.Now}
	if db != nil {
		_ = db.AutoMigrate(&snapshotRecord{}, &snapshotScopeRecord{})
	}
	return cache
}

// WithClock overrides the time source for deterministic testing.
func (c *SnapshotCache) WithClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

type snapshotRecord struct {
	Scope     string    `gorm:"primaryKey;column:scope;size:256"`
	Step      string    `gorm:"primaryKey;column:step;size:32"`
	Payload   []byte    `gorm:"column:payload;type:bytea"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (snapshotRecord) TableName() string { return "handover_step_snapshots" }

type snapshotScopeRecord struct {
	Scope     string    `gorm:"primaryKey;column:scope;size:256"`
	LastSaved time.Time `gorm:"column:last_saved;index"`
}

func (snapshotScopeRecord) TableName() string { return "handover_snapshot_scopes" }

func (c *SnapshotCache) ReadSnapshot(ctx context.Context, key ports.SnapshotKey) ([]byte, bool, error) {
	if err := c.ensureDB(); err != nil {
		return nil, false, err
	}
	var record snapshotRecord
	err := c.db.WithContext(ctx).First(&record, "scope = ? AND step = ?", key.Scope, string(key.Step)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return record.Payload, true, nil
}

func (c *SnapshotCache) WriteSnapshot(ctx context.Context, key ports.SnapshotKey, value []byte) error {
	if err := c.ensureDB(); err != nil {
		return err
	}
	now := c.now().UTC()
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		snap := snapshotRecord{Scope: key.Scope, Step: string(key.Step), Payload: value, UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "step"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).Create(&snap).Error; err != nil {
			return err
		}
		marker := snapshotScopeRecord{Scope: key.Scope, LastSaved: now}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_saved"}),
		}).Create(&marker).Error
	})
}

func (c *SnapshotCache) ClearSnapshots(ctx context.Context, scope string) error {
	if err := c.ensureDB(); err != nil {
		return err
	}
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&snapshotRecord{}, "scope = ?", scope).Error; err != nil {
			return err
		}
		return tx.Delete(&snapshotScopeRecord{}, "scope = ?", scope).Error
	})
}

func (c *SnapshotCache) LastSaved(ctx context.Context, scope string) (time.Time, bool, error) {
	if err := c.ensureDB(); err != nil {
		return time.Time{}, false, err
	}
	var marker snapshotScopeRecord
	err := c.db.WithContext(ctx).First(&marker, "scope = ?", scope).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return marker.LastSaved, true, nil
}

// PurgeBefore removes scopes whose last write is older than cutoff. Use for housekeeping or cron.
func (c *SnapshotCache) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := c.ensureDB(); err != nil {
		return 0, err
	}
	var purged int64
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale := tx.Model(&snapshotScopeRecord{}).Select("scope").Where("last_saved < ?", cutoff)
		if err := tx.Where("scope IN (?)", stale).Delete(&snapshotRecord{}).Error; err != nil {
			return err
		}
		result := tx.Where("last_saved < ?", cutoff).Delete(&snapshotScopeRecord{})
		purged = result.RowsAffected
		return result.Error
	})
	return purged, err
}

func (c *SnapshotCache) ensureDB() error {
	if c == nil || c.db == nil {
		return errors.New("postgres snapshot cache not configured")
	}
	return nil
}
