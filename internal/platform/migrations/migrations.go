package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&handoverRecord{},
		&snapshotRecord{},
		&snapshotScopeRecord{},
		&dismissedRecord{},
	)
}

// Handover schema mirrors the handover Postgres adapter.
type handoverRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	OwnerID   string    `gorm:"column:owner_id;index:idx_handovers_owner_status"`
	Status    string    `gorm:"column:status;type:varchar(16);index:idx_handovers_owner_status"`
	Version   int64     `gorm:"column:version"`
	Document  []byte    `gorm:"column:document;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (handoverRecord) TableName() string { return "handovers" }

// Step snapshot schema mirrors the Postgres snapshot cache.
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

// Dismissed reminder schema mirrors the reminders Postgres adapter.
type dismissedRecord struct {
	ReminderID  string    `gorm:"primaryKey;column:reminder_id;size:128"`
	DismissedAt time.Time `gorm:"column:dismissed_at"`
}

func (dismissedRecord) TableName() string { return "dismissed_reminders" }
