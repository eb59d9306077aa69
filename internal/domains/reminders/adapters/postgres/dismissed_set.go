package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/novamind-digital/immo/internal/domains/reminders/ports"
)

var _ ports.DismissedSet = (*DismissedSet)(nil)

// DismissedSet persists dismissed reminder ids in PostgreSQL.
type DismissedSet struct {
	db *gorm.DB
}

// NewDismissedSet wires the set. Caller owns DB lifecycle.
func NewDismissedSet(db *gorm.DB) *DismissedSet {
	if db != nil {
		_ = db.AutoMigrate(&dismissedRecord{})
	}
	return &DismissedSet{db: db}
}

type dismissedRecord struct {
	ReminderID  string    `gorm:"primaryKey;column:reminder_id;size:128"`
	DismissedAt time.Time `gorm:"column:dismissed_at"`
}

func (dismissedRecord) TableName() string { return "dismissed_reminders" }

func (s *DismissedSet) Add(ctx context.Context, reminderID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	rec := dismissedRecord{ReminderID: reminderID, DismissedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
}

func (s *DismissedSet) Members(ctx context.Context) ([]string, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var ids []string
	if err := s.db.WithContext(ctx).Model(&dismissedRecord{}).Order("reminder_id").Pluck("reminder_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *DismissedSet) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres dismissed set not configured")
	}
	return nil
}
