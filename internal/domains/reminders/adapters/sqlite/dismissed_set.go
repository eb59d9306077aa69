package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/novamind-digital/immo/internal/domains/reminders/ports"
	platformsqlite "github.com/novamind-digital/immo/internal/platform/sqlite"
)

var _ ports.DismissedSet = (*DismissedSet)(nil)

// DismissedSet keeps dismissed reminder ids in their own SQLite table, apart
// from step snapshots.
type DismissedSet struct {
	db *sql.DB
}

// NewDismissedSet prepares the schema on db. Caller owns DB lifecycle.
func NewDismissedSet(ctx context.Context, db *sql.DB) (*DismissedSet, error) {
	if db == nil {
		return nil, errors.New("sqlite dismissed set not configured")
	}
	if err := platformsqlite.Migrate(ctx, db, `CREATE TABLE IF NOT EXISTS dismissed_reminders (
		reminder_id TEXT PRIMARY KEY,
		dismissed_at INTEGER NOT NULL
	)`); err != nil {
		return nil, err
	}
	return &DismissedSet{db: db}, nil
}

func (s *DismissedSet) Add(ctx context.Context, reminderID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dismissed_reminders(reminder_id, dismissed_at) VALUES(?,?) ON CONFLICT(reminder_id) DO NOTHING`,
		reminderID, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("dismiss %s: %w", reminderID, err)
	}
	return nil
}

func (s *DismissedSet) Members(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT reminder_id FROM dismissed_reminders ORDER BY reminder_id`)
	if err != nil {
		return nil, fmt.Errorf("select dismissed: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
