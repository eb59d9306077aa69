package ports

import "context"

// DismissedSet durably records reminder ids the user silenced. Dismissals are
// permanent and kept apart from step snapshots.
type DismissedSet interface {
	Add(ctx context.Context, reminderID string) error
	Members(ctx context.Context) ([]string, error)
}
