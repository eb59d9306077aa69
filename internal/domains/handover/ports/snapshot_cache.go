package ports

//go:generate mockgen -source=snapshot_cache.go -destination=mocks/snapshot_cache.go -package=mocks

import (
	"context"
	"time"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
)

// SnapshotKey addresses one step snapshot inside a scope. A scope groups the
// snapshots of one draft, usually "{owner}/{handoverID}" or "{owner}/draft-{sessionID}".
type SnapshotKey struct {
	Scope string
	Step  domain.StepKey
}

func (k SnapshotKey) String() string {
	return k.Scope + ":" + string(k.Step)
}

// SnapshotCache is the durable local cache for unsaved step data.
type SnapshotCache interface {
	// ReadSnapshot returns the stored value and true, or false when nothing is cached.
	ReadSnapshot(ctx context.Context, key SnapshotKey) ([]byte, bool, error)
	// WriteSnapshot stores value and refreshes the scope's last-saved marker.
	WriteSnapshot(ctx context.Context, key SnapshotKey, value []byte) error
	// ClearSnapshots drops every snapshot and the marker of scope.
	ClearSnapshots(ctx context.Context, scope string) error
	// LastSaved reports when scope was last written.
	LastSaved(ctx context.Context, scope string) (time.Time, bool, error)
}

// SnapshotPurger is implemented by caches that need housekeeping for scopes
// abandoned without a reset.
type SnapshotPurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
