package memory

import (
	"context"
	"sync"
	"time"

	"github.com/novamind-digital/immo/internal/domains/handover/ports"
)

var (
	_ ports.SnapshotCache  = (*SnapshotCache)(nil)
	_ ports.SnapshotPurger = (*SnapshotCache)(nil)
)

// SnapshotCache keeps step snapshots in process memory. It does not survive a
// restart and only serves development setups and tests.
type SnapshotCache struct {
	mu     sync.RWMutex
	scopes map[string]*scopeEntry
	now    func() time.Time
}

type scopeEntry struct {
	steps     map[string][]byte
	lastSaved time.Time
}

func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{scopes: map[string]*scopeEntry{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (c *SnapshotCache) WithClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

func (c *SnapshotCache) ReadSnapshot(_ context.Context, key ports.SnapshotKey) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.scopes[key.Scope]
	if !ok {
		return nil, false, nil
	}
	raw, ok := entry.steps[string(key.Step)]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), raw...), true, nil
}

func (c *SnapshotCache) WriteSnapshot(_ context.Context, key ports.SnapshotKey, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.scopes[key.Scope]
	if !ok {
		entry = &scopeEntry{steps: map[string][]byte{}}
		c.scopes[key.Scope] = entry
	}
	entry.steps[string(key.Step)] = append([]byte(nil), value...)
	entry.lastSaved = c.now()
	return nil
}

func (c *SnapshotCache) ClearSnapshots(_ context.Context, scope string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.scopes, scope)
	return nil
}

func (c *SnapshotCache) LastSaved(_ context.Context, scope string) (time.Time, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.scopes[scope]
	if !ok {
		return time.Time{}, false, nil
	}
	return entry.lastSaved, true, nil
}

// PurgeBefore drops scopes last written before cutoff.
func (c *SnapshotCache) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var purged int64
	for scope, entry := range c.scopes {
		if entry.lastSaved.Before(cutoff) {
			delete(c.scopes, scope)
			purged++
		}
	}
	return purged, nil
}
