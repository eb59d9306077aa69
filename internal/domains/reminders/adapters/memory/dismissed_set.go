package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/novamind-digital/immo/internal/domains/reminders/ports"
)

var _ ports.DismissedSet = (*DismissedSet)(nil)

// DismissedSet is a process-local dismissed set for development and tests.
type DismissedSet struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewDismissedSet() *DismissedSet {
	return &DismissedSet{ids: map[string]struct{}{}}
}

func (s *DismissedSet) Add(_ context.Context, reminderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[reminderID] = struct{}{}
	return nil
}

func (s *DismissedSet) Members(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
