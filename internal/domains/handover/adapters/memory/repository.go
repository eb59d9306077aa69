package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory handover persistence adapter for development and tests.
type Repository struct {
	mu        sync.RWMutex
	handovers map[string]domain.Handover
	now       func() time.Time
	newID     func() string
}

func NewRepository() *Repository {
	return &Repository{
		handovers: map[string]domain.Handover{},
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Create(_ context.Context, handover domain.Handover) (domain.Handover, error) {
	clone := handover.Clone()
	clone.Normalize()
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.Meta.ID == "" {
		clone.Meta.ID = r.newID()
	}
	clone.Meta.Version = 1
	clone.Meta.CreatedAt = now
	clone.Meta.UpdatedAt = now
	r.handovers[clone.Meta.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) Get(_ context.Context, id string) (domain.Handover, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.handovers[id]
	if !ok {
		return domain.Handover{}, ports.ErrNotFound
	}
	return stored.Clone(), nil
}

func (r *Repository) Update(_ context.Context, handover domain.Handover) (domain.Handover, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.handovers[handover.Meta.ID]
	if !ok {
		return domain.Handover{}, ports.ErrNotFound
	}
	if !stored.Mutable() {
		return domain.Handover{}, domain.ErrNotDraft
	}
	if stored.Meta.Version != handover.Meta.Version {
		return domain.Handover{}, ports.ErrVersionConflict
	}
	clone := handover.Clone()
	clone.Normalize()
	clone.Meta.Version = stored.Meta.Version + 1
	clone.Meta.CreatedAt = stored.Meta.CreatedAt
	clone.Meta.UpdatedAt = r.now()
	clone.Meta.Status = stored.Meta.Status
	clone.Meta.UserID = stored.Meta.UserID
	r.handovers[clone.Meta.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]domain.Handover, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]domain.Handover, 0, len(r.handovers))
	for _, stored := range r.handovers {
		if filter.OwnerID != "" && stored.Meta.UserID != filter.OwnerID {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, stored.Meta.Status) {
			continue
		}
		if filter.SelectedAddress != "" && stored.Property.SelectedAddress != filter.SelectedAddress {
			continue
		}
		list = append(list, stored.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Meta.CreatedAt.After(list[j].Meta.CreatedAt)
	})
	if filter.Limit > 0 && len(list) > filter.Limit {
		list = list[:filter.Limit]
	}
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handovers[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.handovers, id)
	return nil
}

func (r *Repository) SetStatus(_ context.Context, id string, status domain.Status) (domain.Handover, error) {
	if _, err := domain.ParseStatus(string(status)); err != nil {
		return domain.Handover{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.handovers[id]
	if !ok {
		return domain.Handover{}, ports.ErrNotFound
	}
	stored.Meta.Status = status
	stored.Meta.Version++
	stored.Meta.UpdatedAt = r.now()
	r.handovers[id] = stored
	return stored.Clone(), nil
}
