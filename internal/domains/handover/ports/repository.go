package ports

//go:generate mockgen -source=repository.go -destination=mocks/repository.go -package=mocks

import (
	"context"
	"errors"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
)

var (
	ErrNotFound        = errors.New("handover not found")
	ErrVersionConflict = errors.New("handover version conflict")
)

// ListFilter narrows a repository listing. Zero values match everything.
// Listings are ordered newest first by creation time; a positive Limit keeps
// only the first Limit entries.
type ListFilter struct {
	OwnerID  string
	Statuses []domain.Status
	// SelectedAddress matches property.selectedAddress exactly.
	SelectedAddress string
	Limit           int
}

// Repository is the remote persistence gateway for handover aggregates.
//
// Every successful write stores the aggregate with meta.version one above the
// stored value: Create persists version 1, Update and SetStatus persist the
// previous version plus one. Update rejects a document whose version does not
// match the stored one with ErrVersionConflict.
type Repository interface {
	Create(ctx context.Context, handover domain.Handover) (domain.Handover, error)
	Get(ctx context.Context, id string) (domain.Handover, error)
	Update(ctx context.Context, handover domain.Handover) (domain.Handover, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Handover, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status domain.Status) (domain.Handover, error)
}
