package ports

import (
	"context"
	"time"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
)

// SessionInfo describes a live wizard session.
type SessionInfo struct {
	ID         string
	OwnerID    string
	HandoverID string
	Dirty      bool
	Loading    bool
	Error      string
	Version    int64
	Status     domain.Status
	LastSaved  *time.Time
}

// Service defines the handover use cases exposed to adapters (inbound/driving port).
type Service interface {
	OpenSession(ctx context.Context, ownerID string) (*SessionInfo, error)
	ResumeSession(ctx context.Context, ownerID, handoverID string) (*SessionInfo, error)
	DescribeSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	SaveSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	LoadIntoSession(ctx context.Context, sessionID, handoverID string) (*SessionInfo, error)
	ResetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	CloseSession(ctx context.Context, sessionID string) error
	ListHandovers(ctx context.Context, filter ListFilter) ([]domain.Handover, error)
	CompleteHandover(ctx context.Context, id string) (domain.Handover, error)
	ArchiveHandover(ctx context.Context, id string) (domain.Handover, error)
	DeleteHandover(ctx context.Context, id string) error
}
