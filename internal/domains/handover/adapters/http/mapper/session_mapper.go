package mapper

import (
	"time"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
)

// Session represents the transport shape of a wizard session.
type Session struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"ownerId"`
	HandoverID string     `json:"handoverId,omitempty"`
	Status     string     `json:"status"`
	Version    int64      `json:"version"`
	Dirty      bool       `json:"dirty"`
	Loading    bool       `json:"loading"`
	Error      string     `json:"error,omitempty"`
	LastSaved  *time.Time `json:"lastSaved,omitempty"`
	HasDraft   bool       `json:"hasSavedDraft"`
}

// FromSessionInfo converts service session info to the transport representation.
func FromSessionInfo(info *ports.SessionInfo) Session {
	if info == nil {
		return Session{}
	}
	return Session{
		ID:         info.ID,
		OwnerID:    info.OwnerID,
		HandoverID: info.HandoverID,
		Status:     string(info.Status),
		Version:    info.Version,
		Dirty:      info.Dirty,
		Loading:    info.Loading,
		Error:      info.Error,
		LastSaved:  info.LastSaved,
		HasDraft:   info.LastSaved != nil,
	}
}

// HandoverSummary is the list view of a stored handover.
type HandoverSummary struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	Status        string    `json:"status"`
	Version       int64     `json:"version"`
	RentalType    string    `json:"rentalType"`
	Address       string    `json:"address,omitempty"`
	ScheduledDate string    `json:"scheduledDate,omitempty"`
	ScheduledTime string    `json:"scheduledTime,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func FromHandover(h domain.Handover) HandoverSummary {
	address := h.Property.SelectedAddress
	if address == "" && h.Property.CustomAddress != nil {
		address = h.Property.CustomAddress.Street
	}
	return HandoverSummary{
		ID:            h.Meta.ID,
		OwnerID:       h.Meta.UserID,
		Status:        string(h.Meta.Status),
		Version:       h.Meta.Version,
		RentalType:    string(h.General.RentalType),
		Address:       address,
		ScheduledDate: h.Scheduling.ScheduledDate,
		ScheduledTime: h.Scheduling.ScheduledTime,
		UpdatedAt:     h.Meta.UpdatedAt,
	}
}

func FromHandoverList(list []domain.Handover) []HandoverSummary {
	out := make([]HandoverSummary, 0, len(list))
	for _, h := range list {
		out = append(out, FromHandover(h))
	}
	return out
}

// Step is the transport shape of one step read.
type Step struct {
	Step    string `json:"step"`
	Kind    string `json:"kind"`
	Data    any    `json:"data"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Dirty   bool   `json:"dirty"`
}

// OpenSessionRequest starts a fresh wizard, or resumes HandoverID when set.
type OpenSessionRequest struct {
	OwnerID    string `json:"ownerId"`
	HandoverID string `json:"handoverId,omitempty"`
}

type LoadRequest struct {
	HandoverID string `json:"handoverId" binding:"required"`
}
