package domain

import (
	"fmt"
	"time"
)

// Status represents the lifecycle state of a handover protocol.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusDraft, StatusCompleted, StatusArchived:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
}

// Meta carries bookkeeping for the aggregate. ID is empty until the first remote persist.
type Meta struct {
	ID        string    `json:"id,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Status    Status    `json:"status"`
	Version   int64     `json:"version"`
	UserID    string    `json:"userId,omitempty"`
}

// Handover is the aggregate documenting one unit handover.
type Handover struct {
	Meta       Meta       `json:"meta"`
	General    General    `json:"general"`
	Property   Property   `json:"property"`
	Condition  Condition  `json:"condition"`
	Scheduling Scheduling `json:"scheduling"`
	Meters     Meters     `json:"meters"`
	Keys       Keys       `json:"keys"`
	Photos     Photos     `json:"photos"`
	Agreements Agreements `json:"agreements"`
	Signatures Signatures `json:"signatures"`
}

// NewHandover builds the default aggregate for a new protocol. Every section is
// present; list sections start empty.
func NewHandover(now time.Time, userID string) Handover {
	return Handover{
		Meta: Meta{
			CreatedAt: now,
			UpdatedAt: now,
			Status:    StatusDraft,
			UserID:    userID,
		},
		General: General{
			RentalType: RentalStart,
			Manager:    Manager{Type: "verwalter"},
			Tenants: []Tenant{{
				ID:      now.UnixMilli(),
				Type:    "person",
				Title:   "herr",
				Present: "ja",
			}},
		},
		Property: Property{
			SelectedFloors: []string{},
		},
		Condition: Condition{
			OverallCondition:      "erstbezug",
			CleanlinessConditions: []string{},
			Defects:               []Defect{},
		},
		Meters:     Meters{},
		Keys:       Keys{},
		Photos:     Photos{},
		Agreements: Agreements{},
		Signatures: Signatures{
			Date:    now.Format("02.01.2006"),
			Tenants: []TenantSignature{},
		},
	}
}

// Mutable reports whether wizard steps may still change the aggregate.
func (h *Handover) Mutable() bool {
	return h.Meta.Status == "" || h.Meta.Status == StatusDraft
}

// Normalize fills sections a stored document may have omitted so that no
// always-present section is nil after a load.
func (h *Handover) Normalize() {
	if h.Meta.Status == "" {
		h.Meta.Status = StatusDraft
	}
	if h.General.Tenants == nil {
		h.General.Tenants = []Tenant{}
	}
	if h.Property.SelectedFloors == nil {
		h.Property.SelectedFloors = []string{}
	}
	if h.Condition.CleanlinessConditions == nil {
		h.Condition.CleanlinessConditions = []string{}
	}
	if h.Condition.Defects == nil {
		h.Condition.Defects = []Defect{}
	}
	if h.Meters == nil {
		h.Meters = Meters{}
	}
	if h.Keys == nil {
		h.Keys = Keys{}
	}
	if h.Photos == nil {
		h.Photos = Photos{}
	}
	if h.Agreements == nil {
		h.Agreements = Agreements{}
	}
	if h.Signatures.Tenants == nil {
		h.Signatures.Tenants = []TenantSignature{}
	}
}

// Section returns the value stored for step. It panics on unknown steps.
func (h *Handover) Section(step StepKey) any {
	switch step {
	case StepGeneral:
		return h.General
	case StepProperty:
		return h.Property
	case StepCondition:
		return h.Condition
	case StepScheduling:
		return h.Scheduling
	case StepSignatures:
		return h.Signatures
	case StepMeters:
		return h.Meters
	case StepKeys:
		return h.Keys
	case StepPhotos:
		return h.Photos
	case StepAgreements:
		return h.Agreements
	default:
		panic(fmt.Sprintf("handover: unknown step %q", step))
	}
}

// Clone returns a deep copy so callers can never alias the store's state.
func (h Handover) Clone() Handover {
	out := h
	out.General = h.General.clone()
	out.Property = h.Property.clone()
	out.Condition = h.Condition.clone()
	out.Scheduling.ParticipantNames = cloneStrings(h.Scheduling.ParticipantNames)
	out.Meters = h.Meters.clone()
	out.Keys = cloneSlice(h.Keys)
	out.Photos = h.Photos.clone()
	out.Agreements = cloneSlice(h.Agreements)
	out.Signatures = h.Signatures.clone()
	return out
}

func (g General) clone() General {
	out := g
	if g.Manager.CustomData != nil {
		data := *g.Manager.CustomData
		out.Manager.CustomData = &data
	}
	if g.Tenants != nil {
		out.Tenants = make([]Tenant, len(g.Tenants))
		for i, t := range g.Tenants {
			if t.Address != nil {
				addr := *t.Address
				t.Address = &addr
			}
			if t.BankDetails != nil {
				bank := *t.BankDetails
				t.BankDetails = &bank
			}
			out.Tenants[i] = t
		}
	}
	return out
}

func (p Property) clone() Property {
	out := p
	if p.CustomAddress != nil {
		addr := *p.CustomAddress
		out.CustomAddress = &addr
	}
	if p.Designations != nil {
		d := *p.Designations
		out.Designations = &d
	}
	out.SelectedFloors = cloneStrings(p.SelectedFloors)
	return out
}

func (c Condition) clone() Condition {
	out := c
	out.CleanlinessConditions = cloneStrings(c.CleanlinessConditions)
	if c.Defects != nil {
		out.Defects = make([]Defect, len(c.Defects))
		for i, d := range c.Defects {
			d.Photos = cloneStrings(d.Photos)
			out.Defects[i] = d
		}
	}
	return out
}

func (s Signatures) clone() Signatures {
	out := s
	out.Landlord.SignedAt = cloneTime(s.Landlord.SignedAt)
	if s.Tenants != nil {
		out.Tenants = make([]TenantSignature, len(s.Tenants))
		for i, t := range s.Tenants {
			t.SignedAt = cloneTime(t.SignedAt)
			out.Tenants[i] = t
		}
	}
	return out
}

func (l Meters) clone() Meters {
	if l == nil {
		return nil
	}
	out := make(Meters, len(l))
	for i, m := range l {
		m.Photos = cloneStrings(m.Photos)
		out[i] = m
	}
	return out
}

func (l Photos) clone() Photos {
	if l == nil {
		return nil
	}
	out := make(Photos, len(l))
	for i, p := range l {
		p.UploadedAt = cloneTime(p.UploadedAt)
		out[i] = p
	}
	return out
}

func cloneStrings(in []string) []string {
	return cloneSlice(in)
}

func cloneSlice[S ~[]E, E any](in S) S {
	if in == nil {
		return nil
	}
	return append(make(S, 0, len(in)), in...)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
