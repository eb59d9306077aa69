package types

import "github.com/novamind-digital/immo/internal/domains/handover/domain"

// PersistOp names a remote write carried through the durable persistence workflow.
type PersistOp string

const (
	PersistCreate    PersistOp = "create"
	PersistUpdate    PersistOp = "update"
	PersistSetStatus PersistOp = "set_status"
)

// PersistCommand is the serialisable payload of one durable write.
type PersistCommand struct {
	Op         PersistOp       `json:"op"`
	Handover   domain.Handover `json:"handover"`
	HandoverID string          `json:"handoverId,omitempty"`
	Status     domain.Status   `json:"status,omitempty"`
}

// Subject returns the identifier used in logs and workflow ids.
func (c PersistCommand) Subject() string {
	if c.HandoverID != "" {
		return c.HandoverID
	}
	return c.Handover.Meta.ID
}
