package application

import "github.com/novamind-digital/immo/internal/domains/handover/domain"

// Intent is one of the messages the Store reducer understands. The set is closed.
type Intent interface {
	intent()
}

// Load replaces the aggregate wholesale and clears the dirty flag.
type Load struct {
	Handover domain.Handover
}

// PatchSection shallow-merges a partial record into its section.
type PatchSection struct {
	Patch domain.SectionPatch
}

// ReplaceListSection swaps the full content of one list section.
type ReplaceListSection struct {
	Items domain.ListSection
}

// SetLoading toggles the loading flag.
type SetLoading struct {
	Loading bool
}

// SetError records a user-facing error message. An empty message clears it.
type SetError struct {
	Message string
}

// Reset restores the default aggregate and clears every flag.
type Reset struct{}

// Persisted records the outcome of a successful remote save. Dirty is cleared
// only when no edit happened after Revision was captured.
type Persisted struct {
	Meta       domain.Meta
	Revision   uint64
	Generation uint64
}

func (Load) intent()               {}
func (PatchSection) intent()       {}
func (ReplaceListSection) intent() {}
func (SetLoading) intent()         {}
func (SetError) intent()           {}
func (Reset) intent()              {}
func (Persisted) intent()          {}
