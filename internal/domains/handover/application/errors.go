package application

import (
	"errors"
	"fmt"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput    = errors.New("invalid handover input")
	ErrSaveFailed      = errors.New("handover save failed")
	ErrLoadFailed      = errors.New("handover load failed")
	ErrSessionNotFound = errors.New("wizard session not found")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnknownStep) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

// userMessage turns a gateway failure into the text shown next to the form.
func userMessage(err error, op string) string {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return "Handover not found."
	case errors.Is(err, ports.ErrVersionConflict):
		return "The handover was changed elsewhere. Reload it before saving again."
	case errors.Is(err, domain.ErrNotDraft):
		return "The handover is no longer a draft and cannot be changed."
	case op == "load":
		return "Failed to load the handover. Please try again."
	default:
		return "Failed to save the handover. Please try again."
	}
}
