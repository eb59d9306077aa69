package handovers

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	handovertypes "github.com/novamind-digital/immo/internal/domains/handover/application/types"
	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	handoverports "github.com/novamind-digital/immo/internal/domains/handover/ports"
)

const (
	// PersistHandoverActivityName applies one write to the handover repository.
	PersistHandoverActivityName = "handovers.activities.Persist"

	// Application error types that must not be retried.
	ErrTypeNotFound        = "HandoverNotFound"
	ErrTypeVersionConflict = "HandoverVersionConflict"
	ErrTypeNotDraft        = "HandoverNotDraft"
	ErrTypeInvalidInput    = "HandoverInvalidInput"
)

// NonRetryableErrorTypes lists the error types retry policies should give up on.
var NonRetryableErrorTypes = []string{ErrTypeNotFound, ErrTypeVersionConflict, ErrTypeNotDraft, ErrTypeInvalidInput}

// Activities groups activities that operate on the handover bounded context.
type Activities struct {
	repo handoverports.Repository
}

// NewActivities wires the handover repository into the Temporal activities bundle.
func NewActivities(repo handoverports.Repository) *Activities {
	return &Activities{repo: repo}
}

// Persist executes cmd against the repository and returns the stored aggregate.
func (a *Activities) Persist(ctx context.Context, cmd handovertypes.PersistCommand) (domain.Handover, error) {
	logger := activity.GetLogger(ctx)
	subject := cmd.Subject()
	if a == nil || a.repo == nil {
		logger.Error("handover persist activity not initialized", "handoverId", subject)
		return domain.Handover{}, errors.New("handover persist activity not initialized")
	}
	logger.Info("Persist activity started", "handoverId", subject, "op", cmd.Op)

	var (
		stored domain.Handover
		err    error
	)
	switch cmd.Op {
	case handovertypes.PersistCreate:
		stored, err = a.repo.Create(ctx, cmd.Handover)
	case handovertypes.PersistUpdate:
		stored, err = a.repo.Update(ctx, cmd.Handover)
	case handovertypes.PersistSetStatus:
		stored, err = a.repo.SetStatus(ctx, cmd.HandoverID, cmd.Status)
	default:
		err = fmt.Errorf("%w: unknown op %q", domain.ErrInvalidStatus, cmd.Op)
	}
	if err != nil {
		logger.Error("Persist activity failed", "handoverId", subject, "op", cmd.Op, "error", err)
		return domain.Handover{}, classify(err)
	}
	logger.Info("Persist activity completed", "handoverId", stored.Meta.ID, "version", stored.Meta.Version)
	return stored, nil
}

// classify turns domain failures into non-retryable application errors so they
// reach the caller unchanged instead of burning retries.
func classify(err error) error {
	switch {
	case errors.Is(err, handoverports.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotFound, err)
	case errors.Is(err, handoverports.ErrVersionConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeVersionConflict, err)
	case errors.Is(err, domain.ErrNotDraft):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotDraft, err)
	case errors.Is(err, domain.ErrInvalidStatus):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	default:
		return err
	}
}
