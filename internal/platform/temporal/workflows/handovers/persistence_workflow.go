package handovers

import (
	"go.temporal.io/sdk/workflow"

	handovertypes "github.com/novamind-digital/immo/internal/domains/handover/application/types"
	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	"github.com/novamind-digital/immo/internal/platform/temporal/sequences"
)

const (
	// PersistenceWorkflowName is the public identifier for registering the workflow.
	PersistenceWorkflowName = "handovers.workflows.Persistence"
	// PersistenceTaskQueue is the queue consumed by the worker processing handover writes.
	PersistenceTaskQueue = "HANDOVER_PERSISTENCE"
)

// PersistenceWorkflowInput captures one remote write plus the caller's trace id.
type PersistenceWorkflowInput struct {
	Command handovertypes.PersistCommand
	TraceID string
}

// PersistenceWorkflow orchestrates the activities needed to persist a handover aggregate.
func PersistenceWorkflow(ctx workflow.Context, input PersistenceWorkflowInput) (domain.Handover, error) {
	logger := workflow.GetLogger(ctx)
	subject := input.Command.Subject()
	logger.Info("PersistenceWorkflow started", withTraceID(input.TraceID, "handoverId", subject, "op", input.Command.Op)...)
	stored, err := sequences.RunHandoverPersistenceSequence(ctx, input.Command)
	if err != nil {
		logger.Error("PersistenceWorkflow failed", withTraceID(input.TraceID, "handoverId", subject, "error", err)...)
		return domain.Handover{}, err
	}
	logger.Info("PersistenceWorkflow completed", withTraceID(input.TraceID, "handoverId", stored.Meta.ID)...)
	return stored, nil
}

func withTraceID(traceID string, keyvals ...any) []any {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
