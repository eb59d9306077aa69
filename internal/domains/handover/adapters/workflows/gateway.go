package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	handovertypes "github.com/novamind-digital/immo/internal/domains/handover/application/types"
	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
	handoveractivities "github.com/novamind-digital/immo/internal/platform/temporal/activities/handovers"
	handoverworkflows "github.com/novamind-digital/immo/internal/platform/temporal/workflows/handovers"
)

var _ ports.Repository = (*TemporalRepository)(nil)

// TemporalRepository is a persistence gateway whose writes run as durable
// Temporal workflows. Reads and deletes go straight to the wrapped repository.
type TemporalRepository struct {
	client    client.Client
	reads     ports.Repository
	taskQueue string
}

// NewTemporalRepository wires a Temporal client in front of reads, which must be
// the same store the worker's activities write to.
func NewTemporalRepository(c client.Client, reads ports.Repository) *TemporalRepository {
	return &TemporalRepository{client: c, reads: reads, taskQueue: handoverworkflows.PersistenceTaskQueue}
}

func (r *TemporalRepository) Create(ctx context.Context, handover domain.Handover) (domain.Handover, error) {
	return r.execute(ctx, handovertypes.PersistCommand{Op: handovertypes.PersistCreate, Handover: handover})
}

func (r *TemporalRepository) Update(ctx context.Context, handover domain.Handover) (domain.Handover, error) {
	return r.execute(ctx, handovertypes.PersistCommand{Op: handovertypes.PersistUpdate, Handover: handover})
}

func (r *TemporalRepository) SetStatus(ctx context.Context, id string, status domain.Status) (domain.Handover, error) {
	return r.execute(ctx, handovertypes.PersistCommand{Op: handovertypes.PersistSetStatus, HandoverID: id, Status: status})
}

func (r *TemporalRepository) Get(ctx context.Context, id string) (domain.Handover, error) {
	if r == nil || r.reads == nil {
		return domain.Handover{}, errors.New("temporal handover gateway not configured")
	}
	return r.reads.Get(ctx, id)
}

func (r *TemporalRepository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Handover, error) {
	if r == nil || r.reads == nil {
		return nil, errors.New("temporal handover gateway not configured")
	}
	return r.reads.List(ctx, filter)
}

func (r *TemporalRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.reads == nil {
		return errors.New("temporal handover gateway not configured")
	}
	return r.reads.Delete(ctx, id)
}

func (r *TemporalRepository) execute(ctx context.Context, cmd handovertypes.PersistCommand) (domain.Handover, error) {
	if r == nil || r.client == nil {
		return domain.Handover{}, errors.New("temporal handover gateway not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        buildWorkflowID(cmd, traceComponent),
		TaskQueue: r.taskQueue,
	}
	run, err := r.client.ExecuteWorkflow(ctx, options, handoverworkflows.PersistenceWorkflow,
		handoverworkflows.PersistenceWorkflowInput{Command: cmd, TraceID: traceComponent})
	if err != nil {
		return domain.Handover{}, err
	}
	var stored domain.Handover
	if err := run.Get(ctx, &stored); err != nil {
		return domain.Handover{}, mapWorkflowError(err)
	}
	return stored, nil
}

// mapWorkflowError restores the port sentinels from application error types.
func mapWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case handoveractivities.ErrTypeNotFound:
		return fmt.Errorf("%w: %s", ports.ErrNotFound, appErr.Message())
	case handoveractivities.ErrTypeVersionConflict:
		return fmt.Errorf("%w: %s", ports.ErrVersionConflict, appErr.Message())
	case handoveractivities.ErrTypeNotDraft:
		return fmt.Errorf("%w: %s", domain.ErrNotDraft, appErr.Message())
	case handoveractivities.ErrTypeInvalidInput:
		return fmt.Errorf("%w: %s", domain.ErrInvalidStatus, appErr.Message())
	default:
		return err
	}
}

func buildWorkflowID(cmd handovertypes.PersistCommand, traceComponent string) string {
	subject := cmd.Subject()
	if subject == "" {
		subject = "new"
	}
	return fmt.Sprintf("handover-%s-%s-%s", cmd.Op, subject, traceComponent)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return fmt.Sprintf("%s-%d", traceID, time.Now().UnixNano())
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
