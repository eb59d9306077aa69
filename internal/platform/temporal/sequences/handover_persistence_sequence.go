package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	handovertypes "github.com/novamind-digital/immo/internal/domains/handover/application/types"
	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	handoveractivities "github.com/novamind-digital/immo/internal/platform/temporal/activities/handovers"
)

// RunHandoverPersistenceSequence executes the activity that applies one write to the handover repository.
func RunHandoverPersistenceSequence(ctx workflow.Context, cmd handovertypes.PersistCommand) (domain.Handover, error) {
	logger := workflow.GetLogger(ctx)
	subject := cmd.Subject()
	logger.Info("handover persistence sequence started", "handoverId", subject, "op", cmd.Op)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        10 * time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: handoveractivities.NonRetryableErrorTypes,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var stored domain.Handover
	err := workflow.ExecuteActivity(ctx, handoveractivities.PersistHandoverActivityName, cmd).Get(ctx, &stored)
	if err != nil {
		logger.Error("handover persistence sequence failed", "handoverId", subject, "error", err)
		return domain.Handover{}, err
	}
	logger.Info("handover persistence sequence completed", "handoverId", stored.Meta.ID, "version", stored.Meta.Version)
	return stored, nil
}
