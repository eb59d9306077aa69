package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/novamind-digital/immo/internal/app/api"
	handovermemory "github.com/novamind-digital/immo/internal/domains/handover/adapters/memory"
	handoverpostgres "github.com/novamind-digital/immo/internal/domains/handover/adapters/persistence/postgres"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
	"github.com/novamind-digital/immo/internal/platform/migrations"
	platformobservability "github.com/novamind-digital/immo/internal/platform/observability"
	platformpostgres "github.com/novamind-digital/immo/internal/platform/postgres"
	handoveractivities "github.com/novamind-digital/immo/internal/platform/temporal/activities/handovers"
	handoverworkflows "github.com/novamind-digital/immo/internal/platform/temporal/workflows/handovers"
)

func main() {
	ctx := context.Background()
	const serviceName = "immo-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := api.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repo, cleanupRepo := buildHandoverRepository(ctx, logger)
	defer cleanupRepo()
	activities := handoveractivities.NewActivities(repo)

	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")})
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, handoverworkflows.PersistenceTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(handoverworkflows.PersistenceWorkflow, workflow.RegisterOptions{Name: handoverworkflows.PersistenceWorkflowName})
	w.RegisterActivityWithOptions(activities.Persist, activity.RegisterOptions{Name: handoveractivities.PersistHandoverActivityName})

	logger.Info("worker listening", slog.String("taskQueue", handoverworkflows.PersistenceTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

// buildHandoverRepository must point at the same database as the API; the
// memory fallback only serves local experiments.
func buildHandoverRepository(ctx context.Context, logger *slog.Logger) (ports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	if db == nil {
		logger.Warn("worker running with in-memory handover repository")
		return handovermemory.NewRepository(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("worker failed to migrate postgres (falling back to memory)", slog.String("error", err.Error()))
		cleanup()
		return handovermemory.NewRepository(), func() {}
	}
	logger.Info("worker handover repository configured with postgres")
	return handoverpostgres.NewRepository(db), cleanup
}
