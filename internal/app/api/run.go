package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"golang.org/x/sync/errgroup"

	handoverobs "github.com/novamind-digital/immo/internal/domains/handover/adapters/observability"
	handoverapp "github.com/novamind-digital/immo/internal/domains/handover/application"
	remindersapp "github.com/novamind-digital/immo/internal/domains/reminders/application"
	platformobservability "github.com/novamind-digital/immo/internal/platform/observability"
)

const serviceName = "immo-api"

// Run boots the handover HTTP API and the reminder engine with observability,
// repositories, and workflows wired. It returns when ctx ends or either fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	b := &backends{}
	defer b.close()
	b.connectPostgres(ctx, cfg, logger)
	repo := b.repository(cfg, logger)
	cache, dismissed := b.localStores(ctx, cfg, logger)

	coreService := handoverapp.NewService(repo, cache,
		handoverapp.WithLogger(logger),
		handoverapp.WithSnapshotDebounce(cfg.SnapshotDebounce),
	)
	handoverService := handoverobs.New(
		coreService,
		handoverobs.WithLogger(logger),
		handoverobs.WithTracer(instruments.Tracer("internal.handover.application")),
		handoverobs.WithMeter(instruments.Meter("internal.handover.application")),
	)
	engine := remindersapp.NewEngine(dismissed,
		remindersapp.WithLogger(logger),
		remindersapp.WithLocation(cfg.ReminderLocation),
		remindersapp.WithInterval(cfg.ReminderPoll),
		remindersapp.WithSource(handoverService),
		remindersapp.WithMetrics(remindersapp.NewMetrics(prometheus.DefaultRegisterer)),
	)

	router := NewRouter(RouterDeps{
		Handovers: handoverService,
		Sessions:  coreService,
		Reminders: engine,
		Health:    b.health,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("immo API listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return engine.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("immo API exited", slog.String("error", err.Error()))
		return err
	}
	logger.Info("immo API stopped")
	return nil
}

func connectTemporalClient(cfg Config, logger *slog.Logger) (client.Client, error) {
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
