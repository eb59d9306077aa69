package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
)

const tracerName = "github.com/novamind-digital/immo/internal/domains/handover/adapters/observability/service"

// Service decorates the handover service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core handover service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) OpenSession(ctx context.Context, ownerID string) (*ports.SessionInfo, error) {
	ctx, span := s.tracer.Start(ctx, "HandoverService.OpenSession", trace.WithAttributes(attribute.String("owner.id", ownerID)))
	defer span.End()

	info, err := s.inner.OpenSession(ctx, ownerID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to open session", slog.String("owner.id", ownerID))
	}
	s.metrics.recordSession(ctx, "opened")
	s.logInfo(ctx, "session opened", slog.String("session.id", info.ID), slog.String("owner.id", ownerID))
	return info, nil
}

func (s *Service) ResumeSession(ctx context.Context, ownerID, handoverID string) (*ports.SessionInfo, error) {
	ctx, span := s.tracer.Start(ctx, "HandoverService.ResumeSession",
		trace.WithAttributes(attribute.String("owner.id", ownerID), attribute.String("handover.id", handoverID)))
	defer span.End()

	info, err := s.inner.ResumeSession(ctx, ownerID, handoverID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to resume session", slog.String("handover.id", handoverID))
	}
	s.metrics.recordSession(ctx, "resumed")
	s.logInfo(ctx, "session resumed", slog.String("session.id", info.ID), slog.String("handover.id", handoverID))
	return info, nil
}

func (s *Service) DescribeSession(ctx context.Context, sessionID string) (*ports.SessionInfo, error) {
	ctx, span := s.tracer.Start(ctx, "HandoverService.DescribeSession", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	info, err := s.inner.DescribeSession(ctx, sessionID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to describe session", slog.String("session.id", sessionID))
	}
	span.SetAttributes(attribute.Bool("session.dirty", info.Dirty))
	return info, nil
}

func (s *Service) SaveSession(ctx context.Context, sessionID string) (*ports.SessionInfo, error) {
	ctx, span := s.tracer.Start(ctx, "HandoverService.SaveSession", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	s.logInfo(ctx, "saving handover", slog.String("session.id", sessionID))
	info, err := s.inner.SaveSession(ctx, sessionID)
	if err != nil {
		s.metrics.recordSave(ctx, "failed")
		return nil, s.handleError(ctx, span, err, "failed to save handover", slog.String("session.id", sessionID))
	}
	s.metrics.recordSave(ctx, "ok")
	span.SetAttributes(attribute.String("handover.id", info.HandoverID), attribute.Int64("handover.version", info.Version))
	s.logInfo(ctx, "handover saved", slog.String("handover.id", info.HandoverID), slog.Int64("handover.version", info.Version))
	return info, nil
}

func (s *Service) LoadIntoSession(ctx context.Context, sessionID, handoverID string) (*ports.SessionInfo, error) {
	ctx, span := s.tracer.Start(ctx, "HandoverService.LoadIntoSession",
		trace.WithAttributes(attribute.String("session.id", sessionID), attribute.String("handover.id", handoverID)))
	defer span.End()

	info, err := s.inner.LoadIntoSession(ctx, sessionID, handoverID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load handover", slog.String("handover.id", handoverID))
	}
	s.logInfo(ctx, "handover loaded", slog.String("handover.id", handoverID), slog.Int64("handover.version", info.Version))
	return info, nil
}

func (s *Service) ResetSession(ctx context.Context, sessionID string) (*ports.SessionInfo, error) {
	ctx, span := s.tracer.Start(ctx, "HandoverService.ResetSession", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	info, err := s.inner.ResetSession(ctx, sessionID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to reset session", slog.String("session.id", sessionID))
	}
	s.logInfo(ctx, "session reset", slog.String("session.id", sessionID))
	return info, nil
}

func (s *Service) CloseSession(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "HandoverService.CloseSession", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	if err := s.inner.CloseSession(ctx, sessionID); err != nil {
		return s.handleError(ctx, span, err, "failed to close session", slog.String("session.id", sessionID))
	}
	s.metrics.recordSession(ctx, "closed")
	return nil
}

func (s *Service) ListHandovers(ctx context.Context, filter ports.ListFilter) ([]domain.Handover, error) {
	ctx, span := s.tracer.Start(ctx, "HandoverService.ListHandovers", trace.WithAttributes(attribute.String("owner.id", filter.OwnerID)))
	defer span.End()

	result, err := s.inner.ListHandovers(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list handovers", slog.String("owner.id", filter.OwnerID))
	}
	span.SetAttributes(attribute.Int("handover.count", len(result)))
	return result, nil
}

func (s *Service) CompleteHandover(ctx context.Context, id string) (domain.Handover, error) {
	return s.transition(ctx, "HandoverService.CompleteHandover", id, s.inner.CompleteHandover)
}

func (s *Service) ArchiveHandover(ctx context.Context, id string) (domain.Handover, error) {
	return s.transition(ctx, "HandoverService.ArchiveHandover", id, s.inner.ArchiveHandover)
}

func (s *Service) DeleteHandover(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "HandoverService.DeleteHandover", trace.WithAttributes(attribute.String("handover.id", id)))
	defer span.End()

	if err := s.inner.DeleteHandover(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete handover", slog.String("handover.id", id))
	}
	s.metrics.recordTransition(ctx, "deleted")
	s.logInfo(ctx, "handover deleted", slog.String("handover.id", id))
	return nil
}

func (s *Service) transition(ctx context.Context, name, id string, fn func(context.Context, string) (domain.Handover, error)) (domain.Handover, error) {
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("handover.id", id)))
	defer span.End()

	result, err := fn(ctx, id)
	if err != nil {
		return domain.Handover{}, s.handleError(ctx, span, err, "failed to change handover status", slog.String("handover.id", id))
	}
	s.metrics.recordTransition(ctx, string(result.Meta.Status))
	s.logInfo(ctx, "handover status changed", slog.String("handover.id", id), slog.String("status", string(result.Meta.Status)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	sessions    metric.Int64Counter
	saves       metric.Int64Counter
	transitions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	sessions, _ := m.Int64Counter("handover.service.sessions", metric.WithDescription("Wizard session lifecycle events"))
	saves, _ := m.Int64Counter("handover.service.saves", metric.WithDescription("Remote saves by outcome"))
	transitions, _ := m.Int64Counter("handover.service.transitions", metric.WithDescription("Handover status changes"))
	return serviceMetrics{sessions: sessions, saves: saves, transitions: transitions}
}

func (m serviceMetrics) recordSession(ctx context.Context, event string) {
	if m.sessions != nil {
		m.sessions.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))
	}
}

func (m serviceMetrics) recordSave(ctx context.Context, outcome string) {
	if m.saves != nil {
		m.saves.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status string) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("handover.status", status)))
	}
}

var _ ports.Service = (*Service)(nil)
