package application

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/facebookgo/clock"

	handover "github.com/novamind-digital/immo/internal/domains/handover/domain"
	handoverports "github.com/novamind-digital/immo/internal/domains/handover/ports"
	"github.com/novamind-digital/immo/internal/domains/reminders/domain"
	"github.com/novamind-digital/immo/internal/domains/reminders/ports"
)

// DefaultInterval is the polling period of Run.
const DefaultInterval = time.Minute

// HandoverSource supplies the candidate handovers on every tick.
type HandoverSource interface {
	ListHandovers(ctx context.Context, filter handoverports.ListFilter) ([]handover.Handover, error)
}

// Option customises the Engine.
type Option func(*Engine)

func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLocation sets the zone for schedule dates that carry none.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.location = loc
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithSource makes Refresh and Run reload the candidates from source before evaluating.
func WithSource(source HandoverSource) Option {
	return func(e *Engine) {
		e.source = source
	}
}

func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// Engine computes the reminders that should currently be shown and remembers
// dismissals.
type Engine struct {
	dismissed ports.DismissedSet
	source    HandoverSource
	clock     clock.Clock
	logger    *slog.Logger
	location  *time.Location
	interval  time.Duration
	metrics   *Metrics

	mu        sync.RWMutex
	handovers []handover.Handover
	reminders []domain.Reminder
	// local mirrors dismissals so they hold even when the durable write failed.
	local map[string]struct{}
}

func NewEngine(dismissed ports.DismissedSet, opts ...Option) *Engine {
	e := &Engine{
		dismissed: dismissed,
		clock:     clock.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		location:  time.UTC,
		interval:  DefaultInterval,
		local:     map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetHandovers replaces the candidate collection and re-evaluates.
func (e *Engine) SetHandovers(ctx context.Context, handovers []handover.Handover) []domain.Reminder {
	e.mu.Lock()
	e.handovers = slices.Clone(handovers)
	e.mu.Unlock()
	return e.Evaluate(ctx)
}

// Evaluate recomputes the reminder list from scratch.
func (e *Engine) Evaluate(ctx context.Context) []domain.Reminder {
	start := time.Now()
	dismissed := e.dismissedIDs(ctx)

	e.mu.Lock()
	for id := range e.local {
		dismissed[id] = struct{}{}
	}
	reminders := domain.Evaluate(e.handovers, func(id string) bool {
		_, ok := dismissed[id]
		return ok
	}, e.clock.Now(), e.location)
	e.reminders = reminders
	e.mu.Unlock()

	e.metrics.observeEvaluation(start, reminders)
	return slices.Clone(reminders)
}

// Refresh reloads every handover from the source, whatever its status, and
// re-evaluates. A failed reload keeps the previous candidates.
func (e *Engine) Refresh(ctx context.Context) []domain.Reminder {
	if e.source != nil {
		handovers, err := e.source.ListHandovers(ctx, handoverports.ListFilter{})
		if err != nil {
			e.logger.WarnContext(ctx, "reminder source refresh failed", slog.Any("error", err))
		} else {
			e.mu.Lock()
			e.handovers = handovers
			e.mu.Unlock()
		}
	}
	return e.Evaluate(ctx)
}

// Reminders returns the latest output, narrowed to ownerID when it is set.
func (e *Engine) Reminders(ownerID string) []domain.Reminder {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]domain.Reminder, 0, len(e.reminders))
	for _, r := range e.reminders {
		if ownerID == "" || r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out
}

// HasActive reports whether any reminder is currently shown for ownerID.
func (e *Engine) HasActive(ownerID string) bool {
	return len(e.Reminders(ownerID)) > 0
}

// Dismiss silences reminderID for good. The durable write is best-effort; the
// reminder leaves the current output either way.
func (e *Engine) Dismiss(ctx context.Context, reminderID string) {
	failed := false
	if e.dismissed != nil {
		if err := e.dismissed.Add(ctx, reminderID); err != nil {
			failed = true
			e.logger.WarnContext(ctx, "dismissed reminder not persisted",
				slog.String("reminder_id", reminderID), slog.Any("error", err))
		}
	}
	e.mu.Lock()
	e.local[reminderID] = struct{}{}
	e.reminders = slices.DeleteFunc(e.reminders, func(r domain.Reminder) bool { return r.ID == reminderID })
	e.mu.Unlock()
	e.metrics.incrementDismissed(failed)
}

// Run evaluates immediately and then on every interval until ctx ends. The
// ticker is released on return.
func (e *Engine) Run(ctx context.Context) error {
	e.tick(ctx)
	ticker := e.clock.Ticker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

func (e *Engine) tick(ctx context.Context) {
	reminders := e.Refresh(ctx)
	e.logger.DebugContext(ctx, "reminders evaluated", slog.Int("active", len(reminders)))
}

func (e *Engine) dismissedIDs(ctx context.Context) map[string]struct{} {
	out := map[string]struct{}{}
	if e.dismissed == nil {
		return out
	}
	ids, err := e.dismissed.Members(ctx)
	if err != nil {
		e.logger.WarnContext(ctx, "dismissed reminders unavailable", slog.Any("error", err))
		return out
	}
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
