package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
	"github.com/novamind-digital/immo/internal/platform/debounce"
)

// Option customises the Service.
type Option func(*Service)

// WithClock injects the time source used for defaults, item ids and debouncing.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger used for best-effort cache failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSnapshotDebounce overrides the quiet period before a snapshot write.
func WithSnapshotDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithIDGenerator overrides how session ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Service orchestrates wizard sessions and handover lifecycle operations.
type Service struct {
	repo     ports.Repository
	cache    ports.SnapshotCache
	clock    clock.Clock
	logger   *slog.Logger
	debounce time.Duration
	newID    func() string

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService wires the handover use cases. A nil cache disables snapshots.
func NewService(repo ports.Repository, cache ports.SnapshotCache, opts ...Option) *Service {
	if cache == nil {
		cache = nopCache{}
	}
	s := &Service{
		repo:     repo,
		cache:    cache,
		clock:    clock.New(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		debounce: debounce.DefaultDelay,
		newID:    uuid.NewString,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns the live session with id.
func (s *Service) Session(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// OpenSession starts a wizard on the default aggregate.
func (s *Service) OpenSession(ctx context.Context, ownerID string) (*ports.SessionInfo, error) {
	sess := s.register(ownerID)
	return sess.info(ctx), nil
}

// ResumeSession starts a wizard on a stored handover.
func (s *Service) ResumeSession(ctx context.Context, ownerID, handoverID string) (*ports.SessionInfo, error) {
	sess := s.register(ownerID)
	if err := sess.Load(ctx, handoverID); err != nil {
		s.drop(sess.ID())
		sess.Close()
		return nil, err
	}
	return sess.info(ctx), nil
}

func (s *Service) DescribeSession(ctx context.Context, sessionID string) (*ports.SessionInfo, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.info(ctx), nil
}

func (s *Service) SaveSession(ctx context.Context, sessionID string) (*ports.SessionInfo, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := sess.Save(ctx); err != nil {
		return sess.info(ctx), err
	}
	return sess.info(ctx), nil
}

func (s *Service) LoadIntoSession(ctx context.Context, sessionID, handoverID string) (*ports.SessionInfo, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Load(ctx, handoverID); err != nil {
		return sess.info(ctx), err
	}
	return sess.info(ctx), nil
}

func (s *Service) ResetSession(ctx context.Context, sessionID string) (*ports.SessionInfo, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Reset(ctx)
	return sess.info(ctx), nil
}

func (s *Service) CloseSession(_ context.Context, sessionID string) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	s.drop(sessionID)
	sess.Close()
	return nil
}

func (s *Service) ListHandovers(ctx context.Context, filter ports.ListFilter) ([]domain.Handover, error) {
	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// CompleteHandover marks a handover completed. Clean sessions holding it pick
// up the new status.
func (s *Service) CompleteHandover(ctx context.Context, id string) (domain.Handover, error) {
	return s.transition(ctx, id, domain.StatusCompleted)
}

func (s *Service) ArchiveHandover(ctx context.Context, id string) (domain.Handover, error) {
	return s.transition(ctx, id, domain.StatusArchived)
}

func (s *Service) DeleteHandover(ctx context.Context, id string) error {
	return mapError(s.repo.Delete(ctx, id))
}

func (s *Service) transition(ctx context.Context, id string, status domain.Status) (domain.Handover, error) {
	stored, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return domain.Handover{}, mapError(err)
	}
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()
	for _, sess := range sessions {
		state := sess.store.State()
		if state.Data.Meta.ID == id && !state.Dirty {
			_ = sess.store.Dispatch(Load{Handover: stored})
		}
	}
	return stored, nil
}

func (s *Service) register(ownerID string) *Session {
	sess := newSession(s.newID(), ownerID, sessionDeps{
		repo:     s.repo,
		cache:    s.cache,
		clock:    s.clock,
		logger:   s.logger,
		debounce: s.debounce,
	})
	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()
	return sess
}

func (s *Service) drop(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

type nopCache struct{}

func (nopCache) ReadSnapshot(context.Context, ports.SnapshotKey) ([]byte, bool, error) {
	return nil, false, nil
}
func (nopCache) WriteSnapshot(context.Context, ports.SnapshotKey, []byte) error { return nil }
func (nopCache) ClearSnapshots(context.Context, string) error                   { return nil }
func (nopCache) LastSaved(context.Context, string) (time.Time, bool, error) {
	return time.Time{}, false, nil
}

var _ ports.Service = (*Service)(nil)
