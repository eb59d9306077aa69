package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/facebookgo/clock"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
)

const draftPrefix = "draft-"

// Session is one wizard run: a single store shared by every step accessor plus
// the two remote persistence call sites, Save and Load.
type Session struct {
	id       string
	ownerID  string
	store    *Store
	repo     ports.Repository
	cache    ports.SnapshotCache
	clock    clock.Clock
	logger   *slog.Logger
	debounce time.Duration

	// gateway serialises Save and Load so one session never creates twice.
	gateway sync.Mutex

	mu       sync.Mutex
	scope    string
	bindings map[domain.StepKey]*binding
	closed   bool
}

func newSession(id, ownerID string, deps sessionDeps) *Session {
	s := &Session{
		id:       id,
		ownerID:  ownerID,
		repo:     deps.repo,
		cache:    deps.cache,
		clock:    deps.clock,
		logger:   deps.logger.With(slog.String("session_id", id)),
		debounce: deps.debounce,
		bindings: make(map[domain.StepKey]*binding),
	}
	s.scope = s.draftScope()
	s.store = NewStore(func() domain.Handover {
		return domain.NewHandover(s.clock.Now(), ownerID)
	})
	return s
}

type sessionDeps struct {
	repo     ports.Repository
	cache    ports.SnapshotCache
	clock    clock.Clock
	logger   *slog.Logger
	debounce time.Duration
}

// scopeFor names the snapshots of a stored handover.
func scopeFor(ownerID, handoverID string) string {
	if ownerID == "" {
		ownerID = "anonymous"
	}
	return ownerID + "/" + handoverID
}

// draftScope names the snapshots of this session's unsaved aggregate. Other
// sessions of the same owner never read or clear it.
func (s *Session) draftScope() string {
	return scopeFor(s.ownerID, draftPrefix+s.id)
}

func (s *Session) ID() string      { return s.id }
func (s *Session) OwnerID() string { return s.ownerID }

// Store exposes the session store for read-only consumers.
func (s *Session) Store() *Store { return s.store }

// Scope returns the snapshot scope the session currently writes to.
func (s *Session) Scope() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

func (s *Session) snapshotKey(step domain.StepKey) ports.SnapshotKey {
	return ports.SnapshotKey{Scope: s.Scope(), Step: step}
}

// bind mounts step on first use. Later calls share the mounted binding, so the
// snapshot is read at most once per mount.
func (s *Session) bind(ctx context.Context, step domain.StepKey, restore func([]byte) (Intent, error)) *binding {
	s.mu.Lock()
	if b, ok := s.bindings[step]; ok {
		s.mu.Unlock()
		return b
	}
	s.mu.Unlock()

	b := mountStep(ctx, s, step, restore)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.bindings[step]; ok {
		b.close()
		return existing
	}
	if s.closed {
		b.close()
		return b
	}
	s.bindings[step] = b
	return b
}

func (s *Session) General(ctx context.Context) *RecordStep[domain.General, domain.GeneralPatch] {
	return newRecordStep[domain.General, domain.GeneralPatch](ctx, s, domain.StepGeneral,
		func(h *domain.Handover) domain.General { return h.General })
}

func (s *Session) Property(ctx context.Context) *RecordStep[domain.Property, domain.PropertyPatch] {
	return newRecordStep[domain.Property, domain.PropertyPatch](ctx, s, domain.StepProperty,
		func(h *domain.Handover) domain.Property { return h.Property })
}

func (s *Session) Condition(ctx context.Context) *RecordStep[domain.Condition, domain.ConditionPatch] {
	return newRecordStep[domain.Condition, domain.ConditionPatch](ctx, s, domain.StepCondition,
		func(h *domain.Handover) domain.Condition { return h.Condition })
}

func (s *Session) Scheduling(ctx context.Context) *RecordStep[domain.Scheduling, domain.SchedulingPatch] {
	return newRecordStep[domain.Scheduling, domain.SchedulingPatch](ctx, s, domain.StepScheduling,
		func(h *domain.Handover) domain.Scheduling { return h.Scheduling })
}

func (s *Session) Signatures(ctx context.Context) *RecordStep[domain.Signatures, domain.SignaturesPatch] {
	return newRecordStep[domain.Signatures, domain.SignaturesPatch](ctx, s, domain.StepSignatures,
		func(h *domain.Handover) domain.Signatures { return h.Signatures })
}

func (s *Session) Meters(ctx context.Context) *ListStep[domain.Meter, domain.Meters] {
	return newListStep[domain.Meter, domain.Meters](ctx, s, domain.StepMeters,
		func(h *domain.Handover) domain.Meters { return h.Meters })
}

func (s *Session) Keys(ctx context.Context) *ListStep[domain.Key, domain.Keys] {
	return newListStep[domain.Key, domain.Keys](ctx, s, domain.StepKeys,
		func(h *domain.Handover) domain.Keys { return h.Keys })
}

func (s *Session) Photos(ctx context.Context) *ListStep[domain.Photo, domain.Photos] {
	return newListStep[domain.Photo, domain.Photos](ctx, s, domain.StepPhotos,
		func(h *domain.Handover) domain.Photos { return h.Photos })
}

func (s *Session) Agreements(ctx context.Context) *ListStep[domain.Agreement, domain.Agreements] {
	return newListStep[domain.Agreement, domain.Agreements](ctx, s, domain.StepAgreements,
		func(h *domain.Handover) domain.Agreements { return h.Agreements })
}

// Save persists the aggregate: create when it has no id yet, update otherwise.
// On failure the message is recorded in the store and dirty stays set.
// Concurrent saves of one session run one after the other, so the second
// sees the id assigned by the first.
func (s *Session) Save(ctx context.Context) (string, error) {
	s.gateway.Lock()
	defer s.gateway.Unlock()

	state := s.store.State()
	_ = s.store.Dispatch(SetLoading{Loading: true})
	_ = s.store.Dispatch(SetError{})
	defer func() { _ = s.store.Dispatch(SetLoading{Loading: false}) }()

	var (
		stored domain.Handover
		err    error
	)
	if state.Data.Meta.ID == "" {
		stored, err = s.repo.Create(ctx, state.Data)
	} else {
		stored, err = s.repo.Update(ctx, state.Data)
	}
	if err != nil {
		_ = s.store.Dispatch(SetError{Message: userMessage(err, "save")})
		return "", fmt.Errorf("%w: %w", ErrSaveFailed, mapError(err))
	}
	_ = s.store.Dispatch(Persisted{Meta: stored.Meta, Revision: state.Revision, Generation: state.Generation})
	// A reset during the call replaced the aggregate; its snapshots stay put.
	if s.store.State().Generation == state.Generation {
		s.moveScope(ctx, stored.Meta.ID)
	}
	return stored.Meta.ID, nil
}

// Load replaces the aggregate with the stored handover id.
func (s *Session) Load(ctx context.Context, id string) error {
	s.gateway.Lock()
	defer s.gateway.Unlock()

	_ = s.store.Dispatch(SetLoading{Loading: true})
	_ = s.store.Dispatch(SetError{})
	defer func() { _ = s.store.Dispatch(SetLoading{Loading: false}) }()

	handover, err := s.repo.Get(ctx, id)
	if err != nil {
		_ = s.store.Dispatch(SetError{Message: userMessage(err, "load")})
		return fmt.Errorf("%w: %w", ErrLoadFailed, mapError(err))
	}
	_ = s.store.Dispatch(Load{Handover: handover})
	s.mu.Lock()
	s.scope = scopeFor(s.ownerID, handover.Meta.ID)
	s.mu.Unlock()
	return nil
}

// Reset discards the aggregate and the local snapshots of the session.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	prev := s.scope
	s.scope = s.draftScope()
	s.mu.Unlock()

	_ = s.store.Dispatch(Reset{})
	s.clearScope(ctx, prev)
}

// Close unmounts every step. Pending snapshot writes are dropped, not flushed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for step, b := range s.bindings {
		b.close()
		delete(s.bindings, step)
	}
}

// LastSaved reports when the session scope last received a snapshot.
func (s *Session) LastSaved(ctx context.Context) (time.Time, bool) {
	scope := s.Scope()
	at, ok, err := s.cache.LastSaved(ctx, scope)
	if err != nil {
		s.logger.WarnContext(ctx, "snapshot marker read failed", slog.String("scope", scope), slog.Any("error", err))
		return time.Time{}, false
	}
	return at, ok
}

func (s *Session) info(ctx context.Context) *ports.SessionInfo {
	state := s.store.State()
	info := &ports.SessionInfo{
		ID:         s.id,
		OwnerID:    s.ownerID,
		HandoverID: state.Data.Meta.ID,
		Dirty:      state.Dirty,
		Loading:    state.Loading,
		Error:      state.Err,
		Version:    state.Data.Meta.Version,
		Status:     state.Data.Meta.Status,
	}
	if at, ok := s.LastSaved(ctx); ok {
		info.LastSaved = &at
	}
	return info
}

// moveScope rebinds a fresh draft to the scope of its new id; the draft
// snapshots are persisted remotely now and can go.
func (s *Session) moveScope(ctx context.Context, id string) {
	next := scopeFor(s.ownerID, id)
	s.mu.Lock()
	prev := s.scope
	s.scope = next
	s.mu.Unlock()
	if prev != next {
		s.clearScope(ctx, prev)
	}
}

func (s *Session) clearScope(ctx context.Context, scope string) {
	if err := s.cache.ClearSnapshots(ctx, scope); err != nil {
		s.logger.WarnContext(ctx, "snapshot clear failed", slog.String("scope", scope), slog.Any("error", err))
	}
}
