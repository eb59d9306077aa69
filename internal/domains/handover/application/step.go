package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	"github.com/novamind-digital/immo/internal/platform/debounce"
)

const snapshotWriteTimeout = 5 * time.Second

// StepView is a consistent read of one step together with the store flags.
type StepView[T any] struct {
	Step    domain.StepKey
	Data    T
	Loading bool
	Error   string
	Dirty   bool
}

// binding is the mounted state of one step inside a session: the snapshot was
// restored once and section changes feed a debounced cache write.
type binding struct {
	step        domain.StepKey
	session     *Session
	writer      *debounce.Debouncer
	unsubscribe func()
}

func mountStep(ctx context.Context, s *Session, step domain.StepKey, restore func(raw []byte) (Intent, error)) *binding {
	b := &binding{step: step, session: s}
	b.restore(ctx, restore)
	b.writer = debounce.New(s.clock, s.debounce, b.flush)
	b.unsubscribe = s.store.Subscribe(b.onChange)
	return b
}

func (b *binding) restore(ctx context.Context, decode func(raw []byte) (Intent, error)) {
	s := b.session
	key := s.snapshotKey(b.step)
	raw, ok, err := s.cache.ReadSnapshot(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "snapshot read failed", slog.String("key", key.String()), slog.Any("error", err))
		return
	}
	if !ok || len(raw) == 0 {
		return
	}
	intent, err := decode(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "snapshot decode failed", slog.String("key", key.String()), slog.Any("error", err))
		return
	}
	if err := s.store.Dispatch(intent); err != nil {
		if !errors.Is(err, domain.ErrNotDraft) {
			s.logger.WarnContext(ctx, "snapshot restore failed", slog.String("key", key.String()), slog.Any("error", err))
		}
		return
	}
	s.logger.DebugContext(ctx, "snapshot restored", slog.String("key", key.String()))
}

func (b *binding) onChange(change Change) {
	if !change.Touches(b.step) {
		return
	}
	if _, reset := change.Intent.(Reset); reset {
		b.writer.Cancel()
		return
	}
	b.writer.Trigger()
}

// flush writes the current section value, not the one that triggered the
// write. Clean data (freshly loaded or saved) is not a recoverable draft.
func (b *binding) flush() {
	s := b.session
	state := s.store.State()
	if !state.Dirty {
		return
	}
	raw, err := json.Marshal(state.Data.Section(b.step))
	key := s.snapshotKey(b.step)
	if err != nil {
		s.logger.Warn("snapshot encode failed", slog.String("key", key.String()), slog.Any("error", err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), snapshotWriteTimeout)
	defer cancel()
	if err := s.cache.WriteSnapshot(ctx, key, raw); err != nil {
		s.logger.Warn("snapshot write failed", slog.String("key", key.String()), slog.Any("error", err))
	}
}

func (b *binding) close() {
	b.unsubscribe()
	b.writer.Stop()
}

type recordPatch[T any] interface {
	domain.SectionPatch
	ApplyTo(T) T
}

// RecordStep is the typed handle of one single-record section.
type RecordStep[T any, P recordPatch[T]] struct {
	b       *binding
	section func(*domain.Handover) T
}

func newRecordStep[T any, P recordPatch[T]](ctx context.Context, s *Session, step domain.StepKey, section func(*domain.Handover) T) *RecordStep[T, P] {
	step.MustKind(domain.KindRecord)
	var zero P
	if zero.Step() != step {
		panic("handover: patch type " + string(zero.Step()) + " does not match step " + string(step))
	}
	b := s.bind(ctx, step, func(raw []byte) (Intent, error) {
		var patch P
		if err := json.Unmarshal(raw, &patch); err != nil {
			return nil, err
		}
		return PatchSection{Patch: patch}, nil
	})
	return &RecordStep[T, P]{b: b, section: section}
}

func (r *RecordStep[T, P]) Step() domain.StepKey { return r.b.step }

// Data returns the live section value.
func (r *RecordStep[T, P]) Data() T {
	state := r.b.session.store.State()
	return r.section(&state.Data)
}

// UpdateData shallow-merges patch into the section.
func (r *RecordStep[T, P]) UpdateData(patch P) error {
	return r.b.session.store.Dispatch(PatchSection{Patch: patch})
}

func (r *RecordStep[T, P]) IsLoading() bool { return r.b.session.store.State().Loading }
func (r *RecordStep[T, P]) Error() string   { return r.b.session.store.State().Err }
func (r *RecordStep[T, P]) IsDirty() bool   { return r.b.session.store.State().Dirty }

func (r *RecordStep[T, P]) View() StepView[T] {
	state := r.b.session.store.State()
	return StepView[T]{
		Step:    r.b.step,
		Data:    r.section(&state.Data),
		Loading: state.Loading,
		Error:   state.Err,
		Dirty:   state.Dirty,
	}
}
