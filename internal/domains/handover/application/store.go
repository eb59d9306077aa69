package application

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
)

// State is the store content handed to readers. Data is a private copy.
type State struct {
	Data    domain.Handover
	Loading bool
	Err     string
	Dirty   bool
	// Revision counts section changes; Generation counts loads and resets.
	Revision   uint64
	Generation uint64
}

// Change tells subscribers which sections an intent modified.
type Change struct {
	Intent Intent
	Steps  []domain.StepKey
}

// Touches reports whether the change modified step.
func (c Change) Touches(step domain.StepKey) bool {
	for _, s := range c.Steps {
		if s == step {
			return true
		}
	}
	return false
}

// Store owns the single in-memory aggregate of a wizard session.
type Store struct {
	mu          sync.Mutex
	state       State
	defaults    func() domain.Handover
	subscribers map[int]func(Change)
	nextSubID   int
}

// NewStore creates a store seeded with defaults(); Reset uses the same factory.
func NewStore(defaults func() domain.Handover) *Store {
	return &Store{
		state:       State{Data: defaults()},
		defaults:    defaults,
		subscribers: make(map[int]func(Change)),
	}
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.Data = s.state.Data.Clone()
	return out
}

// Subscribe registers fn for every change and returns a function that removes it.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Dispatch applies intent against the latest state. Patches against a
// non-draft aggregate fail with domain.ErrNotDraft; unsupported intents panic.
func (s *Store) Dispatch(intent Intent) error {
	return s.DispatchFunc(func(domain.Handover) Intent { return intent })
}

// DispatchFunc builds the intent from the current aggregate and applies it in
// the same critical section, so read-modify-write callers never work on a
// stale copy. build must not retain or mutate its argument.
func (s *Store) DispatchFunc(build func(current domain.Handover) Intent) error {
	change, subs, err := s.apply(build)
	if err != nil {
		return err
	}
	for _, fn := range subs {
		fn(change)
	}
	return nil
}

func (s *Store) apply(build func(domain.Handover) Intent) (Change, []func(Change), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, change, err := reduce(s.state, build(s.state.Data), s.defaults)
	if err != nil {
		return change, nil, err
	}
	s.state = next
	subs := make([]func(Change), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return change, subs, nil
}

func reduce(state State, intent Intent, defaults func() domain.Handover) (State, Change, error) {
	change := Change{Intent: intent}
	switch in := intent.(type) {
	case Load:
		data := in.Handover.Clone()
		data.Normalize()
		state.Data = data
		state.Dirty = false
		state.Err = ""
		state.Generation++
		change.Steps = domain.Steps
	case Reset:
		state = State{Data: defaults(), Revision: state.Revision, Generation: state.Generation + 1}
		change.Steps = domain.Steps
	case SetLoading:
		state.Loading = in.Loading
	case SetError:
		state.Err = in.Message
	case Persisted:
		if in.Generation != state.Generation {
			return state, change, nil
		}
		state.Data.Meta.ID = in.Meta.ID
		state.Data.Meta.Version = in.Meta.Version
		state.Data.Meta.CreatedAt = in.Meta.CreatedAt
		state.Data.Meta.UpdatedAt = in.Meta.UpdatedAt
		state.Data.Meta.Status = in.Meta.Status
		if in.Revision == state.Revision {
			state.Dirty = false
		}
	case PatchSection:
		if !state.Data.Mutable() {
			return state, change, domain.ErrNotDraft
		}
		changed := applyPatch(&state.Data, in.Patch)
		if changed {
			state.Dirty = true
			state.Revision++
			change.Steps = []domain.StepKey{in.Patch.Step()}
		}
	case ReplaceListSection:
		if !state.Data.Mutable() {
			return state, change, domain.ErrNotDraft
		}
		changed := replaceList(&state.Data, in.Items)
		if changed {
			state.Dirty = true
			state.Revision++
			change.Steps = []domain.StepKey{in.Items.Step()}
		}
	default:
		panic(fmt.Sprintf("handover: unsupported intent %T", intent))
	}
	return state, change, nil
}

func applyPatch(data *domain.Handover, patch domain.SectionPatch) bool {
	switch p := patch.(type) {
	case domain.GeneralPatch:
		return assign(&data.General, p.ApplyTo(data.General))
	case domain.PropertyPatch:
		return assign(&data.Property, p.ApplyTo(data.Property))
	case domain.ConditionPatch:
		return assign(&data.Condition, p.ApplyTo(data.Condition))
	case domain.SchedulingPatch:
		return assign(&data.Scheduling, p.ApplyTo(data.Scheduling))
	case domain.SignaturesPatch:
		return assign(&data.Signatures, p.ApplyTo(data.Signatures))
	default:
		panic(fmt.Sprintf("handover: unsupported section patch %T", patch))
	}
}

func replaceList(data *domain.Handover, items domain.ListSection) bool {
	switch l := items.(type) {
	case domain.Meters:
		if l == nil {
			l = domain.Meters{}
		}
		return assign(&data.Meters, l)
	case domain.Keys:
		if l == nil {
			l = domain.Keys{}
		}
		return assign(&data.Keys, l)
	case domain.Photos:
		if l == nil {
			l = domain.Photos{}
		}
		return assign(&data.Photos, l)
	case domain.Agreements:
		if l == nil {
			l = domain.Agreements{}
		}
		return assign(&data.Agreements, l)
	default:
		panic(fmt.Sprintf("handover: unsupported list section %T", items))
	}
}

// assign stores next in dst and reports whether the value changed. An
// unchanged section keeps its previous value untouched.
func assign[T any](dst *T, next T) bool {
	if reflect.DeepEqual(*dst, next) {
		return false
	}
	*dst = next
	return true
}
