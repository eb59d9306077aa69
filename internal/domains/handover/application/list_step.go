package application

import (
	"context"
	"encoding/json"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
)

type listOf[T any] interface {
	~[]T
	domain.ListSection
}

// ListStep is the typed handle of one list section. Every mutation is computed
// against the latest list and written back as a single ReplaceListSection.
type ListStep[T domain.Item[T], L listOf[T]] struct {
	b       *binding
	section func(*domain.Handover) L
}

func newListStep[T domain.Item[T], L listOf[T]](ctx context.Context, s *Session, step domain.StepKey, section func(*domain.Handover) L) *ListStep[T, L] {
	step.MustKind(domain.KindList)
	var zero L
	if zero.Step() != step {
		panic("handover: list type " + string(zero.Step()) + " does not match step " + string(step))
	}
	b := s.bind(ctx, step, func(raw []byte) (Intent, error) {
		var items L
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return ReplaceListSection{Items: items}, nil
	})
	return &ListStep[T, L]{b: b, section: section}
}

func (l *ListStep[T, L]) Step() domain.StepKey { return l.b.step }

// Data returns the live list.
func (l *ListStep[T, L]) Data() L {
	state := l.b.session.store.State()
	return l.section(&state.Data)
}

// AddItem appends item. An item without identifier gets the next free one.
func (l *ListStep[T, L]) AddItem(item T) error {
	now := l.b.session.clock.Now()
	return l.b.session.store.DispatchFunc(func(current domain.Handover) Intent {
		items := l.section(&current)
		if item.ItemID() == 0 {
			item = item.WithItemID(domain.NextItemID([]T(items), now))
		}
		next := make(L, 0, len(items)+1)
		next = append(next, items...)
		next = append(next, item)
		return ReplaceListSection{Items: next}
	})
}

// RemoveItem drops the element at index. An out-of-range index writes back the
// unchanged list.
func (l *ListStep[T, L]) RemoveItem(index int) error {
	return l.b.session.store.DispatchFunc(func(current domain.Handover) Intent {
		items := l.section(&current)
		if index < 0 || index >= len(items) {
			return ReplaceListSection{Items: items}
		}
		next := make(L, 0, len(items)-1)
		next = append(next, items[:index]...)
		next = append(next, items[index+1:]...)
		return ReplaceListSection{Items: next}
	})
}

// UpdateItem shallow-merges patch into the element at index. Other elements are
// copied unchanged.
func (l *ListStep[T, L]) UpdateItem(index int, patch domain.ItemPatch[T]) error {
	return l.b.session.store.DispatchFunc(func(current domain.Handover) Intent {
		items := l.section(&current)
		if index < 0 || index >= len(items) {
			return ReplaceListSection{Items: items}
		}
		next := make(L, len(items))
		copy(next, items)
		next[index] = patch.ApplyTo(items[index])
		return ReplaceListSection{Items: next}
	})
}

// ReplaceAll swaps the whole list.
func (l *ListStep[T, L]) ReplaceAll(items L) error {
	next := make(L, len(items))
	copy(next, items)
	return l.b.session.store.Dispatch(ReplaceListSection{Items: next})
}

func (l *ListStep[T, L]) IsLoading() bool { return l.b.session.store.State().Loading }
func (l *ListStep[T, L]) Error() string   { return l.b.session.store.State().Err }
func (l *ListStep[T, L]) IsDirty() bool   { return l.b.session.store.State().Dirty }

func (l *ListStep[T, L]) View() StepView[L] {
	state := l.b.session.store.State()
	return StepView[L]{
		Step:    l.b.step,
		Data:    l.section(&state.Data),
		Loading: state.Loading,
		Error:   state.Err,
		Dirty:   state.Dirty,
	}
}
