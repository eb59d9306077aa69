package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
)

var storeNow = time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)

func newTestStore() *Store {
	return NewStore(func() domain.Handover { return domain.NewHandover(storeNow, "owner-1") })
}

type unknownIntent struct{}

func (unknownIntent) intent() {}

type unknownPatch struct{}

func (unknownPatch) Step() domain.StepKey { return domain.StepGeneral }

func TestStore_EmptyPatchIsNoop(t *testing.T) {
	store := newTestStore()
	before := store.State()

	require.NoError(t, store.Dispatch(PatchSection{Patch: domain.GeneralPatch{}}))

	after := store.State()
	require.Equal(t, before.Data.General, after.Data.General)
	require.False(t, after.Dirty)
	require.Equal(t, before.Revision, after.Revision)
}

func TestStore_PatchGeneralScenario(t *testing.T) {
	store := newTestStore()

	require.NoError(t, store.Dispatch(PatchSection{Patch: domain.GeneralPatch{RentalType: domain.Ptr(domain.RentalEnd)}}))

	state := store.State()
	require.Equal(t, domain.RentalEnd, state.Data.General.RentalType)
	require.True(t, state.Dirty)
	require.Equal(t, domain.StatusDraft, state.Data.Meta.Status)
}

func TestStore_PatchDoesNotLeakIntoOtherSections(t *testing.T) {
	patches := []domain.SectionPatch{
		domain.GeneralPatch{RentalDate: domain.Ptr("2024-06-01")},
		domain.PropertyPatch{SelectedFloors: &[]string{"EG", "1. OG"}},
		domain.ConditionPatch{OverallCondition: domain.Ptr("renoviert")},
		domain.SchedulingPatch{ScheduledDate: domain.Ptr("2024-06-01"), ReminderSet: domain.Ptr(true)},
		domain.SignaturesPatch{Location: domain.Ptr("Berlin")},
	}
	for _, patch := range patches {
		t.Run(string(patch.Step()), func(t *testing.T) {
			store := newTestStore()
			before := store.State().Data

			require.NoError(t, store.Dispatch(PatchSection{Patch: patch}))

			after := store.State().Data
			for _, step := range domain.Steps {
				if step == patch.Step() {
					require.NotEqual(t, before.Section(step), after.Section(step))
					continue
				}
				require.Equal(t, before.Section(step), after.Section(step), "section %s changed", step)
			}
			require.Equal(t, before.Meta, after.Meta)
		})
	}
}

func TestStore_ReplaceListSection(t *testing.T) {
	store := newTestStore()

	require.NoError(t, store.Dispatch(ReplaceListSection{Items: domain.Keys{{ID: 1, Type: "haustuerschluessel", Quantity: "1"}}}))
	state := store.State()
	require.Len(t, state.Data.Keys, 1)
	require.True(t, state.Dirty)
	require.Empty(t, state.Data.Meters)

	require.NoError(t, store.Dispatch(ReplaceListSection{Items: domain.Keys(nil)}))
	require.NotNil(t, store.State().Data.Keys)
	require.Empty(t, store.State().Data.Keys)
}

func TestStore_LoadClearsDirty(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.Dispatch(PatchSection{Patch: domain.ConditionPatch{OverallCondition: domain.Ptr("gebraucht")}}))
	require.True(t, store.State().Dirty)

	loaded := domain.NewHandover(storeNow, "owner-1")
	loaded.Meta.ID = "h-1"
	loaded.Meta.Version = 4
	loaded.Meters = nil
	require.NoError(t, store.Dispatch(Load{Handover: loaded}))

	state := store.State()
	require.False(t, state.Dirty)
	require.Equal(t, "h-1", state.Data.Meta.ID)
	require.Equal(t, int64(4), state.Data.Meta.Version)
	require.NotNil(t, state.Data.Meters)
}

func TestStore_RejectsPatchOnNonDraft(t *testing.T) {
	store := newTestStore()
	completed := domain.NewHandover(storeNow, "owner-1")
	completed.Meta.Status = domain.StatusCompleted
	require.NoError(t, store.Dispatch(Load{Handover: completed}))

	err := store.Dispatch(PatchSection{Patch: domain.GeneralPatch{RentalType: domain.Ptr(domain.RentalEnd)}})
	require.ErrorIs(t, err, domain.ErrNotDraft)
	err = store.Dispatch(ReplaceListSection{Items: domain.Keys{{ID: 1}}})
	require.ErrorIs(t, err, domain.ErrNotDraft)
	require.False(t, store.State().Dirty)
}

func TestStore_ResetRestoresDefaults(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.Dispatch(ReplaceListSection{Items: domain.Meters{{ID: 1}}}))
	require.NoError(t, store.Dispatch(SetLoading{Loading: true}))
	require.NoError(t, store.Dispatch(SetError{Message: "boom"}))

	require.NoError(t, store.Dispatch(Reset{}))

	state := store.State()
	require.Equal(t, domain.NewHandover(storeNow, "owner-1"), state.Data)
	require.False(t, state.Dirty)
	require.False(t, state.Loading)
	require.Empty(t, state.Err)
}

func TestStore_PersistedKeepsDirtyWhenEditedDuringSave(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.Dispatch(PatchSection{Patch: domain.PropertyPatch{PropertyType: domain.Ptr("wohnung")}}))
	captured := store.State()

	require.NoError(t, store.Dispatch(PatchSection{Patch: domain.PropertyPatch{PropertyType: domain.Ptr("haus")}}))
	meta := captured.Data.Meta
	meta.ID = "h-9"
	meta.Version = 1
	require.NoError(t, store.Dispatch(Persisted{Meta: meta, Revision: captured.Revision, Generation: captured.Generation}))

	state := store.State()
	require.True(t, state.Dirty)
	require.Equal(t, "h-9", state.Data.Meta.ID)

	require.NoError(t, store.Dispatch(Persisted{Meta: meta, Revision: state.Revision, Generation: state.Generation}))
	require.False(t, store.State().Dirty)
}

func TestStore_PersistedIgnoredAfterReload(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.Dispatch(PatchSection{Patch: domain.PropertyPatch{PropertyType: domain.Ptr("wohnung")}}))
	captured := store.State()

	other := domain.NewHandover(storeNow, "owner-1")
	other.Meta.ID = "other"
	require.NoError(t, store.Dispatch(Load{Handover: other}))
	require.NoError(t, store.Dispatch(Persisted{Meta: domain.Meta{ID: "stale", Version: 1}, Revision: captured.Revision, Generation: captured.Generation}))

	require.Equal(t, "other", store.State().Data.Meta.ID)
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	store := newTestStore()
	var changes []Change
	unsubscribe := store.Subscribe(func(c Change) { changes = append(changes, c) })

	require.NoError(t, store.Dispatch(PatchSection{Patch: domain.SchedulingPatch{Location: domain.Ptr("Lobby")}}))
	require.Len(t, changes, 1)
	require.True(t, changes[0].Touches(domain.StepScheduling))
	require.False(t, changes[0].Touches(domain.StepGeneral))

	unsubscribe()
	require.NoError(t, store.Dispatch(SetLoading{Loading: true}))
	require.Len(t, changes, 1)
}

func TestStore_StateIsACopy(t *testing.T) {
	store := newTestStore()
	state := store.State()
	state.Data.General.Tenants[0].FirstName = "Mutated"

	require.Empty(t, store.State().Data.General.Tenants[0].FirstName)
}

func TestStore_UnsupportedIntentPanics(t *testing.T) {
	store := newTestStore()
	require.Panics(t, func() { _ = store.Dispatch(unknownIntent{}) })
	require.Panics(t, func() { _ = store.Dispatch(PatchSection{Patch: unknownPatch{}}) })

	// the store stays usable after a rejected intent
	require.NoError(t, store.Dispatch(SetLoading{Loading: true}))
}
