package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/novamind-digital/immo/internal/domains/handover/adapters/memory"
	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
	"github.com/novamind-digital/immo/internal/domains/handover/ports/mocks"
)

func TestRecordStep_UpdateDataScenario(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	general := env.session.General(context.Background())

	require.NoError(t, general.UpdateData(domain.GeneralPatch{RentalType: domain.Ptr(domain.RentalEnd)}))

	require.Equal(t, domain.RentalEnd, general.Data().RentalType)
	require.True(t, general.IsDirty())
	require.False(t, general.IsLoading())
	require.Empty(t, general.Error())
	require.Equal(t, domain.StatusDraft, env.session.Store().State().Data.Meta.Status)
}

func TestRecordStep_AccessorsShareOneStore(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	first := env.session.Scheduling(ctx)
	second := env.session.Scheduling(ctx)

	require.NoError(t, first.UpdateData(domain.SchedulingPatch{Location: domain.Ptr("Hof")}))
	require.Equal(t, "Hof", second.Data().Location)
	require.Equal(t, "Hof", second.View().Data.Location)
}

func TestRecordStep_DebounceCoalescesWrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockSnapshotCache(ctrl)
	cache.EXPECT().ReadSnapshot(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	env := newTestEnv(t, nil, cache)
	var written []byte
	cache.EXPECT().
		WriteSnapshot(gomock.Any(), ports.SnapshotKey{Scope: env.session.Scope(), Step: domain.StepProperty}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ ports.SnapshotKey, value []byte) error {
			written = value
			return nil
		}).
		Times(1)
	property := env.session.Property(context.Background())

	require.NoError(t, property.UpdateData(domain.PropertyPatch{PropertyType: domain.Ptr("wohnung")}))
	env.clock.Add(300 * time.Millisecond)
	require.NoError(t, property.UpdateData(domain.PropertyPatch{PropertyType: domain.Ptr("haus")}))
	env.clock.Add(300 * time.Millisecond)
	require.NoError(t, property.UpdateData(domain.PropertyPatch{PropertyType: domain.Ptr("gewerbe")}))
	env.clock.Add(999 * time.Millisecond)
	require.Nil(t, written)

	env.clock.Add(time.Millisecond)
	require.NotNil(t, written)

	var stored domain.Property
	require.NoError(t, json.Unmarshal(written, &stored))
	require.Equal(t, "gewerbe", stored.PropertyType)
}

func TestRecordStep_RestoresSnapshotOnceOnMount(t *testing.T) {
	ctx := context.Background()
	cache := memory.NewSnapshotCache()
	raw, err := json.Marshal(domain.Condition{OverallCondition: "renoviert", CleanlinessConditions: []string{"besenrein"}})
	require.NoError(t, err)
	env := newTestEnv(t, nil, cache)
	require.NoError(t, cache.WriteSnapshot(ctx, ports.SnapshotKey{Scope: env.session.Scope(), Step: domain.StepCondition}, raw))

	condition := env.session.Condition(ctx)
	require.Equal(t, "renoviert", condition.Data().OverallCondition)
	require.Equal(t, []string{"besenrein"}, condition.Data().CleanlinessConditions)
	require.True(t, condition.IsDirty())

	require.NoError(t, condition.UpdateData(domain.ConditionPatch{OverallCondition: domain.Ptr("gebraucht")}))
	again := env.session.Condition(ctx)
	require.Equal(t, "gebraucht", again.Data().OverallCondition)
}

func TestRecordStep_CacheFailuresAreSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockSnapshotCache(ctrl)
	cache.EXPECT().ReadSnapshot(gomock.Any(), gomock.Any()).Return(nil, false, errors.New("quota exceeded"))
	cache.EXPECT().WriteSnapshot(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("quota exceeded")).Times(1)
	env := newTestEnv(t, nil, cache)
	signatures := env.session.Signatures(context.Background())

	require.NoError(t, signatures.UpdateData(domain.SignaturesPatch{Location: domain.Ptr("Köln")}))
	env.clock.Add(time.Second)

	require.Equal(t, "Köln", signatures.Data().Location)
	require.Empty(t, signatures.Error())
}

func TestRecordStep_CloseDropsPendingWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockSnapshotCache(ctrl)
	cache.EXPECT().ReadSnapshot(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	cache.EXPECT().WriteSnapshot(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	env := newTestEnv(t, nil, cache)
	general := env.session.General(context.Background())

	require.NoError(t, general.UpdateData(domain.GeneralPatch{RentalDate: domain.Ptr("2024-07-01")}))
	env.session.Close()
	env.clock.Add(5 * time.Second)
}

func TestRecordStep_WrongKindPanics(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	require.Panics(t, func() {
		newRecordStep[domain.General, domain.GeneralPatch](context.Background(), env.session, domain.StepKeys,
			func(h *domain.Handover) domain.General { return h.General })
	})
	require.Panics(t, func() {
		newListStep[domain.Key, domain.Keys](context.Background(), env.session, domain.StepGeneral,
			func(h *domain.Handover) domain.Keys { return h.Keys })
	})
}

func TestListStep_AddThenUpdateScenario(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	keys := env.session.Keys(context.Background())

	require.NoError(t, keys.AddItem(domain.Key{ID: 1, Type: "haustuerschluessel", Quantity: "1"}))
	require.Len(t, keys.Data(), 1)

	require.NoError(t, keys.UpdateItem(0, domain.KeyPatch{Quantity: domain.Ptr("2")}))
	data := keys.Data()
	require.Equal(t, "2", data[0].Quantity)
	require.Equal(t, int64(1), data[0].ID)
	require.Equal(t, "haustuerschluessel", data[0].Type)
}

func TestListStep_RemoveKeepsIdentifiers(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	meters := env.session.Meters(context.Background())
	require.NoError(t, meters.ReplaceAll(domain.Meters{{ID: 10}, {ID: 20}, {ID: 30}}))

	require.NoError(t, meters.RemoveItem(1))

	data := meters.Data()
	require.Len(t, data, 2)
	require.Equal(t, int64(10), data[0].ID)
	require.Equal(t, int64(30), data[1].ID)
}

func TestListStep_OutOfRangeIsNoop(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	agreements := env.session.Agreements(context.Background())
	require.NoError(t, agreements.AddItem(domain.Agreement{ID: 7, Subject: "Renovierung"}))
	before := env.session.Store().State()

	require.NoError(t, agreements.RemoveItem(5))
	require.NoError(t, agreements.RemoveItem(-1))
	require.NoError(t, agreements.UpdateItem(3, domain.AgreementPatch{Subject: domain.Ptr("x")}))

	after := env.session.Store().State()
	require.Equal(t, before.Data.Agreements, after.Data.Agreements)
	require.Equal(t, before.Revision, after.Revision)
}

func TestListStep_AssignsIdentifiers(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	photos := env.session.Photos(context.Background())

	require.NoError(t, photos.AddItem(domain.Photo{Room: "kueche"}))
	require.NoError(t, photos.AddItem(domain.Photo{Room: "bad"}))

	data := photos.Data()
	require.Equal(t, sessionEpoch.UnixMilli(), data[0].ID)
	require.Equal(t, sessionEpoch.UnixMilli()+1, data[1].ID)
}

func TestListStep_UpdateLeavesOtherItemsUntouched(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	keys := env.session.Keys(context.Background())
	require.NoError(t, keys.ReplaceAll(domain.Keys{{ID: 1, Quantity: "1"}, {ID: 2, Quantity: "4"}}))

	require.NoError(t, keys.UpdateItem(1, domain.KeyPatch{Type: domain.Ptr("briefkasten")}))

	data := keys.Data()
	require.Equal(t, domain.Key{ID: 1, Quantity: "1"}, data[0])
	require.Equal(t, domain.Key{ID: 2, Type: "briefkasten", Quantity: "4"}, data[1])
}

func TestListStep_RestoresListSnapshot(t *testing.T) {
	ctx := context.Background()
	cache := memory.NewSnapshotCache()
	raw, err := json.Marshal(domain.Keys{{ID: 5, Type: "garage", Quantity: "1"}})
	require.NoError(t, err)
	env := newTestEnv(t, nil, cache)
	require.NoError(t, cache.WriteSnapshot(ctx, ports.SnapshotKey{Scope: env.session.Scope(), Step: domain.StepKeys}, raw))

	keys := env.session.Keys(ctx)
	require.Equal(t, domain.Keys{{ID: 5, Type: "garage", Quantity: "1"}}, keys.Data())
}

func TestRecordStep_CleanLoadIsNotSnapshotted(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	created, err := repo.Create(ctx, domain.NewHandover(sessionEpoch, "owner-1"))
	require.NoError(t, err)
	cache := memory.NewSnapshotCache()
	env := newTestEnv(t, repo, cache)
	general := env.session.General(ctx)

	require.NoError(t, env.session.Load(ctx, created.Meta.ID))
	env.clock.Add(2 * time.Second)

	_, saved := env.session.LastSaved(ctx)
	require.False(t, saved)
	_, ok, err := cache.ReadSnapshot(ctx, ports.SnapshotKey{Scope: env.session.Scope(), Step: domain.StepGeneral})
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, general.UpdateData(domain.GeneralPatch{RentalDate: domain.Ptr("2024-08-01")}))
	env.clock.Add(2 * time.Second)
	_, saved = env.session.LastSaved(ctx)
	require.True(t, saved)
}
