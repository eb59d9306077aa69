package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

func TestNewHandover_Defaults(t *testing.T) {
	h := NewHandover(testNow, "user-1")

	require.Equal(t, StatusDraft, h.Meta.Status)
	require.Zero(t, h.Meta.Version)
	require.Empty(t, h.Meta.ID)
	require.Equal(t, "user-1", h.Meta.UserID)
	require.Equal(t, RentalStart, h.General.RentalType)
	require.Len(t, h.General.Tenants, 1)
	require.Equal(t, testNow.UnixMilli(), h.General.Tenants[0].ID)
	require.Equal(t, "erstbezug", h.Condition.OverallCondition)
	require.Equal(t, "14.03.2024", h.Signatures.Date)
	require.NotNil(t, h.Meters)
	require.NotNil(t, h.Keys)
	require.NotNil(t, h.Photos)
	require.NotNil(t, h.Agreements)
	require.Empty(t, h.Keys)
}

func TestSteps_Kinds(t *testing.T) {
	for _, step := range Steps {
		require.True(t, step.Valid(), step)
	}
	require.Equal(t, KindRecord, StepGeneral.Kind())
	require.Equal(t, KindList, StepKeys.Kind())

	_, err := ParseStep("garden")
	require.ErrorIs(t, err, ErrUnknownStep)

	require.Panics(t, func() { StepMeters.MustKind(KindRecord) })
	require.NotPanics(t, func() { StepMeters.MustKind(KindList) })
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("archived")
	require.NoError(t, err)
	require.Equal(t, StatusArchived, status)

	_, err = ParseStatus("deleted")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGeneralPatch_EmptyIsIdentity(t *testing.T) {
	h := NewHandover(testNow, "")
	before, err := json.Marshal(h.General)
	require.NoError(t, err)

	after, err := json.Marshal(GeneralPatch{}.ApplyTo(h.General))
	require.NoError(t, err)
	require.JSONEq(t, string(before), string(after))
}

func TestGeneralPatch_ShallowMerge(t *testing.T) {
	h := NewHandover(testNow, "")
	patched := GeneralPatch{RentalType: Ptr(RentalEnd)}.ApplyTo(h.General)

	require.Equal(t, RentalEnd, patched.RentalType)
	require.Equal(t, h.General.Manager, patched.Manager)
	require.Equal(t, h.General.Tenants, patched.Tenants)
}

func TestPatch_DoesNotAliasInput(t *testing.T) {
	floors := []string{"EG"}
	addr := &Address{City: "Berlin"}
	patched := PropertyPatch{SelectedFloors: &floors, CustomAddress: addr}.ApplyTo(Property{})

	floors[0] = "DG"
	addr.City = "Hamburg"
	require.Equal(t, []string{"EG"}, patched.SelectedFloors)
	require.Equal(t, "Berlin", patched.CustomAddress.City)
}

func TestPatch_DecodesFromSectionSnapshot(t *testing.T) {
	raw, err := json.Marshal(Scheduling{ScheduledDate: "2024-03-20", ReminderSet: true})
	require.NoError(t, err)

	var patch SchedulingPatch
	require.NoError(t, json.Unmarshal(raw, &patch))

	merged := patch.ApplyTo(Scheduling{Location: "Lobby"})
	require.Equal(t, "2024-03-20", merged.ScheduledDate)
	require.True(t, merged.ReminderSet)
	require.Equal(t, "Lobby", merged.Location)
}

func TestItemPatch_KeepsIdentifier(t *testing.T) {
	key := Key{ID: 1, Type: "haustuerschluessel", Quantity: "1"}
	updated := KeyPatch{Quantity: Ptr("2")}.ApplyTo(key)

	require.Equal(t, int64(1), updated.ID)
	require.Equal(t, "2", updated.Quantity)
	require.Equal(t, "haustuerschluessel", updated.Type)
}

func TestNextItemID(t *testing.T) {
	require.Equal(t, testNow.UnixMilli(), NextItemID[Key](nil, testNow))

	future := Keys{{ID: testNow.UnixMilli() + 5}}
	require.Equal(t, testNow.UnixMilli()+6, NextItemID(future, testNow))
}

func TestClone_IsDeep(t *testing.T) {
	h := NewHandover(testNow, "")
	h.Meters = Meters{{ID: 1, Photos: []string{"a.jpg"}}}
	h.Keys = Keys{{ID: 2}}

	cp := h.Clone()
	cp.General.Tenants[0].FirstName = "Erika"
	cp.Meters[0].Photos[0] = "b.jpg"
	cp.Keys[0].Quantity = "3"

	require.Empty(t, h.General.Tenants[0].FirstName)
	require.Equal(t, "a.jpg", h.Meters[0].Photos[0])
	require.Empty(t, h.Keys[0].Quantity)
}

func TestNormalize_FillsMissingSections(t *testing.T) {
	var h Handover
	require.NoError(t, json.Unmarshal([]byte(`{"meta":{"id":"h1","version":3}}`), &h))
	h.Normalize()

	require.Equal(t, StatusDraft, h.Meta.Status)
	require.NotNil(t, h.Meters)
	require.NotNil(t, h.Signatures.Tenants)
	require.True(t, h.Mutable())
}
