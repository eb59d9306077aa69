package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
)

func seed(t *testing.T, repo *Repository, owner, address string) domain.Handover {
	t.Helper()
	h := domain.NewHandover(time.Time{}, owner)
	h.Property.SelectedAddress = address
	stored, err := repo.Create(context.Background(), h)
	require.NoError(t, err)
	return stored
}

func TestRepository_ListNewestCreatedFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	now := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	repo.WithClock(func() time.Time { return now })

	first := seed(t, repo, "o1", "Hauptstr. 1")
	now = now.Add(time.Minute)
	second := seed(t, repo, "o1", "Hauptstr. 1")
	now = now.Add(time.Minute)
	third := seed(t, repo, "o1", "Ringweg 7")

	// Editing the oldest must not move it to the front.
	now = now.Add(time.Minute)
	first.General.RentalDate = "2024-06-01"
	_, err := repo.Update(ctx, first)
	require.NoError(t, err)

	list, err := repo.List(ctx, ports.ListFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{third.Meta.ID, second.Meta.ID, first.Meta.ID}, ids(list))

	list, err = repo.List(ctx, ports.ListFilter{SelectedAddress: "Hauptstr. 1"})
	require.NoError(t, err)
	require.Equal(t, []string{second.Meta.ID, first.Meta.ID}, ids(list))

	list, err = repo.List(ctx, ports.ListFilter{OwnerID: "o1", Limit: 2})
	require.NoError(t, err)
	require.Equal(t, []string{third.Meta.ID, second.Meta.ID}, ids(list))

	list, err = repo.List(ctx, ports.ListFilter{SelectedAddress: "Nowhere 9"})
	require.NoError(t, err)
	require.Empty(t, list)
}

func ids(list []domain.Handover) []string {
	out := make([]string, 0, len(list))
	for _, h := range list {
		out = append(out, h.Meta.ID)
	}
	return out
}
