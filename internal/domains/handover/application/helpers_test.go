package application

import (
	"context"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/require"

	"github.com/novamind-digital/immo/internal/domains/handover/adapters/memory"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
)

var sessionEpoch = time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)

// newMockClock returns a mock clock positioned at sessionEpoch.
func newMockClock() *clock.Mock {
	mock := clock.NewMock()
	mock.Add(time.Duration(sessionEpoch.UnixNano()))
	return mock
}

type testEnv struct {
	svc     *Service
	clock   *clock.Mock
	repo    ports.Repository
	cache   ports.SnapshotCache
	session *Session
}

func newTestEnv(t *testing.T, repo ports.Repository, cache ports.SnapshotCache) *testEnv {
	t.Helper()
	if repo == nil {
		repo = memory.NewRepository()
	}
	if cache == nil {
		cache = memory.NewSnapshotCache()
	}
	mock := newMockClock()
	svc := NewService(repo, cache, WithClock(mock), WithSnapshotDebounce(time.Second))
	info, err := svc.OpenSession(context.Background(), "owner-1")
	require.NoError(t, err)
	sess, err := svc.Session(info.ID)
	require.NoError(t, err)
	t.Cleanup(sess.Close)
	return &testEnv{svc: svc, clock: mock, repo: repo, cache: cache, session: sess}
}
