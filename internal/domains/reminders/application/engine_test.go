package application

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	handover "github.com/novamind-digital/immo/internal/domains/handover/domain"
	handoverports "github.com/novamind-digital/immo/internal/domains/handover/ports"
	"github.com/novamind-digital/immo/internal/domains/reminders/adapters/memory"
	remindersqlite "github.com/novamind-digital/immo/internal/domains/reminders/adapters/sqlite"
	"github.com/novamind-digital/immo/internal/domains/reminders/domain"
	platformsqlite "github.com/novamind-digital/immo/internal/platform/sqlite"
)

var engineEpoch = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func newMockClock() *clock.Mock {
	mock := clock.NewMock()
	mock.Add(time.Duration(engineEpoch.UnixNano()))
	return mock
}

func scheduledHandover(id, owner string, in time.Duration) handover.Handover {
	h := handover.NewHandover(engineEpoch, owner)
	h.Meta.ID = id
	h.Scheduling = handover.Scheduling{
		ScheduledDate: engineEpoch.Add(in).Format(time.RFC3339),
		ReminderSet:   true,
	}
	return h
}

type failingSet struct{}

func (failingSet) Add(context.Context, string) error         { return errors.New("disk full") }
func (failingSet) Members(context.Context) ([]string, error) { return nil, errors.New("disk full") }

type staticSource struct {
	calls     atomic.Int32
	handovers []handover.Handover
}

func (s *staticSource) ListHandovers(context.Context, handoverports.ListFilter) ([]handover.Handover, error) {
	s.calls.Add(1)
	return s.handovers, nil
}

type recordingSource struct {
	mu        sync.Mutex
	filters   []handoverports.ListFilter
	handovers []handover.Handover
}

func (s *recordingSource) set(handovers ...handover.Handover) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handovers = handovers
}

func (s *recordingSource) ListHandovers(_ context.Context, filter handoverports.ListFilter) ([]handover.Handover, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = append(s.filters, filter)
	return s.handovers, nil
}

func TestEngine_TwoHandoversScenario(t *testing.T) {
	engine := NewEngine(memory.NewDismissedSet(), WithClock(newMockClock()))

	got := engine.SetHandovers(context.Background(), []handover.Handover{
		scheduledHandover("soon", "o1", 2*time.Hour),
		scheduledHandover("later", "o1", 10*24*time.Hour),
	})

	require.Len(t, got, 1)
	require.Equal(t, "soon", got[0].HandoverID)
	require.Equal(t, domain.TypeUpcoming, got[0].Type)
	require.True(t, engine.HasActive("o1"))
	require.False(t, engine.HasActive("o2"))
}

func TestEngine_DismissRemovesImmediately(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(memory.NewDismissedSet(), WithClock(newMockClock()))
	got := engine.SetHandovers(ctx, []handover.Handover{
		scheduledHandover("a", "o1", time.Hour),
		scheduledHandover("b", "o1", -time.Hour),
	})
	require.Len(t, got, 2)

	engine.Dismiss(ctx, got[0].ID)

	current := engine.Reminders("")
	require.Len(t, current, 1)
	require.NotEqual(t, got[0].ID, current[0].ID)
	require.Len(t, engine.Evaluate(ctx), 1)
}

func TestEngine_DismissalSurvivesReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "local.db")
	handovers := []handover.Handover{scheduledHandover("h1", "o1", 3*time.Hour)}

	db, err := platformsqlite.Open(ctx, path)
	require.NoError(t, err)
	set, err := remindersqlite.NewDismissedSet(ctx, db)
	require.NoError(t, err)
	engine := NewEngine(set, WithClock(newMockClock()))
	got := engine.SetHandovers(ctx, handovers)
	require.Len(t, got, 1)
	engine.Dismiss(ctx, got[0].ID)
	require.NoError(t, db.Close())

	reopened, err := platformsqlite.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	set, err = remindersqlite.NewDismissedSet(ctx, reopened)
	require.NoError(t, err)
	fresh := NewEngine(set, WithClock(newMockClock()))

	require.Empty(t, fresh.SetHandovers(ctx, handovers))
}

func TestEngine_DismissedSetFailuresDegrade(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(failingSet{}, WithClock(newMockClock()))
	got := engine.SetHandovers(ctx, []handover.Handover{scheduledHandover("h1", "o1", time.Hour)})
	require.Len(t, got, 1)

	engine.Dismiss(ctx, got[0].ID)

	require.Empty(t, engine.Reminders(""))
	require.Empty(t, engine.Evaluate(ctx))
}

func TestEngine_RunPollsSourceUntilCancelled(t *testing.T) {
	mock := newMockClock()
	source := &staticSource{handovers: []handover.Handover{scheduledHandover("h1", "o1", 30*time.Hour)}}
	engine := NewEngine(memory.NewDismissedSet(), WithClock(mock), WithSource(source), WithInterval(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()

	require.Eventually(t, func() bool { return source.calls.Load() >= 1 }, time.Second, time.Millisecond)
	// 30h out the default reminder time is 6h away.
	require.Empty(t, engine.Reminders(""))

	require.Eventually(t, func() bool {
		mock.Add(time.Hour)
		return engine.HasActive("o1")
	}, 2*time.Second, 5*time.Millisecond)
	require.GreaterOrEqual(t, source.calls.Load(), int32(2))

	cancel()
	require.NoError(t, <-done)
}

func TestEngine_ExportsMetrics(t *testing.T) {
	ctx := context.Background()
	metrics := NewMetrics(prometheus.NewRegistry())
	engine := NewEngine(memory.NewDismissedSet(), WithClock(newMockClock()), WithMetrics(metrics))

	got := engine.SetHandovers(ctx, []handover.Handover{
		scheduledHandover("a", "o1", time.Hour),
		scheduledHandover("b", "o1", -time.Hour),
	})
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.Active.WithLabelValues(string(domain.TypeUpcoming))))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.Active.WithLabelValues(string(domain.TypeOverdue))))

	engine.Dismiss(ctx, got[0].ID)
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.Dismissed))
}

func TestEngine_RefreshPicksUpNewSchedules(t *testing.T) {
	ctx := context.Background()
	source := &recordingSource{}
	engine := NewEngine(memory.NewDismissedSet(), WithClock(newMockClock()), WithSource(source))
	require.Empty(t, engine.Refresh(ctx))

	source.set(scheduledHandover("h1", "o1", 2*time.Hour))

	got := engine.Refresh(ctx)
	require.Len(t, got, 1)
	require.Equal(t, "h1", got[0].HandoverID)
	require.True(t, engine.HasActive("o1"))
}

func TestEngine_RefreshConsidersEveryStatus(t *testing.T) {
	ctx := context.Background()
	completed := scheduledHandover("done", "o1", -time.Hour)
	completed.Meta.Status = handover.StatusCompleted
	source := &recordingSource{}
	source.set(completed, scheduledHandover("draft", "o1", time.Hour))
	engine := NewEngine(memory.NewDismissedSet(), WithClock(newMockClock()), WithSource(source))

	got := engine.Refresh(ctx)

	require.Len(t, got, 2)
	require.Equal(t, []handoverports.ListFilter{{}}, source.filters)
}
