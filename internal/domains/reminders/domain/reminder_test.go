package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	handover "github.com/novamind-digital/immo/internal/domains/handover/domain"
)

var evalNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func scheduled(id string, at time.Time, reminderSet bool) handover.Handover {
	h := handover.NewHandover(evalNow, "owner-1")
	h.Meta.ID = id
	h.Scheduling = handover.Scheduling{
		ScheduledDate: at.Format(time.RFC3339),
		ReminderSet:   reminderSet,
	}
	return h
}

func TestEvaluate_OnlyNearAppointmentIsDue(t *testing.T) {
	soon := scheduled("soon", evalNow.Add(2*time.Hour), true)
	later := scheduled("later", evalNow.Add(10*24*time.Hour), true)

	got := Evaluate([]handover.Handover{later, soon}, nil, evalNow, time.UTC)

	require.Len(t, got, 1)
	require.Equal(t, "soon", got[0].HandoverID)
	require.Equal(t, TypeUpcoming, got[0].Type)
	require.Equal(t, "in 2 hours", got[0].TimeUntil)
	require.Equal(t, ReminderID("soon", evalNow.Add(2*time.Hour)), got[0].ID)
}

func TestEvaluate_ClassificationBoundary(t *testing.T) {
	upcoming := scheduled("upcoming", evalNow.Add(47*time.Hour+59*time.Minute), true)
	overdue := scheduled("overdue", evalNow.Add(-time.Minute), true)

	got := Evaluate([]handover.Handover{upcoming, overdue}, nil, evalNow, time.UTC)

	require.Len(t, got, 2)
	require.Equal(t, "overdue", got[0].HandoverID)
	require.Equal(t, TypeOverdue, got[0].Type)
	require.Equal(t, "overdue", got[0].TimeUntil)
	require.Equal(t, "upcoming", got[1].HandoverID)
	require.Equal(t, TypeUpcoming, got[1].Type)
	require.Equal(t, "in 2 days", got[1].TimeUntil)
}

func TestEvaluate_SkipsIneligibleAndMalformed(t *testing.T) {
	off := scheduled("off", evalNow.Add(time.Hour), false)
	noDate := scheduled("nodate", evalNow.Add(time.Hour), true)
	noDate.Scheduling.ScheduledDate = ""
	broken := scheduled("broken", evalNow.Add(time.Hour), true)
	broken.Scheduling.ScheduledDate = "next tuesday"
	brokenReminder := scheduled("broken-reminder", evalNow.Add(time.Hour), true)
	brokenReminder.Scheduling.ReminderDate = "31.02.2024"
	ok := scheduled("ok", evalNow.Add(time.Hour), true)

	got := Evaluate([]handover.Handover{off, noDate, broken, brokenReminder, ok}, nil, evalNow, time.UTC)

	require.Len(t, got, 1)
	require.Equal(t, "ok", got[0].HandoverID)
}

func TestEvaluate_ExplicitReminderDateInFuture(t *testing.T) {
	h := scheduled("h", evalNow.Add(5*time.Hour), true)
	h.Scheduling.ReminderDate = evalNow.Add(time.Hour).Format(time.RFC3339)

	require.Empty(t, Evaluate([]handover.Handover{h}, nil, evalNow, time.UTC))
	require.Len(t, Evaluate([]handover.Handover{h}, nil, evalNow.Add(time.Hour), time.UTC), 1)
}

func TestEvaluate_SkipsDismissed(t *testing.T) {
	h := scheduled("h", evalNow.Add(3*time.Hour), true)
	id := ReminderID("h", evalNow.Add(3*time.Hour))

	got := Evaluate([]handover.Handover{h}, func(candidate string) bool { return candidate == id }, evalNow, time.UTC)
	require.Empty(t, got)

	h.Scheduling.ScheduledDate = evalNow.Add(4 * time.Hour).Format(time.RFC3339)
	got = Evaluate([]handover.Handover{h}, func(candidate string) bool { return candidate == id }, evalNow, time.UTC)
	require.Len(t, got, 1)
}

func TestParseSchedule_DateWithTime(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	schedule, err := ParseSchedule(handover.Scheduling{ScheduledDate: "2024-06-11", ScheduledTime: "14:30"}, berlin)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 6, 11, 14, 30, 0, 0, berlin), schedule.ScheduledAt)
	require.Equal(t, schedule.ScheduledAt.Add(-DefaultLeadTime), schedule.RemindAt)

	schedule, err = ParseSchedule(handover.Scheduling{ScheduledDate: "2024-06-11T09:15"}, berlin)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 6, 11, 9, 15, 0, 0, berlin), schedule.ScheduledAt)

	_, err = ParseSchedule(handover.Scheduling{ScheduledDate: "2024-06-11", ScheduledTime: "25:99"}, berlin)
	require.ErrorIs(t, err, ErrMalformedSchedule)
}

func TestFormatTimeUntil(t *testing.T) {
	cases := map[time.Duration]string{
		-time.Second:               "overdue",
		0:                          "less than 1 hour",
		59 * time.Minute:           "less than 1 hour",
		time.Hour:                  "in 1 hour",
		90 * time.Minute:           "in 2 hours",
		23*time.Hour + time.Minute: "in 24 hours",
		24 * time.Hour:             "tomorrow",
		47 * time.Hour:             "tomorrow",
		47*time.Hour + time.Minute: "in 2 days",
		72 * time.Hour:             "in 3 days",
	}
	for in, want := range cases {
		require.Equal(t, want, FormatTimeUntil(in), in.String())
	}
}
