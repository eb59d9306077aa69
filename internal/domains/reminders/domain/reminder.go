// Package domain derives handover reminders from scheduling data. Reminders are
// recomputed on every evaluation; only dismissals are stored.
package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	handover "github.com/novamind-digital/immo/internal/domains/handover/domain"
)

// Type classifies a due reminder.
type Type string

const (
	TypeUpcoming Type = "upcoming"
	TypeOverdue  Type = "overdue"
)

const (
	// DefaultLeadTime is subtracted from the appointment when no reminder date is set.
	DefaultLeadTime = 24 * time.Hour
	// DueWindow is how close the appointment must be before a reminder shows.
	DueWindow = 48 * time.Hour
)

var ErrMalformedSchedule = errors.New("malformed handover schedule")

// Reminder is one notification that should currently be surfaced.
type Reminder struct {
	ID          string    `json:"id"`
	HandoverID  string    `json:"handoverId"`
	OwnerID     string    `json:"ownerId,omitempty"`
	Type        Type      `json:"type"`
	ScheduledAt time.Time `json:"scheduledDate"`
	RemindAt    time.Time `json:"reminderDate"`
	TimeUntil   string    `json:"timeUntil"`
	Location    string    `json:"location,omitempty"`
}

// ReminderID forms the dismissal identity of a handover appointment. A new
// appointment time yields a new identity.
func ReminderID(handoverID string, scheduledAt time.Time) string {
	return fmt.Sprintf("%s-%d", handoverID, scheduledAt.UnixMilli())
}

// Schedule is the parsed appointment of a handover.
type Schedule struct {
	ScheduledAt time.Time
	RemindAt    time.Time
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// ParseSchedule reads the appointment of s. Dates without zone are
// interpreted in loc; a date-only value is combined with ScheduledTime.
func ParseSchedule(s handover.Scheduling, loc *time.Location) (Schedule, error) {
	if loc == nil {
		loc = time.UTC
	}
	scheduled, err := parseDate(s.ScheduledDate, s.ScheduledTime, loc)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: scheduledDate: %w", ErrMalformedSchedule, err)
	}
	remind := scheduled.Add(-DefaultLeadTime)
	if strings.TrimSpace(s.ReminderDate) != "" {
		remind, err = parseDate(s.ReminderDate, "", loc)
		if err != nil {
			return Schedule{}, fmt.Errorf("%w: reminderDate: %w", ErrMalformedSchedule, err)
		}
	}
	return Schedule{ScheduledAt: scheduled, RemindAt: remind}, nil
}

func parseDate(raw, clock string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	day, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return time.Time{}, err
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return day, nil
	}
	tod, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, loc), nil
}

// Eligible reports whether the handover asks for a reminder at all.
func Eligible(h handover.Handover) bool {
	return h.Meta.ID != "" &&
		strings.TrimSpace(h.Scheduling.ScheduledDate) != "" &&
		h.Scheduling.ReminderSet
}

// Evaluate returns the due reminders among handovers at now, ordered by
// appointment time. Handovers with a malformed schedule are skipped.
func Evaluate(handovers []handover.Handover, dismissed func(id string) bool, now time.Time, loc *time.Location) []Reminder {
	due := make([]Reminder, 0)
	for _, h := range handovers {
		if !Eligible(h) {
			continue
		}
		schedule, err := ParseSchedule(h.Scheduling, loc)
		if err != nil {
			continue
		}
		id := ReminderID(h.Meta.ID, schedule.ScheduledAt)
		if dismissed != nil && dismissed(id) {
			continue
		}
		if schedule.RemindAt.After(now) {
			continue
		}
		until := schedule.ScheduledAt.Sub(now)
		if until > DueWindow {
			continue
		}
		kind := TypeUpcoming
		if until < 0 {
			kind = TypeOverdue
		}
		due = append(due, Reminder{
			ID:          id,
			HandoverID:  h.Meta.ID,
			OwnerID:     h.Meta.UserID,
			Type:        kind,
			ScheduledAt: schedule.ScheduledAt,
			RemindAt:    schedule.RemindAt,
			TimeUntil:   FormatTimeUntil(until),
			Location:    h.Scheduling.Location,
		})
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].ScheduledAt.Before(due[j].ScheduledAt)
	})
	return due
}
