package notify

import (
	"context"
	"fmt"
	"time"

	"daylog/internal/day"
	"daylog/internal/stats"
)

// Reminder fires at most once per day, at or after a local time of day,
// and only when nothing has been logged yet that day.
type Reminder struct {
	Hour, Minute int
	Sound        bool

	lastSent day.Date
}

// ParseReminder parses "HH:MM". An empty string yields nil (no reminder).
func ParseReminder(hhmm string, sound bool) (*Reminder, error) {
	if hhmm == "" {
		return nil, nil
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return nil, fmt.Errorf("reminder %q: want HH:MM", hhmm)
	}
	return &Reminder{Hour: t.Hour(), Minute: t.Minute(), Sound: sound}, nil
}

// at returns the reminder instant on now's date in now's location.
func (r *Reminder) at(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, r.Hour, r.Minute, 0, 0, now.Location())
}

// Due reports whether the reminder should fire now.
func (r *Reminder) Due(now time.Time, loggedToday bool) bool {
	if r == nil || loggedToday {
		return false
	}
	if r.lastSent == day.FromTime(now) {
		return false
	}
	return !now.Before(r.at(now))
}

// Next returns the next instant the reminder could fire after now.
func (r *Reminder) Next(now time.Time) time.Time {
	t := r.at(now)
	if !t.After(now) || r.lastSent == day.FromTime(now) {
		y, m, d := now.Date()
		t = time.Date(y, m, d+1, r.Hour, r.Minute, 0, 0, now.Location())
	}
	return t
}

// Fire sends the streak reminder through n and marks today as sent, even
// when sending fails, so a broken notifier is not retried every tick.
func (r *Reminder) Fire(ctx context.Context, n Notifier, now time.Time, currentStreak int) error {
	r.lastSent = day.FromTime(now)
	title, body := stats.StreakMessage(currentStreak)
	return n.Send(ctx, Notification{Title: title, Body: body, Sound: r.Sound})
}
