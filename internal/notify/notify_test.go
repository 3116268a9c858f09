package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	sent []Notification
	err  error
}

func (r *recorder) Send(_ context.Context, n Notification) error {
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recorder) IsSupported() bool { return true }

func TestNewNeverNil(t *testing.T) {
	assert.NotNil(t, New())
	assert.False(t, Nop().IsSupported())
	assert.NoError(t, Nop().Send(context.Background(), Notification{Title: "x"}))
}

func TestAppleScript(t *testing.T) {
	got := appleScript(Notification{Title: `Say "hi"`, Body: `back\slash`, Sound: true})
	assert.Equal(t, `display notification "back\\slash" with title "Say \"hi\"" sound name "default"`, got)
	assert.Equal(t, `display notification "b" with title "t"`, appleScript(Notification{Title: "t", Body: "b"}))
}

func TestParseReminder(t *testing.T) {
	r, err := ParseReminder("", false)
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.False(t, r.Due(time.Now(), false), "nil reminder is never due")

	r, err = ParseReminder("20:30", true)
	require.NoError(t, err)
	assert.Equal(t, 20, r.Hour)
	assert.Equal(t, 30, r.Minute)
	assert.True(t, r.Sound)

	_, err = ParseReminder("8pm", false)
	assert.Error(t, err)
}

func TestReminderDue(t *testing.T) {
	r := &Reminder{Hour: 20}
	before := time.Date(2024, 5, 1, 19, 59, 0, 0, time.UTC)
	after := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

	assert.False(t, r.Due(before, false))
	assert.True(t, r.Due(after, false))
	assert.False(t, r.Due(after, true), "already logged today")
}

func TestReminderFiresOncePerDay(t *testing.T) {
	r := &Reminder{Hour: 20}
	rec := &recorder{err: errors.New("daemon down")}
	now := time.Date(2024, 5, 1, 21, 0, 0, 0, time.UTC)

	require.True(t, r.Due(now, false))
	assert.Error(t, r.Fire(context.Background(), rec, now, 3))
	assert.False(t, r.Due(now.Add(time.Hour), false))

	require.Len(t, rec.sent, 1)
	assert.Equal(t, "Keep it going!", rec.sent[0].Title)
	assert.Contains(t, rec.sent[0].Body, "3 day streak")

	tomorrow := time.Date(2024, 5, 2, 20, 5, 0, 0, time.UTC)
	assert.True(t, r.Due(tomorrow, false))
}

func TestReminderNext(t *testing.T) {
	r := &Reminder{Hour: 8, Minute: 15}
	morning := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 15, 0, 0, time.UTC), r.Next(morning))

	evening := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 2, 8, 15, 0, 0, time.UTC), r.Next(evening))

	// Month rollover.
	last := time.Date(2024, 5, 31, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 15, 0, 0, time.UTC), r.Next(last))
}
