// Package notify sends desktop notifications (notify-send on Linux,
// osascript on macOS) and decides when the daily reminder is due.
package notify

import (
	"context"
	"time"
)

// AppName is shown as the notification source where supported.
const AppName = "daylog"

// sendTimeout bounds a single notifier invocation.
const sendTimeout = 5 * time.Second

// Notifier sends desktop notifications.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	IsSupported() bool
}

// Notification is one desktop message.
type Notification struct {
	Title string
	Body  string
	Sound bool
}

type noopNotifier struct{}

func (noopNotifier) Send(context.Context, Notification) error { return nil }
func (noopNotifier) IsSupported() bool                        { return false }

// New returns the platform notifier, or a no-op one when the platform tool
// is missing.
func New() Notifier {
	n := newPlatformNotifier()
	if n == nil || !n.IsSupported() {
		return noopNotifier{}
	}
	return n
}

// Nop returns a notifier that drops everything.
func Nop() Notifier { return noopNotifier{} }

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, sendTimeout)
}
