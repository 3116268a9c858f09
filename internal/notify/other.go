//go:build !darwin && !linux

package notify

// Unsupported platforms fall back to the no-op notifier in New.
func newPlatformNotifier() Notifier { return noopNotifier{} }
