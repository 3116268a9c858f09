//go:build darwin

package notify

import (
	"context"
	"fmt"
	"os/exec"
)

type darwinNotifier struct{}

func newPlatformNotifier() Notifier { return darwinNotifier{} }

func (darwinNotifier) IsSupported() bool {
	_, err := exec.LookPath("osascript")
	return err == nil
}

func (darwinNotifier) Send(ctx context.Context, n Notification) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := exec.CommandContext(ctx, "osascript", "-e", appleScript(n)).Run(); err != nil {
		return fmt.Errorf("osascript failed: %w", err)
	}
	return nil
}
