//go:build linux

package notify

import (
	"context"
	"fmt"
	"os/exec"
)

type linuxNotifier struct{}

func newPlatformNotifier() Notifier { return linuxNotifier{} }

func (linuxNotifier) IsSupported() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

func (linuxNotifier) Send(ctx context.Context, n Notification) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	args := []string{"--app-name=" + AppName}
	// Sound depends on the notification daemon; normal urgency is the
	// closest portable hint.
	if n.Sound {
		args = append(args, "--urgency=normal")
	}
	args = append(args, n.Title, n.Body)

	if err := exec.CommandContext(ctx, "notify-send", args...).Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}
