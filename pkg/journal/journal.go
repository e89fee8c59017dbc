package journal

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Log capture for the current boot session via journalctl/systemctl.
// All output is returned as opaque text, newest content last.

// BootLog returns the full journal for the current boot.
func BootLog(ctx context.Context) (string, error) {
	return run(ctx, "journalctl", "-b", "0", "--no-pager", "-o", "short-iso")
}

// PriorityLog returns journal entries at or above the given priority
// (0=emerg .. 4=warning) for the current boot. This is the default
// analysis input: errors and warnings without the informational noise.
func PriorityLog(ctx context.Context, maxPriority int) (string, error) {
	return run(ctx, "journalctl", "-b", "0", "--no-pager",
		"-p", fmt.Sprintf("0..%d", maxPriority), "-o", "short-iso")
}

// FailedUnits returns the systemctl --failed summary.
func FailedUnits(ctx context.Context) (string, error) {
	return run(ctx, "systemctl", "--failed", "--no-pager")
}

// Dmesg returns the kernel ring buffer.
func Dmesg(ctx context.Context) (string, error) {
	return run(ctx, "dmesg", "--time-format=iso", "--nopager")
}

func run(ctx context.Context, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", name, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.String(), nil
}
