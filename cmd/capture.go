package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/helmcode/boot-ai/pkg/journal"
)

var captureOutput string

func NewCaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture the current boot log to a file without analyzing it",
		Args:  cobra.NoArgs,
		RunE:  runCapture,
	}

	cmd.Flags().StringVar(&captureOutput, "output", "", "Output path (default: a timestamped file in the temp directory)")

	return cmd
}

func runCapture(cmd *cobra.Command, args []string) error {
	logText, err := journal.BootLog(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to capture boot logs: %w", err)
	}

	path := captureOutput
	if path == "" {
		path = filepath.Join(os.TempDir(), fmt.Sprintf("boot_logs_%s.txt", time.Now().Format("20060102_150405")))
	}

	if err := os.WriteFile(path, []byte(logText), 0o644); err != nil {
		return fmt.Errorf("write boot logs: %w", err)
	}

	fmt.Printf("Boot logs captured to: %s (%d bytes)\n", path, len(logText))
	return nil
}
