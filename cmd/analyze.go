package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/helmcode/boot-ai/pkg/analyzer"
	"github.com/helmcode/boot-ai/pkg/config"
	"github.com/helmcode/boot-ai/pkg/formatter"
	"github.com/helmcode/boot-ai/pkg/journal"
)

var (
	outputFormat string
	fullLog      bool
	startDelay   int
)

// Priority 4 (warning) and above is the default analysis input.
const defaultMaxPriority = 4

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the current boot session's logs with AI",
		Long: `Capture the current boot session's journal, submit it for AI
classification and render the issues found.

Examples:
  # Analyze warnings and errors from the current boot
  boot-ai analyze

  # Analyze the full boot log, not just warnings and errors
  boot-ai analyze --full

  # Wait 3 minutes first (for autostart units racing the boot)
  boot-ai analyze --delay 180

  # Machine-readable output
  boot-ai analyze -o json`,
		Args: cobra.NoArgs,
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().BoolVar(&fullLog, "full", false, "Analyze the full boot log instead of warnings and errors only")
	cmd.Flags().IntVar(&startDelay, "delay", 0, "Seconds to wait before starting the analysis")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if startDelay > 0 {
		fmt.Printf("Waiting %d seconds before analysis...\n", startDelay)
		time.Sleep(time.Duration(startDelay) * time.Second)
	}

	ctx := cmd.Context()

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Capturing boot logs..."
	s.Start()

	var logText string
	var err error
	if fullLog {
		logText, err = journal.BootLog(ctx)
	} else {
		logText, err = journal.PriorityLog(ctx, defaultMaxPriority)
	}
	if err != nil {
		s.Stop()
		return fmt.Errorf("failed to capture boot logs: %w", err)
	}

	// A missing systemctl summary is not fatal; the journal carries
	// the same failures.
	failedUnits, err := journal.FailedUnits(ctx)
	if err != nil {
		failedUnits = ""
	}

	s.Stop()
	printSuccess(fmt.Sprintf("Captured %d bytes of boot logs", len(logText)))

	s.Suffix = " Analyzing with AI..."
	s.Start()

	result := analyzer.New(config.APIKey).Analyze(logText, failedUnits)

	s.Stop()
	printSuccess("Analysis complete")

	return formatter.DisplayResults(result, outputFormat)
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}
