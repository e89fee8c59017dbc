package formatter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/boot-ai/pkg/model"
)

// DisplayResults formats and displays the analysis results
func DisplayResults(result *model.AnalysisResult, format string) error {
	switch format {
	case "json":
		return displayJSON(result)
	case "yaml":
		return displayYAML(result)
	case "human":
		fallthrough
	default:
		displayHuman(result)
	}
	return nil
}

func displayJSON(result *model.AnalysisResult) error {
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func displayYAML(result *model.AnalysisResult) error {
	output, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func displayHuman(result *model.AnalysisResult) {
	green := color.New(color.FgGreen, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Println()

	if len(result.Issues) == 0 {
		green.Println("✓ No issues detected")
		fmt.Printf("  %s\n", result.Summary)
		return
	}

	white.Printf("Found %d issue(s): %s\n\n", len(result.Issues), severityBreakdown(result))

	for i, issue := range result.Issues {
		severityColor(issue.Severity).Printf("%d. %s [%s] %s\n",
			i+1, severityIcon(issue.Severity), strings.ToUpper(string(issue.Severity)), issue.Problem)

		if issue.Details != "" {
			fmt.Printf("   %s\n", issue.Details)
		}
		if issue.LogSnippet != "" {
			fmt.Printf("   Log: %s\n", color.HiBlackString(issue.LogSnippet))
		}
		if issue.Remediation != "" {
			fmt.Printf("   Fix: %s\n", color.GreenString(issue.Remediation))
			if issue.SafeToAutoRun {
				fmt.Printf("   %s\n", color.HiBlackString("(marked safe to run)"))
			}
		}
		fmt.Println()
	}

	fmt.Printf("Summary: %s\n", result.Summary)
	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func severityBreakdown(result *model.AnalysisResult) string {
	counts := result.CountBySeverity()
	var parts []string
	for _, severity := range []model.Severity{model.SeverityUrgent, model.SeverityModerate, model.SeverityMild} {
		if n := counts[severity]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, severity))
		}
	}
	return strings.Join(parts, ", ")
}

func severityColor(severity model.Severity) *color.Color {
	switch severity {
	case model.SeverityUrgent:
		return color.New(color.FgRed, color.Bold)
	case model.SeverityModerate:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgBlue, color.Bold)
	}
}

func severityIcon(severity model.Severity) string {
	switch severity {
	case model.SeverityUrgent:
		return "🔴"
	case model.SeverityModerate:
		return "🟡"
	default:
		return "🔵"
	}
}
