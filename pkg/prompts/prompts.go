package prompts

import (
	"fmt"
	"strings"

	"github.com/helmcode/boot-ai/pkg/model"
)

// Trailing character bounds for log text embedded in prompts. Boot
// failures cluster near the end of the journal, so the oldest content
// is dropped first. Chat context is supplementary and gets the tighter
// bound.
const (
	AnalysisLogLimit = 50000
	ChatLogLimit     = 30000
)

// EmptySummary is the fixed summary the model is instructed to return
// when no issues are found.
const EmptySummary = "No significant issues detected in boot logs."

const analysisSystemPrompt = `You are a Linux system administrator expert analyzing boot logs from an Ubuntu system.

Your task is to identify ONLY significant issues that require user attention. Be conservative - don't flag:
- Normal informational messages
- Warnings that are expected/benign
- Hardware detection messages that completed successfully
- Services that started correctly

DO flag:
- Failed services or units
- Hardware errors or failures
- Security-related warnings
- Disk/filesystem errors
- Network configuration failures
- GPU/driver issues that prevent functionality
- Memory or resource exhaustion warnings

For each genuine issue found, provide:
1. A clear, concise problem description
2. The severity level:
   - "urgent": Critical failures requiring immediate attention (failed essential services, security breaches, data loss risk)
   - "moderate": Issues that should be addressed soon (degraded functionality, warnings that may escalate)
   - "mild": Minor issues that can be addressed when convenient (cosmetic errors, non-essential service issues)
3. A specific remediation command or steps
4. The exact log lines that indicate this issue

Respond in JSON format:
{
    "issues": [
        {
            "severity": "urgent|moderate|mild",
            "problem": "Brief description of the issue",
            "details": "Explanation of why this is an issue and its impact",
            "log_snippet": "The exact log lines (1-5 lines) that indicate this issue",
            "remediation": "Specific command or steps to fix",
            "safe_to_auto_run": true/false
        }
    ],
    "summary": "One sentence overall assessment"
}

If no significant issues are found, return:
{
    "issues": [],
    "summary": "` + EmptySummary + `"
}
`

const chatSystemPrompt = `You are a helpful Linux system administrator assistant. You have access to the user's boot logs and are helping them diagnose and fix issues.

When suggesting commands:
- Provide clear, step-by-step instructions
- Explain what each command does
- Warn about any risks or side effects
- Prefer safe, reversible actions

Be concise but thorough. Focus on practical solutions.`

// ContextAck is the canned assistant acknowledgement that primes chat
// conversations before any real history is replayed.
const ContextAck = "I have the boot logs and issue context. I'm ready to help you diagnose and fix any problems. What would you like to know?"

// BuildAnalysisRequest renders the system instruction and user payload
// for a one-shot classification call. Log text beyond AnalysisLogLimit
// trailing characters is dropped; the failed-unit summary is embedded
// verbatim.
func BuildAnalysisRequest(logText, failedUnits string) (system, user string) {
	user = fmt.Sprintf(`Analyze these Ubuntu boot logs and identify any significant issues:

## Boot Logs (journalctl)
`+"```"+`
%s
`+"```"+`

## Failed Services (systemctl --failed)
`+"```"+`
%s
`+"```"+`

Remember: Only flag genuine issues that need attention. Be conservative.
`, tail(logText, AnalysisLogLimit), failedUnits)

	return analysisSystemPrompt, user
}

// BuildChatRequest assembles the full ordered turn list for one chat
// round trip: system prompt, two priming turns (context + canned
// acknowledgement), the replayed history, and the new user message
// last. When focus is set, the issue is described inside the context
// priming turn so every reply is conditioned on it. System-role turns
// in history are local display markers and are not replayed.
func BuildChatRequest(message, logText string, focus *model.Issue, history []model.Turn) []model.Turn {
	var context strings.Builder
	fmt.Fprintf(&context, "## Boot Logs (last 30KB)\n```\n%s\n```", tail(logText, ChatLogLimit))

	if focus != nil {
		fmt.Fprintf(&context, `

## Current Issue Being Discussed
- **Problem**: %s
- **Severity**: %s
- **Details**: %s
- **Log Snippet**: %s
- **Suggested Remediation**: %s
`,
			orDefault(focus.Problem, "Unknown"),
			orDefault(string(focus.Severity), "unknown"),
			orDefault(focus.Details, "N/A"),
			orDefault(focus.LogSnippet, "N/A"),
			orDefault(focus.Remediation, "N/A"))
	}

	turns := []model.Turn{
		{Role: model.RoleSystem, Content: chatSystemPrompt},
		{Role: model.RoleUser, Content: fmt.Sprintf("Here is the context for our conversation:\n\n%s\n\nPlease acknowledge you have this context.", context.String())},
		{Role: model.RoleAssistant, Content: ContextAck},
	}

	for _, turn := range history {
		if turn.Role == model.RoleUser || turn.Role == model.RoleAssistant {
			turns = append(turns, turn)
		}
	}

	return append(turns, model.Turn{Role: model.RoleUser, Content: message})
}

// tail returns the trailing limit characters of s.
func tail(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[len(s)-limit:]
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
