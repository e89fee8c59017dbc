package model

import "strings"

// Severity ranks an issue by how urgently it needs attention.
type Severity string

const (
	SeverityUrgent   Severity = "urgent"
	SeverityModerate Severity = "moderate"
	SeverityMild     Severity = "mild"
)

// NormalizeSeverity folds the legacy vocabulary (critical/warning/notice)
// into the canonical one. Unknown or missing values map to mild: an
// unrecognized severity is treated as lowest concern, not rejected.
func NormalizeSeverity(raw string) Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "urgent", "critical":
		return SeverityUrgent
	case "moderate", "warning":
		return SeverityModerate
	default:
		return SeverityMild
	}
}

// Rank returns the sort weight of a severity, lower is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityUrgent:
		return 0
	case SeverityModerate:
		return 1
	default:
		return 2
	}
}

// Issue is one normalized finding extracted from the boot logs.
type Issue struct {
	Severity      Severity `json:"severity"`
	Problem       string   `json:"problem"`
	Details       string   `json:"details,omitempty"`
	LogSnippet    string   `json:"log_snippet,omitempty"`
	Remediation   string   `json:"remediation,omitempty"`
	SafeToAutoRun bool     `json:"safe_to_auto_run"`
}

// AnalysisResult is the full outcome of one classification pass.
// Issues may be empty; Summary is always non-empty after normalization.
type AnalysisResult struct {
	Issues  []Issue `json:"issues"`
	Summary string  `json:"summary"`
}

// CountBySeverity tallies issues per canonical severity.
func (r *AnalysisResult) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, issue := range r.Issues {
		counts[NormalizeSeverity(string(issue.Severity))]++
	}
	return counts
}

// Conversation roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single role/content message in a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
