package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/helmcode/boot-ai/pkg/model"
)

// DefaultProblem fills the problem field of an issue the model left blank.
const DefaultProblem = "Unspecified issue"

// defaultSummary fills a parsed response whose summary is missing.
const defaultSummary = "Analysis complete"

var (
	fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	fencedAny  = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\\n?(.*?)```")
)

// rawIssue mirrors the wire schema with severity still unnormalized.
type rawIssue struct {
	Severity      string `json:"severity"`
	Problem       string `json:"problem"`
	Details       string `json:"details"`
	LogSnippet    string `json:"log_snippet"`
	Remediation   string `json:"remediation"`
	SafeToAutoRun bool   `json:"safe_to_auto_run"`
}

// Parse decodes a raw model reply into a canonical AnalysisResult.
// Markdown code fences are stripped first (a fence labeled json wins
// over an unlabeled one), severities are folded into the canonical
// vocabulary, and missing problem/severity/summary fields are
// default-filled. The error is non-nil only when the payload is not
// parseable JSON at all.
func Parse(raw string) (*model.AnalysisResult, error) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		// A fence wrapping nothing must fail like any malformed payload.
		return nil, errors.New("empty response payload")
	}

	var payload struct {
		Issues  []rawIssue `json:"issues"`
		Summary string     `json:"summary"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}

	result := &model.AnalysisResult{
		Issues:  make([]model.Issue, 0, len(payload.Issues)),
		Summary: payload.Summary,
	}
	if result.Summary == "" {
		result.Summary = defaultSummary
	}

	for _, issue := range payload.Issues {
		problem := issue.Problem
		if problem == "" {
			problem = DefaultProblem
		}
		result.Issues = append(result.Issues, model.Issue{
			Severity:      model.NormalizeSeverity(issue.Severity),
			Problem:       problem,
			Details:       issue.Details,
			LogSnippet:    issue.LogSnippet,
			Remediation:   issue.Remediation,
			SafeToAutoRun: issue.SafeToAutoRun,
		})
	}

	return result, nil
}

// Normalize is the never-failing form of Parse: a payload that cannot
// be decoded yields a result with zero issues and a summary naming the
// failure.
func Normalize(raw string) *model.AnalysisResult {
	result, err := Parse(raw)
	if err != nil {
		return &model.AnalysisResult{
			Issues:  []model.Issue{},
			Summary: fmt.Sprintf("Could not parse analysis response: %v", err),
		}
	}
	return result
}

// StripFences extracts the content of a markdown code fence so the JSON
// inside can be parsed. The remote model is known to wrap structured
// answers in fencing. Text without any fence is returned trimmed.
func StripFences(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := fencedAny.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}
