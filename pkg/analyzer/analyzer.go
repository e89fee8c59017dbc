package analyzer

import (
	"errors"
	"fmt"

	"github.com/helmcode/boot-ai/pkg/config"
	"github.com/helmcode/boot-ai/pkg/llm"
	"github.com/helmcode/boot-ai/pkg/model"
	"github.com/helmcode/boot-ai/pkg/parser"
	"github.com/helmcode/boot-ai/pkg/prompts"
)

// Analyzer runs one-shot boot log classification. Every failure mode
// (missing credential, transport, malformed reply) is converted into a
// renderable AnalysisResult carrying a single synthetic issue, so
// Analyze never returns an error.
type Analyzer struct {
	llm llm.LLM
}

func New(resolve config.Resolver) *Analyzer {
	return &Analyzer{llm: llm.NewOpenRouter(resolve)}
}

func NewWithLLM(l llm.LLM) *Analyzer {
	return &Analyzer{llm: l}
}

// Analyze classifies the boot log into severity-ranked issues. A
// missing API key short-circuits before any network call.
func (a *Analyzer) Analyze(logText, failedUnits string) *model.AnalysisResult {
	system, user := prompts.BuildAnalysisRequest(logText, failedUnits)

	raw, err := a.llm.Submit(system, user)
	if err != nil {
		if errors.Is(err, llm.ErrNoAPIKey) {
			return missingKeyResult()
		}
		return transportFailureResult(err)
	}

	result, err := parser.Parse(raw)
	if err != nil {
		return malformedResponseResult(err)
	}
	return result
}

func missingKeyResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		Issues: []model.Issue{{
			Severity:    model.SeverityUrgent,
			Problem:     "OpenRouter API key not configured",
			Details:     "No API key found in the config file or environment",
			Remediation: "Run 'boot-ai settings' to configure your OpenRouter API key",
		}},
		Summary: "Configuration error - API key missing",
	}
}

func transportFailureResult(err error) *model.AnalysisResult {
	return &model.AnalysisResult{
		Issues: []model.Issue{{
			Severity:    model.SeverityModerate,
			Problem:     "API request failed",
			Details:     err.Error(),
			Remediation: "Check API key and network connection",
		}},
		Summary: fmt.Sprintf("API error: %v", err),
	}
}

func malformedResponseResult(err error) *model.AnalysisResult {
	return &model.AnalysisResult{
		Issues: []model.Issue{{
			Severity:    model.SeverityModerate,
			Problem:     "Failed to parse AI response",
			Details:     err.Error(),
			Remediation: "Check logs manually",
		}},
		Summary: "Parse error in AI response",
	}
}
