package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/boot-ai/pkg/model"
)

func TestParsePlainJSON(t *testing.T) {
	result, err := Parse(`{"issues": [], "summary": "No significant issues detected in boot logs."}`)
	require.NoError(t, err)
	assert.Empty(t, result.Issues)
	assert.Equal(t, "No significant issues detected in boot logs.", result.Summary)
}

func TestParseFencedJSON(t *testing.T) {
	result, err := Parse("```json\n{\"issues\":[{\"severity\":\"critical\",\"problem\":\"disk full\"}],\"summary\":\"x\"}\n```")
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, model.SeverityUrgent, result.Issues[0].Severity)
	assert.Equal(t, "disk full", result.Issues[0].Problem)
	assert.Equal(t, "x", result.Summary)
}

func TestParseFencingEquivalence(t *testing.T) {
	raw := `{"issues":[{"severity":"warning","problem":"NetworkManager failed","remediation":"systemctl restart NetworkManager"}],"summary":"one network issue"}`

	wrapped := []struct {
		name string
		text string
	}{
		{"no fence", raw},
		{"json fence", "```json\n" + raw + "\n```"},
		{"bare fence", "```\n" + raw + "\n```"},
		{"fence with prose around it", "Here is what I found:\n\n```json\n" + raw + "\n```\n\nLet me know if you need more."},
	}

	want, err := Parse(raw)
	require.NoError(t, err)

	for _, tt := range wrapped {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseLegacySeverities(t *testing.T) {
	raw := `{"issues":[
		{"severity":"critical","problem":"a"},
		{"severity":"warning","problem":"b"},
		{"severity":"notice","problem":"c"},
		{"severity":"made-up","problem":"d"}
	],"summary":"s"}`

	result, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, result.Issues, 4)
	assert.Equal(t, model.SeverityUrgent, result.Issues[0].Severity)
	assert.Equal(t, model.SeverityModerate, result.Issues[1].Severity)
	assert.Equal(t, model.SeverityMild, result.Issues[2].Severity)
	assert.Equal(t, model.SeverityMild, result.Issues[3].Severity, "unknown severity folds to mild")
}

func TestParseDefaultFills(t *testing.T) {
	result, err := Parse(`{"issues":[{}],"summary":""}`)
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, DefaultProblem, result.Issues[0].Problem)
	assert.Equal(t, model.SeverityMild, result.Issues[0].Severity)
	assert.NotEmpty(t, result.Summary)
}

func TestParseMalformed(t *testing.T) {
	malformed := []struct {
		name string
		text string
	}{
		{"prose", "I could not find any issues worth reporting."},
		{"truncated json", `{"issues": [{"severity": "urgent"`},
		{"empty string", ""},
		{"empty fenced block", "```json\n```"},
		{"whitespace fenced block", "```\n   \n```"},
	}

	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			assert.Error(t, err)
		})
	}
}

func TestNormalizeNeverFails(t *testing.T) {
	result := Normalize("not json at all {{{")
	assert.Empty(t, result.Issues)
	assert.NotEmpty(t, result.Summary)
	assert.Contains(t, result.Summary, "parse")
}

func TestNormalizeSuccessMatchesParse(t *testing.T) {
	raw := `{"issues":[{"severity":"mild","problem":"p"}],"summary":"s"}`
	parsed, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, parsed, Normalize(raw))
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences(`{"a":1}`))
	assert.Equal(t, "", StripFences("``````"))
}
