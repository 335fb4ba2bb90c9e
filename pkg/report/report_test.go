package report

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() map[string]any {
	return map[string]any{
		"company_details": "Acme Corp builds rockets.",
		"questions": map[string]any{
			"investor_questions": []any{"Is Acme profitable?", "Who funds Acme?"},
			"customer_questions": []any{"Do the rockets work?"},
		},
		"answers": map[string]any{
			"responses": []any{
				map[string]any{
					"stakeholder": "Investor",
					"question":    "Is Acme profitable?",
					"answer":      "Insufficient information in provided profile.",
					"confidence":  "Low",
					"sentiment":   "Neutral",
				},
			},
		},
		"scores": map[string]any{
			"evaluation_results": []any{
				map[string]any{
					"stakeholder": "Investor",
					"scores":      map[string]any{"logical_consistency": float64(9)},
				},
			},
			"overall_summary": map[string]any{
				"average_logical_score":       float64(9),
				"overall_company_risk_signal": "Medium",
			},
		},
	}
}

func TestBuildWrapsRawTextStages(t *testing.T) {
	doc := Build("Acme Corp", sampleResults(), map[string]string{"company_details": "google:gemini-2.0-pro"})

	// The prose stage is wrapped and marked; structured stages are not.
	assert.Equal(t, []string{"company_details"}, doc.Unparsed())

	wrapped, ok := doc.Stages["company_details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Acme Corp builds rockets.", wrapped["raw_content"])
	assert.NotEmpty(t, wrapped["note"])

	_, isMap := doc.Stages["questions"].(map[string]any)
	assert.True(t, isMap)

	assert.NotEmpty(t, doc.RunID)
	assert.NotEmpty(t, doc.ContentHash)
}

func TestBuildPartialResults(t *testing.T) {
	doc := Build("Acme", map[string]any{"company_details": "profile text"}, nil)
	assert.Len(t, doc.Stages, 1)
	assert.Contains(t, doc.Stages, "company_details")
}

func TestWriteAndReload(t *testing.T) {
	dir := t.TempDir()
	doc := Build("Acme Corp", sampleResults(), nil)

	path, err := doc.Write(dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimPrefix(path, dir+"/"), "audit_acme_corp_"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var reloaded Document
	require.NoError(t, json.Unmarshal(data, &reloaded))
	assert.Equal(t, doc.Subject, reloaded.Subject)
	assert.Equal(t, doc.ContentHash, reloaded.ContentHash)
	assert.Contains(t, reloaded.Stages, "scores")
}

func TestValidateCleanDocument(t *testing.T) {
	doc := Build("Acme", sampleResults(), nil)
	issues, err := Validate(doc)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidateReportsShapeDrift(t *testing.T) {
	results := sampleResults()
	results["answers"] = map[string]any{"answers_list": []any{}}

	doc := Build("Acme", results, nil)
	issues, err := Validate(doc)
	require.NoError(t, err)
	require.NotEmpty(t, issues)
	assert.Equal(t, "answers", issues[0].Stage)
}

func TestValidateSkipsRawTextStages(t *testing.T) {
	results := sampleResults()
	results["answers"] = "total refusal, no structure"

	doc := Build("Acme", results, nil)
	issues, err := Validate(doc)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestSummary(t *testing.T) {
	doc := Build("Acme Corp", sampleResults(), nil)

	var sb strings.Builder
	require.NoError(t, Summary(&sb, doc))
	out := sb.String()

	assert.Contains(t, out, "Audit report for Acme Corp")
	assert.Contains(t, out, "3 questions from 2 stakeholder perspectives")
	assert.Contains(t, out, "customer, investor")
	assert.Contains(t, out, "1 answers provided")
	assert.Contains(t, out, "sentiment: Neutral=1")
	assert.Contains(t, out, "confidence: Low=1")
	assert.Contains(t, out, "average logical consistency: 9/10")
	assert.Contains(t, out, "overall risk signal: Medium")
}

func TestSummaryWithUnparsedStage(t *testing.T) {
	results := sampleResults()
	results["scores"] = "no json here"

	var sb strings.Builder
	require.NoError(t, Summary(&sb, Build("Acme", results, nil)))
	assert.Contains(t, sb.String(), "unparsed (12 characters of raw text)")
}
