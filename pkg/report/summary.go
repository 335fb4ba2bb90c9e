package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Summary writes a human-readable digest of the document: what each stage
// produced, question counts per stakeholder, answer sentiment and
// confidence distributions, and the headline evaluation scores.
func Summary(w io.Writer, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	root := gjson.ParseBytes(data)

	fmt.Fprintf(w, "Audit report for %s (run %s)\n", doc.Subject, doc.RunID)

	if details := root.Get("stages.company_details"); details.Exists() {
		text := details.Get("raw_content")
		length := len(details.Raw)
		if text.Exists() {
			length = len(text.String())
		}
		fmt.Fprintf(w, "\n[company_details]\n  %d characters of company information\n", length)
	}

	if questions := root.Get("stages.questions"); questions.Exists() {
		fmt.Fprintf(w, "\n[questions]\n")
		summarizeQuestions(w, questions)
	}

	if answers := root.Get("stages.answers"); answers.Exists() {
		fmt.Fprintf(w, "\n[answers]\n")
		summarizeAnswers(w, answers)
	}

	if scores := root.Get("stages.scores"); scores.Exists() {
		fmt.Fprintf(w, "\n[scores]\n")
		summarizeScores(w, scores)
	}

	return nil
}

func summarizeQuestions(w io.Writer, questions gjson.Result) {
	if questions.Get("raw_content").Exists() {
		fmt.Fprintf(w, "  unparsed (%d characters of raw text)\n", len(questions.Get("raw_content").String()))
		return
	}

	total := 0
	var stakeholders []string
	questions.ForEach(func(key, value gjson.Result) bool {
		if value.IsArray() && strings.HasSuffix(key.String(), "_questions") {
			stakeholders = append(stakeholders, strings.TrimSuffix(key.String(), "_questions"))
			total += len(value.Array())
		}
		return true
	})
	sort.Strings(stakeholders)

	fmt.Fprintf(w, "  %d questions from %d stakeholder perspectives\n", total, len(stakeholders))
	if len(stakeholders) > 0 {
		fmt.Fprintf(w, "  stakeholders: %s\n", strings.Join(stakeholders, ", "))
	}
}

func summarizeAnswers(w io.Writer, answers gjson.Result) {
	if answers.Get("raw_content").Exists() {
		fmt.Fprintf(w, "  unparsed (%d characters of raw text)\n", len(answers.Get("raw_content").String()))
		return
	}

	responses := answers.Get("responses")
	fmt.Fprintf(w, "  %d answers provided\n", len(responses.Array()))

	fmt.Fprintf(w, "  sentiment: %s\n", distribution(responses, "sentiment"))
	fmt.Fprintf(w, "  confidence: %s\n", distribution(responses, "confidence"))
}

func summarizeScores(w io.Writer, scores gjson.Result) {
	if scores.Get("raw_content").Exists() {
		fmt.Fprintf(w, "  unparsed (%d characters of raw text)\n", len(scores.Get("raw_content").String()))
		return
	}

	fmt.Fprintf(w, "  %d responses evaluated\n", len(scores.Get("evaluation_results").Array()))

	summary := scores.Get("overall_summary")
	if !summary.Exists() {
		return
	}
	fmt.Fprintf(w, "  average logical consistency: %s/10\n", orNA(summary.Get("average_logical_score")))
	fmt.Fprintf(w, "  average completeness: %s/10\n", orNA(summary.Get("average_completeness_score")))
	fmt.Fprintf(w, "  average clarity: %s/10\n", orNA(summary.Get("average_clarity_score")))
	fmt.Fprintf(w, "  dominant sentiment trend: %s\n", orNA(summary.Get("dominant_sentiment_trend")))
	fmt.Fprintf(w, "  overall risk signal: %s\n", orNA(summary.Get("overall_company_risk_signal")))
}

// distribution counts values of field across an array of objects and
// renders them as "value=count" pairs in sorted order.
func distribution(results gjson.Result, field string) string {
	counts := make(map[string]int)
	for _, item := range results.Array() {
		value := item.Get(field).String()
		if value == "" {
			value = "Unknown"
		}
		counts[value]++
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", key, counts[key]))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

func orNA(r gjson.Result) string {
	if !r.Exists() {
		return "N/A"
	}
	return r.String()
}
