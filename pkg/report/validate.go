package report

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/questions.json
var questionsSchema string

//go:embed schemas/answers.json
var answersSchema string

//go:embed schemas/scores.json
var scoresSchema string

var stageSchemas = map[string]string{
	"questions": questionsSchema,
	"answers":   answersSchema,
	"scores":    scoresSchema,
}

// Issue is a single advisory validation finding.
type Issue struct {
	Stage   string
	Field   string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Stage, i.Field, i.Message)
}

// Validate checks the structured stages of a document against their
// expected shapes. Findings are advisory: the caller logs them and
// persists the document regardless. Raw-text stages and absent stages are
// skipped; there is nothing to hold them to.
func Validate(doc *Document) ([]Issue, error) {
	unparsed := make(map[string]bool)
	for _, key := range doc.Unparsed() {
		unparsed[key] = true
	}

	var issues []Issue
	for stage, schema := range stageSchemas {
		value, ok := doc.Stages[stage]
		if !ok || unparsed[stage] {
			continue
		}

		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal stage %s: %w", stage, err)
		}

		result, err := gojsonschema.Validate(
			gojsonschema.NewStringLoader(schema),
			gojsonschema.NewBytesLoader(data),
		)
		if err != nil {
			return nil, fmt.Errorf("schema validation failed for stage %s: %w", stage, err)
		}

		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			issues = append(issues, Issue{
				Stage:   stage,
				Field:   field,
				Message: desc.Description(),
			})
		}
	}
	return issues, nil
}
