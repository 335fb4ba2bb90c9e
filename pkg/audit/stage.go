// Package audit runs the four-stage company audit pipeline: gather details,
// generate stakeholder questions, answer them, then score the answers. Each
// stage consumes the stored results of earlier stages and the pipeline halts
// at the first stage that fails.
package audit

import "fmt"

// Stage is one of the four ordered pipeline steps.
type Stage int

const (
	// StageDetails gathers a free-prose company profile.
	StageDetails Stage = iota + 1
	// StageQuestions generates stakeholder questions from the profile.
	StageQuestions
	// StageAnswers answers the questions against the profile.
	StageAnswers
	// StageScores evaluates and scores the answers.
	StageScores
)

// Stages returns all stages in execution order.
func Stages() []Stage {
	return []Stage{StageDetails, StageQuestions, StageAnswers, StageScores}
}

// Ordinal returns the 1-based position of the stage.
func (s Stage) Ordinal() int {
	return int(s)
}

// String returns the stage's human identifier.
func (s Stage) String() string {
	switch s {
	case StageDetails:
		return "gather_details"
	case StageQuestions:
		return "generate_questions"
	case StageAnswers:
		return "answer_questions"
	case StageScores:
		return "score_results"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Key returns the stage's key in the result mapping and persisted report.
func (s Stage) Key() string {
	switch s {
	case StageDetails:
		return "company_details"
	case StageQuestions:
		return "questions"
	case StageAnswers:
		return "answers"
	case StageScores:
		return "scores"
	default:
		return s.String()
	}
}

// Status tracks a stage's lifecycle within a single pipeline run. A stage
// transitions away from pending exactly once, in ordinal order.
type Status int

const (
	StatusPending Status = iota
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}
