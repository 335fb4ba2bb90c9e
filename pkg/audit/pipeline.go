package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/zen-systems/auditflow/pkg/adapter"
	"github.com/zen-systems/auditflow/pkg/recovery"
	"github.com/zen-systems/auditflow/pkg/retry"
)

// Config describes a pipeline run: the subject company, the oracle spec
// backing each stage, and the retry budget. Specs are resolved against the
// registry at construction so a misconfigured stage fails before stage 1
// runs.
type Config struct {
	// Subject is the company under audit.
	Subject string
	// Specs maps every stage to an oracle specification. All four stages
	// must be present.
	Specs map[Stage]string
	// Retry applies to every stage's invocation.
	Retry retry.Config
	// StageRetry overrides Retry for individual stages.
	StageRetry map[Stage]retry.Config
}

// Pipeline executes the four audit stages sequentially, accumulating each
// stage's recovered result keyed by Stage.Key. Results are write-once: a
// stored value is never mutated, and a failed stage leaves every earlier
// result intact and queryable.
type Pipeline struct {
	subject string
	specs   map[Stage]string
	targets map[Stage]adapter.Target
	retries map[Stage]retry.Config
	status  map[Stage]Status
	results map[string]any
	parser  recovery.Parser
	logger  *zap.Logger
}

// stagePlan is the per-stage instantiation of the common execution
// template: which prior results a stage needs and how it builds its prompt
// from them.
type stagePlan struct {
	stage    Stage
	requires []Stage
	prompt   func(p *Pipeline) string
}

// New validates and resolves the configuration. Every stage spec must
// resolve against the registry; any failure aborts construction before a
// single stage can run.
func New(cfg Config, reg *adapter.Registry, logger *zap.Logger) (*Pipeline, error) {
	if cfg.Subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	targets := make(map[Stage]adapter.Target, len(Stages()))
	specs := make(map[Stage]string, len(Stages()))
	retries := make(map[Stage]retry.Config, len(Stages()))
	status := make(map[Stage]Status, len(Stages()))

	for _, stage := range Stages() {
		spec, ok := cfg.Specs[stage]
		if !ok {
			return nil, fmt.Errorf("no oracle spec configured for stage %s", stage)
		}
		target, err := reg.Resolve(spec)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage, err)
		}
		targets[stage] = target
		specs[stage] = spec
		status[stage] = StatusPending

		stageRetry, ok := cfg.StageRetry[stage]
		if !ok {
			stageRetry = cfg.Retry
		}
		retries[stage] = stageRetry
	}

	p := &Pipeline{
		subject: cfg.Subject,
		specs:   specs,
		targets: targets,
		retries: retries,
		status:  status,
		results: make(map[string]any, len(Stages())),
		parser:  recovery.Parser{Logger: logger},
		logger:  logger,
	}

	logger.Info("pipeline initialized",
		zap.String("subject", cfg.Subject),
		zap.String("gather_details", targets[StageDetails].Spec()),
		zap.String("generate_questions", targets[StageQuestions].Spec()),
		zap.String("answer_questions", targets[StageAnswers].Spec()),
		zap.String("score_results", targets[StageScores].Spec()))

	return p, nil
}

// Subject returns the company under audit.
func (p *Pipeline) Subject() string {
	return p.subject
}

// Status returns the stage's current lifecycle state.
func (p *Pipeline) Status(stage Stage) Status {
	return p.status[stage]
}

// Target returns the resolved oracle target for a stage.
func (p *Pipeline) Target(stage Stage) adapter.Target {
	return p.targets[stage]
}

// Results returns a copy of the accumulated stage-keyed results. After a
// mid-pipeline failure it holds exactly the stages that completed.
func (p *Pipeline) Results() map[string]any {
	out := make(map[string]any, len(p.results))
	for k, v := range p.results {
		out[k] = v
	}
	return out
}

// Run executes the four stages in order, halting at the first failure.
// Results accumulated before the failure remain available via Results.
func (p *Pipeline) Run(ctx context.Context) error {
	for _, step := range p.plan() {
		if err := p.runStage(ctx, step); err != nil {
			return err
		}
	}
	p.logger.Info("pipeline completed", zap.String("subject", p.subject))
	return nil
}

// plan returns the stage execution table. Prompt builders read prior
// results through serialized, so structured values are embedded as indented
// JSON and raw text is embedded verbatim.
func (p *Pipeline) plan() []stagePlan {
	return []stagePlan{
		{
			stage: StageDetails,
			prompt: func(p *Pipeline) string {
				return detailsPrompt(p.subject)
			},
		},
		{
			stage:    StageQuestions,
			requires: []Stage{StageDetails},
			prompt: func(p *Pipeline) string {
				return questionsPrompt(p.serialized(StageDetails))
			},
		},
		{
			stage:    StageAnswers,
			requires: []Stage{StageDetails, StageQuestions},
			prompt: func(p *Pipeline) string {
				return answersPrompt(p.serialized(StageDetails), p.serialized(StageQuestions))
			},
		},
		{
			stage:    StageScores,
			requires: []Stage{StageQuestions, StageAnswers},
			prompt: func(p *Pipeline) string {
				return scoresPrompt(p.serialized(StageQuestions), p.serialized(StageAnswers))
			},
		},
	}
}

func (p *Pipeline) runStage(ctx context.Context, step stagePlan) error {
	stage := step.stage
	target := p.targets[stage]
	logger := p.logger.With(
		zap.Int("stage", stage.Ordinal()),
		zap.String("name", stage.String()),
		zap.String("oracle", target.Spec()))

	for _, required := range step.requires {
		if _, ok := p.results[required.Key()]; !ok {
			p.status[stage] = StatusFailed
			err := fmt.Errorf("stage %s: required input from stage %s is missing", stage, required)
			logger.Error("missing required input", zap.String("required", required.String()))
			return err
		}
	}

	prompt := step.prompt(p)
	logger.Info("stage started", zap.Int("prompt_chars", len(prompt)))

	label := fmt.Sprintf("%s (%s)", stage, target.Spec())
	resp, err := retry.Do(ctx, p.retries[stage], logger, label, func(ctx context.Context) (*adapter.Response, error) {
		return target.Adapter.Generate(ctx, target.Model, prompt)
	})
	if err != nil {
		p.status[stage] = StatusFailed
		logger.Error("stage failed",
			zap.Error(err),
			zap.Bool("transient", adapter.IsTransient(err)))
		return fmt.Errorf("stage %s: %w", stage, err)
	}

	text := resp.Body.Text()
	value := p.parser.Parse(stage.Key(), text)

	p.results[stage.Key()] = value
	p.status[stage] = StatusSucceeded

	_, isText := value.(string)
	fields := []zap.Field{
		zap.Int("response_chars", len(text)),
		zap.Bool("structured", !isText),
	}
	if resp.Usage != nil {
		fields = append(fields, zap.Int("total_tokens", resp.Usage.TotalTokens))
	}
	logger.Info("stage succeeded", fields...)

	return nil
}

// serialized renders a stored stage result for prompt embedding: strings
// verbatim, structured values as indented JSON.
func (p *Pipeline) serialized(stage Stage) string {
	v := p.results[stage.Key()]
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
