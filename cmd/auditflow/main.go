package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zen-systems/auditflow/pkg/adapter"
	"github.com/zen-systems/auditflow/pkg/audit"
	"github.com/zen-systems/auditflow/pkg/config"
	"github.com/zen-systems/auditflow/pkg/recovery"
	"github.com/zen-systems/auditflow/pkg/report"
	"github.com/zen-systems/auditflow/pkg/retry"
)

var (
	configDir string
	verbose   bool
	logger    *zap.Logger
)

func main() {
	// Missing .env is fine; keys may come from the config file or shell.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "auditflow",
		Short: "Four-stage LLM company audit pipeline",
		Long: `Auditflow drives a four-stage sequence of LLM calls to produce a
structured audit report about a company: gather a profile, generate
stakeholder questions, answer them, then score the answers. Each stage
can be backed by a different provider.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zapConfig := zap.NewProductionConfig()
			if verbose {
				zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zapConfig.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "path to config directory (default ~/.auditflow)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(parseCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configDir != "" {
		return config.LoadFromDir(configDir)
	}
	return config.Load()
}

// buildRegistry registers an adapter for every provider with a configured
// key. The mock adapter is only registered when asked for.
func buildRegistry(cfg *config.Config, withMock bool) (*adapter.Registry, error) {
	reg := adapter.NewRegistry()

	if cfg.AnthropicAPIKey != "" {
		a, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, err
		}
		reg.Register(a)
	}
	if cfg.OpenAIAPIKey != "" {
		a, err := adapter.NewOpenAIAdapter(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, err
		}
		reg.Register(a)
	}
	if cfg.GoogleAPIKey != "" {
		a, err := adapter.NewGoogleAdapter(cfg.GoogleAPIKey)
		if err != nil {
			return nil, err
		}
		reg.Register(a)
	}
	if cfg.GroqAPIKey != "" {
		a, err := adapter.NewGroqAdapter(cfg.GroqAPIKey)
		if err != nil {
			return nil, err
		}
		reg.Register(a)
	}
	if withMock {
		reg.Register(adapter.NewMockAdapter())
	}

	return reg, nil
}

func pipelineConfig(subject string, cfg *config.Config) audit.Config {
	base := retry.Config{
		MaxAttempts: cfg.Retry.MaxAttempts,
		InitialWait: time.Duration(cfg.Retry.InitialWaitMs) * time.Millisecond,
	}
	answers := base
	answers.InitialWait = time.Duration(cfg.Retry.AnswerInitialWaitMs) * time.Millisecond

	return audit.Config{
		Subject: subject,
		Specs: map[audit.Stage]string{
			audit.StageDetails:   cfg.Stages.Details,
			audit.StageQuestions: cfg.Stages.Questions,
			audit.StageAnswers:   cfg.Stages.Answers,
			audit.StageScores:    cfg.Stages.Scores,
		},
		Retry:      base,
		StageRetry: map[audit.Stage]retry.Config{audit.StageAnswers: answers},
	}
}

func runCmd() *cobra.Command {
	var outputDir string
	var noSave bool
	var useMock bool

	cmd := &cobra.Command{
		Use:   "run [company]",
		Short: "Run the full four-stage audit for a company",
		Long: `Runs all four stages in order. The pipeline halts at the first
failing stage; results gathered before the halt are still summarized
and written to the report file.

Use --mock to back every stage with the deterministic mock adapter,
for local dry runs without API keys.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if useMock {
				cfg.Stages = config.StageSpecs{Details: "mock", Questions: "mock", Answers: "mock", Scores: "mock"}
			}

			reg, err := buildRegistry(cfg, useMock)
			if err != nil {
				return err
			}

			pipe, err := audit.New(pipelineConfig(subject, cfg), reg, logger)
			if err != nil {
				return err
			}

			runErr := pipe.Run(cmd.Context())

			oracles := make(map[string]string)
			for _, stage := range audit.Stages() {
				oracles[stage.Key()] = pipe.Target(stage).Spec()
			}
			doc := report.Build(subject, pipe.Results(), oracles)

			issues, err := report.Validate(doc)
			if err != nil {
				logger.Warn("schema validation unavailable", zap.Error(err))
			}
			for _, issue := range issues {
				logger.Warn("stage output shape drift", zap.String("issue", issue.String()))
			}

			if err := report.Summary(cmd.OutOrStdout(), doc); err != nil {
				return err
			}

			if !noSave && len(doc.Stages) > 0 {
				path, err := doc.Write(outputDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nReport written to %s\n", path)
			}

			if runErr != nil {
				return runErr
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "output", "directory for report files")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "skip writing the report file")
	cmd.Flags().BoolVar(&useMock, "mock", false, "back all stages with the mock adapter")

	return cmd
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List configured providers and their models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			reg, err := buildRegistry(cfg, false)
			if err != nil {
				return err
			}

			names := reg.Names()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No providers configured. Set API keys in the environment or config file.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tMODEL\tDEFAULT")
			for _, name := range names {
				a, _ := reg.Get(name)
				for i, model := range a.Models() {
					def := ""
					if i == 0 {
						def = "*"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", name, model, def)
				}
			}
			return w.Flush()
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every configured stage spec resolves",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			reg, err := buildRegistry(cfg, false)
			if err != nil {
				return err
			}

			specs := map[string]string{
				"details":   cfg.Stages.Details,
				"questions": cfg.Stages.Questions,
				"answers":   cfg.Stages.Answers,
				"scores":    cfg.Stages.Scores,
			}

			failed := false
			for _, stage := range []string{"details", "questions", "answers", "scores"} {
				spec := specs[stage]
				target, err := reg.Resolve(spec)
				if err != nil {
					failed = true
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL  %s: %v\n", stage, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "OK    %s: %s\n", stage, target.Spec())
			}

			if failed {
				return fmt.Errorf("configuration is not runnable")
			}
			return nil
		},
	}
}

func jsonIndent(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render recovered value: %w", err)
	}
	return string(data), nil
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Run text through the structured-output recovery parser",
		Long: `Reads model output from a file (or stdin when omitted), applies the
recovery cascade, and prints the result: recovered JSON, or the
original text when nothing could be structured.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			parser := recovery.Parser{Logger: logger}
			value := parser.Parse("parse", string(data))

			if text, ok := value.(string); ok {
				fmt.Fprintln(cmd.ErrOrStderr(), "no structure recovered; passing text through")
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}

			out, err := jsonIndent(value)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
