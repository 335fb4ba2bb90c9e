// Package config loads auditflow configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GoogleAPIKey    string
	GroqAPIKey      string
	Stages          StageSpecs
	Retry           RetrySettings
	ConfigDir       string
}

// StageSpecs maps each pipeline stage to an oracle specification of the
// form "provider" or "provider:model".
type StageSpecs struct {
	Details   string `yaml:"details"`
	Questions string `yaml:"questions"`
	Answers   string `yaml:"answers"`
	Scores    string `yaml:"scores"`
}

// RetrySettings tunes the invocation retry budget.
type RetrySettings struct {
	MaxAttempts         int `yaml:"max_attempts"`
	InitialWaitMs       int `yaml:"initial_wait_ms"`
	AnswerInitialWaitMs int `yaml:"answer_initial_wait_ms"`
}

// FileConfig represents the structure of ~/.auditflow/config.yaml
type FileConfig struct {
	APIKeys APIKeysConfig `yaml:"api_keys"`
	Stages  StageSpecs    `yaml:"stages"`
	Retry   RetrySettings `yaml:"retry"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	Anthropic string `yaml:"anthropic"`
	OpenAI    string `yaml:"openai"`
	Google    string `yaml:"google"`
	Groq      string `yaml:"groq"`
}

// Load reads configuration from the default config directory and
// environment variables. Environment variables take precedence over file
// configuration.
func Load() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	return LoadFromDir(configDir)
}

// LoadFromDir reads configuration rooted at a specific directory.
func LoadFromDir(configDir string) (*Config, error) {
	fileConfig := loadFileConfig(filepath.Join(configDir, "config.yaml"))

	cfg := &Config{
		AnthropicAPIKey: getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		OpenAIAPIKey:    getEnvOrDefault("OPENAI_API_KEY", fileConfig.APIKeys.OpenAI),
		GoogleAPIKey:    getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google),
		GroqAPIKey:      getEnvOrDefault("GROQ_API_KEY", fileConfig.APIKeys.Groq),
		Stages:          fileConfig.Stages,
		Retry:           fileConfig.Retry,
		ConfigDir:       configDir,
	}

	applyDefaults(cfg)
	return cfg, nil
}

// HasAdapter returns true if the API key for the given provider is
// configured.
func (c *Config) HasAdapter(name string) bool {
	switch name {
	case "anthropic":
		return c.AnthropicAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	case "google":
		return c.GoogleAPIKey != ""
	case "groq":
		return c.GroqAPIKey != ""
	default:
		return false
	}
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) *FileConfig {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg // Return empty config if file doesn't exist
	}

	_ = yaml.Unmarshal(data, cfg) // Ignore parse errors, use defaults
	return cfg
}

// applyDefaults fills unset fields with the stock configuration: Gemini
// gathers details, Groq generates and answers questions, OpenAI scores.
func applyDefaults(cfg *Config) {
	if cfg.Stages.Details == "" {
		cfg.Stages.Details = "google"
	}
	if cfg.Stages.Questions == "" {
		cfg.Stages.Questions = "groq"
	}
	if cfg.Stages.Answers == "" {
		cfg.Stages.Answers = "groq"
	}
	if cfg.Stages.Scores == "" {
		cfg.Stages.Scores = "openai"
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.InitialWaitMs == 0 {
		cfg.Retry.InitialWaitMs = 2000
	}
	if cfg.Retry.AnswerInitialWaitMs == 0 {
		cfg.Retry.AnswerInitialWaitMs = 3000
	}
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".auditflow")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
