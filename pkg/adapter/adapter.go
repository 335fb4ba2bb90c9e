// Package adapter provides LLM provider adapters and oracle spec resolution.
package adapter

import (
	"context"

	"github.com/zen-systems/auditflow/pkg/content"
)

// Adapter defines the interface for LLM provider adapters.
type Adapter interface {
	// Generate sends a prompt to the model and returns its response.
	Generate(ctx context.Context, model string, prompt string) (*Response, error)

	// Name returns the adapter's identifier.
	Name() string

	// Models returns the list of supported models. The first entry is the
	// provider's default.
	Models() []string
}

// Response wraps a provider response body and optional usage data.
type Response struct {
	Body  content.Body
	Usage *Usage
}

// Usage captures normalized token usage.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
