package adapter

import (
	"context"
	"fmt"

	"github.com/zen-systems/auditflow/pkg/content"
)

// MockAdapter returns deterministic responses for local runs and tests.
// It records every prompt it receives and can be scripted to fail a number
// of leading calls or to return canned responses in order.
type MockAdapter struct {
	responses       map[string]string
	script          []string
	defaultResponse string
	failFirst       int
	calls           int

	// Prompts holds every prompt passed to Generate, in order.
	Prompts []string
	// Err, when set, makes every call fail.
	Err error
	// Usage is attached to successful responses when set.
	Usage *Usage
}

// NewMockAdapter creates a mock adapter with a default response.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		responses:       make(map[string]string),
		defaultResponse: "mock response:",
	}
}

// NewMockAdapterWithResponses creates a mock adapter with per-prompt
// responses.
func NewMockAdapterWithResponses(responses map[string]string, defaultResponse string) *MockAdapter {
	if defaultResponse == "" {
		defaultResponse = "mock response:"
	}
	return &MockAdapter{responses: responses, defaultResponse: defaultResponse}
}

// NewMockAdapterWithScript creates a mock adapter that replays responses in
// order, repeating the last one once exhausted.
func NewMockAdapterWithScript(script ...string) *MockAdapter {
	return &MockAdapter{script: script, defaultResponse: "mock response:"}
}

// FailFirst makes the next n calls return a transient error before the
// scripted behavior resumes.
func (a *MockAdapter) FailFirst(n int) *MockAdapter {
	a.failFirst = n
	return a
}

// Name returns the adapter identifier.
func (a *MockAdapter) Name() string {
	return "mock"
}

// Models returns the list of supported mock models.
func (a *MockAdapter) Models() []string {
	return []string{"mock-1"}
}

// Calls returns how many times Generate has been invoked.
func (a *MockAdapter) Calls() int {
	return a.calls
}

// Generate returns a deterministic response for the prompt.
func (a *MockAdapter) Generate(_ context.Context, _ string, prompt string) (*Response, error) {
	a.calls++
	a.Prompts = append(a.Prompts, prompt)

	if a.Err != nil {
		return nil, a.Err
	}
	if a.failFirst > 0 {
		a.failFirst--
		return nil, &AdapterError{Temporary: true, Err: fmt.Errorf("mock transient failure")}
	}

	if response, ok := a.responses[prompt]; ok {
		return a.respond(response), nil
	}
	if len(a.script) > 0 {
		response := a.script[0]
		if len(a.script) > 1 {
			a.script = a.script[1:]
		}
		return a.respond(response), nil
	}
	return a.respond(fmt.Sprintf("%s\n%s", a.defaultResponse, prompt)), nil
}

func (a *MockAdapter) respond(text string) *Response {
	return &Response{Body: content.FromText(text), Usage: a.Usage}
}
