package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroqTestAdapter(handler http.HandlerFunc) (*GroqAdapter, *httptest.Server) {
	srv := httptest.NewServer(handler)
	a := &GroqAdapter{
		apiKey:     "test-key",
		baseURL:    srv.URL,
		httpClient: srv.Client(),
	}
	return a, srv
}

func TestGroqGenerateSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq groqRequest
	var decodeErr error

	a, srv := newGroqTestAdapter(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		decodeErr = json.NewDecoder(r.Body).Decode(&gotReq)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "forty-two"}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
		}`))
	})
	defer srv.Close()

	resp, err := a.Generate(context.Background(), "llama-3.3-70b-versatile", "the question")
	require.NoError(t, err)
	require.NoError(t, decodeErr)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "llama-3.3-70b-versatile", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "the question", gotReq.Messages[0].Content)

	assert.Equal(t, "forty-two", resp.Body.Text())
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 10, resp.Usage.PromptTokens)
	assert.Equal(t, 2, resp.Usage.CompletionTokens)
	assert.Equal(t, 12, resp.Usage.TotalTokens)
}

func TestGroqGenerateErrorEnvelope(t *testing.T) {
	a, srv := newGroqTestAdapter(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit reached", "type": "requests", "code": "rate_limit_exceeded"}}`))
	})
	defer srv.Close()

	_, err := a.Generate(context.Background(), "llama-3.3-70b-versatile", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit reached")
	assert.Contains(t, err.Error(), "rate_limit_exceeded")
	assert.True(t, IsTransient(err))
}

func TestGroqGenerateNon200WithoutEnvelope(t *testing.T) {
	a, srv := newGroqTestAdapter(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{}`))
	})
	defer srv.Close()

	_, err := a.Generate(context.Background(), "llama-3.3-70b-versatile", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
	assert.True(t, IsTransient(err))
}

func TestGroqGenerateNoChoices(t *testing.T) {
	a, srv := newGroqTestAdapter(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	})
	defer srv.Close()

	_, err := a.Generate(context.Background(), "llama-3.3-70b-versatile", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
	assert.False(t, IsTransient(err))
}

func TestGroqGenerateConnectionFailureIsTransient(t *testing.T) {
	a, srv := newGroqTestAdapter(func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := a.Generate(context.Background(), "llama-3.3-70b-versatile", "p")
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}
