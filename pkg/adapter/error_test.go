package adapter

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"rate limited", &AdapterError{Status: 429}, true},
		{"server error", &AdapterError{Status: 503}, true},
		{"client error", &AdapterError{Status: 400}, false},
		{"temporary flag", &AdapterError{Temporary: true}, true},
		{"wrapped adapter error", fmt.Errorf("stage: %w", &AdapterError{Status: 500}), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTransient(tc.err))
		})
	}
}

func TestAdapterErrorMessage(t *testing.T) {
	err := &AdapterError{Status: 429}
	assert.Equal(t, "adapter error (status=429)", err.Error())

	wrapped := &AdapterError{Err: errors.New("quota exceeded")}
	assert.Equal(t, "quota exceeded", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "quota exceeded")
}
