package workflow

import (
	"errors"
	"testing"
)

func TestIsRetryable_TrueForTransientErrors(t *testing.T) {
	cases := []error{
		&NetworkError{Err: errors.New("dial tcp: connection refused")},
		&TimeoutError{Err: errors.New("context deadline exceeded")},
		&RateLimitedError{Status: 429},
	}
	for _, err := range cases {
		if !isRetryable(err) {
			t.Errorf("expected %T to be retryable", err)
		}
	}
}

func TestIsRetryable_FalseForTerminalErrors(t *testing.T) {
	cases := []error{
		&RemoteWorkflowError{Status: 404, BodyExcerpt: "not found"},
		&InvalidPayloadError{Err: errors.New("unexpected end of JSON input")},
		errors.New("some other error"),
	}
	for _, err := range cases {
		if isRetryable(err) {
			t.Errorf("expected %T not to be retryable", err)
		}
	}
}
