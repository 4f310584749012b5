package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/jexpert/profile-enrichment/internal/domain"
)

// ClassifiedError carries the domain error-code classification for a
// scoring job failure (§4.7, §7) alongside the underlying error.
type ClassifiedError struct {
	Code string
	Err  error
}

func (e *ClassifiedError) Error() string { return e.Err.Error() }
func (e *ClassifiedError) Unwrap() error { return e.Err }

// classifyAnthropicError maps an error returned by the Anthropic SDK onto
// the job error-code taxonomy (§4.7's retryable/terminal split).
func classifyAnthropicError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClassifiedError{Code: domain.ErrLLMTimeout, Err: err}
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return &ClassifiedError{Code: domain.ErrLLMRateLimited, Err: err}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &ClassifiedError{Code: domain.ErrLLMInvalidKey, Err: err}
		case http.StatusNotFound:
			return &ClassifiedError{Code: domain.ErrLLMInvalidModel, Err: err}
		case http.StatusRequestEntityTooLarge:
			return &ClassifiedError{Code: domain.ErrLLMContentLength, Err: err}
		default:
			if apiErr.StatusCode >= 500 {
				return &ClassifiedError{Code: domain.ErrLLMNetwork, Err: err}
			}
		}
	}

	return &ClassifiedError{Code: domain.ErrLLMNetwork, Err: err}
}
