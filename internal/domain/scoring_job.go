package domain

import (
	"context"
	"encoding/json"
	"time"
)

// JobStatus is the scoring job lifecycle state (§3, §4.7). Transitions
// follow pending → processing → {completed | failed}; the only backward
// transition is an explicit retry, which resets status to pending.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// MaxRetryCount caps retry_count per §3 invariant 6 and §8 boundary
// behavior (retry_count=5 rejects further retries).
const MaxRetryCount = 5

// DefaultScoringModel is the model used when a scoring request omits one.
const DefaultScoringModel = "claude-sonnet-4-5"

// DefaultMaxTokens bounds max_tokens when the caller omits it.
const DefaultMaxTokens = 1024

// JobError holds the classification of a failed scoring job.
type JobError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	RetryCount int    `json:"retry_count"`
}

// Error classification codes for scoring job failures.
const (
	ErrLLMBadJSON       = "LLM_BAD_JSON"
	ErrLLMNetwork       = "LLM_NETWORK"
	ErrLLMTimeout       = "LLM_TIMEOUT"
	ErrLLMRateLimited   = "LLM_RATE_LIMITED"
	ErrLLMInvalidKey    = "LLM_INVALID_API_KEY"
	ErrLLMInvalidModel  = "LLM_INVALID_MODEL"
	ErrLLMContentLength = "LLM_CONTENT_TOO_LONG"
)

// RetryableErrorCodes are the classifications that permit retry (§4.7).
var RetryableErrorCodes = map[string]bool{
	ErrLLMBadJSON:     true,
	ErrLLMNetwork:     true,
	ErrLLMTimeout:     true,
	ErrLLMRateLimited: true,
}

// ScoringJob represents one asynchronous LLM evaluation of a profile.
type ScoringJob struct {
	ID        string `json:"id"`
	ProfileID string `json:"profile_id" validate:"required"`

	Prompt      string  `json:"prompt" validate:"required"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature" validate:"min=0,max=1"`

	Status JobStatus `json:"status"`

	RawResponse  string          `json:"raw_response,omitempty"`
	ParsedScore  json.RawMessage `json:"parsed_score,omitempty"`
	TokensUsed   int             `json:"tokens_used,omitempty"`
	ModelUsed    string          `json:"model_used,omitempty"`

	Error *JobError `json:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	FailedAt    *time.Time `json:"failed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewScoringJob constructs a pending job with defaults applied for model,
// max_tokens, and temperature.
func NewScoringJob(profileID, prompt string, model string, maxTokens int, temperature float64) *ScoringJob {
	now := time.Now().UTC()
	if model == "" {
		model = DefaultScoringModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &ScoringJob{
		ProfileID:   profileID,
		Prompt:      prompt,
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Status:      JobStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CanRetry reports whether a failed job may be retried (§8 boundary:
// retry_count=5 is terminal).
func (j *ScoringJob) CanRetry() bool {
	if j.Status != JobStatusFailed {
		return false
	}
	if j.Error == nil {
		return false
	}
	return j.Error.RetryCount < MaxRetryCount
}

// ScoringJobRepository is the logical persistence contract for scoring
// jobs (§4.6, §4.7).
type ScoringJobRepository interface {
	Create(ctx context.Context, job *ScoringJob) error
	GetByID(ctx context.Context, id string) (*ScoringJob, error)
	// ClaimPending performs the atomic pending→processing compare-and-swap
	// transition (§4.7 concurrency) and reports whether this caller won
	// the race.
	ClaimPending(ctx context.Context, id string) (bool, error)
	Complete(ctx context.Context, id string, rawResponse string, parsedScore json.RawMessage, tokensUsed int, modelUsed string) error
	Fail(ctx context.Context, id string, jobErr JobError) error
	ResetForRetry(ctx context.Context, id string) error
	// ListPending returns ids of jobs awaiting a worker, feeding the
	// background worker pool (§4.7).
	ListPending(ctx context.Context, limit int) ([]string, error)
	// CountRecentByProfile counts jobs created for profileID since the
	// given time. The per-profile scoring rate limit (§6) does not use it;
	// that limit is applied by the HTTP rate-limit middleware.
	CountRecentByProfile(ctx context.Context, profileID string, since time.Time) (int, error)
	// DeleteOlderThan sweeps completed/failed jobs past the retention
	// window (§3 lifecycle, default 7 days).
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
