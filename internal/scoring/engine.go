// Package scoring implements the Scoring Job Engine (C7): prompt
// resolution, deterministic profile serialization, LLM invocation, JSON
// validation, and the retry/retention policy around it.
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/internal/llm"
	"github.com/jexpert/profile-enrichment/pkg/logger"
)

// DefaultLLMTimeout is the per-invocation LLM timeout (§4.7 step 4).
const DefaultLLMTimeout = 60 * time.Second

// Engine processes one scoring job end to end.
type Engine struct {
	jobs      domain.ScoringJobRepository
	profiles  domain.ProfileRepository
	edges     domain.EdgeRepository
	orgs      domain.OrganizationRepository
	templates domain.TemplateRepository
	llm       llm.Client
}

func NewEngine(jobs domain.ScoringJobRepository, profiles domain.ProfileRepository, edges domain.EdgeRepository, orgs domain.OrganizationRepository, templates domain.TemplateRepository, llmClient llm.Client) *Engine {
	return &Engine{jobs: jobs, profiles: profiles, edges: edges, orgs: orgs, templates: templates, llm: llmClient}
}

// CreateJob resolves a template prompt if templateID is given and
// persists a pending job.
func (e *Engine) CreateJob(ctx context.Context, profileID, prompt, templateID, model string, maxTokens int, temperature float64) (*domain.ScoringJob, error) {
	if templateID != "" {
		resolved, err := e.templates.Resolve(ctx, templateID)
		if err != nil {
			return nil, fmt.Errorf("resolve template: %w", err)
		}
		prompt = resolved
	}
	job := domain.NewScoringJob(profileID, prompt, model, maxTokens, temperature)
	if err := e.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create scoring job: %w", err)
	}
	return job, nil
}

// RetryJob resets a failed, retryable job back to pending (§4.7 retry
// policy, §8 boundary retry_count=5).
func (e *Engine) RetryJob(ctx context.Context, jobID string) error {
	job, err := e.jobs.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}
	if job == nil {
		return ErrJobNotFound
	}
	if !job.CanRetry() {
		return ErrJobNotRetryable
	}
	return e.jobs.ResetForRetry(ctx, jobID)
}

// ErrJobNotFound and ErrJobNotRetryable are sentinel errors the delivery
// layer maps onto the §7 JOB_NOT_FOUND/JOB_NOT_RETRYABLE error codes.
var (
	ErrJobNotFound     = errors.New("scoring job not found")
	ErrJobNotRetryable = errors.New("scoring job is not retryable")
)

// Process runs the full pipeline for one job id: atomic claim, prompt
// resolution already done at creation time, profile serialization, LLM
// invocation, JSON validation, and persistence of the outcome. Returns
// (claimed=false, nil) without error when another worker already won the
// claim race (S6).
func (e *Engine) Process(ctx context.Context, jobID string) (claimed bool, err error) {
	claimed, err = e.jobs.ClaimPending(ctx, jobID)
	if err != nil {
		return false, fmt.Errorf("claim job: %w", err)
	}
	if !claimed {
		return false, nil
	}

	job, err := e.jobs.GetByID(ctx, jobID)
	if err != nil {
		return true, fmt.Errorf("reload claimed job: %w", err)
	}
	if job == nil {
		return true, fmt.Errorf("claimed job %s vanished", jobID)
	}

	profile, err := e.profiles.GetByID(ctx, job.ProfileID)
	if err != nil || profile == nil {
		e.fail(ctx, job, domain.ErrLLMBadJSON, "profile not found for scoring job", false)
		return true, nil
	}

	orgByURL := e.loadLinkedOrganizations(ctx, profile)
	serialized := SerializeProfile(profile, orgByURL)
	fullPrompt := job.Prompt + "\n\n---\n\n" + serialized

	timeoutCtx, cancel := context.WithTimeout(ctx, DefaultLLMTimeout)
	defer cancel()

	reply, tokensUsed, err := e.llm.Complete(timeoutCtx, "", fullPrompt, job.Model, job.MaxTokens, job.Temperature)
	if err != nil {
		code, retryable := classifyJobError(err)
		e.fail(ctx, job, code, err.Error(), retryable)
		return true, nil
	}

	var parsed json.RawMessage
	var asObject map[string]interface{}
	if err := json.Unmarshal([]byte(reply), &asObject); err != nil {
		e.fail(ctx, job, domain.ErrLLMBadJSON, "LLM reply was not valid JSON", true)
		return true, nil
	}
	parsed, _ = json.Marshal(asObject)

	if err := e.jobs.Complete(ctx, job.ID, reply, parsed, tokensUsed, job.Model); err != nil {
		return true, fmt.Errorf("persist completed job: %w", err)
	}
	return true, nil
}

func (e *Engine) fail(ctx context.Context, job *domain.ScoringJob, code, message string, retryable bool) {
	retryCount := 0
	if job.Error != nil {
		retryCount = job.Error.RetryCount
	}
	jobErr := domain.JobError{Code: code, Message: message, Retryable: retryable, RetryCount: retryCount}
	if err := e.jobs.Fail(ctx, job.ID, jobErr); err != nil {
		logger.Log.Error("failed to persist scoring job failure", "job_id", job.ID, "error", err)
	}
}

func (e *Engine) loadLinkedOrganizations(ctx context.Context, profile *domain.Profile) map[string]*domain.Organization {
	result := make(map[string]*domain.Organization)
	edges, err := e.edges.ListByProfile(ctx, profile.ID)
	if err != nil {
		logger.Log.Warn("failed to load edges for scoring serialization", "profile_id", profile.ID, "error", err)
		return result
	}
	for _, edge := range edges {
		org, err := e.orgs.GetByID(ctx, edge.OrganizationID)
		if err != nil || org == nil {
			continue
		}
		result[org.URL] = org
	}
	return result
}

// classifyJobError maps an LLM client error to the job error taxonomy
// (§4.7 retry policy).
func classifyJobError(err error) (code string, retryable bool) {
	var classified *llm.ClassifiedError
	if errors.As(err, &classified) {
		return classified.Code, domain.RetryableErrorCodes[classified.Code]
	}
	return domain.ErrLLMNetwork, true
}
