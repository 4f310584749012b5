package scoring_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/internal/scoring"
)

type mockJobRepo struct{ mock.Mock }

func (m *mockJobRepo) Create(ctx context.Context, job *domain.ScoringJob) error {
	return m.Called(ctx, job).Error(0)
}
func (m *mockJobRepo) GetByID(ctx context.Context, id string) (*domain.ScoringJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScoringJob), args.Error(1)
}
func (m *mockJobRepo) ClaimPending(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *mockJobRepo) Complete(ctx context.Context, id, rawResponse string, parsedScore json.RawMessage, tokensUsed int, modelUsed string) error {
	return m.Called(ctx, id, rawResponse, parsedScore, tokensUsed, modelUsed).Error(0)
}
func (m *mockJobRepo) Fail(ctx context.Context, id string, jobErr domain.JobError) error {
	return m.Called(ctx, id, jobErr).Error(0)
}
func (m *mockJobRepo) ResetForRetry(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockJobRepo) ListPending(ctx context.Context, limit int) ([]string, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]string), args.Error(1)
}
func (m *mockJobRepo) CountRecentByProfile(ctx context.Context, profileID string, since time.Time) (int, error) {
	args := m.Called(ctx, profileID, since)
	return args.Int(0), args.Error(1)
}
func (m *mockJobRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockProfileRepo struct{ mock.Mock }

func (m *mockProfileRepo) GetByURL(ctx context.Context, normalizedURL string) (*domain.Profile, error) {
	args := m.Called(ctx, normalizedURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *mockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *mockProfileRepo) Upsert(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}
func (m *mockProfileRepo) List(ctx context.Context, filter domain.ProfileFilter) ([]domain.Profile, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Profile), args.Get(1).(int64), args.Error(2)
}
func (m *mockProfileRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockEdgeRepo struct{ mock.Mock }

func (m *mockEdgeRepo) Upsert(ctx context.Context, edge *domain.Edge) error {
	return m.Called(ctx, edge).Error(0)
}
func (m *mockEdgeRepo) ListByProfile(ctx context.Context, profileID string) ([]domain.Edge, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).([]domain.Edge), args.Error(1)
}
func (m *mockEdgeRepo) DeleteByProfile(ctx context.Context, profileID string) error {
	return m.Called(ctx, profileID).Error(0)
}

type mockOrgRepo struct{ mock.Mock }

func (m *mockOrgRepo) GetByURL(ctx context.Context, normalizedURL string) (*domain.Organization, error) {
	args := m.Called(ctx, normalizedURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}
func (m *mockOrgRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}
func (m *mockOrgRepo) FindByNameMissingURL(ctx context.Context) ([]domain.Organization, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Organization), args.Error(1)
}
func (m *mockOrgRepo) Upsert(ctx context.Context, org *domain.Organization) error {
	return m.Called(ctx, org).Error(0)
}

type mockTemplateRepo struct{ mock.Mock }

func (m *mockTemplateRepo) Create(ctx context.Context, t *domain.Template) error {
	return m.Called(ctx, t).Error(0)
}
func (m *mockTemplateRepo) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}
func (m *mockTemplateRepo) List(ctx context.Context, category domain.TemplateCategory, limit, offset int) ([]domain.Template, int64, error) {
	args := m.Called(ctx, category, limit, offset)
	return args.Get(0).([]domain.Template), args.Get(1).(int64), args.Error(2)
}
func (m *mockTemplateRepo) Update(ctx context.Context, t *domain.Template) error {
	return m.Called(ctx, t).Error(0)
}
func (m *mockTemplateRepo) Deactivate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockTemplateRepo) Resolve(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type mockLLM struct{ mock.Mock }

func (m *mockLLM) Complete(ctx context.Context, systemPrompt, userPrompt, model string, maxTokens int, temperature float64) (string, int, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, model, maxTokens, temperature)
	return args.String(0), args.Int(1), args.Error(2)
}

func newTestEngine() (*scoring.Engine, *mockJobRepo, *mockProfileRepo, *mockEdgeRepo, *mockOrgRepo, *mockTemplateRepo, *mockLLM) {
	jobs := new(mockJobRepo)
	profiles := new(mockProfileRepo)
	edges := new(mockEdgeRepo)
	orgs := new(mockOrgRepo)
	templates := new(mockTemplateRepo)
	llmClient := new(mockLLM)
	engine := scoring.NewEngine(jobs, profiles, edges, orgs, templates, llmClient)
	return engine, jobs, profiles, edges, orgs, templates, llmClient
}

func TestRetryJob_NotFound(t *testing.T) {
	engine, jobs, _, _, _, _, _ := newTestEngine()
	jobs.On("GetByID", mock.Anything, "missing").Return(nil, nil)

	err := engine.RetryJob(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, scoring.ErrJobNotFound)
}

func TestRetryJob_NotRetryableWhenRetryCountAtCap(t *testing.T) {
	engine, jobs, _, _, _, _, _ := newTestEngine()
	job := &domain.ScoringJob{
		ID:     "job-1",
		Status: domain.JobStatusFailed,
		Error:  &domain.JobError{Code: domain.ErrLLMNetwork, Retryable: true, RetryCount: domain.MaxRetryCount},
	}
	jobs.On("GetByID", mock.Anything, "job-1").Return(job, nil)

	err := engine.RetryJob(context.Background(), "job-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, scoring.ErrJobNotRetryable)
}

func TestRetryJob_ResetsWhenBelowCap(t *testing.T) {
	engine, jobs, _, _, _, _, _ := newTestEngine()
	job := &domain.ScoringJob{
		ID:     "job-1",
		Status: domain.JobStatusFailed,
		Error:  &domain.JobError{Code: domain.ErrLLMTimeout, Retryable: true, RetryCount: domain.MaxRetryCount - 1},
	}
	jobs.On("GetByID", mock.Anything, "job-1").Return(job, nil)
	jobs.On("ResetForRetry", mock.Anything, "job-1").Return(nil)

	err := engine.RetryJob(context.Background(), "job-1")
	require.NoError(t, err)
	jobs.AssertCalled(t, "ResetForRetry", mock.Anything, "job-1")
}

func TestProcess_SkipsWhenClaimLost(t *testing.T) {
	engine, jobs, _, _, _, _, _ := newTestEngine()
	jobs.On("ClaimPending", mock.Anything, "job-1").Return(false, nil)

	claimed, err := engine.Process(context.Background(), "job-1")
	require.NoError(t, err)
	assert.False(t, claimed)
	jobs.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestProcess_FailsOnInvalidJSONReplyButMarksRetryable(t *testing.T) {
	engine, jobs, profiles, edges, _, _, llmClient := newTestEngine()

	job := &domain.ScoringJob{ID: "job-1", ProfileID: "profile-1", Prompt: "score this", Model: "claude-sonnet-4-5", MaxTokens: 512, Temperature: 0.2}
	profile := domain.NewProfile()
	profile.ID = "profile-1"
	profile.FullName = "Jane Doe"

	jobs.On("ClaimPending", mock.Anything, "job-1").Return(true, nil)
	jobs.On("GetByID", mock.Anything, "job-1").Return(job, nil)
	profiles.On("GetByID", mock.Anything, "profile-1").Return(profile, nil)
	edges.On("ListByProfile", mock.Anything, "profile-1").Return([]domain.Edge{}, nil)
	llmClient.On("Complete", mock.Anything, "", mock.AnythingOfType("string"), job.Model, job.MaxTokens, job.Temperature).
		Return("not json", 0, nil)
	jobs.On("Fail", mock.Anything, "job-1", mock.MatchedBy(func(e domain.JobError) bool {
		return e.Code == domain.ErrLLMBadJSON && e.Retryable
	})).Return(nil)

	claimed, err := engine.Process(context.Background(), "job-1")
	require.NoError(t, err)
	assert.True(t, claimed)
	jobs.AssertCalled(t, "Fail", mock.Anything, "job-1", mock.Anything)
}

func TestProcess_CompletesOnValidJSONReply(t *testing.T) {
	engine, jobs, profiles, edges, _, _, llmClient := newTestEngine()

	job := &domain.ScoringJob{ID: "job-1", ProfileID: "profile-1", Prompt: "score this", Model: "claude-sonnet-4-5", MaxTokens: 512, Temperature: 0.2}
	profile := domain.NewProfile()
	profile.ID = "profile-1"
	profile.FullName = "Jane Doe"

	jobs.On("ClaimPending", mock.Anything, "job-1").Return(true, nil)
	jobs.On("GetByID", mock.Anything, "job-1").Return(job, nil)
	profiles.On("GetByID", mock.Anything, "profile-1").Return(profile, nil)
	edges.On("ListByProfile", mock.Anything, "profile-1").Return([]domain.Edge{}, nil)
	llmClient.On("Complete", mock.Anything, "", mock.AnythingOfType("string"), job.Model, job.MaxTokens, job.Temperature).
		Return(`{"score": 8}`, 342, nil)
	jobs.On("Complete", mock.Anything, "job-1", `{"score": 8}`, mock.Anything, 342, job.Model).Return(nil)

	claimed, err := engine.Process(context.Background(), "job-1")
	require.NoError(t, err)
	assert.True(t, claimed)
	jobs.AssertCalled(t, "Complete", mock.Anything, "job-1", `{"score": 8}`, mock.Anything, 342, job.Model)
}

func TestCreateJob_ResolvesTemplatePrompt(t *testing.T) {
	engine, jobs, _, _, _, templates, _ := newTestEngine()

	templates.On("Resolve", mock.Anything, "tmpl-1").Return("resolved prompt text", nil)
	jobs.On("Create", mock.Anything, mock.MatchedBy(func(j *domain.ScoringJob) bool {
		return j.Prompt == "resolved prompt text" && j.ProfileID == "profile-1"
	})).Return(nil)

	job, err := engine.CreateJob(context.Background(), "profile-1", "", "tmpl-1", "", 0, 0.3)
	require.NoError(t, err)
	assert.Equal(t, "resolved prompt text", job.Prompt)
}

func TestCreateJob_PropagatesTemplateResolutionError(t *testing.T) {
	engine, _, _, _, _, templates, _ := newTestEngine()

	templates.On("Resolve", mock.Anything, "missing").Return("", errors.New("template not found"))

	_, err := engine.CreateJob(context.Background(), "profile-1", "", "missing", "", 0, 0.3)
	require.Error(t, err)
}
