package orchestrator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/internal/orchestrator"
	"github.com/jexpert/profile-enrichment/internal/orgsvc"
	"github.com/jexpert/profile-enrichment/internal/tracker"
	"github.com/jexpert/profile-enrichment/internal/workflow"
	"github.com/jexpert/profile-enrichment/pkg/apperror"
)

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
	org.ID = "org-generated"
	return m.Called(ctx, org).Error(0)
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

func rawProfilePayload(linkedinURL string, withOrg bool) map[string]interface{} {
	payload := map[string]interface{}{
		"id":        "ext-1",
		"url":       linkedinURL,
		"full_name": "Jane Doe",
	}
	if withOrg {
		payload["experiences"] = []interface{}{
			map[string]interface{}{
				"title":       "Staff Engineer",
				"company_url": "https://www.linkedin.com/company/acme/",
				"is_current":  true,
			},
		}
	}
	return payload
}

func TestProcessProfile_NewProfileWithoutOrganizations(t *testing.T) {
	profileServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(rawProfilePayload("https://www.linkedin.com/in/janedoe/", false))
	}))
	defer profileServer.Close()

	wf := workflow.New(workflow.Config{ProfileURL: profileServer.URL, OrganizationURL: profileServer.URL, RequestTimeout: 2 * time.Second})

	profiles := new(mockProfileRepo)
	profiles.On("GetByURL", mock.Anything, mock.Anything).Return(nil, nil)
	profiles.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	orgs := new(mockOrgRepo)
	edges := new(mockEdgeRepo)
	svc := orgsvc.NewService(orgs, edges)
	trk := tracker.New(time.Minute)
	orch := orchestrator.New(wf, svc, profiles, trk)

	requestID, result, err := orch.ProcessProfile(context.Background(), orchestrator.Request{
		LinkedInURL:          "https://www.linkedin.com/in/janedoe/",
		IncludeOrganizations: true,
	}, "")

	require.NoError(t, err)
	assert.NotEmpty(t, requestID)
	require.NotNil(t, result.Profile)
	assert.Equal(t, "Jane Doe", result.Profile.FullName)
	assert.Empty(t, result.Organizations)

	record, ok := trk.Get(requestID)
	require.True(t, ok)
	assert.Equal(t, domain.RunStatusSuccess, record.Status)
}

func TestProcessProfile_ReingestMergesInPlace(t *testing.T) {
	profileServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(rawProfilePayload("https://www.linkedin.com/in/janedoe/", false))
	}))
	defer profileServer.Close()

	wf := workflow.New(workflow.Config{ProfileURL: profileServer.URL, OrganizationURL: profileServer.URL, RequestTimeout: 2 * time.Second})

	existing := domain.NewProfile()
	existing.ID = "profile-existing"
	existing.URL = "https://linkedin.com/in/janedoe"
	existing.CreatedAt = time.Now().UTC().Add(-24 * time.Hour)
	existing.UpdatedAt = existing.CreatedAt

	profiles := new(mockProfileRepo)
	profiles.On("GetByURL", mock.Anything, mock.Anything).Return(existing, nil)
	profiles.On("Upsert", mock.Anything, mock.MatchedBy(func(p *domain.Profile) bool {
		return p.ID == "profile-existing" && p.UpdatedAt.After(existing.CreatedAt)
	})).Return(nil)

	orgs := new(mockOrgRepo)
	edges := new(mockEdgeRepo)
	svc := orgsvc.NewService(orgs, edges)
	trk := tracker.New(time.Minute)
	orch := orchestrator.New(wf, svc, profiles, trk)

	_, result, err := orch.ProcessProfile(context.Background(), orchestrator.Request{
		LinkedInURL:          "https://www.linkedin.com/in/janedoe/",
		IncludeOrganizations: false,
	}, "")

	require.NoError(t, err)
	assert.Equal(t, "profile-existing", result.Profile.ID)
	assert.Equal(t, existing.CreatedAt, result.Profile.CreatedAt)
	profiles.AssertCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestProcessProfile_UpstreamFailureMarksTrackerFailed(t *testing.T) {
	profileServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer profileServer.Close()

	wf := workflow.New(workflow.Config{ProfileURL: profileServer.URL, OrganizationURL: profileServer.URL, RequestTimeout: 2 * time.Second, MaxRetries: 1})

	profiles := new(mockProfileRepo)
	orgs := new(mockOrgRepo)
	edges := new(mockEdgeRepo)
	svc := orgsvc.NewService(orgs, edges)
	trk := tracker.New(time.Minute)
	orch := orchestrator.New(wf, svc, profiles, trk)

	requestID, _, err := orch.ProcessProfile(context.Background(), orchestrator.Request{
		LinkedInURL: "https://www.linkedin.com/in/janedoe/",
	}, "")

	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)

	record, ok := trk.Get(requestID)
	require.True(t, ok)
	assert.Equal(t, domain.RunStatusFailed, record.Status)
}
