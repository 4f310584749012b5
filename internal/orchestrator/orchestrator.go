// Package orchestrator implements the Ingestion Orchestrator (C5): the
// nine-step process_profile algorithm that ties together the workflow
// client, the adapter, the organization service, profile persistence and
// the state tracker.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jexpert/profile-enrichment/internal/adapter"
	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/internal/orgsvc"
	"github.com/jexpert/profile-enrichment/internal/tracker"
	"github.com/jexpert/profile-enrichment/internal/workflow"
	"github.com/jexpert/profile-enrichment/pkg/apperror"
	"github.com/jexpert/profile-enrichment/pkg/logger"
)

const totalSteps = 9

// Request is the public input to ProcessProfile (§4.5).
type Request struct {
	LinkedInURL        string
	IncludeOrganizations bool
}

// EnrichedProfile is the public result of ProcessProfile: the canonical
// profile plus one organization-or-nil slot per distinct organization URL
// attempted, in the same order.
type EnrichedProfile struct {
	Profile       *domain.Profile
	Organizations []*domain.Organization
}

// Orchestrator wires the workflow client, adapter, organization service,
// profile repository and tracker into the process_profile operation.
type Orchestrator struct {
	workflow *workflow.Client
	orgs     *orgsvc.Service
	profiles domain.ProfileRepository
	tracker  *tracker.Tracker
}

func New(wf *workflow.Client, orgs *orgsvc.Service, profiles domain.ProfileRepository, t *tracker.Tracker) *Orchestrator {
	return &Orchestrator{workflow: wf, orgs: orgs, profiles: profiles, tracker: t}
}

// ProcessProfile runs the nine-step ingestion algorithm (§4.5). If
// requestID is empty, one is generated. The tracker record is always
// left in a terminal state before returning, whether the call succeeds
// or fails.
func (o *Orchestrator) ProcessProfile(ctx context.Context, req Request, requestID string) (string, EnrichedProfile, error) {
	if requestID == "" {
		requestID = uuid.NewString()
	}

	// Step 1: admit.
	o.tracker.Start(requestID, totalSteps)
	o.tracker.Advance(requestID, domain.StageProfileFetch, 1)

	// Step 2: profile fetch.
	raw, err := o.workflow.FetchProfile(ctx, req.LinkedInURL)
	if err != nil {
		return o.fail(requestID, apperror.UpstreamUnavailable(isRetryableWorkflowErr(err), err))
	}
	o.tracker.Advance(requestID, domain.StageProfileFetch, 2)

	// Step 3: canonicalize.
	profile, err := adapter.ToProfile(raw)
	if err != nil {
		var incomplete *adapter.IncompleteDataError
		if errors.As(err, &incomplete) {
			return o.fail(requestID, apperror.AdapterIncomplete(incomplete.MissingFields))
		}
		return o.fail(requestID, apperror.Internal(err))
	}
	o.tracker.Advance(requestID, domain.StageProfileFetch, 3)

	// Step 4: dedup & persist profile.
	normalizedURL := orgsvc.NormalizeURL(profile.URL)
	profile.URL = normalizedURL
	existing, err := o.profiles.GetByURL(ctx, normalizedURL)
	if err != nil {
		return o.fail(requestID, apperror.Internal(fmt.Errorf("lookup profile by url: %w", err)))
	}
	if existing != nil {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	}
	profile.Touch()
	if err := o.profiles.Upsert(ctx, profile); err != nil {
		return o.fail(requestID, apperror.Internal(fmt.Errorf("persist profile: %w", err)))
	}
	o.tracker.Advance(requestID, domain.StageProfileFetch, 4)

	result := EnrichedProfile{Profile: profile}

	if !req.IncludeOrganizations {
		o.tracker.SetCounters(requestID, domain.IngestionCounters{})
		o.tracker.Succeed(requestID, profile.ID)
		return requestID, result, nil
	}

	// Step 5: derive organization URLs.
	orgURLs := profile.OrganizationURLs(orgsvc.NormalizeURL)
	o.tracker.Advance(requestID, domain.StageOrganizationFetch, 5)

	if len(orgURLs) == 0 {
		o.tracker.SetCounters(requestID, domain.IngestionCounters{})
		o.tracker.Succeed(requestID, profile.ID)
		return requestID, result, nil
	}

	// Step 6: batch organization fetch, paced by the workflow client.
	rawOrgs := o.workflow.BatchFetchOrganizations(ctx, orgURLs)
	o.tracker.Advance(requestID, domain.StageOrganizationFetch, 6)

	// Step 7: canonicalize organizations. Incomplete entries become nil
	// slots rather than failing the whole request.
	candidates := make([]*domain.Organization, len(rawOrgs))
	for i, raw := range rawOrgs {
		if raw == nil {
			continue
		}
		org, err := adapter.ToOrganization(raw)
		if err != nil {
			logger.Log.Warn("discarding incomplete organization payload", "url", orgURLs[i], "error", err)
			continue
		}
		candidates[i] = org
	}
	o.tracker.Advance(requestID, domain.StageOrganizationFetch, 7)

	// Step 8: upsert + link, concurrently across organizations. Each
	// experience whose normalized organization URL matches orgURLs[i] is
	// linked; there is usually exactly one but a profile can list the
	// same organization twice (boomerang employment).
	resolved := make([]*domain.Organization, len(candidates))
	var (
		wg                    sync.WaitGroup
		mu                    sync.Mutex
		organizationsResolved int
		organizationsLinked   int
	)
	for i, candidate := range candidates {
		if candidate == nil {
			continue
		}
		i, candidate := i, candidate
		wg.Add(1)
		go func() {
			defer wg.Done()
			matching := matchingExperiences(profile, orgURLs[i])
			if len(matching) == 0 {
				return
			}
			var (
				orgID  string
				linked bool
			)
			for _, exp := range matching {
				orgID, linked = o.orgs.UpsertAndLink(ctx, profile.ID, candidate, exp)
			}
			if orgID == "" {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			candidate.ID = orgID
			resolved[i] = candidate
			organizationsResolved++
			if linked {
				organizationsLinked++
			}
		}()
	}
	wg.Wait()
	o.tracker.Advance(requestID, domain.StageOrganizationFetch, 8)

	result.Organizations = resolved

	// Step 9: finalize.
	o.tracker.SetCounters(requestID, domain.IngestionCounters{
		OrganizationsRequested: len(orgURLs),
		OrganizationsResolved:  organizationsResolved,
		OrganizationsLinked:    organizationsLinked,
	})
	o.tracker.Succeed(requestID, profile.ID)
	return requestID, result, nil
}

func (o *Orchestrator) fail(requestID string, appErr *apperror.AppError) (string, EnrichedProfile, error) {
	o.tracker.Fail(requestID, appErr.ErrorCode, appErr.Message)
	return requestID, EnrichedProfile{}, appErr
}

func matchingExperiences(p *domain.Profile, normalizedOrgURL string) []domain.Experience {
	var out []domain.Experience
	for _, exp := range p.Experiences {
		if exp.OrganizationURL == "" {
			continue
		}
		if orgsvc.NormalizeURL(exp.OrganizationURL) == normalizedOrgURL {
			out = append(out, exp)
		}
	}
	return out
}

func isRetryableWorkflowErr(err error) bool {
	var netErr *workflow.NetworkError
	var timeoutErr *workflow.TimeoutError
	var rateErr *workflow.RateLimitedError
	return errors.As(err, &netErr) || errors.As(err, &timeoutErr) || errors.As(err, &rateErr)
}
