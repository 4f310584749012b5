package orgsvc

import (
	"context"
	"fmt"

	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/pkg/logger"
)

// Service implements the Organization Service (C4): normalize, dedup,
// upsert, and edge linkage.
type Service struct {
	orgs  domain.OrganizationRepository
	edges domain.EdgeRepository
}

func NewService(orgs domain.OrganizationRepository, edges domain.EdgeRepository) *Service {
	return &Service{orgs: orgs, edges: edges}
}

// Upsert implements the four-step algorithm of §4.4: normalize, look up
// by URL, fall back to fuzzy name match against URL-less organizations,
// otherwise insert. Returns the persisted organization. Errors here are
// non-fatal to the caller's ingestion flow (§4.4 "Failure semantics") —
// the orchestrator logs and continues rather than propagating.
func (s *Service) Upsert(ctx context.Context, candidate *domain.Organization) (*domain.Organization, error) {
	normalizedURL := ""
	if candidate.URL != "" {
		normalizedURL = NormalizeURL(candidate.URL)
		candidate.URL = normalizedURL
	}

	if normalizedURL != "" {
		existing, err := s.orgs.GetByURL(ctx, normalizedURL)
		if err != nil {
			return nil, fmt.Errorf("lookup organization by url: %w", err)
		}
		if existing != nil {
			existing.Merge(candidate)
			if err := s.orgs.Upsert(ctx, existing); err != nil {
				return nil, fmt.Errorf("merge organization: %w", err)
			}
			return existing, nil
		}
	}

	if normalizedURL != "" {
		candidates, err := s.orgs.FindByNameMissingURL(ctx)
		if err != nil {
			return nil, fmt.Errorf("find url-less organizations: %w", err)
		}
		for i := range candidates {
			if NamesMatch(candidates[i].Name, candidate.Name) {
				candidates[i].URL = normalizedURL
				candidates[i].Merge(candidate)
				if err := s.orgs.Upsert(ctx, &candidates[i]); err != nil {
					return nil, fmt.Errorf("merge fuzzy-matched organization: %w", err)
				}
				return &candidates[i], nil
			}
		}
	}

	if err := s.orgs.Upsert(ctx, candidate); err != nil {
		return nil, fmt.Errorf("insert organization: %w", err)
	}
	return candidate, nil
}

// LinkProfile upserts the profile↔organization edge for one experience
// entry (§4.4 "Edge linkage", §4.5 step 8). Idempotent on the composite
// key (profile id, organization id, start year, start month).
func (s *Service) LinkProfile(ctx context.Context, profileID, organizationID string, exp domain.Experience) error {
	edge := &domain.Edge{
		ProfileID:      profileID,
		OrganizationID: organizationID,
		Title:          exp.Title,
		StartMonth:     exp.StartMonth,
		StartYear:      exp.StartYear,
		EndMonth:       exp.EndMonth,
		EndYear:        exp.EndYear,
		IsCurrent:      exp.IsCurrent,
	}
	if err := s.edges.Upsert(ctx, edge); err != nil {
		return fmt.Errorf("upsert edge: %w", err)
	}
	return nil
}

// UpsertAndLink combines Upsert and LinkProfile, logging and swallowing
// any failure so a single bad organization never blocks profile
// persistence (§3 invariant 3, §4.5 step 8).
func (s *Service) UpsertAndLink(ctx context.Context, profileID string, candidate *domain.Organization, exp domain.Experience) (organizationID string, linked bool) {
	org, err := s.Upsert(ctx, candidate)
	if err != nil {
		logger.Log.Warn("organization upsert failed, omitting edge", "error", err, "organization_url", candidate.URL)
		return "", false
	}
	if err := s.LinkProfile(ctx, profileID, org.ID, exp); err != nil {
		logger.Log.Warn("edge upsert failed, omitting link", "error", err, "organization_id", org.ID)
		return org.ID, false
	}
	return org.ID, true
}
