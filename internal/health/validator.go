// Package health implements the Health Validator (C9): liveness and deep
// readiness probes that exercise the workflow client and adapter without
// ever writing to persistence, following the teacher's health_usecase
// shape of taking no repository dependency at all.
package health

import (
	"context"
	"time"

	"github.com/jexpert/profile-enrichment/internal/adapter"
	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/internal/workflow"
)

// CompletenessThreshold is the minimum fraction of populated optional
// fields required for a comprehensive check to be classified healthy.
const CompletenessThreshold = 0.70

// LatencyThreshold degrades an otherwise-passing check.
const LatencyThreshold = 5 * time.Second

// DefaultTestURLs is used when no env override is configured (spec.md
// Open Question 2).
var DefaultTestURLs = struct {
	Profile      string
	Organization string
}{
	Profile:      "https://www.linkedin.com/in/williamhgates/",
	Organization: "https://www.linkedin.com/company/microsoft/",
}

// Validator probes the workflow client. It holds no repository reference
// by construction, so it cannot write to persistence even by mistake.
type Validator struct {
	workflow        *workflow.Client
	profileURL      string
	organizationURL string
}

func New(wf *workflow.Client, testProfileURL, testOrganizationURL string) *Validator {
	if testProfileURL == "" {
		testProfileURL = DefaultTestURLs.Profile
	}
	if testOrganizationURL == "" {
		testOrganizationURL = DefaultTestURLs.Organization
	}
	return &Validator{workflow: wf, profileURL: testProfileURL, organizationURL: testOrganizationURL}
}

// QuickCheck verifies the workflow endpoint is reachable and returns a
// well-formed response, without interpreting its content.
func (v *Validator) QuickCheck(ctx context.Context) error {
	_, err := v.workflow.FetchProfile(ctx, v.profileURL)
	return err
}

// ComprehensiveCheck fetches one profile and one organization against the
// configured test URLs, runs the adapter, and classifies the result
// (§4.9). It never calls a repository write method.
func (v *Validator) ComprehensiveCheck(ctx context.Context) domain.HealthReport {
	start := time.Now()

	rawProfile, profileErr := v.workflow.FetchProfile(ctx, v.profileURL)
	rawOrg, orgErr := v.workflow.FetchOrganization(ctx, v.organizationURL)
	latency := time.Since(start)

	report := domain.HealthReport{Latency: latency}

	if profileErr != nil || orgErr != nil {
		report.Status = domain.HealthUnhealthy
		report.Detail = "workflow fetch failed"
		return report
	}
	report.ProfileCheckOK = true
	report.OrganizationCheckOK = true

	profile, err := adapter.ToProfile(rawProfile)
	if err != nil {
		report.Status = domain.HealthUnhealthy
		report.Detail = "profile adapter raised: " + err.Error()
		return report
	}
	org, err := adapter.ToOrganization(rawOrg)
	if err != nil {
		report.Status = domain.HealthUnhealthy
		report.Detail = "organization adapter raised: " + err.Error()
		return report
	}

	report.CompletenessRatio = completeness(profile, org)

	switch {
	case latency > LatencyThreshold || report.CompletenessRatio < CompletenessThreshold:
		report.Status = domain.HealthDegraded
	default:
		report.Status = domain.HealthHealthy
	}
	return report
}

// completeness estimates the fraction of optional fields populated
// across the two probed entities, a coarse but deterministic proxy for
// upstream data quality.
func completeness(p *domain.Profile, o *domain.Organization) float64 {
	fields := []bool{
		p.Headline != "",
		p.About != "",
		p.ImageURL != "",
		p.City != "" || p.Country != "" || p.Location != "",
		len(p.Experiences) > 0,
		len(p.Educations) > 0,
		o.Description != "",
		o.Website != "",
		o.EmployeeRange != "" || o.EmployeeCount != nil,
		len(o.Industries) > 0,
	}
	populated := 0
	for _, f := range fields {
		if f {
			populated++
		}
	}
	return float64(populated) / float64(len(fields))
}
