package domain

import (
	"context"
	"time"
)

// HeadquartersAddress is the structured portion of an organization's HQ
// location; Rendered is kept alongside for the free-form display string
// the upstream payload may supply instead of (or in addition to) the
// structured fields.
type HeadquartersAddress struct {
	Line1    string `json:"line1,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country,omitempty"`
	Rendered string `json:"rendered,omitempty"`
}

// Organization is the canonical internal representation of a company.
// URL is the authoritative dedup key after normalization.
type Organization struct {
	ID                   string `json:"id"`
	ExternalOrganizationID string `json:"external_organization_id,omitempty"`
	URL                  string `json:"url,omitempty" validate:"omitempty,url"`

	Name        string `json:"name" validate:"required"`
	Tagline     string `json:"tagline,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty" validate:"omitempty,url"`
	Domain      string `json:"domain,omitempty"`
	LogoURL     string `json:"logo_url,omitempty" validate:"omitempty,url"`
	YearFounded *int   `json:"year_founded,omitempty"`

	Industries  []string `json:"industries"`
	Specialties []string `json:"specialties"`

	EmployeeCount  *int   `json:"employee_count,omitempty" validate:"omitempty,min=0"`
	EmployeeRange  string `json:"employee_range,omitempty"`
	FollowerCount  int    `json:"follower_count"`

	Headquarters HeadquartersAddress `json:"headquarters"`

	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KnownEmployeeRanges is the allowed bucket set for Organization.EmployeeRange.
var KnownEmployeeRanges = map[string]bool{
	"1-10":        true,
	"11-50":       true,
	"51-200":      true,
	"201-500":     true,
	"501-1000":    true,
	"1001-5000":   true,
	"5001-10000":  true,
	"10001+":      true,
}

// NewOrganization constructs an Organization with list fields defaulted
// to empty and timestamps normalized to UTC.
func NewOrganization() *Organization {
	now := time.Now().UTC()
	return &Organization{
		Industries:  []string{},
		Specialties: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (o *Organization) Touch() {
	o.UpdatedAt = time.Now().UTC()
}

// Merge applies non-null-wins semantics for scalar fields and
// replace-if-non-empty for list fields, per §4.4 step 2. incoming wins
// whenever it carries a value; o's existing value is kept otherwise.
// This is the documented "last writer wins per scalar field" policy
// (§5) — product has not yet confirmed whether it should widen to allow
// explicit field-clearing (spec.md §9 Open Question 4).
func (o *Organization) Merge(incoming *Organization) {
	if incoming.ExternalOrganizationID != "" {
		o.ExternalOrganizationID = incoming.ExternalOrganizationID
	}
	if incoming.Name != "" {
		o.Name = incoming.Name
	}
	if incoming.Tagline != "" {
		o.Tagline = incoming.Tagline
	}
	if incoming.Description != "" {
		o.Description = incoming.Description
	}
	if incoming.Website != "" {
		o.Website = incoming.Website
	}
	if incoming.Domain != "" {
		o.Domain = incoming.Domain
	}
	if incoming.LogoURL != "" {
		o.LogoURL = incoming.LogoURL
	}
	if incoming.YearFounded != nil {
		o.YearFounded = incoming.YearFounded
	}
	if len(incoming.Industries) > 0 {
		o.Industries = incoming.Industries
	}
	if len(incoming.Specialties) > 0 {
		o.Specialties = incoming.Specialties
	}
	if incoming.EmployeeCount != nil {
		o.EmployeeCount = incoming.EmployeeCount
	}
	if incoming.EmployeeRange != "" {
		o.EmployeeRange = incoming.EmployeeRange
	}
	if incoming.FollowerCount > 0 {
		o.FollowerCount = incoming.FollowerCount
	}
	if incoming.Headquarters.Rendered != "" || incoming.Headquarters.City != "" {
		o.Headquarters = incoming.Headquarters
	}
	if incoming.Email != "" {
		o.Email = incoming.Email
	}
	if incoming.Phone != "" {
		o.Phone = incoming.Phone
	}
	o.Touch()
}

// OrganizationRepository is the logical persistence contract for
// organizations (§4.6).
type OrganizationRepository interface {
	GetByURL(ctx context.Context, normalizedURL string) (*Organization, error)
	GetByID(ctx context.Context, id string) (*Organization, error)
	// FindByNameMissingURL returns organizations that have no URL on file,
	// as candidates for the fuzzy name-match step of the upsert algorithm.
	FindByNameMissingURL(ctx context.Context) ([]Organization, error)
	Upsert(ctx context.Context, org *Organization) error
}
