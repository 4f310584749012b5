package domain

import (
	"context"
	"time"
)

// Experience is one entry in a profile's employment history, ordered
// most-recent-first as delivered by the upstream workflow payload.
type Experience struct {
	Title            string   `json:"title" validate:"required"`
	OrganizationName string   `json:"organization_name"`
	OrganizationURL  string   `json:"organization_url,omitempty" validate:"omitempty,url"`
	Location         string   `json:"location,omitempty"`
	StartMonth       *int     `json:"start_month,omitempty" validate:"omitempty,min=1,max=12"`
	StartYear        *int     `json:"start_year,omitempty"`
	EndMonth         *int     `json:"end_month,omitempty" validate:"omitempty,min=1,max=12"`
	EndYear          *int     `json:"end_year,omitempty"`
	IsCurrent        bool     `json:"is_current"`
	JobType          string   `json:"job_type,omitempty"`
	Skills           []string `json:"skills"`
	Description      string   `json:"description,omitempty"`
}

// Education is one entry in a profile's education history.
type Education struct {
	School      string `json:"school" validate:"required"`
	SchoolURL   string `json:"school_url,omitempty" validate:"omitempty,url"`
	Degree      string `json:"degree,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartYear   *int   `json:"start_year,omitempty"`
	EndYear     *int   `json:"end_year,omitempty"`
	Activities  string `json:"activities,omitempty"`
}

// CurrentEmployment is the denormalized employment snapshot carried on the
// profile for display; authoritative organization data lives in
// Organization and is reached through edges, not this struct.
type CurrentEmployment struct {
	OrganizationName string `json:"organization_name,omitempty"`
	Title            string `json:"title,omitempty"`
	JoinMonth        *int   `json:"join_month,omitempty"`
	JoinYear         *int   `json:"join_year,omitempty"`
	DurationText     string `json:"duration_text,omitempty"`
}

// Profile is the canonical internal representation of a public
// professional identity. URL is the authoritative dedup key after
// normalization (see orgsvc.NormalizeURL, reused here).
type Profile struct {
	ID                 string    `json:"id"`
	ExternalProfileID   string    `json:"external_profile_id" validate:"required"`
	PublicHandle        string    `json:"public_handle,omitempty"`
	URL                 string    `json:"url" validate:"required,url"`
	URN                  string    `json:"urn,omitempty"`

	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	FullName  string `json:"full_name" validate:"required"`
	Headline  string `json:"headline,omitempty"`
	About     string `json:"about,omitempty"`
	ImageURL  string `json:"image_url,omitempty" validate:"omitempty,url"`

	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country,omitempty"`
	Location string `json:"location,omitempty"`

	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty"`

	Experiences    []Experience `json:"experiences"`
	Educations     []Education  `json:"educations"`
	Certifications []string     `json:"certifications"`
	Languages      []string     `json:"languages"`

	FollowerCount   int `json:"follower_count"`
	ConnectionCount int `json:"connection_count"`

	CurrentEmployment CurrentEmployment `json:"current_employment"`

	Premium    bool `json:"premium"`
	Creator    bool `json:"creator"`
	Influencer bool `json:"influencer"`
	Verified   bool `json:"verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProfile constructs a Profile with list fields defaulted to empty
// (never nil) and timestamps normalized to UTC, per C1's serialization
// contract.
func NewProfile() *Profile {
	now := time.Now().UTC()
	return &Profile{
		Experiences:    []Experience{},
		Educations:     []Education{},
		Certifications: []string{},
		Languages:      []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Touch bumps UpdatedAt to the current time in UTC.
func (p *Profile) Touch() {
	p.UpdatedAt = time.Now().UTC()
}

// OrganizationURLs walks experiences in order and returns the distinct
// non-empty organization URLs, preserving first-seen order, as required
// by §4.5 step 5.
func (p *Profile) OrganizationURLs(normalize func(string) string) []string {
	seen := make(map[string]bool, len(p.Experiences))
	urls := make([]string, 0, len(p.Experiences))
	for _, exp := range p.Experiences {
		if exp.OrganizationURL == "" {
			continue
		}
		norm := normalize(exp.OrganizationURL)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		urls = append(urls, norm)
	}
	return urls
}

// ProfileFilter describes the allow-listed query parameters for listing
// profiles (§4.6). SortBy is validated against sortable field names at
// the repository layer; an unknown key is a caller error, not silently
// ignored.
type ProfileFilter struct {
	LinkedInURL string
	Name        string
	Company     string
	SortBy      string
	SortOrder   string
	Limit       int
	Offset      int
}

// ProfileRepository is the logical persistence contract for profiles
// (§4.6). Implementations enforce URL-normalization-before-insert and the
// uniqueness invariant the underlying store cannot express on its own.
type ProfileRepository interface {
	GetByURL(ctx context.Context, normalizedURL string) (*Profile, error)
	GetByID(ctx context.Context, id string) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
	List(ctx context.Context, filter ProfileFilter) ([]Profile, int64, error)
	Delete(ctx context.Context, id string) error
}
