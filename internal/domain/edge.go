package domain

import "context"

// Edge links one profile to one organization with employment metadata.
// Unique on (ProfileID, OrganizationID, StartYear, StartMonth) to
// tolerate boomerang employment (§3 invariant on Profile↔Organization
// edges).
type Edge struct {
	ProfileID      string `json:"profile_id"`
	OrganizationID string `json:"organization_id"`
	Title          string `json:"title,omitempty"`
	StartMonth     *int   `json:"start_month,omitempty"`
	StartYear      *int   `json:"start_year,omitempty"`
	EndMonth       *int   `json:"end_month,omitempty"`
	EndYear        *int   `json:"end_year,omitempty"`
	IsCurrent      bool   `json:"is_current"`
}

// EdgeRepository manages profile↔organization edges (§4.4, §4.6).
// Upsert must be idempotent under the composite key above so concurrent
// ingestion of the same profile never produces duplicate edges.
type EdgeRepository interface {
	Upsert(ctx context.Context, edge *Edge) error
	ListByProfile(ctx context.Context, profileID string) ([]Edge, error)
	DeleteByProfile(ctx context.Context, profileID string) error
}
