package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jexpert/profile-enrichment/internal/domain"
)

type edgeRepository struct {
	db *pgxpool.Pool
}

func NewEdgeRepository(db *pgxpool.Pool) domain.EdgeRepository {
	return &edgeRepository{db: db}
}

// Upsert is idempotent on (profile_id, organization_id, start_year,
// start_month), tolerating NULL start fields via a coalesced unique
// index so boomerang employment with unknown start dates still dedups
// to a single edge.
func (r *edgeRepository) Upsert(ctx context.Context, e *domain.Edge) error {
	query := `
		INSERT INTO profile_organizations (
			profile_id, organization_id, title, start_month, start_year,
			end_month, end_year, is_current
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (profile_id, organization_id, COALESCE(start_year, 0), COALESCE(start_month, 0))
		DO UPDATE SET
			title = EXCLUDED.title,
			end_month = EXCLUDED.end_month,
			end_year = EXCLUDED.end_year,
			is_current = EXCLUDED.is_current`
	_, err := r.db.Exec(ctx, query, e.ProfileID, e.OrganizationID, e.Title, e.StartMonth, e.StartYear, e.EndMonth, e.EndYear, e.IsCurrent)
	if err != nil {
		return fmt.Errorf("upsert edge: %w", err)
	}
	return nil
}

func (r *edgeRepository) ListByProfile(ctx context.Context, profileID string) ([]domain.Edge, error) {
	rows, err := r.db.Query(ctx, `
		SELECT profile_id, organization_id, title, start_month, start_year, end_month, end_year, is_current
		FROM profile_organizations WHERE profile_id = $1`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []domain.Edge
	for rows.Next() {
		var e domain.Edge
		if err := rows.Scan(&e.ProfileID, &e.OrganizationID, &e.Title, &e.StartMonth, &e.StartYear, &e.EndMonth, &e.EndYear, &e.IsCurrent); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, nil
}

func (r *edgeRepository) DeleteByProfile(ctx context.Context, profileID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM profile_organizations WHERE profile_id = $1`, profileID)
	return err
}
