package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/jexpert/profile-enrichment/internal/domain"
)

type organizationRepository struct {
	db *pgxpool.Pool
}

func NewOrganizationRepository(db *pgxpool.Pool) domain.OrganizationRepository {
	return &organizationRepository{db: db}
}

const organizationColumns = `
	id, external_organization_id, url, name, tagline, description, website,
	domain, logo_url, year_founded, industries, specialties,
	employee_count, employee_range, follower_count, headquarters,
	email, phone, created_at, updated_at`

func scanOrganization(row pgx.Row) (*domain.Organization, error) {
	var o domain.Organization
	var industries, specialties []string
	var headquartersJSON []byte

	err := row.Scan(
		&o.ID, &o.ExternalOrganizationID, &o.URL, &o.Name, &o.Tagline, &o.Description, &o.Website,
		&o.Domain, &o.LogoURL, &o.YearFounded, pq.Array(&industries), pq.Array(&specialties),
		&o.EmployeeCount, &o.EmployeeRange, &o.FollowerCount, &headquartersJSON,
		&o.Email, &o.Phone, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	o.Industries = industries
	o.Specialties = specialties
	if len(headquartersJSON) > 0 {
		if err := json.Unmarshal(headquartersJSON, &o.Headquarters); err != nil {
			return nil, fmt.Errorf("decode headquarters: %w", err)
		}
	}
	if o.Industries == nil {
		o.Industries = []string{}
	}
	if o.Specialties == nil {
		o.Specialties = []string{}
	}
	return &o, nil
}

func (r *organizationRepository) GetByURL(ctx context.Context, normalizedURL string) (*domain.Organization, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM organizations WHERE url = $1`, organizationColumns), normalizedURL)
	return scanOrganization(row)
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM organizations WHERE id = $1`, organizationColumns), id)
	return scanOrganization(row)
}

func (r *organizationRepository) FindByNameMissingURL(ctx context.Context) ([]domain.Organization, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT %s FROM organizations WHERE url IS NULL OR url = ''`, organizationColumns))
	if err != nil {
		return nil, fmt.Errorf("find url-less organizations: %w", err)
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, *o)
	}
	return orgs, nil
}

func (r *organizationRepository) Upsert(ctx context.Context, o *domain.Organization) error {
	headquartersJSON, err := json.Marshal(o.Headquarters)
	if err != nil {
		return fmt.Errorf("encode headquarters: %w", err)
	}

	query := `
		INSERT INTO organizations (
			id, external_organization_id, url, name, tagline, description, website,
			domain, logo_url, year_founded, industries, specialties,
			employee_count, employee_range, follower_count, headquarters,
			email, phone, created_at, updated_at
		) VALUES (
			COALESCE(NULLIF($1, ''), gen_random_uuid()), $2, NULLIF($3, ''), $4, $5, $6, $7,
			$8, $9, $10, $11, $12,
			$13, $14, $15, $16,
			$17, $18, $19, $20
		)
		ON CONFLICT (id) DO UPDATE SET
			external_organization_id = EXCLUDED.external_organization_id,
			url = EXCLUDED.url,
			name = EXCLUDED.name,
			tagline = EXCLUDED.tagline,
			description = EXCLUDED.description,
			website = EXCLUDED.website,
			domain = EXCLUDED.domain,
			logo_url = EXCLUDED.logo_url,
			year_founded = EXCLUDED.year_founded,
			industries = EXCLUDED.industries,
			specialties = EXCLUDED.specialties,
			employee_count = EXCLUDED.employee_count,
			employee_range = EXCLUDED.employee_range,
			follower_count = EXCLUDED.follower_count,
			headquarters = EXCLUDED.headquarters,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

	return r.db.QueryRow(ctx, query,
		o.ID, o.ExternalOrganizationID, o.URL, o.Name, o.Tagline, o.Description, o.Website,
		o.Domain, o.LogoURL, o.YearFounded, pq.Array(o.Industries), pq.Array(o.Specialties),
		o.EmployeeCount, o.EmployeeRange, o.FollowerCount, headquartersJSON,
		o.Email, o.Phone, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
}
