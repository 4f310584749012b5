package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/jexpert/profile-enrichment/internal/domain"
)

type profileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByURL(ctx context.Context, normalizedURL string) (*domain.Profile, error) {
	return r.get(ctx, "url = $1", normalizedURL)
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.get(ctx, "id = $1", id)
}

func (r *profileRepository) get(ctx context.Context, predicate string, arg string) (*domain.Profile, error) {
	query := fmt.Sprintf(`
		SELECT id, external_profile_id, public_handle, url, urn,
			first_name, last_name, full_name, headline, about, image_url,
			city, state, country, location, email, phone,
			experiences, educations, certifications, languages,
			follower_count, connection_count, current_employment,
			premium, creator, influencer, verified,
			created_at, updated_at
		FROM profiles WHERE %s`, predicate)

	var p domain.Profile
	var experiencesJSON, educationsJSON, currentEmploymentJSON []byte
	var certifications, languages []string

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.ExternalProfileID, &p.PublicHandle, &p.URL, &p.URN,
		&p.FirstName, &p.LastName, &p.FullName, &p.Headline, &p.About, &p.ImageURL,
		&p.City, &p.State, &p.Country, &p.Location, &p.Email, &p.Phone,
		&experiencesJSON, &educationsJSON, pq.Array(&certifications), pq.Array(&languages),
		&p.FollowerCount, &p.ConnectionCount, &currentEmploymentJSON,
		&p.Premium, &p.Creator, &p.Influencer, &p.Verified,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(experiencesJSON, &p.Experiences); err != nil {
		return nil, fmt.Errorf("decode experiences: %w", err)
	}
	if err := json.Unmarshal(educationsJSON, &p.Educations); err != nil {
		return nil, fmt.Errorf("decode educations: %w", err)
	}
	if len(currentEmploymentJSON) > 0 {
		if err := json.Unmarshal(currentEmploymentJSON, &p.CurrentEmployment); err != nil {
			return nil, fmt.Errorf("decode current employment: %w", err)
		}
	}
	p.Certifications = certifications
	p.Languages = languages
	if p.Experiences == nil {
		p.Experiences = []domain.Experience{}
	}
	if p.Educations == nil {
		p.Educations = []domain.Education{}
	}
	return &p, nil
}

func (r *profileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	experiencesJSON, err := json.Marshal(p.Experiences)
	if err != nil {
		return fmt.Errorf("encode experiences: %w", err)
	}
	educationsJSON, err := json.Marshal(p.Educations)
	if err != nil {
		return fmt.Errorf("encode educations: %w", err)
	}
	currentEmploymentJSON, err := json.Marshal(p.CurrentEmployment)
	if err != nil {
		return fmt.Errorf("encode current employment: %w", err)
	}

	query := `
		INSERT INTO profiles (
			id, external_profile_id, public_handle, url, urn,
			first_name, last_name, full_name, headline, about, image_url,
			city, state, country, location, email, phone,
			experiences, educations, certifications, languages,
			follower_count, connection_count, current_employment,
			premium, creator, influencer, verified,
			created_at, updated_at
		) VALUES (
			COALESCE(NULLIF($1, ''), gen_random_uuid()), $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21,
			$22, $23, $24,
			$25, $26, $27, $28,
			$29, $30
		)
		ON CONFLICT (url) DO UPDATE SET
			external_profile_id = EXCLUDED.external_profile_id,
			public_handle = EXCLUDED.public_handle,
			urn = EXCLUDED.urn,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			full_name = EXCLUDED.full_name,
			headline = EXCLUDED.headline,
			about = EXCLUDED.about,
			image_url = EXCLUDED.image_url,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			country = EXCLUDED.country,
			location = EXCLUDED.location,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			experiences = EXCLUDED.experiences,
			educations = EXCLUDED.educations,
			certifications = EXCLUDED.certifications,
			languages = EXCLUDED.languages,
			follower_count = EXCLUDED.follower_count,
			connection_count = EXCLUDED.connection_count,
			current_employment = EXCLUDED.current_employment,
			premium = EXCLUDED.premium,
			creator = EXCLUDED.creator,
			influencer = EXCLUDED.influencer,
			verified = EXCLUDED.verified,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

	return r.db.QueryRow(ctx, query,
		p.ID, p.ExternalProfileID, p.PublicHandle, p.URL, p.URN,
		p.FirstName, p.LastName, p.FullName, p.Headline, p.About, p.ImageURL,
		p.City, p.State, p.Country, p.Location, p.Email, p.Phone,
		experiencesJSON, educationsJSON, pq.Array(p.Certifications), pq.Array(p.Languages),
		p.FollowerCount, p.ConnectionCount, currentEmploymentJSON,
		p.Premium, p.Creator, p.Influencer, p.Verified,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
}

func (r *profileRepository) List(ctx context.Context, filter domain.ProfileFilter) ([]domain.Profile, int64, error) {
	var conditions []string
	var args []interface{}
	argN := 1

	if filter.LinkedInURL != "" {
		conditions = append(conditions, fmt.Sprintf("url = $%d", argN))
		args = append(args, filter.LinkedInURL)
		argN++
	}
	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("full_name ILIKE $%d", argN))
		args = append(args, "%"+filter.Name+"%")
		argN++
	}
	if filter.Company != "" {
		conditions = append(conditions, fmt.Sprintf("current_employment->>'organization_name' ILIKE $%d", argN))
		args = append(args, "%"+filter.Company+"%")
		argN++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	sortColumn := "created_at"
	switch filter.SortBy {
	case "", "created_at":
		sortColumn = "created_at"
	case "full_name", "name":
		sortColumn = "full_name"
	case "updated_at":
		sortColumn = "updated_at"
	default:
		return nil, 0, fmt.Errorf("unsupported sort_by value %q", filter.SortBy)
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM profiles %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, external_profile_id, public_handle, url, urn,
			first_name, last_name, full_name, headline, about, image_url,
			city, state, country, location, email, phone,
			experiences, educations, certifications, languages,
			follower_count, connection_count, current_employment,
			premium, creator, influencer, verified,
			created_at, updated_at
		FROM profiles %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`, where, sortColumn, sortOrder, argN, argN+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		var experiencesJSON, educationsJSON, currentEmploymentJSON []byte
		var certifications, languages []string
		if err := rows.Scan(
			&p.ID, &p.ExternalProfileID, &p.PublicHandle, &p.URL, &p.URN,
			&p.FirstName, &p.LastName, &p.FullName, &p.Headline, &p.About, &p.ImageURL,
			&p.City, &p.State, &p.Country, &p.Location, &p.Email, &p.Phone,
			&experiencesJSON, &educationsJSON, pq.Array(&certifications), pq.Array(&languages),
			&p.FollowerCount, &p.ConnectionCount, &currentEmploymentJSON,
			&p.Premium, &p.Creator, &p.Influencer, &p.Verified,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		_ = json.Unmarshal(experiencesJSON, &p.Experiences)
		_ = json.Unmarshal(educationsJSON, &p.Educations)
		if len(currentEmploymentJSON) > 0 {
			_ = json.Unmarshal(currentEmploymentJSON, &p.CurrentEmployment)
		}
		p.Certifications = certifications
		p.Languages = languages
		profiles = append(profiles, p)
	}
	return profiles, total, nil
}

func (r *profileRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	return err
}
