package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jexpert/profile-enrichment/internal/domain"
)

type templateRepository struct {
	db *pgxpool.Pool
}

func NewTemplateRepository(db *pgxpool.Pool) domain.TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(ctx context.Context, tmpl *domain.Template) error {
	query := `
		INSERT INTO prompt_templates (id, name, description, category, prompt_text, version, is_active, created_at, updated_at)
		VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	return r.db.QueryRow(ctx, query,
		tmpl.ID, tmpl.Name, tmpl.Description, tmpl.Category, tmpl.PromptText, tmpl.Version, tmpl.IsActive,
		tmpl.CreatedAt, tmpl.UpdatedAt,
	).Scan(&tmpl.ID)
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	query := `
		SELECT id, name, description, category, prompt_text, version, is_active, created_at, updated_at
		FROM prompt_templates WHERE id = $1`
	var t domain.Template
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.Category, &t.PromptText, &t.Version, &t.IsActive,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *templateRepository) List(ctx context.Context, category domain.TemplateCategory, limit, offset int) ([]domain.Template, int64, error) {
	where := ""
	args := []interface{}{}
	argN := 1
	if category != "" {
		where = fmt.Sprintf("WHERE category = $%d", argN)
		args = append(args, category)
		argN++
	}

	var total int64
	if err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM prompt_templates %s", where), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, category, prompt_text, version, is_active, created_at, updated_at
		FROM prompt_templates %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argN, argN+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var templates []domain.Template
	for rows.Next() {
		var t domain.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Category, &t.PromptText, &t.Version, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		templates = append(templates, t)
	}
	return templates, total, nil
}

func (r *templateRepository) Update(ctx context.Context, tmpl *domain.Template) error {
	_, err := r.db.Exec(ctx, `
		UPDATE prompt_templates SET
			name = $1, description = $2, category = $3, prompt_text = $4,
			version = version + 1, updated_at = $5
		WHERE id = $6`,
		tmpl.Name, tmpl.Description, tmpl.Category, tmpl.PromptText, tmpl.UpdatedAt, tmpl.ID)
	return err
}

func (r *templateRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE prompt_templates SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *templateRepository) Resolve(ctx context.Context, id string) (string, error) {
	var promptText string
	err := r.db.QueryRow(ctx, `SELECT prompt_text FROM prompt_templates WHERE id = $1 AND is_active = true`, id).Scan(&promptText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("template %s not found or inactive", id)
		}
		return "", err
	}
	return promptText, nil
}
