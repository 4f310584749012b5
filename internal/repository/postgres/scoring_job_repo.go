package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jexpert/profile-enrichment/internal/domain"
)

type scoringJobRepository struct {
	db *pgxpool.Pool
}

func NewScoringJobRepository(db *pgxpool.Pool) domain.ScoringJobRepository {
	return &scoringJobRepository{db: db}
}

func (r *scoringJobRepository) Create(ctx context.Context, job *domain.ScoringJob) error {
	query := `
		INSERT INTO scoring_jobs (
			id, profile_id, prompt, model, max_tokens, temperature, status, created_at, updated_at
		) VALUES (
			COALESCE(NULLIF($1, ''), gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id`
	return r.db.QueryRow(ctx, query,
		job.ID, job.ProfileID, job.Prompt, job.Model, job.MaxTokens, job.Temperature,
		job.Status, job.CreatedAt, job.UpdatedAt,
	).Scan(&job.ID)
}

func (r *scoringJobRepository) GetByID(ctx context.Context, id string) (*domain.ScoringJob, error) {
	query := `
		SELECT id, profile_id, prompt, model, max_tokens, temperature, status,
			COALESCE(raw_response, ''), parsed_score, tokens_used, COALESCE(model_used, ''),
			error_code, error_message, error_retryable, error_retry_count,
			created_at, started_at, completed_at, failed_at, updated_at
		FROM scoring_jobs WHERE id = $1`

	var job domain.ScoringJob
	var parsedScore []byte
	var errorCode, errorMessage *string
	var errorRetryable *bool
	var errorRetryCount *int

	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.ProfileID, &job.Prompt, &job.Model, &job.MaxTokens, &job.Temperature, &job.Status,
		&job.RawResponse, &parsedScore, &job.TokensUsed, &job.ModelUsed,
		&errorCode, &errorMessage, &errorRetryable, &errorRetryCount,
		&job.CreatedAt, &job.StartedAt, &job.CompletedAt, &job.FailedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if len(parsedScore) > 0 {
		job.ParsedScore = json.RawMessage(parsedScore)
	}
	if errorCode != nil {
		job.Error = &domain.JobError{
			Code:    *errorCode,
			Message: derefString(errorMessage),
		}
		if errorRetryable != nil {
			job.Error.Retryable = *errorRetryable
		}
		if errorRetryCount != nil {
			job.Error.RetryCount = *errorRetryCount
		}
	}
	return &job, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ClaimPending performs the atomic pending→processing compare-and-swap
// (§4.7 concurrency). A RowsAffected() of 0 means another worker already
// won the race; this is not an error.
func (r *scoringJobRepository) ClaimPending(ctx context.Context, id string) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE scoring_jobs SET status = $1, started_at = $2, updated_at = $2
		WHERE id = $3 AND status = $4`,
		domain.JobStatusProcessing, time.Now().UTC(), id, domain.JobStatusPending)
	if err != nil {
		return false, fmt.Errorf("claim pending job: %w", err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

func (r *scoringJobRepository) Complete(ctx context.Context, id string, rawResponse string, parsedScore json.RawMessage, tokensUsed int, modelUsed string) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx, `
		UPDATE scoring_jobs SET
			status = $1, raw_response = $2, parsed_score = $3, tokens_used = $4,
			model_used = $5, completed_at = $6, updated_at = $6
		WHERE id = $7`,
		domain.JobStatusCompleted, rawResponse, []byte(parsedScore), tokensUsed, modelUsed, now, id)
	return err
}

func (r *scoringJobRepository) Fail(ctx context.Context, id string, jobErr domain.JobError) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx, `
		UPDATE scoring_jobs SET
			status = $1, error_code = $2, error_message = $3, error_retryable = $4,
			error_retry_count = $5, failed_at = $6, updated_at = $6
		WHERE id = $7`,
		domain.JobStatusFailed, jobErr.Code, jobErr.Message, jobErr.Retryable, jobErr.RetryCount, now, id)
	return err
}

func (r *scoringJobRepository) ResetForRetry(ctx context.Context, id string) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx, `
		UPDATE scoring_jobs SET
			status = $1, started_at = NULL, completed_at = NULL, failed_at = NULL,
			error_retry_count = COALESCE(error_retry_count, 0) + 1, updated_at = $2
		WHERE id = $3`,
		domain.JobStatusPending, now, id)
	return err
}

func (r *scoringJobRepository) ListPending(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM scoring_jobs WHERE status = $1 ORDER BY created_at ASC LIMIT $2`, domain.JobStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *scoringJobRepository) CountRecentByProfile(ctx context.Context, profileID string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM scoring_jobs WHERE profile_id = $1 AND created_at >= $2`, profileID, since).Scan(&count)
	return count, err
}

func (r *scoringJobRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM scoring_jobs WHERE status IN ($1, $2) AND updated_at < $3`,
		domain.JobStatusCompleted, domain.JobStatusFailed, cutoff)
	if err != nil {
		return 0, err
	}
	return cmdTag.RowsAffected(), nil
}
