package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"inkwell/internal/domain"
	"inkwell/internal/port"
)

type formatJobRepo struct {
	db *sqlx.DB
}

// NewFormatJobRepo creates a new PostgreSQL-backed FormatJobRepository.
func NewFormatJobRepo(db *sqlx.DB) port.FormatJobRepository {
	return &formatJobRepo{db: db}
}

func (r *formatJobRepo) Create(ctx context.Context, job *domain.FormatJob) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `INSERT INTO format_jobs (
		id, original_name, content_type, file_size,
		storage_bucket, storage_key,
		preset, model, custom_instruction,
		status, attempts,
		markdown, image_count, confidence, degraded, error_text,
		completed_at, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6,
		$7, $8, $9,
		$10, $11,
		$12, $13, $14, $15, $16,
		$17, $18, $19
	)`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.OriginalName, job.ContentType, job.FileSize,
		job.StorageBucket, job.StorageKey,
		job.Preset, job.Model, job.CustomInstruction,
		job.Status, job.Attempts,
		job.Markdown, job.ImageCount, job.Confidence, job.Degraded, job.ErrorText,
		job.CompletedAt, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("formatJobRepo.Create: %w", err)
	}
	return nil
}

func (r *formatJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FormatJob, error) {
	var job domain.FormatJob
	err := r.db.GetContext(ctx, &job, "SELECT * FROM format_jobs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("formatJobRepo.GetByID: %w", err)
	}
	return &job, nil
}

func (r *formatJobRepo) List(ctx context.Context, offset, limit int) ([]domain.FormatJob, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM format_jobs"); err != nil {
		return nil, 0, fmt.Errorf("formatJobRepo.List count: %w", err)
	}

	var jobs []domain.FormatJob
	err := r.db.SelectContext(ctx, &jobs,
		`SELECT * FROM format_jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("formatJobRepo.List: %w", err)
	}
	return jobs, total, nil
}

// ClaimQueued relies on FOR UPDATE SKIP LOCKED so concurrent workers never
// claim the same job twice.
func (r *formatJobRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.FormatJob, error) {
	var jobs []domain.FormatJob
	err := r.db.SelectContext(ctx, &jobs,
		`UPDATE format_jobs SET
			status = $1, attempts = attempts + 1, updated_at = $2
		 WHERE id IN (
			SELECT id FROM format_jobs
			WHERE status = $3
			ORDER BY created_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.JobStatusProcessing, time.Now().UTC(), domain.JobStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("formatJobRepo.ClaimQueued: %w", err)
	}
	return jobs, nil
}

func (r *formatJobRepo) UpdateResult(ctx context.Context, job *domain.FormatJob) error {
	job.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE format_jobs SET
			status = $1, model = $2,
			markdown = $3, image_count = $4, confidence = $5, degraded = $6,
			error_text = $7, completed_at = $8, updated_at = $9
		 WHERE id = $10`,
		job.Status, job.Model,
		job.Markdown, job.ImageCount, job.Confidence, job.Degraded,
		job.ErrorText, job.CompletedAt, job.UpdatedAt,
		job.ID)
	if err != nil {
		return fmt.Errorf("formatJobRepo.UpdateResult: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *formatJobRepo) MarkFailed(ctx context.Context, id uuid.UUID, errText string, requeue bool) error {
	status := domain.JobStatusFailed
	if requeue {
		status = domain.JobStatusQueued
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE format_jobs SET status = $1, error_text = $2, updated_at = $3 WHERE id = $4`,
		status, errText, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("formatJobRepo.MarkFailed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *formatJobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM format_jobs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("formatJobRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}
