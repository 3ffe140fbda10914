package port

import (
	"context"

	"github.com/google/uuid"

	"inkwell/internal/domain"
)

// FormatJobRepository abstracts persistence of format jobs.
type FormatJobRepository interface {
	Create(ctx context.Context, job *domain.FormatJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FormatJob, error)
	List(ctx context.Context, offset, limit int) ([]domain.FormatJob, int, error)
	// ClaimQueued atomically moves up to limit queued jobs to processing and
	// returns them, incrementing their attempt counters.
	ClaimQueued(ctx context.Context, limit int) ([]domain.FormatJob, error)
	UpdateResult(ctx context.Context, job *domain.FormatJob) error
	MarkFailed(ctx context.Context, id uuid.UUID, errText string, requeue bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}
