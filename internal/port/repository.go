package port

import (
	"context"

	"github.com/google/uuid"

	"privasee/internal/domain"
)

// BatchRunRepository persists batch runs and their per-document results.
type BatchRunRepository interface {
	Create(ctx context.Context, run *domain.BatchRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BatchRun, error)
	List(ctx context.Context, offset, limit int) ([]domain.BatchRun, int, error)
}
