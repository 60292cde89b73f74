package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"privasee/internal/domain"
	"privasee/internal/port"
)

type batchRunRepo struct {
	db *sqlx.DB
}

// NewBatchRunRepo creates a new PostgreSQL-backed BatchRunRepository.
func NewBatchRunRepo(db *sqlx.DB) port.BatchRunRepository {
	return &batchRunRepo{db: db}
}

func (r *batchRunRepo) Create(ctx context.Context, run *domain.BatchRun) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("batchRunRepo.Create begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batch_runs (id, folder_path, total_documents, successful_documents, batch_score, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID, run.FolderPath, run.TotalDocuments, run.SuccessfulDocuments, run.BatchScore, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("batchRunRepo.Create: %w", err)
	}

	for i := range run.Results {
		res := &run.Results[i]
		_, err = tx.ExecContext(ctx,
			`INSERT INTO batch_run_results (batch_run_id, position, filename, masked_filename, status, entities_to_mask, entities_masked, score, error)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			run.ID, i, res.Filename, res.MaskedFilename, res.Status, res.EntitiesToMask, res.EntitiesMasked, res.Score, res.Error)
		if err != nil {
			return fmt.Errorf("batchRunRepo.Create result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("batchRunRepo.Create commit: %w", err)
	}
	return nil
}

func (r *batchRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BatchRun, error) {
	var run domain.BatchRun
	err := r.db.GetContext(ctx, &run,
		"SELECT id, folder_path, total_documents, successful_documents, batch_score, created_at FROM batch_runs WHERE id = $1",
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("batchRunRepo.GetByID: %w", err)
	}

	err = r.db.SelectContext(ctx, &run.Results,
		`SELECT filename, masked_filename, status, entities_to_mask, entities_masked, score, error
		 FROM batch_run_results WHERE batch_run_id = $1 ORDER BY position`,
		id)
	if err != nil {
		return nil, fmt.Errorf("batchRunRepo.GetByID results: %w", err)
	}
	return &run, nil
}

func (r *batchRunRepo) List(ctx context.Context, offset, limit int) ([]domain.BatchRun, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM batch_runs"); err != nil {
		return nil, 0, fmt.Errorf("batchRunRepo.List count: %w", err)
	}

	var runs []domain.BatchRun
	err := r.db.SelectContext(ctx, &runs,
		`SELECT id, folder_path, total_documents, successful_documents, batch_score, created_at
		 FROM batch_runs ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("batchRunRepo.List: %w", err)
	}
	return runs, total, nil
}
