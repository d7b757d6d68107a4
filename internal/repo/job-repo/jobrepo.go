package jobrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/pg"
)

const jobColumns = "id, client_id, title, description, budget, status, created_at"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func (repo *Repository) Create(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (id, client_id, title, description, budget, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := repo.db.Exec(ctx, query, job.ID, job.ClientID, job.Title, job.Description, job.Budget, job.Status, job.CreatedAt)
	if err != nil {
		zap.L().Error("can't save job", zap.Error(err))
		return err
	}
	return nil
}

func (repo *Repository) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	return repo.get(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = $1", id)
}

// GetForUpdate row-locks the job for the rest of the transaction.
func (repo *Repository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	return repo.get(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = $1 FOR UPDATE", id)
}

func (repo *Repository) get(ctx context.Context, query string, id uuid.UUID) (*domain.Job, error) {
	var job domain.Job
	err := repo.db.QueryRow(ctx, query, id).
		Scan(&job.ID, &job.ClientID, &job.Title, &job.Description, &job.Budget, &job.Status, &job.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		zap.L().Error("can't find job", zap.Error(err))
		return nil, err
	}
	return &job, nil
}

func (repo *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus) error {
	tag, err := repo.db.Exec(ctx, "UPDATE jobs SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		zap.L().Error("can't update job status", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (repo *Repository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Job, error) {
	return repo.list(ctx, "SELECT "+jobColumns+" FROM jobs WHERE client_id = $1 ORDER BY created_at DESC", clientID)
}

func (repo *Repository) ListOpen(ctx context.Context) ([]domain.Job, error) {
	return repo.list(ctx, "SELECT "+jobColumns+" FROM jobs WHERE status = 'OPEN' ORDER BY created_at DESC")
}

func (repo *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Job, error) {
	rows, err := repo.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't query jobs", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(&job.ID, &job.ClientID, &job.Title, &job.Description, &job.Budget, &job.Status, &job.CreatedAt); err != nil {
			zap.L().Error("can't scan job", zap.Error(err))
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
