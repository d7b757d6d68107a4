package proposalrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/pg"
)

const proposalColumns = "id, job_id, freelancer_id, amount, cover_letter, status, created_at"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

// Insert maps the (job_id, freelancer_id) unique violation to ErrConflict,
// which closes the race between two concurrent submissions.
func (repo *Repository) Insert(ctx context.Context, p *domain.Proposal) error {
	query := `
		INSERT INTO proposals (id, job_id, freelancer_id, amount, cover_letter, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := repo.db.Exec(ctx, query, p.ID, p.JobID, p.FreelancerID, p.Amount, p.CoverLetter, p.Status, p.CreatedAt)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return domain.ErrConflict
		}
		zap.L().Error("can't save proposal", zap.Error(err))
		return err
	}
	return nil
}

func (repo *Repository) Get(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	return repo.get(ctx, "SELECT "+proposalColumns+" FROM proposals WHERE id = $1", id)
}

func (repo *Repository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	return repo.get(ctx, "SELECT "+proposalColumns+" FROM proposals WHERE id = $1 FOR UPDATE", id)
}

func (repo *Repository) get(ctx context.Context, query string, id uuid.UUID) (*domain.Proposal, error) {
	var p domain.Proposal
	err := repo.db.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.JobID, &p.FreelancerID, &p.Amount, &p.CoverLetter, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		zap.L().Error("can't find proposal", zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (repo *Repository) ExistsFor(ctx context.Context, jobID, freelancerID uuid.UUID) (bool, error) {
	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM proposals WHERE job_id = $1 AND freelancer_id = $2)"
	if err := repo.db.QueryRow(ctx, query, jobID, freelancerID).Scan(&exists); err != nil {
		zap.L().Error("can't check proposal existence", zap.Error(err))
		return false, err
	}
	return exists, nil
}

func (repo *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProposalStatus) error {
	tag, err := repo.db.Exec(ctx, "UPDATE proposals SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		zap.L().Error("can't update proposal status", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (repo *Repository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.Proposal, error) {
	return repo.list(ctx, "SELECT "+proposalColumns+" FROM proposals WHERE job_id = $1 ORDER BY created_at ASC", jobID)
}

func (repo *Repository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]domain.Proposal, error) {
	return repo.list(ctx, "SELECT "+proposalColumns+" FROM proposals WHERE freelancer_id = $1 ORDER BY created_at DESC", freelancerID)
}

func (repo *Repository) list(ctx context.Context, query string, id uuid.UUID) ([]domain.Proposal, error) {
	rows, err := repo.db.Query(ctx, query, id)
	if err != nil {
		zap.L().Error("can't query proposals", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var proposals []domain.Proposal
	for rows.Next() {
		var p domain.Proposal
		if err := rows.Scan(&p.ID, &p.JobID, &p.FreelancerID, &p.Amount, &p.CoverLetter, &p.Status, &p.CreatedAt); err != nil {
			zap.L().Error("can't scan proposal", zap.Error(err))
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}
