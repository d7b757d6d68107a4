package contractrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/pg"
)

const contractColumns = `id, proposal_id, job_id, client_id, freelancer_id, status, amount, terms,
	start_date, end_date, submission_data, client_feedback, created_at, updated_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func scanContract(row pgx.Row, c *domain.Contract) error {
	return row.Scan(&c.ID, &c.ProposalID, &c.JobID, &c.ClientID, &c.FreelancerID, &c.Status, &c.Amount, &c.Terms,
		&c.StartDate, &c.EndDate, &c.SubmissionData, &c.ClientFeedback, &c.CreatedAt, &c.UpdatedAt)
}

// Insert returns ErrConflict when the proposal already has a contract.
func (repo *Repository) Insert(ctx context.Context, c *domain.Contract) error {
	query := `
		INSERT INTO contracts (id, proposal_id, job_id, client_id, freelancer_id, status, amount, terms,
			start_date, end_date, submission_data, client_feedback, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := repo.db.Exec(ctx, query, c.ID, c.ProposalID, c.JobID, c.ClientID, c.FreelancerID, c.Status, c.Amount, c.Terms,
		c.StartDate, c.EndDate, c.SubmissionData, c.ClientFeedback, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return domain.ErrConflict
		}
		zap.L().Error("can't save contract", zap.Error(err))
		return err
	}
	return nil
}

func (repo *Repository) Get(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	return repo.get(ctx, "SELECT "+contractColumns+" FROM contracts WHERE id = $1", id)
}

// GetForUpdate row-locks the contract so concurrent transitions serialize.
func (repo *Repository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	return repo.get(ctx, "SELECT "+contractColumns+" FROM contracts WHERE id = $1 FOR UPDATE", id)
}

func (repo *Repository) get(ctx context.Context, query string, id uuid.UUID) (*domain.Contract, error) {
	var c domain.Contract
	if err := scanContract(repo.db.QueryRow(ctx, query, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		zap.L().Error("can't find contract", zap.Error(err))
		return nil, err
	}
	return &c, nil
}

// Update persists the mutable fields of a contract.
func (repo *Repository) Update(ctx context.Context, c *domain.Contract) error {
	query := `
		UPDATE contracts
		SET status = $1, terms = $2, end_date = $3, submission_data = $4, client_feedback = $5, updated_at = $6
		WHERE id = $7
	`
	tag, err := repo.db.Exec(ctx, query, c.Status, c.Terms, c.EndDate, c.SubmissionData, c.ClientFeedback, c.UpdatedAt, c.ID)
	if err != nil {
		zap.L().Error("can't update contract", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (repo *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Contract, error) {
	query := "SELECT " + contractColumns + " FROM contracts WHERE client_id = $1 OR freelancer_id = $1 ORDER BY updated_at DESC"
	rows, err := repo.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't query contracts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		var c domain.Contract
		if err := scanContract(rows, &c); err != nil {
			zap.L().Error("can't scan contract", zap.Error(err))
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}
