package ticketrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/pg"
)

const ticketColumns = "id, contract_id, created_by_id, assigned_to_id, title, description, status, priority, created_at"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func nullable(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func pointer(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	return &id.UUID
}

func scanTicket(row pgx.Row, t *domain.Ticket) error {
	var contractID, assignedTo uuid.NullUUID
	if err := row.Scan(&t.ID, &contractID, &t.CreatedByID, &assignedTo, &t.Title, &t.Description, &t.Status, &t.Priority, &t.CreatedAt); err != nil {
		return err
	}
	t.ContractID = pointer(contractID)
	t.AssignedToID = pointer(assignedTo)
	return nil
}

func (repo *Repository) Insert(ctx context.Context, t *domain.Ticket) error {
	query := `
		INSERT INTO tickets (id, contract_id, created_by_id, assigned_to_id, title, description, status, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := repo.db.Exec(ctx, query, t.ID, nullable(t.ContractID), t.CreatedByID, nullable(t.AssignedToID),
		t.Title, t.Description, t.Status, t.Priority, t.CreatedAt)
	if err != nil {
		zap.L().Error("can't save ticket", zap.Error(err))
		return err
	}
	return nil
}

func (repo *Repository) Get(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	return repo.get(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE id = $1", id)
}

func (repo *Repository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	return repo.get(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE id = $1 FOR UPDATE", id)
}

func (repo *Repository) get(ctx context.Context, query string, id uuid.UUID) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := scanTicket(repo.db.QueryRow(ctx, query, id), &t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		zap.L().Error("can't find ticket", zap.Error(err))
		return nil, err
	}
	return &t, nil
}

// ListForUser returns tickets the user opened or is assigned to.
func (repo *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Ticket, error) {
	return repo.list(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE created_by_id = $1 OR assigned_to_id = $1 ORDER BY created_at DESC", userID)
}

func (repo *Repository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]domain.Ticket, error) {
	return repo.list(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE contract_id = $1 ORDER BY created_at ASC", contractID)
}

func (repo *Repository) list(ctx context.Context, query string, id uuid.UUID) ([]domain.Ticket, error) {
	rows, err := repo.db.Query(ctx, query, id)
	if err != nil {
		zap.L().Error("can't query tickets", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := scanTicket(rows, &t); err != nil {
			zap.L().Error("can't scan ticket", zap.Error(err))
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (repo *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TicketStatus) error {
	tag, err := repo.db.Exec(ctx, "UPDATE tickets SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		zap.L().Error("can't update ticket status", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (repo *Repository) InsertResponse(ctx context.Context, r *domain.TicketResponse) error {
	query := `
		INSERT INTO ticket_responses (id, ticket_id, author_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := repo.db.Exec(ctx, query, r.ID, r.TicketID, r.AuthorID, r.Message, r.CreatedAt); err != nil {
		zap.L().Error("can't save ticket response", zap.Error(err))
		return err
	}
	return nil
}

func (repo *Repository) ListResponses(ctx context.Context, ticketID uuid.UUID) ([]domain.TicketResponse, error) {
	query := "SELECT id, ticket_id, author_id, message, created_at FROM ticket_responses WHERE ticket_id = $1 ORDER BY created_at ASC"
	rows, err := repo.db.Query(ctx, query, ticketID)
	if err != nil {
		zap.L().Error("can't query ticket responses", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var responses []domain.TicketResponse
	for rows.Next() {
		var r domain.TicketResponse
		if err := rows.Scan(&r.ID, &r.TicketID, &r.AuthorID, &r.Message, &r.CreatedAt); err != nil {
			zap.L().Error("can't scan ticket response", zap.Error(err))
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}
