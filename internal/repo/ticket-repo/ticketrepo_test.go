package ticketrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

var (
	ticketID   = uuid.MustParse("e1f2a3b4-c5d6-4e7f-8091-a2b3c4d5e6f7")
	contractID = uuid.MustParse("f2a3b4c5-d6e7-4f80-91a2-b3c4d5e6f708")
	creatorID  = uuid.MustParse("a3b4c5d6-e7f8-4091-a2b3-c4d5e6f70819")
	assigneeID = uuid.MustParse("b4c5d6e7-f809-41a2-b3c4-d5e6f708192a")
	columns    = []string{"id", "contract_id", "created_by_id", "assigned_to_id", "title", "description", "status", "priority", "created_at"}
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Insert(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	ticket := &domain.Ticket{
		ID: ticketID, ContractID: &contractID, CreatedByID: creatorID, AssignedToID: &assigneeID,
		Title: "Work submitted", Status: domain.TicketOpen, Priority: domain.PriorityMedium, CreatedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tickets")).
		WithArgs(ticketID, uuid.NullUUID{UUID: contractID, Valid: true}, creatorID, uuid.NullUUID{UUID: assigneeID, Valid: true},
			"Work submitted", "", domain.TicketOpen, domain.PriorityMedium, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	assert.NoError(t, repo.Insert(context.Background(), ticket))

	standalone := &domain.Ticket{ID: ticketID, CreatedByID: creatorID, Title: "Help", Status: domain.TicketOpen, Priority: domain.PriorityLow, CreatedAt: now}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tickets")).
		WithArgs(ticketID, uuid.NullUUID{}, creatorID, uuid.NullUUID{}, "Help", "", domain.TicketOpen, domain.PriorityLow, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	assert.NoError(t, repo.Insert(context.Background(), standalone))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tickets")).WillReturnError(errors.New("database error"))
	assert.Error(t, repo.Insert(context.Background(), ticket))
}

func TestRepository_Get(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM tickets WHERE id = $1")).
		WithArgs(ticketID).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			ticketID.String(), contractID.String(), creatorID.String(), assigneeID.String(),
			"Contract declined", "reason", "OPEN", "HIGH", now))
	ticket, err := repo.Get(context.Background(), ticketID)
	require.NoError(t, err)
	assert.Equal(t, contractID, *ticket.ContractID)
	assert.Equal(t, assigneeID, *ticket.AssignedToID)
	assert.Equal(t, domain.PriorityHigh, ticket.Priority)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tickets WHERE id = $1 FOR UPDATE")).
		WithArgs(ticketID).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			ticketID.String(), nil, creatorID.String(), nil, "Help", "", "CLOSED", "LOW", now))
	ticket, err = repo.GetForUpdate(context.Background(), ticketID)
	require.NoError(t, err)
	assert.Nil(t, ticket.ContractID)
	assert.Nil(t, ticket.AssignedToID)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tickets WHERE id = $1")).
		WithArgs(ticketID).
		WillReturnError(pgx.ErrNoRows)
	_, err = repo.Get(context.Background(), ticketID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_ListForUser(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE created_by_id = $1 OR assigned_to_id = $1")).
		WithArgs(assigneeID).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(ticketID.String(), contractID.String(), creatorID.String(), assigneeID.String(), "a", "", "OPEN", "HIGH", now).
			AddRow(uuid.New().String(), contractID.String(), creatorID.String(), assigneeID.String(), "b", "", "IN_PROGRESS", "MEDIUM", now))
	tickets, err := repo.ListForUser(context.Background(), assigneeID)
	require.NoError(t, err)
	assert.Len(t, tickets, 2)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE contract_id = $1")).
		WithArgs(contractID).
		WillReturnError(errors.New("database error"))
	_, err = repo.ListByContract(context.Background(), contractID)
	assert.Error(t, err)
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tickets SET status = $1 WHERE id = $2")).
		WithArgs(domain.TicketInProgress, ticketID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.UpdateStatus(context.Background(), ticketID, domain.TicketInProgress))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tickets")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), ticketID, domain.TicketClosed), domain.ErrNotFound)
}

func TestRepository_Responses(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	responseID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ticket_responses")).
		WithArgs(responseID, ticketID, assigneeID, "On it", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	err := repo.InsertResponse(context.Background(), &domain.TicketResponse{ID: responseID, TicketID: ticketID, AuthorID: assigneeID, Message: "On it", CreatedAt: now})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM ticket_responses WHERE ticket_id = $1")).
		WithArgs(ticketID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "ticket_id", "author_id", "message", "created_at"}).
			AddRow(responseID.String(), ticketID.String(), assigneeID.String(), "On it", now))
	responses, err := repo.ListResponses(context.Background(), ticketID)
	require.NoError(t, err)
	assert.Equal(t, []domain.TicketResponse{{ID: responseID, TicketID: ticketID, AuthorID: assigneeID, Message: "On it", CreatedAt: now}}, responses)
}
