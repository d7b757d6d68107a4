package ticketservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/pg"
)

type Repo interface {
	Insert(ctx context.Context, t *domain.Ticket) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Ticket, error)
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TicketStatus) error
	InsertResponse(ctx context.Context, r *domain.TicketResponse) error
	ListResponses(ctx context.Context, ticketID uuid.UUID) ([]domain.TicketResponse, error)
}

type ContractRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, notifications ...domain.Notification)
}

type CreateInput struct {
	ContractID   *uuid.UUID
	AssignedToID *uuid.UUID
	Title        string
	Description  string
	Priority     domain.TicketPriority
}

type Service struct {
	repo      Repo
	contracts ContractRepo
	txManager pg.TXManager
	notifier  Notifier
	now       func() time.Time
}

func New(repo Repo, contracts ContractRepo, txManager pg.TXManager, notifier Notifier) *Service {
	return &Service{
		repo:      repo,
		contracts: contracts,
		txManager: txManager,
		notifier:  notifier,
		now:       time.Now,
	}
}

func canSee(t *domain.Ticket, principal domain.Principal) bool {
	if principal.Is(domain.RoleAdmin) || t.CreatedByID == principal.ID {
		return true
	}
	return t.AssignedToID != nil && *t.AssignedToID == principal.ID
}

func (s *Service) Create(ctx context.Context, principal domain.Principal, in CreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("ticket title is required: %w", domain.ErrInvalidInput)
	}
	priority := in.Priority
	switch priority {
	case "":
		priority = domain.PriorityMedium
	case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
	default:
		return nil, fmt.Errorf("unknown priority %q: %w", in.Priority, domain.ErrInvalidInput)
	}
	assignedTo, err := s.assignee(ctx, principal, in)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ID:           uuid.New(),
		ContractID:   in.ContractID,
		CreatedByID:  principal.ID,
		AssignedToID: assignedTo,
		Title:        title,
		Description:  in.Description,
		Status:       domain.TicketOpen,
		Priority:     priority,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Insert(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// assignee checks who a new ticket may go to. A party may only attach a
// ticket to its own contract, and it always lands with the counterpart.
// Standalone tickets stay unassigned unless an admin routes them.
func (s *Service) assignee(ctx context.Context, principal domain.Principal, in CreateInput) (*uuid.UUID, error) {
	admin := principal.Is(domain.RoleAdmin)
	if in.ContractID == nil {
		if in.AssignedToID != nil && !admin {
			return nil, fmt.Errorf("assign standalone ticket: %w", domain.ErrForbidden)
		}
		return in.AssignedToID, nil
	}

	c, err := s.contracts.Get(ctx, *in.ContractID)
	if err != nil {
		return nil, err
	}
	if admin {
		return in.AssignedToID, nil
	}
	party := c.PartyOf(principal.ID)
	if party == domain.PartyNone {
		return nil, domain.ErrForbidden
	}
	counterpart := c.Counterpart(party)
	if in.AssignedToID != nil && *in.AssignedToID != counterpart {
		return nil, fmt.Errorf("assign ticket outside contract: %w", domain.ErrForbidden)
	}
	return &counterpart, nil
}

// Respond adds a message to the ticket thread. The first response moves an
// OPEN ticket to IN_PROGRESS.
func (s *Service) Respond(ctx context.Context, principal domain.Principal, ticketID uuid.UUID, message string) (*domain.TicketResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("response message is required: %w", domain.ErrInvalidInput)
	}

	var (
		ticket   *domain.Ticket
		response *domain.TicketResponse
	)
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		ticket, err = s.repo.GetForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		if !canSee(ticket, principal) {
			return domain.ErrForbidden
		}
		if ticket.Status == domain.TicketClosed {
			return fmt.Errorf("respond to closed ticket: %w", domain.ErrInvalidState)
		}

		response = &domain.TicketResponse{
			ID:        uuid.New(),
			TicketID:  ticketID,
			AuthorID:  principal.ID,
			Message:   message,
			CreatedAt: s.now(),
		}
		if err := s.repo.InsertResponse(ctx, response); err != nil {
			return err
		}
		if ticket.Status == domain.TicketOpen {
			ticket.Status = domain.TicketInProgress
			return s.repo.UpdateStatus(ctx, ticketID, domain.TicketInProgress)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if recipient, ok := otherSide(ticket, principal.ID); ok {
		s.notifier.Dispatch(ctx, domain.Notification{
			UserID:  recipient,
			Title:   "New ticket response",
			Message: fmt.Sprintf("New response on ticket %q.", ticket.Title),
		})
	}
	zap.L().Info("ticket response added", zap.String("ticket_id", ticketID.String()))
	return response, nil
}

func otherSide(t *domain.Ticket, author uuid.UUID) (uuid.UUID, bool) {
	if t.CreatedByID != author {
		return t.CreatedByID, true
	}
	if t.AssignedToID != nil && *t.AssignedToID != author {
		return *t.AssignedToID, true
	}
	return uuid.Nil, false
}

func (s *Service) Get(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.Ticket, []domain.TicketResponse, error) {
	ticket, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !canSee(ticket, principal) {
		return nil, nil, domain.ErrForbidden
	}
	responses, err := s.repo.ListResponses(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return ticket, responses, nil
}

// ListForContract returns the escalation history of a contract to its
// parties and admins.
func (s *Service) ListForContract(ctx context.Context, principal domain.Principal, contractID uuid.UUID) ([]domain.Ticket, error) {
	c, err := s.contracts.Get(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !principal.Is(domain.RoleAdmin) && c.PartyOf(principal.ID) == domain.PartyNone {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListByContract(ctx, contractID)
}

func (s *Service) ListMine(ctx context.Context, principal domain.Principal) ([]domain.Ticket, error) {
	return s.repo.ListForUser(ctx, principal.ID)
}
