package contractservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/lifecycle"
	"github.com/GlebRadaev/freelancehub/internal/pg"
	"github.com/GlebRadaev/freelancehub/pkg/metrics"
)

const submissionFolder = "submissions"

type ContractRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	Update(ctx context.Context, c *domain.Contract) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Contract, error)
}

type JobRepo interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus) error
}

type TicketRepo interface {
	Insert(ctx context.Context, t *domain.Ticket) error
}

type FileStore interface {
	Store(ctx context.Context, data []byte, mimeType, folder string) (string, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, notifications ...domain.Notification)
}

// Upload is a file attached to a work submission.
type Upload struct {
	Data     []byte
	MimeType string
}

type Service struct {
	contracts ContractRepo
	jobs      JobRepo
	tickets   TicketRepo
	files     FileStore
	txManager pg.TXManager
	notifier  Notifier
	machine   *lifecycle.Machine
	now       func() time.Time
}

func New(contracts ContractRepo, jobs JobRepo, tickets TicketRepo, files FileStore, txManager pg.TXManager, notifier Notifier) *Service {
	return &Service{
		contracts: contracts,
		jobs:      jobs,
		tickets:   tickets,
		files:     files,
		txManager: txManager,
		notifier:  notifier,
		machine:   lifecycle.New(time.Now),
		now:       time.Now,
	}
}

// Get returns the contract to its parties and admins only.
func (s *Service) Get(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.Contract, error) {
	c, err := s.contracts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.PartyOf(principal.ID) == domain.PartyNone && !principal.Is(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

func (s *Service) ListMine(ctx context.Context, principal domain.Principal) ([]domain.Contract, error) {
	return s.contracts.ListForUser(ctx, principal.ID)
}

func (s *Service) Accept(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.Contract, error) {
	return s.transition(ctx, "accept", id, func(c domain.Contract) (lifecycle.Outcome, error) {
		return s.machine.Accept(c, principal)
	})
}

func (s *Service) Decline(ctx context.Context, principal domain.Principal, id uuid.UUID, reason string) (*domain.Contract, error) {
	return s.transition(ctx, "decline", id, func(c domain.Contract) (lifecycle.Outcome, error) {
		return s.machine.Decline(c, principal, reason)
	})
}

// SubmitWork uploads the optional file before touching the contract. An
// upload failure leaves nothing persisted.
func (s *Service) SubmitWork(ctx context.Context, principal domain.Principal, id uuid.UUID, description string, file *Upload) (*domain.Contract, error) {
	current, err := s.contracts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.machine.CheckSubmit(*current, principal); err != nil {
		return nil, err
	}

	submission := lifecycle.Submission{Description: description}
	if file != nil && len(file.Data) > 0 {
		url, err := s.files.Store(ctx, file.Data, file.MimeType, submissionFolder)
		if err != nil {
			zap.L().Error("can't store submission file", zap.String("contract_id", id.String()), zap.Error(err))
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
		}
		submission.FileURL = url
	}

	return s.transition(ctx, "submit work", id, func(c domain.Contract) (lifecycle.Outcome, error) {
		return s.machine.SubmitWork(c, principal, submission)
	})
}

func (s *Service) ReviewWork(ctx context.Context, principal domain.Principal, id uuid.UUID, accepted bool, feedback string) (*domain.Contract, error) {
	return s.transition(ctx, "review work", id, func(c domain.Contract) (lifecycle.Outcome, error) {
		return s.machine.ReviewWork(c, principal, accepted, feedback)
	})
}

func (s *Service) Complete(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.Contract, error) {
	return s.transition(ctx, "complete", id, func(c domain.Contract) (lifecycle.Outcome, error) {
		return s.machine.Complete(c, principal)
	})
}

// transition locks the contract, applies the outcome of fn in one
// transaction and dispatches its notifications after commit.
func (s *Service) transition(ctx context.Context, op string, id uuid.UUID, fn func(domain.Contract) (lifecycle.Outcome, error)) (*domain.Contract, error) {
	var outcome lifecycle.Outcome
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		c, err := s.contracts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		outcome, err = fn(*c)
		if err != nil {
			return err
		}
		if err := s.contracts.Update(ctx, &outcome.Contract); err != nil {
			return err
		}
		if outcome.JobStatus != nil {
			if err := s.jobs.UpdateStatus(ctx, outcome.Contract.JobID, *outcome.JobStatus); err != nil {
				return err
			}
		}
		for i := range outcome.Tickets {
			ticket := &outcome.Tickets[i]
			ticket.ID = uuid.New()
			ticket.CreatedAt = s.now()
			if err := s.tickets.Insert(ctx, ticket); err != nil {
				return err
			}
		}
		return nil
	})
	metrics.Default().ObserveTransition(op, err)
	if err != nil {
		zap.L().Info("contract transition refused", zap.String("op", op), zap.String("contract_id", id.String()), zap.Error(err))
		return nil, err
	}

	s.notifier.Dispatch(ctx, outcome.Notifications...)
	zap.L().Info("contract transition",
		zap.String("op", op), zap.String("contract_id", id.String()), zap.String("status", string(outcome.Contract.Status)))
	return &outcome.Contract, nil
}
