package proposalservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/lifecycle"
	"github.com/GlebRadaev/freelancehub/internal/pg"
	"github.com/GlebRadaev/freelancehub/internal/service/ledgerservice"
)

// SubmissionCost is the number of connects one proposal consumes.
const SubmissionCost int64 = 1

type JobRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus) error
}

type ProposalRepo interface {
	Insert(ctx context.Context, p *domain.Proposal) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)
	ExistsFor(ctx context.Context, jobID, freelancerID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProposalStatus) error
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.Proposal, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]domain.Proposal, error)
}

type ContractRepo interface {
	Insert(ctx context.Context, c *domain.Contract) error
}

type Ledger interface {
	Balance(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind) (int64, error)
	Consume(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind, amount int64) (*ledgerservice.ConsumeResult, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, notifications ...domain.Notification)
}

type Service struct {
	jobs      JobRepo
	proposals ProposalRepo
	contracts ContractRepo
	ledger    Ledger
	txManager pg.TXManager
	notifier  Notifier
	machine   *lifecycle.Machine
	now       func() time.Time
}

func New(jobs JobRepo, proposals ProposalRepo, contracts ContractRepo, ledger Ledger, txManager pg.TXManager, notifier Notifier) *Service {
	return &Service{
		jobs:      jobs,
		proposals: proposals,
		contracts: contracts,
		ledger:    ledger,
		txManager: txManager,
		notifier:  notifier,
		machine:   lifecycle.New(time.Now),
		now:       time.Now,
	}
}

// Submit applies to a job. The connect is spent and the proposal stored in
// the same transaction, so a failed insert never costs a connect.
func (s *Service) Submit(ctx context.Context, principal domain.Principal, jobID uuid.UUID, amount int64, coverLetter string) (*domain.Proposal, error) {
	if !principal.Is(domain.RoleFreelancer) {
		return nil, domain.ErrForbidden
	}
	if amount <= 0 {
		return nil, fmt.Errorf("proposal amount must be positive: %w", domain.ErrInvalidInput)
	}
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.machine.CheckProposal(*job, principal); err != nil {
		return nil, err
	}
	exists, err := s.proposals.ExistsFor(ctx, jobID, principal.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("proposal for job %s already submitted: %w", jobID, domain.ErrConflict)
	}
	balance, err := s.ledger.Balance(ctx, principal.ID, domain.KindConnect)
	if err != nil {
		return nil, err
	}
	if balance < SubmissionCost {
		return nil, domain.ErrInsufficientBalance
	}

	proposal := &domain.Proposal{
		ID:           uuid.New(),
		JobID:        jobID,
		FreelancerID: principal.ID,
		Amount:       amount,
		CoverLetter:  coverLetter,
		Status:       domain.ProposalPending,
		CreatedAt:    s.now(),
	}
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		if _, err := s.ledger.Consume(ctx, principal.ID, domain.KindConnect, SubmissionCost); err != nil {
			return err
		}
		return s.proposals.Insert(ctx, proposal)
	})
	if err != nil {
		zap.L().Warn("proposal not submitted", zap.String("job_id", jobID.String()), zap.Error(err))
		return nil, err
	}
	zap.L().Info("proposal submitted", zap.String("proposal_id", proposal.ID.String()))
	return proposal, nil
}

// Accept is done by the job owner and drafts the contract.
func (s *Service) Accept(ctx context.Context, principal domain.Principal, proposalID uuid.UUID) (*domain.Contract, error) {
	var outcome lifecycle.ProposalOutcome
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		proposal, err := s.proposals.GetForUpdate(ctx, proposalID)
		if err != nil {
			return err
		}
		job, err := s.jobs.GetForUpdate(ctx, proposal.JobID)
		if err != nil {
			return err
		}
		outcome, err = s.machine.AcceptProposal(*job, *proposal, principal)
		if err != nil {
			return err
		}
		if err := s.proposals.UpdateStatus(ctx, proposalID, outcome.Proposal.Status); err != nil {
			return err
		}
		if err := s.jobs.UpdateStatus(ctx, job.ID, *outcome.JobStatus); err != nil {
			return err
		}
		return s.contracts.Insert(ctx, outcome.Contract)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Dispatch(ctx, outcome.Notifications...)
	zap.L().Info("proposal accepted", zap.String("proposal_id", proposalID.String()), zap.String("contract_id", outcome.Contract.ID.String()))
	return outcome.Contract, nil
}

func (s *Service) Reject(ctx context.Context, principal domain.Principal, proposalID uuid.UUID) (*domain.Proposal, error) {
	var outcome lifecycle.ProposalOutcome
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		proposal, err := s.proposals.GetForUpdate(ctx, proposalID)
		if err != nil {
			return err
		}
		job, err := s.jobs.Get(ctx, proposal.JobID)
		if err != nil {
			return err
		}
		outcome, err = s.machine.RejectProposal(*job, *proposal, principal)
		if err != nil {
			return err
		}
		return s.proposals.UpdateStatus(ctx, proposalID, outcome.Proposal.Status)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Dispatch(ctx, outcome.Notifications...)
	return &outcome.Proposal, nil
}

// ListForJob is visible to the job owner and admins.
func (s *Service) ListForJob(ctx context.Context, principal domain.Principal, jobID uuid.UUID) ([]domain.Proposal, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != principal.ID && !principal.Is(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return s.proposals.ListByJob(ctx, jobID)
}

func (s *Service) ListMine(ctx context.Context, principal domain.Principal) ([]domain.Proposal, error) {
	if !principal.Is(domain.RoleFreelancer) {
		return nil, domain.ErrForbidden
	}
	return s.proposals.ListByFreelancer(ctx, principal.ID)
}
