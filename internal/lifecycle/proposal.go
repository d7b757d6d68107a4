package lifecycle

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

type ProposalOutcome struct {
	Proposal      domain.Proposal
	JobStatus     *domain.JobStatus
	Contract      *domain.Contract
	Notifications []domain.Notification
}

// CheckProposal validates that caller may apply to job. Uniqueness and the
// connect balance are checked against the store by the caller.
func (m *Machine) CheckProposal(job domain.Job, caller domain.Principal) error {
	switch caller.Role {
	case domain.RoleFreelancer:
	case domain.RoleClient, domain.RoleAdmin:
		return domain.ErrForbidden
	default:
		return domain.ErrForbidden
	}
	if job.Status != domain.JobOpen {
		return fmt.Errorf("apply to job in %s: %w", job.Status, domain.ErrInvalidState)
	}
	return nil
}

// AcceptProposal is performed by the job owner. It moves the job in
// progress and drafts the contract between the two parties.
func (m *Machine) AcceptProposal(job domain.Job, p domain.Proposal, caller domain.Principal) (ProposalOutcome, error) {
	if caller.ID != job.ClientID || p.JobID != job.ID {
		return ProposalOutcome{}, domain.ErrForbidden
	}
	switch p.Status {
	case domain.ProposalPending:
	case domain.ProposalAccepted:
		return ProposalOutcome{}, fmt.Errorf("proposal already accepted: %w", domain.ErrConflict)
	case domain.ProposalRejected:
		return ProposalOutcome{}, fmt.Errorf("accept rejected proposal: %w", domain.ErrInvalidState)
	}
	if job.Status != domain.JobOpen {
		return ProposalOutcome{}, fmt.Errorf("accept proposal for job in %s: %w", job.Status, domain.ErrInvalidState)
	}

	now := m.now()
	p.Status = domain.ProposalAccepted
	inProgress := domain.JobInProgress
	contract := domain.Contract{
		ID:           uuid.New(),
		ProposalID:   p.ID,
		JobID:        job.ID,
		ClientID:     job.ClientID,
		FreelancerID: p.FreelancerID,
		Status:       domain.ContractPending,
		Amount:       p.Amount,
		Terms:        fmt.Sprintf("%s\n\nAgreed amount: %d", job.Title, p.Amount),
		StartDate:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return ProposalOutcome{
		Proposal:  p,
		JobStatus: &inProgress,
		Contract:  &contract,
		Notifications: []domain.Notification{{
			UserID:  p.FreelancerID,
			Title:   "Proposal accepted",
			Message: fmt.Sprintf("Your proposal for %q was accepted. Review and accept the contract.", job.Title),
		}},
	}, nil
}

func (m *Machine) RejectProposal(job domain.Job, p domain.Proposal, caller domain.Principal) (ProposalOutcome, error) {
	if caller.ID != job.ClientID || p.JobID != job.ID {
		return ProposalOutcome{}, domain.ErrForbidden
	}
	if p.Status != domain.ProposalPending {
		return ProposalOutcome{}, fmt.Errorf("reject proposal in %s: %w", p.Status, domain.ErrInvalidState)
	}

	p.Status = domain.ProposalRejected
	return ProposalOutcome{
		Proposal: p,
		Notifications: []domain.Notification{{
			UserID:  p.FreelancerID,
			Title:   "Proposal rejected",
			Message: fmt.Sprintf("Your proposal for %q was not selected.", job.Title),
		}},
	}, nil
}
