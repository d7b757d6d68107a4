// Package lifecycle holds the proposal and contract state machine.
//
// Transitions are pure: they take the current records and the caller and
// return an Outcome describing every write and notification the transition
// requires. Callers persist the outcome in one transaction and deliver the
// notifications after commit.
package lifecycle

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

type Outcome struct {
	Contract      domain.Contract
	JobStatus     *domain.JobStatus
	Tickets       []domain.Ticket
	Notifications []domain.Notification
}

type Submission struct {
	Description string `json:"description"`
	FileURL     string `json:"file_url,omitempty"`
}

type Machine struct {
	now func() time.Time
}

func New(now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{now: now}
}

func statusErr(op string, s domain.ContractStatus) error {
	return fmt.Errorf("%s from %s: %w", op, s, domain.ErrInvalidState)
}

func (m *Machine) outcome(c domain.Contract) Outcome {
	c.UpdatedAt = m.now()
	return Outcome{Contract: c}
}

func (o *Outcome) notify(userID uuid.UUID, title, message string) {
	o.Notifications = append(o.Notifications, domain.Notification{UserID: userID, Title: title, Message: message})
}

func (o *Outcome) openTicket(createdBy, assignedTo uuid.UUID, title, description string, priority domain.TicketPriority) {
	contractID := o.Contract.ID
	o.Tickets = append(o.Tickets, domain.Ticket{
		ContractID:   &contractID,
		CreatedByID:  createdBy,
		AssignedToID: &assignedTo,
		Title:        title,
		Description:  description,
		Status:       domain.TicketOpen,
		Priority:     priority,
	})
}

func (o *Outcome) setJob(s domain.JobStatus) {
	o.JobStatus = &s
}

// Accept records one party's acceptance. The contract becomes ACTIVE once
// both parties have accepted, in either order.
func (m *Machine) Accept(c domain.Contract, caller domain.Principal) (Outcome, error) {
	party := c.PartyOf(caller.ID)

	var own, other domain.ContractStatus
	switch party {
	case domain.PartyFreelancer:
		own, other = domain.ContractFreelancerAccepted, domain.ContractClientAccepted
	case domain.PartyClient:
		own, other = domain.ContractClientAccepted, domain.ContractFreelancerAccepted
	case domain.PartyNone:
		return Outcome{}, domain.ErrForbidden
	}

	o := m.outcome(c)
	switch c.Status {
	case domain.ContractPending:
		o.Contract.Status = own
	case other:
		o.Contract.Status = domain.ContractActive
	default:
		return Outcome{}, statusErr("accept", c.Status)
	}

	if o.Contract.Status == domain.ContractActive {
		o.notify(c.Counterpart(party), "Contract is active", "Both parties accepted the contract. Work can start.")
	} else {
		o.notify(c.Counterpart(party), "Contract accepted", "The other party accepted the contract and is waiting for you.")
	}
	return o, nil
}

func declinable(s domain.ContractStatus) bool {
	switch s {
	case domain.ContractPending, domain.ContractFreelancerAccepted, domain.ContractClientAccepted, domain.ContractActive:
		return true
	case domain.ContractPendingReview, domain.ContractUnderAdminReview, domain.ContractCompleted:
	}
	return false
}

// Decline escalates the contract to an administrator. The contract stays
// in UNDER_ADMIN_REVIEW until resolved by one.
func (m *Machine) Decline(c domain.Contract, caller domain.Principal, reason string) (Outcome, error) {
	party := c.PartyOf(caller.ID)
	if party == domain.PartyNone {
		return Outcome{}, domain.ErrForbidden
	}
	if !declinable(c.Status) {
		return Outcome{}, statusErr("decline", c.Status)
	}
	reason = strings.TrimSpace(reason)

	o := m.outcome(c)
	o.Contract.Status = domain.ContractUnderAdminReview
	note := fmt.Sprintf("Declined by %s: %s", partyName(party), reason)
	if o.Contract.Terms == "" {
		o.Contract.Terms = note
	} else {
		o.Contract.Terms += "\n\n" + note
	}

	counterpart := c.Counterpart(party)
	o.openTicket(caller.ID, counterpart, "Contract declined", reason, domain.PriorityHigh)
	o.notify(counterpart, "Contract declined", "The contract was declined and sent to admin review. Reason: "+reason)
	return o, nil
}

// CheckSubmit reports whether caller may submit work now. Callers use it to
// avoid uploading files for a transition that would be refused.
func (m *Machine) CheckSubmit(c domain.Contract, caller domain.Principal) error {
	if c.PartyOf(caller.ID) != domain.PartyFreelancer {
		return domain.ErrForbidden
	}
	if c.Status != domain.ContractActive {
		return statusErr("submit work", c.Status)
	}
	return nil
}

func (m *Machine) SubmitWork(c domain.Contract, caller domain.Principal, s Submission) (Outcome, error) {
	if err := m.CheckSubmit(c, caller); err != nil {
		return Outcome{}, err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return Outcome{}, err
	}
	submission := string(data)

	o := m.outcome(c)
	o.Contract.Status = domain.ContractPendingReview
	o.Contract.SubmissionData = &submission
	o.openTicket(caller.ID, c.ClientID, "Work submitted for review", s.Description, domain.PriorityMedium)
	o.notify(c.ClientID, "Work submitted", "The freelancer submitted work for your review.")
	return o, nil
}

// ReviewWork is the canonical completion path: acceptance completes the
// contract and its job, rejection sends the work back for revision.
func (m *Machine) ReviewWork(c domain.Contract, caller domain.Principal, accepted bool, feedback string) (Outcome, error) {
	if c.PartyOf(caller.ID) != domain.PartyClient {
		return Outcome{}, domain.ErrForbidden
	}
	if c.Status != domain.ContractPendingReview {
		return Outcome{}, statusErr("review work", c.Status)
	}
	feedback = strings.TrimSpace(feedback)

	o := m.outcome(c)
	if feedback != "" {
		o.Contract.ClientFeedback = &feedback
	}

	if accepted {
		end := o.Contract.UpdatedAt
		o.Contract.Status = domain.ContractCompleted
		o.Contract.EndDate = &end
		o.setJob(domain.JobCompleted)
		o.notify(c.FreelancerID, "Work accepted", "The client accepted your work. The contract is completed.")
		return o, nil
	}

	o.Contract.Status = domain.ContractActive
	o.openTicket(caller.ID, c.FreelancerID, "Revision requested", feedback, domain.PriorityHigh)
	o.openTicket(caller.ID, c.ClientID, "Submitted work rejected", feedback, domain.PriorityHigh)
	o.notify(c.FreelancerID, "Work rejected", "The client requested a revision. Feedback: "+feedback)
	o.notify(c.ClientID, "Revision requested", "A ticket tracks the revision you requested until new work is submitted.")
	return o, nil
}

func completable(s domain.ContractStatus) bool {
	switch s {
	case domain.ContractActive, domain.ContractPendingReview, domain.ContractUnderAdminReview:
		return true
	case domain.ContractPending, domain.ContractFreelancerAccepted, domain.ContractClientAccepted, domain.ContractCompleted:
	}
	return false
}

// Complete force-completes a contract. It is an administrator override;
// parties complete contracts through ReviewWork.
func (m *Machine) Complete(c domain.Contract, caller domain.Principal) (Outcome, error) {
	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RoleFreelancer, domain.RoleClient:
		return Outcome{}, domain.ErrForbidden
	default:
		return Outcome{}, domain.ErrForbidden
	}
	if !completable(c.Status) {
		return Outcome{}, statusErr("complete", c.Status)
	}

	o := m.outcome(c)
	end := o.Contract.UpdatedAt
	o.Contract.Status = domain.ContractCompleted
	o.Contract.EndDate = &end
	o.setJob(domain.JobCompleted)
	o.notify(c.FreelancerID, "Contract completed", "An administrator marked the contract as completed.")
	o.notify(c.ClientID, "Contract completed", "An administrator marked the contract as completed.")
	return o, nil
}

func partyName(p domain.Party) string {
	switch p {
	case domain.PartyFreelancer:
		return "freelancer"
	case domain.PartyClient:
		return "client"
	case domain.PartyNone:
	}
	return "unknown"
}
