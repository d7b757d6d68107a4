package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

type LedgerKind string

const (
	KindConnect LedgerKind = "CONNECT"
	KindCredit  LedgerKind = "CREDIT"
)

func ParseLedgerKind(s string) (LedgerKind, bool) {
	switch LedgerKind(s) {
	case KindConnect:
		return KindConnect, true
	case KindCredit:
		return KindCredit, true
	}
	return "", false
}

type EntryStatus string

const (
	EntryActive  EntryStatus = "ACTIVE"
	EntryUsed    EntryStatus = "USED"
	EntryExpired EntryStatus = "EXPIRED"
)

// LedgerEntry is one grant or consumption record. Positive amounts are
// grants; negative amounts are audit records of a consume and are never
// ACTIVE.
type LedgerEntry struct {
	ID        uuid.UUID   `db:"id"`
	OwnerID   uuid.UUID   `db:"owner_id"`
	Amount    int64       `db:"amount"`
	Kind      LedgerKind  `db:"kind"`
	Status    EntryStatus `db:"status"`
	CreatedAt time.Time   `db:"created_at"`
	ExpiresAt *time.Time  `db:"expires_at"`
}

type JobStatus string

const (
	JobOpen       JobStatus = "OPEN"
	JobInProgress JobStatus = "IN_PROGRESS"
	JobCompleted  JobStatus = "COMPLETED"
	JobCancelled  JobStatus = "CANCELLED"
)

type Job struct {
	ID          uuid.UUID `db:"id"`
	ClientID    uuid.UUID `db:"client_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Budget      int64     `db:"budget"`
	Status      JobStatus `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "PENDING"
	ProposalAccepted ProposalStatus = "ACCEPTED"
	ProposalRejected ProposalStatus = "REJECTED"
)

type Proposal struct {
	ID           uuid.UUID      `db:"id"`
	JobID        uuid.UUID      `db:"job_id"`
	FreelancerID uuid.UUID      `db:"freelancer_id"`
	Amount       int64          `db:"amount"`
	CoverLetter  string         `db:"cover_letter"`
	Status       ProposalStatus `db:"status"`
	CreatedAt    time.Time      `db:"created_at"`
}

type ContractStatus string

const (
	ContractPending            ContractStatus = "PENDING"
	ContractFreelancerAccepted ContractStatus = "FREELANCER_ACCEPTED"
	ContractClientAccepted     ContractStatus = "CLIENT_ACCEPTED"
	ContractActive             ContractStatus = "ACTIVE"
	ContractPendingReview      ContractStatus = "PENDING_REVIEW"
	ContractUnderAdminReview   ContractStatus = "UNDER_ADMIN_REVIEW"
	ContractCompleted          ContractStatus = "COMPLETED"
)

type Contract struct {
	ID             uuid.UUID      `db:"id"`
	ProposalID     uuid.UUID      `db:"proposal_id"`
	JobID          uuid.UUID      `db:"job_id"`
	ClientID       uuid.UUID      `db:"client_id"`
	FreelancerID   uuid.UUID      `db:"freelancer_id"`
	Status         ContractStatus `db:"status"`
	Amount         int64          `db:"amount"`
	Terms          string         `db:"terms"`
	StartDate      time.Time      `db:"start_date"`
	EndDate        *time.Time     `db:"end_date"`
	SubmissionData *string        `db:"submission_data"`
	ClientFeedback *string        `db:"client_feedback"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type TicketStatus string

const (
	TicketOpen       TicketStatus = "OPEN"
	TicketInProgress TicketStatus = "IN_PROGRESS"
	TicketClosed     TicketStatus = "CLOSED"
)

type TicketPriority string

const (
	PriorityLow    TicketPriority = "LOW"
	PriorityMedium TicketPriority = "MEDIUM"
	PriorityHigh   TicketPriority = "HIGH"
)

type Ticket struct {
	ID           uuid.UUID      `db:"id"`
	ContractID   *uuid.UUID     `db:"contract_id"`
	CreatedByID  uuid.UUID      `db:"created_by_id"`
	AssignedToID *uuid.UUID     `db:"assigned_to_id"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Status       TicketStatus   `db:"status"`
	Priority     TicketPriority `db:"priority"`
	CreatedAt    time.Time      `db:"created_at"`
}

type TicketResponse struct {
	ID        uuid.UUID `db:"id"`
	TicketID  uuid.UUID `db:"ticket_id"`
	AuthorID  uuid.UUID `db:"author_id"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

type Notification struct {
	ID        uuid.UUID `db:"id"        json:"id"`
	UserID    uuid.UUID `db:"user_id"   json:"user_id"`
	Title     string    `db:"title"     json:"title"`
	Message   string    `db:"message"   json:"message"`
	Read      bool      `db:"read"      json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
