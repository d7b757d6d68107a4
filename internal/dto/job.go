package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

type CreateJobRequestDTO struct {
	Title       string `json:"title" example:"Landing page"`
	Description string `json:"description" example:"One page, responsive"`
	Budget      int64  `json:"budget" example:"500"`
}

type JobDTO struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"client_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      int64     `json:"budget" example:"500"`
	Status      string    `json:"status" example:"OPEN"`
	CreatedAt   time.Time `json:"created_at"`
}

func Job(j domain.Job) JobDTO {
	return JobDTO{
		ID:          j.ID,
		ClientID:    j.ClientID,
		Title:       j.Title,
		Description: j.Description,
		Budget:      j.Budget,
		Status:      string(j.Status),
		CreatedAt:   j.CreatedAt,
	}
}

type SubmitProposalRequestDTO struct {
	Amount      int64  `json:"amount" example:"450"`
	CoverLetter string `json:"cover_letter" example:"I have built dozens of these."`
}

type ProposalDTO struct {
	ID           uuid.UUID `json:"id"`
	JobID        uuid.UUID `json:"job_id"`
	FreelancerID uuid.UUID `json:"freelancer_id"`
	Amount       int64     `json:"amount" example:"450"`
	CoverLetter  string    `json:"cover_letter"`
	Status       string    `json:"status" example:"PENDING"`
	CreatedAt    time.Time `json:"created_at"`
}

func Proposal(p domain.Proposal) ProposalDTO {
	return ProposalDTO{
		ID:           p.ID,
		JobID:        p.JobID,
		FreelancerID: p.FreelancerID,
		Amount:       p.Amount,
		CoverLetter:  p.CoverLetter,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
	}
}
