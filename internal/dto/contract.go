package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

type ContractDTO struct {
	ID             uuid.UUID       `json:"id"`
	ProposalID     uuid.UUID       `json:"proposal_id"`
	JobID          uuid.UUID       `json:"job_id"`
	ClientID       uuid.UUID       `json:"client_id"`
	FreelancerID   uuid.UUID       `json:"freelancer_id"`
	Status         string          `json:"status" example:"ACTIVE"`
	Amount         int64           `json:"amount" example:"450"`
	Terms          string          `json:"terms"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	SubmissionData json.RawMessage `json:"submission_data,omitempty" swaggertype:"object"`
	ClientFeedback *string         `json:"client_feedback,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func Contract(c domain.Contract) ContractDTO {
	out := ContractDTO{
		ID:             c.ID,
		ProposalID:     c.ProposalID,
		JobID:          c.JobID,
		ClientID:       c.ClientID,
		FreelancerID:   c.FreelancerID,
		Status:         string(c.Status),
		Amount:         c.Amount,
		Terms:          c.Terms,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		ClientFeedback: c.ClientFeedback,
		UpdatedAt:      c.UpdatedAt,
	}
	if c.SubmissionData != nil {
		out.SubmissionData = json.RawMessage(*c.SubmissionData)
	}
	return out
}

type DeclineRequestDTO struct {
	Reason string `json:"reason" example:"Budget cut"`
}

type ReviewRequestDTO struct {
	Accepted bool   `json:"accepted" example:"false"`
	Feedback string `json:"feedback" example:"Colours are off"`
}
