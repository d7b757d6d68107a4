package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

type CreateTicketRequestDTO struct {
	ContractID   *uuid.UUID `json:"contract_id,omitempty"`
	AssignedToID *uuid.UUID `json:"assigned_to_id,omitempty"`
	Title        string     `json:"title" example:"Payment question"`
	Description  string     `json:"description"`
	Priority     string     `json:"priority,omitempty" example:"MEDIUM" enums:"LOW,MEDIUM,HIGH"`
}

type TicketDTO struct {
	ID           uuid.UUID  `json:"id"`
	ContractID   *uuid.UUID `json:"contract_id,omitempty"`
	CreatedByID  uuid.UUID  `json:"created_by_id"`
	AssignedToID *uuid.UUID `json:"assigned_to_id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status" example:"OPEN"`
	Priority     string     `json:"priority" example:"HIGH"`
	CreatedAt    time.Time  `json:"created_at"`
}

func Ticket(t domain.Ticket) TicketDTO {
	return TicketDTO{
		ID:           t.ID,
		ContractID:   t.ContractID,
		CreatedByID:  t.CreatedByID,
		AssignedToID: t.AssignedToID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		CreatedAt:    t.CreatedAt,
	}
}

type TicketResponseDTO struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func TicketResponse(r domain.TicketResponse) TicketResponseDTO {
	return TicketResponseDTO{
		ID:        r.ID,
		AuthorID:  r.AuthorID,
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
	}
}

type TicketThreadDTO struct {
	Ticket    TicketDTO           `json:"ticket"`
	Responses []TicketResponseDTO `json:"responses"`
}

type RespondRequestDTO struct {
	Message string `json:"message" example:"Looking into it"`
}
