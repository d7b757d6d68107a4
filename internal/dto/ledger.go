package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/service/ledgerservice"
)

type BalanceResponseDTO struct {
	Kind    string `json:"kind" example:"CONNECT"`
	Balance int64  `json:"balance" example:"12"`
}

type LedgerEntryDTO struct {
	ID        uuid.UUID  `json:"id"`
	Amount    int64      `json:"amount" example:"10"`
	Kind      string     `json:"kind" example:"CONNECT"`
	Status    string     `json:"status" example:"ACTIVE"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func LedgerEntry(e domain.LedgerEntry) LedgerEntryDTO {
	return LedgerEntryDTO{
		ID:        e.ID,
		Amount:    e.Amount,
		Kind:      string(e.Kind),
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
		ExpiresAt: e.ExpiresAt,
	}
}

type ConsumeRequestDTO struct {
	Amount int64 `json:"amount" example:"4"`
}

type ConsumeResponseDTO struct {
	Used      []ledgerservice.Allocation `json:"used"`
	Remaining int64                      `json:"remaining" example:"6"`
}

type GrantRequestDTO struct {
	OwnerID   uuid.UUID  `json:"owner_id"`
	Kind      string     `json:"kind" example:"CREDIT"`
	Amount    int64      `json:"amount" example:"100"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
