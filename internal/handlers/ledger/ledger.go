package ledger

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/dto"
	"github.com/GlebRadaev/freelancehub/internal/handlers/httperr"
	"github.com/GlebRadaev/freelancehub/internal/handlers/request"
	"github.com/GlebRadaev/freelancehub/internal/service/ledgerservice"
	"github.com/GlebRadaev/freelancehub/pkg/utils"
)

type Service interface {
	Balance(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind) (int64, error)
	Entries(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind) ([]domain.LedgerEntry, error)
	Grant(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind, amount int64, expiresAt *time.Time) (*domain.LedgerEntry, error)
	Consume(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind, amount int64) (*ledgerservice.ConsumeResult, error)
}

type LedgerHandler struct {
	ledgerService Service
}

func New(ledgerService Service) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// GetBalance godoc
//
//	@Summary		Get spendable balance
//	@Description	Sum of the caller's ACTIVE, unexpired entries of the given kind.
//	@Tags			Ledger
//	@Security		BearerAuth
//	@Produce		json
//	@Param			kind	path		string	true	"CONNECT or CREDIT"
//	@Success		200		{object}	dto.BalanceResponseDTO
//	@Failure		400		{object}	utils.Response	"Unknown kind"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/ledger/{kind}/balance [get]
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}
	kind, ok := request.Kind(w, r)
	if !ok {
		return
	}

	balance, err := h.ledgerService.Balance(r.Context(), principal.ID, kind)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		Kind:    string(kind),
		Balance: balance,
	})
}

// GetEntries godoc
//
//	@Summary		List ledger entries
//	@Description	Every grant and consume record of the given kind, newest first.
//	@Tags			Ledger
//	@Security		BearerAuth
//	@Produce		json
//	@Param			kind	path		string	true	"CONNECT or CREDIT"
//	@Success		200		{array}		dto.LedgerEntryDTO
//	@Success		204		{object}	utils.Response	"No entries"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/ledger/{kind}/entries [get]
func (h *LedgerHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}
	kind, ok := request.Kind(w, r)
	if !ok {
		return
	}

	entries, err := h.ledgerService.Entries(r.Context(), principal.ID, kind)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	if len(entries) == 0 {
		utils.RespondWithJSON(w, http.StatusNoContent, nil)
		return
	}

	response := make([]dto.LedgerEntryDTO, len(entries))
	for i, e := range entries {
		response[i] = dto.LedgerEntry(e)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Consume godoc
//
//	@Summary		Spend from the balance
//	@Description	Consumes oldest entries first. Either the whole amount is spent or nothing is.
//	@Tags			Ledger
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			kind	path		string					true	"CONNECT or CREDIT"
//	@Param			request	body		dto.ConsumeRequestDTO	true	"Amount to spend"
//	@Success		200		{object}	dto.ConsumeResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid amount"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		402		{object}	utils.Response	"Insufficient balance"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/ledger/{kind}/consume [post]
func (h *LedgerHandler) Consume(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}
	kind, ok := request.Kind(w, r)
	if !ok {
		return
	}
	var req dto.ConsumeRequestDTO
	if !request.DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.ledgerService.Consume(r.Context(), principal.ID, kind, req.Amount)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.ConsumeResponseDTO{
		Used:      result.Used,
		Remaining: result.Remaining,
	})
}

// Grant godoc
//
//	@Summary		Grant connects or credits
//	@Description	Appends a new entry to a user's ledger. Landing point for payment confirmations.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.GrantRequestDTO	true	"Grant"
//	@Success		201		{object}	dto.LedgerEntryDTO
//	@Failure		400		{object}	utils.Response	"Invalid grant"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		403		{object}	utils.Response	"Admins only"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/ledger/grant [post]
func (h *LedgerHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var req dto.GrantRequestDTO
	if !request.DecodeJSON(w, r, &req) {
		return
	}
	kind, ok := domain.ParseLedgerKind(req.Kind)
	if !ok || req.OwnerID == uuid.Nil {
		utils.RespondWithError(w, http.StatusBadRequest, "owner_id and kind are required")
		return
	}

	entry, err := h.ledgerService.Grant(r.Context(), req.OwnerID, kind, req.Amount, req.ExpiresAt)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.LedgerEntry(*entry))
}
