package tickets

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/dto"
	"github.com/GlebRadaev/freelancehub/internal/handlers/httperr"
	"github.com/GlebRadaev/freelancehub/internal/handlers/request"
	"github.com/GlebRadaev/freelancehub/internal/service/ticketservice"
	"github.com/GlebRadaev/freelancehub/pkg/utils"
)

type Service interface {
	Create(ctx context.Context, principal domain.Principal, in ticketservice.CreateInput) (*domain.Ticket, error)
	Get(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.Ticket, []domain.TicketResponse, error)
	ListMine(ctx context.Context, principal domain.Principal) ([]domain.Ticket, error)
	ListForContract(ctx context.Context, principal domain.Principal, contractID uuid.UUID) ([]domain.Ticket, error)
	Respond(ctx context.Context, principal domain.Principal, ticketID uuid.UUID, message string) (*domain.TicketResponse, error)
}

type TicketHandler struct {
	ticketService Service
}

func New(ticketService Service) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
	}
}

// ListTickets godoc
//
//	@Summary		List my tickets
//	@Description	Tickets the caller opened or is assigned to.
//	@Tags			Tickets
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}	dto.TicketDTO
//	@Router			/api/tickets [get]
func (h *TicketHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}

	tickets, err := h.ticketService.ListMine(r.Context(), principal)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	response := make([]dto.TicketDTO, len(tickets))
	for i, t := range tickets {
		response[i] = dto.Ticket(t)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// ListContractTickets godoc
//
//	@Summary		List tickets of a contract
//	@Description	Escalation history of a contract, oldest first. Parties and admins only.
//	@Tags			Tickets
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Contract id"
//	@Success		200	{array}		dto.TicketDTO
//	@Failure		403	{object}	utils.Response	"Not a party"
//	@Failure		404	{object}	utils.Response	"Contract not found"
//	@Router			/api/contracts/{id}/tickets [get]
func (h *TicketHandler) ListContractTickets(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}
	contractID, ok := request.PathID(w, r, "id")
	if !ok {
		return
	}

	tickets, err := h.ticketService.ListForContract(r.Context(), principal, contractID)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	response := make([]dto.TicketDTO, len(tickets))
	for i, t := range tickets {
		response[i] = dto.Ticket(t)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// CreateTicket godoc
//
//	@Summary	Open a support ticket
//	@Tags		Tickets
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.CreateTicketRequestDTO	true	"Ticket"
//	@Success	201		{object}	dto.TicketDTO
//	@Failure	400		{object}	utils.Response	"Invalid ticket"
//	@Failure	403		{object}	utils.Response	"Not a party to the contract"
//	@Failure	404		{object}	utils.Response	"Contract not found"
//	@Router		/api/tickets [post]
func (h *TicketHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}
	var req dto.CreateTicketRequestDTO
	if !request.DecodeJSON(w, r, &req) {
		return
	}

	ticket, err := h.ticketService.Create(r.Context(), principal, ticketservice.CreateInput{
		ContractID:   req.ContractID,
		AssignedToID: req.AssignedToID,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     domain.TicketPriority(req.Priority),
	})
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.Ticket(*ticket))
}

// GetTicket godoc
//
//	@Summary	Get a ticket with its responses
//	@Tags		Tickets
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Ticket id"
//	@Success	200	{object}	dto.TicketThreadDTO
//	@Failure	403	{object}	utils.Response	"Not involved"
//	@Failure	404	{object}	utils.Response	"Ticket not found"
//	@Router		/api/tickets/{id} [get]
func (h *TicketHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}
	id, ok := request.PathID(w, r, "id")
	if !ok {
		return
	}

	ticket, responses, err := h.ticketService.Get(r.Context(), principal, id)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	thread := dto.TicketThreadDTO{
		Ticket:    dto.Ticket(*ticket),
		Responses: make([]dto.TicketResponseDTO, len(responses)),
	}
	for i, resp := range responses {
		thread.Responses[i] = dto.TicketResponse(resp)
	}
	utils.RespondWithJSON(w, http.StatusOK, thread)
}

// Respond godoc
//
//	@Summary		Reply to a ticket
//	@Description	The first reply moves an OPEN ticket to IN_PROGRESS. The other side is notified.
//	@Tags			Tickets
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Ticket id"
//	@Param			request	body		dto.RespondRequestDTO	true	"Reply"
//	@Success		201		{object}	dto.TicketResponseDTO
//	@Failure		400		{object}	utils.Response	"Empty message or closed ticket"
//	@Failure		403		{object}	utils.Response	"Not involved"
//	@Router			/api/tickets/{id}/responses [post]
func (h *TicketHandler) Respond(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}
	id, ok := request.PathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.RespondRequestDTO
	if !request.DecodeJSON(w, r, &req) {
		return
	}

	resp, err := h.ticketService.Respond(r.Context(), principal, id, req.Message)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.TicketResponse(*resp))
}
