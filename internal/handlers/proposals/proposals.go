package proposals

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/dto"
	"github.com/GlebRadaev/freelancehub/internal/handlers/httperr"
	"github.com/GlebRadaev/freelancehub/internal/handlers/request"
	"github.com/GlebRadaev/freelancehub/pkg/utils"
)

type Service interface {
	Submit(ctx context.Context, principal domain.Principal, jobID uuid.UUID, amount int64, coverLetter string) (*domain.Proposal, error)
	Accept(ctx context.Context, principal domain.Principal, proposalID uuid.UUID) (*domain.Contract, error)
	Reject(ctx context.Context, principal domain.Principal, proposalID uuid.UUID) (*domain.Proposal, error)
	ListForJob(ctx context.Context, principal domain.Principal, jobID uuid.UUID) ([]domain.Proposal, error)
	ListMine(ctx context.Context, principal domain.Principal) ([]domain.Proposal, error)
}

type ProposalHandler struct {
	proposalService Service
}

func New(proposalService Service) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
	}
}

func respondList(w http.ResponseWriter, proposals []domain.Proposal) {
	response := make([]dto.ProposalDTO, len(proposals))
	for i, p := range proposals {
		response[i] = dto.Proposal(p)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Submit godoc
//
//	@Summary		Apply to a job
//	@Description	Spends one connect. A freelancer may apply to a job only once.
//	@Tags			Proposals
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Job id"
//	@Param			request	body		dto.SubmitProposalRequestDTO	true	"Proposal"
//	@Success		201		{object}	dto.ProposalDTO
//	@Failure		400		{object}	utils.Response	"Job is not open"
//	@Failure		402		{object}	utils.Response	"No connects left"
//	@Failure		403		{object}	utils.Response	"Only freelancers apply"
//	@Failure		404		{object}	utils.Response	"Job not found"
//	@Failure		409		{object}	utils.Response	"Already applied"
//	@Router			/api/jobs/{id}/proposals [post]
func (h *ProposalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}
	jobID, ok := request.PathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.SubmitProposalRequestDTO
	if !request.DecodeJSON(w, r, &req) {
		return
	}

	proposal, err := h.proposalService.Submit(r.Context(), principal, jobID, req.Amount, req.CoverLetter)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.Proposal(*proposal))
}

// ListForJob godoc
//
//	@Summary	List proposals for a job
//	@Tags		Proposals
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Job id"
//	@Success	200	{array}		dto.ProposalDTO
//	@Failure	403	{object}	utils.Response	"Not the owner"
//	@Router		/api/jobs/{id}/proposals [get]
func (h *ProposalHandler) ListForJob(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}
	jobID, ok := request.PathID(w, r, "id")
	if !ok {
		return
	}

	proposals, err := h.proposalService.ListForJob(r.Context(), principal, jobID)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	respondList(w, proposals)
}

// ListMine godoc
//
//	@Summary	List my proposals
//	@Tags		Proposals
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		dto.ProposalDTO
//	@Failure	403	{object}	utils.Response	"Only freelancers have proposals"
//	@Router		/api/proposals [get]
func (h *ProposalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}

	proposals, err := h.proposalService.ListMine(r.Context(), principal)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	respondList(w, proposals)
}

// Accept godoc
//
//	@Summary		Accept a proposal
//	@Description	Moves the job in progress and drafts a PENDING contract.
//	@Tags			Proposals
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Proposal id"
//	@Success		201	{object}	dto.ContractDTO
//	@Failure		400	{object}	utils.Response	"Proposal or job in the wrong state"
//	@Failure		403	{object}	utils.Response	"Not the job owner"
//	@Failure		409	{object}	utils.Response	"Already accepted"
//	@Router			/api/proposals/{id}/accept [post]
func (h *ProposalHandler) Accept(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}
	id, ok := request.PathID(w, r, "id")
	if !ok {
		return
	}

	contract, err := h.proposalService.Accept(r.Context(), principal, id)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.Contract(*contract))
}

// Reject godoc
//
//	@Summary	Reject a proposal
//	@Tags		Proposals
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Proposal id"
//	@Success	200	{object}	dto.ProposalDTO
//	@Failure	400	{object}	utils.Response	"Proposal is not pending"
//	@Failure	403	{object}	utils.Response	"Not the job owner"
//	@Router		/api/proposals/{id}/reject [post]
func (h *ProposalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}
	id, ok := request.PathID(w, r, "id")
	if !ok {
		return
	}

	proposal, err := h.proposalService.Reject(r.Context(), principal, id)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.Proposal(*proposal))
}
