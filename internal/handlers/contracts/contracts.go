package contracts

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/dto"
	"github.com/GlebRadaev/freelancehub/internal/handlers/httperr"
	"github.com/GlebRadaev/freelancehub/internal/handlers/request"
	"github.com/GlebRadaev/freelancehub/internal/service/contractservice"
	"github.com/GlebRadaev/freelancehub/pkg/utils"
)

const maxUploadSize = 10 << 20

type Service interface {
	Get(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.Contract, error)
	ListMine(ctx context.Context, principal domain.Principal) ([]domain.Contract, error)
	Accept(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.Contract, error)
	Decline(ctx context.Context, principal domain.Principal, id uuid.UUID, reason string) (*domain.Contract, error)
	SubmitWork(ctx context.Context, principal domain.Principal, id uuid.UUID, description string, file *contractservice.Upload) (*domain.Contract, error)
	ReviewWork(ctx context.Context, principal domain.Principal, id uuid.UUID, accepted bool, feedback string) (*domain.Contract, error)
	Complete(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.Contract, error)
}

type ContractHandler struct {
	contractService Service
}

func New(contractService Service) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
	}
}

func (h *ContractHandler) target(w http.ResponseWriter, r *http.Request) (domain.Principal, uuid.UUID, bool) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return principal, uuid.Nil, false
	}
	id, ok := request.PathID(w, r, "id")
	return principal, id, ok
}

func respond(w http.ResponseWriter, c *domain.Contract, err error) {
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.Contract(*c))
}

// ListContracts godoc
//
//	@Summary	List my contracts
//	@Tags		Contracts
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	dto.ContractDTO
//	@Router		/api/contracts [get]
func (h *ContractHandler) ListContracts(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}

	contracts, err := h.contractService.ListMine(r.Context(), principal)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	response := make([]dto.ContractDTO, len(contracts))
	for i, c := range contracts {
		response[i] = dto.Contract(c)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetContract godoc
//
//	@Summary	Get a contract
//	@Tags		Contracts
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Contract id"
//	@Success	200	{object}	dto.ContractDTO
//	@Failure	403	{object}	utils.Response	"Not a party"
//	@Failure	404	{object}	utils.Response	"Contract not found"
//	@Router		/api/contracts/{id} [get]
func (h *ContractHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := h.target(w, r)
	if !ok {
		return
	}
	c, err := h.contractService.Get(r.Context(), principal, id)
	respond(w, c, err)
}

// Accept godoc
//
//	@Summary		Accept a contract
//	@Description	The contract turns ACTIVE once both parties have accepted, in either order.
//	@Tags			Contracts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Contract id"
//	@Success		200	{object}	dto.ContractDTO
//	@Failure		400	{object}	utils.Response	"Wrong state for this party"
//	@Failure		403	{object}	utils.Response	"Not a party"
//	@Router			/api/contracts/{id}/accept [post]
func (h *ContractHandler) Accept(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := h.target(w, r)
	if !ok {
		return
	}
	c, err := h.contractService.Accept(r.Context(), principal, id)
	respond(w, c, err)
}

// Decline godoc
//
//	@Summary		Decline a contract
//	@Description	Escalates to admin review and opens a HIGH priority ticket.
//	@Tags			Contracts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Contract id"
//	@Param			request	body		dto.DeclineRequestDTO	true	"Reason"
//	@Success		200		{object}	dto.ContractDTO
//	@Failure		400		{object}	utils.Response	"Contract can no longer be declined"
//	@Failure		403		{object}	utils.Response	"Not a party"
//	@Router			/api/contracts/{id}/decline [post]
func (h *ContractHandler) Decline(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req dto.DeclineRequestDTO
	if !request.DecodeJSON(w, r, &req) {
		return
	}
	c, err := h.contractService.Decline(r.Context(), principal, id, req.Reason)
	respond(w, c, err)
}

// SubmitWork godoc
//
//	@Summary		Submit work
//	@Description	Multipart form with a description and an optional file. The file is stored before the contract changes.
//	@Tags			Contracts
//	@Security		BearerAuth
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id			path		string	true	"Contract id"
//	@Param			description	formData	string	true	"What was delivered"
//	@Param			file		formData	file	false	"Deliverable"
//	@Success		200			{object}	dto.ContractDTO
//	@Failure		400			{object}	utils.Response	"Contract is not active"
//	@Failure		403			{object}	utils.Response	"Only the freelancer submits"
//	@Failure		502			{object}	utils.Response	"File storage failed"
//	@Router			/api/contracts/{id}/submit [post]
func (h *ContractHandler) SubmitWork(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := h.target(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	upload, err := readUpload(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to read file")
		return
	}
	c, err := h.contractService.SubmitWork(r.Context(), principal, id, r.FormValue("description"), upload)
	respond(w, c, err)
}

func readUpload(r *http.Request) (*contractservice.Upload, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return &contractservice.Upload{Data: data, MimeType: mimeType}, nil
}

// ReviewWork godoc
//
//	@Summary		Review submitted work
//	@Description	Accepting completes the contract and the job. Rejecting returns the contract to ACTIVE and opens tickets for both parties.
//	@Tags			Contracts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Contract id"
//	@Param			request	body		dto.ReviewRequestDTO	true	"Verdict"
//	@Success		200		{object}	dto.ContractDTO
//	@Failure		400		{object}	utils.Response	"Nothing to review"
//	@Failure		403		{object}	utils.Response	"Only the client reviews"
//	@Router			/api/contracts/{id}/review [post]
func (h *ContractHandler) ReviewWork(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req dto.ReviewRequestDTO
	if !request.DecodeJSON(w, r, &req) {
		return
	}
	c, err := h.contractService.ReviewWork(r.Context(), principal, id, req.Accepted, req.Feedback)
	respond(w, c, err)
}

// Complete godoc
//
//	@Summary		Force-complete a contract
//	@Description	Admin override that closes a contract regardless of the review loop.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Contract id"
//	@Success		200	{object}	dto.ContractDTO
//	@Failure		400	{object}	utils.Response	"Contract cannot be completed from its state"
//	@Failure		403	{object}	utils.Response	"Admins only"
//	@Router			/api/contracts/{id}/complete [post]
func (h *ContractHandler) Complete(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := h.target(w, r)
	if !ok {
		return
	}
	c, err := h.contractService.Complete(r.Context(), principal, id)
	respond(w, c, err)
}
