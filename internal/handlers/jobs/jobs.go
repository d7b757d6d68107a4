package jobs

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
	Create(ctx context.Context, principal domain.Principal, title, description string, budget int64) (*domain.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	List(ctx context.Context, principal domain.Principal) ([]domain.Job, error)
	Cancel(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.Job, error)
}

type JobHandler struct {
	jobService Service
}

func New(jobService Service) *JobHandler {
	return &JobHandler{
		jobService: jobService,
	}
}

// CreateJob godoc
//
//	@Summary	Post a job
//	@Tags		Jobs
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.CreateJobRequestDTO	true	"Job"
//	@Success	201		{object}	dto.JobDTO
//	@Failure	400		{object}	utils.Response	"Invalid job"
//	@Failure	403		{object}	utils.Response	"Only clients post jobs"
//	@Router		/api/jobs [post]
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}
	var req dto.CreateJobRequestDTO
	if !request.DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.jobService.Create(r.Context(), principal, req.Title, req.Description, req.Budget)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.Job(*job))
}

// ListJobs godoc
//
//	@Summary		List jobs
//	@Description	Clients see their own jobs; everyone else sees open jobs.
//	@Tags			Jobs
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}	dto.JobDTO
//	@Router			/api/jobs [get]
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}

	jobs, err := h.jobService.List(r.Context(), principal)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	response := make([]dto.JobDTO, len(jobs))
	for i, j := range jobs {
		response[i] = dto.Job(j)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetJob godoc
//
//	@Summary	Get a job
//	@Tags		Jobs
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Job id"
//	@Success	200	{object}	dto.JobDTO
//	@Failure	404	{object}	utils.Response	"Job not found"
//	@Router		/api/jobs/{id} [get]
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := request.PathID(w, r, "id")
	if !ok {
		return
	}

	job, err := h.jobService.Get(r.Context(), id)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.Job(*job))
}

// CancelJob godoc
//
//	@Summary	Cancel an open job
//	@Tags		Jobs
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Job id"
//	@Success	200	{object}	dto.JobDTO
//	@Failure	400	{object}	utils.Response	"Job is no longer open"
//	@Failure	403	{object}	utils.Response	"Not the owner"
//	@Failure	404	{object}	utils.Response	"Job not found"
//	@Router		/api/jobs/{id}/cancel [post]
func (h *JobHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}
	id, ok := request.PathID(w, r, "id")
	if !ok {
		return
	}

	job, err := h.jobService.Cancel(r.Context(), principal, id)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.Job(*job))
}
