package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/GlebRadaev/freelancehub/docs"
	"github.com/GlebRadaev/freelancehub/internal/domain"
	authhandlers "github.com/GlebRadaev/freelancehub/internal/handlers/auth"
	contracthandlers "github.com/GlebRadaev/freelancehub/internal/handlers/contracts"
	jobhandlers "github.com/GlebRadaev/freelancehub/internal/handlers/jobs"
	ledgerhandlers "github.com/GlebRadaev/freelancehub/internal/handlers/ledger"
	notificationhandlers "github.com/GlebRadaev/freelancehub/internal/handlers/notifications"
	proposalhandlers "github.com/GlebRadaev/freelancehub/internal/handlers/proposals"
	tickethandlers "github.com/GlebRadaev/freelancehub/internal/handlers/tickets"
	"github.com/GlebRadaev/freelancehub/internal/service"
	"github.com/GlebRadaev/freelancehub/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	ExchangeToken(w http.ResponseWriter, r *http.Request)
	Exchange(w http.ResponseWriter, r *http.Request)
}

type LedgerHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetEntries(w http.ResponseWriter, r *http.Request)
	Consume(w http.ResponseWriter, r *http.Request)
	Grant(w http.ResponseWriter, r *http.Request)
}

type JobHandler interface {
	CreateJob(w http.ResponseWriter, r *http.Request)
	ListJobs(w http.ResponseWriter, r *http.Request)
	GetJob(w http.ResponseWriter, r *http.Request)
	CancelJob(w http.ResponseWriter, r *http.Request)
}

type ProposalHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListForJob(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type ContractHandler interface {
	ListContracts(w http.ResponseWriter, r *http.Request)
	GetContract(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
	Decline(w http.ResponseWriter, r *http.Request)
	SubmitWork(w http.ResponseWriter, r *http.Request)
	ReviewWork(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
}

type TicketHandler interface {
	ListTickets(w http.ResponseWriter, r *http.Request)
	ListContractTickets(w http.ResponseWriter, r *http.Request)
	CreateTicket(w http.ResponseWriter, r *http.Request)
	GetTicket(w http.ResponseWriter, r *http.Request)
	Respond(w http.ResponseWriter, r *http.Request)
}

type NotificationHandler interface {
	ListNotifications(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler         AuthHandler
	LedgerHandler       LedgerHandler
	JobHandler          JobHandler
	ProposalHandler     ProposalHandler
	ContractHandler     ContractHandler
	TicketHandler       TicketHandler
	NotificationHandler NotificationHandler

	jwt auth.JWTServiceInterface
}

func New(s *service.Services, jwt auth.JWTServiceInterface) *Handlers {
	return &Handlers{
		AuthHandler:         authhandlers.New(s.AuthService),
		LedgerHandler:       ledgerhandlers.New(s.LedgerService),
		JobHandler:          jobhandlers.New(s.JobService),
		ProposalHandler:     proposalhandlers.New(s.ProposalService),
		ContractHandler:     contracthandlers.New(s.ContractService),
		TicketHandler:       tickethandlers.New(s.TicketService),
		NotificationHandler: notificationhandlers.New(s.NotificationService),
		jwt:                 jwt,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", h.AuthHandler.Register)
			r.Post("/login", h.AuthHandler.Login)
			r.Post("/exchange", h.AuthHandler.Exchange)
			r.With(auth.AuthMiddleware(h.jwt)).Post("/exchange-token", h.AuthHandler.ExchangeToken)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware(h.jwt))

			r.Route("/ledger/{kind}", func(r chi.Router) {
				r.Get("/balance", h.LedgerHandler.GetBalance)
				r.Get("/entries", h.LedgerHandler.GetEntries)
				r.Post("/consume", h.LedgerHandler.Consume)
			})
			r.Route("/jobs", func(r chi.Router) {
				r.Post("/", h.JobHandler.CreateJob)
				r.Get("/", h.JobHandler.ListJobs)
				r.Get("/{id}", h.JobHandler.GetJob)
				r.Post("/{id}/cancel", h.JobHandler.CancelJob)
				r.Post("/{id}/proposals", h.ProposalHandler.Submit)
				r.Get("/{id}/proposals", h.ProposalHandler.ListForJob)
			})
			r.Route("/proposals", func(r chi.Router) {
				r.Get("/", h.ProposalHandler.ListMine)
				r.Post("/{id}/accept", h.ProposalHandler.Accept)
				r.Post("/{id}/reject", h.ProposalHandler.Reject)
			})
			r.Route("/contracts", func(r chi.Router) {
				r.Get("/", h.ContractHandler.ListContracts)
				r.Get("/{id}", h.ContractHandler.GetContract)
				r.Post("/{id}/accept", h.ContractHandler.Accept)
				r.Post("/{id}/decline", h.ContractHandler.Decline)
				r.Post("/{id}/submit", h.ContractHandler.SubmitWork)
				r.Post("/{id}/review", h.ContractHandler.ReviewWork)
				r.Get("/{id}/tickets", h.TicketHandler.ListContractTickets)
				r.With(auth.RequireRole(domain.RoleAdmin)).Post("/{id}/complete", h.ContractHandler.Complete)
			})
			r.Route("/tickets", func(r chi.Router) {
				r.Get("/", h.TicketHandler.ListTickets)
				r.Post("/", h.TicketHandler.CreateTicket)
				r.Get("/{id}", h.TicketHandler.GetTicket)
				r.Post("/{id}/responses", h.TicketHandler.Respond)
			})
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.NotificationHandler.ListNotifications)
				r.Post("/{id}/read", h.NotificationHandler.MarkRead)
			})
			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireRole(domain.RoleAdmin))
				r.Post("/ledger/grant", h.LedgerHandler.Grant)
			})
		})
	})

	return r
}
