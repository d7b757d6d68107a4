package service

import (
	"github.com/GlebRadaev/freelancehub/internal/handlers/auth"
	"github.com/GlebRadaev/freelancehub/internal/handlers/contracts"
	"github.com/GlebRadaev/freelancehub/internal/handlers/jobs"
	"github.com/GlebRadaev/freelancehub/internal/handlers/ledger"
	"github.com/GlebRadaev/freelancehub/internal/handlers/notifications"
	"github.com/GlebRadaev/freelancehub/internal/handlers/proposals"
	"github.com/GlebRadaev/freelancehub/internal/handlers/tickets"
	pkgauth "github.com/GlebRadaev/freelancehub/pkg/auth"

	"github.com/GlebRadaev/freelancehub/internal/repo"
	"github.com/GlebRadaev/freelancehub/internal/service/authservice"
	"github.com/GlebRadaev/freelancehub/internal/service/contractservice"
	"github.com/GlebRadaev/freelancehub/internal/service/jobservice"
	"github.com/GlebRadaev/freelancehub/internal/service/ledgerservice"
	"github.com/GlebRadaev/freelancehub/internal/service/notifyservice"
	"github.com/GlebRadaev/freelancehub/internal/service/proposalservice"
	"github.com/GlebRadaev/freelancehub/internal/service/ticketservice"
)

// Deps are the collaborators that live outside the database.
type Deps struct {
	JWT      pkgauth.JWTServiceInterface
	Exchange pkgauth.ExchangeStoreInterface
	Files    contractservice.FileStore
	// Bus is optional.
	Bus            notifyservice.Publisher
	SignupConnects int64
}

type Services struct {
	AuthService         auth.Service
	LedgerService       ledger.Service
	JobService          jobs.Service
	ProposalService     proposals.Service
	ContractService     contracts.Service
	TicketService       tickets.Service
	NotificationService notifications.Service
	// Notifier is shared with the background expiry sweeper.
	Notifier *notifyservice.Service
}

func New(repo *repo.Repositories, deps Deps) *Services {
	tx := repo.TXManager
	notifier := notifyservice.New(repo.NotificationRepo, deps.Bus)
	ledgerService := ledgerservice.New(repo.LedgerRepo, tx)
	authService := authservice.New(repo.UserRepo, ledgerService, tx, &pkgauth.HashService{}, deps.JWT, deps.Exchange, deps.SignupConnects)

	return &Services{
		AuthService:         authService,
		LedgerService:       ledgerService,
		JobService:          jobservice.New(repo.JobRepo, tx),
		ProposalService:     proposalservice.New(repo.JobRepo, repo.ProposalRepo, repo.ContractRepo, ledgerService, tx, notifier),
		ContractService:     contractservice.New(repo.ContractRepo, repo.JobRepo, repo.TicketRepo, deps.Files, tx, notifier),
		TicketService:       ticketservice.New(repo.TicketRepo, repo.ContractRepo, tx, notifier),
		NotificationService: notifier,
		Notifier:            notifier,
	}
}
