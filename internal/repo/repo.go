package repo

import (
	"github.com/GlebRadaev/freelancehub/internal/expiry"
	"github.com/GlebRadaev/freelancehub/internal/pg"
	contractrepo "github.com/GlebRadaev/freelancehub/internal/repo/contract-repo"
	jobrepo "github.com/GlebRadaev/freelancehub/internal/repo/job-repo"
	ledgerrepo "github.com/GlebRadaev/freelancehub/internal/repo/ledger-repo"
	notificationrepo "github.com/GlebRadaev/freelancehub/internal/repo/notification-repo"
	proposalrepo "github.com/GlebRadaev/freelancehub/internal/repo/proposal-repo"
	ticketrepo "github.com/GlebRadaev/freelancehub/internal/repo/ticket-repo"
	userrepo "github.com/GlebRadaev/freelancehub/internal/repo/user-repo"
	"github.com/GlebRadaev/freelancehub/internal/service/authservice"
	"github.com/GlebRadaev/freelancehub/internal/service/contractservice"
	"github.com/GlebRadaev/freelancehub/internal/service/jobservice"
	"github.com/GlebRadaev/freelancehub/internal/service/ledgerservice"
	"github.com/GlebRadaev/freelancehub/internal/service/notifyservice"
	"github.com/GlebRadaev/freelancehub/internal/service/proposalservice"
	"github.com/GlebRadaev/freelancehub/internal/service/ticketservice"
)

// LedgerRepo serves both the ledger service and the expiry sweeper.
type LedgerRepo interface {
	ledgerservice.Repo
	expiry.Repo
}

type ContractRepo interface {
	contractservice.ContractRepo
	proposalservice.ContractRepo
	ticketservice.ContractRepo
}

type TicketRepo interface {
	ticketservice.Repo
	contractservice.TicketRepo
}

type Repositories struct {
	UserRepo         authservice.Repo
	LedgerRepo       LedgerRepo
	JobRepo          jobservice.Repo
	ProposalRepo     proposalservice.ProposalRepo
	ContractRepo     ContractRepo
	TicketRepo       TicketRepo
	NotificationRepo notifyservice.Repo
	TXManager        pg.TXManager
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:         userrepo.New(conn),
		LedgerRepo:       ledgerrepo.New(conn),
		JobRepo:          jobrepo.New(conn),
		ProposalRepo:     proposalrepo.New(conn),
		ContractRepo:     contractrepo.New(conn),
		TicketRepo:       ticketrepo.New(conn),
		NotificationRepo: notificationrepo.New(conn),
		TXManager:        txManager,
	}
}
