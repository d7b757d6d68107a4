package jobservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/pg"
)

type Repo interface {
	Create(ctx context.Context, job *domain.Job) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus) error
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Job, error)
	ListOpen(ctx context.Context) ([]domain.Job, error)
}

type Service struct {
	repo      Repo
	txManager pg.TXManager
	now       func() time.Time
}

func New(repo Repo, txManager pg.TXManager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		now:       time.Now,
	}
}

func (s *Service) Create(ctx context.Context, principal domain.Principal, title, description string, budget int64) (*domain.Job, error) {
	if !principal.Is(domain.RoleClient) {
		return nil, domain.ErrForbidden
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("job title is required: %w", domain.ErrInvalidInput)
	}
	if budget < 0 {
		return nil, fmt.Errorf("job budget must not be negative: %w", domain.ErrInvalidInput)
	}

	job := &domain.Job{
		ID:          uuid.New(),
		ClientID:    principal.ID,
		Title:       title,
		Description: description,
		Budget:      budget,
		Status:      domain.JobOpen,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	zap.L().Info("job created", zap.String("job_id", job.ID.String()))
	return job, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	return s.repo.Get(ctx, id)
}

// List shows clients their own jobs and everyone else the open ones.
func (s *Service) List(ctx context.Context, principal domain.Principal) ([]domain.Job, error) {
	switch principal.Role {
	case domain.RoleClient:
		return s.repo.ListByClient(ctx, principal.ID)
	case domain.RoleFreelancer, domain.RoleAdmin:
		return s.repo.ListOpen(ctx)
	}
	return nil, domain.ErrForbidden
}

func (s *Service) Cancel(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.Job, error) {
	var job *domain.Job
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		job, err = s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if job.ClientID != principal.ID && !principal.Is(domain.RoleAdmin) {
			return domain.ErrForbidden
		}
		if job.Status != domain.JobOpen {
			return fmt.Errorf("cancel job in %s: %w", job.Status, domain.ErrInvalidState)
		}
		job.Status = domain.JobCancelled
		return s.repo.UpdateStatus(ctx, id, domain.JobCancelled)
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}
