package notifyservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

const listLimit = 100

type Repo interface {
	Insert(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
}

type Publisher interface {
	Publish(n domain.Notification) error
}

// Service persists notifications and fans them out to the bus. Dispatch
// never fails the caller: transitions that produced the notifications are
// already committed.
type Service struct {
	repo Repo
	bus  Publisher
	now  func() time.Time
}

// New accepts a nil bus; notifications are then only stored.
func New(repo Repo, bus Publisher) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
		now:  time.Now,
	}
}

func (s *Service) Dispatch(ctx context.Context, notifications ...domain.Notification) {
	for _, n := range notifications {
		n.ID = uuid.New()
		n.CreatedAt = s.now()
		if err := s.repo.Insert(ctx, &n); err != nil {
			zap.L().Error("can't store notification", zap.String("user_id", n.UserID.String()), zap.Error(err))
			continue
		}
		if s.bus == nil {
			continue
		}
		if err := s.bus.Publish(n); err != nil {
			zap.L().Warn("can't publish notification", zap.String("user_id", n.UserID.String()), zap.Error(err))
		}
	}
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, listLimit)
	if err != nil {
		zap.L().Error("can't list notifications", zap.Error(err))
		return nil, err
	}
	return notifications, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}
