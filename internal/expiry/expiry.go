// Package expiry flips ledger entries past their expiry date to EXPIRED.
package expiry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/freelancehub/internal/config"
	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/pg"
	ledgerrepo "github.com/GlebRadaev/freelancehub/internal/repo/ledger-repo"
	"github.com/GlebRadaev/freelancehub/pkg/metrics"
)

const (
	defaultWorkers = 4
	batchLimit     = 500
)

type Repo interface {
	OwnersWithExpired(ctx context.Context, now time.Time, limit int) ([]ledgerrepo.OwnerKind, error)
	LockOwner(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind) error
	ExpireEntries(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind, now time.Time) (int64, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, notifications ...domain.Notification)
}

type Service struct {
	repo           Repo
	txManager      pg.TXManager
	notifier       Notifier
	workerPool     WorkerPoolI
	updateInterval time.Duration
	limit          int
	inFlight       sync.Map
	now            func() time.Time
	stopped        chan struct{}
}

func New(cfg *config.Config, repo Repo, txManager pg.TXManager, notifier Notifier) *Service {
	return &Service{
		repo:           repo,
		txManager:      txManager,
		notifier:       notifier,
		workerPool:     NewWorkerPool(defaultWorkers),
		updateInterval: cfg.ExpiryInterval,
		limit:          batchLimit,
		now:            time.Now,
		stopped:        make(chan struct{}),
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Expiry sweeper started", zap.Duration("interval", s.updateInterval))
	go s.run(ctx)
}

// Wait blocks until a started sweeper has stopped.
func (s *Service) Wait() {
	<-s.stopped
}

func (s *Service) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()
	defer s.workerPool.Close()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping expiry sweeper")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep expires one batch of owners and waits until every owner in the
// batch has been processed.
func (s *Service) sweep(ctx context.Context) {
	now := s.now()
	owners, err := s.repo.OwnersWithExpired(ctx, now, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch owners with expired entries", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, owner := range owners {
		owner := owner
		key := owner.OwnerID.String() + ":" + string(owner.Kind)
		if _, loaded := s.inFlight.LoadOrStore(key, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			done := make(chan error, 1)
			err := s.workerPool.AddTask(ctx, func() error {
				defer s.inFlight.Delete(key)
				err := s.expireOwner(ctx, owner, now)
				done <- err
				return err
			})
			if err != nil {
				s.inFlight.Delete(key)
				return err
			}
			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error expiring ledger entries", zap.Error(err))
	}
}

// expireOwner takes the same per-owner lock as consume, so an entry is
// never spent and expired at once.
func (s *Service) expireOwner(ctx context.Context, owner ledgerrepo.OwnerKind, now time.Time) error {
	var total int64
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.repo.LockOwner(ctx, owner.OwnerID, owner.Kind); err != nil {
			return err
		}
		var err error
		total, err = s.repo.ExpireEntries(ctx, owner.OwnerID, owner.Kind, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("expire entries of %s: %w", owner.OwnerID, err)
	}
	if total == 0 {
		return nil
	}
	metrics.Default().AddExpired(owner.Kind, total)

	zap.L().Info("Ledger entries expired",
		zap.String("owner", owner.OwnerID.String()), zap.String("kind", string(owner.Kind)), zap.Int64("amount", total))
	s.notifier.Dispatch(ctx, domain.Notification{
		UserID:  owner.OwnerID,
		Title:   "Balance expired",
		Message: fmt.Sprintf("%d %s expired from your balance.", total, kindLabel(owner.Kind)),
	})
	return nil
}

func kindLabel(kind domain.LedgerKind) string {
	switch kind {
	case domain.KindConnect:
		return "connects"
	case domain.KindCredit:
		return "credits"
	}
	return string(kind)
}
