package ledgerservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/pg"
	"github.com/GlebRadaev/freelancehub/pkg/metrics"
)

type Repo interface {
	Insert(ctx context.Context, e *domain.LedgerEntry) error
	ActiveBalance(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind, now time.Time) (int64, error)
	LockOwner(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind) error
	ActiveForUpdate(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind, now time.Time) ([]domain.LedgerEntry, error)
	UpdateEntry(ctx context.Context, id uuid.UUID, amount int64, status domain.EntryStatus) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind) ([]domain.LedgerEntry, error)
}

type ConsumeResult struct {
	Used []Allocation `json:"used"`
	// Remaining is the spendable balance left after the consume.
	Remaining int64 `json:"remaining"`
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

func (s *Service) Balance(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind) (int64, error) {
	balance, err := s.repo.ActiveBalance(ctx, ownerID, kind, s.now())
	if err != nil {
		zap.L().Error("failed to get balance", zap.Error(err))
		return 0, err
	}
	return balance, nil
}

func (s *Service) Entries(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind) ([]domain.LedgerEntry, error) {
	entries, err := s.repo.ListByOwner(ctx, ownerID, kind)
	if err != nil {
		zap.L().Error("failed to list ledger entries", zap.Error(err))
		return nil, err
	}
	return entries, nil
}

// Grant appends a new spendable entry. Entries are never merged.
func (s *Service) Grant(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind, amount int64, expiresAt *time.Time) (*domain.LedgerEntry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("grant amount %d: %w", amount, domain.ErrInvalidInput)
	}
	now := s.now()
	if expiresAt != nil && !expiresAt.After(now) {
		return nil, fmt.Errorf("grant already expired: %w", domain.ErrInvalidInput)
	}

	entry := &domain.LedgerEntry{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Amount:    amount,
		Kind:      kind,
		Status:    domain.EntryActive,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		zap.L().Error("failed to grant", zap.Error(err))
		return nil, err
	}
	zap.L().Info("ledger grant",
		zap.Stringer("owner", ownerID), zap.String("kind", string(kind)), zap.Int64("amount", amount))
	return entry, nil
}

// Consume spends amount oldest entry first. The whole read-decide-write
// sequence runs in one transaction under the owner's lock, so concurrent
// consumes for the same owner cannot overspend. When ctx already carries a
// transaction the consume joins it.
func (s *Service) Consume(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind, amount int64) (*ConsumeResult, error) {
	var result ConsumeResult
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.repo.LockOwner(ctx, ownerID, kind); err != nil {
			return err
		}
		now := s.now()
		entries, err := s.repo.ActiveForUpdate(ctx, ownerID, kind, now)
		if err != nil {
			return err
		}
		used, err := Allocate(entries, amount)
		if err != nil {
			return err
		}
		for _, a := range used {
			if err := s.repo.UpdateEntry(ctx, a.EntryID, a.Left, a.Status); err != nil {
				return err
			}
		}
		audit := &domain.LedgerEntry{
			ID:        uuid.New(),
			OwnerID:   ownerID,
			Amount:    -amount,
			Kind:      kind,
			Status:    domain.EntryUsed,
			CreatedAt: now,
		}
		if err := s.repo.Insert(ctx, audit); err != nil {
			return err
		}

		var available int64
		for _, e := range entries {
			available += e.Amount
		}
		result = ConsumeResult{Used: used, Remaining: available - amount}
		return nil
	})
	metrics.Default().ObserveConsume(kind, err)
	if err != nil {
		zap.L().Info("consume refused or failed",
			zap.Stringer("owner", ownerID), zap.String("kind", string(kind)), zap.Int64("amount", amount), zap.Error(err))
		return nil, err
	}
	return &result, nil
}
