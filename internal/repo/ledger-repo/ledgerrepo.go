package ledgerrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

// OwnerKind identifies one balance: an owner's connects or credits.
type OwnerKind struct {
	OwnerID uuid.UUID
	Kind    domain.LedgerKind
}

func scanEntry(row interface{ Scan(dest ...any) error }, e *domain.LedgerEntry) error {
	return row.Scan(&e.ID, &e.OwnerID, &e.Amount, &e.Kind, &e.Status, &e.CreatedAt, &e.ExpiresAt)
}

func (r *Repository) Insert(ctx context.Context, e *domain.LedgerEntry) error {
	query := `
        INSERT INTO ledger_entries (id, owner_id, amount, kind, status, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.db.Exec(ctx, query, e.ID, e.OwnerID, e.Amount, e.Kind, e.Status, e.CreatedAt, e.ExpiresAt)
	if err != nil {
		zap.L().Error("failed to insert ledger entry", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) ActiveBalance(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind, now time.Time) (int64, error) {
	query := `
        SELECT COALESCE(SUM(amount), 0)
        FROM ledger_entries
        WHERE owner_id = $1 AND kind = $2 AND status = 'ACTIVE'
          AND (expires_at IS NULL OR expires_at > $3)
    `
	var balance int64
	if err := r.db.QueryRow(ctx, query, ownerID, kind, now).Scan(&balance); err != nil {
		zap.L().Error("failed to sum active ledger entries", zap.Error(err))
		return 0, err
	}
	return balance, nil
}

// LockOwner serializes every balance mutation of one owner and kind until
// the surrounding transaction ends. It must be called inside a transaction.
func (r *Repository) LockOwner(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind) error {
	query := `SELECT pg_advisory_xact_lock(hashtext($1))`
	if _, err := r.db.Exec(ctx, query, ownerID.String()+":"+string(kind)); err != nil {
		zap.L().Error("failed to lock ledger owner", zap.Error(err))
		return err
	}
	return nil
}

// ActiveForUpdate returns spendable entries oldest first and row-locks them.
func (r *Repository) ActiveForUpdate(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind, now time.Time) ([]domain.LedgerEntry, error) {
	query := `
        SELECT id, owner_id, amount, kind, status, created_at, expires_at
        FROM ledger_entries
        WHERE owner_id = $1 AND kind = $2 AND status = 'ACTIVE'
          AND (expires_at IS NULL OR expires_at > $3)
        ORDER BY created_at ASC, id ASC
        FOR UPDATE
    `
	return r.list(ctx, query, ownerID, kind, now)
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind) ([]domain.LedgerEntry, error) {
	query := `
        SELECT id, owner_id, amount, kind, status, created_at, expires_at
        FROM ledger_entries
        WHERE owner_id = $1 AND kind = $2
        ORDER BY created_at DESC
    `
	return r.list(ctx, query, ownerID, kind)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.LedgerEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't query ledger entries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := scanEntry(rows, &e); err != nil {
			zap.L().Error("can't scan ledger entry", zap.Error(err))
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("ledger entries iteration failed", zap.Error(err))
		return nil, err
	}
	return entries, nil
}

func (r *Repository) UpdateEntry(ctx context.Context, id uuid.UUID, amount int64, status domain.EntryStatus) error {
	query := `
        UPDATE ledger_entries
        SET amount = $1, status = $2
        WHERE id = $3
    `
	if _, err := r.db.Exec(ctx, query, amount, status, id); err != nil {
		zap.L().Error("failed to update ledger entry", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) OwnersWithExpired(ctx context.Context, now time.Time, limit int) ([]OwnerKind, error) {
	query := `
        SELECT DISTINCT owner_id, kind
        FROM ledger_entries
        WHERE status = 'ACTIVE' AND expires_at IS NOT NULL AND expires_at <= $1
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, now, limit)
	if err != nil {
		zap.L().Error("can't find owners with expired entries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var owners []OwnerKind
	for rows.Next() {
		var ok OwnerKind
		if err := rows.Scan(&ok.OwnerID, &ok.Kind); err != nil {
			zap.L().Error("can't scan owner row", zap.Error(err))
			return nil, err
		}
		owners = append(owners, ok)
	}
	return owners, rows.Err()
}

// ExpireEntries flips the owner's overdue ACTIVE entries to EXPIRED and
// returns the total amount that stopped being spendable.
func (r *Repository) ExpireEntries(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind, now time.Time) (int64, error) {
	query := `
        WITH expired AS (
            UPDATE ledger_entries
            SET status = 'EXPIRED'
            WHERE owner_id = $1 AND kind = $2 AND status = 'ACTIVE'
              AND expires_at IS NOT NULL AND expires_at <= $3
            RETURNING amount
        )
        SELECT COALESCE(SUM(amount), 0) FROM expired
    `
	var total int64
	if err := r.db.QueryRow(ctx, query, ownerID, kind, now).Scan(&total); err != nil {
		zap.L().Error("failed to expire ledger entries", zap.Error(err))
		return 0, err
	}
	return total, nil
}
