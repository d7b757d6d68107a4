package ledgerservice

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

// Allocation is the part of one entry taken by a consume.
type Allocation struct {
	EntryID uuid.UUID          `json:"entry_id"`
	Taken   int64              `json:"taken"`
	Left    int64              `json:"left"`
	Status  domain.EntryStatus `json:"status"`
}

// Allocate spends amount from entries in the given order, which must be
// oldest first. Entries are left untouched; the returned allocations
// describe the writes to apply.
func Allocate(entries []domain.LedgerEntry, amount int64) ([]Allocation, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("consume amount %d: %w", amount, domain.ErrInvalidInput)
	}
	var available int64
	for _, e := range entries {
		available += e.Amount
	}
	if available < amount {
		return nil, fmt.Errorf("need %d, have %d: %w", amount, available, domain.ErrInsufficientBalance)
	}

	remaining := amount
	var used []Allocation
	for _, e := range entries {
		if remaining == 0 {
			break
		}
		if e.Amount <= 0 {
			continue
		}
		take := min(remaining, e.Amount)
		left := e.Amount - take
		status := domain.EntryActive
		if left == 0 {
			status = domain.EntryUsed
		}
		used = append(used, Allocation{EntryID: e.ID, Taken: take, Left: left, Status: status})
		remaining -= take
	}
	return used, nil
}
