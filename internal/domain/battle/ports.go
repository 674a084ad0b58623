package battle

import (
	"context"
	"iter"
	"time"
)

// BattleRepository defines persistence operations for port battles
type BattleRepository interface {
	// Create persists a new battle
	Create(ctx context.Context, b *PortBattle) error

	// FindByID retrieves a battle; returns a NotFound domain error when missing
	FindByID(ctx context.Context, id string) (*PortBattle, error)

	// List returns one page of battles ordered by battle start ascending
	List(ctx context.Context, opts ListOptions) ([]*PortBattle, error)

	// UpdateDetails persists edited details. It fails with a BudgetExceededError
	// when the new BR limit is below the BR total of any fleet setup of the battle,
	// and with the error of admitShip for any committed role ship it rejects.
	UpdateDetails(ctx context.Context, b *PortBattle, admitShip ShipGuard) error

	// UpdateStatus changes status only if the stored status still equals from.
	// A concurrent transition makes it fail with an InvalidTransition conflict.
	UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) error
}

// ShipGuard rejects a committed ship that no longer fits the edited battle
type ShipGuard func(shipName string) error

// ListOptions filters and pages battle listings
type ListOptions struct {
	// Time window on battle start (inclusive)
	Start *time.Time
	End   *time.Time

	Limit  int
	Offset int
}

// DefaultPageSize is the page size used when iterating all battles
const DefaultPageSize = 100

// All produces a lazy, finite sequence of battles matching opts, fetching one page
// at a time. Iteration stops at the first error, which is yielded once.
func All(ctx context.Context, repo BattleRepository, opts ListOptions) iter.Seq2[*PortBattle, error] {
	pageSize := opts.Limit
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return func(yield func(*PortBattle, error) bool) {
		offset := opts.Offset
		for {
			page, err := repo.List(ctx, ListOptions{
				Start:  opts.Start,
				End:    opts.End,
				Limit:  pageSize,
				Offset: offset,
			})
			if err != nil {
				yield(nil, err)
				return
			}
			for _, b := range page {
				if !yield(b, nil) {
					return
				}
			}
			if len(page) < pageSize {
				return
			}
			offset += len(page)
		}
	}
}
