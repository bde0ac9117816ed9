package service

import (
	"context"

	"github.com/bigtree-pos/till/internal/domain/cart"
	"github.com/bigtree-pos/till/internal/domain/history"
	"github.com/bigtree-pos/till/internal/domain/money"
	"github.com/bigtree-pos/till/internal/domain/quickadd"
	"github.com/google/uuid"
)

// State is a read-only view of the register for one moment in time. Total and
// change are derived fresh on every command; nothing here is cached across
// mutations.
type State struct {
	Items     []cart.LineItem
	ItemCount int
	Total     money.Money
	Tendered  *money.Money
	Change    *money.Money
	Direction ChangeDirection

	// PersistWarning is set when the write-through snapshot failed. The
	// in-memory mutation is kept; the caller surfaces the warning instead
	// of rolling back.
	PersistWarning string
}

// RegisterService is the single entry point for every register operation.
// All mutations are serialized onto one internal goroutine; callers block
// until their command has fully executed.
type RegisterService interface {
	// AddItem validates and appends a line item, snapshots the session,
	// and returns the created item with the resulting state.
	// Returns cart.ErrEmptyName or cart.ErrNegativePrice on bad input.
	AddItem(ctx context.Context, name string, price money.Money) (cart.LineItem, State, error)

	// AddFromQuickAdd appends a line item from a catalog entry.
	// Returns ErrQuickAddNotFound for an unknown entry id.
	AddFromQuickAdd(ctx context.Context, id uuid.UUID) (cart.LineItem, State, error)

	// RemoveItem deletes a line item; removing an absent id is a no-op.
	RemoveItem(ctx context.Context, id uuid.UUID) (State, error)

	// ClearCart empties the items and resets the tendered cash.
	ClearCart(ctx context.Context) (State, error)

	// SetTendered records the tendered cash, or clears it when nil.
	SetTendered(ctx context.Context, amount *money.Money) (State, error)

	// State returns the current view without mutating anything.
	State(ctx context.Context) (State, error)

	// Summary returns the spoken transaction announcement text.
	Summary(ctx context.Context) (string, error)

	// Finalize appends the sale to the history and resets the register.
	// Either the history gains exactly one record and the cart is cleared,
	// or nothing durable changes. A repeated idempotency key replays the
	// recorded sale; replayed reports true in that case.
	// Returns ErrNoTender when the tendered amount is missing.
	Finalize(ctx context.Context, tendered money.Money, idempotencyKey string) (record history.Record, replayed bool, err error)

	// SaveQuickAdd stores a shortcut; validation matches AddItem.
	SaveQuickAdd(ctx context.Context, name string, price money.Money) (quickadd.Entry, error)

	// RemoveQuickAdd deletes a shortcut; absent ids are a no-op.
	RemoveQuickAdd(ctx context.Context, id uuid.UUID) error

	// QuickAddEntries lists the catalog in insertion order.
	QuickAddEntries(ctx context.Context) ([]quickadd.Entry, error)

	// History lists all finalized sales, oldest first.
	History(ctx context.Context) ([]history.Record, error)
}
