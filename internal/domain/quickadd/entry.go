// Package quickadd holds the named-price shortcut catalog. Entries live
// independently of the active transaction: finalizing or clearing the cart
// never touches them.
package quickadd

import (
	"context"
	"strings"

	"github.com/bigtree-pos/till/internal/domain/cart"
	"github.com/bigtree-pos/till/internal/domain/money"
	"github.com/google/uuid"
)

// Entry is a saved shortcut: tapping it adds a line item with this name and
// price. Entries never expire; they are only removed explicitly.
type Entry struct {
	ID    uuid.UUID   `json:"id"`
	Name  string      `json:"name"`
	Price money.Money `json:"price_minor_units"`
}

// NewEntry validates and builds a catalog entry. Validation matches line item
// creation: trimmed non-empty name, non-negative price.
func NewEntry(name string, price money.Money) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, cart.ErrEmptyName
	}
	if price.IsNegative() {
		return Entry{}, cart.ErrNegativePrice
	}

	return Entry{
		ID:    uuid.New(),
		Name:  name,
		Price: price,
	}, nil
}

// Repository persists the catalog under its own key, fully separate from the
// session snapshot. Load degrades missing or malformed state to an empty
// catalog.
type Repository interface {
	Save(ctx context.Context, entries []Entry) error
	Load(ctx context.Context) ([]Entry, error)
}
