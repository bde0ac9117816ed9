package cart

import (
	"errors"
	"strings"

	"github.com/bigtree-pos/till/internal/domain/money"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyName     = errors.New("item name cannot be empty")
	ErrNegativePrice = errors.New("item price cannot be negative")
)

// LineItem is a single purchased item in the active transaction. Items are
// immutable once created; the only mutation path is removal.
type LineItem struct {
	ID    uuid.UUID   `json:"id"`
	Name  string      `json:"name"`
	Price money.Money `json:"price_minor_units"`
}

// Cart is the active, not-yet-finalized transaction: the ordered item list and
// the optionally entered tendered cash. Exactly one Cart exists at a time and
// it is owned by the register loop; nothing else mutates it.
type Cart struct {
	items    []LineItem
	tendered *money.Money
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Restore rebuilds a cart from a persisted snapshot. Items keep their stored
// ids and order.
func Restore(items []LineItem, tendered *money.Money) *Cart {
	c := &Cart{items: append([]LineItem(nil), items...)}
	if tendered != nil {
		t := *tendered
		c.tendered = &t
	}
	return c
}

// Add validates and appends a new line item, assigning it a fresh id.
// The name must be non-empty after trimming and the price non-negative;
// otherwise no item is appended.
func (c *Cart) Add(name string, price money.Money) (LineItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return LineItem{}, ErrEmptyName
	}
	if price.IsNegative() {
		return LineItem{}, ErrNegativePrice
	}

	item := LineItem{
		ID:    uuid.New(),
		Name:  name,
		Price: price,
	}
	c.items = append(c.items, item)
	return item, nil
}

// Remove deletes the item with the given id. Removing an absent id is a
// no-op, not an error: the UI can race a second tap against a completed
// removal.
func (c *Cart) Remove(id uuid.UUID) {
	for i, item := range c.items {
		if item.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the item list unconditionally.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns the line items in insertion order. The returned slice is a
// copy; callers cannot mutate the cart through it.
func (c *Cart) Items() []LineItem {
	return append([]LineItem(nil), c.items...)
}

// Len returns the number of items in the cart.
func (c *Cart) Len() int {
	return len(c.items)
}

// SetTendered records the cash amount handed over, or clears it when nil.
func (c *Cart) SetTendered(amount *money.Money) {
	if amount == nil {
		c.tendered = nil
		return
	}
	t := *amount
	c.tendered = &t
}

// Tendered returns the tendered cash amount, or nil when none has been
// entered.
func (c *Cart) Tendered() *money.Money {
	if c.tendered == nil {
		return nil
	}
	t := *c.tendered
	return &t
}

// Total returns the exact sum of all item prices. An empty cart totals zero.
// The total is always recomputed from the items, never cached.
func (c *Cart) Total() money.Money {
	var total money.Money
	for _, item := range c.items {
		total = total.Add(item.Price)
	}
	return total
}
