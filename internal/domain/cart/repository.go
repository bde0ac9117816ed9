package cart

import (
	"context"

	"github.com/bigtree-pos/till/internal/domain/money"
)

// Snapshot is the persisted form of the active transaction.
type Snapshot struct {
	Items    []LineItem   `json:"items"`
	Tendered *money.Money `json:"tendered_cash_minor_units,omitempty"`
}

// SessionRepository persists the active transaction. Save is called
// write-through after every mutation so a restart loses at most the in-flight
// operation. Load must degrade a missing or malformed snapshot to an empty
// one, never an error that stops the register from starting.
type SessionRepository interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
}

// TakeSnapshot copies the cart state into a persistable snapshot. The copy
// must not alias the live cart; history and persistence both rely on that.
func TakeSnapshot(c *Cart) Snapshot {
	return Snapshot{
		Items:    c.Items(),
		Tendered: c.Tendered(),
	}
}
