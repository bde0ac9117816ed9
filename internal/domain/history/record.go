// Package history holds the append-only log of finalized sales.
package history

import (
	"context"
	"time"

	"github.com/bigtree-pos/till/internal/domain/money"
)

// Record is a frozen copy of the ledger state at finalize time. Records are
// never mutated or deleted; the core offers no editing operation.
type Record struct {
	Timestamp      time.Time   `json:"timestamp"`
	Total          money.Money `json:"total_minor_units"`
	Cash           money.Money `json:"cash_minor_units"`
	Change         money.Money `json:"change_minor_units"`
	IdempotencyKey string      `json:"idempotency_key,omitempty"`
}

// Repository persists the history log. Append must be durable before the
// caller clears the session; finalize relies on that ordering for crash
// recovery. List returns records oldest first, matching insertion order.
// Load failures degrade to an empty log.
type Repository interface {
	Append(ctx context.Context, record Record) error
	List(ctx context.Context) ([]Record, error)

	// FindByIdempotencyKey returns the record appended with the given key,
	// or nil when no such record exists. Used to replay a re-entrant
	// finalize instead of appending twice.
	FindByIdempotencyKey(ctx context.Context, key string) (*Record, error)
}
