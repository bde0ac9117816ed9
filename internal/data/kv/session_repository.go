// Package kv implements the session, quick-add, and history repositories on
// top of the shared key-value store. Each repository owns one key and stores
// a single JSON document under it.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigtree-pos/till/internal/domain/cart"
	"github.com/bigtree-pos/till/internal/platform/persistence"
)

// SessionRepository persists the active transaction snapshot under
// session/current.
type SessionRepository struct {
	store  persistence.Store
	logger *slog.Logger
}

// NewSessionRepository creates a session repository over the given store.
func NewSessionRepository(logger *slog.Logger, store persistence.Store) *SessionRepository {
	return &SessionRepository{store: store, logger: logger}
}

// Save writes the snapshot through to the store.
func (r *SessionRepository) Save(ctx context.Context, snapshot cart.Snapshot) error {
	if snapshot.Items == nil {
		snapshot.Items = []cart.LineItem{}
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}
	if err := r.store.Put(ctx, persistence.SessionKey, data); err != nil {
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	return nil
}

// Load restores the stored snapshot. A missing or malformed record is not an
// error: the register starts with an empty transaction and the malformed
// payload is logged and abandoned.
func (r *SessionRepository) Load(ctx context.Context) (cart.Snapshot, error) {
	data, err := r.store.Get(ctx, persistence.SessionKey)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return cart.Snapshot{Items: []cart.LineItem{}}, nil
	}
	if err != nil {
		r.logger.Warn("Failed to read session snapshot, starting empty", "error", err)
		return cart.Snapshot{Items: []cart.LineItem{}}, nil
	}

	var snapshot cart.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		r.logger.Warn("Malformed session snapshot, starting empty", "error", err)
		return cart.Snapshot{Items: []cart.LineItem{}}, nil
	}
	if snapshot.Items == nil {
		snapshot.Items = []cart.LineItem{}
	}
	return snapshot, nil
}
