package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigtree-pos/till/internal/domain/quickadd"
	"github.com/bigtree-pos/till/internal/platform/persistence"
)

// QuickAddRepository persists the shortcut catalog under quickadd/catalog,
// fully independent of the session key.
type QuickAddRepository struct {
	store  persistence.Store
	logger *slog.Logger
}

// NewQuickAddRepository creates a quick-add repository over the given store.
func NewQuickAddRepository(logger *slog.Logger, store persistence.Store) *QuickAddRepository {
	return &QuickAddRepository{store: store, logger: logger}
}

// Save writes the full catalog through to the store.
func (r *QuickAddRepository) Save(ctx context.Context, entries []quickadd.Entry) error {
	if entries == nil {
		entries = []quickadd.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal quick-add catalog: %w", err)
	}
	if err := r.store.Put(ctx, persistence.QuickAddKey, data); err != nil {
		return fmt.Errorf("failed to save quick-add catalog: %w", err)
	}
	return nil
}

// Load restores the catalog, degrading missing or malformed state to empty.
func (r *QuickAddRepository) Load(ctx context.Context) ([]quickadd.Entry, error) {
	data, err := r.store.Get(ctx, persistence.QuickAddKey)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return []quickadd.Entry{}, nil
	}
	if err != nil {
		r.logger.Warn("Failed to read quick-add catalog, starting empty", "error", err)
		return []quickadd.Entry{}, nil
	}

	var entries []quickadd.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.logger.Warn("Malformed quick-add catalog, starting empty", "error", err)
		return []quickadd.Entry{}, nil
	}
	return entries, nil
}
