package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigtree-pos/till/internal/domain/history"
	"github.com/bigtree-pos/till/internal/platform/persistence"
)

// HistoryRepository persists the append-only sale log under history/log.
// The log is never truncated here; rotation, if ever needed, is an external
// concern working off the documented layout.
type HistoryRepository struct {
	store  persistence.Store
	logger *slog.Logger
}

// NewHistoryRepository creates a history repository over the given store.
func NewHistoryRepository(logger *slog.Logger, store persistence.Store) *HistoryRepository {
	return &HistoryRepository{store: store, logger: logger}
}

// Append durably adds one record to the end of the log. The write must
// succeed before the caller may clear the session; a failure here leaves the
// log exactly as it was.
func (r *HistoryRepository) Append(ctx context.Context, record history.Record) error {
	records, err := r.load(ctx)
	if err != nil {
		return err
	}

	records = append(records, record)
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal history log: %w", err)
	}
	if err := r.store.Put(ctx, persistence.HistoryKey, data); err != nil {
		return fmt.Errorf("failed to append history record: %w", err)
	}
	return nil
}

// List returns all records oldest first.
func (r *HistoryRepository) List(ctx context.Context) ([]history.Record, error) {
	records, err := r.load(ctx)
	if err != nil {
		r.logger.Warn("Failed to read history log, returning empty", "error", err)
		return []history.Record{}, nil
	}
	return records, nil
}

// FindByIdempotencyKey returns the record appended with the given key, or nil.
func (r *HistoryRepository) FindByIdempotencyKey(ctx context.Context, key string) (*history.Record, error) {
	if key == "" {
		return nil, errors.New("idempotency key cannot be empty")
	}

	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].IdempotencyKey == key {
			return &records[i], nil
		}
	}
	return nil, nil
}

func (r *HistoryRepository) load(ctx context.Context) ([]history.Record, error) {
	data, err := r.store.Get(ctx, persistence.HistoryKey)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return []history.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history log: %w", err)
	}

	var records []history.Record
	if err := json.Unmarshal(data, &records); err != nil {
		// A corrupt log must not block new sales; keep the bytes aside in
		// the log output and start a fresh list.
		r.logger.Warn("Malformed history log, starting fresh", "error", err)
		return []history.Record{}, nil
	}
	return records, nil
}
