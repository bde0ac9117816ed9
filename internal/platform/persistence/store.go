// Package persistence provides the shared durable key-value store backing
// the session snapshot, the quick-add catalog, and the transaction history.
// Each component owns a distinct key; writes to different keys are
// independent. Three backends are available: an embedded sqlite file (the
// default for a single till), postgres for shared deployments, and redis.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigtree-pos/till/internal/config"
)

// Store keys, one per component.
const (
	SessionKey  = "session/current"
	QuickAddKey = "quickadd/catalog"
	HistoryKey  = "history/log"
)

// ErrKeyNotFound indicates the key holds no value.
var ErrKeyNotFound = errors.New("key not found")

// Store is the durable key-value store shared by all register state.
type Store interface {
	// Get returns the stored value, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close(ctx context.Context) error
}

// Open connects the store backend selected in the configuration.
func Open(ctx context.Context, logger *slog.Logger, cfg *config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendSQLite:
		return NewSQLiteStore(logger, &cfg.Store)
	case config.StoreBackendPostgres:
		return NewPostgresStore(ctx, logger, &cfg.Postgres)
	case config.StoreBackendRedis:
		return NewRedisStore(ctx, logger, &cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}
