package kv

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/bigtree-pos/till/internal/domain/cart"
	"github.com/bigtree-pos/till/internal/domain/history"
	"github.com/bigtree-pos/till/internal/domain/money"
	"github.com/bigtree-pos/till/internal/domain/quickadd"
	"github.com/bigtree-pos/till/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory persistence.Store for repository tests. failPuts
// simulates a store whose writes fail while reads keep working.
type memStore struct {
	data     map[string][]byte
	failPuts bool
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := s.data[key]
	if !ok {
		return nil, persistence.ErrKeyNotFound
	}
	return value, nil
}

func (s *memStore) Put(_ context.Context, key string, value []byte) error {
	if s.failPuts {
		return errors.New("write failed")
	}
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func (s *memStore) Close(context.Context) error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	repo := NewSessionRepository(testLogger(), store)

	tendered := money.Money(5000)
	snapshot := cart.Snapshot{
		Items: []cart.LineItem{
			{ID: uuid.New(), Name: "Bread", Price: money.Money(1550)},
			{ID: uuid.New(), Name: "Milk", Price: money.Money(2099)},
		},
		Tendered: &tendered,
	}

	require.NoError(t, repo.Save(ctx, snapshot))

	restored, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Items, restored.Items)
	require.NotNil(t, restored.Tendered)
	assert.Equal(t, tendered, *restored.Tendered)

	// Saving the restored snapshot must produce the identical record.
	require.NoError(t, repo.Save(ctx, restored))
	again, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, restored, again)
}

func TestSessionRepository_LoadMissing(t *testing.T) {
	repo := NewSessionRepository(testLogger(), newMemStore())

	snapshot, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snapshot.Items)
	assert.Nil(t, snapshot.Tendered)
}

func TestSessionRepository_LoadMalformed(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.data[persistence.SessionKey] = []byte("{not json")

	repo := NewSessionRepository(testLogger(), store)

	snapshot, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Items)
	assert.Nil(t, snapshot.Tendered)
}

func TestSessionRepository_WireLayout(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	repo := NewSessionRepository(testLogger(), store)

	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	tendered := money.Money(300)
	require.NoError(t, repo.Save(ctx, cart.Snapshot{
		Items:    []cart.LineItem{{ID: id, Name: "Bread", Price: money.Money(150)}},
		Tendered: &tendered,
	}))

	assert.JSONEq(t,
		`{"items":[{"id":"11111111-2222-3333-4444-555555555555","name":"Bread","price_minor_units":150}],"tendered_cash_minor_units":300}`,
		string(store.data[persistence.SessionKey]))
}

func TestQuickAddRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewQuickAddRepository(testLogger(), newMemStore())

	entries := []quickadd.Entry{
		{ID: uuid.New(), Name: "Coffee", Price: money.Money(2500)},
		{ID: uuid.New(), Name: "Airtime", Price: money.Money(1000)},
	}
	require.NoError(t, repo.Save(ctx, entries))

	restored, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, restored)
}

func TestQuickAddRepository_IndependentOfSession(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	sessions := NewSessionRepository(testLogger(), store)
	catalog := NewQuickAddRepository(testLogger(), store)

	require.NoError(t, catalog.Save(ctx, []quickadd.Entry{{ID: uuid.New(), Name: "Coffee", Price: money.Money(2500)}}))
	require.NoError(t, sessions.Save(ctx, cart.Snapshot{Items: []cart.LineItem{}}))
	require.NoError(t, store.Delete(ctx, persistence.SessionKey))

	entries, err := catalog.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHistoryRepository_AppendPreservesOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository(testLogger(), newMemStore())

	first := history.Record{
		Timestamp:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		Total:          money.Money(23750),
		Cash:           money.Money(30000),
		Change:         money.Money(6250),
		IdempotencyKey: "sale-1",
	}
	second := history.Record{
		Timestamp:      time.Date(2025, 6, 1, 9, 5, 0, 0, time.UTC),
		Total:          money.Money(1000),
		Cash:           money.Money(1000),
		Change:         money.Money(0),
		IdempotencyKey: "sale-2",
	}

	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first, records[0])
	assert.Equal(t, second, records[1])
}

func TestHistoryRepository_FindByIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository(testLogger(), newMemStore())

	record := history.Record{
		Timestamp:      time.Now().UTC(),
		Total:          money.Money(500),
		Cash:           money.Money(1000),
		Change:         money.Money(500),
		IdempotencyKey: "sale-42",
	}
	require.NoError(t, repo.Append(ctx, record))

	found, err := repo.FindByIdempotencyKey(ctx, "sale-42")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, record.Total, found.Total)

	missing, err := repo.FindByIdempotencyKey(ctx, "sale-unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.FindByIdempotencyKey(ctx, "")
	assert.Error(t, err)
}

func TestHistoryRepository_AppendFailureLeavesLogUntouched(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	repo := NewHistoryRepository(testLogger(), store)

	require.NoError(t, repo.Append(ctx, history.Record{IdempotencyKey: "sale-1"}))
	before := append([]byte(nil), store.data[persistence.HistoryKey]...)

	store.failPuts = true
	err := repo.Append(ctx, history.Record{IdempotencyKey: "sale-2"})
	require.Error(t, err)

	assert.Equal(t, before, store.data[persistence.HistoryKey])
}
