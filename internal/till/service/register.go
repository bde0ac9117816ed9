// Package service implements the register core: one goroutine owns the active
// transaction and the quick-add catalog, and every operation — whether it came
// from the HTTP surface or an input adapter — runs to completion on that
// goroutine before the next is processed. No locking is needed by
// construction.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bigtree-pos/till/internal/domain/cart"
	"github.com/bigtree-pos/till/internal/domain/history"
	"github.com/bigtree-pos/till/internal/domain/money"
	"github.com/bigtree-pos/till/internal/domain/quickadd"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrRegisterClosed   = errors.New("register is closed")
	ErrNoTender         = errors.New("tendered cash is required to finalize")
	ErrQuickAddNotFound = errors.New("quick-add entry not found")
)

// command is one unit of work for the register loop.
type command struct {
	op  string
	run func(ctx context.Context)
}

// Register is the RegisterService implementation.
type Register struct {
	logger    *slog.Logger
	cart      *cart.Cart
	catalog   []quickadd.Entry
	sessions  cart.SessionRepository
	shortcuts quickadd.Repository
	sales     history.Repository

	commands chan command
	stopped  chan struct{}
	stopOnce sync.Once

	now func() time.Time
}

// NewRegister builds a register over the given repositories. Start must be
// called before any operation.
func NewRegister(
	logger *slog.Logger,
	sessions cart.SessionRepository,
	shortcuts quickadd.Repository,
	sales history.Repository,
) *Register {
	return &Register{
		logger:    logger,
		cart:      cart.New(),
		sessions:  sessions,
		shortcuts: shortcuts,
		sales:     sales,
		commands:  make(chan command),
		stopped:   make(chan struct{}),
		now:       time.Now,
	}
}

// Start restores persisted state and begins processing commands. Missing or
// malformed persisted state restores to empty; only a hard store failure on
// the catalog is fatal here.
func (r *Register) Start(ctx context.Context) error {
	snapshot, err := r.sessions.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	r.cart = cart.Restore(snapshot.Items, snapshot.Tendered)

	catalog, err := r.shortcuts.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore quick-add catalog: %w", err)
	}
	r.catalog = catalog

	r.logger.Info("Register started",
		"restored_items", r.cart.Len(),
		"quick_add_entries", len(r.catalog),
	)

	go r.loop()
	return nil
}

// Stop shuts the command loop down. In-flight commands finish; later
// submissions fail with ErrRegisterClosed.
func (r *Register) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopped)
		r.logger.Info("Register stopped")
	})
}

func (r *Register) loop() {
	for {
		select {
		case <-r.stopped:
			return
		case cmd := <-r.commands:
			// Stop wins over a command that raced into the channel.
			select {
			case <-r.stopped:
				return
			default:
			}
			r.logger.Debug("Processing register command", "op", cmd.op)
			// Commands persist with their own context so a caller
			// giving up mid-operation cannot leave a half-applied
			// mutation behind.
			cmd.run(context.Background())
		}
	}
}

// submit queues a command and blocks until it has run to completion.
func (r *Register) submit(ctx context.Context, op string, run func(ctx context.Context)) error {
	done := make(chan struct{})
	cmd := command{op: op, run: func(cmdCtx context.Context) {
		defer close(done)
		run(cmdCtx)
	}}

	select {
	case r.commands <- cmd:
	case <-r.stopped:
		return ErrRegisterClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-r.stopped:
		return ErrRegisterClosed
	}
}

// state derives the current view. Loop-only.
func (r *Register) state(persistWarning string) State {
	items := r.cart.Items()
	total := Total(items)
	tendered := r.cart.Tendered()
	change, direction := Change(total, tendered)

	return State{
		Items:          items,
		ItemCount:      len(items),
		Total:          total,
		Tendered:       tendered,
		Change:         change,
		Direction:      direction,
		PersistWarning: persistWarning,
	}
}

// snapshot writes the session through to the store. A failed write keeps the
// in-memory state and is reported as a warning, not rolled back.
func (r *Register) snapshot(ctx context.Context) string {
	if err := r.sessions.Save(ctx, cart.TakeSnapshot(r.cart)); err != nil {
		r.logger.Warn("Session snapshot failed, in-memory state kept", "error", err)
		return "session could not be saved; changes are in memory only"
	}
	return ""
}

func (r *Register) AddItem(ctx context.Context, name string, price money.Money) (cart.LineItem, State, error) {
	var (
		item     cart.LineItem
		state    State
		applyErr error
	)
	err := r.submit(ctx, "add_item", func(cmdCtx context.Context) {
		item, applyErr = r.cart.Add(name, price)
		if applyErr != nil {
			return
		}
		state = r.state(r.snapshot(cmdCtx))
		r.logger.Info("Item added",
			"item_id", item.ID.String(),
			"name", item.Name,
			"price", item.Price.String(),
			"total", state.Total.String(),
		)
	})
	if err != nil {
		return cart.LineItem{}, State{}, err
	}
	if applyErr != nil {
		return cart.LineItem{}, State{}, applyErr
	}
	return item, state, nil
}

func (r *Register) AddFromQuickAdd(ctx context.Context, id uuid.UUID) (cart.LineItem, State, error) {
	var (
		item     cart.LineItem
		state    State
		applyErr error
	)
	err := r.submit(ctx, "add_from_quick_add", func(cmdCtx context.Context) {
		var entry *quickadd.Entry
		for i := range r.catalog {
			if r.catalog[i].ID == id {
				entry = &r.catalog[i]
				break
			}
		}
		if entry == nil {
			applyErr = ErrQuickAddNotFound
			return
		}
		item, applyErr = r.cart.Add(entry.Name, entry.Price)
		if applyErr != nil {
			return
		}
		state = r.state(r.snapshot(cmdCtx))
	})
	if err != nil {
		return cart.LineItem{}, State{}, err
	}
	if applyErr != nil {
		return cart.LineItem{}, State{}, applyErr
	}
	return item, state, nil
}

func (r *Register) RemoveItem(ctx context.Context, id uuid.UUID) (State, error) {
	var state State
	err := r.submit(ctx, "remove_item", func(cmdCtx context.Context) {
		r.cart.Remove(id)
		state = r.state(r.snapshot(cmdCtx))
	})
	return state, err
}

func (r *Register) ClearCart(ctx context.Context) (State, error) {
	var state State
	err := r.submit(ctx, "clear_cart", func(cmdCtx context.Context) {
		r.cart.Clear()
		r.cart.SetTendered(nil)
		state = r.state(r.snapshot(cmdCtx))
		r.logger.Info("Cart cleared")
	})
	return state, err
}

func (r *Register) SetTendered(ctx context.Context, amount *money.Money) (State, error) {
	var state State
	err := r.submit(ctx, "set_tendered", func(cmdCtx context.Context) {
		r.cart.SetTendered(amount)
		state = r.state(r.snapshot(cmdCtx))
	})
	return state, err
}

func (r *Register) State(ctx context.Context) (State, error) {
	var state State
	err := r.submit(ctx, "state", func(context.Context) {
		state = r.state("")
	})
	return state, err
}

func (r *Register) Summary(ctx context.Context) (string, error) {
	var summary string
	err := r.submit(ctx, "summary", func(context.Context) {
		items := r.cart.Items()
		summary = SpokenSummary(items, Total(items), r.cart.Tendered())
	})
	return summary, err
}

// Finalize converts the active transaction into a history record and resets
// the register. The history append happens before any clearing, so a crash in
// between leaves a restorable session and a recorded sale; retrying with the
// same idempotency key replays the record instead of appending twice.
func (r *Register) Finalize(ctx context.Context, tendered money.Money, idempotencyKey string) (history.Record, bool, error) {
	if tendered.IsNegative() {
		return history.Record{}, false, ErrNoTender
	}
	if idempotencyKey == "" {
		idempotencyKey = uuid.New().String()
	}

	var (
		record   history.Record
		replayed bool
		applyErr error
	)
	err := r.submit(ctx, "finalize", func(cmdCtx context.Context) {
		existing, findErr := r.sales.FindByIdempotencyKey(cmdCtx, idempotencyKey)
		if findErr != nil {
			applyErr = findErr
			return
		}
		if existing != nil {
			r.logger.Info("Finalize replayed from idempotency key",
				"idempotency_key", idempotencyKey,
			)
			record = *existing
			replayed = true
			return
		}

		total := r.cart.Total()
		record = history.Record{
			Timestamp:      r.now().UTC(),
			Total:          total,
			Cash:           tendered,
			Change:         tendered.Sub(total),
			IdempotencyKey: idempotencyKey,
		}

		if appendErr := r.sales.Append(cmdCtx, record); appendErr != nil {
			// Nothing durable changed and the cart is untouched.
			applyErr = appendErr
			return
		}

		r.cart.Clear()
		r.cart.SetTendered(nil)
		if warning := r.snapshot(cmdCtx); warning != "" {
			// The sale is recorded; a restart restores the stale cart
			// and the idempotency key guards the retry.
			r.logger.Warn("Post-finalize session clear did not persist",
				"idempotency_key", idempotencyKey,
			)
		}

		r.logger.Info("Transaction finalized",
			"total", record.Total.String(),
			"cash", record.Cash.String(),
			"change", record.Change.String(),
			"idempotency_key", idempotencyKey,
		)
	})
	if err != nil {
		return history.Record{}, false, err
	}
	if applyErr != nil {
		return history.Record{}, false, applyErr
	}
	return record, replayed, nil
}

func (r *Register) SaveQuickAdd(ctx context.Context, name string, price money.Money) (quickadd.Entry, error) {
	var (
		entry    quickadd.Entry
		applyErr error
	)
	err := r.submit(ctx, "save_quick_add", func(cmdCtx context.Context) {
		entry, applyErr = quickadd.NewEntry(name, price)
		if applyErr != nil {
			return
		}
		r.catalog = append(r.catalog, entry)
		if saveErr := r.shortcuts.Save(cmdCtx, r.catalog); saveErr != nil {
			r.logger.Warn("Quick-add catalog save failed, in-memory state kept", "error", saveErr)
		}
	})
	if err != nil {
		return quickadd.Entry{}, err
	}
	if applyErr != nil {
		return quickadd.Entry{}, applyErr
	}
	return entry, nil
}

func (r *Register) RemoveQuickAdd(ctx context.Context, id uuid.UUID) error {
	return r.submit(ctx, "remove_quick_add", func(cmdCtx context.Context) {
		for i := range r.catalog {
			if r.catalog[i].ID == id {
				r.catalog = append(r.catalog[:i], r.catalog[i+1:]...)
				if saveErr := r.shortcuts.Save(cmdCtx, r.catalog); saveErr != nil {
					r.logger.Warn("Quick-add catalog save failed, in-memory state kept", "error", saveErr)
				}
				return
			}
		}
	})
}

func (r *Register) QuickAddEntries(ctx context.Context) ([]quickadd.Entry, error) {
	var entries []quickadd.Entry
	err := r.submit(ctx, "quick_add_entries", func(context.Context) {
		entries = append([]quickadd.Entry(nil), r.catalog...)
	})
	if entries == nil {
		entries = []quickadd.Entry{}
	}
	return entries, err
}

func (r *Register) History(ctx context.Context) ([]history.Record, error) {
	var (
		records  []history.Record
		applyErr error
	)
	err := r.submit(ctx, "history", func(cmdCtx context.Context) {
		records, applyErr = r.sales.List(cmdCtx)
	})
	if err != nil {
		return nil, err
	}
	return records, applyErr
}

var _ RegisterService = (*Register)(nil)
