// Package adapters bridges external input sources — vision scans, voice
// input, barcode decoding, OCR — into register commands. The engines
// themselves live outside this process; what arrives here is each adapter's
// raw result, which is normalized off the register thread and applied only if
// its scan session is still the active one.
package adapters

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bigtree-pos/till/internal/domain/cart"
	"github.com/bigtree-pos/till/internal/domain/money"
	"github.com/bigtree-pos/till/internal/till/service"
	"github.com/panjf2000/ants/v2"
)

// Common errors
var (
	ErrScanCancelled = errors.New("scan session cancelled or superseded")
	ErrScanTimeout   = errors.New("scan processing timed out")
	ErrEmptyPayload  = errors.New("detection payload is empty")
)

// Source identifies which adapter produced a payload.
type Source string

const (
	SourceVision  Source = "vision"
	SourceVoice   Source = "voice"
	SourceBarcode Source = "barcode"
	SourceOCR     Source = "ocr"
)

// Payload is an adapter's raw detection result. Vision and voice deliver a
// name and a decimal price string; barcode delivers the decoded code; OCR
// delivers the recognized text block.
type Payload struct {
	Source Source
	Name   string
	Price  string
	Code   string
	Text   string
}

// Prefill is a detection that could not produce a complete item: the name
// field is filled and the price is left for manual entry (or suggested when
// OCR found one but no usable name).
type Prefill struct {
	Name  string
	Price *money.Money
}

// Outcome reports what a detection did. Exactly one of Applied or Prefill is
// set.
type Outcome struct {
	Applied *cart.LineItem
	Prefill *Prefill
	State   *service.State
}

// Dispatcher runs detection normalization on a worker pool and guards
// against stale results. Session tokens are monotonic: starting a session
// supersedes the previous one, and a cancelled or superseded session's
// results are discarded even if the work had already been queued.
type Dispatcher struct {
	logger   *slog.Logger
	pool     *ants.Pool
	register service.RegisterService
	timeout  time.Duration

	counter atomic.Uint64
	current atomic.Uint64 // 0 means no active session
}

// NewDispatcher builds a dispatcher with a pool of the given size.
func NewDispatcher(logger *slog.Logger, register service.RegisterService, poolSize int, timeout time.Duration) (*Dispatcher, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		logger:   logger,
		pool:     pool,
		register: register,
		timeout:  timeout,
	}, nil
}

// StartSession opens a new scan session and returns its token, superseding
// any previous session.
func (d *Dispatcher) StartSession() uint64 {
	token := d.counter.Add(1)
	d.current.Store(token)
	d.logger.Info("Scan session started", "session", token)
	return token
}

// CancelSession retires the given session. Results still in flight for it
// will be discarded. Cancelling a session that is no longer current is a
// no-op.
func (d *Dispatcher) CancelSession(token uint64) {
	if d.current.CompareAndSwap(token, 0) {
		d.logger.Info("Scan session cancelled", "session", token)
	}
}

// Active reports whether the given token is the current session.
func (d *Dispatcher) Active(token uint64) bool {
	return token != 0 && d.current.Load() == token
}

// Dispatch normalizes the payload on the worker pool and, if the session is
// still current when the result is ready, applies it to the register.
// Detections that resolve only a name come back as a Prefill instead of a
// cart mutation.
func (d *Dispatcher) Dispatch(ctx context.Context, token uint64, payload Payload) (Outcome, error) {
	if !d.Active(token) {
		return Outcome{}, ErrScanCancelled
	}

	jobCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	type result struct {
		prefill Prefill
		err     error
	}
	resultChan := make(chan result, 1)

	if err := d.pool.Submit(func() {
		prefill, err := normalize(payload)
		resultChan <- result{prefill: prefill, err: err}
	}); err != nil {
		return Outcome{}, err
	}

	var res result
	select {
	case res = <-resultChan:
	case <-jobCtx.Done():
		if errors.Is(jobCtx.Err(), context.DeadlineExceeded) {
			return Outcome{}, ErrScanTimeout
		}
		return Outcome{}, jobCtx.Err()
	}
	if res.err != nil {
		return Outcome{}, res.err
	}

	// The session may have been cancelled while the job ran; a stale
	// result must never touch the cart.
	if !d.Active(token) {
		d.logger.Info("Discarding stale detection", "session", token, "source", string(payload.Source))
		return Outcome{}, ErrScanCancelled
	}

	if res.prefill.Price == nil {
		return Outcome{Prefill: &res.prefill}, nil
	}

	item, state, err := d.register.AddItem(ctx, res.prefill.Name, *res.prefill.Price)
	if err != nil {
		return Outcome{}, err
	}
	d.logger.Info("Adapter item applied",
		"source", string(payload.Source),
		"item_id", item.ID.String(),
		"name", item.Name,
		"price", item.Price.String(),
	)
	return Outcome{Applied: &item, State: &state}, nil
}

// Shutdown releases the worker pool.
func (d *Dispatcher) Shutdown() {
	d.logger.Info("Shutting down adapter pool", "running_workers", d.pool.Running())
	d.pool.Release()
}

// normalize turns a raw payload into a prefill or complete item.
func normalize(payload Payload) (Prefill, error) {
	switch payload.Source {
	case SourceBarcode:
		if strings.TrimSpace(payload.Code) == "" {
			return Prefill{}, ErrEmptyPayload
		}
		return NormalizeBarcode(payload.Code), nil
	case SourceOCR:
		if strings.TrimSpace(payload.Text) == "" {
			return Prefill{}, ErrEmptyPayload
		}
		return ExtractFromText(payload.Text), nil
	default:
		// Vision and voice adapters resolve name and price themselves.
		if strings.TrimSpace(payload.Name) == "" {
			return Prefill{}, ErrEmptyPayload
		}
		price, err := money.Parse(payload.Price)
		if err != nil {
			return Prefill{}, err
		}
		return Prefill{Name: payload.Name, Price: &price}, nil
	}
}
