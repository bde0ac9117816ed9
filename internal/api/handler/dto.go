package handler

import (
	"time"

	"github.com/bigtree-pos/till/internal/domain/cart"
	"github.com/bigtree-pos/till/internal/domain/history"
	"github.com/bigtree-pos/till/internal/domain/quickadd"
	"github.com/bigtree-pos/till/internal/till/adapters"
	"github.com/bigtree-pos/till/internal/till/service"
)

// Prices cross the API boundary as decimal strings ("12.50") so clients never
// have to reason about minor units or binary floats.

// AddItemRequest represents a request to add a line item to the cart
type AddItemRequest struct {
	Name  string `json:"name" binding:"required"`
	Price string `json:"price" binding:"required"`
}

// TenderRequest represents a request to record the cash handed over.
// A null cash field clears the tendered amount.
type TenderRequest struct {
	Cash *string `json:"cash"`
}

// FinalizeRequest represents a request to finalize the current sale
type FinalizeRequest struct {
	Cash           string `json:"cash" binding:"required"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// QuickAddRequest represents a request to save a quick-add shortcut
type QuickAddRequest struct {
	Name  string `json:"name" binding:"required"`
	Price string `json:"price" binding:"required"`
}

// ScanFailureRequest represents an adapter detection failure. Failures never
// touch the cart; they are logged and surfaced to the operator.
type ScanFailureRequest struct {
	Source string `json:"source" binding:"required,oneof=vision voice barcode ocr"`
	Reason string `json:"reason" binding:"required"`
}

// ScanEventRequest represents one raw adapter detection
type ScanEventRequest struct {
	Source string `json:"source" binding:"required,oneof=vision voice barcode ocr"`
	Name   string `json:"name,omitempty"`
	Price  string `json:"price,omitempty"`
	Code   string `json:"code,omitempty"`
	Text   string `json:"text,omitempty"`
}

// LineItemResponse represents a cart line item in API responses
type LineItemResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// StateResponse represents the register state in API responses
type StateResponse struct {
	Items     []LineItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Total     string             `json:"total"`
	Tendered  *string            `json:"tendered,omitempty"`
	Change    *string            `json:"change,omitempty"`
	Direction string             `json:"direction"`
	Warning   string             `json:"warning,omitempty"`
}

// QuickAddResponse represents a quick-add shortcut in API responses
type QuickAddResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// RecordResponse represents a finalized sale in API responses
type RecordResponse struct {
	Timestamp      string `json:"timestamp"`
	Total          string `json:"total"`
	Cash           string `json:"cash"`
	Change         string `json:"change"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// ScanSessionResponse represents an opened scan session
type ScanSessionResponse struct {
	Token uint64 `json:"token"`
}

// PrefillResponse represents a detection that needs manual completion
type PrefillResponse struct {
	Name  string  `json:"name"`
	Price *string `json:"price,omitempty"`
}

// ScanOutcomeResponse represents what a detection did
type ScanOutcomeResponse struct {
	Applied *LineItemResponse `json:"applied,omitempty"`
	Prefill *PrefillResponse  `json:"prefill,omitempty"`
	State   *StateResponse    `json:"state,omitempty"`
}

// SummaryResponse carries the spoken transaction announcement
type SummaryResponse struct {
	Summary string `json:"summary"`
}

func mapLineItemToResponse(item cart.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:    item.ID.String(),
		Name:  item.Name,
		Price: item.Price.String(),
	}
}

func mapStateToResponse(state service.State) StateResponse {
	items := make([]LineItemResponse, 0, len(state.Items))
	for _, item := range state.Items {
		items = append(items, mapLineItemToResponse(item))
	}

	response := StateResponse{
		Items:     items,
		ItemCount: state.ItemCount,
		Total:     state.Total.String(),
		Direction: string(state.Direction),
		Warning:   state.PersistWarning,
	}
	if state.Tendered != nil {
		tendered := state.Tendered.String()
		response.Tendered = &tendered
	}
	if state.Change != nil {
		change := state.Change.String()
		response.Change = &change
	}
	return response
}

func mapQuickAddToResponse(entry quickadd.Entry) QuickAddResponse {
	return QuickAddResponse{
		ID:    entry.ID.String(),
		Name:  entry.Name,
		Price: entry.Price.String(),
	}
}

func mapRecordToResponse(record history.Record) RecordResponse {
	return RecordResponse{
		Timestamp:      record.Timestamp.Format(time.RFC3339),
		Total:          record.Total.String(),
		Cash:           record.Cash.String(),
		Change:         record.Change.String(),
		IdempotencyKey: record.IdempotencyKey,
	}
}

func mapOutcomeToResponse(outcome adapters.Outcome) ScanOutcomeResponse {
	var response ScanOutcomeResponse
	if outcome.Applied != nil {
		applied := mapLineItemToResponse(*outcome.Applied)
		response.Applied = &applied
	}
	if outcome.Prefill != nil {
		prefill := PrefillResponse{Name: outcome.Prefill.Name}
		if outcome.Prefill.Price != nil {
			price := outcome.Prefill.Price.String()
			prefill.Price = &price
		}
		response.Prefill = &prefill
	}
	if outcome.State != nil {
		state := mapStateToResponse(*outcome.State)
		response.State = &state
	}
	return response
}
