package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bigtree-pos/till/internal/domain/cart"
	"github.com/bigtree-pos/till/internal/domain/money"
	"github.com/bigtree-pos/till/internal/till/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	register service.RegisterService
	logger   *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(logger *slog.Logger, register service.RegisterService) *CartHandler {
	return &CartHandler{
		register: register,
		logger:   logger,
	}
}

// AddItem appends a line item to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	price, err := money.Parse(req.Price)
	if err != nil {
		h.logger.Error("Invalid price", "price", req.Price, "error", err)
		RespondBadRequest(c, err.Error())
		return
	}

	item, state, err := h.register.AddItem(c.Request.Context(), req.Name, price)
	if err != nil {
		h.respondRegisterError(c, err)
		return
	}

	RespondCreated(c, gin.H{
		"item":  mapLineItemToResponse(item),
		"state": mapStateToResponse(state),
	})
}

// RemoveItem deletes a line item; removing an unknown id is a no-op
func (h *CartHandler) RemoveItem(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid item ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid item ID")
		return
	}

	state, err := h.register.RemoveItem(c.Request.Context(), id)
	if err != nil {
		h.respondRegisterError(c, err)
		return
	}

	RespondOK(c, mapStateToResponse(state))
}

// Clear empties the cart and resets the tendered cash
func (h *CartHandler) Clear(c *gin.Context) {
	state, err := h.register.ClearCart(c.Request.Context())
	if err != nil {
		h.respondRegisterError(c, err)
		return
	}

	RespondOK(c, mapStateToResponse(state))
}

// State returns the current register view
func (h *CartHandler) State(c *gin.Context) {
	state, err := h.register.State(c.Request.Context())
	if err != nil {
		h.respondRegisterError(c, err)
		return
	}

	RespondOK(c, mapStateToResponse(state))
}

// SetTender records the cash handed over; a null cash field clears it
func (h *CartHandler) SetTender(c *gin.Context) {
	var req TenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	// A null or blank cash field means "no tender entered", not an error.
	var amount *money.Money
	if req.Cash != nil && strings.TrimSpace(*req.Cash) != "" {
		cash, err := money.Parse(*req.Cash)
		if err != nil {
			h.logger.Error("Invalid cash amount", "cash", *req.Cash, "error", err)
			RespondBadRequest(c, err.Error())
			return
		}
		amount = &cash
	}

	state, err := h.register.SetTendered(c.Request.Context(), amount)
	if err != nil {
		h.respondRegisterError(c, err)
		return
	}

	RespondOK(c, mapStateToResponse(state))
}

// Summary returns the spoken transaction announcement text
func (h *CartHandler) Summary(c *gin.Context) {
	summary, err := h.register.Summary(c.Request.Context())
	if err != nil {
		h.respondRegisterError(c, err)
		return
	}

	RespondOK(c, SummaryResponse{Summary: summary})
}

// Finalize records the sale and resets the register. A repeated idempotency
// key replays the already recorded sale with 200 instead of 201.
func (h *CartHandler) Finalize(c *gin.Context) {
	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cash, err := money.Parse(req.Cash)
	if err != nil {
		h.logger.Error("Invalid cash amount", "cash", req.Cash, "error", err)
		RespondBadRequest(c, err.Error())
		return
	}

	record, replayed, err := h.register.Finalize(c.Request.Context(), cash, req.IdempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoTender):
			RespondBadRequest(c, "Tendered cash is required to finalize")
		case errors.Is(err, service.ErrRegisterClosed):
			RespondWithError(c, http.StatusServiceUnavailable, "REGISTER_CLOSED", "The register is shutting down")
		default:
			// The history append failed before anything was cleared; the
			// sale is intact and the client may retry with the same key.
			h.logger.Error("Finalize failed", "error", err)
			RespondWithError(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "The sale could not be recorded; nothing was changed")
		}
		return
	}

	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	RespondWithData(c, status, mapRecordToResponse(record))
}

// respondRegisterError maps register errors onto HTTP status codes
func (h *CartHandler) respondRegisterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrEmptyName), errors.Is(err, cart.ErrNegativePrice):
		RespondBadRequest(c, err.Error())
	case errors.Is(err, service.ErrQuickAddNotFound):
		RespondNotFound(c, "Quick-add entry not found")
	case errors.Is(err, service.ErrRegisterClosed):
		RespondWithError(c, http.StatusServiceUnavailable, "REGISTER_CLOSED", "The register is shutting down")
	default:
		h.logger.Error("Register command failed", "error", err)
		RespondInternalError(c)
	}
}
