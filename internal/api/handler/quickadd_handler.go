package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bigtree-pos/till/internal/domain/cart"
	"github.com/bigtree-pos/till/internal/domain/money"
	"github.com/bigtree-pos/till/internal/till/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuickAddHandler handles HTTP requests for the quick-add catalog
type QuickAddHandler struct {
	register service.RegisterService
	logger   *slog.Logger
}

// NewQuickAddHandler creates a new quick-add handler
func NewQuickAddHandler(logger *slog.Logger, register service.RegisterService) *QuickAddHandler {
	return &QuickAddHandler{
		register: register,
		logger:   logger,
	}
}

// List returns the catalog in insertion order
func (h *QuickAddHandler) List(c *gin.Context) {
	entries, err := h.register.QuickAddEntries(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list quick-add entries", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]QuickAddResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, mapQuickAddToResponse(entry))
	}
	RespondOK(c, responses)
}

// Save stores a new shortcut
func (h *QuickAddHandler) Save(c *gin.Context) {
	var req QuickAddRequest
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

	entry, err := h.register.SaveQuickAdd(c.Request.Context(), req.Name, price)
	if err != nil {
		if errors.Is(err, cart.ErrEmptyName) || errors.Is(err, cart.ErrNegativePrice) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to save quick-add entry", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapQuickAddToResponse(entry))
}

// Remove deletes a shortcut; an unknown id is a no-op
func (h *QuickAddHandler) Remove(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid quick-add ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid quick-add ID")
		return
	}

	if err := h.register.RemoveQuickAdd(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to remove quick-add entry", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// AddToCart appends a line item from a catalog entry
func (h *QuickAddHandler) AddToCart(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid quick-add ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid quick-add ID")
		return
	}

	item, state, err := h.register.AddFromQuickAdd(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrQuickAddNotFound) {
			RespondNotFound(c, "Quick-add entry not found")
			return
		}
		if errors.Is(err, service.ErrRegisterClosed) {
			RespondWithError(c, http.StatusServiceUnavailable, "REGISTER_CLOSED", "The register is shutting down")
			return
		}
		h.logger.Error("Failed to add from quick-add", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, gin.H{
		"item":  mapLineItemToResponse(item),
		"state": mapStateToResponse(state),
	})
}
