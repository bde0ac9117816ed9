package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bigtree-pos/till/internal/domain/cart"
	"github.com/bigtree-pos/till/internal/domain/money"
	"github.com/bigtree-pos/till/internal/till/adapters"
	"github.com/gin-gonic/gin"
)

// ScanHandler handles HTTP requests for scan sessions and adapter detections
type ScanHandler struct {
	dispatcher *adapters.Dispatcher
	logger     *slog.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(logger *slog.Logger, dispatcher *adapters.Dispatcher) *ScanHandler {
	return &ScanHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// StartSession opens a new scan session, superseding any previous one
func (h *ScanHandler) StartSession(c *gin.Context) {
	token := h.dispatcher.StartSession()
	RespondCreated(c, ScanSessionResponse{Token: token})
}

// CancelSession retires a scan session; in-flight detections for it are
// discarded
func (h *ScanHandler) CancelSession(c *gin.Context) {
	token, ok := h.parseToken(c)
	if !ok {
		return
	}

	h.dispatcher.CancelSession(token)
	RespondNoContent(c)
}

// Event delivers one raw adapter detection for a session
func (h *ScanHandler) Event(c *gin.Context) {
	token, ok := h.parseToken(c)
	if !ok {
		return
	}

	var req ScanEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	payload := adapters.Payload{
		Source: adapters.Source(req.Source),
		Name:   req.Name,
		Price:  req.Price,
		Code:   req.Code,
		Text:   req.Text,
	}

	outcome, err := h.dispatcher.Dispatch(c.Request.Context(), token, payload)
	if err != nil {
		h.respondDispatchError(c, err)
		return
	}

	RespondOK(c, mapOutcomeToResponse(outcome))
}

// Failure records an adapter detection failure. No register state changes;
// the session stays active so the operator can retry or fall back to manual
// entry.
func (h *ScanHandler) Failure(c *gin.Context) {
	token, ok := h.parseToken(c)
	if !ok {
		return
	}

	var req ScanFailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if !h.dispatcher.Active(token) {
		RespondConflict(c, "Scan session is no longer active")
		return
	}

	h.logger.Warn("Detection failed",
		"session", token,
		"source", req.Source,
		"reason", req.Reason,
	)
	RespondNoContent(c)
}

func (h *ScanHandler) parseToken(c *gin.Context) (uint64, bool) {
	tokenParam := c.Param("token")
	token, err := strconv.ParseUint(tokenParam, 10, 64)
	if err != nil || token == 0 {
		h.logger.Error("Invalid scan session token", "token", tokenParam)
		RespondBadRequest(c, "Invalid scan session token")
		return 0, false
	}
	return token, true
}

func (h *ScanHandler) respondDispatchError(c *gin.Context, err error) {
	var parseErr *money.ParseError
	switch {
	case errors.Is(err, adapters.ErrScanCancelled):
		RespondConflict(c, "Scan session is no longer active")
	case errors.Is(err, adapters.ErrScanTimeout):
		RespondWithError(c, http.StatusGatewayTimeout, "SCAN_TIMEOUT", "Detection processing timed out")
	case errors.Is(err, adapters.ErrEmptyPayload):
		RespondBadRequest(c, err.Error())
	case errors.As(err, &parseErr):
		RespondBadRequest(c, parseErr.Error())
	case errors.Is(err, cart.ErrEmptyName), errors.Is(err, cart.ErrNegativePrice):
		RespondBadRequest(c, err.Error())
	default:
		h.logger.Error("Detection dispatch failed", "error", err)
		RespondInternalError(c)
	}
}
