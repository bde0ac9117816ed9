package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/bigtree-pos/till/internal/till/report"
	"github.com/bigtree-pos/till/internal/till/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HistoryHandler handles HTTP requests for the transaction history
type HistoryHandler struct {
	register service.RegisterService
	logger   *slog.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(logger *slog.Logger, register service.RegisterService) *HistoryHandler {
	return &HistoryHandler{
		register: register,
		logger:   logger,
	}
}

// List returns all finalized sales, oldest first
func (h *HistoryHandler) List(c *gin.Context) {
	records, err := h.register.History(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list history", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]RecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapRecordToResponse(record))
	}
	RespondOK(c, responses)
}

// Export renders the history as a downloadable spreadsheet
func (h *HistoryHandler) Export(c *gin.Context) {
	records, err := h.register.History(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load history for export", "error", err)
		RespondInternalError(c)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(records, &buf); err != nil {
		h.logger.Error("Failed to render history export", "error", err)
		RespondInternalError(c)
		return
	}

	filename := "transactions-" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
