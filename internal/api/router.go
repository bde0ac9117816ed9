package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bigtree-pos/till/internal/api/handler"
	"github.com/bigtree-pos/till/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	cartHandler *handler.CartHandler,
	quickAddHandler *handler.QuickAddHandler,
	historyHandler *handler.HistoryHandler,
	scanHandler *handler.ScanHandler,
) {
	// CorrelationID must run first so the logger and handlers see the ID.
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Cart operations
		cart := v1.Group("/cart")
		{
			cart.GET("", cartHandler.State)
			cart.DELETE("", cartHandler.Clear)
			cart.POST("/items", cartHandler.AddItem)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
			cart.PUT("/tender", cartHandler.SetTender)
			cart.GET("/summary", cartHandler.Summary)
			cart.POST("/finalize", cartHandler.Finalize)
		}

		// Quick-add catalog operations
		quickadd := v1.Group("/quickadd")
		{
			quickadd.GET("", quickAddHandler.List)
			quickadd.POST("", quickAddHandler.Save)
			quickadd.DELETE("/:id", quickAddHandler.Remove)
			quickadd.POST("/:id/cart", quickAddHandler.AddToCart)
		}

		// Transaction history operations
		history := v1.Group("/history")
		{
			history.GET("", historyHandler.List)
			history.GET("/export", historyHandler.Export)
		}

		// Scan session operations for the input adapters
		scans := v1.Group("/scans")
		{
			scans.POST("", scanHandler.StartSession)
			scans.DELETE("/:token", scanHandler.CancelSession)
			scans.POST("/:token/events", scanHandler.Event)
			scans.POST("/:token/failures", scanHandler.Failure)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
