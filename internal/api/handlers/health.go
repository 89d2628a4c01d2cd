package handlers

import (
	"database/sql"
	"net/http"

	"tally/internal/models"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports service and database status
func (h *HealthHandler) Health(c *gin.Context) {
	resp := models.HealthResponse{Status: "ok", Database: "ok"}

	if h.db == nil {
		resp.Database = "not configured"
	} else if err := h.db.PingContext(c.Request.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
