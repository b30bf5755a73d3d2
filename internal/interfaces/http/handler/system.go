package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ngocrm/backend/internal/infrastructure/persistence"
)

// SystemHandler exposes health and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db *persistence.Database
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{db: db}
}

// RegisterRoutes registers system routes on the engine root, outside the API prefix
func (h *SystemHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", h.Healthz)
	engine.GET("/readyz", h.Readyz)
}

// Healthz reports process liveness
func (h *SystemHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz reports readiness, including database connectivity
func (h *SystemHandler) Readyz(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
