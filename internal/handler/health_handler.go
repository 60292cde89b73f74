package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"privasee/internal/config"
)

// HealthHandler handles the banner and health check endpoints.
type HealthHandler struct {
	cfg *config.Config
	db  *sqlx.DB // nil when batch persistence is disabled
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cfg *config.Config, db *sqlx.DB) *HealthHandler {
	return &HealthHandler{cfg: cfg, db: db}
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "privasee",
		"status":  "running",
		"docs":    "/api/health",
	})
}

// Health handles GET /api/health, reporting per-component status.
func (h *HealthHandler) Health(c *gin.Context) {
	components := gin.H{
		"detector": h.cfg.Detect.Provider,
		"ocr":      h.cfg.OCR.Provider,
	}

	status := http.StatusOK
	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			components["database"] = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			components["database"] = "ok"
		}
	} else {
		components["database"] = "disabled"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status":     overall,
		"components": components,
	})
}
