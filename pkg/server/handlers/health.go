package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillmesh/skillmesh"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	engine skillmesh.Engine
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(engine skillmesh.Engine) *HealthHandler {
	return &HealthHandler{engine: engine}
}

// HealthCheck handles GET /health.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// LivenessCheck handles GET /live.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// ReadinessCheck handles GET /ready. The server is ready once the engine is
// configured and can report stats.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	stats, err := h.engine.Stats()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "total_skills": stats.TotalSkills})
}
