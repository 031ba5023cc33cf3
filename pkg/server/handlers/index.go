package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillmesh/skillmesh"
	"github.com/skillmesh/skillmesh/pkg/server/dto"
)

// IndexHandler serves index maintenance and inspection.
type IndexHandler struct {
	engine skillmesh.Engine
}

// NewIndexHandler creates a new index handler.
func NewIndexHandler(engine skillmesh.Engine) *IndexHandler {
	return &IndexHandler{engine: engine}
}

// Reindex handles POST /api/v1/reindex.
func (h *IndexHandler) Reindex(c *gin.Context) {
	var req dto.ReindexRequest
	// An empty body means a non-forced reindex.
	_ = c.ShouldBindJSON(&req)

	stats, err := h.engine.Reindex(c.Request.Context(), req.Force)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	resp := dto.NewStatsResponse(stats)
	resp.Forced = &req.Force
	c.JSON(http.StatusOK, resp)
}

// Stats handles GET /api/v1/stats.
func (h *IndexHandler) Stats(c *gin.Context) {
	stats, err := h.engine.Stats()
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStatsResponse(stats))
}

// GetSkill handles GET /api/v1/skills/:id.
func (h *IndexHandler) GetSkill(c *gin.Context) {
	skill, err := h.engine.GetSkill(c.Param("id"))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SkillResponse{Status: dto.StatusCompleted, Skill: skill})
}

// Categories handles GET /api/v1/categories.
func (h *IndexHandler) Categories(c *gin.Context) {
	categories, err := h.engine.Categories()
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":           dto.StatusCompleted,
		"categories":       categories,
		"total_categories": len(categories),
	})
}
