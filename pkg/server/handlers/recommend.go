package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillmesh/skillmesh"
	"github.com/skillmesh/skillmesh/pkg/recommend"
	"github.com/skillmesh/skillmesh/pkg/server/dto"
)

// RecommendHandler serves project- and skill-based recommendations.
type RecommendHandler struct {
	engine skillmesh.Engine
}

// NewRecommendHandler creates a new recommend handler.
func NewRecommendHandler(engine skillmesh.Engine) *RecommendHandler {
	return &RecommendHandler{engine: engine}
}

// Recommend handles POST /api/v1/recommend.
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req dto.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(err))
		return
	}

	result, err := h.engine.Recommend(c.Request.Context(), recommend.Request{
		ProjectPath: req.ProjectPath,
		SkillID:     req.SkillID,
		Limit:       req.Limit,
	})
	if err != nil {
		writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RecommendResponse{
		Status:             dto.StatusCompleted,
		RecommendationType: result.Type,
		Recommendations:    dto.NewScoredSkills(result.Recommendations),
		Context: dto.RecommendContext{
			DetectedToolchains: result.Context.DetectedToolchains,
			Confidence:         result.Context.Confidence,
			BaseSkill:          result.Context.BaseSkill,
		},
	})
}

// Related handles GET /api/v1/skills/:id/related.
func (h *RecommendHandler) Related(c *gin.Context) {
	skillID := c.Param("id")

	maxHops := 2
	if v := c.Query("max_hops"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxHops = parsed
		}
	}

	results, err := h.engine.Related(skillID, maxHops)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	skills := dto.NewScoredSkills(results)
	c.JSON(http.StatusOK, dto.SearchResponse{
		Status: dto.StatusCompleted,
		Skills: skills,
		Count:  len(skills),
	})
}
