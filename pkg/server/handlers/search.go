// Package handlers implements the HTTP endpoints of the skillmesh API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillmesh/skillmesh"
	"github.com/skillmesh/skillmesh/pkg/search"
	"github.com/skillmesh/skillmesh/pkg/server/dto"
	"github.com/skillmesh/skillmesh/pkg/types"
)

// SearchHandler serves relevance queries.
type SearchHandler struct {
	engine skillmesh.Engine
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(engine skillmesh.Engine) *SearchHandler {
	return &SearchHandler{engine: engine}
}

// Search handles POST /api/v1/search.
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(err))
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(err))
		return
	}

	results, err := h.engine.Search(c.Request.Context(), search.Request{
		Query:   req.Query,
		Limit:   req.Limit,
		Preset:  types.WeightPreset(req.Preset),
		Weights: req.Weights(),
		Filters: types.SearchFilters{
			Toolchain: req.Toolchain,
			Category:  req.Category,
			Tags:      req.Tags,
		},
	})
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

// writeEngineError maps engine errors onto HTTP statuses with the uniform
// {status, message} body.
func writeEngineError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, skillmesh.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, skillmesh.ErrSkillNotFound),
		errors.Is(err, skillmesh.ErrPathNotFound):
		status = http.StatusNotFound
	case errors.Is(err, skillmesh.ErrNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.Is(err, skillmesh.ErrEmbeddingFailed):
		status = http.StatusBadGateway
	}
	c.JSON(status, dto.NewError(err))
}
