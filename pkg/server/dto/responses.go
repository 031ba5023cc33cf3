package dto

import (
	"time"

	"github.com/skillmesh/skillmesh/pkg/types"
)

// Statuses used by every response body.
const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

// ErrorResponse is the uniform error body. Errors are rendered as
// structured values; no error crosses the API boundary as a panic.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewError builds an ErrorResponse from an error.
func NewError(err error) ErrorResponse {
	return ErrorResponse{Status: StatusError, Message: err.Error()}
}

// ScoredSkill is the wire form of one search or recommendation result.
type ScoredSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Score       float64  `json:"score"`
	MatchType   string   `json:"match_type"`
}

// NewScoredSkill projects an engine result onto the wire form.
func NewScoredSkill(s types.ScoredSkill) ScoredSkill {
	return ScoredSkill{
		ID:          s.Skill.ID,
		Name:        s.Skill.Name,
		Description: s.Skill.Description,
		Category:    s.Skill.Category,
		Tags:        s.Skill.Tags,
		Score:       s.Score,
		MatchType:   string(s.MatchType),
	}
}

// NewScoredSkills converts a result list, never returning nil so the JSON
// renders as an empty array.
func NewScoredSkills(in []types.ScoredSkill) []ScoredSkill {
	out := make([]ScoredSkill, 0, len(in))
	for _, s := range in {
		out = append(out, NewScoredSkill(s))
	}
	return out
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Status string        `json:"status"`
	Skills []ScoredSkill `json:"skills"`
	Count  int           `json:"count"`
}

// RecommendContext carries mode-specific provenance.
type RecommendContext struct {
	DetectedToolchains []string `json:"detected_toolchains,omitempty"`
	Confidence         float64  `json:"confidence,omitempty"`
	BaseSkill          string   `json:"base_skill,omitempty"`
}

// RecommendResponse is the body of a successful recommendation.
type RecommendResponse struct {
	Status             string           `json:"status"`
	RecommendationType string           `json:"recommendation_type"`
	Recommendations    []ScoredSkill    `json:"recommendations"`
	Context            RecommendContext `json:"context"`
}

// StatsResponse is the body of GET /stats and POST /reindex.
type StatsResponse struct {
	Status          string    `json:"status"`
	TotalSkills     int       `json:"total_skills"`
	VectorStoreSize int       `json:"vector_store_size"`
	GraphNodes      int       `json:"graph_nodes"`
	GraphEdges      int       `json:"graph_edges"`
	LastIndexedAt   time.Time `json:"last_indexed_at"`
	Forced          *bool     `json:"forced,omitempty"`
}

// NewStatsResponse builds a StatsResponse from engine stats.
func NewStatsResponse(stats types.IndexStats) StatsResponse {
	return StatsResponse{
		Status:          StatusCompleted,
		TotalSkills:     stats.TotalSkills,
		VectorStoreSize: stats.VectorStoreSize,
		GraphNodes:      stats.GraphNodes,
		GraphEdges:      stats.GraphEdges,
		LastIndexedAt:   stats.LastIndexedAt,
	}
}

// SkillResponse is the body of GET /skills/:id.
type SkillResponse struct {
	Status string      `json:"status"`
	Skill  types.Skill `json:"skill"`
}
