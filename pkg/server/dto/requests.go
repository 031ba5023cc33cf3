// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"errors"
	"strings"

	"github.com/skillmesh/skillmesh/pkg/types"
)

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query        string   `json:"query"`
	Limit        int      `json:"limit,omitempty"`
	Preset       string   `json:"preset,omitempty"`
	VectorWeight *float64 `json:"vector_weight,omitempty"`
	GraphWeight  *float64 `json:"graph_weight,omitempty"`
	Toolchain    string   `json:"toolchain,omitempty"`
	Category     string   `json:"category,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Validate checks the request before it reaches the engine.
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query field is required and cannot be empty")
	}
	if (r.VectorWeight == nil) != (r.GraphWeight == nil) {
		return errors.New("vector_weight and graph_weight must be supplied together")
	}
	return nil
}

// Weights returns the explicit custom weights, if both were supplied.
func (r *SearchRequest) Weights() *types.HybridWeights {
	if r.VectorWeight == nil || r.GraphWeight == nil {
		return nil
	}
	return &types.HybridWeights{Vector: *r.VectorWeight, Graph: *r.GraphWeight}
}

// RecommendRequest is the body of POST /api/v1/recommend.
type RecommendRequest struct {
	ProjectPath string `json:"project_path,omitempty"`
	SkillID     string `json:"skill_id,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

// ReindexRequest is the body of POST /api/v1/reindex.
type ReindexRequest struct {
	Force bool `json:"force"`
}
