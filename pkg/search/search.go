// Package search fuses semantic similarity and graph proximity into a single
// ranked result over the skill indexes.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/skillmesh/skillmesh/pkg/embedder"
	"github.com/skillmesh/skillmesh/pkg/graph"
	"github.com/skillmesh/skillmesh/pkg/skills"
	"github.com/skillmesh/skillmesh/pkg/types"
	"github.com/skillmesh/skillmesh/pkg/vector"
)

const (
	// MaxLimit is the hard cap on returned results. Larger requests are
	// silently capped, not rejected.
	MaxLimit = 50

	// DefaultLimit applies when the caller does not set one.
	DefaultLimit = 10

	// scoreFloor keeps fused scores strictly positive so exact-zero ties do
	// not mask ordering.
	scoreFloor = 1e-6

	// graphHops bounds the proximity traversal between vector candidates.
	graphHops = 2
)

// Request describes one search call. Either Query or Embedding must be set;
// a non-empty Embedding skips the embedding provider.
type Request struct {
	Query     string
	Embedding []float32
	Limit     int
	Preset    types.WeightPreset
	Weights   *types.HybridWeights
	Filters   types.SearchFilters
}

// Scorer reads the vector index and relationship graph to answer relevance
// queries. It is safe for concurrent use.
type Scorer struct {
	vectors  *vector.Index
	graph    *graph.Graph
	embedder embedder.Client
	manager  skills.Manager
	logger   *slog.Logger
}

// NewScorer wires a scorer to its indexes and collaborators.
func NewScorer(vectors *vector.Index, g *graph.Graph, embedderClient embedder.Client, manager skills.Manager, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{
		vectors:  vectors,
		graph:    g,
		embedder: embedderClient,
		manager:  manager,
		logger:   logger,
	}
}

// resolveWeights picks the weight pair for a request: explicit custom
// weights win, then the named preset, then the semantic-focused default.
func resolveWeights(req Request) (types.HybridWeights, error) {
	if req.Weights != nil {
		return *req.Weights, nil
	}
	preset := req.Preset
	if preset == "" {
		preset = types.PresetSemanticFocused
	}
	if preset == types.PresetCustom {
		return types.HybridWeights{}, fmt.Errorf("custom preset requires explicit weights")
	}
	return types.ResolvePreset(preset)
}

// Search runs the two retrieval phases and fuses their scores.
//
// The vector phase over-fetches (limit*2 candidates) so that filtering and
// graph-aware reordering have room to work. The graph score of a candidate
// is its best cumulative path weight to any other candidate, normalized by
// the highest such weight in the candidate set.
func (s *Scorer) Search(ctx context.Context, req Request) ([]types.ScoredSkill, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	weights, err := resolveWeights(req)
	if err != nil {
		return nil, err
	}
	nw := weights.Normalize()

	queryVec := req.Embedding
	if len(queryVec) == 0 {
		if strings.TrimSpace(req.Query) == "" {
			return []types.ScoredSkill{}, nil
		}
		started := time.Now()
		queryVec, err = s.embedder.EmbedSingle(ctx, req.Query)
		if err != nil {
			return nil, fmt.Errorf("failed to embed query: %w", err)
		}
		s.logger.Debug("query embedded", "duration", time.Since(started))
	}

	hits := s.vectors.Query(queryVec, limit*2)
	if len(hits) == 0 {
		return []types.ScoredSkill{}, nil
	}

	graphScores := s.graphProximity(hits)
	matchType := matchTypeFor(nw)

	results := make([]types.ScoredSkill, 0, len(hits))
	for _, hit := range hits {
		skill, err := s.manager.LoadSkill(hit.ID)
		if err != nil {
			// Either a full ranked list or an error, never a silently
			// truncated one.
			return nil, fmt.Errorf("failed to load candidate %s: %w", hit.ID, err)
		}
		if !matchesFilters(skill, req.Filters) {
			continue
		}

		score := nw.Vector*hit.Similarity + nw.Graph*graphScores[hit.ID]
		if score < scoreFloor {
			score = scoreFloor
		}
		if score > 1 {
			score = 1
		}

		results = append(results, types.ScoredSkill{
			Skill:     skill,
			Score:     score,
			MatchType: matchType,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].Skill.ID < results[j].Skill.ID
		}
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// graphProximity scores every candidate by its strongest graph connection to
// the other candidates, normalized to [0,1] by the best connection observed.
func (s *Scorer) graphProximity(hits []vector.Hit) map[string]float64 {
	ids := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		ids[h.ID] = struct{}{}
	}

	raw := make(map[string]float64, len(hits))
	var maxRaw float64
	for _, h := range hits {
		others := make(map[string]struct{}, len(ids)-1)
		for id := range ids {
			if id != h.ID {
				others[id] = struct{}{}
			}
		}
		w := s.graph.MaxNeighborWeight(h.ID, others, graphHops)
		raw[h.ID] = w
		if w > maxRaw {
			maxRaw = w
		}
	}

	if maxRaw == 0 {
		return raw
	}
	for id, w := range raw {
		raw[id] = w / maxRaw
	}
	return raw
}

func matchTypeFor(normalized types.HybridWeights) types.MatchType {
	switch {
	case normalized.Graph == 0:
		return types.MatchVector
	case normalized.Vector == 0:
		return types.MatchGraph
	default:
		return types.MatchHybrid
	}
}

// matchesFilters applies the caller-supplied metadata filters. Category is
// exact (case-insensitive); toolchain and tags match by substring.
func matchesFilters(skill types.Skill, f types.SearchFilters) bool {
	if f.Category != "" && !strings.EqualFold(skill.Category, f.Category) {
		return false
	}

	if f.Toolchain != "" {
		needle := strings.ToLower(f.Toolchain)
		haystack := strings.ToLower(strings.Join(skill.Tags, " ") + " " + skill.Compatibility + " " + skill.Category)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}

	for _, want := range f.Tags {
		needle := strings.ToLower(want)
		found := false
		for _, tag := range skill.Tags {
			if strings.Contains(strings.ToLower(tag), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
