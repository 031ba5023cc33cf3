// Package recommend routes recommendation requests to either a
// project-based semantic search or a skill-based graph traversal.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/skillmesh/skillmesh/pkg/graph"
	"github.com/skillmesh/skillmesh/pkg/search"
	"github.com/skillmesh/skillmesh/pkg/skills"
	"github.com/skillmesh/skillmesh/pkg/toolchain"
	"github.com/skillmesh/skillmesh/pkg/types"
)

var (
	// ErrInvalidRequest is returned when neither a project path nor a seed
	// skill is supplied.
	ErrInvalidRequest = errors.New("either project_path or skill_id is required")

	// ErrPathNotFound is returned when the referenced project path does not
	// exist on disk.
	ErrPathNotFound = errors.New("project path does not exist")
)

// Recommendation types reported to callers.
const (
	TypeProjectBased = "project_based"
	TypeSkillBased   = "skill_based"
)

// seedHops is how far the skill-based mode walks from the seed skill.
const seedHops = 2

// Request selects the recommendation mode by which input is set. When both
// are set the project-based mode wins and the skill hint is ignored.
type Request struct {
	ProjectPath string
	SkillID     string
	Limit       int
}

// Result is one recommendation response.
type Result struct {
	Type            string              `json:"recommendation_type"`
	Recommendations []types.ScoredSkill `json:"recommendations"`
	Context         Context             `json:"context"`
}

// Context carries mode-specific provenance for the recommendations.
type Context struct {
	DetectedToolchains []string `json:"detected_toolchains,omitempty"`
	Confidence         float64  `json:"confidence,omitempty"`
	BaseSkill          string   `json:"base_skill,omitempty"`
}

// Router composes the hybrid scorer with either the toolchain detector or
// the relationship graph.
type Router struct {
	scorer   *search.Scorer
	graph    *graph.Graph
	manager  skills.Manager
	detector *toolchain.Detector
	logger   *slog.Logger
}

// NewRouter wires the recommendation router to its collaborators.
func NewRouter(scorer *search.Scorer, g *graph.Graph, manager skills.Manager, detector *toolchain.Detector, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		scorer:   scorer,
		graph:    g,
		manager:  manager,
		detector: detector,
		logger:   logger,
	}
}

// Recommend answers one recommendation request.
func (r *Router) Recommend(ctx context.Context, req Request) (Result, error) {
	switch {
	case req.ProjectPath != "":
		return r.projectBased(ctx, req)
	case req.SkillID != "":
		return r.skillBased(req)
	default:
		return Result{}, ErrInvalidRequest
	}
}

// projectBased detects the project toolchain and searches semantically for
// matching skills. The path is validated before the detector runs.
func (r *Router) projectBased(ctx context.Context, req Request) (Result, error) {
	if _, err := os.Stat(req.ProjectPath); err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrPathNotFound, req.ProjectPath)
	}

	info, err := r.detector.Detect(req.ProjectPath)
	if err != nil {
		return Result{}, fmt.Errorf("toolchain detection failed: %w", err)
	}

	query := toolchain.QueryString(info)
	r.logger.Debug("project-based recommendation",
		"path", req.ProjectPath, "primary_language", info.PrimaryLanguage, "query", query)

	recommendations, err := r.scorer.Search(ctx, search.Request{
		Query:  query,
		Limit:  req.Limit,
		Preset: types.PresetSemanticFocused,
	})
	if err != nil {
		return Result{}, err
	}

	detected := []string{}
	if info.PrimaryLanguage != "" {
		detected = append(detected, info.PrimaryLanguage)
	}
	detected = append(detected, info.SecondaryLanguages...)

	return Result{
		Type:            TypeProjectBased,
		Recommendations: recommendations,
		Context: Context{
			DetectedToolchains: detected,
			Confidence:         info.Confidence,
		},
	}, nil
}

// skillBased returns the seed skill's graph neighborhood ranked by
// cumulative weight. No vector phase runs: the intent is structural
// closeness, not semantic similarity to the seed's text.
func (r *Router) skillBased(req Request) (Result, error) {
	seed, err := r.manager.LoadSkill(req.SkillID)
	if err != nil {
		return Result{}, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	if limit > search.MaxLimit {
		limit = search.MaxLimit
	}

	recommendations := []types.ScoredSkill{}
	for _, n := range r.graph.Neighbors(seed.ID, seedHops) {
		neighbor, err := r.manager.LoadSkill(n.ID)
		if err != nil {
			return Result{}, fmt.Errorf("failed to load neighbor %s: %w", n.ID, err)
		}
		recommendations = append(recommendations, types.ScoredSkill{
			Skill:     neighbor,
			Score:     n.Weight,
			MatchType: types.MatchGraph,
		})
		if len(recommendations) == limit {
			break
		}
	}

	return Result{
		Type:            TypeSkillBased,
		Recommendations: recommendations,
		Context:         Context{BaseSkill: seed.ID},
	}, nil
}
