package skillmesh

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/skillmesh/skillmesh/pkg/embedder"
	"github.com/skillmesh/skillmesh/pkg/graph"
	"github.com/skillmesh/skillmesh/pkg/index"
	"github.com/skillmesh/skillmesh/pkg/recommend"
	"github.com/skillmesh/skillmesh/pkg/search"
	"github.com/skillmesh/skillmesh/pkg/skills"
	"github.com/skillmesh/skillmesh/pkg/snapshot"
	"github.com/skillmesh/skillmesh/pkg/toolchain"
	"github.com/skillmesh/skillmesh/pkg/types"
	"github.com/skillmesh/skillmesh/pkg/vector"
)

// ErrNotConfigured is returned when an operation is invoked on a nil or
// uninitialized engine. Callers must construct a Client first.
var ErrNotConfigured = errors.New("engine not configured")

// Caller-facing error taxonomy. The component packages own these sentinels;
// they are re-exported here so callers can match them without importing
// every subpackage.
var (
	ErrInvalidRequest    = recommend.ErrInvalidRequest
	ErrPathNotFound      = recommend.ErrPathNotFound
	ErrDimensionMismatch = vector.ErrDimensionMismatch
	ErrEmbeddingFailed   = embedder.ErrEmbeddingFailed
	ErrIndexingFailed    = index.ErrIndexingFailed
	ErrSkillNotFound     = skills.ErrSkillNotFound
)

// Engine is the main interface for querying and maintaining the skill
// indexes.
type Engine interface {
	// Search returns a fused, ranked list of skills for a text query.
	Search(ctx context.Context, req search.Request) ([]types.ScoredSkill, error)

	// Recommend produces recommendations for a project directory or a seed
	// skill.
	Recommend(ctx context.Context, req recommend.Request) (recommend.Result, error)

	// Reindex reconciles the vector index and relationship graph with the
	// current corpus. Invocations are serialized internally.
	Reindex(ctx context.Context, force bool) (types.IndexStats, error)

	// Related returns skills structurally close to the given one, ranked by
	// cumulative graph weight.
	Related(skillID string, maxHops int) ([]types.ScoredSkill, error)

	// Stats recomputes the current index statistics.
	Stats() (types.IndexStats, error)

	// GetSkill loads one skill by ID.
	GetSkill(id string) (types.Skill, error)

	// Categories lists corpus categories with their skill counts.
	Categories() ([]skills.CategoryCount, error)

	// Close releases index resources.
	Close() error
}

// Config holds construction options for the Client.
type Config struct {
	// CorpusRoots are the directories scanned for SKILL.md files.
	CorpusRoots []string

	// SnapshotPath, when set, persists fingerprints in a Badger database at
	// that path; otherwise the tracker is in-memory.
	SnapshotPath string

	// EmbedTimeout bounds one embedding call during reindexing.
	// Zero means the engine default.
	EmbedTimeout time.Duration
}

// Client implements Engine. Construct it once and pass it by reference to
// every call site; there is no module-level singleton.
type Client struct {
	manager  skills.Manager
	embedder embedder.Client
	vectors  *vector.Index
	graph    *graph.Graph
	tracker  snapshot.Tracker
	engine   *index.Engine
	scorer   *search.Scorer
	router   *recommend.Router
	logger   *slog.Logger
}

// NewClient wires an engine from its collaborators. The skill manager and
// embedding provider are required; logger may be nil for the default.
func NewClient(manager skills.Manager, embedderClient embedder.Client, cfg *Config, logger *slog.Logger) (*Client, error) {
	if manager == nil || embedderClient == nil {
		return nil, ErrNotConfigured
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	var tracker snapshot.Tracker
	if cfg.SnapshotPath != "" {
		bt, err := snapshot.NewBadgerTracker(cfg.SnapshotPath)
		if err != nil {
			return nil, err
		}
		tracker = bt
	} else {
		tracker = snapshot.NewMemoryTracker()
	}

	vectors := vector.NewIndex(embedderClient.Dimensions())
	g := graph.New()
	engine := index.NewEngine(manager, embedderClient, vectors, g, tracker, index.Options{EmbedTimeout: cfg.EmbedTimeout}, logger)
	scorer := search.NewScorer(vectors, g, embedderClient, manager, logger)
	router := recommend.NewRouter(scorer, g, manager, toolchain.NewDetector(), logger)

	return &Client{
		manager:  manager,
		embedder: embedderClient,
		vectors:  vectors,
		graph:    g,
		tracker:  tracker,
		engine:   engine,
		scorer:   scorer,
		router:   router,
		logger:   logger,
	}, nil
}

// ready guards every operation so a nil client fails fast instead of
// panicking deep inside a component.
func (c *Client) ready() error {
	if c == nil || c.engine == nil {
		return ErrNotConfigured
	}
	return nil
}

// Search implements Engine.
func (c *Client) Search(ctx context.Context, req search.Request) ([]types.ScoredSkill, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.scorer.Search(ctx, req)
}

// Recommend implements Engine.
func (c *Client) Recommend(ctx context.Context, req recommend.Request) (recommend.Result, error) {
	if err := c.ready(); err != nil {
		return recommend.Result{}, err
	}
	return c.router.Recommend(ctx, req)
}

// Reindex implements Engine.
func (c *Client) Reindex(ctx context.Context, force bool) (types.IndexStats, error) {
	if err := c.ready(); err != nil {
		return types.IndexStats{}, err
	}
	return c.engine.ReindexAll(ctx, force)
}

// Related implements Engine.
func (c *Client) Related(skillID string, maxHops int) ([]types.ScoredSkill, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if _, err := c.manager.LoadSkill(skillID); err != nil {
		return nil, err
	}

	out := []types.ScoredSkill{}
	for _, n := range c.graph.Neighbors(skillID, maxHops) {
		skill, err := c.manager.LoadSkill(n.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, types.ScoredSkill{
			Skill:     skill,
			Score:     n.Weight,
			MatchType: types.MatchGraph,
		})
	}
	return out, nil
}

// Stats implements Engine.
func (c *Client) Stats() (types.IndexStats, error) {
	if err := c.ready(); err != nil {
		return types.IndexStats{}, err
	}
	return c.engine.Stats(), nil
}

// GetSkill implements Engine.
func (c *Client) GetSkill(id string) (types.Skill, error) {
	if err := c.ready(); err != nil {
		return types.Skill{}, err
	}
	return c.manager.LoadSkill(id)
}

// Categories implements Engine.
func (c *Client) Categories() ([]skills.CategoryCount, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.manager.Categories()
}

// Close implements Engine.
func (c *Client) Close() error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := c.tracker.Close(); err != nil {
		return err
	}
	return c.embedder.Close()
}
