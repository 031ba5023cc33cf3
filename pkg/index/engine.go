// Package index orchestrates the incremental reindexing that keeps the
// vector index and relationship graph in sync with the skill corpus.
package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/skillmesh/skillmesh/pkg/embedder"
	"github.com/skillmesh/skillmesh/pkg/graph"
	"github.com/skillmesh/skillmesh/pkg/skills"
	"github.com/skillmesh/skillmesh/pkg/snapshot"
	"github.com/skillmesh/skillmesh/pkg/types"
	"github.com/skillmesh/skillmesh/pkg/vector"
)

// ErrIndexingFailed is returned when the corpus cannot be read at all. No
// partial stats accompany it.
var ErrIndexingFailed = errors.New("indexing failed")

// DefaultEmbedTimeout bounds one embedding call so a slow provider cannot
// stall the whole corpus pass.
const DefaultEmbedTimeout = 30 * time.Second

// Options tunes engine behavior.
type Options struct {
	// EmbedTimeout is the per-skill embedding deadline during reindexing.
	// Zero means DefaultEmbedTimeout.
	EmbedTimeout time.Duration
}

// Engine drives full and incremental reindexing. Reindex runs are
// serialized; reads of the underlying indexes may proceed concurrently.
type Engine struct {
	reindexMu sync.Mutex

	manager  skills.Manager
	embedder embedder.Client
	vectors  *vector.Index
	graph    *graph.Graph
	tracker  snapshot.Tracker
	logger   *slog.Logger

	embedTimeout time.Duration
}

// NewEngine wires the indexing engine to its collaborators.
func NewEngine(manager skills.Manager, embedderClient embedder.Client, vectors *vector.Index, g *graph.Graph, tracker snapshot.Tracker, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.EmbedTimeout
	if timeout <= 0 {
		timeout = DefaultEmbedTimeout
	}
	return &Engine{
		manager:      manager,
		embedder:     embedderClient,
		vectors:      vectors,
		graph:        g,
		tracker:      tracker,
		logger:       logger,
		embedTimeout: timeout,
	}
}

// Vectors returns the vector index the engine maintains.
func (e *Engine) Vectors() *vector.Index { return e.vectors }

// Graph returns the relationship graph the engine maintains.
func (e *Engine) Graph() *graph.Graph { return e.graph }

// ReindexAll reconciles both indexes with the current corpus. With force
// false, skills whose fingerprint is unchanged are not re-embedded or
// re-graphed. Skills missing from the corpus are removed from the vector
// index, the graph, and the tracker.
//
// A failure to enumerate the corpus aborts the call with ErrIndexingFailed.
// A per-skill embedding failure is logged and that skill is skipped.
// Cancellation stops between skills, leaving everything processed so far
// fully indexed.
func (e *Engine) ReindexAll(ctx context.Context, force bool) (types.IndexStats, error) {
	e.reindexMu.Lock()
	defer e.reindexMu.Unlock()

	started := time.Now()
	corpus, err := e.manager.DiscoverSkills()
	if err != nil {
		return types.IndexStats{}, fmt.Errorf("%w: %v", ErrIndexingFailed, err)
	}

	currentIDs := make(map[string]struct{}, len(corpus))
	indexed, skipped, failed := 0, 0, 0

	for _, skill := range corpus {
		if err := ctx.Err(); err != nil {
			return types.IndexStats{}, fmt.Errorf("reindex cancelled: %w", err)
		}
		currentIDs[skill.ID] = struct{}{}

		fp := snapshot.Fingerprint(skill)
		changed := force || e.tracker.HasChanged(skill.ID, fp)
		// An unchanged skill can still be missing from an index, e.g. after
		// a restart with a persistent tracker but fresh in-memory indexes.
		if !changed && e.vectors.Has(skill.ID) && e.graph.HasNode(skill.ID) {
			skipped++
			continue
		}

		embedding, err := e.embedSkill(ctx, skill)
		if err != nil {
			failed++
			e.logger.Warn("skipping skill, embedding failed",
				"skill_id", skill.ID, "error", err)
			continue
		}
		if err := e.vectors.Upsert(skill.ID, embedding); err != nil {
			failed++
			e.logger.Warn("skipping skill, vector upsert failed",
				"skill_id", skill.ID, "error", err)
			continue
		}
		e.graph.UpsertNode(skill)
		if err := e.tracker.Record(skill.ID, fp, time.Now().UTC()); err != nil {
			return types.IndexStats{}, fmt.Errorf("%w: recording fingerprint for %s: %v", ErrIndexingFailed, skill.ID, err)
		}
		indexed++
	}

	stale := e.tracker.StaleIDs(currentIDs)
	for _, staleID := range stale {
		e.vectors.Remove(staleID)
		e.graph.RemoveNode(staleID)
		if err := e.tracker.Remove(staleID); err != nil {
			return types.IndexStats{}, fmt.Errorf("%w: removing stale record %s: %v", ErrIndexingFailed, staleID, err)
		}
	}

	stats := e.Stats()
	e.logger.Info("reindex complete",
		"indexed", indexed, "skipped", skipped, "failed", failed,
		"removed_stale", len(stale),
		"duration", time.Since(started))
	return stats, nil
}

// Stats recomputes the current index statistics.
func (e *Engine) Stats() types.IndexStats {
	return types.IndexStats{
		TotalSkills:     e.tracker.Len(),
		VectorStoreSize: e.vectors.Size(),
		GraphNodes:      e.graph.NodeCount(),
		GraphEdges:      e.graph.EdgeCount(),
		LastIndexedAt:   e.tracker.LastIndexedAt(),
	}
}

// embedSkill embeds the indexable text of one skill under the per-skill
// deadline. A timeout counts as an embedding failure for that skill only.
func (e *Engine) embedSkill(ctx context.Context, skill types.Skill) ([]float32, error) {
	embedCtx, cancel := context.WithTimeout(ctx, e.embedTimeout)
	defer cancel()
	return e.embedder.EmbedSingle(embedCtx, IndexableText(skill))
}

// IndexableText flattens the searchable content of a skill into the text
// handed to the embedding provider.
func IndexableText(skill types.Skill) string {
	parts := []string{
		skill.Name,
		skill.Description,
		skill.Category,
		strings.Join(skill.Tags, " "),
		skill.Instructions,
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
