// Package graph maintains the in-memory relationship graph between skills.
// Nodes correspond to skills, edges to structural relationships derived from
// shared categories, shared tags, and declared dependency/related links.
package graph

import (
	"sort"
	"strings"
	"sync"

	"github.com/skillmesh/skillmesh/pkg/types"
)

// EdgeKind identifies the relationship an edge represents.
type EdgeKind string

const (
	EdgeCategory        EdgeKind = "category"
	EdgeTag             EdgeKind = "tag"
	EdgeDependency      EdgeKind = "dependency"
	EdgeDeclaredRelated EdgeKind = "declared_related"
)

// Edge weight contributions. Category and tag edges are undirected;
// dependency and declared_related edges are directed from declarer to target.
const (
	categoryWeight = 1.0
	tagWeight      = 0.3
	tagWeightCap   = 1.0
	declaredWeight = 0.6
)

// Node holds the indexable relationship metadata of one skill.
type Node struct {
	ID           string
	Category     string
	Tags         []string
	Dependencies []string
	Related      []string
}

// Edge connects two nodes with a kind and weight. Undirected kinds are
// stored once with From < To.
type Edge struct {
	From   string
	To     string
	Kind   EdgeKind
	Weight float64
}

type edgeKey struct {
	from string
	to   string
	kind EdgeKind
}

// Graph is safe for concurrent readers; mutations take the exclusive lock.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	edges map[edgeKey]*Edge
}

// New creates an empty relationship graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[edgeKey]*Edge),
	}
}

// NodeFromSkill projects the relationship-relevant fields of a skill.
func NodeFromSkill(s types.Skill) *Node {
	return &Node{
		ID:           s.ID,
		Category:     s.Category,
		Tags:         append([]string(nil), s.Tags...),
		Dependencies: append([]string(nil), s.Dependencies...),
		Related:      append([]string(nil), s.Related...),
	}
}

// UpsertNode (re)creates the node for the skill and recomputes all edges
// touching it against every other current node. Recomputing instead of
// patching keeps edge maintenance simple; reindexing is infrequent relative
// to search.
func (g *Graph) UpsertNode(skill types.Skill) {
	node := NodeFromSkill(skill)

	g.mu.Lock()
	defer g.mu.Unlock()

	g.removeEdgesOf(node.ID)
	g.nodes[node.ID] = node

	for otherID, other := range g.nodes {
		if otherID == node.ID {
			continue
		}
		g.connect(node, other)
	}
}

// RemoveNode removes the node and all edges referencing it. Removing an
// absent node is a no-op.
func (g *Graph) RemoveNode(skillID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.nodes, skillID)
	g.removeEdgesOf(skillID)
}

// HasNode reports whether a node exists for skillID.
func (g *Graph) HasNode(skillID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[skillID]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of stored edges. Undirected edges count once.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// connect computes and stores all edges between two nodes. Caller must hold
// the write lock.
func (g *Graph) connect(a, b *Node) {
	if a.Category != "" && strings.EqualFold(a.Category, b.Category) {
		g.putUndirected(a.ID, b.ID, EdgeCategory, categoryWeight)
	}

	if shared := sharedTagCount(a.Tags, b.Tags); shared > 0 {
		w := float64(shared) * tagWeight
		if w > tagWeightCap {
			w = tagWeightCap
		}
		g.putUndirected(a.ID, b.ID, EdgeTag, w)
	}

	if declares(a.Dependencies, b.ID) {
		g.putDirected(a.ID, b.ID, EdgeDependency, declaredWeight)
	}
	if declares(b.Dependencies, a.ID) {
		g.putDirected(b.ID, a.ID, EdgeDependency, declaredWeight)
	}
	if declares(a.Related, b.ID) {
		g.putDirected(a.ID, b.ID, EdgeDeclaredRelated, declaredWeight)
	}
	if declares(b.Related, a.ID) {
		g.putDirected(b.ID, a.ID, EdgeDeclaredRelated, declaredWeight)
	}
}

func (g *Graph) putUndirected(a, b string, kind EdgeKind, weight float64) {
	if a == b {
		return
	}
	if b < a {
		a, b = b, a
	}
	g.edges[edgeKey{from: a, to: b, kind: kind}] = &Edge{From: a, To: b, Kind: kind, Weight: weight}
}

func (g *Graph) putDirected(from, to string, kind EdgeKind, weight float64) {
	if from == to {
		return
	}
	g.edges[edgeKey{from: from, to: to, kind: kind}] = &Edge{From: from, To: to, Kind: kind, Weight: weight}
}

// removeEdgesOf drops every edge touching id. Caller must hold the write lock.
func (g *Graph) removeEdgesOf(id string) {
	for key := range g.edges {
		if key.from == id || key.to == id {
			delete(g.edges, key)
		}
	}
}

func sharedTagCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[strings.ToLower(t)] = struct{}{}
	}
	seen := make(map[string]struct{})
	count := 0
	for _, t := range b {
		lt := strings.ToLower(t)
		if _, dup := seen[lt]; dup {
			continue
		}
		seen[lt] = struct{}{}
		if _, ok := set[lt]; ok {
			count++
		}
	}
	return count
}

func declares(list []string, id string) bool {
	for _, v := range list {
		if strings.EqualFold(v, id) {
			return true
		}
	}
	return false
}

// adjacency returns the outgoing weighted neighbors of id. Undirected edges
// are traversable from either endpoint, directed edges only from their
// source. Caller must hold at least the read lock.
func (g *Graph) adjacency(id string) map[string]float64 {
	out := make(map[string]float64)
	for key, e := range g.edges {
		var neighbor string
		switch key.kind {
		case EdgeCategory, EdgeTag:
			if key.from == id {
				neighbor = key.to
			} else if key.to == id {
				neighbor = key.from
			} else {
				continue
			}
		default:
			if key.from != id {
				continue
			}
			neighbor = key.to
		}
		if e.Weight > out[neighbor] {
			out[neighbor] = e.Weight
		}
	}
	return out
}

// Neighbor is a reachable node with the cumulative weight of its best path.
type Neighbor struct {
	ID     string
	Weight float64
}

// Neighbors returns all nodes reachable from skillID within maxHops, with
// cumulative weight equal to the product of traversed edge weights. When a
// node is reachable by multiple paths the highest cumulative weight wins.
// The origin itself is excluded. Results are ordered by weight descending,
// then by ascending ID.
func (g *Graph) Neighbors(skillID string, maxHops int) []Neighbor {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[skillID]; !ok || maxHops <= 0 {
		return nil
	}

	best := map[string]float64{skillID: 1.0}
	frontier := map[string]float64{skillID: 1.0}

	for hop := 0; hop < maxHops && len(frontier) > 0; hop++ {
		next := make(map[string]float64)
		for id, cum := range frontier {
			for neighbor, w := range g.adjacency(id) {
				cw := cum * w
				if cw <= best[neighbor] {
					continue
				}
				best[neighbor] = cw
				next[neighbor] = cw
			}
		}
		frontier = next
	}

	delete(best, skillID)

	out := make([]Neighbor, 0, len(best))
	for id, w := range best {
		out = append(out, Neighbor{ID: id, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight == out[j].Weight {
			return out[i].ID < out[j].ID
		}
		return out[i].Weight > out[j].Weight
	})
	return out
}

// MaxNeighborWeight returns the best cumulative weight from skillID to any
// of the given targets within maxHops, or 0 when none is reachable.
func (g *Graph) MaxNeighborWeight(skillID string, targets map[string]struct{}, maxHops int) float64 {
	var max float64
	for _, n := range g.Neighbors(skillID, maxHops) {
		if _, ok := targets[n.ID]; !ok {
			continue
		}
		if n.Weight > max {
			max = n.Weight
		}
	}
	return max
}
