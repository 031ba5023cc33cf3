package graph_test

import (
	"testing"

	"github.com/skillmesh/skillmesh/pkg/graph"
	"github.com/skillmesh/skillmesh/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertNodeSharedCategory(t *testing.T) {
	g := graph.New()
	g.UpsertNode(types.Skill{ID: "a", Category: "devops"})
	g.UpsertNode(types.Skill{ID: "b", Category: "devops"})

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())

	neighbors := g.Neighbors("a", 1)
	require.Len(t, neighbors, 1)
	assert.Equal(t, "b", neighbors[0].ID)
	assert.InDelta(t, 1.0, neighbors[0].Weight, 1e-9)
}

func TestUpsertNodeDifferentCategoriesNoEdge(t *testing.T) {
	g := graph.New()
	g.UpsertNode(types.Skill{ID: "a", Category: "devops"})
	g.UpsertNode(types.Skill{ID: "b", Category: "frontend"})

	assert.Equal(t, 0, g.EdgeCount())
	assert.Empty(t, g.Neighbors("a", 2))
}

func TestEmptyCategoryNoEdge(t *testing.T) {
	g := graph.New()
	g.UpsertNode(types.Skill{ID: "a"})
	g.UpsertNode(types.Skill{ID: "b"})

	assert.Equal(t, 0, g.EdgeCount())
}

func TestSharedTagWeights(t *testing.T) {
	tests := []struct {
		name     string
		tagsA    []string
		tagsB    []string
		expected float64
	}{
		{
			name:     "single shared tag",
			tagsA:    []string{"go"},
			tagsB:    []string{"go"},
			expected: 0.3,
		},
		{
			name:     "two shared tags additive",
			tagsA:    []string{"go", "testing"},
			tagsB:    []string{"go", "testing"},
			expected: 0.6,
		},
		{
			name:     "four shared tags capped at 1.0",
			tagsA:    []string{"a", "b", "c", "d"},
			tagsB:    []string{"a", "b", "c", "d"},
			expected: 1.0,
		},
		{
			name:     "case-insensitive tag match",
			tagsA:    []string{"Go"},
			tagsB:    []string{"go"},
			expected: 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New()
			g.UpsertNode(types.Skill{ID: "a", Tags: tt.tagsA})
			g.UpsertNode(types.Skill{ID: "b", Tags: tt.tagsB})

			neighbors := g.Neighbors("a", 1)
			require.Len(t, neighbors, 1)
			assert.InDelta(t, tt.expected, neighbors[0].Weight, 1e-9)
		})
	}
}

func TestDependencyEdgeDirected(t *testing.T) {
	g := graph.New()
	g.UpsertNode(types.Skill{ID: "a", Dependencies: []string{"b"}})
	g.UpsertNode(types.Skill{ID: "b"})

	// Traversable from the declarer.
	fromA := g.Neighbors("a", 1)
	require.Len(t, fromA, 1)
	assert.Equal(t, "b", fromA[0].ID)
	assert.InDelta(t, 0.6, fromA[0].Weight, 1e-9)

	// Not traversable from the target.
	assert.Empty(t, g.Neighbors("b", 1))
}

func TestDeclaredRelatedEdge(t *testing.T) {
	g := graph.New()
	g.UpsertNode(types.Skill{ID: "a", Related: []string{"b"}})
	g.UpsertNode(types.Skill{ID: "b"})

	fromA := g.Neighbors("a", 1)
	require.Len(t, fromA, 1)
	assert.InDelta(t, 0.6, fromA[0].Weight, 1e-9)
	assert.Empty(t, g.Neighbors("b", 1))
}

func TestNeighborsMultiHopProduct(t *testing.T) {
	g := graph.New()
	// a -tag- b (0.3), b -category- c (1.0); a reaches c at 0.3*1.0.
	g.UpsertNode(types.Skill{ID: "a", Tags: []string{"x"}})
	g.UpsertNode(types.Skill{ID: "b", Tags: []string{"x"}, Category: "infra"})
	g.UpsertNode(types.Skill{ID: "c", Category: "infra"})

	one := g.Neighbors("a", 1)
	require.Len(t, one, 1)
	assert.Equal(t, "b", one[0].ID)

	two := g.Neighbors("a", 2)
	require.Len(t, two, 2)
	assert.Equal(t, "b", two[0].ID)
	assert.InDelta(t, 0.3, two[0].Weight, 1e-9)
	assert.Equal(t, "c", two[1].ID)
	assert.InDelta(t, 0.3, two[1].Weight, 1e-9)
}

func TestNeighborsBestPathWins(t *testing.T) {
	g := graph.New()
	// a and c share a category (direct weight 1.0) and also connect through
	// b via tags (0.3 * 0.3 = 0.09); the direct path must win.
	g.UpsertNode(types.Skill{ID: "a", Category: "infra", Tags: []string{"x"}})
	g.UpsertNode(types.Skill{ID: "b", Tags: []string{"x", "y"}})
	g.UpsertNode(types.Skill{ID: "c", Category: "infra", Tags: []string{"y"}})

	neighbors := g.Neighbors("a", 2)
	require.NotEmpty(t, neighbors)
	assert.Equal(t, "c", neighbors[0].ID)
	assert.InDelta(t, 1.0, neighbors[0].Weight, 1e-9)
}

func TestNeighborsExcludesSelf(t *testing.T) {
	g := graph.New()
	g.UpsertNode(types.Skill{ID: "a", Category: "infra"})
	g.UpsertNode(types.Skill{ID: "b", Category: "infra"})

	for _, n := range g.Neighbors("a", 3) {
		assert.NotEqual(t, "a", n.ID)
	}
}

func TestNeighborsUnknownNode(t *testing.T) {
	g := graph.New()
	g.UpsertNode(types.Skill{ID: "a", Category: "infra"})

	assert.Nil(t, g.Neighbors("missing", 2))
	assert.Nil(t, g.Neighbors("a", 0))
}

func TestNeighborsOrdering(t *testing.T) {
	g := graph.New()
	g.UpsertNode(types.Skill{ID: "seed", Category: "infra", Tags: []string{"x"}})
	g.UpsertNode(types.Skill{ID: "strong", Category: "infra"})
	g.UpsertNode(types.Skill{ID: "weak", Tags: []string{"x"}})
	g.UpsertNode(types.Skill{ID: "also-strong", Category: "infra"})

	neighbors := g.Neighbors("seed", 1)
	require.Len(t, neighbors, 3)
	// Weight descending, ties broken by ascending ID.
	assert.Equal(t, "also-strong", neighbors[0].ID)
	assert.Equal(t, "strong", neighbors[1].ID)
	assert.Equal(t, "weak", neighbors[2].ID)
}

func TestRemoveNode(t *testing.T) {
	g := graph.New()
	g.UpsertNode(types.Skill{ID: "a", Category: "infra"})
	g.UpsertNode(types.Skill{ID: "b", Category: "infra"})
	require.Equal(t, 1, g.EdgeCount())

	g.RemoveNode("b")
	assert.False(t, g.HasNode("b"))
	assert.Equal(t, 1, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
	assert.Empty(t, g.Neighbors("a", 2))

	// Removing an absent node is a no-op.
	g.RemoveNode("missing")
	assert.Equal(t, 1, g.NodeCount())
}

func TestUpsertNodeRecomputesEdges(t *testing.T) {
	g := graph.New()
	g.UpsertNode(types.Skill{ID: "a", Category: "infra"})
	g.UpsertNode(types.Skill{ID: "b", Category: "infra"})
	require.Equal(t, 1, g.EdgeCount())

	// Moving b to a different category must drop the old category edge.
	g.UpsertNode(types.Skill{ID: "b", Category: "frontend"})
	assert.Equal(t, 0, g.EdgeCount())
	assert.Empty(t, g.Neighbors("a", 2))
}

func TestMaxNeighborWeight(t *testing.T) {
	g := graph.New()
	g.UpsertNode(types.Skill{ID: "a", Category: "infra", Tags: []string{"x"}})
	g.UpsertNode(types.Skill{ID: "b", Category: "infra"})
	g.UpsertNode(types.Skill{ID: "c", Tags: []string{"x"}})

	targets := map[string]struct{}{"b": {}, "c": {}}
	assert.InDelta(t, 1.0, g.MaxNeighborWeight("a", targets, 2), 1e-9)

	assert.Zero(t, g.MaxNeighborWeight("a", map[string]struct{}{"missing": {}}, 2))
	assert.Zero(t, g.MaxNeighborWeight("missing", targets, 2))
}
