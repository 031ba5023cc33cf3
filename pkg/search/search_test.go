package search_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/skillmesh/skillmesh/pkg/graph"
	"github.com/skillmesh/skillmesh/pkg/search"
	"github.com/skillmesh/skillmesh/pkg/skills"
	"github.com/skillmesh/skillmesh/pkg/types"
	"github.com/skillmesh/skillmesh/pkg/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dims = 3

type mockManager struct {
	skills map[string]types.Skill
	err    error
}

func (m *mockManager) DiscoverSkills() ([]types.Skill, error) {
	out := make([]types.Skill, 0, len(m.skills))
	for _, s := range m.skills {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockManager) LoadSkill(id string) (types.Skill, error) {
	if m.err != nil {
		return types.Skill{}, m.err
	}
	s, ok := m.skills[id]
	if !ok {
		return types.Skill{}, fmt.Errorf("%w: %s", skills.ErrSkillNotFound, id)
	}
	return s, nil
}

func (m *mockManager) Categories() ([]skills.CategoryCount, error) {
	return nil, nil
}

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.vec
	}
	return out, nil
}

func (m *mockEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.vec, nil
}

func (m *mockEmbedder) Dimensions() int { return dims }
func (m *mockEmbedder) Close() error    { return nil }

type fixture struct {
	scorer  *search.Scorer
	vectors *vector.Index
	graph   *graph.Graph
	manager *mockManager
}

// newFixture indexes the given skills with the given embeddings into a
// fresh scorer.
func newFixture(t *testing.T, entries map[string][]float32, skillSet []types.Skill) *fixture {
	t.Helper()

	vectors := vector.NewIndex(dims)
	g := graph.New()
	manager := &mockManager{skills: make(map[string]types.Skill)}

	for _, s := range skillSet {
		manager.skills[s.ID] = s
		g.UpsertNode(s)
		if vec, ok := entries[s.ID]; ok {
			require.NoError(t, vectors.Upsert(s.ID, vec))
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	emb := &mockEmbedder{vec: []float32{1, 0, 0}}
	return &fixture{
		scorer:  search.NewScorer(vectors, g, emb, manager, logger),
		vectors: vectors,
		graph:   g,
		manager: manager,
	}
}

func threeSkills() []types.Skill {
	return []types.Skill{
		{ID: "a", Name: "A", Category: "infra", Tags: []string{"go", "cloud"}},
		{ID: "b", Name: "B", Category: "infra", Tags: []string{"go"}},
		{ID: "c", Name: "C", Category: "frontend", Tags: []string{"react"}},
	}
}

func threeEmbeddings() map[string][]float32 {
	return map[string][]float32{
		"a": {1, 0, 0},
		"b": {0.8, 0.2, 0},
		"c": {0, 1, 0},
	}
}

func TestSearchRanksBySimilarity(t *testing.T) {
	f := newFixture(t, threeEmbeddings(), threeSkills())

	results, err := f.scorer.Search(context.Background(), search.Request{Query: "cloud infra"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Skill.ID)
	assert.Equal(t, "b", results[1].Skill.ID)
	assert.Equal(t, "c", results[2].Skill.ID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	assert.GreaterOrEqual(t, results[1].Score, results[2].Score)
}

func TestSearchDeterministic(t *testing.T) {
	f := newFixture(t, threeEmbeddings(), threeSkills())

	req := search.Request{Query: "cloud infra", Preset: types.PresetBalanced}
	first, err := f.scorer.Search(context.Background(), req)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := f.scorer.Search(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSearchBlankQueryWithoutEmbedding(t *testing.T) {
	f := newFixture(t, threeEmbeddings(), threeSkills())

	results, err := f.scorer.Search(context.Background(), search.Request{Query: "   "})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestSearchWithCallerEmbedding(t *testing.T) {
	f := newFixture(t, threeEmbeddings(), threeSkills())

	// A provided embedding must bypass the embedder entirely.
	emb := &mockEmbedder{err: errors.New("embedder must not be called")}
	scorer := search.NewScorer(f.vectors, f.graph, emb, f.manager, nil)

	results, err := scorer.Search(context.Background(), search.Request{
		Embedding: []float32{0, 1, 0},
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "c", results[0].Skill.ID)
}

func TestSearchEmbedderFailure(t *testing.T) {
	f := newFixture(t, threeEmbeddings(), threeSkills())
	emb := &mockEmbedder{err: errors.New("provider down")}
	scorer := search.NewScorer(f.vectors, f.graph, emb, f.manager, nil)

	_, err := scorer.Search(context.Background(), search.Request{Query: "anything"})
	assert.Error(t, err)
}

func TestSearchLimit(t *testing.T) {
	f := newFixture(t, threeEmbeddings(), threeSkills())

	results, err := f.scorer.Search(context.Background(), search.Request{Query: "q", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchLimitHardCap(t *testing.T) {
	skillSet := make([]types.Skill, 0, 60)
	entries := make(map[string][]float32, 60)
	for i := 0; i < 60; i++ {
		id := fmt.Sprintf("skill-%03d", i)
		skillSet = append(skillSet, types.Skill{ID: id, Name: id})
		entries[id] = []float32{1, float32(i) / 100, 0}
	}
	f := newFixture(t, entries, skillSet)

	results, err := f.scorer.Search(context.Background(), search.Request{Query: "q", Limit: 500})
	require.NoError(t, err)
	assert.Len(t, results, search.MaxLimit)
}

func TestSearchDefaultLimit(t *testing.T) {
	skillSet := make([]types.Skill, 0, 20)
	entries := make(map[string][]float32, 20)
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("skill-%03d", i)
		skillSet = append(skillSet, types.Skill{ID: id, Name: id})
		entries[id] = []float32{1, float32(i) / 100, 0}
	}
	f := newFixture(t, entries, skillSet)

	results, err := f.scorer.Search(context.Background(), search.Request{Query: "q"})
	require.NoError(t, err)
	assert.Len(t, results, search.DefaultLimit)
}

func TestSearchCustomPresetRequiresWeights(t *testing.T) {
	f := newFixture(t, threeEmbeddings(), threeSkills())

	_, err := f.scorer.Search(context.Background(), search.Request{
		Query:  "q",
		Preset: types.PresetCustom,
	})
	assert.Error(t, err)

	// With explicit weights the custom preset is fine.
	w := types.HybridWeights{Vector: 0.9, Graph: 0.1}
	_, err = f.scorer.Search(context.Background(), search.Request{
		Query:   "q",
		Preset:  types.PresetCustom,
		Weights: &w,
	})
	assert.NoError(t, err)
}

func TestSearchUnknownPreset(t *testing.T) {
	f := newFixture(t, threeEmbeddings(), threeSkills())

	_, err := f.scorer.Search(context.Background(), search.Request{
		Query:  "q",
		Preset: types.WeightPreset("bogus"),
	})
	assert.Error(t, err)
}

func TestSearchMatchType(t *testing.T) {
	tests := []struct {
		name     string
		weights  types.HybridWeights
		expected types.MatchType
	}{
		{"pure vector", types.HybridWeights{Vector: 1, Graph: 0}, types.MatchVector},
		{"pure graph", types.HybridWeights{Vector: 0, Graph: 1}, types.MatchGraph},
		{"hybrid", types.HybridWeights{Vector: 0.5, Graph: 0.5}, types.MatchHybrid},
		{"zero pair normalizes to vector", types.HybridWeights{}, types.MatchVector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, threeEmbeddings(), threeSkills())
			w := tt.weights
			results, err := f.scorer.Search(context.Background(), search.Request{
				Query:   "q",
				Weights: &w,
			})
			require.NoError(t, err)
			require.NotEmpty(t, results)
			for _, r := range results {
				assert.Equal(t, tt.expected, r.MatchType)
			}
		})
	}
}

func TestSearchGraphSignalBoostsConnected(t *testing.T) {
	// b and a share a category; d is a vector near-tie with b but has no
	// graph connection to the other candidates. Under graph-heavy weights b
	// must outrank d.
	skillSet := []types.Skill{
		{ID: "a", Name: "A", Category: "infra"},
		{ID: "b", Name: "B", Category: "infra"},
		{ID: "d", Name: "D", Category: "standalone"},
	}
	entries := map[string][]float32{
		"a": {1, 0, 0},
		"b": {0.7, 0.3, 0},
		"d": {0.71, 0.29, 0},
	}
	f := newFixture(t, entries, skillSet)

	results, err := f.scorer.Search(context.Background(), search.Request{
		Query:  "q",
		Preset: types.PresetGraphFocused,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	pos := map[string]int{}
	for i, r := range results {
		pos[r.Skill.ID] = i
	}
	assert.Less(t, pos["b"], pos["d"])
}

func TestSearchScoreBounds(t *testing.T) {
	f := newFixture(t, threeEmbeddings(), threeSkills())

	results, err := f.scorer.Search(context.Background(), search.Request{
		Query:  "q",
		Preset: types.PresetBalanced,
	})
	require.NoError(t, err)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 1e-6)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
}

func TestSearchFilters(t *testing.T) {
	tests := []struct {
		name     string
		filters  types.SearchFilters
		expected []string
	}{
		{
			name:     "category exact case-insensitive",
			filters:  types.SearchFilters{Category: "INFRA"},
			expected: []string{"a", "b"},
		},
		{
			name:     "tag substring",
			filters:  types.SearchFilters{Tags: []string{"reac"}},
			expected: []string{"c"},
		},
		{
			name:     "all tags must match",
			filters:  types.SearchFilters{Tags: []string{"go", "cloud"}},
			expected: []string{"a"},
		},
		{
			name:     "toolchain matches tags",
			filters:  types.SearchFilters{Toolchain: "go"},
			expected: []string{"a", "b"},
		},
		{
			name:     "no match",
			filters:  types.SearchFilters{Category: "absent"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, threeEmbeddings(), threeSkills())
			results, err := f.scorer.Search(context.Background(), search.Request{
				Query:   "q",
				Filters: tt.filters,
			})
			require.NoError(t, err)

			got := make([]string, 0, len(results))
			for _, r := range results {
				got = append(got, r.Skill.ID)
			}
			assert.ElementsMatch(t, tt.expected, got)
		})
	}
}

func TestSearchCandidateLoadFailure(t *testing.T) {
	f := newFixture(t, threeEmbeddings(), threeSkills())
	f.manager.err = errors.New("corpus unreadable")

	_, err := f.scorer.Search(context.Background(), search.Request{Query: "q"})
	assert.Error(t, err, "a failed candidate load must error, not truncate")
}

func TestSearchEmptyIndex(t *testing.T) {
	f := newFixture(t, nil, nil)

	results, err := f.scorer.Search(context.Background(), search.Request{Query: "q"})
	require.NoError(t, err)
	assert.Empty(t, results)
}
