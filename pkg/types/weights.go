package types

import "fmt"

// HybridWeights holds the relative weight of the vector and graph signals
// when fusing scores. The pair does not have to sum to 1; Normalize divides
// by the sum at fusion time.
type HybridWeights struct {
	Vector float64 `json:"vector_weight"`
	Graph  float64 `json:"graph_weight"`
}

// Normalize returns the weights scaled so they sum to 1. A zero/zero pair
// falls back to pure vector weighting rather than dividing by zero.
func (w HybridWeights) Normalize() HybridWeights {
	sum := w.Vector + w.Graph
	if sum == 0 {
		return HybridWeights{Vector: 1, Graph: 0}
	}
	return HybridWeights{Vector: w.Vector / sum, Graph: w.Graph / sum}
}

// WeightPreset is a closed enumeration of named weight configurations.
// PresetCustom signals that explicit HybridWeights are supplied alongside.
type WeightPreset string

const (
	PresetSemanticFocused WeightPreset = "semantic_focused"
	PresetBalanced        WeightPreset = "balanced"
	PresetGraphFocused    WeightPreset = "graph_focused"
	PresetCustom          WeightPreset = "custom"
)

var presetWeights = map[WeightPreset]HybridWeights{
	PresetSemanticFocused: {Vector: 0.7, Graph: 0.3},
	PresetBalanced:        {Vector: 0.5, Graph: 0.5},
	PresetGraphFocused:    {Vector: 0.3, Graph: 0.7},
}

// ResolvePreset maps a preset name to its fixed weight pair.
// PresetCustom is not resolvable here; callers carry their own weights.
func ResolvePreset(p WeightPreset) (HybridWeights, error) {
	if w, ok := presetWeights[p]; ok {
		return w, nil
	}
	return HybridWeights{}, fmt.Errorf("unknown weight preset: %q", p)
}
