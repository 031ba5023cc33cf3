package types

import "time"

// Skill is an immutable record describing one discrete agent capability,
// loaded from the corpus by the skill manager. The field set is closed;
// unknown frontmatter keys are preserved in Extra for forward compatibility.
type Skill struct {
	ID            string            `json:"id" yaml:"id"`
	Name          string            `json:"name" yaml:"name"`
	Description   string            `json:"description" yaml:"description"`
	Instructions  string            `json:"instructions" yaml:"-"`
	Category      string            `json:"category" yaml:"category"`
	Tags          []string          `json:"tags" yaml:"tags"`
	Dependencies  []string          `json:"dependencies" yaml:"dependencies"`
	Related       []string          `json:"related,omitempty" yaml:"related"`
	Examples      []string          `json:"examples,omitempty" yaml:"examples"`
	SourcePath    string            `json:"source_path" yaml:"-"`
	RepoID        string            `json:"repo_id" yaml:"repo_id"`
	Version       string            `json:"version,omitempty" yaml:"version"`
	Author        string            `json:"author,omitempty" yaml:"author"`
	Compatibility string            `json:"compatibility,omitempty" yaml:"compatibility"`
	Extra         map[string]string `json:"extra,omitempty" yaml:"-"`
}

// MatchType identifies which retrieval signal produced a scored skill.
type MatchType string

const (
	MatchVector MatchType = "vector"
	MatchGraph  MatchType = "graph"
	MatchHybrid MatchType = "hybrid"
)

// ScoredSkill pairs a skill with its fused relevance score for one query.
// It is a query-time derivation and is never persisted.
type ScoredSkill struct {
	Skill     Skill     `json:"skill"`
	Score     float64   `json:"score"`
	MatchType MatchType `json:"match_type"`
}

// IndexStats is a point-in-time snapshot of index sizes. It is recomputed
// on demand and carries no authoritative state.
type IndexStats struct {
	TotalSkills     int       `json:"total_skills"`
	VectorStoreSize int       `json:"vector_store_size"`
	GraphNodes      int       `json:"graph_nodes"`
	GraphEdges      int       `json:"graph_edges"`
	LastIndexedAt   time.Time `json:"last_indexed_at"`
}

// SearchFilters narrows search results by skill metadata before truncation.
// Category matching is case-insensitive exact; toolchain and tag matching
// is case-insensitive substring.
type SearchFilters struct {
	Toolchain string   `json:"toolchain,omitempty"`
	Category  string   `json:"category,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// ToolchainInfo summarizes the detected toolchain of a project directory.
type ToolchainInfo struct {
	PrimaryLanguage    string   `json:"primary_language"`
	SecondaryLanguages []string `json:"secondary_languages"`
	Frameworks         []string `json:"frameworks"`
	BuildTools         []string `json:"build_tools"`
	PackageManagers    []string `json:"package_managers"`
	TestFrameworks     []string `json:"test_frameworks"`
	Confidence         float64  `json:"confidence"`
}
