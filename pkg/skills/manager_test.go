package skills_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/skillmesh/skillmesh/pkg/skills"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, root, dir, content string) {
	t.Helper()
	full := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(full, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(full, "SKILL.md"), []byte(content), 0o644))
}

const reviewSkill = `---
name: Code Review
description: Reviews pull requests for style and correctness.
category: Engineering
tags:
  - review
  - quality
dependencies: [linting]
version: "1.2.0"
maturity: stable
---

# Code Review

Check diffs against the style guide.
`

func TestDiscoverSkills(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "code-review", reviewSkill)
	writeSkill(t, root, "deploys", "---\nname: Deploys\ncategory: ops\n---\nShip it safely.\n")

	m := skills.NewFileManager(root)
	all, err := m.DiscoverSkills()
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Results are ordered by ascending ID.
	assert.Equal(t, "code-review", all[0].ID)
	assert.Equal(t, "deploys", all[1].ID)

	s := all[0]
	assert.Equal(t, "Code Review", s.Name)
	assert.Equal(t, "Reviews pull requests for style and correctness.", s.Description)
	assert.Equal(t, "engineering", s.Category, "category is lowercased")
	assert.Equal(t, []string{"review", "quality"}, s.Tags)
	assert.Equal(t, []string{"linting"}, s.Dependencies)
	assert.Equal(t, "1.2.0", s.Version)
	assert.Contains(t, s.Instructions, "Check diffs against the style guide.")
	assert.Equal(t, filepath.Base(root), s.RepoID)
	assert.Equal(t, map[string]string{"maturity": "stable"}, s.Extra)
}

func TestDiscoverSkillsIDDefaultsToDirName(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "implicit-id", "---\ndescription: No explicit id.\n---\nBody.\n")

	m := skills.NewFileManager(root)
	all, err := m.DiscoverSkills()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "implicit-id", all[0].ID)
	assert.Equal(t, "implicit-id", all[0].Name, "name falls back to the ID")
}

func TestDiscoverSkillsDescriptionFromBody(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "terse", "---\nname: Terse\n---\n# Heading\n\nFirst real paragraph.\n\nMore text.\n")

	m := skills.NewFileManager(root)
	all, err := m.DiscoverSkills()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "First real paragraph.", all[0].Description)
}

func TestDiscoverSkillsNoFrontmatter(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "plain", "Just markdown, no frontmatter.\n")

	m := skills.NewFileManager(root)
	all, err := m.DiscoverSkills()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "plain", all[0].ID)
	assert.Contains(t, all[0].Instructions, "Just markdown")
}

func TestDiscoverSkillsSkipsMalformed(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "good", "---\nname: Good\n---\nBody.\n")
	writeSkill(t, root, "bad", "---\nname: [unclosed\n---\nBody.\n")

	m := skills.NewFileManager(root)
	all, err := m.DiscoverSkills()
	require.NoError(t, err, "a malformed skill must not poison the corpus")
	require.Len(t, all, 1)
	assert.Equal(t, "good", all[0].ID)
}

func TestDiscoverSkillsMissingRoot(t *testing.T) {
	m := skills.NewFileManager(filepath.Join(t.TempDir(), "absent"))
	all, err := m.DiscoverSkills()
	require.NoError(t, err, "a missing root is an empty corpus, not an error")
	assert.Empty(t, all)
}

func TestDiscoverSkillsFirstRootWins(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeSkill(t, rootA, "shared", "---\nname: From A\n---\nBody.\n")
	writeSkill(t, rootB, "shared", "---\nname: From B\n---\nBody.\n")

	m := skills.NewFileManager(rootA, rootB)
	all, err := m.DiscoverSkills()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "From A", all[0].Name)
}

func TestDiscoverSkillsCommaSeparatedLists(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "listy", "---\nname: Listy\ntags: go, testing , \n---\nBody.\n")

	m := skills.NewFileManager(root)
	all, err := m.DiscoverSkills()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, []string{"go", "testing"}, all[0].Tags)
}

func TestLoadSkill(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "code-review", reviewSkill)

	m := skills.NewFileManager(root)

	// LoadSkill rescans when the cache is cold.
	s, err := m.LoadSkill("code-review")
	require.NoError(t, err)
	assert.Equal(t, "Code Review", s.Name)

	_, err = m.LoadSkill("absent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, skills.ErrSkillNotFound))
}

func TestCategories(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "a", "---\nname: A\ncategory: ops\n---\nBody.\n")
	writeSkill(t, root, "b", "---\nname: B\ncategory: Ops\n---\nBody.\n")
	writeSkill(t, root, "c", "---\nname: C\ncategory: frontend\n---\nBody.\n")
	writeSkill(t, root, "d", "---\nname: D\n---\nBody.\n")

	m := skills.NewFileManager(root)
	cats, err := m.Categories()
	require.NoError(t, err)

	require.Len(t, cats, 3)
	assert.Equal(t, skills.CategoryCount{Name: "ops", Count: 2}, cats[0])
	// Ties are broken by ascending name.
	assert.Equal(t, skills.CategoryCount{Name: "frontend", Count: 1}, cats[1])
	assert.Equal(t, skills.CategoryCount{Name: "uncategorized", Count: 1}, cats[2])
}
