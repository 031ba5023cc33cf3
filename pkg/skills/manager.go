// Package skills loads the skill corpus from disk. Each skill lives in its
// own directory as a SKILL.md file with YAML frontmatter followed by the
// markdown instruction body.
package skills

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/skillmesh/skillmesh/pkg/types"
)

// ErrSkillNotFound is returned when no skill with the requested ID exists.
var ErrSkillNotFound = errors.New("skill not found")

// Manager discovers and loads skills from one or more corpus roots.
type Manager interface {
	// DiscoverSkills enumerates the full corpus.
	DiscoverSkills() ([]types.Skill, error)

	// LoadSkill loads one skill by ID. Returns ErrSkillNotFound on a miss.
	LoadSkill(id string) (types.Skill, error)

	// Categories returns category names with their skill counts, ordered by
	// descending count then ascending name.
	Categories() ([]CategoryCount, error)
}

// CategoryCount is one entry of the category listing.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FileManager is the file-based Manager implementation.
type FileManager struct {
	roots []string

	mu    sync.RWMutex
	cache map[string]types.Skill
}

// NewFileManager creates a manager scanning the given corpus roots.
func NewFileManager(roots ...string) *FileManager {
	return &FileManager{roots: roots}
}

// DiscoverSkills walks every root for SKILL.md files and parses them.
// Unreadable or malformed skill files are skipped; a missing root is not an
// error (an empty corpus is valid).
func (m *FileManager) DiscoverSkills() ([]types.Skill, error) {
	seen := make(map[string]types.Skill)

	for _, root := range m.roots {
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("cannot stat corpus root %s: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("corpus root is not a directory: %s", root)
		}

		repoID := filepath.Base(root)
		walkFn := func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || d.Name() != "SKILL.md" {
				return nil
			}
			skill, err := parseSkillFile(path, repoID)
			if err != nil {
				// A malformed skill must not poison the whole corpus.
				return nil
			}
			// First occurrence of an ID wins across roots.
			if _, dup := seen[skill.ID]; !dup {
				seen[skill.ID] = skill
			}
			return nil
		}
		if err := filepath.WalkDir(root, walkFn); err != nil {
			return nil, fmt.Errorf("cannot scan corpus root %s: %w", root, err)
		}
	}

	out := make([]types.Skill, 0, len(seen))
	for _, s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	m.mu.Lock()
	m.cache = seen
	m.mu.Unlock()

	return out, nil
}

// LoadSkill returns the skill with the given ID, rescanning the corpus when
// the ID is not cached yet.
func (m *FileManager) LoadSkill(id string) (types.Skill, error) {
	m.mu.RLock()
	cached, ok := m.cache[id]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	if _, err := m.DiscoverSkills(); err != nil {
		return types.Skill{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.cache[id]; ok {
		return s, nil
	}
	return types.Skill{}, fmt.Errorf("%w: %s", ErrSkillNotFound, id)
}

// Categories aggregates the corpus by category.
func (m *FileManager) Categories() ([]CategoryCount, error) {
	all, err := m.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, s := range all {
		cat := strings.ToLower(strings.TrimSpace(s.Category))
		if cat == "" {
			cat = "uncategorized"
		}
		counts[cat]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, CategoryCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Name < out[j].Name
		}
		return out[i].Count > out[j].Count
	})
	return out, nil
}
