package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skillmesh/skillmesh/pkg/types"
)

// knownKeys are frontmatter fields mapped onto the closed Skill record.
// Everything else lands in Skill.Extra.
var knownKeys = map[string]struct{}{
	"id": {}, "name": {}, "description": {}, "category": {}, "tags": {},
	"dependencies": {}, "related": {}, "examples": {}, "version": {},
	"author": {}, "compatibility": {}, "repo_id": {},
}

// parseSkillFile reads a SKILL.md file and builds the Skill value. The skill
// ID defaults to the containing directory name when the frontmatter does not
// set one.
func parseSkillFile(path, repoID string) (types.Skill, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Skill{}, fmt.Errorf("cannot read %s: %w", path, err)
	}

	meta, body, err := splitFrontmatter(string(b))
	if err != nil {
		return types.Skill{}, fmt.Errorf("invalid frontmatter in %s: %w", path, err)
	}

	skill := types.Skill{
		ID:            stringField(meta, "id"),
		Name:          stringField(meta, "name"),
		Description:   stringField(meta, "description"),
		Instructions:  strings.TrimSpace(body),
		Category:      strings.ToLower(stringField(meta, "category")),
		Tags:          listField(meta, "tags"),
		Dependencies:  listField(meta, "dependencies"),
		Related:       listField(meta, "related"),
		Examples:      listField(meta, "examples"),
		SourcePath:    path,
		RepoID:        repoID,
		Version:       stringField(meta, "version"),
		Author:        stringField(meta, "author"),
		Compatibility: stringField(meta, "compatibility"),
	}

	if skill.ID == "" {
		skill.ID = filepath.Base(filepath.Dir(path))
	}
	if skill.Name == "" {
		skill.Name = skill.ID
	}
	if skill.Description == "" {
		skill.Description = firstParagraph(body)
	}
	if rid := stringField(meta, "repo_id"); rid != "" {
		skill.RepoID = rid
	}

	for k, v := range meta {
		if _, known := knownKeys[k]; known {
			continue
		}
		if sv, ok := scalarString(v); ok {
			if skill.Extra == nil {
				skill.Extra = make(map[string]string)
			}
			skill.Extra[k] = sv
		}
	}

	return skill, nil
}

// splitFrontmatter separates the leading YAML block (delimited by "---"
// lines) from the markdown body. Content without frontmatter parses as an
// empty metadata map.
func splitFrontmatter(content string) (map[string]any, string, error) {
	s := strings.TrimPrefix(content, "\ufeff")
	if !strings.HasPrefix(s, "---") {
		return map[string]any{}, content, nil
	}

	parts := strings.SplitN(s, "---", 3)
	if len(parts) < 3 {
		return map[string]any{}, content, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(parts[1]), &raw); err != nil {
		return nil, "", err
	}
	if raw == nil {
		raw = map[string]any{}
	}

	meta := make(map[string]any, len(raw))
	for k, v := range raw {
		meta[strings.ToLower(k)] = v
	}
	return meta, strings.TrimPrefix(parts[2], "\n"), nil
}

func stringField(meta map[string]any, key string) string {
	if s, ok := scalarString(meta[key]); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// listField accepts either a YAML sequence or a comma-separated scalar.
func listField(meta map[string]any, key string) []string {
	switch v := meta[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := scalarString(item); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	case string:
		var out []string
		for _, s := range strings.Split(v, ",") {
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case int:
		return fmt.Sprintf("%d", s), true
	case float64:
		return fmt.Sprintf("%g", s), true
	case bool:
		return fmt.Sprintf("%t", s), true
	default:
		return "", false
	}
}

func firstParagraph(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line
	}
	return ""
}
