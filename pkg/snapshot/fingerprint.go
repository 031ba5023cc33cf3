// Package snapshot tracks what the indexes last saw of each skill, so a
// reindex can skip unchanged skills and detect deletions.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/skillmesh/skillmesh/pkg/types"
)

// fieldSep is unlikely to occur in skill metadata; it keeps adjacent fields
// from colliding in the hash input.
const fieldSep = "\x1f"

// Fingerprint returns a deterministic hash over the indexable content of a
// skill. It changes exactly when the content that feeds the vector or graph
// index changes. Not a security primitive.
func Fingerprint(s types.Skill) string {
	h := sha256.New()
	parts := []string{
		strings.TrimSpace(s.Name),
		strings.TrimSpace(s.Description),
		strings.TrimSpace(s.Instructions),
		strings.Join(normalizeList(s.Tags), ","),
		strings.ToLower(strings.TrimSpace(s.Category)),
		strings.Join(normalizeList(s.Dependencies), ","),
		strings.TrimSpace(s.Version),
	}
	h.Write([]byte(strings.Join(parts, fieldSep)))
	return hex.EncodeToString(h.Sum(nil))
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
