// Package suggest produces "did you mean" hints with sahilm/fuzzy.
package suggest

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// Closest returns up to three candidates that fuzzily match pattern,
// best match first.
func Closest(pattern string, candidates []string) []string {
	if pattern == "" || len(candidates) == 0 {
		return nil
	}
	matches := fuzzy.Find(pattern, candidates)
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// Hint formats the closest candidates as " (did you mean a, b?)", or ""
// when nothing matches.
func Hint(pattern string, candidates []string) string {
	closest := Closest(pattern, candidates)
	if len(closest) == 0 {
		return ""
	}
	return " (did you mean " + strings.Join(closest, ", ") + "?)"
}
