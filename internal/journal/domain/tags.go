package domain

import "strings"

// ParseTags splits comma-separated tag input, as typed into the review form.
func ParseTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}

// NormalizeTags trims each tag, drops empties and duplicates, and keeps
// first-seen order. Returns nil when nothing is left.
func NormalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
