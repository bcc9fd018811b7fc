package domain

import "strings"

// GenerateSlug lower-cases title and collapses every run of characters
// outside [a-z0-9] into a single hyphen, trimming hyphens at both ends.
// The result may be empty; callers reject that as an invalid title.
func GenerateSlug(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}
