package quiz

import "strings"

// DeriveSlug maps a title to its URL-safe identifier: lowercased, trimmed,
// with internal whitespace runs collapsed to single hyphens. Create and
// update must share this derivation so repeated creates with equivalent
// titles dedupe onto the same row. Idempotent on already-normalized input.
func DeriveSlug(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), "-")
}
