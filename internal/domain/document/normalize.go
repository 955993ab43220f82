package document

import "regexp"

// tagPattern also matches an unterminated trailing "<..." fragment.
var tagPattern = regexp.MustCompile(`<[^>]*>?`)

// Normalize replaces every markup tag with a single space so the model sees plain prose.
// Entities are left as-is and whitespace is not collapsed.
func Normalize(raw string) string {
	return tagPattern.ReplaceAllString(raw, " ")
}
