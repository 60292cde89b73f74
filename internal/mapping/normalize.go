package mapping

import "strings"

// punctuation stripped from cache keys. Hyphens are kept so hyphenated
// names stay distinct.
const strippedPunctuation = `.,!?;:'"()`

// Normalize canonicalizes text for use as a memoization key: lowercase,
// whitespace runs collapsed to single spaces, common punctuation removed,
// ends trimmed. The result is only ever a lookup key, never output.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	collapsed := strings.Join(strings.Fields(lowered), " ")

	var b strings.Builder
	b.Grow(len(collapsed))
	for _, r := range collapsed {
		if strings.ContainsRune(strippedPunctuation, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
