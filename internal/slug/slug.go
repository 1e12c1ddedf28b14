// Package slug derives URL-safe identifiers from display text. Slugs are the
// anchor currency of the whole pipeline: header ids, documentation anchors and
// cross-reference targets all go through Make.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	disallowed    = regexp.MustCompile(`[^a-z0-9_-]`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)

	// NFKD decomposition followed by combining-mark removal folds accented
	// characters to their ASCII base before the disallowed-rune strip.
	deaccent = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Make normalizes display text into a slug. Make is idempotent:
// Make(Make(s)) == Make(s) for any s.
func Make(text string) string {
	s := strings.TrimSpace(text)
	s = strings.ToLower(s)
	if folded, _, err := transform.String(deaccent, s); err == nil {
		s = folded
	}
	s = strings.ReplaceAll(s, "&", "-and-")
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = disallowed.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
