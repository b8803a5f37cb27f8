// Package textnorm cleans text fragments scraped from profile pages.
package textnorm

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// maxPasses bounds the fixed-point loop in Normalize.
const maxPasses = 16

// labelCut matches the separators the profile UI puts after a label,
// e.g. "Acme · Full-time" or "Engineer | Remote". Intra-word hyphens are kept.
var labelCut = regexp.MustCompile(`\s*[·•|—]\s*|\s-\s`)

func isSeparator(r rune) bool {
	switch r {
	case '·', '•', '∙', '‧', '⋅', '|':
		return true
	}
	return unicode.IsSpace(r)
}

// Normalize collapses separator glyphs and whitespace into single spaces, trims
// the result and removes duplicated adjacent text produced by overlapping UI
// nodes. It is idempotent. Empty or separator-only input yields "".
func Normalize(raw string) string {
	s := raw
	for i := 0; i < maxPasses; i++ {
		next := normalizeOnce(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func normalizeOnce(s string) string {
	s = norm.NFKC.String(s)

	tokens := strings.FieldsFunc(s, isSeparator)
	if len(tokens) == 0 {
		return ""
	}

	for i, token := range tokens {
		tokens[i] = undouble(token)
	}
	tokens = CollapseRepeats(tokens)

	return undouble(strings.Join(tokens, " "))
}

// undouble turns "GoogleGoogle" or "Software EngineerSoftware Engineer" into a
// single occurrence. The repeated half must start with an upper-case letter so
// ordinary words such as "bonbon" stay intact.
func undouble(s string) string {
	if len(s)%2 != 0 || len(s) < 4 {
		return s
	}
	half := s[:len(s)/2]
	if half != s[len(s)/2:] || !utf8.ValidString(half) {
		return s
	}
	first, _ := utf8.DecodeRuneInString(half)
	if !unicode.IsUpper(first) {
		return s
	}
	return half
}

// CollapseRepeats removes a block of items that immediately repeats the block
// before it, for any block size, until no adjacent repeat is left.
// [a b a b c] becomes [a b c]. The input slice is not modified.
func CollapseRepeats[T comparable](items []T) []T {
	out := slices.Clone(items)
	for changed := true; changed; {
		changed = false
		for size := 1; size*2 <= len(out) && !changed; size++ {
			for i := 0; i+2*size <= len(out); i++ {
				if slices.Equal(out[i:i+size], out[i+size:i+2*size]) {
					out = slices.Delete(out, i+size, i+2*size)
					changed = true
					break
				}
			}
		}
	}
	return out
}

// Key returns the case-folded normalized form used to compare fields.
func Key(raw string) string {
	return cases.Fold().String(Normalize(raw))
}

// Label extracts a short label from a raw UI line: the first non-empty line,
// cut at the first inline separator, normalized.
func Label(raw string) string {
	line := ""
	for _, l := range strings.Split(raw, "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}
	if line == "" {
		return ""
	}

	line = strings.TrimSpace(line)
	if loc := labelCut.FindStringIndex(line); loc != nil && loc[0] > 0 {
		line = line[:loc[0]]
	}
	return Normalize(line)
}
