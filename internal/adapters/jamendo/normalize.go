package jamendo

import (
	"strings"
	"unicode"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

// Release qualifiers that do not make a recording a different song.
var noiseTokens = map[string]struct{}{
	"acoustic":     {},
	"edit":         {},
	"edition":      {},
	"extended":     {},
	"feat":         {},
	"featuring":    {},
	"ft":           {},
	"instrumental": {},
	"live":         {},
	"mix":          {},
	"radio":        {},
	"remaster":     {},
	"remastered":   {},
	"remix":        {},
	"version":      {},
}

// normalizeName lowercases s, drops bracketed segments and punctuation, and
// removes release qualifiers.
func normalizeName(s string) string {
	if s == "" {
		return ""
	}
	stripped := stripBrackets(strings.ToLower(s))
	tokens := strings.FieldsFunc(stripped, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	kept := tokens[:0]
	for _, tok := range tokens {
		if _, noise := noiseTokens[tok]; noise {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

func stripBrackets(s string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

// dedupe keeps the first occurrence of each normalized title and artist pair.
// Tracks whose title normalizes to nothing are kept as-is.
func dedupe(tracks []domain.Track) []domain.Track {
	seen := make(map[string]struct{}, len(tracks))
	out := tracks[:0]
	for _, t := range tracks {
		title := normalizeName(t.Name)
		if title != "" {
			key := title + "\x00" + normalizeName(t.Artist)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, t)
	}
	return out
}
