package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize folds a raw header cell into its lookup key: NFKC width folding,
// lower case, no whitespace or control characters, and every dash variant
// replaced by '-'. Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(raw string) string {
	s := raw
	// removing characters can expose new compositions, so iterate to a fixed point
	for i := 0; i < 4; i++ {
		next := fold(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func fold(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), unicode.IsControl(r), unicode.Is(unicode.Cf, r):
			continue
		case isDash(r):
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	return norm.NFKC.String(b.String())
}

func isDash(r rune) bool {
	switch r {
	case '‐', '‑', '‒', '–', '—', '―',
		'−', 'ー', '﹘', '﹣', '－', 'ｰ':
		return true
	}
	return false
}

// Aliases returns the three alternative spellings registered for key:
// separators stripped, '-' as '_', and '_' as '-'.
func Aliases(key string) [3]string {
	stripped := strings.NewReplacer("-", "", "_", "").Replace(key)
	return [3]string{
		stripped,
		strings.ReplaceAll(key, "-", "_"),
		strings.ReplaceAll(key, "_", "-"),
	}
}
