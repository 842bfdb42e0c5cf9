package discover

import (
	"strings"
	"unicode"

	"github.com/seomikewaltman/openclaw-secure/internal/docpath"
)

// structuralNoise lists segments that exist purely for nesting and carry
// no naming value. They are dropped when deriving an external key name.
var structuralNoise = map[string]struct{}{
	"channels":  {},
	"accounts":  {},
	"skills":    {},
	"entries":   {},
	"tools":     {},
	"providers": {},
	"config":    {},
	"env":       {},
	"auth":      {},
}

// DeriveKeyName produces a flat, human-legible backend key from a config
// path: numeric and structural-noise segments are dropped, the rest are
// converted to hyphen-separated lowercase and joined with hyphens.
//
// The function is pure and total. When every segment would be dropped,
// the final segment is kept verbatim so a non-empty path never derives an
// empty name.
func DeriveKeyName(path string) string {
	segs := docpath.Split(path)
	if len(segs) == 0 {
		return ""
	}

	kept := make([]string, 0, len(segs))
	for _, seg := range segs {
		if isDecimal(seg) {
			continue
		}
		if _, noise := structuralNoise[seg]; noise {
			continue
		}
		kept = append(kept, hyphenate(seg))
	}
	if len(kept) == 0 {
		kept = append(kept, hyphenate(segs[len(segs)-1]))
	}
	return strings.Join(kept, "-")
}

// hyphenate converts a medial-capitalized segment to hyphen-separated
// lowercase: a hyphen is inserted at each lowercase-to-uppercase boundary,
// underscores become hyphens, then everything is lowercased.
func hyphenate(seg string) string {
	var b strings.Builder
	runes := []rune(seg)
	for i, r := range runes {
		if r == '_' {
			b.WriteRune('-')
			continue
		}
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteRune('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func isDecimal(seg string) bool {
	if seg == "" {
		return false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
