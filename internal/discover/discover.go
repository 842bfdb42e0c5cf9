// Package discover walks a configuration document and finds secret-shaped
// string leaves using the classify tables, deriving a stable backend key
// name for each hit. Output is deterministic: deduplicated by path and
// sorted lexicographically.
package discover

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/seomikewaltman/openclaw-secure/internal/classify"
	"github.com/seomikewaltman/openclaw-secure/internal/docpath"
	"github.com/seomikewaltman/openclaw-secure/internal/secure"
)

// MatchType records why a leaf was classified as a secret, in descending
// confidence order.
type MatchType string

const (
	MatchKnownPath    MatchType = "known-path"
	MatchKeyPattern   MatchType = "key-pattern"
	MatchValuePattern MatchType = "value-pattern"
)

// Secret is one discovered secret: the config path it lives at, the
// backend key name derived from that path, why it matched, and its
// current value held in protected memory. The value exists only for
// display and validation and is never logged or persisted.
type Secret struct {
	ConfigPath string
	KeyName    string
	MatchType  MatchType
	Value      *secure.Value
}

// Options tunes a discovery run. The zero value gives the default
// behavior: known paths and field-name rules only.
type Options struct {
	// IncludeUnknownPatterns enables the value-shape signal for leaves
	// whose path and field name look ordinary.
	IncludeUnknownPatterns bool

	// AdditionalPaths are always treated as known secret locations,
	// bypassing classification.
	AdditionalPaths []string

	// ExcludePaths are exact paths or wildcard patterns (a trailing '*'
	// segment matches any one-or-more-segment suffix) that are never
	// reported.
	ExcludePaths []string
}

// Discover walks doc depth-first and returns every string leaf classified
// as a secret, sorted by config path. It returns an error when two
// distinct paths derive the same backend key name, since a collision
// would let one entry silently shadow the other in the backend.
func Discover(doc any, opts Options) ([]Secret, error) {
	additional := make(map[string]struct{}, len(opts.AdditionalPaths))
	for _, p := range opts.AdditionalPaths {
		additional[p] = struct{}{}
	}

	w := &walker{opts: opts, additional: additional, seen: make(map[string]struct{})}
	w.walk(doc, nil)

	sort.Slice(w.found, func(i, j int) bool {
		return w.found[i].ConfigPath < w.found[j].ConfigPath
	})

	byName := make(map[string]string, len(w.found))
	for _, s := range w.found {
		if prev, dup := byName[s.KeyName]; dup {
			return nil, fmt.Errorf("derived key name %q collides: %s and %s", s.KeyName, prev, s.ConfigPath)
		}
		byName[s.KeyName] = s.ConfigPath
	}
	return w.found, nil
}

type walker struct {
	opts       Options
	additional map[string]struct{}
	seen       map[string]struct{}
	found      []Secret
}

func (w *walker) walk(node any, segs []string) {
	switch c := node.(type) {
	case map[string]any:
		for key, child := range c {
			w.walk(child, append(segs, key))
		}
	case []any:
		for i, child := range c {
			w.walk(child, append(segs, strconv.Itoa(i)))
		}
	case string:
		w.classify(c, segs)
	}
	// Numbers, booleans, and nulls are never secrets.
}

func (w *walker) classify(value string, segs []string) {
	if len(segs) == 0 {
		return
	}
	path := docpath.Join(segs)
	if _, dup := w.seen[path]; dup {
		return
	}
	w.seen[path] = struct{}{}

	if w.excluded(segs) {
		return
	}
	last := segs[len(segs)-1]
	if classify.IsExcludedFieldName(last) {
		return
	}
	if value == classify.Placeholder {
		return
	}
	if len(value) < classify.MinSecretLength {
		return
	}

	var match MatchType
	switch {
	case w.isAdditional(path):
		match = MatchKnownPath
	case classify.IsKnownPath(path):
		match = MatchKnownPath
	case classify.IsSecretFieldName(last):
		match = MatchKeyPattern
	case w.opts.IncludeUnknownPatterns && classify.MatchesValueShape(value):
		match = MatchValuePattern
	default:
		return
	}

	w.found = append(w.found, Secret{
		ConfigPath: path,
		KeyName:    DeriveKeyName(path),
		MatchType:  match,
		Value:      secure.NewValue(value),
	})
}

func (w *walker) isAdditional(path string) bool {
	_, ok := w.additional[path]
	return ok
}

// excluded reports whether the path matches any exclude entry: either an
// exact path, or a pattern whose final '*' segment stands for a suffix of
// one or more segments.
func (w *walker) excluded(segs []string) bool {
	for _, pattern := range w.opts.ExcludePaths {
		if matchExclude(docpath.Split(pattern), segs) {
			return true
		}
	}
	return false
}

func matchExclude(pattern, segs []string) bool {
	if len(pattern) == 0 {
		return false
	}
	if pattern[len(pattern)-1] == "*" {
		prefix := pattern[:len(pattern)-1]
		if len(segs) <= len(prefix) {
			return false
		}
		for i, p := range prefix {
			if segs[i] != p {
				return false
			}
		}
		return true
	}
	if len(pattern) != len(segs) {
		return false
	}
	for i, p := range pattern {
		if segs[i] != p {
			return false
		}
	}
	return true
}
