// Package docpath implements dot-segmented addressing into a nested
// configuration document. Documents are the dynamic trees produced by
// decoding JSON or YAML: map[string]any, []any, and scalar leaves.
//
// A segment that is a decimal numeral indexes a sequence element when the
// current node is a sequence; otherwise it addresses a map key of that
// literal name. Segments are otherwise opaque.
package docpath

import (
	"strconv"
	"strings"
)

// Separator joins path segments.
const Separator = "."

// Split breaks a dot path into its segments.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// Join assembles segments into a dot path.
func Join(segments []string) string {
	return strings.Join(segments, Separator)
}

// Get traverses the document along path. The second return is false the
// instant traversal hits nil, a scalar, or a missing key/index. Get never
// mutates the document and never panics.
func Get(doc any, path string) (any, bool) {
	node := doc
	for _, seg := range Split(path) {
		switch c := node.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			node = v
		case []any:
			idx, ok := parseIndex(seg)
			if !ok || idx >= len(c) {
				return nil, false
			}
			node = c[idx]
		default:
			return nil, false
		}
	}
	return node, true
}

// Has reports whether path addresses an existing location in doc.
func Has(doc any, path string) bool {
	_, ok := Get(doc, path)
	return ok
}

// Set returns a deep, independent copy of doc with the leaf at path
// replaced by value. Intermediate segments whose current value is missing,
// nil, or not a container are replaced by fresh containers in the copy;
// the caller's document graph is never mutated. Sequences grow as needed
// when addressed by an out-of-range index.
func Set(doc any, path string, value any) any {
	segs := Split(path)
	if len(segs) == 0 {
		return Clone(doc)
	}
	root := Clone(doc)
	root = repairContainer(root, segs[0])
	setInto(root, segs, value)
	return root
}

// setInto walks the (already cloned) tree, repairing intermediates as it
// descends, and places value at the final segment.
func setInto(node any, segs []string, value any) {
	seg := segs[0]
	last := len(segs) == 1

	switch c := node.(type) {
	case map[string]any:
		if last {
			c[seg] = value
			return
		}
		child := repairContainer(c[seg], segs[1])
		c[seg] = child
		setInto(child, segs[1:], value)
	case []any:
		idx, _ := parseIndex(seg)
		if last {
			c[idx] = value
			return
		}
		child := repairContainer(c[idx], segs[1])
		c[idx] = child
		setInto(child, segs[1:], value)
	}
}

// repairContainer returns node if it can hold the next segment, otherwise
// a fresh container of the right shape. Sequences are grown in place to
// cover a numeric segment.
func repairContainer(node any, nextSeg string) any {
	idx, numeric := parseIndex(nextSeg)
	switch c := node.(type) {
	case map[string]any:
		return c
	case []any:
		if numeric {
			for len(c) <= idx {
				c = append(c, nil)
			}
			return c
		}
	}
	if numeric {
		s := make([]any, idx+1)
		return s
	}
	return map[string]any{}
}

// Clone returns a deep copy of a document tree. Scalars are shared
// (immutable); maps and slices are copied recursively.
func Clone(doc any) any {
	switch c := doc.(type) {
	case map[string]any:
		out := make(map[string]any, len(c))
		for k, v := range c {
			out[k] = Clone(v)
		}
		return out
	case []any:
		out := make([]any, len(c))
		for i, v := range c {
			out[i] = Clone(v)
		}
		return out
	default:
		return doc
	}
}

// parseIndex reports whether seg is a plain decimal numeral, and its value.
func parseIndex(seg string) (int, bool) {
	if seg == "" {
		return 0, false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return n, true
}
