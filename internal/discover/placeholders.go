package discover

import (
	"sort"
	"strconv"

	"github.com/seomikewaltman/openclaw-secure/internal/classify"
	"github.com/seomikewaltman/openclaw-secure/internal/docpath"
)

// PlaceholderPaths returns every path whose leaf equals the placeholder,
// sorted. These are the fields this tool externalized earlier; restore
// and scrub need them even though classification skips them.
func PlaceholderPaths(doc any) []string {
	var paths []string
	var walk func(node any, segs []string)
	walk = func(node any, segs []string) {
		switch c := node.(type) {
		case map[string]any:
			for key, child := range c {
				walk(child, append(segs, key))
			}
		case []any:
			for i, child := range c {
				walk(child, append(segs, strconv.Itoa(i)))
			}
		case string:
			if c == classify.Placeholder && len(segs) > 0 {
				paths = append(paths, docpath.Join(segs))
			}
		}
	}
	walk(doc, nil)
	sort.Strings(paths)
	return paths
}
