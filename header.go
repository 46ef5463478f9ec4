package csvify

import (
	"fmt"
	"maps"
	"slices"
)

// headers returns CustomHeaders when set, otherwise the sorted union of the
// records' keys. With flattening, nested objects contribute dotted paths and
// arrays stay leaves.
func (c *Converter) headers(records []Record) ([]string, error) {
	if len(c.opts.CustomHeaders) > 0 {
		return slices.Clone(c.opts.CustomHeaders), nil
	}
	seen := make(map[string]struct{})
	for _, rec := range records {
		if c.opts.NestedObjectHandling == NestedFlatten {
			collectPaths(rec, seen)
			continue
		}
		for k := range rec {
			seen[k] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: %d records have no keys", ErrNoHeaders, len(records))
	}
	return slices.Sorted(maps.Keys(seen)), nil
}

// maxDepth bounds how far flattening descends. Objects nested deeper are
// treated as leaves.
const maxDepth = 64

func collectPaths(obj map[string]any, seen map[string]struct{}) {
	walkLeaves(obj, "", 0, func(path string, _ any) {
		seen[path] = struct{}{}
	})
}

// walkLeaves calls fn with the dotted path and value of every non-object
// value under obj, in path order.
func walkLeaves(obj map[string]any, prefix string, depth int, fn func(path string, v any)) {
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		key := joinPath(prefix, k)
		v := obj[k]
		if nested, ok := asObject(v); ok && depth < maxDepth {
			walkLeaves(nested, key, depth+1, fn)
			continue
		}
		fn(key, v)
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// leaves maps every flattened column of rec to its value. When two paths
// spell the same column, the first in path order wins.
func leaves(rec Record) map[string]any {
	out := make(map[string]any, len(rec))
	walkLeaves(rec, "", 0, func(path string, v any) {
		if _, ok := out[path]; !ok {
			out[path] = v
		}
	})
	return out
}

// lookup returns the value for a column. A literal key wins; otherwise the
// column is looked up in flat, the record's leaves when flattening.
func lookup(rec Record, flat map[string]any, column string) any {
	if v, ok := rec[column]; ok {
		return v
	}
	return flat[column]
}

func (c *Converter) headerRow(headers []string) []string {
	row := make([]string, len(headers))
	for i, h := range headers {
		row[i] = c.escape(h)
	}
	return row
}
