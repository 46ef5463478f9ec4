package csvify

import (
	"maps"
	"slices"
)

// unwind emits one record per element of every array field. Array fields are
// expanded one after another in key order, so arrays of length m and n give
// m+n records rather than m*n. An empty array is set to nil for the records
// emitted after it; a record whose arrays are all empty is emitted once.
func unwind(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		var fields []string
		for _, k := range slices.Sorted(maps.Keys(rec)) {
			if _, ok := asArray(rec[k]); ok {
				fields = append(fields, k)
			}
		}
		if len(fields) == 0 {
			out = append(out, maps.Clone(rec))
			continue
		}
		base := maps.Clone(rec)
		emitted := 0
		for _, field := range fields {
			arr, _ := asArray(rec[field])
			if len(arr) == 0 {
				base[field] = nil
				continue
			}
			for _, el := range arr {
				expanded := maps.Clone(base)
				expanded[field] = el
				out = append(out, expanded)
				emitted++
			}
		}
		if emitted == 0 {
			out = append(out, base)
		}
	}
	return out
}
