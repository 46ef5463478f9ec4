// Package csvify renders tree-shaped data as delimited text.
//
// A dataset is a single object or a list of objects ([Record]). Values may
// be nil, booleans, numbers, strings, [time.Time], nested objects, or
// arrays. The central entry points are [New], which resolves [Options] once,
// and the [Converter] methods [Converter.Convert] and [Converter.Write]:
//
//	c, err := csvify.New(csvify.WithArrayHandling(csvify.ArrayJoin))
//	text, err := c.Convert(records)
//
// [Convert] is the one-shot form.
//
// # Headers
//
// Columns are the sorted union of every record's keys. With
// [NestedFlatten], nested objects contribute dotted paths ("user.name") and
// the cell under a dotted column is the nested leaf. [WithCustomHeaders]
// replaces derived columns verbatim; missing keys render as the null value.
//
// # Values
//
// Each cell resolves in order:
//
//   - nil → NullValue
//   - [time.Time] or an ISO-8601 string → DateFormat tokens (YYYY, MM, DD,
//     HH, mm, ss, SSS) in the configured time zone
//   - arrays → [ArrayHandling]: joined with ";", or compact JSON
//   - objects → [NestedHandling]: "path:value" pairs joined with ";",
//     compact JSON, or NullValue
//   - strings → escaped
//   - numbers → plain decimal; NaN is empty, infinities are "Infinity"
//   - booleans → "true" / "false"
//
// A cell that fails to format is logged through the configured [slog.Logger]
// and written as NullValue; it never fails the conversion.
//
// # Unwind
//
// With [ArrayUnwind], each array element becomes its own record before
// headers are derived. Array fields expand one after another in key order,
// so two arrays of lengths m and n yield m+n records.
//
// # Chunks and Cancellation
//
// Records are formatted [Options.ChunkSize] at a time. Output does not
// depend on the chunk size. [Converter.Write] and [Converter.Rows] check the
// context between chunks.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrInvalidInput] — empty input or a non-object element
//   - [ErrRowLimitExceeded] — more records than [Options.MaxRows]
//   - [ErrNoHeaders] — no columns could be derived
//   - [ErrInvalidOption] — unknown policy name or out-of-range option
package csvify
