package csvify

import (
	"context"
	"iter"
)

// Rows validates data and returns its header and an iterator over the
// formatted cells of each data row. Records are formatted ChunkSize at a time
// and ctx is checked before each chunk; on cancellation the iterator yields
// ctx.Err() and stops. Cells are escaped exactly as [Converter.Write] writes
// them.
func (c *Converter) Rows(ctx context.Context, data any) ([]string, iter.Seq2[[]string, error], error) {
	t, err := c.prepare(data)
	if err != nil {
		return nil, nil, err
	}
	return c.headerRow(t.headers), c.rows(ctx, t), nil
}

func (c *Converter) rows(ctx context.Context, t *table) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		size := c.opts.ChunkSize
		for start := 0; start < len(t.records); start += size {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			end := min(start+size, len(t.records))
			for i, rec := range t.records[start:end] {
				if !yield(c.row(t.headers, rec, start+i), nil) {
					return
				}
			}
		}
	}
}

// Count returns the number of data rows data converts to: the record count,
// or the expanded count when arrays are unwound.
func (c *Converter) Count(data any) (int, error) {
	t, err := c.prepare(data)
	if err != nil {
		return 0, err
	}
	return len(t.records), nil
}
