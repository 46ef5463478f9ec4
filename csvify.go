package csvify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Sentinel errors for programmatic error handling.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrRowLimitExceeded = errors.New("row limit exceeded")
	ErrNoHeaders        = errors.New("no headers found in data")
	ErrInvalidOption    = errors.New("invalid option")
)

// Record is a single object of the dataset, keyed by column name.
type Record = map[string]any

// NestedHandling controls how nested objects are rendered.
type NestedHandling string

const (
	NestedFlatten   NestedHandling = "flatten"   // dotted columns, path:value pairs in cells
	NestedStringify NestedHandling = "stringify" // compact JSON
	NestedIgnore    NestedHandling = "ignore"    // NullValue
)

// ArrayHandling controls how array values are rendered.
type ArrayHandling string

const (
	ArrayJoin      ArrayHandling = "join"      // elements joined with ";"
	ArrayStringify ArrayHandling = "stringify" // compact JSON
	ArrayUnwind    ArrayHandling = "unwind"    // one record per element
)

var (
	nestedHandlings = []NestedHandling{NestedFlatten, NestedStringify, NestedIgnore}
	arrayHandlings  = []ArrayHandling{ArrayJoin, ArrayStringify, ArrayUnwind}
)

// String returns the policy name.
func (h NestedHandling) String() string { return string(h) }

// String returns the policy name.
func (h ArrayHandling) String() string { return string(h) }

// ParseNestedHandling parses a nested object policy name.
func ParseNestedHandling(s string) (NestedHandling, error) {
	for _, h := range nestedHandlings {
		if string(h) == s {
			return h, nil
		}
	}
	return "", fmt.Errorf("%w: nested object handling %q", ErrInvalidOption, s)
}

// ParseArrayHandling parses an array policy name.
func ParseArrayHandling(s string) (ArrayHandling, error) {
	for _, h := range arrayHandlings {
		if string(h) == s {
			return h, nil
		}
	}
	return "", fmt.Errorf("%w: array handling %q", ErrInvalidOption, s)
}

// Converter renders datasets as delimited text. It is immutable once built
// and safe for concurrent use.
type Converter struct {
	opts Options
	loc  *time.Location
	log  *slog.Logger
}

// New resolves opts over [DefaultOptions] and returns a Converter.
// Invalid option values are reported as [ErrInvalidOption].
func New(opts ...Option) (*Converter, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	loc, err := loadLocation(o.TimeZone)
	if err != nil {
		return nil, err
	}
	o.CustomHeaders = slices.Clone(o.CustomHeaders)
	log := o.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Converter{opts: o, loc: loc, log: log}, nil
}

// Options returns a copy of the resolved options.
func (c *Converter) Options() Options {
	o := c.opts
	o.CustomHeaders = slices.Clone(c.opts.CustomHeaders)
	return o
}

// Convert renders data and returns the text. Rows are separated by "\n"
// with no trailing newline.
func Convert(data any, opts ...Option) (string, error) {
	c, err := New(opts...)
	if err != nil {
		return "", err
	}
	return c.Convert(data)
}

// Convert renders data and returns the text.
func (c *Converter) Convert(data any) (string, error) {
	var sb strings.Builder
	if err := c.Write(context.Background(), &sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write renders data to w one chunk of records at a time. Structural errors
// are returned before anything is written. ctx is checked between chunks;
// a cancelled write leaves the rows of the completed chunks in w.
func (c *Converter) Write(ctx context.Context, w io.Writer, data any) error {
	t, err := c.prepare(data)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	first := true
	writeLine := func(cells []string) error {
		if !first {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		first = false
		_, err := io.WriteString(w, strings.Join(cells, c.opts.Delimiter))
		return err
	}
	if c.opts.IncludeHeaders {
		if err := writeLine(c.headerRow(t.headers)); err != nil {
			return err
		}
	}
	for cells, err := range c.rows(ctx, t) {
		if err != nil {
			return err
		}
		if err := writeLine(cells); err != nil {
			return err
		}
	}
	return nil
}

// table is a validated, expanded dataset with its resolved columns.
type table struct {
	headers []string
	records []Record
}

func (c *Converter) prepare(data any) (*table, error) {
	records, err := c.validate(data)
	if err != nil {
		return nil, err
	}
	if c.opts.ArrayHandling == ArrayUnwind {
		records = unwind(records)
	}
	headers, err := c.headers(records)
	if err != nil {
		return nil, err
	}
	return &table{headers: headers, records: records}, nil
}
