package csvify

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Options holds the conversion policy. Use [DefaultOptions] as the starting
// point; the zero value is not valid.
type Options struct {
	// Delimiter separates cells within a row.
	Delimiter string `yaml:"delimiter"`
	// IncludeHeaders writes the header row first.
	IncludeHeaders bool `yaml:"includeHeaders"`
	// CustomHeaders replaces derived headers, verbatim and unsorted.
	CustomHeaders []string `yaml:"customHeaders"`
	// DateFormat is a token pattern: YYYY, MM, DD, HH, mm, ss, SSS.
	DateFormat string `yaml:"dateFormat"`
	// Encoding only selects the byte-order mark, see [BOM].
	Encoding string `yaml:"encoding"`
	// NullValue is written for nil values and empty arrays or objects.
	NullValue string `yaml:"nullValue"`
	// EscapeSpecialChars enables quoting of cells.
	EscapeSpecialChars   bool           `yaml:"escapeSpecialChars"`
	NestedObjectHandling NestedHandling `yaml:"nestedObjectHandling"`
	ArrayHandling        ArrayHandling  `yaml:"arrayHandling"`
	// MaxRows caps the number of input records.
	MaxRows int `yaml:"maxRows"`
	// ChunkSize is the number of records formatted per slice.
	ChunkSize int `yaml:"chunkSize"`
	// TimeZone is an IANA zone name used to render dates. Empty means UTC.
	TimeZone string `yaml:"timeZone"`
	// Logger receives per-cell formatting warnings. Nil means slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

// DefaultOptions returns the default conversion policy.
func DefaultOptions() Options {
	return Options{
		Delimiter:            ",",
		IncludeHeaders:       true,
		DateFormat:           "YYYY-MM-DD HH:mm:ss",
		Encoding:             "utf-8",
		NullValue:            "",
		EscapeSpecialChars:   true,
		NestedObjectHandling: NestedStringify,
		ArrayHandling:        ArrayStringify,
		MaxRows:              1_000_000,
		ChunkSize:            1_000,
		TimeZone:             "UTC",
	}
}

func (o Options) validate() error {
	if o.Delimiter == "" {
		return fmt.Errorf("%w: delimiter must not be empty", ErrInvalidOption)
	}
	if _, err := ParseNestedHandling(string(o.NestedObjectHandling)); err != nil {
		return err
	}
	if _, err := ParseArrayHandling(string(o.ArrayHandling)); err != nil {
		return err
	}
	if o.MaxRows <= 0 {
		return fmt.Errorf("%w: max rows must be positive, got %d", ErrInvalidOption, o.MaxRows)
	}
	if o.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidOption, o.ChunkSize)
	}
	return nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: time zone %q: %s", ErrInvalidOption, name, err)
	}
	return loc, nil
}

// LoadOptions decodes a YAML document over [DefaultOptions]. Keys absent from
// the document keep their defaults; an empty document yields the defaults.
func LoadOptions(r io.Reader) (Options, error) {
	o := DefaultOptions()
	if err := yaml.NewDecoder(r).Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("%w: %s", ErrInvalidOption, err)
	}
	return o, nil
}

// Option configures a [Converter].
type Option func(*Options)

// WithOptions replaces the whole policy.
func WithOptions(o Options) Option {
	return func(opts *Options) {
		*opts = o
		opts.CustomHeaders = slices.Clone(o.CustomHeaders)
	}
}

// WithDelimiter sets the cell separator.
func WithDelimiter(d string) Option {
	return func(o *Options) { o.Delimiter = d }
}

// WithHeaders controls whether the header row is written.
func WithHeaders(include bool) Option {
	return func(o *Options) { o.IncludeHeaders = include }
}

// WithCustomHeaders sets an explicit column list, used verbatim and in order.
func WithCustomHeaders(headers ...string) Option {
	return func(o *Options) { o.CustomHeaders = slices.Clone(headers) }
}

// WithDateFormat sets the token pattern used for dates.
func WithDateFormat(f string) Option {
	return func(o *Options) { o.DateFormat = f }
}

// WithEncoding sets the encoding name that selects the [BOM].
func WithEncoding(enc string) Option {
	return func(o *Options) { o.Encoding = enc }
}

// WithNullValue sets the text written for nil and empty values.
func WithNullValue(s string) Option {
	return func(o *Options) { o.NullValue = s }
}

// WithEscaping enables or disables CSV quoting.
func WithEscaping(enabled bool) Option {
	return func(o *Options) { o.EscapeSpecialChars = enabled }
}

// WithNestedObjectHandling sets how nested objects are rendered.
func WithNestedObjectHandling(h NestedHandling) Option {
	return func(o *Options) { o.NestedObjectHandling = h }
}

// WithArrayHandling sets how arrays are rendered.
func WithArrayHandling(h ArrayHandling) Option {
	return func(o *Options) { o.ArrayHandling = h }
}

// WithMaxRows caps the number of input records.
func WithMaxRows(n int) Option {
	return func(o *Options) { o.MaxRows = n }
}

// WithChunkSize sets the number of records formatted per chunk.
func WithChunkSize(n int) Option {
	return func(o *Options) { o.ChunkSize = n }
}

// WithTimeZone sets the IANA zone dates are rendered in.
func WithTimeZone(name string) Option {
	return func(o *Options) { o.TimeZone = name }
}

// WithLogger sets the logger that receives per-cell warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}
