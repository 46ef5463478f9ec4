package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/bjaus/csvify"
	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	textunicode "golang.org/x/text/encoding/unicode"
)

const previewMaxWidth = 40

type flags struct {
	config        string
	output        string
	inputFormat   string
	delimiter     string
	noHeaders     bool
	headers       []string
	dateFormat    string
	encoding      string
	nullValue     string
	noEscape      bool
	nested        string
	arrays        string
	maxRows       int
	chunkSize     int
	timeZone      string
	bom           bool
	preview       int
	previewBorder string
	logLevel      string
	logFormat     string
}

func (f *flags) register(cmd *cobra.Command) {
	d := csvify.DefaultOptions()
	fs := cmd.Flags()
	fs.StringVar(&f.config, "config", "", "YAML options file (path or URL)")
	fs.StringVarP(&f.output, "output", "o", "", "Output path or URL (default: stdout)")
	fs.StringVar(&f.inputFormat, "input-format", "auto", "Input format: json, yaml, or auto (by file extension)")

	fs.StringVarP(&f.delimiter, "delimiter", "d", d.Delimiter, "Field delimiter")
	fs.BoolVar(&f.noHeaders, "no-headers", false, "Omit the header row")
	fs.StringSliceVar(&f.headers, "headers", nil, "Explicit column list, in order")
	fs.StringVar(&f.dateFormat, "date-format", d.DateFormat, "Date pattern (YYYY MM DD HH mm ss SSS)")
	fs.StringVar(&f.encoding, "encoding", d.Encoding, "Output encoding: utf-8 or utf-16le")
	fs.StringVar(&f.nullValue, "null", d.NullValue, "Text written for null and empty values")
	fs.BoolVar(&f.noEscape, "no-escape", false, "Disable CSV quoting")
	fs.StringVar(&f.nested, "nested", d.NestedObjectHandling.String(), "Nested objects: flatten, stringify, or ignore")
	fs.StringVar(&f.arrays, "arrays", d.ArrayHandling.String(), "Arrays: join, stringify, or unwind")
	fs.IntVar(&f.maxRows, "max-rows", d.MaxRows, "Maximum number of input records")
	fs.IntVar(&f.chunkSize, "chunk-size", d.ChunkSize, "Records formatted per chunk")
	fs.StringVar(&f.timeZone, "time-zone", d.TimeZone, "IANA time zone for dates")

	fs.BoolVar(&f.bom, "bom", false, "Prefix the output with a byte-order mark")
	fs.IntVar(&f.preview, "preview", 0, "Print the first N rows as a table instead of CSV")
	fs.StringVar(&f.previewBorder, "preview-border", "rounded", "Preview style: rounded, ascii, none, or markdown")
	fs.StringVar(&f.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log format: text or json")
}

// options merges the config file with the flags set on the command line.
func (f *flags) options(ctx context.Context, cmd *cobra.Command, fs afs.Service) (csvify.Options, error) {
	o := csvify.DefaultOptions()
	if f.config != "" {
		data, err := fs.DownloadWithURL(ctx, f.config)
		if err != nil {
			return o, fmt.Errorf("read config %s: %w", f.config, err)
		}
		if o, err = csvify.LoadOptions(bytes.NewReader(data)); err != nil {
			return o, err
		}
	}
	set := cmd.Flags().Changed
	if set("delimiter") {
		o.Delimiter = f.delimiter
	}
	if set("no-headers") {
		o.IncludeHeaders = !f.noHeaders
	}
	if set("headers") {
		o.CustomHeaders = f.headers
	}
	if set("date-format") {
		o.DateFormat = f.dateFormat
	}
	if set("encoding") {
		o.Encoding = f.encoding
	}
	if set("null") {
		o.NullValue = f.nullValue
	}
	if set("no-escape") {
		o.EscapeSpecialChars = !f.noEscape
	}
	if set("nested") {
		o.NestedObjectHandling = csvify.NestedHandling(f.nested)
	}
	if set("arrays") {
		o.ArrayHandling = csvify.ArrayHandling(f.arrays)
	}
	if set("max-rows") {
		o.MaxRows = f.maxRows
	}
	if set("chunk-size") {
		o.ChunkSize = f.chunkSize
	}
	if set("time-zone") {
		o.TimeZone = f.timeZone
	}
	return o, nil
}

func run(cmd *cobra.Command, f *flags, input string) error {
	ctx := cmd.Context()
	fs := afs.New()
	logger := newLogger(cmd.ErrOrStderr(), f.logLevel, f.logFormat)

	opts, err := f.options(ctx, cmd, fs)
	if err != nil {
		return err
	}
	opts.Logger = logger
	conv, err := csvify.New(csvify.WithOptions(opts))
	if err != nil {
		return err
	}

	raw, err := readInput(ctx, fs, cmd.InOrStdin(), input)
	if err != nil {
		return err
	}
	data, err := decode(raw, f.inputFormat, input)
	if err != nil {
		return err
	}

	if f.preview > 0 {
		border, err := parseBorder(f.previewBorder)
		if err != nil {
			return err
		}
		return conv.Preview(cmd.OutOrStdout(), data, csvify.PreviewOptions{
			Limit:    f.preview,
			MaxWidth: previewMaxWidth,
			Border:   border,
		})
	}

	var buf bytes.Buffer
	if err := conv.Write(ctx, &buf, data); err != nil {
		return err
	}
	out, err := encodeOutput(buf.Bytes(), opts.Encoding, f.bom)
	if err != nil {
		return err
	}

	if f.output == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	dest := outputURL(f.output)
	if err := fs.Upload(ctx, dest, file.DefaultFileOsMode, bytes.NewReader(out)); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	logger.Info("converted", "input", input, "output", dest, "bytes", len(out))
	return nil
}

func readInput(ctx context.Context, fs afs.Service, stdin io.Reader, input string) ([]byte, error) {
	if input == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := fs.DownloadWithURL(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", input, err)
	}
	return data, nil
}

func decode(raw []byte, format, input string) (any, error) {
	if format == "auto" {
		switch strings.ToLower(path.Ext(input)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}
	switch format {
	case "json":
		return csvify.DecodeJSON(bytes.NewReader(raw))
	case "yaml":
		return csvify.DecodeYAML(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("%w: input format %q", csvify.ErrInvalidOption, format)
	}
}

func parseBorder(s string) (csvify.BorderStyle, error) {
	switch s {
	case "rounded":
		return csvify.BorderRounded, nil
	case "ascii":
		return csvify.BorderASCII, nil
	case "none":
		return csvify.BorderNone, nil
	case "markdown":
		return csvify.BorderMarkdown, nil
	default:
		return 0, fmt.Errorf("%w: preview border %q", csvify.ErrInvalidOption, s)
	}
}

// encodeOutput transcodes to UTF-16LE when asked and prepends the BOM.
func encodeOutput(text []byte, encoding string, bom bool) ([]byte, error) {
	if strings.EqualFold(encoding, "utf-16le") {
		enc := textunicode.UTF16(textunicode.LittleEndian, textunicode.IgnoreBOM).NewEncoder()
		b, err := enc.Bytes(text)
		if err != nil {
			return nil, fmt.Errorf("encode utf-16le: %w", err)
		}
		text = b
	}
	if !bom {
		return text, nil
	}
	return append(csvify.BOM(encoding), text...), nil
}

// outputURL sanitizes the file name part of dest.
func outputURL(dest string) string {
	dir, name := path.Split(dest)
	return dir + csvify.SanitizeFilename(name)
}
