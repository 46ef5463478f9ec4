package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bjaus/csvify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestMapErrorToExitCode(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":          {err: nil, want: 0},
		"option":       {err: fmt.Errorf("wrap: %w", csvify.ErrInvalidOption), want: 2},
		"input":        {err: csvify.ErrInvalidInput, want: 3},
		"row limit":    {err: csvify.ErrRowLimitExceeded, want: 3},
		"no headers":   {err: csvify.ErrNoHeaders, want: 3},
		"other":        {err: errors.New("boom"), want: 1},
		"wrapped read": {err: fmt.Errorf("read x: %w", os.ErrNotExist), want: 1},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, mapErrorToExitCode(tc.err))
		})
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("anything"))
}

func TestNewLoggerJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	newLogger(&buf, "info", "json").Info("hello", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":1`)
}

func TestParseBorder(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]csvify.BorderStyle{
		"rounded":  csvify.BorderRounded,
		"ascii":    csvify.BorderASCII,
		"none":     csvify.BorderNone,
		"markdown": csvify.BorderMarkdown,
	} {
		got, err := parseBorder(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := parseBorder("double")
	assert.ErrorIs(t, err, csvify.ErrInvalidOption)
}

func TestDecode(t *testing.T) {
	t.Parallel()
	got, err := decode([]byte("- a: 1\n"), "auto", "in.YML")
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"a": 1}}, got)

	got, err = decode([]byte(`{"a":1}`), "auto", "-")
	require.NoError(t, err)
	assert.IsType(t, map[string]any{}, got)

	_, err = decode([]byte(`{}`), "toml", "in.toml")
	assert.ErrorIs(t, err, csvify.ErrInvalidOption)
}

func TestEncodeOutput(t *testing.T) {
	t.Parallel()
	out, err := encodeOutput([]byte("a,b"), "utf-8", false)
	require.NoError(t, err)
	assert.Equal(t, []byte("a,b"), out)

	out, err = encodeOutput([]byte("a,b"), "utf-8", true)
	require.NoError(t, err)
	assert.Equal(t, []byte("\xEF\xBB\xBFa,b"), out)

	out, err = encodeOutput([]byte("aé"), "UTF-16LE", true)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFE, 'a', 0x00, 0xE9, 0x00}, out)
}

func TestOutputURL(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/tmp/out/a_b.csv", outputURL("/tmp/out/a:b.csv"))
	assert.Equal(t, "_hidden.csv", outputURL("..hidden.csv"))
}

func TestRunStdin(t *testing.T) {
	t.Parallel()
	out, _, err := execute(t, `[{"b":"x,y","a":1},{"a":2}]`)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\"x,y\"\n2,", out)
}

func TestRunFlags(t *testing.T) {
	t.Parallel()
	in := `[{"id":1,"tags":["a","b"],"user":{"name":"Ann"}}]`
	out, _, err := execute(t, in,
		"--delimiter", ";",
		"--arrays", "unwind",
		"--nested", "flatten",
		"--no-escape",
		"--headers", "id,tags,user.name",
	)
	require.NoError(t, err)
	assert.Equal(t, "id;tags;user.name\n1;a;Ann\n1;b;Ann", out)
}

func TestRunNoHeaders(t *testing.T) {
	t.Parallel()
	out, _, err := execute(t, `{"a":null}`, "--no-headers", "--null", "NULL")
	require.NoError(t, err)
	assert.Equal(t, "NULL", out)
}

func TestRunInvalidInput(t *testing.T) {
	t.Parallel()
	_, _, err := execute(t, `[1,2]`)
	require.ErrorIs(t, err, csvify.ErrInvalidInput)
	assert.Equal(t, 3, mapErrorToExitCode(err))
}

func TestRunInvalidOption(t *testing.T) {
	t.Parallel()
	_, _, err := execute(t, `{"a":1}`, "--arrays", "explode")
	require.ErrorIs(t, err, csvify.ErrInvalidOption)
	assert.Equal(t, 2, mapErrorToExitCode(err))
}

func TestRunLogsBadCells(t *testing.T) {
	t.Parallel()
	out, logs, err := execute(t, `{"n":1e999}`, "--no-headers", "--null", "?")
	require.NoError(t, err)
	assert.Equal(t, "?", out)
	assert.Contains(t, logs, `msg="format cell"`)
	assert.Contains(t, logs, "column=n")
}

func TestRunPreview(t *testing.T) {
	t.Parallel()
	out, _, err := execute(t, `[{"a":1},{"a":2},{"a":3}]`, "--preview", "2", "--preview-border", "none")
	require.NoError(t, err)
	assert.Equal(t, "a\n-\n1\n2\n2 of 3 rows\n", out)
}

func TestRunFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	input := filepath.Join(dir, "people.yaml")
	config := filepath.Join(dir, "options.yaml")
	require.NoError(t, os.WriteFile(input, []byte("- name: Ann\n  tags: [x, y]\n"), 0o600))
	require.NoError(t, os.WriteFile(config, []byte("arrayHandling: join\ndelimiter: \"\\t\"\n"), 0o600))

	out, _, err := execute(t, "", input,
		"--config", config,
		"--output", filepath.Join(dir, "out:1.csv"),
		"--bom",
	)
	require.NoError(t, err)
	assert.Empty(t, out)

	got, err := os.ReadFile(filepath.Join(dir, "out_1.csv"))
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFname\ttags\nAnn\t\"x;y\"", string(got))
}

func TestRunFlagOverridesConfig(t *testing.T) {
	t.Parallel()
	config := filepath.Join(t.TempDir(), "options.yaml")
	require.NoError(t, os.WriteFile(config, []byte("delimiter: \"|\"\nincludeHeaders: false\n"), 0o600))

	out, _, err := execute(t, `{"a":1,"b":2}`, "--config", config, "--delimiter", ",")
	require.NoError(t, err)
	assert.Equal(t, "1,2", out)
}

func TestRunMissingInput(t *testing.T) {
	t.Parallel()
	_, _, err := execute(t, "", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Equal(t, 1, mapErrorToExitCode(err))
}
