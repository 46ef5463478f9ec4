package csvify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// cell formats one value. A formatting error or panic is logged with its
// position and the cell falls back to NullValue; it never fails the
// conversion.
func (c *Converter) cell(v any, column string, index int) (s string) {
	defer func() {
		if r := recover(); r != nil {
			c.warn(index, column, fmt.Errorf("panic: %v", r))
			s = c.opts.NullValue
		}
	}()
	s, err := c.format(v)
	if err != nil {
		c.warn(index, column, err)
		return c.opts.NullValue
	}
	return s
}

func (c *Converter) warn(index int, column string, err error) {
	c.log.Warn("format cell",
		"row", index+1,
		"column", column,
		"error", err,
	)
}

func (c *Converter) row(headers []string, rec Record, index int) []string {
	var flat map[string]any
	if c.opts.NestedObjectHandling == NestedFlatten {
		flat = leaves(rec)
	}
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = c.cell(lookup(rec, flat, h), h, index)
	}
	return cells
}

func (c *Converter) format(v any) (string, error) {
	if isNil(v) {
		return c.opts.NullValue, nil
	}
	v = deref(v)
	if t, ok := c.asTime(v); ok {
		return c.escape(formatDate(t, c.opts.DateFormat)), nil
	}
	if arr, ok := asArray(v); ok {
		return c.formatArray(arr)
	}
	if obj, ok := asObject(v); ok {
		return c.formatObject(obj)
	}
	if s, ok := v.(string); ok {
		return c.escape(s), nil
	}
	if s, ok, err := scalar(v); ok || err != nil {
		return s, err
	}
	if s, ok := v.(fmt.Stringer); ok {
		return c.escape(s.String()), nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return c.escape(rv.String()), nil
	}
	return fmt.Sprint(v), nil
}

func (c *Converter) formatArray(arr []any) (string, error) {
	if len(arr) == 0 {
		return c.opts.NullValue, nil
	}
	switch c.opts.ArrayHandling {
	case ArrayJoin:
		parts := make([]string, len(arr))
		for i, el := range arr {
			s, err := c.format(el)
			if err != nil {
				return "", fmt.Errorf("element %d: %w", i, err)
			}
			parts[i] = s
		}
		return c.escape(strings.Join(parts, ";")), nil
	case ArrayStringify, ArrayUnwind:
		s, err := stringify(arr)
		if err != nil {
			return "", err
		}
		return c.escape(s), nil
	default:
		return "", fmt.Errorf("%w: array handling %q", ErrInvalidOption, c.opts.ArrayHandling)
	}
}

func (c *Converter) formatObject(obj map[string]any) (string, error) {
	if len(obj) == 0 {
		return c.opts.NullValue, nil
	}
	switch c.opts.NestedObjectHandling {
	case NestedFlatten:
		parts, err := c.flatten(obj, "")
		if err != nil {
			return "", err
		}
		return c.escape(strings.Join(parts, ";")), nil
	case NestedStringify:
		s, err := stringify(obj)
		if err != nil {
			return "", err
		}
		return c.escape(s), nil
	case NestedIgnore:
		return c.opts.NullValue, nil
	default:
		return "", fmt.Errorf("%w: nested object handling %q", ErrInvalidOption, c.opts.NestedObjectHandling)
	}
}

// flatten returns path:value pairs for every leaf of obj in path order.
func (c *Converter) flatten(obj map[string]any, prefix string) ([]string, error) {
	var parts []string
	var err error
	walkLeaves(obj, prefix, 0, func(path string, v any) {
		if err != nil {
			return
		}
		s, lerr := c.leaf(v)
		if lerr != nil {
			err = fmt.Errorf("%s: %w", path, lerr)
			return
		}
		parts = append(parts, path+":"+s)
	})
	return parts, err
}

// leaf renders a flattened value without escaping; the joined pairs are
// escaped as a whole.
func (c *Converter) leaf(v any) (string, error) {
	if isNil(v) {
		return "", nil
	}
	v = deref(v)
	if t, ok := c.asTime(v); ok {
		return formatDate(t, c.opts.DateFormat), nil
	}
	if arr, ok := asArray(v); ok {
		return stringify(arr)
	}
	if obj, ok := asObject(v); ok {
		return stringify(obj)
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	if s, ok, err := scalar(v); ok || err != nil {
		return s, err
	}
	return fmt.Sprint(v), nil
}

// stringify renders v as compact JSON with sorted object keys. Times are
// written as UTC with milliseconds, the form ISO date strings arrive in.
func stringify(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(jsonTimes(v, 0)); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

const isoMillis = "2006-01-02T15:04:05.000Z"

// jsonTimes copies the arrays and objects under v with every time.Time
// replaced by its isoMillis text.
func jsonTimes(v any, depth int) any {
	if isNil(v) || depth > maxDepth {
		return v
	}
	switch x := deref(v).(type) {
	case time.Time:
		return x.UTC().Format(isoMillis)
	case json.Number, string:
		return v
	}
	if arr, ok := asArray(v); ok {
		out := make([]any, len(arr))
		for i, el := range arr {
			out[i] = jsonTimes(el, depth+1)
		}
		return out
	}
	if obj, ok := asObject(v); ok {
		out := make(map[string]any, len(obj))
		for k, el := range obj {
			out[k] = jsonTimes(el, depth+1)
		}
		return out
	}
	return v
}

// scalar formats numbers and booleans, including named types built on them.
func scalar(v any) (string, bool, error) {
	if n, ok := v.(json.Number); ok {
		s, err := formatJSONNumber(n)
		return s, true, err
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true, nil
	case reflect.Float32:
		return formatFloat(rv.Float(), 32), true, nil
	case reflect.Float64:
		return formatFloat(rv.Float(), 64), true, nil
	}
	return "", false, nil
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv.Interface()
}
