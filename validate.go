package csvify

import (
	"fmt"
	"reflect"
)

// validate normalizes data into records, rejecting empty input, non-object
// elements, and datasets over MaxRows. data itself is never modified.
func (c *Converter) validate(data any) ([]Record, error) {
	if isNil(data) {
		return nil, fmt.Errorf("%w: input data is empty", ErrInvalidInput)
	}
	var records []Record
	if obj, ok := asObject(data); ok {
		records = []Record{obj}
	} else if items, ok := asArray(data); ok {
		if len(items) == 0 {
			return nil, fmt.Errorf("%w: input data is empty", ErrInvalidInput)
		}
		records = make([]Record, len(items))
		for i, item := range items {
			obj, ok := asObject(item)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %T, not an object", ErrInvalidInput, i, item)
			}
			records[i] = obj
		}
	} else {
		return nil, fmt.Errorf("%w: input data must be an object or array of objects, got %T", ErrInvalidInput, data)
	}
	if len(records) > c.opts.MaxRows {
		return nil, fmt.Errorf("%w: %d rows exceeds the limit of %d", ErrRowLimitExceeded, len(records), c.opts.MaxRows)
	}
	return records, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// asObject reports whether v is a string-keyed mapping.
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asArray reports whether v is an ordered sequence of values.
func asArray(v any) ([]any, bool) {
	if a, ok := v.([]any); ok {
		return a, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
