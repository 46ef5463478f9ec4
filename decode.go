package csvify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DecodeJSON reads one JSON document. Numbers are kept as [json.Number] so
// integers wider than float64 keep every digit.
func DecodeJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: input data is empty", ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: decode json: %s", ErrInvalidInput, err)
	}
	return v, nil
}

// DecodeYAML reads one YAML document. Mappings with non-string keys are
// re-keyed by their text form.
func DecodeYAML(r io.Reader) (any, error) {
	var v any
	if err := yaml.NewDecoder(r).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: input data is empty", ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: decode yaml: %s", ErrInvalidInput, err)
	}
	return normalizeYAML(v), nil
}

func normalizeYAML(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = normalizeYAML(val)
		}
		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		for i, val := range x {
			x[i] = normalizeYAML(val)
		}
		return x
	}
	return v
}
