package csvify

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// formatFloat renders f in plain decimal notation: no exponent, no grouping.
// NaN renders empty and infinities as Infinity / -Infinity.
func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

// formatJSONNumber keeps integer literals digit for digit, so values beyond
// float64 precision survive; everything else goes through formatFloat.
func formatJSONNumber(n json.Number) (string, error) {
	s := n.String()
	if isDigits(strings.TrimPrefix(s, "-")) {
		if s == "-0" {
			return "0", nil
		}
		return s, nil
	}
	f, err := n.Float64()
	if err != nil {
		return "", err
	}
	return formatFloat(f, 64), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
