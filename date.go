package csvify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2}(\.\d{1,3})?(Z|[+-]\d{2}:?\d{2})?)?$`)

// Fractional seconds are accepted after the seconds field without being
// named in the layout.
var (
	zonedLayouts = []string{"2006-01-02T15:04:05Z07:00", "2006-01-02T15:04:05Z0700"}
	localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02"}
)

// asTime reports whether v is a date: a time.Time, or a string in ISO-8601
// form naming a valid instant. The result is in the converter's time zone;
// strings without a zone are read in it.
func (c *Converter) asTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.In(c.loc), true
	case string:
		if t, ok := parseISODate(x, c.loc); ok {
			return t.In(c.loc), true
		}
	}
	return time.Time{}, false
}

func parseISODate(s string, loc *time.Location) (time.Time, bool) {
	if !isoDate.MatchString(s) {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatDate substitutes each token once, in order. Replacement values are
// digits, so they never form a later token.
func formatDate(t time.Time, layout string) string {
	tokens := [...]struct{ token, value string }{
		{"YYYY", strconv.Itoa(t.Year())},
		{"MM", pad2(int(t.Month()))},
		{"DD", pad2(t.Day())},
		{"HH", pad2(t.Hour())},
		{"mm", pad2(t.Minute())},
		{"ss", pad2(t.Second())},
		{"SSS", fmt.Sprintf("%03d", t.Nanosecond()/int(time.Millisecond))},
	}
	for _, tk := range tokens {
		layout = strings.Replace(layout, tk.token, tk.value, 1)
	}
	return layout
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
