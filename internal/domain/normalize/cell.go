package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/fantaprice/pkg/metrics"
)

// Float coerces a raw cell to a number. The second result reports whether the
// cell held a usable value; blanks, NaN and unparsable text are absent.
func Float(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "none") || s == "-" {
		return 0, false
	}
	s = strings.TrimSuffix(s, "%")
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		metrics.RecordParseFallback("number")
		return 0, false
	}
	return v, true
}

// FloatOr coerces raw and substitutes def when the cell is absent.
func FloatOr(raw string, def float64) float64 {
	if v, ok := Float(raw); ok {
		return v
	}
	return def
}

// Bool reads flag-like cells (true/1/yes/si/x). Anything else is false.
func Bool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "1.0", "yes", "y", "si", "sì", "x":
		return true
	}
	return false
}

// Tags parses a list cell such as "['Rigorista', 'Titolare']" or "Rigorista, Titolare".
// Malformed literals fall back to a plain comma split.
func Tags(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") || s == "[]" {
		return nil
	}
	if strings.HasPrefix(s, "[") != strings.HasSuffix(s, "]") {
		metrics.RecordParseFallback("tags")
	}
	s = strings.TrimPrefix(strings.TrimSuffix(s, "]"), "[")

	var out []string
	for _, part := range strings.Split(s, ",") {
		t := strings.Trim(strings.TrimSpace(part), `'"`)
		if t != "" {
			out = append(out, strings.TrimSpace(t))
		}
	}
	return out
}
