package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// numericPrefixPattern matches the longest leading decimal literal, like JavaScript parseFloat.
var numericPrefixPattern = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// numericEntryPattern is the fast-reject gate for keystroke entry into numeric cells:
// input must contain at least one of '-', '0'-'9', '.', ','.
var numericEntryPattern = regexp.MustCompile(`[-0-9.,]`)

// AcceptsNumericEntry reports whether raw passes the numeric entry pre-filter.
func AcceptsNumericEntry(raw string) bool {
	return numericEntryPattern.MatchString(raw)
}

// ParseNumberPrefix parses the leading decimal literal of raw and returns NaN when there is none.
func ParseNumberPrefix(raw string) float64 {
	raw = strings.TrimLeftFunc(raw, unicode.IsSpace)
	lit := numericPrefixPattern.FindString(raw)
	if lit == "" {
		return math.NaN()
	}
	switch strings.TrimLeft(lit, "+") {
	case "Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil && !math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// RoundTo rounds v half-up to precision decimal digits; negative precision rounds to tens, hundreds, ...
func RoundTo(v float64, precision int) float64 {
	var out float64
	if precision >= 0 {
		scale := math.Pow(10, float64(precision))
		out = math.Floor(v*scale+0.5) / scale
	} else {
		scale := math.Pow(10, float64(-precision))
		out = math.Floor(v/scale+0.5) * scale
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return v
	}
	return out
}

// Coerce converts raw cell text into a value for a column of type t.
// Unparsable numeric and boolean input yields def.
func Coerce(t ColumnType, precision int, raw string, def any) any {
	switch t.Basic() {
	case ColumnTypeNumber:
		v := ParseNumberPrefix(raw)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return def
		}
		return RoundTo(v, precision)
	case ColumnTypeBoolean:
		b, ok := parseBool(raw)
		if !ok {
			return def
		}
		return b
	default:
		return raw
	}
}

// parseBool accepts strconv booleans plus common spreadsheet spellings.
func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if b, err := strconv.ParseBool(raw); err == nil {
		return b, true
	}
	switch strings.ToLower(raw) {
	case "yes", "y", "x", "on":
		return true, true
	case "no", "n", "off", "":
		return false, true
	}
	return false, false
}

// FormatCell renders a stored value as clipboard cell text.
// Numbers use fixed-point notation with max(precision,0) digits; strings are trimmed.
func FormatCell(t ColumnType, precision int, v any) string {
	switch t.Basic() {
	case ColumnTypeNumber:
		if f, ok := AsFloat(v); ok {
			return strconv.FormatFloat(f, 'f', max(precision, 0), 64)
		}
	case ColumnTypeBoolean:
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b)
		}
	}
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// AsFloat converts numeric Go values to float64.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}

// NormalizeValue converts decoded config/JSON values into the cell representation of type t.
func NormalizeValue(t ColumnType, v any) any {
	if t.Basic() == ColumnTypeNumber {
		if f, ok := AsFloat(v); ok {
			return f
		}
	}
	return v
}
