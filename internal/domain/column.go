package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ColumnType tags how a column's values are coerced and formatted.
// The lower eight bits carry the basic type; higher bits are free for host extensions.
type ColumnType uint16

// Column type flags.
const (
	ColumnTypeNumber    ColumnType = 1 << 0
	ColumnTypeString    ColumnType = 1 << 1
	ColumnTypeBoolean   ColumnType = 1 << 2
	ColumnTypeBasicMask ColumnType = 0xFF
)

// Basic returns the basic type bits of t.
func (t ColumnType) Basic() ColumnType {
	return t & ColumnTypeBasicMask
}

// String returns the config name of the basic type.
func (t ColumnType) String() string {
	switch t.Basic() {
	case ColumnTypeNumber:
		return "number"
	case ColumnTypeBoolean:
		return "boolean"
	default:
		return "string"
	}
}

// ParseColumnType parses a config type name.
func ParseColumnType(raw string) (ColumnType, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "number", "numeric", "float":
		return ColumnTypeNumber, nil
	case "", "string", "text":
		return ColumnTypeString, nil
	case "boolean", "bool":
		return ColumnTypeBoolean, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownColumnType, raw)
	}
}

// Policy holds the host-provided per-column flags consulted by every grid operation.
type Policy struct {
	Editable     bool
	AllowAddCols bool
	AllowAddRows bool

	DefaultValue  any
	DefaultValues map[string]any

	DefaultType ColumnType
	Types       map[string]ColumnType

	DefaultPrecision int
	Precisions       map[string]int

	// ReadonlyColumns lists readonly keys; ReadonlyFunc is an optional membership test.
	ReadonlyColumns []string
	ReadonlyFunc    func(key string) bool
}

// DefaultPolicy returns an editable policy with string columns and two-digit precision.
func DefaultPolicy() Policy {
	return Policy{
		Editable:         true,
		AllowAddCols:     true,
		AllowAddRows:     true,
		DefaultValue:     "",
		DefaultType:      ColumnTypeString,
		DefaultPrecision: 2,
	}
}

// TypeOf returns the column's type, falling back to DefaultType.
func (p Policy) TypeOf(key string) ColumnType {
	if t, ok := p.Types[key]; ok && t != 0 {
		return t
	}
	if p.DefaultType == 0 {
		return ColumnTypeString
	}
	return p.DefaultType
}

// PrecisionOf returns the column's numeric precision.
func (p Policy) PrecisionOf(key string) int {
	if v, ok := p.Precisions[key]; ok {
		return v
	}
	return p.DefaultPrecision
}

// DefaultFor returns the value written into new or reset cells of the column.
func (p Policy) DefaultFor(key string) any {
	if v, ok := p.DefaultValues[key]; ok && v != nil {
		return v
	}
	if p.DefaultValue != nil {
		return p.DefaultValue
	}
	switch p.TypeOf(key).Basic() {
	case ColumnTypeNumber:
		return 0.0
	case ColumnTypeBoolean:
		return false
	default:
		return ""
	}
}

// IsReadonly reports whether the column rejects writes, deletion, and renames.
func (p Policy) IsReadonly(key string) bool {
	if slices.Contains(p.ReadonlyColumns, key) {
		return true
	}
	return p.ReadonlyFunc != nil && p.ReadonlyFunc(key)
}

// RenameColumn moves every per-column override from oldKey to newKey.
func (p *Policy) RenameColumn(oldKey, newKey string) {
	if v, ok := p.DefaultValues[oldKey]; ok {
		delete(p.DefaultValues, oldKey)
		p.DefaultValues[newKey] = v
	}
	if v, ok := p.Types[oldKey]; ok {
		delete(p.Types, oldKey)
		p.Types[newKey] = v
	}
	if v, ok := p.Precisions[oldKey]; ok {
		delete(p.Precisions, oldKey)
		p.Precisions[newKey] = v
	}
	for i, key := range p.ReadonlyColumns {
		if key == oldKey {
			p.ReadonlyColumns[i] = newKey
		}
	}
}

// Clone deep-copies the override maps and readonly list.
func (p Policy) Clone() Policy {
	out := p
	out.DefaultValues = cloneMap(p.DefaultValues)
	out.Types = cloneMap(p.Types)
	out.Precisions = cloneMap(p.Precisions)
	out.ReadonlyColumns = append([]string(nil), p.ReadonlyColumns...)
	return out
}

// cloneMap copies m into a non-nil map.
func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	maps.Copy(out, m)
	return out
}
