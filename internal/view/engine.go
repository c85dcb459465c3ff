// Package view implements the derived-view engine behind every page: free-text
// filtering, column sorting, and the dashboard's aggregate metrics. The engine
// is pure with respect to its inputs (snapshot, query, sort state) and never
// talks to the backend.
package view

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"rentdesk/internal/core"
)

// Kind selects the coercion a column applies before comparing values.
type Kind int

const (
	String Kind = iota
	Number
)

// Column describes one sortable field of an entity.
type Column[T any] struct {
	Key   string
	Label string
	Kind  Kind
	Value func(T) any
}

// Sort is the active sort state of a column-driven table.
type Sort struct {
	Key  string
	Desc bool
}

// Toggle applies the header-click rule: clicking the active column flips the
// direction, clicking another column switches to it ascending.
func (s Sort) Toggle(key string) Sort {
	if key == s.Key {
		return Sort{Key: s.Key, Desc: !s.Desc}
	}
	return Sort{Key: key}
}

// Indicator returns the header marker for key, or "" when key is not active.
func (s Sort) Indicator(key string) string {
	if key != s.Key {
		return ""
	}
	if s.Desc {
		return " ▼"
	}
	return " ▲"
}

// Table pairs an entity's sortable columns with the fields its free-text
// search inspects.
type Table[T any] struct {
	Columns []Column[T]
	Search  func(T) []any
}

// Column resolves a sort key, falling back to the first column.
func (t Table[T]) Column(key string) Column[T] {
	for _, c := range t.Columns {
		if c.Key == key {
			return c
		}
	}
	return t.Columns[0]
}

// Apply produces the derived view: filter by query, then stable-sort a copy of
// the survivors by the requested column. The input slice is never mutated.
func (t Table[T]) Apply(rows []T, query string, sort Sort) []T {
	out := slices.Clone(Filter(rows, query, t.Search))
	col := t.Column(sort.Key)
	coll := newCollator()
	slices.SortStableFunc(out, func(a, b T) int {
		base := compareColumn(col, a, b, coll)
		if sort.Desc {
			return -base
		}
		return base
	})
	return out
}

// Normalize prepares a raw query for matching: trim, then casefold.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Filter keeps the rows whose match set contains the query as a
// case-insensitive substring. An empty query returns rows unchanged. Nil
// fields are excluded from the match set before stringification.
func Filter[T any](rows []T, query string, fields func(T) []any) []T {
	q := Normalize(query)
	if q == "" {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if matchesAny(fields(row), q) {
			out = append(out, row)
		}
	}
	return out
}

func matchesAny(fields []any, q string) bool {
	for _, f := range fields {
		if f == nil {
			continue
		}
		if strings.Contains(strings.ToLower(core.Str(f)), q) {
			return true
		}
	}
	return false
}

// NumberKey coerces a raw field to a numeric sort key: strip every character
// that is not a digit, dot, or minus, then parse. Absent values have no key;
// values that strip down to nothing key as zero.
func NumberKey(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	s := core.Str(v)
	if s == "" {
		return 0, false
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	stripped := b.String()
	if stripped == "" {
		return 0, true
	}
	n, err := strconv.ParseFloat(stripped, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// StringKey coerces a raw field to a casefolded string sort key. Absent
// values key as the empty string.
func StringKey(v any) string {
	if v == nil {
		return ""
	}
	return strings.ToLower(core.Str(v))
}

// compareColumn is the base (ascending) comparator. Two keyless values are
// equal; a keyless value sorts after any keyed one. Direction is applied by
// negating the result, so keyless values lead in descending order.
func compareColumn[T any](col Column[T], a, b T, coll *collate.Collator) int {
	if col.Kind == Number {
		av, aok := NumberKey(col.Value(a))
		bv, bok := NumberKey(col.Value(b))
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	}
	return coll.CompareString(StringKey(col.Value(a)), StringKey(col.Value(b)))
}

// A collate.Collator is not safe for concurrent use, so each sorting pass
// gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und)
}
