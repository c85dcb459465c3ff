package view

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"rentdesk/internal/core"
)

// Last30Window is the trailing window the dashboard sums payments over.
const Last30Window = 30 * 24 * time.Hour

// StatusCount is one bar of the unit-status breakdown.
type StatusCount struct {
	Status string
	Count  int
	Pct    int
}

// StatusBreakdown groups units by status (missing status counts under
// "unknown"), orders groups by descending count, and computes each group's
// rounded share of all units. With no units every percentage is zero.
func StatusBreakdown(units []core.Unit) []StatusCount {
	counts := make(map[string]int)
	var order []string
	for _, u := range units {
		st := u.Status
		if st == "" {
			st = "unknown"
		}
		if _, seen := counts[st]; !seen {
			order = append(order, st)
		}
		counts[st]++
	}

	out := make([]StatusCount, 0, len(order))
	for _, st := range order {
		sc := StatusCount{Status: st, Count: counts[st]}
		if len(units) > 0 {
			sc.Pct = int(math.Round(float64(sc.Count) / float64(len(units)) * 100))
		}
		out = append(out, sc)
	}
	slices.SortStableFunc(out, func(a, b StatusCount) int { return b.Count - a.Count })
	return out
}

// SortPaymentsByDateDesc orders a copy of the payments newest first by parsed
// paid_date. Unparsable or missing dates behave as the earliest possible
// value, so they sink to the bottom.
func SortPaymentsByDateDesc(rows []core.Payment) []core.Payment {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b core.Payment) int {
		ta, aok := ParseDate(a.PaidDate)
		tb, bok := ParseDate(b.PaidDate)
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		case ta.After(tb):
			return -1
		case ta.Before(tb):
			return 1
		default:
			return 0
		}
	})
	return out
}

// RecentPayments returns the n most recent payments by paid_date.
func RecentPayments(rows []core.Payment, n int) []core.Payment {
	out := SortPaymentsByDateDesc(rows)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// PaymentTotals are the dashboard's payment aggregates.
type PaymentTotals struct {
	AllTime     float64
	Last30      float64
	Last30Count int
}

// Totals sums payment amounts. Non-numeric amounts contribute nothing. A
// payment counts toward the trailing window only when its paid_date parses
// and is at or after now minus the window; it still counts toward the
// all-time total if its amount is numeric.
func Totals(rows []core.Payment, now time.Time) PaymentTotals {
	cutoff := now.Add(-Last30Window)
	var t PaymentTotals
	for _, p := range rows {
		if amt, ok := Amount(p.Amount); ok {
			t.AllTime += amt
		}
		dt, ok := ParseDate(p.PaidDate)
		if !ok || dt.Before(cutoff) {
			continue
		}
		t.Last30Count++
		if amt, ok := Amount(p.Amount); ok {
			t.Last30 += amt
		}
	}
	return t
}

// Amount coerces a raw amount field to a number. Unlike NumberKey there is no
// character stripping: the whole value must be numeric or it is skipped.
func Amount(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, true
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses a backend date string. The backend usually sends
// YYYY-MM-DD but timestamps show up too.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
