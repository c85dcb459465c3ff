package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"rentdesk/internal/core"
	"rentdesk/internal/view"
)

const placeholder = "—"

// formatMoney renders an amount as USD ("$1,495.00"). Non-numeric values get
// the placeholder.
func formatMoney(v any) string {
	n, ok := view.Amount(v)
	if !ok {
		return placeholder
	}
	neg := n < 0
	cents := int64(math.Round(math.Abs(n) * 100))
	dollars := cents / 100
	rem := cents % 100

	digits := strconv.FormatInt(dollars, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := "$" + b.String() + fmt.Sprintf(".%02d", rem)
	if neg {
		return "-" + out
	}
	return out
}

// formatDateTime renders a backend date as "MM/DD/YY h:mm AM"; unparsable
// dates get the placeholder.
func formatDateTime(s string) string {
	t, ok := view.ParseDate(s)
	if !ok {
		return placeholder
	}
	return t.Format("01/02/06 3:04 PM")
}

// cell renders a loosely typed field, falling back to the placeholder when
// the field is absent.
func cell(v any) string {
	s := core.Str(v)
	if s == "" {
		return placeholder
	}
	return s
}

// period renders "month/year" when both parts are present.
func period(month, year any) string {
	m, y := core.Str(month), core.Str(year)
	if m == "" || y == "" {
		return placeholder
	}
	return m + "/" + y
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
