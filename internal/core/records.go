package core

import (
	"strconv"
	"strings"
)

// Records mirror what the property backend returns. The backend owns the
// schema; fields that may arrive as a number, a formatted string, or not at
// all are kept loosely typed and coerced at the point of use.
type (
	Resident struct {
		ResidentID any    `json:"resident_id"`
		FirstName  string `json:"first_name"`
		LastName   string `json:"last_name"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
	}

	Unit struct {
		UnitID     any    `json:"unit_id"`
		UnitNumber string `json:"unit_number"`
		Floorplan  string `json:"floorplan"`
		Bedrooms   any    `json:"bedrooms"`
		Bathrooms  any    `json:"bathrooms"`
		SquareFeet any    `json:"square_feet"`
		Status     string `json:"status"`
		MarketRent any    `json:"market_rent"`
	}

	Payment struct {
		PaymentID   any    `json:"payment_id"`
		LeaseID     any    `json:"lease_id"`
		UnitID      any    `json:"unit_id"`
		Amount      any    `json:"amount"`
		Method      string `json:"method"`
		PaidDate    string `json:"paid_date"`
		Status      string `json:"status"`
		PeriodMonth any    `json:"period_month"`
		PeriodYear  any    `json:"period_year"`
	}

	// NewPayment is the create payload. It carries exactly what the form
	// supplied; lease id and amount stay null when they did not parse, so the
	// backend sees the bad input instead of a silent zero.
	NewPayment struct {
		LeaseID  any    `json:"lease_id"`
		Amount   any    `json:"amount"`
		Method   string `json:"method"`
		PaidDate string `json:"paid_date"`
		Status   string `json:"status"`
	}
)

// FullName returns "first last" with missing parts dropped.
func (r Resident) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// ID returns the resident id in its canonical string form.
func (r Resident) ID() string { return Str(r.ResidentID) }

// Str renders a loosely typed record field as a plain string. Nil becomes the
// empty string; numbers drop their insignificant zeros so an id decoded as
// float64 still prints as "7".
func Str(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
