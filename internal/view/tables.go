package view

import (
	"slices"

	"rentdesk/internal/core"
)

// UnitsTable drives the Units page: every column is sortable by header click
// and the search looks across the visible fields plus the unit id.
var UnitsTable = Table[core.Unit]{
	Columns: []Column[core.Unit]{
		{Key: "unit_number", Label: "Unit", Kind: String, Value: func(u core.Unit) any { return u.UnitNumber }},
		{Key: "floorplan", Label: "Floorplan", Kind: String, Value: func(u core.Unit) any { return u.Floorplan }},
		{Key: "bedrooms", Label: "Beds", Kind: Number, Value: func(u core.Unit) any { return u.Bedrooms }},
		{Key: "bathrooms", Label: "Baths", Kind: Number, Value: func(u core.Unit) any { return u.Bathrooms }},
		{Key: "square_feet", Label: "Sq Ft", Kind: Number, Value: func(u core.Unit) any { return u.SquareFeet }},
		{Key: "status", Label: "Status", Kind: String, Value: func(u core.Unit) any { return u.Status }},
		{Key: "market_rent", Label: "Market Rent", Kind: Number, Value: func(u core.Unit) any { return u.MarketRent }},
	},
	Search: func(u core.Unit) []any {
		return []any{u.UnitNumber, u.Floorplan, u.Status, u.Bedrooms, u.Bathrooms, u.SquareFeet, u.MarketRent, u.UnitID}
	},
}

// Units returns the derived Units view for the given query and sort state.
func Units(rows []core.Unit, query string, sort Sort) []core.Unit {
	return UnitsTable.Apply(rows, query, sort)
}

// FilterPayments returns the payments matching the query. The Payments page
// has no column sorting; the ledger keeps backend order.
func FilterPayments(rows []core.Payment, query string) []core.Payment {
	return Filter(rows, query, paymentSearchFields)
}

func paymentSearchFields(p core.Payment) []any {
	return []any{p.PaymentID, p.LeaseID, p.UnitID, p.Amount, p.Method, p.PaidDate, p.PeriodMonth, p.PeriodYear, p.Status}
}

// ResidentSort selects one of the two Residents sort modes. Both are always
// ascending; the page has no direction toggle.
type ResidentSort string

const (
	ResidentsByName ResidentSort = "name"
	ResidentsByID   ResidentSort = "id"
)

// Residents returns the derived Residents view: filtered by query, then
// sorted by id (numeric) or by "last first" (casefolded, locale-aware).
func Residents(rows []core.Resident, query string, mode ResidentSort) []core.Resident {
	out := slices.Clone(Filter(rows, query, residentSearchFields))
	coll := newCollator()
	slices.SortStableFunc(out, func(a, b core.Resident) int {
		if mode == ResidentsByID {
			av, aok := NumberKey(a.ResidentID)
			bv, bok := NumberKey(b.ResidentID)
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
		return coll.CompareString(residentSortName(a), residentSortName(b))
	})
	return out
}

func residentSearchFields(r core.Resident) []any {
	return []any{r.ResidentID, r.FullName(), r.Email, r.Phone}
}

func residentSortName(r core.Resident) string {
	return Normalize(r.LastName + " " + r.FirstName)
}
