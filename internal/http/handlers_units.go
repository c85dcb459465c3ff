package http

import (
	"log/slog"
	"net/http"

	"rentdesk/internal/view"
)

func (s *Server) handleUnitsPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "units.html", nil)
}

type unitHeader struct {
	Key       string
	Label     string
	Indicator string
}

type unitRow struct {
	UnitNumber string
	Floorplan  string
	Bedrooms   string
	Bathrooms  string
	SquareFeet string
	Status     string
	MarketRent string
}

type unitsTableData struct {
	Err     string
	Query   string
	Headers []unitHeader
	Rows    []unitRow
	Count   string
}

// handleUnitsTable serves the sortable units grid. A sort param is a header
// click: same column flips direction, a new column starts ascending.
func (s *Server) handleUnitsTable(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	sort := s.units.Sort()
	if key := r.URL.Query().Get("sort"); key != "" {
		sort = s.units.Toggle(key)
	}

	var loadErr string
	if r.URL.Query().Get("reload") == "1" || !s.units.Loaded() {
		if err := s.units.Load(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Units load failed", "error", err)
			loadErr = err.Error()
		}
	}

	query := sanitizeInput(r.URL.Query().Get("q"))
	rows, total := s.units.View(query)

	data := unitsTableData{
		Err:   loadErr,
		Query: query,
		Count: countLabel(len(rows), total),
	}
	for _, col := range view.UnitsTable.Columns {
		data.Headers = append(data.Headers, unitHeader{
			Key:       col.Key,
			Label:     col.Label,
			Indicator: sort.Indicator(col.Key),
		})
	}
	for _, u := range rows {
		data.Rows = append(data.Rows, unitRow{
			UnitNumber: cell(u.UnitNumber),
			Floorplan:  cell(u.Floorplan),
			Bedrooms:   cell(u.Bedrooms),
			Bathrooms:  cell(u.Bathrooms),
			SquareFeet: cell(u.SquareFeet),
			Status:     cell(u.Status),
			MarketRent: formatMoney(u.MarketRent),
		})
	}

	body, err := s.renderBytes("units_table.html", data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Units table render failed", "error", err)
		InternalServerError("Failed to render units").Write(w)
		return
	}

	resp := NewHTMXResponse().BodyHTML(string(body))
	if loadErr != "" {
		resp.TriggerErrorNotification("Failed to load units")
	}
	resp.Write(w)
}
