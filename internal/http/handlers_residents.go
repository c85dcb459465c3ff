package http

import (
	"log/slog"
	"net/http"

	"rentdesk/internal/view"
)

func (s *Server) handleResidentsPage(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Query    string
		SortMode string
	}{SortMode: string(s.residents.SortMode())}
	s.render(w, r, "residents.html", data)
}

type residentRow struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	Selected bool
}

type residentsTableData struct {
	Err   string
	Query string
	Rows  []residentRow
	Count string
}

// handleResidentsTable recomputes the derived view. With reload=1 the
// snapshot is refreshed first; a failed refresh keeps prior data, shows the
// error inline, and raises an error toast.
func (s *Server) handleResidentsTable(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	if mode := r.URL.Query().Get("sort"); mode != "" {
		s.residents.SetSortMode(view.ResidentSort(mode))
	}

	var loadErr string
	if r.URL.Query().Get("reload") == "1" || !s.residents.Loaded() {
		if err := s.residents.Load(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Residents load failed", "error", err)
			loadErr = err.Error()
		}
	}

	query := sanitizeInput(r.URL.Query().Get("q"))
	body, err := s.renderBytes("residents_table.html", s.residentsTableData(query, loadErr))
	if err != nil {
		slog.ErrorContext(r.Context(), "Residents table render failed", "error", err)
		InternalServerError("Failed to render residents").Write(w)
		return
	}

	resp := NewHTMXResponse().BodyHTML(string(body))
	if loadErr != "" {
		resp.TriggerErrorNotification("Failed to load residents")
	}
	resp.Write(w)
}

func (s *Server) residentsTableData(query, loadErr string) residentsTableData {
	rows, total := s.residents.View(query)
	selected := s.residents.Selected()

	data := residentsTableData{
		Err:   loadErr,
		Query: query,
		Count: countLabel(len(rows), total),
	}
	for _, res := range rows {
		data.Rows = append(data.Rows, residentRow{
			ID:       res.ID(),
			Name:     res.FullName(),
			Email:    res.Email,
			Phone:    res.Phone,
			Selected: selected != "" && res.ID() == selected,
		})
	}
	return data
}

// handleResidentSelect marks a row as selected and re-renders the table.
func (s *Server) handleResidentSelect(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		ErrorResponse(http.StatusBadRequest, "Invalid request").Write(w)
		return
	}
	s.residents.Select(sanitizeInput(r.Form.Get("id")))

	query := sanitizeInput(r.Form.Get("q"))
	body, err := s.renderBytes("residents_table.html", s.residentsTableData(query, ""))
	if err != nil {
		InternalServerError("Failed to render residents").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(string(body)).Write(w)
}

// handleResidentEdit is a stub until the edit form lands; the button only
// raises an info toast, nothing on the page changes.
func (s *Server) handleResidentEdit(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}
	NewHTMXResponse().TriggerInfoNotification("Edit coming next step").Write(w)
}

// handleResidentDelete applies the optimistic delete. The confirmation
// prompt lives client-side; by the time this handler runs the user already
// said yes. On failure the restored table renders with an error toast.
func (s *Server) handleResidentDelete(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodPost, http.MethodDelete); resp != nil {
		resp.Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		ErrorResponse(http.StatusBadRequest, "Invalid request").Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if id == "" {
		UnprocessableEntityError("Missing resident id").Write(w)
		return
	}

	query := sanitizeInput(r.Form.Get("q"))
	deleteErr := s.residents.Delete(r.Context(), id)
	if deleteErr != nil {
		slog.ErrorContext(r.Context(), "Resident delete failed", "error", deleteErr, "resident_id", id)
	} else {
		slog.InfoContext(r.Context(), "Resident deleted", "resident_id", id)
	}

	body, err := s.renderBytes("residents_table.html", s.residentsTableData(query, ""))
	if err != nil {
		InternalServerError("Failed to render residents").Write(w)
		return
	}

	resp := NewHTMXResponse().BodyHTML(string(body))
	if deleteErr != nil {
		resp.TriggerErrorNotification(deleteErr.Error())
	} else {
		resp.TriggerSuccessNotification("Resident deleted")
	}
	resp.Write(w)
}
