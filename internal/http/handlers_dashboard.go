package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"rentdesk/internal/core"
)

// handleDashboardPage renders the dashboard shell; the overview partial loads
// itself on mount.
func (s *Server) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, r, "dashboard.html", nil)
}

type statusRow struct {
	Status string
	Count  int
	Pct    int
}

type paymentRow struct {
	Date   string
	Amount string
	Method string
	Status string
	Lease  string
	Unit   string
	Period string
}

// handleDashboardOverview loads all three snapshots concurrently and renders
// the KPI cards, the unit-status breakdown, and the recent payments panel.
// A failed batch keeps whatever was on screen and shows the error inline.
func (s *Server) handleDashboardOverview(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	var loadErr string
	if err := s.dashboard.Load(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard load failed", "error", err)
		loadErr = err.Error()
	}

	o := s.dashboard.Overview(time.Now())

	data := struct {
		Err            string
		Loaded         bool
		ResidentCount  int
		UnitCount      int
		TopStatus      string
		TopStatusCount int
		StatusTypes    int
		Rows           []statusRow
		Recent         []paymentRow
		AllTime        string
		Last30         string
		Last30Count    int
	}{
		Err:            loadErr,
		Loaded:         s.dashboard.Loaded(),
		ResidentCount:  o.ResidentCount,
		UnitCount:      o.UnitCount,
		TopStatus:      o.TopStatus,
		TopStatusCount: o.TopStatusCount,
		StatusTypes:    len(o.StatusCounts),
		AllTime:        formatMoney(o.Totals.AllTime),
		Last30:         formatMoney(o.Totals.Last30),
		Last30Count:    o.Totals.Last30Count,
	}
	if data.TopStatus == "" {
		data.TopStatus = placeholder
	}
	for _, sc := range o.StatusCounts {
		data.Rows = append(data.Rows, statusRow(sc))
	}
	for _, p := range o.Recent {
		data.Recent = append(data.Recent, toPaymentRow(p))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.render(w, r, "dashboard_overview.html", data)
}

func toPaymentRow(p core.Payment) paymentRow {
	return paymentRow{
		Date:   formatDateTime(p.PaidDate),
		Amount: formatMoney(p.Amount),
		Method: cell(p.Method),
		Status: cell(p.Status),
		Lease:  cell(p.LeaseID),
		Unit:   cell(p.UnitID),
		Period: period(p.PeriodMonth, p.PeriodYear),
	}
}

// renderBytes executes a template into a buffer so the fragment can be sent
// through the htmx response builder together with triggers.
func (s *Server) renderBytes(name string, data any) ([]byte, error) {
	if s.templates == nil {
		return nil, fmt.Errorf("templates not loaded")
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// RequireMethod checks the request method, returning a 405 builder when it
// does not match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	allowed := ""
	for i, m := range methods {
		if i > 0 {
			allowed += ", "
		}
		allowed += m
	}
	return MethodNotAllowedError(allowed)
}

// countLabel renders the "Showing X of N" fragment data.
func countLabel(shown, total int) string {
	return "Showing " + strconv.Itoa(shown) + " of " + strconv.Itoa(total)
}
