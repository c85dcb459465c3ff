package http

import (
	"errors"
	"log/slog"
	"net/http"

	"rentdesk/internal/state"
)

func (s *Server) handlePaymentsPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "payments.html", nil)
}

type paymentsTableData struct {
	Err   string
	Query string
	Rows  []paymentRow
	Count string
}

// handlePaymentsTable serves the ledger in backend order; only the text
// filter applies.
func (s *Server) handlePaymentsTable(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	var loadErr string
	if r.URL.Query().Get("reload") == "1" || !s.payments.Loaded() {
		if err := s.payments.Load(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Payments load failed", "error", err)
			loadErr = err.Error()
		}
	}

	query := sanitizeInput(r.URL.Query().Get("q"))
	rows, total := s.payments.View(query)

	data := paymentsTableData{
		Err:   loadErr,
		Query: query,
		Count: countLabel(len(rows), total),
	}
	for _, p := range rows {
		data.Rows = append(data.Rows, toPaymentRow(p))
	}

	body, err := s.renderBytes("payments_table.html", data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Payments table render failed", "error", err)
		InternalServerError("Failed to render payments").Write(w)
		return
	}

	resp := NewHTMXResponse().BodyHTML(string(body))
	if loadErr != "" {
		resp.TriggerErrorNotification("Failed to load payments")
	}
	resp.Write(w)
}

type paymentFormData struct {
	Show    bool
	Form    state.PaymentForm
	Methods []string
	Err     string
	Success string
}

// handlePaymentForm opens, closes, or re-renders the new-payment form. The
// open param carries the toggle; without it the stored state decides.
func (s *Server) handlePaymentForm(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	switch r.URL.Query().Get("open") {
	case "1":
		s.payments.SetShowForm(true)
	case "0":
		s.payments.SetShowForm(false)
	}
	s.renderPaymentForm(w, r, "", "")
}

func (s *Server) renderPaymentForm(w http.ResponseWriter, r *http.Request, formErr, success string) *HTMXResponseBuilder {
	data := paymentFormData{
		Show:    s.payments.ShowForm(),
		Form:    s.payments.Form(),
		Methods: state.PaymentMethods,
		Err:     formErr,
		Success: success,
	}
	body, err := s.renderBytes("payment_form.html", data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Payment form render failed", "error", err)
		InternalServerError("Failed to render payment form").Write(w)
		return nil
	}
	return NewHTMXResponse().BodyHTML(string(body))
}

// handlePaymentCreate runs the submit path: validation first, with the first
// failing field's message shown in the form and no request leaving the
// server; then the backend call, whose error message renders verbatim; on
// success the ledger reloads and the form resets.
func (s *Server) handlePaymentCreate(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		ErrorResponse(http.StatusBadRequest, "Invalid request").Write(w)
		return
	}

	s.payments.SetForm(state.PaymentForm{
		LeaseID:  sanitizeInput(r.Form.Get("lease_id")),
		Amount:   sanitizeInput(r.Form.Get("amount")),
		Method:   sanitizeInput(r.Form.Get("method")),
		PaidDate: sanitizeInput(r.Form.Get("paid_date")),
		Status:   sanitizeInput(r.Form.Get("status")),
	})
	// A submit means the form is on screen; failures re-render it open.
	s.payments.SetShowForm(true)

	created, err := s.payments.Create(r.Context())
	if err != nil {
		var verr *state.ValidationError
		if errors.As(err, &verr) {
			if resp := s.renderPaymentForm(w, r, err.Error(), ""); resp != nil {
				resp.Status(http.StatusUnprocessableEntity).Write(w)
			}
			return
		}
		slog.ErrorContext(r.Context(), "Payment create failed", "error", err)
		if resp := s.renderPaymentForm(w, r, err.Error(), ""); resp != nil {
			resp.TriggerErrorNotification(err.Error()).Write(w)
		}
		return
	}

	slog.InfoContext(r.Context(), "Payment created", "payment_id", cell(created.PaymentID))
	if s.events != nil {
		if err := s.events.PublishPaymentCreated(r.Context(), created); err != nil {
			slog.WarnContext(r.Context(), "Payment event publish failed", "error", err)
		}
	}
	if err := s.payments.Load(r.Context()); err != nil {
		slog.WarnContext(r.Context(), "Payments reload after create failed", "error", err)
	}

	if resp := s.renderPaymentForm(w, r, "", "Payment created."); resp != nil {
		resp.TriggerPaymentCreated().
			TriggerSuccessNotification("Payment created").
			Write(w)
	}
}
