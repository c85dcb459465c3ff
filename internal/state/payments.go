package state

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"rentdesk/internal/api"
	"rentdesk/internal/core"
	"rentdesk/internal/view"
)

// PaymentMethods is the UI-suggested set. The backend accepts free text; the
// select just seeds common values.
var PaymentMethods = []string{"cash", "check", "card", "ach", "other"}

// PaymentForm holds the new-payment fields as the user typed them. Values
// survive a failed submit so nothing has to be re-entered.
type PaymentForm struct {
	LeaseID  string
	Amount   string
	Method   string
	PaidDate string
	Status   string
}

// DefaultPaymentForm returns the form's initial values.
func DefaultPaymentForm() PaymentForm {
	return PaymentForm{Method: PaymentMethods[0], Status: "posted"}
}

// ValidationError is a client-side required-field failure. It surfaces as a
// message, never as a backend call.
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

// Validate checks the required fields in order, stopping at the first empty
// one after trimming.
func (f PaymentForm) Validate() error {
	checks := []struct {
		value string
		msg   string
	}{
		{f.LeaseID, "Lease ID is required."},
		{f.Amount, "Amount is required."},
		{f.PaidDate, "Paid date is required."},
		{f.Method, "Method is required."},
		{f.Status, "Status is required."},
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			return &ValidationError{msg: c.msg}
		}
	}
	return nil
}

// payload converts the form into the create body. Lease id and amount go out
// as numbers when they parse and as null when they do not; the backend gets
// to reject bad input with its own message.
func (f PaymentForm) payload() core.NewPayment {
	return core.NewPayment{
		LeaseID:  numOrNil(f.LeaseID),
		Amount:   numOrNil(f.Amount),
		Method:   f.Method,
		PaidDate: strings.TrimSpace(f.PaidDate),
		Status:   f.Status,
	}
}

func numOrNil(s string) any {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return n
}

// Payments is the Payments page: the ledger snapshot plus the new-payment
// form. Payments are never edited or deleted here.
type Payments struct {
	svc api.PaymentService

	mu       sync.Mutex
	snapshot []core.Payment
	loaded   bool
	form     PaymentForm
	showForm bool
}

func NewPayments(svc api.PaymentService) *Payments {
	return &Payments{svc: svc, form: DefaultPaymentForm()}
}

func (s *Payments) Load(ctx context.Context) error {
	rows, err := s.svc.ListPayments(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snapshot = rows
	s.loaded = true
	s.mu.Unlock()
	return nil
}

func (s *Payments) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// View returns the derived rows for the query plus the total snapshot size.
func (s *Payments) View(query string) (rows []core.Payment, total int) {
	s.mu.Lock()
	snapshot := s.snapshot
	s.mu.Unlock()
	return view.FilterPayments(snapshot, query), len(snapshot)
}

// SetForm stores the submitted values so a failed create can re-render them.
func (s *Payments) SetForm(f PaymentForm) {
	s.mu.Lock()
	s.form = f
	s.mu.Unlock()
}

func (s *Payments) Form() PaymentForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// SetShowForm opens or closes the new-payment form.
func (s *Payments) SetShowForm(show bool) {
	s.mu.Lock()
	s.showForm = show
	s.mu.Unlock()
}

func (s *Payments) ShowForm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showForm
}

// Create validates the stored form and, only if it passes, posts the payment.
// On success the form resets to defaults and closes; the caller is expected
// to trigger a full reload of the ledger. On failure the entered values stay.
func (s *Payments) Create(ctx context.Context) (core.Payment, error) {
	s.mu.Lock()
	form := s.form
	s.mu.Unlock()

	if err := form.Validate(); err != nil {
		return core.Payment{}, err
	}
	created, err := s.svc.CreatePayment(ctx, form.payload())
	if err != nil {
		return core.Payment{}, err
	}

	s.mu.Lock()
	s.form = DefaultPaymentForm()
	s.showForm = false
	s.mu.Unlock()
	return created, nil
}
