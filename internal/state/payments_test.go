package state

import (
	"context"
	"errors"
	"testing"

	"rentdesk/internal/core"
)

type fakePaymentService struct {
	rows      []core.Payment
	listErr   error
	createErr error
	created   []core.NewPayment
}

func (f *fakePaymentService) ListPayments(ctx context.Context) ([]core.Payment, error) {
	return f.rows, f.listErr
}

func (f *fakePaymentService) CreatePayment(ctx context.Context, p core.NewPayment) (core.Payment, error) {
	if f.createErr != nil {
		return core.Payment{}, f.createErr
	}
	f.created = append(f.created, p)
	return core.Payment{PaymentID: float64(len(f.created))}, nil
}

func TestPaymentFormValidationOrder(t *testing.T) {
	cases := []struct {
		form PaymentForm
		want string
	}{
		{PaymentForm{}, "Lease ID is required."},
		{PaymentForm{LeaseID: "101"}, "Amount is required."},
		{PaymentForm{LeaseID: "101", Amount: "1495"}, "Paid date is required."},
		{PaymentForm{LeaseID: "101", Amount: "1495", PaidDate: "2024-06-01"}, "Method is required."},
		{PaymentForm{LeaseID: "101", Amount: "1495", PaidDate: "2024-06-01", Method: "ach"}, "Status is required."},
		{PaymentForm{LeaseID: " ", Amount: "1495", PaidDate: "2024-06-01", Method: "ach", Status: "posted"}, "Lease ID is required."},
	}
	for i, tc := range cases {
		err := tc.form.Validate()
		if err == nil || err.Error() != tc.want {
			t.Fatalf("case %d: expected %q, got %v", i, tc.want, err)
		}
	}

	ok := PaymentForm{LeaseID: "101", Amount: "1495", PaidDate: "2024-06-01", Method: "ach", Status: "posted"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
}

func TestCreateValidationSkipsBackend(t *testing.T) {
	svc := &fakePaymentService{}
	s := NewPayments(svc)
	s.SetForm(PaymentForm{LeaseID: "101", Amount: "1495", Method: "ach", Status: "posted"})

	_, err := s.Create(context.Background())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "Paid date is required." {
		t.Fatalf("expected paid date message, got %q", err.Error())
	}
	if len(svc.created) != 0 {
		t.Fatalf("validation failure must not reach the backend")
	}
}

func TestCreateSuccessResetsForm(t *testing.T) {
	svc := &fakePaymentService{}
	s := NewPayments(svc)
	s.SetShowForm(true)
	s.SetForm(PaymentForm{LeaseID: "101", Amount: "1495.00", PaidDate: "2024-06-01", Method: "ach", Status: "posted"})

	created, err := s.Create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if core.Str(created.PaymentID) != "1" {
		t.Fatalf("expected created payment back, got %+v", created)
	}
	if len(svc.created) != 1 {
		t.Fatalf("expected one backend call, got %d", len(svc.created))
	}
	sent := svc.created[0]
	if sent.LeaseID != 101.0 || sent.Amount != 1495.0 {
		t.Fatalf("numeric fields mangled: %+v", sent)
	}
	if sent.Method != "ach" || sent.PaidDate != "2024-06-01" || sent.Status != "posted" {
		t.Fatalf("payload mangled: %+v", sent)
	}

	if s.ShowForm() {
		t.Fatalf("form must close on success")
	}
	if got := s.Form(); got != DefaultPaymentForm() {
		t.Fatalf("form must reset to defaults, got %+v", got)
	}
}

func TestCreateFailureKeepsForm(t *testing.T) {
	svc := &fakePaymentService{createErr: errors.New("duplicate payment")}
	s := NewPayments(svc)
	s.SetShowForm(true)
	entered := PaymentForm{LeaseID: "101", Amount: "1495", PaidDate: "2024-06-01", Method: "check", Status: "posted"}
	s.SetForm(entered)

	_, err := s.Create(context.Background())
	if err == nil || err.Error() != "duplicate payment" {
		t.Fatalf("expected backend error, got %v", err)
	}
	if got := s.Form(); got != entered {
		t.Fatalf("entered values must survive a failed create, got %+v", got)
	}
	if !s.ShowForm() {
		t.Fatalf("form must stay open on failure")
	}
}

func TestUnparsableNumbersGoOutAsNull(t *testing.T) {
	f := PaymentForm{LeaseID: "abc", Amount: "1495", PaidDate: "2024-06-01", Method: "cash", Status: "posted"}
	p := f.payload()
	if p.LeaseID != nil {
		t.Fatalf("expected nil lease id for unparsable input, got %v", p.LeaseID)
	}
	if p.Amount != 1495.0 {
		t.Fatalf("expected amount 1495, got %v", p.Amount)
	}
}
