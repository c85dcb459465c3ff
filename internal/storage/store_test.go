package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"rentdesk/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSeedAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SeedDemoData(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Reseeding must not duplicate rows.
	if err := store.SeedDemoData(ctx); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	residents, err := store.ListResidents(ctx)
	if err != nil {
		t.Fatalf("list residents: %v", err)
	}
	if len(residents) != 4 {
		t.Fatalf("residents=%d, want 4", len(residents))
	}
	if residents[0].FullName() != "Maria Santos" {
		t.Fatalf("first resident %q", residents[0].FullName())
	}

	units, err := store.ListUnits(ctx)
	if err != nil {
		t.Fatalf("list units: %v", err)
	}
	if len(units) != 6 {
		t.Fatalf("units=%d, want 6", len(units))
	}

	available, err := store.ListAvailableUnits(ctx)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	for _, u := range available {
		if u.Status != "vacant" {
			t.Fatalf("available unit with status %q", u.Status)
		}
	}
	if len(available) != 2 {
		t.Fatalf("available=%d, want 2", len(available))
	}

	payments, err := store.ListPayments(ctx)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 5 {
		t.Fatalf("payments=%d, want 5", len(payments))
	}
	// Newest paid date first.
	if payments[0].PaidDate != "2026-08-05" {
		t.Fatalf("first payment date %q", payments[0].PaidDate)
	}
	// Pending payment keeps its null amount.
	var sawNilAmount bool
	for _, p := range payments {
		if p.Amount == nil {
			sawNilAmount = true
		}
	}
	if !sawNilAmount {
		t.Fatalf("expected a payment with nil amount")
	}
}

func TestDeleteResident(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.SeedDemoData(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := store.DeleteResident(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	residents, err := store.ListResidents(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(residents) != 3 {
		t.Fatalf("residents=%d after delete, want 3", len(residents))
	}

	if err := store.DeleteResident(ctx, "999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing resident delete err=%v, want ErrNotFound", err)
	}
}

func TestCreatePayment(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreatePayment(ctx, core.NewPayment{
		LeaseID:  float64(7),
		Amount:   float64(1495),
		Method:   "ach",
		PaidDate: "2026-08-30",
		Status:   "posted",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.PaymentID == nil {
		t.Fatalf("created payment has no id")
	}

	payments, err := store.ListPayments(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("payments=%d, want 1", len(payments))
	}
	if got, _ := payments[0].Amount.(float64); got != 1495 {
		t.Fatalf("amount=%v", payments[0].Amount)
	}

	// Null lease and amount are allowed; the row still lands.
	if _, err := store.CreatePayment(ctx, core.NewPayment{Method: "cash", PaidDate: "2026-08-31", Status: "pending"}); err != nil {
		t.Fatalf("create with nulls: %v", err)
	}
	payments, err = store.ListPayments(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if payments[0].LeaseID != nil || payments[0].Amount != nil {
		t.Fatalf("expected null lease and amount: %+v", payments[0])
	}
}

func TestPaymentAudit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.InsertPaymentAudit(ctx, "42", float64(1250), "ach", "2026-08-01", "posted"); err != nil {
		t.Fatalf("insert audit: %v", err)
	}
	if err := store.InsertPaymentAudit(ctx, "43", nil, "cash", "2026-08-02", "pending"); err != nil {
		t.Fatalf("insert audit with null amount: %v", err)
	}

	n, err := store.CountPaymentAudit(ctx)
	if err != nil {
		t.Fatalf("count audit: %v", err)
	}
	if n != 2 {
		t.Fatalf("audit rows=%d, want 2", n)
	}
}
