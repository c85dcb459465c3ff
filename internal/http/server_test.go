package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rentdesk/internal/core"
	"rentdesk/internal/state"
)

type fakeResidents struct {
	rows      []core.Resident
	deleteErr error
	deleted   []string
}

func (f *fakeResidents) ListResidents(ctx context.Context) ([]core.Resident, error) {
	return f.rows, nil
}

func (f *fakeResidents) DeleteResident(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeUnits struct{ rows []core.Unit }

func (f *fakeUnits) ListUnits(ctx context.Context) ([]core.Unit, error)          { return f.rows, nil }
func (f *fakeUnits) ListAvailableUnits(ctx context.Context) ([]core.Unit, error) { return f.rows, nil }

type fakePayments struct {
	rows      []core.Payment
	createErr error
	created   []core.NewPayment
}

func (f *fakePayments) ListPayments(ctx context.Context) ([]core.Payment, error) {
	return f.rows, nil
}

func (f *fakePayments) CreatePayment(ctx context.Context, p core.NewPayment) (core.Payment, error) {
	if f.createErr != nil {
		return core.Payment{}, f.createErr
	}
	f.created = append(f.created, p)
	return core.Payment{PaymentID: float64(99), Amount: p.Amount, Method: p.Method, PaidDate: p.PaidDate, Status: p.Status}, nil
}

func newTestServer(res *fakeResidents, units *fakeUnits, pays *fakePayments) *Server {
	residents := state.NewResidents(res)
	unitState := state.NewUnits(units)
	payState := state.NewPayments(pays)
	dash := state.NewDashboard(res, units, pays)
	return NewServer(":0", residents, unitState, payState, dash, nil)
}

func testFixtures() (*fakeResidents, *fakeUnits, *fakePayments) {
	res := &fakeResidents{rows: []core.Resident{
		{ResidentID: float64(1), FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		{ResidentID: float64(2), FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"},
	}}
	units := &fakeUnits{rows: []core.Unit{
		{UnitID: float64(10), UnitNumber: "101", Status: "occupied", MarketRent: float64(1495)},
		{UnitID: float64(11), UnitNumber: "102", Status: "vacant", MarketRent: float64(1250)},
	}}
	pays := &fakePayments{rows: []core.Payment{
		{PaymentID: float64(1), LeaseID: float64(5), Amount: float64(1495), Method: "ach", PaidDate: "2026-08-01", Status: "posted"},
	}}
	return res, units, pays
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func postForm(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestPagesAndHealth(t *testing.T) {
	srv := newTestServer(testFixtures())

	for _, path := range []string{"/", "/residents", "/units", "/payments", "/healthz", "/readyz"} {
		rr := get(t, srv, path)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}

	rr := get(t, srv, "/no-such-page")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDashboardOverview(t *testing.T) {
	srv := newTestServer(testFixtures())

	rr := get(t, srv, "/ui/dashboard")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"occupied", "vacant", "$1,495.00", "ach"} {
		if !strings.Contains(body, want) {
			t.Fatalf("overview missing %q: %s", want, body)
		}
	}
}

func TestResidentsTableFilterAndSort(t *testing.T) {
	srv := newTestServer(testFixtures())

	rr := get(t, srv, "/ui/residents/table?q=grace")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Grace Hopper") || strings.Contains(body, "Ada Lovelace") {
		t.Fatalf("filter not applied: %s", body)
	}
	if !strings.Contains(body, "Showing 1 of 2") {
		t.Fatalf("count label missing: %s", body)
	}

	// Name sort puts Hopper before Lovelace.
	rr = get(t, srv, "/ui/residents/table?sort=name")
	body = rr.Body.String()
	if strings.Index(body, "Grace Hopper") > strings.Index(body, "Ada Lovelace") {
		t.Fatalf("expected last-name order: %s", body)
	}
}

func TestResidentDeleteSuccess(t *testing.T) {
	res, units, pays := testFixtures()
	srv := newTestServer(res, units, pays)
	get(t, srv, "/ui/residents/table")

	rr := postForm(t, srv, "/ui/residents/delete", "id=1")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if len(res.deleted) != 1 || res.deleted[0] != "1" {
		t.Fatalf("backend delete calls=%v", res.deleted)
	}
	if strings.Contains(rr.Body.String(), "Ada Lovelace") {
		t.Fatalf("deleted row still rendered")
	}
	trigger := rr.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "Resident deleted") || !strings.Contains(trigger, "success") {
		t.Fatalf("missing success toast: %s", trigger)
	}
}

func TestResidentDeleteRollback(t *testing.T) {
	res, units, pays := testFixtures()
	res.deleteErr = errors.New("resident has an active lease")
	srv := newTestServer(res, units, pays)
	get(t, srv, "/ui/residents/table")

	rr := postForm(t, srv, "/ui/residents/delete", "id=1")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Ada Lovelace") || !strings.Contains(body, "Grace Hopper") {
		t.Fatalf("rollback did not restore rows: %s", body)
	}
	trigger := rr.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "resident has an active lease") || !strings.Contains(trigger, "error") {
		t.Fatalf("missing error toast: %s", trigger)
	}
}

func TestUnitsTableSortToggle(t *testing.T) {
	srv := newTestServer(testFixtures())

	rr := get(t, srv, "/ui/units/table?sort=market_rent")
	body := rr.Body.String()
	if !strings.Contains(body, "Market Rent ▲") {
		t.Fatalf("expected ascending indicator: %s", body)
	}
	if strings.Index(body, "$1,250.00") > strings.Index(body, "$1,495.00") {
		t.Fatalf("expected ascending rent order: %s", body)
	}

	rr = get(t, srv, "/ui/units/table?sort=market_rent")
	body = rr.Body.String()
	if !strings.Contains(body, "Market Rent ▼") {
		t.Fatalf("expected descending indicator: %s", body)
	}
	if strings.Index(body, "$1,495.00") > strings.Index(body, "$1,250.00") {
		t.Fatalf("expected descending rent order: %s", body)
	}
}

func TestResidentEditStub(t *testing.T) {
	srv := newTestServer(testFixtures())

	rr := get(t, srv, "/ui/residents/table")
	if !strings.Contains(rr.Body.String(), "/ui/residents/edit") {
		t.Fatalf("table missing edit button: %s", rr.Body.String())
	}

	rr = postForm(t, srv, "/ui/residents/edit", "id=1")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	trigger := rr.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "Edit coming next step") || !strings.Contains(trigger, "info") {
		t.Fatalf("missing info toast: %s", trigger)
	}
}

func TestToolbarClearButtons(t *testing.T) {
	srv := newTestServer(testFixtures())

	for _, path := range []string{"/residents", "/units", "/payments"} {
		rr := get(t, srv, path)
		if !strings.Contains(rr.Body.String(), ">Clear</button>") {
			t.Fatalf("%s missing clear button", path)
		}
	}
}

func TestUnitsTableMissingStatusPlaceholder(t *testing.T) {
	res, units, pays := testFixtures()
	units.rows = append(units.rows, core.Unit{UnitID: float64(12), UnitNumber: "103", MarketRent: float64(990)})
	srv := newTestServer(res, units, pays)

	rr := get(t, srv, "/ui/units/table")
	body := rr.Body.String()
	if !strings.Contains(body, "—") {
		t.Fatalf("missing status not rendered as placeholder: %s", body)
	}
	if strings.Contains(body, "unknown") {
		t.Fatalf("grid should not invent a status bucket: %s", body)
	}
}

func TestPaymentCreateValidationSkipsBackend(t *testing.T) {
	res, units, pays := testFixtures()
	srv := newTestServer(res, units, pays)

	rr := postForm(t, srv, "/ui/payments/create", "lease_id=&amount=100&method=cash&paid_date=2026-08-01&status=posted")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Lease ID is required.") {
		t.Fatalf("missing validation message: %s", rr.Body.String())
	}
	if len(pays.created) != 0 {
		t.Fatalf("backend called despite validation failure")
	}
	// The entered values survive for the re-rendered form.
	if !strings.Contains(rr.Body.String(), `value="100"`) {
		t.Fatalf("form values not kept: %s", rr.Body.String())
	}
}

func TestPaymentCreateSuccess(t *testing.T) {
	res, units, pays := testFixtures()
	srv := newTestServer(res, units, pays)

	rr := postForm(t, srv, "/ui/payments/create", "lease_id=5&amount=1495&method=ach&paid_date=2026-08-02&status=posted")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if len(pays.created) != 1 {
		t.Fatalf("create calls=%d", len(pays.created))
	}
	if got := pays.created[0].LeaseID; got != float64(5) {
		t.Fatalf("lease id sent as %v", got)
	}
	if !strings.Contains(rr.Body.String(), "Payment created.") {
		t.Fatalf("missing success fragment: %s", rr.Body.String())
	}
	trigger := rr.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "payment:created") {
		t.Fatalf("missing ledger reload trigger: %s", trigger)
	}
}

func TestPaymentCreateBackendError(t *testing.T) {
	res, units, pays := testFixtures()
	pays.createErr = errors.New("Lease not found")
	srv := newTestServer(res, units, pays)

	// Open the form so the error renders inside it.
	get(t, srv, "/ui/payments/form?open=1")

	rr := postForm(t, srv, "/ui/payments/create", "lease_id=404&amount=100&method=cash&paid_date=2026-08-01&status=posted")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Lease not found") {
		t.Fatalf("backend message not shown: %s", rr.Body.String())
	}
	trigger := rr.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "error") {
		t.Fatalf("missing error toast: %s", trigger)
	}
}

func TestPartialsRejectWrongMethod(t *testing.T) {
	srv := newTestServer(testFixtures())

	rr := postForm(t, srv, "/ui/units/table", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	rr = get(t, srv, "/ui/residents/delete?id=1")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}
