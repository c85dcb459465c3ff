package state

import (
	"context"
	"testing"

	"rentdesk/internal/core"
)

func TestUnitsToggleAndView(t *testing.T) {
	svc := &fakeUnitService{rows: []core.Unit{
		{UnitID: float64(1), UnitNumber: "201", Status: "occupied", MarketRent: float64(1525)},
		{UnitID: float64(2), UnitNumber: "101", Status: "vacant", MarketRent: float64(1250)},
	}}
	s := NewUnits(svc)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !s.Loaded() {
		t.Fatalf("not loaded after Load")
	}

	// Default sort is unit number ascending.
	rows, total := s.View("")
	if total != 2 || len(rows) != 2 {
		t.Fatalf("rows=%d total=%d", len(rows), total)
	}
	if rows[0].UnitNumber != "101" {
		t.Fatalf("first unit %q, want 101", rows[0].UnitNumber)
	}

	// Toggling the active column flips direction; toggling another column
	// starts ascending.
	sort := s.Toggle("unit_number")
	if sort.Key != "unit_number" || !sort.Desc {
		t.Fatalf("toggle same key = %+v", sort)
	}
	rows, _ = s.View("")
	if rows[0].UnitNumber != "201" {
		t.Fatalf("first unit %q after flip, want 201", rows[0].UnitNumber)
	}

	sort = s.Toggle("market_rent")
	if sort.Key != "market_rent" || sort.Desc {
		t.Fatalf("toggle new key = %+v", sort)
	}

	// Filtering leaves the snapshot intact.
	rows, total = s.View("vacant")
	if len(rows) != 1 || total != 2 {
		t.Fatalf("filtered rows=%d total=%d", len(rows), total)
	}
	if rows[0].Status != "vacant" {
		t.Fatalf("filter kept %q", rows[0].Status)
	}
}

func TestUnitsLoadFailureKeepsSnapshot(t *testing.T) {
	svc := &fakeUnitService{rows: []core.Unit{{UnitID: float64(1), UnitNumber: "101"}}}
	s := NewUnits(svc)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	svc.listErr = context.DeadlineExceeded
	if err := s.Load(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
	rows, total := s.View("")
	if len(rows) != 1 || total != 1 {
		t.Fatalf("snapshot lost after failed reload: rows=%d total=%d", len(rows), total)
	}
}
