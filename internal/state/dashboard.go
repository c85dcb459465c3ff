package state

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"rentdesk/internal/api"
	"rentdesk/internal/core"
	"rentdesk/internal/view"
)

// Dashboard holds the three snapshots the overview is derived from. They are
// loaded together: if any fetch fails the whole batch is treated as failed
// and the previous snapshots stay in place.
type Dashboard struct {
	residents api.ResidentService
	units     api.UnitService
	payments  api.PaymentService

	mu       sync.Mutex
	resRows  []core.Resident
	unitRows []core.Unit
	payRows  []core.Payment
	loaded   bool
}

func NewDashboard(rs api.ResidentService, us api.UnitService, ps api.PaymentService) *Dashboard {
	return &Dashboard{residents: rs, units: us, payments: ps}
}

// Load fetches residents, units, and payments concurrently and installs all
// three only once every fetch has succeeded. No partial results are kept.
func (s *Dashboard) Load(ctx context.Context) error {
	var (
		rs []core.Resident
		us []core.Unit
		ps []core.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rs, err = s.residents.ListResidents(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		us, err = s.units.ListUnits(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ps, err = s.payments.ListPayments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.resRows, s.unitRows, s.payRows = rs, us, ps
	s.loaded = true
	s.mu.Unlock()
	return nil
}

func (s *Dashboard) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Overview is everything the dashboard renders, derived at one instant from
// the current snapshots.
type Overview struct {
	ResidentCount  int
	UnitCount      int
	StatusCounts   []view.StatusCount
	TopStatus      string
	TopStatusCount int
	Recent         []core.Payment
	Totals         view.PaymentTotals
}

// Overview computes the derived metrics against now. Metrics refresh only on
// explicit reload; there is no recomputation schedule.
func (s *Dashboard) Overview(now time.Time) Overview {
	s.mu.Lock()
	rs, us, ps := s.resRows, s.unitRows, s.payRows
	s.mu.Unlock()

	o := Overview{
		ResidentCount: len(rs),
		UnitCount:     len(us),
		StatusCounts:  view.StatusBreakdown(us),
		Recent:        view.RecentPayments(ps, 8),
		Totals:        view.Totals(ps, now),
	}
	if len(o.StatusCounts) > 0 {
		o.TopStatus = o.StatusCounts[0].Status
		o.TopStatusCount = o.StatusCounts[0].Count
	}
	return o
}
