package state

import (
	"context"
	"sync"

	"rentdesk/internal/api"
	"rentdesk/internal/core"
	"rentdesk/internal/view"
)

// Units is the read-only Units page: a snapshot plus column sort state.
type Units struct {
	svc api.UnitService

	mu       sync.Mutex
	snapshot []core.Unit
	loaded   bool
	sort     view.Sort
}

func NewUnits(svc api.UnitService) *Units {
	return &Units{svc: svc, sort: view.Sort{Key: "unit_number"}}
}

func (s *Units) Load(ctx context.Context) error {
	rows, err := s.svc.ListUnits(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snapshot = rows
	s.loaded = true
	s.mu.Unlock()
	return nil
}

func (s *Units) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Toggle applies a header click to the sort state and returns the result.
func (s *Units) Toggle(key string) view.Sort {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = s.sort.Toggle(key)
	return s.sort
}

func (s *Units) Sort() view.Sort {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// View returns the derived rows for the query plus the total snapshot size.
func (s *Units) View(query string) (rows []core.Unit, total int) {
	s.mu.Lock()
	snapshot, sort := s.snapshot, s.sort
	s.mu.Unlock()
	return view.Units(snapshot, query, sort), len(snapshot)
}
