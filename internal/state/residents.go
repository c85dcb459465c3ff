// Package state owns the per-page snapshots. Each page holds its own copy of
// the backend lists; nothing is shared across pages and a reload is the only
// way to observe server-side changes, with one exception: the Residents page
// applies deletes optimistically and rolls back on failure.
package state

import (
	"context"
	"slices"
	"sync"

	"rentdesk/internal/api"
	"rentdesk/internal/core"
	"rentdesk/internal/view"
)

// deletePhase tracks the optimistic delete through its lifecycle. The phase
// is observable for tests and diagnostics; handlers only look at the error.
type deletePhase int

const (
	deleteIdle deletePhase = iota
	deleteAppliedLocally
	deleteConfirmed
	deleteRolledBack
)

// Residents is the Residents page: snapshot, sort mode, selection, and the
// optimistic delete flow.
type Residents struct {
	svc api.ResidentService

	mu        sync.Mutex
	snapshot  []core.Resident
	loaded    bool
	sortMode  view.ResidentSort
	selected  string
	lastPhase deletePhase
}

func NewResidents(svc api.ResidentService) *Residents {
	return &Residents{svc: svc, sortMode: view.ResidentsByName}
}

// Load refreshes the snapshot from the backend. On failure the previous
// snapshot stays in place. Concurrent loads are allowed; the last response to
// land wins.
func (s *Residents) Load(ctx context.Context) error {
	rows, err := s.svc.ListResidents(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snapshot = rows
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Loaded reports whether an initial load has completed.
func (s *Residents) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// SetSortMode switches between name and id ordering.
func (s *Residents) SetSortMode(mode view.ResidentSort) {
	if mode != view.ResidentsByID {
		mode = view.ResidentsByName
	}
	s.mu.Lock()
	s.sortMode = mode
	s.mu.Unlock()
}

func (s *Residents) SortMode() view.ResidentSort {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortMode
}

// Select marks a row as the current selection.
func (s *Residents) Select(id string) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
}

func (s *Residents) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// View returns the derived rows for the query plus the total snapshot size.
func (s *Residents) View(query string) (rows []core.Resident, total int) {
	s.mu.Lock()
	snapshot, mode := s.snapshot, s.sortMode
	s.mu.Unlock()
	return view.Residents(snapshot, query, mode), len(snapshot)
}

// Delete removes the resident optimistically: the row leaves the snapshot
// before the backend call. On failure the exact prior snapshot is restored
// and the row reappears in its original position. Selection is cleared only
// on success. The confirmation gate lives upstream in the UI.
func (s *Residents) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	prev := s.snapshot
	next := make([]core.Resident, 0, len(prev))
	for _, r := range prev {
		if r.ID() != id {
			next = append(next, r)
		}
	}
	s.snapshot = next
	s.lastPhase = deleteAppliedLocally
	s.mu.Unlock()

	if err := s.svc.DeleteResident(ctx, id); err != nil {
		s.mu.Lock()
		s.snapshot = prev
		s.lastPhase = deleteRolledBack
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.lastPhase = deleteConfirmed
	if s.selected == id {
		s.selected = ""
	}
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current snapshot.
func (s *Residents) Snapshot() []core.Resident {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.snapshot)
}

func (s *Residents) phase() deletePhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPhase
}
