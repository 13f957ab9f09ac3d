package services

import (
	"sort"
	"sync"
	"time"

	"budgetex/internal/budget"
	"budgetex/internal/logger"
	"budgetex/internal/metrics"
	"budgetex/internal/models"
	"budgetex/internal/pagination"
	"budgetex/internal/period"
)

// snapshotService keeps every saved snapshot in memory, keyed by period id,
// and writes changes through to the store.
type snapshotService struct {
	mu        sync.RWMutex
	store     BudgetStore
	clock     Clock
	metrics   *metrics.Metrics
	snapshots map[string]*models.Snapshot
}

// NewSnapshotService creates a SnapshotServicer and loads all stored
// snapshots. A load failure is logged and leaves the store empty.
func NewSnapshotService(store BudgetStore, clock Clock, m *metrics.Metrics) SnapshotServicer {
	s := &snapshotService{
		store:     store,
		clock:     clock,
		metrics:   m,
		snapshots: make(map[string]*models.Snapshot),
	}

	loaded, err := store.LoadAllSnapshots()
	if err != nil {
		logger.Get().Errorw("failed to load snapshots", "error", err)
		return s
	}
	for id, snap := range loaded {
		s.snapshots[id] = snap
	}
	logger.Get().Infow("loaded snapshots", "count", len(s.snapshots))
	return s
}

// SaveSnapshot upserts a snapshot in memory, then persists it.
func (s *snapshotService) SaveSnapshot(snapshot *models.Snapshot) error {
	s.mu.Lock()
	s.snapshots[snapshot.Period.ID] = snapshot.Clone()
	s.mu.Unlock()

	err := s.store.SaveSnapshot(snapshot)
	s.metrics.IncSnapshotSave(err)
	if err != nil {
		logger.Get().Errorw("failed to persist snapshot", "period_id", snapshot.Period.ID, "error", err)
		return err
	}
	return nil
}

// GetSnapshot returns a copy of the snapshot saved for a period.
func (s *snapshotService) GetSnapshot(periodID string) (*models.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[periodID]
	if !ok {
		return nil, false
	}
	return snap.Clone(), true
}

// AvailablePeriods lists the periods of all snapshots, most recent first.
func (s *snapshotService) AvailablePeriods() []period.Period {
	sorted := s.sortedDesc()
	periods := make([]period.Period, len(sorted))
	for i, snap := range sorted {
		periods[i] = snap.Period
	}
	return periods
}

// ListPeriods returns one page of AvailablePeriods.
func (s *snapshotService) ListPeriods(page pagination.PageRequest) pagination.PageResponse[period.Period] {
	return pagination.PaginateSlice(s.AvailablePeriods(), page)
}

// DeleteSnapshot removes a snapshot from memory and from the store.
func (s *snapshotService) DeleteSnapshot(periodID string) (bool, error) {
	s.mu.Lock()
	_, inMemory := s.snapshots[periodID]
	delete(s.snapshots, periodID)
	s.mu.Unlock()

	stored, err := s.store.DeleteSnapshot(periodID)
	if err != nil {
		logger.Get().Errorw("failed to delete snapshot", "period_id", periodID, "error", err)
		return inMemory, err
	}
	return inMemory || stored, nil
}

// SnapshotsInRange returns snapshots whose period overlaps [start, end],
// oldest first.
func (s *snapshotService) SnapshotsInRange(start, end time.Time) []*models.Snapshot {
	start, end = period.Truncate(start), period.Truncate(end)

	s.mu.RLock()
	var matched []*models.Snapshot
	for _, snap := range s.snapshots {
		if snap.Period.Overlaps(start, end) {
			matched = append(matched, snap.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i].Period, matched[j].Period
		if a.Start.Equal(b.Start) {
			return a.ID < b.ID
		}
		return a.Start.Before(b.Start)
	})
	return matched
}

// Recent returns up to n snapshots, most recent first.
func (s *snapshotService) Recent(n int) []*models.Snapshot {
	sorted := s.sortedDesc()
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// CurrentPeriod returns the period of the given kind containing today.
func (s *snapshotService) CurrentPeriod(kind period.Kind) period.Period {
	return period.Current(kind, s.clock())
}

// CurrentMonthID is the id of the calendar month containing today.
func (s *snapshotService) CurrentMonthID() string {
	return s.CurrentPeriod(period.KindMonthly).ID
}

// GeneratePeriods lists n consecutive periods of a kind starting at from.
func (s *snapshotService) GeneratePeriods(kind period.Kind, from time.Time, n int) []period.Period {
	return period.Generate(kind, from, n)
}

// PreviousMonthOverages returns, per scenario category, how far the month
// before current overspent. Categories at or under budget are omitted.
func (s *snapshotService) PreviousMonthOverages(scenario *budget.Scenario, current period.Period) map[string]float64 {
	overages := make(map[string]float64)
	prev, ok := s.GetSnapshot(period.PreviousMonth(current).ID)
	if !ok {
		return overages
	}
	for _, name := range scenario.Names() {
		entry, found := prev.Entry(name)
		if !found {
			continue
		}
		if over := entry.Actual - entry.Budgeted; over > 0 {
			overages[name] = over
		}
	}
	return overages
}

func (s *snapshotService) sortedDesc() []*models.Snapshot {
	s.mu.RLock()
	all := make([]*models.Snapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		all = append(all, snap.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i].Period, all[j].Period
		if a.Start.Equal(b.Start) {
			return a.ID < b.ID
		}
		return a.Start.After(b.Start)
	})
	return all
}
