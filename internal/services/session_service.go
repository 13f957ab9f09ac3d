package services

import (
	"sync"
	"sync/atomic"
	"time"

	"budgetex/internal/budget"
	apperrors "budgetex/internal/errors"
	"budgetex/internal/logger"
	"budgetex/internal/metrics"
	"budgetex/internal/models"
	"budgetex/internal/period"
)

// HistoricalMonthNote is stored on snapshots created by CreateHistoricalMonth.
const HistoricalMonthNote = "Created manually for data entry"

// SessionDeps are the collaborators a session is built from.
type SessionDeps struct {
	Scenarios ScenarioServicer
	Snapshots SnapshotServicer
	Resolver  ResolutionServicer
	Store     BudgetStore
	History   HistoryServicer
	Prefs     PreferencesServicer
	Metrics   *metrics.Metrics
	Clock     Clock
}

// sessionService is the one controller that owns the viewed period. Every
// operation takes mu; busy is set for the length of a period switch so that
// other requests are turned away instead of waiting behind it.
type sessionService struct {
	mu   sync.Mutex
	busy atomic.Bool

	scenarios ScenarioServicer
	snapshots SnapshotServicer
	resolver  ResolutionServicer
	store     BudgetStore
	history   HistoryServicer
	prefs     PreferencesServicer
	metrics   *metrics.Metrics
	clock     Clock
	autosave  *Debouncer

	scenario *budget.Scenario
	period   period.Period
	source   Source
	income   budget.Income
	view     budget.ViewMode
	spending map[string]float64
	carried  map[string]float64
	dirty    bool
}

// NewSessionService opens the current month for the preferred scenario,
// falling back to the first scenario in the catalog.
func NewSessionService(deps SessionDeps) (SessionServicer, error) {
	prefs := deps.Prefs.Get()
	sc, err := deps.Scenarios.Get(prefs.DefaultScenario)
	if err != nil {
		all := deps.Scenarios.List()
		if len(all) == 0 {
			return nil, err
		}
		logger.Get().Warnw("default scenario not found, using first in catalog",
			"scenario", prefs.DefaultScenario,
			"fallback", all[0].Name(),
		)
		sc = all[0]
	}

	s := &sessionService{
		scenarios: deps.Scenarios,
		snapshots: deps.Snapshots,
		resolver:  deps.Resolver,
		store:     deps.Store,
		history:   deps.History,
		prefs:     deps.Prefs,
		metrics:   deps.Metrics,
		clock:     deps.Clock,
	}
	s.autosave = NewDebouncer(prefs.AutoSaveDelay(), s.runAutoSave)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(sc, deps.Snapshots.CurrentMonthID()); err != nil {
		return nil, err
	}
	return s, nil
}

// State evaluates the viewed period.
func (s *sessionService) State() (*SessionState, error) {
	if err := s.checkIdle(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(), nil
}

// SwitchPeriod opens another period. Leaving the current month with unsaved
// edits saves them first. A switch while another is running is rejected.
func (s *sessionService) SwitchPeriod(periodID string) (*SessionState, error) {
	if !s.busy.CompareAndSwap(false, true) {
		s.metrics.IncPeriodSwitch("busy")
		return nil, apperrors.ErrPeriodSwitchInProgress
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	if periodID == s.period.ID {
		s.metrics.IncPeriodSwitch("ok")
		return s.stateLocked(), nil
	}

	if s.dirty && s.isCurrentLocked() {
		if _, err := s.saveLocked(""); err != nil {
			logger.Get().Warnw("save before period switch failed", "period_id", s.period.ID, "error", err)
		}
	}
	s.autosave.Stop()

	if err := s.loadLocked(s.scenario, periodID); err != nil {
		s.metrics.IncPeriodSwitch("error")
		return nil, err
	}
	s.metrics.IncPeriodSwitch("ok")
	logger.Get().Infow("switched period", "period_id", s.period.ID, "source", s.source)
	return s.stateLocked(), nil
}

// SwitchScenario reopens the viewed period under another scenario.
func (s *sessionService) SwitchScenario(name string) (*SessionState, error) {
	if err := s.checkIdle(); err != nil {
		return nil, err
	}
	sc, err := s.scenarios.Get(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dirty && s.isCurrentLocked() {
		if _, err := s.saveLocked(""); err != nil {
			logger.Get().Warnw("save before scenario switch failed", "scenario", s.scenario.Name(), "error", err)
		}
	}
	s.autosave.Stop()

	if err := s.loadLocked(sc, s.period.ID); err != nil {
		return nil, err
	}
	return s.stateLocked(), nil
}

// SetIncome replaces the income of the viewed period.
func (s *sessionService) SetIncome(income budget.Income) (*SessionState, error) {
	if err := s.checkIdle(); err != nil {
		return nil, err
	}
	if income.First() < 0 || income.Second() < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Income cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.income = income
	s.markDirtyLocked()
	return s.stateLocked(), nil
}

// SetViewMode changes which income the figures are shown against.
func (s *sessionService) SetViewMode(view budget.ViewMode) (*SessionState, error) {
	if err := s.checkIdle(); err != nil {
		return nil, err
	}
	if !view.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown view mode")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != view {
		s.view = view
		s.markDirtyLocked()
	}
	return s.stateLocked(), nil
}

// SetSpending records the actual spending for one category and logs it to
// the spending history.
func (s *sessionService) SetSpending(category string, amount float64, description string) (*SessionState, error) {
	if err := s.checkIdle(); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Spending cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scenario.Category(category); !ok {
		return nil, apperrors.ErrCategoryNotFound
	}
	s.spending[category] = amount
	s.recordLocked(category, amount, description)
	s.markDirtyLocked()
	return s.stateLocked(), nil
}

// ImportSpending applies spending for several categories at once. Names the
// scenario does not know are ignored.
func (s *sessionService) ImportSpending(spending map[string]float64) (*SessionState, error) {
	if err := s.checkIdle(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, name := range s.scenario.Names() {
		amount, ok := spending[name]
		if !ok || amount < 0 {
			continue
		}
		s.spending[name] = amount
		s.recordLocked(name, amount, "Imported from CSV")
		changed = true
	}
	if changed {
		s.markDirtyLocked()
	}
	return s.stateLocked(), nil
}

// ClearSpending zeroes every category of the viewed period. For the current
// month the live store is cleared right away.
func (s *sessionService) ClearSpending() (*SessionState, error) {
	if err := s.checkIdle(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for name := range s.spending {
		s.spending[name] = 0
	}
	s.carried = nil
	if s.isCurrentLocked() {
		if err := s.store.ClearSpending(s.scenario.Name()); err != nil {
			logger.Get().Warnw("failed to clear live spending", "scenario", s.scenario.Name(), "error", err)
		}
	}
	s.markDirtyLocked()
	return s.stateLocked(), nil
}

// Save writes the viewed period's snapshot and, for the current month, the
// live store.
func (s *sessionService) Save(notes string) (*models.Snapshot, error) {
	if err := s.checkIdle(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.autosave.Stop()
	return s.saveLocked(notes)
}

// ExportRows renders the viewed period as CSV rows.
func (s *sessionService) ExportRows() ([][]string, error) {
	if err := s.checkIdle(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	calc := newCalculator(s.scenario, s.prefs.Get().BufferCategory)
	results := calc.CalculateAll(s.income, s.view, s.spending)
	return calc.ExportRows(results, s.income, s.view), nil
}

// CreatePeriod stores an empty snapshot for p under the session's scenario
// so its spending can be entered later. It fails if p already has one.
func (s *sessionService) CreatePeriod(p period.Period, income budget.Income) (*models.Snapshot, error) {
	if err := s.checkIdle(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.snapshots.GetSnapshot(p.ID); exists {
		return nil, apperrors.ErrSnapshotExists
	}

	calc := newCalculator(s.scenario, s.prefs.Get().BufferCategory)
	results := calc.CalculateAll(income, budget.ViewMonthly, nil)
	snap := models.NewSnapshot(p, s.scenario.Name(), income, budget.ViewMonthly, results, s.clock(), HistoricalMonthNote)
	if err := s.snapshots.SaveSnapshot(snap); err != nil {
		return nil, err
	}
	logger.Get().Infow("created period", "period_id", p.ID, "scenario", s.scenario.Name())
	return snap, nil
}

// CreateHistoricalMonth creates an empty snapshot for a calendar month.
func (s *sessionService) CreateHistoricalMonth(year int, month time.Month, income budget.Income) (*models.Snapshot, error) {
	return s.CreatePeriod(period.Monthly(year, month), income)
}

// Flush runs a pending auto-save now.
func (s *sessionService) Flush() error {
	if !s.autosave.Stop() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoSaveLocked()
}

// Close flushes pending work.
func (s *sessionService) Close() error {
	return s.Flush()
}

func (s *sessionService) checkIdle() error {
	if s.busy.Load() {
		return apperrors.ErrPeriodSwitchInProgress
	}
	return nil
}

func (s *sessionService) isCurrentLocked() bool {
	return s.period.ID == s.snapshots.CurrentMonthID()
}

func (s *sessionService) loadLocked(sc *budget.Scenario, periodID string) error {
	res, err := s.resolver.Resolve(sc, periodID)
	if err != nil {
		return err
	}

	s.scenario = sc
	s.period = res.Period
	s.source = res.Source
	s.income = res.Income
	s.view = res.ViewMode
	s.spending = res.Spending
	s.carried = res.CarriedForward
	s.dirty = false

	// Seeded overages belong to the new month; keeping them dirty makes sure
	// they are persisted once rather than recomputed on the next open.
	if len(s.carried) > 0 {
		s.markDirtyLocked()
	}
	return nil
}

func (s *sessionService) markDirtyLocked() {
	s.dirty = true

	prefs := s.prefs.Get()
	if prefs.AutoSave && s.isCurrentLocked() {
		s.autosave.SetDelay(prefs.AutoSaveDelay())
		s.autosave.Trigger()
	}
}

func (s *sessionService) recordLocked(category string, amount float64, description string) {
	if err := s.history.Record(s.scenario.Name(), category, amount, description); err != nil {
		logger.Get().Warnw("failed to record spending history", "category", category, "error", err)
	}
}

func (s *sessionService) saveLocked(notes string) (*models.Snapshot, error) {
	calc := newCalculator(s.scenario, s.prefs.Get().BufferCategory)
	results := calc.CalculateAll(s.income, s.view, s.spending)
	snap := models.NewSnapshot(s.period, s.scenario.Name(), s.income, s.view, results, s.clock(), notes)

	if err := s.snapshots.SaveSnapshot(snap); err != nil {
		return nil, err
	}
	if s.isCurrentLocked() {
		if err := s.store.SaveBudgetData(s.scenario.Name(), s.income, s.spending); err != nil {
			return nil, err
		}
	}

	s.dirty = false
	s.source = SourceSnapshot
	s.carried = nil
	logger.Get().Infow("saved period",
		"period_id", s.period.ID,
		"scenario", s.scenario.Name(),
		"total_spent", snap.TotalSpent,
	)
	return snap, nil
}

// runAutoSave is the debouncer callback.
func (s *sessionService) runAutoSave() {
	if s.busy.Load() {
		// The switch saves the current month itself.
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.autoSaveLocked(); err != nil {
		logger.Get().Warnw("auto-save failed", "period_id", s.period.ID, "error", err)
	}
}

func (s *sessionService) autoSaveLocked() error {
	if !s.dirty || !s.isCurrentLocked() {
		return nil
	}
	_, err := s.saveLocked("")
	s.metrics.IncAutoSave(err)
	return err
}

func (s *sessionService) stateLocked() *SessionState {
	calc := newCalculator(s.scenario, s.prefs.Get().BufferCategory)
	return &SessionState{
		Calculation:    *evaluate(calc, s.income, s.view, s.spending),
		Period:         s.period,
		Source:         s.source,
		IsCurrent:      s.isCurrentLocked(),
		Spending:       copySpending(s.spending),
		CarriedForward: copySpending(s.carried),
		Dirty:          s.dirty,
		AutoSave:       s.prefs.Get().AutoSave,
	}
}

func copySpending(m map[string]float64) map[string]float64 {
	if len(m) == 0 {
		return nil
	}
	c := make(map[string]float64, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
