package services

import (
	"budgetex/internal/budget"
	apperrors "budgetex/internal/errors"
	"budgetex/internal/logger"
	"budgetex/internal/metrics"
	"budgetex/internal/period"
)

// resolutionService picks the data a period opens with: its snapshot, the
// live store for the current month, or defaults.
type resolutionService struct {
	snapshots SnapshotServicer
	store     BudgetStore
	prefs     PreferencesServicer
	metrics   *metrics.Metrics
}

// NewResolutionService creates a new ResolutionServicer.
func NewResolutionService(snapshots SnapshotServicer, store BudgetStore, prefs PreferencesServicer, m *metrics.Metrics) ResolutionServicer {
	return &resolutionService{snapshots: snapshots, store: store, prefs: prefs, metrics: m}
}

// Resolve returns the income and spending for a period. A snapshot always
// wins. Without one, the current month reads the live store and a fresh
// current month is seeded with last month's overages. Any other period
// opens blank.
func (s *resolutionService) Resolve(scenario *budget.Scenario, periodID string) (*Resolution, error) {
	p, err := period.ParseID(periodID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidPeriod, err)
	}
	isCurrent := p.ID == s.snapshots.CurrentMonthID()

	if snap, ok := s.snapshots.GetSnapshot(p.ID); ok {
		s.metrics.IncResolution(string(SourceSnapshot))
		view := snap.ViewMode
		if !view.Valid() {
			view = budget.ViewMonthly
		}
		if snap.ScenarioName != scenario.Name() {
			logger.Get().Infow("opening snapshot saved under another scenario",
				"period_id", p.ID,
				"snapshot_scenario", snap.ScenarioName,
				"scenario", scenario.Name(),
			)
		}
		return &Resolution{
			Period:    snap.Period,
			Source:    SourceSnapshot,
			IsCurrent: isCurrent,
			Income:    snap.Income,
			ViewMode:  view,
			Spending:  scenarioSpending(scenario, snap.Spending()),
		}, nil
	}

	res := &Resolution{
		Period:   p,
		Source:   SourceBlank,
		Income:   s.defaultIncome(),
		ViewMode: budget.ViewMonthly,
		Spending: zeroSpending(scenario),
	}
	if !isCurrent {
		s.metrics.IncResolution(string(res.Source))
		return res, nil
	}
	res.IsCurrent = true

	live, ok, err := s.store.LoadBudgetData(scenario.Name())
	if err != nil {
		logger.Get().Warnw("failed to load live budget, using defaults", "scenario", scenario.Name(), "error", err)
	}
	if ok {
		res.Source = SourceLive
		res.Income = live.BudgetIncome()
		res.Spending = scenarioSpending(scenario, live.SpendingMap())
		s.metrics.IncResolution(string(res.Source))
		return res, nil
	}

	res.Source = SourceFresh
	res.CarriedForward = s.snapshots.PreviousMonthOverages(scenario, p)
	for name, over := range res.CarriedForward {
		res.Spending[name] = over
	}
	if len(res.CarriedForward) > 0 {
		logger.Get().Infow("carried forward overages",
			"period_id", p.ID,
			"scenario", scenario.Name(),
			"categories", len(res.CarriedForward),
		)
	}
	s.metrics.AddCarryForward(len(res.CarriedForward))
	s.metrics.IncResolution(string(res.Source))
	return res, nil
}

func (s *resolutionService) defaultIncome() budget.Income {
	p := s.prefs.Get()
	return budget.SplitPaycheck(p.DefaultFirstPaycheck, p.DefaultSecondPaycheck)
}

// scenarioSpending keeps only the scenario's own categories from stored,
// with every other category of the scenario at zero.
func scenarioSpending(scenario *budget.Scenario, stored map[string]float64) map[string]float64 {
	spending := zeroSpending(scenario)
	for name, actual := range stored {
		if _, known := scenario.Category(name); known {
			spending[name] = actual
		}
	}
	return spending
}

func zeroSpending(scenario *budget.Scenario) map[string]float64 {
	spending := make(map[string]float64)
	for _, name := range scenario.Names() {
		spending[name] = 0
	}
	return spending
}
