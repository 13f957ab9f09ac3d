package services

import (
	"budgetex/internal/budget"
	apperrors "budgetex/internal/errors"
)

// scenarioService evaluates scenarios from a fixed catalog.
type scenarioService struct {
	catalog *budget.Catalog
	prefs   PreferencesServicer
}

// NewScenarioService creates a new ScenarioServicer.
func NewScenarioService(catalog *budget.Catalog, prefs PreferencesServicer) ScenarioServicer {
	return &scenarioService{catalog: catalog, prefs: prefs}
}

// List returns the scenarios in catalog order.
func (s *scenarioService) List() []*budget.Scenario {
	names := s.catalog.Names()
	scenarios := make([]*budget.Scenario, 0, len(names))
	for _, name := range names {
		sc, _ := s.catalog.Get(name)
		scenarios = append(scenarios, sc)
	}
	return scenarios
}

// Get returns a scenario by name.
func (s *scenarioService) Get(name string) (*budget.Scenario, error) {
	sc, ok := s.catalog.Get(name)
	if !ok {
		return nil, apperrors.ErrScenarioNotFound
	}
	return sc, nil
}

// Calculate evaluates a scenario without touching any stored state.
func (s *scenarioService) Calculate(name string, income budget.Income, view budget.ViewMode, spending map[string]float64) (*Calculation, error) {
	sc, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	return evaluate(newCalculator(sc, s.prefs.Get().BufferCategory), income, view, spending), nil
}

func newCalculator(sc *budget.Scenario, buffer string) *budget.Calculator {
	return budget.NewCalculator(sc, budget.Options{BufferCategory: buffer})
}

func evaluate(calc *budget.Calculator, income budget.Income, view budget.ViewMode, spending map[string]float64) *Calculation {
	results := calc.CalculateAll(income, view, spending)
	advisories := calc.Advisories(income)
	if advisories == nil {
		advisories = []string{}
	}
	return &Calculation{
		Scenario:   calc.Scenario().Name(),
		Income:     income,
		ViewMode:   view,
		Results:    results,
		Summary:    calc.Summarize(results, income, view),
		Advisories: advisories,
	}
}
