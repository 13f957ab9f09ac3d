package models

import (
	"time"

	"budgetex/internal/budget"
	"budgetex/internal/period"
)

// CategoryEntry is one category's recorded figures inside a snapshot.
type CategoryEntry struct {
	Name     string  `json:"name"`
	Budgeted float64 `json:"budgeted"`
	Actual   float64 `json:"actual"`
	Notes    string  `json:"notes,omitempty"`
}

// Snapshot is the saved state of one period. There is at most one per period id.
type Snapshot struct {
	Period        period.Period   `json:"period"`
	ScenarioName  string          `json:"scenario_name"`
	Income        budget.Income   `json:"income"`
	ViewMode      budget.ViewMode `json:"view_mode"`
	Categories    []CategoryEntry `json:"categories"`
	TotalBudgeted float64         `json:"total_budgeted"`
	TotalSpent    float64         `json:"total_spent"`
	SavedAt       time.Time       `json:"saved_at"`
	Notes         string          `json:"notes,omitempty"`
}

// Entry looks up a category by name.
func (s *Snapshot) Entry(name string) (CategoryEntry, bool) {
	for _, e := range s.Categories {
		if e.Name == name {
			return e, true
		}
	}
	return CategoryEntry{}, false
}

// Actual returns the recorded spending for a category, zero if absent.
func (s *Snapshot) Actual(name string) float64 {
	e, _ := s.Entry(name)
	return e.Actual
}

// Budgeted returns the recorded budget for a category, zero if absent.
func (s *Snapshot) Budgeted(name string) float64 {
	e, _ := s.Entry(name)
	return e.Budgeted
}

// Spending returns actual spending keyed by category name.
func (s *Snapshot) Spending() map[string]float64 {
	spending := make(map[string]float64, len(s.Categories))
	for _, e := range s.Categories {
		spending[e.Name] = e.Actual
	}
	return spending
}

// NewSnapshot assembles a snapshot from calculator output.
func NewSnapshot(p period.Period, scenario string, income budget.Income, view budget.ViewMode,
	results []budget.CategoryResult, savedAt time.Time, notes string) *Snapshot {
	s := &Snapshot{
		Period:       p,
		ScenarioName: scenario,
		Income:       income,
		ViewMode:     view,
		Categories:   make([]CategoryEntry, 0, len(results)),
		SavedAt:      savedAt,
		Notes:        notes,
	}
	for _, r := range results {
		s.Categories = append(s.Categories, CategoryEntry{Name: r.Name, Budgeted: r.Budgeted, Actual: r.Actual})
		s.TotalBudgeted += r.Budgeted
		s.TotalSpent += r.Actual
	}
	return s
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Categories = append([]CategoryEntry(nil), s.Categories...)
	return &c
}
