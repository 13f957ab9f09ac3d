package budget

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Scenario is a named, ordered set of categories. Category order is display order.
type Scenario struct {
	name       string
	categories []Category
	index      map[string]int
}

type scenarioDefinition struct {
	Name       string     `validate:"required,max=100"`
	Categories []Category `validate:"required,min=1,unique=Name,dive"`
}

// NewScenario builds a scenario after checking that every category is well
// formed and names are unique.
func NewScenario(name string, categories ...Category) (*Scenario, error) {
	if err := validate.Struct(scenarioDefinition{Name: name, Categories: categories}); err != nil {
		return nil, fmt.Errorf("invalid scenario %q: %w", name, err)
	}

	s := &Scenario{
		name:       name,
		categories: append([]Category(nil), categories...),
		index:      make(map[string]int, len(categories)),
	}
	for i, c := range s.categories {
		s.index[c.Name] = i
	}
	return s, nil
}

// MustScenario is like NewScenario but panics on an invalid definition.
func MustScenario(name string, categories ...Category) *Scenario {
	s, err := NewScenario(name, categories...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the scenario name.
func (s *Scenario) Name() string { return s.name }

// Categories returns a copy of the categories in display order.
func (s *Scenario) Categories() []Category {
	return append([]Category(nil), s.categories...)
}

// Names returns category names in display order.
func (s *Scenario) Names() []string {
	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.Name
	}
	return names
}

// Category looks up a category by name.
func (s *Scenario) Category(name string) (Category, bool) {
	i, ok := s.index[name]
	if !ok {
		return Category{}, false
	}
	return s.categories[i], true
}

// TotalFixedAmount sums the monthly amounts of fixed-dollar categories.
func (s *Scenario) TotalFixedAmount() float64 {
	var total float64
	for _, c := range s.categories {
		if c.Kind == FixedDollar {
			total += c.MonthlyAmount
		}
	}
	return total
}

// TotalPercentage sums the percentages of fixed-percentage categories.
func (s *Scenario) TotalPercentage() float64 {
	var total float64
	for _, c := range s.categories {
		if c.Kind == FixedPercentage {
			total += c.Percentage
		}
	}
	return total
}

// Validate returns advisory messages about the scenario at the given income.
// Every check runs; an empty result means nothing looks inconsistent.
func (s *Scenario) Validate(income Income) []string {
	var advisories []string
	monthly := income.Monthly()

	if monthly <= 0 {
		advisories = append(advisories, "Income must be greater than zero")
	}

	if fixed := s.TotalFixedAmount(); fixed > monthly {
		advisories = append(advisories,
			fmt.Sprintf("Fixed expenses ($%.2f) exceed income ($%.2f)", fixed, monthly))
	}

	if pct := s.TotalPercentage(); pct > 100 {
		advisories = append(advisories,
			fmt.Sprintf("Total percentages (%.1f%%) exceed 100%%", pct))
	}

	var budgeted float64
	for _, c := range s.categories {
		b, _ := c.Allocate(income, ViewMonthly)
		budgeted += b
	}
	if roundCents(budgeted) > roundCents(monthly) {
		advisories = append(advisories,
			fmt.Sprintf("Total budget ($%.2f) exceeds income ($%.2f)", budgeted, monthly))
	}

	return advisories
}
