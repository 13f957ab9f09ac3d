package budget

import "math"

// DefaultBufferCategory is the category rebalanced to absorb unallocated income.
const DefaultBufferCategory = "Flex/Buffer"

// CategoryResult is the evaluated state of one category.
type CategoryResult struct {
	Name       string         `json:"name"`
	Percentage float64        `json:"percentage"`
	Budgeted   float64        `json:"budgeted"`
	Actual     float64        `json:"actual"`
	Difference float64        `json:"difference"`
	Status     Status         `json:"status"`
	Color      Color          `json:"color"`
	Group      Group          `json:"group"`
	Kind       AllocationKind `json:"kind"`
	// Derived marks a percentage computed for this result rather than read
	// from the category definition.
	Derived bool `json:"derived,omitempty"`
}

// SummaryStatus tags the overall spend against the total budget.
type SummaryStatus string

const (
	SummaryOver     SummaryStatus = "OVER"
	SummaryUnder    SummaryStatus = "UNDER"
	SummaryOnTarget SummaryStatus = "ON TARGET"
)

// Summary aggregates a result set.
type Summary struct {
	Income        float64 `json:"income"`
	TotalBudgeted float64 `json:"total_budgeted"`
	TotalSpent    float64 `json:"total_spent"`
	Remaining     float64 `json:"remaining"`
	// Variance is total spent minus total budgeted, sign preserved.
	Variance float64 `json:"variance"`
	// OverUnder is the displayed magnitude; the direction lives in Status.
	OverUnder float64       `json:"over_under"`
	Status    SummaryStatus `json:"status"`
	Color     Color         `json:"color"`
}

// Options tune a Calculator.
type Options struct {
	// BufferCategory names a fixed-percentage category whose percentage is
	// recomputed so the scenario claims exactly 100% of income. Empty disables it.
	BufferCategory string
}

// Calculator evaluates a scenario. It never mutates the scenario.
type Calculator struct {
	scenario *Scenario
	opts     Options
}

// NewCalculator returns a calculator for the scenario.
func NewCalculator(scenario *Scenario, opts Options) *Calculator {
	return &Calculator{scenario: scenario, opts: opts}
}

// Scenario returns the scenario being evaluated.
func (c *Calculator) Scenario() *Scenario { return c.scenario }

// CalculateAll evaluates every category in scenario order. Categories
// without an entry in actual are treated as zero spending.
func (c *Calculator) CalculateAll(income Income, view ViewMode, actual map[string]float64) []CategoryResult {
	bufferPct, hasBuffer := c.BufferPercentage(income)

	results := make([]CategoryResult, 0, len(c.scenario.categories))
	for _, cat := range c.scenario.categories {
		var budgeted, pct float64
		derived := hasBuffer && cat.Name == c.opts.BufferCategory
		if derived {
			budgeted, pct = cat.allocatePercent(income, view, bufferPct)
		} else {
			budgeted, pct = cat.Allocate(income, view)
		}

		spent := actual[cat.Name]
		status, color := cat.Status(budgeted, spent)
		results = append(results, CategoryResult{
			Name:       cat.Name,
			Percentage: pct,
			Budgeted:   budgeted,
			Actual:     spent,
			Difference: budgeted - spent,
			Status:     status,
			Color:      color,
			Group:      cat.Group,
			Kind:       cat.Kind,
			Derived:    derived,
		})
	}
	return results
}

// BufferPercentage returns the effective percentage of the buffer category:
// 100 minus every other category's share of monthly income, floored at zero.
// It reports false when no fixed-percentage buffer category is configured.
func (c *Calculator) BufferPercentage(income Income) (float64, bool) {
	if c.opts.BufferCategory == "" {
		return 0, false
	}
	buffer, ok := c.scenario.Category(c.opts.BufferCategory)
	if !ok || buffer.Kind != FixedPercentage {
		return 0, false
	}

	monthly := income.Monthly()
	var claimed float64
	for _, cat := range c.scenario.categories {
		if cat.Name == buffer.Name {
			continue
		}
		claimed += cat.PercentageOf(monthly)
	}
	return math.Max(0, 100-claimed), true
}

// Summarize totals a result set against the income relevant to the view.
func (c *Calculator) Summarize(results []CategoryResult, income Income, view ViewMode) Summary {
	s := Summary{Income: income.For(view)}
	for _, r := range results {
		s.TotalBudgeted += r.Budgeted
		s.TotalSpent += r.Actual
	}
	s.Remaining = s.Income - s.TotalSpent
	s.Variance = s.TotalSpent - s.TotalBudgeted

	switch v := roundCents(s.Variance); {
	case v > 0:
		s.Status, s.Color, s.OverUnder = SummaryOver, ColorRed, s.Variance
	case v < 0:
		s.Status, s.Color, s.OverUnder = SummaryUnder, ColorGreen, math.Abs(s.Variance)
	default:
		s.Status, s.Color = SummaryOnTarget, ColorCyan
	}
	return s
}

// Advisories runs the scenario's consistency checks at income.
func (c *Calculator) Advisories(income Income) []string {
	return c.scenario.Validate(income)
}
