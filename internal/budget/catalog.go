package budget

import "sort"

// Catalog is a read-only set of scenarios keyed by name.
type Catalog struct {
	scenarios map[string]*Scenario
	order     []string
}

// NewCatalog indexes the given scenarios, preserving their order.
func NewCatalog(scenarios ...*Scenario) *Catalog {
	c := &Catalog{scenarios: make(map[string]*Scenario, len(scenarios))}
	for _, s := range scenarios {
		if _, dup := c.scenarios[s.name]; !dup {
			c.order = append(c.order, s.name)
		}
		c.scenarios[s.name] = s
	}
	return c
}

// Get looks up a scenario by name.
func (c *Catalog) Get(name string) (*Scenario, bool) {
	s, ok := c.scenarios[name]
	return s, ok
}

// Names returns scenario names in registration order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// SortedNames returns scenario names alphabetically.
func (c *Catalog) SortedNames() []string {
	names := c.Names()
	sort.Strings(names)
	return names
}

func savings(name string, amount, pct float64) Category {
	return Category{Name: name, MonthlyAmount: amount, Percentage: pct, Kind: FixedPercentage, Group: GroupSavings}
}

func fixed(name string, amount, pct float64) Category {
	return Category{Name: name, MonthlyAmount: amount, Percentage: pct, Kind: FixedDollar, Group: GroupExpense}
}

func share(name string, amount, pct float64) Category {
	return Category{Name: name, MonthlyAmount: amount, Percentage: pct, Kind: FixedPercentage, Group: GroupExpense}
}

// BuiltinCatalog returns the scenarios shipped with the application.
func BuiltinCatalog() *Catalog {
	return NewCatalog(
		MustScenario("July-December 2025",
			savings("Roth IRA", 333.33, 8.4),
			savings("General Savings", 769.23, 19.3),
			fixed("HOA", 1078.81, 27.1),
			fixed("Utilities", 150.00, 3.8),
			fixed("Subscriptions", 60.00, 1.5),
			share("Groceries", 550.00, 13.8),
			share("Uber/Lyft", 70.00, 1.8),
			fixed("Therapy", 44.00, 1.1),
			share("Dining/Entertainment", 400.00, 10.0),
			share(DefaultBufferCategory, 535.14, 13.4),
		),
		MustScenario("Fresh New Year (Jan-May)",
			savings("Roth IRA", 1400.00, 35.2),
			savings("General Savings", 250.00, 6.3),
			fixed("HOA", 1078.81, 27.1),
			fixed("Utilities", 150.00, 3.8),
			fixed("Subscriptions", 60.00, 1.5),
			share("Groceries", 324.50, 8.1),
			share("Uber/Lyft", 70.00, 1.8),
			share("Dining/Entertainment", 178.00, 4.5),
			fixed("Therapy", 44.00, 1.1),
			share(DefaultBufferCategory, 50.94, 1.3),
		),
		MustScenario("Fresh New Year (June-Dec)",
			savings("Roth IRA", 0.00, 0.0),
			savings("General Savings", 833.33, 20.9),
			fixed("HOA", 1078.81, 27.1),
			fixed("Utilities", 150.00, 3.8),
			fixed("Subscriptions", 60.00, 1.5),
			share("Groceries", 450.00, 11.3),
			share("Uber/Lyft", 70.00, 1.8),
			share("Dining/Entertainment", 302.00, 7.6),
			fixed("Therapy", 44.00, 1.1),
			share(DefaultBufferCategory, 817.61, 20.5),
		),
	)
}
