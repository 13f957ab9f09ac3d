// Package budget holds the allocation math: categories, scenarios and the
// calculator that turns income and spending into per-category results.
package budget

import "math"

// AllocationKind selects which of a category's amount or percentage is authoritative.
type AllocationKind string

const (
	FixedDollar     AllocationKind = "fixed_dollar"
	FixedPercentage AllocationKind = "fixed_percentage"
)

// Group controls whether overspending a category is good or bad.
type Group string

const (
	GroupSavings Group = "savings"
	GroupExpense Group = "expense"
)

// Status describes how actual spending compares to the budgeted amount.
type Status string

const (
	StatusNotSet        Status = "Not Set"
	StatusOnTarget      Status = "On Target"
	StatusUnderGoal     Status = "Under Goal"
	StatusExceedingGoal Status = "Exceeding Goal!"
	StatusUnderBudget   Status = "Under Budget"
	StatusOverBudget    Status = "Over Budget"
)

// Color is a display tag paired with a status.
type Color string

const (
	ColorGray   Color = "gray"
	ColorCyan   Color = "cyan"
	ColorOrange Color = "orange"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
)

// Category is one budget line item.
type Category struct {
	Name          string         `json:"name" validate:"required,max=100"`
	MonthlyAmount float64        `json:"monthly_amount" validate:"gte=0"`
	Percentage    float64        `json:"percentage" validate:"gte=0,lte=100"`
	Kind          AllocationKind `json:"kind" validate:"oneof=fixed_dollar fixed_percentage"`
	Group         Group          `json:"group" validate:"oneof=savings expense"`
}

// Allocate returns the budgeted amount and its percentage of the relevant
// income for the given view.
//
// Fixed-dollar categories split evenly across paychecks. Fixed-percentage
// categories apply their percentage to the monthly total, or to the viewed
// paycheck's own figure in a paycheck view.
func (c Category) Allocate(income Income, view ViewMode) (budgeted, percentage float64) {
	if c.Kind == FixedDollar {
		return c.allocateDollar(income, view)
	}
	return c.allocatePercent(income, view, c.Percentage)
}

func (c Category) allocateDollar(income Income, view ViewMode) (float64, float64) {
	budgeted := c.MonthlyAmount
	if view.PerPaycheck() {
		budgeted = c.MonthlyAmount / 2
	}
	return budgeted, percentOf(budgeted, income.For(view))
}

func (c Category) allocatePercent(income Income, view ViewMode, pct float64) (float64, float64) {
	return pct / 100 * income.For(view), pct
}

// PercentageOf returns the share of monthlyIncome the category claims.
func (c Category) PercentageOf(monthlyIncome float64) float64 {
	if c.Kind == FixedPercentage {
		return c.Percentage
	}
	return percentOf(c.MonthlyAmount, monthlyIncome)
}

// Status classifies actual spending against budgeted. A zero actual is
// NotSet. Savings categories treat overspending as favorable and expense
// categories treat underspending as favorable. Amounts are compared to the cent.
func (c Category) Status(budgeted, actual float64) (Status, Color) {
	if actual == 0 {
		return StatusNotSet, ColorGray
	}

	diff := roundCents(budgeted - actual)
	switch {
	case diff == 0:
		return StatusOnTarget, ColorCyan
	case c.Group == GroupSavings && diff > 0:
		return StatusUnderGoal, ColorOrange
	case c.Group == GroupSavings:
		return StatusExceedingGoal, ColorGreen
	case diff > 0:
		return StatusUnderBudget, ColorGreen
	default:
		return StatusOverBudget, ColorRed
	}
}

func percentOf(amount, income float64) float64 {
	if income <= 0 {
		return 0
	}
	return amount / income * 100
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
