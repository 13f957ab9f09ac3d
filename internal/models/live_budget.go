package models

import (
	"time"

	"budgetex/internal/budget"
)

// LiveBudget holds the always-current income and spending for a scenario,
// independent of any period snapshot.
type LiveBudget struct {
	Base
	ScenarioName   string  `gorm:"uniqueIndex;not null" json:"scenario_name"`
	IncomeSplit    bool    `gorm:"not null;default:false" json:"income_split"`
	Income         float64 `gorm:"not null" json:"income"`
	FirstPaycheck  float64 `gorm:"not null" json:"first_paycheck"`
	SecondPaycheck float64 `gorm:"not null" json:"second_paycheck"`

	Spending []LiveSpending `gorm:"foreignKey:LiveBudgetID;constraint:OnDelete:CASCADE" json:"spending"`
}

// LiveSpending is the actual spending recorded against one category.
type LiveSpending struct {
	Base
	LiveBudgetID string  `gorm:"type:uuid;not null;uniqueIndex:idx_live_spending_category" json:"live_budget_id"`
	CategoryName string  `gorm:"not null;uniqueIndex:idx_live_spending_category" json:"category_name"`
	Actual       float64 `gorm:"not null;default:0" json:"actual"`
}

// BudgetIncome returns the stored income as a domain value.
func (b *LiveBudget) BudgetIncome() budget.Income {
	if b.IncomeSplit {
		return budget.SplitPaycheck(b.FirstPaycheck, b.SecondPaycheck)
	}
	return budget.MonthlyIncome(b.Income)
}

// SetIncome stores a domain income.
func (b *LiveBudget) SetIncome(income budget.Income) {
	b.IncomeSplit = income.IsSplit()
	b.Income = income.Monthly()
	b.FirstPaycheck = income.First()
	b.SecondPaycheck = income.Second()
}

// SpendingMap returns spending keyed by category name.
func (b *LiveBudget) SpendingMap() map[string]float64 {
	m := make(map[string]float64, len(b.Spending))
	for _, s := range b.Spending {
		m[s.CategoryName] = s.Actual
	}
	return m
}

// LastUpdated returns the most recent update across the budget and its spending rows.
func (b *LiveBudget) LastUpdated() time.Time {
	latest := b.UpdatedAt
	for _, s := range b.Spending {
		if s.UpdatedAt.After(latest) {
			latest = s.UpdatedAt
		}
	}
	return latest
}
