package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"budgetex/internal/budget"
	"budgetex/internal/models"
	"budgetex/internal/period"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestScenario returns a small scenario covering every allocation kind and group:
// Rent (fixed $1000), Savings (20%), Groceries (10%) and Flex/Buffer (5%).
func TestScenario(t *testing.T) *budget.Scenario {
	t.Helper()

	s, err := budget.NewScenario(fmt.Sprintf("Test Scenario %d", nextID()),
		budget.Category{Name: "Rent", MonthlyAmount: 1000, Kind: budget.FixedDollar, Group: budget.GroupExpense},
		budget.Category{Name: "Savings", Percentage: 20, Kind: budget.FixedPercentage, Group: budget.GroupSavings},
		budget.Category{Name: "Groceries", Percentage: 10, Kind: budget.FixedPercentage, Group: budget.GroupExpense},
		budget.Category{Name: budget.DefaultBufferCategory, Percentage: 5, Kind: budget.FixedPercentage, Group: budget.GroupExpense},
	)
	if err != nil {
		t.Fatalf("failed to build test scenario: %v", err)
	}
	return s
}

// BuildTestSnapshot builds a monthly-view snapshot for p from budgeted/actual pairs.
func BuildTestSnapshot(p period.Period, scenario string, entries ...models.CategoryEntry) *models.Snapshot {
	s := &models.Snapshot{
		Period:       p,
		ScenarioName: scenario,
		Income:       budget.SplitPaycheck(1500, 1500),
		ViewMode:     budget.ViewMonthly,
		Categories:   entries,
		SavedAt:      time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, e := range entries {
		s.TotalBudgeted += e.Budgeted
		s.TotalSpent += e.Actual
	}
	return s
}

// CreateTestSnapshot stores a snapshot directly through GORM.
func CreateTestSnapshot(t *testing.T, db *gorm.DB, s *models.Snapshot) *models.SnapshotRecord {
	t.Helper()

	record := models.NewSnapshotRecord(s)
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test snapshot: %v", err)
	}
	return record
}

// CreateTestHistory appends a spending history entry.
func CreateTestHistory(t *testing.T, db *gorm.DB, scenario, category string, amount float64) *models.SpendingHistory {
	t.Helper()

	entry := &models.SpendingHistory{
		ScenarioName: scenario,
		CategoryName: category,
		Amount:       amount,
		Description:  fmt.Sprintf("Test entry %d", nextID()),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test history entry: %v", err)
	}
	return entry
}
