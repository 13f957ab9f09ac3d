package services

import (
	"testing"
	"time"

	"budgetex/internal/models"
	"budgetex/internal/pagination"
	"budgetex/internal/testutil"
)

func TestHistoryService_List(t *testing.T) {
	env := newTestEnv(t)
	svc := env.history

	testutil.AssertNoError(t, svc.Record("S", "Rent", 1000, "july rent"))
	testutil.AssertNoError(t, svc.Record("S", "Groceries", 40, ""))
	testutil.AssertNoError(t, svc.Record("S", "Groceries", 55, ""))
	testutil.AssertNoError(t, svc.Record("Other", "Groceries", 10, ""))

	old := testutil.CreateTestHistory(t, env.db, "S", "Groceries", 5)
	env.db.Model(&models.SpendingHistory{}).Where("id = ?", old.ID).
		Update("created_at", today.Add(-90*24*time.Hour))

	t.Run("by_scenario", func(t *testing.T) {
		page, err := svc.List(HistoryFilter{Scenario: "S"}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 4 {
			t.Errorf("expected 4 entries, got %d", page.TotalItems)
		}
	})

	t.Run("by_category_and_days", func(t *testing.T) {
		page, err := svc.List(HistoryFilter{Scenario: "S", Category: "Groceries", Days: 30}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 recent grocery entries, got %d", page.TotalItems)
		}
	})

	t.Run("paginates", func(t *testing.T) {
		page, err := svc.List(HistoryFilter{Scenario: "S"}, pagination.PageRequest{Page: 2, PageSize: 3})
		testutil.AssertNoError(t, err)
		if len(page.Data) != 1 || page.TotalPages != 2 {
			t.Errorf("unexpected page %+v", page)
		}
	})
}
