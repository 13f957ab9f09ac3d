package services

import (
	"testing"
	"time"

	"budgetex/internal/budget"
	"budgetex/internal/models"
	"budgetex/internal/period"
	"budgetex/internal/testutil"
)

func TestResolutionService_Resolve(t *testing.T) {
	t.Run("snapshot_wins_over_live_data", func(t *testing.T) {
		env := newTestEnv(t)
		testutil.AssertNoError(t, env.store.SaveBudgetData(env.scenario.Name(), budget.MonthlyIncome(4000),
			map[string]float64{"Groceries": 999}))
		snap := testutil.BuildTestSnapshot(currentMonth, env.scenario.Name(),
			models.CategoryEntry{Name: "Groceries", Budgeted: 300, Actual: 120})
		testutil.AssertNoError(t, env.snapshots.SaveSnapshot(snap))

		res, err := env.resolver.Resolve(env.scenario, currentMonth.ID)
		testutil.AssertNoError(t, err)

		if res.Source != SourceSnapshot || !res.IsCurrent {
			t.Errorf("expected current snapshot source, got %s (current=%v)", res.Source, res.IsCurrent)
		}
		testutil.AssertAmount(t, "groceries", 120, res.Spending["Groceries"])
		testutil.AssertAmount(t, "income", 3000, res.Income.Monthly())
	})

	t.Run("current_month_reads_live_data", func(t *testing.T) {
		env := newTestEnv(t)
		testutil.AssertNoError(t, env.store.SaveBudgetData(env.scenario.Name(), budget.SplitPaycheck(2000, 1800),
			map[string]float64{"Rent": 1000, "Unknown": 5}))

		res, err := env.resolver.Resolve(env.scenario, currentMonth.ID)
		testutil.AssertNoError(t, err)

		if res.Source != SourceLive {
			t.Errorf("expected live source, got %s", res.Source)
		}
		testutil.AssertAmount(t, "income", 3800, res.Income.Monthly())
		testutil.AssertAmount(t, "rent", 1000, res.Spending["Rent"])
		if _, ok := res.Spending["Unknown"]; ok {
			t.Error("categories outside the scenario must be dropped")
		}
		if len(res.CarriedForward) != 0 {
			t.Errorf("live data must not be seeded, got %v", res.CarriedForward)
		}
	})

	t.Run("fresh_current_month_carries_overages", func(t *testing.T) {
		env := newTestEnv(t)
		testutil.AssertNoError(t, env.snapshots.SaveSnapshot(testutil.BuildTestSnapshot(previousMonth, env.scenario.Name(),
			models.CategoryEntry{Name: "Groceries", Budgeted: 100, Actual: 150},
			models.CategoryEntry{Name: "Rent", Budgeted: 1000, Actual: 1000},
		)))

		res, err := env.resolver.Resolve(env.scenario, currentMonth.ID)
		testutil.AssertNoError(t, err)

		if res.Source != SourceFresh {
			t.Errorf("expected fresh source, got %s", res.Source)
		}
		testutil.AssertAmount(t, "groceries", 50, res.Spending["Groceries"])
		testutil.AssertAmount(t, "rent", 0, res.Spending["Rent"])
		testutil.AssertAmount(t, "carried groceries", 50, res.CarriedForward["Groceries"])
		if !res.Income.IsSplit() || res.Income.First() != 1500 {
			t.Errorf("expected default income, got %s", res.Income)
		}
	})

	t.Run("historical_without_snapshot_is_blank", func(t *testing.T) {
		env := newTestEnv(t)
		testutil.AssertNoError(t, env.store.SaveBudgetData(env.scenario.Name(), budget.MonthlyIncome(4000),
			map[string]float64{"Rent": 1000}))
		march := period.Monthly(2025, time.March)

		res, err := env.resolver.Resolve(env.scenario, march.ID)
		testutil.AssertNoError(t, err)

		if res.Source != SourceBlank || res.IsCurrent {
			t.Errorf("expected blank historical period, got %s (current=%v)", res.Source, res.IsCurrent)
		}
		if res.Period.ID != march.ID || res.Period.DisplayName != "March 2025" {
			t.Errorf("unexpected period %+v", res.Period)
		}
		if len(res.Spending) != len(env.scenario.Names()) {
			t.Errorf("expected every category present, got %v", res.Spending)
		}
		for name, v := range res.Spending {
			if v != 0 {
				t.Errorf("expected zero spending for %s, got %v", name, v)
			}
		}
	})

	t.Run("invalid_period_id", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.resolver.Resolve(env.scenario, "quarterly_2025_01")
		testutil.AssertAppError(t, err, "INVALID_PERIOD")
	})

	t.Run("alternate_spelling_of_current_month_is_rejected", func(t *testing.T) {
		env := newTestEnv(t)
		testutil.AssertNoError(t, env.snapshots.SaveSnapshot(testutil.BuildTestSnapshot(currentMonth, env.scenario.Name(),
			models.CategoryEntry{Name: "Groceries", Budgeted: 300, Actual: 77})))

		for _, id := range []string{"monthly_2025_007", "monthly_02025_07", "monthly_2025_+7"} {
			_, err := env.resolver.Resolve(env.scenario, id)
			testutil.AssertAppError(t, err, "INVALID_PERIOD")
		}

		res, err := env.resolver.Resolve(env.scenario, currentMonth.ID)
		testutil.AssertNoError(t, err)
		if res.Source != SourceSnapshot || !res.IsCurrent {
			t.Errorf("expected current snapshot source, got %s (current=%v)", res.Source, res.IsCurrent)
		}
		testutil.AssertAmount(t, "groceries", 77, res.Spending["Groceries"])
	})

	t.Run("snapshot_from_other_scenario_keeps_own_categories", func(t *testing.T) {
		env := newTestEnv(t)
		testutil.AssertNoError(t, env.snapshots.SaveSnapshot(testutil.BuildTestSnapshot(currentMonth, "Other Scenario",
			models.CategoryEntry{Name: "Foreign", Budgeted: 50, Actual: 42},
			models.CategoryEntry{Name: "Groceries", Budgeted: 300, Actual: 20})))

		res, err := env.resolver.Resolve(env.scenario, currentMonth.ID)
		testutil.AssertNoError(t, err)

		if res.Source != SourceSnapshot {
			t.Fatalf("expected snapshot source, got %s", res.Source)
		}
		if _, ok := res.Spending["Foreign"]; ok {
			t.Errorf("categories outside the scenario must be dropped, got %v", res.Spending)
		}
		if len(res.Spending) != len(env.scenario.Names()) {
			t.Errorf("expected every scenario category present, got %v", res.Spending)
		}
		testutil.AssertAmount(t, "groceries", 20, res.Spending["Groceries"])
		testutil.AssertAmount(t, "rent", 0, res.Spending["Rent"])
	})
}
