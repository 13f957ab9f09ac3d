package budget

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
)

const epsilon = 0.005

func approx(a, b float64) bool { return math.Abs(a-b) < epsilon }

func rentAndSavings(t *testing.T) *Scenario {
	t.Helper()
	s, err := NewScenario("S",
		Category{Name: "Rent", MonthlyAmount: 1000, Kind: FixedDollar, Group: GroupExpense},
		Category{Name: "Savings", Percentage: 20, Kind: FixedPercentage, Group: GroupSavings},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestCategory_Allocate(t *testing.T) {
	rent := Category{Name: "Rent", MonthlyAmount: 1000, Kind: FixedDollar, Group: GroupExpense}
	save := Category{Name: "Savings", Percentage: 20, Kind: FixedPercentage, Group: GroupSavings}
	split := SplitPaycheck(2000, 1000)

	tests := []struct {
		name         string
		cat          Category
		income       Income
		view         ViewMode
		wantBudgeted float64
		wantPct      float64
	}{
		{"dollar_monthly", rent, MonthlyIncome(4000), ViewMonthly, 1000, 25},
		{"dollar_first_paycheck", rent, split, ViewFirstPaycheck, 500, 25},
		{"dollar_second_paycheck", rent, split, ViewSecondPaycheck, 500, 50},
		{"dollar_zero_income", rent, MonthlyIncome(0), ViewMonthly, 1000, 0},
		{"percent_monthly", save, split, ViewMonthly, 600, 20},
		{"percent_first_paycheck", save, split, ViewFirstPaycheck, 400, 20},
		{"percent_second_paycheck", save, split, ViewSecondPaycheck, 200, 20},
		{"percent_monthly_income_paycheck_view", save, MonthlyIncome(3000), ViewFirstPaycheck, 300, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budgeted, pct := tt.cat.Allocate(tt.income, tt.view)
			if !approx(budgeted, tt.wantBudgeted) {
				t.Errorf("expected budgeted %.2f, got %.2f", tt.wantBudgeted, budgeted)
			}
			if !approx(pct, tt.wantPct) {
				t.Errorf("expected percentage %.2f, got %.2f", tt.wantPct, pct)
			}
		})
	}
}

func TestCategory_PercentageDollarDuality(t *testing.T) {
	for _, amount := range []float64{0, 44, 1078.81, 2500} {
		for _, income := range []float64{1, 1234.56, 4319.19, 10000} {
			c := Category{Name: "x", MonthlyAmount: amount, Kind: FixedDollar, Group: GroupExpense}
			if got := c.PercentageOf(income) * income / 100; !approx(got, amount) {
				t.Errorf("amount %.2f income %.2f: round trip gave %.4f", amount, income, got)
			}
		}
	}
}

func TestCategory_Status(t *testing.T) {
	savings := Category{Name: "s", Group: GroupSavings}
	expense := Category{Name: "e", Group: GroupExpense}

	tests := []struct {
		name       string
		cat        Category
		budgeted   float64
		actual     float64
		wantStatus Status
		wantColor  Color
	}{
		{"savings_not_set", savings, 100, 0, StatusNotSet, ColorGray},
		{"expense_not_set", expense, 0, 0, StatusNotSet, ColorGray},
		{"savings_exceeding", savings, 100, 150, StatusExceedingGoal, ColorGreen},
		{"savings_under_goal", savings, 100, 50, StatusUnderGoal, ColorOrange},
		{"savings_on_target", savings, 100, 100, StatusOnTarget, ColorCyan},
		{"expense_over", expense, 100, 150, StatusOverBudget, ColorRed},
		{"expense_under", expense, 100, 50, StatusUnderBudget, ColorGreen},
		{"expense_on_target", expense, 100, 100, StatusOnTarget, ColorCyan},
		{"float_noise_is_on_target", expense, 0.1 + 0.2, 0.3, StatusOnTarget, ColorCyan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, color := tt.cat.Status(tt.budgeted, tt.actual)
			if status != tt.wantStatus || color != tt.wantColor {
				t.Errorf("expected %s/%s, got %s/%s", tt.wantStatus, tt.wantColor, status, color)
			}
		})
	}
}

func TestScenario_Totals(t *testing.T) {
	s := rentAndSavings(t)
	if s.TotalFixedAmount() != 1000 {
		t.Errorf("expected fixed total 1000, got %.2f", s.TotalFixedAmount())
	}
	if s.TotalPercentage() != 20 {
		t.Errorf("expected percentage total 20, got %.2f", s.TotalPercentage())
	}
	if names := s.Names(); len(names) != 2 || names[0] != "Rent" || names[1] != "Savings" {
		t.Errorf("unexpected order %v", names)
	}
}

func TestScenario_Validate(t *testing.T) {
	t.Run("consistent_scenario_has_no_advisories", func(t *testing.T) {
		if got := rentAndSavings(t).Validate(MonthlyIncome(3000)); len(got) != 0 {
			t.Errorf("expected no advisories, got %v", got)
		}
	})

	t.Run("all_checks_reported", func(t *testing.T) {
		s := MustScenario("Broken",
			Category{Name: "Rent", MonthlyAmount: 500, Kind: FixedDollar, Group: GroupExpense},
			Category{Name: "A", Percentage: 70, Kind: FixedPercentage, Group: GroupExpense},
			Category{Name: "B", Percentage: 40, Kind: FixedPercentage, Group: GroupSavings},
		)
		got := s.Validate(MonthlyIncome(0))
		// zero income, fixed over income, percentages over 100, budget over income
		if len(got) != 4 {
			t.Fatalf("expected 4 advisories, got %d: %v", len(got), got)
		}
		if !strings.Contains(got[0], "greater than zero") {
			t.Errorf("unexpected first advisory %q", got[0])
		}
	})

	t.Run("budget_exceeds_income", func(t *testing.T) {
		s := MustScenario("Tight",
			Category{Name: "Rent", MonthlyAmount: 900, Kind: FixedDollar, Group: GroupExpense},
			Category{Name: "Food", Percentage: 20, Kind: FixedPercentage, Group: GroupExpense},
		)
		got := s.Validate(MonthlyIncome(1000))
		if len(got) != 1 || !strings.Contains(got[0], "Total budget") {
			t.Errorf("expected total budget advisory, got %v", got)
		}
	})
}

func TestNewScenario_RejectsBadDefinitions(t *testing.T) {
	tests := []struct {
		name string
		cats []Category
	}{
		{"no_categories", nil},
		{"duplicate_names", []Category{
			{Name: "A", Kind: FixedDollar, Group: GroupExpense},
			{Name: "A", Kind: FixedDollar, Group: GroupExpense},
		}},
		{"percentage_over_100", []Category{{Name: "A", Percentage: 120, Kind: FixedPercentage, Group: GroupExpense}}},
		{"unknown_kind", []Category{{Name: "A", Kind: "weird", Group: GroupExpense}}},
		{"unknown_group", []Category{{Name: "A", Kind: FixedDollar, Group: "other"}}},
		{"negative_amount", []Category{{Name: "A", MonthlyAmount: -1, Kind: FixedDollar, Group: GroupExpense}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewScenario("x", tt.cats...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCalculator_RentAndSavings(t *testing.T) {
	calc := NewCalculator(rentAndSavings(t), Options{})
	income := MonthlyIncome(3000)

	results := calc.CalculateAll(income, ViewMonthly, map[string]float64{"Rent": 1000, "Savings": 500})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	rent, savings := results[0], results[1]
	if rent.Budgeted != 1000 || !approx(rent.Percentage, 33.33) || rent.Status != StatusOnTarget {
		t.Errorf("unexpected rent result %+v", rent)
	}
	if !approx(savings.Budgeted, 600) || savings.Status != StatusUnderGoal || !approx(savings.Difference, 100) {
		t.Errorf("unexpected savings result %+v", savings)
	}

	sum := calc.Summarize(results, income, ViewMonthly)
	if !approx(sum.TotalBudgeted, 1600) {
		t.Errorf("expected total budgeted 1600, got %.2f", sum.TotalBudgeted)
	}
	if !approx(sum.TotalSpent, 1500) || !approx(sum.Remaining, 1500) {
		t.Errorf("unexpected totals %+v", sum)
	}
	if !approx(sum.Variance, -100) {
		t.Errorf("expected variance -100, got %.2f", sum.Variance)
	}
	if sum.Status != SummaryUnder || !approx(sum.OverUnder, 100) || sum.Color != ColorGreen {
		t.Errorf("expected UNDER 100, got %s %.2f", sum.Status, sum.OverUnder)
	}
}

func TestCalculator_MissingSpendingIsZero(t *testing.T) {
	calc := NewCalculator(rentAndSavings(t), Options{})
	results := calc.CalculateAll(MonthlyIncome(3000), ViewMonthly, nil)
	for _, r := range results {
		if r.Actual != 0 || r.Status != StatusNotSet {
			t.Errorf("%s: expected zero actual and NotSet, got %.2f %s", r.Name, r.Actual, r.Status)
		}
	}
}

func TestCalculator_SummaryTotals(t *testing.T) {
	calc := NewCalculator(BuiltinCatalog().scenarios["July-December 2025"], Options{})
	income := SplitPaycheck(2164.77, 2154.42)
	spending := map[string]float64{"HOA": 1078.81, "Groceries": 700, "Roth IRA": 200, "Therapy": 44}

	for _, view := range []ViewMode{ViewMonthly, ViewFirstPaycheck, ViewSecondPaycheck} {
		t.Run(string(view), func(t *testing.T) {
			results := calc.CalculateAll(income, view, spending)
			sum := calc.Summarize(results, income, view)

			var budgeted, spent float64
			for _, r := range results {
				budgeted += r.Budgeted
				spent += r.Actual
			}
			if !approx(sum.TotalBudgeted, budgeted) || !approx(sum.TotalSpent, spent) {
				t.Errorf("totals mismatch: %+v", sum)
			}
			if !approx(sum.Remaining, income.For(view)-spent) {
				t.Errorf("remaining mismatch: %.2f", sum.Remaining)
			}
			if !approx(sum.Variance, spent-budgeted) {
				t.Errorf("variance mismatch: %.2f", sum.Variance)
			}
			if sum.OverUnder < 0 {
				t.Errorf("display magnitude must not be negative: %.2f", sum.OverUnder)
			}
		})
	}
}

func TestCalculator_BufferIsDerived(t *testing.T) {
	s := MustScenario("Buffered",
		Category{Name: "Rent", MonthlyAmount: 1000, Kind: FixedDollar, Group: GroupExpense},
		Category{Name: "Savings", Percentage: 20, Kind: FixedPercentage, Group: GroupSavings},
		Category{Name: DefaultBufferCategory, Percentage: 5, Kind: FixedPercentage, Group: GroupExpense},
	)
	calc := NewCalculator(s, Options{BufferCategory: DefaultBufferCategory})

	results := calc.CalculateAll(MonthlyIncome(4000), ViewMonthly, nil)
	buffer := results[2]
	if !buffer.Derived {
		t.Error("expected buffer result to be marked derived")
	}
	if !approx(buffer.Percentage, 55) || !approx(buffer.Budgeted, 2200) {
		t.Errorf("expected 55%% / 2200, got %.2f%% / %.2f", buffer.Percentage, buffer.Budgeted)
	}
	if results[0].Derived || results[1].Derived {
		t.Error("only the buffer may be derived")
	}

	stored, _ := s.Category(DefaultBufferCategory)
	if stored.Percentage != 5 {
		t.Errorf("stored percentage must stay 5, got %.2f", stored.Percentage)
	}

	t.Run("clamped_at_zero", func(t *testing.T) {
		pct, ok := calc.BufferPercentage(MonthlyIncome(1000))
		if !ok || pct != 0 {
			t.Errorf("expected clamped 0, got %.2f (ok=%v)", pct, ok)
		}
	})

	t.Run("disabled_without_option", func(t *testing.T) {
		plain := NewCalculator(s, Options{})
		if _, ok := plain.BufferPercentage(MonthlyIncome(4000)); ok {
			t.Error("expected no buffer")
		}
		if got := plain.CalculateAll(MonthlyIncome(4000), ViewMonthly, nil)[2]; got.Percentage != 5 || got.Derived {
			t.Errorf("expected stored 5%%, got %+v", got)
		}
	})
}

func TestCalculator_ExportRows(t *testing.T) {
	calc := NewCalculator(rentAndSavings(t), Options{})
	income := SplitPaycheck(1500, 1500)
	results := calc.CalculateAll(income, ViewMonthly, map[string]float64{"Rent": 1000})

	rows := calc.ExportRows(results, income, ViewMonthly)
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "View Mode" || rows[0][9] != "Status" {
		t.Errorf("unexpected header %v", rows[0])
	}
	want := []string{"Monthly", "1500.00", "1500.00", "S", "Rent", "33.3%", "1000.00", "1000.00", "0.00", "On Target"}
	for i, cell := range want {
		if rows[1][i] != cell {
			t.Errorf("column %d: expected %q, got %q", i, cell, rows[1][i])
		}
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "View Mode,First Paycheck") {
		t.Errorf("unexpected csv output %q", buf.String())
	}
}

func TestIncome(t *testing.T) {
	t.Run("monthly_halves_per_paycheck", func(t *testing.T) {
		i := MonthlyIncome(3000)
		if i.First() != 1500 || i.Second() != 1500 || i.Monthly() != 3000 || i.IsSplit() {
			t.Errorf("unexpected income %s", i)
		}
	})

	t.Run("split_sums_paychecks", func(t *testing.T) {
		i := SplitPaycheck(2164.77, 2154.42)
		if !approx(i.Monthly(), 4319.19) || i.For(ViewSecondPaycheck) != 2154.42 {
			t.Errorf("unexpected income %s", i)
		}
	})

	t.Run("json_without_type_infers_split", func(t *testing.T) {
		var i Income
		if err := json.Unmarshal([]byte(`{"first_paycheck":100,"second_paycheck":50}`), &i); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !i.IsSplit() || i.Monthly() != 150 {
			t.Errorf("unexpected income %s", i)
		}
	})

	t.Run("json_unknown_type", func(t *testing.T) {
		var i Income
		if err := json.Unmarshal([]byte(`{"type":"yearly"}`), &i); err == nil {
			t.Error("expected error")
		}
	})
}

func TestBuiltinCatalog(t *testing.T) {
	catalog := BuiltinCatalog()
	names := catalog.Names()
	if len(names) != 3 || names[0] != "July-December 2025" {
		t.Fatalf("unexpected scenarios %v", names)
	}
	for _, name := range names {
		s, ok := catalog.Get(name)
		if !ok {
			t.Fatalf("scenario %q missing", name)
		}
		if len(s.Categories()) != 10 {
			t.Errorf("%s: expected 10 categories, got %d", name, len(s.Categories()))
		}
		if _, ok := s.Category(DefaultBufferCategory); !ok {
			t.Errorf("%s: missing buffer category", name)
		}
	}
	if _, ok := catalog.Get("nope"); ok {
		t.Error("expected unknown scenario to be absent")
	}
}
