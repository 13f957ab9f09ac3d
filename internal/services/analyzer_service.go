package services

import (
	"math"
	"sort"

	"budgetex/internal/models"
)

// analyzerService computes analytics over the snapshot store.
type analyzerService struct {
	snapshots SnapshotServicer
}

// NewAnalyzerService creates a new AnalyzerServicer.
func NewAnalyzerService(snapshots SnapshotServicer) AnalyzerServicer {
	return &analyzerService{snapshots: snapshots}
}

// SpendingSummary aggregates the n most recent snapshots. It reports false
// when there are none.
func (s *analyzerService) SpendingSummary(n int) (*SpendingSummary, bool) {
	recent := s.snapshots.Recent(n)
	if len(recent) == 0 {
		return nil, false
	}

	summary := &SpendingSummary{PeriodsAnalyzed: len(recent)}
	names := make(map[string]struct{})
	for _, snap := range recent {
		summary.PeriodIDs = append(summary.PeriodIDs, snap.Period.ID)
		summary.TotalBudgeted += snap.TotalBudgeted
		summary.TotalSpent += snap.TotalSpent
		for _, e := range snap.Categories {
			names[e.Name] = struct{}{}
		}
	}

	count := float64(len(recent))
	summary.AverageBudgetedPerPeriod = summary.TotalBudgeted / count
	summary.AverageSpentPerPeriod = summary.TotalSpent / count
	if summary.TotalBudgeted > 0 {
		summary.SavingsRate = (summary.TotalBudgeted - summary.TotalSpent) / summary.TotalBudgeted * 100
	}

	for name := range names {
		cs := CategorySummary{Name: name}
		for _, snap := range recent {
			cs.TotalSpent += snap.Actual(name)
			cs.TotalBudgeted += snap.Budgeted(name)
		}
		cs.AverageSpent = cs.TotalSpent / count
		cs.AverageBudgeted = cs.TotalBudgeted / count
		summary.Categories = append(summary.Categories, cs)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].Name < summary.Categories[j].Name
	})
	return summary, true
}

// ComparePeriods reports how actual spending moved from one snapshot to
// another. It reports false when either snapshot is missing.
func (s *analyzerService) ComparePeriods(fromID, toID string) (*PeriodComparison, bool) {
	from, ok := s.snapshots.GetSnapshot(fromID)
	if !ok {
		return nil, false
	}
	to, ok := s.snapshots.GetSnapshot(toID)
	if !ok {
		return nil, false
	}

	cmp := &PeriodComparison{
		From:               from.Period,
		To:                 to.Period,
		TotalChange:        to.TotalSpent - from.TotalSpent,
		TotalPercentChange: percentChange(from.TotalSpent, to.TotalSpent),
	}

	seen := make(map[string]struct{})
	for _, entries := range [][]models.CategoryEntry{from.Categories, to.Categories} {
		for _, e := range entries {
			if _, dup := seen[e.Name]; dup {
				continue
			}
			seen[e.Name] = struct{}{}
			name := e.Name
			a, b := from.Actual(name), to.Actual(name)
			cmp.Categories = append(cmp.Categories, CategoryChange{
				Name:          name,
				FromActual:    a,
				ToActual:      b,
				Change:        b - a,
				PercentChange: percentChange(a, b),
			})
		}
	}
	return cmp, true
}

// CategoryTrend describes a category over the n most recent snapshots.
// Fewer than two data points yield a zero trend.
func (s *analyzerService) CategoryTrend(category string, n int) *CategoryTrend {
	trend := &CategoryTrend{Category: category}
	recent := s.snapshots.Recent(n)
	if len(recent) < 2 {
		return trend
	}

	// Oldest first.
	amounts := make([]float64, len(recent))
	for i, snap := range recent {
		amounts[len(recent)-1-i] = snap.Actual(category)
	}

	trend.PeriodsAnalyzed = len(amounts)
	trend.Min, trend.Max = math.Inf(1), math.Inf(-1)
	var sum float64
	for _, a := range amounts {
		sum += a
		trend.Min = math.Min(trend.Min, a)
		trend.Max = math.Max(trend.Max, a)
	}
	trend.Average = sum / float64(len(amounts))

	var sq float64
	for _, a := range amounts {
		sq += (a - trend.Average) * (a - trend.Average)
	}
	trend.Variance = sq / float64(len(amounts))

	older := (amounts[0] + amounts[1]) / 2
	newer := (amounts[len(amounts)-2] + amounts[len(amounts)-1]) / 2
	trend.Trend = percentChange(older, newer)
	return trend
}

// percentChange is the change from a to b as a percentage of a, or 0 when
// a is not positive.
func percentChange(a, b float64) float64 {
	if a <= 0 {
		return 0
	}
	return (b - a) / a * 100
}
