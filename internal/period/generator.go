package period

import "time"

// MonthlyPeriods returns n consecutive calendar months starting January of year.
func MonthlyPeriods(year, n int) []Period {
	return monthlyFrom(Date(year, time.January, 1), n)
}

func monthlyFrom(first time.Time, n int) []Period {
	periods := make([]Period, 0, n)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, i, 0)
		periods = append(periods, Monthly(m.Year(), m.Month()))
	}
	return periods
}

// BiweeklyPeriods returns n contiguous 14-day windows beginning on start.
func BiweeklyPeriods(start time.Time, n int) []Period {
	start = Truncate(start)
	periods := make([]Period, 0, n)
	for i := 0; i < n; i++ {
		periods = append(periods, Biweekly(start.AddDate(0, 0, 14*i)))
	}
	return periods
}

// WeeklyPeriods returns n contiguous 7-day windows beginning on start.
// Callers wanting Monday-aligned weeks pass WeekStart(d).
func WeeklyPeriods(start time.Time, n int) []Period {
	start = Truncate(start)
	periods := make([]Period, 0, n)
	for i := 0; i < n; i++ {
		periods = append(periods, Weekly(start.AddDate(0, 0, 7*i)))
	}
	return periods
}

// WeekStart returns the Monday on or before d.
func WeekStart(d time.Time) time.Time {
	d = Truncate(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// Generate returns n periods of the given kind beginning at from. Monthly
// sequences start at from's calendar month and weekly ones at its Monday.
// Custom periods have no generator, so the monthly sequence is returned.
func Generate(kind Kind, from time.Time, n int) []Period {
	switch kind {
	case KindBiweekly:
		return BiweeklyPeriods(from, n)
	case KindWeekly:
		return WeeklyPeriods(WeekStart(from), n)
	default:
		return monthlyFrom(Date(from.Year(), from.Month(), 1), n)
	}
}

// Current returns the period of the given kind containing today. Biweekly
// windows are anchored at January 1 and weekly windows at the Monday on or
// before it. The window index is derived from today, so the trailing days
// of a year that a fixed 26 or 52 window run would miss are still covered.
// Custom falls back to the current month.
func Current(kind Kind, today time.Time) Period {
	today = Truncate(today)
	yearStart := Date(today.Year(), time.January, 1)

	switch kind {
	case KindBiweekly:
		n := int(today.Sub(yearStart).Hours()/24)/14 + 1
		return Biweekly(yearStart.AddDate(0, 0, 14*(n-1)))
	case KindWeekly:
		anchor := WeekStart(yearStart)
		n := int(today.Sub(anchor).Hours()/24)/7 + 1
		return Weekly(anchor.AddDate(0, 0, 7*(n-1)))
	default:
		return Monthly(today.Year(), today.Month())
	}
}
