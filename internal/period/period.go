// Package period models the bounded date intervals budgets are tracked
// against and generates the monthly, biweekly and weekly sequences.
package period

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies how a period's interval was produced.
type Kind string

const (
	KindMonthly  Kind = "monthly"
	KindBiweekly Kind = "biweekly"
	KindWeekly   Kind = "weekly"
	KindCustom   Kind = "custom"
)

// Valid reports whether k is a known period kind.
func (k Kind) Valid() bool {
	switch k {
	case KindMonthly, KindBiweekly, KindWeekly, KindCustom:
		return true
	}
	return false
}

// ErrInvalidRange is returned when a period would end before it starts.
var ErrInvalidRange = errors.New("period start must not be after its end")

// ErrInvalidID is returned by ParseID for ids that do not follow the
// kind_YYYY_MM[_DD] layout.
var ErrInvalidID = errors.New("invalid period id")

const idDateLayout = "2006_01_02"

// Period is an inclusive date interval with a stable identifier.
// Start and End are dates at UTC midnight.
type Period struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Start       time.Time `json:"start_date"`
	End         time.Time `json:"end_date"`
	DisplayName string    `json:"display_name"`
}

// Date returns the UTC midnight for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock portion of t, keeping its calendar day.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// Contains reports whether d falls within the period, bounds included.
func (p Period) Contains(d time.Time) bool {
	d = Truncate(d)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days returns the number of calendar days covered by the period.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// Overlaps reports whether the period shares at least one day with [start, end].
func (p Period) Overlaps(start, end time.Time) bool {
	return !p.Start.After(Truncate(end)) && !p.End.Before(Truncate(start))
}

// String returns the display name.
func (p Period) String() string { return p.DisplayName }

// Monthly returns the calendar month period for year and month.
func Monthly(year int, month time.Month) Period {
	start := Date(year, month, 1)
	end := start.AddDate(0, 1, -1)
	return Period{
		ID:          fmt.Sprintf("monthly_%04d_%02d", start.Year(), int(start.Month())),
		Kind:        KindMonthly,
		Start:       start,
		End:         end,
		DisplayName: fmt.Sprintf("%s %d", start.Month(), start.Year()),
	}
}

// Biweekly returns the 14-day window beginning on start.
func Biweekly(start time.Time) Period {
	start = Truncate(start)
	end := start.AddDate(0, 0, 13)
	return Period{
		ID:          "biweekly_" + start.Format(idDateLayout),
		Kind:        KindBiweekly,
		Start:       start,
		End:         end,
		DisplayName: fmt.Sprintf("Biweekly %s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006")),
	}
}

// Weekly returns the 7-day window beginning on start.
func Weekly(start time.Time) Period {
	start = Truncate(start)
	return Period{
		ID:          "weekly_" + start.Format(idDateLayout),
		Kind:        KindWeekly,
		Start:       start,
		End:         start.AddDate(0, 0, 6),
		DisplayName: "Week of " + start.Format("Jan 02, 2006"),
	}
}

// Custom builds a caller-defined period. An empty name yields a default
// "Jan 02 - Jan 15, 2025" style label.
func Custom(start, end time.Time, name string) (Period, error) {
	start, end = Truncate(start), Truncate(end)
	if start.After(end) {
		return Period{}, ErrInvalidRange
	}
	if name == "" {
		name = fmt.Sprintf("%s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006"))
	}
	return Period{
		ID:          fmt.Sprintf("custom_%s_%s", start.Format(idDateLayout), end.Format(idDateLayout)),
		Kind:        KindCustom,
		Start:       start,
		End:         end,
		DisplayName: name,
	}, nil
}

// PreviousMonth returns the calendar month immediately before p starts.
func PreviousMonth(p Period) Period {
	prev := Date(p.Start.Year(), p.Start.Month(), 1).AddDate(0, -1, 0)
	return Monthly(prev.Year(), prev.Month())
}

// ParseID rebuilds a period from its identifier. Only canonical ids are
// accepted: the rebuilt period's ID must equal id, so every stored or
// compared id has exactly one spelling.
func ParseID(id string) (Period, error) {
	p, err := parseID(id)
	if err != nil {
		return Period{}, err
	}
	if p.ID != id {
		return Period{}, fmt.Errorf("%w: %q is not canonical, want %q", ErrInvalidID, id, p.ID)
	}
	return p, nil
}

func parseID(id string) (Period, error) {
	kind, rest, ok := strings.Cut(id, "_")
	if !ok {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	switch Kind(kind) {
	case KindMonthly:
		parts := strings.Split(rest, "_")
		if len(parts) != 2 {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
		year, err := strconv.Atoi(parts[0])
		if err != nil {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
		month, err := strconv.Atoi(parts[1])
		if err != nil || month < 1 || month > 12 {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
		return Monthly(year, time.Month(month)), nil

	case KindBiweekly, KindWeekly:
		start, err := time.Parse(idDateLayout, rest)
		if err != nil {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
		if Kind(kind) == KindBiweekly {
			return Biweekly(start), nil
		}
		return Weekly(start), nil

	case KindCustom:
		// custom_YYYY_MM_DD_YYYY_MM_DD
		if len(rest) != 2*len(idDateLayout)+1 {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
		start, err := time.Parse(idDateLayout, rest[:len(idDateLayout)])
		if err != nil {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
		end, err := time.Parse(idDateLayout, rest[len(idDateLayout)+1:])
		if err != nil {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
		return Custom(start, end, "")
	}

	return Period{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
}
