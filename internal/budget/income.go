package budget

import (
	"encoding/json"
	"fmt"
)

// ViewMode selects which income denominator allocations are evaluated against.
type ViewMode string

const (
	ViewMonthly        ViewMode = "monthly"
	ViewFirstPaycheck  ViewMode = "first_paycheck"
	ViewSecondPaycheck ViewMode = "second_paycheck"
)

// Valid reports whether v is a known view mode.
func (v ViewMode) Valid() bool {
	switch v {
	case ViewMonthly, ViewFirstPaycheck, ViewSecondPaycheck:
		return true
	}
	return false
}

// Label returns the human readable name used in exports.
func (v ViewMode) Label() string {
	switch v {
	case ViewFirstPaycheck:
		return "First Paycheck"
	case ViewSecondPaycheck:
		return "Second Paycheck"
	default:
		return "Monthly"
	}
}

// PerPaycheck reports whether the view covers a single paycheck.
func (v ViewMode) PerPaycheck() bool {
	return v == ViewFirstPaycheck || v == ViewSecondPaycheck
}

type incomeKind uint8

const (
	incomeMonthly incomeKind = iota
	incomeSplit
)

// Income is either a single monthly figure or a pair of paychecks.
// The zero value is a monthly income of zero.
type Income struct {
	kind   incomeKind
	amount float64
	first  float64
	second float64
}

// MonthlyIncome returns an income described by one monthly amount.
func MonthlyIncome(amount float64) Income {
	return Income{kind: incomeMonthly, amount: amount}
}

// SplitPaycheck returns an income made of two paychecks per month.
func SplitPaycheck(first, second float64) Income {
	return Income{kind: incomeSplit, first: first, second: second}
}

// IsSplit reports whether the income was given as two paychecks.
func (i Income) IsSplit() bool { return i.kind == incomeSplit }

// Monthly returns the total for the month.
func (i Income) Monthly() float64 {
	if i.kind == incomeSplit {
		return i.first + i.second
	}
	return i.amount
}

// First returns the first paycheck. A monthly income counts as two equal halves.
func (i Income) First() float64 {
	if i.kind == incomeSplit {
		return i.first
	}
	return i.amount / 2
}

// Second returns the second paycheck. A monthly income counts as two equal halves.
func (i Income) Second() float64 {
	if i.kind == incomeSplit {
		return i.second
	}
	return i.amount / 2
}

// For returns the income figure relevant to the view.
func (i Income) For(view ViewMode) float64 {
	switch view {
	case ViewFirstPaycheck:
		return i.First()
	case ViewSecondPaycheck:
		return i.Second()
	default:
		return i.Monthly()
	}
}

// String implements fmt.Stringer.
func (i Income) String() string {
	if i.kind == incomeSplit {
		return fmt.Sprintf("split(%.2f, %.2f)", i.first, i.second)
	}
	return fmt.Sprintf("monthly(%.2f)", i.amount)
}

type incomeJSON struct {
	Type           string   `json:"type"`
	Amount         *float64 `json:"amount,omitempty"`
	FirstPaycheck  *float64 `json:"first_paycheck,omitempty"`
	SecondPaycheck *float64 `json:"second_paycheck,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (i Income) MarshalJSON() ([]byte, error) {
	if i.kind == incomeSplit {
		return json.Marshal(incomeJSON{Type: "split", FirstPaycheck: &i.first, SecondPaycheck: &i.second})
	}
	return json.Marshal(incomeJSON{Type: "monthly", Amount: &i.amount})
}

// UnmarshalJSON implements json.Unmarshaler. A payload without a type but
// with paycheck fields is read as a split income.
func (i *Income) UnmarshalJSON(data []byte) error {
	var raw incomeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Type {
	case "split", "":
		if raw.FirstPaycheck != nil || raw.SecondPaycheck != nil {
			*i = SplitPaycheck(deref(raw.FirstPaycheck), deref(raw.SecondPaycheck))
			return nil
		}
		if raw.Type == "split" {
			*i = SplitPaycheck(0, 0)
			return nil
		}
		*i = MonthlyIncome(deref(raw.Amount))
		return nil
	case "monthly":
		*i = MonthlyIncome(deref(raw.Amount))
		return nil
	}
	return fmt.Errorf("unknown income type %q", raw.Type)
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
