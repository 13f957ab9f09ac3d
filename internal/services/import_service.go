package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"budgetex/internal/budget"
	apperrors "budgetex/internal/errors"
)

// maxNameDistance is the largest edit distance, relative to the longer name,
// at which a file's category name still matches a scenario category.
const maxNameDistance = 0.4

// importService reads spending from CSV files. It accepts the export format
// or plain "category,amount" rows.
type importService struct{}

// NewImportService creates a new ImportServicer.
func NewImportService() ImportServicer {
	return &importService{}
}

// ParseSpending reads r and returns spending per scenario category. Names
// that differ slightly from a category are matched to the closest one.
// Amounts for the same category are summed.
func (s *importService) ParseSpending(scenario *budget.Scenario, r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
	if len(records) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "CSV file is empty")
	}

	nameCol, amountCol, body := 0, 1, records
	if cols, ok := exportColumns(records[0]); ok {
		nameCol, amountCol, body = cols[0], cols[1], records[1:]
	} else if _, err := parseAmount(field(records[0], 1)); err != nil {
		body = records[1:]
	}

	result := &ImportResult{
		Spending:    make(map[string]float64),
		Corrections: make(map[string]string),
	}
	unmatched := make(map[string]struct{})
	for i, row := range body {
		raw := strings.TrimSpace(field(row, nameCol))
		if raw == "" {
			continue
		}
		amount, err := parseAmount(field(row, amountCol))
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
				fmt.Sprintf("row %d: invalid amount %q", i+1, field(row, amountCol)))
		}

		name, ok := matchCategory(scenario, raw)
		if !ok {
			if _, seen := unmatched[raw]; !seen {
				unmatched[raw] = struct{}{}
				result.Unmatched = append(result.Unmatched, raw)
			}
			continue
		}
		if name != raw {
			result.Corrections[raw] = name
		}
		result.Spending[name] += amount
	}
	return result, nil
}

// exportColumns finds the category and actual columns of an export header.
func exportColumns(header []string) ([2]int, bool) {
	cols := [2]int{-1, -1}
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "Category":
			cols[0] = i
		case "Actual Spent":
			cols[1] = i
		}
	}
	return cols, cols[0] >= 0 && cols[1] >= 0
}

// matchCategory returns the scenario category closest to raw.
func matchCategory(scenario *budget.Scenario, raw string) (string, bool) {
	if _, ok := scenario.Category(raw); ok {
		return raw, true
	}

	best, bestScore := "", maxNameDistance
	needle := strings.ToUpper(raw)
	for _, name := range scenario.Names() {
		candidate := strings.ToUpper(name)
		if candidate == needle {
			return name, true
		}
		longest := len(candidate)
		if len(needle) > longest {
			longest = len(needle)
		}
		score := float64(levenshtein.ComputeDistance(needle, candidate)) / float64(longest)
		if score < bestScore {
			best, bestScore = name, score
		}
	}
	return best, best != ""
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, errors.New("empty amount")
	}
	return strconv.ParseFloat(s, 64)
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
