package budget

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ExportHeader is the first row of every CSV export.
var ExportHeader = []string{
	"View Mode", "First Paycheck", "Second Paycheck", "Scenario", "Category",
	"Percentage", "Budgeted Amount", "Actual Spent", "Difference", "Status",
}

// ExportRows renders results as CSV rows, header first.
func (c *Calculator) ExportRows(results []CategoryResult, income Income, view ViewMode) [][]string {
	rows := make([][]string, 0, len(results)+1)
	rows = append(rows, ExportHeader)
	for _, r := range results {
		rows = append(rows, []string{
			view.Label(),
			fmt.Sprintf("%.2f", income.First()),
			fmt.Sprintf("%.2f", income.Second()),
			c.scenario.name,
			r.Name,
			fmt.Sprintf("%.1f%%", r.Percentage),
			fmt.Sprintf("%.2f", r.Budgeted),
			fmt.Sprintf("%.2f", r.Actual),
			fmt.Sprintf("%.2f", r.Difference),
			string(r.Status),
		})
	}
	return rows
}

// WriteCSV writes rows to w.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
