// Package row holds the timesheet row shape shared by every import format,
// along with the header and usability rules applied to it.
package row

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Required header names. AMOUNT is accepted but never trusted: item amounts are
// always recomputed from hours and rate.
const (
	ColDate        = "DATE"
	ColDescription = "DESCRIPTION"
	ColHours       = "HOURS"
	ColRate        = "RATE"
	ColAmount      = "AMOUNT"
)

// RequiredColumns is the header set every import file must carry, in reporting order.
var RequiredColumns = []string{ColDate, ColDescription, ColHours, ColRate, ColAmount}

// Row is one parsed line of an import file.
type Row struct {
	Date        string
	Description string
	Hours       decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// Usable reports whether the row can become an invoice item.
func (r Row) Usable() bool {
	return r.Description != "" && r.Hours.IsPositive() && r.Rate.IsPositive()
}

// MissingHeaderError is returned when the header row lacks required columns.
type MissingHeaderError struct {
	Missing []string
}

func (e *MissingHeaderError) Error() string {
	return fmt.Sprintf("missing required headers: %s", strings.Join(e.Missing, ", "))
}

// Columns maps a required column name to its index in a data row.
type Columns map[string]int

// MapHeader locates every required column in the header cells.
// Matching ignores surrounding whitespace and case. The first occurrence wins.
func MapHeader(header []string) (Columns, error) {
	cols := make(Columns, len(RequiredColumns))

	for i, cell := range header {
		name := strings.ToUpper(strings.TrimSpace(cell))
		if _, seen := cols[name]; seen || name == "" {
			continue
		}

		cols[name] = i
	}

	var missing []string

	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingHeaderError{Missing: missing}
	}

	return cols, nil
}

// Build turns raw cells into a Row. Missing cells are empty, bad numbers are zero.
func (c Columns) Build(cells []string) Row {
	return Row{
		Date:        c.cell(cells, ColDate),
		Description: c.cell(cells, ColDescription),
		Hours:       parseNumber(c.cell(cells, ColHours)),
		Rate:        parseNumber(c.cell(cells, ColRate)),
		Amount:      parseNumber(c.cell(cells, ColAmount)),
	}
}

func (c Columns) cell(cells []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(cells) {
		return ""
	}

	return strings.TrimSpace(cells[idx])
}

// Collect builds every data row and keeps only the usable ones.
func (c Columns) Collect(records [][]string) []Row {
	var rows []Row

	for _, rec := range records {
		if blank(rec) {
			continue
		}

		r := c.Build(rec)
		if !r.Usable() {
			continue
		}

		rows = append(rows, r)
	}

	return rows
}

// HeaderIndex returns the index of the first non-blank record, or -1.
func HeaderIndex(records [][]string) int {
	for i, rec := range records {
		if !blank(rec) {
			return i
		}
	}

	return -1
}

func parseNumber(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}

func blank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
