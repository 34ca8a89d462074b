package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const dbTimeout = 5 * time.Second

// FormatMoney renders an amount with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return "-"
	}

	return FormatDate(*t)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}

func successStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(s)
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}

	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return errInvalidDate
	}

	return nil
}

func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}

	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}

	return &d
}
