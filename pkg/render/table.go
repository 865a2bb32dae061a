// Package render projects transactions into a fixed width text table.
// Values are only cut down for display, never in the ledger.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/voidshard/tally/pkg/domain"
)

const (
	separator = " | "
	ellipsis  = "..."
	missing   = "N/A"
)

type column struct {
	title string
	width int
	value func(*domain.Transaction) string
}

var columns = []column{
	{"ID", 6, func(t *domain.Transaction) string { return t.ID }},
	{"Date", 12, func(t *domain.Transaction) string {
		if t.Date.IsMissing() {
			return missing
		}
		return t.Date.String()
	}},
	{"Customer", 10, func(t *domain.Transaction) string { return t.CustomerID }},
	{"Amount", 12, func(t *domain.Transaction) string { return t.Amount.StringFixed(domain.AmountPrecision) }},
	{"Type", 10, func(t *domain.Transaction) string { return t.Type.String() }},
	{"Description", 40, func(t *domain.Transaction) string { return t.Description }},
}

// Truncate cuts s down to width characters, ending in "..." when it had to
// cut anything.
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= len(ellipsis) {
		return string(r[:width])
	}
	return string(r[:width-len(ellipsis)]) + ellipsis
}

func pad(s string, width int) string {
	s = Truncate(s, width)
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// Table writes a header, a rule and one line per transaction.
func Table(w io.Writer, txns []*domain.Transaction) error {
	if len(txns) == 0 {
		_, err := fmt.Fprintln(w, "No transactions to display.")
		return err
	}

	header := make([]string, len(columns))
	rule := make([]string, len(columns))
	for i, c := range columns {
		header[i] = pad(c.title, c.width)
		rule[i] = strings.Repeat("-", c.width)
	}

	bold := color.New(color.Bold)
	_, err := bold.Fprintln(w, strings.Join(header, separator))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, strings.Join(rule, separator))
	if err != nil {
		return err
	}

	for _, t := range txns {
		_, err = fmt.Fprintln(w, Line(t))
		if err != nil {
			return err
		}
	}
	return nil
}

// Line renders a single transaction as a table line.
func Line(t *domain.Transaction) string {
	cells := make([]string, len(columns))
	for i, c := range columns {
		cells[i] = pad(c.value(t), c.width)
	}
	return strings.Join(cells, separator)
}

// Details renders one transaction field by field, without truncation.
func Details(w io.Writer, t *domain.Transaction) error {
	date := t.Date.String()
	if t.Date.IsMissing() {
		date = missing
	}
	_, err := fmt.Fprintf(
		w,
		"- Transaction ID: %s\n- Date: %s\n- Customer ID: %s\n- Amount: %s\n- Type: %s\n- Description: %s\n",
		t.ID, date, t.CustomerID, t.Amount.StringFixed(domain.AmountPrecision), t.Type, t.Description,
	)
	return err
}
