// Package ingest turns raw rows into typed transactions.
//
// Field level problems (a bad date, an unreadable amount) never fail a batch:
// the field falls back to a default and a diagnostic is recorded.
package ingest

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/voidshard/tally/pkg/diag"
	"github.com/voidshard/tally/pkg/domain"
)

type Options struct {
	// Strict drops rows whose date cannot be read instead of keeping them
	// with a missing date.
	Strict bool
}

type Result struct {
	Transactions []*domain.Transaction
	Diagnostics  []diag.Diagnostic

	// Skipped holds the ids of rows that were left out, in order
	Skipped []string
}

// Normalize converts rows, in order, into transactions.
func Normalize(rows []domain.Row, opts Options) *Result {
	res := &Result{
		Transactions: []*domain.Transaction{},
		Diagnostics:  []diag.Diagnostic{},
		Skipped:      []string{},
	}
	seen := map[string]bool{}

	for _, row := range rows {
		tx, diags, keep := normalizeRow(row, opts)
		res.Diagnostics = append(res.Diagnostics, diags...)
		if !keep {
			if tx.ID != "" {
				res.Skipped = append(res.Skipped, tx.ID)
			}
			continue
		}

		if tx.ID != "" {
			if seen[tx.ID] {
				res.Diagnostics = append(res.Diagnostics, diag.Errorf(tx.ID, "duplicate transaction id, row skipped"))
				res.Skipped = append(res.Skipped, tx.ID)
				continue
			}
			seen[tx.ID] = true
		}

		res.Transactions = append(res.Transactions, tx)
	}

	return res
}

func normalizeRow(row domain.Row, opts Options) (*domain.Transaction, []diag.Diagnostic, bool) {
	diags := []diag.Diagnostic{}
	id := row.ID()

	tx := &domain.Transaction{
		ID:          id,
		CustomerID:  row.Get(domain.ColumnCustomer),
		Type:        domain.ParseType(row[domain.ColumnType]),
		Description: row.Get(domain.ColumnDescription),
	}
	if tx.CustomerID == "" {
		tx.CustomerID = domain.DefaultCustomer
	}

	raw := row.Get(domain.ColumnDate)
	date, ok := domain.ParseDate(raw)
	if !ok {
		if opts.Strict {
			diags = append(diags, diag.Errorf(id, "invalid date format %q, row skipped", raw))
			return tx, diags, false
		}
		diags = append(diags, diag.Warnf(id, "invalid date format %q, date marked missing", raw))
	}
	tx.Date = date

	amount, d := parseAmount(id, row.Get(domain.ColumnAmount))
	if d != nil {
		diags = append(diags, *d)
	}
	tx.Amount = tx.Type.Signed(amount)

	if tx.Type != "" && !tx.Type.Known() {
		diags = append(diags, diag.Warnf(id, "unrecognized type %q, amount kept as is", tx.Type))
	}

	return tx, diags, true
}

// parseAmount reads an amount, falling back to zero. Empty is a warning,
// anything else unreadable is an error.
func parseAmount(id, raw string) (decimal.Decimal, *diag.Diagnostic) {
	if raw == "" {
		d := diag.Warnf(id, "empty amount, using 0.00")
		return decimal.Zero, &d
	}
	amount, err := domain.ParseAmount(raw)
	if errors.Is(err, domain.ErrAmountRange) {
		d := diag.Errorf(id, "amount %q out of range, using 0.00", raw)
		return decimal.Zero, &d
	} else if err != nil {
		d := diag.Errorf(id, "could not convert amount %q to a number, using 0.00", raw)
		return decimal.Zero, &d
	}
	return amount, nil
}
