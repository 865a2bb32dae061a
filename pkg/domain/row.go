package domain

import (
	"strings"
)

// Canonical column names, in the order they are written.
const (
	ColumnID          = "transaction_id"
	ColumnDate        = "date"
	ColumnCustomer    = "customer_id"
	ColumnAmount      = "amount"
	ColumnType        = "type"
	ColumnDescription = "description"
)

// AmountPrecision is the number of decimals amounts are written with.
const AmountPrecision = 2

// Columns lists the canonical columns in write order.
var Columns = []string{
	ColumnID,
	ColumnDate,
	ColumnCustomer,
	ColumnAmount,
	ColumnType,
	ColumnDescription,
}

// Row is a raw record as handed over by a store: column name to text.
type Row map[string]string

// Get returns the trimmed value of a column, missing columns read as empty.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// ID returns the trimmed transaction id of the row.
func (r Row) ID() string {
	return r.Get(ColumnID)
}

// Values returns the row's values in canonical column order.
func (r Row) Values() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = r[c]
	}
	return out
}

// Canonical returns a copy of the row holding only the canonical columns.
func (r Row) Canonical() Row {
	out := make(Row, len(Columns))
	for _, c := range Columns {
		out[c] = r[c]
	}
	return out
}

// RowFromValues builds a row from values in canonical column order.
func RowFromValues(values []string) Row {
	r := make(Row, len(Columns))
	for i, c := range Columns {
		if i < len(values) {
			r[c] = values[i]
		} else {
			r[c] = ""
		}
	}
	return r
}
