package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Type is the kind of a transaction as written in the type column.
type Type string

const (
	Credit   Type = "credit"
	Debit    Type = "debit"
	Transfer Type = "transfer"
)

// DefaultCustomer stands in for a missing customer id.
const DefaultCustomer = "N/A"

// ParseType lower cases & trims a raw type value. Anything is accepted,
// use Known to tell whether we understand it.
func ParseType(s string) Type {
	return Type(strings.ToLower(strings.TrimSpace(s)))
}

// Known returns if the type is one of credit, debit or transfer.
func (t Type) Known() bool {
	switch t {
	case Credit, Debit, Transfer:
		return true
	}
	return false
}

func (t Type) String() string {
	return string(t)
}

// Signed applies the sign convention for this type to the given amount.
// Debits are always stored negative, everything else keeps the sign it came with.
func (t Type) Signed(amount decimal.Decimal) decimal.Decimal {
	if t == Debit {
		return amount.Abs().Neg()
	}
	return amount
}

type Transaction struct {
	ID string `json:"transaction_id"`

	Date       Date   `json:"date"`
	CustomerID string `json:"customer_id"`

	Amount      decimal.Decimal `json:"amount"`
	Type        Type            `json:"type"`
	Description string          `json:"description"`
}

func (t *Transaction) JSON() ([]byte, error) {
	return json.Marshal(t)
}

// Copy returns a detached copy of the transaction.
func (t *Transaction) Copy() *Transaction {
	c := *t
	return &c
}

// Row renders the transaction with the canonical columns.
func (t *Transaction) Row() Row {
	return Row{
		ColumnID:          t.ID,
		ColumnDate:        t.Date.String(),
		ColumnCustomer:    t.CustomerID,
		ColumnAmount:      t.Amount.StringFixed(AmountPrecision),
		ColumnType:        t.Type.String(),
		ColumnDescription: t.Description,
	}
}
