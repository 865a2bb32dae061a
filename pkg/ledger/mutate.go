package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/voidshard/tally/pkg/domain"
)

// AddRequest holds user supplied values for a new transaction.
type AddRequest struct {
	// Date in YYYY-MM-DD, nothing else is accepted here
	Date        string
	CustomerID  string
	Amount      string
	Type        string
	Description string
}

// UpdateRequest lists the fields that may change on an existing
// transaction. Nil fields are left alone.
type UpdateRequest struct {
	Description *string
	Type        *string
	Amount      *string
}

// Add validates the request & appends a new transaction with a fresh id.
// Nothing changes if validation fails.
func (l *Ledger) Add(req AddRequest) (*domain.Transaction, error) {
	if !l.loaded {
		return nil, ErrNotLoaded
	}

	date, ok := domain.ParseCanonicalDate(strings.TrimSpace(req.Date))
	if !ok {
		return nil, invalid("date", "%q is not in YYYY-MM-DD format", req.Date)
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	typ, err := parseType(req.Type)
	if err != nil {
		return nil, err
	}

	desc := strings.TrimSpace(req.Description)
	if desc == "" && l.opts.RequireDescription {
		return nil, invalid("description", "cannot be empty")
	}

	customer := strings.TrimSpace(req.CustomerID)
	if customer == "" {
		customer = domain.DefaultCustomer
	}

	tx := &domain.Transaction{
		ID:          l.nextID(),
		Date:        date,
		CustomerID:  customer,
		Amount:      typ.Signed(amount),
		Type:        typ,
		Description: desc,
	}

	l.transactions = append(l.transactions, tx)
	delete(l.deleted, tx.ID)

	l.opts.Log.Info("transaction added", "id", tx.ID, "amount", tx.Amount.StringFixed(domain.AmountPrecision), "type", tx.Type)
	return tx.Copy(), nil
}

// Update changes the description, type and/or amount of a transaction.
//
// Changing the type to or from debit flips the stored amount to keep debits
// negative. A new amount follows the sign convention of the (new) type.
func (l *Ledger) Update(id string, req UpdateRequest) (*domain.Transaction, error) {
	if !l.loaded {
		return nil, ErrNotLoaded
	}
	if req.Description == nil && req.Type == nil && req.Amount == nil {
		return nil, invalid("update", "nothing to change")
	}

	i := l.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	tx := l.transactions[i]

	// validate everything before touching anything
	newType := tx.Type
	if req.Type != nil {
		t, err := parseType(*req.Type)
		if err != nil {
			return nil, err
		}
		newType = t
	}

	var newAmount *decimal.Decimal
	if req.Amount != nil {
		a, err := parseAmount(*req.Amount)
		if err != nil {
			return nil, err
		}
		newAmount = &a
	}

	if newType != tx.Type && (newType == domain.Debit || tx.Type == domain.Debit) {
		tx.Amount = newType.Signed(tx.Amount.Abs())
	}
	tx.Type = newType

	if newAmount != nil {
		tx.Amount = tx.Type.Signed(*newAmount)
	}

	if req.Description != nil {
		tx.Description = strings.TrimSpace(*req.Description)
	}

	l.opts.Log.Info("transaction updated", "id", tx.ID)
	return tx.Copy(), nil
}

// Delete removes the transaction with the given id, if the caller confirmed
// the deletion. Returns if a transaction was removed.
func (l *Ledger) Delete(id string, confirmed bool) (bool, error) {
	if !l.loaded {
		return false, ErrNotLoaded
	}

	i := l.index(id)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !confirmed {
		return false, nil
	}

	l.transactions = slices.Delete(l.transactions, i, i+1)
	if id != "" {
		l.deleted[id] = true
	}

	l.opts.Log.Info("transaction deleted", "id", id)
	return true, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, invalid("amount", "cannot be empty")
	}
	amount, err := domain.ParseAmount(s)
	if errors.Is(err, domain.ErrAmountRange) {
		return decimal.Zero, invalid("amount", "%q is out of range", s)
	} else if err != nil {
		return decimal.Zero, invalid("amount", "%q is not a number", s)
	}
	return amount, nil
}

func parseType(s string) (domain.Type, error) {
	t := domain.ParseType(s)
	if t == "" {
		return t, invalid("type", "cannot be empty")
	}
	if !t.Known() {
		return t, invalid("type", "%q is not one of credit, debit or transfer", t)
	}
	return t, nil
}
