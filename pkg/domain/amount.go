package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmountExponent bounds the exponent of an amount as parsed, so "1e999999999"
// can't grow into a number with a billion digits when written out.
const maxAmountExponent = 18

var (
	ErrAmountSyntax = errors.New("not a number")
	ErrAmountRange  = errors.New("out of range")
)

// ParseAmount reads a decimal amount and rounds it to AmountPrecision, the
// precision it will be written with, so a value reads back as it was held.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrAmountSyntax, s)
	}

	exp := amount.Exponent()
	if exp > maxAmountExponent || exp < -maxAmountExponent {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrAmountRange, s)
	}

	return amount.Round(AmountPrecision), nil
}
