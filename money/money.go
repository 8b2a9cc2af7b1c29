package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// ErrInvalidCurrency is returned for codes that are not ISO 4217
var ErrInvalidCurrency = errors.New("invalid currency")

/* Amount is a monetary value in minor units (cents)
 * The currency is optional: gateways that do not report one still
 * produce a usable amount
 */
type Amount struct {
	cents    int64
	currency currency.Unit
	hasUnit  bool
}

// New creates an amount in the given ISO 4217 currency
func New(cents int64, code string) (Amount, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q: %v", ErrInvalidCurrency, code, err)
	}
	return Amount{cents: cents, currency: unit, hasUnit: true}, nil
}

// NewWithoutCurrency creates an amount with no currency attached
func NewWithoutCurrency(cents int64) Amount {
	return Amount{cents: cents}
}

// Cents returns the amount in minor units
func (a Amount) Cents() int64 {
	return a.cents
}

// HasCurrency reports whether a currency is attached
func (a Amount) HasCurrency() bool {
	return a.hasUnit
}

// Currency returns the ISO code, or "" when there is none
func (a Amount) Currency() string {
	if !a.hasUnit {
		return ""
	}
	return a.currency.String()
}

// Decimal returns the amount in major units
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(a.cents, -2)
}

// String formats the amount as "19.99 USD", or "19.99" without a currency
func (a Amount) String() string {
	s := a.Decimal().StringFixed(2)
	if !a.hasUnit {
		return s
	}
	return s + " " + a.Currency()
}
