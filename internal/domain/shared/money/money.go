package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCurrency  = errors.New("money: invalid currency code")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
	ErrNegativeAmount   = errors.New("money: amount cannot be negative")
	ErrNegativeFactor   = errors.New("money: factor cannot be negative")
	ErrInvalidDivisor   = errors.New("money: divisor must be positive")
)

// minorUnits is the scale every returned amount is rounded to.
const minorUnits = 2

// Money is an exact decimal amount tied to a 3-letter currency code.
// Amounts are kept as decimals to avoid floating point drift; every value
// handed back to a caller is rounded to the currency minor unit, half away
// from zero.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// New validates raw input and builds a Money value. Negative amounts are
// rejected here; arithmetic results below may still go negative, which is
// deliberate (discount math can exceed the subtotal).
func New(amount decimal.Decimal, currency string) (Money, error) {
	code, err := normalizeCurrency(currency)
	if err != nil {
		return Money{}, err
	}
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{Amount: amount.Round(minorUnits), Currency: code}, nil
}

// Parse builds a Money value from a decimal string such as "100.00".
func Parse(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("money: parse amount %q: %w", amount, err)
	}
	return New(d, currency)
}

// MustParse is Parse that panics; for fixtures and tests.
func MustParse(amount, currency string) Money {
	m, err := Parse(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns the zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: strings.ToUpper(strings.TrimSpace(currency))}
}

// Add returns the sum of two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Add(other.Amount).Round(minorUnits), Currency: m.Currency}, nil
}

// Subtract returns the difference; the result may be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Sub(other.Amount).Round(minorUnits), Currency: m.Currency}, nil
}

// Multiply scales the amount by a non-negative decimal factor.
func (m Money) Multiply(factor decimal.Decimal) (Money, error) {
	if factor.IsNegative() {
		return Money{}, ErrNegativeFactor
	}
	return Money{Amount: m.Amount.Mul(factor).Round(minorUnits), Currency: m.Currency}, nil
}

// MultiplyInt scales the amount by a whole count, e.g. nights.
func (m Money) MultiplyInt(times int64) (Money, error) {
	return m.Multiply(decimal.NewFromInt(times))
}

// Divide splits the amount by a strictly positive divisor.
func (m Money) Divide(divisor decimal.Decimal) (Money, error) {
	if divisor.Sign() <= 0 {
		return Money{}, ErrInvalidDivisor
	}
	return Money{Amount: m.Amount.Div(divisor).Round(minorUnits), Currency: m.Currency}, nil
}

// Percentage returns amount * p / 100. Negative percentages are allowed so
// callers can express a discount as a negative premium.
func (m Money) Percentage(p decimal.Decimal) Money {
	amount := m.Amount.Mul(p).Div(decimal.NewFromInt(100))
	return Money{Amount: amount.Round(minorUnits), Currency: m.Currency}
}

// Negate flips the sign preserving currency.
func (m Money) Negate() Money {
	return Money{Amount: m.Amount.Neg(), Currency: m.Currency}
}

// GreaterThan reports m > other for matching currencies.
func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return false, err
	}
	return m.Amount.GreaterThan(other.Amount), nil
}

// LessThan reports m < other for matching currencies.
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return false, err
	}
	return m.Amount.LessThan(other.Amount), nil
}

// Equal reports value equality; amounts in different currencies are never equal.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Amount.StringFixed(minorUnits))
}

func (m Money) ensureSameCurrency(other Money) error {
	if m.Currency == "" || other.Currency == "" {
		return ErrInvalidCurrency
	}
	if m.Currency != other.Currency {
		return ErrCurrencyMismatch
	}
	return nil
}

func normalizeCurrency(currency string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if len(code) != 3 {
		return "", ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", ErrInvalidCurrency
		}
	}
	return code, nil
}
