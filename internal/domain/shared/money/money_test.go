package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		wantErr  error
	}{
		{name: "valid amount", amount: "100.00", currency: "EUR"},
		{name: "lowercase currency normalized", amount: "10", currency: "usd"},
		{name: "currency with whitespace", amount: "10", currency: " EUR "},
		{name: "negative amount rejected", amount: "-1.00", currency: "EUR", wantErr: ErrNegativeAmount},
		{name: "two letter currency rejected", amount: "10", currency: "EU", wantErr: ErrInvalidCurrency},
		{name: "four letter currency rejected", amount: "10", currency: "EURO", wantErr: ErrInvalidCurrency},
		{name: "digits in currency rejected", amount: "10", currency: "E1R", wantErr: ErrInvalidCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(decimal.RequireFromString(tt.amount), tt.currency)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && m.Currency != "EUR" && m.Currency != "USD" {
				t.Errorf("New() currency = %q, expected normalized code", m.Currency)
			}
		})
	}
}

func TestNew_RoundsToMinorUnits(t *testing.T) {
	m, err := New(decimal.RequireFromString("10.005"), "EUR")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := m.Amount.StringFixed(2); got != "10.01" {
		t.Errorf("New() amount = %s, want 10.01", got)
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse("not-a-number", "EUR"); err == nil {
		t.Error("Parse() expected error for malformed amount")
	}
	m, err := Parse("129.99", "EUR")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if m.String() != "EUR 129.99" {
		t.Errorf("Parse() = %s, want EUR 129.99", m.String())
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	a := MustParse("100.00", "EUR")
	b := MustParse("40.50", "EUR")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !sum.Equal(MustParse("140.50", "EUR")) {
		t.Errorf("Add() = %s, want EUR 140.50", sum)
	}

	diff, err := b.Subtract(a)
	if err != nil {
		t.Fatalf("Subtract() error = %v", err)
	}
	if !diff.IsNegative() {
		t.Errorf("Subtract() = %s, want a negative result", diff)
	}
	if got := diff.Amount.StringFixed(2); got != "-59.50" {
		t.Errorf("Subtract() = %s, want -59.50", got)
	}

	scaled, err := a.MultiplyInt(3)
	if err != nil {
		t.Fatalf("MultiplyInt() error = %v", err)
	}
	if !scaled.Equal(MustParse("300.00", "EUR")) {
		t.Errorf("MultiplyInt() = %s, want EUR 300.00", scaled)
	}

	half, err := a.Divide(decimal.NewFromInt(3))
	if err != nil {
		t.Fatalf("Divide() error = %v", err)
	}
	if got := half.Amount.StringFixed(2); got != "33.33" {
		t.Errorf("Divide() = %s, want 33.33", got)
	}
}

func TestMoney_ArithmeticErrors(t *testing.T) {
	eur := MustParse("10.00", "EUR")
	usd := MustParse("10.00", "USD")

	if _, err := eur.Add(usd); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Add() mixed currencies error = %v, want ErrCurrencyMismatch", err)
	}
	if _, err := eur.Subtract(usd); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Subtract() mixed currencies error = %v, want ErrCurrencyMismatch", err)
	}
	if _, err := eur.Multiply(decimal.NewFromInt(-2)); !errors.Is(err, ErrNegativeFactor) {
		t.Errorf("Multiply() negative factor error = %v, want ErrNegativeFactor", err)
	}
	if _, err := eur.Divide(decimal.Zero); !errors.Is(err, ErrInvalidDivisor) {
		t.Errorf("Divide() by zero error = %v, want ErrInvalidDivisor", err)
	}
	if _, err := eur.GreaterThan(usd); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("GreaterThan() mixed currencies error = %v, want ErrCurrencyMismatch", err)
	}
}

func TestMoney_Percentage(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		percent int64
		want    string
	}{
		{name: "ten percent", amount: "200.00", percent: 10, want: "20.00"},
		{name: "rounds half away from zero", amount: "100.05", percent: 10, want: "10.01"},
		{name: "negative percent allowed", amount: "100.00", percent: -10, want: "-10.00"},
		{name: "zero percent", amount: "100.00", percent: 0, want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MustParse(tt.amount, "EUR")
			got := m.Percentage(decimal.NewFromInt(tt.percent))
			if got.Amount.StringFixed(2) != tt.want {
				t.Errorf("Percentage(%d) = %s, want %s", tt.percent, got.Amount.StringFixed(2), tt.want)
			}
		})
	}
}

func TestMoney_Comparisons(t *testing.T) {
	small := MustParse("10.00", "EUR")
	big := MustParse("20.00", "EUR")

	gt, err := big.GreaterThan(small)
	if err != nil || !gt {
		t.Errorf("GreaterThan() = %v, %v; want true, nil", gt, err)
	}
	lt, err := small.LessThan(big)
	if err != nil || !lt {
		t.Errorf("LessThan() = %v, %v; want true, nil", lt, err)
	}
	if small.Equal(big) {
		t.Error("Equal() reported different amounts as equal")
	}
	if MustParse("10.00", "EUR").Equal(MustParse("10.00", "USD")) {
		t.Error("Equal() reported different currencies as equal")
	}
	if !Zero("EUR").IsZero() {
		t.Error("Zero() is not zero")
	}
	if !small.Negate().IsNegative() {
		t.Error("Negate() did not flip the sign")
	}
}
