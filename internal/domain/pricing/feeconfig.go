package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"staymarket/internal/domain/shared/money"
)

var (
	ErrInvalidPercentage = errors.New("pricing: percentage must be between 0 and 100")
	ErrInvalidTaxRate    = errors.New("pricing: tax rate must be between 0 and 1")
	ErrServiceFeeBounds  = errors.New("pricing: service fee minimum cannot exceed maximum")
	ErrNegativeBound     = errors.New("pricing: service fee bounds cannot be negative")
)

// FeeConfig carries the platform fee knobs. The engine takes these as
// inputs instead of burying percentages in call sites, so operators can
// retune fees without a deploy.
type FeeConfig struct {
	ServiceFeePercent  decimal.Decimal
	ServiceFeeMinimum  *decimal.Decimal
	ServiceFeeMaximum  *decimal.Decimal
	CleaningFeePercent decimal.Decimal
	TaxRate            decimal.Decimal
}

func (c FeeConfig) Validate() error {
	if !percentInRange(c.ServiceFeePercent) {
		return ErrInvalidPercentage
	}
	if !percentInRange(c.CleaningFeePercent) {
		return ErrInvalidPercentage
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return ErrInvalidTaxRate
	}
	if c.ServiceFeeMinimum != nil && c.ServiceFeeMinimum.IsNegative() {
		return ErrNegativeBound
	}
	if c.ServiceFeeMaximum != nil && c.ServiceFeeMaximum.IsNegative() {
		return ErrNegativeBound
	}
	if c.ServiceFeeMinimum != nil && c.ServiceFeeMaximum != nil && c.ServiceFeeMinimum.GreaterThan(*c.ServiceFeeMaximum) {
		return ErrServiceFeeBounds
	}
	return nil
}

// ClampServiceFee pins the computed fee inside the configured bounds.
func (c FeeConfig) ClampServiceFee(fee money.Money) money.Money {
	if c.ServiceFeeMinimum != nil && fee.Amount.LessThan(*c.ServiceFeeMinimum) {
		return money.Money{Amount: *c.ServiceFeeMinimum, Currency: fee.Currency}
	}
	if c.ServiceFeeMaximum != nil && fee.Amount.GreaterThan(*c.ServiceFeeMaximum) {
		return money.Money{Amount: *c.ServiceFeeMaximum, Currency: fee.Currency}
	}
	return fee
}

func percentInRange(p decimal.Decimal) bool {
	return !p.IsNegative() && !p.GreaterThan(decimal.NewFromInt(100))
}
