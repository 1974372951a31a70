package pricing

import (
	"staymarket/internal/domain/accommodation"
	"staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/money"
)

// Quote is the checkout-time price sheet for a prospective stay.
type Quote struct {
	Nights      int
	Nightly     money.Money
	Subtotal    money.Money
	ServiceFee  money.Money
	CleaningFee money.Money
	Tax         money.Money
	Discount    money.Money
	Total       money.Money
}

// BuildQuote composes the full checkout quote: subtotal (base + guest
// surcharge + seasonal adjustment), the configured fees with service-fee
// bounds applied, tax on subtotal plus service fee, and a zero discount
// slot that promotion flows may fill before the final price is computed.
func BuildQuote(cfg FeeConfig, policy accommodation.Policy, dr daterange.DateRange, guests int) (Quote, error) {
	if err := cfg.Validate(); err != nil {
		return Quote{}, err
	}
	subtotal, err := CalculateTotalPrice(policy, dr, guests)
	if err != nil {
		return Quote{}, err
	}

	serviceFee, err := CalculateServiceFee(subtotal, cfg.ServiceFeePercent)
	if err != nil {
		return Quote{}, err
	}
	serviceFee = cfg.ClampServiceFee(serviceFee)

	cleaningFee, err := CalculateServiceFee(subtotal, cfg.CleaningFeePercent)
	if err != nil {
		return Quote{}, err
	}

	taxable, err := subtotal.Add(serviceFee)
	if err != nil {
		return Quote{}, err
	}
	tax, err := CalculateTax(taxable, cfg.TaxRate)
	if err != nil {
		return Quote{}, err
	}

	discount := money.Zero(subtotal.Currency)
	total, err := CalculateFinalPrice(subtotal, serviceFee, cleaningFee, tax, discount)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Nights:      dr.Nights(),
		Nightly:     policy.BasePricePerNight,
		Subtotal:    subtotal,
		ServiceFee:  serviceFee,
		CleaningFee: cleaningFee,
		Tax:         tax,
		Discount:    discount,
		Total:       total,
	}, nil
}

// ApplyDiscount recomputes the quote total with the given discount amount.
func (q Quote) ApplyDiscount(discount money.Money) (Quote, error) {
	total, err := CalculateFinalPrice(q.Subtotal, q.ServiceFee, q.CleaningFee, q.Tax, discount)
	if err != nil {
		return Quote{}, err
	}
	q.Discount = discount
	q.Total = total
	return q, nil
}
