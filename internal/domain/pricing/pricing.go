package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"staymarket/internal/domain/accommodation"
	"staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/money"
)

var (
	ErrInvalidGuests           = errors.New("pricing: guests must be positive")
	ErrGuestsExceedCapacity    = errors.New("pricing: guests exceed maximum capacity")
	ErrInvalidNights           = errors.New("pricing: nights must be positive")
	ErrNegativeDiscountValue   = errors.New("pricing: fixed discount amount cannot be negative")
	ErrUnknownDiscountKind     = errors.New("pricing: unknown discount kind")
	ErrUnknownCancellationPlan = errors.New("pricing: unknown cancellation policy")
)

// DiscountKind selects the discount formula in CalculateDiscount.
type DiscountKind string

const (
	DiscountPercentage  DiscountKind = "PERCENTAGE"
	DiscountFixedAmount DiscountKind = "FIXED_AMOUNT"
	DiscountLongStay    DiscountKind = "LONG_STAY"
	DiscountEarlyBird   DiscountKind = "EARLY_BIRD"
)

// Engine tier constants. These are part of the pricing algorithm itself;
// operator-tunable fees live in FeeConfig instead.
var (
	extraGuestPercent    = decimal.NewFromInt(10)
	peakSeasonPercent    = decimal.NewFromInt(20)
	offPeakSeasonPercent = decimal.NewFromInt(-10)
	longStayHighPercent  = decimal.NewFromInt(10)
	longStayLowPercent   = decimal.NewFromInt(5)
	earlyBirdHighPercent = decimal.NewFromInt(10)
	earlyBirdLowPercent  = decimal.NewFromInt(5)
	halfRefundPercent    = decimal.NewFromInt(50)
	cleaningFeePercent   = decimal.NewFromInt(10)
	guestsIncludedInBase = 2
)

// CalculateTotalPrice returns the stay subtotal: base price for the nights
// plus the extra-guest surcharge plus the seasonal adjustment. Fees, tax
// and discounts are layered on separately.
func CalculateTotalPrice(policy accommodation.Policy, dr daterange.DateRange, guests int) (money.Money, error) {
	if err := dr.Validate(); err != nil {
		return money.Money{}, err
	}
	if guests <= 0 {
		return money.Money{}, ErrInvalidGuests
	}
	if guests > policy.MaxGuests {
		return money.Money{}, ErrGuestsExceedCapacity
	}

	nightly := policy.BasePricePerNight
	totalBase, err := nightly.MultiplyInt(int64(dr.Nights()))
	if err != nil {
		return money.Money{}, err
	}

	subtotal, err := totalBase.Add(guestSurcharge(nightly, guests))
	if err != nil {
		return money.Money{}, err
	}
	return subtotal.Add(seasonalAdjustment(totalBase, dr.CheckIn))
}

// guestSurcharge adds 10% of the nightly rate per guest beyond the two
// included in the base price.
func guestSurcharge(nightly money.Money, guests int) money.Money {
	extra := guests - guestsIncludedInBase
	if extra <= 0 {
		return money.Zero(nightly.Currency)
	}
	return nightly.Percentage(extraGuestPercent.Mul(decimal.NewFromInt(int64(extra))))
}

// seasonalAdjustment prices the check-in month only: +20% of the base for
// June-August, -10% for November-February. Stays straddling a season
// boundary are not pro-rated; this mirrors the documented source behavior.
func seasonalAdjustment(totalBase money.Money, checkIn time.Time) money.Money {
	switch checkIn.UTC().Month() {
	case time.June, time.July, time.August:
		return totalBase.Percentage(peakSeasonPercent)
	case time.November, time.December, time.January, time.February:
		return totalBase.Percentage(offPeakSeasonPercent)
	default:
		return money.Zero(totalBase.Currency)
	}
}

// CalculateServiceFee charges the platform commission as a percentage of
// the total, percent in [0, 100].
func CalculateServiceFee(total money.Money, percent decimal.Decimal) (money.Money, error) {
	if !percentInRange(percent) {
		return money.Money{}, ErrInvalidPercentage
	}
	return total.Percentage(percent), nil
}

// CalculateCleaningFee is a flat per-stay fee of 10% of the nightly rate;
// it does not scale with the night count.
func CalculateCleaningFee(policy accommodation.Policy, nights int) (money.Money, error) {
	if nights <= 0 {
		return money.Money{}, ErrInvalidNights
	}
	return policy.BasePricePerNight.Percentage(cleaningFeePercent), nil
}

// CalculateTax applies a flat tax rate in [0, 1] to the total.
func CalculateTax(total money.Money, rate decimal.Decimal) (money.Money, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return money.Money{}, ErrInvalidTaxRate
	}
	return total.Percentage(rate.Mul(decimal.NewFromInt(100))), nil
}

// CalculateDiscount computes the discount amount for the given kind.
// LONG_STAY tiers on nights (10% at 14+, 5% at 7+); EARLY_BIRD tiers on
// booking lead time in days (10% at 30+, 5% at 14+).
func CalculateDiscount(total money.Money, kind DiscountKind, value decimal.Decimal, nights, daysInAdvance int) (money.Money, error) {
	switch kind {
	case DiscountPercentage:
		if !percentInRange(value) {
			return money.Money{}, ErrInvalidPercentage
		}
		return total.Percentage(value), nil
	case DiscountFixedAmount:
		if value.IsNegative() {
			return money.Money{}, ErrNegativeDiscountValue
		}
		return money.New(value, total.Currency)
	case DiscountLongStay:
		switch {
		case nights >= 14:
			return total.Percentage(longStayHighPercent), nil
		case nights >= 7:
			return total.Percentage(longStayLowPercent), nil
		default:
			return money.Zero(total.Currency), nil
		}
	case DiscountEarlyBird:
		switch {
		case daysInAdvance >= 30:
			return total.Percentage(earlyBirdHighPercent), nil
		case daysInAdvance >= 14:
			return total.Percentage(earlyBirdLowPercent), nil
		default:
			return money.Zero(total.Currency), nil
		}
	default:
		return money.Money{}, ErrUnknownDiscountKind
	}
}

// CalculateFinalPrice folds the components: base + service + cleaning +
// tax - discount. The result is deliberately not floored at zero; a
// discount exceeding the subtotal surfaces as a negative total so the
// caller can audit it rather than lose it to silent clamping.
func CalculateFinalPrice(base, serviceFee, cleaningFee, tax, discount money.Money) (money.Money, error) {
	subtotal, err := base.Add(serviceFee)
	if err != nil {
		return money.Money{}, err
	}
	if subtotal, err = subtotal.Add(cleaningFee); err != nil {
		return money.Money{}, err
	}
	if subtotal, err = subtotal.Add(tax); err != nil {
		return money.Money{}, err
	}
	return subtotal.Subtract(discount)
}

// CalculateRefundAmount applies the cancellation tier table to the paid
// total given how many days remain before check-in.
func CalculateRefundAmount(total money.Money, policy accommodation.CancellationPolicy, daysBeforeCheckIn int) (money.Money, error) {
	switch policy {
	case accommodation.PolicyFlexible:
		if daysBeforeCheckIn >= 1 {
			return total, nil
		}
		return money.Zero(total.Currency), nil
	case accommodation.PolicyModerate:
		switch {
		case daysBeforeCheckIn >= 5:
			return total, nil
		case daysBeforeCheckIn >= 1:
			return total.Percentage(halfRefundPercent), nil
		default:
			return money.Zero(total.Currency), nil
		}
	case accommodation.PolicyStrict:
		if daysBeforeCheckIn >= 7 {
			return total.Percentage(halfRefundPercent), nil
		}
		return money.Zero(total.Currency), nil
	case accommodation.PolicySuperStrict:
		if daysBeforeCheckIn >= 14 {
			return total.Percentage(halfRefundPercent), nil
		}
		return money.Zero(total.Currency), nil
	default:
		return money.Money{}, ErrUnknownCancellationPlan
	}
}

// AveragePricePerNight divides the total across nights.
func AveragePricePerNight(total money.Money, nights int) (money.Money, error) {
	if nights <= 0 {
		return money.Money{}, ErrInvalidNights
	}
	return total.Divide(decimal.NewFromInt(int64(nights)))
}

// PricePerGuest divides the total across the party.
func PricePerGuest(total money.Money, guests int) (money.Money, error) {
	if guests <= 0 {
		return money.Money{}, ErrInvalidGuests
	}
	return total.Divide(decimal.NewFromInt(int64(guests)))
}

// LeadDays counts whole days between now and check-in; negative lead times
// report as zero.
func LeadDays(now, checkIn time.Time) int {
	days := daterange.CalculateNights(now, checkIn)
	if days < 0 {
		return 0
	}
	return days
}
