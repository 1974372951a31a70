package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"staymarket/internal/domain/accommodation"
	"staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/money"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testPolicy(nightly string) accommodation.Policy {
	return accommodation.Policy{
		MaxGuests:         6,
		MinimumNights:     1,
		BasePricePerNight: money.MustParse(nightly, "EUR"),
		Cancellation:      accommodation.PolicyModerate,
	}
}

func TestCalculateTotalPrice(t *testing.T) {
	tests := []struct {
		name    string
		nightly string
		stay    daterange.DateRange
		guests  int
		want    string
		wantErr error
	}{
		{
			// 3 nights x 100, no surcharge, no seasonal month (October)
			name:    "base case",
			nightly: "100.00",
			stay:    daterange.MustNew(day(2026, 10, 5), day(2026, 10, 8)),
			guests:  2,
			want:    "300.00",
		},
		{
			// 300 base + 2 extra guests x 10% of nightly = 300 + 20
			name:    "extra guest surcharge",
			nightly: "100.00",
			stay:    daterange.MustNew(day(2026, 10, 5), day(2026, 10, 8)),
			guests:  4,
			want:    "320.00",
		},
		{
			// July check-in: 300 + 20% of 300
			name:    "peak season premium",
			nightly: "100.00",
			stay:    daterange.MustNew(day(2026, 7, 5), day(2026, 7, 8)),
			guests:  2,
			want:    "360.00",
		},
		{
			// January check-in: 300 - 10% of 300
			name:    "off peak discount",
			nightly: "100.00",
			stay:    daterange.MustNew(day(2026, 1, 5), day(2026, 1, 8)),
			guests:  2,
			want:    "270.00",
		},
		{
			// seasonality keys on check-in month only, even when the
			// stay crosses into June
			name:    "check-in month decides season",
			nightly: "100.00",
			stay:    daterange.MustNew(day(2026, 5, 30), day(2026, 6, 3)),
			guests:  2,
			want:    "400.00",
		},
		{
			// August check-in with 3 extra guests: 200 + 30 + 40
			name:    "surcharge and season combine",
			nightly: "100.00",
			stay:    daterange.MustNew(day(2026, 8, 1), day(2026, 8, 3)),
			guests:  5,
			want:    "270.00",
		},
		{
			name:    "single guest no surcharge",
			nightly: "80.00",
			stay:    daterange.MustNew(day(2026, 10, 1), day(2026, 10, 2)),
			guests:  1,
			want:    "80.00",
		},
		{
			name:    "zero guests rejected",
			nightly: "100.00",
			stay:    daterange.MustNew(day(2026, 10, 5), day(2026, 10, 8)),
			guests:  0,
			wantErr: ErrInvalidGuests,
		},
		{
			name:    "over capacity rejected",
			nightly: "100.00",
			stay:    daterange.MustNew(day(2026, 10, 5), day(2026, 10, 8)),
			guests:  7,
			wantErr: ErrGuestsExceedCapacity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateTotalPrice(testPolicy(tt.nightly), tt.stay, tt.guests)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CalculateTotalPrice() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if got.Amount.StringFixed(2) != tt.want {
				t.Errorf("CalculateTotalPrice() = %s, want %s", got.Amount.StringFixed(2), tt.want)
			}
		})
	}
}

func TestCalculateTotalPrice_InvalidRange(t *testing.T) {
	bad := daterange.DateRange{CheckIn: day(2026, 10, 8), CheckOut: day(2026, 10, 5)}
	if _, err := CalculateTotalPrice(testPolicy("100.00"), bad, 2); !errors.Is(err, daterange.ErrInvalidRange) {
		t.Errorf("CalculateTotalPrice() error = %v, want ErrInvalidRange", err)
	}
}

func TestCalculateServiceFee(t *testing.T) {
	total := money.MustParse("200.00", "EUR")

	fee, err := CalculateServiceFee(total, decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("CalculateServiceFee() error = %v", err)
	}
	if fee.Amount.StringFixed(2) != "20.00" {
		t.Errorf("CalculateServiceFee() = %s, want 20.00", fee.Amount.StringFixed(2))
	}

	if _, err := CalculateServiceFee(total, decimal.NewFromInt(101)); !errors.Is(err, ErrInvalidPercentage) {
		t.Errorf("CalculateServiceFee() over 100 error = %v, want ErrInvalidPercentage", err)
	}
	if _, err := CalculateServiceFee(total, decimal.NewFromInt(-1)); !errors.Is(err, ErrInvalidPercentage) {
		t.Errorf("CalculateServiceFee() negative error = %v, want ErrInvalidPercentage", err)
	}
}

func TestCalculateCleaningFee(t *testing.T) {
	fee, err := CalculateCleaningFee(testPolicy("90.00"), 5)
	if err != nil {
		t.Fatalf("CalculateCleaningFee() error = %v", err)
	}
	// flat 10% of the nightly rate regardless of night count
	if fee.Amount.StringFixed(2) != "9.00" {
		t.Errorf("CalculateCleaningFee() = %s, want 9.00", fee.Amount.StringFixed(2))
	}

	longer, _ := CalculateCleaningFee(testPolicy("90.00"), 14)
	if !fee.Equal(longer) {
		t.Error("CalculateCleaningFee() should not scale with nights")
	}

	if _, err := CalculateCleaningFee(testPolicy("90.00"), 0); !errors.Is(err, ErrInvalidNights) {
		t.Errorf("CalculateCleaningFee() zero nights error = %v, want ErrInvalidNights", err)
	}
}

func TestCalculateTax(t *testing.T) {
	total := money.MustParse("100.00", "EUR")

	tax, err := CalculateTax(total, decimal.RequireFromString("0.08"))
	if err != nil {
		t.Fatalf("CalculateTax() error = %v", err)
	}
	if tax.Amount.StringFixed(2) != "8.00" {
		t.Errorf("CalculateTax() = %s, want 8.00", tax.Amount.StringFixed(2))
	}

	if _, err := CalculateTax(total, decimal.RequireFromString("1.5")); !errors.Is(err, ErrInvalidTaxRate) {
		t.Errorf("CalculateTax() rate above 1 error = %v, want ErrInvalidTaxRate", err)
	}
	if _, err := CalculateTax(total, decimal.RequireFromString("-0.1")); !errors.Is(err, ErrInvalidTaxRate) {
		t.Errorf("CalculateTax() negative rate error = %v, want ErrInvalidTaxRate", err)
	}
}

func TestCalculateDiscount(t *testing.T) {
	total := money.MustParse("1000.00", "EUR")

	tests := []struct {
		name          string
		kind          DiscountKind
		value         string
		nights        int
		daysInAdvance int
		want          string
		wantErr       error
	}{
		{name: "percentage", kind: DiscountPercentage, value: "15", want: "150.00"},
		{name: "percentage over 100 rejected", kind: DiscountPercentage, value: "150", wantErr: ErrInvalidPercentage},
		{name: "fixed amount", kind: DiscountFixedAmount, value: "49.99", want: "49.99"},
		{name: "negative fixed amount rejected", kind: DiscountFixedAmount, value: "-5", wantErr: ErrNegativeDiscountValue},
		{name: "long stay two weeks", kind: DiscountLongStay, value: "0", nights: 14, want: "100.00"},
		{name: "long stay one week", kind: DiscountLongStay, value: "0", nights: 7, want: "50.00"},
		{name: "long stay below threshold", kind: DiscountLongStay, value: "0", nights: 6, want: "0.00"},
		{name: "early bird a month ahead", kind: DiscountEarlyBird, value: "0", daysInAdvance: 30, want: "100.00"},
		{name: "early bird two weeks ahead", kind: DiscountEarlyBird, value: "0", daysInAdvance: 14, want: "50.00"},
		{name: "early bird too late", kind: DiscountEarlyBird, value: "0", daysInAdvance: 13, want: "0.00"},
		{name: "unknown kind", kind: DiscountKind("COUPON"), value: "0", wantErr: ErrUnknownDiscountKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateDiscount(total, tt.kind, decimal.RequireFromString(tt.value), tt.nights, tt.daysInAdvance)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CalculateDiscount() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if got.Amount.StringFixed(2) != tt.want {
				t.Errorf("CalculateDiscount() = %s, want %s", got.Amount.StringFixed(2), tt.want)
			}
		})
	}
}

func TestCalculateFinalPrice(t *testing.T) {
	base := money.MustParse("300.00", "EUR")
	service := money.MustParse("30.00", "EUR")
	cleaning := money.MustParse("10.00", "EUR")
	tax := money.MustParse("26.40", "EUR")
	discount := money.MustParse("50.00", "EUR")

	total, err := CalculateFinalPrice(base, service, cleaning, tax, discount)
	if err != nil {
		t.Fatalf("CalculateFinalPrice() error = %v", err)
	}
	if total.Amount.StringFixed(2) != "316.40" {
		t.Errorf("CalculateFinalPrice() = %s, want 316.40", total.Amount.StringFixed(2))
	}
}

func TestCalculateFinalPrice_NegativeResultPreserved(t *testing.T) {
	base := money.MustParse("100.00", "EUR")
	zero := money.Zero("EUR")
	discount := money.MustParse("150.00", "EUR")

	total, err := CalculateFinalPrice(base, zero, zero, zero, discount)
	if err != nil {
		t.Fatalf("CalculateFinalPrice() error = %v", err)
	}
	if !total.IsNegative() {
		t.Errorf("CalculateFinalPrice() = %s, want negative result kept", total)
	}
	if total.Amount.StringFixed(2) != "-50.00" {
		t.Errorf("CalculateFinalPrice() = %s, want -50.00", total.Amount.StringFixed(2))
	}
}

func TestCalculateRefundAmount(t *testing.T) {
	total := money.MustParse("400.00", "EUR")

	tests := []struct {
		name    string
		policy  accommodation.CancellationPolicy
		days    int
		want    string
		wantErr error
	}{
		{name: "flexible day before", policy: accommodation.PolicyFlexible, days: 1, want: "400.00"},
		{name: "flexible same day", policy: accommodation.PolicyFlexible, days: 0, want: "0.00"},
		{name: "moderate five days out", policy: accommodation.PolicyModerate, days: 5, want: "400.00"},
		{name: "moderate two days out", policy: accommodation.PolicyModerate, days: 2, want: "200.00"},
		{name: "moderate same day", policy: accommodation.PolicyModerate, days: 0, want: "0.00"},
		{name: "strict week out", policy: accommodation.PolicyStrict, days: 7, want: "200.00"},
		{name: "strict six days out", policy: accommodation.PolicyStrict, days: 6, want: "0.00"},
		{name: "super strict fortnight out", policy: accommodation.PolicySuperStrict, days: 14, want: "200.00"},
		{name: "super strict too late", policy: accommodation.PolicySuperStrict, days: 13, want: "0.00"},
		{name: "unknown tier", policy: accommodation.CancellationPolicy("CUSTOM"), days: 30, wantErr: ErrUnknownCancellationPlan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateRefundAmount(total, tt.policy, tt.days)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CalculateRefundAmount() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if got.Amount.StringFixed(2) != tt.want {
				t.Errorf("CalculateRefundAmount() = %s, want %s", got.Amount.StringFixed(2), tt.want)
			}
		})
	}
}

func TestAveragesAndLeadDays(t *testing.T) {
	total := money.MustParse("350.00", "EUR")

	avg, err := AveragePricePerNight(total, 7)
	if err != nil || avg.Amount.StringFixed(2) != "50.00" {
		t.Errorf("AveragePricePerNight() = %v, %v; want 50.00, nil", avg, err)
	}
	if _, err := AveragePricePerNight(total, 0); !errors.Is(err, ErrInvalidNights) {
		t.Errorf("AveragePricePerNight() zero nights error = %v, want ErrInvalidNights", err)
	}

	per, err := PricePerGuest(total, 4)
	if err != nil || per.Amount.StringFixed(2) != "87.50" {
		t.Errorf("PricePerGuest() = %v, %v; want 87.50, nil", per, err)
	}
	if _, err := PricePerGuest(total, -1); !errors.Is(err, ErrInvalidGuests) {
		t.Errorf("PricePerGuest() negative guests error = %v, want ErrInvalidGuests", err)
	}

	if got := LeadDays(day(2026, 9, 1), day(2026, 9, 21)); got != 20 {
		t.Errorf("LeadDays() = %d, want 20", got)
	}
	if got := LeadDays(day(2026, 9, 21), day(2026, 9, 1)); got != 0 {
		t.Errorf("LeadDays() past check-in = %d, want 0", got)
	}
}
