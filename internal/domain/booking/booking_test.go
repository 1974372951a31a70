package booking

import (
	"errors"
	"testing"
	"time"

	"staymarket/internal/domain/accommodation"
	"staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/money"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validParams() CreateParams {
	return CreateParams{
		ID:                "bk-1",
		UserID:            "user-1",
		AccommodationID:   "acc-1",
		Range:             daterange.MustNew(day(2026, 10, 5), day(2026, 10, 9)),
		Guests:            GuestCounts{Total: 3, Adults: 2, Children: 1},
		BasePricePerNight: money.MustParse("100.00", "EUR"),
		ServiceFee:        money.MustParse("40.00", "EUR"),
		CleaningFee:       money.MustParse("20.00", "EUR"),
		TaxAmount:         money.MustParse("35.20", "EUR"),
		DiscountAmount:    money.Zero("EUR"),
		Cancellation:      accommodation.PolicyModerate,
		CreatedAt:         day(2026, 9, 1),
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateParams)
		wantErr error
	}{
		{name: "valid", mutate: func(*CreateParams) {}},
		{name: "missing user", mutate: func(p *CreateParams) { p.UserID = "" }, wantErr: ErrUserRequired},
		{name: "missing accommodation", mutate: func(p *CreateParams) { p.AccommodationID = "" }, wantErr: ErrAccommodationRequired},
		{name: "invalid range", mutate: func(p *CreateParams) { p.Range = daterange.DateRange{} }, wantErr: daterange.ErrInvalidRange},
		{name: "zero guests", mutate: func(p *CreateParams) { p.Guests = GuestCounts{} }, wantErr: ErrInvalidGuests},
		{name: "negative children", mutate: func(p *CreateParams) { p.Guests.Children = -1 }, wantErr: ErrNegativeGuestCount},
		{name: "fee without currency", mutate: func(p *CreateParams) { p.ServiceFee = money.Money{} }, wantErr: ErrMoneyFieldRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)
			_, err := New(params)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_DerivesTotals(t *testing.T) {
	b, err := New(validParams())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if b.Nights != 4 {
		t.Errorf("Nights = %d, want 4", b.Nights)
	}
	if got := b.Price.TotalBasePrice.Amount.StringFixed(2); got != "400.00" {
		t.Errorf("TotalBasePrice = %s, want 400.00", got)
	}
	// 400 + 40 + 20 + 35.20 - 0
	if got := b.Price.TotalPrice.Amount.StringFixed(2); got != "495.20" {
		t.Errorf("TotalPrice = %s, want 495.20", got)
	}
	if b.Status != StatusPending || b.PaymentStatus != PaymentUnpaid {
		t.Errorf("initial state = %s/%s, want PENDING/UNPAID", b.Status, b.PaymentStatus)
	}
	if b.Currency != "EUR" {
		t.Errorf("Currency = %s, want EUR", b.Currency)
	}
	if b.Cancellation != accommodation.PolicyModerate {
		t.Errorf("Cancellation = %s, want MODERATE", b.Cancellation)
	}

	pending := b.PendingEvents()
	if len(pending) != 1 {
		t.Fatalf("PendingEvents() count = %d, want 1", len(pending))
	}
	if _, ok := pending[0].(BookingRequested); !ok {
		t.Errorf("PendingEvents()[0] = %T, want BookingRequested", pending[0])
	}
}

func TestNew_NegativeTotalPreserved(t *testing.T) {
	params := validParams()
	params.DiscountAmount = money.MustParse("900.00", "EUR")

	b, err := New(params)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !b.Price.TotalPrice.IsNegative() {
		t.Errorf("TotalPrice = %s, want negative result kept", b.Price.TotalPrice)
	}
}

func TestValidateStay(t *testing.T) {
	now := time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		stay    daterange.DateRange
		wantErr error
	}{
		{name: "future check-in", stay: daterange.MustNew(day(2026, 9, 20), day(2026, 9, 25))},
		{name: "same-day check-in valid all day", stay: daterange.MustNew(day(2026, 9, 15), day(2026, 9, 18))},
		{name: "yesterday rejected", stay: daterange.MustNew(day(2026, 9, 14), day(2026, 9, 18)), wantErr: ErrCheckInPast},
		{name: "invalid range", stay: daterange.DateRange{}, wantErr: daterange.ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStay(tt.stay, now); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateStay() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBooking_Lifecycle(t *testing.T) {
	now := day(2026, 9, 2)
	refund := money.Zero("EUR")

	t.Run("pending to confirmed to completed", func(t *testing.T) {
		b, _ := New(validParams())
		if err := b.Confirm(now); err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		if b.Status != StatusConfirmed || b.ConfirmedAt.IsZero() {
			t.Errorf("after Confirm: status = %s, confirmedAt = %v", b.Status, b.ConfirmedAt)
		}
		if err := b.Complete(now); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if b.Status != StatusCompleted {
			t.Errorf("after Complete: status = %s, want COMPLETED", b.Status)
		}
	})

	t.Run("cancel from pending", func(t *testing.T) {
		b, _ := New(validParams())
		b.ClearEvents()
		if err := b.Cancel("change of plans", "guest", refund, now); err != nil {
			t.Fatalf("Cancel() error = %v", err)
		}
		if b.Status != StatusCancelled || b.CancellationReason != "change of plans" || b.CancelledBy != "guest" {
			t.Errorf("cancellation fields not recorded: %+v", b)
		}
		pending := b.PendingEvents()
		if len(pending) != 1 {
			t.Fatalf("PendingEvents() count = %d, want 1", len(pending))
		}
		cancelled, ok := pending[0].(BookingCancelled)
		if !ok {
			t.Fatalf("PendingEvents()[0] = %T, want BookingCancelled", pending[0])
		}
		if !cancelled.Refund.Equal(refund) {
			t.Errorf("event refund = %s, want %s", cancelled.Refund, refund)
		}
	})

	t.Run("no-show from confirmed", func(t *testing.T) {
		b, _ := New(validParams())
		_ = b.Confirm(now)
		if err := b.MarkNoShow(now); err != nil {
			t.Fatalf("MarkNoShow() error = %v", err)
		}
		if b.Status != StatusNoShow {
			t.Errorf("after MarkNoShow: status = %s, want NO_SHOW", b.Status)
		}
	})

	t.Run("illegal transitions", func(t *testing.T) {
		b, _ := New(validParams())
		if err := b.Complete(now); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Complete() from PENDING error = %v, want ErrInvalidTransition", err)
		}
		if err := b.MarkNoShow(now); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("MarkNoShow() from PENDING error = %v, want ErrInvalidTransition", err)
		}

		_ = b.Cancel("", "", refund, now)
		if err := b.Confirm(now); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Confirm() from CANCELLED error = %v, want ErrInvalidTransition", err)
		}
		if err := b.Cancel("", "", refund, now); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Cancel() twice error = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestBooking_PaymentTransitions(t *testing.T) {
	now := day(2026, 9, 2)

	b, _ := New(validParams())
	if err := b.MarkRefunded(now); !errors.Is(err, ErrInvalidPaymentChange) {
		t.Errorf("MarkRefunded() from UNPAID error = %v, want ErrInvalidPaymentChange", err)
	}
	if err := b.MarkPaid(now); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if err := b.MarkPaid(now); !errors.Is(err, ErrInvalidPaymentChange) {
		t.Errorf("MarkPaid() twice error = %v, want ErrInvalidPaymentChange", err)
	}
	if err := b.MarkRefunded(now); err != nil {
		t.Fatalf("MarkRefunded() error = %v", err)
	}
	if err := b.MarkPaymentFailed(now); !errors.Is(err, ErrInvalidPaymentChange) {
		t.Errorf("MarkPaymentFailed() from REFUNDED error = %v, want ErrInvalidPaymentChange", err)
	}

	fresh, _ := New(validParams())
	if err := fresh.MarkPaymentFailed(now); err != nil {
		t.Fatalf("MarkPaymentFailed() from UNPAID error = %v", err)
	}
	if fresh.PaymentStatus != PaymentFailed {
		t.Errorf("PaymentStatus = %s, want FAILED", fresh.PaymentStatus)
	}
}

func TestStatus_HoldsCalendar(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusCompleted, true},
		{StatusCancelled, false},
		{StatusNoShow, false},
	}
	for _, tt := range tests {
		if got := tt.status.HoldsCalendar(); got != tt.want {
			t.Errorf("%s.HoldsCalendar() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
