package booking

import (
	"context"
	"errors"
	"time"

	"staymarket/internal/domain/accommodation"
	"staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/events"
	"staymarket/internal/domain/shared/money"
)

var (
	ErrUserRequired          = errors.New("booking: user id is required")
	ErrAccommodationRequired = errors.New("booking: accommodation id is required")
	ErrInvalidGuests         = errors.New("booking: total guests must be positive")
	ErrNegativeGuestCount    = errors.New("booking: guest counts cannot be negative")
	ErrMoneyFieldRequired    = errors.New("booking: money field missing currency")
	ErrCheckInPast           = errors.New("booking: check-in date is in the past")
	ErrInvalidTransition     = errors.New("booking: invalid state transition")
	ErrInvalidPaymentChange  = errors.New("booking: invalid payment status transition")
	ErrPaymentMissing        = errors.New("booking: no payment attached")
	ErrNotFound              = errors.New("booking: not found")
)

type BookingID string

// Status is the booking lifecycle state. CANCELLED, COMPLETED and NO_SHOW
// are terminal.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
	StatusNoShow    Status = "NO_SHOW"
)

// HoldsCalendar reports whether a reservation in this status blocks the
// accommodation calendar. Everything except cancellations and no-shows
// does, including unconfirmed PENDING holds.
func (s Status) HoldsCalendar() bool {
	switch s {
	case StatusCancelled, StatusNoShow:
		return false
	default:
		return true
	}
}

// PaymentStatus tracks the payment sub-state independently of the booking
// status; cross-constraints between the two belong to the orchestration
// layer.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
	PaymentFailed   PaymentStatus = "FAILED"
)

// GuestCounts breaks the party down; infants typically do not count toward
// capacity but are recorded for the host.
type GuestCounts struct {
	Total    int
	Adults   int
	Children int
	Infants  int
}

// PriceBreakdown is the immutable money record of a booking. TotalBasePrice
// and TotalPrice are derived at construction and never recomputed.
type PriceBreakdown struct {
	BasePricePerNight money.Money
	TotalBasePrice    money.Money
	ServiceFee        money.Money
	CleaningFee       money.Money
	TaxAmount         money.Money
	DiscountAmount    money.Money
	TotalPrice        money.Money
}

// Booking is the reservation aggregate root. Identity, dates, guest counts
// and the price breakdown are fixed at creation; only the status machines
// and free-text guest fields may change afterwards.
type Booking struct {
	ID              BookingID
	UserID          string
	AccommodationID accommodation.AccommodationID
	Range           daterange.DateRange
	Guests          GuestCounts
	Nights          int
	Price           PriceBreakdown
	Currency        string
	// Cancellation is the refund tier snapshotted from the accommodation at
	// booking time, so later host edits cannot change the terms retroactively.
	Cancellation accommodation.CancellationPolicy

	Status             Status
	PaymentStatus      PaymentStatus
	CancellationReason string
	CancelledAt        time.Time
	CancelledBy        string
	SpecialRequests    string
	MessageToHost      string
	Payment            *Payment

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ConfirmedAt time.Time
	Version     int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	ListByAccommodation(ctx context.Context, id accommodation.AccommodationID) ([]*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*Booking, error)
	Save(ctx context.Context, b *Booking) error
}

type CreateParams struct {
	ID                BookingID
	UserID            string
	AccommodationID   accommodation.AccommodationID
	Range             daterange.DateRange
	Guests            GuestCounts
	BasePricePerNight money.Money
	ServiceFee        money.Money
	CleaningFee       money.Money
	TaxAmount         money.Money
	DiscountAmount    money.Money
	Cancellation      accommodation.CancellationPolicy
	SpecialRequests   string
	MessageToHost     string
	CreatedAt         time.Time
}

// ValidateStay rejects ranges whose check-in day has already passed. Both
// sides compare at midnight UTC so a same-day check-in stays valid all day.
func ValidateStay(dr daterange.DateRange, now time.Time) error {
	if err := dr.Validate(); err != nil {
		return err
	}
	today := now.UTC().Truncate(24 * time.Hour)
	if dr.CheckIn.Before(today) {
		return ErrCheckInPast
	}
	return nil
}

// New validates every field eagerly and derives the money totals, so a
// partially priced booking can never escape this constructor.
// TotalBasePrice is always nightly rate times nights and TotalPrice is
// base + service + cleaning + tax - discount.
func New(params CreateParams) (*Booking, error) {
	if params.UserID == "" {
		return nil, ErrUserRequired
	}
	if params.AccommodationID == "" {
		return nil, ErrAccommodationRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.Guests.Total <= 0 {
		return nil, ErrInvalidGuests
	}
	if params.Guests.Adults < 0 || params.Guests.Children < 0 || params.Guests.Infants < 0 {
		return nil, ErrNegativeGuestCount
	}
	for _, m := range []money.Money{params.BasePricePerNight, params.ServiceFee, params.CleaningFee, params.TaxAmount, params.DiscountAmount} {
		if m.Currency == "" {
			return nil, ErrMoneyFieldRequired
		}
	}

	nights := params.Range.Nights()
	totalBase, err := params.BasePricePerNight.MultiplyInt(int64(nights))
	if err != nil {
		return nil, err
	}
	total, err := sumBreakdown(totalBase, params.ServiceFee, params.CleaningFee, params.TaxAmount, params.DiscountAmount)
	if err != nil {
		return nil, err
	}

	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:              params.ID,
		UserID:          params.UserID,
		AccommodationID: params.AccommodationID,
		Range:           params.Range,
		Guests:          params.Guests,
		Nights:          nights,
		Price: PriceBreakdown{
			BasePricePerNight: params.BasePricePerNight,
			TotalBasePrice:    totalBase,
			ServiceFee:        params.ServiceFee,
			CleaningFee:       params.CleaningFee,
			TaxAmount:         params.TaxAmount,
			DiscountAmount:    params.DiscountAmount,
			TotalPrice:        total,
		},
		Currency:        params.BasePricePerNight.Currency,
		Cancellation:    params.Cancellation,
		Status:          StatusPending,
		PaymentStatus:   PaymentUnpaid,
		SpecialRequests: params.SpecialRequests,
		MessageToHost:   params.MessageToHost,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	b.Record(BookingRequested{
		BookingID:       b.ID,
		AccommodationID: b.AccommodationID,
		UserID:          b.UserID,
		Range:           b.Range,
		Guests:          b.Guests.Total,
		TotalPrice:      total,
		At:              now,
	})
	return b, nil
}

// sumBreakdown folds the price components into the stored total. The result
// is not floored at zero: a discount larger than the subtotal yields a
// negative total, preserved as-is for downstream auditing.
func sumBreakdown(base, serviceFee, cleaningFee, tax, discount money.Money) (money.Money, error) {
	total, err := base.Add(serviceFee)
	if err != nil {
		return money.Money{}, err
	}
	if total, err = total.Add(cleaningFee); err != nil {
		return money.Money{}, err
	}
	if total, err = total.Add(tax); err != nil {
		return money.Money{}, err
	}
	return total.Subtract(discount)
}

// Confirm moves PENDING to CONFIRMED and stamps the confirmation time.
func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidTransition
	}
	b.Status = StatusConfirmed
	b.ConfirmedAt = now.UTC()
	b.touch(now)
	b.Record(BookingConfirmed{BookingID: b.ID, AccommodationID: b.AccommodationID, Range: b.Range, TotalPrice: b.Price.TotalPrice, At: b.UpdatedAt})
	return nil
}

// Cancel moves PENDING or CONFIRMED to CANCELLED recording who cancelled
// and why. Refund math is the pricing engine's job; the caller passes the
// computed amount so the emitted event carries it.
func (b *Booking) Cancel(reason, cancelledBy string, refund money.Money, now time.Time) error {
	switch b.Status {
	case StatusPending, StatusConfirmed:
	default:
		return ErrInvalidTransition
	}
	b.Status = StatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = now.UTC()
	b.CancelledBy = cancelledBy
	b.touch(now)
	b.Record(BookingCancelled{BookingID: b.ID, AccommodationID: b.AccommodationID, Reason: reason, CancelledBy: cancelledBy, Refund: refund, At: b.UpdatedAt})
	return nil
}

// Complete moves CONFIRMED to COMPLETED after the stay ends.
func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	b.Status = StatusCompleted
	b.touch(now)
	b.Record(BookingCompleted{BookingID: b.ID, AccommodationID: b.AccommodationID, At: b.UpdatedAt})
	return nil
}

// MarkNoShow moves CONFIRMED to NO_SHOW when the guest never arrived.
func (b *Booking) MarkNoShow(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	b.Status = StatusNoShow
	b.touch(now)
	b.Record(BookingNoShow{BookingID: b.ID, AccommodationID: b.AccommodationID, At: b.UpdatedAt})
	return nil
}

// MarkPaid moves the payment sub-state UNPAID to PAID.
func (b *Booking) MarkPaid(now time.Time) error {
	if b.PaymentStatus != PaymentUnpaid {
		return ErrInvalidPaymentChange
	}
	b.PaymentStatus = PaymentPaid
	b.touch(now)
	return nil
}

// CapturePayment stamps the provider transaction on the attached payment
// record and moves the payment sub-state to PAID.
func (b *Booking) CapturePayment(providerTx string, now time.Time) error {
	if b.Payment == nil {
		return ErrPaymentMissing
	}
	if err := b.MarkPaid(now); err != nil {
		return err
	}
	b.Payment.ProviderTx = providerTx
	return nil
}

// MarkRefunded moves PAID to REFUNDED.
func (b *Booking) MarkRefunded(now time.Time) error {
	if b.PaymentStatus != PaymentPaid {
		return ErrInvalidPaymentChange
	}
	b.PaymentStatus = PaymentRefunded
	b.touch(now)
	return nil
}

// MarkPaymentFailed moves UNPAID or PAID to FAILED.
func (b *Booking) MarkPaymentFailed(now time.Time) error {
	switch b.PaymentStatus {
	case PaymentUnpaid, PaymentPaid:
	default:
		return ErrInvalidPaymentChange
	}
	b.PaymentStatus = PaymentFailed
	b.touch(now)
	return nil
}

// AttachPayment links the payment record produced by the payment flow.
func (b *Booking) AttachPayment(p *Payment, now time.Time) {
	b.Payment = p
	b.touch(now)
}

func (b *Booking) SetSpecialRequests(text string, now time.Time) {
	b.SpecialRequests = text
	b.touch(now)
}

func (b *Booking) SetMessageToHost(text string, now time.Time) {
	b.MessageToHost = text
	b.touch(now)
}

func (b *Booking) touch(now time.Time) {
	b.UpdatedAt = now.UTC()
}
