package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/middleware"
	"staymarket/internal/app/outbox"
	"staymarket/internal/app/policies"
	"staymarket/internal/app/uow"
	domainaccommodation "staymarket/internal/domain/accommodation"
	domainavailability "staymarket/internal/domain/availability"
	domainbooking "staymarket/internal/domain/booking"
	domainrange "staymarket/internal/domain/shared/daterange"
)

const (
	createBookingKey = "booking.create"

	// defaultPaymentProvider names the processor charges settle through
	// until per-host payout routing exists.
	defaultPaymentProvider = "STRIPE"
)

var (
	ErrUnitOfWorkRequired = errors.New("booking: unit of work required")
	ErrDatesUnavailable   = errors.New("booking: requested dates are not available")
)

type CreateBookingCommand struct {
	CommandID       string
	AccommodationID string
	UserID          string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          domainbooking.GuestCounts
	PaymentMethod   string
	SpecialRequests string
	MessageToHost   string
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &CreateBookingResult{} }

type CreateBookingResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

type CreateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Pricing    policies.PricingPort
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	dr, err := domainrange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := domainbooking.ValidateStay(dr, now); err != nil {
		return nil, err
	}

	acc, err := unit.Accommodations().ByID(ctx, domainaccommodation.AccommodationID(cmd.AccommodationID))
	if err != nil {
		return nil, err
	}
	if !acc.Bookable() {
		return nil, domainaccommodation.ErrNotBookable
	}

	existing, err := unit.Bookings().ListByAccommodation(ctx, acc.ID)
	if err != nil {
		return nil, err
	}
	free, err := domainavailability.IsAvailableWithGuests(acc.Policy, dr, cmd.Guests.Total, reservations(existing))
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrDatesUnavailable
	}

	quote, err := h.Pricing.Quote(ctx, acc, dr, cmd.Guests.Total)
	if err != nil {
		return nil, err
	}

	bk, err := domainbooking.New(domainbooking.CreateParams{
		ID:                domainbooking.BookingID(cmd.CommandID),
		UserID:            cmd.UserID,
		AccommodationID:   acc.ID,
		Range:             dr,
		Guests:            cmd.Guests,
		BasePricePerNight: acc.Policy.BasePricePerNight,
		ServiceFee:        quote.ServiceFee,
		CleaningFee:       quote.CleaningFee,
		TaxAmount:         quote.Tax,
		DiscountAmount:    quote.Discount,
		Cancellation:      acc.Policy.Cancellation,
		SpecialRequests:   cmd.SpecialRequests,
		MessageToHost:     cmd.MessageToHost,
		CreatedAt:         now,
	})
	if err != nil {
		return nil, err
	}

	// The charge record rides on the aggregate from day one; a zero or
	// negative total has nothing to collect, so no record is attached.
	if !bk.Price.TotalPrice.IsZero() && !bk.Price.TotalPrice.IsNegative() {
		payment, err := domainbooking.NewPayment(bk.ID, bk.Price.TotalPrice, paymentMethod(cmd.PaymentMethod), defaultPaymentProvider, now)
		if err != nil {
			return nil, err
		}
		bk.AttachPayment(payment, now)
	}

	if acc.Policy.InstantBook {
		if err := bk.Confirm(now); err != nil {
			return nil, err
		}
	}

	cal, err := unit.Calendars().Calendar(ctx, acc.ID)
	if err != nil {
		return nil, err
	}
	if err := cal.Reserve(dr, string(bk.ID), now); err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, bk); err != nil {
		return nil, err
	}
	if err := unit.Calendars().Save(ctx, cal); err != nil {
		return nil, err
	}

	if err := drainEvents(ctx, h.Outbox, eventEncoder(h.Encoder), &bk.EventRecorder, &cal.EventRecorder); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &CreateBookingResult{BookingID: string(bk.ID), Status: string(bk.Status)}, nil
}

func paymentMethod(raw string) domainbooking.PaymentMethod {
	m := domainbooking.PaymentMethod(strings.ToUpper(strings.TrimSpace(raw)))
	if m == "" {
		return domainbooking.PaymentMethodCard
	}
	return m
}

var _ commands.Handler[CreateBookingCommand, *CreateBookingResult] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateBookingCommand)(nil)
