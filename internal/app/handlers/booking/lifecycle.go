package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/outbox"
	"staymarket/internal/app/policies"
	"staymarket/internal/app/uow"
	domainavailability "staymarket/internal/domain/availability"
	domainbooking "staymarket/internal/domain/booking"
	domainpricing "staymarket/internal/domain/pricing"
	"staymarket/internal/domain/shared/money"
)

const (
	confirmBookingKey  = "booking.confirm"
	cancelBookingKey   = "booking.cancel"
	completeBookingKey = "booking.complete"
	noShowBookingKey   = "booking.no_show"
)

var ErrBookingIDRequired = errors.New("booking: booking id is required")

type LifecycleResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

type ConfirmBookingCommand struct {
	BookingID string
}

func (c ConfirmBookingCommand) Key() string { return confirmBookingKey }

type ConfirmBookingHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *ConfirmBookingHandler) Handle(ctx context.Context, cmd ConfirmBookingCommand) (*LifecycleResult, error) {
	bk, unit, err := loadBooking(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := bk.Confirm(now); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, bk); err != nil {
		return nil, err
	}
	if err := drainEvents(ctx, h.Outbox, eventEncoder(h.Encoder), &bk.EventRecorder); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("booking confirmed", "booking_id", bk.ID, "accommodation_id", bk.AccommodationID)
	}
	return &LifecycleResult{BookingID: string(bk.ID), Status: string(bk.Status)}, nil
}

type CancelBookingCommand struct {
	BookingID   string
	Reason      string
	CancelledBy string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type CancelBookingResult struct {
	BookingID string       `json:"booking_id"`
	Status    string       `json:"status"`
	Refund    *money.Money `json:"refund,omitempty"`
}

type CancelBookingHandler struct {
	Payments policies.PaymentsPort
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Logger   *slog.Logger
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	bk, unit, err := loadBooking(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if !domainavailability.CanCancelBooking(bk) {
		return nil, domainbooking.ErrInvalidTransition
	}

	now := time.Now().UTC()
	refund := money.Zero(bk.Currency)
	paid := bk.PaymentStatus == domainbooking.PaymentPaid
	if paid {
		days := domainpricing.LeadDays(now, bk.Range.CheckIn)
		refund, err = domainpricing.CalculateRefundAmount(bk.Price.TotalPrice, bk.Cancellation, days)
		if err != nil {
			return nil, err
		}
	}

	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		reason = "guest-cancelled"
	}
	if err := bk.Cancel(reason, cmd.CancelledBy, refund, now); err != nil {
		return nil, err
	}
	if paid && !refund.IsZero() {
		if h.Payments != nil {
			if err := h.Payments.Refund(ctx, string(bk.ID), refund); err != nil {
				return nil, err
			}
		}
		if err := bk.MarkRefunded(now); err != nil {
			return nil, err
		}
	}

	cal, err := unit.Calendars().Calendar(ctx, bk.AccommodationID)
	if err != nil {
		return nil, err
	}
	if err := cal.Release(string(bk.ID), now); err != nil && !errors.Is(err, domainavailability.ErrBlockNotFound) {
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

	if h.Logger != nil {
		h.Logger.Info("booking cancelled", "booking_id", bk.ID, "reason", reason, "refund", refund.String())
	}
	res := &CancelBookingResult{BookingID: string(bk.ID), Status: string(bk.Status)}
	if paid {
		res.Refund = &refund
	}
	return res, nil
}

type CompleteBookingCommand struct {
	BookingID string
}

func (c CompleteBookingCommand) Key() string { return completeBookingKey }

type CompleteBookingHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *CompleteBookingHandler) Handle(ctx context.Context, cmd CompleteBookingCommand) (*LifecycleResult, error) {
	bk, unit, err := loadBooking(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := bk.Complete(now); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, bk); err != nil {
		return nil, err
	}
	if err := drainEvents(ctx, h.Outbox, eventEncoder(h.Encoder), &bk.EventRecorder); err != nil {
		return nil, err
	}
	return &LifecycleResult{BookingID: string(bk.ID), Status: string(bk.Status)}, nil
}

type MarkNoShowCommand struct {
	BookingID string
}

func (c MarkNoShowCommand) Key() string { return noShowBookingKey }

type MarkNoShowHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *MarkNoShowHandler) Handle(ctx context.Context, cmd MarkNoShowCommand) (*LifecycleResult, error) {
	bk, unit, err := loadBooking(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := bk.MarkNoShow(now); err != nil {
		return nil, err
	}

	// A no-show frees the nights for rebooking.
	cal, err := unit.Calendars().Calendar(ctx, bk.AccommodationID)
	if err != nil {
		return nil, err
	}
	if err := cal.Release(string(bk.ID), now); err != nil && !errors.Is(err, domainavailability.ErrBlockNotFound) {
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
	return &LifecycleResult{BookingID: string(bk.ID), Status: string(bk.Status)}, nil
}

func loadBooking(ctx context.Context, rawID string) (*domainbooking.Booking, uow.UnitOfWork, error) {
	id := strings.TrimSpace(rawID)
	if id == "" {
		return nil, nil, ErrBookingIDRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, nil, uow.ErrUnitOfWorkMissing
	}
	bk, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(id))
	if err != nil {
		return nil, nil, err
	}
	return bk, unit, nil
}

func eventEncoder(enc outbox.EventEncoder) outbox.EventEncoder {
	if enc != nil {
		return enc
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[ConfirmBookingCommand, *LifecycleResult] = (*ConfirmBookingHandler)(nil)
var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
var _ commands.Handler[CompleteBookingCommand, *LifecycleResult] = (*CompleteBookingHandler)(nil)
var _ commands.Handler[MarkNoShowCommand, *LifecycleResult] = (*MarkNoShowHandler)(nil)
