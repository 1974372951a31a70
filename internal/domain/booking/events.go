package booking

import (
	"time"

	"staymarket/internal/domain/accommodation"
	"staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/money"
)

type BookingRequested struct {
	BookingID       BookingID
	AccommodationID accommodation.AccommodationID
	UserID          string
	Range           daterange.DateRange
	Guests          int
	TotalPrice      money.Money
	At              time.Time
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return string(e.BookingID) }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type BookingConfirmed struct {
	BookingID       BookingID
	AccommodationID accommodation.AccommodationID
	Range           daterange.DateRange
	TotalPrice      money.Money
	At              time.Time
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID       BookingID
	AccommodationID accommodation.AccommodationID
	Reason          string
	CancelledBy     string
	Refund          money.Money
	At              time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type BookingCompleted struct {
	BookingID       BookingID
	AccommodationID accommodation.AccommodationID
	At              time.Time
}

func (e BookingCompleted) EventName() string     { return "booking.completed" }
func (e BookingCompleted) AggregateID() string   { return string(e.BookingID) }
func (e BookingCompleted) OccurredAt() time.Time { return e.At }

type BookingNoShow struct {
	BookingID       BookingID
	AccommodationID accommodation.AccommodationID
	At              time.Time
}

func (e BookingNoShow) EventName() string     { return "booking.no_show" }
func (e BookingNoShow) AggregateID() string   { return string(e.BookingID) }
func (e BookingNoShow) OccurredAt() time.Time { return e.At }
