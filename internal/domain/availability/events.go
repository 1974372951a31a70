package availability

import (
	"time"

	"staymarket/internal/domain/accommodation"
	"staymarket/internal/domain/shared/daterange"
)

type CalendarBlocked struct {
	AccommodationID accommodation.AccommodationID
	Range           daterange.DateRange
	Reason          BlockReason
	At              time.Time
}

func (e CalendarBlocked) EventName() string     { return "availability.blocked" }
func (e CalendarBlocked) AggregateID() string   { return string(e.AccommodationID) }
func (e CalendarBlocked) OccurredAt() time.Time { return e.At }

type CalendarReleased struct {
	AccommodationID accommodation.AccommodationID
	Range           daterange.DateRange
	Reason          BlockReason
	At              time.Time
}

func (e CalendarReleased) EventName() string     { return "availability.released" }
func (e CalendarReleased) AggregateID() string   { return string(e.AccommodationID) }
func (e CalendarReleased) OccurredAt() time.Time { return e.At }

type OverbookingPrevented struct {
	AccommodationID accommodation.AccommodationID
	Range           daterange.DateRange
	At              time.Time
}

func (e OverbookingPrevented) EventName() string     { return "availability.overbooking_prevented" }
func (e OverbookingPrevented) AggregateID() string   { return string(e.AccommodationID) }
func (e OverbookingPrevented) OccurredAt() time.Time { return e.At }
