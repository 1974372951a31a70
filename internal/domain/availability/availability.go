package availability

import (
	"errors"
	"sort"
	"time"

	"staymarket/internal/domain/accommodation"
	"staymarket/internal/domain/booking"
	"staymarket/internal/domain/shared/daterange"
)

var (
	ErrReservationsRequired = errors.New("availability: existing reservations must be provided")
	ErrInvalidMinNights     = errors.New("availability: minimum nights must be positive")
	ErrMissingSearchStart   = errors.New("availability: search start date is required")
)

// Reservation is the snapshot of an existing booking the engine decides
// against: identity, stay interval and lifecycle status. The engine is a
// pure function over these snapshots; it guarantees nothing about their
// staleness, so the transaction layer owns write-time serialization.
type Reservation struct {
	ID     string
	Range  daterange.DateRange
	Status booking.Status
}

// nextAvailableHorizon bounds the linear scan in FindNextAvailableDate.
const nextAvailableHorizon = 365 * 24 * time.Hour

// IsAvailable reports whether the requested range can be booked given the
// policy night bounds and the reservation snapshot. An empty snapshot means
// the calendar is open; a nil one is a caller error.
func IsAvailable(policy accommodation.Policy, dr daterange.DateRange, existing []Reservation) (bool, error) {
	if err := dr.Validate(); err != nil {
		return false, err
	}
	if existing == nil {
		return false, ErrReservationsRequired
	}

	nights := dr.Nights()
	if policy.MinimumNights > 0 && nights < policy.MinimumNights {
		return false, nil
	}
	if policy.MaximumNights > 0 && nights > policy.MaximumNights {
		return false, nil
	}

	for _, res := range existing {
		if !res.Status.HoldsCalendar() {
			continue
		}
		if dr.Overlaps(res.Range) {
			return false, nil
		}
	}
	return true, nil
}

// IsAvailableWithGuests additionally enforces the guest capacity bound.
func IsAvailableWithGuests(policy accommodation.Policy, dr daterange.DateRange, guests int, existing []Reservation) (bool, error) {
	ok, err := IsAvailable(policy, dr, existing)
	if err != nil || !ok {
		return false, err
	}
	return guests <= policy.MaxGuests, nil
}

// FindAvailableDates returns the maximal free gaps inside the search window
// in chronological order. The result is computed eagerly from the supplied
// snapshot; callers must re-invoke with fresh reservations to see updates.
func FindAvailableDates(policy accommodation.Policy, window daterange.DateRange, existing []Reservation) ([]daterange.DateRange, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrReservationsRequired
	}

	booked := make([]daterange.DateRange, 0, len(existing))
	for _, res := range existing {
		if !res.Status.HoldsCalendar() {
			continue
		}
		if window.Overlaps(res.Range) {
			booked = append(booked, res.Range)
		}
	}
	if len(booked) == 0 {
		return []daterange.DateRange{window}, nil
	}

	sort.Slice(booked, func(i, j int) bool {
		return booked[i].CheckIn.Before(booked[j].CheckIn)
	})

	var gaps []daterange.DateRange
	currentStart := window.CheckIn
	for _, b := range booked {
		if b.CheckIn.After(currentStart) {
			gaps = append(gaps, daterange.DateRange{CheckIn: currentStart, CheckOut: b.CheckIn})
		}
		if b.CheckOut.After(currentStart) {
			currentStart = b.CheckOut
		}
	}
	if currentStart.Before(window.CheckOut) {
		gaps = append(gaps, daterange.DateRange{CheckIn: currentStart, CheckOut: window.CheckOut})
	}
	return gaps, nil
}

// FindNextAvailableDate scans day by day from searchFrom, bounded to one
// year ahead, for the first check-in date that fits a minNights stay.
// The linear scan is O(days x reservations), fine while per-accommodation
// reservation lists stay small.
func FindNextAvailableDate(policy accommodation.Policy, searchFrom time.Time, existing []Reservation, minNights int) (time.Time, bool, error) {
	if searchFrom.IsZero() {
		return time.Time{}, false, ErrMissingSearchStart
	}
	if existing == nil {
		return time.Time{}, false, ErrReservationsRequired
	}
	if minNights <= 0 {
		return time.Time{}, false, ErrInvalidMinNights
	}

	day := searchFrom.UTC().Truncate(24 * time.Hour)
	limit := day.Add(nextAvailableHorizon)
	for day.Before(limit) {
		candidate, err := daterange.New(day, day.AddDate(0, 0, minNights))
		if err != nil {
			return time.Time{}, false, err
		}
		ok, err := IsAvailable(policy, candidate, existing)
		if err != nil {
			return time.Time{}, false, err
		}
		if ok {
			return day, true, nil
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, false, nil
}

// CanModifyBooking reports whether the booking's dates can move to newRange:
// the booking must still be PENDING or CONFIRMED and the new range must not
// collide with any other live reservation (its own hold is ignored).
func CanModifyBooking(b *booking.Booking, newRange daterange.DateRange, existing []Reservation) (bool, error) {
	if b == nil {
		return false, booking.ErrNotFound
	}
	if err := newRange.Validate(); err != nil {
		return false, err
	}
	if existing == nil {
		return false, ErrReservationsRequired
	}
	if b.Status != booking.StatusPending && b.Status != booking.StatusConfirmed {
		return false, nil
	}
	for _, res := range existing {
		if res.ID == string(b.ID) {
			continue
		}
		if !res.Status.HoldsCalendar() {
			continue
		}
		if newRange.Overlaps(res.Range) {
			return false, nil
		}
	}
	return true, nil
}

// CanCancelBooking reports whether cancellation is still possible.
func CanCancelBooking(b *booking.Booking) bool {
	if b == nil {
		return false
	}
	return b.Status == booking.StatusPending || b.Status == booking.StatusConfirmed
}
