package daterange

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("daterange: checkout must be after checkin")

// DateRange represents a half-open stay interval [CheckIn, CheckOut).
// Dates are normalized to midnight UTC; a checkout on day N and a checkin
// on the same day N do not overlap, which allows back-to-back bookings.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: truncate(checkIn), CheckOut: truncate(checkOut)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// MustNew is New that panics; for fixtures and tests.
func MustNew(checkIn, checkOut time.Time) DateRange {
	dr, err := New(checkIn, checkOut)
	if err != nil {
		panic(err)
	}
	return dr
}

func (dr DateRange) Validate() error {
	if dr.CheckIn.IsZero() || dr.CheckOut.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights returns the number of nights between checkin and checkout.
func (dr DateRange) Nights() int {
	return int(dr.CheckOut.Sub(dr.CheckIn).Hours() / 24)
}

// CalculateNights counts whole days between two dates without building a range.
func CalculateNights(checkIn, checkOut time.Time) int {
	return int(truncate(checkOut).Sub(truncate(checkIn)).Hours() / 24)
}

// Overlaps reports whether two ranges share at least one night.
// Open-interval semantics: touching endpoints do not overlap.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

// Contains reports whether other lies fully within dr.
func (dr DateRange) Contains(other DateRange) bool {
	return !dr.CheckIn.After(other.CheckIn) && !dr.CheckOut.Before(other.CheckOut)
}

// ContainsDate reports whether t falls inside the range (checkin inclusive,
// checkout exclusive).
func (dr DateRange) ContainsDate(t time.Time) bool {
	t = truncate(t)
	return !t.Before(dr.CheckIn) && t.Before(dr.CheckOut)
}

func truncate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
