package availability

import (
	"context"
	"errors"
	"time"

	"staymarket/internal/domain/accommodation"
	"staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/events"
)

var (
	ErrOverlappingBlock = errors.New("availability: range overlaps with an existing block")
	ErrBlockNotFound    = errors.New("availability: block not found")
)

type BlockReason string

const (
	ReasonBooking   BlockReason = "BOOKING"
	ReasonHostBlock BlockReason = "HOST_BLOCK"
)

type Block struct {
	Range     daterange.DateRange
	Reason    BlockReason
	Reference string
	CreatedAt time.Time
}

// Calendar is the write-side guard for one accommodation. The pure engine
// above decides over snapshots; the calendar, saved inside the same unit of
// work as the booking, is what makes two concurrent requests for the same
// nights collide instead of both succeeding.
type Calendar struct {
	AccommodationID accommodation.AccommodationID
	Blocks          []Block
	Version         int64
	events.EventRecorder
}

type CalendarRepository interface {
	Calendar(ctx context.Context, id accommodation.AccommodationID) (*Calendar, error)
	Save(ctx context.Context, cal *Calendar) error
}

func NewCalendar(id accommodation.AccommodationID) *Calendar {
	return &Calendar{AccommodationID: id}
}

// CanReserve reports whether the range is free of blocks.
func (c *Calendar) CanReserve(r daterange.DateRange) bool {
	for _, block := range c.Blocks {
		if block.Range.Overlaps(r) {
			return false
		}
	}
	return true
}

// Reserve places a booking block or fails if any block overlaps.
func (c *Calendar) Reserve(r daterange.DateRange, bookingID string, now time.Time) error {
	if !c.CanReserve(r) {
		c.Record(OverbookingPrevented{AccommodationID: c.AccommodationID, Range: r, At: now.UTC()})
		return ErrOverlappingBlock
	}
	c.Blocks = append(c.Blocks, Block{Range: r, Reason: ReasonBooking, Reference: bookingID, CreatedAt: now.UTC()})
	c.Record(CalendarBlocked{AccommodationID: c.AccommodationID, Range: r, Reason: ReasonBooking, At: now.UTC()})
	return nil
}

// BlockRange lets a host close dates without a booking.
func (c *Calendar) BlockRange(r daterange.DateRange, reference string, now time.Time) error {
	if !c.CanReserve(r) {
		return ErrOverlappingBlock
	}
	c.Blocks = append(c.Blocks, Block{Range: r, Reason: ReasonHostBlock, Reference: reference, CreatedAt: now.UTC()})
	c.Record(CalendarBlocked{AccommodationID: c.AccommodationID, Range: r, Reason: ReasonHostBlock, At: now.UTC()})
	return nil
}

// Release removes the block referencing the given booking or host hold.
func (c *Calendar) Release(reference string, now time.Time) error {
	for i, block := range c.Blocks {
		if block.Reference == reference {
			removed := c.Blocks[i]
			c.Blocks = append(c.Blocks[:i], c.Blocks[i+1:]...)
			c.Record(CalendarReleased{AccommodationID: c.AccommodationID, Range: removed.Range, Reason: removed.Reason, At: now.UTC()})
			return nil
		}
	}
	return ErrBlockNotFound
}
