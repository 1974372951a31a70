package booking

import (
	"context"

	"staymarket/internal/app/outbox"
	domainavailability "staymarket/internal/domain/availability"
	domainbooking "staymarket/internal/domain/booking"
	"staymarket/internal/domain/shared/events"
)

// reservations projects stored bookings into the snapshot form the
// availability engine decides on.
func reservations(bookings []*domainbooking.Booking) []domainavailability.Reservation {
	out := make([]domainavailability.Reservation, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, domainavailability.Reservation{
			ID:     string(b.ID),
			Range:  b.Range,
			Status: b.Status,
		})
	}
	return out
}

// drainEvents moves pending domain events from the recorders into the outbox.
func drainEvents(ctx context.Context, box outbox.Outbox, encoder outbox.EventEncoder, recorders ...*events.EventRecorder) error {
	for _, rec := range recorders {
		pending := rec.PendingEvents()
		rec.ClearEvents()
		if err := outbox.RecordDomainEvents(ctx, box, encoder, pending); err != nil {
			return err
		}
	}
	return nil
}
