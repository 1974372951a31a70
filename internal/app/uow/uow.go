package uow

import (
	"context"

	domainaccommodation "staymarket/internal/domain/accommodation"
	domainavailability "staymarket/internal/domain/availability"
	domainbooking "staymarket/internal/domain/booking"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Accommodations() domainaccommodation.Repository
	Bookings() domainbooking.Repository
	Calendars() domainavailability.CalendarRepository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
