package memory

import (
	"context"
	"errors"

	"staymarket/internal/app/uow"
	domainaccommodation "staymarket/internal/domain/accommodation"
	domainavailability "staymarket/internal/domain/availability"
	domainbooking "staymarket/internal/domain/booking"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	AccommodationRepo domainaccommodation.Repository
	BookingRepo       domainbooking.Repository
	CalendarRepo      domainavailability.CalendarRepository
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided but
// the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.AccommodationRepo == nil || f.BookingRepo == nil || f.CalendarRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		accommodations: f.AccommodationRepo,
		bookings:       f.BookingRepo,
		calendars:      f.CalendarRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	accommodations domainaccommodation.Repository
	bookings       domainbooking.Repository
	calendars      domainavailability.CalendarRepository
}

func (u *Unit) Accommodations() domainaccommodation.Repository {
	return u.accommodations
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Calendars() domainavailability.CalendarRepository {
	return u.calendars
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}
