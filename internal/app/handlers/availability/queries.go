package availability

import (
	"context"
	"errors"
	"strings"
	"time"

	"staymarket/internal/app/dto"
	handlersupport "staymarket/internal/app/handlers/support"
	"staymarket/internal/app/queries"
	"staymarket/internal/app/uow"
	domainaccommodation "staymarket/internal/domain/accommodation"
	domainavailability "staymarket/internal/domain/availability"
	domainbooking "staymarket/internal/domain/booking"
	domainrange "staymarket/internal/domain/shared/daterange"
)

const (
	checkAvailabilityKey = "availability.check"
	listAvailableKey     = "availability.list_dates"
	nextAvailableKey     = "availability.next_date"
	getCalendarKey       = "availability.calendar"
)

var ErrAccommodationIDRequired = errors.New("availability: accommodation id is required")

type CheckAvailabilityQuery struct {
	AccommodationID string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

type CheckAvailabilityResult struct {
	AccommodationID string `json:"accommodation_id"`
	Available       bool   `json:"available"`
}

type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (CheckAvailabilityResult, error) {
	acc, existing, _, cleanup, err := loadSnapshot(ctx, h.UoWFactory, q.AccommodationID)
	if err != nil {
		return CheckAvailabilityResult{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	dr, err := domainrange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return CheckAvailabilityResult{}, err
	}

	var free bool
	if q.Guests > 0 {
		free, err = domainavailability.IsAvailableWithGuests(acc.Policy, dr, q.Guests, existing)
	} else {
		free, err = domainavailability.IsAvailable(acc.Policy, dr, existing)
	}
	if err != nil {
		return CheckAvailabilityResult{}, err
	}
	return CheckAvailabilityResult{AccommodationID: string(acc.ID), Available: free}, nil
}

type ListAvailableDatesQuery struct {
	AccommodationID string
	From            time.Time
	To              time.Time
}

func (q ListAvailableDatesQuery) Key() string { return listAvailableKey }

type ListAvailableDatesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListAvailableDatesHandler) Handle(ctx context.Context, q ListAvailableDatesQuery) (dto.AvailableDates, error) {
	acc, existing, _, cleanup, err := loadSnapshot(ctx, h.UoWFactory, q.AccommodationID)
	if err != nil {
		return dto.AvailableDates{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	window, err := domainrange.New(q.From, q.To)
	if err != nil {
		return dto.AvailableDates{}, err
	}
	gaps, err := domainavailability.FindAvailableDates(acc.Policy, window, existing)
	if err != nil {
		return dto.AvailableDates{}, err
	}
	return dto.AvailableDates{
		AccommodationID: string(acc.ID),
		Window:          dto.MapDateRange(window),
		Available:       dto.MapDateRanges(gaps),
	}, nil
}

type NextAvailableDateQuery struct {
	AccommodationID string
	SearchFrom      time.Time
	MinNights       int
}

func (q NextAvailableDateQuery) Key() string { return nextAvailableKey }

type NextAvailableDateHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *NextAvailableDateHandler) Handle(ctx context.Context, q NextAvailableDateQuery) (dto.NextAvailableDate, error) {
	acc, existing, _, cleanup, err := loadSnapshot(ctx, h.UoWFactory, q.AccommodationID)
	if err != nil {
		return dto.NextAvailableDate{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	minNights := q.MinNights
	if minNights <= 0 {
		minNights = acc.Policy.MinimumNights
	}
	date, found, err := domainavailability.FindNextAvailableDate(acc.Policy, q.SearchFrom, existing, minNights)
	if err != nil {
		return dto.NextAvailableDate{}, err
	}
	out := dto.NextAvailableDate{
		AccommodationID: string(acc.ID),
		MinNights:       minNights,
		Found:           found,
	}
	if found {
		out.Date = &date
	}
	return out, nil
}

type GetCalendarQuery struct {
	AccommodationID string
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

type GetCalendarHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (dto.Calendar, error) {
	id := strings.TrimSpace(q.AccommodationID)
	if id == "" {
		return dto.Calendar{}, ErrAccommodationIDRequired
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Calendar{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	cal, err := unit.Calendars().Calendar(execCtx, domainaccommodation.AccommodationID(id))
	if err != nil {
		return dto.Calendar{}, err
	}
	return dto.MapCalendar(cal), nil
}

// loadSnapshot fetches the accommodation and its reservation snapshot inside
// a read-only unit of work. Host-blocked calendar ranges join the snapshot as
// synthetic reservations so the engine treats them like any other hold;
// booking-backed blocks are already covered by the booking list itself.
func loadSnapshot(ctx context.Context, factory uow.UoWFactory, rawID string) (*domainaccommodation.Accommodation, []domainavailability.Reservation, context.Context, func(), error) {
	id := strings.TrimSpace(rawID)
	if id == "" {
		return nil, nil, ctx, nil, ErrAccommodationIDRequired
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, factory)
	if err != nil {
		return nil, nil, ctx, nil, err
	}

	acc, err := unit.Accommodations().ByID(execCtx, domainaccommodation.AccommodationID(id))
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, nil, ctx, nil, err
	}
	bookings, err := unit.Bookings().ListByAccommodation(execCtx, acc.ID)
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, nil, ctx, nil, err
	}
	cal, err := unit.Calendars().Calendar(execCtx, acc.ID)
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, nil, ctx, nil, err
	}
	existing := make([]domainavailability.Reservation, 0, len(bookings)+len(cal.Blocks))
	for _, b := range bookings {
		existing = append(existing, domainavailability.Reservation{
			ID:     string(b.ID),
			Range:  b.Range,
			Status: b.Status,
		})
	}
	for _, block := range cal.Blocks {
		if block.Reason != domainavailability.ReasonHostBlock {
			continue
		}
		existing = append(existing, domainavailability.Reservation{
			ID:     "host-block:" + block.Reference,
			Range:  block.Range,
			Status: domainbooking.StatusConfirmed,
		})
	}
	return acc, existing, execCtx, cleanup, nil
}

var _ queries.Handler[CheckAvailabilityQuery, CheckAvailabilityResult] = (*CheckAvailabilityHandler)(nil)
var _ queries.Handler[ListAvailableDatesQuery, dto.AvailableDates] = (*ListAvailableDatesHandler)(nil)
var _ queries.Handler[NextAvailableDateQuery, dto.NextAvailableDate] = (*NextAvailableDateHandler)(nil)
var _ queries.Handler[GetCalendarQuery, dto.Calendar] = (*GetCalendarHandler)(nil)
