package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainaccommodation "staymarket/internal/domain/accommodation"
	domainavailability "staymarket/internal/domain/availability"
	domainbooking "staymarket/internal/domain/booking"
)

// AccommodationRepository is an in-memory implementation for demo purposes.
type AccommodationRepository struct {
	mu    sync.RWMutex
	items map[domainaccommodation.AccommodationID]*domainaccommodation.Accommodation
}

// NewAccommodationRepository builds an empty repository.
func NewAccommodationRepository() *AccommodationRepository {
	return &AccommodationRepository{
		items: make(map[domainaccommodation.AccommodationID]*domainaccommodation.Accommodation),
	}
}

// ByID returns an accommodation or accommodation.ErrNotFound.
func (r *AccommodationRepository) ByID(ctx context.Context, id domainaccommodation.AccommodationID) (*domainaccommodation.Accommodation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.items[id]
	if !ok {
		return nil, domainaccommodation.ErrNotFound
	}
	return acc, nil
}

// Save stores/updates an accommodation entry.
func (r *AccommodationRepository) Save(ctx context.Context, acc *domainaccommodation.Accommodation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc.Version++
	r.items[acc.ID] = acc
	return nil
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

// NewBookingRepository builds an empty booking repo.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

// ByID fetches a booking.
func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bk, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return bk, nil
}

// Save stores the current booking state.
func (r *BookingRepository) Save(ctx context.Context, bk *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk.Version++
	r.items[bk.ID] = bk
	return nil
}

// ListByAccommodation returns every booking targeting the accommodation,
// newest first.
func (r *BookingRepository) ListByAccommodation(ctx context.Context, id domainaccommodation.AccommodationID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, bk := range r.items {
		if bk.AccommodationID == id {
			matches = append(matches, bk)
		}
	}
	sortByCreated(matches)
	return matches, nil
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := strings.TrimSpace(userID)
	if id == "" {
		return nil, domainbooking.ErrUserRequired
	}
	matches := make([]*domainbooking.Booking, 0)
	for _, bk := range r.items {
		if bk.UserID == id {
			matches = append(matches, bk)
		}
	}
	sortByCreated(matches)
	return matches, nil
}

func sortByCreated(items []*domainbooking.Booking) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// CalendarRepository keeps accommodation calendars in memory.
type CalendarRepository struct {
	mu        sync.RWMutex
	calendars map[domainaccommodation.AccommodationID]*domainavailability.Calendar
}

// NewCalendarRepository returns a repository initialized with empty calendars.
func NewCalendarRepository() *CalendarRepository {
	return &CalendarRepository{
		calendars: make(map[domainaccommodation.AccommodationID]*domainavailability.Calendar),
	}
}

// Calendar retrieves an accommodation calendar, lazily creating it.
func (r *CalendarRepository) Calendar(ctx context.Context, id domainaccommodation.AccommodationID) (*domainavailability.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cal, ok := r.calendars[id]; ok {
		return cal, nil
	}
	cal := domainavailability.NewCalendar(id)
	r.calendars[id] = cal
	return cal, nil
}

// Save persists a calendar snapshot.
func (r *CalendarRepository) Save(ctx context.Context, cal *domainavailability.Calendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cal.Version++
	r.calendars[cal.AccommodationID] = cal
	return nil
}
