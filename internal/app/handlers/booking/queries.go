package booking

import (
	"context"
	"strings"

	"staymarket/internal/app/dto"
	handlersupport "staymarket/internal/app/handlers/support"
	"staymarket/internal/app/queries"
	"staymarket/internal/app/uow"
	domainbooking "staymarket/internal/domain/booking"
)

const (
	getBookingKey       = "booking.get"
	listUserBookingsKey = "booking.list_by_user"
)

type GetBookingQuery struct {
	BookingID string
}

func (q GetBookingQuery) Key() string { return getBookingKey }

type GetBookingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetBookingHandler) Handle(ctx context.Context, q GetBookingQuery) (dto.BookingView, error) {
	id := strings.TrimSpace(q.BookingID)
	if id == "" {
		return dto.BookingView{}, ErrBookingIDRequired
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingView{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	bk, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(id))
	if err != nil {
		return dto.BookingView{}, err
	}
	return dto.MapBookingView(bk), nil
}

type ListUserBookingsQuery struct {
	UserID string
}

func (q ListUserBookingsQuery) Key() string { return listUserBookingsKey }

type ListUserBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListUserBookingsHandler) Handle(ctx context.Context, q ListUserBookingsQuery) (dto.BookingCollection, error) {
	userID := strings.TrimSpace(q.UserID)
	if userID == "" {
		return dto.BookingCollection{}, domainbooking.ErrUserRequired
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	bookings, err := unit.Bookings().ListByUser(execCtx, userID)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	return dto.MapBookingCollection(bookings), nil
}

var _ queries.Handler[GetBookingQuery, dto.BookingView] = (*GetBookingHandler)(nil)
var _ queries.Handler[ListUserBookingsQuery, dto.BookingCollection] = (*ListUserBookingsHandler)(nil)
