package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/dto"
	bookingapp "staymarket/internal/app/handlers/booking"
	"staymarket/internal/app/queries"
	domainaccommodation "staymarket/internal/domain/accommodation"
	domainavailability "staymarket/internal/domain/availability"
	domainbooking "staymarket/internal/domain/booking"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createBookingRequest struct {
	AccommodationID string    `json:"accommodation_id"`
	UserID          string    `json:"user_id"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	Guests          int       `json:"guests"`
	Adults          int       `json:"adults"`
	Children        int       `json:"children"`
	Infants         int       `json:"infants"`
	PaymentMethod   string    `json:"payment_method"`
	SpecialRequests string    `json:"special_requests"`
	MessageToHost   string    `json:"message_to_host"`
}

func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		CommandID:       generateCommandID(),
		AccommodationID: req.AccommodationID,
		UserID:          req.UserID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests: domainbooking.GuestCounts{
			Total:    req.Guests,
			Adults:   req.Adults,
			Children: req.Children,
			Infants:  req.Infants,
		},
		PaymentMethod:   req.PaymentMethod,
		SpecialRequests: req.SpecialRequests,
		MessageToHost:   req.MessageToHost,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, *bookingapp.CreateBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	q := bookingapp.GetBookingQuery{BookingID: c.Param("id")}
	view, err := queries.Ask[bookingapp.GetBookingQuery, dto.BookingView](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h BookingHandler) ListByUser(c *gin.Context) {
	q := bookingapp.ListUserBookingsQuery{UserID: c.Param("id")}
	collection, err := queries.Ask[bookingapp.ListUserBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

func (h BookingHandler) Confirm(c *gin.Context) {
	cmd := bookingapp.ConfirmBookingCommand{BookingID: c.Param("id")}
	result, err := commands.Dispatch[bookingapp.ConfirmBookingCommand, *bookingapp.LifecycleResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type recordPaymentRequest struct {
	TransactionID string `json:"transaction_id"`
}

func (h BookingHandler) Pay(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.RecordPaymentCommand{
		BookingID:     c.Param("id"),
		TransactionID: req.TransactionID,
	}
	result, err := commands.Dispatch[bookingapp.RecordPaymentCommand, *bookingapp.RecordPaymentResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type cancelBookingRequest struct {
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelled_by"`
}

func (h BookingHandler) Cancel(c *gin.Context) {
	var req cancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	cmd := bookingapp.CancelBookingCommand{
		BookingID:   c.Param("id"),
		Reason:      req.Reason,
		CancelledBy: req.CancelledBy,
	}
	result, err := commands.Dispatch[bookingapp.CancelBookingCommand, *bookingapp.CancelBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Complete(c *gin.Context) {
	cmd := bookingapp.CompleteBookingCommand{BookingID: c.Param("id")}
	result, err := commands.Dispatch[bookingapp.CompleteBookingCommand, *bookingapp.LifecycleResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) NoShow(c *gin.Context) {
	cmd := bookingapp.MarkNoShowCommand{BookingID: c.Param("id")}
	result, err := commands.Dispatch[bookingapp.MarkNoShowCommand, *bookingapp.LifecycleResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func generateCommandID() string {
	return uuid.NewString()
}

// respondError maps domain sentinels onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainbooking.ErrNotFound),
		errors.Is(err, domainaccommodation.ErrNotFound),
		errors.Is(err, domainavailability.ErrBlockNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, bookingapp.ErrDatesUnavailable),
		errors.Is(err, domainavailability.ErrOverlappingBlock),
		errors.Is(err, domainbooking.ErrInvalidTransition),
		errors.Is(err, domainbooking.ErrInvalidPaymentChange),
		errors.Is(err, domainbooking.ErrPaymentMissing):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

var _ BookingHTTP = BookingHandler{}
