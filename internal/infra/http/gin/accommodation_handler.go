package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staymarket/internal/app/commands"
	accommodationapp "staymarket/internal/app/handlers/accommodation"
	"staymarket/internal/app/queries"
)

type AccommodationHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createAccommodationRequest struct {
	HostID        string `json:"host_id"`
	Title         string `json:"title"`
	City          string `json:"city"`
	Country       string `json:"country"`
	MaxGuests     int    `json:"max_guests"`
	MinimumNights int    `json:"minimum_nights"`
	MaximumNights int    `json:"maximum_nights"`
	NightlyAmount string `json:"nightly_amount"`
	Currency      string `json:"currency"`
	Cancellation  string `json:"cancellation_policy"`
	InstantBook   bool   `json:"instant_book"`
}

func (h AccommodationHandler) Create(c *gin.Context) {
	var req createAccommodationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := accommodationapp.CreateAccommodationCommand{
		CommandID:     generateCommandID(),
		HostID:        req.HostID,
		Title:         req.Title,
		City:          req.City,
		Country:       req.Country,
		MaxGuests:     req.MaxGuests,
		MinimumNights: req.MinimumNights,
		MaximumNights: req.MaximumNights,
		NightlyAmount: req.NightlyAmount,
		Currency:      req.Currency,
		Cancellation:  req.Cancellation,
		InstantBook:   req.InstantBook,
	}
	result, err := commands.Dispatch[accommodationapp.CreateAccommodationCommand, *accommodationapp.CreateAccommodationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h AccommodationHandler) Get(c *gin.Context) {
	q := accommodationapp.GetAccommodationQuery{AccommodationID: c.Param("id")}
	view, err := queries.Ask[accommodationapp.GetAccommodationQuery, accommodationapp.AccommodationView](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type reviewAccommodationRequest struct {
	Approve bool `json:"approve"`
}

func (h AccommodationHandler) Review(c *gin.Context) {
	var req reviewAccommodationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := accommodationapp.ReviewAccommodationCommand{
		AccommodationID: c.Param("id"),
		Approve:         req.Approve,
	}
	result, err := commands.Dispatch[accommodationapp.ReviewAccommodationCommand, *accommodationapp.ReviewAccommodationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AccommodationHTTP = AccommodationHandler{}
