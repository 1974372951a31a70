package ginserver

import (
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/dto"
	availabilityapp "staymarket/internal/app/handlers/availability"
	"staymarket/internal/app/queries"
)

type AvailabilityHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h AvailabilityHandler) Check(c *gin.Context) {
	checkIn, checkOut, ok := parseStayWindow(c)
	if !ok {
		return
	}
	guests, _ := strconv.Atoi(c.Query("guests"))
	q := availabilityapp.CheckAvailabilityQuery{
		AccommodationID: c.Param("id"),
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          guests,
	}
	result, err := queries.Ask[availabilityapp.CheckAvailabilityQuery, availabilityapp.CheckAvailabilityResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) Dates(c *gin.Context) {
	from, to, ok := parseWindowParams(c, "from", "to")
	if !ok {
		return
	}
	q := availabilityapp.ListAvailableDatesQuery{
		AccommodationID: c.Param("id"),
		From:            from,
		To:              to,
	}
	result, err := queries.Ask[availabilityapp.ListAvailableDatesQuery, dto.AvailableDates](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) NextDate(c *gin.Context) {
	searchFrom := time.Now().UTC()
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		searchFrom = parsed
	}
	minNights, _ := strconv.Atoi(c.Query("min_nights"))
	q := availabilityapp.NextAvailableDateQuery{
		AccommodationID: c.Param("id"),
		SearchFrom:      searchFrom,
		MinNights:       minNights,
	}
	result, err := queries.Ask[availabilityapp.NextAvailableDateQuery, dto.NextAvailableDate](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) Calendar(c *gin.Context) {
	q := availabilityapp.GetCalendarQuery{AccommodationID: c.Param("id")}
	result, err := queries.Ask[availabilityapp.GetCalendarQuery, dto.Calendar](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type blockDatesRequest struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Reference string    `json:"reference"`
}

func (h AvailabilityHandler) Block(c *gin.Context) {
	var req blockDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := availabilityapp.BlockDatesCommand{
		AccommodationID: c.Param("id"),
		From:            req.From,
		To:              req.To,
		Reference:       req.Reference,
	}
	result, err := commands.Dispatch[availabilityapp.BlockDatesCommand, *availabilityapp.BlockDatesResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h AvailabilityHandler) Unblock(c *gin.Context) {
	cmd := availabilityapp.UnblockDatesCommand{
		AccommodationID: c.Param("id"),
		Reference:       c.Param("reference"),
	}
	result, err := commands.Dispatch[availabilityapp.UnblockDatesCommand, *availabilityapp.BlockDatesResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseStayWindow(c *gin.Context) (time.Time, time.Time, bool) {
	return parseWindowParams(c, "check_in", "check_out")
}

func parseWindowParams(c *gin.Context, fromKey, toKey string) (time.Time, time.Time, bool) {
	from, err := time.Parse(time.RFC3339, c.Query(fromKey))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + fromKey + " date"})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(time.RFC3339, c.Query(toKey))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + toKey + " date"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

var _ AvailabilityHTTP = AvailabilityHandler{}
