package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"staymarket/internal/app/dto"
	pricingapp "staymarket/internal/app/handlers/pricing"
	"staymarket/internal/app/queries"
)

type PricingHandler struct {
	Queries queries.Bus
}

func (h PricingHandler) Quote(c *gin.Context) {
	checkIn, checkOut, ok := parseStayWindow(c)
	if !ok {
		return
	}
	guests, err := strconv.Atoi(c.Query("guests"))
	if err != nil || guests <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guests must be a positive number"})
		return
	}
	q := pricingapp.QuotePriceQuery{
		AccommodationID: c.Param("id"),
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          guests,
	}
	view, err := queries.Ask[pricingapp.QuotePriceQuery, dto.QuoteView](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

var _ PricingHTTP = PricingHandler{}
