package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"staymarket/internal/infra/config"
	"staymarket/internal/infra/obs"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	ListByUser(c *gin.Context)
	Confirm(c *gin.Context)
	Pay(c *gin.Context)
	Cancel(c *gin.Context)
	Complete(c *gin.Context)
	NoShow(c *gin.Context)
}

type AvailabilityHTTP interface {
	Check(c *gin.Context)
	Dates(c *gin.Context)
	NextDate(c *gin.Context)
	Calendar(c *gin.Context)
	Block(c *gin.Context)
	Unblock(c *gin.Context)
}

type AccommodationHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	Review(c *gin.Context)
}

type PricingHTTP interface {
	Quote(c *gin.Context)
}

type Handlers struct {
	Booking       BookingHTTP
	Availability  AvailabilityHTTP
	Accommodation AccommodationHTTP
	Pricing       PricingHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.GET("/bookings/:id", h.Booking.Get)
		api.GET("/users/:id/bookings", h.Booking.ListByUser)
		api.POST("/bookings/:id/confirm", h.Booking.Confirm)
		api.POST("/bookings/:id/payment", h.Booking.Pay)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.POST("/bookings/:id/complete", h.Booking.Complete)
		api.POST("/bookings/:id/no-show", h.Booking.NoShow)
	}
	if h.Availability != nil {
		api.GET("/accommodations/:id/availability", h.Availability.Check)
		api.GET("/accommodations/:id/available-dates", h.Availability.Dates)
		api.GET("/accommodations/:id/next-available-date", h.Availability.NextDate)
		api.GET("/accommodations/:id/calendar", h.Availability.Calendar)
		api.POST("/accommodations/:id/calendar/blocks", h.Availability.Block)
		api.DELETE("/accommodations/:id/calendar/blocks/:reference", h.Availability.Unblock)
	}
	if h.Accommodation != nil {
		api.POST("/accommodations", h.Accommodation.Create)
		api.GET("/accommodations/:id", h.Accommodation.Get)
		api.POST("/accommodations/:id/review", h.Accommodation.Review)
	}
	if h.Pricing != nil {
		api.GET("/accommodations/:id/quote", h.Pricing.Quote)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
