package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"staymarket/internal/app/commands"
	accommodationapp "staymarket/internal/app/handlers/accommodation"
	availabilityapp "staymarket/internal/app/handlers/availability"
	bookingapp "staymarket/internal/app/handlers/booking"
	pricingapp "staymarket/internal/app/handlers/pricing"
	"staymarket/internal/app/middleware"
	"staymarket/internal/app/outbox"
	"staymarket/internal/app/queries"
	"staymarket/internal/app/uow"
	domainaccommodation "staymarket/internal/domain/accommodation"
	"staymarket/internal/domain/shared/money"
	"staymarket/internal/infra/broker/kafka"
	"staymarket/internal/infra/config"
	mongodb "staymarket/internal/infra/db/mongo"
	ginserver "staymarket/internal/infra/http/gin"
	"staymarket/internal/infra/obs"
	infraoutbox "staymarket/internal/infra/outbox"
	infrapayments "staymarket/internal/infra/payments"
	infrapricing "staymarket/internal/infra/pricing"
	"staymarket/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	fixturesPath := getenv("ACCOMMODATION_FIXTURES", "")
	if fixturesPath == "" {
		fixturesPath = defaultFixturesPath()
	}
	if err := app.loadAccommodationFixtures(ctx, fixturesPath, logger); err != nil {
		logger.Warn("accommodation fixtures load failed", "error", err, "path", fixturesPath)
	}

	if app.outboxWorker != nil {
		go func() {
			if err := app.outboxWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		if app.producer != nil {
			if err := app.producer.Close(); err != nil {
				logger.Error("kafka producer close failed", "error", err)
			}
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers     ginserver.Handlers
	uowFactory   uow.UoWFactory
	accRepo      domainaccommodation.Repository
	producer     *kafka.Producer
	outboxWorker *infraoutbox.Worker
	ready        func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		app        application
		outboxImpl outbox.Outbox
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo connect: %w", err)
		}
		accRepo := mongodb.NewAccommodationRepository(client.DB)
		bookingRepo := mongodb.NewBookingRepository(client.DB)
		calendarRepo := mongodb.NewCalendarRepository(client.DB)
		app.uowFactory = mongodb.Factory{
			DB:                client.DB,
			AccommodationRepo: accRepo,
			BookingRepo:       bookingRepo,
			CalendarRepo:      calendarRepo,
		}
		app.accRepo = accRepo
		store := infraoutbox.NewStore(client.DB)
		outboxImpl = store
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}

		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return application{}, fmt.Errorf("kafka connect: %w", err)
			}
			app.producer = producer
			app.outboxWorker = &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
		}
	default:
		accRepo := memory.NewAccommodationRepository()
		bookingRepo := memory.NewBookingRepository()
		calendarRepo := memory.NewCalendarRepository()
		app.uowFactory = memory.Factory{
			AccommodationRepo: accRepo,
			BookingRepo:       bookingRepo,
			CalendarRepo:      calendarRepo,
		}
		app.accRepo = accRepo
		outboxImpl = memory.NewOutbox()
		app.ready = func() error { return nil }
	}

	idStore := memory.NewIdempotencyStore(cfg.IdempotencyTTL)
	pricingPort := &infrapricing.FeeQuoter{Fees: cfg.Fees, Logger: logger}
	paymentsPort := &infrapayments.Gateway{Logger: logger}
	encoder := outbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{
		UoWFactory: app.uowFactory,
		Pricing:    pricingPort,
		Outbox:     outboxImpl,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.ConfirmBookingCommand{}.Key(), &bookingapp.ConfirmBookingHandler{
		Outbox: outboxImpl, Encoder: encoder, Logger: logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.RecordPaymentCommand{}.Key(), &bookingapp.RecordPaymentHandler{
		Outbox: outboxImpl, Encoder: encoder, Logger: logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		Payments: paymentsPort, Outbox: outboxImpl, Encoder: encoder, Logger: logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.CompleteBookingCommand{}.Key(), &bookingapp.CompleteBookingHandler{
		Outbox: outboxImpl, Encoder: encoder, Logger: logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.MarkNoShowCommand{}.Key(), &bookingapp.MarkNoShowHandler{
		Outbox: outboxImpl, Encoder: encoder, Logger: logger,
	})
	commands.RegisterHandler(commandBus, availabilityapp.BlockDatesCommand{}.Key(), &availabilityapp.BlockDatesHandler{
		Outbox: outboxImpl, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, availabilityapp.UnblockDatesCommand{}.Key(), &availabilityapp.UnblockDatesHandler{
		Outbox: outboxImpl, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, accommodationapp.CreateAccommodationCommand{}.Key(), &accommodationapp.CreateAccommodationHandler{
		DefaultCurrency: cfg.DefaultCurrency,
		Logger:          logger,
	})
	commands.RegisterHandler(commandBus, accommodationapp.ReviewAccommodationCommand{}.Key(), &accommodationapp.ReviewAccommodationHandler{
		Logger: logger,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, bookingapp.GetBookingQuery{}.Key(), &bookingapp.GetBookingHandler{UoWFactory: app.uowFactory})
	queries.RegisterHandler(queryBus, bookingapp.ListUserBookingsQuery{}.Key(), &bookingapp.ListUserBookingsHandler{UoWFactory: app.uowFactory})
	queries.RegisterHandler(queryBus, availabilityapp.CheckAvailabilityQuery{}.Key(), &availabilityapp.CheckAvailabilityHandler{UoWFactory: app.uowFactory})
	queries.RegisterHandler(queryBus, availabilityapp.ListAvailableDatesQuery{}.Key(), &availabilityapp.ListAvailableDatesHandler{UoWFactory: app.uowFactory})
	queries.RegisterHandler(queryBus, availabilityapp.NextAvailableDateQuery{}.Key(), &availabilityapp.NextAvailableDateHandler{UoWFactory: app.uowFactory})
	queries.RegisterHandler(queryBus, availabilityapp.GetCalendarQuery{}.Key(), &availabilityapp.GetCalendarHandler{UoWFactory: app.uowFactory})
	queries.RegisterHandler(queryBus, accommodationapp.GetAccommodationQuery{}.Key(), &accommodationapp.GetAccommodationHandler{UoWFactory: app.uowFactory})
	queries.RegisterHandler(queryBus, pricingapp.QuotePriceQuery{}.Key(), &pricingapp.QuotePriceHandler{UoWFactory: app.uowFactory, Pricing: pricingPort})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(app.uowFactory, nil),
		middleware.OutboxFlush(outboxImpl),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app.handlers = ginserver.Handlers{
		Booking: ginserver.BookingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Availability: ginserver.AvailabilityHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Accommodation: ginserver.AccommodationHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Pricing: ginserver.PricingHandler{
			Queries: queryBusWithMiddleware,
		},
	}
	return app, nil
}

func (a application) loadAccommodationFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("accommodation fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("accommodation fixtures file empty", "path", path)
		return nil
	}

	var fixtures []accommodationFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now().UTC()
	for _, fx := range fixtures {
		nightly, err := money.Parse(fx.NightlyAmount, fx.Currency)
		if err != nil {
			logger.Error("fixture nightly rate invalid", "accommodation_id", fx.ID, "error", err)
			continue
		}
		acc, err := domainaccommodation.New(domainaccommodation.CreateParams{
			ID:      domainaccommodation.AccommodationID(fx.ID),
			Host:    domainaccommodation.HostID(fx.Host),
			Title:   fx.Title,
			City:    fx.City,
			Country: fx.Country,
			Policy: domainaccommodation.Policy{
				MaxGuests:         fx.MaxGuests,
				MinimumNights:     fx.MinNights,
				MaximumNights:     fx.MaxNights,
				BasePricePerNight: nightly,
				Cancellation:      domainaccommodation.CancellationPolicy(strings.ToUpper(fx.Cancellation)),
				InstantBook:       fx.InstantBook,
			},
			CreatedAt: now,
		})
		if err != nil {
			logger.Error("fixture invalid", "accommodation_id", fx.ID, "error", err)
			continue
		}
		acc.Approve(now)
		if err := a.accRepo.Save(ctx, acc); err != nil {
			logger.Error("cannot store fixture accommodation", "accommodation_id", fx.ID, "error", err)
			continue
		}
		logger.Info("accommodation fixture imported", "accommodation_id", acc.ID)
	}
	return nil
}

type accommodationFixture struct {
	ID            string `json:"id"`
	Host          string `json:"host"`
	Title         string `json:"title"`
	City          string `json:"city"`
	Country       string `json:"country"`
	MaxGuests     int    `json:"max_guests"`
	MinNights     int    `json:"min_nights"`
	MaxNights     int    `json:"max_nights"`
	NightlyAmount string `json:"nightly_amount"`
	Currency      string `json:"currency"`
	Cancellation  string `json:"cancellation_policy"`
	InstantBook   bool   `json:"instant_book"`
}

func defaultFixturesPath() string {
	return filepath.Join("data", "accommodations.json")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
