package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"staymarket/internal/app/policies"
	"staymarket/internal/app/uow"
	domainaccommodation "staymarket/internal/domain/accommodation"
	domainbooking "staymarket/internal/domain/booking"
	domainpricing "staymarket/internal/domain/pricing"
	domainrange "staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/money"
	"staymarket/internal/infra/storage/memory"
)

// quoter prices with the real engine under fixed fees, keeping the test
// independent of infra wiring.
type quoter struct {
	fees domainpricing.FeeConfig
}

func (q quoter) Quote(ctx context.Context, acc *domainaccommodation.Accommodation, dr domainrange.DateRange, guests int) (domainpricing.Quote, error) {
	return domainpricing.BuildQuote(q.fees, acc.Policy, dr, guests)
}

var _ policies.PricingPort = quoter{}

// refundRecorder captures refund instructions instead of calling a provider.
type refundRecorder struct {
	bookingID string
	amount    money.Money
	calls     int
}

func (r *refundRecorder) Refund(ctx context.Context, bookingID string, amount money.Money) error {
	r.bookingID = bookingID
	r.amount = amount
	r.calls++
	return nil
}

var _ policies.PaymentsPort = (*refundRecorder)(nil)

type testEnv struct {
	factory  memory.Factory
	bookings *memory.BookingRepository
	box      *memory.Outbox
	acc      *domainaccommodation.Accommodation
}

func newTestEnv(t *testing.T, instantBook bool) *testEnv {
	t.Helper()
	accRepo := memory.NewAccommodationRepository()
	bookingRepo := memory.NewBookingRepository()
	calendarRepo := memory.NewCalendarRepository()

	now := time.Now().UTC()
	acc, err := domainaccommodation.New(domainaccommodation.CreateParams{
		ID:    "acc-1",
		Host:  "host-1",
		Title: "Canal Loft",
		City:  "Amsterdam",
		Policy: domainaccommodation.Policy{
			MaxGuests:         4,
			MinimumNights:     1,
			BasePricePerNight: money.MustParse("100.00", "EUR"),
			Cancellation:      domainaccommodation.PolicyModerate,
			InstantBook:       instantBook,
		},
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("accommodation.New() error = %v", err)
	}
	acc.Approve(now)
	if err := accRepo.Save(context.Background(), acc); err != nil {
		t.Fatalf("seed accommodation: %v", err)
	}

	return &testEnv{
		factory: memory.Factory{
			AccommodationRepo: accRepo,
			BookingRepo:       bookingRepo,
			CalendarRepo:      calendarRepo,
		},
		bookings: bookingRepo,
		box:      memory.NewOutbox(),
		acc:      acc,
	}
}

func (e *testEnv) createHandler() *CreateBookingHandler {
	return &CreateBookingHandler{
		UoWFactory: e.factory,
		Pricing:    quoter{fees: testFees()},
		Outbox:     e.box,
	}
}

func (e *testEnv) unitContext(t *testing.T) context.Context {
	t.Helper()
	unit, err := e.factory.Begin(context.Background(), uow.TxOptions{})
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	return uow.ContextWithUnitOfWork(context.Background(), unit)
}

func testFees() domainpricing.FeeConfig {
	return domainpricing.FeeConfig{
		ServiceFeePercent:  decimal.NewFromInt(10),
		CleaningFeePercent: decimal.NewFromInt(5),
		TaxRate:            decimal.RequireFromString("0.08"),
	}
}

func futureStay(nights int) (time.Time, time.Time) {
	checkIn := time.Now().UTC().AddDate(0, 2, 0).Truncate(24 * time.Hour)
	return checkIn, checkIn.AddDate(0, 0, nights)
}

func createCommand(id string, checkIn, checkOut time.Time, guests int) CreateBookingCommand {
	return CreateBookingCommand{
		CommandID:       id,
		AccommodationID: "acc-1",
		UserID:          "user-1",
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          domainbooking.GuestCounts{Total: guests, Adults: guests},
	}
}

func TestCreateBookingHandler(t *testing.T) {
	checkIn, checkOut := futureStay(4)

	t.Run("request-to-book stays pending", func(t *testing.T) {
		env := newTestEnv(t, false)
		res, err := env.createHandler().Handle(context.Background(), createCommand("bk-1", checkIn, checkOut, 2))
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if res.Status != string(domainbooking.StatusPending) {
			t.Errorf("Status = %s, want PENDING", res.Status)
		}

		stored, err := env.bookings.ByID(context.Background(), domainbooking.BookingID(res.BookingID))
		if err != nil {
			t.Fatalf("ByID() error = %v", err)
		}
		if stored.Nights != 4 {
			t.Errorf("Nights = %d, want 4", stored.Nights)
		}
		if stored.Cancellation != domainaccommodation.PolicyModerate {
			t.Errorf("Cancellation = %s, want snapshot of the accommodation tier", stored.Cancellation)
		}
		if stored.Price.ServiceFee.IsZero() {
			t.Error("ServiceFee = 0, want the quoted fee applied")
		}
		if stored.Payment == nil {
			t.Fatal("Payment = nil, want a charge record attached at creation")
		}
		if !stored.Payment.Amount.Equal(stored.Price.TotalPrice) {
			t.Errorf("Payment.Amount = %s, want the booking total %s", stored.Payment.Amount, stored.Price.TotalPrice)
		}
		if stored.Payment.Method != domainbooking.PaymentMethodCard || stored.Payment.Provider != "STRIPE" {
			t.Errorf("Payment method/provider = %s/%s, want CARD/STRIPE defaults", stored.Payment.Method, stored.Payment.Provider)
		}
	})

	t.Run("instant book confirms immediately", func(t *testing.T) {
		env := newTestEnv(t, true)
		res, err := env.createHandler().Handle(context.Background(), createCommand("bk-1", checkIn, checkOut, 2))
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if res.Status != string(domainbooking.StatusConfirmed) {
			t.Errorf("Status = %s, want CONFIRMED", res.Status)
		}
	})

	t.Run("overlapping dates conflict", func(t *testing.T) {
		env := newTestEnv(t, false)
		h := env.createHandler()
		if _, err := h.Handle(context.Background(), createCommand("bk-1", checkIn, checkOut, 2)); err != nil {
			t.Fatalf("first Handle() error = %v", err)
		}
		_, err := h.Handle(context.Background(), createCommand("bk-2", checkIn.AddDate(0, 0, 2), checkOut.AddDate(0, 0, 2), 2))
		if !errors.Is(err, ErrDatesUnavailable) {
			t.Errorf("second Handle() error = %v, want ErrDatesUnavailable", err)
		}
	})

	t.Run("back-to-back stay allowed", func(t *testing.T) {
		env := newTestEnv(t, false)
		h := env.createHandler()
		if _, err := h.Handle(context.Background(), createCommand("bk-1", checkIn, checkOut, 2)); err != nil {
			t.Fatalf("first Handle() error = %v", err)
		}
		if _, err := h.Handle(context.Background(), createCommand("bk-2", checkOut, checkOut.AddDate(0, 0, 3), 2)); err != nil {
			t.Errorf("back-to-back Handle() error = %v", err)
		}
	})

	t.Run("too many guests", func(t *testing.T) {
		env := newTestEnv(t, false)
		_, err := env.createHandler().Handle(context.Background(), createCommand("bk-1", checkIn, checkOut, 5))
		if !errors.Is(err, ErrDatesUnavailable) {
			t.Errorf("Handle() error = %v, want ErrDatesUnavailable", err)
		}
	})

	t.Run("unapproved accommodation rejected", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.acc.Reject(time.Now().UTC())
		_, err := env.createHandler().Handle(context.Background(), createCommand("bk-1", checkIn, checkOut, 2))
		if !errors.Is(err, domainaccommodation.ErrNotBookable) {
			t.Errorf("Handle() error = %v, want ErrNotBookable", err)
		}
	})

	t.Run("past check-in rejected", func(t *testing.T) {
		env := newTestEnv(t, false)
		past := time.Now().UTC().AddDate(0, 0, -10)
		_, err := env.createHandler().Handle(context.Background(), createCommand("bk-1", past, past.AddDate(0, 0, 3), 2))
		if !errors.Is(err, domainbooking.ErrCheckInPast) {
			t.Errorf("Handle() error = %v, want ErrCheckInPast", err)
		}
	})
}

func TestCancelBookingHandler(t *testing.T) {
	checkIn, checkOut := futureStay(4)

	t.Run("paid booking refunded in full with enough notice", func(t *testing.T) {
		env := newTestEnv(t, true)
		created, err := env.createHandler().Handle(context.Background(), createCommand("bk-1", checkIn, checkOut, 2))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		pay := &RecordPaymentHandler{Outbox: env.box}
		if _, err := pay.Handle(env.unitContext(t), RecordPaymentCommand{BookingID: created.BookingID, TransactionID: "tx-1"}); err != nil {
			t.Fatalf("record payment: %v", err)
		}
		stored, _ := env.bookings.ByID(context.Background(), domainbooking.BookingID(created.BookingID))

		recorder := &refundRecorder{}
		cancel := &CancelBookingHandler{Payments: recorder, Outbox: env.box}
		res, err := cancel.Handle(env.unitContext(t), CancelBookingCommand{BookingID: created.BookingID, Reason: "plans changed", CancelledBy: "guest"})
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if res.Status != string(domainbooking.StatusCancelled) {
			t.Errorf("Status = %s, want CANCELLED", res.Status)
		}
		if res.Refund == nil {
			t.Fatal("Refund = nil, want the computed amount for a paid booking")
		}
		// MODERATE with two months of notice refunds everything
		if !res.Refund.Equal(stored.Price.TotalPrice) {
			t.Errorf("Refund = %s, want %s", res.Refund, stored.Price.TotalPrice)
		}
		if recorder.calls != 1 || recorder.bookingID != created.BookingID || !recorder.amount.Equal(stored.Price.TotalPrice) {
			t.Errorf("refund instruction = %+v, want one call for %s over %s", recorder, created.BookingID, stored.Price.TotalPrice)
		}
		if stored.PaymentStatus != domainbooking.PaymentRefunded {
			t.Errorf("PaymentStatus = %s, want REFUNDED", stored.PaymentStatus)
		}

		// the nights must be free for rebooking
		if _, err := env.createHandler().Handle(context.Background(), createCommand("bk-2", checkIn, checkOut, 2)); err != nil {
			t.Errorf("rebooking after cancel error = %v", err)
		}
	})

	t.Run("unpaid booking cancels without refund", func(t *testing.T) {
		env := newTestEnv(t, false)
		created, err := env.createHandler().Handle(context.Background(), createCommand("bk-1", checkIn, checkOut, 2))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		cancel := &CancelBookingHandler{Outbox: env.box}
		res, err := cancel.Handle(env.unitContext(t), CancelBookingCommand{BookingID: created.BookingID})
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if res.Refund != nil {
			t.Errorf("Refund = %s, want nil for an unpaid booking", res.Refund)
		}
	})

	t.Run("cancelling twice is an invalid transition", func(t *testing.T) {
		env := newTestEnv(t, false)
		created, err := env.createHandler().Handle(context.Background(), createCommand("bk-1", checkIn, checkOut, 2))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		cancel := &CancelBookingHandler{Outbox: env.box}
		if _, err := cancel.Handle(env.unitContext(t), CancelBookingCommand{BookingID: created.BookingID}); err != nil {
			t.Fatalf("first cancel: %v", err)
		}
		_, err = cancel.Handle(env.unitContext(t), CancelBookingCommand{BookingID: created.BookingID})
		if !errors.Is(err, domainbooking.ErrInvalidTransition) {
			t.Errorf("second cancel error = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestRecordPaymentHandler(t *testing.T) {
	checkIn, checkOut := futureStay(3)

	t.Run("capture pays and confirms a pending booking", func(t *testing.T) {
		env := newTestEnv(t, false)
		created, err := env.createHandler().Handle(context.Background(), createCommand("bk-1", checkIn, checkOut, 2))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		pay := &RecordPaymentHandler{Outbox: env.box}
		res, err := pay.Handle(env.unitContext(t), RecordPaymentCommand{BookingID: created.BookingID, TransactionID: "tx-42"})
		if err != nil {
			t.Fatalf("record payment: %v", err)
		}
		if res.Status != string(domainbooking.StatusConfirmed) {
			t.Errorf("Status = %s, want CONFIRMED after capture", res.Status)
		}
		if res.PaymentStatus != string(domainbooking.PaymentPaid) {
			t.Errorf("PaymentStatus = %s, want PAID", res.PaymentStatus)
		}

		stored, _ := env.bookings.ByID(context.Background(), domainbooking.BookingID(created.BookingID))
		if stored.Payment == nil || stored.Payment.ProviderTx != "tx-42" {
			t.Errorf("Payment = %+v, want the provider transaction stamped", stored.Payment)
		}
	})

	t.Run("capturing twice is rejected", func(t *testing.T) {
		env := newTestEnv(t, false)
		created, err := env.createHandler().Handle(context.Background(), createCommand("bk-1", checkIn, checkOut, 2))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		pay := &RecordPaymentHandler{Outbox: env.box}
		if _, err := pay.Handle(env.unitContext(t), RecordPaymentCommand{BookingID: created.BookingID, TransactionID: "tx-1"}); err != nil {
			t.Fatalf("first capture: %v", err)
		}
		_, err = pay.Handle(env.unitContext(t), RecordPaymentCommand{BookingID: created.BookingID, TransactionID: "tx-2"})
		if !errors.Is(err, domainbooking.ErrInvalidPaymentChange) {
			t.Errorf("second capture error = %v, want ErrInvalidPaymentChange", err)
		}
	})

	t.Run("transaction id required", func(t *testing.T) {
		env := newTestEnv(t, false)
		pay := &RecordPaymentHandler{Outbox: env.box}
		_, err := pay.Handle(env.unitContext(t), RecordPaymentCommand{BookingID: "bk-1", TransactionID: "  "})
		if !errors.Is(err, ErrTransactionIDRequired) {
			t.Errorf("Handle() error = %v, want ErrTransactionIDRequired", err)
		}
	})
}

func TestLifecycleHandlers(t *testing.T) {
	checkIn, checkOut := futureStay(3)

	env := newTestEnv(t, false)
	created, err := env.createHandler().Handle(context.Background(), createCommand("bk-1", checkIn, checkOut, 2))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	confirm := &ConfirmBookingHandler{Outbox: env.box}
	res, err := confirm.Handle(env.unitContext(t), ConfirmBookingCommand{BookingID: created.BookingID})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if res.Status != string(domainbooking.StatusConfirmed) {
		t.Errorf("Status = %s, want CONFIRMED", res.Status)
	}

	complete := &CompleteBookingHandler{Outbox: env.box}
	res, err = complete.Handle(env.unitContext(t), CompleteBookingCommand{BookingID: created.BookingID})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.Status != string(domainbooking.StatusCompleted) {
		t.Errorf("Status = %s, want COMPLETED", res.Status)
	}
}

func TestMarkNoShowHandler_FreesCalendar(t *testing.T) {
	checkIn, checkOut := futureStay(3)

	env := newTestEnv(t, true)
	created, err := env.createHandler().Handle(context.Background(), createCommand("bk-1", checkIn, checkOut, 2))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	noShow := &MarkNoShowHandler{Outbox: env.box}
	res, err := noShow.Handle(env.unitContext(t), MarkNoShowCommand{BookingID: created.BookingID})
	if err != nil {
		t.Fatalf("no-show: %v", err)
	}
	if res.Status != string(domainbooking.StatusNoShow) {
		t.Errorf("Status = %s, want NO_SHOW", res.Status)
	}

	if _, err := env.createHandler().Handle(context.Background(), createCommand("bk-2", checkIn, checkOut, 2)); err != nil {
		t.Errorf("rebooking after no-show error = %v", err)
	}
}

func TestLifecycleHandlers_RequireUnitOfWork(t *testing.T) {
	env := newTestEnv(t, false)
	confirm := &ConfirmBookingHandler{Outbox: env.box}
	_, err := confirm.Handle(context.Background(), ConfirmBookingCommand{BookingID: "bk-1"})
	if !errors.Is(err, uow.ErrUnitOfWorkMissing) {
		t.Errorf("Handle() without unit error = %v, want ErrUnitOfWorkMissing", err)
	}
}

func TestBookingQueries(t *testing.T) {
	checkIn, checkOut := futureStay(3)

	env := newTestEnv(t, false)
	created, err := env.createHandler().Handle(context.Background(), createCommand("bk-1", checkIn, checkOut, 2))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	get := &GetBookingHandler{UoWFactory: env.factory}
	view, err := get.Handle(context.Background(), GetBookingQuery{BookingID: created.BookingID})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.ID != created.BookingID || view.Status != string(domainbooking.StatusPending) {
		t.Errorf("view = %+v, want id %s in PENDING", view, created.BookingID)
	}

	if _, err := get.Handle(context.Background(), GetBookingQuery{BookingID: "missing"}); !errors.Is(err, domainbooking.ErrNotFound) {
		t.Errorf("get missing error = %v, want ErrNotFound", err)
	}

	list := &ListUserBookingsHandler{UoWFactory: env.factory}
	collection, err := list.Handle(context.Background(), ListUserBookingsQuery{UserID: "user-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(collection.Items) != 1 {
		t.Errorf("list count = %d, want 1", len(collection.Items))
	}
}
