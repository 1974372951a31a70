package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/outbox"
	domainbooking "staymarket/internal/domain/booking"
)

const recordPaymentKey = "booking.record_payment"

var ErrTransactionIDRequired = errors.New("booking: payment transaction id is required")

type RecordPaymentCommand struct {
	BookingID     string
	TransactionID string
}

func (c RecordPaymentCommand) Key() string { return recordPaymentKey }

type RecordPaymentResult struct {
	BookingID     string `json:"booking_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// RecordPaymentHandler marks the attached payment as captured by the
// provider. A pending booking confirms in the same step so a paid guest
// never sits in request-to-book limbo.
type RecordPaymentHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *RecordPaymentHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (*RecordPaymentResult, error) {
	txID := strings.TrimSpace(cmd.TransactionID)
	if txID == "" {
		return nil, ErrTransactionIDRequired
	}
	bk, unit, err := loadBooking(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := bk.CapturePayment(txID, now); err != nil {
		return nil, err
	}
	if bk.Status == domainbooking.StatusPending {
		if err := bk.Confirm(now); err != nil {
			return nil, err
		}
	}
	if err := unit.Bookings().Save(ctx, bk); err != nil {
		return nil, err
	}
	if err := drainEvents(ctx, h.Outbox, eventEncoder(h.Encoder), &bk.EventRecorder); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("booking payment captured", "booking_id", bk.ID, "provider_tx", txID)
	}
	return &RecordPaymentResult{
		BookingID:     string(bk.ID),
		Status:        string(bk.Status),
		PaymentStatus: string(bk.PaymentStatus),
	}, nil
}

var _ commands.Handler[RecordPaymentCommand, *RecordPaymentResult] = (*RecordPaymentHandler)(nil)
