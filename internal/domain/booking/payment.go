package booking

import (
	"errors"
	"time"

	"staymarket/internal/domain/shared/money"
)

var (
	ErrPaymentAmount   = errors.New("booking: payment amount must be positive")
	ErrPaymentMethod   = errors.New("booking: payment method is required")
	ErrPaymentProvider = errors.New("booking: payment provider is required")
)

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodWallet       PaymentMethod = "WALLET"
)

// Payment is the charge record attached to a booking. It belongs to the
// booking aggregate and carries the amount actually quoted at checkout,
// which may differ from the aggregate breakdown when the quote included
// seasonal or guest adjustments.
type Payment struct {
	BookingID  BookingID
	Amount     money.Money
	Method     PaymentMethod
	Provider   string
	ProviderTx string
	CreatedAt  time.Time
}

func NewPayment(bookingID BookingID, amount money.Money, method PaymentMethod, provider string, now time.Time) (*Payment, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, ErrPaymentAmount
	}
	if method == "" {
		return nil, ErrPaymentMethod
	}
	if provider == "" {
		return nil, ErrPaymentProvider
	}
	return &Payment{
		BookingID: bookingID,
		Amount:    amount,
		Method:    method,
		Provider:  provider,
		CreatedAt: now.UTC(),
	}, nil
}
