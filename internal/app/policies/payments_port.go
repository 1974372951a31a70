package policies

import (
	"context"

	"staymarket/internal/domain/shared/money"
)

// PaymentsPort is the outbound boundary toward the payment provider. The
// cancel flow instructs a refund through it; charging happens out of
// process, so only the refund instruction crosses this port.
type PaymentsPort interface {
	Refund(ctx context.Context, bookingID string, amount money.Money) error
}
