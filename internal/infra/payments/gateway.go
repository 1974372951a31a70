package payments

import (
	"context"
	"log/slog"

	"staymarket/internal/app/policies"
	"staymarket/internal/domain/shared/money"
)

// Gateway acknowledges refund instructions toward the payment provider.
// The provider call itself happens out of process off the published
// booking events; this adapter records the instruction so the cancel flow
// has a concrete port to talk to.
type Gateway struct {
	Logger *slog.Logger
}

func (g *Gateway) Refund(ctx context.Context, bookingID string, amount money.Money) error {
	if g.Logger != nil {
		g.Logger.Info("refund instructed", "booking_id", bookingID, "amount", amount.String())
	}
	return nil
}

var _ policies.PaymentsPort = (*Gateway)(nil)
