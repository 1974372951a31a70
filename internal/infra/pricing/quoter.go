package pricing

import (
	"context"
	"errors"
	"log/slog"

	"staymarket/internal/app/policies"
	domainaccommodation "staymarket/internal/domain/accommodation"
	domainpricing "staymarket/internal/domain/pricing"
	domainrange "staymarket/internal/domain/shared/daterange"
)

// FeeQuoter prices stays with the domain engine under the platform fee
// configuration loaded at startup.
type FeeQuoter struct {
	Fees   domainpricing.FeeConfig
	Logger *slog.Logger
}

func (q *FeeQuoter) Quote(ctx context.Context, acc *domainaccommodation.Accommodation, dr domainrange.DateRange, guests int) (domainpricing.Quote, error) {
	if acc == nil {
		return domainpricing.Quote{}, errors.New("pricing: accommodation missing")
	}
	quote, err := domainpricing.BuildQuote(q.Fees, acc.Policy, dr, guests)
	if err != nil {
		return domainpricing.Quote{}, err
	}
	if q.Logger != nil {
		q.Logger.Debug("stay quoted",
			"accommodation_id", acc.ID,
			"nights", quote.Nights,
			"guests", guests,
			"total", quote.Total.String(),
		)
	}
	return quote, nil
}

var _ policies.PricingPort = (*FeeQuoter)(nil)
