package policies

import (
	"context"

	domainaccommodation "staymarket/internal/domain/accommodation"
	domainpricing "staymarket/internal/domain/pricing"
	domainrange "staymarket/internal/domain/shared/daterange"
)

type PricingPort interface {
	Quote(ctx context.Context, acc *domainaccommodation.Accommodation, dr domainrange.DateRange, guests int) (domainpricing.Quote, error)
}
