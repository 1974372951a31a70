package pricing

import (
	"context"
	"errors"
	"strings"
	"time"

	"staymarket/internal/app/dto"
	handlersupport "staymarket/internal/app/handlers/support"
	"staymarket/internal/app/policies"
	"staymarket/internal/app/queries"
	"staymarket/internal/app/uow"
	domainaccommodation "staymarket/internal/domain/accommodation"
	domainrange "staymarket/internal/domain/shared/daterange"
)

const quotePriceKey = "pricing.quote"

var ErrAccommodationIDRequired = errors.New("pricing: accommodation id is required")

type QuotePriceQuery struct {
	AccommodationID string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
}

func (q QuotePriceQuery) Key() string { return quotePriceKey }

type QuotePriceHandler struct {
	UoWFactory uow.UoWFactory
	Pricing    policies.PricingPort
}

func (h *QuotePriceHandler) Handle(ctx context.Context, q QuotePriceQuery) (dto.QuoteView, error) {
	id := strings.TrimSpace(q.AccommodationID)
	if id == "" {
		return dto.QuoteView{}, ErrAccommodationIDRequired
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.QuoteView{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	dr, err := domainrange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.QuoteView{}, err
	}
	acc, err := unit.Accommodations().ByID(execCtx, domainaccommodation.AccommodationID(id))
	if err != nil {
		return dto.QuoteView{}, err
	}
	quote, err := h.Pricing.Quote(execCtx, acc, dr, q.Guests)
	if err != nil {
		return dto.QuoteView{}, err
	}
	return dto.MapQuote(quote), nil
}

var _ queries.Handler[QuotePriceQuery, dto.QuoteView] = (*QuotePriceHandler)(nil)
