package dto

import "staymarket/internal/domain/pricing"

type QuoteView struct {
	Nights      int      `json:"nights"`
	Nightly     MoneyDTO `json:"nightly"`
	Subtotal    MoneyDTO `json:"subtotal"`
	ServiceFee  MoneyDTO `json:"service_fee"`
	CleaningFee MoneyDTO `json:"cleaning_fee"`
	Tax         MoneyDTO `json:"tax"`
	Discount    MoneyDTO `json:"discount"`
	Total       MoneyDTO `json:"total"`
}

func MapQuote(q pricing.Quote) QuoteView {
	return QuoteView{
		Nights:      q.Nights,
		Nightly:     MapMoney(q.Nightly),
		Subtotal:    MapMoney(q.Subtotal),
		ServiceFee:  MapMoney(q.ServiceFee),
		CleaningFee: MapMoney(q.CleaningFee),
		Tax:         MapMoney(q.Tax),
		Discount:    MapMoney(q.Discount),
		Total:       MapMoney(q.Total),
	}
}
