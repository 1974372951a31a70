package dto

import (
	"time"

	domainbooking "staymarket/internal/domain/booking"
	"staymarket/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type PriceBreakdownDTO struct {
	BasePricePerNight MoneyDTO `json:"base_price_per_night"`
	TotalBasePrice    MoneyDTO `json:"total_base_price"`
	ServiceFee        MoneyDTO `json:"service_fee"`
	CleaningFee       MoneyDTO `json:"cleaning_fee"`
	TaxAmount         MoneyDTO `json:"tax_amount"`
	DiscountAmount    MoneyDTO `json:"discount_amount"`
	TotalPrice        MoneyDTO `json:"total_price"`
}

type GuestCountsDTO struct {
	Total    int `json:"total"`
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

type BookingView struct {
	ID                 string            `json:"id"`
	AccommodationID    string            `json:"accommodation_id"`
	UserID             string            `json:"user_id"`
	CheckIn            time.Time         `json:"check_in"`
	CheckOut           time.Time         `json:"check_out"`
	Nights             int               `json:"nights"`
	Guests             GuestCountsDTO    `json:"guests"`
	Price              PriceBreakdownDTO `json:"price"`
	Status             string            `json:"status"`
	PaymentStatus      string            `json:"payment_status"`
	CancellationReason string            `json:"cancellation_reason,omitempty"`
	CancelledBy        string            `json:"cancelled_by,omitempty"`
	SpecialRequests    string            `json:"special_requests,omitempty"`
	MessageToHost      string            `json:"message_to_host,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

type BookingCollection struct {
	Items []BookingView `json:"items"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{
		Amount:   value.Amount.StringFixed(2),
		Currency: value.Currency,
	}
}

func MapBookingView(b *domainbooking.Booking) BookingView {
	return BookingView{
		ID:              string(b.ID),
		AccommodationID: string(b.AccommodationID),
		UserID:          b.UserID,
		CheckIn:         b.Range.CheckIn,
		CheckOut:        b.Range.CheckOut,
		Nights:          b.Nights,
		Guests: GuestCountsDTO{
			Total:    b.Guests.Total,
			Adults:   b.Guests.Adults,
			Children: b.Guests.Children,
			Infants:  b.Guests.Infants,
		},
		Price: PriceBreakdownDTO{
			BasePricePerNight: MapMoney(b.Price.BasePricePerNight),
			TotalBasePrice:    MapMoney(b.Price.TotalBasePrice),
			ServiceFee:        MapMoney(b.Price.ServiceFee),
			CleaningFee:       MapMoney(b.Price.CleaningFee),
			TaxAmount:         MapMoney(b.Price.TaxAmount),
			DiscountAmount:    MapMoney(b.Price.DiscountAmount),
			TotalPrice:        MapMoney(b.Price.TotalPrice),
		},
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		CancellationReason: b.CancellationReason,
		CancelledBy:        b.CancelledBy,
		SpecialRequests:    b.SpecialRequests,
		MessageToHost:      b.MessageToHost,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func MapBookingCollection(bookings []*domainbooking.Booking) BookingCollection {
	items := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, MapBookingView(b))
	}
	return BookingCollection{Items: items}
}
