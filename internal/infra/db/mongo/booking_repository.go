package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainaccommodation "staymarket/internal/domain/accommodation"
	domainbooking "staymarket/internal/domain/booking"
	domainrange "staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	col := db.Collection("agg_booking")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "accommodation_id", Value: 1}, {Key: "range.check_in", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &BookingRepository{col: col}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *BookingRepository) ListByAccommodation(ctx context.Context, id domainaccommodation.AccommodationID) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"accommodation_id": string(id)})
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *BookingRepository) list(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]*domainbooking.Booking, 0)
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		agg, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	return out, cursor.Err()
}

// Save writes the booking with optimistic concurrency on the version field.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

type moneyDocument struct {
	Amount   string `bson:"amount"`
	Currency string `bson:"currency"`
}

func newMoneyDocument(m money.Money) moneyDocument {
	return moneyDocument{Amount: m.Amount.String(), Currency: m.Currency}
}

func (d moneyDocument) toMoney() (money.Money, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return money.Money{}, err
	}
	return money.Money{Amount: amount, Currency: d.Currency}, nil
}

type priceDocument struct {
	BasePricePerNight moneyDocument `bson:"base_price_per_night"`
	TotalBasePrice    moneyDocument `bson:"total_base_price"`
	ServiceFee        moneyDocument `bson:"service_fee"`
	CleaningFee       moneyDocument `bson:"cleaning_fee"`
	TaxAmount         moneyDocument `bson:"tax_amount"`
	DiscountAmount    moneyDocument `bson:"discount_amount"`
	TotalPrice        moneyDocument `bson:"total_price"`
}

type guestsDocument struct {
	Total    int `bson:"total"`
	Adults   int `bson:"adults"`
	Children int `bson:"children"`
	Infants  int `bson:"infants"`
}

type paymentDocument struct {
	Amount     moneyDocument `bson:"amount"`
	Method     string        `bson:"method"`
	Provider   string        `bson:"provider"`
	ProviderTx string        `bson:"provider_tx"`
	CreatedAt  int64         `bson:"created_at"`
}

type bookingDocument struct {
	ID                 string           `bson:"_id"`
	UserID             string           `bson:"user_id"`
	AccommodationID    string           `bson:"accommodation_id"`
	Range              rangeDocument    `bson:"range"`
	Guests             guestsDocument   `bson:"guests"`
	Nights             int              `bson:"nights"`
	Price              priceDocument    `bson:"price"`
	Currency           string           `bson:"currency"`
	Cancellation       string           `bson:"cancellation_policy"`
	Status             string           `bson:"status"`
	PaymentStatus      string           `bson:"payment_status"`
	CancellationReason string           `bson:"cancellation_reason,omitempty"`
	CancelledAt        int64            `bson:"cancelled_at,omitempty"`
	CancelledBy        string           `bson:"cancelled_by,omitempty"`
	SpecialRequests    string           `bson:"special_requests,omitempty"`
	MessageToHost      string           `bson:"message_to_host,omitempty"`
	Payment            *paymentDocument `bson:"payment,omitempty"`
	CreatedAt          int64            `bson:"created_at"`
	UpdatedAt          int64            `bson:"updated_at"`
	ConfirmedAt        int64            `bson:"confirmed_at,omitempty"`
	Version            int64            `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	doc := bookingDocument{
		ID:              string(b.ID),
		UserID:          b.UserID,
		AccommodationID: string(b.AccommodationID),
		Range:           rangeDocument{CheckIn: b.Range.CheckIn.UnixMilli(), CheckOut: b.Range.CheckOut.UnixMilli()},
		Guests: guestsDocument{
			Total:    b.Guests.Total,
			Adults:   b.Guests.Adults,
			Children: b.Guests.Children,
			Infants:  b.Guests.Infants,
		},
		Nights: b.Nights,
		Price: priceDocument{
			BasePricePerNight: newMoneyDocument(b.Price.BasePricePerNight),
			TotalBasePrice:    newMoneyDocument(b.Price.TotalBasePrice),
			ServiceFee:        newMoneyDocument(b.Price.ServiceFee),
			CleaningFee:       newMoneyDocument(b.Price.CleaningFee),
			TaxAmount:         newMoneyDocument(b.Price.TaxAmount),
			DiscountAmount:    newMoneyDocument(b.Price.DiscountAmount),
			TotalPrice:        newMoneyDocument(b.Price.TotalPrice),
		},
		Currency:           b.Currency,
		Cancellation:       string(b.Cancellation),
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		CancellationReason: b.CancellationReason,
		CancelledBy:        b.CancelledBy,
		SpecialRequests:    b.SpecialRequests,
		MessageToHost:      b.MessageToHost,
		CreatedAt:          b.CreatedAt.UnixMilli(),
		UpdatedAt:          b.UpdatedAt.UnixMilli(),
		Version:            b.Version,
	}
	if !b.CancelledAt.IsZero() {
		doc.CancelledAt = b.CancelledAt.UnixMilli()
	}
	if !b.ConfirmedAt.IsZero() {
		doc.ConfirmedAt = b.ConfirmedAt.UnixMilli()
	}
	if b.Payment != nil {
		doc.Payment = &paymentDocument{
			Amount:     newMoneyDocument(b.Payment.Amount),
			Method:     string(b.Payment.Method),
			Provider:   b.Payment.Provider,
			ProviderTx: b.Payment.ProviderTx,
			CreatedAt:  b.Payment.CreatedAt.UnixMilli(),
		}
	}
	return doc
}

func (d bookingDocument) toAggregate() (*domainbooking.Booking, error) {
	price, err := d.Price.toBreakdown()
	if err != nil {
		return nil, err
	}
	agg := &domainbooking.Booking{
		ID:              domainbooking.BookingID(d.ID),
		UserID:          d.UserID,
		AccommodationID: domainaccommodation.AccommodationID(d.AccommodationID),
		Range:           domainrange.DateRange{CheckIn: timestampToTime(d.Range.CheckIn), CheckOut: timestampToTime(d.Range.CheckOut)},
		Guests: domainbooking.GuestCounts{
			Total:    d.Guests.Total,
			Adults:   d.Guests.Adults,
			Children: d.Guests.Children,
			Infants:  d.Guests.Infants,
		},
		Nights:             d.Nights,
		Price:              price,
		Currency:           d.Currency,
		Cancellation:       domainaccommodation.CancellationPolicy(d.Cancellation),
		Status:             domainbooking.Status(d.Status),
		PaymentStatus:      domainbooking.PaymentStatus(d.PaymentStatus),
		CancellationReason: d.CancellationReason,
		CancelledBy:        d.CancelledBy,
		SpecialRequests:    d.SpecialRequests,
		MessageToHost:      d.MessageToHost,
		CreatedAt:          timestampToTime(d.CreatedAt),
		UpdatedAt:          timestampToTime(d.UpdatedAt),
		Version:            d.Version,
	}
	if d.CancelledAt != 0 {
		agg.CancelledAt = timestampToTime(d.CancelledAt)
	}
	if d.ConfirmedAt != 0 {
		agg.ConfirmedAt = timestampToTime(d.ConfirmedAt)
	}
	if d.Payment != nil {
		amount, err := d.Payment.Amount.toMoney()
		if err != nil {
			return nil, err
		}
		agg.Payment = &domainbooking.Payment{
			BookingID:  agg.ID,
			Amount:     amount,
			Method:     domainbooking.PaymentMethod(d.Payment.Method),
			Provider:   d.Payment.Provider,
			ProviderTx: d.Payment.ProviderTx,
			CreatedAt:  timestampToTime(d.Payment.CreatedAt),
		}
	}
	return agg, nil
}

func (d priceDocument) toBreakdown() (domainbooking.PriceBreakdown, error) {
	var out domainbooking.PriceBreakdown
	var err error
	if out.BasePricePerNight, err = d.BasePricePerNight.toMoney(); err != nil {
		return out, err
	}
	if out.TotalBasePrice, err = d.TotalBasePrice.toMoney(); err != nil {
		return out, err
	}
	if out.ServiceFee, err = d.ServiceFee.toMoney(); err != nil {
		return out, err
	}
	if out.CleaningFee, err = d.CleaningFee.toMoney(); err != nil {
		return out, err
	}
	if out.TaxAmount, err = d.TaxAmount.toMoney(); err != nil {
		return out, err
	}
	if out.DiscountAmount, err = d.DiscountAmount.toMoney(); err != nil {
		return out, err
	}
	if out.TotalPrice, err = d.TotalPrice.toMoney(); err != nil {
		return out, err
	}
	return out, nil
}

type rangeDocument struct {
	CheckIn  int64 `bson:"check_in"`
	CheckOut int64 `bson:"check_out"`
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
