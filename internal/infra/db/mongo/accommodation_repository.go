package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainaccommodation "staymarket/internal/domain/accommodation"
)

type AccommodationRepository struct {
	col *mongo.Collection
}

func NewAccommodationRepository(db *mongo.Database) *AccommodationRepository {
	return &AccommodationRepository{col: db.Collection("agg_accommodation")}
}

func (r *AccommodationRepository) ByID(ctx context.Context, id domainaccommodation.AccommodationID) (*domainaccommodation.Accommodation, error) {
	var doc accommodationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainaccommodation.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *AccommodationRepository) Save(ctx context.Context, acc *domainaccommodation.Accommodation) error {
	doc := newAccommodationDocument(acc)
	filter := bson.M{"_id": doc.ID, "version": acc.Version}
	doc.Version = acc.Version + 1
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
	acc.Version = doc.Version
	return nil
}

type accommodationDocument struct {
	ID            string        `bson:"_id"`
	HostID        string        `bson:"host_id"`
	Title         string        `bson:"title"`
	City          string        `bson:"city"`
	Country       string        `bson:"country"`
	MaxGuests     int           `bson:"max_guests"`
	MinimumNights int           `bson:"minimum_nights"`
	MaximumNights int           `bson:"maximum_nights"`
	Nightly       moneyDocument `bson:"nightly"`
	Cancellation  string        `bson:"cancellation_policy"`
	InstantBook   bool          `bson:"instant_book"`
	Status        string        `bson:"status"`
	CreatedAt     int64         `bson:"created_at"`
	UpdatedAt     int64         `bson:"updated_at"`
	Version       int64         `bson:"version"`
}

func newAccommodationDocument(acc *domainaccommodation.Accommodation) accommodationDocument {
	return accommodationDocument{
		ID:            string(acc.ID),
		HostID:        string(acc.Host),
		Title:         acc.Title,
		City:          acc.City,
		Country:       acc.Country,
		MaxGuests:     acc.Policy.MaxGuests,
		MinimumNights: acc.Policy.MinimumNights,
		MaximumNights: acc.Policy.MaximumNights,
		Nightly:       newMoneyDocument(acc.Policy.BasePricePerNight),
		Cancellation:  string(acc.Policy.Cancellation),
		InstantBook:   acc.Policy.InstantBook,
		Status:        string(acc.Status),
		CreatedAt:     acc.CreatedAt.UnixMilli(),
		UpdatedAt:     acc.UpdatedAt.UnixMilli(),
		Version:       acc.Version,
	}
}

func (d accommodationDocument) toAggregate() (*domainaccommodation.Accommodation, error) {
	nightly, err := d.Nightly.toMoney()
	if err != nil {
		return nil, err
	}
	return &domainaccommodation.Accommodation{
		ID:      domainaccommodation.AccommodationID(d.ID),
		Host:    domainaccommodation.HostID(d.HostID),
		Title:   d.Title,
		City:    d.City,
		Country: d.Country,
		Policy: domainaccommodation.Policy{
			MaxGuests:         d.MaxGuests,
			MinimumNights:     d.MinimumNights,
			MaximumNights:     d.MaximumNights,
			BasePricePerNight: nightly,
			Cancellation:      domainaccommodation.CancellationPolicy(d.Cancellation),
			InstantBook:       d.InstantBook,
		},
		Status:    domainaccommodation.ApprovalStatus(d.Status),
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}, nil
}
