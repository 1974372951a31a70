package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainaccommodation "staymarket/internal/domain/accommodation"
	domainavailability "staymarket/internal/domain/availability"
	domainrange "staymarket/internal/domain/shared/daterange"
)

type CalendarRepository struct {
	col *mongo.Collection
}

func NewCalendarRepository(db *mongo.Database) *CalendarRepository {
	return &CalendarRepository{col: db.Collection("agg_calendar")}
}

// Calendar loads the accommodation calendar, returning a fresh empty one
// when none has been saved yet.
func (r *CalendarRepository) Calendar(ctx context.Context, id domainaccommodation.AccommodationID) (*domainavailability.Calendar, error) {
	var doc calendarDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domainavailability.NewCalendar(id), nil
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save writes the calendar with optimistic concurrency; a version clash means
// another transaction reserved dates first.
func (r *CalendarRepository) Save(ctx context.Context, cal *domainavailability.Calendar) error {
	doc := newCalendarDocument(cal)
	filter := bson.M{"_id": doc.ID, "version": cal.Version}
	doc.Version = cal.Version + 1
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
	cal.Version = doc.Version
	return nil
}

type blockDocument struct {
	Range     rangeDocument `bson:"range"`
	Reason    string        `bson:"reason"`
	Reference string        `bson:"reference"`
	CreatedAt int64         `bson:"created_at"`
}

type calendarDocument struct {
	ID      string          `bson:"_id"`
	Blocks  []blockDocument `bson:"blocks"`
	Version int64           `bson:"version"`
}

func newCalendarDocument(cal *domainavailability.Calendar) calendarDocument {
	blocks := make([]blockDocument, 0, len(cal.Blocks))
	for _, b := range cal.Blocks {
		blocks = append(blocks, blockDocument{
			Range:     rangeDocument{CheckIn: b.Range.CheckIn.UnixMilli(), CheckOut: b.Range.CheckOut.UnixMilli()},
			Reason:    string(b.Reason),
			Reference: b.Reference,
			CreatedAt: b.CreatedAt.UnixMilli(),
		})
	}
	return calendarDocument{
		ID:      string(cal.AccommodationID),
		Blocks:  blocks,
		Version: cal.Version,
	}
}

func (d calendarDocument) toAggregate() *domainavailability.Calendar {
	blocks := make([]domainavailability.Block, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		blocks = append(blocks, domainavailability.Block{
			Range:     domainrange.DateRange{CheckIn: timestampToTime(b.Range.CheckIn), CheckOut: timestampToTime(b.Range.CheckOut)},
			Reason:    domainavailability.BlockReason(b.Reason),
			Reference: b.Reference,
			CreatedAt: timestampToTime(b.CreatedAt),
		})
	}
	return &domainavailability.Calendar{
		AccommodationID: domainaccommodation.AccommodationID(d.ID),
		Blocks:          blocks,
		Version:         d.Version,
	}
}
