package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brewbase/coffee-catalog/internal/core/domain"
)

type RateRepository struct {
	col *mongo.Collection
}

func NewRateRepository(db *mongo.Database) *RateRepository {
	return &RateRepository{col: db.Collection(collectionRates)}
}

// rateDoc stores coffee_id as an ObjectID so the catalog listing can
// $lookup rates against the coffees collection directly.
type rateDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	CoffeeID       primitive.ObjectID `bson:"coffee_id"`
	AuthorID       string             `bson:"author_id"`
	AuthorUsername string             `bson:"author_username"`
	Value          int                `bson:"value"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (d rateDoc) toDomain() domain.Rate {
	return domain.Rate{
		ID:             d.ID.Hex(),
		CoffeeID:       d.CoffeeID.Hex(),
		AuthorID:       d.AuthorID,
		AuthorUsername: d.AuthorUsername,
		Value:          d.Value,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// Upsert writes the author's rating for a coffee, replacing any earlier value
// from the same author. The unique (coffee_id, author_id) index backs the
// one-rating-per-pair guarantee under concurrent writes.
func (r *RateRepository) Upsert(ctx context.Context, rate *domain.Rate) (*domain.Rate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	coffeeOID, err := primitive.ObjectIDFromHex(rate.CoffeeID)
	if err != nil {
		return nil, domain.ErrCoffeeNotFound
	}

	filter := bson.M{"coffee_id": coffeeOID, "author_id": rate.AuthorID}
	update := bson.M{
		"$set": bson.M{
			"author_username": rate.AuthorUsername,
			"value":           rate.Value,
			"updated_at":      rate.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": rate.CreatedAt},
	}

	_, err = r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Two first-time ratings from the same author raced; the
			// other one won the insert.
			return nil, domain.ErrRatingConflict
		}
		return nil, fmt.Errorf("upsert rate: %w", err)
	}

	var doc rateDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, fmt.Errorf("read back rate: %w", err)
	}

	out := doc.toDomain()
	return &out, nil
}

// AggregateForCoffee computes the average and count over the coffee's ratings.
// A coffee with no ratings yields the zero aggregate, not an error.
func (r *RateRepository) AggregateForCoffee(ctx context.Context, coffeeID string) (domain.RatingAggregate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(coffeeID)
	if err != nil {
		return domain.RatingAggregate{}, domain.ErrCoffeeNotFound
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"coffee_id": oid}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$value"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("aggregate rates: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Average float64 `bson:"average"`
		Count   int64   `bson:"count"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return domain.RatingAggregate{}, fmt.Errorf("decode rate aggregate: %w", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("aggregate rates: %w", err)
	}

	return domain.RatingAggregate{Average: result.Average, Count: result.Count}, nil
}

// DeleteForCoffee removes every rating attached to the coffee. Used as the
// cascade step when a coffee is deleted.
func (r *RateRepository) DeleteForCoffee(ctx context.Context, coffeeID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(coffeeID)
	if err != nil {
		return domain.ErrCoffeeNotFound
	}

	if _, err := r.col.DeleteMany(ctx, bson.M{"coffee_id": oid}); err != nil {
		return fmt.Errorf("delete rates: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique pair index that enforces one rating per
// author and coffee.
func (r *RateRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coffee_id", Value: 1}, {Key: "author_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
