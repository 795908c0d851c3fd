package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brewbase/coffee-catalog/internal/core/domain"
	"github.com/brewbase/coffee-catalog/internal/core/ports"
)

const (
	collectionCoffees = "coffees"
	collectionRates   = "rates"
)

type CoffeeRepository struct {
	col *mongo.Collection
}

func NewCoffeeRepository(db *mongo.Database) *CoffeeRepository {
	return &CoffeeRepository{col: db.Collection(collectionCoffees)}
}

type inventorDoc struct {
	ID       string `bson:"id"`
	Username string `bson:"username"`
}

type coffeeDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Brand       string             `bson:"brand"`
	Description string             `bson:"description,omitempty"`
	Flavors     []string           `bson:"flavors,omitempty"`
	Inventor    inventorDoc        `bson:"inventor"`
	PhotoRef    string             `bson:"photo_ref,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

// ratedCoffeeDoc is the aggregation output: the coffee document plus the
// fields the rating pipeline adds.
type ratedCoffeeDoc struct {
	coffeeDoc    `bson:",inline"`
	RatingsCount int64   `bson:"ratings_count"`
	AvgRating    float64 `bson:"avg_rating"`
}

func toCoffeeDoc(c *domain.Coffee) (coffeeDoc, error) {
	doc := coffeeDoc{
		Name:        c.Name,
		Brand:       c.Brand,
		Description: c.Description,
		Flavors:     c.Flavors,
		Inventor:    inventorDoc{ID: c.Inventor.ID, Username: c.Inventor.Username},
		PhotoRef:    c.PhotoRef,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.ID != "" {
		oid, err := primitive.ObjectIDFromHex(c.ID)
		if err != nil {
			return coffeeDoc{}, domain.ErrCoffeeNotFound
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d coffeeDoc) toDomain() domain.Coffee {
	return domain.Coffee{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Brand:       d.Brand,
		Description: d.Description,
		Flavors:     d.Flavors,
		Inventor:    domain.Inventor{ID: d.Inventor.ID, Username: d.Inventor.Username},
		PhotoRef:    d.PhotoRef,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// Insert persists a new coffee document and returns it with the generated id.
func (r *CoffeeRepository) Insert(ctx context.Context, c *domain.Coffee) (*domain.Coffee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toCoffeeDoc(c)
	if err != nil {
		return nil, err
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert coffee: %w", err)
	}

	out := *c
	out.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &out, nil
}

func (r *CoffeeRepository) FindByID(ctx context.Context, id string) (*domain.Coffee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCoffeeNotFound
	}

	var doc coffeeDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCoffeeNotFound
		}
		return nil, fmt.Errorf("find coffee: %w", err)
	}

	out := doc.toDomain()
	return &out, nil
}

func (r *CoffeeRepository) Update(ctx context.Context, c *domain.Coffee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toCoffeeDoc(c)
	if err != nil {
		return err
	}

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("update coffee: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCoffeeNotFound
	}
	return nil
}

func (r *CoffeeRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCoffeeNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete coffee: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCoffeeNotFound
	}
	return nil
}

// List returns one window in insertion order (_id ascending).
func (r *CoffeeRepository) List(ctx context.Context, offset, limit int) ([]ports.RatedCoffee, int64, error) {
	sort := bson.D{{Key: "_id", Value: 1}}
	return r.listWindow(ctx, sort, offset, limit)
}

// ListByRating returns one window ordered by aggregate rating descending.
// Unrated coffees carry a sort sentinel below the scale minimum so they rank
// last; ties break on _id ascending to keep pagination deterministic.
func (r *CoffeeRepository) ListByRating(ctx context.Context, offset, limit int) ([]ports.RatedCoffee, int64, error) {
	sort := bson.D{{Key: "avg_rating", Value: -1}, {Key: "_id", Value: 1}}
	return r.listWindow(ctx, sort, offset, limit)
}

func (r *CoffeeRepository) listWindow(ctx context.Context, sort bson.D, offset, limit int) ([]ports.RatedCoffee, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count coffees: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionRates},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "coffee_id"},
			{Key: "as", Value: "rates"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "ratings_count", Value: bson.D{{Key: "$size", Value: "$rates"}}},
			{Key: "avg_rating", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$gt", Value: bson.A{bson.D{{Key: "$size", Value: "$rates"}}, 0}}},
				bson.D{{Key: "$avg", Value: "$rates.value"}},
				domain.UnratedSortKey,
			}}}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "rates", Value: 0}}}},
		{{Key: "$sort", Value: sort}},
		{{Key: "$skip", Value: offset}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("list coffees: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]ports.RatedCoffee, 0, limit)
	for cursor.Next(ctx) {
		var doc ratedCoffeeDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode coffee: %w", err)
		}
		rated := ports.RatedCoffee{Coffee: doc.toDomain()}
		if doc.RatingsCount > 0 {
			rated.Rating = domain.RatingAggregate{Average: doc.AvgRating, Count: doc.RatingsCount}
		}
		items = append(items, rated)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list coffees: %w", err)
	}

	return items, total, nil
}

// EnsureIndexes creates the indexes the catalog queries rely on.
func (r *CoffeeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "inventor.id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
