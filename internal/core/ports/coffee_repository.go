package ports

import (
	"context"

	"github.com/brewbase/coffee-catalog/internal/core/domain"
)

// RatedCoffee pairs a coffee with its read-time rating aggregate.
type RatedCoffee struct {
	Coffee domain.Coffee
	Rating domain.RatingAggregate
}

// CoffeeRepository defines persistence operations for coffees. List and
// ListByRating return the page plus the total count of matching records.
// ListByRating orders by aggregate rating descending, ties broken by id
// ascending so pagination stays deterministic; unrated coffees come last.
type CoffeeRepository interface {
	Insert(ctx context.Context, c *domain.Coffee) (*domain.Coffee, error)
	FindByID(ctx context.Context, id string) (*domain.Coffee, error)
	Update(ctx context.Context, c *domain.Coffee) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]RatedCoffee, int64, error)
	ListByRating(ctx context.Context, offset, limit int) ([]RatedCoffee, int64, error)
}
