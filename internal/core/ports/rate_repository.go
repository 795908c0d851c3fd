package ports

import (
	"context"

	"github.com/brewbase/coffee-catalog/internal/core/domain"
)

// RateRepository defines persistence operations for ratings.
type RateRepository interface {
	// Upsert inserts or replaces the rate for (author, coffee). Atomicity is
	// the repository's responsibility; a uniqueness race the upsert path does
	// not absorb surfaces as ErrRatingConflict.
	Upsert(ctx context.Context, rate *domain.Rate) (*domain.Rate, error)

	// AggregateForCoffee computes the rating aggregate for one coffee.
	// A coffee with no rates yields the zero aggregate, not an error.
	AggregateForCoffee(ctx context.Context, coffeeID string) (domain.RatingAggregate, error)

	// DeleteForCoffee removes all rates of a coffee (cascade on coffee delete).
	DeleteForCoffee(ctx context.Context, coffeeID string) error
}
