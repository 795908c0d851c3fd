package domain

import (
	"fmt"
	"time"
)

// Accepted rating scale, inclusive.
const (
	RatingMin = 1
	RatingMax = 5
)

// Rate records a single user's rating of a coffee. At most one rate exists per
// (author, coffee) pair; re-rating replaces the previous value.
type Rate struct {
	ID             string    `json:"id"`
	CoffeeID       string    `json:"coffee_id"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Value          int       `json:"value"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ValidateRating checks value against the accepted scale.
func ValidateRating(value int) error {
	if value < RatingMin || value > RatingMax {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidRating, value, RatingMin, RatingMax)
	}
	return nil
}

// RatingAggregate is the derived score for a coffee. A coffee with no ratings
// has Count 0 and Average 0; ordering treats it as lowest rank, never as an
// error value.
type RatingAggregate struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// AggregateRates computes the arithmetic mean over a set of rates.
func AggregateRates(rates []Rate) RatingAggregate {
	if len(rates) == 0 {
		return RatingAggregate{}
	}
	var sum int
	for _, r := range rates {
		sum += r.Value
	}
	return RatingAggregate{
		Average: float64(sum) / float64(len(rates)),
		Count:   int64(len(rates)),
	}
}

// SortKey is the value ListByRating orders by, descending. Unrated coffees get
// a sentinel below the scale minimum so they always rank after rated ones.
func (a RatingAggregate) SortKey() float64 {
	if a.Count == 0 {
		return UnratedSortKey
	}
	return a.Average
}

// UnratedSortKey sorts unrated coffees after every rated one.
const UnratedSortKey = float64(RatingMin) - 1
