package ports

import (
	"context"

	"github.com/brewbase/coffee-catalog/internal/core/domain"
)

// PhotoInput carries an uploaded photo through the service boundary.
type PhotoInput struct {
	Filename string
	Data     []byte
}

// ListCoffeesInput is the offset/limit window for list endpoints. Values are
// validated by the service; negative values fail with ErrInvalidPagination.
type ListCoffeesInput struct {
	Offset int
	Limit  int
}

// CoffeePage is one window of coffees plus the pagination envelope.
type CoffeePage struct {
	Items  []RatedCoffee
	Total  int64
	Offset int
	Limit  int
}

// CreateCoffeeInput carries all data needed to create a coffee. The inventor
// is resolved from the authenticated username and bound permanently.
type CreateCoffeeInput struct {
	Name             string
	Brand            string
	Description      string
	Flavors          []string
	Photo            *PhotoInput // optional
	InventorUsername string
}

// UpdateCoffeeInput carries a partial update. Nil fields are left untouched;
// the inventor can never be changed through this path.
type UpdateCoffeeInput struct {
	ID          string
	Name        *string
	Brand       *string
	Description *string
	Flavors     []string    // nil = unchanged
	Photo       *PhotoInput // optional replacement
}

// RateCoffeeInput carries one rating submission.
type RateCoffeeInput struct {
	CoffeeID string
	Username string
	Value    int
}

// CoffeeService defines the catalog use cases. Authorization for Update and
// Remove is decided by the transport layer via the domain gate; the service
// itself never checks roles or ownership.
type CoffeeService interface {
	List(ctx context.Context, input ListCoffeesInput) (*CoffeePage, error)
	ListByRating(ctx context.Context, input ListCoffeesInput) (*CoffeePage, error)
	Get(ctx context.Context, id string) (*RatedCoffee, error)
	Photo(ctx context.Context, id string) ([]byte, error)
	Create(ctx context.Context, input CreateCoffeeInput) (*domain.Coffee, error)
	Update(ctx context.Context, input UpdateCoffeeInput) (*domain.Coffee, error)
	Remove(ctx context.Context, id string) error
	Rate(ctx context.Context, input RateCoffeeInput) (*domain.Rate, error)
}
