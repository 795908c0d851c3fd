package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

// createCoffeeRequest binds from multipart form fields (or JSON when no photo
// is attached). The photo file itself is read separately from the "photo"
// form part.
type createCoffeeRequest struct {
	Name        string   `json:"name"        form:"name"        validate:"required,max=120"`
	Brand       string   `json:"brand"       form:"brand"       validate:"required,max=120"`
	Description string   `json:"description" form:"description" validate:"max=2000"`
	Flavors     []string `json:"flavors"     form:"flavors"     validate:"dive,required,max=60"`
}

// updateCoffeeRequest is a partial update: nil fields stay untouched.
// The inventor is deliberately absent; no request can reassign it.
type updateCoffeeRequest struct {
	Name        *string  `json:"name"        form:"name"        validate:"omitempty,max=120"`
	Brand       *string  `json:"brand"       form:"brand"       validate:"omitempty,max=120"`
	Description *string  `json:"description" form:"description" validate:"omitempty,max=2000"`
	Flavors     []string `json:"flavors"     form:"flavors"     validate:"omitempty,dive,required,max=60"`
}

type rateCoffeeRequest struct {
	Value int `json:"value"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type inventorResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type coffeeResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Brand         string           `json:"brand"`
	Description   string           `json:"description,omitempty"`
	Flavors       []string         `json:"flavors,omitempty"`
	Inventor      inventorResponse `json:"inventor"`
	PhotoURL      string           `json:"photo_url,omitempty"`
	AverageRating float64          `json:"average_rating"`
	RatingsCount  int64            `json:"ratings_count"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type rateResponse struct {
	ID        string    `json:"id"`
	CoffeeID  string    `json:"coffee_id"`
	Author    string    `json:"author"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type paginationResponse struct {
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

type listCoffeesResponse struct {
	Data       []coffeeResponse   `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
