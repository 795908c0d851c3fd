package handler

import (
	"github.com/brewbase/coffee-catalog/internal/core/domain"
	"github.com/brewbase/coffee-catalog/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createCoffeeRequest, photo *ports.PhotoInput, inventor string) ports.CreateCoffeeInput {
	return ports.CreateCoffeeInput{
		Name:             req.Name,
		Brand:            req.Brand,
		Description:      req.Description,
		Flavors:          req.Flavors,
		Photo:            photo,
		InventorUsername: inventor,
	}
}

func toUpdateInput(id string, req updateCoffeeRequest, photo *ports.PhotoInput) ports.UpdateCoffeeInput {
	return ports.UpdateCoffeeInput{
		ID:          id,
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
		Flavors:     req.Flavors,
		Photo:       photo,
	}
}

// --- Service result → HTTP response ---

func toCoffeeResponse(c domain.Coffee, rating domain.RatingAggregate) coffeeResponse {
	resp := coffeeResponse{
		ID:          c.ID,
		Name:        c.Name,
		Brand:       c.Brand,
		Description: c.Description,
		Flavors:     c.Flavors,
		Inventor: inventorResponse{
			ID:       c.Inventor.ID,
			Username: c.Inventor.Username,
		},
		AverageRating: rating.Average,
		RatingsCount:  rating.Count,
		CreatedAt:     c.CreatedAt.UTC(),
		UpdatedAt:     c.UpdatedAt.UTC(),
	}
	if c.PhotoRef != "" {
		resp.PhotoURL = "/v1/coffees/" + c.ID + "/photo"
	}
	return resp
}

func toRateResponse(r *domain.Rate) rateResponse {
	return rateResponse{
		ID:        r.ID,
		CoffeeID:  r.CoffeeID,
		Author:    r.AuthorUsername,
		Value:     r.Value,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func toListResponse(page *ports.CoffeePage) listCoffeesResponse {
	items := make([]coffeeResponse, len(page.Items))
	for i, rc := range page.Items {
		items[i] = toCoffeeResponse(rc.Coffee, rc.Rating)
	}
	return listCoffeesResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:  page.Total,
			Offset: page.Offset,
			Limit:  page.Limit,
		},
	}
}
