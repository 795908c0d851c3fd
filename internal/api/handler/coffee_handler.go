package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/brewbase/coffee-catalog/internal/api/metrics"
	"github.com/brewbase/coffee-catalog/internal/core/domain"
	"github.com/brewbase/coffee-catalog/internal/core/ports"
)

// CoffeeHandler handles HTTP requests for catalog operations. For mutations
// it plays the controller role in the ownership flow: fetch the actor, fetch
// the coffee, ask the domain gate, and only then call the service.
type CoffeeHandler struct {
	coffees ports.CoffeeService
	users   ports.UserService
}

func NewCoffeeHandler(coffees ports.CoffeeService, users ports.UserService) *CoffeeHandler {
	return &CoffeeHandler{coffees: coffees, users: users}
}

// List handles GET /v1/coffees.
//
// @Summary      List coffees
// @Tags         coffees
// @Produce      json
// @Security     BearerAuth
// @Param        offset  query     int  false  "Window offset (default 0)"
// @Param        limit   query     int  false  "Window size (default 20, max 100)"
// @Success      200     {object}  listCoffeesResponse
// @Failure      400     {object}  errorResponse
// @Router       /v1/coffees [get]
func (h *CoffeeHandler) List(c echo.Context) error {
	input, err := windowFromQuery(c)
	if err != nil {
		return err
	}

	page, err := h.coffees.List(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(page))
}

// ListByRating handles GET /v1/coffees/by-rate.
//
// @Summary      List coffees ordered by aggregate rating
// @Tags         coffees
// @Produce      json
// @Security     BearerAuth
// @Param        offset  query     int  false  "Window offset (default 0)"
// @Param        limit   query     int  false  "Window size (default 20, max 100)"
// @Success      200     {object}  listCoffeesResponse
// @Failure      400     {object}  errorResponse
// @Router       /v1/coffees/by-rate [get]
func (h *CoffeeHandler) ListByRating(c echo.Context) error {
	input, err := windowFromQuery(c)
	if err != nil {
		return err
	}

	page, err := h.coffees.ListByRating(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(page))
}

// Get handles GET /v1/coffees/:id.
//
// @Summary      Get a coffee by id
// @Tags         coffees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Coffee id"
// @Success      200  {object}  coffeeResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/coffees/{id} [get]
func (h *CoffeeHandler) Get(c echo.Context) error {
	rated, err := h.coffees.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCoffeeResponse(rated.Coffee, rated.Rating))
}

// Photo handles GET /v1/coffees/:id/photo.
//
// @Summary      Download a coffee's photo
// @Tags         coffees
// @Produce      image/jpeg
// @Security     BearerAuth
// @Param        id   path  string  true  "Coffee id"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /v1/coffees/{id}/photo [get]
func (h *CoffeeHandler) Photo(c echo.Context) error {
	data, err := h.coffees.Photo(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, http.DetectContentType(data), data)
}

// Create handles POST /v1/coffees (multipart, optional "photo" part).
//
// @Summary      Create a coffee
// @Tags         coffees
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name    formData  string  true   "Name"
// @Param        brand   formData  string  true   "Brand"
// @Param        photo   formData  file    false  "Photo (jpeg/png/webp)"
// @Success      201     {object}  coffeeResponse
// @Failure      400     {object}  errorResponse
// @Failure      413     {object}  errorResponse
// @Failure      415     {object}  errorResponse
// @Router       /v1/coffees [post]
func (h *CoffeeHandler) Create(c echo.Context) error {
	var req createCoffeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	username, err := actorUsername(c)
	if err != nil {
		return err
	}
	photo, err := photoFromForm(c)
	if err != nil {
		return err
	}

	created, err := h.coffees.Create(c.Request().Context(), toCreateInput(req, photo, username))
	if err != nil {
		if photo != nil {
			metrics.PhotoUploadsTotal.WithLabelValues(photoResult(err)).Inc()
		}
		return err
	}

	metrics.CoffeesCreatedTotal.WithLabelValues(strconv.FormatBool(photo != nil)).Inc()
	if photo != nil {
		metrics.PhotoUploadsTotal.WithLabelValues("ok").Inc()
	}
	return c.JSON(http.StatusCreated, toCoffeeResponse(*created, domain.RatingAggregate{}))
}

// Update handles PATCH /v1/coffees/:id. Admins may update any coffee; users
// only their own; any other persisted role is a server-side fault.
//
// @Summary      Update a coffee
// @Tags         coffees
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Coffee id"
// @Param        photo  formData  file    false  "Replacement photo"
// @Success      200    {object}  coffeeResponse
// @Failure      401    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /v1/coffees/{id} [patch]
func (h *CoffeeHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var req updateCoffeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authorizeMutation(c, domain.ActionUpdate, id); err != nil {
		return err
	}

	photo, err := photoFromForm(c)
	if err != nil {
		return err
	}

	updated, err := h.coffees.Update(c.Request().Context(), toUpdateInput(id, req, photo))
	if err != nil {
		if photo != nil {
			metrics.PhotoUploadsTotal.WithLabelValues(photoResult(err)).Inc()
		}
		return err
	}
	if photo != nil {
		metrics.PhotoUploadsTotal.WithLabelValues("ok").Inc()
	}

	rated, err := h.coffees.Get(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusOK, toCoffeeResponse(*updated, domain.RatingAggregate{}))
	}
	return c.JSON(http.StatusOK, toCoffeeResponse(rated.Coffee, rated.Rating))
}

// Remove handles DELETE /v1/coffees/:id. Same authorization flow as Update.
//
// @Summary      Delete a coffee
// @Tags         coffees
// @Security     BearerAuth
// @Param        id  path  string  true  "Coffee id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/coffees/{id} [delete]
func (h *CoffeeHandler) Remove(c echo.Context) error {
	id := c.Param("id")

	if err := h.authorizeMutation(c, domain.ActionDelete, id); err != nil {
		return err
	}
	if err := h.coffees.Remove(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Rate handles POST /v1/coffees/:id/rate.
//
// @Summary      Rate a coffee
// @Tags         coffees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Coffee id"
// @Param        body  body      rateCoffeeRequest  true  "Rating value (1-5)"
// @Success      201   {object}  rateResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/coffees/{id}/rate [post]
func (h *CoffeeHandler) Rate(c echo.Context) error {
	var req rateCoffeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	username, err := actorUsername(c)
	if err != nil {
		return err
	}

	rate, err := h.coffees.Rate(c.Request().Context(), ports.RateCoffeeInput{
		CoffeeID: c.Param("id"),
		Username: username,
		Value:    req.Value,
	})
	if err != nil {
		metrics.RatingsSubmittedTotal.WithLabelValues(ratingResult(err)).Inc()
		return err
	}

	metrics.RatingsSubmittedTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusCreated, toRateResponse(rate))
}

// authorizeMutation runs the fine-grained ownership check: resolve the actor
// from the token identity, fetch the target coffee, and ask the domain gate.
// The gate itself performs no I/O; both snapshots are fetched here.
func (h *CoffeeHandler) authorizeMutation(c echo.Context, action domain.Action, coffeeID string) error {
	username, err := actorUsername(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	actor, err := h.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	rated, err := h.coffees.Get(ctx, coffeeID)
	if err != nil {
		return err
	}

	if err := domain.Authorize(actor, action, &rated.Coffee); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotOwner):
			metrics.AuthzDecisionsTotal.WithLabelValues("deny_not_owner").Inc()
		case errors.Is(err, domain.ErrUnsupportedRole):
			metrics.AuthzDecisionsTotal.WithLabelValues("unsupported_role").Inc()
		}
		return err
	}

	metrics.AuthzDecisionsTotal.WithLabelValues("allow").Inc()
	return nil
}

// windowFromQuery parses offset/limit. Non-numeric input fails here with
// ErrInvalidPagination; negative values are caught by the service.
func windowFromQuery(c echo.Context) (ports.ListCoffeesInput, error) {
	parse := func(name string) (int, error) {
		raw := c.QueryParam(name)
		if raw == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q", domain.ErrInvalidPagination, name, raw)
		}
		return n, nil
	}

	offset, err := parse("offset")
	if err != nil {
		return ports.ListCoffeesInput{}, err
	}
	limit, err := parse("limit")
	if err != nil {
		return ports.ListCoffeesInput{}, err
	}
	return ports.ListCoffeesInput{Offset: offset, Limit: limit}, nil
}

// photoFromForm reads the optional "photo" multipart part. A missing part or
// a non-multipart body simply means no photo.
func photoFromForm(c echo.Context) (*ports.PhotoInput, error) {
	fh, err := c.FormFile("photo")
	if err != nil {
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open photo part: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read photo part: %w", err)
	}
	return &ports.PhotoInput{Filename: fh.Filename, Data: data}, nil
}

func photoResult(err error) string {
	if errors.Is(err, domain.ErrPhotoTooLarge) || errors.Is(err, domain.ErrUnsupportedPhotoType) {
		return "rejected"
	}
	return "error"
}

func ratingResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRating):
		return "invalid_value"
	case errors.Is(err, domain.ErrCoffeeNotFound), errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrRatingConflict):
		return "conflict"
	default:
		return "error"
	}
}
