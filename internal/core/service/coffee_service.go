package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/brewbase/coffee-catalog/internal/core/domain"
	"github.com/brewbase/coffee-catalog/internal/core/ports"
)

// RatingCache abstracts the read-through aggregate cache (Redis). Get returns
// nil without error on a miss. Cache failures are never fatal; aggregation
// falls through to the repository.
type RatingCache interface {
	Get(ctx context.Context, coffeeID string) (*domain.RatingAggregate, error)
	Set(ctx context.Context, coffeeID string, agg domain.RatingAggregate) error
	Invalidate(ctx context.Context, coffeeID string) error
}

const (
	defaultLimit = 20
	maxLimit     = 100

	// DefaultMaxPhotoBytes caps photo uploads when no limit is configured.
	DefaultMaxPhotoBytes = 5 << 20
)

// CoffeeService implements the catalog use cases over the persistence, photo
// and cache collaborators. It performs no role or ownership checks; those are
// the transport layer's job via the domain gate.
type CoffeeService struct {
	coffees       ports.CoffeeRepository
	rates         ports.RateRepository
	users         ports.UserRepository
	photos        ports.PhotoStore
	cache         RatingCache
	maxPhotoBytes int64
	logger        zerolog.Logger
}

func NewCoffeeService(
	coffees ports.CoffeeRepository,
	rates ports.RateRepository,
	users ports.UserRepository,
	photos ports.PhotoStore,
	cache RatingCache,
	maxPhotoBytes int64,
	logger zerolog.Logger,
) *CoffeeService {
	if maxPhotoBytes <= 0 {
		maxPhotoBytes = DefaultMaxPhotoBytes
	}
	return &CoffeeService{
		coffees:       coffees,
		rates:         rates,
		users:         users,
		photos:        photos,
		cache:         cache,
		maxPhotoBytes: maxPhotoBytes,
		logger:        logger,
	}
}

// List returns one window of coffees in persistence order.
func (s *CoffeeService) List(ctx context.Context, input ports.ListCoffeesInput) (*ports.CoffeePage, error) {
	offset, limit, err := normalizeWindow(input)
	if err != nil {
		return nil, err
	}

	items, total, err := s.coffees.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list coffees: %w", err)
	}
	return &ports.CoffeePage{Items: items, Total: total, Offset: offset, Limit: limit}, nil
}

// ListByRating returns one window ordered by aggregate rating descending,
// ties broken by id ascending, unrated coffees last.
func (s *CoffeeService) ListByRating(ctx context.Context, input ports.ListCoffeesInput) (*ports.CoffeePage, error) {
	offset, limit, err := normalizeWindow(input)
	if err != nil {
		return nil, err
	}

	items, total, err := s.coffees.ListByRating(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list coffees by rating: %w", err)
	}
	return &ports.CoffeePage{Items: items, Total: total, Offset: offset, Limit: limit}, nil
}

// Get returns a single coffee with its rating aggregate.
func (s *CoffeeService) Get(ctx context.Context, id string) (*ports.RatedCoffee, error) {
	coffee, err := s.coffees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ports.RatedCoffee{Coffee: *coffee, Rating: s.aggregateFor(ctx, id)}, nil
}

// Photo returns the raw photo bytes for a coffee, or ErrPhotoNotFound when
// the coffee has no photo attached.
func (s *CoffeeService) Photo(ctx context.Context, id string) ([]byte, error) {
	coffee, err := s.coffees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if coffee.PhotoRef == "" {
		return nil, fmt.Errorf("%w: coffee %s", domain.ErrPhotoNotFound, id)
	}
	return s.photos.Load(ctx, coffee.PhotoRef)
}

// Create persists the photo first (if any), then the coffee, binding the
// inventor to the creating user. If the coffee insert fails after a
// successful photo upload, the photo is deleted again so no dangling
// reference survives.
func (s *CoffeeService) Create(ctx context.Context, input ports.CreateCoffeeInput) (*domain.Coffee, error) {
	inventor, err := s.users.FindByUsername(ctx, input.InventorUsername)
	if err != nil {
		return nil, err
	}

	var photoRef string
	if input.Photo != nil {
		if err := s.validatePhoto(input.Photo); err != nil {
			return nil, err
		}
		photoRef, err = s.photos.Save(ctx, input.Photo.Filename, input.Photo.Data)
		if err != nil {
			return nil, fmt.Errorf("save photo: %w", err)
		}
	}

	now := time.Now().UTC()
	coffee := &domain.Coffee{
		Name:        input.Name,
		Brand:       input.Brand,
		Description: input.Description,
		Flavors:     input.Flavors,
		Inventor:    domain.Inventor{ID: inventor.ID, Username: inventor.Username},
		PhotoRef:    photoRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.coffees.Insert(ctx, coffee)
	if err != nil {
		if photoRef != "" {
			if cleanupErr := s.photos.Delete(ctx, photoRef); cleanupErr != nil {
				s.logger.Error().Err(cleanupErr).Str("photo_ref", photoRef).Msg("orphaned photo after failed coffee insert")
			}
		}
		return nil, fmt.Errorf("create coffee: %w", err)
	}

	s.logger.Info().Str("coffee_id", created.ID).Str("inventor", inventor.Username).Msg("coffee created")
	return created, nil
}

// Update applies a partial update. The inventor is never touched. A provided
// photo replaces the stored reference; the old photo is disposed of only
// after the record update succeeds.
func (s *CoffeeService) Update(ctx context.Context, input ports.UpdateCoffeeInput) (*domain.Coffee, error) {
	coffee, err := s.coffees.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		coffee.Name = *input.Name
	}
	if input.Brand != nil {
		coffee.Brand = *input.Brand
	}
	if input.Description != nil {
		coffee.Description = *input.Description
	}
	if input.Flavors != nil {
		coffee.Flavors = input.Flavors
	}

	var oldPhoto string
	if input.Photo != nil {
		if err := s.validatePhoto(input.Photo); err != nil {
			return nil, err
		}
		ref, err := s.photos.Save(ctx, input.Photo.Filename, input.Photo.Data)
		if err != nil {
			return nil, fmt.Errorf("save photo: %w", err)
		}
		oldPhoto = coffee.PhotoRef
		coffee.PhotoRef = ref
	}

	coffee.UpdatedAt = time.Now().UTC()

	if err := s.coffees.Update(ctx, coffee); err != nil {
		if input.Photo != nil {
			if cleanupErr := s.photos.Delete(ctx, coffee.PhotoRef); cleanupErr != nil {
				s.logger.Error().Err(cleanupErr).Str("photo_ref", coffee.PhotoRef).Msg("orphaned photo after failed coffee update")
			}
		}
		return nil, fmt.Errorf("update coffee: %w", err)
	}

	if oldPhoto != "" {
		if err := s.photos.Delete(ctx, oldPhoto); err != nil {
			s.logger.Warn().Err(err).Str("photo_ref", oldPhoto).Msg("failed to dispose replaced photo")
		}
	}

	s.logger.Info().Str("coffee_id", coffee.ID).Msg("coffee updated")
	return coffee, nil
}

// Remove deletes a coffee and cascades to its rates and photo so neither
// orphaned ratings nor dangling photo references are left behind.
func (s *CoffeeService) Remove(ctx context.Context, id string) error {
	coffee, err := s.coffees.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.coffees.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete coffee: %w", err)
	}

	if err := s.rates.DeleteForCoffee(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("coffee_id", id).Msg("failed to cascade-delete rates")
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("coffee_id", id).Msg("failed to invalidate rating cache")
	}
	if coffee.PhotoRef != "" {
		if err := s.photos.Delete(ctx, coffee.PhotoRef); err != nil {
			s.logger.Warn().Err(err).Str("photo_ref", coffee.PhotoRef).Msg("failed to dispose photo of deleted coffee")
		}
	}

	s.logger.Info().Str("coffee_id", id).Msg("coffee removed")
	return nil
}

// Rate records a user's rating of a coffee. One rate per (author, coffee)
// pair: a repeat submission replaces the previous value. The aggregate cache
// is invalidated so the author reads their own rating back immediately.
func (s *CoffeeService) Rate(ctx context.Context, input ports.RateCoffeeInput) (*domain.Rate, error) {
	if err := domain.ValidateRating(input.Value); err != nil {
		return nil, err
	}

	coffee, err := s.coffees.FindByID(ctx, input.CoffeeID)
	if err != nil {
		return nil, err
	}
	author, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rate := &domain.Rate{
		CoffeeID:       coffee.ID,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		Value:          input.Value,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	saved, err := s.rates.Upsert(ctx, rate)
	if err != nil {
		return nil, fmt.Errorf("rate coffee: %w", err)
	}

	if err := s.cache.Invalidate(ctx, coffee.ID); err != nil {
		s.logger.Warn().Err(err).Str("coffee_id", coffee.ID).Msg("failed to invalidate rating cache")
	}

	s.logger.Info().
		Str("coffee_id", coffee.ID).
		Str("author", author.Username).
		Int("value", input.Value).
		Msg("coffee rated")

	return saved, nil
}

// aggregateFor serves the rating aggregate through the cache. Both cache and
// repository failures degrade to the zero aggregate rather than failing the
// read.
func (s *CoffeeService) aggregateFor(ctx context.Context, coffeeID string) domain.RatingAggregate {
	cached, err := s.cache.Get(ctx, coffeeID)
	if err != nil {
		s.logger.Warn().Err(err).Str("coffee_id", coffeeID).Msg("rating cache read failed")
	} else if cached != nil {
		return *cached
	}

	agg, err := s.rates.AggregateForCoffee(ctx, coffeeID)
	if err != nil {
		s.logger.Warn().Err(err).Str("coffee_id", coffeeID).Msg("rating aggregation failed")
		return domain.RatingAggregate{}
	}

	if err := s.cache.Set(ctx, coffeeID, agg); err != nil {
		s.logger.Warn().Err(err).Str("coffee_id", coffeeID).Msg("rating cache write failed")
	}
	return agg
}

func (s *CoffeeService) validatePhoto(p *ports.PhotoInput) error {
	if int64(len(p.Data)) > s.maxPhotoBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", domain.ErrPhotoTooLarge, len(p.Data), s.maxPhotoBytes)
	}
	switch ct := http.DetectContentType(p.Data); ct {
	case "image/jpeg", "image/png", "image/webp":
		return nil
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedPhotoType, ct)
	}
}

func normalizeWindow(input ports.ListCoffeesInput) (offset, limit int, err error) {
	if input.Offset < 0 || input.Limit < 0 {
		return 0, 0, fmt.Errorf("%w: offset=%d limit=%d", domain.ErrInvalidPagination, input.Offset, input.Limit)
	}
	limit = input.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return input.Offset, limit, nil
}
