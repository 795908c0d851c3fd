package domain

import "errors"

// Sentinel errors shared across the core. The API layer maps each one to a
// deterministic HTTP status in a single place; services wrap them with %w so
// callers can test with errors.Is.
var (
	ErrCoffeeNotFound = errors.New("coffee not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrUserExists     = errors.New("user already exists")

	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotOwner is an ordinary authorization denial: a non-admin actor tried
	// to mutate a coffee invented by someone else.
	ErrNotOwner = errors.New("not the coffee's inventor")

	// ErrUnsupportedRole signals a role value outside the closed enum. This is
	// an invariant violation (corrupted user data), not a denial, and must
	// surface as a 5xx so it reads as "our data is inconsistent" rather than
	// "you are not allowed".
	ErrUnsupportedRole = errors.New("unsupported user role")

	ErrInvalidPagination = errors.New("invalid pagination parameters")
	ErrInvalidRating     = errors.New("rating value out of range")
	ErrRatingConflict    = errors.New("rating already exists")

	ErrPhotoTooLarge        = errors.New("photo exceeds maximum size")
	ErrUnsupportedPhotoType = errors.New("unsupported photo type")
	ErrPhotoNotFound        = errors.New("photo not found")
)
