package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrSpotNotFound is returned when a parking spot is not found.
	ErrSpotNotFound = errors.New("parking spot not found")
	// ErrSpotNameExists is returned when creating/updating a spot with a duplicate name.
	ErrSpotNameExists = errors.New("parking spot name already exists")

	// ErrReservationNotFound is returned when a reservation is not found.
	ErrReservationNotFound = errors.New("reservation not found")
	// ErrReservationOverlap is returned when a booking collides with an
	// existing active or upcoming reservation on the same spot and date.
	ErrReservationOverlap = errors.New("reservation overlaps an existing booking")
)
