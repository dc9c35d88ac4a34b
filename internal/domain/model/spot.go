//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxSpotNameLen    = 255
	maxSpotAddressLen = 512
)

// ParkingSpot represents a reservable parking location.
type ParkingSpot struct {
	ID           string    `json:"id"             db:"id"`
	Name         string    `json:"name"           db:"name"`
	Address      string    `json:"address"        db:"address"`
	PricePerHour float64   `json:"price_per_hour" db:"price_per_hour"`
	Available    bool      `json:"available"      db:"available"`
	CreatedAt    time.Time `json:"created_at"     db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"     db:"updated_at"`
}

// CreateSpotRequest carries the fields for creating a parking spot.
type CreateSpotRequest struct {
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	PricePerHour float64 `json:"price_per_hour"`
	Available    *bool   `json:"available,omitempty"`
}

// Validate checks the create request fields.
func (r *CreateSpotRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("spot name is required")
	}
	if utf8.RuneCountInString(name) > maxSpotNameLen {
		return errors.New("spot name is too long")
	}
	address := strings.TrimSpace(r.Address)
	if address == "" {
		return errors.New("spot address is required")
	}
	if utf8.RuneCountInString(address) > maxSpotAddressLen {
		return errors.New("spot address is too long")
	}
	if r.PricePerHour <= 0 {
		return errors.New("price per hour must be positive")
	}
	return nil
}

// UpdateSpotRequest carries optional fields for updating a parking spot.
// Nil fields are left unchanged.
type UpdateSpotRequest struct {
	Name         *string  `json:"name,omitempty"`
	Address      *string  `json:"address,omitempty"`
	PricePerHour *float64 `json:"price_per_hour,omitempty"`
	Available    *bool    `json:"available,omitempty"`
}

// Validate checks the update request fields that are present.
func (r UpdateSpotRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return errors.New("spot name cannot be empty")
		}
		if utf8.RuneCountInString(name) > maxSpotNameLen {
			return errors.New("spot name is too long")
		}
	}
	if r.Address != nil {
		address := strings.TrimSpace(*r.Address)
		if address == "" {
			return errors.New("spot address cannot be empty")
		}
		if utf8.RuneCountInString(address) > maxSpotAddressLen {
			return errors.New("spot address is too long")
		}
	}
	if r.PricePerHour != nil && *r.PricePerHour <= 0 {
		return errors.New("price per hour must be positive")
	}
	return nil
}

// SpotsListOptions controls paging and filtering for listing spots.
// Notes:
// - Q matches name via ILIKE substring.
// - Available matches exactly when set.
type SpotsListOptions struct {
	Limit     int
	Offset    int
	Q         *string
	Available *bool
}
