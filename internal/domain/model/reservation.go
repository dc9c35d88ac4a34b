//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// ReservationStatus tracks the lifecycle of a reservation.
type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusUpcoming  ReservationStatus = "upcoming"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Valid reports whether the reservation status is supported.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusActive, ReservationStatusUpcoming,
		ReservationStatusCompleted, ReservationStatusCancelled:
		return true
	default:
		return false
	}
}

// ParseReservationStatus normalizes a status string and reports whether it is supported.
func ParseReservationStatus(value string) (ReservationStatus, bool) {
	status := ReservationStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// Reservation represents a booked time slot on a parking spot.
// Date is a calendar day ("2006-01-02"); TimeStart/TimeEnd are wall-clock
// times ("15:04") within that day. Verified is set by an inspector.
type Reservation struct {
	ID        string            `json:"id"         db:"id"`
	SpotID    string            `json:"spot_id"    db:"spot_id"`
	UserID    string            `json:"user_id"    db:"user_id"`
	Date      string            `json:"date"       db:"date"`
	TimeStart string            `json:"time_start" db:"time_start"`
	TimeEnd   string            `json:"time_end"   db:"time_end"`
	Status    ReservationStatus `json:"status"     db:"status"`
	Verified  bool              `json:"verified"   db:"verified"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}

// ReservationDetail is a reservation joined with spot and user display data,
// as shown on the inspector screen.
type ReservationDetail struct {
	Reservation
	SpotName    string `json:"spot_name"    db:"spot_name"`
	SpotAddress string `json:"spot_address" db:"spot_address"`
	UserName    string `json:"user_name"    db:"user_name"`
}

// CreateReservationRequest carries the fields for booking a spot.
type CreateReservationRequest struct {
	SpotID    string `json:"spot_id"`
	Date      string `json:"date"`
	TimeStart string `json:"time_start"`
	TimeEnd   string `json:"time_end"`
}

// Validate checks the booking request fields.
func (r *CreateReservationRequest) Validate() error {
	if strings.TrimSpace(r.SpotID) == "" {
		return errors.New("spot id is required")
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return errors.New("date must be formatted as YYYY-MM-DD")
	}
	start, err := time.Parse("15:04", r.TimeStart)
	if err != nil {
		return errors.New("time_start must be formatted as HH:MM")
	}
	end, err := time.Parse("15:04", r.TimeEnd)
	if err != nil {
		return errors.New("time_end must be formatted as HH:MM")
	}
	if !start.Before(end) {
		return errors.New("time_start must be before time_end")
	}
	return nil
}

// StartsAfter reports whether the reservation slot begins after the given
// instant, comparing in the instant's location.
func (r *Reservation) StartsAfter(t time.Time) bool {
	start, err := time.ParseInLocation("2006-01-02 15:04", r.Date+" "+r.TimeStart, t.Location())
	if err != nil {
		return false
	}
	return start.After(t)
}

// ReservationsListOptions controls filtering for reservation listings.
// Notes:
// - UserID scopes to a single user's bookings.
// - Q is the inspector search: ILIKE substring over spot name and user name.
// - Date and Status match exactly when set.
type ReservationsListOptions struct {
	Limit  int
	Offset int
	UserID *string
	Q      *string
	Date   *string
	Status *ReservationStatus
}
