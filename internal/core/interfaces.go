package core

import (
	"context"

	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// ProfileRepository defines the interface for profile record operations beyond
// the ports.ProfileStore document contract: listings and counts for the admin
// surface.
type ProfileRepository interface {
	Get(ctx context.Context, id string) (*domainauth.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domainauth.Profile, error)
	Set(ctx context.Context, profile domainauth.Profile, merge bool) error
	List(ctx context.Context, limit, offset int) ([]*domainauth.Profile, error)
	Count(ctx context.Context) (int, error)
}

// SpotRepository defines the interface for parking spot data operations.
type SpotRepository interface {
	Create(ctx context.Context, req *model.CreateSpotRequest) (*model.ParkingSpot, error)
	GetByID(ctx context.Context, id string) (*model.ParkingSpot, error)
	List(ctx context.Context, opts model.SpotsListOptions) ([]*model.ParkingSpot, error)
	Count(ctx context.Context, opts model.SpotsListOptions) (int, error)
	Update(ctx context.Context, id string, req model.UpdateSpotRequest) (*model.ParkingSpot, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CreateReservationParams groups parameters for ReservationRepository.Create.
type CreateReservationParams struct {
	UserID string
	Req    *model.CreateReservationRequest
	Status model.ReservationStatus
}

// VerifyReservationParams groups parameters for ReservationRepository.SetVerified.
type VerifyReservationParams struct {
	ID       string
	Verified bool
}

// ReservationRepository defines the interface for reservation data operations.
type ReservationRepository interface {
	Create(ctx context.Context, params CreateReservationParams) (*model.Reservation, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetDetailByID(ctx context.Context, id string) (*model.ReservationDetail, error)
	List(ctx context.Context, opts model.ReservationsListOptions) ([]*model.ReservationDetail, error)
	Count(ctx context.Context, opts model.ReservationsListOptions) (int, error)
	SetStatus(ctx context.Context, id string, status model.ReservationStatus) (*model.Reservation, error)
	SetVerified(ctx context.Context, params VerifyReservationParams) (*model.Reservation, error)
	// HasOverlap reports whether an active or upcoming reservation already
	// occupies the spot for an overlapping window on the same date.
	HasOverlap(ctx context.Context, req *model.CreateReservationRequest) (bool, error)
}
