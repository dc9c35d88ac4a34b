package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/parkease/parkeased/internal/core"
	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/domain/model"
)

// OverviewServiceOptions groups dependencies for OverviewService.
type OverviewServiceOptions struct {
	ProfileRepo     core.ProfileRepository
	SpotRepo        core.SpotRepository
	ReservationRepo core.ReservationRepository
	Logger          *slog.Logger
}

// OverviewService assembles the admin dashboard counts.
type OverviewService struct {
	profiles     core.ProfileRepository
	spots        core.SpotRepository
	reservations core.ReservationRepository
	logger       *slog.Logger
}

// NewOverviewService constructs a new OverviewService.
func NewOverviewService(opts OverviewServiceOptions) *OverviewService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &OverviewService{
		profiles:     opts.ProfileRepo,
		spots:        opts.SpotRepo,
		reservations: opts.ReservationRepo,
		logger:       logger.With("component", "overview_service"),
	}
}

// Overview is the admin dashboard snapshot.
type Overview struct {
	Users                int `json:"users"`
	Spots                int `json:"spots"`
	SpotsAvailable       int `json:"spots_available"`
	Reservations         int `json:"reservations"`
	ReservationsUpcoming int `json:"reservations_upcoming"`
	ReservationsActive   int `json:"reservations_active"`
}

// Snapshot gathers the dashboard counts concurrently. Any failing count
// fails the snapshot.
func (s *OverviewService) Snapshot(ctx context.Context) (*Overview, error) {
	g, gctx := errgroup.WithContext(ctx)
	var overview Overview

	g.Go(func() error {
		n, err := s.profiles.Count(gctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		overview.Users = n
		return nil
	})

	g.Go(func() error {
		n, err := s.spots.Count(gctx, model.SpotsListOptions{})
		if err != nil {
			return fmt.Errorf("count spots: %w", err)
		}
		overview.Spots = n
		return nil
	})

	g.Go(func() error {
		available := true
		n, err := s.spots.Count(gctx, model.SpotsListOptions{Available: &available})
		if err != nil {
			return fmt.Errorf("count available spots: %w", err)
		}
		overview.SpotsAvailable = n
		return nil
	})

	g.Go(func() error {
		n, err := s.reservations.Count(gctx, model.ReservationsListOptions{})
		if err != nil {
			return fmt.Errorf("count reservations: %w", err)
		}
		overview.Reservations = n
		return nil
	})

	g.Go(func() error {
		status := model.ReservationStatusUpcoming
		n, err := s.reservations.Count(gctx, model.ReservationsListOptions{Status: &status})
		if err != nil {
			return fmt.Errorf("count upcoming reservations: %w", err)
		}
		overview.ReservationsUpcoming = n
		return nil
	})

	g.Go(func() error {
		status := model.ReservationStatusActive
		n, err := s.reservations.Count(gctx, model.ReservationsListOptions{Status: &status})
		if err != nil {
			return fmt.Errorf("count active reservations: %w", err)
		}
		overview.ReservationsActive = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}

// UserPage is a page of user profiles with the unpaged total.
type UserPage struct {
	Items []*domainauth.Profile `json:"items"`
	Total int                   `json:"total"`
}

// Users returns a page of user profiles for the admin screen, newest first.
func (s *OverviewService) Users(ctx context.Context, limit, offset int) (*UserPage, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.profiles.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	total, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return &UserPage{Items: items, Total: total}, nil
}
