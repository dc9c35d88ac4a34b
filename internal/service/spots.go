package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/parkease/parkeased/internal/core"
	"github.com/parkease/parkeased/internal/data"
	"github.com/parkease/parkeased/internal/domain/model"
	apperrors "github.com/parkease/parkeased/internal/errors"
)

const defaultPageLimit = 50

// SpotServiceOptions groups dependencies for SpotService.
type SpotServiceOptions struct {
	SpotRepo core.SpotRepository
	Logger   *slog.Logger
}

// SpotService encapsulates business logic for parking spot CRUD.
type SpotService struct {
	spots  core.SpotRepository
	logger *slog.Logger
}

// NewSpotService constructs a new SpotService.
func NewSpotService(opts SpotServiceOptions) *SpotService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SpotService{
		spots:  opts.SpotRepo,
		logger: logger.With("component", "spot_service"),
	}
}

// SpotPage is a page of parking spots with the unpaged total.
type SpotPage struct {
	Items []*model.ParkingSpot `json:"items"`
	Total int                  `json:"total"`
}

// Create creates a parking spot.
func (s *SpotService) Create(ctx context.Context, req *model.CreateSpotRequest) (*model.ParkingSpot, error) {
	if req == nil {
		return nil, apperrors.Validation("create spot request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	spot, err := s.spots.Create(ctx, req)
	if err != nil {
		return nil, mapSpotErr(err)
	}

	s.logger.DebugContext(ctx, "parking spot created", "id", spot.ID, "name", spot.Name)
	return spot, nil
}

// GetByID retrieves a parking spot.
func (s *SpotService) GetByID(ctx context.Context, id string) (*model.ParkingSpot, error) {
	spot, err := s.spots.GetByID(ctx, id)
	if err != nil {
		return nil, mapSpotErr(err)
	}
	return spot, nil
}

// List returns a page of parking spots with the filtered total.
func (s *SpotService) List(ctx context.Context, opts model.SpotsListOptions) (*SpotPage, error) {
	opts = normalizeSpotListOptions(opts)

	items, err := s.spots.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list spots: %w", err)
	}
	total, err := s.spots.Count(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("count spots: %w", err)
	}
	return &SpotPage{Items: items, Total: total}, nil
}

// Update updates a parking spot. Nil request fields are left unchanged.
func (s *SpotService) Update(ctx context.Context, id string, req model.UpdateSpotRequest) (*model.ParkingSpot, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	spot, err := s.spots.Update(ctx, id, req)
	if err != nil {
		return nil, mapSpotErr(err)
	}

	s.logger.DebugContext(ctx, "parking spot updated", "id", spot.ID)
	return spot, nil
}

// Delete removes a parking spot. Reservations on the spot are removed with
// it (the schema cascades).
func (s *SpotService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.spots.Delete(ctx, id)
	if err != nil {
		return false, mapSpotErr(err)
	}
	if deleted {
		s.logger.DebugContext(ctx, "parking spot deleted", "id", id)
	}
	return deleted, nil
}

func normalizeSpotListOptions(opts model.SpotsListOptions) model.SpotsListOptions {
	if opts.Limit <= 0 {
		opts.Limit = defaultPageLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}

func mapSpotErr(err error) error {
	switch {
	case errors.Is(err, data.ErrSpotNotFound):
		return apperrors.NotFound("parking spot not found")
	case errors.Is(err, data.ErrSpotNameExists):
		return apperrors.Conflict("a parking spot with this name already exists")
	default:
		return apperrors.MapDBError(err)
	}
}
