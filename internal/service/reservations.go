package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/parkease/parkeased/internal/core"
	"github.com/parkease/parkeased/internal/data"
	"github.com/parkease/parkeased/internal/domain/model"
	apperrors "github.com/parkease/parkeased/internal/errors"
	"github.com/parkease/parkeased/internal/observability/notify"
)

// ReservationServiceOptions groups dependencies for ReservationService.
type ReservationServiceOptions struct {
	ReservationRepo core.ReservationRepository
	SpotRepo        core.SpotRepository
	// Notifier receives reservation lifecycle events. Optional; delivery
	// failures are logged and never fail the operation.
	Notifier notify.Sink
	Logger   *slog.Logger
	// Now is overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

// ReservationService encapsulates business logic for booking, cancelling,
// and inspecting reservations.
type ReservationService struct {
	reservations core.ReservationRepository
	spots        core.SpotRepository
	notifier     notify.Sink
	logger       *slog.Logger
	now          func() time.Time
}

// NewReservationService constructs a new ReservationService.
func NewReservationService(opts ReservationServiceOptions) *ReservationService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: opts.ReservationRepo,
		spots:        opts.SpotRepo,
		notifier:     opts.Notifier,
		logger:       logger.With("component", "reservation_service"),
		now:          now,
	}
}

// ReservationPage is a page of reservation details with the unpaged total.
type ReservationPage struct {
	Items []*model.ReservationDetail `json:"items"`
	Total int                        `json:"total"`
}

// Create books a spot for the given user. The spot must exist and be
// available, and the requested window must not overlap an active or
// upcoming reservation on the same spot and date.
func (s *ReservationService) Create(
	ctx context.Context,
	userID string,
	req *model.CreateReservationRequest,
) (*model.Reservation, error) {
	if userID == "" {
		return nil, apperrors.Validation("user id is required")
	}
	if req == nil {
		return nil, apperrors.Validation("create reservation request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	spot, err := s.spots.GetByID(ctx, req.SpotID)
	if err != nil {
		return nil, mapSpotErr(err)
	}
	if !spot.Available {
		return nil, apperrors.Conflict("parking spot is not available")
	}

	taken, err := s.reservations.HasOverlap(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("check overlap: %w", err)
	}
	if taken {
		return nil, apperrors.Conflict("the spot is already booked for this time window")
	}

	res, err := s.reservations.Create(ctx, core.CreateReservationParams{
		UserID: userID,
		Req:    req,
		Status: model.ReservationStatusUpcoming,
	})
	if err != nil {
		return nil, mapReservationErr(err)
	}

	s.logger.InfoContext(ctx, "reservation created",
		"id", res.ID, "spot_id", res.SpotID, "user_id", res.UserID, "date", res.Date)
	s.emit(ctx, notify.EventReservationCreated, res, spot.Name)
	return res, nil
}

// ListMine returns the given user's reservations, newest first.
func (s *ReservationService) ListMine(
	ctx context.Context,
	userID string,
	limit, offset int,
) (*ReservationPage, error) {
	if userID == "" {
		return nil, apperrors.Validation("user id is required")
	}
	opts := normalizeReservationListOptions(model.ReservationsListOptions{
		Limit:  limit,
		Offset: offset,
		UserID: &userID,
	})
	return s.page(ctx, opts)
}

// Cancel cancels one of the given user's reservations. Only upcoming
// reservations whose slot has not started yet can be cancelled.
func (s *ReservationService) Cancel(ctx context.Context, userID, id string) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, mapReservationErr(err)
	}
	if res.UserID != userID {
		return nil, apperrors.Forbidden("reservation belongs to another user")
	}
	if res.Status != model.ReservationStatusUpcoming {
		return nil, apperrors.Conflict("only upcoming reservations can be cancelled")
	}
	if !res.StartsAfter(s.now()) {
		return nil, apperrors.Conflict("the reservation slot has already started")
	}

	res, err = s.reservations.SetStatus(ctx, id, model.ReservationStatusCancelled)
	if err != nil {
		return nil, mapReservationErr(err)
	}

	s.logger.InfoContext(ctx, "reservation cancelled", "id", res.ID, "user_id", res.UserID)
	s.emit(ctx, notify.EventReservationCancelled, res, "")
	return res, nil
}

// Search is the inspector listing: filter by spot or user name substring,
// date, and status.
func (s *ReservationService) Search(
	ctx context.Context,
	opts model.ReservationsListOptions,
) (*ReservationPage, error) {
	return s.page(ctx, normalizeReservationListOptions(opts))
}

// Verify records an inspector's verification decision and returns the
// updated detail row.
func (s *ReservationService) Verify(ctx context.Context, id string, verified bool) (*model.ReservationDetail, error) {
	res, err := s.reservations.SetVerified(ctx, core.VerifyReservationParams{ID: id, Verified: verified})
	if err != nil {
		return nil, mapReservationErr(err)
	}

	detail, err := s.reservations.GetDetailByID(ctx, id)
	if err != nil {
		return nil, mapReservationErr(err)
	}

	s.logger.InfoContext(ctx, "reservation verification set", "id", id, "verified", verified)
	if verified {
		s.emit(ctx, notify.EventReservationVerified, res, detail.SpotName)
	}
	return detail, nil
}

// GetDetail returns a reservation joined with spot and user display data.
func (s *ReservationService) GetDetail(ctx context.Context, id string) (*model.ReservationDetail, error) {
	detail, err := s.reservations.GetDetailByID(ctx, id)
	if err != nil {
		return nil, mapReservationErr(err)
	}
	return detail, nil
}

func (s *ReservationService) page(
	ctx context.Context,
	opts model.ReservationsListOptions,
) (*ReservationPage, error) {
	items, err := s.reservations.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	total, err := s.reservations.Count(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}
	return &ReservationPage{Items: items, Total: total}, nil
}

// emit delivers a reservation event to the configured sink. Delivery is
// best-effort: a failure is logged and does not fail the operation.
func (s *ReservationService) emit(ctx context.Context, eventType string, res *model.Reservation, spotName string) {
	if s.notifier == nil || res == nil {
		return
	}
	payload := notify.ReservationEventPayload{
		EventType:     eventType,
		ReservationID: res.ID,
		SpotID:        res.SpotID,
		SpotName:      spotName,
		UserID:        res.UserID,
		Date:          res.Date,
		TimeStart:     res.TimeStart,
		TimeEnd:       res.TimeEnd,
		Status:        string(res.Status),
		Verified:      res.Verified,
		OccurredAt:    s.now(),
	}
	if err := s.notifier.SendReservationEvent(ctx, payload); err != nil {
		s.logger.WarnContext(ctx, "reservation event delivery failed",
			"event_type", eventType, "reservation_id", res.ID, "error", err)
	}
}

func normalizeReservationListOptions(opts model.ReservationsListOptions) model.ReservationsListOptions {
	if opts.Limit <= 0 {
		opts.Limit = defaultPageLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}

func mapReservationErr(err error) error {
	switch {
	case errors.Is(err, data.ErrReservationNotFound):
		return apperrors.NotFound("reservation not found")
	case errors.Is(err, data.ErrReservationOverlap):
		return apperrors.Conflict("the spot is already booked for this time window")
	case errors.Is(err, data.ErrSpotNotFound):
		return apperrors.NotFound("parking spot not found")
	default:
		return apperrors.MapDBError(err)
	}
}
