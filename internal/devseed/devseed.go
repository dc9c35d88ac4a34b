// Package devseed populates a development database with sample parking
// spots, user profiles, and reservations. Seeding is idempotent: records
// that already exist are left in place.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/parkease/parkeased/internal/data"
	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/domain/model"
	apperrors "github.com/parkease/parkeased/internal/errors"
	"github.com/parkease/parkeased/internal/service"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB           *sql.DB
	spots        *service.SpotService
	reservations *service.ReservationService
	profiles     *data.ProfileRepo
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	spotRepo := data.NewSpotRepo(db)
	reservationRepo := data.NewReservationRepo(db)

	return Services{
		DB:    db,
		spots: service.NewSpotService(service.SpotServiceOptions{SpotRepo: spotRepo}),
		reservations: service.NewReservationService(service.ReservationServiceOptions{
			ReservationRepo: reservationRepo,
			SpotRepo:        spotRepo,
		}),
		profiles: data.NewProfileRepo(db),
	}
}

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	failures := 0
	failures += seedProfiles(ctx, svcs.profiles, logger)

	spots, spotFailures := seedSpots(ctx, svcs.spots, logger)
	failures += spotFailures
	failures += seedReservations(ctx, svcs.reservations, spots, logger)

	if failures > 0 {
		return fmt.Errorf("seeding completed with %d failures", failures)
	}
	return nil
}

func seedProfiles(ctx context.Context, repo *data.ProfileRepo, logger *slog.Logger) int {
	failures := 0
	profiles := []domainauth.Profile{
		{ID: "seed-admin", Email: "admin@parkease.dev", DisplayName: "Ada Admin", Role: domainauth.RoleAdmin},
		{ID: "seed-inspector", Email: "inspector@parkease.dev", DisplayName: "Iris Inspector", Role: domainauth.RoleInspector},
		{ID: "seed-user", Email: "sam@parkease.dev", DisplayName: "Sam Driver", Role: domainauth.RoleUser},
	}

	for _, profile := range profiles {
		// Merge write keeps any existing record's created_at intact.
		if err := repo.Set(ctx, profile, true); err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed profile", "email", profile.Email, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "seeded profile", "email", profile.Email, "role", profile.Role)
		}
	}

	return failures
}

func defaultSpots() []*model.CreateSpotRequest {
	return []*model.CreateSpotRequest{
		{Name: "Downtown Parking A", Address: "123 Main St", PricePerHour: 5},
		{Name: "City Center Parking", Address: "456 Oak Ave", PricePerHour: 8},
		{Name: "North Side Parking", Address: "789 Pine Rd", PricePerHour: 6},
		{Name: "West End Garage", Address: "321 Elm St", PricePerHour: 7},
	}
}

// seedSpots creates the sample spots and returns the resolved records keyed
// by name, including spots that already existed.
func seedSpots(
	ctx context.Context,
	svc *service.SpotService,
	logger *slog.Logger,
) (map[string]*model.ParkingSpot, int) {
	failures := 0
	spots := make(map[string]*model.ParkingSpot, len(defaultSpots()))

	for _, req := range defaultSpots() {
		spot, created, err := createOrFetchSpot(ctx, svc, req)
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to create spot", "name", req.Name, "error", err)
			}
			failures++
			continue
		}
		spots[spot.Name] = spot
		if logger != nil {
			msg := "spot already exists"
			if created {
				msg = "created spot"
			}
			logger.InfoContext(ctx, msg, "name", spot.Name)
		}
	}

	return spots, failures
}

func createOrFetchSpot(
	ctx context.Context,
	svc *service.SpotService,
	req *model.CreateSpotRequest,
) (*model.ParkingSpot, bool, error) {
	spot, err := svc.Create(ctx, req)
	if err == nil {
		return spot, true, nil
	}
	if !apperrors.IsConflict(err) {
		return nil, false, err
	}

	// Duplicate name: look the existing record up by its exact name.
	name := req.Name
	page, listErr := svc.List(ctx, model.SpotsListOptions{Q: &name, Limit: 1})
	if listErr != nil {
		return nil, false, listErr
	}
	if len(page.Items) == 0 {
		return nil, false, err
	}
	return page.Items[0], false, nil
}

func seedReservations(
	ctx context.Context,
	svc *service.ReservationService,
	spots map[string]*model.ParkingSpot,
	logger *slog.Logger,
) int {
	failures := 0
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	seeds := []struct {
		userID   string
		spotName string
		start    string
		end      string
	}{
		{userID: "seed-user", spotName: "Downtown Parking A", start: "09:00", end: "11:00"},
		{userID: "seed-user", spotName: "City Center Parking", start: "14:00", end: "16:00"},
		{userID: "seed-admin", spotName: "North Side Parking", start: "10:00", end: "12:00"},
	}

	for _, seed := range seeds {
		spot, ok := spots[seed.spotName]
		if !ok {
			continue
		}
		_, err := svc.Create(ctx, seed.userID, &model.CreateReservationRequest{
			SpotID:    spot.ID,
			Date:      tomorrow,
			TimeStart: seed.start,
			TimeEnd:   seed.end,
		})
		if err != nil {
			if apperrors.IsConflict(err) {
				if logger != nil {
					logger.InfoContext(ctx, "reservation already exists",
						"spot", seed.spotName, "date", tomorrow, "start", seed.start)
				}
				continue
			}
			if logger != nil {
				logger.ErrorContext(ctx, "failed to create reservation",
					"spot", seed.spotName, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "created reservation",
				"spot", seed.spotName, "date", tomorrow, "start", seed.start, "end", seed.end)
		}
	}

	return failures
}
