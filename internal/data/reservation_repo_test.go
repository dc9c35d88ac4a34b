package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkease/parkeased/internal/core"
	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/domain/model"
	"github.com/parkease/parkeased/internal/testutil"
)

func createTestProfile(t *testing.T, db *sql.DB, uid, name string) {
	t.Helper()
	repo := NewProfileRepo(db)
	require.NoError(t, repo.Set(context.Background(), domainauth.Profile{
		ID:          uid,
		Email:       uid + "@example.com",
		Role:        domainauth.RoleUser,
		DisplayName: name,
	}, false))
}

func TestReservationRepo_Create_Get_List(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewReservationRepo(db)

		spot := createTestSpot(t, db, fmt.Sprintf("res-spot-%d", time.Now().UnixNano()))
		createTestProfile(t, db, "uid-res-1", "Kim Park")

		req := &model.CreateReservationRequest{
			SpotID:    spot.ID,
			Date:      "2026-09-01",
			TimeStart: "09:00",
			TimeEnd:   "11:00",
		}
		res, err := repo.Create(ctx, core.CreateReservationParams{UserID: "uid-res-1", Req: req})
		require.NoError(t, err)
		require.NotEmpty(t, res.ID)
		assert.Equal(t, model.ReservationStatusUpcoming, res.Status)
		assert.False(t, res.Verified)

		// get
		got, err := repo.GetByID(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, "09:00", got.TimeStart)

		// detail join
		detail, err := repo.GetDetailByID(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, spot.Name, detail.SpotName)
		assert.Equal(t, spot.Address, detail.SpotAddress)
		assert.Equal(t, "Kim Park", detail.UserName)

		// list scoped to user
		uid := "uid-res-1"
		lst, err := repo.List(ctx, model.ReservationsListOptions{UserID: &uid})
		require.NoError(t, err)
		require.Len(t, lst, 1)

		// list by date
		date := "2026-09-01"
		byDate, err := repo.List(ctx, model.ReservationsListOptions{Date: &date})
		require.NoError(t, err)
		require.Len(t, byDate, 1)

		// inspector search by user name
		q := "Kim"
		found, err := repo.List(ctx, model.ReservationsListOptions{Q: &q})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, res.ID, found[0].ID)

		// count
		count, err := repo.Count(ctx, model.ReservationsListOptions{UserID: &uid})
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestReservationRepo_Overlap(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewReservationRepo(db)

		spot := createTestSpot(t, db, fmt.Sprintf("ovl-spot-%d", time.Now().UnixNano()))
		createTestProfile(t, db, "uid-ovl-1", "Dana Lee")

		base := &model.CreateReservationRequest{
			SpotID:    spot.ID,
			Date:      "2026-09-02",
			TimeStart: "10:00",
			TimeEnd:   "12:00",
		}
		_, err := repo.Create(ctx, core.CreateReservationParams{UserID: "uid-ovl-1", Req: base})
		require.NoError(t, err)

		tests := []struct {
			name        string
			start, end  string
			wantOverlap bool
		}{
			{"inside existing window", "10:30", "11:30", true},
			{"straddles window start", "09:00", "10:30", true},
			{"straddles window end", "11:30", "13:00", true},
			{"contains existing window", "09:00", "13:00", true},
			{"ends at window start", "08:00", "10:00", false},
			{"starts at window end", "12:00", "14:00", false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				overlap, err := repo.HasOverlap(ctx, &model.CreateReservationRequest{
					SpotID:    spot.ID,
					Date:      "2026-09-02",
					TimeStart: tt.start,
					TimeEnd:   tt.end,
				})
				require.NoError(t, err)
				assert.Equal(t, tt.wantOverlap, overlap)
			})
		}

		// cancelled bookings release the window
		other, err := repo.Create(ctx, core.CreateReservationParams{
			UserID: "uid-ovl-1",
			Req: &model.CreateReservationRequest{
				SpotID:    spot.ID,
				Date:      "2026-09-03",
				TimeStart: "10:00",
				TimeEnd:   "12:00",
			},
		})
		require.NoError(t, err)
		_, err = repo.SetStatus(ctx, other.ID, model.ReservationStatusCancelled)
		require.NoError(t, err)

		overlap, err := repo.HasOverlap(ctx, &model.CreateReservationRequest{
			SpotID:    spot.ID,
			Date:      "2026-09-03",
			TimeStart: "10:00",
			TimeEnd:   "12:00",
		})
		require.NoError(t, err)
		assert.False(t, overlap)
	})
}

func TestReservationRepo_CreateRejectsDoubleBooking(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewReservationRepo(db)

		spot := createTestSpot(t, db, fmt.Sprintf("dbl-spot-%d", time.Now().UnixNano()))
		createTestProfile(t, db, "uid-dbl-1", "Noa Kim")
		createTestProfile(t, db, "uid-dbl-2", "Ira Chen")

		_, err := repo.Create(ctx, core.CreateReservationParams{
			UserID: "uid-dbl-1",
			Req: &model.CreateReservationRequest{
				SpotID:    spot.ID,
				Date:      "2026-09-05",
				TimeStart: "10:00",
				TimeEnd:   "12:00",
			},
		})
		require.NoError(t, err)

		// A second insert for an overlapping window must be rejected by the
		// database itself, without any prior HasOverlap call. This is the
		// path two concurrent creates race down.
		_, err = repo.Create(ctx, core.CreateReservationParams{
			UserID: "uid-dbl-2",
			Req: &model.CreateReservationRequest{
				SpotID:    spot.ID,
				Date:      "2026-09-05",
				TimeStart: "11:00",
				TimeEnd:   "13:00",
			},
		})
		require.ErrorIs(t, err, ErrReservationOverlap)

		// Back-to-back windows share a boundary minute and do not conflict.
		_, err = repo.Create(ctx, core.CreateReservationParams{
			UserID: "uid-dbl-2",
			Req: &model.CreateReservationRequest{
				SpotID:    spot.ID,
				Date:      "2026-09-05",
				TimeStart: "12:00",
				TimeEnd:   "14:00",
			},
		})
		require.NoError(t, err)

		// A cancelled reservation releases the slot for new inserts.
		held, err := repo.Create(ctx, core.CreateReservationParams{
			UserID: "uid-dbl-1",
			Req: &model.CreateReservationRequest{
				SpotID:    spot.ID,
				Date:      "2026-09-06",
				TimeStart: "10:00",
				TimeEnd:   "12:00",
			},
		})
		require.NoError(t, err)
		_, err = repo.SetStatus(ctx, held.ID, model.ReservationStatusCancelled)
		require.NoError(t, err)

		_, err = repo.Create(ctx, core.CreateReservationParams{
			UserID: "uid-dbl-2",
			Req: &model.CreateReservationRequest{
				SpotID:    spot.ID,
				Date:      "2026-09-06",
				TimeStart: "10:00",
				TimeEnd:   "12:00",
			},
		})
		require.NoError(t, err)
	})
}

func TestReservationRepo_StatusAndVerify(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewReservationRepo(db)

		spot := createTestSpot(t, db, fmt.Sprintf("ver-spot-%d", time.Now().UnixNano()))
		createTestProfile(t, db, "uid-ver-1", "Sam Gray")

		res, err := repo.Create(ctx, core.CreateReservationParams{
			UserID: "uid-ver-1",
			Req: &model.CreateReservationRequest{
				SpotID:    spot.ID,
				Date:      "2026-09-04",
				TimeStart: "08:00",
				TimeEnd:   "09:00",
			},
		})
		require.NoError(t, err)

		verified, err := repo.SetVerified(ctx, core.VerifyReservationParams{ID: res.ID, Verified: true})
		require.NoError(t, err)
		assert.True(t, verified.Verified)

		completed, err := repo.SetStatus(ctx, res.ID, model.ReservationStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, model.ReservationStatusCompleted, completed.Status)

		_, err = repo.SetStatus(ctx, res.ID, model.ReservationStatus("bogus"))
		require.Error(t, err)

		_, err = repo.SetVerified(ctx, core.VerifyReservationParams{ID: "00000000-0000-0000-0000-000000000000", Verified: true})
		require.ErrorIs(t, err, ErrReservationNotFound)

		// missing spot FK maps to spot-not-found
		_, err = repo.Create(ctx, core.CreateReservationParams{
			UserID: "uid-ver-1",
			Req: &model.CreateReservationRequest{
				SpotID:    "00000000-0000-0000-0000-000000000000",
				Date:      "2026-09-04",
				TimeStart: "08:00",
				TimeEnd:   "09:00",
			},
		})
		require.ErrorIs(t, err, ErrSpotNotFound)
	})
}
