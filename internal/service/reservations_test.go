package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/parkease/parkeased/internal/core"
	"github.com/parkease/parkeased/internal/data"
	"github.com/parkease/parkeased/internal/domain/model"
	apperrors "github.com/parkease/parkeased/internal/errors"
	"github.com/parkease/parkeased/internal/mocks"
	"github.com/parkease/parkeased/internal/observability/notify"
)

const (
	testReservationID = "a7de5a16-7e43-45dd-9c6f-2f6d2e6a9b02"
	testUserID        = "user-1"
)

var testNow = time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

type reservationFixture struct {
	reservations *mocks.MockReservationRepository
	spots        *mocks.MockSpotRepository
	service      *ReservationService
	events       []notify.ReservationEventPayload
}

func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &reservationFixture{
		reservations: mocks.NewMockReservationRepository(ctrl),
		spots:        mocks.NewMockSpotRepository(ctrl),
	}
	f.service = NewReservationService(ReservationServiceOptions{
		ReservationRepo: f.reservations,
		SpotRepo:        f.spots,
		Notifier: notify.SinkFunc(func(_ context.Context, payload notify.ReservationEventPayload) error {
			f.events = append(f.events, payload)
			return nil
		}),
		Now: func() time.Time { return testNow },
	})
	return f
}

func testCreateReq() *model.CreateReservationRequest {
	return &model.CreateReservationRequest{
		SpotID:    testSpotID,
		Date:      "2026-08-30",
		TimeStart: "09:00",
		TimeEnd:   "11:00",
	}
}

func testReservation(status model.ReservationStatus) *model.Reservation {
	return &model.Reservation{
		ID:        testReservationID,
		SpotID:    testSpotID,
		UserID:    testUserID,
		Date:      "2026-08-30",
		TimeStart: "09:00",
		TimeEnd:   "11:00",
		Status:    status,
		CreatedAt: testNow,
	}
}

func TestReservationService_Create_Success(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t)

	ctx := context.Background()
	req := testCreateReq()
	expected := testReservation(model.ReservationStatusUpcoming)

	f.spots.EXPECT().
		GetByID(ctx, testSpotID).
		Return(testSpot(), nil).
		Times(1)
	f.reservations.EXPECT().
		HasOverlap(ctx, req).
		Return(false, nil).
		Times(1)
	f.reservations.EXPECT().
		Create(ctx, core.CreateReservationParams{
			UserID: testUserID,
			Req:    req,
			Status: model.ReservationStatusUpcoming,
		}).
		Return(expected, nil).
		Times(1)

	result, err := f.service.Create(ctx, testUserID, req)
	require.NoError(t, err)
	assert.Equal(t, expected, result)

	require.Len(t, f.events, 1)
	assert.Equal(t, notify.EventReservationCreated, f.events[0].EventType)
	assert.Equal(t, testReservationID, f.events[0].ReservationID)
	assert.Equal(t, "Downtown Parking A", f.events[0].SpotName)
}

func TestReservationService_Create_SpotMissing(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t)

	ctx := context.Background()
	f.spots.EXPECT().
		GetByID(ctx, testSpotID).
		Return(nil, data.ErrSpotNotFound).
		Times(1)

	_, err := f.service.Create(ctx, testUserID, testCreateReq())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, f.events)
}

func TestReservationService_Create_SpotUnavailable(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t)

	ctx := context.Background()
	spot := testSpot()
	spot.Available = false
	f.spots.EXPECT().
		GetByID(ctx, testSpotID).
		Return(spot, nil).
		Times(1)

	_, err := f.service.Create(ctx, testUserID, testCreateReq())
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestReservationService_Create_OverlapRejected(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t)

	ctx := context.Background()
	req := testCreateReq()
	f.spots.EXPECT().
		GetByID(ctx, testSpotID).
		Return(testSpot(), nil).
		Times(1)
	f.reservations.EXPECT().
		HasOverlap(ctx, req).
		Return(true, nil).
		Times(1)

	_, err := f.service.Create(ctx, testUserID, req)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Empty(t, f.events)
}

func TestReservationService_Create_ValidationErrors(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t)

	cases := []struct {
		name   string
		userID string
		mutate func(*model.CreateReservationRequest)
	}{
		{"missing user", "", func(*model.CreateReservationRequest) {}},
		{"bad date", testUserID, func(r *model.CreateReservationRequest) { r.Date = "30/08/2026" }},
		{"bad start", testUserID, func(r *model.CreateReservationRequest) { r.TimeStart = "9am" }},
		{"inverted window", testUserID, func(r *model.CreateReservationRequest) {
			r.TimeStart = "11:00"
			r.TimeEnd = "09:00"
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testCreateReq()
			tc.mutate(req)
			_, err := f.service.Create(context.Background(), tc.userID, req)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestReservationService_Cancel_Success(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t)

	ctx := context.Background()
	upcoming := testReservation(model.ReservationStatusUpcoming)
	cancelled := testReservation(model.ReservationStatusCancelled)

	f.reservations.EXPECT().
		GetByID(ctx, testReservationID).
		Return(upcoming, nil).
		Times(1)
	f.reservations.EXPECT().
		SetStatus(ctx, testReservationID, model.ReservationStatusCancelled).
		Return(cancelled, nil).
		Times(1)

	result, err := f.service.Cancel(ctx, testUserID, testReservationID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusCancelled, result.Status)

	require.Len(t, f.events, 1)
	assert.Equal(t, notify.EventReservationCancelled, f.events[0].EventType)
}

func TestReservationService_Cancel_WrongUser(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t)

	ctx := context.Background()
	f.reservations.EXPECT().
		GetByID(ctx, testReservationID).
		Return(testReservation(model.ReservationStatusUpcoming), nil).
		Times(1)

	_, err := f.service.Cancel(ctx, "someone-else", testReservationID)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestReservationService_Cancel_NotUpcoming(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t)

	for _, status := range []model.ReservationStatus{
		model.ReservationStatusActive,
		model.ReservationStatusCompleted,
		model.ReservationStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			ctx := context.Background()
			f.reservations.EXPECT().
				GetByID(ctx, testReservationID).
				Return(testReservation(status), nil).
				Times(1)

			_, err := f.service.Cancel(ctx, testUserID, testReservationID)
			require.Error(t, err)
			assert.True(t, apperrors.IsConflict(err))
		})
	}
}

func TestReservationService_Cancel_AlreadyStarted(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t)

	ctx := context.Background()
	started := testReservation(model.ReservationStatusUpcoming)
	started.Date = "2026-08-29"
	started.TimeStart = "09:30" // before testNow's 10:00

	f.reservations.EXPECT().
		GetByID(ctx, testReservationID).
		Return(started, nil).
		Times(1)

	_, err := f.service.Cancel(ctx, testUserID, testReservationID)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestReservationService_ListMine(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t)

	ctx := context.Background()
	userID := testUserID
	expectedOpts := model.ReservationsListOptions{
		Limit:  defaultPageLimit,
		Offset: 0,
		UserID: &userID,
	}
	details := []*model.ReservationDetail{{
		Reservation: *testReservation(model.ReservationStatusUpcoming),
		SpotName:    "Downtown Parking A",
	}}

	f.reservations.EXPECT().
		List(ctx, expectedOpts).
		Return(details, nil).
		Times(1)
	f.reservations.EXPECT().
		Count(ctx, expectedOpts).
		Return(1, nil).
		Times(1)

	page, err := f.service.ListMine(ctx, testUserID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, details, page.Items)
	assert.Equal(t, 1, page.Total)
}

func TestReservationService_Verify_Success(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t)

	ctx := context.Background()
	verified := testReservation(model.ReservationStatusActive)
	verified.Verified = true
	detail := &model.ReservationDetail{
		Reservation: *verified,
		SpotName:    "Downtown Parking A",
		UserName:    "Sam Driver",
	}

	f.reservations.EXPECT().
		SetVerified(ctx, core.VerifyReservationParams{ID: testReservationID, Verified: true}).
		Return(verified, nil).
		Times(1)
	f.reservations.EXPECT().
		GetDetailByID(ctx, testReservationID).
		Return(detail, nil).
		Times(1)

	result, err := f.service.Verify(ctx, testReservationID, true)
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.Equal(t, "Sam Driver", result.UserName)

	require.Len(t, f.events, 1)
	assert.Equal(t, notify.EventReservationVerified, f.events[0].EventType)
	assert.True(t, f.events[0].Verified)
}

func TestReservationService_Verify_NotFound(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t)

	ctx := context.Background()
	f.reservations.EXPECT().
		SetVerified(ctx, core.VerifyReservationParams{ID: testReservationID, Verified: true}).
		Return(nil, data.ErrReservationNotFound).
		Times(1)

	_, err := f.service.Verify(ctx, testReservationID, true)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestReservationService_NotifierFailureDoesNotFailOperation(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	reservations := mocks.NewMockReservationRepository(ctrl)
	spots := mocks.NewMockSpotRepository(ctrl)
	service := NewReservationService(ReservationServiceOptions{
		ReservationRepo: reservations,
		SpotRepo:        spots,
		Notifier: notify.SinkFunc(func(context.Context, notify.ReservationEventPayload) error {
			return errors.New("sink down")
		}),
		Now: func() time.Time { return testNow },
	})

	ctx := context.Background()
	req := testCreateReq()
	spots.EXPECT().GetByID(ctx, testSpotID).Return(testSpot(), nil)
	reservations.EXPECT().HasOverlap(ctx, req).Return(false, nil)
	reservations.EXPECT().
		Create(ctx, gomock.Any()).
		Return(testReservation(model.ReservationStatusUpcoming), nil)

	_, err := service.Create(ctx, testUserID, req)
	require.NoError(t, err, "event delivery is best-effort")
}
