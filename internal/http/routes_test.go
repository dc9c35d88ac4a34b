package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/parkease/parkeased/internal/adapters/authroles"
	"github.com/parkease/parkeased/internal/core"
	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/domain/model"
	"github.com/parkease/parkeased/internal/mocks"
	mocksauth "github.com/parkease/parkeased/internal/mocks/auth"
	"github.com/parkease/parkeased/internal/ports"
	"github.com/parkease/parkeased/internal/service"
	"github.com/parkease/parkeased/internal/session"
)

type routerFixture struct {
	provider     *mocksauth.MockIdentityProvider
	store        *mocksauth.MemoryProfileStore
	manager      *session.Manager
	spots        *mocks.MockSpotRepository
	reservations *mocks.MockReservationRepository
	profiles     *mocks.MockProfileRepository
	server       *httptest.Server
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &routerFixture{
		provider:     mocksauth.NewMockIdentityProvider(),
		store:        mocksauth.NewMemoryProfileStore(),
		spots:        mocks.NewMockSpotRepository(ctrl),
		reservations: mocks.NewMockReservationRepository(ctrl),
		profiles:     mocks.NewMockProfileRepository(ctrl),
	}

	f.manager = session.NewManager(session.ManagerOptions{
		Provider: f.provider,
		Profiles: f.store,
		Roles: &authroles.EmailListResolver{
			AdminEmails:     []string{"admin@example.com"},
			InspectorEmails: []string{"inspector@example.com"},
		},
	})
	f.manager.Start(context.Background())
	t.Cleanup(f.manager.Stop)

	router := NewRouter(RouterServices{
		Session: f.manager,
		Spots:   service.NewSpotService(service.SpotServiceOptions{SpotRepo: f.spots}),
		Reservations: service.NewReservationService(service.ReservationServiceOptions{
			ReservationRepo: f.reservations,
			SpotRepo:        f.spots,
		}),
		Overview: service.NewOverviewService(service.OverviewServiceOptions{
			ProfileRepo:     f.profiles,
			SpotRepo:        f.spots,
			ReservationRepo: f.reservations,
		}),
	})
	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)
	return f
}

func (f *routerFixture) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var doc map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &doc), "body: %s", raw)
	}
	return resp, doc
}

// signIn registers the account so the role for email is derived and
// persisted before the request under test runs.
func (f *routerFixture) signIn(t *testing.T, email string) {
	t.Helper()
	resp, _ := f.do(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRouterHealth(t *testing.T) {
	f := newRouterFixture(t)
	resp, doc := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", doc["status"])
	assert.Equal(t, "parkeased", doc["service"])
}

func TestRouterSessionStartsAsGuest(t *testing.T) {
	f := newRouterFixture(t)
	resp, doc := f.do(t, http.MethodGet, "/session", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, doc["is_guest"])
	assert.Equal(t, false, doc["loading"])
}

func TestRouterRegister(t *testing.T) {
	f := newRouterFixture(t)

	resp, doc := f.do(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    "admin@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, doc["is_admin"])
	assert.Equal(t, false, doc["is_guest"])

	// The snapshot endpoint agrees.
	resp, doc = f.do(t, http.MethodGet, "/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, doc["is_admin"])
}

func TestRouterRegisterValidation(t *testing.T) {
	f := newRouterFixture(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "hunter22"}},
		{"missing password", map[string]string{"email": "user@example.com"}},
		{"short password", map[string]string{"email": "user@example.com", "password": "12345"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, doc := f.do(t, http.MethodPost, "/auth/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "validation_failed", doc["error"])
		})
	}
}

func TestRouterLoginProviderError(t *testing.T) {
	f := newRouterFixture(t)
	f.provider.SignInFunc = func(context.Context, string, string) (domainauth.Identity, error) {
		return domainauth.Identity{}, ports.NewProviderError(ports.CodeInvalidCredential, "INVALID_LOGIN_CREDENTIALS")
	}

	resp, doc := f.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, ports.CodeInvalidCredential, doc["provider_code"])
	assert.Equal(t, "INVALID_LOGIN_CREDENTIALS", doc["message"])
}

func TestRouterGooglePopupBlockedReturnsAccepted(t *testing.T) {
	f := newRouterFixture(t)
	f.provider.SignInWithPopupFunc = func(context.Context) (domainauth.Identity, error) {
		return domainauth.Identity{}, ports.NewProviderError(ports.CodePopupBlocked, "popup blocked")
	}

	resp, doc := f.do(t, http.MethodPost, "/auth/google", nil)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "redirect_started", doc["status"])
}

func TestRouterLogout(t *testing.T) {
	f := newRouterFixture(t)
	f.signIn(t, "user@example.com")

	resp, _ := f.do(t, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, doc := f.do(t, http.MethodGet, "/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, doc["is_guest"])
}

func TestRouterSpotsPublicList(t *testing.T) {
	f := newRouterFixture(t)

	f.spots.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return([]*model.ParkingSpot{{ID: "s1", Name: "Downtown Parking A"}}, nil)
	f.spots.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(1, nil)

	resp, doc := f.do(t, http.MethodGet, "/api/spots?q=Downtown", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, doc["total"])
}

func TestRouterSpotWriteRequiresAdmin(t *testing.T) {
	f := newRouterFixture(t)

	body := map[string]any{"name": "New Spot", "address": "1 Way", "price_per_hour": 4}

	// Guest: 401.
	resp, _ := f.do(t, http.MethodPost, "/api/spots", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Plain user: 403.
	f.signIn(t, "user@example.com")
	resp, _ = f.do(t, http.MethodPost, "/api/spots", body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Admin: 201.
	f.signIn(t, "admin@example.com")
	f.spots.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&model.ParkingSpot{ID: "s1", Name: "New Spot"}, nil)
	resp, doc := f.do(t, http.MethodPost, "/api/spots", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "New Spot", doc["name"])
}

func TestRouterReservationCreateRequiresAuth(t *testing.T) {
	f := newRouterFixture(t)

	body := map[string]string{
		"spot_id":    "s1",
		"date":       "2026-08-30",
		"time_start": "09:00",
		"time_end":   "11:00",
	}
	resp, _ := f.do(t, http.MethodPost, "/api/reservations", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	f.signIn(t, "user@example.com")
	f.spots.EXPECT().
		GetByID(gomock.Any(), "s1").
		Return(&model.ParkingSpot{ID: "s1", Name: "Downtown Parking A", Available: true}, nil)
	f.reservations.EXPECT().
		HasOverlap(gomock.Any(), gomock.Any()).
		Return(false, nil)
	f.reservations.EXPECT().
		Create(gomock.Any(), gomock.AssignableToTypeOf(core.CreateReservationParams{})).
		DoAndReturn(func(_ context.Context, params core.CreateReservationParams) (*model.Reservation, error) {
			assert.Equal(t, "mock-uid-1", params.UserID)
			return &model.Reservation{ID: "r1", SpotID: "s1", UserID: params.UserID, Status: params.Status}, nil
		})

	resp, doc := f.do(t, http.MethodPost, "/api/reservations", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "r1", doc["id"])
}

func TestRouterInspectorEndpointsAreExactRole(t *testing.T) {
	f := newRouterFixture(t)

	// Admins are not inspectors.
	f.signIn(t, "admin@example.com")
	resp, _ := f.do(t, http.MethodGet, "/api/inspector/reservations", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	f.signIn(t, "inspector@example.com")
	f.reservations.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return([]*model.ReservationDetail{}, nil)
	f.reservations.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(0, nil)
	resp, _ = f.do(t, http.MethodGet, "/api/inspector/reservations", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouterAdminOverview(t *testing.T) {
	f := newRouterFixture(t)

	// Inspectors cannot read the admin dashboard.
	f.signIn(t, "inspector@example.com")
	resp, _ := f.do(t, http.MethodGet, "/api/admin/overview", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	f.signIn(t, "admin@example.com")
	f.profiles.EXPECT().Count(gomock.Any()).Return(3, nil)
	f.spots.EXPECT().Count(gomock.Any(), gomock.Any()).Return(4, nil).Times(2)
	f.reservations.EXPECT().Count(gomock.Any(), gomock.Any()).Return(5, nil).Times(3)

	resp, doc := f.do(t, http.MethodGet, "/api/admin/overview", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, doc["users"])
	assert.EqualValues(t, 4, doc["spots"])
}
