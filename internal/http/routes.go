package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/service"
	"github.com/parkease/parkeased/internal/session"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Session      *session.Manager
	Redirect     RedirectAuthProvider // optional redirect-capable provider
	Spots        *service.SpotService
	Reservations *service.ReservationService
	Overview     *service.OverviewService
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router with the session,
// logging, and recovery middleware applied.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Manager:  services.Session,
		Redirect: services.Redirect,
		Logger:   logger,
	}
	spotHandlers := &SpotHandlers{Svc: services.Spots}
	reservationHandlers := &ReservationHandlers{Svc: services.Reservations}
	adminHandlers := &AdminHandlers{Svc: services.Overview}

	registerAuthRoutes(mux, authHandlers)
	registerSpotRoutes(mux, spotHandlers)
	registerReservationRoutes(mux, reservationHandlers)
	registerAdminRoutes(mux, adminHandlers)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	handler := WithSession(services.Session)(mux)
	handler = Logging(logger)(handler)
	return Recover(logger)(handler)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/google", h.Google)
	mux.HandleFunc("GET /auth/google/callback", h.GoogleCallback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /session", h.Session)
}

func registerSpotRoutes(mux *http.ServeMux, h *SpotHandlers) {
	adminOnly := RequireRole(domainauth.RoleAdmin)

	// Browsing spots is public; changing them is the admin's business.
	mux.HandleFunc("GET /api/spots", h.List)
	mux.HandleFunc("GET /api/spots/{id}", h.GetByID)
	mux.Handle("POST /api/spots", adminOnly(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/spots/{id}", adminOnly(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/spots/{id}", adminOnly(http.HandlerFunc(h.Delete)))
}

func registerReservationRoutes(mux *http.ServeMux, h *ReservationHandlers) {
	authed := RequireAuth()
	inspectorOnly := RequireRole(domainauth.RoleInspector)

	mux.Handle("POST /api/reservations", authed(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/reservations", authed(http.HandlerFunc(h.ListMine)))
	mux.Handle("DELETE /api/reservations/{id}", authed(http.HandlerFunc(h.Cancel)))

	mux.Handle("GET /api/inspector/reservations", inspectorOnly(http.HandlerFunc(h.InspectorList)))
	mux.Handle("POST /api/inspector/reservations/{id}/verify", inspectorOnly(http.HandlerFunc(h.Verify)))
}

func registerAdminRoutes(mux *http.ServeMux, h *AdminHandlers) {
	adminOnly := RequireRole(domainauth.RoleAdmin)

	mux.Handle("GET /api/admin/overview", adminOnly(http.HandlerFunc(h.Overview)))
	mux.Handle("GET /api/admin/users", adminOnly(http.HandlerFunc(h.Users)))
}
