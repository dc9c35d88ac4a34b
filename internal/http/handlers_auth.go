package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/session"
)

const minPasswordLen = 6

// RedirectAuthProvider is the optional surface a provider exposes when it
// supports the redirect-based federated login. The google identity adapter
// implements it; the dev provider does not need to.
type RedirectAuthProvider interface {
	// PendingAuthURL returns the authorization URL of the pending redirect
	// login, or "" when none is pending.
	PendingAuthURL() string
	// HandleCallback consumes the provider's redirect landing.
	HandleCallback(ctx context.Context, code, state string) error
}

// AuthHandlers provides HTTP handlers for session and authentication
// operations, backed by the session manager.
type AuthHandlers struct {
	Manager *session.Manager
	// Redirect is non-nil when the identity provider supports the
	// redirect login flow.
	Redirect RedirectAuthProvider
	Logger   *slog.Logger
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/register. Field checks happen here at the
// edge; everything past them is the provider's to judge.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := validateCredentials(req.Email, req.Password); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		return
	}

	sess, err := h.Manager.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, sessionView(sess))
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation_failed",
			Err:     errors.New("email and password are required"),
		})
		return
	}

	sess, err := h.Manager.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sessionView(sess))
}

// Google handles POST /auth/google: the federated login. A completed popup
// login returns the session; a blocked popup returns 202 with the
// authorization URL the client must visit to continue via redirect.
func (h *AuthHandlers) Google(w http.ResponseWriter, r *http.Request) {
	result, err := h.Manager.LoginWithGoogle(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	if result.RedirectStarted {
		body := map[string]any{"status": "redirect_started"}
		if h.Redirect != nil {
			body["auth_url"] = h.Redirect.PendingAuthURL()
		}
		WriteJSON(w, http.StatusAccepted, body)
		return
	}
	WriteJSON(w, http.StatusOK, sessionView(result.Session))
}

// GoogleCallback handles GET /auth/google/callback: the provider's redirect
// landing. It hands the code to the provider, then collects the completed
// login through the manager.
func (h *AuthHandlers) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.Redirect == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "redirect_login_unavailable",
			Err:     errors.New("the identity provider does not support redirect login"),
		})
		return
	}

	q := r.URL.Query()
	code, state := q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_callback",
			Err:     errors.New("code and state are required"),
		})
		return
	}

	if err := h.Redirect.HandleCallback(r.Context(), code, state); err != nil {
		if h.Logger != nil {
			h.Logger.WarnContext(r.Context(), "redirect callback rejected", "error", err)
		}
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_callback", Err: err})
		return
	}

	if _, err := h.Manager.CollectRedirectResult(r.Context()); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sessionView(h.Manager.Snapshot()))
}

// Logout handles POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Manager.Logout(r.Context()); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"signed_out": true})
}

// Session handles GET /session: the current snapshot.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, sessionView(SessionFromRequest(r)))
}

// sessionView is the wire form of a session snapshot. The role flags are
// precomputed so clients need no knowledge of the role rules.
func sessionView(sess domainauth.Session) map[string]any {
	return map[string]any{
		"identity":     sess.Identity,
		"profile":      sess.Profile,
		"loading":      sess.Loading,
		"last_error":   sess.LastError,
		"role":         sess.Role(),
		"is_admin":     sess.IsAdmin(),
		"is_inspector": sess.IsInspector(),
		"is_user":      sess.IsUser(),
		"is_guest":     sess.IsGuest(),
	}
}

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("email is required")
	}
	if password == "" {
		return errors.New("password is required")
	}
	if len(password) < minPasswordLen {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}
