package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/session.

import (
	"context"
	"errors"

	domainauth "github.com/parkease/parkeased/internal/domain/auth"
)

// Provider error codes. The vocabulary mirrors the identity provider's own
// codes; auth/popup-blocked is the one the session manager must be able to
// tell apart from every other failure.
const (
	CodePopupBlocked      = "auth/popup-blocked"
	CodeEmailInUse        = "auth/email-already-in-use"
	CodeInvalidCredential = "auth/invalid-credential"
	CodeWeakPassword      = "auth/weak-password"
	CodeNetwork           = "auth/network-request-failed"
)

// ProviderError is a failure reported by the identity provider, carrying the
// provider's error code alongside its message.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// NewProviderError constructs a ProviderError from a code and message.
func NewProviderError(code, message string) *ProviderError {
	return &ProviderError{Code: code, Message: message}
}

// ProviderCode extracts the provider error code from err, or empty string.
func ProviderCode(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsPopupBlocked reports whether err is the provider's popup-blocked
// condition, the only failure that triggers the redirect fallback.
func IsPopupBlocked(err error) bool {
	return ProviderCode(err) == CodePopupBlocked
}

// IdentityProvider is the external identity service: email+password
// registration and login, a federated (Google) login with popup-or-redirect
// fallback, sign-out, and an auth-state-changed subscription.
//
// The subscription is the single source of truth for the current identity:
// CreateAccount/SignIn/SignOut trigger provider-side state changes that the
// subscription observes, exactly once per change, in provider order.
type IdentityProvider interface {
	// CreateAccount registers a new email+password credential account.
	CreateAccount(ctx context.Context, email, password string) (domainauth.Identity, error)

	// SignIn performs an email+password credential sign-in.
	SignIn(ctx context.Context, email, password string) (domainauth.Identity, error)

	// SignInWithPopup performs an interactive federated login and blocks
	// until it completes. Fails with CodePopupBlocked when the interactive
	// channel cannot be opened.
	SignInWithPopup(ctx context.Context) (domainauth.Identity, error)

	// SignInWithRedirect starts a redirect-based federated login whose
	// result is collected later via RedirectResult.
	SignInWithRedirect(ctx context.Context) error

	// RedirectResult returns the identity from a completed redirect login,
	// or (nil, nil) when no redirect result is pending.
	RedirectResult(ctx context.Context) (*domainauth.Identity, error)

	// SignOut destroys the provider-side identity.
	SignOut(ctx context.Context) error

	// Subscribe registers fn to be invoked on every auth-state change with
	// the new identity (nil when signed out). The returned function
	// releases the subscription.
	Subscribe(fn func(*domainauth.Identity)) (unsubscribe func())
}

// ErrProfileNotFound is returned by ProfileStore.Get when no record exists
// for the given id.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileStore is the document store holding role-tagged profile records
// keyed by identity UID.
type ProfileStore interface {
	// Get fetches the profile record for id, or ErrProfileNotFound.
	Get(ctx context.Context, id string) (*domainauth.Profile, error)

	// Set writes the profile record. With merge true, zero-valued fields of
	// the incoming record leave any existing stored values in place;
	// otherwise the record is overwritten wholesale.
	Set(ctx context.Context, profile domainauth.Profile, merge bool) error
}

// RoleResolver derives the privileged role for an email at registration or
// federated-login time. It never returns RoleGuest: guests are, by
// definition, not signed in.
type RoleResolver interface {
	Resolve(email string) domainauth.Role
}
